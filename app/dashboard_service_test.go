package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popdash/domain/population"
	"popdash/internal/config"
	"popdash/internal/errors"
	"popdash/ports"
)

type fakeProvider struct {
	ds          *population.Dataset
	err         error
	invalidated int
}

func (p *fakeProvider) Get(ctx context.Context) (*population.Dataset, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.ds, nil
}

func (p *fakeProvider) Invalidate() { p.invalidated++ }

type countingRenderer struct {
	lines atomic.Int32
	bars  atomic.Int32
	fail  error
}

func (r *countingRenderer) LineChart(ctx context.Context, records []population.Record, opts ports.ChartOptions) ([]byte, error) {
	r.lines.Add(1)
	if r.fail != nil {
		return nil, r.fail
	}
	return []byte(fmt.Sprintf("line:%d:%s", len(records), opts.Format)), nil
}

func (r *countingRenderer) BarChart(ctx context.Context, records []population.Record, opts ports.ChartOptions) ([]byte, error) {
	r.bars.Add(1)
	if r.fail != nil {
		return nil, r.fail
	}
	return []byte(fmt.Sprintf("bar:%d:%s", len(records), opts.Format)), nil
}

func (r *countingRenderer) calls() int {
	return int(r.lines.Load() + r.bars.Load())
}

type stubExporter struct{}

func (stubExporter) WriteCSV(w io.Writer, records []population.Record) error {
	_, err := fmt.Fprintf(w, "csv:%d", len(records))
	return err
}

func (stubExporter) WriteXLSX(w io.Writer, records []population.Record) error {
	_, err := fmt.Fprintf(w, "xlsx:%d", len(records))
	return err
}

func exampleDataset() *population.Dataset {
	return &population.Dataset{Records: []population.Record{
		{Region: "A", Year: 2020, Population: 100},
		{Region: "A", Year: 2021, Population: 110},
		{Region: "B", Year: 2020, Population: 50},
	}}
}

func newTestService(provider *fakeProvider, renderer *countingRenderer) *DashboardService {
	return NewDashboardService(provider, renderer, stubExporter{}, Settings{
		DefaultRegions: []string{"B", "Z", "A"},
		Columns: config.ColumnConfig{
			Region:     config.DefaultRegionColumn,
			Year:       config.DefaultYearColumn,
			Population: config.DefaultPopColumn,
		},
	})
}

func TestBuildViewWorkedExample(t *testing.T) {
	svc := newTestService(&fakeProvider{ds: exampleDataset()}, &countingRenderer{})

	view, err := svc.BuildView(context.Background(), population.NewSelection("A", "B"))
	require.NoError(t, err)

	assert.Len(t, view.Filtered, 3)
	assert.Equal(t, 2021, view.LatestYear)
	assert.Equal(t, 2020, view.PriorYear)
	assert.Equal(t, int64(110), view.Summary.LatestTotal)
	assert.Equal(t, int64(150), view.Summary.PriorTotal)
	assert.Equal(t, []population.Record{{Region: "A", Year: 2021, Population: 110}}, view.Latest)
	assert.Equal(t, []string{"A", "B"}, view.Palette)
	assert.Len(t, view.RegionStats, 2)
}

func TestEmptySelectionIsWarningWithoutCharts(t *testing.T) {
	renderer := &countingRenderer{}
	svc := newTestService(&fakeProvider{ds: exampleDataset()}, renderer)

	view, err := svc.BuildView(context.Background(), population.NewSelection())
	require.Error(t, err)
	assert.Nil(t, view)
	assert.Equal(t, errors.CodeEmptySelection, errors.GetCode(err))

	_, err = svc.RenderCharts(context.Background(), view, "svg")
	require.Error(t, err)
	assert.Zero(t, renderer.calls())
}

func TestLoadFailureHaltsBeforeCharts(t *testing.T) {
	renderer := &countingRenderer{}
	provider := &fakeProvider{err: errors.DatasetUnavailable(stderrors.New("open data.csv: no such file"))}
	svc := newTestService(provider, renderer)

	_, err := svc.BuildView(context.Background(), population.NewSelection("A"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeDatasetUnavailable, errors.GetCode(err))

	// load failure wins over an empty selection
	_, err = svc.BuildView(context.Background(), population.NewSelection())
	assert.Equal(t, errors.CodeDatasetUnavailable, errors.GetCode(err))

	_, err = svc.Regions(context.Background())
	assert.Equal(t, errors.CodeDatasetUnavailable, errors.GetCode(err))
	assert.Zero(t, renderer.calls())
}

func TestUnknownRegionIsNoRows(t *testing.T) {
	svc := newTestService(&fakeProvider{ds: exampleDataset()}, &countingRenderer{})

	_, err := svc.BuildView(context.Background(), population.NewSelection("沖縄県"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeNoRows, errors.GetCode(err))
}

func TestDefaultSelectionKeepsOnlyAvailablePresets(t *testing.T) {
	svc := newTestService(&fakeProvider{ds: exampleDataset()}, &countingRenderer{})

	sel, err := svc.DefaultSelection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, population.Selection{"B", "A"}, sel)
}

func TestRenderChartsRendersBoth(t *testing.T) {
	renderer := &countingRenderer{}
	svc := newTestService(&fakeProvider{ds: exampleDataset()}, renderer)

	view, err := svc.BuildView(context.Background(), population.NewSelection("A", "B"))
	require.NoError(t, err)

	charts, err := svc.RenderCharts(context.Background(), view, "")
	require.NoError(t, err)
	assert.Equal(t, "svg", charts.Format)
	assert.Equal(t, "line:3:svg", string(charts.Line))
	assert.Equal(t, "bar:1:svg", string(charts.Bar))
	assert.Equal(t, 2, renderer.calls())
}

func TestRenderChartsFailures(t *testing.T) {
	renderer := &countingRenderer{fail: stderrors.New("boom")}
	svc := newTestService(&fakeProvider{ds: exampleDataset()}, renderer)
	view, err := svc.BuildView(context.Background(), population.NewSelection("A"))
	require.NoError(t, err)

	_, err = svc.RenderCharts(context.Background(), view, "png")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInternalError, errors.GetCode(err))

	_, err = svc.RenderCharts(context.Background(), view, "gif")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestExport(t *testing.T) {
	svc := newTestService(&fakeProvider{ds: exampleDataset()}, &countingRenderer{})
	ctx := context.Background()

	csvOut, err := svc.Export(ctx, population.NewSelection("B"), "csv")
	require.NoError(t, err)
	assert.Equal(t, "population_2020.csv", csvOut.Filename)
	assert.Equal(t, "csv:1", string(csvOut.Body))
	assert.Contains(t, csvOut.ContentType, "text/csv")

	xlsxOut, err := svc.Export(ctx, population.NewSelection("A", "B"), "xlsx")
	require.NoError(t, err)
	assert.Equal(t, "population_2021.xlsx", xlsxOut.Filename)
	assert.Equal(t, "xlsx:3", string(xlsxOut.Body))

	_, err = svc.Export(ctx, population.NewSelection("A"), "pdf")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = svc.Export(ctx, population.NewSelection(), "csv")
	assert.Equal(t, errors.CodeEmptySelection, errors.GetCode(err))
}

func TestReloadInvalidatesProvider(t *testing.T) {
	provider := &fakeProvider{ds: exampleDataset()}
	svc := newTestService(provider, &countingRenderer{})

	svc.Reload()
	assert.Equal(t, 1, provider.invalidated)
}
