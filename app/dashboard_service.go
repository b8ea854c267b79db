package app

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"popdash/domain/core"
	"popdash/domain/population"
	"popdash/internal"
	"popdash/internal/config"
	"popdash/internal/errors"
	"popdash/ports"
)

// Chart titles shown above each chart
const (
	LineChartTitle = "人口推移 (折れ線グラフ)"
	BarChartTitle  = "最新年の比較 (棒グラフ)"
)

// Settings carries the presentation options the service needs
type Settings struct {
	DefaultRegions []string
	Columns        config.ColumnConfig
}

// SettingsFromConfig extracts service settings from the loaded config
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		DefaultRegions: cfg.Dashboard.DefaultRegions,
		Columns:        cfg.Data.Columns,
	}
}

// DashboardView is everything one dashboard render needs, computed from a
// single selection over the cached dataset
type DashboardView struct {
	Selection   population.Selection     `json:"selection"`
	Filtered    []population.Record      `json:"rows"`
	LatestYear  int                      `json:"latest_year"`
	PriorYear   int                      `json:"prior_year"`
	Latest      []population.Record      `json:"latest"`
	Summary     population.Summary       `json:"summary"`
	Totals      []population.YearTotal   `json:"totals"`
	RegionStats []population.RegionStats `json:"region_stats"`
	Fingerprint core.Hash                `json:"fingerprint"`

	// Palette is the dataset's full region order, so a region keeps its
	// color whatever else is selected
	Palette []string `json:"-"`
}

// Charts holds the two encoded chart images of one view
type Charts struct {
	Format string
	Line   []byte
	Bar    []byte
}

// Export is a rendered download
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}

// DashboardService runs the load, filter, aggregate and render pipeline
type DashboardService struct {
	provider ports.DatasetProvider
	renderer ports.ChartRenderer
	exporter ports.Exporter
	settings Settings
	logger   *internal.Logger
}

// NewDashboardService creates a dashboard service
func NewDashboardService(provider ports.DatasetProvider, renderer ports.ChartRenderer, exporter ports.Exporter, settings Settings) *DashboardService {
	return &DashboardService{
		provider: provider,
		renderer: renderer,
		exporter: exporter,
		settings: settings,
		logger:   internal.DefaultLogger.Component("dashboard_service"),
	}
}

// Regions returns the distinct regions of the dataset in file order
func (s *DashboardService) Regions(ctx context.Context) ([]string, error) {
	ds, err := s.provider.Get(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Regions(), nil
}

// DefaultSelection returns the configured presets that exist in the dataset
func (s *DashboardService) DefaultSelection(ctx context.Context) (population.Selection, error) {
	regions, err := s.Regions(ctx)
	if err != nil {
		return nil, err
	}
	return population.NewSelection(s.settings.DefaultRegions...).Intersect(regions), nil
}

// Reload drops the cached dataset so the next request reads the file again
func (s *DashboardService) Reload() {
	s.provider.Invalidate()
}

// BuildView filters the dataset by selection and computes every aggregate.
// It stops at the first failing step: load failure, then empty selection,
// then a selection that matches nothing.
func (s *DashboardService) BuildView(ctx context.Context, selection population.Selection) (*DashboardView, error) {
	ds, err := s.provider.Get(ctx)
	if err != nil {
		return nil, err
	}
	if selection.IsEmpty() {
		return nil, errors.EmptySelection()
	}

	filtered := population.Filter(ds.Records, selection)
	summary, err := population.Summarize(filtered)
	if err != nil {
		return nil, errors.NoRows(fmt.Sprintf("no rows for %v", []string(selection)))
	}

	stats, err := population.DescribeRegions(filtered)
	if err != nil {
		return nil, errors.Wrap(err, "failed to describe regions")
	}

	s.logger.Debug("view for %v: %d rows, latest year %d", []string(selection), len(filtered), summary.LatestYear)

	return &DashboardView{
		Selection:   selection,
		Filtered:    filtered,
		LatestYear:  summary.LatestYear,
		PriorYear:   summary.PriorYear,
		Latest:      population.AtYear(filtered, summary.LatestYear),
		Summary:     summary,
		Totals:      population.TotalsByYear(filtered),
		RegionStats: stats,
		Fingerprint: ds.Fingerprint(),
		Palette:     ds.Regions(),
	}, nil
}

// RenderCharts draws the line and bar charts of a view concurrently
func (s *DashboardService) RenderCharts(ctx context.Context, view *DashboardView, chartFormat string) (*Charts, error) {
	if view == nil || len(view.Filtered) == 0 {
		return nil, errors.NoRows("nothing to chart")
	}
	if chartFormat == "" {
		chartFormat = ports.ChartFormatSVG
	}
	if chartFormat != ports.ChartFormatSVG && chartFormat != ports.ChartFormatPNG {
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported chart format %q", chartFormat))
	}

	start := time.Now()
	charts := &Charts{Format: chartFormat}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		out, err := s.renderer.LineChart(gctx, view.Filtered, ports.ChartOptions{
			Title:   LineChartTitle,
			XLabel:  s.settings.Columns.Year,
			YLabel:  s.settings.Columns.Population,
			Format:  chartFormat,
			Palette: view.Palette,
		})
		if err != nil {
			return fmt.Errorf("line chart: %w", err)
		}
		charts.Line = out
		return nil
	})

	g.Go(func() error {
		out, err := s.renderer.BarChart(gctx, view.Latest, ports.ChartOptions{
			Title:   BarChartTitle,
			XLabel:  s.settings.Columns.Region,
			YLabel:  s.settings.Columns.Population,
			Format:  chartFormat,
			Palette: view.Palette,
		})
		if err != nil {
			return fmt.Errorf("bar chart: %w", err)
		}
		charts.Bar = out
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("chart rendering failed: %v", err)
		return nil, errors.Wrap(err, "failed to render charts")
	}

	s.logger.Debug("rendered %s charts in %v", chartFormat, time.Since(start))
	return charts, nil
}

// Export renders the filtered subset of selection as a download
func (s *DashboardService) Export(ctx context.Context, selection population.Selection, exportFormat string) (*Export, error) {
	if exportFormat == "" {
		exportFormat = ports.ExportFormatCSV
	}
	if exportFormat != ports.ExportFormatCSV && exportFormat != ports.ExportFormatXLSX {
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported export format %q", exportFormat))
	}

	view, err := s.BuildView(ctx, selection)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	out := &Export{Filename: fmt.Sprintf("population_%d.%s", view.LatestYear, exportFormat)}
	switch exportFormat {
	case ports.ExportFormatCSV:
		out.ContentType = "text/csv; charset=utf-8"
		err = s.exporter.WriteCSV(&buf, view.Filtered)
	case ports.ExportFormatXLSX:
		out.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = s.exporter.WriteXLSX(&buf, view.Filtered)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to write %s export", exportFormat)
	}

	out.Body = buf.Bytes()
	s.logger.Info("exported %d rows as %s", len(view.Filtered), out.Filename)
	return out, nil
}
