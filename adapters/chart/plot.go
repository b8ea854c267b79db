package chart

import (
	"bytes"
	"context"
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"popdash/domain/population"
	"popdash/internal/format"
	"popdash/ports"
)

const (
	defaultWidthCM  = 16
	defaultHeightCM = 10
)

// PlotRenderer implements ports.ChartRenderer with gonum/plot. Regions listed
// in ChartOptions.Palette keep the same color across charts; others are
// colored by order of appearance.
type PlotRenderer struct{}

// NewPlotRenderer creates a renderer
func NewPlotRenderer() *PlotRenderer {
	return &PlotRenderer{}
}

// LineChart draws population over year with one line per region
func (r *PlotRenderer) LineChart(ctx context.Context, records []population.Record, opts ports.ChartOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("line chart: %w", population.ErrNoRows)
	}

	p := newPlot(opts)
	colors := colorsFor(opts.Palette, population.RegionOrder(records))
	series := population.SeriesByRegion(records)

	values := make([]float64, 0, len(records))
	for _, region := range population.RegionOrder(records) {
		rows := series[region]
		pts := make(plotter.XYs, len(rows))
		for i, rec := range rows {
			pts[i].X = float64(rec.Year)
			pts[i].Y = float64(rec.Population)
			values = append(values, pts[i].Y)
		}

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("line chart %s: %w", region, err)
		}
		line.Color = colors[region]
		line.Width = vg.Points(2)
		points.Color = colors[region]
		points.Shape = draw.CircleGlyph{}
		points.Radius = vg.Points(2.5)

		p.Add(line, points)
		p.Legend.Add(region, line, points)
	}

	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = true
	p.X.Tick.Marker = yearTicks(yearsOf(records))
	p.Y.Tick.Marker = groupedTicks{}
	p.Y.Min = 0
	p.Y.Max = upperBound(floats.Max(values), 1.1)

	return encode(p, opts)
}

// BarChart draws one bar per record labelled with its region
func (r *PlotRenderer) BarChart(ctx context.Context, records []population.Record, opts ports.ChartOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("bar chart: %w", population.ErrNoRows)
	}

	p := newPlot(opts)
	colors := colorsFor(opts.Palette, population.RegionOrder(records))

	labels := make([]string, len(records))
	values := make([]float64, len(records))
	for i, rec := range records {
		labels[i] = rec.Region
		values[i] = float64(rec.Population)

		bar, err := plotter.NewBarChart(plotter.Values{values[i]}, vg.Points(36))
		if err != nil {
			return nil, fmt.Errorf("bar chart %s: %w", rec.Region, err)
		}
		bar.XMin = float64(i)
		bar.Color = colors[rec.Region]
		bar.LineStyle.Width = vg.Length(0)
		p.Add(bar)
	}

	maxValue := floats.Max(values)
	valueLabels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    barLabelPositions(values, maxValue),
		Labels: groupedLabels(values),
	})
	if err != nil {
		return nil, fmt.Errorf("bar chart labels: %w", err)
	}
	for i := range valueLabels.TextStyle {
		valueLabels.TextStyle[i].XAlign = draw.XCenter
	}
	p.Add(valueLabels)

	p.NominalX(labels...)
	p.Y.Tick.Marker = groupedTicks{}
	p.Y.Min = 0
	p.Y.Max = upperBound(maxValue, 1.15)

	return encode(p, opts)
}

func newPlot(opts ports.ChartOptions) *plot.Plot {
	p := plot.New()
	p.Title.Text = opts.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	return p
}

// colorsFor assigns palette-stable colors to regions
func colorsFor(palette, regions []string) map[string]color.Color {
	colors := make(map[string]color.Color, len(regions))
	next := len(palette)
	for _, region := range regions {
		idx := indexOf(palette, region)
		if idx < 0 {
			idx = next
			next++
		}
		colors[region] = plotutil.Color(idx)
	}
	return colors
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func encode(p *plot.Plot, opts ports.ChartOptions) ([]byte, error) {
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = defaultWidthCM
	}
	if height <= 0 {
		height = defaultHeightCM
	}
	chartFormat := opts.Format
	if chartFormat == "" {
		chartFormat = ports.ChartFormatSVG
	}
	if chartFormat != ports.ChartFormatSVG && chartFormat != ports.ChartFormatPNG {
		return nil, fmt.Errorf("unsupported chart format: %s", chartFormat)
	}

	wt, err := p.WriterTo(vg.Length(width)*vg.Centimeter, vg.Length(height)*vg.Centimeter, chartFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s writer: %w", chartFormat, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", chartFormat, err)
	}
	return buf.Bytes(), nil
}

// upperBound leaves headroom above the tallest value; an all-zero chart
// still gets a non-empty axis
func upperBound(maxValue, headroom float64) float64 {
	if maxValue <= 0 {
		return 1
	}
	return maxValue * headroom
}

func yearsOf(records []population.Record) []int {
	totals := population.TotalsByYear(records)
	years := make([]int, len(totals))
	for i, t := range totals {
		years[i] = t.Year
	}
	return years
}

func barLabelPositions(values []float64, maxValue float64) plotter.XYs {
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X = float64(i)
		pts[i].Y = v + maxValue*0.02
	}
	return pts
}

func groupedLabels(values []float64) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = format.Float(v)
	}
	return out
}
