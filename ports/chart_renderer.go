package ports

import (
	"context"

	"popdash/domain/population"
)

// Chart output formats
const (
	ChartFormatSVG = "svg"
	ChartFormatPNG = "png"
)

// ChartOptions controls the size, labels and encoding of one chart
type ChartOptions struct {
	Title  string
	XLabel string
	YLabel string
	Format string  // svg or png
	Width  float64 // centimetres
	Height float64 // centimetres

	// Palette fixes region colors by position so that every chart of one
	// dashboard colors a region the same way
	Palette []string
}

// ChartRenderer draws the dashboard charts
type ChartRenderer interface {
	// LineChart draws population over year, one line per region
	LineChart(ctx context.Context, records []population.Record, opts ChartOptions) ([]byte, error)

	// BarChart draws one bar per record, labelled by region
	BarChart(ctx context.Context, records []population.Record, opts ChartOptions) ([]byte, error)
}
