package api

import (
	"context"

	"popdash/app"
	"popdash/domain/population"
)

// DashboardService is the part of app.DashboardService the API exposes
type DashboardService interface {
	Regions(ctx context.Context) ([]string, error)
	DefaultSelection(ctx context.Context) (population.Selection, error)
	BuildView(ctx context.Context, selection population.Selection) (*app.DashboardView, error)
	Export(ctx context.Context, selection population.Selection, exportFormat string) (*app.Export, error)
	Reload()
}

// Options toggles optional endpoints
type Options struct {
	EnableExport bool
}

// RegionsResponse lists the selectable regions and the preset selection
type RegionsResponse struct {
	Regions  []string `json:"regions"`
	Defaults []string `json:"defaults"`
}

// ViewResponse is the JSON form of a dashboard view
type ViewResponse struct {
	*app.DashboardView
	Count int `json:"count"`
}

// ReloadResponse acknowledges a cache invalidation
type ReloadResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
