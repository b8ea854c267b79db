package container

import (
	"fmt"

	"popdash/adapters/api"
	"popdash/adapters/chart"
	"popdash/adapters/excel"
	"popdash/app"
	"popdash/internal"
	"popdash/internal/config"
	"popdash/internal/dataset"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config

	// Infrastructure
	Source   *excel.PopulationSource
	Store    *dataset.Store
	Renderer *chart.PlotRenderer
	Exporter *excel.Exporter

	// Services
	Dashboard *app.DashboardService
	API       *api.Handler
}

// New wires the dataset pipeline from configuration. Nothing is read from
// disk until the first request asks for the dataset.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{Config: cfg}

	c.Source = excel.NewPopulationSource(excel.ReaderConfigFromData(cfg.Data))
	c.Store = dataset.NewStore(c.Source, cfg.Data.CacheTTL)
	c.Renderer = chart.NewPlotRenderer()
	c.Exporter = excel.NewExporter(excel.LabelsFromConfig(cfg.Data.Columns))
	c.Dashboard = app.NewDashboardService(c.Store, c.Renderer, c.Exporter, app.SettingsFromConfig(cfg))
	c.API = api.NewHandler(c.Dashboard, api.Options{EnableExport: cfg.Dashboard.EnableExport})

	internal.DefaultLogger.Component("container").Info("container initialized for %s (cache ttl %v)", c.Source.Describe(), cfg.Data.CacheTTL)
	return c, nil
}
