package ui

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"popdash/app"
	"popdash/domain/population"
	"popdash/internal"
	"popdash/internal/config"
)

// Dashboard is the part of app.DashboardService the pages use
type Dashboard interface {
	Regions(ctx context.Context) ([]string, error)
	DefaultSelection(ctx context.Context) (population.Selection, error)
	BuildView(ctx context.Context, selection population.Selection) (*app.DashboardView, error)
	RenderCharts(ctx context.Context, view *app.DashboardView, chartFormat string) (*app.Charts, error)
	Export(ctx context.Context, selection population.Selection, exportFormat string) (*app.Export, error)
}

// Server is the HTML dashboard
type Server struct {
	router    *gin.Engine
	service   Dashboard
	settings  config.DashboardConfig
	columns   config.ColumnConfig
	caption   template.HTML
	templates *template.Template
	api       http.Handler
	logger    *internal.Logger
}

// NewServer creates the dashboard server. api, when not nil, is mounted
// under /api.
func NewServer(service Dashboard, cfg *config.Config, api http.Handler) (*Server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.New(),
		service:   service,
		settings:  cfg.Dashboard,
		columns:   cfg.Data.Columns,
		caption:   renderMarkdown(cfg.Dashboard.Caption),
		templates: templates,
		api:       api,
		logger:    internal.DefaultLogger.Component("ui"),
	}

	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	s.router.GET("/charts/line.svg", s.handleChart(chartLine))
	s.router.GET("/charts/bar.svg", s.handleChart(chartBar))

	s.router.GET("/download.csv", s.handleDownload("csv"))
	s.router.GET("/download.xlsx", s.handleDownload("xlsx"))

	if s.api != nil {
		s.router.Any("/api/*path", gin.WrapH(s.api))
	}
}

// Handler exposes the router for tests and custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves the dashboard until ctx is cancelled
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting dashboard on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down dashboard")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
