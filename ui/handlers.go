package ui

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"popdash/app"
	"popdash/domain/population"
	"popdash/internal/config"
	"popdash/internal/errors"
	"popdash/ui/middleware"
)

// User-facing messages
const (
	msgLoadFailed     = "データの読み込みに失敗しました。しばらくしてから再度お試しください。"
	msgEmptySelection = "左のサイドバーから都道府県を選んでください。"
	msgNoRows         = "選択した都道府県のデータがありません。"
)

// Page states
const (
	stateOK      = "ok"
	stateWarning = "warning"
	stateError   = "error"
)

type chartKind int

const (
	chartLine chartKind = iota
	chartBar
)

// indexPage is the data behind index.html
type indexPage struct {
	Title         string
	Caption       template.HTML
	SidebarHeader string
	Columns       config.ColumnConfig
	Regions       []string
	Selected      population.Selection
	State         string
	Message       string
	View          *app.DashboardView
	LineChart     template.HTML
	BarChart      template.HTML
	ShowSummary   bool
	EnableExport  bool
	Query         string
	RequestID     string
}

// selectionFromQuery reads ?region=A&region=B&applied=1. Before the form
// has been applied the preset selection is used.
func (s *Server) selectionFromQuery(c *gin.Context) (population.Selection, error) {
	if c.Query("applied") == "" {
		return s.service.DefaultSelection(c.Request.Context())
	}
	return population.NewSelection(c.QueryArray("region")...), nil
}

// selectionQuery encodes a selection for links to charts and downloads
func selectionQuery(sel population.Selection) string {
	q := url.Values{}
	for _, region := range sel {
		q.Add("region", region)
	}
	q.Set("applied", "1")
	return q.Encode()
}

func (s *Server) handleIndex(c *gin.Context) {
	ctx := c.Request.Context()
	page := &indexPage{
		Title:         s.settings.Title,
		Caption:       s.caption,
		SidebarHeader: s.settings.SidebarHeader,
		Columns:       s.columns,
		ShowSummary:   s.settings.ShowSummary,
		EnableExport:  s.settings.EnableExport,
		RequestID:     middleware.GetRequestID(c),
	}

	regions, err := s.service.Regions(ctx)
	if err != nil {
		s.renderFailure(c, page, err)
		return
	}
	page.Regions = regions

	sel, err := s.selectionFromQuery(c)
	if err != nil {
		s.renderFailure(c, page, err)
		return
	}
	page.Selected = sel
	page.Query = selectionQuery(sel)

	view, err := s.service.BuildView(ctx, sel)
	if err != nil {
		s.renderFailure(c, page, err)
		return
	}
	page.View = view

	charts, err := s.service.RenderCharts(ctx, view, "svg")
	if err != nil {
		s.renderFailure(c, page, err)
		return
	}
	page.LineChart = inlineSVG(charts.Line)
	page.BarChart = inlineSVG(charts.Bar)
	page.State = stateOK

	s.renderTemplate(c, http.StatusOK, "index.html", page)
}

// renderFailure shows the error or warning panel in place of the charts
func (s *Server) renderFailure(c *gin.Context, page *indexPage, err error) {
	page.View = nil
	switch errors.GetCode(err) {
	case errors.CodeEmptySelection:
		page.State, page.Message = stateWarning, msgEmptySelection
		s.renderTemplate(c, http.StatusOK, "index.html", page)
	case errors.CodeNoRows:
		page.State, page.Message = stateWarning, msgNoRows
		s.renderTemplate(c, http.StatusOK, "index.html", page)
	case errors.CodeDatasetUnavailable:
		_ = c.Error(err)
		page.State, page.Message = stateError, msgLoadFailed
		s.renderTemplate(c, http.StatusServiceUnavailable, "index.html", page)
	default:
		_ = c.Error(err)
		page.State, page.Message = stateError, "表示中にエラーが発生しました。"
		s.renderTemplate(c, http.StatusInternalServerError, "index.html", page)
	}
}

func (s *Server) handleChart(kind chartKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sel, err := s.selectionFromQuery(c)
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		view, err := s.service.BuildView(ctx, sel)
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		charts, err := s.service.RenderCharts(ctx, view, "svg")
		if err != nil {
			s.abortWithError(c, err)
			return
		}

		body := charts.Line
		if kind == chartBar {
			body = charts.Bar
		}
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "image/svg+xml", body)
	}
}

func (s *Server) handleDownload(exportFormat string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.settings.EnableExport {
			c.String(http.StatusNotFound, "export is disabled")
			return
		}

		sel, err := s.selectionFromQuery(c)
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		out, err := s.service.Export(c.Request.Context(), sel, exportFormat)
		if err != nil {
			s.abortWithError(c, err)
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
		c.Data(http.StatusOK, out.ContentType, out.Body)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// abortWithError answers non-page routes with a plain status and message
func (s *Server) abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch errors.GetCode(err) {
	case errors.CodeDatasetUnavailable:
		c.String(http.StatusServiceUnavailable, msgLoadFailed)
	case errors.CodeEmptySelection:
		c.String(http.StatusBadRequest, msgEmptySelection)
	case errors.CodeNoRows:
		c.String(http.StatusNotFound, msgNoRows)
	case errors.CodeInvalidInput:
		c.String(http.StatusBadRequest, "invalid request")
	default:
		c.String(http.StatusInternalServerError, "internal error")
	}
}
