package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"popdash/domain/population"
	"popdash/internal"
	"popdash/internal/errors"
	"popdash/ports"
)

// Handler serves the dashboard as JSON under /api
type Handler struct {
	service DashboardService
	options Options
	router  *chi.Mux
	logger  *internal.Logger
}

// NewHandler creates the API handler and its routes
func NewHandler(service DashboardService, options Options) *Handler {
	h := &Handler{
		service: service,
		options: options,
		router:  chi.NewRouter(),
		logger:  internal.DefaultLogger.Component("api"),
	}
	h.setupMiddleware()
	h.setupRoutes()
	return h
}

func (h *Handler) setupMiddleware() {
	h.router.Use(middleware.Recoverer)
	h.router.Use(middleware.Compress(5))
}

func (h *Handler) setupRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Get("/regions", h.handleRegions)
		r.Get("/view", h.handleView)
		r.Get("/export", h.handleExport)
		r.Post("/dataset/reload", h.handleReload)
	})
	h.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(w, r, errors.NotFound("route "+r.URL.Path))
	})
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) handleRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.service.Regions(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defaults, err := h.service.DefaultSelection(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RegionsResponse{Regions: regions, Defaults: defaults})
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.BuildView(r.Context(), selectionFromRequest(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ViewResponse{DashboardView: view, Count: len(view.Filtered)})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if !h.options.EnableExport {
		h.writeError(w, r, errors.NotFound("export"))
		return
	}

	exportFormat := r.URL.Query().Get("format")
	if exportFormat == "" {
		exportFormat = ports.ExportFormatCSV
	}
	out, err := h.service.Export(r.Context(), selectionFromRequest(r), exportFormat)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Body); err != nil {
		h.logger.Error("failed to write export: %v", err)
	}
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	h.service.Reload()
	writeJSON(w, http.StatusAccepted, ReloadResponse{Status: "invalidated"})
}

// selectionFromRequest reads repeated region parameters
func selectionFromRequest(r *http.Request) population.Selection {
	return population.NewSelection(r.URL.Query()["region"]...)
}

// StatusFor maps an error code to its HTTP status
func StatusFor(code string) int {
	switch code {
	case errors.CodeDatasetUnavailable:
		return http.StatusServiceUnavailable
	case errors.CodeEmptySelection, errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNoRows, errors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the error's public message only; causes go to the log
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := StatusFor(code)

	message := "internal error"
	var appErr *errors.AppError
	if errors.As(err, &appErr) && status != http.StatusInternalServerError {
		message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		h.logger.ErrorFields(err, "api request failed", "path", r.URL.Path, "code", code)
	} else {
		h.logger.Debug("%s %s: %s", r.Method, r.URL.Path, code)
	}

	if code == "UNKNOWN" {
		code = errors.CodeInternalError
	}
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
