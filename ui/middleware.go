package ui

import (
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"popdash/ui/middleware"
)

// setupMiddleware configures gin middleware and static files
func (s *Server) setupMiddleware() error {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestLogger(s.logger))

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return err
	}
	s.router.StaticFS("/static", http.FS(staticFS))
	return nil
}
