package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"popdash/domain/population"
	"popdash/internal/format"
)

//go:embed templates/*.html static/*
var embeddedFiles embed.FS

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"int":     format.Int,
		"float":   format.Float,
		"signed":  format.Signed,
		"percent": format.Percent,
		"selected": func(sel population.Selection, region string) bool {
			return sel.Contains(region)
		},
		"add": func(a, b int) int { return a + b },
	}
}

func parseTemplates() (*template.Template, error) {
	templates, err := template.New("").Funcs(templateFuncs()).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return templates, nil
}

// renderMarkdown turns the configured caption into HTML. Raw HTML in the
// source is escaped.
func renderMarkdown(source string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.SkipHTML | mdhtml.HrefTargetBlank,
	})
	return template.HTML(markdown.ToHTML([]byte(source), p, renderer))
}

// inlineSVG strips the XML prolog so the chart can sit inside the page
func inlineSVG(svg []byte) template.HTML {
	if i := bytes.Index(svg, []byte("<svg")); i > 0 {
		svg = svg[i:]
	}
	return template.HTML(svg)
}

// renderTemplate executes a template into a buffer first so a failing
// template never leaves a half-written page
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("template error for %s: %v", templateName, err)
		_ = c.Error(err)
		c.String(500, "template rendering failed")
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Error("error writing template response: %v", err)
	}
}
