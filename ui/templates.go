package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"smartanalyzer/internal/errors"

	"github.com/gin-gonic/gin"
)

var funcMap = template.FuncMap{
	"add":   func(a, b int) int { return a + b },
	"join":  strings.Join,
	"upper": strings.ToUpper,
	"selected": func(option, current string) bool {
		return option == current
	},
}

// parseTemplates loads every ui/templates/*.html file under its base name
func (s *Server) parseTemplates() (*template.Template, error) {
	templatesFS, err := fs.Sub(s.embeddedFiles, "ui/templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	files, err := fs.Glob(templatesFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under ui/templates")
	}
	s.logger.Debug("[TemplateInit] Found %d template files: %v", len(files), files)

	tmpl := template.New("").Funcs(funcMap)
	for _, file := range files {
		content, err := fs.ReadFile(templatesFS, file)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read template %s", file)
		}
		if _, err := tmpl.New(file).Parse(string(content)); err != nil {
			return nil, errors.Wrapf(err, "failed to parse template %s", file)
		}
	}
	return tmpl, nil
}

// renderTemplate executes a template into a buffer first so a failing
// template never leaves a half-written page
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("Template error for %s: %v", templateName, err)
		s.logger.Debug("Template data type: %T", data)
		c.AbortWithStatusJSON(500, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}

	if !strings.Contains(buf.String(), "</html>") {
		s.logger.Warn("Rendered template %s appears truncated - missing </html> tag", templateName)
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Writer.WriteHeader(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Error("Error writing template response: %v", err)
	}
}

// renderError shows message in place of any page content
func (s *Server) renderError(c *gin.Context, status int, message string) {
	s.renderTemplate(c, status, "error.html", s.page(c, func(p *PageData) {
		p.Error = message
		p.Status = status
	}))
}
