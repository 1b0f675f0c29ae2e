package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"

	"smartanalyzer/adapters/reader"
	"smartanalyzer/app"
	"smartanalyzer/internal/chart"
	"smartanalyzer/internal/errors"
	"smartanalyzer/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PageData is the view model shared by every page template
type PageData struct {
	Title         string
	Extensions    []string
	Accept        string
	MaxUploadMB   int64
	SessionID     string
	Report        *report.Report
	SummaryHeader []string
	HeatmapSVG    template.HTML
	ReportHTML    template.HTML
	Error         string
	Status        int
}

func (s *Server) page(c *gin.Context, fill func(p *PageData)) PageData {
	exts := reader.SupportedExtensions()
	accept := make([]string, len(exts))
	for i, ext := range exts {
		accept[i] = "." + ext
	}
	p := PageData{
		Title:         s.config.Server.PageTitle,
		Extensions:    exts,
		Accept:        strings.Join(accept, ","),
		MaxUploadMB:   s.config.Upload.MaxBytes >> 20,
		SummaryHeader: report.SummaryHeader,
	}
	if fill != nil {
		fill(&p)
	}
	return p
}

// handleIndex renders the upload form
func (s *Server) handleIndex(c *gin.Context) {
	s.renderTemplate(c, http.StatusOK, "index.html", s.page(c, nil))
}

// handleHealth reports liveness and the number of held uploads
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.uploads.Count()})
}

// handleUpload stores the uploaded file and redirects to its analysis
func (s *Server) handleUpload(c *gin.Context) {
	up, status, err := s.readUpload(c)
	if err != nil {
		s.logger.Warn("[handleUpload] FAILED - %v", err)
		s.renderError(c, status, err.Error())
		return
	}

	id, err := s.uploads.SaveUpload(c.Request.Context(), up)
	if err != nil {
		s.logger.Error("[handleUpload] FAILED - could not store upload: %v", err)
		s.renderError(c, statusFor(err), errors.UserMessage(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/sessions/"+id.String())
}

// handleSession reruns the whole pipeline for a stored upload. The col1 and
// col2 query parameters carry the dropdown selection.
func (s *Server) handleSession(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	up, err := s.uploads.GetUpload(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, http.StatusNotFound, "Session not found or expired. Upload the file again.")
		return
	}

	sel := app.Selection{First: c.Query("col1"), Second: c.Query("col2")}
	rep, err := s.pipeline.Run(c.Request.Context(), *up, sel)
	if err != nil {
		if isIngestionError(err) {
			s.renderTemplate(c, statusFor(err), "analysis.html", s.page(c, func(p *PageData) {
				p.SessionID = id.String()
				p.Error = errors.UserMessage(err)
			}))
			return
		}
		_ = c.Error(err)
		s.renderError(c, statusFor(err), errors.UserMessage(err))
		return
	}
	rep.ID = id.String()

	s.renderTemplate(c, http.StatusOK, "analysis.html", s.page(c, func(p *PageData) {
		p.SessionID = id.String()
		p.Report = rep
		p.HeatmapSVG = template.HTML(rep.HeatmapSVG)
	}))
}

// handleDeleteSession forgets an upload
func (s *Server) handleDeleteSession(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	if err := s.uploads.DeleteUpload(c.Request.Context(), id); err != nil {
		s.renderError(c, statusFor(err), errors.UserMessage(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// handleHeatmap serves the correlation heatmap as SVG or PNG
func (s *Server) handleHeatmap(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	up, err := s.uploads.GetUpload(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusNotFound, "session not found")
		return
	}

	format, err := chart.ParseFormat(filepath.Ext(c.Request.URL.Path))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := s.pipeline.RenderHeatmap(c.Request.Context(), *up, format, &buf); err != nil {
		_ = c.Error(err)
		c.String(statusFor(err), errors.UserMessage(err))
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, chart.ContentType(format), buf.Bytes())
}

// handleReportHTML renders the markdown export as a page
func (s *Server) handleReportHTML(c *gin.Context) {
	rep, ok := s.runForReport(c)
	if !ok {
		return
	}
	opts := report.MarkdownOptions{Title: s.config.Server.PageTitle}
	if rep.HasNumeric() {
		opts.HeatmapURL = "heatmap.svg"
	}
	s.renderTemplate(c, http.StatusOK, "report.html", s.page(c, func(p *PageData) {
		p.SessionID = rep.ID
		p.Report = rep
		p.ReportHTML = template.HTML(rep.HTML(opts))
	}))
}

// handleReportMarkdown downloads the markdown export
func (s *Server) handleReportMarkdown(c *gin.Context) {
	rep, ok := s.runForReport(c)
	if !ok {
		return
	}
	md := rep.Markdown(report.MarkdownOptions{Title: s.config.Server.PageTitle})
	name := strings.TrimSuffix(rep.FileName, filepath.Ext(rep.FileName)) + "_report.md"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}

func (s *Server) runForReport(c *gin.Context) (*report.Report, bool) {
	id, ok := s.sessionID(c)
	if !ok {
		return nil, false
	}
	up, err := s.uploads.GetUpload(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, http.StatusNotFound, "Session not found or expired. Upload the file again.")
		return nil, false
	}
	rep, err := s.pipeline.Run(c.Request.Context(), *up, app.Selection{First: c.Query("col1"), Second: c.Query("col2")})
	if err != nil {
		_ = c.Error(err)
		s.renderError(c, statusFor(err), errors.UserMessage(err))
		return nil, false
	}
	rep.ID = id.String()
	return rep, true
}

func (s *Server) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.renderError(c, http.StatusNotFound, "Session not found or expired. Upload the file again.")
		return uuid.Nil, false
	}
	return id, true
}
