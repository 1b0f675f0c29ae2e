package ui

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"smartanalyzer/app"
	"smartanalyzer/internal"
	"smartanalyzer/internal/config"
	"smartanalyzer/ports"

	"github.com/gin-gonic/gin"
)

// Server represents the web server for the analyzer UI
type Server struct {
	router        *gin.Engine
	templates     *template.Template
	embeddedFiles fs.FS
	pipeline      *app.Pipeline
	uploads       ports.UploadRepository
	config        *config.Config
	logger        *internal.Logger
}

// NewServer creates a server and parses its templates. embeddedFiles must
// contain ui/templates and ui/static.
func NewServer(cfg *config.Config, embeddedFiles fs.FS, pipeline *app.Pipeline, uploads ports.UploadRepository, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	gin.SetMode(cfg.Server.GinMode)

	s := &Server{
		router:        gin.New(),
		embeddedFiles: embeddedFiles,
		pipeline:      pipeline,
		uploads:       uploads,
		config:        cfg,
		logger:        logger.Named("ui"),
	}
	// matches limitBody, so accepted parts never spill to temp files
	s.router.MaxMultipartMemory = cfg.Upload.MaxBytes + formOverhead

	tmpl, err := s.parseTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = tmpl

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/upload", s.handleUpload)
	s.router.GET("/healthz", s.handleHealth)

	sessions := s.router.Group("/sessions/:id")
	sessions.GET("", s.handleSession)
	sessions.POST("/delete", s.handleDeleteSession)
	sessions.GET("/heatmap.svg", s.handleHeatmap)
	sessions.GET("/heatmap.png", s.handleHeatmap)
	sessions.GET("/report", s.handleReportHTML)
	sessions.GET("/report.md", s.handleReportMarkdown)

	api := s.router.Group("/api")
	api.POST("/analyze", s.handleAnalyzeAPI)
	api.GET("/formats", s.handleFormatsAPI)

	s.router.NoRoute(func(c *gin.Context) {
		s.renderError(c, http.StatusNotFound, "Page not found")
	})
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting %s on http://%s", s.config.Server.PageTitle, addr)
	if err := s.router.Run(addr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
