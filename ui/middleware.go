package ui

import (
	"io/fs"
	"net/http"
	"time"

	"smartanalyzer/internal/errors"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.CustomRecovery(s.recoverPanic))
	s.router.Use(s.requestLogger())
	s.router.Use(s.limitBody())

	staticFS, err := fs.Sub(s.embeddedFiles, "ui/static")
	if err != nil {
		s.logger.Error("[setupMiddleware] Error creating static filesystem: %v", err)
		return
	}
	s.logger.Debug("[Static] Serving static files from embedded FS at /static")
	s.router.StaticFS("/static", http.FS(staticFS))
}

// recoverPanic answers a panicking handler with the error page
func (s *Server) recoverPanic(c *gin.Context, recovered any) {
	err := errors.InternalError("Internal server error")
	s.logger.Error("[Recovery] %s %s panicked: %v", c.Request.Method, c.Request.URL.Path, recovered)
	_ = c.Error(err)
	s.renderError(c, http.StatusInternalServerError, err.Error())
	c.Abort()
}

// requestLogger logs one line per request at DEBUG, and failures at WARN
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start).Round(time.Microsecond)
		if status >= http.StatusInternalServerError {
			s.logger.Warn("[HTTP] %s %s -> %d (%s) %s", c.Request.Method, c.Request.URL.Path, status, elapsed, c.Errors.String())
			return
		}
		s.logger.Debug("[HTTP] %s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, elapsed)
	}
}

// formOverhead is the room left for multipart boundaries and other fields
const formOverhead = 1 << 20

// limitBody caps request bodies at the upload limit plus room for form fields
func (s *Server) limitBody() gin.HandlerFunc {
	limit := s.config.Upload.MaxBytes + formOverhead
	return func(c *gin.Context) {
		if c.Request.Body != nil && c.Request.Method == http.MethodPost {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
