package ui

import (
	"net/http"

	"smartanalyzer/adapters/reader"
	"smartanalyzer/app"
	"smartanalyzer/internal/errors"

	"github.com/gin-gonic/gin"
)

// handleAnalyzeAPI runs the pipeline on a multipart upload and returns the
// report as JSON. Nothing is stored.
func (s *Server) handleAnalyzeAPI(c *gin.Context) {
	up, status, err := s.readUpload(c)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error(), "code": errors.CodeInvalidInput})
		return
	}

	sel := app.Selection{First: c.PostForm("col1"), Second: c.PostForm("col2")}
	rep, err := s.pipeline.Run(c.Request.Context(), up, sel)
	if err != nil {
		s.logger.Warn("[API] Analysis of %s failed: %v", up.Filename, err)
		c.JSON(statusFor(err), gin.H{
			"error": errors.UserMessage(err),
			"code":  errors.GetCode(err),
		})
		return
	}
	c.JSON(http.StatusOK, rep)
}

// handleFormatsAPI lists the accepted file extensions
func (s *Server) handleFormatsAPI(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"extensions": reader.SupportedExtensions()})
}
