package ui

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"smartanalyzer/domain/dataset"
	"smartanalyzer/internal/errors"

	"github.com/gin-gonic/gin"
)

// uploadField is the multipart field holding the dataset file
const uploadField = "dataset"

// readUpload pulls the uploaded file out of a multipart request, enforcing
// the configured size limit. The returned status is meaningful on error.
func (s *Server) readUpload(c *gin.Context) (dataset.Upload, int, error) {
	limit := s.config.Upload.MaxBytes

	header, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return dataset.Upload{}, http.StatusRequestEntityTooLarge, s.tooLarge()
		}
		return dataset.Upload{}, http.StatusBadRequest, stderrors.New("No file uploaded")
	}
	file, err := header.Open()
	if err != nil {
		return dataset.Upload{}, http.StatusBadRequest, fmt.Errorf("failed to read upload: %w", err)
	}
	defer file.Close()

	if header.Size > limit {
		return dataset.Upload{}, http.StatusRequestEntityTooLarge, s.tooLarge()
	}
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return dataset.Upload{}, http.StatusBadRequest, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return dataset.Upload{}, http.StatusRequestEntityTooLarge, s.tooLarge()
	}
	if header.Filename == "" {
		return dataset.Upload{}, http.StatusBadRequest, stderrors.New("No file uploaded")
	}

	s.logger.Debug("[readUpload] Received %s (%d bytes)", header.Filename, len(data))
	return dataset.Upload{Filename: header.Filename, Data: data}, http.StatusOK, nil
}

func (s *Server) tooLarge() error {
	return fmt.Errorf("File exceeds the %d MB upload limit", s.config.Upload.MaxBytes>>20)
}

// statusFor maps an error code onto an HTTP status
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case errors.CodeParseFailure:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// isIngestionError reports failures of the single recovery boundary around
// file reading
func isIngestionError(err error) bool {
	return errors.HasCode(err, errors.CodeUnsupportedFormat) || errors.HasCode(err, errors.CodeParseFailure)
}
