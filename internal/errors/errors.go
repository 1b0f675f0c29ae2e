package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of a wrapped AppError
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the code of the outermost AppError in the chain, or "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err carries the given code
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// Predefined error codes
const (
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeNotFound          = "NOT_FOUND"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeParseFailure      = "PARSE_FAILURE"
	CodeAnalysisFailed    = "ANALYSIS_FAILED"
	CodeInternalError     = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

// UnsupportedFormat reports a file whose extension has no reader
func UnsupportedFormat(filename string) *AppError {
	return &AppError{
		Code:    CodeUnsupportedFormat,
		Message: "Unsupported file format.",
		Cause:   fmt.Errorf("no reader for %q", filename),
	}
}

// ParseFailure reports a reader failure; the cause text is shown to the user
func ParseFailure(cause error) *AppError {
	return &AppError{
		Code:    CodeParseFailure,
		Message: "Failed to read file",
		Cause:   cause,
	}
}

// AnalysisFailed reports an unrecovered failure after ingestion succeeded
func AnalysisFailed(stage string, cause error) *AppError {
	return &AppError{
		Code:    CodeAnalysisFailed,
		Message: fmt.Sprintf("%s failed", stage),
		Cause:   cause,
	}
}

// UserMessage is the text shown in place of analysis output for err
func UserMessage(err error) string {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return err.Error()
	}
	switch appErr.Code {
	case CodeUnsupportedFormat:
		return appErr.Message
	default:
		return appErr.Error()
	}
}
