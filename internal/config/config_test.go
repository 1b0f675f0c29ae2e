package config

import (
	"testing"
	"time"

	"smartanalyzer/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "GIN_MODE", "MAX_UPLOAD_MB", "SESSION_TTL", "PREVIEW_ROWS", "HEATMAP_CELL_PX", "XLS_CHARSET", "PAGE_TITLE", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MAX_UPLOAD_MB", "10")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("PREVIEW_ROWS", "10")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "JSON")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, 5*time.Minute, cfg.Upload.SessionTTL)
	assert.Equal(t, 10, cfg.Analysis.PreviewRows)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("PREVIEW_ROWS", "many")
	t.Setenv("SESSION_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Analysis.PreviewRows)
	assert.Equal(t, 30*time.Minute, cfg.Upload.SessionTTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"port", "PORT", "http"},
		{"gin mode", "GIN_MODE", "fast"},
		{"upload limit", "MAX_UPLOAD_MB", "0"},
		{"preview rows", "PREVIEW_ROWS", "-1"},
		{"cell size", "HEATMAP_CELL_PX", "8"},
		{"log format", "LOG_FORMAT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
