package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"smartanalyzer/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Analysis AnalysisConfig
	Logging  LoggingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port      string
	GinMode   string
	PageTitle string
}

// UploadConfig holds upload limits and how long an upload stays selectable
type UploadConfig struct {
	MaxBytes   int64
	SessionTTL time.Duration
}

// AnalysisConfig holds pipeline presentation settings
type AnalysisConfig struct {
	PreviewRows     int
	HeatmapCellSize int
	XLSCharset      string
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Upload:   *loadUploadConfig(),
		Analysis: *loadAnalysisConfig(),
		Logging:  *loadLoggingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8501", GinMode: "release", PageTitle: DefaultPageTitle},
		Upload:   UploadConfig{MaxBytes: 200 << 20, SessionTTL: 30 * time.Minute},
		Analysis: AnalysisConfig{PreviewRows: 5, HeatmapCellSize: 64, XLSCharset: "utf-8"},
		Logging:  LoggingConfig{Level: "INFO", Format: "console"},
	}
}

// DefaultPageTitle is the title shown on every page
const DefaultPageTitle = "📊 Smart Data Analyzer"

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:      getEnvOrDefault("PORT", "8501"),
		GinMode:   getEnvOrDefault("GIN_MODE", "release"),
		PageTitle: getEnvOrDefault("PAGE_TITLE", DefaultPageTitle),
	}
}

func loadUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxBytes:   int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 200)) << 20,
		SessionTTL: getEnvDurationOrDefault("SESSION_TTL", 30*time.Minute),
	}
}

func loadAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		PreviewRows:     getEnvIntOrDefault("PREVIEW_ROWS", 5),
		HeatmapCellSize: getEnvIntOrDefault("HEATMAP_CELL_PX", 64),
		XLSCharset:      getEnvOrDefault("XLS_CHARSET", "utf-8"),
	}
}

func loadLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level:  strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
		Format: strings.ToLower(getEnvOrDefault("LOG_FORMAT", "console")),
	}
}

func validateConfig(config *Config) error {
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	if config.Upload.MaxBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Upload.SessionTTL <= 0 {
		return errors.ConfigInvalid("SESSION_TTL must be positive")
	}
	if config.Analysis.PreviewRows <= 0 {
		return errors.ConfigInvalid("PREVIEW_ROWS must be positive")
	}
	if config.Analysis.HeatmapCellSize < 16 {
		return errors.ConfigInvalid("HEATMAP_CELL_PX must be at least 16")
	}
	switch config.Logging.Format {
	case "console", "json":
	default:
		return errors.ConfigInvalid("LOG_FORMAT must be console or json")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
