package main

import (
	"embed"
	"log"

	"smartanalyzer/adapters/reader"
	"smartanalyzer/app"
	"smartanalyzer/internal"
	"smartanalyzer/internal/chart"
	"smartanalyzer/internal/config"
	"smartanalyzer/internal/session"
	"smartanalyzer/ui"

	"github.com/joho/godotenv"
)

//go:embed ui/templates ui/static
var embeddedFiles embed.FS

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLoggerWithFormat(internal.ParseLogLevel(appConfig.Logging.Level), appConfig.Logging.Format)
	defer func() { _ = logger.Sync() }()

	dataReader := reader.NewDataReader(reader.Options{XLSCharset: appConfig.Analysis.XLSCharset}, logger)
	pipeline := app.NewPipeline(dataReader, app.PipelineConfig{
		PreviewRows: appConfig.Analysis.PreviewRows,
		Heatmap: chart.HeatmapOptions{
			Title:    chart.DefaultTitle,
			CellSize: appConfig.Analysis.HeatmapCellSize,
		},
		InlineHeatmap: true,
	}, logger)
	uploads := session.NewUploadStore(appConfig.Upload.SessionTTL, logger)

	server, err := ui.NewServer(appConfig, embeddedFiles, pipeline, uploads, logger)
	if err != nil {
		log.Fatalf("Failed to initialize UI server: %v", err)
	}

	addr := ":" + appConfig.Server.Port
	if err := server.Start(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
