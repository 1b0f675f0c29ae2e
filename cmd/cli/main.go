package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"smartanalyzer/adapters/reader"
	"smartanalyzer/app"
	"smartanalyzer/domain/dataset"
	"smartanalyzer/internal"
	"smartanalyzer/internal/chart"
	"smartanalyzer/internal/report"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "smartanalyzer",
		Short:         "Smart Data Analyzer CLI for describing, correlating and testing tabular files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "ERROR", "Log level (ERROR, WARN, INFO, DEBUG, TRACE)")

	newLogger := func() *internal.Logger {
		return internal.NewLogger(internal.ParseLogLevel(logLevel))
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(newLogger),
		newHeatmapCmd(newLogger),
		newFormatsCmd(),
	)
	return rootCmd
}

func newAnalyzeCmd(newLogger func() *internal.Logger) *cobra.Command {
	var col1, col2, format string
	var previewRows int

	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Analyze one or more files",
		Long: `Read each file, preview it, describe and correlate its numeric columns,
and run a chi-square test on two categorical columns when at least two exist.

Files are analyzed concurrently and printed in argument order.

Example: smartanalyzer analyze sales.csv survey.xlsx --col1 region --col2 plan --format markdown`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "text", "markdown", "json":
			default:
				return fmt.Errorf("unknown format %q (use text, markdown or json)", format)
			}
			logger := newLogger()
			defer func() { _ = logger.Sync() }()

			pipeline := app.NewPipeline(reader.NewDataReader(reader.DefaultOptions(), logger), app.PipelineConfig{PreviewRows: previewRows}, logger)
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), pipeline, args, app.Selection{First: col1, Second: col2}, format)
		},
	}

	cmd.Flags().StringVar(&col1, "col1", "", "First categorical column (default: first categorical column)")
	cmd.Flags().StringVar(&col2, "col2", "", "Second categorical column (default: first remaining categorical column)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, markdown or json")
	cmd.Flags().IntVar(&previewRows, "preview-rows", app.DefaultPreviewRows, "Number of preview rows")
	return cmd
}

// fileResult is the outcome for one argument
type fileResult struct {
	report *report.Report
	err    error
}

func runAnalyze(ctx context.Context, out, errOut io.Writer, pipeline *app.Pipeline, files []string, sel app.Selection, format string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range files {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				results[i].err = fmt.Errorf("failed to open file: %w", err)
				return nil
			}
			up := dataset.Upload{Filename: filepath.Base(path), Data: data}
			results[i].report, results[i].err = pipeline.Run(gctx, up, sel)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	var docs []report.Document
	for i, res := range results {
		if res.err != nil {
			failed++
			fmt.Fprintf(errOut, "%s: %v\n", files[i], res.err)
			continue
		}
		switch format {
		case "json":
			docs = append(docs, res.report.Document())
		case "markdown":
			fmt.Fprintln(out, res.report.Markdown(report.MarkdownOptions{}))
		default:
			writeText(out, res.report)
		}
	}

	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if len(files) == 1 && len(docs) == 1 {
			if err := enc.Encode(docs[0]); err != nil {
				return err
			}
		} else if err := enc.Encode(docs); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func newHeatmapCmd(newLogger func() *internal.Logger) *cobra.Command {
	var output string
	var cellSize int

	cmd := &cobra.Command{
		Use:   "heatmap [file]",
		Short: "Write the correlation heatmap of a file as SVG or PNG",
		Long: `Render the correlation heatmap of the numeric columns of a file.
The image format follows the output extension.

Example: smartanalyzer heatmap sales.csv -o sales.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := chart.ParseFormat(filepath.Ext(output))
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}

			logger := newLogger()
			pipeline := app.NewPipeline(reader.NewDataReader(reader.DefaultOptions(), logger), app.PipelineConfig{
				Heatmap: chart.HeatmapOptions{CellSize: cellSize},
			}, logger)

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			up := dataset.Upload{Filename: filepath.Base(args[0]), Data: data}
			if err := pipeline.RenderHeatmap(cmd.Context(), up, format, f); err != nil {
				f.Close()
				_ = os.Remove(output)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "heatmap.svg", "Output image (.svg or .png)")
	cmd.Flags().IntVar(&cellSize, "cell-size", chart.DefaultCellSize, "Cell size in pixels")
	return cmd
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported file extensions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(reader.SupportedExtensions(), "\n"))
		},
	}
}
