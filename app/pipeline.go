package app

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"smartanalyzer/domain/dataset"
	"smartanalyzer/internal"
	"smartanalyzer/internal/analysis"
	"smartanalyzer/internal/chart"
	"smartanalyzer/internal/errors"
	"smartanalyzer/internal/report"
	"smartanalyzer/ports"
)

// DefaultPreviewRows is how many rows the preview shows
const DefaultPreviewRows = 5

// Selection is the pair of categorical columns picked in the dropdowns. Empty
// or stale names fall back to the first valid choice.
type Selection struct {
	First  string
	Second string
}

// PipelineConfig tunes one pipeline
type PipelineConfig struct {
	PreviewRows int
	Heatmap     chart.HeatmapOptions
	// InlineHeatmap renders the SVG heatmap into the report
	InlineHeatmap bool
}

// Pipeline runs ingestion and every analysis for one upload
type Pipeline struct {
	reader ports.DatasetReaderPort
	config PipelineConfig
	logger *internal.Logger
}

// NewPipeline creates a pipeline over reader
func NewPipeline(reader ports.DatasetReaderPort, config PipelineConfig, logger *internal.Logger) *Pipeline {
	if config.PreviewRows <= 0 {
		config.PreviewRows = DefaultPreviewRows
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Pipeline{
		reader: reader,
		config: config,
		logger: logger.Named("pipeline"),
	}
}

// Run reads up and analyzes it from scratch. Ingestion errors are returned
// unchanged; any later failure is returned as ANALYSIS_FAILED and no partial
// report is produced.
func (p *Pipeline) Run(ctx context.Context, up dataset.Upload, sel Selection) (*report.Report, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds, err := p.reader.ReadUpload(up)
	if err != nil {
		p.logger.Warn("[Pipeline] Ingestion of %s failed: %v", up.Filename, err)
		return nil, err
	}

	cls := ds.Classify()
	rep := &report.Report{
		FileName:       up.Filename,
		Format:         strings.TrimPrefix(up.Extension(), "."),
		Rows:           ds.Rows(),
		Columns:        ds.Width(),
		ColumnNames:    ds.Names(),
		Preview:        ds.Head(p.config.PreviewRows),
		Classification: cls,
	}
	p.logger.Debug("[Pipeline] %s: %d rows, %d numeric, %d categorical columns",
		up.Filename, ds.Rows(), len(cls.Numeric), len(cls.Categorical))

	if len(cls.Numeric) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.runNumeric(ds, cls.Numeric, rep); err != nil {
			return nil, err
		}
	}

	if len(cls.Categorical) >= 2 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sec, err := p.runCategorical(ds, cls.Categorical, sel)
		if err != nil {
			return nil, err
		}
		rep.Categorical = sec
	}

	rep.Completed = true
	rep.GeneratedAt = time.Now().UTC()
	p.logger.Info("[Pipeline] Analyzed %s in %s", up.Filename, time.Since(start).Round(time.Millisecond))
	return rep, nil
}

func (p *Pipeline) runNumeric(ds *dataset.Dataset, names []string, rep *report.Report) error {
	numeric, err := ds.Select(names...)
	if err != nil {
		return errors.AnalysisFailed("numeric analysis", err)
	}
	res, err := analysis.AnalyzeNumeric(numeric)
	if err != nil {
		return errors.AnalysisFailed("numeric analysis", err)
	}
	rep.Numeric = res

	if p.config.InlineHeatmap {
		var buf bytes.Buffer
		if err := chart.RenderHeatmap(&buf, res.Correlation, chart.FormatSVG, p.config.Heatmap); err != nil {
			return errors.AnalysisFailed("heatmap", err)
		}
		rep.HeatmapSVG = buf.String()
	}
	return nil
}

func (p *Pipeline) runCategorical(ds *dataset.Dataset, options []string, sel Selection) (*report.CategoricalSection, error) {
	col1, col2, second := ResolveSelection(options, sel)
	res, err := analysis.ChiSquare(ds, col1, col2)
	if err != nil {
		return nil, errors.AnalysisFailed("chi-square test", err)
	}
	return &report.CategoricalSection{
		Options:       options,
		Col1:          col1,
		Col2:          col2,
		SecondOptions: second,
		Result:        res,
	}, nil
}

// ResolveSelection applies the dropdown rules: the first column defaults to
// the first option, and the second is chosen among the remaining options.
// options must hold at least two names.
func ResolveSelection(options []string, sel Selection) (col1, col2 string, second []string) {
	col1 = options[0]
	if contains(options, sel.First) {
		col1 = sel.First
	}

	second = make([]string, 0, len(options)-1)
	for _, o := range options {
		if o != col1 {
			second = append(second, o)
		}
	}

	col2 = second[0]
	if contains(second, sel.Second) {
		col2 = sel.Second
	}
	return col1, col2, second
}

// RenderHeatmap reads up and writes only its correlation heatmap
func (p *Pipeline) RenderHeatmap(ctx context.Context, up dataset.Upload, format chart.Format, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ds, err := p.reader.ReadUpload(up)
	if err != nil {
		return err
	}
	cls := ds.Classify()
	if len(cls.Numeric) == 0 {
		return errors.InvalidInput("no numeric columns to correlate")
	}
	numeric, err := ds.Select(cls.Numeric...)
	if err != nil {
		return errors.AnalysisFailed("heatmap", err)
	}
	m, err := analysis.Correlate(numeric)
	if err != nil {
		return errors.AnalysisFailed("heatmap", err)
	}
	if err := chart.RenderHeatmap(w, m, format, p.config.Heatmap); err != nil {
		return errors.AnalysisFailed("heatmap", err)
	}
	return nil
}

func contains(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
