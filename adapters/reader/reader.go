package reader

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"smartanalyzer/domain/dataset"
	"smartanalyzer/internal"
	"smartanalyzer/internal/errors"
)

// Format identifies one supported file format
type Format string

const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatXLS     Format = "xls"
	FormatJSON    Format = "json"
	FormatXML     Format = "xml"
	FormatFeather Format = "feather"
)

// ParseFunc turns the raw bytes of one format into a dataset
type ParseFunc func(name string, data []byte, opts Options) (*dataset.Dataset, error)

// Options carries per-format reader settings
type Options struct {
	// XLSCharset is the code page assumed for legacy workbooks.
	XLSCharset string
	// XMLRowPath selects row elements; defaults to the children of the root.
	XMLRowPath string
}

// DefaultOptions returns the settings used by the UI and CLI
func DefaultOptions() Options {
	return Options{XLSCharset: "utf-8", XMLRowPath: "/*/*"}
}

var parsers = map[string]struct {
	format Format
	parse  ParseFunc
}{
	".csv":     {FormatCSV, parseCSV},
	".xlsx":    {FormatXLSX, parseXLSX},
	".xls":     {FormatXLS, parseXLS},
	".json":    {FormatJSON, parseJSON},
	".xml":     {FormatXML, parseXML},
	".feather": {FormatFeather, parseFeather},
}

// SupportedExtensions lists the recognised suffixes without the dot
func SupportedExtensions() []string {
	exts := make([]string, 0, len(parsers))
	for ext := range parsers {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	sort.Strings(exts)
	return exts
}

// DetectFormat maps a file name's suffix to a format
func DetectFormat(filename string) (Format, error) {
	p, ok := parsers[dataset.Upload{Filename: filename}.Extension()]
	if !ok {
		return "", errors.UnsupportedFormat(filename)
	}
	return p.format, nil
}

// DataReader dispatches uploads to the parser registered for their extension
type DataReader struct {
	opts   Options
	logger *internal.Logger
}

// NewDataReader creates a reader with the given options
func NewDataReader(opts Options, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	if opts.XLSCharset == "" {
		opts.XLSCharset = "utf-8"
	}
	if opts.XMLRowPath == "" {
		opts.XMLRowPath = "/*/*"
	}
	return &DataReader{opts: opts, logger: logger.Named("reader")}
}

// Read parses data according to the suffix of name. Any parser failure is
// reported as a PARSE_FAILURE carrying the parser's message; an unknown
// suffix is UNSUPPORTED_FORMAT and nothing is parsed.
func (r *DataReader) Read(name string, data []byte) (*dataset.Dataset, error) {
	ext := dataset.Upload{Filename: name}.Extension()
	p, ok := parsers[ext]
	if !ok {
		r.logger.Warn("[Read] unsupported extension %q for %s", ext, name)
		return nil, errors.UnsupportedFormat(name)
	}

	start := time.Now()
	ds, err := parseRecovered(p.parse, name, data, r.opts)
	if err != nil {
		r.logger.Warn("[Read] %s parse of %s failed: %v", p.format, name, err)
		return nil, errors.ParseFailure(err)
	}

	r.logger.Info("[Read] %s file %s processed (%d columns, %d rows) in %.2fms",
		strings.ToUpper(string(p.format)), name, ds.Width(), ds.Rows(), float64(time.Since(start).Nanoseconds())/1e6)
	for _, col := range ds.Columns() {
		r.logger.Trace("[Read] %s column %q kind=%s missing=%d", name, col.Name, col.Kind, col.Len()-col.NonMissing())
	}
	return ds, nil
}

// ReadUpload parses an upload held in memory
func (r *DataReader) ReadUpload(up dataset.Upload) (*dataset.Dataset, error) {
	return r.Read(up.Filename, up.Data)
}

// parseRecovered keeps a panicking third-party parser inside the read boundary
func parseRecovered(parse ParseFunc, name string, data []byte, opts Options) (ds *dataset.Dataset, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ds, err = nil, fmt.Errorf("reader panic: %v", rec)
		}
	}()
	return parse(name, data, opts)
}
