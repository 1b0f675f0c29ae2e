package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// InferOptions controls how text cells are coerced while typing a column
type InferOptions struct {
	// ParseNumbers converts numeric text into numbers.
	ParseNumbers bool
	// MissingTokens treats NA-style markers ("NA", "null", "#N/A", ...) as missing.
	MissingTokens bool
	// ParseBooleans converts True/False literals into booleans.
	ParseBooleans bool
	// ParseDates converts date and timestamp text into datetimes.
	ParseDates bool
}

// TextOptions is the coercion used for delimited and markup text
func TextOptions() InferOptions {
	return InferOptions{ParseNumbers: true, MissingTokens: true, ParseBooleans: true}
}

// SpreadsheetOptions is the coercion used for workbook cells
func SpreadsheetOptions() InferOptions {
	return InferOptions{ParseNumbers: true, MissingTokens: true, ParseBooleans: true, ParseDates: true}
}

var missingTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "NaN": {}, "nan": {}, "null": {}, "NULL": {},
	"None": {}, "#N/A": {}, "n/a": {}, "<NA>": {}, "-NaN": {}, "-nan": {},
	"#NA": {}, "1.#IND": {}, "1.#QNAN": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"#N/A N/A": {},
}

// IsMissingToken reports whether s is one of the NA markers
func IsMissingToken(s string) bool {
	_, ok := missingTokens[strings.TrimSpace(s)]
	return ok
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01-02-06",
	"1/2/06 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006",
	"2006/01/02",
}

// ParseDate tries the supported date layouts in order
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatNumber renders a number without trailing zeros
func FormatNumber(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	if math.IsInf(v, -1) {
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatTime renders a datetime, dropping a midnight time component
func FormatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

type cellClass int

const (
	classMissing cellClass = iota
	classNumber
	classBool
	classTime
	classText
)

type typedCell struct {
	class cellClass
	num   float64
	b     bool
	t     time.Time
	text  string
}

// NewColumn types raw cells into a column. A nil cell is missing; other
// accepted cells are string, bool, time.Time and Go numeric types. Any other
// value is kept as its fmt representation.
func NewColumn(name string, cells []any, opts InferOptions) *Column {
	typed := make([]typedCell, len(cells))
	counts := map[cellClass]int{}
	for i, cell := range cells {
		typed[i] = classify(cell, opts)
		counts[typed[i].class]++
	}

	col := &Column{
		Name:    name,
		Text:    make([]string, len(cells)),
		Missing: make([]bool, len(cells)),
	}
	present := len(cells) - counts[classMissing]

	switch {
	case present == counts[classNumber]:
		col.Kind = KindNumeric
		col.Numbers = make([]float64, len(cells))
		for i, c := range typed {
			if c.class == classMissing {
				col.Missing[i] = true
				col.Numbers[i] = math.NaN()
				continue
			}
			col.Numbers[i] = c.num
			col.Text[i] = FormatNumber(c.num)
		}
		return col
	case present == counts[classBool] && counts[classMissing] == 0:
		col.Kind = KindBoolean
	case present == counts[classTime]:
		col.Kind = KindDatetime
	default:
		col.Kind = KindCategorical
	}

	for i, c := range typed {
		if c.class == classMissing {
			col.Missing[i] = true
			continue
		}
		col.Text[i] = c.display()
	}
	return col
}

func (c typedCell) display() string {
	switch c.class {
	case classNumber:
		return FormatNumber(c.num)
	case classBool:
		if c.b {
			return "True"
		}
		return "False"
	case classTime:
		return FormatTime(c.t)
	default:
		return c.text
	}
}

func classify(cell any, opts InferOptions) typedCell {
	switch v := cell.(type) {
	case nil:
		return typedCell{class: classMissing}
	case string:
		return classifyText(v, opts)
	case bool:
		return typedCell{class: classBool, b: v}
	case time.Time:
		return typedCell{class: classTime, t: v}
	case float64:
		if math.IsNaN(v) {
			return typedCell{class: classMissing}
		}
		return typedCell{class: classNumber, num: v}
	case float32:
		if math.IsNaN(float64(v)) {
			return typedCell{class: classMissing}
		}
		return typedCell{class: classNumber, num: float64(v)}
	case int:
		return typedCell{class: classNumber, num: float64(v)}
	case int8:
		return typedCell{class: classNumber, num: float64(v)}
	case int16:
		return typedCell{class: classNumber, num: float64(v)}
	case int32:
		return typedCell{class: classNumber, num: float64(v)}
	case int64:
		return typedCell{class: classNumber, num: float64(v)}
	case uint:
		return typedCell{class: classNumber, num: float64(v)}
	case uint8:
		return typedCell{class: classNumber, num: float64(v)}
	case uint16:
		return typedCell{class: classNumber, num: float64(v)}
	case uint32:
		return typedCell{class: classNumber, num: float64(v)}
	case uint64:
		return typedCell{class: classNumber, num: float64(v)}
	default:
		return typedCell{class: classText, text: fmt.Sprint(v)}
	}
}

// hasHexPrefix reports hex literals like "0x1p3", which strconv.ParseFloat
// accepts but tabular readers keep as text
func hasHexPrefix(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func classifyText(s string, opts InferOptions) typedCell {
	trimmed := strings.TrimSpace(s)
	if opts.MissingTokens && IsMissingToken(trimmed) {
		return typedCell{class: classMissing}
	}
	if opts.ParseNumbers && trimmed != "" && !hasHexPrefix(trimmed) {
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) {
			return typedCell{class: classNumber, num: f}
		}
	}
	if opts.ParseBooleans {
		switch trimmed {
		case "True", "TRUE", "true":
			return typedCell{class: classBool, b: true}
		case "False", "FALSE", "false":
			return typedCell{class: classBool, b: false}
		}
	}
	if opts.ParseDates && trimmed != "" {
		if t, ok := ParseDate(trimmed); ok {
			return typedCell{class: classTime, t: t}
		}
	}
	return typedCell{class: classText, text: s}
}
