package report

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"smartanalyzer/domain/dataset"
	"smartanalyzer/internal/analysis"
)

// Report is everything one pipeline run shows for an upload
type Report struct {
	ID             string
	FileName       string
	Format         string
	Rows           int
	Columns        int
	ColumnNames    []string
	Preview        [][]string
	Classification dataset.Classification
	Numeric        *analysis.NumericResult
	HeatmapSVG     string
	Categorical    *CategoricalSection
	Completed      bool
	GeneratedAt    time.Time
}

// CategoricalSection holds the dropdown state and the test it drove
type CategoricalSection struct {
	Options       []string
	Col1          string
	Col2          string
	SecondOptions []string
	Result        *analysis.ChiSquareResult
}

// HasNumeric reports whether numeric analysis ran
func (r *Report) HasNumeric() bool {
	return r.Numeric != nil
}

// HasCategorical reports whether the chi-square section is shown
func (r *Report) HasCategorical() bool {
	return r.Categorical != nil && r.Categorical.Result != nil
}

// ChiSquareLine formats the test outcome as shown under the dropdowns
func (r *Report) ChiSquareLine() string {
	if !r.HasCategorical() {
		return ""
	}
	return ChiSquareLine(r.Categorical.Result)
}

// ChiSquareLine formats a test result with 2 and 4 decimals
func ChiSquareLine(res *analysis.ChiSquareResult) string {
	return fmt.Sprintf("χ² = %.2f, p-value = %.4f", res.Statistic, res.PValue)
}

// SummaryRow is one describe row rendered to strings
type SummaryRow struct {
	Column string
	Cells  []string
}

// SummaryHeader lists the describe columns in display order
var SummaryHeader = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// SummaryRows renders the describe table for display
func (r *Report) SummaryRows() []SummaryRow {
	if r.Numeric == nil {
		return nil
	}
	rows := make([]SummaryRow, len(r.Numeric.Summaries))
	for i, s := range r.Numeric.Summaries {
		rows[i] = SummaryRow{
			Column: s.Column,
			Cells: []string{
				strconv.Itoa(s.Count),
				FormatFloat(s.Mean),
				FormatFloat(s.Std),
				FormatFloat(s.Min),
				FormatFloat(s.Q25),
				FormatFloat(s.Median),
				FormatFloat(s.Q75),
				FormatFloat(s.Max),
			},
		}
	}
	return rows
}

// CorrelationRows renders the matrix with 2 decimals
func (r *Report) CorrelationRows() []SummaryRow {
	if r.Numeric == nil || r.Numeric.Correlation == nil {
		return nil
	}
	m := r.Numeric.Correlation
	rows := make([]SummaryRow, m.Size())
	for i, name := range m.Columns {
		cells := make([]string, m.Size())
		for j := range m.Columns {
			cells[j] = FormatCoefficient(m.At(i, j))
		}
		rows[i] = SummaryRow{Column: name, Cells: cells}
	}
	return rows
}

// FormatFloat prints a statistic with 4 decimals, NaN as "NaN"
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// FormatCoefficient prints a correlation coefficient with 2 decimals
func FormatCoefficient(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
