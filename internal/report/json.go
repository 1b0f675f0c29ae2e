package report

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Number is a float64 that encodes NaN and infinities as null
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// Document is the machine-readable form of a Report
type Document struct {
	ID                 string        `json:"id,omitempty"`
	File               string        `json:"file"`
	Format             string        `json:"format"`
	Rows               int           `json:"rows"`
	Columns            int           `json:"columns"`
	ColumnNames        []string      `json:"column_names"`
	Preview            [][]string    `json:"preview"`
	NumericColumns     []string      `json:"numeric_columns"`
	CategoricalColumns []string      `json:"categorical_columns"`
	Describe           []SummaryJSON `json:"describe,omitempty"`
	Correlation        *MatrixJSON   `json:"correlation,omitempty"`
	ChiSquare          *ChiJSON      `json:"chi_square,omitempty"`
	Completed          bool          `json:"completed"`
	GeneratedAt        time.Time     `json:"generated_at"`
}

type SummaryJSON struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Mean   Number `json:"mean"`
	Std    Number `json:"std"`
	Min    Number `json:"min"`
	Q25    Number `json:"25%"`
	Median Number `json:"50%"`
	Q75    Number `json:"75%"`
	Max    Number `json:"max"`
}

type MatrixJSON struct {
	Columns []string   `json:"columns"`
	Values  [][]Number `json:"values"`
}

type ChiJSON struct {
	Column1          string     `json:"column1"`
	Column2          string     `json:"column2"`
	Statistic        Number     `json:"statistic"`
	PValue           Number     `json:"p_value"`
	DegreesOfFreedom int        `json:"dof"`
	Summary          string     `json:"summary"`
	RowLabels        []string   `json:"row_labels"`
	ColLabels        []string   `json:"col_labels"`
	Counts           [][]int    `json:"counts"`
	Expected         [][]Number `json:"expected"`
}

// Document converts the report into its JSON shape
func (r *Report) Document() Document {
	doc := Document{
		ID:                 r.ID,
		File:               r.FileName,
		Format:             r.Format,
		Rows:               r.Rows,
		Columns:            r.Columns,
		ColumnNames:        nonNil(r.ColumnNames),
		Preview:            r.Preview,
		NumericColumns:     nonNil(r.Classification.Numeric),
		CategoricalColumns: nonNil(r.Classification.Categorical),
		Completed:          r.Completed,
		GeneratedAt:        r.GeneratedAt,
	}
	if doc.Preview == nil {
		doc.Preview = [][]string{}
	}

	if r.HasNumeric() {
		for _, s := range r.Numeric.Summaries {
			doc.Describe = append(doc.Describe, SummaryJSON{
				Column: s.Column,
				Count:  s.Count,
				Mean:   Number(s.Mean),
				Std:    Number(s.Std),
				Min:    Number(s.Min),
				Q25:    Number(s.Q25),
				Median: Number(s.Median),
				Q75:    Number(s.Q75),
				Max:    Number(s.Max),
			})
		}
		m := r.Numeric.Correlation
		doc.Correlation = &MatrixJSON{Columns: m.Columns, Values: numbers(m.Values)}
	}

	if r.HasCategorical() {
		res := r.Categorical.Result
		doc.ChiSquare = &ChiJSON{
			Column1:          r.Categorical.Col1,
			Column2:          r.Categorical.Col2,
			Statistic:        Number(res.Statistic),
			PValue:           Number(res.PValue),
			DegreesOfFreedom: res.DegreesOfFreedom,
			Summary:          ChiSquareLine(res),
			RowLabels:        res.Table.RowLabels,
			ColLabels:        res.Table.ColLabels,
			Counts:           res.Table.Counts,
			Expected:         numbers(res.Expected),
		}
	}
	return doc
}

// MarshalJSON encodes the report as its Document
func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Document())
}

func numbers(values [][]float64) [][]Number {
	out := make([][]Number, len(values))
	for i, row := range values {
		out[i] = make([]Number, len(row))
		for j, v := range row {
			out[i][j] = Number(v)
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
