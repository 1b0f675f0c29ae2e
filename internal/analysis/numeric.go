package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"smartanalyzer/domain/dataset"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNotNumeric     = errors.New("column is not numeric")
	ErrNotCategorical = errors.New("column is not categorical")
)

// Summary holds descriptive statistics of one numeric column
type Summary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// CorrelationMatrix is a square Pearson correlation matrix indexed by column name
type CorrelationMatrix struct {
	Columns []string
	Values  [][]float64
}

// At returns the coefficient for columns i and j
func (m *CorrelationMatrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// Size returns the number of columns on each axis
func (m *CorrelationMatrix) Size() int {
	return len(m.Columns)
}

// NumericResult bundles the descriptive table and correlation matrix
type NumericResult struct {
	Summaries   []Summary
	Correlation *CorrelationMatrix
}

// AnalyzeNumeric describes and correlates every column of ds; all columns
// must be numeric.
func AnalyzeNumeric(ds *dataset.Dataset) (*NumericResult, error) {
	summaries, err := Describe(ds)
	if err != nil {
		return nil, err
	}
	corr, err := Correlate(ds)
	if err != nil {
		return nil, err
	}
	return &NumericResult{Summaries: summaries, Correlation: corr}, nil
}

// Describe returns one Summary per column. Missing values are skipped; the
// standard deviation uses n-1 and is NaN below two observations.
func Describe(ds *dataset.Dataset) ([]Summary, error) {
	out := make([]Summary, 0, ds.Width())
	for _, col := range ds.Columns() {
		values, ok := col.NumericValues()
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNotNumeric, col.Name)
		}
		s, err := describeValues(col.Name, dataset.Present(values))
		if err != nil {
			return nil, fmt.Errorf("describe %q: %w", col.Name, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func describeValues(name string, data []float64) (Summary, error) {
	nan := math.NaN()
	s := Summary{Column: name, Count: len(data), Mean: nan, Std: nan, Min: nan, Q25: nan, Median: nan, Q75: nan, Max: nan}
	if len(data) == 0 {
		return s, nil
	}

	var err error
	if s.Mean, err = stats.Mean(data); err != nil {
		return s, err
	}
	if s.Min, err = stats.Min(data); err != nil {
		return s, err
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, err
	}
	if len(data) > 1 {
		if s.Std, err = stats.StandardDeviationSample(data); err != nil {
			return s, err
		}
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	s.Q25 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.50)
	s.Q75 = quantile(sorted, 0.75)
	return s, nil
}

// Correlate computes pairwise-complete Pearson coefficients. A pair uses only
// rows where both columns have a value. The matrix is exactly symmetric and
// its diagonal is 1 for any column with at least one value.
func Correlate(ds *dataset.Dataset) (*CorrelationMatrix, error) {
	cols := ds.Columns()
	n := len(cols)
	series := make([][]float64, n)
	for i, col := range cols {
		values, ok := col.NumericValues()
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNotNumeric, col.Name)
		}
		series[i] = values
	}

	m := &CorrelationMatrix{Columns: ds.Names(), Values: make([][]float64, n)}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		if len(dataset.Present(series[i])) > 0 {
			m.Values[i][i] = 1
		} else {
			m.Values[i][i] = math.NaN()
		}
		for j := i + 1; j < n; j++ {
			r := pairwisePearson(series[i], series[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m, nil
}

func pairwisePearson(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for k := range x {
		if math.IsNaN(x[k]) || math.IsNaN(y[k]) {
			continue
		}
		xs = append(xs, x[k])
		ys = append(ys, y[k])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.NaN()
	}
	return math.Max(-1, math.Min(1, r))
}
