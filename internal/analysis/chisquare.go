package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"smartanalyzer/domain/dataset"

	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrEmptyTable   = errors.New("no data; contingency table has size 0")
	ErrZeroExpected = errors.New("the internally computed table of expected frequencies has a zero element")
)

// ContingencyTable counts co-occurrences of two categorical columns. Labels
// are sorted; Counts[i][j] pairs RowLabels[i] with ColLabels[j].
type ContingencyTable struct {
	RowVar    string
	ColVar    string
	RowLabels []string
	ColLabels []string
	Counts    [][]int
}

// Total is the sum of every cell
func (t *ContingencyTable) Total() int {
	total := 0
	for _, row := range t.Counts {
		for _, c := range row {
			total += c
		}
	}
	return total
}

// RowTotals returns the margin of each row
func (t *ContingencyTable) RowTotals() []int {
	out := make([]int, len(t.Counts))
	for i, row := range t.Counts {
		for _, c := range row {
			out[i] += c
		}
	}
	return out
}

// ColTotals returns the margin of each column
func (t *ContingencyTable) ColTotals() []int {
	out := make([]int, len(t.ColLabels))
	for _, row := range t.Counts {
		for j, c := range row {
			out[j] += c
		}
	}
	return out
}

// Crosstab builds the contingency table of two categorical columns. Rows
// missing a value in either column are left out.
func Crosstab(ds *dataset.Dataset, rowVar, colVar string) (*ContingencyTable, error) {
	rc, err := categoricalColumn(ds, rowVar)
	if err != nil {
		return nil, err
	}
	cc, err := categoricalColumn(ds, colVar)
	if err != nil {
		return nil, err
	}

	type pair struct{ r, c string }
	counts := make(map[pair]int)
	rowSeen := make(map[string]struct{})
	colSeen := make(map[string]struct{})
	for i := 0; i < ds.Rows(); i++ {
		if rc.IsMissing(i) || cc.IsMissing(i) {
			continue
		}
		p := pair{rc.Text[i], cc.Text[i]}
		counts[p]++
		rowSeen[p.r] = struct{}{}
		colSeen[p.c] = struct{}{}
	}

	t := &ContingencyTable{
		RowVar:    rowVar,
		ColVar:    colVar,
		RowLabels: sortedKeys(rowSeen),
		ColLabels: sortedKeys(colSeen),
	}
	t.Counts = make([][]int, len(t.RowLabels))
	for i, r := range t.RowLabels {
		t.Counts[i] = make([]int, len(t.ColLabels))
		for j, c := range t.ColLabels {
			t.Counts[i][j] = counts[pair{r, c}]
		}
	}
	return t, nil
}

func categoricalColumn(ds *dataset.Dataset, name string) (*dataset.Column, error) {
	col, err := ds.Column(name)
	if err != nil {
		return nil, err
	}
	if col.Kind != dataset.KindCategorical {
		return nil, fmt.Errorf("%w: %q is %s", ErrNotCategorical, name, col.Kind)
	}
	return col, nil
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ChiSquareResult is the outcome of a test of independence
type ChiSquareResult struct {
	Statistic        float64
	PValue           float64
	DegreesOfFreedom int
	Expected         [][]float64
	Table            *ContingencyTable
}

// ChiSquareTest runs Pearson's test of independence on t. With correction
// set and one degree of freedom, Yates' continuity correction moves every
// observed count up to 0.5 towards its expected count.
func ChiSquareTest(t *ContingencyTable, correction bool) (*ChiSquareResult, error) {
	total := t.Total()
	if len(t.RowLabels) == 0 || len(t.ColLabels) == 0 {
		return nil, ErrEmptyTable
	}

	rows, cols := t.RowTotals(), t.ColTotals()
	expected := make([][]float64, len(rows))
	for i := range rows {
		expected[i] = make([]float64, len(cols))
		for j := range cols {
			e := float64(rows[i]) * float64(cols[j]) / float64(total)
			if e == 0 {
				return nil, fmt.Errorf("%w at position (%d, %d)", ErrZeroExpected, i, j)
			}
			expected[i][j] = e
		}
	}

	dof := (len(rows) - 1) * (len(cols) - 1)
	res := &ChiSquareResult{DegreesOfFreedom: dof, Expected: expected, Table: t}
	if dof == 0 {
		res.Statistic, res.PValue = 0, 1
		return res, nil
	}

	yates := correction && dof == 1
	var chi2 float64
	for i, row := range t.Counts {
		for j, c := range row {
			o, e := float64(c), expected[i][j]
			if yates {
				diff := e - o
				o += math.Copysign(math.Min(0.5, math.Abs(diff)), diff)
			}
			chi2 += (o - e) * (o - e) / e
		}
	}
	res.Statistic = chi2
	res.PValue = distuv.ChiSquared{K: float64(dof)}.Survival(chi2)
	return res, nil
}

// ChiSquare cross-tabulates two categorical columns of ds and tests them for
// independence, applying Yates' correction on 2x2 tables.
func ChiSquare(ds *dataset.Dataset, rowVar, colVar string) (*ChiSquareResult, error) {
	t, err := Crosstab(ds, rowVar, colVar)
	if err != nil {
		return nil, err
	}
	return ChiSquareTest(t, true)
}
