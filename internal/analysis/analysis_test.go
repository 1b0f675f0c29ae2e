package analysis

import (
	"errors"
	"math"
	"testing"

	"smartanalyzer/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textDataset(t *testing.T, columns map[string][]any, order ...string) *dataset.Dataset {
	t.Helper()
	cols := make([]*dataset.Column, 0, len(order))
	for _, name := range order {
		cols = append(cols, dataset.NewColumn(name, columns[name], dataset.TextOptions()))
	}
	ds, err := dataset.New("test", cols)
	require.NoError(t, err)
	return ds
}

func peopleDataset(t *testing.T) *dataset.Dataset {
	return textDataset(t, map[string][]any{
		"age":  {"20", "30", "40"},
		"city": {"A", "B", "A"},
		"plan": {"X", "Y", "X"},
	}, "age", "city", "plan")
}

func TestDescribe_People(t *testing.T) {
	ds, err := peopleDataset(t).Select("age")
	require.NoError(t, err)

	summaries, err := Describe(ds)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, "age", s.Column)
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 30.0, s.Mean, 1e-12)
	assert.InDelta(t, 10.0, s.Std, 1e-12)
	assert.Equal(t, 20.0, s.Min)
	assert.Equal(t, 25.0, s.Q25)
	assert.Equal(t, 30.0, s.Median)
	assert.Equal(t, 35.0, s.Q75)
	assert.Equal(t, 40.0, s.Max)
}

func TestDescribe_CountSkipsMissing(t *testing.T) {
	ds := textDataset(t, map[string][]any{
		"x":     {"1", "NA", "2", "3", "4"},
		"empty": {"", "", "", "", ""},
		"one":   {"7", "", "", "", ""},
	}, "x", "empty", "one")

	summaries, err := Describe(ds)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	x := summaries[0]
	assert.Equal(t, 4, x.Count)
	assert.Equal(t, 1.75, x.Q25)
	assert.Equal(t, 2.5, x.Median)
	assert.Equal(t, 3.25, x.Q75)

	empty := summaries[1]
	assert.Equal(t, 0, empty.Count)
	assert.True(t, math.IsNaN(empty.Mean))
	assert.True(t, math.IsNaN(empty.Max))

	one := summaries[2]
	assert.Equal(t, 1, one.Count)
	assert.Equal(t, 7.0, one.Mean)
	assert.True(t, math.IsNaN(one.Std))
	assert.Equal(t, 7.0, one.Median)
}

func TestDescribe_RejectsNonNumeric(t *testing.T) {
	_, err := Describe(peopleDataset(t))
	assert.True(t, errors.Is(err, ErrNotNumeric))
}

func TestQuantile(t *testing.T) {
	data := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.0, quantile(data, 0))
	assert.Equal(t, 4.0, quantile(data, 1))
	assert.Equal(t, 1.75, quantile(data, 0.25))
	assert.True(t, math.IsNaN(quantile(nil, 0.5)))
}

func TestCorrelate_SingleColumn(t *testing.T) {
	ds, err := peopleDataset(t).Select("age")
	require.NoError(t, err)

	m, err := Correlate(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"age"}, m.Columns)
	assert.Equal(t, [][]float64{{1.0}}, m.Values)
}

func TestCorrelate_SymmetricUnitDiagonal(t *testing.T) {
	ds := textDataset(t, map[string][]any{
		"a": {"1", "2", "3", "4", "5"},
		"b": {"2", "4", "5", "4", "5"},
		"c": {"5", "3", "4", "1", "2"},
	}, "a", "b", "c")

	m, err := Correlate(ds)
	require.NoError(t, err)
	require.Equal(t, 3, m.Size())

	for i := 0; i < m.Size(); i++ {
		assert.Equal(t, 1.0, m.At(i, i))
		for j := 0; j < m.Size(); j++ {
			assert.Equal(t, m.At(i, j), m.At(j, i))
			assert.GreaterOrEqual(t, m.At(i, j), -1.0)
			assert.LessOrEqual(t, m.At(i, j), 1.0)
		}
	}
	assert.InDelta(t, 0.7745966692, m.At(0, 1), 1e-9)
	assert.InDelta(t, -0.8, m.At(0, 2), 1e-9)
}

func TestCorrelate_PairwiseComplete(t *testing.T) {
	ds := textDataset(t, map[string][]any{
		"a": {"1", "2", "3", "100"},
		"b": {"2", "4", "6", ""},
		"k": {"3", "3", "3", "3"},
	}, "a", "b", "k")

	m, err := Correlate(ds)
	require.NoError(t, err)

	// the outlier row is dropped because b is missing there
	assert.InDelta(t, 1.0, m.At(0, 1), 1e-12)
	// zero variance
	assert.True(t, math.IsNaN(m.At(0, 2)))
	assert.Equal(t, 1.0, m.At(2, 2))
}

func TestAnalyzeNumeric(t *testing.T) {
	ds, err := peopleDataset(t).Select("age")
	require.NoError(t, err)

	res, err := AnalyzeNumeric(ds)
	require.NoError(t, err)
	assert.Len(t, res.Summaries, 1)
	assert.Equal(t, 1, res.Correlation.Size())
}

func TestCrosstab_People(t *testing.T) {
	table, err := Crosstab(peopleDataset(t), "city", "plan")
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, table.RowLabels)
	assert.Equal(t, []string{"X", "Y"}, table.ColLabels)
	assert.Equal(t, [][]int{{2, 0}, {0, 1}}, table.Counts)
	assert.Equal(t, 3, table.Total())
	assert.Equal(t, []int{2, 1}, table.RowTotals())
	assert.Equal(t, []int{2, 1}, table.ColTotals())
}

func TestCrosstab_DropsMissingPairs(t *testing.T) {
	ds := textDataset(t, map[string][]any{
		"r": {"a", "b", "", "a", "b"},
		"c": {"x", "", "y", "y", "x"},
	}, "r", "c")

	table, err := Crosstab(ds, "r", "c")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Total())
	assert.Equal(t, [][]int{{1, 1}, {1, 0}}, table.Counts)
}

func TestCrosstab_RejectsNonCategorical(t *testing.T) {
	_, err := Crosstab(peopleDataset(t), "age", "plan")
	assert.True(t, errors.Is(err, ErrNotCategorical))

	_, err = Crosstab(peopleDataset(t), "city", "missing")
	assert.True(t, errors.Is(err, dataset.ErrColumnNotFound))
}

func TestChiSquare_YatesOnTwoByTwo(t *testing.T) {
	res, err := ChiSquare(peopleDataset(t), "city", "plan")
	require.NoError(t, err)

	assert.Equal(t, 1, res.DegreesOfFreedom)
	assert.InDelta(t, 0.1875, res.Statistic, 1e-12)
	assert.InDelta(t, 0.6650, res.PValue, 1e-3)
	assert.InDelta(t, 4.0/3.0, res.Expected[0][0], 1e-12)
	assert.Equal(t, 3, res.Table.Total())
}

func TestChiSquareTest_WithoutCorrection(t *testing.T) {
	table := &ContingencyTable{
		RowLabels: []string{"a", "b"},
		ColLabels: []string{"x", "y"},
		Counts:    [][]int{{10, 20}, {30, 40}},
	}
	res, err := ChiSquareTest(table, false)
	require.NoError(t, err)
	assert.InDelta(t, 0.7936507937, res.Statistic, 1e-9)
	assert.InDelta(t, 0.3730, res.PValue, 1e-3)

	corrected, err := ChiSquareTest(table, true)
	require.NoError(t, err)
	assert.Less(t, corrected.Statistic, res.Statistic)
	assert.GreaterOrEqual(t, corrected.Statistic, 0.0)
}

func TestChiSquareTest_LargerTableSkipsCorrection(t *testing.T) {
	table := &ContingencyTable{
		RowLabels: []string{"a", "b", "c"},
		ColLabels: []string{"x", "y"},
		Counts:    [][]int{{5, 5}, {5, 5}, {5, 5}},
	}
	res, err := ChiSquareTest(table, true)
	require.NoError(t, err)
	assert.Equal(t, 2, res.DegreesOfFreedom)
	assert.Equal(t, 0.0, res.Statistic)
	assert.InDelta(t, 1.0, res.PValue, 1e-12)
}

func TestChiSquareTest_Degenerate(t *testing.T) {
	t.Run("single category", func(t *testing.T) {
		ds := textDataset(t, map[string][]any{
			"r": {"a", "a", "a"},
			"c": {"x", "y", "x"},
		}, "r", "c")
		res, err := ChiSquare(ds, "r", "c")
		require.NoError(t, err)
		assert.Equal(t, 0, res.DegreesOfFreedom)
		assert.Equal(t, 0.0, res.Statistic)
		assert.Equal(t, 1.0, res.PValue)
	})

	t.Run("empty table", func(t *testing.T) {
		_, err := ChiSquareTest(&ContingencyTable{}, true)
		assert.True(t, errors.Is(err, ErrEmptyTable))
	})

	t.Run("zero expected", func(t *testing.T) {
		table := &ContingencyTable{
			RowLabels: []string{"a", "b"},
			ColLabels: []string{"x", "y"},
			Counts:    [][]int{{0, 3}, {0, 2}},
		}
		_, err := ChiSquareTest(table, true)
		assert.True(t, errors.Is(err, ErrZeroExpected))
	})
}
