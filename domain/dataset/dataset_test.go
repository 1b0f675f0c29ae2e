package dataset

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewColumn_KindInference(t *testing.T) {
	cases := []struct {
		name  string
		cells []any
		opts  InferOptions
		want  Kind
	}{
		{"numeric text", []any{"20", " 30 ", "4e1"}, TextOptions(), KindNumeric},
		{"numeric with NA tokens", []any{"1.5", "NA", ""}, TextOptions(), KindNumeric},
		{"all missing is numeric", []any{"", "NaN"}, TextOptions(), KindNumeric},
		{"labels", []any{"A", "B", "A"}, TextOptions(), KindCategorical},
		{"mixed number and label", []any{"1", "x"}, TextOptions(), KindCategorical},
		{"boolean literals", []any{"True", "false"}, TextOptions(), KindBoolean},
		{"boolean with missing is categorical", []any{"True", ""}, TextOptions(), KindCategorical},
		{"dates stay text without ParseDates", []any{"2024-01-02", "2024-02-03"}, TextOptions(), KindCategorical},
		{"dates parsed for spreadsheets", []any{"2024-01-02", "01-15-24"}, SpreadsheetOptions(), KindDatetime},
		{"native numbers", []any{int64(1), 2.5, nil}, InferOptions{}, KindNumeric},
		{"native bools", []any{true, false}, InferOptions{}, KindBoolean},
		{"native times", []any{time.Now(), nil}, InferOptions{}, KindDatetime},
		{"numeric text not coerced", []any{"1", "2"}, InferOptions{}, KindCategorical},
		{"hex literals stay text", []any{"0x1p3", "-0X1F"}, TextOptions(), KindCategorical},
		{"leading zero decimals are numbers", []any{"0.5", "007"}, TextOptions(), KindNumeric},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			col := NewColumn("c", tc.cells, tc.opts)
			assert.Equal(t, tc.want, col.Kind)
			assert.Equal(t, len(tc.cells), col.Len())
		})
	}
}

func TestNewColumn_NumericValues(t *testing.T) {
	col := NewColumn("age", []any{"20", "NA", "40"}, TextOptions())
	require.Equal(t, KindNumeric, col.Kind)

	assert.Equal(t, 20.0, col.Numbers[0])
	assert.True(t, math.IsNaN(col.Numbers[1]))
	assert.True(t, col.IsMissing(1))
	assert.Equal(t, 2, col.NonMissing())
	assert.Equal(t, "NaN", col.Display(1))
	assert.Equal(t, "40", col.Display(2))
}

func TestDataset_RejectsRaggedColumns(t *testing.T) {
	a := NewColumn("a", []any{"1", "2"}, TextOptions())
	b := NewColumn("b", []any{"x"}, TextOptions())

	_, err := New("t", []*Column{a, b})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRaggedColumns))
}

func TestDataset_ClassifyHeadSelect(t *testing.T) {
	ds, err := New("sample", []*Column{
		NewColumn("age", []any{"20", "30", "40"}, TextOptions()),
		NewColumn("city", []any{"A", "B", "A"}, TextOptions()),
		NewColumn("active", []any{"True", "False", "True"}, TextOptions()),
		NewColumn("plan", []any{"X", "Y", "X"}, TextOptions()),
		NewColumn("joined", []any{"2024-01-01", "2024-01-02", "2024-01-03"}, SpreadsheetOptions()),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Rows())
	assert.Equal(t, 5, ds.Width())

	cls := ds.Classify()
	assert.Equal(t, []string{"age"}, cls.Numeric)
	assert.Equal(t, []string{"city", "plan"}, cls.Categorical)

	head := ds.Head(2)
	require.Len(t, head, 2)
	assert.Equal(t, []string{"20", "A", "True", "X", "2024-01-01"}, head[0])
	assert.Len(t, ds.Head(10), 3)

	sub, err := ds.Select("plan", "age")
	require.NoError(t, err)
	assert.Equal(t, []string{"plan", "age"}, sub.Names())

	_, err = ds.Select("missing")
	assert.True(t, errors.Is(err, ErrColumnNotFound))
}

func TestUpload_Extension(t *testing.T) {
	assert.Equal(t, ".xlsx", Upload{Filename: "Report.XLSX"}.Extension())
	assert.Equal(t, "", Upload{Filename: "noext"}.Extension())
	assert.Equal(t, int64(3), Upload{Data: []byte("abc")}.Size())
}
