package dataset

import (
	"errors"
	"fmt"
	"math"
)

// Kind is the inferred value type of a column
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
	KindBoolean     Kind = "boolean"
	KindDatetime    Kind = "datetime"
)

var (
	ErrRaggedColumns  = errors.New("columns have different lengths")
	ErrColumnNotFound = errors.New("column not found")
)

// Column is one named, typed column. Text holds the display form of every
// cell; Numbers is only populated for numeric columns and uses NaN for missing.
type Column struct {
	Name    string
	Kind    Kind
	Text    []string
	Missing []bool
	Numbers []float64
}

// Len returns the number of cells in the column
func (c *Column) Len() int {
	return len(c.Missing)
}

// IsMissing reports whether row i has no value
func (c *Column) IsMissing(i int) bool {
	return c.Missing[i]
}

// NonMissing counts cells with a value
func (c *Column) NonMissing() int {
	n := 0
	for _, m := range c.Missing {
		if !m {
			n++
		}
	}
	return n
}

// Display renders row i the way the preview shows it
func (c *Column) Display(i int) string {
	if !c.Missing[i] {
		return c.Text[i]
	}
	switch c.Kind {
	case KindNumeric:
		return "NaN"
	case KindDatetime:
		return "NaT"
	default:
		return "None"
	}
}

// Dataset is an immutable table of equally long named columns
type Dataset struct {
	Name    string
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a dataset, rejecting columns of unequal length
func New(name string, columns []*Column) (*Dataset, error) {
	ds := &Dataset{
		Name:    name,
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if i == 0 {
			ds.rows = col.Len()
		} else if col.Len() != ds.rows {
			return nil, fmt.Errorf("%w: %q has %d rows, expected %d", ErrRaggedColumns, col.Name, col.Len(), ds.rows)
		}
		if col.Kind == KindNumeric && len(col.Numbers) != col.Len() {
			return nil, fmt.Errorf("%w: numeric column %q has %d values for %d rows", ErrRaggedColumns, col.Name, len(col.Numbers), col.Len())
		}
		if _, dup := ds.index[col.Name]; !dup {
			ds.index[col.Name] = i
		}
	}
	return ds, nil
}

// Rows returns the shared row count
func (d *Dataset) Rows() int {
	return d.rows
}

// Width returns the number of columns
func (d *Dataset) Width() int {
	return len(d.columns)
}

// Columns returns the columns in order
func (d *Dataset) Columns() []*Column {
	return d.columns
}

// Names returns the column names in order
func (d *Dataset) Names() []string {
	names := make([]string, len(d.columns))
	for i, col := range d.columns {
		names[i] = col.Name
	}
	return names
}

// Column looks a column up by name
func (d *Dataset) Column(name string) (*Column, error) {
	i, ok := d.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return d.columns[i], nil
}

// Head returns the display form of the first n rows, all columns
func (d *Dataset) Head(n int) [][]string {
	if n > d.rows {
		n = d.rows
	}
	if n < 0 {
		n = 0
	}
	out := make([][]string, n)
	for r := 0; r < n; r++ {
		row := make([]string, len(d.columns))
		for c, col := range d.columns {
			row[c] = col.Display(r)
		}
		out[r] = row
	}
	return out
}

// Select returns a dataset restricted to the named columns, in the given order
func (d *Dataset) Select(names ...string) (*Dataset, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		col, err := d.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return New(d.Name, cols)
}

// Classification partitions column names by analysis role
type Classification struct {
	Numeric     []string
	Categorical []string
}

// Classify splits columns into numeric and categorical sets. Boolean and
// datetime columns belong to neither.
func (d *Dataset) Classify() Classification {
	var cls Classification
	for _, col := range d.columns {
		switch col.Kind {
		case KindNumeric:
			cls.Numeric = append(cls.Numeric, col.Name)
		case KindCategorical:
			cls.Categorical = append(cls.Categorical, col.Name)
		}
	}
	return cls
}

// NumericValues returns the values of a numeric column with NaN for missing
func (c *Column) NumericValues() ([]float64, bool) {
	if c.Kind != KindNumeric {
		return nil, false
	}
	return c.Numbers, true
}

// Present returns the non-missing numeric values
func Present(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
