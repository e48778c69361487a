// Package dataset holds the in-memory tabular structure produced by the
// record store and consumed by the model service and analytics engine.
package dataset

import (
	"fmt"
	"math"
)

// column is a single named column. Numeric columns store float64 values with
// NaN marking a missing cell; string columns use the empty string.
type column struct {
	name    string
	numeric bool
	floats  []float64
	strings []string
}

// Frame is an ordered set of named, typed columns of equal length. Column
// order is insertion order and is stable across all accessors, which the
// feature contract depends on.
type Frame struct {
	columns []*column
	index   map[string]int
	rows    int
}

func New() *Frame {
	return &Frame{index: make(map[string]int)}
}

// Rows returns the number of rows.
func (f *Frame) Rows() int {
	return f.rows
}

// ColumnNames returns the column names in insertion order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.name
	}
	return names
}

func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// IsNumeric reports whether the named column exists and is numeric.
func (f *Frame) IsNumeric(name string) bool {
	i, ok := f.index[name]
	return ok && f.columns[i].numeric
}

func (f *Frame) checkLength(name string, n int) error {
	if _, exists := f.index[name]; exists {
		return fmt.Errorf("column %q already exists", name)
	}
	if len(f.columns) > 0 && n != f.rows {
		return fmt.Errorf("column %q has %d values, frame has %d rows", name, n, f.rows)
	}
	return nil
}

// AddNumericColumn appends a numeric column. NaN marks a missing value.
func (f *Frame) AddNumericColumn(name string, values []float64) error {
	if err := f.checkLength(name, len(values)); err != nil {
		return err
	}
	f.index[name] = len(f.columns)
	f.columns = append(f.columns, &column{name: name, numeric: true, floats: values})
	f.rows = len(values)
	return nil
}

// AddStringColumn appends a string column. The empty string marks a missing
// value.
func (f *Frame) AddStringColumn(name string, values []string) error {
	if err := f.checkLength(name, len(values)); err != nil {
		return err
	}
	f.index[name] = len(f.columns)
	f.columns = append(f.columns, &column{name: name, strings: values})
	f.rows = len(values)
	return nil
}

// Floats returns the backing slice of a numeric column. Callers must not
// mutate it.
func (f *Frame) Floats(name string) ([]float64, bool) {
	i, ok := f.index[name]
	if !ok || !f.columns[i].numeric {
		return nil, false
	}
	return f.columns[i].floats, true
}

// Strings returns the backing slice of a string column. Callers must not
// mutate it.
func (f *Frame) Strings(name string) ([]string, bool) {
	i, ok := f.index[name]
	if !ok || f.columns[i].numeric {
		return nil, false
	}
	return f.columns[i].strings, true
}

// Missing reports whether the cell at (column, row) is missing.
func (f *Frame) Missing(name string, row int) bool {
	i, ok := f.index[name]
	if !ok {
		return true
	}
	c := f.columns[i]
	if c.numeric {
		return math.IsNaN(c.floats[row])
	}
	return c.strings[row] == ""
}

// CompleteRows returns, per row, whether every cell in every column is
// present.
func (f *Frame) CompleteRows() []bool {
	complete := make([]bool, f.rows)
	for i := range complete {
		complete[i] = true
	}
	for _, c := range f.columns {
		for row := 0; row < f.rows; row++ {
			if c.numeric {
				if math.IsNaN(c.floats[row]) {
					complete[row] = false
				}
			} else if c.strings[row] == "" {
				complete[row] = false
			}
		}
	}
	return complete
}

// Select returns a new Frame containing the rows where keep is true, with the
// same columns in the same order.
func (f *Frame) Select(keep []bool) *Frame {
	out := New()
	for _, c := range f.columns {
		if c.numeric {
			vals := make([]float64, 0, f.rows)
			for row, k := range keep {
				if k {
					vals = append(vals, c.floats[row])
				}
			}
			_ = out.AddNumericColumn(c.name, vals)
		} else {
			vals := make([]string, 0, f.rows)
			for row, k := range keep {
				if k {
					vals = append(vals, c.strings[row])
				}
			}
			_ = out.AddStringColumn(c.name, vals)
		}
	}
	return out
}
