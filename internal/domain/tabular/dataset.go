// Package tabular holds the generic in-memory table shared by every page:
// the remote feeds, the uploaded ISIN file, the broker directory and the
// augmented download.
package tabular

import (
	"fmt"
)

// Dataset is an ordered collection of named columns and rows of string cells.
// An empty cell is the null value.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New creates a dataset with the given header. Duplicate column names keep
// the first position for lookups by name.
func New(columns []string) *Dataset {
	d := &Dataset{
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	copy(d.columns, columns)
	for i, c := range d.columns {
		if _, exists := d.index[c]; !exists {
			d.index[c] = i
		}
	}
	return d
}

// Columns returns a copy of the column names in order
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	return len(d.rows)
}

// HasColumn reports whether a column with exactly this name exists
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// ColumnIndex returns the position of a column by name
func (d *Dataset) ColumnIndex(name string) (int, bool) {
	i, ok := d.index[name]
	return i, ok
}

// Append adds a row. Short rows are padded with nulls and long rows are
// truncated to the header width.
func (d *Dataset) Append(cells []string) {
	row := make([]string, len(d.columns))
	copy(row, cells)
	d.rows = append(d.rows, row)
}

// Row returns a copy of row i
func (d *Dataset) Row(i int) []string {
	out := make([]string, len(d.rows[i]))
	copy(out, d.rows[i])
	return out
}

// Rows returns a copy of every row
func (d *Dataset) Rows() [][]string {
	out := make([][]string, len(d.rows))
	for i := range d.rows {
		out[i] = d.Row(i)
	}
	return out
}

// Value returns the cell of row i in the named column, or "" when the
// column does not exist.
func (d *Dataset) Value(i int, column string) string {
	idx, ok := d.index[column]
	if !ok {
		return ""
	}
	return d.rows[i][idx]
}

// ColumnValues returns the values of a column in row order
func (d *Dataset) ColumnValues(name string) ([]string, error) {
	idx, ok := d.index[name]
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}
	values := make([]string, len(d.rows))
	for i, row := range d.rows {
		values[i] = row[idx]
	}
	return values, nil
}

// SetColumn writes values into the named column, appending the column when it
// does not exist yet. len(values) must equal Len().
func (d *Dataset) SetColumn(name string, values []string) error {
	if len(values) != len(d.rows) {
		return fmt.Errorf("column %q: got %d values for %d rows", name, len(values), len(d.rows))
	}
	idx, ok := d.index[name]
	if !ok {
		idx = len(d.columns)
		d.columns = append(d.columns, name)
		d.index[name] = idx
		for i := range d.rows {
			d.rows[i] = append(d.rows[i], "")
		}
	}
	for i, v := range values {
		d.rows[i][idx] = v
	}
	return nil
}

// Filter returns a new dataset holding the rows for which keep returns true
func (d *Dataset) Filter(keep func(i int) bool) *Dataset {
	out := New(d.columns)
	for i := range d.rows {
		if keep(i) {
			out.Append(d.rows[i])
		}
	}
	return out
}

// Project returns a new dataset restricted to the named columns, in the given
// order. Columns missing from d are returned as null columns.
func (d *Dataset) Project(columns ...string) *Dataset {
	out := New(columns)
	for _, row := range d.rows {
		cells := make([]string, len(columns))
		for j, c := range columns {
			if idx, ok := d.index[c]; ok {
				cells[j] = row[idx]
			}
		}
		out.Append(cells)
	}
	return out
}

// DistinctBy keeps the first row for each value of the named column, in
// original order. Empty values are a key like any other.
func (d *Dataset) DistinctBy(column string) (*Dataset, error) {
	idx, ok := d.index[column]
	if !ok {
		return nil, fmt.Errorf("column %q not found", column)
	}
	seen := make(map[string]struct{}, len(d.rows))
	return d.Filter(func(i int) bool {
		key := d.rows[i][idx]
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	}), nil
}
