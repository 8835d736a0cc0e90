// Package table is the in-memory tabular structure the jobs pass around:
// a header of column names and string cells, read from and written to CSV.
package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Table is a column-addressable set of rows. Cells are kept as text so a
// job can pass through columns it does not understand.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New creates an empty table with the given header.
func New(columns ...string) (*Table, error) {
	t := &Table{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		if _, dup := t.index[c]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		t.index[c] = len(t.columns)
		t.columns = append(t.columns, c)
	}
	return t, nil
}

// MustNew is New for headers known at compile time.
func MustNew(columns ...string) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns a copy of the header.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether col is in the header.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Append adds a row; it must match the header width.
func (t *Table) Append(values ...string) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("%w: got %d cells, want %d", ErrRowWidth, len(values), len(t.columns))
	}
	row := make([]string, len(values))
	copy(row, values)
	t.rows = append(t.rows, row)
	return nil
}

// AppendMap adds a row from column/value pairs; columns not present in
// the map are left empty and keys not in the header are ignored.
func (t *Table) AppendMap(values map[string]string) {
	row := make([]string, len(t.columns))
	for c, v := range values {
		if i, ok := t.index[c]; ok {
			row[i] = v
		}
	}
	t.rows = append(t.rows, row)
}

// AddColumn appends an empty column. Existing columns are left alone.
func (t *Table) AddColumn(col string) {
	if t.Has(col) {
		return
	}
	t.index[col] = len(t.columns)
	t.columns = append(t.columns, col)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], "")
	}
}

// Value returns the cell text, or "" when the column is absent.
func (t *Table) Value(row int, col string) string {
	i, ok := t.index[col]
	if !ok {
		return ""
	}
	return t.rows[row][i]
}

// Set writes a cell, adding the column first when needed.
func (t *Table) Set(row int, col, value string) {
	t.AddColumn(col)
	t.rows[row][t.index[col]] = value
}

// SetFloat writes a number; non-finite values become empty cells.
func (t *Table) SetFloat(row int, col string, v float64) {
	t.Set(row, col, FormatFloat(v))
}

// Float parses a numeric cell. ok is false for absent columns, empty or
// unparsable cells and NaN.
func (t *Table) Float(row int, col string) (v float64, ok bool) {
	s := strings.TrimSpace(t.Value(row, col))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// FloatOrZero is Float with missing values filled with 0.
func (t *Table) FloatOrZero(row int, col string) float64 {
	v, _ := t.Float(row, col)
	return v
}

// Record returns a copy of a row in header order.
func (t *Table) Record(row int) []string {
	out := make([]string, len(t.columns))
	copy(out, t.rows[row])
	return out
}

// Filter returns a new table with the rows keep accepts, in order.
func (t *Table) Filter(keep func(row int) bool) *Table {
	out := MustNew(t.columns...)
	for i := range t.rows {
		if keep(i) {
			out.rows = append(out.rows, t.Record(i))
		}
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	return t.Filter(func(int) bool { return true })
}

// Where keeps rows whose col equals value.
func (t *Table) Where(col, value string) *Table {
	return t.Filter(func(row int) bool { return t.Value(row, col) == value })
}

// Drop returns a copy of the table without the named columns.
func (t *Table) Drop(cols ...string) *Table {
	skip := make(map[string]bool, len(cols))
	for _, c := range cols {
		skip[c] = true
	}
	var keep []string
	for _, c := range t.columns {
		if !skip[c] {
			keep = append(keep, c)
		}
	}
	out := MustNew(keep...)
	for i := range t.rows {
		row := make([]string, len(keep))
		for j, c := range keep {
			row[j] = t.Value(i, c)
		}
		out.rows = append(out.rows, row)
	}
	return out
}

// FormatFloat renders v compactly; NaN and ±Inf become "".
func FormatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
