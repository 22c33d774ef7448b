// Package report provides tabular summaries of parsed visit files and a
// fixed-width text writer for serializing them.
package report

import (
	"errors"
	"fmt"
)

// ErrDuplicateKey indicates that a join key column contains the same value
// more than once, which would make the join result ambiguous.
var ErrDuplicateKey = errors.New("duplicate join key")

// Table is an ordered, column-named table of string cells. Rows preserve
// insertion order; column names are unique.
type Table struct {
	columns []string
	rows    [][]string
}

// NewTable creates an empty table with the given column names.
func NewTable(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{columns: cols}
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	cols := make([]string, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// AddRow appends a row. The number of values must match the number of columns.
func (t *Table) AddRow(values ...string) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(t.columns))
	}
	row := make([]string, len(values))
	copy(row, values)
	t.rows = append(t.rows, row)
	return nil
}

// Row returns the i-th row.
func (t *Table) Row(i int) []string {
	row := make([]string, len(t.rows[i]))
	copy(row, t.rows[i])
	return row
}

// Rows returns all rows in order.
func (t *Table) Rows() [][]string {
	rows := make([][]string, len(t.rows))
	for i, r := range t.rows {
		rows[i] = make([]string, len(r))
		copy(rows[i], r)
	}
	return rows
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns all values of the named column in row order.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("no such column: %s", name)
	}
	values := make([]string, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[idx]
	}
	return values, nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := NewTable(t.columns...)
	c.rows = t.Rows()
	return c
}

// Filter returns a new table containing only the rows for which keep
// returns true.
func (t *Table) Filter(keep func(row []string) bool) *Table {
	f := NewTable(t.columns...)
	for _, row := range t.rows {
		if keep(row) {
			r := make([]string, len(row))
			copy(r, row)
			f.rows = append(f.rows, r)
		}
	}
	return f
}

// Equal reports whether two tables have identical columns and rows.
func (t *Table) Equal(other *Table) bool {
	if len(t.columns) != len(other.columns) || len(t.rows) != len(other.rows) {
		return false
	}
	for i, c := range t.columns {
		if other.columns[i] != c {
			return false
		}
	}
	for i, row := range t.rows {
		for j, cell := range row {
			if other.rows[i][j] != cell {
				return false
			}
		}
	}
	return true
}

// Join performs an inner join of left and right on the named key column,
// which must exist in both tables. Rows without a match on the other side
// are dropped. The key must be unique within each table; a duplicate yields
// ErrDuplicateKey rather than a silent cross-product. The result carries
// the left columns followed by the right columns minus the key, in left
// row order.
func Join(left, right *Table, key string) (*Table, error) {
	lk := left.ColumnIndex(key)
	if lk < 0 {
		return nil, fmt.Errorf("left table has no column %s", key)
	}
	rk := right.ColumnIndex(key)
	if rk < 0 {
		return nil, fmt.Errorf("right table has no column %s", key)
	}

	rightByKey := make(map[string][]string, len(right.rows))
	for _, row := range right.rows {
		if _, seen := rightByKey[row[rk]]; seen {
			return nil, fmt.Errorf("%w: %s=%s", ErrDuplicateKey, key, row[rk])
		}
		rightByKey[row[rk]] = row
	}

	columns := make([]string, 0, len(left.columns)+len(right.columns)-1)
	columns = append(columns, left.columns...)
	for i, c := range right.columns {
		if i != rk {
			columns = append(columns, c)
		}
	}
	joined := NewTable(columns...)

	seenLeft := make(map[string]bool, len(left.rows))
	for _, lrow := range left.rows {
		k := lrow[lk]
		if seenLeft[k] {
			return nil, fmt.Errorf("%w: %s=%s", ErrDuplicateKey, key, k)
		}
		seenLeft[k] = true

		rrow, ok := rightByKey[k]
		if !ok {
			continue
		}
		row := make([]string, 0, len(columns))
		row = append(row, lrow...)
		for i, cell := range rrow {
			if i != rk {
				row = append(row, cell)
			}
		}
		joined.rows = append(joined.rows, row)
	}
	return joined, nil
}
