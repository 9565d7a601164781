package table

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownColumn is returned when a column lookup fails.
var ErrUnknownColumn = errors.New("unknown column")

// Value is a nullable scalar cell. Non-text source values are stored in their
// textual form.
type Value struct {
	Text  string
	Valid bool
}

// Text wraps s as a non-null value.
func Text(s string) Value {
	return Value{Text: s, Valid: true}
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// String returns the trimmed text, or "" for null.
func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	return strings.TrimSpace(v.Text)
}

// IsEmpty reports whether the value is null or one of the null-equivalent
// spellings produced by spreadsheet and dataframe exports.
func (v Value) IsEmpty() bool {
	if !v.Valid {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(v.Text)) {
	case "", "na", "nan", "none", "<na>", "null":
		return true
	}
	return false
}

// Row is one record of the table.
type Row struct {
	ID    int64
	cells []Value
}

// Table is an ordered collection of rows sharing a column set.
type Table struct {
	columns []string
	index   map[string]int
	rows    []*Row
	byID    map[int64]*Row
}

// New creates an empty table with the given columns. Duplicate column names
// are rejected.
func New(columns ...string) (*Table, error) {
	t := &Table{index: make(map[string]int, len(columns)), byID: make(map[int64]*Row)}
	for _, name := range columns {
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		t.index[name] = len(t.columns)
		t.columns = append(t.columns, name)
	}
	return t, nil
}

// Columns returns a copy of the column names in declaration order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether name is a column of the table.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the rows in table order. The slice must not be modified.
func (t *Table) Rows() []*Row {
	return t.rows
}

// Append adds a row. Values are keyed by column name; missing columns are
// null. Unknown column names and duplicate row ids are an error.
func (t *Table) Append(id int64, values map[string]Value) (*Row, error) {
	if _, dup := t.byID[id]; dup {
		return nil, fmt.Errorf("duplicate row id %d", id)
	}
	row := &Row{ID: id, cells: make([]Value, len(t.columns))}
	for name, v := range values {
		idx, ok := t.index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
		}
		row.cells[idx] = v
	}
	t.rows = append(t.rows, row)
	t.byID[id] = row
	return row, nil
}

// Get returns the value of column in row, or null when the column does not
// exist.
func (t *Table) Get(row *Row, column string) Value {
	idx, ok := t.index[column]
	if !ok || row == nil {
		return Null()
	}
	return row.cells[idx]
}

// Set writes a value into an existing column of row.
func (t *Table) Set(row *Row, column string, v Value) error {
	idx, ok := t.index[column]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	row.cells[idx] = v
	return nil
}

// Row returns the row with the given id.
func (t *Table) Row(id int64) (*Row, bool) {
	r, ok := t.byID[id]
	return r, ok
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out, _ := New(t.columns...)
	for _, r := range t.rows {
		cells := make([]Value, len(r.cells))
		copy(cells, r.cells)
		clone := &Row{ID: r.ID, cells: cells}
		out.rows = append(out.rows, clone)
		out.byID[r.ID] = clone
	}
	return out
}

// Equal reports whether both tables hold the same columns, row ids and values.
func (t *Table) Equal(other *Table) bool {
	if other == nil || len(t.columns) != len(other.columns) || len(t.rows) != len(other.rows) {
		return false
	}
	for i, c := range t.columns {
		if other.columns[i] != c {
			return false
		}
	}
	for i, r := range t.rows {
		o := other.rows[i]
		if r.ID != o.ID {
			return false
		}
		for j := range r.cells {
			if r.cells[j] != o.cells[j] {
				return false
			}
		}
	}
	return true
}
