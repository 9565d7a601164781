package testsupport

import (
	"testing"

	"sirsphoto/internal/table"
)

// Columns of the inspection tables built by NewTable.
var Columns = []string{
	"troncon", "designation", "libelle",
	"obs1_date",
	"obs1_pho1_chemin", "obs1_pho1_date",
	"obs1_pho2_chemin", "obs1_pho2_date",
}

// NewTable builds a table with Columns and one row per entry, with row ids
// starting at 1. Empty strings are stored as null.
func NewTable(t testing.TB, rows ...map[string]string) *table.Table {
	t.Helper()

	tbl, err := table.New(Columns...)
	if err != nil {
		t.Fatalf("table.New: %v", err)
	}
	for i, values := range rows {
		cells := make(map[string]table.Value, len(values))
		for k, v := range values {
			if v == "" {
				cells[k] = table.Null()
				continue
			}
			cells[k] = table.Text(v)
		}
		if _, err := tbl.Append(int64(i+1), cells); err != nil {
			t.Fatalf("append row %d: %v", i+1, err)
		}
	}
	return tbl
}

// Cell returns the trimmed text of column in the row with id.
func Cell(t testing.TB, tbl *table.Table, id int64, column string) string {
	t.Helper()

	row, ok := tbl.Row(id)
	if !ok {
		t.Fatalf("row %d not found", id)
	}
	return tbl.Get(row, column).String()
}
