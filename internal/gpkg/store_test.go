package gpkg

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"sirsphoto/internal/table"
)

func createGeoPackage(t *testing.T, layers ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "observations.gpkg")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE gpkg_contents (table_name TEXT PRIMARY KEY, data_type TEXT NOT NULL, identifier TEXT)`,
		`CREATE TABLE gpkg_geometry_columns (table_name TEXT, column_name TEXT, geometry_type_name TEXT, srs_id INTEGER, z TINYINT, m TINYINT)`,
	}
	for _, layer := range layers {
		q := quoteIdent(layer)
		stmts = append(stmts,
			`INSERT INTO gpkg_contents (table_name, data_type, identifier) VALUES ('`+layer+`', 'features', '`+layer+`')`,
			`INSERT INTO gpkg_geometry_columns VALUES ('`+layer+`', 'geom', 'POINT', 2154, 0, 0)`,
			`CREATE TABLE `+q+` (fid INTEGER PRIMARY KEY AUTOINCREMENT, geom BLOB, troncon TEXT, designation TEXT, obs1_pho1_chemin TEXT, obs1_pho1_date TEXT, pk_num REAL)`,
			`INSERT INTO `+q+` (fid, geom, troncon, designation, obs1_pho1_chemin, obs1_pho1_date, pk_num) VALUES (1, X'00', 'T1', 'fissure', 'in\a.jpg', '2023-05-01', 12.5)`,
			`INSERT INTO `+q+` (fid, geom, troncon, designation, obs1_pho1_chemin, obs1_pho1_date, pk_num) VALUES (7, X'00', 'T2', NULL, NULL, NULL, 3)`,
		)
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	return path
}

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadSkipsGeometryAndKey(t *testing.T) {
	s := openStore(t, createGeoPackage(t, "observations"))
	ctx := context.Background()

	layer, err := s.ResolveLayer(ctx, "")
	if err != nil || layer != "observations" {
		t.Fatalf("ResolveLayer = %q, %v", layer, err)
	}
	tbl, err := s.Load(ctx, layer)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.HasColumn("geom") || tbl.HasColumn("fid") {
		t.Fatalf("unexpected columns %v", tbl.Columns())
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d", tbl.Len())
	}
	row, ok := tbl.Row(7)
	if !ok {
		t.Fatal("row 7 missing")
	}
	if v := tbl.Get(row, "obs1_pho1_chemin"); v.Valid {
		t.Fatalf("expected null path, got %+v", v)
	}
	if got := tbl.Get(row, "pk_num").String(); got != "3" {
		t.Fatalf("pk_num = %q", got)
	}
	first, _ := tbl.Row(1)
	if got := tbl.Get(first, "obs1_pho1_chemin").String(); got != `in\a.jpg` {
		t.Fatalf("path = %q", got)
	}
}

func TestWriteColumnsRoundTrip(t *testing.T) {
	path := createGeoPackage(t, "observations")
	s := openStore(t, path)
	ctx := context.Background()

	tbl, err := s.Load(ctx, "observations")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	row, _ := tbl.Row(1)
	if err := tbl.Set(row, "obs1_pho1_chemin", table.Text("T1/a.jpg")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	n, err := s.WriteColumns(ctx, "observations", tbl, []string{"obs1_pho1_chemin"})
	if err != nil || n != 2 {
		t.Fatalf("WriteColumns = %d, %v", n, err)
	}

	reloaded, err := s.Load(ctx, "observations")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.Equal(tbl) {
		t.Fatal("reloaded table differs from written table")
	}

	var geom []byte
	if err := s.db.QueryRow(`SELECT geom FROM observations WHERE fid = 1`).Scan(&geom); err != nil || len(geom) != 1 {
		t.Fatalf("geometry altered: %v %v", geom, err)
	}
}

func TestWriteColumnsRejectsUnknownColumn(t *testing.T) {
	s := openStore(t, createGeoPackage(t, "observations"))
	tbl, err := table.New("x")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.Append(1, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := s.WriteColumns(context.Background(), "observations", tbl, []string{"x"}); !errors.Is(err, table.ErrUnknownColumn) {
		t.Fatalf("expected unknown column, got %v", err)
	}
}

func TestResolveLayer(t *testing.T) {
	s := openStore(t, createGeoPackage(t, "a", "b"))
	ctx := context.Background()
	if _, err := s.ResolveLayer(ctx, ""); err == nil {
		t.Fatal("expected ambiguity error with two layers")
	}
	if got, err := s.ResolveLayer(ctx, "b"); err != nil || got != "b" {
		t.Fatalf("ResolveLayer(b) = %q, %v", got, err)
	}
	if _, err := s.ResolveLayer(ctx, "c"); !errors.Is(err, ErrLayerNotFound) {
		t.Fatalf("expected ErrLayerNotFound, got %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "absent.gpkg")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestToValue(t *testing.T) {
	tests := []struct {
		in   any
		want table.Value
	}{
		{nil, table.Null()},
		{"x", table.Text("x")},
		{[]byte("y"), table.Text("y")},
		{int64(42), table.Text("42")},
		{float64(1.5), table.Text("1.5")},
		{time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), table.Text("2023-05-01")},
		{time.Date(2023, 5, 1, 8, 30, 0, 0, time.UTC), table.Text("2023-05-01T08:30:00Z")},
	}
	for _, tt := range tests {
		if got := toValue(tt.in); got != tt.want {
			t.Fatalf("toValue(%v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
