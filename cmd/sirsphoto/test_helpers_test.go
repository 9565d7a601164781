package main

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sirsphoto/internal/testsupport"
)

type cliTestEnv struct {
	root       string
	configPath string
	gpkgPath   string
}

type photoRow struct {
	fid     int64
	segment string
	path    string
	date    string
}

func setupCLITestEnv(t *testing.T, rows ...photoRow) *cliTestEnv {
	t.Helper()

	root := t.TempDir()
	configPath := filepath.Join(root, "config_sirs.toml")
	content := strings.Join([]string{
		"[paths]",
		`gpkg_file = "observations.gpkg"`,
		"[columns]",
		`segment = "troncon"`,
		`designation = "designation"`,
		`label = "libelle"`,
		"[logging]",
		`level = "error"`,
		"",
	}, "\n")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	gpkgPath := filepath.Join(root, "observations.gpkg")
	db, err := sql.Open("sqlite", gpkgPath)
	if err != nil {
		t.Fatalf("open gpkg: %v", err)
	}
	defer db.Close()
	stmts := []string{
		`CREATE TABLE gpkg_contents (table_name TEXT PRIMARY KEY, data_type TEXT NOT NULL)`,
		`CREATE TABLE gpkg_geometry_columns (table_name TEXT, column_name TEXT)`,
		`INSERT INTO gpkg_contents VALUES ('observations', 'features')`,
		`INSERT INTO gpkg_geometry_columns VALUES ('observations', 'geom')`,
		`CREATE TABLE observations (fid INTEGER PRIMARY KEY, geom BLOB, troncon TEXT, designation TEXT, libelle TEXT, obs1_pho1_chemin TEXT, obs1_pho1_date TEXT)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	for _, r := range rows {
		if _, err := db.Exec(
			`INSERT INTO observations (fid, troncon, obs1_pho1_chemin, obs1_pho1_date) VALUES (?, ?, ?, ?)`,
			r.fid, r.segment, r.path, nullable(r.date),
		); err != nil {
			t.Fatalf("insert row %d: %v", r.fid, err)
		}
	}
	return &cliTestEnv{root: root, configPath: configPath, gpkgPath: gpkgPath}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (e *cliTestEnv) photo(t *testing.T, rel, content string) {
	t.Helper()
	testsupport.WritePhoto(t, e.root, rel, content)
}

func (e *cliTestEnv) storedPath(t *testing.T, fid int64) string {
	t.Helper()
	db, err := sql.Open("sqlite", e.gpkgPath)
	if err != nil {
		t.Fatalf("open gpkg: %v", err)
	}
	defer db.Close()
	var path sql.NullString
	if err := db.QueryRow(`SELECT obs1_pho1_chemin FROM observations WHERE fid = ?`, fid).Scan(&path); err != nil {
		t.Fatalf("query row %d: %v", fid, err)
	}
	return path.String
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
