package preflight

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"sirsphoto/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFileAccess(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "obs.gpkg")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if r := CheckFileAccess("gpkg", f); !r.Passed {
		t.Fatalf("expected pass, got %s", r.Detail)
	}
	if r := CheckFileAccess("gpkg", dir); r.Passed {
		t.Fatal("expected failure for directory")
	}
	if r := CheckFileAccess("gpkg", filepath.Join(dir, "missing.gpkg")); r.Passed {
		t.Fatal("expected failure for missing file")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if r := CheckFreeSpace("space", dir, 1, 0); !r.Passed {
		t.Fatalf("expected a temp dir to hold one byte: %s", r.Detail)
	}
	if r := CheckFreeSpace("space", dir, math.MaxUint64/2, math.MaxUint64/4); r.Passed {
		t.Fatal("expected failure for impossible requirement")
	}
}

func TestRunAll(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ProjectDir = dir
	cfg.Paths.GPKGFile = "missing.gpkg"

	results := RunAll(&cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	failed, ok := FirstFailure(results)
	if !ok || failed.Name != "GeoPackage" {
		t.Fatalf("expected GeoPackage failure, got %+v", failed)
	}
}
