package relocate_test

import (
	"path/filepath"
	"testing"

	"sirsphoto/internal/config"
	"sirsphoto/internal/relocate"
	"sirsphoto/internal/table"
	"sirsphoto/internal/testsupport"
)

type fixture struct {
	cfg  *config.Config
	root string
	tbl  *table.Table
	data *relocate.Dataset
}

func newFixture(t *testing.T, rows ...map[string]string) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	tbl := testsupport.NewTable(t, rows...)
	return &fixture{
		cfg:  cfg,
		root: testsupport.BaseDir(cfg),
		tbl:  tbl,
		data: relocate.NewDataset(cfg, tbl),
	}
}

func (f *fixture) photo(t *testing.T, rel, content string) string {
	t.Helper()
	return testsupport.WritePhoto(t, f.root, rel, content)
}

func (f *fixture) path(rel string) string {
	return filepath.Join(f.root, filepath.FromSlash(rel))
}

func (f *fixture) simulator() *relocate.Simulator {
	return &relocate.Simulator{
		Dataset: f.data,
		Refs:    relocate.Collect(f.data),
		Namer:   relocate.NewNamer(f.cfg, f.data),
	}
}
