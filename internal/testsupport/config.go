package testsupport

import (
	"path/filepath"
	"testing"

	"sirsphoto/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a unique temp project directory.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ProjectDir = base
	cfgVal.Paths.GPKGFile = "observations.gpkg"
	cfgVal.Paths.GPKGLayer = "observations"
	cfgVal.Columns.Segment = "troncon"
	cfgVal.Columns.Designation = "designation"
	cfgVal.Columns.Label = "libelle"
	cfgVal.Photos.MinFreeSpaceMiB = 0
	cfgVal.File = filepath.Join(base, config.DefaultFileName)

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSegmentColumn overrides the segment column, or static segment value.
func WithSegmentColumn(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Columns.Segment = name
	}
}

// WithObservationDateFallback enables the observation date fallback.
func WithObservationDateFallback() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Photos.FallbackObservationDate = true
	}
}

// WithLogDir places logs below the project directory.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.LogDir = filepath.Join(b.baseDir, "logs")
	}
}

// BaseDir returns the project directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return cfg.Paths.ProjectDir
}
