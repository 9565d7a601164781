package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"sirsphoto/internal/table"
)

//go:embed sample_config.toml
var sampleConfig string

// DefaultFileName is the configuration file looked up in the working directory.
const DefaultFileName = "config_sirs.toml"

// Paths contains project and container locations.
type Paths struct {
	ProjectDir string `toml:"project_dir"`
	GPKGFile   string `toml:"gpkg_file"`
	GPKGLayer  string `toml:"gpkg_layer"`
	LogDir     string `toml:"log_dir"`
}

// Columns names the table columns the relocation engine reads.
type Columns struct {
	// Segment is the segment (tronçon) column. When the table has no column
	// by that name the value itself is used as a static segment id.
	Segment     string `toml:"segment"`
	Designation string `toml:"designation"`
	Label       string `toml:"label"`
	PhotoMarker string `toml:"photo_marker"`
	PathSuffix  string `toml:"path_suffix"`
	DateSuffix  string `toml:"date_suffix"`
}

// Photos contains relocation behaviour switches.
type Photos struct {
	FallbackObservationDate bool `toml:"fallback_observation_date"`
	FallbackEXIFDate        bool `toml:"fallback_exif_date"`
	MinFreeSpaceMiB         int  `toml:"min_free_space_mib"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for sirsphoto.
//
// Configuration sections:
//   - Paths: project root, GeoPackage file/layer, optional log directory
//   - Columns: segment, disorder and photo column naming
//   - Photos: date fallbacks and free space margin
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Columns Columns `toml:"columns"`
	Photos  Photos  `toml:"photos"`
	Logging Logging `toml:"logging"`

	// File is the resolved path of the loaded configuration file.
	File string `toml:"-"`
}

// DefaultConfigPath returns the configuration file in the working directory.
func DefaultConfigPath() (string, error) {
	return filepath.Abs(DefaultFileName)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and the project directory resolved.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
		cfg.File = resolvedPath
	}

	if err := cfg.normalize(resolvedPath); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file not found: %s", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path is not a file: %s", expanded)
		}
		if !strings.EqualFold(filepath.Ext(expanded), ".toml") {
			return "", false, fmt.Errorf("config file must be a .toml file: %s", expanded)
		}
		return expanded, true, nil
	}

	projectPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return projectPath, false, nil
}

// GPKGPath returns the absolute GeoPackage path.
func (c *Config) GPKGPath() string {
	if c.Paths.GPKGFile == "" {
		return ""
	}
	if filepath.IsAbs(c.Paths.GPKGFile) {
		return c.Paths.GPKGFile
	}
	return filepath.Join(c.Paths.ProjectDir, c.Paths.GPKGFile)
}

// Layout returns the photo column naming convention.
func (c *Config) Layout() table.Layout {
	return table.Layout{
		PhotoMarker: c.Columns.PhotoMarker,
		PathSuffix:  c.Columns.PathSuffix,
		DateSuffix:  c.Columns.DateSuffix,
	}
}

// MinFreeSpaceBytes returns the configured free space margin in bytes.
func (c *Config) MinFreeSpaceBytes() uint64 {
	if c.Photos.MinFreeSpaceMiB <= 0 {
		return 0
	}
	return uint64(c.Photos.MinFreeSpaceMiB) << 20
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
