package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateColumns(); err != nil {
		return err
	}
	if err := c.validatePhotos(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// ValidateContainer ensures the GeoPackage location is set. Commands that
// read the table call it; config scaffolding does not.
func (c *Config) ValidateContainer() error {
	if c.Paths.GPKGFile == "" {
		path := c.File
		if path == "" {
			path = DefaultFileName
		}
		return fmt.Errorf("paths.gpkg_file is required. Edit %s (create with 'sirsphoto config init')", path)
	}
	return nil
}

func (c *Config) validateColumns() error {
	if c.Columns.Segment == "" {
		return errors.New("columns.segment must be set (segment column name or static segment id)")
	}
	if c.Columns.PathSuffix == c.Columns.DateSuffix {
		return errors.New("columns.path_suffix and columns.date_suffix must differ")
	}
	return nil
}

func (c *Config) validatePhotos() error {
	if c.Photos.MinFreeSpaceMiB < 0 {
		return errors.New("photos.min_free_space_mib must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
