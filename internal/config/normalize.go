package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize(configPath string) error {
	if err := c.normalizePaths(configPath); err != nil {
		return err
	}
	c.normalizeColumns()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths(configPath string) error {
	var err error
	projectDir := strings.TrimSpace(c.Paths.ProjectDir)
	if projectDir == "" && configPath != "" {
		projectDir = filepath.Dir(configPath)
	}
	if projectDir == "" {
		projectDir = "."
	}
	if c.Paths.ProjectDir, err = expandPath(projectDir); err != nil {
		return fmt.Errorf("paths.project_dir: %w", err)
	}
	c.Paths.GPKGFile = strings.TrimSpace(c.Paths.GPKGFile)
	c.Paths.GPKGLayer = strings.TrimSpace(c.Paths.GPKGLayer)
	if logDir := strings.TrimSpace(c.Paths.LogDir); logDir != "" {
		if !filepath.IsAbs(logDir) && !strings.HasPrefix(logDir, "~") {
			logDir = filepath.Join(c.Paths.ProjectDir, logDir)
		}
		if c.Paths.LogDir, err = expandPath(logDir); err != nil {
			return fmt.Errorf("paths.log_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeColumns() {
	c.Columns.Segment = strings.TrimSpace(c.Columns.Segment)
	c.Columns.Designation = strings.TrimSpace(c.Columns.Designation)
	c.Columns.Label = strings.TrimSpace(c.Columns.Label)
	if strings.TrimSpace(c.Columns.PhotoMarker) == "" {
		c.Columns.PhotoMarker = defaultPhotoMarker
	}
	if strings.TrimSpace(c.Columns.PathSuffix) == "" {
		c.Columns.PathSuffix = defaultPathSuffix
	}
	if strings.TrimSpace(c.Columns.DateSuffix) == "" {
		c.Columns.DateSuffix = defaultDateSuffix
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
