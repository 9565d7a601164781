// Package config loads, normalizes, and validates sirsphoto configuration data.
//
// It supplies repository defaults, reads the project's config_sirs.toml, and
// resolves the project root (the directory holding the configuration file
// unless paths.project_dir overrides it). The Config type centralizes the
// column naming, date fallback switches, and logging settings the relocation
// pipeline needs.
//
// Always obtain settings through this package so downstream code receives
// absolute paths and canonical log settings.
package config
