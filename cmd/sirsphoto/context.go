package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"sirsphoto/internal/config"
	"sirsphoto/internal/gpkg"
	"sirsphoto/internal/logging"
	"sirsphoto/internal/relocate"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// loggerFor builds the configured logger once; failures fall back to a
// discarding logger so commands still run.
func (c *commandContext) loggerFor(cmd *cobra.Command) *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "logging disabled: %v\n", err)
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

// project is an opened GeoPackage layer bound to the relocation engine.
type project struct {
	cfg   *config.Config
	store *gpkg.Store
	layer string
	data  *relocate.Dataset
}

func (p *project) Close() error {
	return p.store.Close()
}

func (c *commandContext) openProject(ctx context.Context) (*project, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateContainer(); err != nil {
		return nil, err
	}
	store, err := gpkg.Open(cfg.GPKGPath())
	if err != nil {
		return nil, err
	}
	layer, err := store.ResolveLayer(ctx, cfg.Paths.GPKGLayer)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	tbl, err := store.Load(ctx, layer)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return &project{cfg: cfg, store: store, layer: layer, data: relocate.NewDataset(cfg, tbl)}, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
