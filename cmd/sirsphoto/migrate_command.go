package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sirsphoto/internal/logging"
	"sirsphoto/internal/preflight"
	"sirsphoto/internal/prompt"
	"sirsphoto/internal/relocate"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Move photos to <segment>/<filename> and rewrite the photo columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			p, err := ctx.openProject(signalCtx)
			if err != nil {
				return err
			}
			defer p.Close()

			if !dryRun {
				if failed, ok := preflight.FirstFailure(preflight.RunAll(p.cfg)); ok {
					return fmt.Errorf("preflight check failed: %s: %s", failed.Name, failed.Detail)
				}
			}

			logger := ctx.loggerFor(cmd)
			out := cmd.OutOrStdout()
			w := reportWriter(out, p.data)
			migrator := &relocate.Migrator{
				Dataset:      p.data,
				Namer:        relocate.NewNamer(p.cfg, p.data),
				Decider:      prompt.NewConsole(cmd.InOrStdin(), out, w.Color),
				Logger:       logger,
				Report:       w,
				DryRun:       dryRun,
				MinFreeBytes: p.cfg.MinFreeSpaceBytes(),
			}

			res, err := migrator.Run(signalCtx)
			if errors.Is(err, relocate.ErrUserCancelled) {
				fmt.Fprintln(out, "Migration cancelled.")
				return nil
			}
			if err != nil {
				return err
			}
			if res.Diagnosis.Status == relocate.StatusConform {
				fmt.Fprintln(out, renderStatusLine("Migration", statusOK, "nothing to do", w.Color))
				return nil
			}
			w.Trail(res.Trail)
			if res.DryRun {
				fmt.Fprintln(out, renderStatusLine("Migration", statusInfo, "dry run, no file moved", w.Color))
				return nil
			}

			updated, err := p.store.WriteColumns(signalCtx, p.layer, p.data.Table, p.data.PhotoColumns())
			if err != nil {
				return fmt.Errorf("photos were relocated but %s was not updated: %w", p.store.Path(), err)
			}
			logger.Info("geopackage updated",
				logging.String("layer", p.layer),
				logging.Int("rows", updated),
			)

			fmt.Fprintln(out, renderStatusLine("Moved", statusOK, fmt.Sprintf("%d", res.Stats.Moved), w.Color))
			fmt.Fprintln(out, renderStatusLine("Copied", statusOK, fmt.Sprintf("%d", res.Stats.Copied), w.Color))
			fmt.Fprintln(out, renderStatusLine("Unchanged", statusInfo, fmt.Sprintf("%d", res.Stats.Unchanged), w.Color))
			fmt.Fprintln(out, renderStatusLine("Paths rewritten", statusOK, fmt.Sprintf("%d", res.Rewritten), w.Color))
			fmt.Fprintln(out, renderStatusLine("GeoPackage", statusOK, fmt.Sprintf("%s (%d rows)", p.layer, updated), w.Color))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve the relocation plan without moving files")
	return cmd
}
