package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sirsphoto/internal/preflight"
	"sirsphoto/internal/relocate"
)

type checkOutput struct {
	Layer     string             `json:"layer"`
	Rows      int                `json:"rows"`
	Preflight []preflight.Result `json:"preflight"`
	Diagnosis relocate.Diagnosis `json:"diagnosis"`
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that every photo exists and follows <segment>/<filename>",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.openProject(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			results := preflight.RunAll(p.cfg)
			diag := relocate.Diagnose(p.data)
			if jsonOut {
				if err := writeJSON(cmd, checkOutput{
					Layer:     p.layer,
					Rows:      p.data.Table.Len(),
					Preflight: results,
					Diagnosis: diag,
				}); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, r := range results {
					kind := statusOK
					if !r.Passed {
						kind = statusError
					}
					fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
				}
				fmt.Fprintln(out, renderStatusLine("Layer", statusInfo,
					fmt.Sprintf("%s (%d rows, %d photo columns)", p.layer, p.data.Table.Len(), len(p.data.PhotoColumns())), colorize))
				fmt.Fprintln(out, renderStatusLine("Photos", diagnosisKind(diag.Status), string(diag.Status), colorize))
				reportWriter(out, p.data).Diagnosis(diag)
			}

			if failed, ok := preflight.FirstFailure(results); ok {
				return fmt.Errorf("preflight check failed: %s: %s", failed.Name, failed.Detail)
			}
			return diag.Err()
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
