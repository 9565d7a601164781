package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sirsphoto/internal/relocate"
)

type sharedAsset struct {
	Path       string   `json:"path"`
	Category   string   `json:"category"`
	References []string `json:"references"`
}

type reportOutput struct {
	Status     relocate.Status `json:"status"`
	Assets     int             `json:"assets"`
	References int             `json:"references"`
	Shared     []sharedAsset   `json:"shared"`
	Changes    int             `json:"changes"`
	Collisions []string        `json:"collisions"`
}

func newReportCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report shared photos and the collisions of a migration keeping original names",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.openProject(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			diag := relocate.Diagnose(p.data)
			if err := diag.Err(); err != nil {
				return err
			}

			refs := relocate.Collect(p.data)
			classes := relocate.Classify(refs)
			sim := &relocate.Simulator{Dataset: p.data, Refs: refs, Namer: relocate.NewNamer(p.cfg, p.data)}
			baseline := sim.Baseline()

			if jsonOut {
				payload := reportOutput{
					Status:     diag.Status,
					Assets:     refs.Len(),
					References: refs.References(),
					Shared:     []sharedAsset{},
					Changes:    baseline.Mapping.Changes(),
					Collisions: baseline.Collisions.Paths(),
				}
				for _, cat := range relocate.ReportOrder {
					for _, a := range classes.Assets(cat) {
						entry := sharedAsset{Path: a.Path, Category: cat.String()}
						for _, r := range a.Refs {
							entry.References = append(entry.References, r.String())
						}
						payload.Shared = append(payload.Shared, entry)
					}
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			w := reportWriter(out, p.data)
			fmt.Fprintln(out, renderStatusLine("Photos", diagnosisKind(diag.Status), string(diag.Status), w.Color))
			fmt.Fprintln(out, renderStatusLine("Files", statusInfo,
				fmt.Sprintf("%d file(s), %d reference(s)", refs.Len(), refs.References()), w.Color))
			w.Duplications(classes)
			if diag.Status == relocate.StatusConform {
				return nil
			}
			w.Plan(baseline)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
