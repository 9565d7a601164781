package relocate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sirsphoto/internal/logging"
	"sirsphoto/internal/preflight"
)

// ErrInsufficientSpace is returned when the project filesystem cannot hold
// the copies a mapping requires.
var ErrInsufficientSpace = errors.New("insufficient free space")

// Result summarizes a migration run.
type Result struct {
	Diagnosis      Diagnosis      `json:"diagnosis"`
	Classification Classification `json:"-"`
	Trail          []Step         `json:"trail,omitempty"`
	Plan           *Outcome       `json:"-"`
	Stats          MoveStats      `json:"stats"`
	Rewritten      int            `json:"rewritten"`
	// Changed reports whether files or table cells were modified.
	Changed bool `json:"changed"`
	DryRun  bool `json:"dry_run"`
}

// Migrator runs the full relocation pipeline on one dataset.
type Migrator struct {
	Dataset *Dataset
	Namer   *Namer
	Decider Decider
	Logger  *slog.Logger
	// Report receives operator reports; nil keeps the run silent.
	Report *ReportWriter

	DryRun       bool
	MinFreeBytes uint64
}

// Run diagnoses the dataset and, when it needs migration, resolves a
// collision-free mapping with the operator, applies it on disk and rewrites
// the table. The table is modified only after every file has been placed.
func (m *Migrator) Run(ctx context.Context) (Result, error) {
	logger := logging.NewComponentLogger(m.Logger, "migrator")
	d := m.Dataset
	res := Result{DryRun: m.DryRun}

	res.Diagnosis = Diagnose(d)
	if m.Report != nil {
		m.Report.Diagnosis(res.Diagnosis)
	}
	if err := res.Diagnosis.Err(); err != nil {
		return res, err
	}
	if res.Diagnosis.Status == StatusConform {
		logger.Info("photo paths already conform", logging.Int("checked", res.Diagnosis.Checked))
		return res, nil
	}
	if d.StaticSegment() {
		logging.WarnWithContext(logger, "segment column not found, using static segment", "static_segment",
			logging.String(logging.FieldSegment, d.SegmentColumn),
			logging.String(logging.FieldImpact, "every photo is placed in the same segment directory"),
			logging.String(logging.FieldErrorHint, "set columns.segment to the segment column name"),
		)
	}

	if !m.DryRun {
		lock, err := AcquireProjectLock(d.Resolver.Root, logger)
		if err != nil {
			return res, err
		}
		defer lock.Release()
	}

	refs := Collect(d)
	res.Classification = Classify(refs)
	logger.Info("references collected",
		logging.Int("assets", refs.Len()),
		logging.Int("references", refs.References()),
		logging.Int("shared", res.Classification.Total()),
	)
	if m.Report != nil {
		m.Report.Duplications(res.Classification)
	}
	if !res.Classification.Empty() {
		details := []string{fmt.Sprintf("%d photo(s) are referenced more than once.", res.Classification.Total())}
		if res.Classification.HasCrossSegment() {
			details = append(details, "Photos shared across segments will be duplicated on disk.")
		}
		choice, err := m.Decider.Decide(ctx, Question{
			Kind:    KindDuplicates,
			Title:   "Shared photos found. Continue the migration?",
			Details: details,
			Options: confirmOptions,
			Confirm: true,
		})
		if err == nil && choice != 0 {
			err = ErrUserCancelled
		}
		if err != nil {
			return res, err
		}
	}

	esc := &Escalator{
		Simulator: &Simulator{Dataset: d, Refs: refs, Namer: m.Namer},
		Decider:   m.Decider,
		Logger:    m.Logger,
	}
	resolution, err := esc.Resolve(ctx)
	res.Trail = resolution.Trail
	if err != nil {
		return res, err
	}
	plan := resolution.Outcome
	res.Plan = &plan
	if m.Report != nil {
		m.Report.Plan(plan)
	}
	if m.DryRun {
		logger.Info("dry run, no file moved", logging.String(logging.FieldStrategy, plan.Pair.String()))
		return res, nil
	}

	need := RequiredBytes(plan.Mapping)
	if check := preflight.CheckFreeSpace("Project filesystem", d.Resolver.Root, need, m.MinFreeBytes); !check.Passed {
		return res, fmt.Errorf("%w: %s", ErrInsufficientSpace, check.Detail)
	}
	logger.Debug("free space checked", logging.Int64("copy_bytes", int64(need)))

	res.Stats, err = (&Mover{Logger: m.Logger}).Apply(ctx, plan.Mapping)
	res.Changed = res.Stats.Moved+res.Stats.Copied+res.Stats.Removed > 0
	if err != nil {
		return res, err
	}

	res.Rewritten, err = Rewrite(d, plan.Mapping)
	if err != nil {
		return res, err
	}
	res.Changed = true
	logger.Info("migration complete",
		logging.String(logging.FieldStrategy, plan.Pair.String()),
		logging.Int("rewritten", res.Rewritten),
		logging.Bool("shared_copies", res.Stats.Copied > 0),
	)
	return res, nil
}
