package relocate

import (
	"context"
	"fmt"
	"log/slog"

	"sirsphoto/internal/logging"
)

// Question is one operator decision point.
type Question struct {
	// Kind identifies the decision point in logs and scripted answers.
	Kind    string
	Title   string
	Details []string
	Options []string
	// Confirm marks continue/cancel questions; option 0 continues.
	Confirm bool
}

// Decider answers operator questions. Implementations return the chosen
// option index, or ErrUserCancelled when the operator declines.
type Decider interface {
	Decide(ctx context.Context, q Question) (int, error)
}

const (
	KindKeepConfirm      = "keep_confirm"
	KindDuplicates       = "duplicates_confirm"
	KindCollisionConfirm = "collision_confirm"
	KindStrategy         = "strategy"
	KindUUIDStrategy     = "uuid_strategy"
)

var confirmOptions = []string{"continue", "cancel"}

var (
	strategyChoices = []StrategyPair{
		{ForCollisions: PrefixDate, ForOthers: Keep},
		{ForCollisions: PrefixDate, ForOthers: PrefixDate},
		{ForCollisions: UUID, ForOthers: Keep},
		{ForCollisions: UUID, ForOthers: UUID},
	}
	uuidChoices = []StrategyPair{
		{ForCollisions: UUID, ForOthers: Keep},
		{ForCollisions: UUID, ForOthers: UUID},
	}
)

// Step records one simulation attempt.
type Step struct {
	Pair       StrategyPair `json:"pair"`
	Collisions int          `json:"collisions"`
}

// Resolution is a collision-free outcome accepted by the operator.
type Resolution struct {
	Outcome  Outcome
	Baseline Outcome
	Trail    []Step
}

// Escalator drives the keep → prefix_date → uuid escalation.
type Escalator struct {
	Simulator *Simulator
	Decider   Decider
	Logger    *slog.Logger
}

// Resolve returns the first collision-free mapping the operator accepts.
// Any declined question aborts with ErrUserCancelled; collisions left after
// the uuid strategies abort with ErrUnresolvableCollision.
func (e *Escalator) Resolve(ctx context.Context) (Resolution, error) {
	logger := logging.NewComponentLogger(e.Logger, "escalation")
	var res Resolution

	baseline := e.Simulator.Baseline()
	res.Baseline = baseline
	res.record(baseline)
	logger.Info("baseline simulation",
		logging.Int("sources", baseline.Mapping.Len()),
		logging.Int("collisions", baseline.Collisions.Len()),
	)

	if baseline.Clean() {
		if err := e.confirm(ctx, logger, Question{
			Kind:  KindKeepConfirm,
			Title: "Migration possible without renaming any photo.",
			Details: []string{
				fmt.Sprintf("%d file(s), %d path(s) to rewrite.", baseline.Mapping.Len(), baseline.Mapping.Changes()),
			},
		}); err != nil {
			return res, err
		}
		res.Outcome = baseline
		return res, nil
	}

	if err := e.confirm(ctx, logger, Question{
		Kind:    KindCollisionConfirm,
		Title:   fmt.Sprintf("%d destination(s) would be claimed by different files.", baseline.Collisions.Len()),
		Details: CollisionLines(baseline.Collisions),
	}); err != nil {
		return res, err
	}

	probe := e.Simulator.Simulate(strategyChoices[0], baseline.Collisions)
	res.record(probe)
	pair, err := e.choose(ctx, logger, Question{
		Kind:  KindStrategy,
		Title: "Choose a renaming strategy.",
		Details: []string{
			fmt.Sprintf("Date prefix on colliding photos only leaves %d collision(s).", probe.Collisions.Len()),
		},
	}, strategyChoices)
	if err != nil {
		return res, err
	}
	outcome := probe
	if pair != probe.Pair {
		outcome = e.Simulator.Simulate(pair, baseline.Collisions)
		res.record(outcome)
	}
	if outcome.Clean() {
		res.Outcome = outcome
		return res, nil
	}

	pair, err = e.choose(ctx, logger, Question{
		Kind:    KindUUIDStrategy,
		Title:   fmt.Sprintf("%d collision(s) remain with %s. Only unique names can separate them.", outcome.Collisions.Len(), outcome.Pair),
		Details: CollisionLines(outcome.Collisions),
	}, uuidChoices)
	if err != nil {
		return res, err
	}
	outcome = e.Simulator.Simulate(pair, baseline.Collisions)
	res.record(outcome)
	if outcome.Clean() {
		res.Outcome = outcome
		return res, nil
	}
	logger.Error("collisions remain after uuid naming",
		logging.Int("collisions", outcome.Collisions.Len()),
		logging.String(logging.FieldEventType, "unresolvable_collision"),
	)
	return res, &CollisionError{Destinations: outcome.Collisions.Paths()}
}

func (r *Resolution) record(o Outcome) {
	r.Trail = append(r.Trail, Step{Pair: o.Pair, Collisions: o.Collisions.Len()})
}

func (e *Escalator) confirm(ctx context.Context, logger *slog.Logger, q Question) error {
	q.Confirm = true
	q.Options = confirmOptions
	choice, err := e.Decider.Decide(ctx, q)
	if err != nil {
		return e.declined(logger, q.Kind, err)
	}
	if choice != 0 {
		return e.declined(logger, q.Kind, ErrUserCancelled)
	}
	logger.Info("operator decision", logging.Args(logging.DecisionAttrs(q.Kind, "continue", "operator confirmed")...)...)
	return nil
}

func (e *Escalator) choose(ctx context.Context, logger *slog.Logger, q Question, pairs []StrategyPair) (StrategyPair, error) {
	q.Options = make([]string, len(pairs))
	for i, p := range pairs {
		q.Options[i] = p.String()
	}
	choice, err := e.Decider.Decide(ctx, q)
	if err != nil {
		return StrategyPair{}, e.declined(logger, q.Kind, err)
	}
	if choice < 0 || choice >= len(pairs) {
		return StrategyPair{}, e.declined(logger, q.Kind, ErrUserCancelled)
	}
	pair := pairs[choice]
	logger.Info("operator decision", logging.Args(append(
		logging.DecisionAttrs(q.Kind, pair.String(), "operator selected strategy"),
		logging.String(logging.FieldStrategy, pair.String()),
	)...)...)
	return pair, nil
}

func (e *Escalator) declined(logger *slog.Logger, kind string, err error) error {
	logger.Info("operator decision", logging.Args(logging.DecisionAttrs(kind, "cancel", err.Error())...)...)
	return err
}

// CollisionLines describes each colliding destination and its claimants.
func CollisionLines(c CollisionSet) []string {
	var lines []string
	for _, dest := range c.Paths() {
		claimants := c.Claimants(dest)
		if len(claimants) == 1 {
			lines = append(lines, fmt.Sprintf("%s already exists (wanted by %s)", dest, claimants[0]))
			continue
		}
		lines = append(lines, dest+" claimed by:")
		for _, src := range claimants {
			lines = append(lines, "    "+src)
		}
	}
	return lines
}
