package netrat

import (
	"context"
	"expvar"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/timpalpant/netrat/profile"
)

var (
	roundsRun       = expvar.NewInt("netrat/rounds")
	ambiguousChecks = expvar.NewInt("netrat/ambiguous_checks")
)

// Result is the fixed point of the elimination procedure.
type Result struct {
	RunID string
	Space profile.Space
	// Profiles is the set of network-consistent rationalizable profiles.
	// It may be empty.
	Profiles    profile.Set
	Rounds      []RoundStats
	Ambiguities []*AmbiguityError
}

// ProfileList decodes the surviving profiles in index order.
func (r *Result) ProfileList() []profile.Profile {
	return r.Profiles.Profiles(r.Space)
}

// Ambiguous returns whether any check was left undecided.
func (r *Result) Ambiguous() bool {
	return len(r.Ambiguities) > 0
}

type solveState int

const (
	active solveState = iota
	converged
)

// Solve applies Reduce to the full profile space until the candidate set
// stops shrinking, and returns the fixed point.
func (r *Rationalizer) Solve(ctx context.Context) (*Result, error) {
	result := &Result{
		RunID: uuid.NewString(),
		Space: r.space,
	}

	ctx, span := r.tracer.Start(ctx, "netrat.Solve", trace.WithAttributes(
		attribute.String("run_id", result.RunID),
		attribute.Int("num_players", r.space.NumPlayers()),
		attribute.Int("num_actions", r.space.NumActions()),
		attribute.Int("workers", r.cfg.Workers),
		attribute.String("backend", r.cfg.Backend),
	))
	defer span.End()

	glog.V(1).Infof("[%s] Solving %d-player game with %d actions (%d profiles)",
		result.RunID, r.space.NumPlayers(), r.space.NumActions(), r.space.Size())

	current := profile.Full(r.space)
	state := active
	for round := 1; state == active; round++ {
		// Each shrinking round removes at least one profile.
		if round > r.space.Size() {
			err := errors.Wrapf(ErrNotMonotone, "no fixed point after %d rounds", round-1)
			return nil, recordError(span, err)
		}

		next, stats, ambiguities, err := r.runRound(ctx, result.RunID, round, current)
		if err != nil {
			return nil, recordError(span, err)
		}
		if !next.IsSubsetOf(current) {
			err := errors.Wrapf(ErrNotMonotone, "round %d produced %d profiles from %d, not a subset",
				round, next.Len(), current.Len())
			return nil, recordError(span, err)
		}

		result.Rounds = append(result.Rounds, stats)
		result.Ambiguities = append(result.Ambiguities, ambiguities...)
		for _, amb := range ambiguities {
			r.cfg.Observer.Ambiguous(amb)
		}
		r.cfg.Observer.RoundCompleted(stats)

		switch {
		case next.Len() == current.Len():
			state = converged
		case next.IsEmpty():
			// Nothing is left to eliminate.
			current = next
			state = converged
		default:
			current = next
		}
	}

	result.Profiles = current
	span.SetAttributes(
		attribute.Int("rounds", len(result.Rounds)),
		attribute.Int("profiles", current.Len()),
		attribute.Int("ambiguities", len(result.Ambiguities)),
	)
	glog.Infof("[%s] Exited with %d profiles after %d rounds", result.RunID, current.Len(), len(result.Rounds))
	return result, nil
}

func (r *Rationalizer) runRound(ctx context.Context, runID string, round int, current profile.Set) (profile.Set, RoundStats, []*AmbiguityError, error) {
	ctx, span := r.tracer.Start(ctx, "netrat.Round", trace.WithAttributes(
		attribute.Int("round", round),
		attribute.Int("previous_size", current.Len()),
	))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return profile.Set{}, RoundStats{}, nil, recordError(span, err)
	}

	start := time.Now()
	solves, cacheHits, shortcuts := r.solves.Load(), r.cacheHits.Load(), r.shortcuts.Load()
	next, ambiguities, err := r.reduce(ctx, round, current)
	if err != nil {
		return profile.Set{}, RoundStats{}, nil, recordError(span, errors.Wrapf(err, "round %d", round))
	}

	roundsRun.Add(1)
	ambiguousChecks.Add(int64(len(ambiguities)))
	stats := RoundStats{
		RunID:        runID,
		Round:        round,
		PreviousSize: current.Len(),
		CurrentSize:  next.Len(),
		Solves:       r.solves.Load() - solves,
		CacheHits:    r.cacheHits.Load() - cacheHits,
		Shortcuts:    r.shortcuts.Load() - shortcuts,
		Ambiguities:  len(ambiguities),
		Elapsed:      time.Since(start),
	}
	span.SetAttributes(
		attribute.Int("current_size", stats.CurrentSize),
		attribute.Int64("lp_solves", stats.Solves),
	)

	return next, stats, ambiguities, nil
}

func recordError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
