// Package netrat computes the profiles of a normal-form game that survive
// iterated elimination of actions that are not best responses to any
// conjecture a player could hold given what its network neighbors reveal.
package netrat

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/trace"

	"github.com/timpalpant/netrat/game"
	"github.com/timpalpant/netrat/lp"
	"github.com/timpalpant/netrat/network"
	"github.com/timpalpant/netrat/profile"
)

// Rationalizer runs the elimination procedure for one game and network.
// It is safe for concurrent use.
type Rationalizer struct {
	cfg     Config
	space   profile.Space
	payoffs *game.Payoffs
	// neighbors[i] is the sorted neighbor list of player i.
	neighbors [][]int
	// Absolute tolerance for utility comparisons.
	tol    float64
	tracer trace.Tracer

	// Each concurrent feasibility check takes its own lp.Solver from solvers.
	solvers sync.Pool
	memo    *memo

	solves    atomic.Int64
	cacheHits atomic.Int64
	shortcuts atomic.Int64
}

// New validates the configuration, network, and game, and tabulates the
// game's payoffs. Errors match ErrInvalidConfig, ErrInvalidNetwork, or
// ErrIncompleteGame.
func New(cfg Config, g game.Game) (*Rationalizer, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if g == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "nil game")
	}
	if g.NumPlayers() != cfg.NumPlayers || g.NumActions() != cfg.NumActions {
		return nil, errors.Wrapf(ErrInvalidConfig, "game has %d players with %d actions, config has %d with %d",
			g.NumPlayers(), g.NumActions(), cfg.NumPlayers, cfg.NumActions)
	}
	if err := network.Validate(cfg.Network, cfg.NumPlayers); err != nil {
		return nil, err
	}

	payoffs, err := game.Tabulate(g, cfg.Transform)
	if err != nil {
		return nil, err
	}

	factory, err := lp.Lookup(cfg.Backend)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidConfig, err.Error())
	}

	neighbors := make([][]int, cfg.NumPlayers)
	for player := range neighbors {
		neighbors[player] = profile.NewSupport(append([]int(nil), cfg.Network.Neighbors(player)...))
	}

	memo, err := newMemo(cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	r := &Rationalizer{
		cfg:       cfg,
		space:     payoffs.Space(),
		payoffs:   payoffs,
		neighbors: neighbors,
		tol:       cfg.Tolerance * payoffs.Scale(),
		tracer:    cfg.TracerProvider.Tracer("github.com/timpalpant/netrat"),
		memo:      memo,
	}
	r.solvers.New = func() interface{} {
		return lp.WithTimeout(factory(), cfg.SolveTimeout)
	}

	return r, nil
}

// Solve runs the elimination procedure to its fixed point.
func Solve(ctx context.Context, cfg Config, g game.Game) (*Result, error) {
	r, err := New(cfg, g)
	if err != nil {
		return nil, err
	}

	return r.Solve(ctx)
}

func (r *Rationalizer) Space() profile.Space { return r.space }

func (r *Rationalizer) Payoffs() *game.Payoffs { return r.payoffs }

func (r *Rationalizer) getSolver() lp.Solver {
	return r.solvers.Get().(lp.Solver)
}

func (r *Rationalizer) putSolver(s lp.Solver) {
	r.solvers.Put(s)
}
