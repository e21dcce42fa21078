package lp

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

type timeoutSolver struct {
	solver  Solver
	timeout time.Duration
	// Holds a token while no solve is running on solver.
	idle chan struct{}
}

// WithTimeout bounds every solve of s to d. A solve that runs over returns
// ErrTimeout, distinct from any Status.
//
// Backends are not required to observe cancellation, so an abandoned solve
// may keep running until the backend returns. The next solve waits for it
// (within its own budget) so s is never used by two goroutines at once.
//
// A non-positive d returns s unchanged.
func WithTimeout(s Solver, d time.Duration) Solver {
	if d <= 0 {
		return s
	}

	idle := make(chan struct{}, 1)
	idle <- struct{}{}
	return &timeoutSolver{solver: s, timeout: d, idle: idle}
}

type solveResult struct {
	solution Solution
	err      error
}

func (t *timeoutSolver) Solve(ctx context.Context, p *Problem) (Solution, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	select {
	case <-t.idle:
	case <-ctx.Done():
		return Solution{}, t.contextError(ctx)
	}

	done := make(chan solveResult, 1)
	go func() {
		solution, err := t.solver.Solve(ctx, p)
		t.idle <- struct{}{}
		done <- solveResult{solution, err}
	}()

	select {
	case r := <-done:
		if r.err != nil && ctx.Err() != nil {
			return Solution{}, t.contextError(ctx)
		}
		return r.solution, r.err
	case <-ctx.Done():
		return Solution{}, t.contextError(ctx)
	}
}

func (t *timeoutSolver) contextError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Wrapf(ErrTimeout, "after %v", t.timeout)
	}

	return ctx.Err()
}
