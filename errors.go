package netrat

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/timpalpant/netrat/game"
	"github.com/timpalpant/netrat/lp"
	"github.com/timpalpant/netrat/network"
	"github.com/timpalpant/netrat/profile"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidNetwork is network.ErrInvalid.
	ErrInvalidNetwork = network.ErrInvalid
	// ErrIncompleteGame is game.ErrIncomplete.
	ErrIncompleteGame = game.ErrIncomplete
	// ErrSolverAmbiguous matches solves that ended Unbounded or Error, and
	// Optimal solutions that fail verification.
	ErrSolverAmbiguous = errors.New("ambiguous solver status")
	// ErrSolveTimeout is lp.ErrTimeout.
	ErrSolveTimeout = lp.ErrTimeout
	// ErrNotMonotone means an elimination round produced a profile that
	// was not in its input, or the round bound was exceeded.
	ErrNotMonotone = errors.New("elimination is not monotone")
)

// StatusError reports a feasibility solve that neither found a conjecture
// nor proved that none exists. It matches ErrSolverAmbiguous.
type StatusError struct {
	Status lp.Status
	Cause  error
}

func (e *StatusError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("solver returned %v", e.Status)
	}

	return fmt.Sprintf("solver returned %v: %v", e.Status, e.Cause)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrSolverAmbiguous
}

func (e *StatusError) Unwrap() error {
	return e.Cause
}

// AmbiguityError records a (profile, player) check whose feasibility could
// not be decided, either because of a StatusError or a solve timeout.
type AmbiguityError struct {
	Round   int
	Profile profile.Profile
	Player  int
	Err     error
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("round %d: player %d in profile %v: %v", e.Round, e.Player, e.Profile, e.Err)
}

func (e *AmbiguityError) Unwrap() error {
	return e.Err
}

// Status returns the solver status behind the ambiguity, and false for
// timeouts, which have none.
func (e *AmbiguityError) Status() (lp.Status, bool) {
	var statusErr *StatusError
	if errors.As(e.Err, &statusErr) {
		return statusErr.Status, true
	}

	return lp.Error, false
}

func isAmbiguous(err error) bool {
	return errors.Is(err, ErrSolverAmbiguous) || errors.Is(err, ErrSolveTimeout)
}
