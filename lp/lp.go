// Package lp defines the linear-program interface consumed by the
// feasibility checker, and the registry of solver backends.
package lp

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

var (
	// ErrTimeout is returned when a solve exceeds its time budget.
	ErrTimeout = errors.New("lp: solve timed out")
	// ErrUnknownBackend is returned by New for unregistered backend names.
	ErrUnknownBackend = errors.New("lp: unknown backend")
	// ErrMalformed is returned for problems whose dimensions do not agree.
	ErrMalformed = errors.New("lp: malformed problem")
)

// Status is the outcome of a solve.
type Status int

const (
	Optimal Status = iota
	Infeasible
	Unbounded
	Error
)

var statusStr = [...]string{
	"Optimal",
	"Infeasible",
	"Unbounded",
	"Error",
}

// String implements Stringer.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusStr) {
		return fmt.Sprintf("Status(%d)", int(s))
	}

	return statusStr[s]
}

// Constraint is the row Coeffs·x compared against RHS.
type Constraint struct {
	Coeffs []float64
	RHS    float64
}

// Problem is a linear program over NumVars variables:
//
//	minimize    Objective·x
//	subject to  Equalities:   a·x == b
//	            Inequalities: a·x <= b
//	            Lower <= x <= Upper
//
// A nil Objective is the constant objective (a pure feasibility problem).
// A nil Lower means every variable is non-negative; a nil Upper means no
// variable has an upper bound. Lower bounds must be finite.
type Problem struct {
	NumVars      int
	Objective    []float64
	Equalities   []Constraint
	Inequalities []Constraint
	Lower        []float64
	Upper        []float64
}

// Validate checks that every vector has NumVars entries.
func (p *Problem) Validate() error {
	if p.NumVars <= 0 {
		return errors.Wrapf(ErrMalformed, "%d variables", p.NumVars)
	}
	if p.Objective != nil && len(p.Objective) != p.NumVars {
		return errors.Wrapf(ErrMalformed, "objective has %d coefficients, expected %d", len(p.Objective), p.NumVars)
	}
	if p.Lower != nil && len(p.Lower) != p.NumVars {
		return errors.Wrapf(ErrMalformed, "%d lower bounds, expected %d", len(p.Lower), p.NumVars)
	}
	if p.Upper != nil && len(p.Upper) != p.NumVars {
		return errors.Wrapf(ErrMalformed, "%d upper bounds, expected %d", len(p.Upper), p.NumVars)
	}
	for j := 0; j < p.NumVars; j++ {
		if l := p.lower(j); math.IsInf(l, 0) || math.IsNaN(l) {
			return errors.Wrapf(ErrMalformed, "lower bound of variable %d is %v", j, l)
		}
		if p.upper(j) < p.lower(j) {
			return errors.Wrapf(ErrMalformed, "variable %d has empty bounds [%v, %v]", j, p.lower(j), p.upper(j))
		}
	}
	for i, c := range p.Equalities {
		if len(c.Coeffs) != p.NumVars {
			return errors.Wrapf(ErrMalformed, "equality %d has %d coefficients, expected %d", i, len(c.Coeffs), p.NumVars)
		}
	}
	for i, c := range p.Inequalities {
		if len(c.Coeffs) != p.NumVars {
			return errors.Wrapf(ErrMalformed, "inequality %d has %d coefficients, expected %d", i, len(c.Coeffs), p.NumVars)
		}
	}

	return nil
}

func (p *Problem) lower(j int) float64 {
	if p.Lower == nil {
		return 0
	}

	return p.Lower[j]
}

func (p *Problem) upper(j int) float64 {
	if p.Upper == nil {
		return math.Inf(1)
	}

	return p.Upper[j]
}

// Solution is the result of solving a Problem.
// X and Objective are only meaningful when Status is Optimal.
// Cause describes why the backend reported Error.
type Solution struct {
	Status    Status
	X         []float64
	Objective float64
	Cause     error
}

// Solver solves linear programs.
//
// Solve returns a non-nil error only when the problem is malformed or the
// context ends before the solve completes. Every backend outcome, including
// backend failure, is reported through Solution.Status.
//
// Solver instances are not required to be safe for concurrent use;
// callers that solve in parallel should create one instance per goroutine.
type Solver interface {
	Solve(ctx context.Context, p *Problem) (Solution, error)
}

// Factory creates a new Solver instance.
type Factory func() Solver

// DefaultBackend is the backend used when none is named.
const DefaultBackend = "simplex"

var (
	registryMx sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a backend available by name. Registering the same name
// twice replaces the earlier factory.
func Register(name string, f Factory) {
	registryMx.Lock()
	defer registryMx.Unlock()
	registry[name] = f
}

// Lookup returns the factory for the named backend.
func Lookup(name string) (Factory, error) {
	if name == "" {
		name = DefaultBackend
	}

	registryMx.RLock()
	defer registryMx.RUnlock()
	f, ok := registry[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownBackend, "%q (available: %v)", name, backendsLocked())
	}

	return f, nil
}

// New creates a Solver from the named backend.
func New(name string) (Solver, error) {
	f, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	return f(), nil
}

// Backends lists the registered backend names in sorted order.
func Backends() []string {
	registryMx.RLock()
	defer registryMx.RUnlock()
	return backendsLocked()
}

func backendsLocked() []string {
	result := make([]string, 0, len(registry))
	for name := range registry {
		result = append(result, name)
	}

	sort.Strings(result)
	return result
}
