package game

import (
	"github.com/pkg/errors"

	"github.com/timpalpant/netrat/profile"
)

// Table is a Game defined by an explicit utility vector per profile.
// Profiles that were never set are undefined, and reading them fails
// with ErrIncomplete rather than defaulting to zero.
type Table struct {
	space   profile.Space
	values  []float64
	defined []bool
}

func NewTable(numPlayers, numActions int) (*Table, error) {
	space, err := profile.NewSpace(numPlayers, numActions)
	if err != nil {
		return nil, err
	}

	return &Table{
		space:   space,
		values:  make([]float64, space.Size()*numPlayers),
		defined: make([]bool, space.Size()),
	}, nil
}

func (t *Table) NumPlayers() int { return t.space.NumPlayers() }
func (t *Table) NumActions() int { return t.space.NumActions() }

// Set defines the utility vector of the given profile.
func (t *Table) Set(p profile.Profile, u []float64) error {
	if len(p) != t.space.NumPlayers() {
		return errors.Errorf("profile %v has %d actions, expected %d", p, len(p), t.space.NumPlayers())
	}
	for i, a := range p {
		if a < 0 || int(a) >= t.space.NumActions() {
			return errors.Errorf("action %d of player %d out of range", a, i)
		}
	}
	if len(u) != t.space.NumPlayers() {
		return errors.Errorf("utility vector %v has %d entries, expected %d", u, len(u), t.space.NumPlayers())
	}

	idx := t.space.Index(p)
	copy(t.values[idx*len(u):], u)
	t.defined[idx] = true
	return nil
}

// MustSet is like Set but panics on error. It is intended for literal tables.
func (t *Table) MustSet(p profile.Profile, u ...float64) *Table {
	if err := t.Set(p, u); err != nil {
		panic(err)
	}

	return t
}

// Utility implements Game.
func (t *Table) Utility(p profile.Profile) ([]float64, error) {
	idx := t.space.Index(p)
	if !t.defined[idx] {
		return nil, errors.Wrapf(ErrIncomplete, "no utility for profile %v", p)
	}

	n := t.space.NumPlayers()
	return append([]float64(nil), t.values[idx*n:(idx+1)*n]...), nil
}

// Func adapts a utility function to a Game. A nil result means the utility
// is undefined for that profile.
type Func struct {
	Players int
	Actions int
	F       func(p profile.Profile) []float64
}

func (f Func) NumPlayers() int { return f.Players }
func (f Func) NumActions() int { return f.Actions }

// Utility implements Game.
func (f Func) Utility(p profile.Profile) ([]float64, error) {
	u := f.F(p)
	if u == nil {
		return nil, errors.Wrapf(ErrIncomplete, "no utility for profile %v", p)
	}

	return u, nil
}
