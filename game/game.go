// Package game adapts payoff definitions into the dense payoff table used
// by the elimination procedure.
package game

import (
	"math"

	"github.com/pkg/errors"

	"github.com/timpalpant/netrat/profile"
)

// ErrIncomplete is returned when a utility is undefined (or not a finite
// number) for some profile of the full product.
var ErrIncomplete = errors.New("incomplete game")

// Game maps every profile to a vector of per-player utilities.
type Game interface {
	NumPlayers() int
	NumActions() int
	// Utility returns one utility per player for the given profile.
	Utility(p profile.Profile) ([]float64, error)
}

// Payoffs is the tabulated, transformed form of a Game.
// It is immutable and safe for concurrent use.
type Payoffs struct {
	space  profile.Space
	values []float64
	// Largest absolute utility, used to scale tolerances.
	scale float64
}

// Tabulate evaluates the game at every profile and applies the transform to
// each utility. Any profile whose utility is missing, has the wrong length,
// or is not finite fails with ErrIncomplete.
func Tabulate(g Game, t Transform) (*Payoffs, error) {
	space, err := profile.NewSpace(g.NumPlayers(), g.NumActions())
	if err != nil {
		return nil, err
	}
	if t == nil {
		t = Identity
	}

	n := space.NumPlayers()
	values := make([]float64, space.Size()*n)
	scale := 0.0
	for idx := 0; idx < space.Size(); idx++ {
		p := space.Profile(idx)
		u, err := g.Utility(p)
		if err != nil {
			return nil, errors.Wrapf(err, "utility of %v", p)
		}
		if len(u) != n {
			return nil, errors.Wrapf(ErrIncomplete, "utility of %v has %d entries, expected %d", p, len(u), n)
		}

		for player, v := range u {
			v = t.Apply(v)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.Wrapf(ErrIncomplete, "utility of %v for player %d is %v", p, player, v)
			}
			values[idx*n+player] = v
			scale = math.Max(scale, math.Abs(v))
		}
	}

	return &Payoffs{
		space:  space,
		values: values,
		scale:  scale,
	}, nil
}

func (p *Payoffs) Space() profile.Space { return p.space }

// At returns the utility of player at the profile index.
func (p *Payoffs) At(idx, player int) float64 {
	return p.values[idx*p.space.NumPlayers()+player]
}

// Deviation returns player's utility when it plays action a against the
// given opponent tuple.
func (p *Payoffs) Deviation(player int, a profile.Action, opp int) float64 {
	return p.At(p.space.Join(opp, player, a), player)
}

// Scale is the largest absolute utility in the table, or 1 if every utility is zero.
func (p *Payoffs) Scale() float64 {
	if p.scale == 0 {
		return 1
	}

	return p.scale
}
