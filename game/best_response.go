package game

import (
	"math"

	"github.com/timpalpant/netrat/profile"
)

// ExpectedUtilities computes, for every action of player, the expected
// utility against a conjecture putting weights[j] on opponent tuple support[j].
// The result is written into out, which is grown as needed and returned.
func (p *Payoffs) ExpectedUtilities(player int, support profile.Support, weights []float64, out []float64) []float64 {
	k := p.space.NumActions()
	out = append(out[:0], make([]float64, k)...)
	for j, opp := range support {
		w := weights[j]
		if w == 0 {
			continue
		}

		for a := 0; a < k; a++ {
			out[a] += w * p.Deviation(player, profile.Action(a), opp)
		}
	}

	return out
}

// BestResponses returns every action of player that maximizes its utility
// against the fixed opponent tuple, within tol.
func (p *Payoffs) BestResponses(player, opp int, tol float64) []profile.Action {
	utilities := make([]float64, p.space.NumActions())
	for a := range utilities {
		utilities[a] = p.Deviation(player, profile.Action(a), opp)
	}

	best, _ := argMax(utilities)
	var result []profile.Action
	for a, u := range utilities {
		if u >= best-tol {
			result = append(result, profile.Action(a))
		}
	}

	return result
}

// IsPureBestResponse returns whether action a is a best response of player
// to the fixed opponent tuple, within tol.
func (p *Payoffs) IsPureBestResponse(player int, a profile.Action, opp int, tol float64) bool {
	u := p.Deviation(player, a, opp)
	for b := 0; b < p.space.NumActions(); b++ {
		if p.Deviation(player, profile.Action(b), opp) > u+tol {
			return false
		}
	}

	return true
}

// IsBestResponse returns whether action a is a best response of player to
// the given conjecture, within tol.
func (p *Payoffs) IsBestResponse(player int, a profile.Action, support profile.Support, weights []float64, tol float64) bool {
	utilities := p.ExpectedUtilities(player, support, weights, nil)
	best, _ := argMax(utilities)
	return utilities[a] >= best-tol
}

// argMax returns the largest value and the first index at which it occurs.
func argMax(vs []float64) (float64, int) {
	best := -math.MaxFloat64
	bestIdx := 0
	for i, v := range vs {
		if v > best {
			best = v
			bestIdx = i
		}
	}

	return best, bestIdx
}
