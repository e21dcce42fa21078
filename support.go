package netrat

import (
	"github.com/timpalpant/netrat/profile"
)

// ConsistentSupport returns the opponent tuples, drawn from set, that player
// cannot distinguish from p given its neighbors' actions: every profile of
// set that agrees with p on each neighbor contributes its opponent tuple.
// A player without neighbors can rule nothing out, so every profile of set
// contributes.
func (r *Rationalizer) ConsistentSupport(p profile.Profile, player int, set profile.Set) profile.Support {
	idx := r.space.Index(p)
	var opps []int
	set.Iter(func(q int) {
		for _, nbr := range r.neighbors[player] {
			if r.space.ActionOf(q, nbr) != r.space.ActionOf(idx, nbr) {
				return
			}
		}

		opps = append(opps, r.space.OpponentIndex(q, player))
	})

	return profile.NewSupport(opps)
}

// supportIndex answers ConsistentSupport queries for one round-start
// snapshot. Profiles that agree on a player's neighbors share one support,
// so the snapshot is partitioned once per player by neighbor signature.
// It is immutable once built.
type supportIndex struct {
	r *Rationalizer
	// groups[player][signature] is the consistent support of every
	// profile in the snapshot with that neighbor signature.
	groups []map[int]profile.Support
}

func (r *Rationalizer) newSupportIndex(set profile.Set) *supportIndex {
	groups := make([]map[int]profile.Support, r.space.NumPlayers())
	for player := range groups {
		opps := make(map[int][]int)
		set.Iter(func(q int) {
			sig := r.signature(q, player)
			opps[sig] = append(opps[sig], r.space.OpponentIndex(q, player))
		})

		groups[player] = make(map[int]profile.Support, len(opps))
		for sig, o := range opps {
			groups[player][sig] = profile.NewSupport(o)
		}
	}

	return &supportIndex{r: r, groups: groups}
}

// support returns the consistent support of the profile at idx for player.
// The result is shared and must not be modified.
func (s *supportIndex) support(idx, player int) profile.Support {
	return s.groups[player][s.r.signature(idx, player)]
}

// signature encodes the actions of player's neighbors in the profile at
// idx as a single integer in mixed radix.
func (r *Rationalizer) signature(idx, player int) int {
	sig := 0
	for _, nbr := range r.neighbors[player] {
		sig = sig*r.space.NumActions() + int(r.space.ActionOf(idx, nbr))
	}

	return sig
}
