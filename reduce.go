package netrat

import (
	"context"
	"sort"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"github.com/timpalpant/netrat/profile"
)

// Reduce applies one elimination round to set: a profile is kept only if,
// for every player, its action is a feasible best response over the support
// consistent with that profile in set. Every check reads the same input
// snapshot, so the result is independent of evaluation order.
//
// Undecided checks do not eliminate a profile. They are returned as
// AmbiguityErrors unless Config.FailFast is set, in which case the first
// one aborts the round.
func (r *Rationalizer) Reduce(ctx context.Context, set profile.Set) (profile.Set, []*AmbiguityError, error) {
	return r.reduce(ctx, 0, set)
}

func (r *Rationalizer) reduce(ctx context.Context, round int, set profile.Set) (profile.Set, []*AmbiguityError, error) {
	index := r.newSupportIndex(set)
	keep := make([]bool, set.Len())

	var mx sync.Mutex
	var ambiguities []*AmbiguityError

	g, gctx := errgroup.WithContext(ctx)
	work := make(chan int)
	g.Go(func() error {
		defer close(work)
		for i := 0; i < set.Len(); i++ {
			select {
			case work <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for worker := 0; worker < r.cfg.Workers; worker++ {
		g.Go(func() error {
			for i := range work {
				ok, found, err := r.survives(gctx, round, set.At(i), index)
				if err != nil {
					return err
				}

				keep[i] = ok
				if len(found) > 0 {
					mx.Lock()
					ambiguities = append(ambiguities, found...)
					mx.Unlock()
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return profile.Set{}, nil, err
	}

	var survivors []int
	for i, ok := range keep {
		if ok {
			survivors = append(survivors, set.At(i))
		}
	}

	sort.Slice(ambiguities, func(i, j int) bool {
		a, b := ambiguities[i], ambiguities[j]
		if ai, bi := r.space.Index(a.Profile), r.space.Index(b.Profile); ai != bi {
			return ai < bi
		}
		return a.Player < b.Player
	})

	return profile.NewSet(survivors...), ambiguities, nil
}

// survives checks every player of the profile at idx, stopping at the first
// player whose action is refuted.
func (r *Rationalizer) survives(ctx context.Context, round, idx int, index *supportIndex) (bool, []*AmbiguityError, error) {
	var ambiguities []*AmbiguityError
	for player := 0; player < r.space.NumPlayers(); player++ {
		action := r.space.ActionOf(idx, player)
		ok, err := r.isFeasible(ctx, player, action, index.support(idx, player))
		if err != nil {
			if !isAmbiguous(err) {
				return false, nil, err
			}

			amb := &AmbiguityError{
				Round:   round,
				Profile: r.space.Profile(idx),
				Player:  player,
				Err:     err,
			}
			if r.cfg.FailFast {
				return false, nil, amb
			}

			ambiguities = append(ambiguities, amb)
			ok = true
		}

		if glog.V(2) {
			glog.Infof("Round %d: player %d playing %d in %v is a best response: %v",
				round, player, action, r.space.Profile(idx), ok)
		}
		if !ok {
			return false, ambiguities, nil
		}
	}

	return true, ambiguities, nil
}
