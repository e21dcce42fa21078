package netrat

import (
	"time"

	"github.com/golang/glog"
)

// RoundStats summarizes one elimination round.
type RoundStats struct {
	RunID        string
	Round        int
	PreviousSize int
	CurrentSize  int
	// The counters below include work from overlapping Solve calls on the
	// same Rationalizer.

	// Feasibility LPs actually solved this round.
	Solves int64
	// Checks answered from the memo.
	CacheHits int64
	// Checks settled by a pure best response, without an LP.
	Shortcuts   int64
	Ambiguities int
	Elapsed     time.Duration
}

// Observer receives diagnostics from Solve. Calls are made from the
// goroutine running Solve, never concurrently.
type Observer interface {
	RoundCompleted(stats RoundStats)
	Ambiguous(err *AmbiguityError)
}

// GlogObserver logs diagnostics with glog. It is the default Observer.
type GlogObserver struct{}

func (GlogObserver) RoundCompleted(stats RoundStats) {
	glog.Infof("[%s] Round %d: reduced from %d to %d profiles", stats.RunID,
		stats.Round, stats.PreviousSize, stats.CurrentSize)
	glog.V(1).Infof("[%s] Round %d: %d LP solves, %d memo hits, %d pure best responses, %d ambiguous (took %v)",
		stats.RunID, stats.Round, stats.Solves, stats.CacheHits, stats.Shortcuts, stats.Ambiguities, stats.Elapsed)
}

func (GlogObserver) Ambiguous(err *AmbiguityError) {
	glog.Warningf("Undecided feasibility check: %v", err)
}

// NopObserver discards all diagnostics.
type NopObserver struct{}

func (NopObserver) RoundCompleted(RoundStats)  {}
func (NopObserver) Ambiguous(*AmbiguityError) {}

// ObserverFuncs adapts callbacks to an Observer. Nil callbacks are skipped.
type ObserverFuncs struct {
	OnRound     func(stats RoundStats)
	OnAmbiguity func(err *AmbiguityError)
}

func (o ObserverFuncs) RoundCompleted(stats RoundStats) {
	if o.OnRound != nil {
		o.OnRound(stats)
	}
}

func (o ObserverFuncs) Ambiguous(err *AmbiguityError) {
	if o.OnAmbiguity != nil {
		o.OnAmbiguity(err)
	}
}
