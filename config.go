package netrat

import (
	"runtime"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/timpalpant/netrat/game"
	"github.com/timpalpant/netrat/lp"
	"github.com/timpalpant/netrat/network"
)

const (
	// DefaultTolerance is the relative tolerance used when comparing utilities.
	DefaultTolerance = 1e-7
	// DefaultCacheSize is the number of feasibility verdicts memoized.
	DefaultCacheSize = 1 << 16
)

// Config holds every parameter of a Solve. It is a plain value and is
// never modified after New.
type Config struct {
	NumPlayers int
	NumActions int
	// Network restricts what each player observes. Required.
	Network network.Network

	// Backend names the lp backend. Empty means lp.DefaultBackend.
	Backend string
	// Workers is the number of concurrent feasibility checks per round.
	// Zero means runtime.NumCPU(); one evaluates a round sequentially.
	Workers int
	// SolveTimeout bounds each feasibility solve. Zero means unbounded.
	SolveTimeout time.Duration
	// FailFast aborts Solve on the first ambiguous solver outcome instead
	// of collecting it in the Result.
	FailFast bool

	// Transform is applied to every utility before elimination.
	// Nil means game.Identity.
	Transform game.Transform
	// Tolerance is relative to the largest absolute utility.
	// Zero means DefaultTolerance.
	Tolerance float64
	// CacheSize bounds the feasibility memo. Zero means DefaultCacheSize;
	// negative disables memoization.
	CacheSize int

	// Observer receives per-round diagnostics. Nil means GlogObserver.
	Observer Observer
	// TracerProvider creates the Solve and round spans.
	// Nil means the global otel provider.
	TracerProvider trace.TracerProvider
}

func (c Config) withDefaults() Config {
	if c.Backend == "" {
		c.Backend = lp.DefaultBackend
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Transform == nil {
		c.Transform = game.Identity
	}
	if c.Tolerance == 0 {
		c.Tolerance = DefaultTolerance
	}
	if c.CacheSize == 0 {
		c.CacheSize = DefaultCacheSize
	}
	if c.Observer == nil {
		c.Observer = GlogObserver{}
	}
	if c.TracerProvider == nil {
		c.TracerProvider = otel.GetTracerProvider()
	}

	return c
}

func (c Config) validate() error {
	if c.NumPlayers <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "number of players must be positive, got %d", c.NumPlayers)
	}
	if c.NumActions <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "number of actions must be positive, got %d", c.NumActions)
	}
	if c.Workers < 0 {
		return errors.Wrapf(ErrInvalidConfig, "negative worker count %d", c.Workers)
	}
	if c.SolveTimeout < 0 {
		return errors.Wrapf(ErrInvalidConfig, "negative solve timeout %v", c.SolveTimeout)
	}
	if c.Tolerance < 0 {
		return errors.Wrapf(ErrInvalidConfig, "negative tolerance %v", c.Tolerance)
	}
	if _, err := lp.Lookup(c.Backend); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}

	return nil
}
