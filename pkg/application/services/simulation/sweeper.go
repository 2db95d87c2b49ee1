package simulation

import (
	"context"

	"github.com/bakeline/production-core/pkg/infrastructure/clock"
	"github.com/bakeline/production-core/pkg/infrastructure/config"
)

// Sweeper periodically evicts stopped/completed simulations that have
// sat past their TTL, so the registry doesn't grow without bound across
// a long-lived process (spec §5 cleanup). It never touches a
// running/paused simulation.
type Sweeper struct {
	registry *Registry
	clock    clock.Clock
	cfg      config.Config
}

// NewSweeper builds a Sweeper over registry.
func NewSweeper(registry *Registry, c clock.Clock, cfg config.Config) *Sweeper {
	return &Sweeper{registry: registry, clock: c, cfg: cfg}
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (sw *Sweeper) Run(ctx context.Context) error {
	ticker := sw.clock.Ticker(sw.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			sw.sweepOnce()
		}
	}
}

func (sw *Sweeper) sweepOnce() {
	now := sw.clock.Now().UnixMilli()
	ttlMillis := sw.cfg.SimulationTTL.Milliseconds()

	for _, w := range sw.registry.All() {
		since, finished := w.FinishedSince(now)
		if finished && since >= ttlMillis {
			sw.registry.Remove(w.ID())
		}
	}
}
