package simulation

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/bakeline/production-core/pkg/infrastructure/clock"
	"github.com/bakeline/production-core/pkg/infrastructure/config"
	"github.com/bakeline/production-core/pkg/infrastructure/transport"
)

// Driver is the single goroutine that advances every running simulation
// on a fixed wall-clock tick and publishes its snapshot (spec §5, §6).
// The ticker-driven loop is grounded on the dish-dispatcher's
// generateOrders() goroutine; lifecycle (start/stop alongside the
// sweeper, one cancellation point for both) uses golang.org/x/sync/errgroup
// instead of a bare done channel.
type Driver struct {
	registry  *Registry
	transport transport.Transport
	clock     clock.Clock
	cfg       config.Config
}

// NewDriver builds a Driver over registry, publishing ticks to t.
func NewDriver(registry *Registry, t transport.Transport, c clock.Clock, cfg config.Config) *Driver {
	return &Driver{registry: registry, transport: t, clock: c, cfg: cfg}
}

// Run ticks until ctx is cancelled. Intended to be launched via
// errgroup.Group.Go alongside the Sweeper (see Engine.Start).
func (d *Driver) Run(ctx context.Context) error {
	ticker := d.clock.Ticker(d.cfg.DriverTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.tickOnce(ctx)
		}
	}
}

func (d *Driver) tickOnce(ctx context.Context) {
	for _, w := range d.registry.All() {
		if w.IsDone() {
			continue
		}
		w.AdvanceToNow(ctx)
		d.transport.Publish(w.ID(), w.Snapshot())
	}
}

// RunGroup starts the Driver and a Sweeper together under one errgroup,
// returning a function that cancels both and waits for them to exit.
func RunGroup(ctx context.Context, driver *Driver, sweeper *Sweeper) (stop func() error) {
	group, groupCtx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(groupCtx)

	group.Go(func() error { return driver.Run(runCtx) })
	group.Go(func() error { return sweeper.Run(runCtx) })

	return func() error {
		cancel()
		return group.Wait()
	}
}
