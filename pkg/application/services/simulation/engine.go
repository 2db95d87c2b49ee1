package simulation

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/bakeline/production-core/pkg/domain/entities"
	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"
	"github.com/bakeline/production-core/pkg/domain/repositories"
	cclock "github.com/bakeline/production-core/pkg/infrastructure/clock"
	"github.com/bakeline/production-core/pkg/infrastructure/config"
	"github.com/bakeline/production-core/pkg/infrastructure/events"
	"github.com/bakeline/production-core/pkg/infrastructure/transport"
)

// Engine is the C3 facade the command layer talks to: it creates
// simulations from a persisted Schedule, registers their Writers, and
// owns the driver+sweeper background loop for the process's lifetime.
type Engine struct {
	cfg           config.Config
	specStore     repositories.SpecStore
	scheduleStore repositories.ScheduleStore
	orderStore    repositories.OrderStore
	eventStore    *events.Store
	transport     transport.Transport
	clock         cclock.Clock
	logger        *zap.Logger

	registry *Registry
	stop     func() error
}

// NewEngine wires an Engine from its collaborators. Callers build the
// Driver/Sweeper loop explicitly via Start. orderStore may be nil, in
// which case approved catering orders are never mirror-written.
func NewEngine(cfg config.Config, specStore repositories.SpecStore, scheduleStore repositories.ScheduleStore, orderStore repositories.OrderStore, eventStore *events.Store, t transport.Transport, c cclock.Clock, logger *zap.Logger) *Engine {
	return &Engine{
		cfg:           cfg,
		specStore:     specStore,
		scheduleStore: scheduleStore,
		orderStore:    orderStore,
		eventStore:    eventStore,
		transport:     t,
		clock:         c,
		logger:        logger,
		registry:      NewRegistry(),
	}
}

// Start launches the background driver+sweeper loop. Call once per
// process; ctx cancellation (or Stop) ends both goroutines.
func (e *Engine) Start(ctx context.Context) {
	driver := NewDriver(e.registry, e.transport, e.clock, e.cfg)
	sweeper := NewSweeper(e.registry, e.clock, e.cfg)
	e.stop = RunGroup(ctx, driver, sweeper)
}

// Stop cancels the background loop and waits for it to exit.
func (e *Engine) Stop() error {
	if e.stop == nil {
		return nil
	}
	return e.stop()
}

// StartSimulation implements simulation.start (spec §6): it loads the
// day's persisted Schedule, builds a fresh SimulationState from its
// batches and forecast, freezes the active specs for the run, and
// registers a new Writer.
func (e *Engine) StartSimulation(ctx context.Context, id entities.SimulationID, date string, mode entities.SimMode, speedMultiplier float64, autoApproveCatering bool, presetOrders []entities.PresetOrder) (*Writer, *domainerrors.Error) {
	schedule, err := e.scheduleStore.GetByDate(ctx, date)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.NotFound, "no schedule for date "+date, err)
	}

	specs, err := e.specStore.GetActiveSpecs(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.StoreIOError, "loading active bake specs", err)
	}
	specsByItem := make(map[entities.ItemGUID]*entities.BakeSpec, len(specs))
	for _, s := range specs {
		specsByItem[s.ItemGUID] = s
	}

	sorted := make([]entities.PresetOrder, len(presetOrders))
	copy(sorted, presetOrders)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].OrderTimeMinutes < sorted[j].OrderTimeMinutes })

	state := entities.NewSimulationState(id, mode, schedule.ID, speedMultiplier, e.clock.Now().UnixMilli())
	state.PresetOrders = sorted
	state.AutoApproveCatering = autoApproveCatering
	state.DailyForecast = schedule.DailyForecast
	state.IntradayForecast = schedule.IntradayForecast
	state.ParConfig = schedule.ParConfig
	state.CurrentTime = e.cfg.BusinessHours.StartMinutes

	for i := range schedule.Batches {
		b := schedule.Batches[i]
		state.AddBatch(&b)
	}

	writer := NewWriter(state, specsByItem, Deps{
		Clock:         e.clock,
		Config:        e.cfg,
		ScheduleStore: e.scheduleStore,
		OrderStore:    e.orderStore,
		EventStore:    e.eventStore,
		Logger:        e.logger,
	})
	e.registry.Add(writer)
	return writer, nil
}

// GetSimulation looks up a running/known simulation's Writer.
func (e *Engine) GetSimulation(id entities.SimulationID) (*Writer, bool) {
	return e.registry.Get(id)
}
