// Package simulation is the Simulation Engine (C3): it owns the
// authoritative per-simulation state, advances wall-clock-driven
// simulated time, drives the batch lifecycle, consumes FIFO inventory,
// and emits events, under a single-writer-per-simulation lock (spec
// §5).
package simulation

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/bakeline/production-core/pkg/domain/entities"
	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"
	"github.com/bakeline/production-core/pkg/domain/repositories"
	"github.com/bakeline/production-core/pkg/infrastructure/clock"
	"github.com/bakeline/production-core/pkg/infrastructure/config"
	"github.com/bakeline/production-core/pkg/infrastructure/events"
)

// Deps are the collaborators a Writer needs beyond the state it owns.
type Deps struct {
	Clock         clock.Clock
	Config        config.Config
	ScheduleStore repositories.ScheduleStore
	OrderStore    repositories.OrderStore
	EventStore    *events.Store
	Logger        *zap.Logger
}

// Writer is the sole mutator of one SimulationState (spec §5). Every
// exported method takes the mutex before touching state and releases it
// before returning; ScheduleStore mirror-writes happen after the
// in-memory mutation but while the mutex is still held, so a slow store
// delays the next operation on the same simulation.
type Writer struct {
	mu    sync.Mutex
	state *entities.SimulationState
	specs map[entities.ItemGUID]*entities.BakeSpec
	deps  Deps
}

// NewWriter wraps a freshly built SimulationState. specs is frozen for
// the simulation's lifetime (spec §3: "a spec is immutable for the
// duration of a simulation").
func NewWriter(state *entities.SimulationState, specs map[entities.ItemGUID]*entities.BakeSpec, deps Deps) *Writer {
	return &Writer{state: state, specs: specs, deps: deps}
}

// ID is the owned simulation's id, safe to call without the lock since
// it never changes after construction.
func (w *Writer) ID() entities.SimulationID {
	return w.state.ID
}

// AdvanceToNow computes the current simulated time from the wall clock
// and advances the simulation to it (spec §4.3 advanceToNow).
func (w *Writer) AdvanceToNow(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.advanceToLocked(ctx, w.nowMinutesLocked())
}

// AdvanceTo advances the simulation to an explicit target time, used by
// the headless runner to drive a simulation without a real-time driver
// (spec §4.3 advanceTo, headless).
func (w *Writer) AdvanceTo(ctx context.Context, t entities.Minutes) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.advanceToLocked(ctx, t)
}

func (w *Writer) nowMinutesLocked() entities.Minutes {
	nowMillis := w.deps.Clock.Now().UnixMilli()
	f := SimulatedMinutes(w.deps.Config, w.state, nowMillis)
	return QuantizeToMinutes(f, w.deps.Config.BusinessHours.EndMinutes)
}

// advanceToLocked is the advance-tick core (spec §4.3): batch lifecycle
// transitions, then order consumption, then the END completion check.
// Idempotent-orders property law: a target at or before the current
// time is a no-op, so calling this again without new orders/mutations
// yields the same state.
func (w *Writer) advanceToLocked(ctx context.Context, target entities.Minutes) {
	if w.state.Status != entities.SimRunning {
		return
	}

	end := w.deps.Config.BusinessHours.EndMinutes
	newTime := target
	if newTime > end {
		newTime = end
	}

	previousTime := w.state.CurrentTime
	if newTime <= previousTime {
		return
	}
	w.state.CurrentTime = newTime

	w.runBatchTransitions(previousTime, newTime)
	if w.state.Mode == entities.ModePreset {
		w.consumePresetOrders(previousTime, newTime)
	}

	if newTime >= end {
		w.state.Status = entities.SimCompleted
		w.state.CurrentTime = end
		w.state.FinishedAtRealUnixMillis = w.deps.Clock.Now().UnixMilli()
		w.recordEvent(ctx, events.KindSimulationCompleted, nil)
	}
}

// runBatchTransitions walks every active batch and applies the three
// edge-triggered transitions in order (spec §4.3 table). Because each
// check re-reads the batch's (possibly just-updated) status, a single
// wide tick correctly cascades a batch through more than one transition.
func (w *Writer) runBatchTransitions(previousTime, currentTime entities.Minutes) {
	for _, b := range w.state.ActiveBatches() {
		if !b.IsPlaced() {
			continue
		}

		if b.Status == entities.StatusScheduled && previousTime <= b.StartTime && b.StartTime <= currentTime {
			b.Status = entities.StatusBaking
			w.state.Stats.BatchesStarted++
			w.state.RecordEvent(events.KindBatchStarted, events.BatchTransitionData{BatchID: b.BatchID, ItemGUID: b.ItemGUID})
		}

		if b.Status == entities.StatusBaking && previousTime < b.EndTime() && b.EndTime() <= currentTime {
			b.Status = entities.StatusPulling
			w.state.Stats.BatchesPulled++
			w.state.RecordEvent(events.KindBatchPulled, events.BatchTransitionData{BatchID: b.BatchID, ItemGUID: b.ItemGUID})
		}

		if b.Status == entities.StatusPulling && previousTime < b.AvailableTime() && b.AvailableTime() <= currentTime {
			b.Status = entities.StatusAvailable
			list := w.state.InventoryUnits[b.ItemGUID]
			w.state.InventoryUnits[b.ItemGUID] = list.AddN(currentTime, b.BatchID, b.Quantity)
			if total := w.state.TotalInventory(); total > w.state.Stats.PeakInventory {
				w.state.Stats.PeakInventory = total
			}
			w.state.Stats.BatchesAvailable++
			w.state.MoveToCompleted(b.BatchID)
			w.state.RecordEvent(events.KindBatchAvailable, events.BatchTransitionData{BatchID: b.BatchID, ItemGUID: b.ItemGUID})
		}
	}
}

// consumePresetOrders implements spec §4.3's preset-mode order
// consumption: every preset order whose time falls in (previousTime,
// currentTime] and hasn't already been processed is resolved exactly
// once, either satisfied FIFO or recorded as a miss.
func (w *Writer) consumePresetOrders(previousTime, currentTime entities.Minutes) {
	for i := range w.state.PresetOrders {
		order := &w.state.PresetOrders[i]
		key := order.Key()
		if w.state.ProcessedOrderKeys[key] {
			continue
		}
		if !(previousTime < order.OrderTimeMinutes && order.OrderTimeMinutes <= currentTime) {
			continue
		}

		list := w.state.InventoryUnits[order.ItemGUID]
		available := list.Count()
		w.state.ProcessedOrderKeys[key] = true

		if available >= order.Quantity {
			w.state.InventoryUnits[order.ItemGUID] = list.RemoveOldest(order.Quantity)
			w.state.Stats.ItemsProcessed += order.Quantity
			w.creditProcessed(order.ItemGUID, order.Quantity)
			w.state.RecordEvent(events.KindOrderProcessed, events.OrderProcessedData{OrderID: order.OrderID, ItemGUID: order.ItemGUID, Quantity: order.Quantity})
			continue
		}

		w.state.Stats.ItemsMissed += order.Quantity
		w.state.MissedOrders = append(w.state.MissedOrders, entities.MissedOrder{
			OrderID:            order.OrderID,
			ItemGUID:           order.ItemGUID,
			RequestedQuantity:  order.Quantity,
			AvailableInventory: available,
		})
		w.state.RecordEvent(events.KindOrderMissed, events.OrderMissedData{
			OrderID:            order.OrderID,
			ItemGUID:           order.ItemGUID,
			RequestedQuantity:  order.Quantity,
			AvailableInventory: available,
		})
	}
}

func (w *Writer) creditProcessed(item entities.ItemGUID, qty entities.Quantity) {
	agg := w.state.ProcessedOrdersByItem[item]
	if agg == nil {
		agg = &entities.ProcessedAggregate{ItemGUID: item}
		w.state.ProcessedOrdersByItem[item] = agg
	}
	agg.TotalQuantity += qty
}

// Pause freezes CurrentTime and suspends transitions (spec §5
// cancellation/timeouts).
func (w *Writer) Pause() *domainerrors.Error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Status != entities.SimRunning {
		return domainerrors.New(domainerrors.InvalidState, "can only pause a running simulation")
	}
	w.state.PausedAtRealUnixMillis = w.deps.Clock.Now().UnixMilli()
	w.state.Status = entities.SimPaused
	return nil
}

// Resume accumulates the paused interval into PausedDurationMillis so
// the clock continues from the exact simulated instant of pause (spec
// §5, the pause-invariance property law).
func (w *Writer) Resume() *domainerrors.Error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Status != entities.SimPaused {
		return domainerrors.New(domainerrors.InvalidState, "can only resume a paused simulation")
	}
	now := w.deps.Clock.Now().UnixMilli()
	w.state.PausedDurationMillis += now - w.state.PausedAtRealUnixMillis
	w.state.PausedAtRealUnixMillis = 0
	w.state.Status = entities.SimRunning
	return nil
}

// Stop is cooperative: it marks status stopped so the next driver
// iteration performs no further transitions (spec §5).
func (w *Writer) Stop() *domainerrors.Error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Status == entities.SimStopped || w.state.Status == entities.SimCompleted {
		return domainerrors.New(domainerrors.InvalidState, "simulation is already stopped or completed")
	}
	w.state.Status = entities.SimStopped
	w.state.FinishedAtRealUnixMillis = w.deps.Clock.Now().UnixMilli()
	return nil
}

// FinishedSince reports the wall-clock duration since this simulation
// finished (stopped or completed), or false if it's still running/paused.
func (w *Writer) FinishedSince(nowRealMillis int64) (millisSince int64, finished bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Status != entities.SimStopped && w.state.Status != entities.SimCompleted {
		return 0, false
	}
	return nowRealMillis - w.state.FinishedAtRealUnixMillis, true
}

// IsDone reports whether the driver and sweeper should stop touching
// this simulation's clock (it may still be swept later).
func (w *Writer) IsDone() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Status == entities.SimStopped || w.state.Status == entities.SimCompleted
}

func (w *Writer) recordEvent(ctx context.Context, kind string, data interface{}) {
	w.state.RecordEvent(kind, data)
	if w.deps.EventStore != nil {
		_ = w.deps.EventStore.Append(events.New(kind, w.state.ID, w.state.CurrentTime, data))
	}
}
