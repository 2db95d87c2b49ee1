package simulation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bakeline/production-core/pkg/domain/entities"
	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"
	"github.com/bakeline/production-core/pkg/domain/services/rackalloc"
	"github.com/bakeline/production-core/pkg/infrastructure/events"
)

// Purchase implements the manual-mode POS purchase (spec §4.3 Purchase
// operation): a status/inventory check followed by a FIFO deduction.
// Failures are returned as a structured error, never as a simulation
// abort.
func (w *Writer) Purchase(ctx context.Context, item entities.ItemGUID, quantity entities.Quantity) *domainerrors.Error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Status != entities.SimRunning && w.state.Status != entities.SimPaused {
		return domainerrors.New(domainerrors.InvalidState, "purchases require a running or paused simulation")
	}
	if quantity <= 0 {
		return domainerrors.New(domainerrors.InvalidInput, "purchase quantity must be positive")
	}

	list := w.state.InventoryUnits[item]
	if list.Count() < quantity {
		return domainerrors.Newf(domainerrors.InvalidState, "insufficient inventory for %s: have %d, want %d", item, list.Count(), quantity)
	}

	w.state.InventoryUnits[item] = list.RemoveOldest(quantity)
	w.state.Stats.ItemsProcessed += quantity
	w.creditProcessed(item, quantity)
	w.recordEvent(ctx, events.KindPurchase, events.PurchaseData{ItemGUID: item, Quantity: quantity})
	return nil
}

// MoveBatch implements spec §4.3 moveBatch: only a scheduled batch may
// move, the new start is rounded to the *nearest* grid slot (not the
// ceiling addBatch uses — the divergence is intentional), and the move
// is rejected with RackConflict if it would overlap another batch on
// the destination rack.
func (w *Writer) MoveBatch(ctx context.Context, id entities.BatchID, newStart entities.Minutes, newRack int) *domainerrors.Error {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, ok := w.state.Batches[id]
	if !ok {
		return domainerrors.Newf(domainerrors.NotFound, "batch %s not found", id)
	}
	if b.Status != entities.StatusScheduled {
		return domainerrors.New(domainerrors.InvalidState, "only a scheduled batch may be moved")
	}
	if newRack < 1 || newRack > w.topologyLocked().TotalRacks {
		return domainerrors.Newf(domainerrors.InvalidInput, "rack %d out of range", newRack)
	}

	spec, ok := w.specs[b.ItemGUID]
	if !ok {
		return domainerrors.Newf(domainerrors.NotFound, "no spec for %s", b.ItemGUID)
	}
	destOven := entities.OvenForRack(newRack, w.deps.Config.OvenConfig.RacksPerOven)
	if spec.Oven != entities.OvenAny && destOven != spec.Oven {
		return domainerrors.Newf(domainerrors.OvenMismatch, "rack %d belongs to oven %s, spec requires %s", newRack, destOven, spec.Oven)
	}

	roundedStart := entities.RoundNearestToGrid(newStart)
	candidate := &entities.Batch{RackPosition: newRack, StartTime: roundedStart, BakeTime: b.BakeTime}
	if candidate.EndTime() > w.deps.Config.BusinessHours.EndMinutes {
		return domainerrors.Newf(domainerrors.NoSlotBeforeClose, "move would end at %d, after close", candidate.EndTime())
	}
	for _, other := range w.state.AllBatches() {
		if other.BatchID == id || !other.IsPlaced() || other.RackPosition != newRack {
			continue
		}
		if candidate.Overlaps(other) {
			return domainerrors.Newf(domainerrors.RackConflict, "rack %d busy with batch %s at the requested slot", newRack, other.BatchID)
		}
	}

	b.RackPosition = newRack
	b.StartTime = roundedStart
	b.Oven = destOven
	w.mirrorBatch(ctx, b)
	w.recordEvent(ctx, events.KindBatchMoved, events.BatchMutatedData{BatchID: id})
	return nil
}

// AddBatch implements spec §4.3 addBatch: the Rack Allocator places the
// new batch at desiredStart if free, otherwise at the earliest later
// slot; failure if no eligible rack can finish it by END.
func (w *Writer) AddBatch(ctx context.Context, item entities.ItemGUID, desiredStart entities.Minutes) (*entities.Batch, *domainerrors.Error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	spec, ok := w.specs[item]
	if !ok {
		return nil, domainerrors.Newf(domainerrors.NotFound, "no spec for %s", item)
	}
	if validateErr := spec.Validate(); validateErr != nil {
		return nil, domainerrors.Wrap(domainerrors.InvalidBakeSpec, "spec missing required fields", validateErr)
	}

	topo := w.topologyLocked()
	slots := rackalloc.NewSlotMap()
	existing := w.state.AllBatches()

	rack, start, err := rackalloc.FindSlotAt(existing, spec, desiredStart, topo, slots, w.deps.Config.FindSlotMaxAdvances)
	if err != nil {
		rack, start, err = rackalloc.FindEarliestSlot(existing, spec, desiredStart, topo, slots)
		if err != nil {
			return nil, err
		}
	}

	b := &entities.Batch{
		BatchID:      entities.BatchID(uuid.NewString()),
		ItemGUID:     item,
		Quantity:     spec.CapacityPerRack,
		BakeTime:     spec.BakeTimeMinutes,
		CoolTime:     spec.CoolTimeMinutes,
		Oven:         entities.OvenForRack(rack, topo.RacksPerOven),
		RackPosition: rack,
		StartTime:    start,
		Status:       entities.StatusScheduled,
	}
	w.state.AddBatch(b)
	w.mirrorBatch(ctx, b)
	w.recordEvent(ctx, events.KindBatchAdded, events.BatchMutatedData{BatchID: b.BatchID})
	return b, nil
}

// DeleteBatch implements spec §4.3 deleteBatch: removal from either the
// active or completed list. A completed batch's already-available
// inventory is never retroactively removed.
func (w *Writer) DeleteBatch(ctx context.Context, id entities.BatchID) *domainerrors.Error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.state.Batches[id]; !ok {
		return domainerrors.Newf(domainerrors.NotFound, "batch %s not found", id)
	}

	w.state.RemoveBatch(id)
	if w.deps.ScheduleStore != nil {
		if storeErr := w.deps.ScheduleStore.DeleteBatch(ctx, w.state.ScheduleID, id); storeErr != nil {
			w.state.Stats.StoreIOErrors++
			w.recordEvent(ctx, events.KindBatchMoveError, fmt.Sprintf("deleting batch %s: %v", id, storeErr))
		}
	}
	w.recordEvent(ctx, events.KindBatchDeleted, events.BatchMutatedData{BatchID: id})
	return nil
}

func (w *Writer) topologyLocked() rackalloc.Topology {
	return rackalloc.Topology{
		RacksPerOven: w.deps.Config.OvenConfig.RacksPerOven,
		TotalRacks:   w.deps.Config.OvenConfig.TotalRacks(),
		End:          w.deps.Config.BusinessHours.EndMinutes,
	}
}

// mirrorBatch best-effort mirrors a batch mutation into ScheduleStore.
// A failure never aborts the operation that already succeeded in
// memory (spec §5 suspension points); it's counted and logged instead.
func (w *Writer) mirrorBatch(ctx context.Context, b *entities.Batch) {
	if w.deps.ScheduleStore == nil {
		return
	}
	if storeErr := w.deps.ScheduleStore.UpsertBatch(ctx, w.state.ScheduleID, b); storeErr != nil {
		w.state.Stats.StoreIOErrors++
		w.recordEvent(ctx, events.KindBatchMoveError, fmt.Sprintf("mirroring batch %s: %v", b.BatchID, storeErr))
		if w.deps.Logger != nil {
			w.deps.Logger.Warn("schedule mirror write failed", zap.Error(storeErr))
		}
	}
}
