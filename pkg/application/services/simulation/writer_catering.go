package simulation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bakeline/production-core/pkg/application/services/catering"
	"github.com/bakeline/production-core/pkg/domain/entities"
	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"
	"github.com/bakeline/production-core/pkg/infrastructure/events"
)

// CreateCateringOrder runs the Catering Allocator (spec §4.5) and, on
// success, commits the resulting batches and relocations atomically
// into live state. The order is auto-approved (and its batches
// persisted immediately) when autoApprove or the simulation's own
// AutoApproveCatering flag is set; otherwise it is created pending and
// persisted only on a later ApproveCateringOrder.
func (w *Writer) CreateCateringOrder(ctx context.Context, items []entities.CateringItem, requiredAvailableTime entities.Minutes, autoApprove bool) (*entities.CateringOrder, *domainerrors.Error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Status != entities.SimRunning && w.state.Status != entities.SimPaused {
		return nil, domainerrors.New(domainerrors.InvalidState, "catering orders require a running or paused simulation")
	}

	plan, err := catering.Allocate(w.state, w.specs, w.deps.Config, items, requiredAvailableTime)
	if err != nil {
		return nil, err
	}

	orderID := entities.CateringOrderID(uuid.NewString())
	movedRecords := make([]entities.MovedBatch, 0, len(plan.Relocations))

	for _, rel := range plan.Relocations {
		b, ok := w.state.Batches[rel.BatchID]
		if !ok {
			return nil, domainerrors.Newf(domainerrors.NotFound, "relocated batch %s vanished mid-allocation", rel.BatchID)
		}
		b.RackPosition = rel.NewRack
		b.StartTime = rel.NewStart
		b.Oven = entities.OvenForRack(rel.NewRack, w.deps.Config.OvenConfig.RacksPerOven)
		movedRecords = append(movedRecords, rel.MovedBatch)
	}

	createdIDs := make([]entities.BatchID, 0, len(plan.CreatedBatches))
	for _, b := range plan.CreatedBatches {
		b.CateringOrderID = orderID
		w.state.AddBatch(b)
		createdIDs = append(createdIDs, b.BatchID)
	}

	order := &entities.CateringOrder{
		OrderID:               orderID,
		Items:                 items,
		RequiredAvailableTime: entities.RoundUpToGrid(requiredAvailableTime),
		OrderPlacedAt:         w.state.CurrentTime,
		Status:                entities.CateringPending,
		CreatedBatches:        createdIDs,
		MovedBatches:          movedRecords,
	}
	w.state.CateringOrders[orderID] = order
	w.recordEvent(ctx, events.KindCateringCreated, events.CateringOrderData{OrderID: orderID})

	if autoApprove || w.state.AutoApproveCatering {
		w.approveLocked(ctx, order)
	}
	return order, nil
}

// SetAutoApproveCatering toggles whether future CreateCateringOrder calls
// approve themselves immediately (spec §6 simulation.catering.autoApprove).
// It never affects orders already pending.
func (w *Writer) SetAutoApproveCatering(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.AutoApproveCatering = enabled
}

// ApproveCateringOrder moves a pending order to approved and persists
// its batches (spec §4.5 step 6). Approving an already-approved or
// -rejected order is an error (the one-way state machine).
func (w *Writer) ApproveCateringOrder(ctx context.Context, id entities.CateringOrderID) *domainerrors.Error {
	w.mu.Lock()
	defer w.mu.Unlock()

	order, ok := w.state.CateringOrders[id]
	if !ok {
		return domainerrors.Newf(domainerrors.NotFound, "catering order %s not found", id)
	}
	if order.Status != entities.CateringPending {
		return domainerrors.Newf(domainerrors.InvalidState, "catering order %s is already %s", id, order.Status)
	}
	w.approveLocked(ctx, order)
	return nil
}

func (w *Writer) approveLocked(ctx context.Context, order *entities.CateringOrder) {
	order.Status = entities.CateringApproved
	for _, id := range order.CreatedBatches {
		if b, ok := w.state.Batches[id]; ok {
			w.mirrorBatch(ctx, b)
		}
	}
	for _, moved := range order.MovedBatches {
		if b, ok := w.state.Batches[moved.BatchID]; ok {
			w.mirrorBatch(ctx, b)
		}
	}
	w.recordEvent(ctx, events.KindCateringApproved, events.CateringOrderData{OrderID: order.OrderID})
	w.mirrorOrder(ctx, order)
}

// mirrorOrder persists an approved order (spec §4.5 step 6: "approved
// orders are persisted (with their created batches) on approval").
func (w *Writer) mirrorOrder(ctx context.Context, order *entities.CateringOrder) {
	if w.deps.OrderStore == nil {
		return
	}
	if storeErr := w.deps.OrderStore.UpsertCateringOrder(ctx, w.state.ID, order); storeErr != nil {
		w.state.Stats.StoreIOErrors++
		w.recordEvent(ctx, events.KindBatchMoveError, fmt.Sprintf("mirroring catering order %s: %v", order.OrderID, storeErr))
		if w.deps.Logger != nil {
			w.deps.Logger.Warn("catering order mirror write failed", zap.Error(storeErr))
		}
	}
}

// RejectCateringOrder implements spec §4.5 step 7: a pending order's
// created batches are discarded and every moved batch is restored to
// its recorded pre-attempt rack and start time. An already-approved or
// -rejected order cannot be rejected.
func (w *Writer) RejectCateringOrder(ctx context.Context, id entities.CateringOrderID) *domainerrors.Error {
	w.mu.Lock()
	defer w.mu.Unlock()

	order, ok := w.state.CateringOrders[id]
	if !ok {
		return domainerrors.Newf(domainerrors.NotFound, "catering order %s not found", id)
	}
	if order.Status != entities.CateringPending {
		return domainerrors.Newf(domainerrors.InvalidState, "catering order %s is already %s", id, order.Status)
	}

	for _, batchID := range order.CreatedBatches {
		w.state.RemoveBatch(batchID)
	}
	for _, moved := range order.MovedBatches {
		b, ok := w.state.Batches[moved.BatchID]
		if !ok {
			continue
		}
		b.RackPosition = moved.OldRack
		b.StartTime = moved.OldStartTime
		b.Oven = entities.OvenForRack(moved.OldRack, w.deps.Config.OvenConfig.RacksPerOven)
		w.mirrorBatch(ctx, b)
	}

	order.Status = entities.CateringRejected
	w.recordEvent(ctx, events.KindCateringRejected, events.CateringOrderData{OrderID: id})
	return nil
}
