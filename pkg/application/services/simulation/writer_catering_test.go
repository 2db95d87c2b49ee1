package simulation

import (
	"context"
	"fmt"
	"testing"

	"github.com/bakeline/production-core/pkg/domain/entities"
	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"
)

func TestCreateCateringOrder_SimulationAutoApproveApprovesImmediately(t *testing.T) {
	spec := croissantSpec()
	state := entities.NewSimulationState("sim1", entities.ModeManual, "sched1", 1.0, 0)
	state.CurrentTime = 400
	state.AutoApproveCatering = true

	w, _ := newTestWriter(t, state, map[entities.ItemGUID]*entities.BakeSpec{spec.ItemGUID: spec})
	order, err := w.CreateCateringOrder(context.Background(), []entities.CateringItem{{ItemGUID: spec.ItemGUID, Quantity: 24}}, 600, false)
	if err != nil {
		t.Fatalf("unexpected allocation error: %v", err)
	}
	if order.Status != entities.CateringApproved {
		t.Fatalf("expected the simulation's AutoApproveCatering to approve immediately, got %s", order.Status)
	}
	if len(order.CreatedBatches) != 1 {
		t.Fatalf("expected 1 created batch, got %d", len(order.CreatedBatches))
	}
	if _, ok := state.Batches[order.CreatedBatches[0]]; !ok {
		t.Error("expected the created batch to exist in the arena")
	}
}

func TestCreateCateringOrder_PendingRequiresExplicitApproval(t *testing.T) {
	spec := croissantSpec()
	state := entities.NewSimulationState("sim1", entities.ModeManual, "sched1", 1.0, 0)
	state.CurrentTime = 400

	w, _ := newTestWriter(t, state, map[entities.ItemGUID]*entities.BakeSpec{spec.ItemGUID: spec})
	order, err := w.CreateCateringOrder(context.Background(), []entities.CateringItem{{ItemGUID: spec.ItemGUID, Quantity: 24}}, 600, false)
	if err != nil {
		t.Fatalf("unexpected allocation error: %v", err)
	}
	if order.Status != entities.CateringPending {
		t.Fatalf("expected pending without auto-approve, got %s", order.Status)
	}

	if err := w.ApproveCateringOrder(context.Background(), order.OrderID); err != nil {
		t.Fatalf("unexpected approval error: %v", err)
	}
	if order.Status != entities.CateringApproved {
		t.Fatalf("expected approved after ApproveCateringOrder, got %s", order.Status)
	}
	if err := w.ApproveCateringOrder(context.Background(), order.OrderID); err == nil || err.Kind != domainerrors.InvalidState {
		t.Fatalf("expected re-approving an approved order to fail with InvalidState, got %v", err)
	}
}

// TestRejectCateringOrder_RestoresMovedBatchAndRemovesCreated is the
// atomic-catering property law's rejection half: rejecting a pending
// order must delete every batch it created and put every batch it
// moved back exactly where it was.
func TestRejectCateringOrder_RestoresMovedBatchAndRemovesCreated(t *testing.T) {
	spec := &entities.BakeSpec{
		ItemGUID:        "baguette",
		CapacityPerRack: 24,
		BakeTimeMinutes: 20,
		CoolTimeMinutes: 10,
		Oven:            entities.Oven1,
		Active:          true,
	}
	state := denseOvenOneStateForWriter(spec.ItemGUID)

	w, _ := newTestWriter(t, state, map[entities.ItemGUID]*entities.BakeSpec{spec.ItemGUID: spec})
	order, err := w.CreateCateringOrder(context.Background(), []entities.CateringItem{{ItemGUID: spec.ItemGUID, Quantity: 24}}, 660, false)
	if err != nil {
		t.Fatalf("unexpected allocation error: %v", err)
	}
	if len(order.MovedBatches) == 0 {
		t.Fatal("expected this dense schedule to force at least one relocation")
	}
	moved := order.MovedBatches[0]

	if err := w.RejectCateringOrder(context.Background(), order.OrderID); err != nil {
		t.Fatalf("unexpected rejection error: %v", err)
	}
	if order.Status != entities.CateringRejected {
		t.Fatalf("expected rejected status, got %s", order.Status)
	}
	for _, id := range order.CreatedBatches {
		if _, ok := state.Batches[id]; ok {
			t.Errorf("expected created batch %s removed after rejection", id)
		}
	}
	restored, ok := state.Batches[moved.BatchID]
	if !ok {
		t.Fatalf("expected moved batch %s still present after rejection", moved.BatchID)
	}
	if restored.RackPosition != moved.OldRack || restored.StartTime != moved.OldStartTime {
		t.Errorf("expected moved batch restored to rack %d start %d, got rack %d start %d", moved.OldRack, moved.OldStartTime, restored.RackPosition, restored.StartTime)
	}

	if err := w.RejectCateringOrder(context.Background(), order.OrderID); err == nil || err.Kind != domainerrors.InvalidState {
		t.Fatalf("expected re-rejecting a rejected order to fail with InvalidState, got %v", err)
	}
}

// denseOvenOneStateForWriter mirrors the catering package's S5 fixture
// (every oven-1 rack saturated at the required slot) so a writer-level
// catering order is forced to relocate at least one batch.
func denseOvenOneStateForWriter(item entities.ItemGUID) *entities.SimulationState {
	state := entities.NewSimulationState("sim1", entities.ModeManual, "sched1", 1.0, 0)
	state.CurrentTime = 480
	for rack := 1; rack <= 6; rack++ {
		state.AddBatch(&entities.Batch{
			BatchID:      entities.BatchID(fmt.Sprintf("decoy%d", rack)),
			ItemGUID:     item,
			BakeTime:     120,
			RackPosition: rack,
			StartTime:    510,
			Status:       entities.StatusScheduled,
		})
		state.AddBatch(&entities.Batch{
			BatchID:      entities.BatchID(fmt.Sprintf("blocker%d", rack)),
			ItemGUID:     item,
			BakeTime:     20,
			RackPosition: rack,
			StartTime:    630,
			Status:       entities.StatusScheduled,
		})
	}
	return state
}
