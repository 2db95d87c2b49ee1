package catering

import (
	"fmt"
	"testing"

	"github.com/bakeline/production-core/pkg/domain/entities"
	"github.com/bakeline/production-core/pkg/infrastructure/config"
)

func ovenOneItemSpec() *entities.BakeSpec {
	return &entities.BakeSpec{
		ItemGUID:        "baguette",
		DisplayName:     "Baguette",
		CapacityPerRack: 24,
		BakeTimeMinutes: 20,
		CoolTimeMinutes: 10,
		Oven:            entities.Oven1,
		Active:          true,
	}
}

// denseOvenOneState builds the seed scenario S5 setup: every oven-1 rack
// (1..6) has a long decoy batch occupying [510,630) plus a second
// scheduled batch occupying [630,650) — so every stagger candidate from
// 510 to 630 is blocked on every oven-1 rack, and the only way to place a
// requiredAvailableTime=660 order is to relocate the 630 batches.
func denseOvenOneState() *entities.SimulationState {
	state := entities.NewSimulationState("sim1", entities.ModeManual, "sched1", 1.0, 0)
	state.CurrentTime = 480 // 08:00, well before 11:00 so the 120-minute lead is satisfied
	for rack := 1; rack <= 6; rack++ {
		state.AddBatch(&entities.Batch{
			BatchID:      entities.BatchID(decoyID(rack)),
			ItemGUID:     "croissant",
			Quantity:     24,
			BakeTime:     120,
			CoolTime:     0,
			Oven:         entities.Oven1,
			RackPosition: rack,
			StartTime:    510,
			Status:       entities.StatusScheduled,
		})
		state.AddBatch(&entities.Batch{
			BatchID:      entities.BatchID(blockerID(rack)),
			ItemGUID:     "croissant",
			Quantity:     24,
			BakeTime:     20,
			CoolTime:     0,
			Oven:         entities.Oven1,
			RackPosition: rack,
			StartTime:    630,
			Status:       entities.StatusScheduled,
		})
	}
	return state
}

func decoyID(rack int) string   { return fmt.Sprintf("decoy%d", rack) }
func blockerID(rack int) string { return fmt.Sprintf("blocker%d", rack) }

// TestAllocate_S5_MovesExactlyTwoBatches is seed scenario S5: 48 units of
// an oven-1 item needed by 11:00 (660), every oven-1 rack saturated at
// the required 10:30 (630) start — the allocator must relocate exactly
// two conflicting scheduled batches and place exactly two catering
// batches.
func TestAllocate_S5_MovesExactlyTwoBatches(t *testing.T) {
	cfg := config.Default()
	state := denseOvenOneState()
	specs := map[entities.ItemGUID]*entities.BakeSpec{
		"baguette": ovenOneItemSpec(),
		"croissant": {
			ItemGUID: "croissant", CapacityPerRack: 24, BakeTimeMinutes: 120, CoolTimeMinutes: 0,
			Oven: entities.Oven1, Active: true,
		},
	}
	items := []entities.CateringItem{{ItemGUID: "baguette", Quantity: 48}}

	plan, err := Allocate(state, specs, cfg, items, 660)
	if err != nil {
		t.Fatalf("unexpected allocation failure: %v", err)
	}
	if len(plan.CreatedBatches) != 2 {
		t.Fatalf("expected 2 created batches, got %d", len(plan.CreatedBatches))
	}
	if len(plan.Relocations) != 2 {
		t.Fatalf("expected 2 relocations, got %d", len(plan.Relocations))
	}
	for _, b := range plan.CreatedBatches {
		if b.AvailableTime() > 660 {
			t.Errorf("created batch available at %d, after the required 660", b.AvailableTime())
		}
		if b.StartTime != 630 {
			t.Errorf("expected the freed 630 slot to be used, got start %d", b.StartTime)
		}
	}
	for _, rel := range plan.Relocations {
		if rel.OldStartTime != 630 {
			t.Errorf("expected a relocated batch to have been moved off 630, got old start %d", rel.OldStartTime)
		}
		if rel.NewStart == 630 {
			t.Error("expected the relocated batch to land somewhere other than the freed slot")
		}
	}
}

// TestAllocate_RejectsLeadTimeUnder120Minutes covers spec §4.5 step 1's
// validation: a requiredAvailableTime too close to currentTime is
// rejected before any placement is attempted.
func TestAllocate_RejectsLeadTimeUnder120Minutes(t *testing.T) {
	cfg := config.Default()
	state := entities.NewSimulationState("sim1", entities.ModeManual, "sched1", 1.0, 0)
	state.CurrentTime = 600
	specs := map[entities.ItemGUID]*entities.BakeSpec{"baguette": ovenOneItemSpec()}
	items := []entities.CateringItem{{ItemGUID: "baguette", Quantity: 24}}

	_, err := Allocate(state, specs, cfg, items, 650)
	if err == nil {
		t.Fatal("expected a lead-time validation error")
	}
}

// TestAllocate_UnknownItemIsRejected covers the per-item spec validation.
func TestAllocate_UnknownItemIsRejected(t *testing.T) {
	cfg := config.Default()
	state := entities.NewSimulationState("sim1", entities.ModeManual, "sched1", 1.0, 0)
	state.CurrentTime = 400
	items := []entities.CateringItem{{ItemGUID: "missing", Quantity: 10}}

	_, err := Allocate(state, map[entities.ItemGUID]*entities.BakeSpec{}, cfg, items, 600)
	if err == nil {
		t.Fatal("expected a not-found error for an item with no spec")
	}
}

// TestAllocate_SimpleCaseNeedsNoMoves is the easy path: an empty
// schedule places every needed batch in the first pass, with zero
// relocations.
func TestAllocate_SimpleCaseNeedsNoMoves(t *testing.T) {
	cfg := config.Default()
	state := entities.NewSimulationState("sim1", entities.ModeManual, "sched1", 1.0, 0)
	state.CurrentTime = 400
	specs := map[entities.ItemGUID]*entities.BakeSpec{"baguette": ovenOneItemSpec()}
	items := []entities.CateringItem{{ItemGUID: "baguette", Quantity: 24}}

	plan, err := Allocate(state, specs, cfg, items, 600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.CreatedBatches) != 1 {
		t.Fatalf("expected 1 created batch, got %d", len(plan.CreatedBatches))
	}
	if len(plan.Relocations) != 0 {
		t.Errorf("expected no relocations on an empty schedule, got %d", len(plan.Relocations))
	}
}
