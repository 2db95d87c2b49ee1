package suggestion

import (
	"testing"

	"github.com/bakeline/production-core/pkg/domain/entities"
	"github.com/bakeline/production-core/pkg/infrastructure/config"
	"github.com/bakeline/production-core/pkg/infrastructure/events"
)

func recordPurchase(state *entities.SimulationState, at entities.Minutes, item entities.ItemGUID, qty entities.Quantity) {
	state.Events = append(state.Events, entities.Event{
		Kind:          events.KindPurchase,
		TimestampMins: at,
		Data:          events.PurchaseData{ItemGUID: item, Quantity: qty},
	})
}

// TestReactive_RejectsBelowMinimumObservedUnits covers the window floor:
// fewer than ReactiveMinObservedUnits purchased in the trailing window
// means no signal to act on.
func TestReactive_RejectsBelowMinimumObservedUnits(t *testing.T) {
	cfg := config.Default()
	state := baseState(600)
	recordPurchase(state, 590, "croissant", 5)
	specs := map[entities.ItemGUID]*entities.BakeSpec{"croissant": croissantSpec()}

	proposals := Reactive{}.Propose(state, specs, cfg)
	if len(proposals) != 0 {
		t.Fatalf("expected no proposals below the observed-units floor, got %d", len(proposals))
	}
}

// TestReactive_ProposesWhenDepletionIsImminent exercises the full
// accept path: enough observed consumption, a fast enough rate, and a
// shortfall against the 180-minute buffer target big enough to clear
// half a rack.
func TestReactive_ProposesWhenDepletionIsImminent(t *testing.T) {
	cfg := config.Default()
	state := baseState(600) // 10:00
	for i := 0; i < 50; i++ {
		recordPurchase(state, 600-entities.Minutes(i), "croissant", 1)
	}
	specs := map[entities.ItemGUID]*entities.BakeSpec{"croissant": croissantSpec()}

	proposals := Reactive{}.Propose(state, specs, cfg)
	if len(proposals) == 0 {
		t.Fatal("expected at least one reactive proposal given a high trailing consumption rate and no inventory")
	}
	for _, p := range proposals {
		if p.Reason.Algorithm != "reactive" {
			t.Errorf("expected algorithm reactive, got %s", p.Reason.Algorithm)
		}
		if p.StartTime <= state.CurrentTime {
			t.Errorf("expected a proposed start after currentTime, got %d", p.StartTime)
		}
	}
}

// TestReactive_IgnoresPurchasesOutsideTheWindow checks that a burst of
// consumption long before the trailing window doesn't count toward
// observedUnits.
func TestReactive_IgnoresPurchasesOutsideTheWindow(t *testing.T) {
	cfg := config.Default()
	state := baseState(600)
	for i := 0; i < 50; i++ {
		recordPurchase(state, 600-cfg.Suggestion.ReactiveWindowMinutes-entities.Minutes(10+i), "croissant", 1)
	}
	specs := map[entities.ItemGUID]*entities.BakeSpec{"croissant": croissantSpec()}

	proposals := Reactive{}.Propose(state, specs, cfg)
	if len(proposals) != 0 {
		t.Fatalf("expected purchases outside the trailing window to be ignored, got %d proposals", len(proposals))
	}
}

// TestReactive_SkipsWhenExistingSupplyCoversTheWindow verifies that
// scheduled batches due to come online soon suppress a proposal even
// with heavy trailing consumption.
func TestReactive_SkipsWhenExistingSupplyCoversTheWindow(t *testing.T) {
	cfg := config.Default()
	state := baseState(600)
	for i := 0; i < 50; i++ {
		recordPurchase(state, 600-entities.Minutes(i), "croissant", 1)
	}
	state.AddBatch(&entities.Batch{
		BatchID:      "incoming",
		ItemGUID:     "croissant",
		Quantity:     500,
		BakeTime:     20,
		CoolTime:     10,
		RackPosition: 1,
		StartTime:    595,
		Status:       entities.StatusBaking,
	})
	specs := map[entities.ItemGUID]*entities.BakeSpec{"croissant": croissantSpec()}

	proposals := Reactive{}.Propose(state, specs, cfg)
	if len(proposals) != 0 {
		t.Fatalf("expected ample incoming supply to suppress reactive proposals, got %d", len(proposals))
	}
}
