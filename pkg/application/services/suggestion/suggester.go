// Package suggestion is the C4 Suggestion Engines: two pure functions
// of (SimulationState, BakeSpecs) that propose candidate batches, never
// mutating the simulation themselves. Grounded structurally on the
// teacher's events.EventHandler interface shape (Name/CanHandle),
// generalized to Name/Propose for this domain's polymorphism (spec §9).
package suggestion

import (
	"github.com/bakeline/production-core/pkg/domain/entities"
	"github.com/bakeline/production-core/pkg/infrastructure/config"
)

// Reason documents why a proposal was made and how confident the engine
// is in it (spec §4.4: "a reason object that includes a
// confidencePercent in 0..100").
type Reason struct {
	Algorithm         string
	ConfidencePercent int
	Shortfall         entities.Quantity
}

// Proposal is one candidate batch a Suggester recommends adding. It is
// not a Batch: it carries no rack/id, since placement is the caller's
// decision (via addBatch) after acceptance.
type Proposal struct {
	ItemGUID  entities.ItemGUID
	Quantity  entities.Quantity
	StartTime entities.Minutes
	Reason    Reason
}

// Suggester proposes restock batches for a simulation. Implementations
// must be pure: no field of state or specs is ever mutated.
type Suggester interface {
	Name() string
	Propose(state *entities.SimulationState, specs map[entities.ItemGUID]*entities.BakeSpec, cfg config.Config) []Proposal
}

// currentInventoryCount is the item's on-hand unit count.
func currentInventoryCount(state *entities.SimulationState, item entities.ItemGUID) entities.Quantity {
	return state.InventoryUnits[item].Count()
}

// notYetAvailableQuantity sums the quantities of active (scheduled,
// baking, or pulling) batches for item — inventory that exists but
// hasn't posted to the list yet.
func notYetAvailableQuantity(state *entities.SimulationState, item entities.ItemGUID) entities.Quantity {
	var total entities.Quantity
	for _, b := range state.ActiveBatches() {
		if b.ItemGUID == item && b.Status != entities.StatusAvailable {
			total += b.Quantity
		}
	}
	return total
}

// supplyAvailableWithin sums the quantities of item's active batches
// whose availableTime falls in (currentTime, currentTime+window].
func supplyAvailableWithin(state *entities.SimulationState, item entities.ItemGUID, currentTime, window entities.Minutes) entities.Quantity {
	var total entities.Quantity
	upper := currentTime + window
	for _, b := range state.ActiveBatches() {
		if b.ItemGUID != item {
			continue
		}
		at := b.AvailableTime()
		if at > currentTime && at <= upper {
			total += b.Quantity
		}
	}
	return total
}

// ceilDivQty computes ceil(numerator / denominator) for strictly
// positive quantities, the same shortfall-to-batch-count rounding the
// Schedule Planner uses.
func ceilDivQty(numerator, denominator entities.Quantity) int {
	if denominator <= 0 || numerator <= 0 {
		return 0
	}
	count := int(numerator / denominator)
	if numerator%denominator != 0 {
		count++
	}
	return count
}
