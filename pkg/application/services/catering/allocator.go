// Package catering is the Catering Allocator (C5): a pure planning
// pass over a simulation's batches that either produces a complete,
// atomic placement for a multi-item order or fails with CannotFulfil.
// It never touches a SimulationState directly — it works off a copy of
// the active batches, grounded on the Schedule Planner's own
// read-plan-then-apply shape (pkg/application/services/schedule/planner.go),
// generalized here to "plan, and let the caller commit under its own
// lock" so the Writer (C3) remains the sole mutator of live state.
package catering

import (
	"sort"

	"github.com/google/uuid"

	"github.com/bakeline/production-core/pkg/domain/entities"
	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"
	"github.com/bakeline/production-core/pkg/domain/services/rackalloc"
	"github.com/bakeline/production-core/pkg/infrastructure/config"
)

// maxStaggerMinutes is the earliest a needed batch may be pulled back
// from its ideal start before the allocator gives up on that slot (spec
// §4.5 step 3: "stagger in 20-minute increments earlier, up to 120
// minutes").
const maxStaggerMinutes = 120

// minLeadMinutes is the minimum gap between currentTime and a
// requiredAvailableTime the allocator will even attempt (spec §4.5 step
// 1: "must be at least 120 minutes after currentTime").
const minLeadMinutes = 120

// relocation is an applied or proposed move: newRack/newStart are what
// the caller should write back into the live batch; the rest mirrors
// entities.MovedBatch, the rollback record persisted on the order.
type relocation struct {
	entities.MovedBatch
	NewRack  int
	NewStart entities.Minutes
}

// Plan is the result of a successful allocation: new batches to insert
// and existing scheduled batches to relocate, both to be applied
// atomically by the caller.
type Plan struct {
	CreatedBatches []*entities.Batch
	Relocations    []relocation
}

// Allocate runs the placement steps (validate, size, first pass, second
// pass, final check) of the policy from spec §4.5 over a read-only snapshot of
// state's batches. It returns CannotFulfil, unmodified, if no placement
// satisfies every item by requiredAvailableTime — callers must not
// apply a partial Plan.
func Allocate(
	state *entities.SimulationState,
	specs map[entities.ItemGUID]*entities.BakeSpec,
	cfg config.Config,
	items []entities.CateringItem,
	requiredAvailableTime entities.Minutes,
) (*Plan, *domainerrors.Error) {
	if len(items) == 0 {
		return nil, domainerrors.New(domainerrors.InvalidInput, "a catering order needs at least one item")
	}

	roundedTime := entities.RoundUpToGrid(requiredAvailableTime)
	if roundedTime < state.CurrentTime+minLeadMinutes {
		return nil, domainerrors.Newf(domainerrors.InvalidInput, "requiredAvailableTime %d must be at least %d minutes after currentTime %d", roundedTime, minLeadMinutes, state.CurrentTime)
	}

	for _, item := range items {
		spec, ok := specs[item.ItemGUID]
		if !ok || !spec.Active {
			return nil, domainerrors.Newf(domainerrors.NotFound, "no active spec for %s", item.ItemGUID)
		}
		if item.Quantity <= 0 {
			return nil, domainerrors.Newf(domainerrors.InvalidInput, "quantity for %s must be positive", item.ItemGUID)
		}
	}

	topo := rackalloc.Topology{
		RacksPerOven: cfg.OvenConfig.RacksPerOven,
		TotalRacks:   cfg.OvenConfig.TotalRacks(),
		End:          cfg.BusinessHours.EndMinutes,
	}

	trial := cloneActiveBatches(state)
	orderSlots := rackalloc.NewSlotMap()

	var created []*entities.Batch
	var relocations []relocation

	for _, item := range items {
		spec := specs[item.ItemGUID]
		requiredStart := roundedTime - spec.BakeTimeMinutes - spec.CoolTimeMinutes
		batchesNeeded := ceilDivQty(item.Quantity, spec.CapacityPerRack)

		for i := 0; i < batchesNeeded; i++ {
			rack, start, ok := firstPassPlace(trial, orderSlots, spec, topo, requiredStart)
			if !ok {
				var moved []relocation
				rack, start, moved, ok = secondPassPlace(trial, orderSlots, spec, topo, requiredStart)
				if !ok {
					return nil, domainerrors.Newf(domainerrors.CannotFulfil, "no placement for %s within the catering window", item.ItemGUID)
				}
				relocations = append(relocations, moved...)
			}

			b := &entities.Batch{
				BatchID:      entities.BatchID(uuid.NewString()),
				ItemGUID:     item.ItemGUID,
				Quantity:     spec.CapacityPerRack,
				BakeTime:     spec.BakeTimeMinutes,
				CoolTime:     spec.CoolTimeMinutes,
				Oven:         entities.OvenForRack(rack, topo.RacksPerOven),
				RackPosition: rack,
				StartTime:    start,
				Status:       entities.StatusScheduled,
				IsCatering:   true,
			}
			if b.AvailableTime() > roundedTime {
				return nil, domainerrors.Newf(domainerrors.CannotFulfil, "%s batch would be available at %d, after the required %d", item.ItemGUID, b.AvailableTime(), roundedTime)
			}
			orderSlots.Claim(rack, start)
			trial = append(trial, b)
			created = append(created, b)
		}
	}

	return &Plan{CreatedBatches: created, Relocations: relocations}, nil
}

// cloneActiveBatches copies every active batch by value (new pointers)
// so the allocator can simulate moves without touching live state.
func cloneActiveBatches(state *entities.SimulationState) []*entities.Batch {
	active := state.ActiveBatches()
	out := make([]*entities.Batch, len(active))
	for i, b := range active {
		cp := *b
		out[i] = &cp
	}
	return out
}

// staggerCandidates yields requiredStart, requiredStart-Grid, ... down
// to requiredStart-maxStaggerMinutes, the only direction spec §4.5 step
// 3 allows (later starts would miss requiredAvailableTime).
func staggerCandidates(requiredStart entities.Minutes) []entities.Minutes {
	var out []entities.Minutes
	for back := entities.Minutes(0); back <= maxStaggerMinutes; back += entities.Grid {
		out = append(out, requiredStart-back)
	}
	return out
}

// firstPassPlace tries every stagger candidate, lowest rack first, for
// a rack+slot free of both the order's own reservations and the trial
// batch list (spec §4.5 step 3).
func firstPassPlace(trial []*entities.Batch, orderSlots rackalloc.SlotMap, spec *entities.BakeSpec, topo rackalloc.Topology, requiredStart entities.Minutes) (rack int, start entities.Minutes, ok bool) {
	racks := rackalloc.EligibleRacks(spec.Oven, topo)
	for _, candidate := range staggerCandidates(requiredStart) {
		if candidate < 0 || candidate+spec.BakeTimeMinutes > topo.End {
			continue
		}
		for _, r := range racks {
			if slotFree(trial, orderSlots, r, candidate, spec.BakeTimeMinutes, "") {
				return r, candidate, true
			}
		}
	}
	return 0, 0, false
}

// slotFree reports whether rack is free at [start, start+bakeTime) given
// the order's own reservations and every placed trial batch, ignoring
// excludeID (the batch being relocated, if any).
func slotFree(trial []*entities.Batch, orderSlots rackalloc.SlotMap, rack int, start, bakeTime entities.Minutes, excludeID entities.BatchID) bool {
	if orderSlots.Has(rack, start) {
		return false
	}
	candidate := &entities.Batch{RackPosition: rack, StartTime: start, BakeTime: bakeTime}
	for _, b := range trial {
		if b.BatchID == excludeID || !b.IsPlaced() || b.RackPosition != rack {
			continue
		}
		if candidate.Overlaps(b) {
			return false
		}
	}
	return true
}

// conflictingScheduledBatch finds a Scheduled batch occupying rack at
// [start, start+bakeTime), if any — the only status movable by spec
// §4.5 step 4 (baking/pulling/available batches are never relocated).
func conflictingScheduledBatch(trial []*entities.Batch, rack int, start, bakeTime entities.Minutes) *entities.Batch {
	candidate := &entities.Batch{RackPosition: rack, StartTime: start, BakeTime: bakeTime}
	for _, b := range trial {
		if !b.IsPlaced() || b.RackPosition != rack || b.Status != entities.StatusScheduled {
			continue
		}
		if candidate.Overlaps(b) {
			return b
		}
	}
	return nil
}

// secondPassPlace implements spec §4.5 step 4: find a scheduled batch
// blocking every stagger candidate, relocate it to the nearest free slot
// (+20,-20,+40,-40,... bounded by business hours, honoring its own oven
// affinity), then place the catering batch in the freed slot.
func secondPassPlace(trial []*entities.Batch, orderSlots rackalloc.SlotMap, spec *entities.BakeSpec, topo rackalloc.Topology, requiredStart entities.Minutes) (rack int, start entities.Minutes, relocations []relocation, ok bool) {
	racks := rackalloc.EligibleRacks(spec.Oven, topo)

	var blockers []*entities.Batch
	blockerSlot := map[entities.BatchID][2]entities.Minutes{} // batchID -> [rack, candidate]
	for _, candidate := range staggerCandidates(requiredStart) {
		if candidate < 0 || candidate+spec.BakeTimeMinutes > topo.End {
			continue
		}
		for _, r := range racks {
			if orderSlots.Has(r, candidate) {
				continue
			}
			if blocker := conflictingScheduledBatch(trial, r, candidate, spec.BakeTimeMinutes); blocker != nil {
				blockers = append(blockers, blocker)
				blockerSlot[blocker.BatchID] = [2]entities.Minutes{entities.Minutes(r), candidate}
			}
		}
	}
	sort.Slice(blockers, func(i, j int) bool { return blockers[i].StartTime > blockers[j].StartTime })

	for _, blocker := range blockers {
		slot := blockerSlot[blocker.BatchID]
		targetRack, targetStart := int(slot[0]), slot[1]

		newRack, newStart, moved := relocateOutward(trial, orderSlots, blocker, topo)
		if !moved {
			continue
		}

		oldRack, oldStart := blocker.RackPosition, blocker.StartTime
		blocker.RackPosition = newRack
		blocker.StartTime = newStart
		blocker.Oven = entities.OvenForRack(newRack, topo.RacksPerOven)

		if !slotFree(trial, orderSlots, targetRack, targetStart, spec.BakeTimeMinutes, "") {
			blocker.RackPosition, blocker.StartTime = oldRack, oldStart
			continue
		}

		return targetRack, targetStart, []relocation{{
			MovedBatch: entities.MovedBatch{BatchID: blocker.BatchID, OldRack: oldRack, OldStartTime: oldStart},
			NewRack:    newRack,
			NewStart:   newStart,
		}}, true
	}

	return 0, 0, nil, false
}

// relocateOutward searches +20,-20,+40,-40,... minutes from a blocker's
// own start for a free rack+slot respecting its oven affinity, bounded
// by business hours (spec §4.5 step 4).
func relocateOutward(trial []*entities.Batch, orderSlots rackalloc.SlotMap, blocker *entities.Batch, topo rackalloc.Topology) (rack int, start entities.Minutes, ok bool) {
	spec := &entities.BakeSpec{Oven: ovenOf(blocker, topo)}
	racks := rackalloc.EligibleRacks(spec.Oven, topo)

	for offset := entities.Grid; offset <= topo.End; offset += entities.Grid {
		for _, sign := range []entities.Minutes{1, -1} {
			candidate := blocker.StartTime + sign*offset
			if candidate < 0 || candidate+blocker.BakeTime > topo.End {
				continue
			}
			for _, r := range racks {
				if slotFree(trial, orderSlots, r, candidate, blocker.BakeTime, blocker.BatchID) {
					return r, candidate, true
				}
			}
		}
	}
	return 0, 0, false
}

// ovenOf reports the oven a blocker must stay within: its own current
// oven if it was resolved to a specific one, or OvenAny if it was never
// oven-constrained (Oven is always resolved once placed in this domain,
// so this simply forwards it).
func ovenOf(blocker *entities.Batch, topo rackalloc.Topology) entities.Oven {
	return entities.OvenForRack(blocker.RackPosition, topo.RacksPerOven)
}

// ceilDivQty mirrors the Schedule Planner's batch-count rounding: the
// smallest integer n such that n*capacityPerRack >= quantity.
func ceilDivQty(quantity, capacityPerRack entities.Quantity) int {
	if capacityPerRack <= 0 || quantity <= 0 {
		return 0
	}
	n := int(quantity / capacityPerRack)
	if quantity%capacityPerRack != 0 {
		n++
	}
	return n
}
