package rackalloc

import (
	"github.com/bakeline/production-core/pkg/domain/entities"
	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"
)

// Topology is the fixed oven/rack shape the allocator reasons about,
// named separately from infrastructure/config so this package has no
// dependency on the config loader.
type Topology struct {
	RacksPerOven int
	TotalRacks   int
	End          entities.Minutes
}

// EligibleRacks returns the racks a spec may use, lowest first: every
// rack when the spec's oven is OvenAny, otherwise only the racks of its
// fixed oven.
func EligibleRacks(oven entities.Oven, topo Topology) []int {
	racks := make([]int, 0, topo.TotalRacks)
	for rack := 1; rack <= topo.TotalRacks; rack++ {
		if oven == entities.OvenAny || entities.OvenForRack(rack, topo.RacksPerOven) == oven {
			racks = append(racks, rack)
		}
	}
	return racks
}

// latestEndOnRack returns the end time of the latest batch occupying
// rack, or -1 if the rack is empty (free from any time).
func latestEndOnRack(batches []*entities.Batch, rack int) entities.Minutes {
	latest := entities.Minutes(-1)
	found := false
	for _, b := range batches {
		if !b.IsPlaced() || b.RackPosition != rack {
			continue
		}
		if end := b.EndTime(); !found || end > latest {
			latest = end
			found = true
		}
	}
	if !found {
		return entities.Minutes(-1)
	}
	return latest
}

// conflictsOnRack reports whether placing a batch of bakeTime minutes
// starting at start on rack would overlap any existing batch on that
// rack, honoring the SlotMap's already-claimed slots from this pass.
func conflictsOnRack(batches []*entities.Batch, slots SlotMap, rack int, start, bakeTime entities.Minutes) bool {
	if slots.Has(rack, start) {
		return true
	}
	candidate := &entities.Batch{RackPosition: rack, StartTime: start, BakeTime: bakeTime}
	for _, b := range batches {
		if !b.IsPlaced() || b.RackPosition != rack {
			continue
		}
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

// FindSlotAt rounds desiredStart up to the grid and tries each eligible
// rack, lowest first, advancing the candidate start in Grid-minute steps
// up to maxAdvances times when every rack is busy at the current slot
// (spec §4.1).
func FindSlotAt(batches []*entities.Batch, spec *entities.BakeSpec, desiredStart entities.Minutes, topo Topology, slots SlotMap, maxAdvances int) (rack int, start entities.Minutes, err *domainerrors.Error) {
	racks := EligibleRacks(spec.Oven, topo)
	if len(racks) == 0 {
		return 0, 0, domainerrors.Newf(domainerrors.OvenMismatch, "no racks eligible for oven %s", spec.Oven)
	}

	candidate := entities.RoundUpToGrid(desiredStart)
	for advance := 0; advance <= maxAdvances; advance++ {
		if candidate+spec.BakeTimeMinutes > topo.End {
			break
		}
		for _, rack := range racks {
			latestEnd := latestEndOnRack(batches, rack)
			if latestEnd > candidate {
				continue
			}
			if conflictsOnRack(batches, slots, rack, candidate, spec.BakeTimeMinutes) {
				continue
			}
			return rack, candidate, nil
		}
		candidate += entities.Grid
	}
	return 0, 0, domainerrors.Newf(domainerrors.NoSlotBeforeClose, "no slot for %s at or after %d within %d grid advances", spec.ItemGUID, desiredStart, maxAdvances)
}

// FindEarliestSlot computes, for each eligible rack, the earliest instant
// it is free at or after notBefore (its latest occupying batch's end time,
// or notBefore if idle), rounds that up to the grid, and returns the rack
// with the smallest such instant, lowest rack number breaking ties
// (spec §4.1).
func FindEarliestSlot(batches []*entities.Batch, spec *entities.BakeSpec, notBefore entities.Minutes, topo Topology, slots SlotMap) (rack int, start entities.Minutes, err *domainerrors.Error) {
	racks := EligibleRacks(spec.Oven, topo)
	if len(racks) == 0 {
		return 0, 0, domainerrors.Newf(domainerrors.OvenMismatch, "no racks eligible for oven %s", spec.Oven)
	}

	bestRack := 0
	bestStart := entities.Minutes(0)
	found := false

	for _, r := range racks {
		freeAt := latestEndOnRack(batches, r)
		if freeAt < notBefore {
			freeAt = notBefore
		}
		candidate := entities.RoundUpToGrid(freeAt)
		for slots.Has(r, candidate) || conflictsOnRack(batches, slots, r, candidate, spec.BakeTimeMinutes) {
			candidate += entities.Grid
		}
		if candidate+spec.BakeTimeMinutes > topo.End {
			continue
		}
		if !found || candidate < bestStart || (candidate == bestStart && r < bestRack) {
			bestRack, bestStart, found = r, candidate, true
		}
	}

	if !found {
		return 0, 0, domainerrors.Newf(domainerrors.NoSlotBeforeClose, "no slot before close for %s", spec.ItemGUID)
	}
	return bestRack, bestStart, nil
}

// Conflicts reports whether two batches on the same rack have overlapping
// [startTime, endTime) intervals (spec §4.1). Batches on different racks
// never conflict by this definition.
func Conflicts(a, b *entities.Batch) bool {
	if a.RackPosition != b.RackPosition {
		return false
	}
	return a.Overlaps(b)
}
