// Package rackalloc is the Rack Allocator (C2): a pure placement
// primitive shared by the Schedule Planner, the Simulation Engine's
// addBatch, and the Catering Allocator.
package rackalloc

import (
	"fmt"

	"github.com/bakeline/production-core/pkg/domain/entities"
)

// SlotMap tracks (rack, slot) pairs already claimed during a single
// planning or catering pass, keyed by "rack:slot".
type SlotMap map[string]bool

// NewSlotMap creates an empty SlotMap.
func NewSlotMap() SlotMap {
	return make(SlotMap)
}

// Claim records that rack is occupied at slot.
func (m SlotMap) Claim(rack int, slot entities.Minutes) {
	m[key(rack, slot)] = true
}

// Has reports whether rack is already claimed at slot.
func (m SlotMap) Has(rack int, slot entities.Minutes) bool {
	return m[key(rack, slot)]
}

func key(rack int, slot entities.Minutes) string {
	return fmt.Sprintf("%d:%d", rack, slot)
}
