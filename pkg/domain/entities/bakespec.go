package entities

import "fmt"

// ItemGUID uniquely identifies a bakery item across specs, batches,
// inventory, and orders. Equality of items is always by ItemGUID;
// DisplayName is descriptive only (see spec Open Question in §9).
type ItemGUID string

// BakeSpec is the immutable-for-the-duration-of-a-simulation recipe for one
// item, supplied by the (external) SpecStore.
type BakeSpec struct {
	ItemGUID           ItemGUID
	DisplayName        string
	CapacityPerRack    Quantity
	BakeTimeMinutes    Minutes
	CoolTimeMinutes    Minutes
	Oven               Oven
	FreshWindowMinutes Minutes
	RestockThreshold   Quantity
	ParMin             Quantity
	ParMax             *Quantity // nil = unset
	Active             bool
}

// Validate checks the fields the Schedule Planner requires to be present
// and positive before it will derive a batch count from this spec (spec
// §4.2 step 1: InvalidBakeSpec on any of these being missing/non-positive).
func (s *BakeSpec) Validate() error {
	if s.CapacityPerRack <= 0 {
		return fmt.Errorf("capacityPerRack must be positive, got %d", s.CapacityPerRack)
	}
	if s.BakeTimeMinutes <= 0 {
		return fmt.Errorf("bakeTimeMinutes must be positive, got %d", s.BakeTimeMinutes)
	}
	if s.CoolTimeMinutes < 0 {
		return fmt.Errorf("coolTimeMinutes must be non-negative, got %d", s.CoolTimeMinutes)
	}
	return nil
}

// HasParMax reports whether ParMax is set.
func (s *BakeSpec) HasParMax() bool {
	return s.ParMax != nil
}
