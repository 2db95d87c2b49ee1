package entities

import "sort"

// InventoryUnit is one unit-level record in an item's FIFO inventory list.
type InventoryUnit struct {
	AvailableAt Minutes
	BatchID     BatchID
}

// InventoryList is an item's FIFO-ordered inventory: ascending by
// AvailableAt, oldest first. It is a plain slice (not a queue/ring buffer)
// because per-item counts in this domain stay small enough that linear
// scan and sort.Slice are the right tool.
type InventoryList []InventoryUnit

// AddN appends n units that all became available at the same instant from
// the same batch, and restores ascending order.
func (l InventoryList) AddN(availableAt Minutes, batchID BatchID, n Quantity) InventoryList {
	for i := Quantity(0); i < n; i++ {
		l = append(l, InventoryUnit{AvailableAt: availableAt, BatchID: batchID})
	}
	sort.Slice(l, func(i, j int) bool {
		return l[i].AvailableAt < l[j].AvailableAt
	})
	return l
}

// RemoveOldest removes the n oldest units (FIFO) and returns the
// remainder. The caller must have already checked len(l) >= n.
func (l InventoryList) RemoveOldest(n Quantity) InventoryList {
	if int(n) >= len(l) {
		return l[:0]
	}
	return l[n:]
}

// Count is the number of units currently on hand for the item.
func (l InventoryList) Count() Quantity {
	return Quantity(len(l))
}

// IsSortedAscending reports whether the list is in FIFO order (invariant
// 6, checked by tests).
func (l InventoryList) IsSortedAscending() bool {
	for i := 1; i < len(l); i++ {
		if l[i-1].AvailableAt > l[i].AvailableAt {
			return false
		}
	}
	return true
}
