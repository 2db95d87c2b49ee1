package commands

import (
	"context"

	"github.com/bakeline/production-core/pkg/domain/entities"
	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"
	"github.com/bakeline/production-core/pkg/infrastructure/transport"
)

// PurchaseItem is one line of a simulation.pos.purchase request.
type PurchaseItem struct {
	ItemGUID entities.ItemGUID
	Quantity entities.Quantity
}

// PurchaseResult is simulation.pos.purchase's result (spec §6: "Purchase
// result + inventory"). Failed is populated for items that could not be
// purchased (e.g. insufficient stock); every other line, before or after
// a failed one, has already been deducted.
type PurchaseResult struct {
	Inventory transport.InventoryFrame
	Failed    map[entities.ItemGUID]*domainerrors.Error
}

// Purchase implements simulation.pos.purchase (spec §6): each line is
// applied independently against the Simulation Engine's Purchase
// operation, so one item's failure never blocks the rest of the order.
func (c *Commands) Purchase(ctx context.Context, id entities.SimulationID, items []PurchaseItem) (PurchaseResult, *domainerrors.Error) {
	w, err := c.writerFor(id)
	if err != nil {
		return PurchaseResult{}, err
	}

	var failed map[entities.ItemGUID]*domainerrors.Error
	for _, item := range items {
		if purchaseErr := w.Purchase(ctx, item.ItemGUID, item.Quantity); purchaseErr != nil {
			if failed == nil {
				failed = make(map[entities.ItemGUID]*domainerrors.Error)
			}
			failed[item.ItemGUID] = purchaseErr
		}
	}
	return PurchaseResult{Inventory: w.InventoryFrame(), Failed: failed}, nil
}
