package commands

import (
	"context"

	"github.com/bakeline/production-core/pkg/domain/entities"
	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"
)

// CreateCateringOrder implements simulation.catering.create (spec §6).
func (c *Commands) CreateCateringOrder(
	ctx context.Context,
	id entities.SimulationID,
	items []entities.CateringItem,
	requiredAvailableTime entities.Minutes,
	autoApprove bool,
) (*entities.CateringOrder, *domainerrors.Error) {
	w, err := c.writerFor(id)
	if err != nil {
		return nil, err
	}
	return w.CreateCateringOrder(ctx, items, requiredAvailableTime, autoApprove)
}

// ApproveCateringOrder implements simulation.catering.approve (spec §6).
func (c *Commands) ApproveCateringOrder(ctx context.Context, id entities.SimulationID, orderID entities.CateringOrderID) *domainerrors.Error {
	w, err := c.writerFor(id)
	if err != nil {
		return err
	}
	return w.ApproveCateringOrder(ctx, orderID)
}

// RejectCateringOrder implements simulation.catering.reject (spec §6).
func (c *Commands) RejectCateringOrder(ctx context.Context, id entities.SimulationID, orderID entities.CateringOrderID) *domainerrors.Error {
	w, err := c.writerFor(id)
	if err != nil {
		return err
	}
	return w.RejectCateringOrder(ctx, orderID)
}

// SetCateringAutoApprove implements simulation.catering.autoApprove (spec
// §6): an acknowledgement-only toggle for future orders.
func (c *Commands) SetCateringAutoApprove(id entities.SimulationID, enabled bool) *domainerrors.Error {
	w, err := c.writerFor(id)
	if err != nil {
		return err
	}
	w.SetAutoApproveCatering(enabled)
	return nil
}
