package commands

import (
	"context"

	"github.com/bakeline/production-core/pkg/domain/entities"
	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"
	"github.com/bakeline/production-core/pkg/infrastructure/transport"
)

// AddBatch implements simulation.batch.add (spec §6). The result is the
// refreshed snapshot (updated batches + recent events), matching the
// broadcast shape a subscriber would already see on the next tick.
func (c *Commands) AddBatch(ctx context.Context, id entities.SimulationID, item entities.ItemGUID, desiredStart entities.Minutes) (transport.Snapshot, *domainerrors.Error) {
	w, err := c.writerFor(id)
	if err != nil {
		return transport.Snapshot{}, err
	}
	if _, addErr := w.AddBatch(ctx, item, desiredStart); addErr != nil {
		return transport.Snapshot{}, addErr
	}
	return w.Snapshot(), nil
}

// MoveBatch implements simulation.batch.move (spec §6).
func (c *Commands) MoveBatch(ctx context.Context, id entities.SimulationID, batchID entities.BatchID, newStart entities.Minutes, newRack int) (transport.Snapshot, *domainerrors.Error) {
	w, err := c.writerFor(id)
	if err != nil {
		return transport.Snapshot{}, err
	}
	if moveErr := w.MoveBatch(ctx, batchID, newStart, newRack); moveErr != nil {
		return transport.Snapshot{}, moveErr
	}
	return w.Snapshot(), nil
}

// DeleteBatch implements simulation.batch.delete (spec §6).
func (c *Commands) DeleteBatch(ctx context.Context, id entities.SimulationID, batchID entities.BatchID) (transport.Snapshot, *domainerrors.Error) {
	w, err := c.writerFor(id)
	if err != nil {
		return transport.Snapshot{}, err
	}
	if delErr := w.DeleteBatch(ctx, batchID); delErr != nil {
		return transport.Snapshot{}, delErr
	}
	return w.Snapshot(), nil
}
