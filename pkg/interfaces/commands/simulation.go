package commands

import (
	"context"

	"github.com/bakeline/production-core/pkg/application/services/simulation"
	"github.com/bakeline/production-core/pkg/domain/entities"
	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"
	"github.com/bakeline/production-core/pkg/infrastructure/transport"
)

// StartSimulation implements simulation.start (spec §6).
func (c *Commands) StartSimulation(
	ctx context.Context,
	id entities.SimulationID,
	date string,
	mode entities.SimMode,
	speedMultiplier float64,
	autoApproveCatering bool,
	presetOrders []entities.PresetOrder,
) (transport.Snapshot, *domainerrors.Error) {
	w, err := c.engine.StartSimulation(ctx, id, date, mode, speedMultiplier, autoApproveCatering, presetOrders)
	if err != nil {
		return transport.Snapshot{}, err
	}
	return w.Snapshot(), nil
}

// SimulationStatus implements simulation.status (spec §6).
func (c *Commands) SimulationStatus(ctx context.Context, id entities.SimulationID) (transport.Snapshot, *domainerrors.Error) {
	w, err := c.writerFor(id)
	if err != nil {
		return transport.Snapshot{}, err
	}
	w.AdvanceToNow(ctx)
	return w.Snapshot(), nil
}

// PauseSimulation implements simulation.pause (spec §6).
func (c *Commands) PauseSimulation(ctx context.Context, id entities.SimulationID) (transport.Snapshot, *domainerrors.Error) {
	w, err := c.writerFor(id)
	if err != nil {
		return transport.Snapshot{}, err
	}
	if pauseErr := w.Pause(); pauseErr != nil {
		return transport.Snapshot{}, pauseErr
	}
	return w.Snapshot(), nil
}

// ResumeSimulation implements simulation.resume (spec §6).
func (c *Commands) ResumeSimulation(ctx context.Context, id entities.SimulationID) (transport.Snapshot, *domainerrors.Error) {
	w, err := c.writerFor(id)
	if err != nil {
		return transport.Snapshot{}, err
	}
	if resumeErr := w.Resume(); resumeErr != nil {
		return transport.Snapshot{}, resumeErr
	}
	return w.Snapshot(), nil
}

// StopSimulation implements simulation.stop (spec §6).
func (c *Commands) StopSimulation(ctx context.Context, id entities.SimulationID) (transport.Snapshot, *domainerrors.Error) {
	w, err := c.writerFor(id)
	if err != nil {
		return transport.Snapshot{}, err
	}
	if stopErr := w.Stop(); stopErr != nil {
		return transport.Snapshot{}, stopErr
	}
	return w.Snapshot(), nil
}

func (c *Commands) writerFor(id entities.SimulationID) (*simulation.Writer, *domainerrors.Error) {
	w, ok := c.engine.GetSimulation(id)
	if !ok {
		return nil, domainerrors.Newf(domainerrors.NotFound, "simulation %s not found", id)
	}
	return w, nil
}
