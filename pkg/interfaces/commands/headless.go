package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/bakeline/production-core/pkg/application/services/suggestion"
	"github.com/bakeline/production-core/pkg/domain/entities"
	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"
	"github.com/bakeline/production-core/pkg/infrastructure/transport"
)

// HeadlessIntervalReport is one tick of a headless.run walk: the
// proposals the chosen algorithm made and, when autoAdd accepted any,
// the batches it placed.
type HeadlessIntervalReport struct {
	Time      entities.Minutes
	Proposals []suggestion.Proposal
	Added     []entities.BatchID
}

// HeadlessReport is headless.run's result (spec §6: "Condensed or full
// report"). Intervals is only populated when full is requested;
// Condensed always carries the running totals.
type HeadlessReport struct {
	SimulationID entities.SimulationID
	Intervals    []HeadlessIntervalReport
	Condensed    HeadlessSummary
	Final        transport.Snapshot
}

// HeadlessSummary is the condensed-mode tally: how many proposals met
// minConfidence across the run and how many were actually added.
type HeadlessSummary struct {
	TotalProposals int
	TotalAdded     int
}

// RunHeadless implements headless.run (spec §6): starts a new simulation
// for date, then walks business hours in intervalMinutes steps, asking
// the named suggestion algorithm for proposals at each interval and,
// when autoAdd is set, placing up to maxPerInterval of the proposals
// meeting minConfidence via addBatch.
func (c *Commands) RunHeadless(
	ctx context.Context,
	date string,
	mode entities.SimMode,
	algorithm string,
	intervalMinutes entities.Minutes,
	autoAdd bool,
	maxPerInterval int,
	minConfidence int,
	full bool,
) (*HeadlessReport, *domainerrors.Error) {
	suggester, ok := c.suggesters[algorithm]
	if !ok {
		return nil, domainerrors.Newf(domainerrors.InvalidInput, "unknown suggestion algorithm %q", algorithm)
	}
	if intervalMinutes <= 0 {
		return nil, domainerrors.New(domainerrors.InvalidInput, "intervalMinutes must be positive")
	}

	id := entities.SimulationID(uuid.NewString())
	w, err := c.engine.StartSimulation(ctx, id, date, mode, 1.0, false, nil)
	if err != nil {
		return nil, err
	}

	report := &HeadlessReport{SimulationID: id}
	for t := c.cfg.BusinessHours.StartMinutes; t <= c.cfg.BusinessHours.EndMinutes; t += intervalMinutes {
		w.AdvanceTo(ctx, t)

		proposals := w.Suggest(suggester)
		accepted := make([]suggestion.Proposal, 0, len(proposals))
		for _, p := range proposals {
			if p.Reason.ConfidencePercent >= minConfidence {
				accepted = append(accepted, p)
			}
		}

		var added []entities.BatchID
		if autoAdd {
			limit := len(accepted)
			if maxPerInterval > 0 && maxPerInterval < limit {
				limit = maxPerInterval
			}
			for _, p := range accepted[:limit] {
				b, addErr := w.AddBatch(ctx, p.ItemGUID, p.StartTime)
				if addErr != nil {
					continue
				}
				added = append(added, b.BatchID)
			}
		}

		report.Condensed.TotalProposals += len(accepted)
		report.Condensed.TotalAdded += len(added)
		if full {
			report.Intervals = append(report.Intervals, HeadlessIntervalReport{
				Time:      t,
				Proposals: accepted,
				Added:     added,
			})
		}
	}

	report.Final = w.Snapshot()
	return report, nil
}
