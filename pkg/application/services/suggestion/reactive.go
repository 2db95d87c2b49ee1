package suggestion

import (
	"math"

	"github.com/bakeline/production-core/pkg/domain/entities"
	"github.com/bakeline/production-core/pkg/infrastructure/config"
	"github.com/bakeline/production-core/pkg/infrastructure/events"
)

// Reactive proposes restock batches from a trailing window of actual
// consumption, independent of any forecast (spec §4.4 reactive
// algorithm) — it is the fallback signal for items with no intraday
// curve, or whose curve has already diverged from reality.
type Reactive struct{}

func (Reactive) Name() string { return "reactive" }

func (Reactive) Propose(state *entities.SimulationState, specs map[entities.ItemGUID]*entities.BakeSpec, cfg config.Config) []Proposal {
	window := cfg.Suggestion.ReactiveWindowMinutes
	windowStart := state.CurrentTime - window
	windowMinutes := float64(window)
	if windowMinutes < 1 {
		windowMinutes = 1
	}

	observed := observedUnitsByItem(state, windowStart, state.CurrentTime)

	var proposals []Proposal
	for item, spec := range specs {
		if !spec.Active {
			continue
		}
		observedUnits := observed[item]
		if observedUnits < cfg.Suggestion.ReactiveMinObservedUnits {
			continue
		}

		consumptionRate := float64(observedUnits) / windowMinutes
		if consumptionRate < cfg.Suggestion.ReactiveMinConsumptionRate {
			continue
		}

		currentInventory := currentInventoryCount(state, item)

		minutesUntilShortage := (float64(currentInventory) + float64(supplyAvailableWithin(state, item, state.CurrentTime, cfg.Suggestion.ReactiveDepletionThresholdMins))) / consumptionRate
		if minutesUntilShortage > float64(cfg.Suggestion.ReactiveDepletionThresholdMins) {
			continue
		}

		projectedInventory := currentInventory + supplyAvailableWithin(state, item, state.CurrentTime, cfg.Suggestion.ReactiveTargetBufferMinutes)
		targetInventory := consumptionRate * float64(cfg.Suggestion.ReactiveTargetBufferMinutes)
		shortfall := targetInventory - float64(projectedInventory)
		if shortfall < 0 {
			shortfall = 0
		}
		if shortfall < float64(spec.CapacityPerRack)*0.5 {
			continue
		}

		startTime := state.CurrentTime + 10
		if startTime < cfg.BusinessHours.StartMinutes {
			startTime = cfg.BusinessHours.StartMinutes
		}
		startTime = entities.RoundUpToGrid(startTime)
		if startTime+spec.BakeTimeMinutes+spec.CoolTimeMinutes > cfg.BusinessHours.EndMinutes {
			continue
		}

		confidencePercent := int(math.Min(1.0, float64(observedUnits)/float64(cfg.Suggestion.ReactiveConfidenceTargetUnits)) * 100)

		batchCount := ceilDivQty(entities.Quantity(shortfall), spec.CapacityPerRack)
		for i := 0; i < batchCount; i++ {
			proposals = append(proposals, Proposal{
				ItemGUID:  item,
				Quantity:  spec.CapacityPerRack,
				StartTime: startTime,
				Reason: Reason{
					Algorithm:         "reactive",
					ConfidencePercent: confidencePercent,
					Shortfall:         entities.Quantity(shortfall),
				},
			})
		}
	}
	return proposals
}

// observedUnitsByItem sums processed-order event quantities whose
// timestamp falls in (windowStart, currentTime], per item. Reactive has
// no running aggregate like ProcessedOrdersByItem (that's cumulative for
// the whole day), so it scans the event log's purchase/order-processed
// entries for the window.
func observedUnitsByItem(state *entities.SimulationState, windowStart, currentTime entities.Minutes) map[entities.ItemGUID]entities.Quantity {
	out := make(map[entities.ItemGUID]entities.Quantity)
	for _, ev := range state.Events {
		if ev.TimestampMins <= windowStart || ev.TimestampMins > currentTime {
			continue
		}
		switch ev.Kind {
		case events.KindPurchase:
			if data, ok := ev.Data.(events.PurchaseData); ok {
				out[data.ItemGUID] += data.Quantity
			}
		case events.KindOrderProcessed:
			if data, ok := ev.Data.(events.OrderProcessedData); ok {
				out[data.ItemGUID] += data.Quantity
			}
		}
	}
	return out
}

var _ Suggester = Reactive{}
