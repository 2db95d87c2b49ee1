package suggestion

import (
	"math"

	"github.com/bakeline/production-core/pkg/domain/entities"
	"github.com/bakeline/production-core/pkg/infrastructure/config"
)

// Predictive proposes restock batches by comparing the intraday forecast
// curve against what has actually been consumed so far today (spec §4.4
// predictive algorithm).
type Predictive struct{}

func (Predictive) Name() string { return "predictive" }

func (Predictive) Propose(state *entities.SimulationState, specs map[entities.ItemGUID]*entities.BakeSpec, cfg config.Config) []Proposal {
	var proposals []Proposal
	for item, intervals := range state.IntradayForecast {
		spec, ok := specs[item]
		if !ok || !spec.Active {
			continue
		}

		var expected, remainingExpected entities.Quantity
		for _, iv := range intervals {
			if iv.TimeInterval <= state.CurrentTime {
				expected += iv.Forecast
			} else {
				remainingExpected += iv.Forecast
			}
		}

		var actual entities.Quantity
		if agg, ok := state.ProcessedOrdersByItem[item]; ok {
			actual = agg.TotalQuantity
		}

		var consumptionRatio float64
		switch {
		case expected > 0:
			consumptionRatio = float64(actual) / float64(expected)
		case actual > 0:
			consumptionRatio = 1.5
		default:
			consumptionRatio = 1.0
		}

		projectedRemainingDemand := float64(remainingExpected) * math.Max(1.0, consumptionRatio)

		futureInventory := currentInventoryCount(state, item) + notYetAvailableQuantity(state, item)

		shortfall := projectedRemainingDemand - float64(futureInventory)
		if shortfall < 0 {
			shortfall = 0
		}
		if par, ok := state.ParConfig[item]; ok && par.ParMax != nil && futureInventory < *par.ParMax {
			parHeadroom := float64(*par.ParMax - futureInventory)
			if shortfall > parHeadroom {
				shortfall = parHeadroom
			}
		}

		confidencePercent := int(math.Min(1.0, float64(expected)/float64(cfg.Suggestion.ConfidenceTargetUnits)) * 100)

		if shortfall <= 5 || confidencePercent < 50 {
			continue
		}

		var minutesUntilShortfall entities.Minutes
		if remainingExpected > 0 && consumptionRatio > 0 {
			denom := consumptionRatio * consumptionRatio
			if denom < 0.01 {
				denom = 0.01
			}
			m := float64(remainingExpected) / denom / 10.0
			if m < float64(cfg.Suggestion.PredictiveMinMinutesUntilShortfall) {
				m = float64(cfg.Suggestion.PredictiveMinMinutesUntilShortfall)
			}
			if m > float64(cfg.Suggestion.PredictiveMaxMinutesUntilShortfall) {
				m = float64(cfg.Suggestion.PredictiveMaxMinutesUntilShortfall)
			}
			minutesUntilShortfall = entities.Minutes(m)
		} else {
			minutesUntilShortfall = 120
		}

		targetAvailableTime := state.CurrentTime + minutesUntilShortfall
		earliestStart := state.CurrentTime + 20
		targetStart := targetAvailableTime - spec.BakeTimeMinutes - spec.CoolTimeMinutes
		if targetStart < earliestStart {
			targetStart = earliestStart
		}
		startTime := entities.RoundUpToGrid(targetStart)

		availableTime := startTime + spec.BakeTimeMinutes + spec.CoolTimeMinutes
		if availableTime > cfg.BusinessHours.EndMinutes-60 {
			continue
		}

		batchCount := ceilDivQty(entities.Quantity(shortfall), spec.CapacityPerRack)
		for i := 0; i < batchCount; i++ {
			proposals = append(proposals, Proposal{
				ItemGUID:  item,
				Quantity:  spec.CapacityPerRack,
				StartTime: startTime,
				Reason: Reason{
					Algorithm:         "predictive",
					ConfidencePercent: confidencePercent,
					Shortfall:         entities.Quantity(shortfall),
				},
			})
		}
	}
	return proposals
}

var _ Suggester = Predictive{}
