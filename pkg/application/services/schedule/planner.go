// Package schedule is the Schedule Planner (C1): turns a daily forecast
// and the active bake specs into a set of batches assigned to rack/time
// slots, respecting PAR inventory bounds. A multi-pass pipeline over
// typed intermediates, each pass a method on the Planner, with the
// final step persisting via ScheduleStore.
package schedule

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bakeline/production-core/pkg/domain/entities"
	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"
	"github.com/bakeline/production-core/pkg/domain/repositories"
	"github.com/bakeline/production-core/pkg/domain/services/rackalloc"
	"github.com/bakeline/production-core/pkg/infrastructure/config"
)

// Planner is the C1 Schedule Planner. It holds no state across calls to
// Generate; the topology and grid come from config so the same Planner
// value can be reused across dates.
type Planner struct {
	topology    rackalloc.Topology
	start       entities.Minutes
	maxAdvances int
}

// NewPlanner builds a Planner from the shared config.
func NewPlanner(cfg config.Config) *Planner {
	return &Planner{
		topology: rackalloc.Topology{
			RacksPerOven: cfg.OvenConfig.RacksPerOven,
			TotalRacks:   cfg.OvenConfig.TotalRacks(),
			End:          cfg.BusinessHours.EndMinutes,
		},
		start:       cfg.BusinessHours.StartMinutes,
		maxAdvances: cfg.FindSlotMaxAdvances,
	}
}

// pendingBatch is an item's batch still awaiting placement by the
// sequential fallback (step 3 has no per-item target, only the
// ascending-bakeTime/descending-quantity ordering rule).
type pendingBatch struct {
	item     entities.ItemGUID
	spec     *entities.BakeSpec
	quantity entities.Quantity
}

// Generate runs the full C1 pipeline for one date: load active specs and
// the day's forecasts, derive per-item batch counts, place them via the
// Rack Allocator (PAR-aware when an intraday curve exists, sequential
// fallback otherwise), and persist the resulting Schedule by date.
func (p *Planner) Generate(
	ctx context.Context,
	date string,
	specStore repositories.SpecStore,
	forecastSvc repositories.ForecastSvc,
	scheduleStore repositories.ScheduleStore,
) (*entities.Schedule, *domainerrors.Error) {
	specs, err := specStore.GetActiveSpecs(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.StoreIOError, "loading active bake specs", err)
	}

	dailyForecast, err := forecastSvc.DailyForecast(ctx, date)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.StoreIOError, "loading daily forecast", err)
	}

	intradayForecast, err := forecastSvc.IntradayForecast(ctx, date)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.StoreIOError, "loading intraday forecast", err)
	}

	schedule := &entities.Schedule{
		ID:               date,
		Date:             date,
		DailyForecast:    dailyForecast,
		IntradayForecast: intradayForecast,
		ParConfig:        make(map[entities.ItemGUID]entities.ParConfig),
		Parameters:       make(map[string]interface{}),
		UnplacedItems:    make(map[entities.ItemGUID]int),
	}

	slots := rackalloc.NewSlotMap()
	var placed []*entities.Batch
	var fallback []pendingBatch
	var rejected []entities.ItemGUID

	for _, spec := range specs {
		forecast := dailyForecast[spec.ItemGUID]
		schedule.ParConfig[spec.ItemGUID] = entities.ParConfig{ParMin: spec.ParMin, ParMax: spec.ParMax}

		batchCount, derivErr := batchCountForItem(spec, forecast)
		if derivErr != nil {
			rejected = append(rejected, spec.ItemGUID)
			continue
		}

		intraday, hasIntraday := intradayForecast[spec.ItemGUID]
		if hasIntraday && len(intraday) > 0 {
			targets := planIntradayTargets(spec, intraday, p.start)
			for _, target := range targets {
				b, placeErr := p.place(placed, spec, target, slots, true)
				if placeErr != nil {
					schedule.UnplacedItems[spec.ItemGUID]++
					continue
				}
				placed = append(placed, b)
			}
			for excess := batchCount - len(targets); excess > 0; excess-- {
				b, placeErr := p.place(placed, spec, p.start, slots, false)
				if placeErr != nil {
					schedule.UnplacedItems[spec.ItemGUID]++
					continue
				}
				placed = append(placed, b)
			}
			continue
		}

		for i := 0; i < batchCount; i++ {
			fallback = append(fallback, pendingBatch{item: spec.ItemGUID, spec: spec, quantity: spec.CapacityPerRack})
		}
	}

	sort.SliceStable(fallback, func(i, j int) bool {
		if fallback[i].spec.BakeTimeMinutes != fallback[j].spec.BakeTimeMinutes {
			return fallback[i].spec.BakeTimeMinutes < fallback[j].spec.BakeTimeMinutes
		}
		return fallback[i].quantity > fallback[j].quantity
	})

	for _, pb := range fallback {
		b, placeErr := p.place(placed, pb.spec, p.start, slots, false)
		if placeErr != nil {
			schedule.UnplacedItems[pb.item]++
			continue
		}
		placed = append(placed, b)
	}

	if len(rejected) > 0 {
		schedule.Parameters["rejectedItems"] = rejected
	}

	batchEntities := make([]entities.Batch, len(placed))
	for i, b := range placed {
		batchEntities[i] = *b
	}
	schedule.Batches = batchEntities

	if storeErr := scheduleStore.UpsertSchedule(ctx, schedule); storeErr != nil {
		return nil, domainerrors.Wrap(domainerrors.StoreIOError, "persisting schedule", storeErr)
	}

	return schedule, nil
}

// place finds a rack/start for spec (at the target start when
// useTarget, otherwise the earliest available slot) and builds the
// resulting Batch, claiming its slot in the SlotMap.
func (p *Planner) place(existing []*entities.Batch, spec *entities.BakeSpec, target entities.Minutes, slots rackalloc.SlotMap, useTarget bool) (*entities.Batch, *domainerrors.Error) {
	var rack int
	var start entities.Minutes
	var err *domainerrors.Error

	if useTarget {
		rack, start, err = rackalloc.FindSlotAt(existing, spec, target, p.topology, slots, p.maxAdvances)
	} else {
		rack, start, err = rackalloc.FindEarliestSlot(existing, spec, target, p.topology, slots)
	}
	if err != nil {
		return nil, err
	}

	slots.Claim(rack, start)
	return &entities.Batch{
		BatchID:      entities.BatchID(uuid.NewString()),
		ItemGUID:     spec.ItemGUID,
		Quantity:     spec.CapacityPerRack,
		BakeTime:     spec.BakeTimeMinutes,
		CoolTime:     spec.CoolTimeMinutes,
		Oven:         entities.OvenForRack(rack, p.topology.RacksPerOven),
		RackPosition: rack,
		StartTime:    start,
		Status:       entities.StatusScheduled,
	}, nil
}

// batchCountForItem implements step 1: target = forecast +
// max(restockThreshold, parMin); batchCount = ceil(target / capacityPerRack).
func batchCountForItem(spec *entities.BakeSpec, forecast entities.Quantity) (int, *domainerrors.Error) {
	if validateErr := spec.Validate(); validateErr != nil {
		return 0, domainerrors.Wrap(domainerrors.InvalidBakeSpec, "spec missing required fields", validateErr)
	}

	buffer := spec.RestockThreshold
	if spec.ParMin > buffer {
		buffer = spec.ParMin
	}
	target := forecast + buffer
	return ceilDivQty(target, spec.CapacityPerRack), nil
}

// ceilDivQty computes ceil(numerator / denominator) using decimal
// arithmetic so intermediate division never loses a fractional remainder
// that integer division would silently floor away (uses Quantity's
// Decimal() conversion).
func ceilDivQty(numerator, denominator entities.Quantity) int {
	if denominator <= 0 {
		return 0
	}
	result := numerator.Decimal().DivRound(denominator.Decimal(), 8)
	return int(result.Ceil().IntPart())
}

// planIntradayTargets implements step 2's PAR-aware walk: every time
// cumulative supply would fall short of cumulative demand plus parMin,
// a batch is required to become available at or before that interval.
// A second pass delays a batch's target start (never earlier) when
// adding it would push supply past parMax, bounded so the batch's
// availableTime still meets its triggering demand interval.
func planIntradayTargets(spec *entities.BakeSpec, intraday []entities.ForecastInterval, start entities.Minutes) []entities.Minutes {
	sorted := make([]entities.ForecastInterval, len(intraday))
	copy(sorted, intraday)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TimeInterval < sorted[j].TimeInterval })

	var targets []entities.Minutes
	var cumulativeDemand, cumulativeSupply entities.Quantity

	for _, iv := range sorted {
		cumulativeDemand += iv.Forecast
		for cumulativeSupply < cumulativeDemand+spec.ParMin {
			maxAllowedTarget := iv.TimeInterval - spec.BakeTimeMinutes - spec.CoolTimeMinutes

			target := maxAllowedTarget
			if target < start {
				target = start
			}

			if spec.HasParMax() {
				projected := cumulativeSupply + spec.CapacityPerRack
				if projected > *spec.ParMax {
					delay := (*spec.ParMax - spec.ParMin) / 2
					if delay < 0 {
						delay = 0
					}
					delayed := target + entities.Minutes(delay)
					if delayed > maxAllowedTarget {
						delayed = maxAllowedTarget
					}
					if delayed > target {
						target = delayed
					}
				}
			}

			target = entities.RoundUpToGrid(target)
			if target < start {
				target = entities.RoundUpToGrid(start)
			}

			targets = append(targets, target)
			cumulativeSupply += spec.CapacityPerRack
		}
	}

	return targets
}
