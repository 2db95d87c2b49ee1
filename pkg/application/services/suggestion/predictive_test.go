package suggestion

import (
	"testing"

	"github.com/bakeline/production-core/pkg/domain/entities"
	"github.com/bakeline/production-core/pkg/infrastructure/config"
)

func croissantSpec() *entities.BakeSpec {
	return &entities.BakeSpec{
		ItemGUID:        "croissant",
		DisplayName:     "Croissant",
		CapacityPerRack: 24,
		BakeTimeMinutes: 20,
		CoolTimeMinutes: 10,
		Oven:            entities.OvenAny,
		Active:          true,
	}
}

func baseState(currentTime entities.Minutes) *entities.SimulationState {
	s := entities.NewSimulationState("sim1", entities.ModeManual, "sched1", 1.0, 0)
	s.CurrentTime = currentTime
	return s
}

// TestPredictive_BelowConfidenceThreshold_YieldsNoProposals is seed
// scenario S6's first half: at 08:30 expected=10, actual=0, giving
// confidence 20% — below the 50% floor, so no proposal is emitted even
// though the raw shortfall is positive.
func TestPredictive_BelowConfidenceThreshold_YieldsNoProposals(t *testing.T) {
	cfg := config.Default()
	state := baseState(510) // 08:30
	state.IntradayForecast["croissant"] = []entities.ForecastInterval{
		{TimeInterval: 480, Forecast: 10},  // past, 08:00
		{TimeInterval: 600, Forecast: 40},  // future, 10:00
	}
	specs := map[entities.ItemGUID]*entities.BakeSpec{"croissant": croissantSpec()}

	proposals := Predictive{}.Propose(state, specs, cfg)
	if len(proposals) != 0 {
		t.Fatalf("expected 0 proposals below the confidence threshold, got %d", len(proposals))
	}
}

// TestPredictive_AboveConfidenceThreshold_YieldsProposals is S6's second
// half: at 09:30 expected=60, actual=45 gives confidence 100%, and with
// remaining demand outstripping inventory the engine proposes batches.
func TestPredictive_AboveConfidenceThreshold_YieldsProposals(t *testing.T) {
	cfg := config.Default()
	state := baseState(570) // 09:30
	state.IntradayForecast["croissant"] = []entities.ForecastInterval{
		{TimeInterval: 480, Forecast: 60},
		{TimeInterval: 660, Forecast: 80},
	}
	state.ProcessedOrdersByItem["croissant"] = &entities.ProcessedAggregate{ItemGUID: "croissant", TotalQuantity: 45}
	specs := map[entities.ItemGUID]*entities.BakeSpec{"croissant": croissantSpec()}

	proposals := Predictive{}.Propose(state, specs, cfg)
	if len(proposals) == 0 {
		t.Fatal("expected at least one proposal once confidence clears the threshold")
	}
	for _, p := range proposals {
		if p.Reason.ConfidencePercent != 100 {
			t.Errorf("expected confidence 100, got %d", p.Reason.ConfidencePercent)
		}
		if p.Reason.Algorithm != "predictive" {
			t.Errorf("expected algorithm predictive, got %s", p.Reason.Algorithm)
		}
	}
	first := proposals[0].StartTime
	for _, p := range proposals[1:] {
		if p.StartTime != first {
			t.Error("expected every proposal from one shortfall to share the same start time")
		}
	}
}

func TestPredictive_SkipsInactiveOrUnknownSpecs(t *testing.T) {
	cfg := config.Default()
	state := baseState(570)
	state.IntradayForecast["croissant"] = []entities.ForecastInterval{
		{TimeInterval: 480, Forecast: 60},
		{TimeInterval: 660, Forecast: 80},
	}
	inactive := croissantSpec()
	inactive.Active = false
	specs := map[entities.ItemGUID]*entities.BakeSpec{"croissant": inactive}

	proposals := Predictive{}.Propose(state, specs, cfg)
	if len(proposals) != 0 {
		t.Fatalf("expected an inactive spec to be skipped, got %d proposals", len(proposals))
	}
}

func TestPredictive_ParMaxCapsShortfall(t *testing.T) {
	cfg := config.Default()
	state := baseState(570)
	state.IntradayForecast["croissant"] = []entities.ForecastInterval{
		{TimeInterval: 480, Forecast: 60},
		{TimeInterval: 660, Forecast: 500},
	}
	state.ProcessedOrdersByItem["croissant"] = &entities.ProcessedAggregate{ItemGUID: "croissant", TotalQuantity: 60}
	parMax := entities.Quantity(30)
	state.ParConfig["croissant"] = entities.ParConfig{ParMax: &parMax}
	specs := map[entities.ItemGUID]*entities.BakeSpec{"croissant": croissantSpec()}

	proposals := Predictive{}.Propose(state, specs, cfg)
	want := ceilDivQty(30, croissantSpec().CapacityPerRack)
	if len(proposals) != want {
		t.Errorf("expected parMax(30) to cap the shortfall to %d batches, got %d", want, len(proposals))
	}
}
