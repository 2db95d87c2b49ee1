package commands

import (
	"context"
	"testing"

	"github.com/bakeline/production-core/pkg/application/services/simulation"
	"github.com/bakeline/production-core/pkg/domain/entities"
	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"
	"github.com/bakeline/production-core/pkg/infrastructure/clock"
	"github.com/bakeline/production-core/pkg/infrastructure/config"
	"github.com/bakeline/production-core/pkg/infrastructure/events"
	"github.com/bakeline/production-core/pkg/infrastructure/log"
	"github.com/bakeline/production-core/pkg/infrastructure/repositories/memory"
	"github.com/bakeline/production-core/pkg/infrastructure/transport"
)

type fakeForecastSvc struct {
	daily    map[entities.ItemGUID]entities.Quantity
	intraday map[entities.ItemGUID][]entities.ForecastInterval
}

func (f *fakeForecastSvc) DailyForecast(ctx context.Context, date string) (map[entities.ItemGUID]entities.Quantity, error) {
	return f.daily, nil
}

func (f *fakeForecastSvc) IntradayForecast(ctx context.Context, date string) (map[entities.ItemGUID][]entities.ForecastInterval, error) {
	return f.intraday, nil
}

func testCommands(t *testing.T) (*Commands, *memory.SpecRepository) {
	t.Helper()
	cfg := config.Default()

	specStore := memory.NewSpecRepository()
	specStore.AddSpec(entities.BakeSpec{
		ItemGUID:        "croissant",
		DisplayName:     "Croissant",
		CapacityPerRack: 24,
		BakeTimeMinutes: 20,
		CoolTimeMinutes: 10,
		Oven:            entities.OvenAny,
		ParMin:          10,
		Active:          true,
	})
	scheduleStore := memory.NewScheduleRepository()
	orderStore := memory.NewOrderRepository()
	forecast := &fakeForecastSvc{
		daily:    map[entities.ItemGUID]entities.Quantity{"croissant": 200},
		intraday: map[entities.ItemGUID][]entities.ForecastInterval{},
	}

	engine := simulation.NewEngine(cfg, specStore, scheduleStore, orderStore, events.NewStore(), transport.NewChannelTransport(), clock.NewMock(), log.Noop())
	return New(cfg, engine, specStore, forecast, scheduleStore), specStore
}

func TestGenerateAndStartSimulation(t *testing.T) {
	cmds, _ := testCommands(t)
	ctx := context.Background()

	schedule, err := cmds.GenerateSchedule(ctx, "2026-07-30")
	if err != nil {
		t.Fatalf("GenerateSchedule failed: %v", err)
	}
	if len(schedule.Batches) == 0 {
		t.Fatal("expected the planner to place at least one batch")
	}

	snapshot, err := cmds.StartSimulation(ctx, "sim1", "2026-07-30", entities.ModeManual, 1.0, false, nil)
	if err != nil {
		t.Fatalf("StartSimulation failed: %v", err)
	}
	if len(snapshot.Batches) != len(schedule.Batches) {
		t.Errorf("expected the start snapshot to carry every planned batch, got %d of %d", len(snapshot.Batches), len(schedule.Batches))
	}
}

func TestStartSimulation_NoScheduleIsNotFound(t *testing.T) {
	cmds, _ := testCommands(t)

	_, err := cmds.StartSimulation(context.Background(), "sim1", "2026-07-30", entities.ModeManual, 1.0, false, nil)
	if !domainerrors.Is(err, domainerrors.NotFound) {
		t.Errorf("expected NotFound for a date with no generated schedule, got %v", err)
	}
}

func TestSimulationStatus_UnknownID(t *testing.T) {
	cmds, _ := testCommands(t)

	_, err := cmds.SimulationStatus(context.Background(), "does-not-exist")
	if !domainerrors.Is(err, domainerrors.NotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestSuggestedBatches_UnknownMode(t *testing.T) {
	cmds, _ := testCommands(t)
	ctx := context.Background()

	if _, err := cmds.GenerateSchedule(ctx, "2026-07-30"); err != nil {
		t.Fatalf("GenerateSchedule failed: %v", err)
	}
	if _, err := cmds.StartSimulation(ctx, "sim1", "2026-07-30", entities.ModeManual, 1.0, false, nil); err != nil {
		t.Fatalf("StartSimulation failed: %v", err)
	}

	if _, err := cmds.SuggestedBatches("sim1", "nonsense"); !domainerrors.Is(err, domainerrors.InvalidInput) {
		t.Errorf("expected InvalidInput for an unknown suggestion mode, got %v", err)
	}
}

func TestRunHeadless_CondensedVsFull(t *testing.T) {
	cmds, _ := testCommands(t)
	ctx := context.Background()

	if _, err := cmds.GenerateSchedule(ctx, "2026-07-30"); err != nil {
		t.Fatalf("GenerateSchedule failed: %v", err)
	}

	condensed, err := cmds.RunHeadless(ctx, "2026-07-30", entities.ModeManual, "predictive", 20, false, 0, 0, false)
	if err != nil {
		t.Fatalf("RunHeadless (condensed) failed: %v", err)
	}
	if len(condensed.Intervals) != 0 {
		t.Errorf("expected no per-interval detail without full, got %d", len(condensed.Intervals))
	}

	full, err := cmds.RunHeadless(ctx, "2026-07-30", entities.ModeManual, "predictive", 20, false, 0, 0, true)
	if err != nil {
		t.Fatalf("RunHeadless (full) failed: %v", err)
	}
	if len(full.Intervals) == 0 {
		t.Error("expected per-interval detail with full set")
	}
}

func TestRunHeadless_UnknownAlgorithm(t *testing.T) {
	cmds, _ := testCommands(t)

	_, err := cmds.RunHeadless(context.Background(), "2026-07-30", entities.ModeManual, "nonsense", 20, false, 0, 0, false)
	if !domainerrors.Is(err, domainerrors.InvalidInput) {
		t.Errorf("expected InvalidInput for an unknown algorithm, got %v", err)
	}
}

func TestPurchase_PartialFailureDoesNotBlockOtherLines(t *testing.T) {
	cmds, _ := testCommands(t)
	ctx := context.Background()

	if _, err := cmds.GenerateSchedule(ctx, "2026-07-30"); err != nil {
		t.Fatalf("GenerateSchedule failed: %v", err)
	}
	if _, err := cmds.StartSimulation(ctx, "sim1", "2026-07-30", entities.ModeManual, 1.0, false, nil); err != nil {
		t.Fatalf("StartSimulation failed: %v", err)
	}

	result, err := cmds.Purchase(ctx, "sim1", []PurchaseItem{
		{ItemGUID: "croissant", Quantity: 5}, // no inventory baked yet at simulation start
		{ItemGUID: "does-not-exist", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}
	if _, failed := result.Failed["croissant"]; !failed {
		t.Error("expected croissant to fail with no inventory baked yet")
	}
	if _, failed := result.Failed["does-not-exist"]; !failed {
		t.Error("expected the unknown item to fail")
	}
	if len(result.Failed) != 2 {
		t.Errorf("expected both lines to fail independently, got %d failures", len(result.Failed))
	}
}
