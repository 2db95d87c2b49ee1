package csv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bakeline/production-core/pkg/domain/entities"
)

func writeCSV(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadBakeSpecs(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "bake_specs.csv", ""+
		"item_guid,display_name,capacity_per_rack,bake_time_minutes,cool_time_minutes,oven,fresh_window_minutes,restock_threshold,par_min,par_max,active\n"+
		"croissant,Croissant,24,20,10,any,120,6,12,48,true\n"+
		"baguette,Baguette,12,40,5,1,60,4,8,,true\n")

	specs, err := NewLoader().LoadBakeSpecs(path)
	if err != nil {
		t.Fatalf("LoadBakeSpecs failed: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(specs))
	}

	croissant := specs[0]
	if croissant.ItemGUID != "croissant" || croissant.CapacityPerRack != 24 || croissant.Oven != entities.OvenAny {
		t.Errorf("unexpected croissant spec: %+v", croissant)
	}
	if !croissant.HasParMax() || *croissant.ParMax != 48 {
		t.Errorf("expected par_max 48, got %+v", croissant.ParMax)
	}

	baguette := specs[1]
	if baguette.Oven != entities.Oven1 {
		t.Errorf("expected baguette restricted to oven 1, got %s", baguette.Oven)
	}
	if baguette.HasParMax() {
		t.Errorf("expected baguette to have no par_max, got %+v", baguette.ParMax)
	}
}

func TestLoadBakeSpecs_HeaderMismatch(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "bake_specs.csv", "wrong,header\ncroissant,Croissant\n")

	if _, err := NewLoader().LoadBakeSpecs(path); err == nil {
		t.Fatal("expected a header mismatch error")
	}
}

func TestLoadDailyForecast(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "daily_forecast.csv", ""+
		"date,item_guid,quantity\n"+
		"2026-07-30,croissant,200\n"+
		"2026-07-30,baguette,80\n")

	forecast, err := NewLoader().LoadDailyForecast(path)
	if err != nil {
		t.Fatalf("LoadDailyForecast failed: %v", err)
	}
	day, ok := forecast["2026-07-30"]
	if !ok {
		t.Fatal("expected a forecast for 2026-07-30")
	}
	if day["croissant"] != 200 || day["baguette"] != 80 {
		t.Errorf("unexpected daily forecast: %+v", day)
	}
}

func TestLoadIntradayForecast(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "intraday_forecast.csv", ""+
		"date,item_guid,time_interval_minutes,quantity\n"+
		"2026-07-30,croissant,360,10\n"+
		"2026-07-30,croissant,380,15\n")

	forecast, err := NewLoader().LoadIntradayForecast(path)
	if err != nil {
		t.Fatalf("LoadIntradayForecast failed: %v", err)
	}
	curve := forecast["2026-07-30"]["croissant"]
	if len(curve) != 2 {
		t.Fatalf("expected 2 intraday points, got %d", len(curve))
	}
	if curve[0].TimeInterval != 360 || curve[0].Forecast != 10 {
		t.Errorf("unexpected first point: %+v", curve[0])
	}
}
