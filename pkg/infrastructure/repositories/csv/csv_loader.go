// Package csv loads the production core's seed data from flat files
// (bake specs plus the daily and intraday forecasts):
// a zero-field Loader{}, one Load* method per file, explicit header
// validation, and a parse function per row.
package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bakeline/production-core/pkg/domain/entities"
)

// Loader reads the production core's CSV seed files.
type Loader struct{}

// NewLoader creates a new CSV loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadBakeSpecs loads the bake_specs collection (spec §3) from a CSV
// file, one row per item.
func (l *Loader) LoadBakeSpecs(filename string) ([]entities.BakeSpec, error) {
	records, err := readRecords(filename, "bake specs")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{
		"item_guid", "display_name", "capacity_per_rack", "bake_time_minutes",
		"cool_time_minutes", "oven", "fresh_window_minutes", "restock_threshold",
		"par_min", "par_max", "active",
	}
	if len(records) < 1 || !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("bake specs CSV header mismatch. Expected: %v", expectedHeader)
	}

	specs := make([]entities.BakeSpec, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("bake specs CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		spec, err := parseBakeSpec(record)
		if err != nil {
			return nil, fmt.Errorf("bake specs CSV row %d: %w", i+2, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// LoadDailyForecast loads the daily_forecast file: one row per
// (date, item) pair, the target quantity for that whole day.
func (l *Loader) LoadDailyForecast(filename string) (map[string]map[entities.ItemGUID]entities.Quantity, error) {
	records, err := readRecords(filename, "daily forecast")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"date", "item_guid", "quantity"}
	if len(records) < 1 || !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("daily forecast CSV header mismatch. Expected: %v", expectedHeader)
	}

	out := make(map[string]map[entities.ItemGUID]entities.Quantity)
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("daily forecast CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		date := record[0]
		item := entities.ItemGUID(record[1])
		qty, err := strconv.ParseInt(record[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("daily forecast CSV row %d: invalid quantity %q", i+2, record[2])
		}
		if out[date] == nil {
			out[date] = make(map[entities.ItemGUID]entities.Quantity)
		}
		out[date][item] = entities.Quantity(qty)
	}
	return out, nil
}

// LoadIntradayForecast loads the intraday_forecast file: one row per
// (date, item, timeInterval) point of the item's demand curve (spec
// §4.2's "intraday curve").
func (l *Loader) LoadIntradayForecast(filename string) (map[string]map[entities.ItemGUID][]entities.ForecastInterval, error) {
	records, err := readRecords(filename, "intraday forecast")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"date", "item_guid", "time_interval_minutes", "quantity"}
	if len(records) < 1 || !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("intraday forecast CSV header mismatch. Expected: %v", expectedHeader)
	}

	out := make(map[string]map[entities.ItemGUID][]entities.ForecastInterval)
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("intraday forecast CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		date := record[0]
		item := entities.ItemGUID(record[1])
		interval, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("intraday forecast CSV row %d: invalid time_interval_minutes %q", i+2, record[2])
		}
		qty, err := strconv.ParseInt(record[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("intraday forecast CSV row %d: invalid quantity %q", i+2, record[3])
		}
		if out[date] == nil {
			out[date] = make(map[entities.ItemGUID][]entities.ForecastInterval)
		}
		out[date][item] = append(out[date][item], entities.ForecastInterval{
			TimeInterval: entities.Minutes(interval),
			Forecast:     entities.Quantity(qty),
		})
	}
	return out, nil
}

func readRecords(filename, kind string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have at least a header row", kind)
	}
	return records, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}
	return true
}

func parseBakeSpec(record []string) (entities.BakeSpec, error) {
	itemGUID := entities.ItemGUID(record[0])
	displayName := record[1]

	capacity, err := strconv.ParseInt(record[2], 10, 64)
	if err != nil {
		return entities.BakeSpec{}, fmt.Errorf("invalid capacity_per_rack: %s", record[2])
	}
	bakeTime, err := strconv.Atoi(record[3])
	if err != nil {
		return entities.BakeSpec{}, fmt.Errorf("invalid bake_time_minutes: %s", record[3])
	}
	coolTime, err := strconv.Atoi(record[4])
	if err != nil {
		return entities.BakeSpec{}, fmt.Errorf("invalid cool_time_minutes: %s", record[4])
	}
	oven, err := parseOven(record[5])
	if err != nil {
		return entities.BakeSpec{}, err
	}
	freshWindow, err := strconv.Atoi(record[6])
	if err != nil {
		return entities.BakeSpec{}, fmt.Errorf("invalid fresh_window_minutes: %s", record[6])
	}
	restockThreshold, err := strconv.ParseInt(record[7], 10, 64)
	if err != nil {
		return entities.BakeSpec{}, fmt.Errorf("invalid restock_threshold: %s", record[7])
	}
	parMin, err := strconv.ParseInt(record[8], 10, 64)
	if err != nil {
		return entities.BakeSpec{}, fmt.Errorf("invalid par_min: %s", record[8])
	}

	var parMax *entities.Quantity
	if trimmed := strings.TrimSpace(record[9]); trimmed != "" {
		v, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return entities.BakeSpec{}, fmt.Errorf("invalid par_max: %s", record[9])
		}
		qty := entities.Quantity(v)
		parMax = &qty
	}

	active, err := strconv.ParseBool(record[10])
	if err != nil {
		return entities.BakeSpec{}, fmt.Errorf("invalid active: %s", record[10])
	}

	return entities.BakeSpec{
		ItemGUID:           itemGUID,
		DisplayName:        displayName,
		CapacityPerRack:    entities.Quantity(capacity),
		BakeTimeMinutes:    entities.Minutes(bakeTime),
		CoolTimeMinutes:    entities.Minutes(coolTime),
		Oven:               oven,
		FreshWindowMinutes: entities.Minutes(freshWindow),
		RestockThreshold:   entities.Quantity(restockThreshold),
		ParMin:             entities.Quantity(parMin),
		ParMax:             parMax,
		Active:             active,
	}, nil
}

func parseOven(s string) (entities.Oven, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "any", "":
		return entities.OvenAny, nil
	case "1":
		return entities.Oven1, nil
	case "2":
		return entities.Oven2, nil
	default:
		return entities.OvenAny, fmt.Errorf("invalid oven: %s (expected any, 1, or 2)", s)
	}
}
