// Package config loads the production core's tunables (spec §6 Config).
// A YAML file is the normal source (grounded on senomorf-oci-cpu-shaper's
// and the DimaJoyti-go-coffee manifest's gopkg.in/yaml.v3-based config
// loading); Default() reproduces spec.md's literal values so tests and the
// headless runner need no file on disk.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/bakeline/production-core/pkg/domain/entities"
	"gopkg.in/yaml.v3"
)

// BusinessHours is the daily operating window, in minutes since midnight.
type BusinessHours struct {
	StartMinutes entities.Minutes `yaml:"start_minutes"`
	EndMinutes   entities.Minutes `yaml:"end_minutes"`
}

// OvenConfig is the fixed oven/rack topology (spec Non-goals: this never
// changes at runtime).
type OvenConfig struct {
	OvenCount    int `yaml:"oven_count"`
	RacksPerOven int `yaml:"racks_per_oven"`
}

// TotalRacks is OvenCount * RacksPerOven.
func (o OvenConfig) TotalRacks() int {
	return o.OvenCount * o.RacksPerOven
}

// SuggestionConstants are the tunables named in spec §6, kept as named
// fields rather than inline literals so the predictive/reactive formulas
// in §4.4 can reference them instead of magic numbers.
type SuggestionConstants struct {
	ConfidenceTargetUnits          entities.Quantity `yaml:"confidence_target_units"`
	ReactiveWindowMinutes          entities.Minutes  `yaml:"reactive_window_minutes"`
	ReactiveMinObservedUnits       entities.Quantity `yaml:"reactive_min_observed_units"`
	ReactiveMinConsumptionRate     float64           `yaml:"reactive_min_consumption_rate"`
	ReactiveDepletionThresholdMins entities.Minutes  `yaml:"reactive_depletion_threshold_minutes"`
	ReactiveTargetBufferMinutes    entities.Minutes  `yaml:"reactive_target_buffer_minutes"`
	ReactiveConfidenceTargetUnits  entities.Quantity `yaml:"reactive_confidence_target_units"`
	PredictiveMinMinutesUntilShortfall entities.Minutes `yaml:"predictive_min_minutes_until_shortfall"`
	PredictiveMaxMinutesUntilShortfall entities.Minutes `yaml:"predictive_max_minutes_until_shortfall"`
}

// Config is the complete tunable surface for the production core.
type Config struct {
	BusinessHours       BusinessHours       `yaml:"business_hours"`
	OvenConfig          OvenConfig          `yaml:"oven_config"`
	GridMinutes         entities.Minutes    `yaml:"grid_minutes"`
	Suggestion          SuggestionConstants `yaml:"suggestion"`
	DriverTick          time.Duration       `yaml:"driver_tick"`
	CleanupInterval     time.Duration       `yaml:"cleanup_interval"`
	SimulationTTL       time.Duration       `yaml:"simulation_ttl"`
	FindSlotMaxAdvances int                 `yaml:"find_slot_max_advances"`
}

// Default reproduces the literal values spec.md names in §6.
func Default() Config {
	return Config{
		BusinessHours: BusinessHours{StartMinutes: 360, EndMinutes: 1020},
		OvenConfig:    OvenConfig{OvenCount: 2, RacksPerOven: 6},
		GridMinutes:   20,
		Suggestion: SuggestionConstants{
			ConfidenceTargetUnits:              50,
			ReactiveWindowMinutes:              60,
			ReactiveMinObservedUnits:           10,
			ReactiveMinConsumptionRate:         0.1,
			ReactiveDepletionThresholdMins:     90,
			ReactiveTargetBufferMinutes:        180,
			ReactiveConfidenceTargetUnits:      30,
			PredictiveMinMinutesUntilShortfall: 60,
			PredictiveMaxMinutesUntilShortfall: 300,
		},
		DriverTick:          100 * time.Millisecond,
		CleanupInterval:     600 * time.Second,
		SimulationTTL:       3600 * time.Second,
		FindSlotMaxAdvances: 5,
	}
}

// Load reads a YAML config file over Default(): any field the file omits
// keeps its default (so a partial override file is valid).
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
