package simulation

import (
	"math"

	"github.com/bakeline/production-core/pkg/domain/entities"
	"github.com/bakeline/production-core/pkg/infrastructure/config"
)

// elapsedRunningMillis is real elapsed time since the simulation started,
// minus every interval it has spent paused. While paused it freezes at
// the instant pause began rather than advancing with wall-clock time.
func elapsedRunningMillis(state *entities.SimulationState, nowRealMillis int64) int64 {
	if state.Status == entities.SimPaused {
		return state.PausedAtRealUnixMillis - state.StartedAtRealUnixMillis - state.PausedDurationMillis
	}
	return nowRealMillis - state.StartedAtRealUnixMillis - state.PausedDurationMillis
}

// SimulatedMinutes computes the simulation's current time as a float,
// quantised to 0.1-minute precision (spec §4.3 clock), before the caller
// truncates it to the integer Minutes the rest of the engine reasons in
// (spec §9 design note: integer minutes are scheduling truth, the 0.1
// quantum is for the display clock only). Elapsed real time is divided
// by 60000 (ms per simulated "real minute" at 1x) and scaled by
// SpeedMultiplier before being added to START — this is exactly the
// pause-invariance property law's right-hand side.
func SimulatedMinutes(cfg config.Config, state *entities.SimulationState, nowRealMillis int64) float64 {
	elapsed := elapsedRunningMillis(state, nowRealMillis)
	minutes := float64(elapsed) / 60000.0 * state.SpeedMultiplier
	quantized := math.Round(minutes*10) / 10
	return float64(cfg.BusinessHours.StartMinutes) + quantized
}

// QuantizeToMinutes truncates a SimulatedMinutes float to the integer
// Minutes the engine's scheduling math uses, clamped at END.
func QuantizeToMinutes(f float64, end entities.Minutes) entities.Minutes {
	m := entities.Minutes(math.Floor(f))
	if m > end {
		return end
	}
	return m
}
