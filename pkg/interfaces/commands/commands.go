// Package commands is the transport-agnostic command surface (spec §6):
// one method per row of the command table, each translating a plain
// request into a call against the Schedule Planner or the Simulation
// Engine and returning a plain result or a *domainerrors.Error. A real
// transport (HTTP+JSON, gRPC) adapts these directly; this package never
// imports net/http or any RPC framework itself.
package commands

import (
	"github.com/bakeline/production-core/pkg/application/services/schedule"
	"github.com/bakeline/production-core/pkg/application/services/simulation"
	"github.com/bakeline/production-core/pkg/application/services/suggestion"
	"github.com/bakeline/production-core/pkg/domain/repositories"
	"github.com/bakeline/production-core/pkg/infrastructure/config"
)

// Commands is the command surface's collaborator set.
type Commands struct {
	cfg           config.Config
	planner       *schedule.Planner
	engine        *simulation.Engine
	specStore     repositories.SpecStore
	forecastSvc   repositories.ForecastSvc
	scheduleStore repositories.ScheduleStore
	suggesters    map[string]suggestion.Suggester
}

// New wires a Commands value from its collaborators. suggesters is keyed
// by the mode name used in simulation.suggestedBatches ("predictive",
// "reactive").
func New(
	cfg config.Config,
	engine *simulation.Engine,
	specStore repositories.SpecStore,
	forecastSvc repositories.ForecastSvc,
	scheduleStore repositories.ScheduleStore,
) *Commands {
	return &Commands{
		cfg:           cfg,
		planner:       schedule.NewPlanner(cfg),
		engine:        engine,
		specStore:     specStore,
		forecastSvc:   forecastSvc,
		scheduleStore: scheduleStore,
		suggesters: map[string]suggestion.Suggester{
			"predictive": suggestion.Predictive{},
			"reactive":   suggestion.Reactive{},
		},
	}
}
