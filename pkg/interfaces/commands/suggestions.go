package commands

import (
	"github.com/bakeline/production-core/pkg/application/services/suggestion"
	"github.com/bakeline/production-core/pkg/domain/entities"
	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"
)

// SuggestedBatches implements simulation.suggestedBatches (spec §6): mode
// must be "predictive" or "reactive". Suggesters never error (spec §7),
// so the only failure here is an unknown simulation id or mode.
func (c *Commands) SuggestedBatches(id entities.SimulationID, mode string) ([]suggestion.Proposal, *domainerrors.Error) {
	w, err := c.writerFor(id)
	if err != nil {
		return nil, err
	}
	s, ok := c.suggesters[mode]
	if !ok {
		return nil, domainerrors.Newf(domainerrors.InvalidInput, "unknown suggestion mode %q", mode)
	}
	return w.Suggest(s), nil
}
