package simulation

import "github.com/bakeline/production-core/pkg/application/services/suggestion"

// Suggest runs a Suggester against the current locked state and frozen
// specs (spec §6 simulation.suggestedBatches). Suggesters are pure, so
// no mutation or event is recorded by this call.
func (w *Writer) Suggest(s suggestion.Suggester) []suggestion.Proposal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return s.Propose(w.state, w.specs, w.deps.Config)
}
