package simulation

import (
	"sync"

	"github.com/bakeline/production-core/pkg/domain/entities"
)

// Registry is the process-wide set of live simulations, one Writer per
// SimulationID (spec §5: every simulation has exactly one Writer for its
// lifetime), each independently locked.
type Registry struct {
	mutex   sync.RWMutex
	writers map[entities.SimulationID]*Writer
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{writers: make(map[entities.SimulationID]*Writer)}
}

// Add registers a new Writer under its own simulation id.
func (r *Registry) Add(w *Writer) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.writers[w.ID()] = w
}

// Get looks up a Writer by id.
func (r *Registry) Get(id entities.SimulationID) (*Writer, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	w, ok := r.writers[id]
	return w, ok
}

// Remove evicts a Writer, used by the sweeper once a simulation is past
// its TTL.
func (r *Registry) Remove(id entities.SimulationID) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.writers, id)
}

// All returns a snapshot slice of every registered Writer, safe to
// range over without holding the registry lock (the driver and sweeper
// both do this once per tick).
func (r *Registry) All() []*Writer {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]*Writer, 0, len(r.writers))
	for _, w := range r.writers {
		out = append(out, w)
	}
	return out
}
