package events

import (
	"fmt"
	"sync"

	"github.com/bakeline/production-core/pkg/domain/entities"
)

// Store is an in-memory, per-simulation append-only event log with
// kind-filtered pub/sub fan-out. Streams are keyed by SimulationID
// instead of a free-form string, and subscribers are notified by event
// kind.
type Store struct {
	mutex       sync.RWMutex
	streams     map[entities.SimulationID][]Event
	subscribers map[string][]Handler
	allEvents   []Event
}

// NewStore builds an empty Store.
func NewStore() *Store {
	return &Store{
		streams:     make(map[entities.SimulationID][]Event),
		subscribers: make(map[string][]Handler),
		allEvents:   make([]Event, 0),
	}
}

// Append records an event on its simulation's stream and fans it out to
// any subscriber whose CanHandle accepts the event's kind. Fan-out runs
// in its own goroutine per handler so a slow subscriber never blocks the
// Writer that produced the event.
func (s *Store) Append(event Event) error {
	s.mutex.Lock()
	stream := event.StreamID()
	s.streams[stream] = append(s.streams[stream], event)
	s.allEvents = append(s.allEvents, event)
	s.mutex.Unlock()

	s.notifySubscribers(event)
	return nil
}

// ReadStream returns every event recorded for a simulation, oldest first.
func (s *Store) ReadStream(stream entities.SimulationID) []Event {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events := s.streams[stream]
	out := make([]Event, len(events))
	copy(out, events)
	return out
}

// RecentFromStream returns up to n of the most recent events recorded for
// a simulation, oldest first within that tail.
func (s *Store) RecentFromStream(stream entities.SimulationID, n int) []Event {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events := s.streams[stream]
	if n <= 0 || n > len(events) {
		n = len(events)
	}
	out := make([]Event, n)
	copy(out, events[len(events)-n:])
	return out
}

// Subscribe registers handler for every kind in kinds. Modeled on the
// teacher's Subscribe(eventTypes, handler).
func (s *Store) Subscribe(kinds []string, handler Handler) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, kind := range kinds {
		s.subscribers[kind] = append(s.subscribers[kind], handler)
	}
}

// Unsubscribe removes handler from every kind it was registered for.
func (s *Store) Unsubscribe(handler Handler) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for kind, handlers := range s.subscribers {
		kept := make([]Handler, 0, len(handlers))
		for _, h := range handlers {
			if h != handler {
				kept = append(kept, h)
			}
		}
		s.subscribers[kind] = kept
	}
}

func (s *Store) notifySubscribers(event Event) {
	s.mutex.RLock()
	handlers := append([]Handler(nil), s.subscribers[event.Kind()]...)
	s.mutex.RUnlock()

	for _, handler := range handlers {
		if !handler.CanHandle(event.Kind()) {
			continue
		}
		go func(h Handler, e Event) {
			if err := h.Handle(e); err != nil {
				fmt.Printf("events: handler error for %s: %v\n", e.Kind(), err)
			}
		}(handler, event)
	}
}
