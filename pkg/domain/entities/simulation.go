package entities

// SimulationID uniquely identifies a running or completed simulation.
type SimulationID string

// SimMode selects how orders are consumed.
type SimMode int

const (
	ModeManual SimMode = iota
	ModePreset
)

func (m SimMode) String() string {
	if m == ModePreset {
		return "preset"
	}
	return "manual"
}

// SimStatus is the simulation's own lifecycle, distinct from any one
// batch's BatchStatus.
type SimStatus int

const (
	SimRunning SimStatus = iota
	SimPaused
	SimStopped
	SimCompleted
)

func (s SimStatus) String() string {
	switch s {
	case SimRunning:
		return "running"
	case SimPaused:
		return "paused"
	case SimStopped:
		return "stopped"
	case SimCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Stats are the running counters the spec's advance-tick side effects
// maintain.
type Stats struct {
	BatchesStarted   int
	BatchesPulled    int
	BatchesAvailable int
	ItemsProcessed   Quantity
	ItemsMissed      Quantity
	PeakInventory    Quantity
	StoreIOErrors    int
}

// Event is one append-only entry in a simulation's event log (§5 ordering
// guarantees: append order equals logical transition order).
type Event struct {
	Kind           string
	TimestampMins  Minutes
	Data           interface{}
}

// SimulationState is the one-per-running-simulation authoritative state
// owned exclusively by its Writer (see application/services/simulation).
// Every field here is mutated only while the owning Writer holds its lock;
// the entity itself performs no locking.
type SimulationState struct {
	ID   SimulationID
	Mode SimMode

	// Clock bookkeeping (see infrastructure/clock and SimulatedMinutes in
	// application/services/simulation for how these combine).
	StartedAtRealUnixMillis int64
	PausedDurationMillis    int64
	PausedAtRealUnixMillis  int64 // 0 when not paused
	SpeedMultiplier         float64

	Status      SimStatus
	CurrentTime Minutes // clamped at END

	// FinishedAtRealUnixMillis is the wall-clock instant Status became
	// Stopped or Completed, 0 while still running/paused. The sweeper
	// uses it to find simulations past their TTL (spec §5 cleanup).
	FinishedAtRealUnixMillis int64

	// Batch arena: owning storage is the map; ActiveIDs/CompletedIDs are
	// non-owning id lists, per the shared-map-plus-index design (§9).
	Batches      map[BatchID]*Batch
	ActiveIDs    []BatchID
	CompletedIDs []BatchID

	InventoryUnits map[ItemGUID]InventoryList

	PresetOrders       []PresetOrder // sorted by OrderTimeMinutes
	ProcessedOrderKeys map[string]bool

	// Forecast data the simulation was started with, carried for the
	// lifetime of the run so the Suggestion Engines (C4) and the
	// broadcast snapshot (spec §6) have it without a second read of the
	// Schedule the simulation was generated from.
	DailyForecast    map[ItemGUID]Quantity
	IntradayForecast map[ItemGUID][]ForecastInterval
	ParConfig        map[ItemGUID]ParConfig

	ProcessedOrdersByItem map[ItemGUID]*ProcessedAggregate
	MissedOrders          []MissedOrder

	Stats Stats

	Events []Event

	CateringOrders map[CateringOrderID]*CateringOrder

	AutoApproveCatering bool

	// ScheduleID is the persisted Schedule this simulation mirrors writes
	// into (ScheduleStore is the external durable twin, §3 Ownership).
	ScheduleID string
}

// NewSimulationState builds an empty, running simulation shell. Callers
// (the Planner+Engine, per §3 Lifetime) populate Batches/PresetOrders
// before starting the driver.
func NewSimulationState(id SimulationID, mode SimMode, scheduleID string, speedMultiplier float64, startedAtRealUnixMillis int64) *SimulationState {
	return &SimulationState{
		ID:                    id,
		Mode:                  mode,
		ScheduleID:            scheduleID,
		SpeedMultiplier:       speedMultiplier,
		StartedAtRealUnixMillis: startedAtRealUnixMillis,
		Status:                SimRunning,
		Batches:               make(map[BatchID]*Batch),
		InventoryUnits:        make(map[ItemGUID]InventoryList),
		ProcessedOrderKeys:    make(map[string]bool),
		ProcessedOrdersByItem: make(map[ItemGUID]*ProcessedAggregate),
		CateringOrders:        make(map[CateringOrderID]*CateringOrder),
		DailyForecast:         make(map[ItemGUID]Quantity),
		IntradayForecast:      make(map[ItemGUID][]ForecastInterval),
		ParConfig:             make(map[ItemGUID]ParConfig),
	}
}

// AddBatch inserts a batch into the arena and marks it active.
func (s *SimulationState) AddBatch(b *Batch) {
	s.Batches[b.BatchID] = b
	s.ActiveIDs = append(s.ActiveIDs, b.BatchID)
}

// ActiveBatches resolves the active id list to batch pointers.
func (s *SimulationState) ActiveBatches() []*Batch {
	out := make([]*Batch, 0, len(s.ActiveIDs))
	for _, id := range s.ActiveIDs {
		if b, ok := s.Batches[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

// CompletedBatches resolves the completed id list to batch pointers.
func (s *SimulationState) CompletedBatches() []*Batch {
	out := make([]*Batch, 0, len(s.CompletedIDs))
	for _, id := range s.CompletedIDs {
		if b, ok := s.Batches[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

// AllBatches returns every batch, active and completed, the view the Rack
// Allocator primitives require.
func (s *SimulationState) AllBatches() []*Batch {
	out := make([]*Batch, 0, len(s.Batches))
	for _, b := range s.Batches {
		out = append(out, b)
	}
	return out
}

// MoveToCompleted migrates a batch id from the active list to the
// completed list (spec §4.3 pulling -> available transition).
func (s *SimulationState) MoveToCompleted(id BatchID) {
	for i, aid := range s.ActiveIDs {
		if aid == id {
			s.ActiveIDs = append(s.ActiveIDs[:i], s.ActiveIDs[i+1:]...)
			break
		}
	}
	s.CompletedIDs = append(s.CompletedIDs, id)
}

// RemoveBatch deletes a batch from the arena and both id lists (spec
// §4.3 deleteBatch).
func (s *SimulationState) RemoveBatch(id BatchID) {
	delete(s.Batches, id)
	removeID := func(ids []BatchID) []BatchID {
		for i, x := range ids {
			if x == id {
				return append(ids[:i], ids[i+1:]...)
			}
		}
		return ids
	}
	s.ActiveIDs = removeID(s.ActiveIDs)
	s.CompletedIDs = removeID(s.CompletedIDs)
}

// TotalInventory sums InventoryUnits across every item (invariant 4).
func (s *SimulationState) TotalInventory() Quantity {
	var total Quantity
	for _, list := range s.InventoryUnits {
		total += list.Count()
	}
	return total
}

// RecordEvent appends an event, preserving logical transition order
// (§5 ordering guarantees).
func (s *SimulationState) RecordEvent(kind string, data interface{}) {
	s.Events = append(s.Events, Event{Kind: kind, TimestampMins: s.CurrentTime, Data: data})
}

// RecentEvents returns the last n events (broadcast snapshots send the
// last 5, per §6).
func (s *SimulationState) RecentEvents(n int) []Event {
	if len(s.Events) <= n {
		return s.Events
	}
	return s.Events[len(s.Events)-n:]
}
