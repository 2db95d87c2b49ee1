// Package events is the production core's append-only event log and
// pub-sub: an Event/EventHandler/Store shape generalized to simulation
// lifecycle events (§5).
package events

import "github.com/bakeline/production-core/pkg/domain/entities"

// Kind constants for the simulation event vocabulary named across spec
// §4.3 (batch lifecycle, order consumption, purchases, operator
// mutations) and §4.5 (catering).
const (
	KindBatchStarted        = "batch_started"
	KindBatchPulled         = "batch_pulled"
	KindBatchAvailable      = "batch_available"
	KindOrderProcessed      = "order_processed"
	KindOrderMissed         = "order_missed"
	KindPurchase            = "purchase"
	KindBatchMoved          = "batch_moved"
	KindBatchAdded          = "batch_added"
	KindBatchDeleted        = "batch_deleted"
	KindBatchMoveError      = "batch_move_error" // StoreIOError mirror-write failure
	KindSimulationCompleted = "simulation_completed"
	KindCateringCreated     = "catering_created"
	KindCateringApproved    = "catering_approved"
	KindCateringRejected    = "catering_rejected"
)

// BatchTransitionData is the payload for batch lifecycle events
// (KindBatchStarted/KindBatchPulled/KindBatchAvailable).
type BatchTransitionData struct {
	BatchID  entities.BatchID
	ItemGUID entities.ItemGUID
}

// BatchMutatedData is the payload for operator batch mutation events
// (KindBatchMoved/KindBatchAdded/KindBatchDeleted).
type BatchMutatedData struct {
	BatchID entities.BatchID
}

// PurchaseData is the payload for KindPurchase.
type PurchaseData struct {
	ItemGUID entities.ItemGUID
	Quantity entities.Quantity
}

// OrderProcessedData is the payload for KindOrderProcessed.
type OrderProcessedData struct {
	OrderID  string
	ItemGUID entities.ItemGUID
	Quantity entities.Quantity
}

// OrderMissedData is the payload for KindOrderMissed.
type OrderMissedData struct {
	OrderID            string
	ItemGUID           entities.ItemGUID
	RequestedQuantity  entities.Quantity
	AvailableInventory entities.Quantity
}

// CateringOrderData is the payload for catering lifecycle events
// (KindCateringCreated/KindCateringApproved/KindCateringRejected).
type CateringOrderData struct {
	OrderID entities.CateringOrderID
}

// Event is one entry in a simulation's stream. Every event belongs to
// exactly one simulation, so StreamID is a SimulationID.
type Event struct {
	EventKind string
	Stream    entities.SimulationID
	EventData interface{}
	EventTime entities.Minutes // simulated time, not wall-clock
}

func (e Event) Kind() string                    { return e.EventKind }
func (e Event) StreamID() entities.SimulationID { return e.Stream }
func (e Event) Data() interface{}               { return e.EventData }
func (e Event) Timestamp() entities.Minutes     { return e.EventTime }

// Handler receives events a Store fans out to. Modeled directly on the
// teacher's EventHandler (Handle/CanHandle).
type Handler interface {
	Handle(event Event) error
	CanHandle(kind string) bool
}

// New builds an Event.
func New(kind string, stream entities.SimulationID, simTime entities.Minutes, data interface{}) Event {
	return Event{EventKind: kind, Stream: stream, EventData: data, EventTime: simTime}
}
