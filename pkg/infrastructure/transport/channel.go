// Package transport is the in-memory stand-in for the broadcast channel
// (spec §6): the real HTTP/WebSocket wiring is an external collaborator
// and out of scope, but the driver still needs somewhere to publish
// snapshots so the headless runner and tests can observe them. Each
// subscriber gets its own buffered channel and Publish only does
// non-blocking sends, so one slow consumer can't stall the driver tick.
package transport

import (
	"sync"

	"github.com/bakeline/production-core/pkg/domain/entities"
)

// InventoryFrame is the separate manual-mode frame sent after a purchase
// (spec §6 broadcast channel, "a separate inventory_update frame").
type InventoryFrame struct {
	Inventory      map[entities.ItemGUID]entities.Quantity
	TotalInventory entities.Quantity
}

// Snapshot is the simulation_update broadcast payload (spec §6), one per
// driver tick per running simulation.
type Snapshot struct {
	ID                    entities.SimulationID
	Status                entities.SimStatus
	CurrentTimeDisplay    string // HH:MM
	Stats                 entities.Stats
	Inventory             map[entities.ItemGUID]entities.Quantity
	InventoryUnits        map[entities.ItemGUID]entities.InventoryList
	Batches               []entities.Batch
	CompletedBatches      []entities.Batch
	DailyForecast         map[entities.ItemGUID]entities.Quantity
	IntradayForecast      map[entities.ItemGUID][]entities.ForecastInterval
	ParConfig             map[entities.ItemGUID]entities.ParConfig
	PresetOrders          []entities.PresetOrder
	RecentEvents          []entities.Event
	MissedOrders          []entities.MissedOrder
	ProcessedOrdersByItem map[entities.ItemGUID]entities.ProcessedAggregate
	Mode                  entities.SimMode
	CateringOrders        []entities.CateringOrder
	AutoApproveCatering   bool
}

// Transport is the broadcast collaborator the driver publishes to on
// every tick.
type Transport interface {
	Publish(simID entities.SimulationID, snapshot Snapshot)
	PublishInventory(simID entities.SimulationID, frame InventoryFrame)
	Subscribe(simID entities.SimulationID) <-chan Snapshot
	SubscribeInventory(simID entities.SimulationID) <-chan InventoryFrame
	Unsubscribe(simID entities.SimulationID, ch <-chan Snapshot)
}

const subscriberBuffer = 8

// ChannelTransport fans snapshots out to per-simulation subscriber
// channels. It never blocks Publish on a slow subscriber: a full channel
// drops the oldest pending snapshot rather than stalling the driver.
type ChannelTransport struct {
	mutex          sync.RWMutex
	subscribers    map[entities.SimulationID][]chan Snapshot
	invSubscribers map[entities.SimulationID][]chan InventoryFrame
}

// NewChannelTransport builds an empty ChannelTransport.
func NewChannelTransport() *ChannelTransport {
	return &ChannelTransport{
		subscribers:    make(map[entities.SimulationID][]chan Snapshot),
		invSubscribers: make(map[entities.SimulationID][]chan InventoryFrame),
	}
}

var _ Transport = (*ChannelTransport)(nil)

// Publish fans a snapshot out to every subscriber of simID.
func (t *ChannelTransport) Publish(simID entities.SimulationID, snapshot Snapshot) {
	t.mutex.RLock()
	subs := append([]chan Snapshot(nil), t.subscribers[simID]...)
	t.mutex.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- snapshot:
		default:
			// Drop the stale snapshot in the buffer and retry once; a
			// subscriber that's still behind after that just misses this
			// tick, it'll catch up on the next one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}

// PublishInventory fans an inventory frame out to every inventory
// subscriber of simID.
func (t *ChannelTransport) PublishInventory(simID entities.SimulationID, frame InventoryFrame) {
	t.mutex.RLock()
	subs := append([]chan InventoryFrame(nil), t.invSubscribers[simID]...)
	t.mutex.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- frame:
		default:
		}
	}
}

// Subscribe registers a new snapshot subscriber for simID.
func (t *ChannelTransport) Subscribe(simID entities.SimulationID) <-chan Snapshot {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	ch := make(chan Snapshot, subscriberBuffer)
	t.subscribers[simID] = append(t.subscribers[simID], ch)
	return ch
}

// SubscribeInventory registers a new inventory-frame subscriber for simID.
func (t *ChannelTransport) SubscribeInventory(simID entities.SimulationID) <-chan InventoryFrame {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	ch := make(chan InventoryFrame, subscriberBuffer)
	t.invSubscribers[simID] = append(t.invSubscribers[simID], ch)
	return ch
}

// Unsubscribe removes a snapshot subscriber, closing its channel.
func (t *ChannelTransport) Unsubscribe(simID entities.SimulationID, sub <-chan Snapshot) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	subs := t.subscribers[simID]
	for i, ch := range subs {
		if (<-chan Snapshot)(ch) == sub {
			t.subscribers[simID] = append(subs[:i], subs[i+1:]...)
			close(ch)
			return
		}
	}
}
