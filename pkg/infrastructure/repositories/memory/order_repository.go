package memory

import (
	"context"
	"sync"

	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"

	"github.com/bakeline/production-core/pkg/domain/entities"
	"github.com/bakeline/production-core/pkg/domain/repositories"
)

// OrderRepository is an in-memory OrderStore for catering orders, keyed
// per-simulation since a catering order only ever belongs to one
// simulation run.
type OrderRepository struct {
	mutex  sync.RWMutex
	orders map[entities.SimulationID]map[entities.CateringOrderID]*entities.CateringOrder
}

// NewOrderRepository creates an empty in-memory order repository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[entities.SimulationID]map[entities.CateringOrderID]*entities.CateringOrder),
	}
}

var _ repositories.OrderStore = (*OrderRepository)(nil)

// UpsertCateringOrder persists (or replaces) a catering order for a
// simulation.
func (r *OrderRepository) UpsertCateringOrder(ctx context.Context, simID entities.SimulationID, order *entities.CateringOrder) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	sim, exists := r.orders[simID]
	if !exists {
		sim = make(map[entities.CateringOrderID]*entities.CateringOrder)
		r.orders[simID] = sim
	}
	sim[order.OrderID] = order
	return nil
}

// DeleteCateringOrder removes a catering order from a simulation.
func (r *OrderRepository) DeleteCateringOrder(ctx context.Context, simID entities.SimulationID, orderID entities.CateringOrderID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	sim, exists := r.orders[simID]
	if !exists {
		return domainerrors.Newf(domainerrors.NotFound, "no catering orders for simulation %s", simID)
	}
	if _, ok := sim[orderID]; !ok {
		return domainerrors.Newf(domainerrors.NotFound, "catering order not found: %s", orderID)
	}
	delete(sim, orderID)
	return nil
}

// Get returns a catering order for a simulation; only tests call it.
func (r *OrderRepository) Get(simID entities.SimulationID, orderID entities.CateringOrderID) (*entities.CateringOrder, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	sim, exists := r.orders[simID]
	if !exists {
		return nil, false
	}
	order, ok := sim[orderID]
	return order, ok
}
