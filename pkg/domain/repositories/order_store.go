package repositories

import (
	"context"

	"github.com/bakeline/production-core/pkg/domain/entities"
)

// OrderStore is the durable twin for catering orders: approved orders are
// persisted (with their created batches) on approval; pending orders are
// not persisted until approveCateringOrder is called (spec §4.5 step 6).
type OrderStore interface {
	UpsertCateringOrder(ctx context.Context, simID entities.SimulationID, order *entities.CateringOrder) error
	DeleteCateringOrder(ctx context.Context, simID entities.SimulationID, orderID entities.CateringOrderID) error
}
