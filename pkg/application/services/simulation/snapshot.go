package simulation

import (
	"fmt"

	"github.com/bakeline/production-core/pkg/domain/entities"
	"github.com/bakeline/production-core/pkg/infrastructure/transport"
)

// Snapshot builds the simulation_update broadcast payload (spec §6) from
// the current, locked state.
func (w *Writer) Snapshot() transport.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	inventory := make(map[entities.ItemGUID]entities.Quantity, len(w.state.InventoryUnits))
	for item, list := range w.state.InventoryUnits {
		inventory[item] = list.Count()
	}

	active := w.state.ActiveBatches()
	batches := make([]entities.Batch, len(active))
	for i, b := range active {
		batches[i] = *b
	}
	completed := w.state.CompletedBatches()
	completedBatches := make([]entities.Batch, len(completed))
	for i, b := range completed {
		completedBatches[i] = *b
	}

	processed := make(map[entities.ItemGUID]entities.ProcessedAggregate, len(w.state.ProcessedOrdersByItem))
	for item, agg := range w.state.ProcessedOrdersByItem {
		processed[item] = *agg
	}

	catering := make([]entities.CateringOrder, 0, len(w.state.CateringOrders))
	for _, o := range w.state.CateringOrders {
		catering = append(catering, *o)
	}

	return transport.Snapshot{
		ID:                    w.state.ID,
		Status:                w.state.Status,
		CurrentTimeDisplay:    formatHHMM(w.state.CurrentTime),
		Stats:                 w.state.Stats,
		Inventory:             inventory,
		InventoryUnits:        w.state.InventoryUnits,
		Batches:               batches,
		CompletedBatches:      completedBatches,
		DailyForecast:         w.state.DailyForecast,
		IntradayForecast:      w.state.IntradayForecast,
		ParConfig:             w.state.ParConfig,
		PresetOrders:          w.state.PresetOrders,
		RecentEvents:          w.state.RecentEvents(5),
		MissedOrders:          w.state.MissedOrders,
		ProcessedOrdersByItem: processed,
		Mode:                  w.state.Mode,
		CateringOrders:        catering,
		AutoApproveCatering:   w.state.AutoApproveCatering,
	}
}

// InventoryFrame builds the manual-mode inventory_update frame sent
// after a purchase (spec §6).
func (w *Writer) InventoryFrame() transport.InventoryFrame {
	w.mu.Lock()
	defer w.mu.Unlock()

	inventory := make(map[entities.ItemGUID]entities.Quantity, len(w.state.InventoryUnits))
	var total entities.Quantity
	for item, list := range w.state.InventoryUnits {
		count := list.Count()
		inventory[item] = count
		total += count
	}
	return transport.InventoryFrame{Inventory: inventory, TotalInventory: total}
}

func formatHHMM(m entities.Minutes) string {
	h := m / 60
	mm := m % 60
	return fmt.Sprintf("%02d:%02d", h, mm)
}
