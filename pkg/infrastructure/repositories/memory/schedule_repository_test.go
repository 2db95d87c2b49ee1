package memory

import (
	"context"
	"testing"

	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"

	"github.com/bakeline/production-core/pkg/domain/entities"
)

func TestScheduleRepository_UpsertAndGetByDate(t *testing.T) {
	repo := NewScheduleRepository()
	schedule := &entities.Schedule{
		ID:   "2026-07-30",
		Date: "2026-07-30",
		Batches: []entities.Batch{
			{BatchID: "batch-1", ItemGUID: "croissant"},
		},
	}

	if err := repo.UpsertSchedule(context.Background(), schedule); err != nil {
		t.Fatalf("UpsertSchedule failed: %v", err)
	}

	got, err := repo.GetByDate(context.Background(), "2026-07-30")
	if err != nil {
		t.Fatalf("GetByDate failed: %v", err)
	}
	if len(got.Batches) != 1 || got.Batches[0].BatchID != "batch-1" {
		t.Errorf("expected one batch-1, got %+v", got.Batches)
	}
}

func TestScheduleRepository_GetByDate_NotFound(t *testing.T) {
	repo := NewScheduleRepository()

	_, err := repo.GetByDate(context.Background(), "2026-01-01")
	if !domainerrors.Is(err, domainerrors.NotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestScheduleRepository_UpsertBatch_AddsAndUpdates(t *testing.T) {
	repo := NewScheduleRepository()
	schedule := &entities.Schedule{ID: "2026-07-30", Date: "2026-07-30"}
	if err := repo.UpsertSchedule(context.Background(), schedule); err != nil {
		t.Fatalf("UpsertSchedule failed: %v", err)
	}

	batch := &entities.Batch{BatchID: "batch-1", ItemGUID: "croissant", RackPosition: 2}
	if err := repo.UpsertBatch(context.Background(), "2026-07-30", batch); err != nil {
		t.Fatalf("UpsertBatch (add) failed: %v", err)
	}

	batch.RackPosition = 5
	if err := repo.UpsertBatch(context.Background(), "2026-07-30", batch); err != nil {
		t.Fatalf("UpsertBatch (update) failed: %v", err)
	}

	got, err := repo.GetByDate(context.Background(), "2026-07-30")
	if err != nil {
		t.Fatalf("GetByDate failed: %v", err)
	}
	if len(got.Batches) != 1 {
		t.Fatalf("expected exactly one batch after update, got %d", len(got.Batches))
	}
	if got.Batches[0].RackPosition != 5 {
		t.Errorf("expected rack position 5, got %d", got.Batches[0].RackPosition)
	}
}

func TestScheduleRepository_DeleteBatch(t *testing.T) {
	repo := NewScheduleRepository()
	schedule := &entities.Schedule{
		ID:   "2026-07-30",
		Date: "2026-07-30",
		Batches: []entities.Batch{
			{BatchID: "batch-1"},
			{BatchID: "batch-2"},
		},
	}
	if err := repo.UpsertSchedule(context.Background(), schedule); err != nil {
		t.Fatalf("UpsertSchedule failed: %v", err)
	}

	if err := repo.DeleteBatch(context.Background(), "2026-07-30", "batch-1"); err != nil {
		t.Fatalf("DeleteBatch failed: %v", err)
	}

	got, err := repo.GetByDate(context.Background(), "2026-07-30")
	if err != nil {
		t.Fatalf("GetByDate failed: %v", err)
	}
	if len(got.Batches) != 1 || got.Batches[0].BatchID != "batch-2" {
		t.Errorf("expected only batch-2 to remain, got %+v", got.Batches)
	}

	if err := repo.DeleteBatch(context.Background(), "2026-07-30", "batch-1"); !domainerrors.Is(err, domainerrors.NotFound) {
		t.Errorf("expected NotFound deleting an already-deleted batch, got %v", err)
	}
}
