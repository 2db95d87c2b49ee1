package memory

import (
	"context"
	"sync"

	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"

	"github.com/bakeline/production-core/pkg/domain/entities"
	"github.com/bakeline/production-core/pkg/domain/repositories"
)

// ScheduleRepository is an in-memory ScheduleStore, the durable twin the
// Planner writes on schedule.generate and the Simulation Engine
// mirror-writes on every accepted mutation (spec §5 suspension points).
// Batches are indexed per-date so UpsertBatch/DeleteBatch don't have to
// rewrite the whole schedule document.
type ScheduleRepository struct {
	mutex     sync.RWMutex
	schedules map[string]*entities.Schedule
	batchIdx  map[string]map[entities.BatchID]int // date -> batchID -> index into Schedule.Batches
}

// NewScheduleRepository creates an empty in-memory schedule repository.
func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{
		schedules: make(map[string]*entities.Schedule),
		batchIdx:  make(map[string]map[entities.BatchID]int),
	}
}

var _ repositories.ScheduleStore = (*ScheduleRepository)(nil)

// GetByDate returns the schedule stored for a date.
func (r *ScheduleRepository) GetByDate(ctx context.Context, date string) (*entities.Schedule, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	schedule, exists := r.schedules[date]
	if !exists {
		return nil, domainerrors.Newf(domainerrors.NotFound, "schedule not found for date %s", date)
	}
	return schedule, nil
}

// UpsertSchedule replaces the whole document for schedule.Date, rebuilding
// the per-date batch index.
func (r *ScheduleRepository) UpsertSchedule(ctx context.Context, schedule *entities.Schedule) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.schedules[schedule.Date] = schedule

	idx := make(map[entities.BatchID]int, len(schedule.Batches))
	for i, batch := range schedule.Batches {
		idx[batch.BatchID] = i
	}
	r.batchIdx[schedule.Date] = idx
	return nil
}

// UpsertBatch mirror-writes a single batch into the schedule identified by
// scheduleID (the schedule's Date), adding it if new.
func (r *ScheduleRepository) UpsertBatch(ctx context.Context, scheduleID string, batch *entities.Batch) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	schedule, exists := r.schedules[scheduleID]
	if !exists {
		return domainerrors.Newf(domainerrors.NotFound, "schedule not found for date %s", scheduleID)
	}

	idx := r.batchIdx[scheduleID]
	if pos, ok := idx[batch.BatchID]; ok {
		schedule.Batches[pos] = *batch
		return nil
	}

	idx[batch.BatchID] = len(schedule.Batches)
	schedule.Batches = append(schedule.Batches, *batch)
	return nil
}

// DeleteBatch removes a batch from the schedule identified by scheduleID.
func (r *ScheduleRepository) DeleteBatch(ctx context.Context, scheduleID string, batchID entities.BatchID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	schedule, exists := r.schedules[scheduleID]
	if !exists {
		return domainerrors.Newf(domainerrors.NotFound, "schedule not found for date %s", scheduleID)
	}

	idx := r.batchIdx[scheduleID]
	pos, ok := idx[batchID]
	if !ok {
		return domainerrors.Newf(domainerrors.NotFound, "batch not found: %s", batchID)
	}

	last := len(schedule.Batches) - 1
	removed := schedule.Batches[pos].BatchID
	schedule.Batches[pos] = schedule.Batches[last]
	schedule.Batches = schedule.Batches[:last]
	delete(idx, removed)
	if pos != last {
		idx[schedule.Batches[pos].BatchID] = pos
	}
	return nil
}
