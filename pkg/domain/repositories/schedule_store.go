package repositories

import (
	"context"

	"github.com/bakeline/production-core/pkg/domain/entities"
)

// ScheduleStore is the durable twin of the abs_schedules collection
// (spec §6). UpsertSchedule is the whole-document write the Planner makes
// on schedule.generate; UpsertBatch is the per-mutation mirror-write the
// Simulation Engine makes, keyed by (scheduleId, batchId) so repeated
// writes are idempotent (spec §5 suspension points).
type ScheduleStore interface {
	GetByDate(ctx context.Context, date string) (*entities.Schedule, error)
	UpsertSchedule(ctx context.Context, schedule *entities.Schedule) error
	UpsertBatch(ctx context.Context, scheduleID string, batch *entities.Batch) error
	DeleteBatch(ctx context.Context, scheduleID string, batchID entities.BatchID) error
}
