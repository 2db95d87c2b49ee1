package commands

import (
	"context"

	"github.com/bakeline/production-core/pkg/domain/entities"
	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"
)

// GenerateSchedule implements schedule.generate (spec §6): runs the
// Schedule Planner for date and persists the result.
func (c *Commands) GenerateSchedule(ctx context.Context, date string) (*entities.Schedule, *domainerrors.Error) {
	return c.planner.Generate(ctx, date, c.specStore, c.forecastSvc, c.scheduleStore)
}

// GetScheduleByDate implements schedule.getByDate (spec §6).
func (c *Commands) GetScheduleByDate(ctx context.Context, date string) (*entities.Schedule, *domainerrors.Error) {
	s, err := c.scheduleStore.GetByDate(ctx, date)
	if err != nil {
		if de, ok := domainerrors.As(err); ok {
			return nil, de
		}
		return nil, domainerrors.Wrap(domainerrors.StoreIOError, "loading schedule", err)
	}
	return s, nil
}
