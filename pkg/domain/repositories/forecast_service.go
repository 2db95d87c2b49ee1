package repositories

import (
	"context"

	"github.com/bakeline/production-core/pkg/domain/entities"
)

// ForecastSvc supplies day-of-week and intraday demand curves. It is an
// external collaborator (spec §1); the Schedule Planner only consumes its
// output.
type ForecastSvc interface {
	DailyForecast(ctx context.Context, date string) (map[entities.ItemGUID]entities.Quantity, error)
	IntradayForecast(ctx context.Context, date string) (map[entities.ItemGUID][]entities.ForecastInterval, error)
}
