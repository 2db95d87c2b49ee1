package memory

import (
	"context"

	domainerrors "github.com/bakeline/production-core/pkg/domain/errors"

	"github.com/bakeline/production-core/pkg/domain/entities"
)

// ForecastService is an in-memory ForecastSvc, loaded once from the CSV
// forecast files and keyed by date the same way SpecRepository keys by
// ItemGUID.
type ForecastService struct {
	daily    map[string]map[entities.ItemGUID]entities.Quantity
	intraday map[string]map[entities.ItemGUID][]entities.ForecastInterval
}

// NewForecastService wraps the maps produced by the CSV loader's
// LoadDailyForecast/LoadIntradayForecast.
func NewForecastService(
	daily map[string]map[entities.ItemGUID]entities.Quantity,
	intraday map[string]map[entities.ItemGUID][]entities.ForecastInterval,
) *ForecastService {
	return &ForecastService{daily: daily, intraday: intraday}
}

// DailyForecast returns the per-item daily targets for date.
func (f *ForecastService) DailyForecast(ctx context.Context, date string) (map[entities.ItemGUID]entities.Quantity, error) {
	forecast, ok := f.daily[date]
	if !ok {
		return nil, domainerrors.Newf(domainerrors.NotFound, "no daily forecast for date: %s", date)
	}
	return forecast, nil
}

// IntradayForecast returns the per-item demand curves for date.
func (f *ForecastService) IntradayForecast(ctx context.Context, date string) (map[entities.ItemGUID][]entities.ForecastInterval, error) {
	forecast, ok := f.intraday[date]
	if !ok {
		return nil, domainerrors.Newf(domainerrors.NotFound, "no intraday forecast for date: %s", date)
	}
	return forecast, nil
}
