package weather

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/duynhne/fishfile-service/internal/core/domain"
)

// Provider is the pair of calls the Aggregator needs. *Client implements it.
type Provider interface {
	Current(ctx context.Context, lat, long float64) (CurrentConditions, error)
	Forecast(ctx context.Context, lat, long float64) ([]DayForecast, error)
}

// Aggregator merges current conditions with the forecast.
type Aggregator struct {
	provider Provider
}

// NewAggregator creates a new Aggregator.
func NewAggregator(provider Provider) *Aggregator {
	return &Aggregator{provider: provider}
}

// Get fetches current conditions and the forecast concurrently. Day 0 of the
// forecast supplies the current high, low and precipitation chance, and
// MinTempWeek is the lowest forecast low by numeric value. If either call
// fails, Get returns that error and no report.
func (a *Aggregator) Get(ctx context.Context, lat, long float64) (Report, error) {
	var (
		current  CurrentConditions
		forecast []DayForecast
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = a.provider.Current(gctx, lat, long)
		return err
	})
	g.Go(func() error {
		var err error
		forecast, err = a.provider.Forecast(gctx, lat, long)
		return err
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	if len(forecast) == 0 {
		return Report{}, domain.NewUpstreamError("weather provider returned no forecast")
	}

	today := forecast[0]
	current.HighTemp = today.HighTemp
	current.LowTemp = today.LowTemp
	current.PrecipChance = today.PrecipChance
	current.MinTempWeek = minLowTemp(forecast)

	return Report{Current: current, Forecast: forecast}, nil
}

// minLowTemp returns the LowTemp with the smallest numeric value, keeping
// the first on ties. Values that do not parse as numbers are ignored.
func minLowTemp(days []DayForecast) string {
	var (
		minStr string
		minVal float64
		found  bool
	)
	for _, d := range days {
		v, err := strconv.ParseFloat(d.LowTemp, 64)
		if err != nil {
			continue
		}
		if !found || v < minVal {
			minStr, minVal, found = d.LowTemp, v, true
		}
	}
	return minStr
}
