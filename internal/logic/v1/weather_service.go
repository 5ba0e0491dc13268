package v1

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/fishfile-service/internal/core/domain"
	"github.com/duynhne/fishfile-service/internal/logger"
	"github.com/duynhne/fishfile-service/internal/weather"
	"github.com/duynhne/fishfile-service/middleware"
)

// WeatherAggregator produces a weather report for a coordinate pair.
type WeatherAggregator interface {
	Get(ctx context.Context, lat, long float64) (weather.Report, error)
}

// WeatherService reports the weather at a user's location.
type WeatherService struct {
	locations domain.LocationRepository
	weather   WeatherAggregator
}

// NewWeatherService creates a new WeatherService.
func NewWeatherService(locations domain.LocationRepository, agg WeatherAggregator) *WeatherService {
	return &WeatherService{locations: locations, weather: agg}
}

// ForLocation aggregates current conditions and the week's forecast at one
// of the owner's locations. Provider failures are returned unchanged as
// *domain.UpstreamError.
func (s *WeatherService) ForLocation(ctx context.Context, username string, locationID int64) (weather.Report, error) {
	ctx, span := middleware.StartSpan(ctx, "weather.for_location", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
		attribute.Int64("location.id", locationID),
	))
	defer span.End()

	l, err := ownedLocation(ctx, s.locations, username, locationID)
	if err != nil {
		span.RecordError(err)
		return weather.Report{}, err
	}

	report, err := s.weather.Get(ctx, l.DecLat, l.DecLong)
	if err != nil {
		span.RecordError(err)
		logger.FromContext(ctx).Warn().Err(err).Int64("location_id", locationID).Msg("Weather lookup failed")
		return weather.Report{}, err
	}
	return report, nil
}
