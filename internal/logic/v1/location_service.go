package v1

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/fishfile-service/internal/core/domain"
	"github.com/duynhne/fishfile-service/middleware"
)

// LocationService manages the locations of one owner at a time. Every
// id-addressed call is scoped to the owner: a location that exists but
// belongs to someone else is reported as not found.
type LocationService struct {
	locations domain.LocationRepository
}

// NewLocationService creates a new LocationService.
func NewLocationService(locations domain.LocationRepository) *LocationService {
	return &LocationService{locations: locations}
}

// Create adds a location owned by username.
func (s *LocationService) Create(ctx context.Context, username string, nl domain.NewLocation) (domain.Location, error) {
	ctx, span := middleware.StartSpan(ctx, "location.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
		attribute.String("location.name", nl.Name),
	))
	defer span.End()

	nl.Username = username
	l, err := s.locations.Create(ctx, nl)
	if err != nil {
		span.RecordError(err)
		return domain.Location{}, fmt.Errorf("create location: %w", err)
	}
	span.SetAttributes(attribute.Int64("location.id", l.ID))
	return l, nil
}

// Get returns one of the owner's locations with its record ids.
func (s *LocationService) Get(ctx context.Context, username string, id int64) (domain.Location, error) {
	ctx, span := middleware.StartSpan(ctx, "location.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
		attribute.Int64("location.id", id),
	))
	defer span.End()

	l, err := s.owned(ctx, username, id)
	if err != nil {
		span.RecordError(err)
		return domain.Location{}, err
	}
	return l, nil
}

// FindAllForOwner lists the owner's locations by name.
func (s *LocationService) FindAllForOwner(ctx context.Context, username string) ([]domain.Location, error) {
	ctx, span := middleware.StartSpan(ctx, "location.find_all", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
	))
	defer span.End()

	locations, err := s.locations.FindAllForOwner(ctx, username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locations, nil
}

// Update applies a partial update to one of the owner's locations.
func (s *LocationService) Update(ctx context.Context, username string, id int64, upd domain.LocationUpdate) (domain.Location, error) {
	ctx, span := middleware.StartSpan(ctx, "location.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
		attribute.Int64("location.id", id),
	))
	defer span.End()

	if _, err := s.owned(ctx, username, id); err != nil {
		span.RecordError(err)
		return domain.Location{}, err
	}
	l, err := s.locations.Update(ctx, id, upd)
	if err != nil {
		span.RecordError(err)
		return domain.Location{}, fmt.Errorf("update location: %w", err)
	}
	return l, nil
}

// Remove deletes one of the owner's locations and its records.
func (s *LocationService) Remove(ctx context.Context, username string, id int64) error {
	ctx, span := middleware.StartSpan(ctx, "location.remove", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
		attribute.Int64("location.id", id),
	))
	defer span.End()

	if _, err := s.owned(ctx, username, id); err != nil {
		span.RecordError(err)
		return err
	}
	if err := s.locations.Remove(ctx, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("remove location: %w", err)
	}
	return nil
}

func (s *LocationService) owned(ctx context.Context, username string, id int64) (domain.Location, error) {
	return ownedLocation(ctx, s.locations, username, id)
}

// ownedLocation loads a location and hides it unless username owns it.
func ownedLocation(ctx context.Context, locations domain.LocationRepository, username string, id int64) (domain.Location, error) {
	l, err := locations.Get(ctx, id)
	if err != nil {
		return domain.Location{}, fmt.Errorf("get location: %w", err)
	}
	if l.Username != username {
		return domain.Location{}, fmt.Errorf("no location: %d: %w", id, domain.ErrNotFound)
	}
	return l, nil
}
