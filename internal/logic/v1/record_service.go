package v1

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/fishfile-service/internal/core/domain"
	"github.com/duynhne/fishfile-service/middleware"
)

// RecordService manages the records of one owner at a time, scoped the
// same way as LocationService. A record may only point at a location
// owned by the same user.
type RecordService struct {
	records   domain.RecordRepository
	locations domain.LocationRepository
}

// NewRecordService creates a new RecordService.
func NewRecordService(records domain.RecordRepository, locations domain.LocationRepository) *RecordService {
	return &RecordService{records: records, locations: locations}
}

// Create adds a record at one of the owner's locations.
func (s *RecordService) Create(ctx context.Context, username string, nr domain.NewRecord) (domain.Record, error) {
	ctx, span := middleware.StartSpan(ctx, "record.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
		attribute.Int64("location.id", nr.LocationID),
		attribute.String("record.date", nr.Date),
	))
	defer span.End()

	if _, err := ownedLocation(ctx, s.locations, username, nr.LocationID); err != nil {
		span.RecordError(err)
		return domain.Record{}, err
	}

	nr.Username = username
	rec, err := s.records.Create(ctx, nr)
	if err != nil {
		span.RecordError(err)
		return domain.Record{}, fmt.Errorf("create record: %w", err)
	}
	span.SetAttributes(attribute.Int64("record.id", rec.ID))
	return rec, nil
}

// Get returns one of the owner's records.
func (s *RecordService) Get(ctx context.Context, username string, id int64) (domain.Record, error) {
	ctx, span := middleware.StartSpan(ctx, "record.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
		attribute.Int64("record.id", id),
	))
	defer span.End()

	rec, err := s.owned(ctx, username, id)
	if err != nil {
		span.RecordError(err)
		return domain.Record{}, err
	}
	return rec, nil
}

// FindAllForOwner lists all of the owner's records, newest first.
func (s *RecordService) FindAllForOwner(ctx context.Context, username string) ([]domain.Record, error) {
	ctx, span := middleware.StartSpan(ctx, "record.find_all", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
	))
	defer span.End()

	records, err := s.records.FindAllForOwner(ctx, username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

// FindAllForLocation lists the records of one of the owner's locations.
func (s *RecordService) FindAllForLocation(ctx context.Context, username string, locationID int64) ([]domain.Record, error) {
	ctx, span := middleware.StartSpan(ctx, "record.find_all_for_location", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
		attribute.Int64("location.id", locationID),
	))
	defer span.End()

	if _, err := ownedLocation(ctx, s.locations, username, locationID); err != nil {
		span.RecordError(err)
		return nil, err
	}
	records, err := s.records.FindAllForLocation(ctx, locationID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

// Update applies a partial update to one of the owner's records. Moving it
// to another location requires owning that location too.
func (s *RecordService) Update(ctx context.Context, username string, id int64, upd domain.RecordUpdate) (domain.Record, error) {
	ctx, span := middleware.StartSpan(ctx, "record.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
		attribute.Int64("record.id", id),
	))
	defer span.End()

	if _, err := s.owned(ctx, username, id); err != nil {
		span.RecordError(err)
		return domain.Record{}, err
	}
	if upd.LocationID != nil {
		if _, err := ownedLocation(ctx, s.locations, username, *upd.LocationID); err != nil {
			span.RecordError(err)
			return domain.Record{}, err
		}
	}

	rec, err := s.records.Update(ctx, id, upd)
	if err != nil {
		span.RecordError(err)
		return domain.Record{}, fmt.Errorf("update record: %w", err)
	}
	return rec, nil
}

// Remove deletes one of the owner's records.
func (s *RecordService) Remove(ctx context.Context, username string, id int64) error {
	ctx, span := middleware.StartSpan(ctx, "record.remove", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
		attribute.Int64("record.id", id),
	))
	defer span.End()

	if _, err := s.owned(ctx, username, id); err != nil {
		span.RecordError(err)
		return err
	}
	if err := s.records.Remove(ctx, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("remove record: %w", err)
	}
	return nil
}

func (s *RecordService) owned(ctx context.Context, username string, id int64) (domain.Record, error) {
	rec, err := s.records.Get(ctx, id)
	if err != nil {
		return domain.Record{}, fmt.Errorf("get record: %w", err)
	}
	if rec.Username != username {
		return domain.Record{}, fmt.Errorf("no record: %d: %w", id, domain.ErrNotFound)
	}
	return rec, nil
}
