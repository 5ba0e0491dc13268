package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/duynhne/fishfile-service/internal/core/domain"
)

var locationRenames = map[string]string{
	"usgsId":  "usgs_id",
	"decLat":  "dec_lat",
	"decLong": "dec_long",
}

const locationColumns = `id, username, name, usgs_id, dec_lat, dec_long, fish`

const locationRecordIDs = `SELECT r.id FROM records AS r WHERE r.location_id = $1 ORDER BY r.id`

// PgxLocationRepository implements domain.LocationRepository using pgx.
type PgxLocationRepository struct {
	db DB
}

// NewLocationRepository creates a new PgxLocationRepository.
func NewLocationRepository(db DB) *PgxLocationRepository {
	return &PgxLocationRepository{db: db}
}

func scanLocation(row pgx.Row) (domain.Location, error) {
	var l domain.Location
	err := row.Scan(&l.ID, &l.Username, &l.Name, &l.UsgsID, &l.DecLat, &l.DecLong, &l.Fish)
	return l, err
}

// Create checks the owner exists and inserts in one transaction. The
// (username, name) unique index rejects duplicates atomically.
func (r *PgxLocationRepository) Create(ctx context.Context, nl domain.NewLocation) (domain.Location, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Location{}, fmt.Errorf("begin create location: %w", err)
	}
	defer tx.Rollback(ctx)

	ok, err := exists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, nl.Username)
	if err != nil {
		return domain.Location{}, fmt.Errorf("check user %q: %w", nl.Username, err)
	}
	if !ok {
		return domain.Location{}, notFound("no user: %s", nl.Username)
	}

	query := `INSERT INTO locations (username, name, usgs_id, dec_lat, dec_long, fish)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + locationColumns

	l, err := scanLocation(tx.QueryRow(ctx, query,
		nl.Username, nl.Name, nl.UsgsID, nl.DecLat, nl.DecLong, nl.Fish,
	))
	if err != nil {
		switch {
		case isPgError(err, uniqueViolation):
			return domain.Location{}, fmt.Errorf("duplicate location for user %s: %s: %w", nl.Username, nl.Name, domain.ErrConflict)
		case isPgError(err, foreignKeyViolation):
			return domain.Location{}, notFound("no user: %s", nl.Username)
		}
		return domain.Location{}, fmt.Errorf("insert location: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Location{}, fmt.Errorf("commit create location: %w", err)
	}
	l.Records = []int64{}
	return l, nil
}

// Get returns the location and its record ids from one snapshot.
func (r *PgxLocationRepository) Get(ctx context.Context, id int64) (domain.Location, error) {
	tx, err := r.db.BeginTx(ctx, snapshotTx)
	if err != nil {
		return domain.Location{}, fmt.Errorf("begin read: %w", err)
	}
	defer tx.Rollback(ctx)

	l, err := scanLocation(tx.QueryRow(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Location{}, notFound("no location: %d", id)
		}
		return domain.Location{}, fmt.Errorf("query location %d: %w", id, err)
	}

	if l.Records, err = collectIDs(ctx, tx, locationRecordIDs, id); err != nil {
		return domain.Location{}, fmt.Errorf("query records of location %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Location{}, fmt.Errorf("commit read: %w", err)
	}
	return l, nil
}

// FindAllForOwner lists the owner's locations by name, each with its record ids.
func (r *PgxLocationRepository) FindAllForOwner(ctx context.Context, username string) ([]domain.Location, error) {
	tx, err := r.db.BeginTx(ctx, snapshotTx)
	if err != nil {
		return nil, fmt.Errorf("begin read: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT `+locationColumns+` FROM locations WHERE username = $1 ORDER BY name`, username)
	if err != nil {
		return nil, fmt.Errorf("query locations of %q: %w", username, err)
	}
	locations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Location, error) {
		return scanLocation(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan locations: %w", err)
	}

	for i := range locations {
		ids, err := collectIDs(ctx, tx, locationRecordIDs, locations[i].ID)
		if err != nil {
			return nil, fmt.Errorf("query records of location %d: %w", locations[i].ID, err)
		}
		locations[i].Records = ids
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit read: %w", err)
	}
	if locations == nil {
		locations = []domain.Location{}
	}
	return locations, nil
}

// Update applies a partial update to the location and returns it with its
// record ids, read in the same transaction.
func (r *PgxLocationRepository) Update(ctx context.Context, id int64, upd domain.LocationUpdate) (domain.Location, error) {
	p, err := SQLForPartialUpdate(upd.Fields(), locationRenames)
	if err != nil {
		return domain.Location{}, err
	}

	query := fmt.Sprintf(`UPDATE locations SET %s WHERE id = %s RETURNING %s`,
		p.SetClause(), p.NextPlaceholder(), locationColumns)

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Location{}, fmt.Errorf("begin update location: %w", err)
	}
	defer tx.Rollback(ctx)

	l, err := scanLocation(tx.QueryRow(ctx, query, p.Args(id)...))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.Location{}, notFound("no location: %d", id)
		case isPgError(err, uniqueViolation):
			return domain.Location{}, fmt.Errorf("duplicate location name: %s: %w", deref(upd.Name), domain.ErrConflict)
		}
		return domain.Location{}, fmt.Errorf("update location %d: %w", id, err)
	}

	if l.Records, err = collectIDs(ctx, tx, locationRecordIDs, id); err != nil {
		return domain.Location{}, fmt.Errorf("query records of location %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Location{}, fmt.Errorf("commit update location: %w", err)
	}
	return l, nil
}

// Remove deletes the location; its records cascade.
func (r *PgxLocationRepository) Remove(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("no location: %d", id)
	}
	return nil
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
