package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/duynhne/fishfile-service/internal/core/domain"
)

var recordRenames = map[string]string{
	"locationId": "location_id",
	"waterTemp":  "water_temp",
	"highTemp":   "high_temp",
	"lowTemp":    "low_temp",
}

// The date column is rendered as YYYY-MM-DD regardless of the session DateStyle.
const recordColumns = `id, username, location_id, to_char(date, 'YYYY-MM-DD'), rating, description,
	flies, flow, water_temp, pressure, weather, high_temp, low_temp`

// PgxRecordRepository implements domain.RecordRepository using pgx.
type PgxRecordRepository struct {
	db DB
}

// NewRecordRepository creates a new PgxRecordRepository.
func NewRecordRepository(db DB) *PgxRecordRepository {
	return &PgxRecordRepository{db: db}
}

func scanRecord(row pgx.Row) (domain.Record, error) {
	var rec domain.Record
	err := row.Scan(
		&rec.ID, &rec.Username, &rec.LocationID, &rec.Date, &rec.Rating, &rec.Description,
		&rec.Flies, &rec.Flow, &rec.WaterTemp, &rec.Pressure, &rec.Weather, &rec.HighTemp, &rec.LowTemp,
	)
	return rec, err
}

func collectRecords(rows pgx.Rows) ([]domain.Record, error) {
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Record, error) {
		return scanRecord(row)
	})
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.Record{}
	}
	return records, nil
}

// Create checks the location and user exist and inserts in one transaction.
// The (location_id, date) unique index rejects a second record for the day.
func (r *PgxRecordRepository) Create(ctx context.Context, nr domain.NewRecord) (domain.Record, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Record{}, fmt.Errorf("begin create record: %w", err)
	}
	defer tx.Rollback(ctx)

	ok, err := exists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM locations WHERE id = $1)`, nr.LocationID)
	if err != nil {
		return domain.Record{}, fmt.Errorf("check location %d: %w", nr.LocationID, err)
	}
	if !ok {
		return domain.Record{}, notFound("no location: %d", nr.LocationID)
	}

	ok, err = exists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, nr.Username)
	if err != nil {
		return domain.Record{}, fmt.Errorf("check user %q: %w", nr.Username, err)
	}
	if !ok {
		return domain.Record{}, notFound("no user: %s", nr.Username)
	}

	query := `INSERT INTO records (username, location_id, date, rating, description, flies, flow,
			water_temp, pressure, weather, high_temp, low_temp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + recordColumns

	rec, err := scanRecord(tx.QueryRow(ctx, query,
		nr.Username, nr.LocationID, nr.Date, nr.Rating, nr.Description, nr.Flies, nr.Flow,
		nr.WaterTemp, nr.Pressure, nr.Weather, nr.HighTemp, nr.LowTemp,
	))
	if err != nil {
		switch {
		case isPgError(err, uniqueViolation):
			return domain.Record{}, fmt.Errorf("duplicate record for location %d on %s: %w", nr.LocationID, nr.Date, domain.ErrConflict)
		case isPgError(err, foreignKeyViolation):
			return domain.Record{}, notFound("no location: %d", nr.LocationID)
		}
		return domain.Record{}, fmt.Errorf("insert record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Record{}, fmt.Errorf("commit create record: %w", err)
	}
	return rec, nil
}

// Get returns one record.
func (r *PgxRecordRepository) Get(ctx context.Context, id int64) (domain.Record, error) {
	rec, err := scanRecord(r.db.QueryRow(ctx, `SELECT `+recordColumns+` FROM records WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Record{}, notFound("no record: %d", id)
		}
		return domain.Record{}, fmt.Errorf("query record %d: %w", id, err)
	}
	return rec, nil
}

// FindAllForOwner lists the user's records, newest first.
func (r *PgxRecordRepository) FindAllForOwner(ctx context.Context, username string) ([]domain.Record, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+recordColumns+` FROM records WHERE username = $1 ORDER BY date DESC, id`, username)
	if err != nil {
		return nil, fmt.Errorf("query records of %q: %w", username, err)
	}
	records, err := collectRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}
	return records, nil
}

// FindAllForLocation lists the location's records, newest first.
func (r *PgxRecordRepository) FindAllForLocation(ctx context.Context, locationID int64) ([]domain.Record, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+recordColumns+` FROM records WHERE location_id = $1 ORDER BY date DESC, id`, locationID)
	if err != nil {
		return nil, fmt.Errorf("query records of location %d: %w", locationID, err)
	}
	records, err := collectRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}
	return records, nil
}

// Update applies a partial update to the record.
func (r *PgxRecordRepository) Update(ctx context.Context, id int64, upd domain.RecordUpdate) (domain.Record, error) {
	p, err := SQLForPartialUpdate(upd.Fields(), recordRenames)
	if err != nil {
		return domain.Record{}, err
	}

	query := fmt.Sprintf(`UPDATE records SET %s WHERE id = %s RETURNING %s`,
		p.SetClause(), p.NextPlaceholder(), recordColumns)

	rec, err := scanRecord(r.db.QueryRow(ctx, query, p.Args(id)...))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.Record{}, notFound("no record: %d", id)
		case isPgError(err, uniqueViolation):
			return domain.Record{}, fmt.Errorf("duplicate record for date %s: %w", deref(upd.Date), domain.ErrConflict)
		case isPgError(err, foreignKeyViolation):
			return domain.Record{}, notFound("no location: %d", deref(upd.LocationID))
		}
		return domain.Record{}, fmt.Errorf("update record %d: %w", id, err)
	}
	return rec, nil
}

// Remove deletes the record.
func (r *PgxRecordRepository) Remove(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete record %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("no record: %d", id)
	}
	return nil
}
