package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/duynhne/fishfile-service/internal/core/domain"
)

// userRenames maps API field names to users columns where they differ.
var userRenames = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"isAdmin":   "is_admin",
}

const userColumns = `username, first_name, last_name, email, is_admin`

// PgxUserRepository implements domain.UserRepository using pgx.
type PgxUserRepository struct {
	db DB
}

// NewUserRepository creates a new PgxUserRepository.
func NewUserRepository(db DB) *PgxUserRepository {
	return &PgxUserRepository{db: db}
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin)
	return u, err
}

// Create inserts a new user. The username primary key makes the duplicate
// check atomic with the insert.
func (r *PgxUserRepository) Create(ctx context.Context, nu domain.NewUser) (domain.User, error) {
	query := `INSERT INTO users (username, password, first_name, last_name, email, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRow(ctx, query,
		nu.Username, nu.Password, nu.FirstName, nu.LastName, nu.Email, nu.IsAdmin,
	))
	if err != nil {
		if isPgError(err, uniqueViolation) {
			return domain.User{}, fmt.Errorf("duplicate username: %s: %w", nu.Username, domain.ErrConflict)
		}
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Get returns the user with its location and record ids, read from one snapshot.
func (r *PgxUserRepository) Get(ctx context.Context, username string) (domain.User, error) {
	tx, err := r.db.BeginTx(ctx, snapshotTx)
	if err != nil {
		return domain.User{}, fmt.Errorf("begin read: %w", err)
	}
	defer tx.Rollback(ctx)

	u, err := scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, notFound("no user: %s", username)
		}
		return domain.User{}, fmt.Errorf("query user %q: %w", username, err)
	}

	u.Locations, err = collectIDs(ctx, tx, `SELECT l.id FROM locations AS l WHERE l.username = $1 ORDER BY l.id`, username)
	if err != nil {
		return domain.User{}, fmt.Errorf("query locations of %q: %w", username, err)
	}
	u.Records, err = collectIDs(ctx, tx, `SELECT r.id FROM records AS r WHERE r.username = $1 ORDER BY r.id`, username)
	if err != nil {
		return domain.User{}, fmt.Errorf("query records of %q: %w", username, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.User{}, fmt.Errorf("commit read: %w", err)
	}
	return u, nil
}

// FindAll returns all users ordered by username.
func (r *PgxUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.User, error) {
		return scanUser(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// GetCredentials returns the user and its password hash.
func (r *PgxUserRepository) GetCredentials(ctx context.Context, username string) (domain.User, string, error) {
	query := `SELECT password, ` + userColumns + ` FROM users WHERE username = $1`

	var (
		u    domain.User
		hash string
	)
	err := r.db.QueryRow(ctx, query, username).Scan(
		&hash, &u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, "", notFound("no user: %s", username)
		}
		return domain.User{}, "", fmt.Errorf("query user %q: %w", username, err)
	}
	return u, hash, nil
}

// Update applies a partial update. The RETURNING list omits the password.
func (r *PgxUserRepository) Update(ctx context.Context, username string, upd domain.UserUpdate) (domain.User, error) {
	p, err := SQLForPartialUpdate(upd.Fields(), userRenames)
	if err != nil {
		return domain.User{}, err
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE username = %s RETURNING %s`,
		p.SetClause(), p.NextPlaceholder(), userColumns)

	u, err := scanUser(r.db.QueryRow(ctx, query, p.Args(username)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, notFound("no user: %s", username)
		}
		return domain.User{}, fmt.Errorf("update user %q: %w", username, err)
	}
	return u, nil
}

// Remove deletes the user; locations and records cascade.
func (r *PgxUserRepository) Remove(ctx context.Context, username string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("delete user %q: %w", username, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("no user: %s", username)
	}
	return nil
}
