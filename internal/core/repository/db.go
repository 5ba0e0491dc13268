package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/duynhne/fishfile-service/internal/core/domain"
)

// DB is the subset of *pgxpool.Pool the repositories use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// SQLSTATE codes mapped to domain error kinds.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// snapshotTx is used for multi-query reads so that a row and its child ids
// come from the same point-in-time view.
var snapshotTx = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// querier is implemented by both DB and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// collectIDs runs a single-column id query.
func collectIDs(ctx context.Context, q querier, sql string, arg any) ([]int64, error) {
	rows, err := q.Query(ctx, sql, arg)
	if err != nil {
		return nil, err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

// exists runs a SELECT EXISTS(...) query.
func exists(ctx context.Context, q querier, sql string, arg any) (bool, error) {
	var ok bool
	if err := q.QueryRow(ctx, sql, arg).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func notFound(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, domain.ErrNotFound)...)
}
