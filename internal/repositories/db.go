package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the repositories use. pgxmock pools satisfy it too.
type DB interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

var (
	// ErrNoRowsAffected is returned when a keyed write matched nothing.
	ErrNoRowsAffected = errors.New("no rows affected")
	// ErrApplicationNotPending is returned when approval or rejection finds the application already decided.
	ErrApplicationNotPending = errors.New("application is no longer pending")
)

type scanner interface {
	Scan(dest ...interface{}) error
}
