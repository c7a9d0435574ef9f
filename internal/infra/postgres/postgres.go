// Package postgres implements the loan, notification and renewal stores on
// PostgreSQL. SQL is built with goqu in prepared form and executed through
// pgx; the same store code runs against the pool and against a transaction.
//
// Timestamps are stored as naive civil time in the service timezone. This
// package is the only place where that conversion happens; everything above
// it works with aware instants.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	dialectPostgres = "postgres"

	tableLoans         = "loans"
	tableEquipments    = "equipments"
	tableNotifications = "notifications"
	tableRenewals      = "renewals"
)

var builder = goqu.Dialect(dialectPostgres)

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so each
// store works unchanged inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPool connects to PostgreSQL and verifies the connection.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return pool, nil
}
