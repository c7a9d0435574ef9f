package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nonthaphat-dev/lendwatch/internal/domain"
)

func storesFor(db querier, loc *time.Location) domain.TxStores {
	return domain.TxStores{
		Loans:         &loanStore{db: db, loc: loc},
		Notifications: &notificationStore{db: db, loc: loc},
		Renewals:      &renewalStore{db: db, loc: loc},
	}
}

// NewStores returns pool-backed stores for read paths that do not need a
// transaction, such as the inbox listing.
func NewStores(pool *pgxpool.Pool, loc *time.Location) domain.TxStores {
	return storesFor(pool, loc)
}

// UnitOfWork runs callbacks inside a single PostgreSQL transaction.
type UnitOfWork struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

func NewUnitOfWork(pool *pgxpool.Pool, loc *time.Location) *UnitOfWork {
	return &UnitOfWork{pool: pool, loc: loc}
}

// WithinTx begins a transaction, hands fn stores bound to it, and commits on
// success. Any error from fn rolls the transaction back in full and is
// returned unchanged so callers can match on sentinel errors.
func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, st domain.TxStores) error) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Rollback after a successful commit returns ErrTxClosed and is ignored;
	// a real rollback failure is logged but must not mask fn's error.
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.WarnContext(ctx, "transaction rollback failed",
				slog.String("error", err.Error()),
			)
		}
	}()

	if err := fn(ctx, storesFor(tx, u.loc)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
