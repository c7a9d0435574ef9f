package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"

	"github.com/nonthaphat-dev/lendwatch/internal/domain"
)

type renewalStore struct {
	db  querier
	loc *time.Location
}

func (s *renewalStore) Create(ctx context.Context, r *domain.Renewal) error {
	sql, args, err := builder.
		Insert(tableRenewals).
		Rows(goqu.Record{
			"loan_id":    r.LoanID,
			"old_due":    toCivil(r.OldDue, s.loc),
			"new_due":    toCivil(r.NewDue, s.loc),
			"reason":     r.Reason,
			"status":     string(r.Status),
			"created_at": toCivil(r.CreatedAt, s.loc),
		}).
		Returning("id").
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build renewal insert: %w", err)
	}

	if err := s.db.QueryRow(ctx, sql, args...).Scan(&r.ID); err != nil {
		return fmt.Errorf("failed to insert renewal: %w", err)
	}

	return nil
}

func (s *renewalStore) ByID(ctx context.Context, id int64) (*domain.Renewal, error) {
	sql, args, err := builder.
		From(tableRenewals).
		Select("id", "loan_id", "old_due", "new_due", "reason", "approved_by", "status", "created_at").
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build renewal query: %w", err)
	}

	var (
		r         domain.Renewal
		oldDue    time.Time
		newDue    time.Time
		status    string
		createdAt time.Time
	)

	err = s.db.QueryRow(ctx, sql, args...).Scan(
		&r.ID, &r.LoanID, &oldDue, &newDue, &r.Reason, &r.ApprovedBy, &status, &createdAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRenewalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load renewal %d: %w", id, err)
	}

	r.OldDue = fromCivil(oldDue, s.loc)
	r.NewDue = fromCivil(newDue, s.loc)
	r.Status = domain.RenewalStatus(status)
	r.CreatedAt = fromCivil(createdAt, s.loc)

	return &r, nil
}

func (s *renewalStore) PendingExists(ctx context.Context, loanID int64) (bool, error) {
	sql, args, err := builder.
		From(tableRenewals).
		Select(goqu.L("1")).
		Where(
			goqu.C("loan_id").Eq(loanID),
			goqu.C("status").Eq(string(domain.RenewalPending)),
		).
		Limit(1).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("failed to build pending renewal query: %w", err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("failed to query pending renewal: %w", err)
	}
	defer rows.Close()

	exists := rows.Next()
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("failed to read pending renewal rows: %w", err)
	}

	return exists, nil
}

// SetDecision finalizes a pending renewal. The status filter makes the
// transition one-shot: deciding an already-decided renewal affects no rows
// and surfaces as ErrRenewalNotFound.
func (s *renewalStore) SetDecision(ctx context.Context, id int64, status domain.RenewalStatus, approverID int64) error {
	sql, args, err := builder.
		Update(tableRenewals).
		Set(goqu.Record{
			"status":      string(status),
			"approved_by": approverID,
		}).
		Where(
			goqu.C("id").Eq(id),
			goqu.C("status").Eq(string(domain.RenewalPending)),
		).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build renewal decision update: %w", err)
	}

	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to decide renewal %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRenewalNotFound
	}

	return nil
}

func (s *renewalStore) PendingSummaries(ctx context.Context) ([]domain.RenewalSummary, error) {
	sql, args, err := builder.
		From(goqu.T(tableRenewals).As("r")).
		Join(
			goqu.T(tableLoans).As("l"),
			goqu.On(goqu.I("r.loan_id").Eq(goqu.I("l.id"))),
		).
		Join(
			goqu.T(tableEquipments).As("e"),
			goqu.On(goqu.I("l.equipment_id").Eq(goqu.I("e.id"))),
		).
		Select(
			"r.id", "r.loan_id", "l.borrower_id", "l.equipment_id", "e.name",
			"l.start_at", "r.old_due", "r.new_due", "r.reason", "r.created_at",
		).
		Where(goqu.I("r.status").Eq(string(domain.RenewalPending))).
		Order(goqu.I("r.created_at").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build pending summaries query: %w", err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending summaries: %w", err)
	}
	defer rows.Close()

	var summaries []domain.RenewalSummary
	for rows.Next() {
		var (
			sum       domain.RenewalSummary
			startAt   time.Time
			oldDue    time.Time
			newDue    time.Time
			createdAt time.Time
		)

		err := rows.Scan(
			&sum.RenewalID, &sum.LoanID, &sum.BorrowerID, &sum.EquipmentID, &sum.EquipmentName,
			&startAt, &oldDue, &newDue, &sum.Reason, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending summary row: %w", err)
		}

		sum.StartAt = fromCivil(startAt, s.loc)
		sum.OldDue = fromCivil(oldDue, s.loc)
		sum.NewDue = fromCivil(newDue, s.loc)
		sum.CreatedAt = fromCivil(createdAt, s.loc)

		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pending summary rows: %w", err)
	}

	return summaries, nil
}
