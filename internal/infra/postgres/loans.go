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

type loanStore struct {
	db  querier
	loc *time.Location
}

var loanColumns = []any{
	"l.id", "l.borrower_id", "l.equipment_id", "e.name",
	"l.start_at", "l.due_at", "l.returned_at",
	"l.status", "l.reason", "l.created_at",
}

func loanSelect() *goqu.SelectDataset {
	return builder.
		From(goqu.T(tableLoans).As("l")).
		Join(
			goqu.T(tableEquipments).As("e"),
			goqu.On(goqu.I("l.equipment_id").Eq(goqu.I("e.id"))),
		).
		Select(loanColumns...)
}

func (s *loanStore) scanLoan(row pgx.Row) (*domain.Loan, error) {
	var (
		l          domain.Loan
		start      time.Time
		due        time.Time
		returned   *time.Time
		createdAt  time.Time
		statusText string
	)

	err := row.Scan(
		&l.ID, &l.BorrowerID, &l.EquipmentID, &l.EquipmentName,
		&start, &due, &returned,
		&statusText, &l.Reason, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	l.StartAt = fromCivil(start, s.loc)
	l.DueAt = fromCivil(due, s.loc)
	l.ReturnedAt = fromCivilPtr(returned, s.loc)
	l.Status = domain.LoanStatus(statusText)
	l.CreatedAt = fromCivil(createdAt, s.loc)

	return &l, nil
}

func (s *loanStore) Outstanding(ctx context.Context) ([]domain.Loan, error) {
	sql, args, err := loanSelect().
		Where(
			goqu.I("l.returned_at").IsNull(),
			goqu.I("l.status").In(
				domain.LoanStatusApproved.String(),
				domain.LoanStatusRenewalPending.String(),
			),
		).
		Order(goqu.I("l.due_at").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build outstanding loans query: %w", err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding loans: %w", err)
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		l, err := s.scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		loans = append(loans, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read loan rows: %w", err)
	}

	return loans, nil
}

func (s *loanStore) ByID(ctx context.Context, id int64) (*domain.Loan, error) {
	sql, args, err := loanSelect().
		Where(goqu.I("l.id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build loan query: %w", err)
	}

	l, err := s.scanLoan(s.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLoanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load loan %d: %w", id, err)
	}

	return l, nil
}

func (s *loanStore) UpdateDue(ctx context.Context, id int64, due time.Time) error {
	return s.update(ctx, id, goqu.Record{"due_at": toCivil(due, s.loc)})
}

func (s *loanStore) UpdateStatus(ctx context.Context, id int64, status domain.LoanStatus) error {
	return s.update(ctx, id, goqu.Record{"status": status.String()})
}

func (s *loanStore) update(ctx context.Context, id int64, rec goqu.Record) error {
	sql, args, err := builder.
		Update(tableLoans).
		Set(rec).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build loan update: %w", err)
	}

	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update loan %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}

	return nil
}
