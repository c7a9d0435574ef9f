package renewal

import (
	"context"
	"fmt"
	"log/slog"

	"time"

	"github.com/nonthaphat-dev/lendwatch/internal/clock"
	"github.com/nonthaphat-dev/lendwatch/internal/domain"
)

// Service is the renewal workflow: borrowers request a due-date extension,
// approvers decide it. Approval moves the loan's due timestamp so the next
// escalation pass re-evaluates the loan from the new date. Notifications
// already fired under the old due date are kept as history, not cleared.
type Service struct {
	uow domain.UnitOfWork
	clk clock.Clock
}

func NewService(uow domain.UnitOfWork, clk clock.Clock) *Service {
	return &Service{uow: uow, clk: clk}
}

// Create files a pending renewal for the loan and flips the loan's visible
// status to renewal_pending. The due timestamp itself does not change until
// the request is approved.
func (s *Service) Create(ctx context.Context, loanID int64, oldDue, newDue time.Time, reason string, actorID int64) (*domain.Renewal, error) {
	if !newDue.After(oldDue) {
		return nil, domain.ErrRenewalWindowInvalid
	}

	renewal := &domain.Renewal{
		LoanID:    loanID,
		OldDue:    oldDue,
		NewDue:    newDue,
		Reason:    reason,
		Status:    domain.RenewalPending,
		CreatedAt: s.clk.Now(),
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, st domain.TxStores) error {
		if _, err := st.Loans.ByID(ctx, loanID); err != nil {
			return err
		}

		pending, err := st.Renewals.PendingExists(ctx, loanID)
		if err != nil {
			return fmt.Errorf("check pending renewal: %w", err)
		}
		if pending {
			return domain.ErrRenewalPending
		}

		if err := st.Renewals.Create(ctx, renewal); err != nil {
			return fmt.Errorf("create renewal: %w", err)
		}
		if err := st.Loans.UpdateStatus(ctx, loanID, domain.LoanStatusRenewalPending); err != nil {
			return fmt.Errorf("mark loan renewal_pending: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "renewal requested",
		slog.Int64("renewal_id", renewal.ID),
		slog.Int64("loan_id", loanID),
		slog.Int64("actor_id", actorID),
		slog.Time("new_due", newDue),
	)
	return renewal, nil
}

// Decide resolves a pending renewal. On approval the loan's due timestamp
// moves to the requested date and the loan returns to approved-active; on
// rejection only the status is restored.
func (s *Service) Decide(ctx context.Context, renewalID int64, approve bool, approverID int64) (*domain.Renewal, error) {
	var decided *domain.Renewal

	err := s.uow.WithinTx(ctx, func(ctx context.Context, st domain.TxStores) error {
		renewal, err := st.Renewals.ByID(ctx, renewalID)
		if err != nil {
			return err
		}

		status := domain.RenewalRejected
		if approve {
			status = domain.RenewalApproved
		}
		if err := st.Renewals.SetDecision(ctx, renewalID, status, approverID); err != nil {
			return fmt.Errorf("record decision: %w", err)
		}

		if approve {
			if err := st.Loans.UpdateDue(ctx, renewal.LoanID, renewal.NewDue); err != nil {
				return fmt.Errorf("move due date: %w", err)
			}
		}
		if err := st.Loans.UpdateStatus(ctx, renewal.LoanID, domain.LoanStatusApproved); err != nil {
			return fmt.Errorf("restore loan status: %w", err)
		}

		renewal.Status = status
		renewal.ApprovedBy = &approverID
		decided = renewal
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "renewal decided",
		slog.Int64("renewal_id", renewalID),
		slog.Bool("approved", approve),
		slog.Int64("approver_id", approverID),
	)
	return decided, nil
}

// PendingSummaries lists undecided requests joined with their loans, for the
// approver screen.
func (s *Service) PendingSummaries(ctx context.Context) ([]domain.RenewalSummary, error) {
	var summaries []domain.RenewalSummary
	err := s.uow.WithinTx(ctx, func(ctx context.Context, st domain.TxStores) error {
		var err error
		summaries, err = st.Renewals.PendingSummaries(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list pending renewals: %w", err)
	}
	return summaries, nil
}
