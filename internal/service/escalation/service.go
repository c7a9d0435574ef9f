package escalation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nonthaphat-dev/lendwatch/internal/clock"
	"github.com/nonthaphat-dev/lendwatch/internal/domain"
	"github.com/nonthaphat-dev/lendwatch/internal/observability/metrics"
	"github.com/nonthaphat-dev/lendwatch/internal/service/tier"
)

const dueDateLayout = "2006-01-02 15:04"

// Service is the escalation engine. One RunPass evaluates every outstanding
// loan against a single clock snapshot, creates the tier notifications that
// are due, closes out superseded lower tiers, and commits everything as one
// transaction. A failed pass rolls back whole; the next scheduled tick
// retries it and same-day idempotency prevents duplicate alerts.
type Service struct {
	uow        domain.UnitOfWork
	clk        clock.Clock
	classifier *tier.Classifier
	metrics    *metrics.EscalationMetrics
	recorder   domain.PassRecorder
}

func NewService(
	uow domain.UnitOfWork,
	clk clock.Clock,
	classifier *tier.Classifier,
	escalationMetrics *metrics.EscalationMetrics,
	recorder domain.PassRecorder,
) *Service {
	return &Service{
		uow:        uow,
		clk:        clk,
		classifier: classifier,
		metrics:    escalationMetrics,
		recorder:   recorder,
	}
}

// RunPass executes one full escalation pass and returns its summary.
func (s *Service) RunPass(ctx context.Context) (*Result, error) {
	now := s.clk.Now()
	result := &Result{RunID: uuid.NewString(), StartedAt: now}
	started := time.Now()

	slog.DebugContext(ctx, "starting escalation pass",
		slog.String("run_id", result.RunID),
		slog.Time("now", now),
	)

	err := s.uow.WithinTx(ctx, func(ctx context.Context, st domain.TxStores) error {
		loans, err := st.Loans.Outstanding(ctx)
		if err != nil {
			return fmt.Errorf("load outstanding loans: %w", err)
		}

		dayStart := clock.StartOfDay(now)
		dayEnd := dayStart.AddDate(0, 0, 1)

		for i := range loans {
			loan := &loans[i]
			if !loan.Outstanding() {
				continue
			}
			result.Evaluated++

			t := s.classifier.Classify(now, loan.DueAt)
			if !t.Alertable() {
				continue
			}

			if err := s.escalate(ctx, st, now, dayStart, dayEnd, loan, t, result); err != nil {
				return err
			}
		}
		return nil
	})

	result.Duration = time.Since(started)
	s.metrics.RecordPass(ctx, result.Duration, err != nil)

	if err != nil {
		slog.ErrorContext(ctx, "escalation pass rolled back",
			slog.String("run_id", result.RunID),
			slog.Time("pass_started_at", now),
			slog.String("error", err.Error()),
		)
		s.record(ctx, result, true)
		return nil, fmt.Errorf("escalation pass %s: %w", result.RunID, err)
	}

	slog.InfoContext(ctx, "escalation pass completed",
		slog.String("run_id", result.RunID),
		slog.Int("evaluated", result.Evaluated),
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped),
		slog.Int64("superseded_closed", result.SupersededClosed),
		slog.Int64("duration_ms", result.Duration.Milliseconds()),
	)
	s.record(ctx, result, false)
	return result, nil
}

func (s *Service) escalate(
	ctx context.Context,
	st domain.TxStores,
	now, dayStart, dayEnd time.Time,
	loan *domain.Loan,
	t domain.Tier,
	result *Result,
) error {
	tag := t.Tag()

	exists, err := st.Notifications.ExistsInWindow(ctx, loan.BorrowerID, tag, loan.EquipmentID, dayStart, dayEnd)
	if err != nil {
		return fmt.Errorf("idempotency check for %s: %w", tag, err)
	}
	if exists {
		// Already alerted at this tier today. Normal skip, never an error.
		result.Skipped++
		s.metrics.RecordSkipped(ctx, tag.String())
		slog.DebugContext(ctx, "skipping same-day duplicate",
			slog.String("tag", tag.String()),
			slog.Int64("loan_id", loan.ID),
			slog.Int64("recipient_id", loan.BorrowerID),
		)
		return nil
	}

	notification := &domain.Notification{
		RecipientID: loan.BorrowerID,
		Channel:     domain.ChannelSystem,
		Tag:         tag,
		Payload:     payloadFor(loan, t),
		CreatedAt:   now,
		Status:      domain.NotificationUnread,
	}
	if err := st.Notifications.Create(ctx, notification); err != nil {
		return fmt.Errorf("create %s notification: %w", tag, err)
	}

	result.Created++
	switch t {
	case domain.TierDueSoon:
		result.DueSoonCreated++
	case domain.TierDueVerySoon:
		result.DueVerySoonCreated++
	case domain.TierOverdue:
		result.OverdueCreated++
	}
	s.metrics.RecordCreated(ctx, tag.String())

	if lower := t.Supersedes(); len(lower) > 0 {
		closed, err := st.Notifications.MarkTagsRead(ctx, loan.BorrowerID, loan.EquipmentID, lower)
		if err != nil {
			return fmt.Errorf("close superseded notifications for %s: %w", tag, err)
		}
		result.SupersededClosed += closed
	}

	slog.InfoContext(ctx, "notification created",
		slog.String("tag", tag.String()),
		slog.Int64("loan_id", loan.ID),
		slog.Int64("recipient_id", loan.BorrowerID),
		slog.Int64("equipment_id", loan.EquipmentID),
	)
	return nil
}

func (s *Service) record(ctx context.Context, result *Result, failed bool) {
	if s.recorder == nil {
		return
	}
	rec := domain.PassRecord{
		RunID:              result.RunID,
		StartedAt:          result.StartedAt,
		Duration:           result.Duration,
		Evaluated:          result.Evaluated,
		Created:            result.Created,
		Skipped:            result.Skipped,
		DueSoonCreated:     result.DueSoonCreated,
		DueVerySoonCreated: result.DueVerySoonCreated,
		OverdueCreated:     result.OverdueCreated,
		Failed:             failed,
	}
	if err := s.recorder.RecordPass(ctx, rec); err != nil {
		slog.WarnContext(ctx, "failed to record pass summary",
			slog.String("run_id", result.RunID),
			slog.String("error", err.Error()),
		)
	}
}

func payloadFor(loan *domain.Loan, t domain.Tier) domain.NotificationPayload {
	due := loan.DueAt.Format(dueDateLayout)

	var message string
	switch t {
	case domain.TierDueVerySoon:
		message = fmt.Sprintf("%s is due back within 30 minutes (due %s).", loan.EquipmentName, due)
	case domain.TierOverdue:
		message = fmt.Sprintf("%s was due %s and has not been returned. Please return it on the next desk day.", loan.EquipmentName, due)
	default:
		message = fmt.Sprintf("Please return %s before %02d:00 (due %s).", loan.EquipmentName, clock.CutoffHour, due)
	}

	return domain.NotificationPayload{
		EquipmentID:   loan.EquipmentID,
		EquipmentName: loan.EquipmentName,
		DueDate:       due,
		Message:       message,
	}
}
