package escalation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonthaphat-dev/lendwatch/internal/domain"
	"github.com/nonthaphat-dev/lendwatch/internal/service/tier"
	"github.com/nonthaphat-dev/lendwatch/internal/testutil"
)

var bangkok = time.FixedZone("ICT", 7*60*60)

func at(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, bangkok)
}

func newTestService(db *testutil.MemDB, clk *testutil.FakeClock) *Service {
	return NewService(db, clk, tier.NewClassifier(), nil, nil)
}

func cameraLoan(due time.Time) domain.Loan {
	return domain.Loan{
		ID:            1,
		BorrowerID:    42,
		EquipmentID:   7,
		EquipmentName: "Sony A6400",
		StartAt:       due.AddDate(0, 0, -3),
		DueAt:         due,
		Status:        domain.LoanStatusApproved,
	}
}

func TestRunPassCreatesDueSoonNotification(t *testing.T) {
	db := testutil.NewMemDB()
	db.AddLoan(cameraLoan(at(2025, 10, 1, 17, 45)))
	clk := testutil.NewFakeClock(at(2025, 10, 1, 17, 20))

	result, err := newTestService(db, clk).RunPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Evaluated)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.DueSoonCreated)
	assert.NotEmpty(t, result.RunID)

	require.Len(t, db.Notifications, 1)
	n := db.Notifications[0]
	assert.Equal(t, domain.TagDueSoon, n.Tag)
	assert.Equal(t, int64(42), n.RecipientID)
	assert.Equal(t, domain.ChannelSystem, n.Channel)
	assert.Equal(t, domain.NotificationUnread, n.Status)
	assert.Equal(t, int64(7), n.Payload.EquipmentID)
	assert.Equal(t, "Sony A6400", n.Payload.EquipmentName)
	assert.Equal(t, "2025-10-01 17:45", n.Payload.DueDate)
	assert.Contains(t, n.Payload.Message, "Sony A6400")
}

func TestRunPassIsIdempotentWithinOneDay(t *testing.T) {
	db := testutil.NewMemDB()
	db.AddLoan(cameraLoan(at(2025, 10, 1, 17, 45)))
	clk := testutil.NewFakeClock(at(2025, 10, 1, 17, 20))
	svc := newTestService(db, clk)

	first, err := svc.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	second, err := svc.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Skipped)
	assert.Len(t, db.Notifications, 1)
}

func TestRunPassEscalatesThroughAllTiers(t *testing.T) {
	db := testutil.NewMemDB()
	db.AddLoan(cameraLoan(at(2025, 10, 1, 17, 45)))
	clk := testutil.NewFakeClock(at(2025, 10, 1, 17, 20))
	svc := newTestService(db, clk)
	ctx := context.Background()

	_, err := svc.RunPass(ctx)
	require.NoError(t, err)
	require.Len(t, db.UnreadFor(42), 1)

	// 17:35, ten minutes left: due_very_soon fires, due_soon is closed.
	clk.Set(at(2025, 10, 1, 17, 35))
	result, err := svc.RunPass(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.DueVerySoonCreated)
	assert.Equal(t, int64(1), result.SupersededClosed)

	unread := db.UnreadFor(42)
	require.Len(t, unread, 1)
	assert.Equal(t, domain.TagDueVerySoon, unread[0].Tag)

	// 18:05, past cutoff: overdue fires, everything lower is closed.
	clk.Set(at(2025, 10, 1, 18, 5))
	result, err = svc.RunPass(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.OverdueCreated)
	assert.Equal(t, int64(1), result.SupersededClosed)

	unread = db.UnreadFor(42)
	require.Len(t, unread, 1)
	assert.Equal(t, domain.TagOverdueNotice, unread[0].Tag)

	// Three historical notifications remain, only the highest tier unread.
	assert.Len(t, db.Notifications, 3)
}

func TestRunPassIgnoresReturnedAndUndecidedLoans(t *testing.T) {
	returnedAt := at(2025, 10, 1, 12, 0)
	due := at(2025, 10, 1, 17, 45)

	db := testutil.NewMemDB()
	db.AddLoan(domain.Loan{ID: 1, BorrowerID: 1, EquipmentID: 1, DueAt: due, Status: domain.LoanStatusReturned, ReturnedAt: &returnedAt})
	db.AddLoan(domain.Loan{ID: 2, BorrowerID: 2, EquipmentID: 2, DueAt: due, Status: domain.LoanStatusPending})
	db.AddLoan(domain.Loan{ID: 3, BorrowerID: 3, EquipmentID: 3, DueAt: due, Status: domain.LoanStatusRejected})
	// Returned flag wins even if the status was left stale.
	db.AddLoan(domain.Loan{ID: 4, BorrowerID: 4, EquipmentID: 4, DueAt: due, Status: domain.LoanStatusApproved, ReturnedAt: &returnedAt})

	clk := testutil.NewFakeClock(at(2025, 10, 1, 17, 20))
	result, err := newTestService(db, clk).RunPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Evaluated)
	assert.Equal(t, 0, result.Created)
	assert.Empty(t, db.Notifications)
}

func TestRunPassEvaluatesRenewalPendingLoans(t *testing.T) {
	loan := cameraLoan(at(2025, 10, 1, 17, 45))
	loan.Status = domain.LoanStatusRenewalPending

	db := testutil.NewMemDB()
	db.AddLoan(loan)
	clk := testutil.NewFakeClock(at(2025, 10, 1, 17, 20))

	result, err := newTestService(db, clk).RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
}

func TestRunPassRollsBackWholePassOnFailure(t *testing.T) {
	db := testutil.NewMemDB()
	db.AddLoan(cameraLoan(at(2025, 10, 1, 17, 45)))
	clk := testutil.NewFakeClock(at(2025, 10, 1, 17, 20))
	svc := newTestService(db, clk)
	ctx := context.Background()

	_, err := svc.RunPass(ctx)
	require.NoError(t, err)
	require.Len(t, db.Notifications, 1)

	// The due_very_soon insert succeeds, then closing the prior due_soon
	// fails. Neither write may survive the rollback.
	db.MarkTagsReadErr = errors.New("connection reset")
	clk.Set(at(2025, 10, 1, 17, 35))

	_, err = svc.RunPass(ctx)
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection reset")

	require.Len(t, db.Notifications, 1)
	assert.Equal(t, domain.TagDueSoon, db.Notifications[0].Tag)
	assert.Equal(t, domain.NotificationUnread, db.Notifications[0].Status)
}

func TestRunPassSurfacesLoadFailure(t *testing.T) {
	db := testutil.NewMemDB()
	db.OutstandingErr = errors.New("relation does not exist")
	clk := testutil.NewFakeClock(at(2025, 10, 1, 17, 20))

	result, err := newTestService(db, clk).RunPass(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Empty(t, db.Notifications)
}

func TestRunPassReAlertsOnTheNextDay(t *testing.T) {
	db := testutil.NewMemDB()
	db.AddLoan(cameraLoan(at(2025, 10, 1, 17, 45)))
	clk := testutil.NewFakeClock(at(2025, 10, 1, 19, 0))
	svc := newTestService(db, clk)
	ctx := context.Background()

	first, err := svc.RunPass(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.OverdueCreated)

	// Same day again: suppressed.
	clk.Advance(2 * time.Hour)
	second, err := svc.RunPass(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Skipped)

	// Next day the daily key rolls over and the overdue notice fires again.
	clk.Set(at(2025, 10, 2, 19, 0))
	third, err := svc.RunPass(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, third.OverdueCreated)

	overdueCount := 0
	for _, n := range db.Notifications {
		if n.Tag == domain.TagOverdueNotice {
			overdueCount++
		}
	}
	assert.Equal(t, 2, overdueCount)
}

func TestResultSummaryMentionsAllCounts(t *testing.T) {
	r := &Result{RunID: "run-1", Evaluated: 5, Created: 2, DueSoonCreated: 1, OverdueCreated: 1, Skipped: 3, SupersededClosed: 1}
	s := r.Summary()
	assert.Contains(t, s, "run-1")
	assert.Contains(t, s, "evaluated 5")
	assert.Contains(t, s, "created 2")
	assert.Contains(t, s, "skipped 3")
}
