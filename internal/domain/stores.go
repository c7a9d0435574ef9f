package domain

import (
	"context"
	"time"
)

// LoanLedger reads loans and applies the status/due transitions owned by the
// approval and renewal workflows. The escalation engine only ever reads.
type LoanLedger interface {
	// Outstanding returns every active loan with a null return timestamp.
	Outstanding(ctx context.Context) ([]Loan, error)
	ByID(ctx context.Context, id int64) (*Loan, error)
	UpdateDue(ctx context.Context, id int64, due time.Time) error
	UpdateStatus(ctx context.Context, id int64, status LoanStatus) error
}

// NotificationStore is the append-mostly log of alert events. Notifications
// are never deleted; escalation closes lower tiers by flipping them to read.
type NotificationStore interface {
	Create(ctx context.Context, n *Notification) error

	// ExistsInWindow reports whether any notification with the given tag for
	// the recipient/equipment pair was created inside [from, to). The caller
	// passes the current calendar day to enforce the daily idempotency key.
	ExistsInWindow(ctx context.Context, recipientID int64, tag Tag, equipmentID int64, from, to time.Time) (bool, error)

	// MarkTagsRead flips every unread notification with one of the given tags
	// for the recipient/equipment pair to read, returning how many changed.
	MarkTagsRead(ctx context.Context, recipientID, equipmentID int64, tags []Tag) (int64, error)

	ListForRecipient(ctx context.Context, recipientID int64, includeRead bool, limit int) ([]Notification, error)

	// MarkRead dismisses a single notification, scoped to the owning
	// recipient. Returns ErrNotificationNotFound when no such row exists.
	MarkRead(ctx context.Context, id, recipientID int64) error
}

type RenewalStore interface {
	// Create inserts a pending renewal and fills in its assigned ID.
	Create(ctx context.Context, r *Renewal) error
	ByID(ctx context.Context, id int64) (*Renewal, error)
	PendingExists(ctx context.Context, loanID int64) (bool, error)
	SetDecision(ctx context.Context, id int64, status RenewalStatus, approverID int64) error
	PendingSummaries(ctx context.Context) ([]RenewalSummary, error)
}

// TxStores bundles the stores bound to one transaction.
type TxStores struct {
	Loans         LoanLedger
	Notifications NotificationStore
	Renewals      RenewalStore
}

// UnitOfWork runs fn inside a single transaction. If fn returns an error the
// transaction is rolled back in full and the error is returned unchanged;
// otherwise the transaction commits before UnitOfWork returns.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, st TxStores) error) error
}
