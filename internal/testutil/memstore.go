package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/nonthaphat-dev/lendwatch/internal/domain"
)

// MemDB is an in-memory stand-in for the transactional store, used by the
// service tests. WithinTx snapshots the whole state up front and restores it
// when the callback fails, mirroring the all-or-nothing commit semantics of
// the real unit of work.
type MemDB struct {
	Loans         []domain.Loan
	Notifications []domain.Notification
	Renewals      []domain.Renewal

	nextNotificationID int64
	nextRenewalID      int64

	// Failure injection. When FailCreateOnTag matches the tag being created,
	// Create returns CreateErr. The other hooks fail the call outright.
	FailCreateOnTag  domain.Tag
	CreateErr        error
	MarkTagsReadErr  error
	OutstandingErr   error
	PendingExistsErr error
}

func NewMemDB() *MemDB {
	return &MemDB{}
}

func (d *MemDB) WithinTx(ctx context.Context, fn func(ctx context.Context, st domain.TxStores) error) error {
	snapshot := d.clone()
	if err := fn(ctx, d.Stores()); err != nil {
		d.Loans = snapshot.Loans
		d.Notifications = snapshot.Notifications
		d.Renewals = snapshot.Renewals
		d.nextNotificationID = snapshot.nextNotificationID
		d.nextRenewalID = snapshot.nextRenewalID
		return err
	}
	return nil
}

func (d *MemDB) Stores() domain.TxStores {
	return domain.TxStores{
		Loans:         (*memLoans)(d),
		Notifications: (*memNotifications)(d),
		Renewals:      (*memRenewals)(d),
	}
}

func (d *MemDB) AddLoan(l domain.Loan) {
	d.Loans = append(d.Loans, l)
}

// UnreadFor returns the unread notifications for a recipient, newest last.
func (d *MemDB) UnreadFor(recipientID int64) []domain.Notification {
	var out []domain.Notification
	for _, n := range d.Notifications {
		if n.RecipientID == recipientID && n.Status == domain.NotificationUnread {
			out = append(out, n)
		}
	}
	return out
}

func (d *MemDB) clone() *MemDB {
	c := &MemDB{
		Loans:              make([]domain.Loan, len(d.Loans)),
		Notifications:      append([]domain.Notification(nil), d.Notifications...),
		Renewals:           make([]domain.Renewal, len(d.Renewals)),
		nextNotificationID: d.nextNotificationID,
		nextRenewalID:      d.nextRenewalID,
	}
	for i, l := range d.Loans {
		if l.ReturnedAt != nil {
			returned := *l.ReturnedAt
			l.ReturnedAt = &returned
		}
		c.Loans[i] = l
	}
	for i, r := range d.Renewals {
		if r.ApprovedBy != nil {
			approver := *r.ApprovedBy
			r.ApprovedBy = &approver
		}
		c.Renewals[i] = r
	}
	return c
}

type memLoans MemDB

func (m *memLoans) Outstanding(_ context.Context) ([]domain.Loan, error) {
	if m.OutstandingErr != nil {
		return nil, m.OutstandingErr
	}
	var out []domain.Loan
	for _, l := range m.Loans {
		if l.ReturnedAt == nil && l.Status.Active() {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memLoans) ByID(_ context.Context, id int64) (*domain.Loan, error) {
	for i := range m.Loans {
		if m.Loans[i].ID == id {
			loan := m.Loans[i]
			return &loan, nil
		}
	}
	return nil, domain.ErrLoanNotFound
}

func (m *memLoans) UpdateDue(_ context.Context, id int64, due time.Time) error {
	for i := range m.Loans {
		if m.Loans[i].ID == id {
			m.Loans[i].DueAt = due
			return nil
		}
	}
	return domain.ErrLoanNotFound
}

func (m *memLoans) UpdateStatus(_ context.Context, id int64, status domain.LoanStatus) error {
	for i := range m.Loans {
		if m.Loans[i].ID == id {
			m.Loans[i].Status = status
			return nil
		}
	}
	return domain.ErrLoanNotFound
}

type memNotifications MemDB

func (m *memNotifications) Create(_ context.Context, n *domain.Notification) error {
	if m.CreateErr != nil && (m.FailCreateOnTag == "" || m.FailCreateOnTag == n.Tag) {
		return m.CreateErr
	}
	m.nextNotificationID++
	n.ID = m.nextNotificationID
	m.Notifications = append(m.Notifications, *n)
	return nil
}

func (m *memNotifications) ExistsInWindow(_ context.Context, recipientID int64, tag domain.Tag, equipmentID int64, from, to time.Time) (bool, error) {
	for _, n := range m.Notifications {
		if n.RecipientID == recipientID && n.Tag == tag && n.Payload.EquipmentID == equipmentID &&
			!n.CreatedAt.Before(from) && n.CreatedAt.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memNotifications) MarkTagsRead(_ context.Context, recipientID, equipmentID int64, tags []domain.Tag) (int64, error) {
	if m.MarkTagsReadErr != nil {
		return 0, m.MarkTagsReadErr
	}
	var count int64
	for i := range m.Notifications {
		n := &m.Notifications[i]
		if n.RecipientID != recipientID || n.Payload.EquipmentID != equipmentID || n.Status != domain.NotificationUnread {
			continue
		}
		for _, tag := range tags {
			if n.Tag == tag {
				n.Status = domain.NotificationRead
				count++
				break
			}
		}
	}
	return count, nil
}

func (m *memNotifications) ListForRecipient(_ context.Context, recipientID int64, includeRead bool, limit int) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range m.Notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if !includeRead && n.Status != domain.NotificationUnread {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memNotifications) MarkRead(_ context.Context, id, recipientID int64) error {
	for i := range m.Notifications {
		n := &m.Notifications[i]
		if n.ID == id && n.RecipientID == recipientID {
			n.Status = domain.NotificationRead
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

type memRenewals MemDB

func (m *memRenewals) Create(_ context.Context, r *domain.Renewal) error {
	m.nextRenewalID++
	r.ID = m.nextRenewalID
	m.Renewals = append(m.Renewals, *r)
	return nil
}

func (m *memRenewals) ByID(_ context.Context, id int64) (*domain.Renewal, error) {
	for i := range m.Renewals {
		if m.Renewals[i].ID == id {
			renewal := m.Renewals[i]
			return &renewal, nil
		}
	}
	return nil, domain.ErrRenewalNotFound
}

func (m *memRenewals) PendingExists(_ context.Context, loanID int64) (bool, error) {
	if m.PendingExistsErr != nil {
		return false, m.PendingExistsErr
	}
	for _, r := range m.Renewals {
		if r.LoanID == loanID && r.Status == domain.RenewalPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRenewals) SetDecision(_ context.Context, id int64, status domain.RenewalStatus, approverID int64) error {
	for i := range m.Renewals {
		if m.Renewals[i].ID == id {
			m.Renewals[i].Status = status
			m.Renewals[i].ApprovedBy = &approverID
			return nil
		}
	}
	return domain.ErrRenewalNotFound
}

func (m *memRenewals) PendingSummaries(_ context.Context) ([]domain.RenewalSummary, error) {
	var out []domain.RenewalSummary
	for _, r := range m.Renewals {
		if r.Status != domain.RenewalPending {
			continue
		}
		summary := domain.RenewalSummary{
			RenewalID: r.ID,
			LoanID:    r.LoanID,
			OldDue:    r.OldDue,
			NewDue:    r.NewDue,
			Reason:    r.Reason,
			CreatedAt: r.CreatedAt,
		}
		for _, l := range m.Loans {
			if l.ID == r.LoanID {
				summary.BorrowerID = l.BorrowerID
				summary.EquipmentID = l.EquipmentID
				summary.EquipmentName = l.EquipmentName
				summary.StartAt = l.StartAt
				break
			}
		}
		out = append(out, summary)
	}
	return out, nil
}
