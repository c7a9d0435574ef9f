package domain

import (
	"time"
)

// LoanStatus represents the lifecycle state of a loan.
// renewal_pending is a transient sub-state of an approved, active loan:
// the borrower has asked for an extension that has not been decided yet.
type LoanStatus string

const (
	LoanStatusPending        LoanStatus = "pending"
	LoanStatusApproved       LoanStatus = "approved"
	LoanStatusRejected       LoanStatus = "rejected"
	LoanStatusReturned       LoanStatus = "returned"
	LoanStatusRenewalPending LoanStatus = "renewal_pending"
)

func (s LoanStatus) String() string {
	return string(s)
}

// Active reports whether the loan is still out with the borrower.
func (s LoanStatus) Active() bool {
	return s == LoanStatusApproved || s == LoanStatusRenewalPending
}

// Loan is one borrowed equipment instance. DueAt and StartAt are aware
// instants in the service timezone; conversion to the naive civil form
// used by storage happens only inside the storage adapter.
type Loan struct {
	ID            int64
	BorrowerID    int64
	EquipmentID   int64
	EquipmentName string
	StartAt       time.Time
	DueAt         time.Time
	ReturnedAt    *time.Time
	Status        LoanStatus
	Reason        string
	CreatedAt     time.Time
}

// Outstanding reports whether the escalation engine should evaluate this
// loan. A loan with a return timestamp is never considered, regardless of
// its status field.
func (l *Loan) Outstanding() bool {
	return l.ReturnedAt == nil && l.Status.Active()
}
