package domain

import (
	"time"
)

type RenewalStatus string

const (
	RenewalPending  RenewalStatus = "pending"
	RenewalApproved RenewalStatus = "approved"
	RenewalRejected RenewalStatus = "rejected"
)

// Renewal is a borrower's request to push a loan's due date later.
// At most one pending renewal may exist per loan at a time.
type Renewal struct {
	ID         int64
	LoanID     int64
	OldDue     time.Time
	NewDue     time.Time
	Reason     string
	ApprovedBy *int64
	Status     RenewalStatus
	CreatedAt  time.Time
}

// RenewalSummary is the approver-facing view of a pending request,
// joined with the loan it extends.
type RenewalSummary struct {
	RenewalID     int64
	LoanID        int64
	BorrowerID    int64
	EquipmentID   int64
	EquipmentName string
	StartAt       time.Time
	OldDue        time.Time
	NewDue        time.Time
	Reason        string
	CreatedAt     time.Time
}
