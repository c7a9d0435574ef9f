package domain

import "errors"

var (
	ErrLoanNotFound         = errors.New("loan not found")
	ErrRenewalNotFound      = errors.New("renewal not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrRenewalWindowInvalid rejects a renewal whose new due date is not
	// strictly later than the one it replaces.
	ErrRenewalWindowInvalid = errors.New("new due date must be after the current due date")

	// ErrRenewalPending rejects a second renewal request while one is
	// still awaiting a decision for the same loan.
	ErrRenewalPending = errors.New("a pending renewal already exists for this loan")
)
