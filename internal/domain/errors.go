package domain

import "fmt"

// Error types for consistent error handling across the service.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnknownMember indicates a transaction or deletion targets a member id
// that does not exist in the member collection.
type ErrUnknownMember struct {
	MemberID string
}

func (e *ErrUnknownMember) Error() string {
	return fmt.Sprintf("unknown member reference: %s", e.MemberID)
}

// ErrInvalidAmount indicates a non-positive or malformed transaction amount.
type ErrInvalidAmount struct {
	Amount float64
}

func (e *ErrInvalidAmount) Error() string {
	return fmt.Sprintf("invalid amount: %.2f (must be positive)", e.Amount)
}

// ErrOverRepayment indicates a repayment exceeding the outstanding
// principal. Rejected at the validation boundary, never clamped there.
type ErrOverRepayment struct {
	Outstanding float64
	Requested   float64
}

func (e *ErrOverRepayment) Error() string {
	return fmt.Sprintf("repayment %.2f exceeds outstanding principal %.2f", e.Requested, e.Outstanding)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrStore indicates a failure in the persistence layer.
type ErrStore struct {
	Op  string
	Err error
}

func (e *ErrStore) Error() string {
	return fmt.Sprintf("store error [%s]: %v", e.Op, e.Err)
}

func (e *ErrStore) Unwrap() error {
	return e.Err
}
