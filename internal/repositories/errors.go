package repositories

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested row does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a conditional update lost a race,
	// e.g. an order's assignee changed under a concurrent assignment.
	// The operation committed nothing and is safe to retry.
	ErrConflict = errors.New("conflict")

	// ErrAlreadyProcessed is returned when a pending ledger entry was
	// already confirmed or failed. The wallet is never credited twice.
	ErrAlreadyProcessed = errors.New("transaction already processed")

	// ErrDuplicateEmail is returned on a unique email violation
	ErrDuplicateEmail = errors.New("email already in use")
)

// InsufficientBalanceError is returned when a wallet debit would take the
// balance below zero. No mutation happens in that case.
type InsufficientBalanceError struct {
	Required float64
	Current  float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required %.2f, current %.2f", e.Required, e.Current)
}
