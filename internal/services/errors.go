package services

import "errors"

var (
	// ErrForbidden is returned when the actor's role or ownership does not
	// permit the operation
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidAssignee is returned when the assignment target does not
	// exist or is outside the actor's staff set
	ErrInvalidAssignee = errors.New("invalid assignee")

	// ErrVerificationFailed is returned when a payment signature does not match
	ErrVerificationFailed = errors.New("payment verification failed")

	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountSuspended is returned when a suspended account tries to log in
	ErrAccountSuspended = errors.New("account suspended")
)
