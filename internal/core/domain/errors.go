package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoCredentials indicates no token file exists for a subject.
	// The subject cannot be renewed until credentials are provided.
	ErrNoCredentials = errors.New("no credentials for subject")

	// ErrMalformedState indicates a persisted lease record could not be
	// parsed. The subject is treated as never registered.
	ErrMalformedState = errors.New("malformed lease state")

	// ErrRenewerRunning indicates the renewal loop is already running.
	ErrRenewerRunning = errors.New("renewer already running")
)

// RenewalError wraps a failure to renew a single lease.
// It carries the subject so callers can attribute the failure without
// parsing the message.
type RenewalError struct {
	Subject string
	Err     error
}

func (e *RenewalError) Error() string {
	return fmt.Sprintf("renewing watch for %s: %v", e.Subject, e.Err)
}

func (e *RenewalError) Unwrap() error {
	return e.Err
}

// NewRenewalError creates a RenewalError for the given subject.
func NewRenewalError(subject string, err error) *RenewalError {
	return &RenewalError{Subject: subject, Err: err}
}
