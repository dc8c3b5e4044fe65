package driven

import (
	"context"

	"github.com/custodia-labs/gwatch/internal/core/domain"
)

// LeaseStore persists per-subject lease state for crash recovery.
// Absence of a record means the subject was never registered.
type LeaseStore interface {
	// Get retrieves the lease for a subject.
	// Returns nil and no error if no lease is persisted.
	// Returns domain.ErrMalformedState (wrapped) if the record exists
	// but cannot be parsed.
	Get(ctx context.Context, subject string) (*domain.Lease, error)

	// List returns all persisted leases.
	// Malformed records are skipped, not fatal.
	List(ctx context.Context) ([]domain.Lease, error)

	// Save persists a lease, creating or replacing the record.
	Save(ctx context.Context, lease *domain.Lease) error

	// Delete removes a lease record.
	// Deleting a missing record is not an error.
	Delete(ctx context.Context, subject string) error
}
