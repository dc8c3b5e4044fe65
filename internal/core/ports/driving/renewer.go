package driving

import (
	"context"

	"github.com/custodia-labs/gwatch/internal/core/domain"
)

// CycleSummary reports the outcome of one renewal cycle.
type CycleSummary struct {
	// Checked is the number of subjects inspected.
	Checked int

	// Renewed is the number of successful renewals.
	Renewed int

	// Failed is the number of failed renewals.
	Failed int

	// Skipped is the number of leases not yet due.
	Skipped int
}

// Renewer manages the background lease renewal loop.
type Renewer interface {
	// Run begins the renewal loop: one cycle immediately, then one per
	// check interval. Blocks until the context is cancelled or Stop is
	// called.
	Run(ctx context.Context) error

	// Stop gracefully shuts down the loop.
	Stop() error

	// CheckAndRenewAll runs a single renewal cycle over every known
	// subject. A single lease's failure never aborts the cycle; failures
	// are reflected in the summary and in per-lease state.
	CheckAndRenewAll(ctx context.Context) (CycleSummary, error)

	// SetupAll force-registers watches for every known subject,
	// regardless of due-ness. Returns per-subject errors (nil on success).
	SetupAll(ctx context.Context) (map[string]error, error)

	// Setup force-registers the watch for one subject.
	Setup(ctx context.Context, subject string) error

	// StopWatch tears down the watch for one subject.
	StopWatch(ctx context.Context, subject string) error

	// Leases returns the current lease state for every known subject,
	// including subjects with credentials but no persisted lease yet.
	Leases(ctx context.Context) ([]domain.Lease, error)

	// Ready reports whether at least one renewal cycle has completed.
	Ready() bool
}
