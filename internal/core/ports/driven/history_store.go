package driven

import (
	"context"

	"github.com/custodia-labs/gwatch/internal/core/domain"
)

// HistoryStore records renewal attempts for monitoring and alerting.
type HistoryStore interface {
	// RecordAttempt logs a renewal attempt.
	RecordAttempt(ctx context.Context, attempt *domain.RenewalAttempt) error

	// History returns recent attempts for a subject.
	// Results are ordered by start time descending (most recent first).
	History(ctx context.Context, subject string, limit int) ([]domain.RenewalAttempt, error)

	// Prune removes old attempts beyond the retention limit.
	// Keeps the most recent 'keep' attempts per subject.
	Prune(ctx context.Context, keep int) error
}
