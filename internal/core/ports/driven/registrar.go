package driven

import (
	"context"

	"github.com/custodia-labs/gwatch/internal/core/domain"
)

// WatchRegistrar performs the external watch registration call.
// Registering an already-watched mailbox replaces the previous watch,
// so renewal and initial setup are the same operation.
type WatchRegistrar interface {
	// Register starts (or renews) the push-notification watch for a
	// subject and returns the new history ID and expiry.
	Register(ctx context.Context, subject string) (domain.WatchInfo, error)

	// Stop tears down the active watch for a subject.
	Stop(ctx context.Context, subject string) error
}
