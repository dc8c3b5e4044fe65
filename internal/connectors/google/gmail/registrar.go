package gmail

import (
	"context"
	"errors"
	"fmt"
	"time"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/custodia-labs/gwatch/internal/connectors/google"
	"github.com/custodia-labs/gwatch/internal/core/domain"
	"github.com/custodia-labs/gwatch/internal/core/ports/driven"
	"github.com/custodia-labs/gwatch/internal/logger"
)

// labelFilterBehavior restricts notifications to the configured labels.
const labelFilterBehavior = "INCLUDE"

// Ensure Registrar implements the interface.
var _ driven.WatchRegistrar = (*Registrar)(nil)

// Registrar implements driven.WatchRegistrar against the Gmail API.
// Each call builds a per-subject service from the credentials store, so
// token refresh stays the store's concern.
type Registrar struct {
	cfg     Config
	creds   driven.CredentialsStore
	limiter *google.RateLimiter

	// opts lets tests redirect the API client to a fake server.
	opts []option.ClientOption
}

// NewRegistrar creates a registrar for the given topic configuration.
func NewRegistrar(cfg Config, creds driven.CredentialsStore) (*Registrar, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Registrar{
		cfg:     cfg,
		creds:   creds,
		limiter: google.NewRateLimiter(google.DefaultGmailRateLimit),
	}, nil
}

// Register calls users.watch for the subject. Gmail replaces any
// existing watch, so this serves both initial setup and renewal.
func (r *Registrar) Register(ctx context.Context, subject string) (domain.WatchInfo, error) {
	svc, err := r.service(ctx, subject)
	if err != nil {
		return domain.WatchInfo{}, err
	}

	req := &gmail.WatchRequest{
		TopicName:           r.cfg.TopicName(),
		LabelIds:            r.cfg.Labels(),
		LabelFilterBehavior: labelFilterBehavior,
	}

	resp, err := svc.Users.Watch("me", req).Context(ctx).Do()
	if err != nil {
		r.recordBackoff(err)
		return domain.WatchInfo{}, fmt.Errorf("watch call for %s: %w", subject, google.WrapError(err))
	}

	info := domain.WatchInfo{HistoryID: resp.HistoryId}
	// Expiration is epoch milliseconds; zero means the API omitted it.
	if resp.Expiration > 0 {
		info.Expiry = time.UnixMilli(resp.Expiration).UTC()
	}

	logger.Debug("watch registered for %s: historyId=%d expiry=%s",
		subject, info.HistoryID, info.Expiry.Format(time.RFC3339))
	return info, nil
}

// Stop calls users.stop for the subject. Stopping a mailbox with no
// active watch is not an error.
func (r *Registrar) Stop(ctx context.Context, subject string) error {
	svc, err := r.service(ctx, subject)
	if err != nil {
		return err
	}

	if err := svc.Users.Stop("me").Context(ctx).Do(); err != nil {
		r.recordBackoff(err)
		return fmt.Errorf("stop call for %s: %w", subject, google.WrapError(err))
	}
	return nil
}

// service builds a Gmail client authenticated as the subject.
func (r *Registrar) service(ctx context.Context, subject string) (*gmail.Service, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ts, err := r.creds.TokenSource(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("credentials for %s: %w", subject, err)
	}

	svc, err := google.NewGmailService(ctx, ts, r.opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gmail service for %s: %w", subject, err)
	}
	return svc, nil
}

// recordBackoff feeds 429 responses back into the limiter.
func (r *Registrar) recordBackoff(err error) {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == 429 {
		retryAfter := 0
		if len(gerr.Header.Values("Retry-After")) > 0 {
			fmt.Sscanf(gerr.Header.Get("Retry-After"), "%d", &retryAfter)
		}
		r.limiter.RecordRateLimitError(retryAfter)
	}
}
