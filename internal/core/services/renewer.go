package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/gwatch/internal/core/domain"
	"github.com/custodia-labs/gwatch/internal/core/ports/driven"
	"github.com/custodia-labs/gwatch/internal/core/ports/driving"
)

// Renewer keeps Gmail watch leases alive.
// It is a pure core service: subjects come from the credentials store,
// state lives in the lease store, and the actual registration call goes
// through the WatchRegistrar port.
type Renewer struct {
	config    domain.RenewerConfig
	project   string
	topic     string
	leases    driven.LeaseStore
	creds     driven.CredentialsStore
	registrar driven.WatchRegistrar
	history   driven.HistoryStore // optional, may be nil

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	kickCh  chan struct{}
	ready   atomic.Bool
}

var _ driving.Renewer = (*Renewer)(nil)

// NewRenewer creates a renewal scheduler.
// project and topic identify the Pub/Sub destination and are stamped into
// each lease record for monitoring. history may be nil.
func NewRenewer(
	config domain.RenewerConfig,
	project, topic string,
	leases driven.LeaseStore,
	creds driven.CredentialsStore,
	registrar driven.WatchRegistrar,
	history driven.HistoryStore,
) *Renewer {
	return &Renewer{
		config:    config,
		project:   project,
		topic:     topic,
		leases:    leases,
		creds:     creds,
		registrar: registrar,
		history:   history,
		kickCh:    make(chan struct{}, 1),
	}
}

// Run begins the renewal loop. This method blocks until Stop is called
// or the context is cancelled. The first cycle runs immediately.
func (r *Renewer) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return domain.ErrRenewerRunning
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.mu.Unlock()

	r.runCycle(ctx)

	ticker := time.NewTicker(r.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.stopCh:
			return nil
		case <-r.kickCh:
			r.runCycle(ctx)
		case <-ticker.C:
			r.runCycle(ctx)
		}
	}
}

// Stop gracefully shuts down the renewal loop.
func (r *Renewer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return nil
	}
	r.running = false
	close(r.stopCh)
	return nil
}

// TriggerCycle requests an immediate renewal cycle.
// Used by the tokens-directory watcher when accounts are added or removed.
// No-op if a trigger is already pending.
func (r *Renewer) TriggerCycle() {
	select {
	case r.kickCh <- struct{}{}:
	default:
	}
}

// Ready reports whether at least one renewal cycle has completed.
func (r *Renewer) Ready() bool {
	return r.ready.Load()
}

// runCycle executes one cycle and logs the outcome.
// Cycle errors are per-lease and never fatal to the loop.
func (r *Renewer) runCycle(ctx context.Context) {
	summary, err := r.CheckAndRenewAll(ctx)
	if err != nil {
		log.Printf("renewer: cycle completed with errors: %v", err)
	}
	log.Printf("renewer: cycle done: %d checked, %d renewed, %d failed, %d not due",
		summary.Checked, summary.Renewed, summary.Failed, summary.Skipped)
	r.ready.Store(true)
}

// CheckAndRenewAll inspects every known subject and renews the due leases.
// The returned error is a join of per-subject RenewalErrors; a failing
// lease keeps its prior expiry and does not affect other leases.
func (r *Renewer) CheckAndRenewAll(ctx context.Context) (driving.CycleSummary, error) {
	var summary driving.CycleSummary

	subjects, err := r.creds.Subjects(ctx)
	if err != nil {
		return summary, err
	}

	now := time.Now()
	var cycleErrs []error
	for _, subject := range subjects {
		summary.Checked++

		lease := r.loadLease(ctx, subject)
		if !lease.IsRenewalDue(now, r.config.RenewalWindow) {
			summary.Skipped++
			continue
		}

		if err := r.renewLease(ctx, lease); err != nil {
			summary.Failed++
			cycleErrs = append(cycleErrs, err)
			log.Printf("renewer: %v", err)
			continue
		}
		summary.Renewed++
		log.Printf("renewer: renewed watch for %s, expires %s",
			subject, lease.Expiry.Format(time.RFC3339))
	}

	r.pruneHistory(ctx)

	return summary, errors.Join(cycleErrs...)
}

// SetupAll force-registers watches for every known subject regardless of
// due-ness. Used for initial provisioning.
func (r *Renewer) SetupAll(ctx context.Context) (map[string]error, error) {
	subjects, err := r.creds.Subjects(ctx)
	if err != nil {
		return nil, err
	}

	results := make(map[string]error, len(subjects))
	for _, subject := range subjects {
		lease := r.loadLease(ctx, subject)
		results[subject] = r.renewLease(ctx, lease)
	}
	return results, nil
}

// Setup force-registers the watch for one subject regardless of due-ness.
func (r *Renewer) Setup(ctx context.Context, subject string) error {
	return r.renewLease(ctx, r.loadLease(ctx, subject))
}

// StopWatch tears down the active watch for one subject.
func (r *Renewer) StopWatch(ctx context.Context, subject string) error {
	if err := r.registrar.Stop(ctx, subject); err != nil {
		return domain.NewRenewalError(subject, err)
	}

	lease := r.loadLease(ctx, subject)
	lease.MarkStopped(time.Now())
	if err := r.leases.Save(ctx, lease); err != nil {
		return err
	}
	return nil
}

// Leases returns the lease state for every known subject. Subjects with
// credentials but no persisted record appear as pending; persisted leases
// whose credentials vanished are still listed.
func (r *Renewer) Leases(ctx context.Context) ([]domain.Lease, error) {
	subjects, err := r.creds.Subjects(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(subjects))
	leases := make([]domain.Lease, 0, len(subjects))
	for _, subject := range subjects {
		seen[subject] = true
		leases = append(leases, *r.loadLease(ctx, subject))
	}

	persisted, err := r.leases.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, lease := range persisted {
		if !seen[lease.Subject] {
			leases = append(leases, lease)
		}
	}

	sort.Slice(leases, func(i, j int) bool { return leases[i].Subject < leases[j].Subject })
	return leases, nil
}

// loadLease fetches the persisted lease for a subject, falling back to a
// fresh pending lease when the record is missing or malformed. Malformed
// state is recoverable: the subject is treated as never registered.
func (r *Renewer) loadLease(ctx context.Context, subject string) *domain.Lease {
	lease, err := r.leases.Get(ctx, subject)
	if err != nil {
		log.Printf("renewer: unreadable lease state for %s, treating as unregistered: %v", subject, err)
	}
	if lease == nil {
		lease = &domain.Lease{
			Subject: subject,
			Project: r.project,
			Topic:   r.topic,
			Status:  domain.LeaseStatusPending,
		}
	}
	return lease
}

// renewLease performs one registration call for a lease and persists the
// outcome. Returns a RenewalError on failure; the lease's prior expiry is
// retained.
func (r *Renewer) renewLease(ctx context.Context, lease *domain.Lease) error {
	attempt := &domain.RenewalAttempt{
		ID:        uuid.NewString(),
		Subject:   lease.Subject,
		StartedAt: time.Now(),
	}

	info, err := r.registrar.Register(ctx, lease.Subject)
	attempt.EndedAt = time.Now()

	if err != nil {
		renewErr := domain.NewRenewalError(lease.Subject, err)
		attempt.Error = renewErr.Error()
		lease.MarkFailed(err)
		r.persistOutcome(ctx, lease, attempt)
		return renewErr
	}

	attempt.Success = true
	attempt.Expiry = info.Expiry
	lease.Project = r.project
	lease.Topic = r.topic
	lease.MarkRenewed(info, attempt.EndedAt)
	r.persistOutcome(ctx, lease, attempt)
	return nil
}

// persistOutcome saves the lease and records the attempt.
// Persistence failures are logged, not propagated: the in-memory outcome
// is already decided and the next cycle retries anyway.
func (r *Renewer) persistOutcome(ctx context.Context, lease *domain.Lease, attempt *domain.RenewalAttempt) {
	if err := r.leases.Save(ctx, lease); err != nil {
		log.Printf("renewer: failed to save lease for %s: %v", lease.Subject, err)
	}
	if r.history != nil {
		if err := r.history.RecordAttempt(ctx, attempt); err != nil {
			log.Printf("renewer: failed to record attempt for %s: %v", lease.Subject, err)
		}
	}
}

// pruneHistory trims the attempt history to the retention limit.
func (r *Renewer) pruneHistory(ctx context.Context) {
	if r.history == nil || r.config.HistoryRetention <= 0 {
		return
	}
	if err := r.history.Prune(ctx, r.config.HistoryRetention); err != nil {
		log.Printf("renewer: failed to prune history: %v", err)
	}
}
