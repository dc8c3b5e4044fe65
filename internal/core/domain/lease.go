package domain

import "time"

// DefaultRenewalWindow is how long before expiry a lease becomes due.
// Gmail watches live for 7 days; renewing within the last day matches
// the behaviour Google recommends (daily re-registration).
const DefaultRenewalWindow = 24 * time.Hour

// LeaseStatus describes the renewal state of a lease.
type LeaseStatus string

const (
	// LeaseStatusPending means the lease exists but no renewal has completed yet.
	LeaseStatusPending LeaseStatus = "pending"

	// LeaseStatusOK means the last renewal succeeded.
	LeaseStatusOK LeaseStatus = "ok"

	// LeaseStatusFailed means the last renewal failed.
	// The previous expiry is retained for monitoring.
	LeaseStatusFailed LeaseStatus = "failed"

	// LeaseStatusStopped means the watch was explicitly stopped.
	LeaseStatusStopped LeaseStatus = "stopped"
)

// Lease is a Gmail watch subscription for one account.
// The subject (account email address) is the identity; everything else
// is the most recent state returned by the Gmail API.
type Lease struct {
	// Subject is the account email address the watch belongs to.
	Subject string `json:"subject"`

	// Project is the GCP project that owns the Pub/Sub topic.
	Project string `json:"project"`

	// Topic is the Pub/Sub topic name (not the full path).
	Topic string `json:"topic"`

	// HistoryID is the Gmail history ID returned by the last registration.
	HistoryID uint64 `json:"historyId,omitempty"`

	// Expiry is when the watch lapses. Always the most recent value
	// returned by the registration call; zero if never registered.
	Expiry time.Time `json:"expiry,omitzero"`

	// LastRenewed is when the last successful registration happened.
	LastRenewed time.Time `json:"lastRenewed,omitzero"`

	// Status is the outcome of the last renewal attempt.
	Status LeaseStatus `json:"status"`

	// RetryCount is the number of consecutive failed renewals.
	// Reset to zero on success.
	RetryCount int `json:"retryCount,omitempty"`

	// LastError is the message of the last failed renewal, if any.
	LastError string `json:"lastError,omitempty"`
}

// WatchInfo is the outcome of a successful watch registration.
type WatchInfo struct {
	// HistoryID is the mailbox history ID at registration time.
	HistoryID uint64

	// Expiry is when the new watch lapses.
	Expiry time.Time
}

// IsRenewalDue reports whether the lease should be renewed now.
// A lease is due when less than window remains before expiry.
// A zero expiry (never registered, or the API omitted the expiration)
// is always due.
func (l *Lease) IsRenewalDue(now time.Time, window time.Duration) bool {
	if l.Expiry.IsZero() {
		return true
	}
	return l.Expiry.Sub(now) < window
}

// MarkRenewed records a successful registration.
// The previous expiry is discarded in favour of the new one.
func (l *Lease) MarkRenewed(info WatchInfo, now time.Time) {
	l.HistoryID = info.HistoryID
	l.Expiry = info.Expiry
	l.LastRenewed = now
	l.Status = LeaseStatusOK
	l.RetryCount = 0
	l.LastError = ""
}

// MarkFailed records a failed renewal attempt.
// Expiry and history ID are left untouched so monitoring can still see
// the last-known good state.
func (l *Lease) MarkFailed(err error) {
	l.Status = LeaseStatusFailed
	l.RetryCount++
	if err != nil {
		l.LastError = err.Error()
	}
}

// MarkStopped records that the watch was explicitly torn down.
func (l *Lease) MarkStopped(now time.Time) {
	l.Status = LeaseStatusStopped
	l.Expiry = time.Time{}
	l.HistoryID = 0
	l.LastError = ""
}

// RenewalAttempt records one renewal execution for the history store.
type RenewalAttempt struct {
	// ID uniquely identifies the attempt.
	ID string

	// Subject is the account the attempt was for.
	Subject string

	// StartedAt is when the attempt started.
	StartedAt time.Time

	// EndedAt is when the attempt completed.
	EndedAt time.Time

	// Success indicates whether the registration call succeeded.
	Success bool

	// Error contains the error message if Success is false.
	Error string

	// Expiry is the new watch expiry on success.
	Expiry time.Time
}
