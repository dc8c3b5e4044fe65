package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLease_IsRenewalDue_FarFromExpiry(t *testing.T) {
	now := time.Now()
	lease := &Lease{
		Subject: "alice@example.com",
		Expiry:  now.Add(6 * 24 * time.Hour),
	}

	assert.False(t, lease.IsRenewalDue(now, DefaultRenewalWindow))
}

func TestLease_IsRenewalDue_WithinWindow(t *testing.T) {
	now := time.Now()
	lease := &Lease{
		Subject: "alice@example.com",
		Expiry:  now.Add(12 * time.Hour),
	}

	assert.True(t, lease.IsRenewalDue(now, DefaultRenewalWindow))
}

func TestLease_IsRenewalDue_ExactlyAtWindow(t *testing.T) {
	now := time.Now()
	lease := &Lease{
		Subject: "alice@example.com",
		Expiry:  now.Add(DefaultRenewalWindow),
	}

	// Due iff less than the window remains; exactly the window is not due.
	assert.False(t, lease.IsRenewalDue(now, DefaultRenewalWindow))
}

func TestLease_IsRenewalDue_ZeroExpiry(t *testing.T) {
	lease := &Lease{Subject: "alice@example.com"}

	assert.True(t, lease.IsRenewalDue(time.Now(), DefaultRenewalWindow))
}

func TestLease_IsRenewalDue_AlreadyExpired(t *testing.T) {
	now := time.Now()
	lease := &Lease{
		Subject: "alice@example.com",
		Expiry:  now.Add(-1 * time.Hour),
	}

	assert.True(t, lease.IsRenewalDue(now, DefaultRenewalWindow))
}

func TestLease_MarkRenewed(t *testing.T) {
	now := time.Now()
	lease := &Lease{
		Subject:    "alice@example.com",
		Status:     LeaseStatusFailed,
		RetryCount: 3,
		LastError:  "rate limited",
		Expiry:     now.Add(2 * time.Hour),
	}

	info := WatchInfo{
		HistoryID: 42,
		Expiry:    now.Add(7 * 24 * time.Hour),
	}
	lease.MarkRenewed(info, now)

	assert.Equal(t, LeaseStatusOK, lease.Status)
	assert.Equal(t, uint64(42), lease.HistoryID)
	assert.Equal(t, info.Expiry, lease.Expiry)
	assert.Equal(t, now, lease.LastRenewed)
	assert.Zero(t, lease.RetryCount)
	assert.Empty(t, lease.LastError)
}

func TestLease_MarkFailed_RetainsExpiry(t *testing.T) {
	now := time.Now()
	prior := now.Add(3 * time.Hour)
	lease := &Lease{
		Subject:   "alice@example.com",
		Status:    LeaseStatusOK,
		Expiry:    prior,
		HistoryID: 7,
	}

	lease.MarkFailed(errors.New("watch call failed"))

	assert.Equal(t, LeaseStatusFailed, lease.Status)
	assert.Equal(t, prior, lease.Expiry, "failed renewal must retain last-known expiry")
	assert.Equal(t, uint64(7), lease.HistoryID)
	assert.Equal(t, 1, lease.RetryCount)
	assert.Equal(t, "watch call failed", lease.LastError)

	lease.MarkFailed(errors.New("still failing"))
	assert.Equal(t, 2, lease.RetryCount)
}

func TestLease_MarkStopped(t *testing.T) {
	now := time.Now()
	lease := &Lease{
		Subject:   "alice@example.com",
		Status:    LeaseStatusOK,
		Expiry:    now.Add(24 * time.Hour),
		HistoryID: 9,
	}

	lease.MarkStopped(now)

	assert.Equal(t, LeaseStatusStopped, lease.Status)
	assert.True(t, lease.Expiry.IsZero())
	assert.Zero(t, lease.HistoryID)
}

func TestRenewalError_Unwrap(t *testing.T) {
	cause := ErrNoCredentials
	err := NewRenewalError("alice@example.com", cause)

	require.ErrorIs(t, err, ErrNoCredentials)

	var rerr *RenewalError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "alice@example.com", rerr.Subject)
	assert.Contains(t, err.Error(), "alice@example.com")
}

func TestDefaultRenewerConfig(t *testing.T) {
	cfg := DefaultRenewerConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 1*time.Hour, cfg.CheckInterval)
	assert.Equal(t, 24*time.Hour, cfg.RenewalWindow)
	assert.Equal(t, 100, cfg.HistoryRetention)
}
