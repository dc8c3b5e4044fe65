package domain

import "time"

// RenewerConfig holds renewal scheduler configuration.
type RenewerConfig struct {
	// Enabled is the master switch for the background loop.
	Enabled bool

	// CheckInterval is how often the renewal cycle runs.
	CheckInterval time.Duration

	// RenewalWindow is the threshold before expiry at which a lease
	// becomes due for renewal.
	RenewalWindow time.Duration

	// HistoryRetention is how many renewal attempts to keep per subject.
	HistoryRetention int
}

// DefaultRenewerConfig returns sensible defaults for the renewal scheduler.
func DefaultRenewerConfig() RenewerConfig {
	return RenewerConfig{
		Enabled:          true,
		CheckInterval:    1 * time.Hour,
		RenewalWindow:    DefaultRenewalWindow,
		HistoryRetention: 100,
	}
}
