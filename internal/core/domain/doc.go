// Package domain defines the core business entities for gwatch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Lease: a time-bounded Gmail watch subscription for one account
//   - WatchInfo: the outcome of a registration call (history ID + expiry)
//   - RenewalAttempt: one recorded renewal execution
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
