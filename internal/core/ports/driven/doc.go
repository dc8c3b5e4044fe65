// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - LeaseStore: per-subject lease state persistence
//   - WatchRegistrar: the external registration call (Gmail users.watch)
//   - CredentialsStore: authorised-user token access and subject discovery
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - HistoryStore: renewal attempt history for monitoring. Without it,
//     attempts are only logged.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
