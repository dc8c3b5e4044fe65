// Package driving defines the interfaces through which the outside world
// drives the core (CLI commands, the health endpoint, the dashboard).
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driving
