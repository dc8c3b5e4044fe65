// Package services contains the core business logic for gwatch.
//
// Services implement the driving ports and depend only on domain types
// and driven port interfaces. The only service is the Renewer, which owns
// the lease set and the renewal loop; all file writes for a subject go
// through it, so there is a single writer per lease record.
package services
