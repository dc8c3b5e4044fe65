// Package sqlite provides SQLite-backed persistence for gwatch.
//
// Lease state itself lives in per-subject JSON files (see the file
// package); SQLite only holds the renewal attempt history, which grows
// over time and benefits from indexed queries and retention pruning.
package sqlite
