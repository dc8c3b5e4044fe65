// Package google provides shared plumbing for Google API access:
// service construction, error classification, and rate limiting.
package google
