package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/gwatch/internal/core/domain"
	"github.com/custodia-labs/gwatch/internal/core/ports/driven"
	"github.com/custodia-labs/gwatch/internal/logger"
)

// stateSuffix is appended to the subject to form the state file name.
// Token files are <subject>.json; the suffix keeps the two apart.
const stateSuffix = ".state.json"

// Ensure LeaseStore implements the interface.
var _ driven.LeaseStore = (*LeaseStore)(nil)

// LeaseStore is a file-based implementation of driven.LeaseStore.
// Lease records are stored as one JSON file per subject.
type LeaseStore struct {
	mu  sync.Mutex
	dir string
}

// NewLeaseStore creates a lease store rooted at dir.
// The directory is created if it does not exist.
func NewLeaseStore(dir string) (*LeaseStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".gwatch", "tokens")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	return &LeaseStore{dir: dir}, nil
}

// Get retrieves the lease for a subject.
// Returns nil and no error if no state file exists. A state file that
// cannot be parsed yields domain.ErrMalformedState.
func (s *LeaseStore) Get(_ context.Context, subject string) (*domain.Lease, error) {
	path, err := s.statePath(subject)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading lease state for %s: %w", subject, err)
	}

	var lease domain.Lease
	if err := json.Unmarshal(data, &lease); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedState, subject, err)
	}
	if lease.Subject == "" {
		lease.Subject = subject
	}
	return &lease, nil
}

// List returns all persisted leases in the directory.
// Malformed records are skipped with a warning, never fatal.
func (s *LeaseStore) List(_ context.Context) ([]domain.Lease, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading state directory: %w", err)
	}

	var leases []domain.Lease
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, stateSuffix) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			logger.Warn("skipping unreadable lease state %s: %v", name, err)
			continue
		}

		var lease domain.Lease
		if err := json.Unmarshal(data, &lease); err != nil {
			logger.Warn("skipping malformed lease state %s: %v", name, err)
			continue
		}
		if lease.Subject == "" {
			lease.Subject = strings.TrimSuffix(name, stateSuffix)
		}
		leases = append(leases, lease)
	}

	return leases, nil
}

// Save persists a lease, replacing any previous record.
// The write goes through a temp file and rename so a crash mid-write
// never leaves a truncated state file.
func (s *LeaseStore) Save(_ context.Context, lease *domain.Lease) error {
	if lease == nil || lease.Subject == "" {
		return domain.ErrInvalidInput
	}

	path, err := s.statePath(lease.Subject)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(lease, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling lease state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing lease state for %s: %w", lease.Subject, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing lease state for %s: %w", lease.Subject, err)
	}
	return nil
}

// Delete removes a lease record. Missing records are not an error.
func (s *LeaseStore) Delete(_ context.Context, subject string) error {
	path, err := s.statePath(subject)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting lease state for %s: %w", subject, err)
	}
	return nil
}

// Dir returns the state directory path.
func (s *LeaseStore) Dir() string {
	return s.dir
}

// statePath builds the state file path for a subject, rejecting subjects
// that would escape the directory.
func (s *LeaseStore) statePath(subject string) (string, error) {
	if subject == "" || strings.ContainsAny(subject, "/\\") || strings.Contains(subject, "..") {
		return "", fmt.Errorf("%w: subject %q", domain.ErrInvalidInput, subject)
	}
	return filepath.Join(s.dir, subject+stateSuffix), nil
}
