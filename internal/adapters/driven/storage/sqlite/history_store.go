package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/gwatch/internal/core/domain"
	"github.com/custodia-labs/gwatch/internal/core/ports/driven"
)

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

// RecordAttempt logs a renewal attempt.
func (s *historyStore) RecordAttempt(ctx context.Context, attempt *domain.RenewalAttempt) error {
	if attempt == nil || attempt.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO renewal_attempts (id, subject, started_at, ended_at, success, error, expiry)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, attempt.ID, attempt.Subject,
		attempt.StartedAt.UTC().Format(time.RFC3339Nano),
		attempt.EndedAt.UTC().Format(time.RFC3339Nano),
		boolToInt(attempt.Success),
		nullString(attempt.Error),
		formatNullableTime(attempt.Expiry))

	if err != nil {
		return fmt.Errorf("recording renewal attempt: %w", err)
	}
	return nil
}

// History returns recent attempts for a subject.
// Results are ordered by start time descending (most recent first).
func (s *historyStore) History(ctx context.Context, subject string, limit int) ([]domain.RenewalAttempt, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, subject, started_at, ended_at, success, error, expiry
		FROM renewal_attempts
		WHERE subject = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, subject, limit)
	if err != nil {
		return nil, fmt.Errorf("querying renewal history: %w", err)
	}
	defer rows.Close()

	var attempts []domain.RenewalAttempt //nolint:prealloc // size unknown from query
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *attempt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating renewal history: %w", err)
	}

	return attempts, nil
}

// Prune removes old attempts beyond the retention limit.
// Keeps the most recent 'keep' attempts per subject.
func (s *historyStore) Prune(ctx context.Context, keep int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM renewal_attempts
		WHERE id NOT IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY subject ORDER BY started_at DESC) as rn
				FROM renewal_attempts
			) WHERE rn <= ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning renewal history: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// scanAttempt scans a renewal attempt from *sql.Rows.
func scanAttempt(rows *sql.Rows) (*domain.RenewalAttempt, error) {
	var attempt domain.RenewalAttempt
	var startedAt, endedAt string
	var success int
	var errMsg, expiry sql.NullString

	if err := rows.Scan(&attempt.ID, &attempt.Subject, &startedAt, &endedAt,
		&success, &errMsg, &expiry); err != nil {
		return nil, fmt.Errorf("scanning renewal attempt: %w", err)
	}

	if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
		attempt.StartedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, endedAt); err == nil {
		attempt.EndedAt = t
	}
	attempt.Success = success == 1
	if errMsg.Valid {
		attempt.Error = errMsg.String
	}
	attempt.Expiry = parseNullableTime(expiry)

	return &attempt, nil
}

// formatNullableTime formats a time to RFC3339 string, or returns nil for zero time.
func formatNullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseNullableTime parses a nullable RFC3339 string to time.Time.
// Returns zero time if the string is empty or invalid.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a bool to 1 (true) or 0 (false).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
