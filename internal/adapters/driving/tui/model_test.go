package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gwatch/internal/core/domain"
	"github.com/custodia-labs/gwatch/internal/core/ports/driving"
)

type stubRenewer struct {
	leases    []domain.Lease
	leasesErr error
}

func (s *stubRenewer) Run(_ context.Context) error { return nil }
func (s *stubRenewer) Stop() error                 { return nil }
func (s *stubRenewer) CheckAndRenewAll(_ context.Context) (driving.CycleSummary, error) {
	return driving.CycleSummary{}, nil
}
func (s *stubRenewer) SetupAll(_ context.Context) (map[string]error, error) { return nil, nil }
func (s *stubRenewer) Setup(_ context.Context, _ string) error              { return nil }
func (s *stubRenewer) StopWatch(_ context.Context, _ string) error          { return nil }
func (s *stubRenewer) Leases(_ context.Context) ([]domain.Lease, error) {
	return s.leases, s.leasesErr
}
func (s *stubRenewer) Ready() bool { return true }

func TestNewModel_DefaultInterval(t *testing.T) {
	model := NewModel(&stubRenewer{}, 0)
	assert.Equal(t, 5*time.Second, model.interval)
}

func TestModel_FetchLeases(t *testing.T) {
	renewer := &stubRenewer{
		leases: []domain.Lease{
			{Subject: "alice@example.com", Status: domain.LeaseStatusOK},
		},
	}
	model := NewModel(renewer, time.Second)

	msg := model.fetchLeases()
	leases, ok := msg.(leasesMsg)
	require.True(t, ok)
	assert.Len(t, leases, 1)
}

func TestModel_FetchLeasesError(t *testing.T) {
	model := NewModel(&stubRenewer{leasesErr: errors.New("store offline")}, time.Second)

	msg := model.fetchLeases()
	errMsg, ok := msg.(leasesErrMsg)
	require.True(t, ok)
	assert.EqualError(t, errMsg.err, "store offline")
}

func TestModel_ViewShowsLeases(t *testing.T) {
	model := NewModel(&stubRenewer{}, time.Second)

	updated, _ := model.Update(leasesMsg{
		{
			Subject:    "alice@example.com",
			Status:     domain.LeaseStatusOK,
			Expiry:     time.Now().Add(6 * 24 * time.Hour),
			RetryCount: 0,
		},
		{
			Subject:    "bob@example.com",
			Status:     domain.LeaseStatusFailed,
			RetryCount: 3,
		},
	})
	model = updated.(Model)

	view := model.View()
	assert.Contains(t, view, "alice@example.com")
	assert.Contains(t, view, "bob@example.com")
	assert.Contains(t, view, "SUBJECT")
}

func TestModel_ViewShowsError(t *testing.T) {
	model := NewModel(&stubRenewer{}, time.Second)

	updated, _ := model.Update(leasesErrMsg{err: errors.New("store offline")})
	model = updated.(Model)

	assert.Contains(t, model.View(), "store offline")
}

func TestModel_ViewEmpty(t *testing.T) {
	model := NewModel(&stubRenewer{}, time.Second)
	assert.Contains(t, model.View(), "No accounts found")
}

func TestModel_QuitKey(t *testing.T) {
	model := NewModel(&stubRenewer{}, time.Second)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_RefreshKeyTriggersFetch(t *testing.T) {
	renewer := &stubRenewer{
		leases: []domain.Lease{{Subject: "alice@example.com"}},
	}
	model := NewModel(renewer, time.Second)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	require.NotNil(t, cmd)

	msg := cmd()
	_, ok := msg.(leasesMsg)
	assert.True(t, ok)
}
