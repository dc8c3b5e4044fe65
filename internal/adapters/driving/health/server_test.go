package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gwatch/internal/core/domain"
	"github.com/custodia-labs/gwatch/internal/core/ports/driving"
)

type stubRenewer struct {
	ready     bool
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
func (s *stubRenewer) Ready() bool { return s.ready }

func doRequest(t *testing.T, renewer driving.Renewer, path string) *httptest.ResponseRecorder {
	t.Helper()

	server := NewServer(":0", renewer)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Healthz(t *testing.T) {
	rec := doRequest(t, &stubRenewer{}, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_Readyz(t *testing.T) {
	rec := doRequest(t, &stubRenewer{ready: false}, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doRequest(t, &stubRenewer{ready: true}, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
}

func TestServer_Leases(t *testing.T) {
	expiry := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	renewer := &stubRenewer{
		leases: []domain.Lease{
			{Subject: "alice@example.com", Status: domain.LeaseStatusOK, Expiry: expiry},
		},
	}

	rec := doRequest(t, renewer, "/leases")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []domain.Lease
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "alice@example.com", got[0].Subject)
	assert.True(t, expiry.Equal(got[0].Expiry))
}

func TestServer_LeasesError(t *testing.T) {
	rec := doRequest(t, &stubRenewer{leasesErr: errors.New("store offline")}, "/leases")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
