package promoapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promoboard-engine/internal/common/config"
	engerrors "promoboard-engine/internal/common/errors"
	"promoboard-engine/internal/common/logger"
	"promoboard-engine/internal/models"
)

func newClientFor(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.RemoteConfig{
		BaseURL:      server.URL,
		SessionToken: "session-token-abc",
		Timeout:      5000,
	}, logger.NewTestLogger(t))
}

func TestFetchOrganizations(t *testing.T) {
	var gotAuth string
	client := newClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/organizations", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"organizations":[
			{"id":"1","name":"Org A","contact_rate":150,"payment_type":"cash"},
			{"id":"2","name":"Org B","contact_rate":300,"payment_type":"cashless"}
		]}`))
	})

	orgs, err := client.FetchOrganizations(context.Background())
	require.NoError(t, err)

	require.Len(t, orgs, 2)
	assert.Equal(t, "Org A", orgs[0].Name)
	assert.Equal(t, models.PaymentCashless, orgs[1].PaymentType)
	assert.Equal(t, "session-token-abc", gotAuth, "session credential forwarded unchanged")
}

func TestFetchOrganizations_RejectsBadShape(t *testing.T) {
	client := newClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		// payment_type outside the enum
		w.Write([]byte(`{"organizations":[{"name":"Org A","contact_rate":150,"payment_type":"crypto"}]}`))
	})

	_, err := client.FetchOrganizations(context.Background())
	require.Error(t, err)

	var stdErr *engerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, engerrors.ErrCodeMalformedResponse, stdErr.Code)
}

func TestFetchUserOrgStats(t *testing.T) {
	client := newClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get_user_org_stats", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"org_stats":[
			{"organization_name":"Org A","avg_per_shift":7.5,"shift_count":12}
		]}`))
	})

	stats, err := client.FetchUserOrgStats(context.Background(), "Alice", "alice@example.com")
	require.NoError(t, err)

	require.Len(t, stats, 1)
	assert.Equal(t, "Alice", stats[0].PromoterName)
	assert.Equal(t, 7.5, stats[0].AvgContactsPerShift)
	assert.Equal(t, 12, stats[0].ShiftCount)
}

func TestFetchScheduleStats(t *testing.T) {
	client := newClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schedule-stats", r.URL.Path)
		w.Write([]byte(`{"actual":[
			{"date":"2025-11-01","count":4},
			{"date":"2025-11-01","count":3},
			{"date":"2025-11-02","count":6}
		]}`))
	})

	counts, err := client.FetchScheduleStats(context.Background(), []string{"2025-11-01", "2025-11-02"})
	require.NoError(t, err)

	assert.Equal(t, 7, counts["2025-11-01"], "duplicate dates accumulate")
	assert.Equal(t, 6, counts["2025-11-02"])
}

func TestFetchAccountingData(t *testing.T) {
	client := newClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get_accounting_data", r.URL.Path)
		w.Write([]byte(`{"shifts":[{
			"date":"2025-11-01","contacts_count":10,"organization":"Org C",
			"contact_rate":500,"compensation_amount":250,"payment_type":"cashless",
			"expense_amount":100
		}]}`))
	})

	shifts, err := client.FetchAccountingData(context.Background())
	require.NoError(t, err)

	require.Len(t, shifts, 1)
	assert.Equal(t, models.LedgerShift{
		Date:               "2025-11-01",
		ContactsCount:      10,
		Organization:       "Org C",
		ContactRate:        500,
		CompensationAmount: 250,
		PaymentType:        models.PaymentCashless,
		ExpenseAmount:      100,
	}, shifts[0])
}

func TestDo_NonOKStatus(t *testing.T) {
	client := newClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	_, err := client.FetchOrganizations(context.Background())
	require.Error(t, err)

	var stdErr *engerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, engerrors.ErrCodeRemoteRequestFailed, stdErr.Code)
}

func TestDo_TransportFailure(t *testing.T) {
	client := NewClient(config.RemoteConfig{
		BaseURL: "http://127.0.0.1:1", // nothing listens here
		Timeout: 500,
	}, logger.NewNoOpLogger())

	_, err := client.FetchOrganizations(context.Background())
	require.Error(t, err)

	var stdErr *engerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, engerrors.ErrCodeRemoteRequestFailed, stdErr.Code)
}
