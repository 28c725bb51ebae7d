// Package promoapi is the client for the dashboard's remote data store.
// The store is an opaque collaborator: the engine only consumes four
// request/response contracts and forwards the session credential header
// unchanged on every call.
package promoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"promoboard-engine/internal/common/config"
	engerrors "promoboard-engine/internal/common/errors"
	commonhttp "promoboard-engine/internal/common/http"
	"promoboard-engine/internal/common/logger"
	"promoboard-engine/internal/common/metrics"
	"promoboard-engine/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

type Client struct {
	baseURL      string
	sessionToken string
	httpClient   *commonhttp.Client
	logger       logger.Logger

	organizationsSch *gojsonschema.Schema
	orgStatsSch      *gojsonschema.Schema
	scheduleStatsSch *gojsonschema.Schema
	accountingSch    *gojsonschema.Schema
}

func NewClient(cfg config.RemoteConfig, log logger.Logger) *Client {
	return &Client{
		baseURL:          cfg.BaseURL,
		sessionToken:     cfg.SessionToken,
		httpClient:       commonhttp.NewClient(config.GetDuration(cfg.Timeout)),
		logger:           log,
		organizationsSch: mustCompileSchema(organizationsSchema),
		orgStatsSch:      mustCompileSchema(orgStatsSchema),
		scheduleStatsSch: mustCompileSchema(scheduleStatsSchema),
		accountingSch:    mustCompileSchema(accountingSchema),
	}
}

// FetchOrganizations retrieves the client organization catalog.
func (c *Client) FetchOrganizations(ctx context.Context) ([]models.Organization, error) {
	body, err := c.do(ctx, http.MethodGet, "organizations", nil, c.organizationsSch)
	if err != nil {
		return nil, err
	}

	var resp organizationsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, engerrors.NewMalformedResponseError("organizations", err.Error())
	}

	orgs := make([]models.Organization, 0, len(resp.Organizations))
	for _, o := range resp.Organizations {
		orgs = append(orgs, models.Organization{
			ID:          o.ID,
			Name:        o.Name,
			ContactRate: o.ContactRate,
			PaymentType: models.PaymentType(o.PaymentType),
		})
	}
	return orgs, nil
}

// FetchUserOrgStats retrieves one promoter's historical per-organization
// averages, keyed by email.
func (c *Client) FetchUserOrgStats(ctx context.Context, promoterName, email string) ([]models.PromoterOrgStat, error) {
	payload := orgStatsRequest{Email: email}
	body, err := c.do(ctx, http.MethodPost, "get_user_org_stats", payload, c.orgStatsSch)
	if err != nil {
		return nil, err
	}

	var resp orgStatsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, engerrors.NewMalformedResponseError("get_user_org_stats", err.Error())
	}

	stats := make([]models.PromoterOrgStat, 0, len(resp.OrgStats))
	for _, s := range resp.OrgStats {
		stats = append(stats, models.PromoterOrgStat{
			PromoterName:        promoterName,
			OrganizationName:    s.OrganizationName,
			AvgContactsPerShift: s.AvgPerShift,
			ShiftCount:          s.ShiftCount,
		})
	}
	return stats, nil
}

// FetchScheduleStats retrieves realized lead counts per date (feed A of
// the actual-outcome merge).
func (c *Client) FetchScheduleStats(ctx context.Context, dates []string) (map[string]int, error) {
	payload := scheduleStatsRequest{Dates: dates}
	body, err := c.do(ctx, http.MethodPost, "schedule-stats", payload, c.scheduleStatsSch)
	if err != nil {
		return nil, err
	}

	var resp scheduleStatsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, engerrors.NewMalformedResponseError("schedule-stats", err.Error())
	}

	counts := make(map[string]int, len(resp.Actual))
	for _, a := range resp.Actual {
		counts[a.Date] += a.Count
	}
	return counts, nil
}

// FetchAccountingData retrieves shift-level accounting ledger records
// (feed B of the actual-outcome merge).
func (c *Client) FetchAccountingData(ctx context.Context) ([]models.LedgerShift, error) {
	body, err := c.do(ctx, http.MethodGet, "get_accounting_data", nil, c.accountingSch)
	if err != nil {
		return nil, err
	}

	var resp accountingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, engerrors.NewMalformedResponseError("get_accounting_data", err.Error())
	}

	shifts := make([]models.LedgerShift, 0, len(resp.Shifts))
	for _, s := range resp.Shifts {
		shifts = append(shifts, models.LedgerShift{
			Date:               s.Date,
			ContactsCount:      s.ContactsCount,
			Organization:       s.Organization,
			ContactRate:        s.ContactRate,
			CompensationAmount: s.CompensationAmount,
			PaymentType:        models.PaymentType(s.PaymentType),
			ExpenseAmount:      s.ExpenseAmount,
		})
	}
	return shifts, nil
}

// do issues one request to the remote store, records metrics, and
// validates the response body against the endpoint's schema.
func (c *Client) do(ctx context.Context, method, endpoint string, payload interface{}, schema *gojsonschema.Schema) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, endpoint)

	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.sessionToken != "" {
		// Opaque credential, forwarded unchanged.
		req.Header.Set("Authorization", c.sessionToken)
	}

	metrics.RemoteRequestsTotal.WithLabelValues(endpoint).Inc()
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	metrics.RemoteRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RemoteRequestsFailed.WithLabelValues(endpoint, string(engerrors.ErrCodeRemoteRequestFailed)).Inc()
		return nil, engerrors.NewRemoteRequestFailedError(endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RemoteRequestsFailed.WithLabelValues(endpoint, string(engerrors.ErrCodeRemoteRequestFailed)).Inc()
		return nil, engerrors.NewRemoteRequestFailedError(endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.RemoteRequestsFailed.WithLabelValues(endpoint, string(engerrors.ErrCodeRemoteRequestFailed)).Inc()
		return nil, engerrors.NewRemoteRequestFailedError(endpoint,
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body)))
	}

	if details := validateBody(schema, body); details != "" {
		metrics.RemoteRequestsFailed.WithLabelValues(endpoint, string(engerrors.ErrCodeMalformedResponse)).Inc()
		return nil, engerrors.NewMalformedResponseError(endpoint, details)
	}

	return body, nil
}
