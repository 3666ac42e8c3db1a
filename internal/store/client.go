// Package store is the read-side client for the hosted CRM backend,
// a PostgREST-style API fronting the relational tables the dashboard
// aggregates (campaigns, leads, call/email/sms analytics).
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ignite/outreach-crm/internal/config"
	"github.com/ignite/outreach-crm/internal/domain"
)

// Client is an authenticated backend REST client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a backend store client. The timeout applies per
// request; upstream fetch failures are hard errors the metrics facade
// converts into its all-zero fallback.
func NewClient(cfg config.StoreConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// get performs a table select and decodes the JSON array response.
func (c *Client) get(ctx context.Context, table string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	if params.Get("select") == "" {
		params.Set("select", "*")
	}
	fullURL := c.baseURL + "/rest/v1/" + table + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("store error (status %d) on %s: %s", resp.StatusCode, table, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing %s rows: %w", table, err)
	}
	return nil
}

// Campaigns fetches all campaign rows.
func (c *Client) Campaigns(ctx context.Context) ([]domain.Campaign, error) {
	var rows []domain.Campaign
	if err := c.get(ctx, "campaigns", nil, &rows); err != nil {
		return nil, fmt.Errorf("fetching campaigns: %w", err)
	}
	return rows, nil
}

// Leads fetches all lead rows.
func (c *Client) Leads(ctx context.Context) ([]domain.Lead, error) {
	var rows []domain.Lead
	if err := c.get(ctx, "leads", nil, &rows); err != nil {
		return nil, fmt.Errorf("fetching leads: %w", err)
	}
	return rows, nil
}

// LeadsForList fetches the leads belonging to a single lead list,
// used when launching a campaign without an inline lead payload.
func (c *Client) LeadsForList(ctx context.Context, listID string) ([]domain.Lead, error) {
	params := url.Values{}
	params.Set("lead_list_id", "eq."+listID)
	var rows []domain.Lead
	if err := c.get(ctx, "leads", params, &rows); err != nil {
		return nil, fmt.Errorf("fetching leads for list %s: %w", listID, err)
	}
	return rows, nil
}

// CallAnalytics fetches all call analytics rows. Date filtering happens
// client-side in the metrics pipeline so the filter fallback policy can
// see the unfiltered collection.
func (c *Client) CallAnalytics(ctx context.Context) ([]domain.CallAnalyticsRecord, error) {
	var rows []domain.CallAnalyticsRecord
	if err := c.get(ctx, "call_analytics", nil, &rows); err != nil {
		return nil, fmt.Errorf("fetching call analytics: %w", err)
	}
	return rows, nil
}

// EmailAnalytics fetches all email analytics rows.
func (c *Client) EmailAnalytics(ctx context.Context) ([]domain.EmailAnalyticsRecord, error) {
	var rows []domain.EmailAnalyticsRecord
	if err := c.get(ctx, "email_analytics", nil, &rows); err != nil {
		return nil, fmt.Errorf("fetching email analytics: %w", err)
	}
	return rows, nil
}

// SMSAnalytics fetches all SMS analytics rows.
func (c *Client) SMSAnalytics(ctx context.Context) ([]domain.SMSAnalyticsRecord, error) {
	var rows []domain.SMSAnalyticsRecord
	if err := c.get(ctx, "sms_analytics", nil, &rows); err != nil {
		return nil, fmt.Errorf("fetching sms analytics: %w", err)
	}
	return rows, nil
}
