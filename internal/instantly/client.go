// Package instantly is the client for the email campaign-analytics
// SaaS. Unlike the backend store, failures here are soft by contract:
// every fetch degrades to an all-zero result so a missing credential or
// provider outage never takes the dashboard down.
package instantly

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ignite/outreach-crm/internal/config"
	"github.com/ignite/outreach-crm/internal/datanorm"
	"github.com/ignite/outreach-crm/internal/pkg/logger"
)

// Client is a bearer-token analytics API client.
type Client struct {
	baseURL    string
	apiKey     string
	excluded   []string
	httpClient *http.Client
}

// NewClient creates an analytics client. An empty API key is allowed;
// all fetches then return zero results.
func NewClient(cfg config.InstantlyConfig) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		excluded: cfg.ExcludedCampaigns,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// doRequest makes an authenticated GET and returns the raw body.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// CampaignStats fetches lifetime counters for every campaign and
// aggregates them, excluding the configured blocklist. Any error —
// including a missing credential — yields the zero CampaignStats and a
// warning log, never an error to the caller.
func (c *Client) CampaignStats(ctx context.Context) CampaignStats {
	if c.apiKey == "" {
		logger.Warn("instantly credential missing, returning zero campaign stats")
		return CampaignStats{}
	}

	body, err := c.doRequest(ctx, "/api/v2/campaigns/analytics", nil)
	if err != nil {
		logger.Warn("instantly campaign analytics fetch failed", "error", err.Error())
		return CampaignStats{}
	}

	var rows []CampaignAnalyticsRow
	if err := json.Unmarshal(body, &rows); err != nil {
		logger.Warn("instantly campaign analytics parse failed", "error", err.Error())
		return CampaignStats{}
	}

	return AggregateCampaignStats(rows, c.excluded)
}

// ClickThroughRate fetches daily analytics for the window and computes
// total clicks over total sends as a percentage. Zero time bounds are
// omitted from the query. Same soft-failure contract as CampaignStats.
func (c *Client) ClickThroughRate(ctx context.Context, from, to time.Time) float64 {
	if c.apiKey == "" {
		return 0
	}

	params := url.Values{}
	if !from.IsZero() {
		params.Set("start_date", from.Format("2006-01-02"))
	}
	if !to.IsZero() {
		params.Set("end_date", to.Format("2006-01-02"))
	}

	body, err := c.doRequest(ctx, "/api/v2/campaigns/analytics/daily", params)
	if err != nil {
		logger.Warn("instantly daily analytics fetch failed", "error", err.Error())
		return 0
	}

	var rows []DailyAnalyticsRow
	if err := json.Unmarshal(body, &rows); err != nil {
		logger.Warn("instantly daily analytics parse failed", "error", err.Error())
		return 0
	}

	var sent, clicks float64
	for _, row := range rows {
		sent += row.Sent.Float64
		clicks += row.Clicks.Float64
	}
	return datanorm.Round2(datanorm.Rate(clicks, sent))
}
