// Package webhook delivers campaign leads to an external automation
// webhook, one lead at a time, with bounded retries per lead and pacing
// between leads so the receiving side is never flooded.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/outreach-crm/internal/config"
	"github.com/ignite/outreach-crm/internal/domain"
	"github.com/ignite/outreach-crm/internal/pkg/logger"
)

// DeliveryState tracks one lead through the delivery lifecycle.
type DeliveryState string

const (
	StatePending     DeliveryState = "pending"
	StateAttempting  DeliveryState = "attempting"
	StateRetrying    DeliveryState = "retrying"
	StateSucceeded   DeliveryState = "succeeded"
	StateFailedFinal DeliveryState = "failed"
)

// payload is the JSON body posted per lead.
type payload struct {
	CampaignID string      `json:"campaignId"`
	LeadListID string      `json:"leadListId"`
	Lead       domain.Lead `json:"lead"`
	LeadIndex  int         `json:"leadIndex"`
	TotalLeads int         `json:"totalLeads"`
	Timestamp  string      `json:"timestamp"`
}

// Result is the final state of one lead's delivery.
type Result struct {
	LeadIndex int           `json:"lead_index"`
	LeadID    string        `json:"lead_id,omitempty"`
	State     DeliveryState `json:"state"`
	Attempts  int           `json:"attempts"`
	Error     string        `json:"error,omitempty"`
}

// Summary is the outcome of one delivery run. Success means at least
// one lead was delivered; a run with zero leads is a failure.
type Summary struct {
	RunID      uuid.UUID `json:"run_id"`
	CampaignID string    `json:"campaign_id"`
	LeadListID string    `json:"lead_list_id"`

	Success      bool `json:"success"`
	SuccessCount int  `json:"success_count"`
	FailureCount int  `json:"failure_count"`
	TotalLeads   int  `json:"total_leads"`

	Errors  []string `json:"errors"`
	Results []Result `json:"results"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Engine delivers leads sequentially to the configured webhook URL.
type Engine struct {
	url         string
	maxAttempts int
	backoffBase time.Duration
	pacingDelay time.Duration
	httpClient  *http.Client
}

func NewEngine(cfg config.WebhookConfig) *Engine {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Engine{
		url:         cfg.URL,
		maxAttempts: maxAttempts,
		backoffBase: cfg.BackoffBase(),
		pacingDelay: cfg.PacingDelay(),
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// Deliver posts every lead to the webhook in order. The run is strictly
// sequential: a lead's retries finish before the next lead starts, and
// one lead's final failure never aborts the rest of the run. Context
// cancellation stops the run between waits; already-delivered leads
// keep their results.
func (e *Engine) Deliver(ctx context.Context, campaignID, leadListID string, leads []domain.Lead) Summary {
	summary := Summary{
		RunID:      uuid.New(),
		CampaignID: campaignID,
		LeadListID: leadListID,
		TotalLeads: len(leads),
		Errors:     []string{},
		Results:    []Result{},
		StartedAt:  time.Now().UTC(),
	}

	logger.Info("webhook delivery run started",
		"run_id", summary.RunID.String(),
		"campaign_id", campaignID,
		"total_leads", len(leads),
	)

	for i, l := range leads {
		index := i + 1

		result := e.deliverLead(ctx, campaignID, leadListID, l, index, len(leads))
		summary.Results = append(summary.Results, result)

		if result.State == StateSucceeded {
			summary.SuccessCount++
		} else {
			summary.FailureCount++
			summary.Errors = append(summary.Errors, fmt.Sprintf("Lead %d: %s", index, result.Error))
		}

		if ctx.Err() != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("run aborted: %v", ctx.Err()))
			break
		}

		// Pace between leads, not after the last one.
		if i < len(leads)-1 {
			if !e.wait(ctx, e.pacingDelay) {
				summary.Errors = append(summary.Errors, fmt.Sprintf("run aborted: %v", ctx.Err()))
				break
			}
		}
	}

	summary.Success = summary.SuccessCount > 0
	summary.FinishedAt = time.Now().UTC()

	logger.Info("webhook delivery run finished",
		"run_id", summary.RunID.String(),
		"success_count", summary.SuccessCount,
		"failure_count", summary.FailureCount,
		"duration_ms", summary.FinishedAt.Sub(summary.StartedAt).Milliseconds(),
	)
	return summary
}

// deliverLead runs the bounded attempt loop for a single lead. Backoff
// doubles per failed attempt from the base delay.
func (e *Engine) deliverLead(ctx context.Context, campaignID, leadListID string, l domain.Lead, index, total int) Result {
	result := Result{
		LeadIndex: index,
		LeadID:    l.ID,
		State:     StatePending,
	}

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		result.State = StateAttempting
		result.Attempts = attempt

		err := e.post(ctx, campaignID, leadListID, l, index, total)
		if err == nil {
			result.State = StateSucceeded
			result.Error = ""
			return result
		}
		result.Error = err.Error()

		if ctx.Err() != nil {
			result.State = StateFailedFinal
			return result
		}
		if attempt == e.maxAttempts {
			break
		}

		result.State = StateRetrying
		delay := time.Duration(float64(e.backoffBase) * math.Pow(2, float64(attempt)))
		logger.Warn("webhook delivery attempt failed, retrying",
			"lead_index", index,
			"attempt", attempt,
			"backoff", delay.String(),
			"error", err.Error(),
		)
		if !e.wait(ctx, delay) {
			result.State = StateFailedFinal
			return result
		}
	}

	result.State = StateFailedFinal
	logger.Error("webhook delivery exhausted attempts",
		"lead_index", index,
		"attempts", result.Attempts,
		"error", result.Error,
	)
	return result
}

// post sends one delivery attempt.
func (e *Engine) post(ctx context.Context, campaignID, leadListID string, l domain.Lead, index, total int) error {
	body, err := json.Marshal(payload{
		CampaignID: campaignID,
		LeadListID: leadListID,
		Lead:       l,
		LeadIndex:  index,
		TotalLeads: total,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Campaign-ID", campaignID)
	req.Header.Set("X-Lead-List-ID", leadListID)
	req.Header.Set("X-Lead-Index", strconv.Itoa(index))
	req.Header.Set("X-Total-Leads", strconv.Itoa(total))

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(respBody))
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// wait sleeps for d or until the context is done. Returns false on
// cancellation.
func (e *Engine) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
