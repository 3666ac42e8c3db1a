// Package api exposes the dashboard and campaign-launch HTTP surface.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/outreach-crm/internal/domain"
	"github.com/ignite/outreach-crm/internal/instantly"
	"github.com/ignite/outreach-crm/internal/metrics"
	"github.com/ignite/outreach-crm/internal/pkg/logger"
	"github.com/ignite/outreach-crm/internal/webhook"
)

// DashboardService computes dashboard snapshots.
type DashboardService interface {
	GetDashboardMetrics(ctx context.Context, from, to string) (*metrics.DashboardMetrics, error)
}

// LeadSource fetches the leads a launch will deliver.
type LeadSource interface {
	LeadsForList(ctx context.Context, listID string) ([]domain.Lead, error)
}

// Deliverer runs a webhook delivery.
type Deliverer interface {
	Deliver(ctx context.Context, campaignID, leadListID string, leads []domain.Lead) webhook.Summary
}

// DeliveryRecorder persists run outcomes. Optional.
type DeliveryRecorder interface {
	Record(ctx context.Context, s webhook.Summary) error
}

// AnalyticsSource exposes the external campaign analytics.
type AnalyticsSource interface {
	CampaignStats(ctx context.Context) instantly.CampaignStats
}

// Handlers holds the request handlers and their dependencies.
type Handlers struct {
	dashboard DashboardService
	leads     LeadSource
	deliverer Deliverer
	recorder  DeliveryRecorder
	analytics AnalyticsSource
	startTime time.Time
}

// NewHandlers creates the handler set. recorder may be nil when no
// database is configured.
func NewHandlers(dashboard DashboardService, leads LeadSource, deliverer Deliverer, recorder DeliveryRecorder, analytics AnalyticsSource) *Handlers {
	return &Handlers{
		dashboard: dashboard,
		leads:     leads,
		deliverer: deliverer,
		recorder:  recorder,
		analytics: analytics,
		startTime: time.Now(),
	}
}

// HealthCheck reports liveness.
//
//	GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}

// GetDashboardMetrics returns the full dashboard snapshot, optionally
// filtered by date range.
//
//	GET /api/dashboard/metrics?from=2026-08-01&to=2026-08-31
func (h *Handlers) GetDashboardMetrics(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	m, err := h.dashboard.GetDashboardMetrics(r.Context(), from, to)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, m)
}

type launchRequest struct {
	LeadListID string        `json:"lead_list_id"`
	Leads      []domain.Lead `json:"leads"`
}

// LaunchCampaign delivers a lead list to the configured webhook. Leads
// supplied inline in the request body are delivered as-is; otherwise
// the list is fetched from the store. The request blocks for the whole
// run; delivery is strictly sequential and the summary reports every
// per-lead outcome.
//
//	POST /api/campaigns/{campaignID}/launch
func (h *Handlers) LaunchCampaign(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "campaignID")
	if campaignID == "" {
		respondError(w, http.StatusBadRequest, "campaign id required")
		return
	}

	var req launchRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.LeadListID == "" {
		respondError(w, http.StatusBadRequest, "lead_list_id required")
		return
	}

	leads := req.Leads
	if len(leads) == 0 {
		var err error
		leads, err = h.leads.LeadsForList(r.Context(), req.LeadListID)
		if err != nil {
			respondError(w, http.StatusBadGateway, "fetching leads: "+err.Error())
			return
		}
	}

	summary := h.deliverer.Deliver(r.Context(), campaignID, req.LeadListID, leads)

	if h.recorder != nil {
		if err := h.recorder.Record(r.Context(), summary); err != nil {
			logger.Warn("recording delivery run failed",
				"run_id", summary.RunID.String(),
				"error", err.Error(),
			)
		}
	}

	status := http.StatusOK
	if !summary.Success {
		status = http.StatusBadGateway
	}
	respondJSON(w, status, summary)
}

// GetCampaignAnalytics returns the aggregated external campaign stats.
//
//	GET /api/campaigns/analytics
func (h *Handlers) GetCampaignAnalytics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.analytics.CampaignStats(r.Context()))
}
