// Package metrics computes the dashboard snapshot: channel aggregates,
// external campaign analytics, and ranked lead segments, assembled in
// one pass per request.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/ignite/outreach-crm/internal/datanorm"
	"github.com/ignite/outreach-crm/internal/domain"
	"github.com/ignite/outreach-crm/internal/instantly"
	"github.com/ignite/outreach-crm/internal/pkg/logger"
)

// StoreReader is the backend-store surface the facade needs. Store
// fetches are hard dependencies: any failure zeroes the whole snapshot.
type StoreReader interface {
	Campaigns(ctx context.Context) ([]domain.Campaign, error)
	Leads(ctx context.Context) ([]domain.Lead, error)
	CallAnalytics(ctx context.Context) ([]domain.CallAnalyticsRecord, error)
	EmailAnalytics(ctx context.Context) ([]domain.EmailAnalyticsRecord, error)
	SMSAnalytics(ctx context.Context) ([]domain.SMSAnalyticsRecord, error)
}

// AnalyticsProvider is the external campaign-analytics surface. Its
// methods soft-fail to zero values internally and never return errors.
type AnalyticsProvider interface {
	CampaignStats(ctx context.Context) instantly.CampaignStats
	ClickThroughRate(ctx context.Context, from, to time.Time) float64
}

// Service is the dashboard metrics facade.
type Service struct {
	store     StoreReader
	analytics AnalyticsProvider
	cache     *SnapshotCache
}

// NewService creates the facade. cache may be nil; the service then
// recomputes on every call.
func NewService(store StoreReader, analytics AnalyticsProvider, cache *SnapshotCache) *Service {
	return &Service{store: store, analytics: analytics, cache: cache}
}

// GetDashboardMetrics assembles a complete snapshot for the optional
// yyyy-mm-dd range. Invalid date strings are a caller error; every
// runtime failure past that point degrades to the all-zero snapshot so
// the dashboard always renders.
func (s *Service) GetDashboardMetrics(ctx context.Context, from, to string) (*DashboardMetrics, error) {
	dateRange, err := ParseDateRange(from, to)
	if err != nil {
		return nil, err
	}

	if cached := s.cache.Get(ctx, from, to); cached != nil {
		logger.Debug("dashboard snapshot served from cache", "from", from, "to", to)
		return cached, nil
	}

	m, err := s.compute(ctx, dateRange)
	if err != nil {
		logger.Error("dashboard snapshot failed, serving zero metrics", "error", err.Error())
		return ZeroMetrics(), nil
	}

	s.cache.Set(ctx, from, to, m)
	return m, nil
}

// compute runs the sequential fetch-filter-aggregate pipeline. The
// store calls happen in a fixed order so partial upstream outages fail
// deterministically.
func (s *Service) compute(ctx context.Context, dateRange *DateRange) (*DashboardMetrics, error) {
	started := time.Now()

	campaigns, err := s.store.Campaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("campaigns: %w", err)
	}

	calls, err := s.store.CallAnalytics(ctx)
	if err != nil {
		return nil, fmt.Errorf("call analytics: %w", err)
	}

	emails, err := s.store.EmailAnalytics(ctx)
	if err != nil {
		return nil, fmt.Errorf("email analytics: %w", err)
	}

	stats := s.analytics.CampaignStats(ctx)

	var ctrFrom, ctrTo time.Time
	if dateRange != nil {
		ctrFrom, ctrTo = dateRange.From, dateRange.To
	}
	ctr := s.analytics.ClickThroughRate(ctx, ctrFrom, ctrTo)

	sms, err := s.store.SMSAnalytics(ctx)
	if err != nil {
		return nil, fmt.Errorf("sms analytics: %w", err)
	}

	leads, err := s.store.Leads(ctx)
	if err != nil {
		return nil, fmt.Errorf("leads: %w", err)
	}

	calls = FilterByDateRange(calls, dateRange)
	emails = FilterByDateRange(emails, dateRange)
	sms = FilterByDateRange(sms, dateRange)
	leads = FilterByDateRange(leads, dateRange)

	emailMetrics := AggregateEmails(emails)
	emailMetrics.PositiveResponseRate = datanorm.Round2(
		datanorm.Rate(float64(stats.Opportunities), float64(stats.Contacted)))

	m := &DashboardMetrics{
		TotalCampaigns: len(campaigns),
		TotalLeads:     len(leads),

		Calls:  AggregateCalls(calls),
		Emails: emailMetrics,
		SMS:    AggregateSMS(sms),

		CampaignAnalytics: stats,
		ClickThroughRate:  ctr,

		TopCities:     TopCities(leads),
		TopIndustries: TopIndustries(leads),
		TopICPs:       TopICPs(leads),
		TopSubICPs:    TopSubICPs(leads),
		Regions:       Regions(leads),
		ICPCities:     ICPCityBreakdown(leads),
	}

	logger.Info("dashboard snapshot computed",
		"duration_ms", time.Since(started).Milliseconds(),
		"campaigns", m.TotalCampaigns,
		"lead_count", m.TotalLeads,
	)
	return m, nil
}
