package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/outreach-crm/internal/domain"
	"github.com/ignite/outreach-crm/internal/instantly"
)

type fakeStore struct {
	campaigns []domain.Campaign
	leads     []domain.Lead
	calls     []domain.CallAnalyticsRecord
	emails    []domain.EmailAnalyticsRecord
	sms       []domain.SMSAnalyticsRecord

	leadsErr error
	callsErr error

	callCount int
}

func (f *fakeStore) Campaigns(ctx context.Context) ([]domain.Campaign, error) {
	f.callCount++
	return f.campaigns, nil
}

func (f *fakeStore) Leads(ctx context.Context) ([]domain.Lead, error) {
	f.callCount++
	return f.leads, f.leadsErr
}

func (f *fakeStore) CallAnalytics(ctx context.Context) ([]domain.CallAnalyticsRecord, error) {
	f.callCount++
	return f.calls, f.callsErr
}

func (f *fakeStore) EmailAnalytics(ctx context.Context) ([]domain.EmailAnalyticsRecord, error) {
	f.callCount++
	return f.emails, nil
}

func (f *fakeStore) SMSAnalytics(ctx context.Context) ([]domain.SMSAnalyticsRecord, error) {
	f.callCount++
	return f.sms, nil
}

type fakeAnalytics struct {
	stats instantly.CampaignStats
	ctr   float64

	ctrFrom time.Time
	ctrTo   time.Time
}

func (f *fakeAnalytics) CampaignStats(ctx context.Context) instantly.CampaignStats {
	return f.stats
}

func (f *fakeAnalytics) ClickThroughRate(ctx context.Context, from, to time.Time) float64 {
	f.ctrFrom, f.ctrTo = from, to
	return f.ctr
}

func TestGetDashboardMetrics(t *testing.T) {
	store := &fakeStore{
		campaigns: []domain.Campaign{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}},
		leads: []domain.Lead{
			{Industry: "Roofing", Status: domain.LeadStatusBooked, CalledOrNot: true},
			{Industry: "Roofing", CalledOrNot: true},
			{Industry: "HVAC", EmailSent: true},
		},
		calls: []domain.CallAnalyticsRecord{
			{CallsSent: ff(500), CallsPickedUp: ff(200), AppointmentsBooked: ff(50)},
		},
		emails: []domain.EmailAnalyticsRecord{
			{EmailsSent: ff(1000), EmailsOpened: ff(300), EmailsReplied: ff(60), AppointmentsBooked: ff(10)},
		},
		sms: []domain.SMSAnalyticsRecord{
			{MessagesSent: ff(100), AppointmentsBooked: ff(2)},
		},
	}
	analytics := &fakeAnalytics{
		stats: instantly.CampaignStats{Opportunities: 40, Contacted: 800},
		ctr:   2.5,
	}

	svc := NewService(store, analytics, nil)
	m, err := svc.GetDashboardMetrics(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, 3, m.TotalCampaigns)
	assert.Equal(t, 3, m.TotalLeads)
	assert.Equal(t, 40.0, m.Calls.PickupRate)
	assert.Equal(t, 30.0, m.Emails.OpenRate)
	assert.Equal(t, 5.0, m.Emails.PositiveResponseRate) // 40/800*100
	assert.Equal(t, 2.5, m.ClickThroughRate)
	assert.Equal(t, int64(40), m.CampaignAnalytics.Opportunities)

	require.NotEmpty(t, m.TopIndustries)
	assert.Equal(t, "Roofing", m.TopIndustries[0].Industry)
	assert.NotEmpty(t, m.TopCities) // unknown-location bucket
}

func TestGetDashboardMetricsStoreFailureZeroes(t *testing.T) {
	store := &fakeStore{
		campaigns: []domain.Campaign{{ID: "c1"}},
		callsErr:  errors.New("store unavailable"),
	}
	svc := NewService(store, &fakeAnalytics{ctr: 9.9}, nil)

	m, err := svc.GetDashboardMetrics(context.Background(), "", "")
	require.NoError(t, err)

	// Hard failure anywhere yields the all-zero snapshot, never a
	// partial one.
	assert.Equal(t, ZeroMetrics(), m)
	assert.NotNil(t, m.TopCities)
	assert.Empty(t, m.TopCities)
}

func TestGetDashboardMetricsLeadsFailureZeroes(t *testing.T) {
	store := &fakeStore{
		campaigns: []domain.Campaign{{ID: "c1"}},
		calls:     []domain.CallAnalyticsRecord{{CallsSent: ff(100)}},
		leadsErr:  errors.New("timeout"),
	}
	svc := NewService(store, &fakeAnalytics{}, nil)

	m, err := svc.GetDashboardMetrics(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, ZeroMetrics(), m)
}

func TestGetDashboardMetricsInvalidRange(t *testing.T) {
	svc := NewService(&fakeStore{}, &fakeAnalytics{}, nil)
	_, err := svc.GetDashboardMetrics(context.Background(), "08/01/2026", "")
	assert.Error(t, err)
}

func TestGetDashboardMetricsDateRangePropagates(t *testing.T) {
	store := &fakeStore{
		calls: []domain.CallAnalyticsRecord{
			{CallsSent: ff(100), CreatedAt: "2026-08-10"},
			{CallsSent: ff(900), CreatedAt: "2026-09-10"},
		},
	}
	analytics := &fakeAnalytics{}
	svc := NewService(store, analytics, nil)

	m, err := svc.GetDashboardMetrics(context.Background(), "2026-08-01", "2026-08-31")
	require.NoError(t, err)

	assert.Equal(t, int64(100), m.Calls.CallsMade)
	assert.Equal(t, "2026-08-01", analytics.ctrFrom.Format("2006-01-02"))
	assert.Equal(t, "2026-08-31", analytics.ctrTo.Format("2006-01-02"))
}

func TestGetDashboardMetricsFiltersLeadsByDateRange(t *testing.T) {
	store := &fakeStore{
		leads: []domain.Lead{
			{Industry: "Roofing", Status: domain.LeadStatusBooked, CalledOrNot: true, CreatedAt: "2026-08-10"},
			{Industry: "HVAC", Status: domain.LeadStatusBooked, CalledOrNot: true, CreatedAt: "2025-01-01"},
		},
	}
	svc := NewService(store, &fakeAnalytics{}, nil)

	m, err := svc.GetDashboardMetrics(context.Background(), "2026-08-01", "2026-08-31")
	require.NoError(t, err)

	// The out-of-range lead is excluded from the count and from every
	// ranking.
	assert.Equal(t, 1, m.TotalLeads)
	require.Len(t, m.TopIndustries, 1)
	assert.Equal(t, "Roofing", m.TopIndustries[0].Industry)
}

func TestGetDashboardMetricsCacheHit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewSnapshotCache(rdb, time.Minute)

	store := &fakeStore{
		campaigns: []domain.Campaign{{ID: "c1"}},
	}
	svc := NewService(store, &fakeAnalytics{}, cache)

	first, err := svc.GetDashboardMetrics(context.Background(), "", "")
	require.NoError(t, err)
	fetchesAfterFirst := store.callCount

	second, err := svc.GetDashboardMetrics(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, fetchesAfterFirst, store.callCount, "cache hit must skip store fetches")
}

func TestGetDashboardMetricsCacheExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewSnapshotCache(rdb, time.Minute)

	store := &fakeStore{campaigns: []domain.Campaign{{ID: "c1"}}}
	svc := NewService(store, &fakeAnalytics{}, cache)

	_, err := svc.GetDashboardMetrics(context.Background(), "", "")
	require.NoError(t, err)
	fetches := store.callCount

	mr.FastForward(2 * time.Minute)

	_, err = svc.GetDashboardMetrics(context.Background(), "", "")
	require.NoError(t, err)
	assert.Greater(t, store.callCount, fetches, "expired entry must trigger a recompute")
}

func TestSnapshotCacheUnavailableDegrades(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 10 * time.Millisecond})
	cache := NewSnapshotCache(rdb, time.Minute)

	store := &fakeStore{campaigns: []domain.Campaign{{ID: "c1"}}}
	svc := NewService(store, &fakeAnalytics{}, cache)

	m, err := svc.GetDashboardMetrics(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, m.TotalCampaigns)
}
