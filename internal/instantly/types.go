package instantly

import "github.com/ignite/outreach-crm/internal/datanorm"

// CampaignAnalyticsRow is one campaign's lifetime counters as returned
// by the aggregate analytics endpoint.
type CampaignAnalyticsRow struct {
	CampaignID         string             `json:"campaign_id"`
	CampaignName       string             `json:"campaign_name"`
	LeadsCount         datanorm.FlexFloat `json:"leads_count"`
	ContactedCount     datanorm.FlexFloat `json:"contacted_count"`
	OpenCount          datanorm.FlexFloat `json:"open_count"`
	ReplyCount         datanorm.FlexFloat `json:"reply_count"`
	LinkClickCount     datanorm.FlexFloat `json:"link_click_count"`
	BouncedCount       datanorm.FlexFloat `json:"bounced_count"`
	UnsubscribedCount  datanorm.FlexFloat `json:"unsubscribed_count"`
	EmailsSentCount    datanorm.FlexFloat `json:"emails_sent_count"`
	TotalOpportunities datanorm.FlexFloat `json:"total_opportunities"`
}

// DailyAnalyticsRow is one day of send/click counters from the daily
// analytics endpoint.
type DailyAnalyticsRow struct {
	Date    string             `json:"date"`
	Sent    datanorm.FlexFloat `json:"sent"`
	Opened  datanorm.FlexFloat `json:"opened"`
	Clicks  datanorm.FlexFloat `json:"clicks"`
	Replies datanorm.FlexFloat `json:"replies"`
}

// CampaignStats is the aggregate across all non-excluded campaigns.
// The zero value is the soft-failure result returned whenever the
// credential is missing or the API call fails.
type CampaignStats struct {
	Opportunities int64 `json:"opportunities"`
	Contacted     int64 `json:"contacted"`
	Bounced       int64 `json:"bounced"`
	Unsubscribed  int64 `json:"unsubscribed"`
	LinkClicks    int64 `json:"link_clicks"`
	Leads         int64 `json:"leads"`
	Opens         int64 `json:"opens"`
	Replies       int64 `json:"replies"`
	EmailsSent    int64 `json:"emails_sent"`

	BouncedRate      float64 `json:"bounced_rate"`
	UnsubscribedRate float64 `json:"unsubscribed_rate"`
	LinkClickedRate  float64 `json:"link_clicked_rate"`
}

// AggregateCampaignStats sums counters across rows, skipping any row
// whose campaign ID or name appears in the exclusion list. Excluded
// rows are dropped entirely, not merely zeroed. Rates are percentages
// of total emails sent, zero-guarded and rounded to 2 decimals.
func AggregateCampaignStats(rows []CampaignAnalyticsRow, excluded []string) CampaignStats {
	skip := make(map[string]bool, len(excluded))
	for _, e := range excluded {
		skip[e] = true
	}

	var stats CampaignStats
	for _, row := range rows {
		if skip[row.CampaignID] || skip[row.CampaignName] {
			continue
		}
		stats.Opportunities += int64(row.TotalOpportunities.Float64)
		stats.Contacted += int64(row.ContactedCount.Float64)
		stats.Bounced += int64(row.BouncedCount.Float64)
		stats.Unsubscribed += int64(row.UnsubscribedCount.Float64)
		stats.LinkClicks += int64(row.LinkClickCount.Float64)
		stats.Leads += int64(row.LeadsCount.Float64)
		stats.Opens += int64(row.OpenCount.Float64)
		stats.Replies += int64(row.ReplyCount.Float64)
		stats.EmailsSent += int64(row.EmailsSentCount.Float64)
	}

	sent := float64(stats.EmailsSent)
	stats.BouncedRate = datanorm.Round2(datanorm.Rate(float64(stats.Bounced), sent))
	stats.UnsubscribedRate = datanorm.Round2(datanorm.Rate(float64(stats.Unsubscribed), sent))
	stats.LinkClickedRate = datanorm.Round2(datanorm.Rate(float64(stats.LinkClicks), sent))
	return stats
}
