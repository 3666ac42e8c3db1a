package metrics

import "github.com/ignite/outreach-crm/internal/instantly"

// CallMetrics are the aggregated call-channel counters and rates.
type CallMetrics struct {
	CallsMade          int64 `json:"calls_made"`
	CallsPickedUp      int64 `json:"calls_picked_up"`
	AppointmentsBooked int64 `json:"appointments_booked"`

	PickupRate             float64 `json:"pickup_rate"`
	AppointmentBookingRate float64 `json:"appointment_booking_rate"`
	ConversionRate         float64 `json:"conversion_rate"`
}

// EmailMetrics are the aggregated email-channel counters and rates.
// PositiveResponseRate is derived from the external analytics provider
// (opportunities over contacted), not from the backend rows.
type EmailMetrics struct {
	EmailsSent         int64 `json:"emails_sent"`
	EmailsOpened       int64 `json:"emails_opened"`
	EmailsReplied      int64 `json:"emails_replied"`
	AppointmentsBooked int64 `json:"appointments_booked"`

	OpenRate               float64 `json:"open_rate"`
	ReplyRate              float64 `json:"reply_rate"`
	AppointmentBookingRate float64 `json:"appointment_booking_rate"`
	PositiveResponseRate   float64 `json:"positive_response_rate"`
}

// SMSMetrics are the aggregated SMS-channel counters and rates.
type SMSMetrics struct {
	MessagesSent       int64 `json:"messages_sent"`
	AppointmentsBooked int64 `json:"appointments_booked"`

	DeliveryRate     float64 `json:"delivery_rate"`
	AppointmentRate  float64 `json:"appointment_rate"`
	PerformanceScore float64 `json:"performance_score"`
}

// CitySegment is a ranked city with its engagement tally.
type CitySegment struct {
	City             string  `json:"city"`
	Leads            int     `json:"leads"`
	Appointments     int     `json:"appointments"`
	PerformanceScore float64 `json:"performance_score"`
}

// IndustrySegment is a ranked industry. Industries sort by raw
// appointment count, unlike the score-sorted segments.
type IndustrySegment struct {
	Industry         string  `json:"industry"`
	Leads            int     `json:"leads"`
	Appointments     int     `json:"appointments"`
	PerformanceScore float64 `json:"performance_score"`
}

// ICPSegment is a ranked ICP or sub-ICP classification with per-channel
// conversion rates.
type ICPSegment struct {
	Type             string  `json:"type"`
	Leads            int     `json:"leads"`
	Appointments     int     `json:"appointments"`
	PerformanceScore float64 `json:"performance_score"`

	CallConversionRate  float64 `json:"call_conversion_rate"`
	EmailConversionRate float64 `json:"email_conversion_rate"`
	SMSConversionRate   float64 `json:"sms_conversion_rate"`
}

// RegionRow is one row of the untruncated region breakdown.
type RegionRow struct {
	Region       string `json:"region"`
	Leads        int    `json:"leads"`
	Appointments int    `json:"appointments"`
}

// ICPCityRow is one row of the ICP-by-city breakdown.
type ICPCityRow struct {
	ICPType          string  `json:"icp_type"`
	City             string  `json:"city"`
	Leads            int     `json:"leads"`
	Appointments     int     `json:"appointments"`
	PerformanceScore float64 `json:"performance_score"`
}

// DashboardMetrics is the immutable output of one facade run. It is
// assembled fresh on every call and never partially updated.
type DashboardMetrics struct {
	TotalCampaigns int `json:"total_campaigns"`
	TotalLeads     int `json:"total_leads"`

	Calls  CallMetrics  `json:"calls"`
	Emails EmailMetrics `json:"emails"`
	SMS    SMSMetrics   `json:"sms"`

	CampaignAnalytics instantly.CampaignStats `json:"campaign_analytics"`
	ClickThroughRate  float64                 `json:"click_through_rate"`

	TopCities     []CitySegment     `json:"top_cities"`
	TopIndustries []IndustrySegment `json:"top_industries"`
	TopICPs       []ICPSegment      `json:"top_icps"`
	TopSubICPs    []ICPSegment      `json:"top_sub_icps"`
	Regions       []RegionRow       `json:"regions"`
	ICPCities     []ICPCityRow      `json:"icp_cities"`
}

// ZeroMetrics returns the all-zero fallback object the facade yields on
// any hard fetch failure. Slices are empty, not nil, so the JSON always
// renders arrays.
func ZeroMetrics() *DashboardMetrics {
	return &DashboardMetrics{
		TopCities:     []CitySegment{},
		TopIndustries: []IndustrySegment{},
		TopICPs:       []ICPSegment{},
		TopSubICPs:    []ICPSegment{},
		Regions:       []RegionRow{},
		ICPCities:     []ICPCityRow{},
	}
}
