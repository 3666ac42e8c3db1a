package domain

import (
	"time"

	"github.com/ignite/outreach-crm/internal/datanorm"
)

// Campaign is an outreach campaign row. The dashboard only needs the
// count and identifiers; launch/status handling lives in the backend.
type Campaign struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CallAnalyticsRecord is one row of the call_analytics table. Numeric
// columns use FlexFloat because the telephony sync writes nulls and
// numeric strings interchangeably. CallsSent is the primary volume
// field: rows where it is null or absent are skipped by the aggregator.
type CallAnalyticsRecord struct {
	CampaignID         string             `json:"campaign_id,omitempty"`
	CallsSent          datanorm.FlexFloat `json:"calls_sent"`
	CallsPickedUp      datanorm.FlexFloat `json:"calls_picked_up"`
	AppointmentsBooked datanorm.FlexFloat `json:"appointments_booked"`
	CreatedAt          string             `json:"created_at,omitempty"`
	UpdatedAt          string             `json:"updated_at,omitempty"`
	Date               string             `json:"date,omitempty"`
}

// EventTimes returns candidate timestamps in priority order.
func (r CallAnalyticsRecord) EventTimes() []time.Time {
	return ParseEventTimes(r.CreatedAt, r.UpdatedAt, r.Date)
}

// EmailAnalyticsRecord is one row of the email_analytics table.
// EmailsSent is the primary volume field.
type EmailAnalyticsRecord struct {
	CampaignID         string             `json:"campaign_id,omitempty"`
	EmailsSent         datanorm.FlexFloat `json:"emails_sent"`
	EmailsOpened       datanorm.FlexFloat `json:"emails_opened"`
	EmailsReplied      datanorm.FlexFloat `json:"emails_replied"`
	AppointmentsBooked datanorm.FlexFloat `json:"appointments_booked"`
	CreatedAt          string             `json:"created_at,omitempty"`
	UpdatedAt          string             `json:"updated_at,omitempty"`
	Date               string             `json:"date,omitempty"`
}

// EventTimes returns candidate timestamps in priority order.
func (r EmailAnalyticsRecord) EventTimes() []time.Time {
	return ParseEventTimes(r.CreatedAt, r.UpdatedAt, r.Date)
}

// SMSAnalyticsRecord is one row of the sms_analytics table.
// MessagesSent is the primary volume field.
type SMSAnalyticsRecord struct {
	CampaignID         string             `json:"campaign_id,omitempty"`
	MessagesSent       datanorm.FlexFloat `json:"messages_sent"`
	AppointmentsBooked datanorm.FlexFloat `json:"appointments_booked"`
	CreatedAt          string             `json:"created_at,omitempty"`
	UpdatedAt          string             `json:"updated_at,omitempty"`
	Date               string             `json:"date,omitempty"`
}

// EventTimes returns candidate timestamps in priority order.
func (r SMSAnalyticsRecord) EventTimes() []time.Time {
	return ParseEventTimes(r.CreatedAt, r.UpdatedAt, r.Date)
}
