package domain

import (
	"strings"
	"time"
)

// Lead statuses. The backend treats status as an open set of strings;
// these are the values the dashboard cares about. Matching is
// case-insensitive because rows come from several import paths.
const (
	LeadStatusNew               = "new"
	LeadStatusContacted         = "contacted"
	LeadStatusBooked            = "booked"
	LeadStatusAppointmentBooked = "appointment booked"
	LeadStatusReplied           = "replied"
)

// Lead is a single CRM lead row. Segment membership (city, industry,
// ICP, sub-ICP) is derived from these fields at read time; the metrics
// pipeline never writes leads back.
type Lead struct {
	ID       string `json:"id,omitempty"`
	ListID   string `json:"lead_list_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Company  string `json:"company,omitempty"`
	Location string `json:"location,omitempty"`
	Industry string `json:"industry,omitempty"`

	// ICP classification labels set by the lead-list importer.
	MajorICPType string `json:"major_icp_type,omitempty"`
	ICPType      string `json:"icp_type,omitempty"`

	Status string `json:"status,omitempty"`

	// Per-channel engagement flags.
	CalledOrNot   bool `json:"called_or_not,omitempty"`
	EmailSent     bool `json:"email_sent,omitempty"`
	MessagedOrNot bool `json:"messaged_or_not,omitempty"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// IsBooked reports whether the lead reached a booked appointment.
// Both spellings occur in production data.
func (l Lead) IsBooked() bool {
	s := strings.ToLower(strings.TrimSpace(l.Status))
	return s == LeadStatusBooked || s == LeadStatusAppointmentBooked
}

// IsContacted reports whether the lead has been contacted but not booked.
func (l Lead) IsContacted() bool {
	return strings.EqualFold(strings.TrimSpace(l.Status), LeadStatusContacted)
}

// EventTimes returns the lead's parseable timestamps in priority order
// for date-range filtering.
func (l Lead) EventTimes() []time.Time {
	return ParseEventTimes(l.CreatedAt, l.UpdatedAt)
}

// timestampLayouts are the formats the backend emits depending on
// column type and import path.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseEventTimes parses each candidate timestamp string, in the order
// given, skipping empty and unparseable values.
func ParseEventTimes(candidates ...string) []time.Time {
	var out []time.Time
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, c); err == nil {
				out = append(out, t)
				break
			}
		}
	}
	return out
}
