package metrics

import (
	"github.com/ignite/outreach-crm/internal/datanorm"
	"github.com/ignite/outreach-crm/internal/domain"
)

// smsBounceAssumption is the fixed bounce rate assumed for SMS volume;
// the telephony provider reports sends but not deliveries.
const smsBounceAssumption = 0.02

// AggregateCalls folds call analytics rows into channel totals and
// rates. Rows whose primary volume field (calls_sent) is null or absent
// are skipped entirely; an explicit "0" counts. All rates are
// zero-guarded and rounded to 2 decimals here, at the output boundary.
func AggregateCalls(records []domain.CallAnalyticsRecord) CallMetrics {
	var made, picked, booked float64
	for _, r := range records {
		if !r.CallsSent.Valid {
			continue
		}
		made += r.CallsSent.Float64
		picked += r.CallsPickedUp.Float64
		booked += r.AppointmentsBooked.Float64
	}

	return CallMetrics{
		CallsMade:          int64(made),
		CallsPickedUp:      int64(picked),
		AppointmentsBooked: int64(booked),

		PickupRate:             datanorm.Round2(datanorm.Rate(picked, made)),
		AppointmentBookingRate: datanorm.Round2(datanorm.Rate(booked, made)),
		ConversionRate:         datanorm.Round2(datanorm.Rate(booked, picked)),
	}
}

// AggregateEmails folds email analytics rows into channel totals and
// rates. Primary volume field: emails_sent. PositiveResponseRate is
// filled in later by the facade from external analytics.
func AggregateEmails(records []domain.EmailAnalyticsRecord) EmailMetrics {
	var sent, opened, replied, booked float64
	for _, r := range records {
		if !r.EmailsSent.Valid {
			continue
		}
		sent += r.EmailsSent.Float64
		opened += r.EmailsOpened.Float64
		replied += r.EmailsReplied.Float64
		booked += r.AppointmentsBooked.Float64
	}

	return EmailMetrics{
		EmailsSent:         int64(sent),
		EmailsOpened:       int64(opened),
		EmailsReplied:      int64(replied),
		AppointmentsBooked: int64(booked),

		OpenRate:               datanorm.Round2(datanorm.Rate(opened, sent)),
		ReplyRate:              datanorm.Round2(datanorm.Rate(replied, sent)),
		AppointmentBookingRate: datanorm.Round2(datanorm.Rate(booked, sent)),
	}
}

// AggregateSMS folds SMS analytics rows into channel totals and rates.
// Primary volume field: messages_sent. The delivery rate assumes the
// fixed bounce rate; the performance score weights appointments double.
func AggregateSMS(records []domain.SMSAnalyticsRecord) SMSMetrics {
	var sent, booked float64
	for _, r := range records {
		if !r.MessagesSent.Valid {
			continue
		}
		sent += r.MessagesSent.Float64
		booked += r.AppointmentsBooked.Float64
	}

	return SMSMetrics{
		MessagesSent:       int64(sent),
		AppointmentsBooked: int64(booked),

		DeliveryRate:     datanorm.Round2(datanorm.Rate(sent-sent*smsBounceAssumption, sent)),
		AppointmentRate:  datanorm.Round2(datanorm.Rate(booked, sent)),
		PerformanceScore: sent + booked*2,
	}
}
