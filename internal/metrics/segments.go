package metrics

import (
	"sort"
	"strings"

	"github.com/ignite/outreach-crm/internal/datanorm"
	"github.com/ignite/outreach-crm/internal/domain"
)

// Top-N truncation sizes for each segment type.
const (
	topCityCount     = 5
	topIndustryCount = 5
	topICPCount      = 2
	topSubICPCount   = 4
)

// segmentTally accumulates one segment's counters during a single
// aggregation pass. Tallies live only for the duration of the pass;
// every dashboard refresh starts from empty.
type segmentTally struct {
	key              string
	leads            int
	appointments     int
	performanceScore float64

	emailSent         int
	emailAppointments int
	callsMade         int
	callAppointments  int
	smsSent           int
	smsAppointments   int
}

// accumulate groups leads by keyFn in encounter order and scores each
// with scoreFn. Leads producing an empty key are skipped. Leads are
// read-only here: segment membership is derived, never written back.
func accumulate(leads []domain.Lead, keyFn func(domain.Lead) string, scoreFn func(domain.Lead) float64) []*segmentTally {
	index := make(map[string]*segmentTally)
	var order []*segmentTally

	for _, l := range leads {
		key := strings.TrimSpace(keyFn(l))
		if key == "" {
			continue
		}

		tally, ok := index[key]
		if !ok {
			tally = &segmentTally{key: key}
			index[key] = tally
			order = append(order, tally)
		}

		tally.leads++
		tally.performanceScore += scoreFn(l)

		booked := l.IsBooked()
		if booked {
			tally.appointments++
		}
		if l.CalledOrNot {
			tally.callsMade++
			if booked {
				tally.callAppointments++
			}
		}
		if l.EmailSent {
			tally.emailSent++
			if booked {
				tally.emailAppointments++
			}
		}
		if l.MessagedOrNot {
			tally.smsSent++
			if booked {
				tally.smsAppointments++
			}
		}
	}

	return order
}

// engagementScore is the shared lead score for industry/ICP/sub-ICP
// segments: +1 per engaged channel, +3 for a booked appointment, +2 for
// a contacted lead.
func engagementScore(l domain.Lead) float64 {
	var s float64
	if l.CalledOrNot {
		s++
	}
	if l.EmailSent {
		s++
	}
	if l.MessagedOrNot {
		s++
	}
	if l.IsBooked() {
		s += 3
	} else if l.IsContacted() {
		s += 2
	}
	return s
}

// cityScore is the city-segment variant: +1 per engaged channel and a
// flat +2 for booked-or-contacted. The difference from engagementScore
// is longstanding production behavior that ranking output depends on,
// so the two formulas stay separate per segment type.
func cityScore(l domain.Lead) float64 {
	var s float64
	if l.CalledOrNot {
		s++
	}
	if l.EmailSent {
		s++
	}
	if l.MessagedOrNot {
		s++
	}
	if l.IsBooked() || l.IsContacted() {
		s += 2
	}
	return s
}

// sortStable orders tallies descending by the given key, keeping
// encounter order for ties. Stability is part of the ranking contract.
func sortStable(tallies []*segmentTally, less func(a, b *segmentTally) bool) {
	sort.SliceStable(tallies, func(i, j int) bool {
		return less(tallies[i], tallies[j])
	})
}

func truncateTallies(tallies []*segmentTally, n int) []*segmentTally {
	if len(tallies) > n {
		return tallies[:n]
	}
	return tallies
}

// TopCities ranks cities by performance score and keeps the top 5.
// City keys come from the display-label heuristic, so leads without a
// location group under the unknown-location sentinel.
func TopCities(leads []domain.Lead) []CitySegment {
	tallies := accumulate(leads,
		func(l domain.Lead) string { return datanorm.FormatLocationLabel(l.Location) },
		cityScore,
	)
	sortStable(tallies, func(a, b *segmentTally) bool { return a.performanceScore > b.performanceScore })
	tallies = truncateTallies(tallies, topCityCount)

	out := make([]CitySegment, 0, len(tallies))
	for _, t := range tallies {
		out = append(out, CitySegment{
			City:             t.key,
			Leads:            t.leads,
			Appointments:     t.appointments,
			PerformanceScore: t.performanceScore,
		})
	}
	return out
}

// TopIndustries ranks industries by raw appointment count (not score)
// and keeps the top 5.
func TopIndustries(leads []domain.Lead) []IndustrySegment {
	tallies := accumulate(leads,
		func(l domain.Lead) string { return l.Industry },
		engagementScore,
	)
	sortStable(tallies, func(a, b *segmentTally) bool { return a.appointments > b.appointments })
	tallies = truncateTallies(tallies, topIndustryCount)

	out := make([]IndustrySegment, 0, len(tallies))
	for _, t := range tallies {
		out = append(out, IndustrySegment{
			Industry:         t.key,
			Leads:            t.leads,
			Appointments:     t.appointments,
			PerformanceScore: t.performanceScore,
		})
	}
	return out
}

func icpSegments(leads []domain.Lead, keyFn func(domain.Lead) string, n int) []ICPSegment {
	tallies := accumulate(leads, keyFn, engagementScore)
	sortStable(tallies, func(a, b *segmentTally) bool { return a.performanceScore > b.performanceScore })
	tallies = truncateTallies(tallies, n)

	out := make([]ICPSegment, 0, len(tallies))
	for _, t := range tallies {
		out = append(out, ICPSegment{
			Type:             t.key,
			Leads:            t.leads,
			Appointments:     t.appointments,
			PerformanceScore: t.performanceScore,

			CallConversionRate:  datanorm.Round2(datanorm.Rate(float64(t.callAppointments), float64(t.callsMade))),
			EmailConversionRate: datanorm.Round2(datanorm.Rate(float64(t.emailAppointments), float64(t.emailSent))),
			SMSConversionRate:   datanorm.Round2(datanorm.Rate(float64(t.smsAppointments), float64(t.smsSent))),
		})
	}
	return out
}

// TopICPs ranks major ICP classifications and keeps the top 2.
func TopICPs(leads []domain.Lead) []ICPSegment {
	return icpSegments(leads, func(l domain.Lead) string { return l.MajorICPType }, topICPCount)
}

// TopSubICPs ranks sub-ICP classifications and keeps the top 4.
func TopSubICPs(leads []domain.Lead) []ICPSegment {
	return icpSegments(leads, func(l domain.Lead) string { return l.ICPType }, topSubICPCount)
}

// Regions produces the untruncated region breakdown, sorted by
// appointment count descending.
func Regions(leads []domain.Lead) []RegionRow {
	tallies := accumulate(leads,
		func(l domain.Lead) string { return datanorm.FormatLocationLabel(l.Location) },
		cityScore,
	)
	sortStable(tallies, func(a, b *segmentTally) bool { return a.appointments > b.appointments })

	out := make([]RegionRow, 0, len(tallies))
	for _, t := range tallies {
		out = append(out, RegionRow{
			Region:       t.key,
			Leads:        t.leads,
			Appointments: t.appointments,
		})
	}
	return out
}

// ICPCityBreakdown produces the untruncated major-ICP × city rows,
// sorted by performance score descending. Leads missing either
// dimension are skipped.
func ICPCityBreakdown(leads []domain.Lead) []ICPCityRow {
	tallies := accumulate(leads,
		func(l domain.Lead) string {
			icp := strings.TrimSpace(l.MajorICPType)
			if icp == "" {
				return ""
			}
			return icp + "|" + datanorm.FormatLocationLabel(l.Location)
		},
		engagementScore,
	)
	sortStable(tallies, func(a, b *segmentTally) bool { return a.performanceScore > b.performanceScore })

	out := make([]ICPCityRow, 0, len(tallies))
	for _, t := range tallies {
		icp, city, _ := strings.Cut(t.key, "|")
		out = append(out, ICPCityRow{
			ICPType:          icp,
			City:             city,
			Leads:            t.leads,
			Appointments:     t.appointments,
			PerformanceScore: t.performanceScore,
		})
	}
	return out
}
