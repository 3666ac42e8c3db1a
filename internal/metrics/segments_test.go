package metrics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/outreach-crm/internal/domain"
)

func TestTopCitiesTruncatesAndSorts(t *testing.T) {
	var leads []domain.Lead
	// Seven cities, each with i leads that were called.
	for i := 1; i <= 7; i++ {
		for j := 0; j < i; j++ {
			leads = append(leads, domain.Lead{
				Location:    fmt.Sprintf("City%d, State", i),
				CalledOrNot: true,
			})
		}
	}

	cities := TopCities(leads)
	require.Len(t, cities, 5)

	assert.Equal(t, "City7, State", cities[0].City)
	assert.Equal(t, 7, cities[0].Leads)
	for i := 1; i < len(cities); i++ {
		assert.GreaterOrEqual(t, cities[i-1].PerformanceScore, cities[i].PerformanceScore)
	}
}

func TestTopCitiesStableTies(t *testing.T) {
	leads := []domain.Lead{
		{Location: "Austin, Texas", CalledOrNot: true},
		{Location: "Boston, Massachusetts", CalledOrNot: true},
		{Location: "Chicago, Illinois", CalledOrNot: true},
	}

	cities := TopCities(leads)
	require.Len(t, cities, 3)

	// Equal scores keep encounter order.
	assert.Equal(t, "Austin, Texas", cities[0].City)
	assert.Equal(t, "Boston, Massachusetts", cities[1].City)
	assert.Equal(t, "Chicago, Illinois", cities[2].City)
}

func TestCityScoringFlatBonus(t *testing.T) {
	// A booked lead and a contacted lead score identically for cities:
	// the +2 bonus is flat for booked-or-contacted.
	booked := TopCities([]domain.Lead{
		{Location: "Denver, Colorado", CalledOrNot: true, Status: domain.LeadStatusBooked},
	})
	contacted := TopCities([]domain.Lead{
		{Location: "Denver, Colorado", CalledOrNot: true, Status: domain.LeadStatusContacted},
	})

	require.Len(t, booked, 1)
	require.Len(t, contacted, 1)
	assert.Equal(t, 3.0, booked[0].PerformanceScore)
	assert.Equal(t, contacted[0].PerformanceScore, booked[0].PerformanceScore)
	assert.Equal(t, 1, booked[0].Appointments)
	assert.Equal(t, 0, contacted[0].Appointments)
}

func TestICPScoringBookedOutranksContacted(t *testing.T) {
	// Unlike cities, ICP scoring pays +3 for booked and +2 for
	// contacted.
	segments := TopSubICPs([]domain.Lead{
		{ICPType: "Plumbers", CalledOrNot: true, Status: domain.LeadStatusBooked},
		{ICPType: "Roofers", CalledOrNot: true, Status: domain.LeadStatusContacted},
	})

	require.Len(t, segments, 2)
	assert.Equal(t, "Plumbers", segments[0].Type)
	assert.Equal(t, 4.0, segments[0].PerformanceScore)
	assert.Equal(t, "Roofers", segments[1].Type)
	assert.Equal(t, 3.0, segments[1].PerformanceScore)
}

func TestTopIndustriesSortByAppointments(t *testing.T) {
	leads := []domain.Lead{
		// High engagement, no bookings.
		{Industry: "SaaS", CalledOrNot: true, EmailSent: true, MessagedOrNot: true},
		{Industry: "SaaS", CalledOrNot: true, EmailSent: true, MessagedOrNot: true},
		// One booking, minimal engagement.
		{Industry: "Roofing", Status: domain.LeadStatusAppointmentBooked},
	}

	industries := TopIndustries(leads)
	require.Len(t, industries, 2)

	assert.Equal(t, "Roofing", industries[0].Industry)
	assert.Equal(t, 1, industries[0].Appointments)
	assert.Equal(t, "SaaS", industries[1].Industry)
}

func TestTopIndustriesSkipsEmptyKey(t *testing.T) {
	leads := []domain.Lead{
		{Industry: "", Status: domain.LeadStatusBooked},
		{Industry: "   ", Status: domain.LeadStatusBooked},
		{Industry: "HVAC", Status: domain.LeadStatusBooked},
	}

	industries := TopIndustries(leads)
	require.Len(t, industries, 1)
	assert.Equal(t, "HVAC", industries[0].Industry)
}

func TestTopCitiesMissingLocationGroupsAsUnknown(t *testing.T) {
	cities := TopCities([]domain.Lead{
		{Location: "", CalledOrNot: true},
		{Location: "", EmailSent: true},
	})

	require.Len(t, cities, 1)
	assert.Equal(t, "Unknown Location", cities[0].City)
	assert.Equal(t, 2, cities[0].Leads)
}

func TestTopICPsTruncation(t *testing.T) {
	leads := []domain.Lead{
		{MajorICPType: "Home Services", CalledOrNot: true},
		{MajorICPType: "Healthcare", EmailSent: true},
		{MajorICPType: "Legal", MessagedOrNot: true},
	}

	assert.Len(t, TopICPs(leads), 2)
}

func TestICPChannelConversionRates(t *testing.T) {
	leads := []domain.Lead{
		{MajorICPType: "Home Services", CalledOrNot: true, Status: domain.LeadStatusBooked},
		{MajorICPType: "Home Services", CalledOrNot: true},
		{MajorICPType: "Home Services", EmailSent: true},
		{MajorICPType: "Home Services", EmailSent: true},
	}

	segments := TopICPs(leads)
	require.Len(t, segments, 1)

	seg := segments[0]
	assert.Equal(t, 50.0, seg.CallConversionRate) // 1 booked of 2 called
	assert.Equal(t, 0.0, seg.EmailConversionRate) // 0 booked of 2 emailed
	assert.Equal(t, 0.0, seg.SMSConversionRate)   // no SMS volume, zero-guarded
}

func TestSegmentsEmptyLeads(t *testing.T) {
	assert.Empty(t, TopCities(nil))
	assert.Empty(t, TopIndustries(nil))
	assert.Empty(t, TopICPs(nil))
	assert.Empty(t, TopSubICPs(nil))
	assert.Empty(t, Regions(nil))
	assert.Empty(t, ICPCityBreakdown(nil))
}

func TestRegionsUntruncated(t *testing.T) {
	var leads []domain.Lead
	for i := 0; i < 8; i++ {
		leads = append(leads, domain.Lead{Location: fmt.Sprintf("Region%d, X", i)})
	}

	assert.Len(t, Regions(leads), 8)
}

func TestICPCityBreakdown(t *testing.T) {
	leads := []domain.Lead{
		{MajorICPType: "Home Services", Location: "Austin, Texas", Status: domain.LeadStatusBooked},
		{MajorICPType: "Home Services", Location: "Austin, Texas"},
		{MajorICPType: "Home Services", Location: "Boston, Massachusetts"},
		{MajorICPType: "", Location: "Austin, Texas", Status: domain.LeadStatusBooked},
	}

	rows := ICPCityBreakdown(leads)
	require.Len(t, rows, 2)

	assert.Equal(t, "Home Services", rows[0].ICPType)
	assert.Equal(t, "Austin, Texas", rows[0].City)
	assert.Equal(t, 2, rows[0].Leads)
	assert.Equal(t, 1, rows[0].Appointments)
}
