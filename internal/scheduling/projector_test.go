package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier116/fashionweek-api/internal/models"
)

func sampleMeeting() models.Meeting {
	start := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC) // a Monday
	return models.Meeting{
		ID:        42,
		MeetingID: "MTG-0042",
		AreaID:    2,
		StartDate: start,
		EndDate:   start.Add(time.Hour),
		Area:      models.Area{ID: 2, Label: "Meeting Room Flat Paris", Type: "Meeting Room"},
		Market:    &models.Market{ID: 7, Label: "EMEA"},
		Organizer: &models.Organizer{ID: 1, FirstName: "Claire", LastName: "Dubois"},
		Guests: []models.Guest{
			{ID: 1, FirstName: "Ana", Market: "EMEA"},
			{ID: 2, FirstName: "Bo", Market: "APAC"},
			{ID: 3, FirstName: "Cam", Market: "EMEA"},
		},
		ExternalAccountIDs: []int64{11, 12},
	}
}

func TestProjectSingleMeeting(t *testing.T) {
	entries := Project([]models.Meeting{sampleMeeting()}, GroupByMarket)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, int64(42), entry.ID)
	assert.Equal(t, "MTG-0042", entry.MeetingID)
	assert.Equal(t, "2026-03-02 09:30", entry.Start)
	assert.Equal(t, "2026-03-02 10:30", entry.End)
	assert.Equal(t, "Meeting Room Flat Paris", entry.Title)
	assert.Equal(t, "emea", entry.Class)
	assert.False(t, entry.Disabled)
	assert.False(t, entry.Draggable)

	assert.Equal(t, "09:30", entry.Content.StartHour)
	assert.Equal(t, "10:30", entry.Content.EndHour)
	assert.Equal(t, 3, entry.Content.Guests)
	assert.Equal(t, int64(2), entry.Content.AreaID)
	assert.Equal(t, "Claire Dubois", entry.Content.Organizer)
	assert.Equal(t, int64(7), entry.Content.MeetingMarket)
	assert.Equal(t, []int64{11, 12}, entry.Content.ExternalAccountIDs)
}

func TestProjectGuestCountMatchesGuestList(t *testing.T) {
	meeting := sampleMeeting()
	entries := Project([]models.Meeting{meeting}, GroupByMarket)
	require.Len(t, entries, 1)
	assert.Equal(t, len(meeting.Guests), entries[0].Content.Guests)

	meeting.Guests = nil
	entries = Project([]models.Meeting{meeting}, GroupByMarket)
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].Content.Guests)
}

func TestProjectMissingOptionalsDegrade(t *testing.T) {
	meeting := sampleMeeting()
	meeting.Market = nil
	meeting.Organizer = nil
	meeting.Guests = nil
	meeting.ExternalAccountIDs = nil

	entries := Project([]models.Meeting{meeting}, GroupByMarket)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Empty(t, entry.Class)
	assert.Empty(t, entry.Content.Organizer)
	assert.Zero(t, entry.Content.MeetingMarket)
	assert.Zero(t, entry.Content.Guests)
	assert.Empty(t, entry.Content.Markets)
}

func TestProjectDistinctGuestMarkets(t *testing.T) {
	entries := Project([]models.Meeting{sampleMeeting()}, GroupByMarket)
	require.Len(t, entries, 1)

	markets := entries[0].Content.Markets
	assert.Len(t, markets, 2)
	assert.ElementsMatch(t, []string{"EMEA", "APAC"}, markets)
}

func TestProjectPreservesInputOrder(t *testing.T) {
	first := sampleMeeting()
	second := sampleMeeting()
	second.ID = 43
	second.StartDate = first.StartDate.Add(-48 * time.Hour)
	second.EndDate = second.StartDate.Add(time.Hour)

	entries := Project([]models.Meeting{first, second}, GroupByMarket)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(42), entries[0].ID)
	assert.Equal(t, int64(43), entries[1].ID)
}

func TestProjectGroupByAreaType(t *testing.T) {
	entries := Project([]models.Meeting{sampleMeeting()}, GroupByAreaType)
	require.Len(t, entries, 1)
	assert.Equal(t, "meeting room", entries[0].Class)
}

func TestDisabledHoursClearReturnsEmptySchedule(t *testing.T) {
	entries := Project([]models.Meeting{sampleMeeting()}, GroupByMarket)
	schedule := DisabledHours(entries, 99, true)
	assert.Empty(t, schedule)
}

func TestDisabledHoursExcludesSelectedArea(t *testing.T) {
	own := sampleMeeting() // area 2
	other := sampleMeeting()
	other.ID = 50
	other.AreaID = 3
	other.Area = models.Area{ID: 3, Label: "Meeting Room Parc Royal"}

	entries := Project([]models.Meeting{own, other}, GroupByMarket)
	schedule := DisabledHours(entries, 2, false)

	require.Len(t, schedule, 1)
	slots := schedule[1] // both meetings start on a Monday
	require.Len(t, slots, 1)
	assert.Equal(t, int64(50), slots[0].ID)
	assert.Equal(t, 570, slots[0].From)
	assert.Equal(t, 630, slots[0].To)
	assert.Equal(t, "closed", slots[0].Class)
}

func TestDisabledHoursSundayMapsToSeven(t *testing.T) {
	meeting := sampleMeeting()
	meeting.AreaID = 3
	meeting.Area.ID = 3
	meeting.StartDate = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) // a Sunday
	meeting.EndDate = meeting.StartDate.Add(time.Hour)

	entries := Project([]models.Meeting{meeting}, GroupByMarket)
	schedule := DisabledHours(entries, 2, false)

	require.Contains(t, schedule, 7)
	assert.NotContains(t, schedule, 0)
}

func TestDisabledHoursGroupingIsStable(t *testing.T) {
	base := sampleMeeting()
	base.AreaID = 3
	base.Area.ID = 3

	second := base
	second.ID = 51
	second.StartDate = base.StartDate.Add(2 * time.Hour)
	second.EndDate = second.StartDate.Add(time.Hour)

	entries := Project([]models.Meeting{base, second}, GroupByMarket)
	schedule := DisabledHours(entries, 2, false)

	slots := schedule[1]
	require.Len(t, slots, 2)
	assert.Equal(t, base.ID, slots[0].ID)
	assert.Equal(t, second.ID, slots[1].ID)
}

func TestDisabledHoursOmitsEmptyDays(t *testing.T) {
	entries := Project([]models.Meeting{sampleMeeting()}, GroupByMarket)
	schedule := DisabledHours(entries, 2, false) // only meeting is for area 2
	assert.Empty(t, schedule)
}

func TestMinutesSinceMidnight(t *testing.T) {
	assert.Equal(t, 570, minutesSinceMidnight("09:30"))
	assert.Equal(t, 0, minutesSinceMidnight("00:00"))
	assert.Equal(t, 1439, minutesSinceMidnight("23:59"))
}
