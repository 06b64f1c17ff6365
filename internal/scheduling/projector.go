// Package scheduling holds the pure calendar-projection and booking-rule
// logic for the meeting planner. Everything here operates on
// already-fetched records; no I/O, no shared state.
package scheduling

import (
	"strconv"
	"strings"
	"time"

	"github.com/atelier116/fashionweek-api/internal/models"
)

// GroupingKey selects which label drives the calendar style class.
type GroupingKey string

const (
	// GroupByMarket styles entries after the meeting's market label.
	GroupByMarket GroupingKey = "market"
	// GroupByAreaType styles entries after the area type label.
	GroupByAreaType GroupingKey = "area-type"
)

const (
	dateTimeLayout = "2006-01-02 15:04"
	hourLayout     = "15:04"

	blackoutClass = "closed"
)

// EntryContent is the display payload carried by each calendar entry.
type EntryContent struct {
	StartHour          string   `json:"startHour"`
	EndHour            string   `json:"endHour"`
	Guests             int      `json:"guests"`
	Title              string   `json:"title"`
	AreaID             int64    `json:"areaId"`
	ExternalAccountIDs []int64  `json:"externalAccountIds"`
	Organizer          string   `json:"organizer,omitempty"`
	MeetingMarket      int64    `json:"meetingMarket,omitempty"`
	Markets            []string `json:"markets"`
}

// CalendarEntry is the calendar-ready rendition of a meeting. Every
// field is a pure function of the source meeting.
type CalendarEntry struct {
	ID        int64        `json:"id"`
	MeetingID string       `json:"meetingId"`
	Start     string       `json:"start"`
	End       string       `json:"end"`
	Title     string       `json:"title"`
	Content   EntryContent `json:"content"`
	Class     string       `json:"class"`
	Disabled  bool         `json:"disabled"`
	Draggable bool         `json:"draggable"`
}

// BlackoutSlot marks a window during which an area cannot be booked
// because another area's meeting occupies the shared schedule.
type BlackoutSlot struct {
	ID    int64  `json:"id"`
	From  int    `json:"from"`
	To    int    `json:"to"`
	Class string `json:"class"`
}

// Schedule maps day numbers (Monday=1 .. Sunday=7) to blackout slots.
type Schedule map[int][]BlackoutSlot

// Project reshapes meetings into calendar entries, one per meeting,
// preserving input order. Missing optional fields degrade to empty
// values rather than failing.
func Project(meetings []models.Meeting, key GroupingKey) []CalendarEntry {
	entries := make([]CalendarEntry, 0, len(meetings))
	for _, meeting := range meetings {
		entries = append(entries, projectOne(meeting, key))
	}
	return entries
}

func projectOne(m models.Meeting, key GroupingKey) CalendarEntry {
	guestsCount := len(m.Guests)
	markets := distinctGuestMarkets(m.Guests)

	var styleClass string
	switch key {
	case GroupByAreaType:
		styleClass = strings.ToLower(m.Area.Type)
	default:
		if m.Market != nil {
			styleClass = strings.ToLower(m.Market.Label)
		}
	}

	content := EntryContent{
		StartHour:          m.StartDate.Format(hourLayout),
		EndHour:            m.EndDate.Format(hourLayout),
		Guests:             guestsCount,
		Title:              m.Area.Label,
		AreaID:             m.Area.ID,
		ExternalAccountIDs: m.ExternalAccountIDs,
		Markets:            markets,
	}
	if m.Organizer != nil {
		content.Organizer = m.Organizer.FirstName + " " + m.Organizer.LastName
	}
	if m.Market != nil {
		content.MeetingMarket = m.Market.ID
	}

	return CalendarEntry{
		ID:        m.ID,
		MeetingID: m.MeetingID,
		Start:     m.StartDate.Format(dateTimeLayout),
		End:       m.EndDate.Format(dateTimeLayout),
		Title:     m.Area.Label,
		Content:   content,
		Class:     styleClass,
		Disabled:  false,
		Draggable: false,
	}
}

// distinctGuestMarkets deduplicates guest market labels. Output order is
// unspecified; callers must treat the result as a set.
func distinctGuestMarkets(guests []models.Guest) []string {
	seen := make(map[string]struct{}, len(guests))
	markets := make([]string, 0, len(guests))
	for _, guest := range guests {
		if _, ok := seen[guest.Market]; ok {
			continue
		}
		seen[guest.Market] = struct{}{}
		markets = append(markets, guest.Market)
	}
	return markets
}

// DisabledHours builds the blackout schedule for the area currently
// being scheduled against. Entries belonging to selectedAreaID impose no
// blackout on themselves. Passing clear resets the schedule.
func DisabledHours(entries []CalendarEntry, selectedAreaID int64, clear bool) Schedule {
	schedule := Schedule{}
	if clear {
		return schedule
	}

	for _, entry := range entries {
		if entry.Content.AreaID == selectedAreaID {
			continue
		}
		start, err := time.Parse(dateTimeLayout, entry.Start)
		if err != nil {
			continue
		}
		day := dayNumber(start)
		schedule[day] = append(schedule[day], BlackoutSlot{
			ID:    entry.ID,
			From:  minutesSinceMidnight(entry.Content.StartHour),
			To:    minutesSinceMidnight(entry.Content.EndHour),
			Class: blackoutClass,
		})
	}
	return schedule
}

// dayNumber converts to a Monday=1 .. Sunday=7 week, matching the rest
// of the schedule model.
func dayNumber(t time.Time) int {
	day := int(t.Weekday())
	if day == 0 {
		return 7
	}
	return day
}

// minutesSinceMidnight converts an "HH:MM" string to minutes. The
// projector guarantees well-formed input; malformed pieces fall back to
// zero rather than erroring.
func minutesSinceMidnight(hour string) int {
	parts := strings.SplitN(hour, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m := 0
	if len(parts) == 2 {
		m, _ = strconv.Atoi(parts[1])
	}
	return h*60 + m
}
