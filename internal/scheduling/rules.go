package scheduling

import (
	"fmt"

	"github.com/atelier116/fashionweek-api/internal/models"
)

// BookingRule is the static per-area policy. Nil limits mean unlimited.
type BookingRule struct {
	MaxMeeting   int  `json:"max_meeting"`
	MaxDuration  *int `json:"max_duration,omitempty"`
	MaxAttendees *int `json:"max_attendees,omitempty"`
}

// Area 1 (the main showroom) carries no restrictions at all.
const unrestrictedAreaID = 1

// Duration sentinel applied when the end hour precedes the start hour.
// Crossing midnight is disallowed for capacity rooms, so the check must
// always fail.
const midnightCrossSentinel = 1000

// bookingRules keys the static policy by area identifier. Areas without
// an entry are unrestricted.
var bookingRules = map[int64]BookingRule{
	2: {MaxMeeting: 1, MaxDuration: intPtr(60), MaxAttendees: intPtr(3)},  // Meeting Room Flat Paris
	3: {MaxMeeting: 1, MaxDuration: intPtr(60), MaxAttendees: intPtr(8)},  // Meeting Room Parc Royal
	4: {MaxMeeting: 1},                                                    // FI Preview
	5: {MaxMeeting: 1, MaxDuration: intPtr(30)},                           // Ogla Preview
}

// RuleFor returns the booking rule for an area, if one exists.
func RuleFor(areaID int64) (BookingRule, bool) {
	rule, ok := bookingRules[areaID]
	return rule, ok
}

// Evaluate checks a proposed booking against the area policy and
// returns a human-readable warning, or the empty string when the
// booking is allowed. Administrators and the unrestricted area are
// exempt. The duration check takes priority over the attendee check.
//
// The per-area meeting-count ceiling (MaxMeeting) is deliberately not
// cross-checked against existing bookings here; see DESIGN.md.
func Evaluate(areaID int64, roleID int, startHour, endHour string, guestCount int) string {
	if roleID == models.RoleAdmin || areaID == unrestrictedAreaID {
		return ""
	}

	rule, ok := bookingRules[areaID]
	if !ok {
		return ""
	}

	if rule.MaxDuration != nil && startHour != "" && endHour != "" {
		duration := bookingDuration(startHour, endHour)
		if duration > *rule.MaxDuration {
			return fmt.Sprintf("Warning: The max allowed duration is %d min", *rule.MaxDuration)
		}
	}

	if rule.MaxAttendees != nil && guestCount > *rule.MaxAttendees {
		return fmt.Sprintf("Warning: The max allowed attendees is %d", *rule.MaxAttendees)
	}

	return ""
}

// bookingDuration computes the booked minutes between two "HH:MM"
// times. A negative raw duration means the booking crosses midnight and
// is forced to the sentinel so any duration ceiling rejects it.
func bookingDuration(startHour, endHour string) int {
	duration := minutesSinceMidnight(endHour) - minutesSinceMidnight(startHour)
	if duration < 0 {
		return midnightCrossSentinel
	}
	return duration
}

func intPtr(v int) *int {
	return &v
}
