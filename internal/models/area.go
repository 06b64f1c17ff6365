package models

import "time"

// Area is a physical bookable space (showroom, meeting room, preview
// room) with its own booking policy. The max_* columns mirror the
// upstream schema; the static policy table in internal/scheduling may
// override them for the capacity rooms.
type Area struct {
	ID                  int64     `db:"id" json:"id"`
	Label               string    `db:"label" json:"label"`
	Type                string    `db:"type" json:"type"`
	MaxMeeting          int       `db:"max_meeting" json:"max_meeting"`
	MaxDuration         *int      `db:"max_duration" json:"max_duration,omitempty"`
	MaxAttendees        *int      `db:"max_attendees" json:"max_attendees,omitempty"`
	MeetingConfirmation bool      `db:"meeting_confirmation" json:"meeting_confirmation"`
	Address             string    `db:"address" json:"address"`
	City                string    `db:"city" json:"city"`
	GoogleMaps          string    `db:"google_maps" json:"google_maps"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}
