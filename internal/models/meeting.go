package models

import "time"

// MeetingStatus enumerates the meeting lifecycle states.
type MeetingStatus int

const (
	MeetingStatusInProgress MeetingStatus = 1
	MeetingStatusAccepted   MeetingStatus = 2
	MeetingStatusRejected   MeetingStatus = 3
)

// Guest is an attendee attached to a meeting. The market label rides
// along for calendar grouping.
type Guest struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     string    `db:"email" json:"email"`
	Position  string    `db:"position" json:"position"`
	RoleID    int       `db:"role_id" json:"role_id"`
	Market    string    `db:"market" json:"market"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Organizer is the staff member who owns the meeting.
type Organizer struct {
	ID        int64  `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Role      string `db:"role" json:"role"`
}

// Meeting is a scheduled appointment in one of the venue areas.
type Meeting struct {
	ID                int64         `db:"id" json:"id"`
	CreatedAt         time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt         *time.Time    `db:"updated_at" json:"updated_at,omitempty"`
	MeetingID         string        `db:"meeting_id" json:"meeting_id"`
	Title             string        `db:"title" json:"title"`
	AreaID            int64         `db:"area_id" json:"area_id"`
	StartDate         time.Time     `db:"start_date" json:"start_date"`
	EndDate           time.Time     `db:"end_date" json:"end_date"`
	InternalComment   string        `db:"internal_comment" json:"internal_comment"`
	ClientComment     string        `db:"client_comment" json:"client_comment"`
	ExternalAccountID *int64        `db:"external_account_id" json:"external_account_id,omitempty"`
	Status            MeetingStatus `db:"status" json:"status"`
	OrganizerID       *int64        `db:"organizer_id" json:"organizer_id,omitempty"`
	MarketID          *int64        `db:"market_id" json:"market_id,omitempty"`

	Area               Area       `db:"-" json:"area"`
	Guests             []Guest    `db:"-" json:"guests"`
	ExternalAccountIDs []int64    `db:"-" json:"external_account_ids"`
	Organizer          *Organizer `db:"-" json:"organizer,omitempty"`
	Market             *Market    `db:"-" json:"market,omitempty"`
}

// MeetingFilter captures listing criteria for meetings.
type MeetingFilter struct {
	AreaID   *int64
	MarketID *int64
	Status   *MeetingStatus
	From     *time.Time
	To       *time.Time
}
