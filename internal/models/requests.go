package models

// CreateUserRequest is the payload for registering a contact or staff user.
type CreateUserRequest struct {
	FirstName     string  `json:"first_name" validate:"required"`
	LastName      string  `json:"last_name" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	Password      string  `json:"password" validate:"omitempty,min=8"`
	RoleID        int     `json:"role_id" validate:"required,min=1"`
	Phone         *string `json:"phone"`
	Position      string  `json:"position"`
	MarketID      *int64  `json:"market_id"`
	BadgeReceived bool    `json:"badge_received"`
}

// UpdateUserRequest is the payload for editing a user.
type UpdateUserRequest struct {
	FirstName     string  `json:"first_name" validate:"required"`
	LastName      string  `json:"last_name" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	RoleID        int     `json:"role_id" validate:"required,min=1"`
	Phone         *string `json:"phone"`
	Position      string  `json:"position"`
	MarketID      *int64  `json:"market_id"`
	BadgeReceived bool    `json:"badge_received"`
	Active        *bool   `json:"active"`
}

// MeetingRequest is the payload for creating or editing a meeting. Dates
// arrive as "YYYY-MM-DD HH:MM" strings, the format the calendar works in.
type MeetingRequest struct {
	Title              string  `json:"title"`
	AreaID             int64   `json:"area_id" validate:"required,min=1"`
	StartDate          string  `json:"start_date" validate:"required"`
	EndDate            string  `json:"end_date" validate:"required"`
	InternalComment    string  `json:"internal_comment"`
	ClientComment      string  `json:"client_comment"`
	ExternalAccountID  *int64  `json:"external_account_id"`
	ExternalAccountIDs []int64 `json:"external_account_ids"`
	MarketID           *int64  `json:"market_id"`
	GuestIDs           []int64 `json:"guest_ids"`
}

// BookingCheckRequest asks whether a proposed booking passes the area policy.
type BookingCheckRequest struct {
	AreaID     int64  `json:"area_id" validate:"required,min=1"`
	StartHour  string `json:"start_hour"`
	EndHour    string `json:"end_hour"`
	GuestCount int    `json:"guest_count" validate:"min=0"`
}

// BookingCheckResult is the verdict on a proposed booking.
type BookingCheckResult struct {
	Allowed bool   `json:"allowed"`
	Warning string `json:"warning,omitempty"`
}

// AreaRequest is the payload for creating or editing an area.
type AreaRequest struct {
	Label               string `json:"label" validate:"required"`
	Type                string `json:"type" validate:"required"`
	MaxMeeting          int    `json:"max_meeting" validate:"min=0"`
	MaxDuration         *int   `json:"max_duration"`
	MaxAttendees        *int   `json:"max_attendees"`
	MeetingConfirmation bool   `json:"meeting_confirmation"`
	Address             string `json:"address"`
	City                string `json:"city"`
	GoogleMaps          string `json:"google_maps"`
}

// MarketRequest is the payload for creating a market.
type MarketRequest struct {
	Label string `json:"label" validate:"required"`
}

// ExternalAccountRequest is the payload for creating or editing a client
// company.
type ExternalAccountRequest struct {
	Label     string  `json:"label" validate:"required"`
	MarketIDs []int64 `json:"market_ids"`
}
