package models

import "time"

// Role identifiers used across the console. Roles are small integers in
// the upstream schema; 1 is the administrator, 2 and 3 are the sales
// profiles, anything else is regular venue staff.
const (
	RoleAdmin          = 1
	RoleSalesManager   = 2
	RoleSalesAssistant = 3
)

// User represents a staff member stored in the users table.
type User struct {
	ID              int64      `db:"id" json:"id"`
	Reference       string     `db:"reference" json:"reference"`
	FirstName       string     `db:"first_name" json:"first_name"`
	LastName        string     `db:"last_name" json:"last_name"`
	Email           string     `db:"email" json:"email"`
	PasswordHash    string     `db:"password_hash" json:"-"`
	RoleID          int        `db:"role_id" json:"role_id"`
	Phone           *string    `db:"phone" json:"phone,omitempty"`
	Position        string     `db:"position" json:"position"`
	MarketID        *int64     `db:"market_id" json:"market_id,omitempty"`
	QRCode          string     `db:"qrcode" json:"qrcode"`
	BadgeReceived   bool       `db:"badge_received" json:"badge_received"`
	BadgeReceivedAt *time.Time `db:"badge_received_at" json:"badge_received_at,omitempty"`
	Active          bool       `db:"active" json:"active"`
	LastLogin       *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName renders the display name used across listings and alerts.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user holds the administrator role.
func (u User) IsAdmin() bool {
	return u.RoleID == RoleAdmin
}

// IsSales reports whether the user holds one of the sales roles.
func (u User) IsSales() bool {
	return u.RoleID == RoleSalesManager || u.RoleID == RoleSalesAssistant
}

// UserSmall is the compact shape returned by the user search endpoint.
type UserSmall struct {
	ID        int64  `db:"id" json:"id"`
	UserID    int64  `db:"user_id" json:"user_id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	RoleID    int    `db:"role_id" json:"role_id"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Search   string
	RoleID   *int
	MarketID *int64
	Active   *bool
	Page     int
	PageSize int
}

// Pagination describes paged list metadata.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
