package models

import "time"

// ExternalAccount is a client/company entity whose guests attend
// meetings at the venue.
type ExternalAccount struct {
	ID        int64     `db:"id" json:"id"`
	Label     string    `db:"label" json:"label"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Markets []Market    `db:"-" json:"markets"`
	Clients []UserSmall `db:"-" json:"clients"`
}

// ExternalAccountSmall is the compact listing shape used by form selects.
type ExternalAccountSmall struct {
	ID          int64  `db:"id" json:"id"`
	Label       string `db:"label" json:"label"`
	MarketLabel string `db:"market_label" json:"market_label"`
}

// ExternalAccountFilter captures listing criteria.
type ExternalAccountFilter struct {
	Search   string
	MarketID *int64
	Page     int
	PageSize int
}
