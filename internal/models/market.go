package models

// Market is a regional/business grouping attached to meetings, guests
// and external accounts. Its label doubles as a display style key.
type Market struct {
	ID    int64  `db:"id" json:"id"`
	Label string `db:"label" json:"label"`
}
