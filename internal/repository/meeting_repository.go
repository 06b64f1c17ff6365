package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/atelier116/fashionweek-api/internal/models"
)

// MeetingRepository handles persistence for meetings and their guest
// and external-account associations.
type MeetingRepository struct {
	db *sqlx.DB
}

// NewMeetingRepository instantiates a meeting repository.
func NewMeetingRepository(db *sqlx.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// meetingRow flattens the meeting joined with its area and the optional
// market and organizer.
type meetingRow struct {
	models.Meeting

	AreaLabel               string `db:"area_label"`
	AreaType                string `db:"area_type"`
	AreaMaxMeeting          int    `db:"area_max_meeting"`
	AreaMaxDuration         *int   `db:"area_max_duration"`
	AreaMaxAttendees        *int   `db:"area_max_attendees"`
	AreaMeetingConfirmation bool   `db:"area_meeting_confirmation"`
	AreaAddress             string `db:"area_address"`
	AreaCity                string `db:"area_city"`
	AreaGoogleMaps          string `db:"area_google_maps"`

	MarketLabel *string `db:"market_label"`

	OrganizerFirstName *string `db:"organizer_first_name"`
	OrganizerLastName  *string `db:"organizer_last_name"`
}

const meetingSelect = `SELECT mt.id, mt.created_at, mt.updated_at, mt.meeting_id, mt.title, mt.area_id, mt.start_date, mt.end_date, mt.internal_comment, mt.client_comment, mt.external_account_id, mt.status, mt.organizer_id, mt.market_id,
	a.label AS area_label, a.type AS area_type, a.max_meeting AS area_max_meeting, a.max_duration AS area_max_duration, a.max_attendees AS area_max_attendees, a.meeting_confirmation AS area_meeting_confirmation, a.address AS area_address, a.city AS area_city, a.google_maps AS area_google_maps,
	mk.label AS market_label,
	o.first_name AS organizer_first_name, o.last_name AS organizer_last_name
FROM meetings mt
JOIN areas a ON a.id = mt.area_id
LEFT JOIN markets mk ON mk.id = mt.market_id
LEFT JOIN users o ON o.id = mt.organizer_id`

// List returns meetings matching the filter, ordered by creation time
// ascending the way the console's meeting table expects, with guests
// and external-account associations attached.
func (r *MeetingRepository) List(ctx context.Context, filter models.MeetingFilter) ([]models.Meeting, error) {
	var conditions []string
	var args []interface{}

	if filter.AreaID != nil {
		conditions = append(conditions, fmt.Sprintf("mt.area_id = $%d", len(args)+1))
		args = append(args, *filter.AreaID)
	}
	if filter.MarketID != nil {
		conditions = append(conditions, fmt.Sprintf("mt.market_id = $%d", len(args)+1))
		args = append(args, *filter.MarketID)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("mt.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("mt.start_date >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("mt.end_date <= $%d", len(args)+1))
		args = append(args, *filter.To)
	}

	query := meetingSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY mt.created_at ASC"

	var rows []meetingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}

	meetings := make([]models.Meeting, 0, len(rows))
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		meetings = append(meetings, assembleMeeting(row))
		ids = append(ids, row.ID)
	}

	if err := r.attachAssociations(ctx, meetings, ids); err != nil {
		return nil, err
	}
	return meetings, nil
}

// FindByID loads a single meeting with its associations.
func (r *MeetingRepository) FindByID(ctx context.Context, id int64) (*models.Meeting, error) {
	query := meetingSelect + " WHERE mt.id = $1"
	var row meetingRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	meeting := assembleMeeting(row)
	meetings := []models.Meeting{meeting}
	if err := r.attachAssociations(ctx, meetings, []int64{meeting.ID}); err != nil {
		return nil, err
	}
	return &meetings[0], nil
}

// FindByCode loads a meeting by its human reference code.
func (r *MeetingRepository) FindByCode(ctx context.Context, code string) (*models.Meeting, error) {
	query := meetingSelect + " WHERE mt.meeting_id = $1"
	var row meetingRow
	if err := r.db.GetContext(ctx, &row, query, code); err != nil {
		return nil, err
	}
	meeting := assembleMeeting(row)
	meetings := []models.Meeting{meeting}
	if err := r.attachAssociations(ctx, meetings, []int64{meeting.ID}); err != nil {
		return nil, err
	}
	return &meetings[0], nil
}

// Create inserts a meeting and its guest/external-account links.
func (r *MeetingRepository) Create(ctx context.Context, meeting *models.Meeting, guestIDs []int64) (err error) {
	now := time.Now().UTC()
	if meeting.CreatedAt.IsZero() {
		meeting.CreatedAt = now
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create meeting tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO meetings (created_at, meeting_id, title, area_id, start_date, end_date, internal_comment, client_comment, external_account_id, status, organizer_id, market_id) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	if err = tx.GetContext(ctx, &meeting.ID, query,
		meeting.CreatedAt, meeting.MeetingID, meeting.Title, meeting.AreaID,
		meeting.StartDate, meeting.EndDate, meeting.InternalComment, meeting.ClientComment,
		meeting.ExternalAccountID, meeting.Status, meeting.OrganizerID, meeting.MarketID,
	); err != nil {
		return fmt.Errorf("create meeting: %w", err)
	}

	if err = replaceGuests(ctx, tx, meeting.ID, guestIDs); err != nil {
		return err
	}

	if err = replaceMeetingAccounts(ctx, tx, meeting.ID, meeting.ExternalAccountIDs); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create meeting tx: %w", err)
	}
	return nil
}

// Update modifies a meeting and replaces its guest set.
func (r *MeetingRepository) Update(ctx context.Context, meeting *models.Meeting, guestIDs []int64) (err error) {
	now := time.Now().UTC()
	meeting.UpdatedAt = &now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update meeting tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE meetings SET updated_at = $2, title = $3, area_id = $4, start_date = $5, end_date = $6, internal_comment = $7, client_comment = $8, external_account_id = $9, status = $10, market_id = $11 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, query,
		meeting.ID, meeting.UpdatedAt, meeting.Title, meeting.AreaID,
		meeting.StartDate, meeting.EndDate, meeting.InternalComment, meeting.ClientComment,
		meeting.ExternalAccountID, meeting.Status, meeting.MarketID,
	); err != nil {
		return fmt.Errorf("update meeting: %w", err)
	}

	if guestIDs != nil {
		if err = replaceGuests(ctx, tx, meeting.ID, guestIDs); err != nil {
			return err
		}
	}

	if meeting.ExternalAccountIDs != nil {
		if err = replaceMeetingAccounts(ctx, tx, meeting.ID, meeting.ExternalAccountIDs); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update meeting tx: %w", err)
	}
	return nil
}

// UpdateStatus moves a meeting through its lifecycle.
func (r *MeetingRepository) UpdateStatus(ctx context.Context, id int64, status models.MeetingStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE meetings SET status = $2, updated_at = $3 WHERE id = $1`, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update meeting status: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByCode removes a meeting by its human reference code.
func (r *MeetingRepository) DeleteByCode(ctx context.Context, code string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM meetings WHERE meeting_id = $1`, code)
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func assembleMeeting(row meetingRow) models.Meeting {
	meeting := row.Meeting
	meeting.Area = models.Area{
		ID:                  meeting.AreaID,
		Label:               row.AreaLabel,
		Type:                row.AreaType,
		MaxMeeting:          row.AreaMaxMeeting,
		MaxDuration:         row.AreaMaxDuration,
		MaxAttendees:        row.AreaMaxAttendees,
		MeetingConfirmation: row.AreaMeetingConfirmation,
		Address:             row.AreaAddress,
		City:                row.AreaCity,
		GoogleMaps:          row.AreaGoogleMaps,
	}
	if meeting.MarketID != nil && row.MarketLabel != nil {
		meeting.Market = &models.Market{ID: *meeting.MarketID, Label: *row.MarketLabel}
	}
	if meeting.OrganizerID != nil && row.OrganizerFirstName != nil {
		meeting.Organizer = &models.Organizer{
			ID:        *meeting.OrganizerID,
			FirstName: *row.OrganizerFirstName,
			LastName:  derefString(row.OrganizerLastName),
		}
	}
	meeting.Guests = []models.Guest{}
	meeting.ExternalAccountIDs = []int64{}
	return meeting
}

type guestRow struct {
	MeetingID int64 `db:"meeting_id"`
	models.Guest
}

type accountLinkRow struct {
	MeetingID         int64 `db:"meeting_id"`
	ExternalAccountID int64 `db:"external_account_id"`
}

func (r *MeetingRepository) attachAssociations(ctx context.Context, meetings []models.Meeting, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	index := make(map[int64]int, len(meetings))
	for i, meeting := range meetings {
		index[meeting.ID] = i
	}

	guestQuery, guestArgs, err := sqlx.In(`SELECT mg.meeting_id, u.id, u.id AS user_id, u.first_name, u.last_name, u.email, u.position, u.role_id, COALESCE(mk.label, '') AS market, u.created_at FROM meeting_guests mg JOIN users u ON u.id = mg.user_id LEFT JOIN markets mk ON mk.id = u.market_id WHERE mg.meeting_id IN (?) ORDER BY mg.meeting_id, u.last_name`, ids)
	if err != nil {
		return fmt.Errorf("build guest query: %w", err)
	}
	var guests []guestRow
	if err := r.db.SelectContext(ctx, &guests, r.db.Rebind(guestQuery), guestArgs...); err != nil {
		return fmt.Errorf("load meeting guests: %w", err)
	}
	for _, g := range guests {
		if i, ok := index[g.MeetingID]; ok {
			meetings[i].Guests = append(meetings[i].Guests, g.Guest)
		}
	}

	linkQuery, linkArgs, err := sqlx.In(`SELECT meeting_id, external_account_id FROM meeting_external_accounts WHERE meeting_id IN (?) ORDER BY meeting_id, external_account_id`, ids)
	if err != nil {
		return fmt.Errorf("build account link query: %w", err)
	}
	var links []accountLinkRow
	if err := r.db.SelectContext(ctx, &links, r.db.Rebind(linkQuery), linkArgs...); err != nil {
		return fmt.Errorf("load meeting external accounts: %w", err)
	}
	for _, link := range links {
		if i, ok := index[link.MeetingID]; ok {
			meetings[i].ExternalAccountIDs = append(meetings[i].ExternalAccountIDs, link.ExternalAccountID)
		}
	}

	return nil
}

func replaceGuests(ctx context.Context, tx *sqlx.Tx, meetingID int64, guestIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM meeting_guests WHERE meeting_id = $1`, meetingID); err != nil {
		return fmt.Errorf("clear meeting guests: %w", err)
	}
	for _, guestID := range guestIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meeting_guests (meeting_id, user_id) VALUES ($1, $2)`, meetingID, guestID); err != nil {
			return fmt.Errorf("attach meeting guest: %w", err)
		}
	}
	return nil
}

func replaceMeetingAccounts(ctx context.Context, tx *sqlx.Tx, meetingID int64, accountIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM meeting_external_accounts WHERE meeting_id = $1`, meetingID); err != nil {
		return fmt.Errorf("clear meeting external accounts: %w", err)
	}
	for _, accountID := range accountIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meeting_external_accounts (meeting_id, external_account_id) VALUES ($1, $2)`, meetingID, accountID); err != nil {
			return fmt.Errorf("attach meeting external account: %w", err)
		}
	}
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
