package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/atelier116/fashionweek-api/internal/models"
)

const areaColumns = "id, label, type, max_meeting, max_duration, max_attendees, meeting_confirmation, address, city, google_maps, created_at, updated_at"

// AreaRepository handles persistence for bookable areas.
type AreaRepository struct {
	db *sqlx.DB
}

// NewAreaRepository instantiates an area repository.
func NewAreaRepository(db *sqlx.DB) *AreaRepository {
	return &AreaRepository{db: db}
}

// List returns every area ordered by identifier. The set is small
// (a handful of rooms per venue) so no pagination applies.
func (r *AreaRepository) List(ctx context.Context) ([]models.Area, error) {
	query := fmt.Sprintf("SELECT %s FROM areas ORDER BY id ASC", areaColumns)
	var areas []models.Area
	if err := r.db.SelectContext(ctx, &areas, query); err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	return areas, nil
}

// FindByID loads an area by identifier.
func (r *AreaRepository) FindByID(ctx context.Context, id int64) (*models.Area, error) {
	query := fmt.Sprintf("SELECT %s FROM areas WHERE id = $1", areaColumns)
	var area models.Area
	if err := r.db.GetContext(ctx, &area, query, id); err != nil {
		return nil, err
	}
	return &area, nil
}

// Create inserts a new area record.
func (r *AreaRepository) Create(ctx context.Context, area *models.Area) error {
	now := time.Now().UTC()
	if area.CreatedAt.IsZero() {
		area.CreatedAt = now
	}
	area.UpdatedAt = now

	const query = `INSERT INTO areas (label, type, max_meeting, max_duration, max_attendees, meeting_confirmation, address, city, google_maps, created_at, updated_at) VALUES (:label, :type, :max_meeting, :max_duration, :max_attendees, :meeting_confirmation, :address, :city, :google_maps, :created_at, :updated_at) RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, area)
	if err != nil {
		return fmt.Errorf("create area: %w", err)
	}
	defer rows.Close() //nolint:errcheck
	if rows.Next() {
		if err := rows.Scan(&area.ID); err != nil {
			return fmt.Errorf("scan area id: %w", err)
		}
	}
	return nil
}

// Update modifies an existing area.
func (r *AreaRepository) Update(ctx context.Context, area *models.Area) error {
	area.UpdatedAt = time.Now().UTC()
	const query = `UPDATE areas SET label = :label, type = :type, max_meeting = :max_meeting, max_duration = :max_duration, max_attendees = :max_attendees, meeting_confirmation = :meeting_confirmation, address = :address, city = :city, google_maps = :google_maps, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, area); err != nil {
		return fmt.Errorf("update area: %w", err)
	}
	return nil
}
