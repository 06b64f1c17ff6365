package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func areaRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "label", "type", "max_meeting", "max_duration", "max_attendees", "meeting_confirmation", "address", "city", "google_maps", "created_at", "updated_at"}).
		AddRow(1, "Main Showroom", "Showroom", 0, nil, nil, false, "12 Rue de Turenne", "Paris", "", now, now).
		AddRow(2, "Meeting Room Flat Paris", "Meeting Room", 1, 60, 3, true, "12 Rue de Turenne", "Paris", "", now, now)
}

func TestAreaList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAreaRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM areas ORDER BY id ASC").
		WillReturnRows(areaRows(time.Now()))

	areas, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, areas, 2)
	assert.Equal(t, "Main Showroom", areas[0].Label)
	require.NotNil(t, areas[1].MaxDuration)
	assert.Equal(t, 60, *areas[1].MaxDuration)
	assert.True(t, areas[1].MeetingConfirmation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAreaFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAreaRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "label", "type", "max_meeting", "max_duration", "max_attendees", "meeting_confirmation", "address", "city", "google_maps", "created_at", "updated_at"}).
		AddRow(5, "Ogla Preview", "Preview", 1, 30, nil, false, "", "Paris", "", now, now)
	mock.ExpectQuery("SELECT (.+) FROM areas WHERE id = \\$1").
		WithArgs(int64(5)).
		WillReturnRows(rows)

	area, err := repo.FindByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Ogla Preview", area.Label)
	require.NotNil(t, area.MaxDuration)
	assert.Equal(t, 30, *area.MaxDuration)
	assert.Nil(t, area.MaxAttendees)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAreaFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAreaRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM areas WHERE id = \\$1").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
