package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atelier116/fashionweek-api/internal/models"
	"github.com/atelier116/fashionweek-api/internal/scheduling"
	appErrors "github.com/atelier116/fashionweek-api/pkg/errors"
)

type stubMeetingLister struct {
	meetings []models.Meeting
	calls    int
}

func (s *stubMeetingLister) List(ctx context.Context, filter models.MeetingFilter) ([]models.Meeting, error) {
	s.calls++
	return s.meetings, nil
}

type memoryCache struct {
	values map[string][]byte
	sets   int
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.values == nil {
		c.values = map[string][]byte{}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	c.sets++
	return nil
}

func (c *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.values = map[string][]byte{}
	return nil
}

func calendarFixture() []models.Meeting {
	start := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	return []models.Meeting{
		{
			ID:        1,
			MeetingID: "m-001",
			StartDate: start,
			EndDate:   start.Add(time.Hour),
			AreaID:    2,
			Area:      models.Area{ID: 2, Label: "Meeting Room Flat Paris", Type: "Meeting Room"},
			Market:    &models.Market{ID: 4, Label: "Europe"},
			Guests:    []models.Guest{{UserID: 7, Market: "Europe"}},
		},
		{
			ID:        2,
			MeetingID: "m-002",
			StartDate: start.Add(2 * time.Hour),
			EndDate:   start.Add(3 * time.Hour),
			AreaID:    3,
			Area:      models.Area{ID: 3, Label: "Meeting Room Parc Royal", Type: "Meeting Room"},
		},
	}
}

func TestCalendarServiceProjectsMeetings(t *testing.T) {
	lister := &stubMeetingLister{meetings: calendarFixture()}
	svc := NewCalendarService(lister, nil, scheduling.GroupByMarket, time.Minute, zap.NewNop())

	entries, err := svc.Calendar(context.Background(), models.MeetingFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "m-001", entries[0].MeetingID)
	assert.Equal(t, "2026-03-02 09:30", entries[0].Start)
	assert.Equal(t, "europe", entries[0].Class)
	assert.Empty(t, entries[1].Class)
}

func TestCalendarServiceServesFromCache(t *testing.T) {
	lister := &stubMeetingLister{meetings: calendarFixture()}
	cache := &memoryCache{}
	svc := NewCalendarService(lister, cache, scheduling.GroupByMarket, time.Minute, zap.NewNop())

	_, err := svc.Calendar(context.Background(), models.MeetingFilter{})
	require.NoError(t, err)
	entries, err := svc.Calendar(context.Background(), models.MeetingFilter{})
	require.NoError(t, err)

	assert.Len(t, entries, 2)
	assert.Equal(t, 1, lister.calls)
	assert.Equal(t, 1, cache.sets)
}

func TestCalendarServiceDisabledHoursSkipsSelectedArea(t *testing.T) {
	lister := &stubMeetingLister{meetings: calendarFixture()}
	svc := NewCalendarService(lister, nil, scheduling.GroupByMarket, time.Minute, zap.NewNop())

	schedule, err := svc.DisabledHours(context.Background(), models.MeetingFilter{}, 2, false)
	require.NoError(t, err)

	// 2026-03-02 is a Monday; only the area-3 meeting blocks area 2.
	slots := schedule[1]
	require.Len(t, slots, 1)
	assert.Equal(t, int64(2), slots[0].ID)
	assert.Equal(t, 11*60+30, slots[0].From)
	assert.Equal(t, "closed", slots[0].Class)
}

func TestCalendarServiceDisabledHoursClear(t *testing.T) {
	lister := &stubMeetingLister{meetings: calendarFixture()}
	svc := NewCalendarService(lister, nil, scheduling.GroupByMarket, time.Minute, zap.NewNop())

	schedule, err := svc.DisabledHours(context.Background(), models.MeetingFilter{}, 2, true)
	require.NoError(t, err)
	assert.Empty(t, schedule)
	assert.Zero(t, lister.calls)
}

func TestCalendarServiceCheckBooking(t *testing.T) {
	svc := NewCalendarService(&stubMeetingLister{}, nil, scheduling.GroupByMarket, time.Minute, zap.NewNop())

	sales := &models.JWTClaims{UserID: 1, RoleID: models.RoleSalesManager}
	admin := &models.JWTClaims{UserID: 2, RoleID: models.RoleAdmin}

	over := svc.CheckBooking(sales, models.BookingCheckRequest{AreaID: 2, StartHour: "09:00", EndHour: "10:30", GuestCount: 2})
	assert.False(t, over.Allowed)
	assert.Equal(t, "Warning: The max allowed duration is 60 min", over.Warning)

	ok := svc.CheckBooking(sales, models.BookingCheckRequest{AreaID: 2, StartHour: "09:00", EndHour: "10:00", GuestCount: 3})
	assert.True(t, ok.Allowed)
	assert.Empty(t, ok.Warning)

	exempt := svc.CheckBooking(admin, models.BookingCheckRequest{AreaID: 2, StartHour: "09:00", EndHour: "23:00", GuestCount: 50})
	assert.True(t, exempt.Allowed)
}
