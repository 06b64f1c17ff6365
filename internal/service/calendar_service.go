package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/atelier116/fashionweek-api/internal/models"
	"github.com/atelier116/fashionweek-api/internal/scheduling"
	appErrors "github.com/atelier116/fashionweek-api/pkg/errors"
)

type meetingLister interface {
	List(ctx context.Context, filter models.MeetingFilter) ([]models.Meeting, error)
}

// CalendarService projects stored meetings into the calendar shapes the
// console renders, with an optional Redis-backed projection cache.
type CalendarService struct {
	meetings meetingLister
	cache    cacheStore
	groupBy  scheduling.GroupingKey
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCalendarService constructs a CalendarService. Cache may be nil.
func NewCalendarService(meetings meetingLister, cache cacheStore, groupBy scheduling.GroupingKey, cacheTTL time.Duration, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if groupBy != scheduling.GroupByAreaType {
		groupBy = scheduling.GroupByMarket
	}
	return &CalendarService{
		meetings: meetings,
		cache:    cache,
		groupBy:  groupBy,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Calendar returns calendar entries for meetings matching the filter.
func (s *CalendarService) Calendar(ctx context.Context, filter models.MeetingFilter) ([]scheduling.CalendarEntry, error) {
	key := calendarCacheKey(s.groupBy, filter)

	if s.cache != nil {
		var cached []scheduling.CalendarEntry
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("calendar cache read failed", zap.Error(err))
		}
	}

	meetings, err := s.meetings.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meetings for calendar")
	}

	entries := scheduling.Project(meetings, s.groupBy)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, entries, s.cacheTTL); err != nil {
			s.logger.Warn("calendar cache write failed", zap.Error(err))
		}
	}
	return entries, nil
}

// DisabledHours builds the day-keyed blackout schedule used when the
// booking form targets selectedAreaID. Passing clear returns an empty
// schedule without touching storage.
func (s *CalendarService) DisabledHours(ctx context.Context, filter models.MeetingFilter, selectedAreaID int64, clear bool) (scheduling.Schedule, error) {
	if clear {
		return scheduling.DisabledHours(nil, selectedAreaID, true), nil
	}

	entries, err := s.Calendar(ctx, filter)
	if err != nil {
		return nil, err
	}
	return scheduling.DisabledHours(entries, selectedAreaID, false), nil
}

// CheckBooking runs the area policy check for a proposed booking and
// reports the verdict with the warning the form would display.
func (s *CalendarService) CheckBooking(actor *models.JWTClaims, req models.BookingCheckRequest) models.BookingCheckResult {
	roleID := 0
	if actor != nil {
		roleID = actor.RoleID
	}
	warning := scheduling.Evaluate(req.AreaID, roleID, req.StartHour, req.EndHour, req.GuestCount)
	return models.BookingCheckResult{Allowed: warning == "", Warning: warning}
}

func calendarCacheKey(groupBy scheduling.GroupingKey, filter models.MeetingFilter) string {
	key := fmt.Sprintf("calendar:%s", groupBy)
	if filter.AreaID != nil {
		key += fmt.Sprintf(":area=%d", *filter.AreaID)
	}
	if filter.MarketID != nil {
		key += fmt.Sprintf(":market=%d", *filter.MarketID)
	}
	if filter.Status != nil {
		key += fmt.Sprintf(":status=%d", *filter.Status)
	}
	if filter.From != nil {
		key += ":from=" + filter.From.Format(meetingDateLayout)
	}
	if filter.To != nil {
		key += ":to=" + filter.To.Format(meetingDateLayout)
	}
	return key
}
