package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atelier116/fashionweek-api/internal/models"
	"github.com/atelier116/fashionweek-api/internal/scheduling"
	appErrors "github.com/atelier116/fashionweek-api/pkg/errors"
	"github.com/atelier116/fashionweek-api/pkg/notify"
)

const meetingDateLayout = "2006-01-02 15:04"

type meetingRepository interface {
	List(ctx context.Context, filter models.MeetingFilter) ([]models.Meeting, error)
	FindByID(ctx context.Context, id int64) (*models.Meeting, error)
	FindByCode(ctx context.Context, code string) (*models.Meeting, error)
	Create(ctx context.Context, meeting *models.Meeting, guestIDs []int64) error
	Update(ctx context.Context, meeting *models.Meeting, guestIDs []int64) error
	UpdateStatus(ctx context.Context, id int64, status models.MeetingStatus) error
	DeleteByCode(ctx context.Context, code string) error
}

type meetingAreaLoader interface {
	FindByID(ctx context.Context, id int64) (*models.Area, error)
}

type meetingAuditor interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type bookingRecorder interface {
	MeetingCreated()
	BookingRejected()
}

// MeetingService owns the meeting lifecycle: creation with policy
// enforcement, edits, the approval workflow and deletion.
type MeetingService struct {
	repo      meetingRepository
	areas     meetingAreaLoader
	audits    meetingAuditor
	notifier  notificationDispatcher
	cache     cacheStore
	metrics   bookingRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMeetingService constructs a MeetingService. Audits, notifier and
// cache may be nil.
func NewMeetingService(repo meetingRepository, areas meetingAreaLoader, audits meetingAuditor, notifier notificationDispatcher, cache cacheStore, validate *validator.Validate, logger *zap.Logger) *MeetingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MeetingService{
		repo:      repo,
		areas:     areas,
		audits:    audits,
		notifier:  notifier,
		cache:     cache,
		validator: validate,
		logger:    logger,
	}
}

// SetMetrics attaches the prometheus booking counters.
func (s *MeetingService) SetMetrics(metrics bookingRecorder) {
	s.metrics = metrics
}

// List returns meetings matching the filter with associations attached.
func (s *MeetingService) List(ctx context.Context, filter models.MeetingFilter) ([]models.Meeting, error) {
	meetings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list meetings")
	}
	return meetings, nil
}

// GetByCode loads a meeting by its human reference code.
func (s *MeetingService) GetByCode(ctx context.Context, code string) (*models.Meeting, error) {
	meeting, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "meeting not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meeting")
	}
	return meeting, nil
}

// Create books a meeting. The area policy is enforced here as well as in
// the booking form: a non-admin booking that violates the policy is
// rejected with the same warning text the form shows. Areas flagged for
// confirmation put non-admin bookings into the approval workflow.
func (s *MeetingService) Create(ctx context.Context, actor *models.JWTClaims, req models.MeetingRequest) (*models.Meeting, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid meeting payload")
	}

	startDate, endDate, err := parseMeetingDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	area, err := s.areas.FindByID(ctx, req.AreaID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "area not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load area")
	}

	roleID := 0
	if actor != nil {
		roleID = actor.RoleID
	}
	if warning := scheduling.Evaluate(req.AreaID, roleID, startDate.Format("15:04"), endDate.Format("15:04"), len(req.GuestIDs)); warning != "" {
		if s.metrics != nil {
			s.metrics.BookingRejected()
		}
		return nil, appErrors.Clone(appErrors.ErrBookingRejected, warning)
	}

	meeting := &models.Meeting{
		MeetingID:          uuid.NewString(),
		Title:              req.Title,
		AreaID:             req.AreaID,
		StartDate:          startDate,
		EndDate:            endDate,
		InternalComment:    req.InternalComment,
		ClientComment:      req.ClientComment,
		ExternalAccountID:  req.ExternalAccountID,
		ExternalAccountIDs: req.ExternalAccountIDs,
		MarketID:           req.MarketID,
	}
	if actor != nil {
		meeting.OrganizerID = &actor.UserID
	}

	event := notify.EventMeetingCreated
	meeting.Status = models.MeetingStatusAccepted
	if area.MeetingConfirmation && (actor == nil || !actor.IsAdmin()) {
		meeting.Status = models.MeetingStatusInProgress
		event = notify.EventMeetingNeedApproval
	}

	if err := s.repo.Create(ctx, meeting, req.GuestIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create meeting")
	}

	s.audit(ctx, actor, models.AuditActionMeetingCreate, meeting)
	if s.metrics != nil {
		s.metrics.MeetingCreated()
	}
	if s.notifier != nil {
		s.notifier.Notify(event, meeting.MeetingID)
	}
	s.invalidateCalendar(ctx)

	return s.GetByCode(ctx, meeting.MeetingID)
}

// Update edits an existing meeting, re-running the policy check against
// the new slot.
func (s *MeetingService) Update(ctx context.Context, actor *models.JWTClaims, code string, req models.MeetingRequest) (*models.Meeting, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid meeting payload")
	}

	meeting, err := s.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	startDate, endDate, err := parseMeetingDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	roleID := 0
	if actor != nil {
		roleID = actor.RoleID
	}
	if warning := scheduling.Evaluate(req.AreaID, roleID, startDate.Format("15:04"), endDate.Format("15:04"), len(req.GuestIDs)); warning != "" {
		if s.metrics != nil {
			s.metrics.BookingRejected()
		}
		return nil, appErrors.Clone(appErrors.ErrBookingRejected, warning)
	}

	meeting.Title = req.Title
	meeting.AreaID = req.AreaID
	meeting.StartDate = startDate
	meeting.EndDate = endDate
	meeting.InternalComment = req.InternalComment
	meeting.ClientComment = req.ClientComment
	meeting.ExternalAccountID = req.ExternalAccountID
	meeting.ExternalAccountIDs = req.ExternalAccountIDs
	meeting.MarketID = req.MarketID

	if err := s.repo.Update(ctx, meeting, req.GuestIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update meeting")
	}

	s.audit(ctx, actor, models.AuditActionMeetingUpdate, meeting)
	if s.notifier != nil {
		s.notifier.Notify(notify.EventMeetingEdited, meeting.MeetingID)
	}
	s.invalidateCalendar(ctx)

	return s.GetByCode(ctx, code)
}

// Accept approves a pending meeting. Administrators only.
func (s *MeetingService) Accept(ctx context.Context, actor *models.JWTClaims, code string) (*models.Meeting, error) {
	return s.transition(ctx, actor, code, models.MeetingStatusAccepted, notify.EventMeetingAccepted)
}

// Reject declines a pending meeting. Administrators only.
func (s *MeetingService) Reject(ctx context.Context, actor *models.JWTClaims, code string) (*models.Meeting, error) {
	return s.transition(ctx, actor, code, models.MeetingStatusRejected, notify.EventMeetingRejected)
}

func (s *MeetingService) transition(ctx context.Context, actor *models.JWTClaims, code string, status models.MeetingStatus, event notify.EventType) (*models.Meeting, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only administrators can review meetings")
	}

	meeting, err := s.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, meeting.ID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "meeting not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update meeting status")
	}

	s.audit(ctx, actor, models.AuditActionMeetingUpdate, meeting)
	if s.notifier != nil {
		s.notifier.Notify(event, meeting.MeetingID)
	}
	s.invalidateCalendar(ctx)

	return s.GetByCode(ctx, code)
}

// Delete removes a meeting by code.
func (s *MeetingService) Delete(ctx context.Context, actor *models.JWTClaims, code string) error {
	meeting, err := s.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteByCode(ctx, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "meeting not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete meeting")
	}

	s.audit(ctx, actor, models.AuditActionMeetingDelete, meeting)
	s.invalidateCalendar(ctx)
	return nil
}

func (s *MeetingService) audit(ctx context.Context, actor *models.JWTClaims, action string, meeting *models.Meeting) {
	if s.audits == nil {
		return
	}
	log := &models.AuditLog{
		Action:   action,
		Resource: "meetings",
	}
	if actor != nil {
		log.UserID = &actor.UserID
	}
	if meeting != nil {
		log.ResourceID = &meeting.MeetingID
		if raw, err := json.Marshal(meeting); err == nil {
			log.NewValues = raw
		}
	}
	if err := s.audits.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
	}
}

func (s *MeetingService) invalidateCalendar(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "calendar:*"); err != nil {
		s.logger.Warn("calendar cache invalidation failed", zap.Error(err))
	}
}

func parseMeetingDates(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(meetingDateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid start date %q", start))
	}
	endDate, err := time.Parse(meetingDateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid end date %q", end))
	}
	if !endDate.After(startDate) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "end date must be after start date")
	}
	return startDate, endDate, nil
}
