package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/atelier116/fashionweek-api/internal/models"
	"github.com/atelier116/fashionweek-api/internal/scheduling"
	appErrors "github.com/atelier116/fashionweek-api/pkg/errors"
)

const areasCacheKey = "areas:all"

type areaRepository interface {
	List(ctx context.Context) ([]models.Area, error)
	FindByID(ctx context.Context, id int64) (*models.Area, error)
	Create(ctx context.Context, area *models.Area) error
	Update(ctx context.Context, area *models.Area) error
}

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// AreaPolicy pairs an area with the static booking rule applied to it.
type AreaPolicy struct {
	Area models.Area            `json:"area"`
	Rule *scheduling.BookingRule `json:"rule,omitempty"`
}

// AreaService manages bookable venue areas and exposes their policies.
type AreaService struct {
	repo      areaRepository
	cache     cacheStore
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAreaService constructs an AreaService. Cache may be nil.
func NewAreaService(repo areaRepository, cache cacheStore, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *AreaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AreaService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns every area, served from cache when warm.
func (s *AreaService) List(ctx context.Context) ([]models.Area, error) {
	if s.cache != nil {
		var cached []models.Area
		if err := s.cache.Get(ctx, areasCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("area cache read failed", zap.Error(err))
		}
	}

	areas, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list areas")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, areasCacheKey, areas, s.cacheTTL); err != nil {
			s.logger.Warn("area cache write failed", zap.Error(err))
		}
	}
	return areas, nil
}

// Get loads a single area.
func (s *AreaService) Get(ctx context.Context, id int64) (*models.Area, error) {
	area, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "area not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load area")
	}
	return area, nil
}

// Policies returns every area together with the static booking rule
// enforced for it, the shape the booking form reads its limits from.
func (s *AreaService) Policies(ctx context.Context) ([]AreaPolicy, error) {
	areas, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	policies := make([]AreaPolicy, 0, len(areas))
	for _, area := range areas {
		policy := AreaPolicy{Area: area}
		if rule, ok := scheduling.RuleFor(area.ID); ok {
			policy.Rule = &rule
		}
		policies = append(policies, policy)
	}
	return policies, nil
}

// Create inserts a new area.
func (s *AreaService) Create(ctx context.Context, req models.AreaRequest) (*models.Area, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid area payload")
	}

	area := &models.Area{
		Label:               req.Label,
		Type:                req.Type,
		MaxMeeting:          req.MaxMeeting,
		MaxDuration:         req.MaxDuration,
		MaxAttendees:        req.MaxAttendees,
		MeetingConfirmation: req.MeetingConfirmation,
		Address:             req.Address,
		City:                req.City,
		GoogleMaps:          req.GoogleMaps,
	}
	if err := s.repo.Create(ctx, area); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create area")
	}
	s.invalidate(ctx)
	return area, nil
}

// Update modifies an existing area.
func (s *AreaService) Update(ctx context.Context, id int64, req models.AreaRequest) (*models.Area, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid area payload")
	}

	area, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	area.Label = req.Label
	area.Type = req.Type
	area.MaxMeeting = req.MaxMeeting
	area.MaxDuration = req.MaxDuration
	area.MaxAttendees = req.MaxAttendees
	area.MeetingConfirmation = req.MeetingConfirmation
	area.Address = req.Address
	area.City = req.City
	area.GoogleMaps = req.GoogleMaps

	if err := s.repo.Update(ctx, area); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update area")
	}
	s.invalidate(ctx)
	return area, nil
}

func (s *AreaService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "areas:*"); err != nil {
		s.logger.Warn("area cache invalidation failed", zap.Error(err))
	}
}
