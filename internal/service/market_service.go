package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/atelier116/fashionweek-api/internal/models"
	appErrors "github.com/atelier116/fashionweek-api/pkg/errors"
)

const marketsCacheKey = "markets:all"

type marketRepository interface {
	List(ctx context.Context) ([]models.Market, error)
	FindByID(ctx context.Context, id int64) (*models.Market, error)
	Create(ctx context.Context, market *models.Market) error
}

// MarketService manages the market reference list.
type MarketService struct {
	repo      marketRepository
	cache     cacheStore
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMarketService constructs a MarketService. Cache may be nil.
func NewMarketService(repo marketRepository, cache cacheStore, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *MarketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MarketService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns every market, served from cache when warm.
func (s *MarketService) List(ctx context.Context) ([]models.Market, error) {
	if s.cache != nil {
		var cached []models.Market
		if err := s.cache.Get(ctx, marketsCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("market cache read failed", zap.Error(err))
		}
	}

	markets, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list markets")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, marketsCacheKey, markets, s.cacheTTL); err != nil {
			s.logger.Warn("market cache write failed", zap.Error(err))
		}
	}
	return markets, nil
}

// Get loads a single market.
func (s *MarketService) Get(ctx context.Context, id int64) (*models.Market, error) {
	market, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "market not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load market")
	}
	return market, nil
}

// Create inserts a new market.
func (s *MarketService) Create(ctx context.Context, req models.MarketRequest) (*models.Market, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid market payload")
	}

	market := &models.Market{Label: req.Label}
	if err := s.repo.Create(ctx, market); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create market")
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "markets:*"); err != nil {
			s.logger.Warn("market cache invalidation failed", zap.Error(err))
		}
	}
	return market, nil
}
