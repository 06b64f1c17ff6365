package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/atelier116/fashionweek-api/internal/models"
	appErrors "github.com/atelier116/fashionweek-api/pkg/errors"
)

type externalAccountRepository interface {
	List(ctx context.Context, filter models.ExternalAccountFilter) ([]models.ExternalAccount, int, error)
	ListSmall(ctx context.Context) ([]models.ExternalAccountSmall, error)
	FindByID(ctx context.Context, id int64) (*models.ExternalAccount, error)
	Create(ctx context.Context, account *models.ExternalAccount, marketIDs []int64) error
	Update(ctx context.Context, account *models.ExternalAccount, marketIDs []int64) error
	Delete(ctx context.Context, id int64) error
}

// ExternalAccountService manages the client companies whose guests
// attend meetings.
type ExternalAccountService struct {
	repo      externalAccountRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExternalAccountService constructs an ExternalAccountService.
func NewExternalAccountService(repo externalAccountRepository, validate *validator.Validate, logger *zap.Logger) *ExternalAccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ExternalAccountService{repo: repo, validator: validate, logger: logger}
}

// List returns accounts matching the filter with paging metadata.
func (s *ExternalAccountService) List(ctx context.Context, filter models.ExternalAccountFilter) ([]models.ExternalAccount, *models.Pagination, error) {
	accounts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list external accounts")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	return accounts, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// ListSmall returns the compact select-box shape.
func (s *ExternalAccountService) ListSmall(ctx context.Context) ([]models.ExternalAccountSmall, error) {
	accounts, err := s.repo.ListSmall(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list external accounts")
	}
	return accounts, nil
}

// Get loads a single account with its associations.
func (s *ExternalAccountService) Get(ctx context.Context, id int64) (*models.ExternalAccount, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "external account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load external account")
	}
	return account, nil
}

// Create inserts a new account with its market links.
func (s *ExternalAccountService) Create(ctx context.Context, req models.ExternalAccountRequest) (*models.ExternalAccount, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid external account payload")
	}

	account := &models.ExternalAccount{Label: req.Label}
	if err := s.repo.Create(ctx, account, req.MarketIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create external account")
	}
	return s.Get(ctx, account.ID)
}

// Update edits an account and replaces its market links.
func (s *ExternalAccountService) Update(ctx context.Context, id int64, req models.ExternalAccountRequest) (*models.ExternalAccount, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid external account payload")
	}

	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	account.Label = req.Label
	if err := s.repo.Update(ctx, account, req.MarketIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update external account")
	}
	return s.Get(ctx, id)
}

// Delete removes an account.
func (s *ExternalAccountService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete external account")
	}
	return nil
}
