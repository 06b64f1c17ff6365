package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/atelier116/fashionweek-api/internal/models"
)

// MarketRepository handles persistence for markets.
type MarketRepository struct {
	db *sqlx.DB
}

// NewMarketRepository instantiates a market repository.
func NewMarketRepository(db *sqlx.DB) *MarketRepository {
	return &MarketRepository{db: db}
}

// List returns every market ordered by label.
func (r *MarketRepository) List(ctx context.Context) ([]models.Market, error) {
	const query = `SELECT id, label FROM markets ORDER BY label ASC`
	var markets []models.Market
	if err := r.db.SelectContext(ctx, &markets, query); err != nil {
		return nil, fmt.Errorf("list markets: %w", err)
	}
	return markets, nil
}

// FindByID loads a market by identifier.
func (r *MarketRepository) FindByID(ctx context.Context, id int64) (*models.Market, error) {
	const query = `SELECT id, label FROM markets WHERE id = $1`
	var market models.Market
	if err := r.db.GetContext(ctx, &market, query, id); err != nil {
		return nil, err
	}
	return &market, nil
}

// Create inserts a new market.
func (r *MarketRepository) Create(ctx context.Context, market *models.Market) error {
	const query = `INSERT INTO markets (label) VALUES ($1) RETURNING id`
	if err := r.db.GetContext(ctx, &market.ID, query, market.Label); err != nil {
		return fmt.Errorf("create market: %w", err)
	}
	return nil
}
