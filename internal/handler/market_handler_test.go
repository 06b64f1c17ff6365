package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier116/fashionweek-api/internal/models"
	appErrors "github.com/atelier116/fashionweek-api/pkg/errors"
)

type stubMarketService struct {
	markets map[int64]*models.Market
}

func (s *stubMarketService) List(ctx context.Context) ([]models.Market, error) {
	out := make([]models.Market, 0, len(s.markets))
	for _, market := range s.markets {
		out = append(out, *market)
	}
	return out, nil
}

func (s *stubMarketService) Get(ctx context.Context, id int64) (*models.Market, error) {
	market, ok := s.markets[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "market not found")
	}
	return market, nil
}

func (s *stubMarketService) Create(ctx context.Context, req models.MarketRequest) (*models.Market, error) {
	market := &models.Market{ID: int64(len(s.markets) + 1), Label: req.Label}
	s.markets[market.ID] = market
	return market, nil
}

func newMarketRouter(svc *stubMarketService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewMarketHandler(svc)
	router.GET("/markets", h.List)
	router.GET("/markets/:id", h.Get)
	router.POST("/markets", h.Create)
	return router
}

func TestMarketHandlerGet(t *testing.T) {
	svc := &stubMarketService{markets: map[int64]*models.Market{
		3: {ID: 3, Label: "Europe"},
	}}
	router := newMarketRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/markets/3", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data models.Market `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, int64(3), envelope.Data.ID)
	assert.Equal(t, "Europe", envelope.Data.Label)
}

func TestMarketHandlerGetMissing(t *testing.T) {
	router := newMarketRouter(&stubMarketService{markets: map[int64]*models.Market{}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/markets/99", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMarketHandlerGetRejectsBadID(t *testing.T) {
	router := newMarketRouter(&stubMarketService{markets: map[int64]*models.Market{}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/markets/abc", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
