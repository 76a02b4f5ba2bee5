package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/saadmalik-333/business-insight-pos/internal/dto"
	"github.com/saadmalik-333/business-insight-pos/internal/handler"
	"github.com/saadmalik-333/business-insight-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalogService struct {
	filter    dto.ProductFilter
	movements dto.StockMovementFilter
}

func (s *stubCatalogService) ListProducts(_ context.Context, f dto.ProductFilter) (*dto.ProductListResponse, error) {
	s.filter = f
	return &dto.ProductListResponse{Data: []dto.ProductResponse{}, Page: f.Page, Limit: f.Limit}, nil
}

func (s *stubCatalogService) ListCategories(_ context.Context) ([]dto.CategoryResponse, error) {
	return []dto.CategoryResponse{{ID: "c1", Name: "Burgers"}}, nil
}

func (s *stubCatalogService) LowStock(_ context.Context) ([]dto.ProductResponse, error) {
	return nil, service.ErrRetrieval
}

func (s *stubCatalogService) InventorySummary(_ context.Context) (*dto.InventorySummaryResponse, error) {
	return &dto.InventorySummaryResponse{TotalProducts: 6, TotalStockValue: decimal.RequireFromString("250.10")}, nil
}

func (s *stubCatalogService) PriceBySKU(_ context.Context, sku string) (*dto.PriceCheckResponse, error) {
	if sku != "BRG001" {
		return nil, service.ErrNotFound
	}
	return &dto.PriceCheckResponse{Name: "Classic Burger", SKU: sku, Price: decimal.RequireFromString("12.99"), StockAvailable: 15}, nil
}

func (s *stubCatalogService) GetProduct(_ context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	if id != burgerID {
		return nil, service.ErrNotFound
	}
	return &dto.ProductResponse{ID: id.String(), Name: "Classic Burger", SKU: "BRG001", Price: decimal.RequireFromString("12.99")}, nil
}

func (s *stubCatalogService) ListMovements(_ context.Context, f dto.StockMovementFilter) (*dto.StockMovementListResponse, error) {
	s.movements = f
	return &dto.StockMovementListResponse{Data: []dto.StockMovementResponse{}, Page: f.Page, Limit: f.Limit}, nil
}

var _ service.CatalogService = (*stubCatalogService)(nil)

var burgerID = uuid.MustParse("5f0c7f3e-6a59-4b8e-9d0a-0c4f2d8b1a11")

func productsRouter(svc service.CatalogService) *gin.Engine {
	h := handler.NewProductsHandler(svc)
	r := gin.New()
	r.GET("/v1/products", h.List)
	r.GET("/v1/products/low-stock", h.LowStock)
	r.GET("/v1/products/:id", h.Get)
	r.GET("/v1/inventory/summary", h.InventorySummary)
	r.GET("/v1/inventory/movements", h.Movements)
	r.GET("/v1/categories", h.Categories)
	r.GET("/v1/price/:sku", h.PriceCheck)
	return r
}

func TestProducts_ListBindsFilter(t *testing.T) {
	svc := &stubCatalogService{}
	w := do(productsRouter(svc), http.MethodGet, "/v1/products?search=burg&page=2&limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "burg", svc.filter.Search)
	assert.Equal(t, 2, svc.filter.Page)
	assert.Equal(t, 10, svc.filter.Limit)

	w = do(productsRouter(svc), http.MethodGet, "/v1/products?category_id=not-a-uuid", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestProducts_Endpoints(t *testing.T) {
	r := productsRouter(&stubCatalogService{})

	w := do(r, http.MethodGet, "/v1/price/BRG001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12.99", decodeBody(t, w)["price"])

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/v1/price/NOPE", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/v1/products/low-stock", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/v1/categories", nil).Code)

	w = do(r, http.MethodGet, "/v1/inventory/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "250.1", decodeBody(t, w)["total_stock_value"])
}

func TestProducts_GetByID(t *testing.T) {
	r := productsRouter(&stubCatalogService{})

	w := do(r, http.MethodGet, "/v1/products/"+burgerID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "BRG001", decodeBody(t, w)["sku"])

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/v1/products/"+uuid.NewString(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/v1/products/BRG001", nil).Code)
	// The static route still wins over the id parameter.
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/v1/products/low-stock", nil).Code)
}

func TestInventoryMovements_BindsFilter(t *testing.T) {
	svc := &stubCatalogService{}
	r := productsRouter(svc)

	saleID := uuid.NewString()
	w := do(r, http.MethodGet, "/v1/inventory/movements?sale_id="+saleID+"&kind=void_restore", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, saleID, svc.movements.SaleID)
	assert.Equal(t, "void_restore", svc.movements.Kind)
	assert.Equal(t, 1, svc.movements.Page)
	assert.Equal(t, 100, svc.movements.Limit)

	assert.Equal(t, http.StatusUnprocessableEntity, do(r, http.MethodGet, "/v1/inventory/movements?kind=restock", nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(r, http.MethodGet, "/v1/inventory/movements?product_id=abc", nil).Code)
}

func TestHealth(t *testing.T) {
	ok := handler.HealthCheck{Name: "db", Ping: func(context.Context) error { return nil }}
	down := handler.HealthCheck{Name: "redis", Ping: func(context.Context) error { return errors.New("dial tcp 10.0.0.3:6379: i/o timeout") }}

	r := gin.New()
	r.GET("/ok", handler.Health(ok))
	r.GET("/down", handler.Health(ok, down))

	w := do(r, http.MethodGet, "/ok", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["ok"])

	w = do(r, http.MethodGet, "/down", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "connected", body["db"])
	assert.Equal(t, "error", body["redis"])
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
}

// ── Events ────────────────────────────────────────────────────────────────────

type fakeSubscriber struct {
	events []dto.SaleEvent
	err    error
	closed bool
}

func (f *fakeSubscriber) Subscribe(_ context.Context) (<-chan dto.SaleEvent, func() error, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	ch := make(chan dto.SaleEvent, len(f.events))
	for _, ev := range f.events {
		ch <- ev
	}
	close(ch)
	return ch, func() error { f.closed = true; return nil }, nil
}

var _ handler.EventSubscriber = (*fakeSubscriber)(nil)

func TestEvents_StreamsUntilChannelCloses(t *testing.T) {
	sub := &fakeSubscriber{events: []dto.SaleEvent{
		{Type: dto.EventSaleCompleted, SaleID: "s1", SaleNumber: "20240315-0001"},
		{Type: dto.EventSaleVoided, SaleID: "s1", SaleNumber: "20240315-0001"},
	}}
	r := gin.New()
	r.GET("/v1/events", handler.NewEventsHandler(sub).Stream)

	w := gin.CreateTestResponseRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/events", nil))

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, 1, strings.Count(body, "event:sale.completed"))
	assert.Equal(t, 1, strings.Count(body, "event:sale.voided"))
	assert.True(t, sub.closed)
}

func TestEvents_SubscribeFailure(t *testing.T) {
	r := gin.New()
	r.GET("/v1/events", handler.NewEventsHandler(&fakeSubscriber{err: errors.New("redis down")}).Stream)

	w := do(r, http.MethodGet, "/v1/events", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
