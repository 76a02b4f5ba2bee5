package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/saadmalik-333/business-insight-pos/internal/dto"
	"github.com/saadmalik-333/business-insight-pos/internal/handler"
	"github.com/saadmalik-333/business-insight-pos/internal/middleware"
	"github.com/saadmalik-333/business-insight-pos/internal/model"
	"github.com/saadmalik-333/business-insight-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubSaleService struct {
	recordErr  error
	voidErr    error
	gotCashier uuid.UUID
	gotReq     dto.RecordSaleRequest
	gotFilter  dto.SaleFilter
}

func (s *stubSaleService) RecordSale(_ context.Context, cashierID uuid.UUID, req dto.RecordSaleRequest) (*dto.SaleResponse, error) {
	s.gotCashier, s.gotReq = cashierID, req
	if s.recordErr != nil {
		return nil, s.recordErr
	}
	return &dto.SaleResponse{ID: uuid.NewString(), SaleNumber: "20240315-0001", Status: model.SaleStatusCompleted}, nil
}

func (s *stubSaleService) VoidSale(_ context.Context, id uuid.UUID, reason string) (*dto.SaleResponse, error) {
	if s.voidErr != nil {
		return nil, s.voidErr
	}
	return &dto.SaleResponse{ID: id.String(), Status: model.SaleStatusVoided, VoidReason: &reason}, nil
}

func (s *stubSaleService) GetSale(_ context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	return nil, service.ErrNotFound
}

func (s *stubSaleService) ListSales(_ context.Context, f dto.SaleFilter) (*dto.SaleListResponse, error) {
	s.gotFilter = f
	return &dto.SaleListResponse{Data: []dto.SaleResponse{}, Page: f.Page, Limit: f.Limit}, nil
}

var _ service.SaleService = (*stubSaleService)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

var cashierID = uuid.MustParse("6f1c1f55-1f0a-4c53-9a43-1f6d2f0c8e01")

func withClaims(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, &middleware.JWTClaims{ProfileID: cashierID.String(), Role: role})
		c.Next()
	}
}

func salesRouter(svc service.SaleService) *gin.Engine {
	h := handler.NewSalesHandler(svc)
	r := gin.New()
	r.Use(withClaims(model.RoleCashier))
	r.POST("/v1/sales", h.RecordSale)
	r.GET("/v1/sales", h.ListSales)
	r.GET("/v1/sales/:id", h.GetSale)
	r.POST("/v1/sales/:id/void", h.VoidSale)
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func validCart() map[string]any {
	return map[string]any{
		"payment_method": "cash",
		"items": []map[string]any{
			{"product_id": uuid.NewString(), "quantity": 2},
		},
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestRecordSale_Created(t *testing.T) {
	svc := &stubSaleService{}
	w := do(salesRouter(svc), http.MethodPost, "/v1/sales", validCart())

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "20240315-0001", decodeBody(t, w)["sale_number"])
	assert.Equal(t, cashierID, svc.gotCashier)
	assert.Equal(t, 2, svc.gotReq.Items[0].Quantity)
}

func TestRecordSale_BindingValidation(t *testing.T) {
	w := do(salesRouter(&stubSaleService{}), http.MethodPost, "/v1/sales", map[string]any{
		"payment_method": "cheque",
		"items":          []map[string]any{{"product_id": "x", "quantity": 0}},
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fields := decodeBody(t, w)["fields"].(map[string]any)
	assert.Contains(t, fields, "payment_method")
	assert.Contains(t, fields, "items[0].product_id")
	assert.Contains(t, fields, "items[0].quantity")
}

func TestRecordSale_EmptyCart(t *testing.T) {
	w := do(salesRouter(&stubSaleService{}), http.MethodPost, "/v1/sales", map[string]any{
		"payment_method": "cash",
		"items":          []any{},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decodeBody(t, w)["fields"], "items")
}

func TestRecordSale_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/sales", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	salesRouter(&stubSaleService{}).ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordSale_ErrorMapping(t *testing.T) {
	pid := uuid.New()
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"field validation", &service.ValidationError{Fields: map[string]string{"items": "cart is empty"}}, http.StatusUnprocessableEntity},
		{"insufficient stock", &service.InsufficientStockError{ProductID: pid, Name: "Fries", Requested: 5, Available: 3}, http.StatusConflict},
		{"inactive product", fmt.Errorf("%w: Fries", service.ErrProductInactive), http.StatusConflict},
		{"sequence exhausted", service.ErrSaleNumberExhausted, http.StatusServiceUnavailable},
		{"persistence", fmt.Errorf("%w: insert sale", service.ErrPersistence), http.StatusServiceUnavailable},
		{"unknown", fmt.Errorf("something odd"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(salesRouter(&stubSaleService{recordErr: tc.err}), http.MethodPost, "/v1/sales", validCart())
			assert.Equal(t, tc.code, w.Code, w.Body.String())
			assert.NotEmpty(t, decodeBody(t, w)["detail"])
		})
	}
}

func TestRecordSale_InsufficientStockDetails(t *testing.T) {
	pid := uuid.New()
	svc := &stubSaleService{recordErr: &service.InsufficientStockError{ProductID: pid, Name: "Fries", Requested: 5, Available: 3}}
	w := do(salesRouter(svc), http.MethodPost, "/v1/sales", validCart())

	require.Equal(t, http.StatusConflict, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, pid.String(), body["product_id"])
	assert.EqualValues(t, 5, body["requested"])
	assert.EqualValues(t, 3, body["available"])
}

func TestRecordSale_RequiresClaims(t *testing.T) {
	h := handler.NewSalesHandler(&stubSaleService{})
	r := gin.New()
	r.POST("/v1/sales", h.RecordSale)

	w := do(r, http.MethodPost, "/v1/sales", validCart())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVoidSale(t *testing.T) {
	id := uuid.New()
	w := do(salesRouter(&stubSaleService{}), http.MethodPost, "/v1/sales/"+id.String()+"/void", map[string]any{"reason": "wrong item"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.SaleStatusVoided, decodeBody(t, w)["status"])

	w = do(salesRouter(&stubSaleService{voidErr: service.ErrSaleAlreadyVoided}), http.MethodPost, "/v1/sales/"+id.String()+"/void", map[string]any{"reason": "wrong item"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(salesRouter(&stubSaleService{}), http.MethodPost, "/v1/sales/not-a-uuid/void", map[string]any{"reason": "wrong item"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSale_NotFound(t *testing.T) {
	w := do(salesRouter(&stubSaleService{}), http.MethodGet, "/v1/sales/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSales_QueryDefaults(t *testing.T) {
	svc := &stubSaleService{}
	w := do(salesRouter(svc), http.MethodGet, "/v1/sales?date=2024-03-15", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-03-15", svc.gotFilter.Date)
	assert.Equal(t, model.SaleStatusCompleted, svc.gotFilter.Status)
	assert.Equal(t, 1, svc.gotFilter.Page)
	assert.Equal(t, 50, svc.gotFilter.Limit)

	w = do(salesRouter(svc), http.MethodGet, "/v1/sales?limit=500", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// ── Dashboard ─────────────────────────────────────────────────────────────────

type stubMetricsService struct{ asOf time.Time }

func (s *stubMetricsService) GetDashboardMetrics(_ context.Context, asOf time.Time) *dto.DashboardMetrics {
	s.asOf = asOf
	return &dto.DashboardMetrics{
		Date:        asOf.Format("2006-01-02"),
		TodaySales:  dto.DailySales{Total: decimal.RequireFromString("173.49"), Count: 2},
		RecentSales: []dto.SaleResponse{},
		Degraded:    []string{service.SectionRecentSales},
	}
}

var _ service.MetricsService = (*stubMetricsService)(nil)

func TestDashboardMetrics(t *testing.T) {
	svc := &stubMetricsService{}
	h := handler.NewDashboardHandler(svc, time.UTC)
	r := gin.New()
	r.GET("/v1/dashboard/metrics", h.Metrics)

	w := do(r, http.MethodGet, "/v1/dashboard/metrics?date=2024-03-15", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "2024-03-15", body["date"])
	assert.Equal(t, "173.49", body["today_sales"].(map[string]any)["total"])
	assert.Equal(t, []any{service.SectionRecentSales}, body["degraded"])
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), svc.asOf)

	w = do(r, http.MethodGet, "/v1/dashboard/metrics?date=15-03-2024", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
