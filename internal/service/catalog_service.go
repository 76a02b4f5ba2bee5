package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/saadmalik-333/business-insight-pos/internal/dto"
	"github.com/saadmalik-333/business-insight-pos/internal/model"
	"github.com/saadmalik-333/business-insight-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceCache stores public price check responses keyed by SKU.
// Implemented by infra.PriceCache.
type PriceCache interface {
	Get(ctx context.Context, sku string) (*dto.PriceCheckResponse, bool)
	Set(ctx context.Context, sku string, resp *dto.PriceCheckResponse) error
	PriceCacheInvalidator
}

// CatalogService is the read side of the catalog: what cart assembly and the
// inventory screens show. It never writes products or categories.
type CatalogService interface {
	ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	LowStock(ctx context.Context) ([]dto.ProductResponse, error)
	InventorySummary(ctx context.Context) (*dto.InventorySummaryResponse, error)
	PriceBySKU(ctx context.Context, sku string) (*dto.PriceCheckResponse, error)
	ListMovements(ctx context.Context, filter dto.StockMovementFilter) (*dto.StockMovementListResponse, error)
}

type catalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	movements  repository.StockMovementRepository
	cache      PriceCache
	loc        *time.Location
}

// NewCatalogService builds the catalog reader. cache may be nil.
func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	movements repository.StockMovementRepository,
	cache PriceCache,
	loc *time.Location,
) CatalogService {
	if loc == nil {
		loc = time.UTC
	}
	return &catalogService{products: products, categories: categories, movements: movements, cache: cache, loc: loc}
}

func (s *catalogService) ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	filter.Search = strings.TrimSpace(filter.Search)

	products, total, err := s.products.ListActive(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: list products: %v", ErrRetrieval, err)
	}

	data := make([]dto.ProductResponse, len(products))
	for i := range products {
		data[i] = productToResponse(&products[i])
	}
	pages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		pages++
	}
	return &dto.ProductListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pages,
	}, nil
}

// GetProduct returns one product by id, inactive ones included.
func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load product: %v", ErrRetrieval, err)
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list categories: %v", ErrRetrieval, err)
	}
	resp := make([]dto.CategoryResponse, len(list))
	for i, c := range list {
		resp[i] = dto.CategoryResponse{ID: c.ID.String(), Name: c.Name, Description: c.Description}
	}
	return resp, nil
}

func (s *catalogService) LowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.products.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list low stock: %v", ErrRetrieval, err)
	}
	resp := make([]dto.ProductResponse, len(products))
	for i := range products {
		resp[i] = productToResponse(&products[i])
	}
	return resp, nil
}

// InventorySummary reports stock value at cost plus low and out of stock counts.
// Out of stock products also count as low stock.
func (s *catalogService) InventorySummary(ctx context.Context) (*dto.InventorySummaryResponse, error) {
	products, err := s.products.ListAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list inventory: %v", ErrRetrieval, err)
	}

	summary := &dto.InventorySummaryResponse{
		TotalProducts:   len(products),
		TotalStockValue: decimal.Zero,
		Products:        make([]dto.ProductResponse, len(products)),
	}
	for i := range products {
		p := &products[i]
		summary.TotalStockValue = summary.TotalStockValue.Add(p.Cost.Mul(decimal.NewFromInt(int64(p.StockQuantity))))
		switch p.StockStatus() {
		case model.StockStatusOut:
			summary.OutOfStockCount++
			summary.LowStockCount++
		case model.StockStatusLow:
			summary.LowStockCount++
		}
		summary.Products[i] = productToResponse(p)
	}
	summary.TotalStockValue = summary.TotalStockValue.Round(2)
	return summary, nil
}

// PriceBySKU serves the public price check. Cached responses are dropped by the
// sale recorder whenever a sale or void touches the product.
func (s *catalogService) PriceBySKU(ctx context.Context, sku string) (*dto.PriceCheckResponse, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, invalid("sku", "is required")
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, sku); ok {
			return cached, nil
		}
	}

	p, err := s.products.FindBySKU(ctx, sku)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: price check: %v", ErrRetrieval, err)
	}

	resp := &dto.PriceCheckResponse{
		Name:           p.Name,
		SKU:            p.SKU,
		Price:          p.Price,
		StockAvailable: p.StockQuantity,
	}
	if p.Category != nil {
		resp.Category = p.Category.Name
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, sku, resp); err != nil {
			log.Debug().Err(err).Str("sku", sku).Msg("catalog: price cache write failed")
		}
	}
	return resp, nil
}

// ListMovements pages through the stock ledger audit trail, newest first.
func (s *catalogService) ListMovements(ctx context.Context, filter dto.StockMovementFilter) (*dto.StockMovementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 500 {
		filter.Limit = 100
	}

	q := repository.StockMovementFilter{Kind: filter.Kind, Page: filter.Page, Limit: filter.Limit}
	fields := make(map[string]string)
	if filter.ProductID != "" {
		id, err := uuid.Parse(filter.ProductID)
		if err != nil {
			fields["product_id"] = "must be a valid uuid"
		}
		q.ProductID = &id
	}
	if filter.SaleID != "" {
		id, err := uuid.Parse(filter.SaleID)
		if err != nil {
			fields["sale_id"] = "must be a valid uuid"
		}
		q.ReferenceID = &id
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	list, total, err := s.movements.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: list stock movements: %v", ErrRetrieval, err)
	}
	data := make([]dto.StockMovementResponse, len(list))
	for i := range list {
		m := &list[i]
		r := dto.StockMovementResponse{
			ID:          m.ID.String(),
			ProductID:   m.ProductID.String(),
			Kind:        m.Kind,
			Quantity:    m.Quantity,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			Reason:      m.Reason,
			CreatedAt:   m.CreatedAt.In(s.loc).Format(time.RFC3339),
		}
		if m.ReferenceID != nil {
			ref := m.ReferenceID.String()
			r.SaleID = &ref
		}
		if m.Product != nil {
			r.Product = m.Product.Name
			r.SKU = m.Product.SKU
		}
		data[i] = r
	}
	return &dto.StockMovementListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func productToResponse(p *model.Product) dto.ProductResponse {
	r := dto.ProductResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		SKU:           p.SKU,
		Description:   p.Description,
		Price:         p.Price,
		Cost:          p.Cost,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		StockStatus:   p.StockStatus(),
		IsActive:      p.IsActive,
		ImageURL:      p.ImageURL,
	}
	if p.CategoryID != nil {
		id := p.CategoryID.String()
		r.CategoryID = &id
	}
	if p.Category != nil {
		r.Category = p.Category.Name
	}
	return r
}
