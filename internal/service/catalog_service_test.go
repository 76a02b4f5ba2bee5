package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/saadmalik-333/business-insight-pos/internal/dto"
	"github.com/saadmalik-333/business-insight-pos/internal/model"
	"github.com/saadmalik-333/business-insight-pos/internal/repository"
	"github.com/saadmalik-333/business-insight-pos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCategoryRepo struct{ list []model.Category }

func (r *stubCategoryRepo) List(_ context.Context) ([]model.Category, error) { return r.list, nil }
func (r *stubCategoryRepo) Upsert(_ context.Context, c *model.Category) error {
	r.list = append(r.list, *c)
	return nil
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

func TestInventorySummary(t *testing.T) {
	store := newStubStore()
	burger := store.addProduct("Classic Burger", "BRG001", "12.99", 15, 10)
	store.products[burger.ID].Cost = decimal.RequireFromString("6.50")
	fries := store.addProduct("Crispy Fries", "SID001", "4.99", 5, 15)
	store.products[fries.ID].Cost = decimal.RequireFromString("2.25")
	store.addProduct("Chicken Sandwich", "BRG002", "10.99", 0, 8)

	svc := service.NewCatalogService(stubProductRepo{store}, &stubCategoryRepo{}, stubMovementRepo{store}, nil, time.UTC)
	sum, err := svc.InventorySummary(context.Background())
	require.NoError(t, err)

	// 15×6.50 + 5×2.25 = 108.75
	assert.True(t, sum.TotalStockValue.Equal(decimal.RequireFromString("108.75")), "value %s", sum.TotalStockValue)
	assert.Equal(t, 3, sum.TotalProducts)
	assert.Equal(t, 2, sum.LowStockCount)
	assert.Equal(t, 1, sum.OutOfStockCount)
}

func TestPriceBySKU_UsesCache(t *testing.T) {
	store := newStubStore()
	store.addProduct("Cola", "DRK001", "2.99", 25, 20)
	cache := newFakePriceCache()
	svc := service.NewCatalogService(stubProductRepo{store}, &stubCategoryRepo{}, stubMovementRepo{store}, cache, time.UTC)

	resp, err := svc.PriceBySKU(context.Background(), " DRK001 ")
	require.NoError(t, err)
	assert.Equal(t, "Cola", resp.Name)
	assert.Equal(t, 25, resp.StockAvailable)
	require.Contains(t, cache.entries, "DRK001")

	// Served from cache even when the repository is down.
	store.failOn("FindBySKU", errBoom)
	again, err := svc.PriceBySKU(context.Background(), "DRK001")
	require.NoError(t, err)
	assert.Equal(t, resp, again)
}

func TestPriceBySKU_Errors(t *testing.T) {
	store := newStubStore()
	svc := service.NewCatalogService(stubProductRepo{store}, &stubCategoryRepo{}, stubMovementRepo{store}, nil, time.UTC)

	_, err := svc.PriceBySKU(context.Background(), "  ")
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.PriceBySKU(context.Background(), "NOPE")
	assert.ErrorIs(t, err, service.ErrNotFound)

	store.failOn("FindBySKU", errBoom)
	_, err = svc.PriceBySKU(context.Background(), "NOPE")
	assert.ErrorIs(t, err, service.ErrRetrieval)
}

func TestListProducts_Pagination(t *testing.T) {
	store := newStubStore()
	for _, sku := range []string{"A1", "A2", "A3"} {
		store.addProduct("Item "+sku, sku, "1.00", 10, 1)
	}
	svc := service.NewCatalogService(stubProductRepo{store}, &stubCategoryRepo{}, stubMovementRepo{store}, nil, time.UTC)

	resp, err := svc.ListProducts(context.Background(), dto.ProductFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 2, resp.TotalPages)
	assert.EqualValues(t, 3, resp.Total)
}

func TestGetProduct(t *testing.T) {
	store := newStubStore()
	shake := store.addProduct("Milkshake", "DRK002", "5.99", 18, 12)
	store.products[shake.ID].IsActive = false
	svc := service.NewCatalogService(stubProductRepo{store}, &stubCategoryRepo{}, stubMovementRepo{store}, nil, time.UTC)

	resp, err := svc.GetProduct(context.Background(), shake.ID)
	require.NoError(t, err)
	assert.Equal(t, "DRK002", resp.SKU)
	assert.False(t, resp.IsActive)

	_, err = svc.GetProduct(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestListMovements_FollowsSalesAndVoids(t *testing.T) {
	f := newSaleFixture(t)
	burger := f.store.addProduct("Classic Burger", "BRG001", "12.99", 15, 10)
	cola := f.store.addProduct("Cola", "DRK001", "2.99", 25, 20)

	sale, err := f.svc.RecordSale(context.Background(), f.cashier, cart("cash", line(burger, 2), line(cola, 1)))
	require.NoError(t, err)
	_, err = f.svc.RecordSale(context.Background(), f.cashier, cart("cash", line(cola, 3)))
	require.NoError(t, err)
	_, err = f.svc.VoidSale(context.Background(), uuid.MustParse(sale.ID), "customer left")
	require.NoError(t, err)

	catalog := service.NewCatalogService(stubProductRepo{f.store}, &stubCategoryRepo{}, stubMovementRepo{f.store}, nil, time.UTC)

	all, err := catalog.ListMovements(context.Background(), dto.StockMovementFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 5, all.Total)
	assert.Equal(t, 100, all.Limit)

	bySale, err := catalog.ListMovements(context.Background(), dto.StockMovementFilter{SaleID: sale.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 4, bySale.Total)
	for _, m := range bySale.Data {
		require.NotNil(t, m.SaleID)
		assert.Equal(t, sale.ID, *m.SaleID)
	}

	restores, err := catalog.ListMovements(context.Background(), dto.StockMovementFilter{
		ProductID: burger.ID.String(),
		Kind:      model.MovementVoidRestore,
	})
	require.NoError(t, err)
	require.Len(t, restores.Data, 1)
	assert.Equal(t, 2, restores.Data[0].Quantity)
	assert.Equal(t, 13, restores.Data[0].StockBefore)
	assert.Equal(t, 15, restores.Data[0].StockAfter)
}

func TestListMovements_Errors(t *testing.T) {
	store := newStubStore()
	svc := service.NewCatalogService(stubProductRepo{store}, &stubCategoryRepo{}, stubMovementRepo{store}, nil, time.UTC)

	_, err := svc.ListMovements(context.Background(), dto.StockMovementFilter{ProductID: "nope", SaleID: "nope"})
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "product_id")
	assert.Contains(t, verr.Fields, "sale_id")

	store.failOn("MovementList", errBoom)
	_, err = svc.ListMovements(context.Background(), dto.StockMovementFilter{})
	assert.ErrorIs(t, err, service.ErrRetrieval)
}
