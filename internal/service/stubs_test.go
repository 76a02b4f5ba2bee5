package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/saadmalik-333/business-insight-pos/internal/dto"
	"github.com/saadmalik-333/business-insight-pos/internal/model"
	"github.com/saadmalik-333/business-insight-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// Unit tests run with a nil *gorm.DB, so runTx calls fn(nil) and the stubs
// ignore the tx argument. A single mutex serialises every call, which is what
// the database row locks give the real repositories.

type stubStore struct {
	mu        sync.Mutex
	products  map[uuid.UUID]*model.Product
	sales     map[uuid.UUID]*model.Sale
	sequences map[string]int
	movements []model.StockMovement
	profiles  map[uuid.UUID]*model.Profile

	// failures injected per method name
	fail map[string]error
}

func newStubStore() *stubStore {
	return &stubStore{
		products:  make(map[uuid.UUID]*model.Product),
		sales:     make(map[uuid.UUID]*model.Sale),
		sequences: make(map[string]int),
		profiles:  make(map[uuid.UUID]*model.Profile),
		fail:      make(map[string]error),
	}
}

func (s *stubStore) addProduct(name, sku, price string, stock, min int) *model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &model.Product{
		ID:            uuid.New(),
		Name:          name,
		SKU:           sku,
		Price:         decimal.RequireFromString(price),
		Cost:          decimal.Zero,
		StockQuantity: stock,
		MinStockLevel: min,
		IsActive:      true,
	}
	s.products[p.ID] = p
	return p
}

func (s *stubStore) stock(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].StockQuantity
}

func (s *stubStore) saleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sales)
}

func (s *stubStore) failOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[method] = err
}

func (s *stubStore) injected(method string) error { return s.fail[method] }

// stubProductRepo is an in-memory ProductRepository backed by stubStore.
type stubProductRepo struct{ *stubStore }

func (r stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("FindBySKU"); err != nil {
		return nil, err
	}
	for _, p := range r.products {
		if p.SKU == sku && p.IsActive {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r stubProductRepo) active() []model.Product {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r stubProductRepo) ListActive(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.active()
	return out, int64(len(out)), nil
}

func (r stubProductRepo) ListAllActive(_ context.Context) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active(), nil
}

func (r stubProductRepo) ListLowStock(_ context.Context) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.active() {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r stubProductRepo) CountActive(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("CountActive"); err != nil {
		return 0, err
	}
	return int64(len(r.active())), nil
}

func (r stubProductRepo) CountLowStock(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("CountLowStock"); err != nil {
		return 0, err
	}
	var n int64
	for _, p := range r.products {
		if p.IsLowStock() {
			n++
		}
	}
	return n, nil
}

func (r stubProductRepo) UpsertBySKU(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.products {
		if existing.SKU == p.SKU {
			p.ID = existing.ID
			p.StockQuantity = existing.StockQuantity
			return nil
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r stubProductRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) (*model.Product, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("DecrementStockTx"); err != nil {
		return nil, false, err
	}
	p, ok := r.products[id]
	if !ok || !p.IsActive || p.StockQuantity < qty {
		return nil, false, nil
	}
	p.StockQuantity -= qty
	cp := *p
	return &cp, true, nil
}

func (r stubProductRepo) IncrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) (*model.Product, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, false, nil
	}
	p.StockQuantity += qty
	cp := *p
	return &cp, true, nil
}

func (r stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = stubProductRepo{}

// stubSaleRepo is an in-memory SaleRepository backed by stubStore.
type stubSaleRepo struct{ *stubStore }

func (r stubSaleRepo) CreateTx(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("CreateTx"); err != nil {
		return err
	}
	cp := *s
	cp.Items = append([]model.SaleItem(nil), s.Items...)
	r.sales[s.ID] = &cp
	return nil
}

func (r stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	cp.Cashier = r.profiles[s.CashierID]
	return &cp, nil
}

func (r stubSaleRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	return r.FindByID(context.Background(), id)
}

func (r stubSaleRepo) MarkVoidedTx(_ *gorm.DB, id uuid.UUID, reason string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok || s.Status != model.SaleStatusCompleted {
		return false, nil
	}
	s.Status = model.SaleStatusVoided
	s.VoidReason = &reason
	s.VoidedAt = &at
	return true, nil
}

func (r stubSaleRepo) NextDailySequenceTx(_ context.Context, _ *gorm.DB, day string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("NextDailySequenceTx"); err != nil {
		return 0, err
	}
	r.sequences[day]++
	return r.sequences[day], nil
}

func (r stubSaleRepo) SumCompletedBetween(_ context.Context, from, to time.Time) (decimal.Decimal, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("SumCompletedBetween"); err != nil {
		return decimal.Zero, 0, err
	}
	total := decimal.Zero
	var n int64
	for _, s := range r.sales {
		if s.Status != model.SaleStatusCompleted || s.CreatedAt.Before(from) || !s.CreatedAt.Before(to) {
			continue
		}
		total = total.Add(s.TotalAmount)
		n++
	}
	return total, n, nil
}

func (r stubSaleRepo) sorted() []model.Sale {
	out := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		cp := *s
		cp.Cashier = r.profiles[s.CashierID]
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r stubSaleRepo) ListRecent(_ context.Context, limit int) ([]model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("ListRecent"); err != nil {
		return nil, err
	}
	out := r.sorted()
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r stubSaleRepo) List(_ context.Context, q repository.SaleQuery) ([]model.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Sale
	for _, s := range r.sorted() {
		if s.CreatedAt.Before(q.From) || !s.CreatedAt.Before(q.To) {
			continue
		}
		if q.Status != "all" && s.Status != q.Status {
			continue
		}
		if q.Number != "" && s.SaleNumber != q.Number {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = stubSaleRepo{}

// stubMovementRepo records ledger movements in stubStore.
type stubMovementRepo struct{ *stubStore }

func (r stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("MovementCreateTx"); err != nil {
		return err
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r stubMovementRepo) List(_ context.Context, f repository.StockMovementFilter) ([]model.StockMovement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("MovementList"); err != nil {
		return nil, 0, err
	}
	var out []model.StockMovement
	for _, m := range r.movements {
		if f.ProductID != nil && m.ProductID != *f.ProductID {
			continue
		}
		if f.ReferenceID != nil && (m.ReferenceID == nil || *m.ReferenceID != *f.ReferenceID) {
			continue
		}
		if f.Kind != "" && m.Kind != f.Kind {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

var _ repository.StockMovementRepository = stubMovementRepo{}

// ── Collaborator fakes ────────────────────────────────────────────────────────

type fakePublisher struct {
	mu     sync.Mutex
	events []dto.SaleEvent
	err    error
}

func (f *fakePublisher) PublishSaleEvent(_ context.Context, ev dto.SaleEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}

type fakeDispatcher struct {
	mu     sync.Mutex
	alerts []dto.StockAlertPayload
}

func (f *fakeDispatcher) EnqueueStockAlert(_ context.Context, p dto.StockAlertPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, p)
	return nil
}

type fakePriceCache struct {
	mu          sync.Mutex
	entries     map[string]*dto.PriceCheckResponse
	invalidated []string
}

func newFakePriceCache() *fakePriceCache {
	return &fakePriceCache{entries: make(map[string]*dto.PriceCheckResponse)}
}

func (f *fakePriceCache) Get(_ context.Context, sku string) (*dto.PriceCheckResponse, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.entries[sku]
	return v, ok
}

func (f *fakePriceCache) Set(_ context.Context, sku string, resp *dto.PriceCheckResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[sku] = resp
	return nil
}

func (f *fakePriceCache) Invalidate(_ context.Context, skus ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sku := range skus {
		delete(f.entries, sku)
	}
	f.invalidated = append(f.invalidated, skus...)
	return nil
}

var errBoom = errors.New("connection reset by peer")
