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

// EventPublisher fans sale events out to observers. Implemented by worker.EventBus.
type EventPublisher interface {
	PublishSaleEvent(ctx context.Context, ev dto.SaleEvent) error
}

// JobDispatcher queues background work. Implemented by worker.Dispatcher.
type JobDispatcher interface {
	EnqueueStockAlert(ctx context.Context, payload dto.StockAlertPayload) error
}

// PriceCacheInvalidator drops cached price checks for the given SKUs.
type PriceCacheInvalidator interface {
	Invalidate(ctx context.Context, skus ...string) error
}

// SaleSettings holds the store-level knobs the recorder needs.
type SaleSettings struct {
	TaxRate  decimal.Decimal
	Location *time.Location
	Now      func() time.Time
}

type SaleService interface {
	RecordSale(ctx context.Context, cashierID uuid.UUID, req dto.RecordSaleRequest) (*dto.SaleResponse, error)
	VoidSale(ctx context.Context, id uuid.UUID, reason string) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	repo        repository.SaleRepository
	productRepo repository.ProductRepository
	ledger      *StockLedger
	numbers     *SaleNumberGenerator
	publisher   EventPublisher
	dispatcher  JobDispatcher
	prices      PriceCacheInvalidator
	taxRate     decimal.Decimal
	loc         *time.Location
	now         func() time.Time
}

// NewSaleService wires the recorder. publisher, dispatcher and prices are
// optional; a nil value disables that post-commit step.
func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	ledger *StockLedger,
	numbers *SaleNumberGenerator,
	publisher EventPublisher,
	dispatcher JobDispatcher,
	prices PriceCacheInvalidator,
	settings SaleSettings,
) SaleService {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}
	return &saleService{
		repo:        repo,
		productRepo: productRepo,
		ledger:      ledger,
		numbers:     numbers,
		publisher:   publisher,
		dispatcher:  dispatcher,
		prices:      prices,
		taxRate:     settings.TaxRate,
		loc:         settings.Location,
		now:         settings.Now,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// classifyTxError keeps already classified errors and reports anything else
// that escaped a transaction (driver errors, commit failures, cancellation)
// as a persistence failure.
func classifyTxError(err error) error {
	for _, kind := range []error{ErrValidation, ErrRetrieval, ErrPersistence, ErrStockAdjustment, ErrNotFound} {
		if errors.Is(err, kind) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

type saleLine struct {
	productID uuid.UUID
	quantity  int
	unitPrice *decimal.Decimal
}

// ── RecordSale ────────────────────────────────────────────────────────────────
//   1. Validate the cart (nothing touches the database before this passes)
//   2. BEGIN TX: allocate sale number, price lines, insert sale + items,
//      decrement stock per line with a movement row each
//   3. COMMIT
//   4. (best effort) invalidate price cache, publish sale.completed, queue low stock alerts

func (s *saleService) RecordSale(ctx context.Context, cashierID uuid.UUID, req dto.RecordSaleRequest) (*dto.SaleResponse, error) {
	lines, verr := validateRecordSale(cashierID, req)
	if verr != nil {
		return nil, verr
	}

	now := s.now()
	var sale model.Sale
	var levels []StockLevel
	products := make(map[uuid.UUID]*model.Product, len(lines))

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		number, err := s.numbers.Generate(ctx, tx, now)
		if err != nil {
			return err
		}

		sale = model.Sale{
			ID:            uuid.New(),
			SaleNumber:    number,
			CustomerName:  trimmedOrNil(req.CustomerName),
			PaymentMethod: req.PaymentMethod,
			CashierID:     cashierID,
			Status:        model.SaleStatusCompleted,
			SaleDate:      now,
			CreatedAt:     now,
		}

		subtotal := decimal.Zero
		for _, l := range lines {
			p, ok := products[l.productID]
			if !ok {
				p, err = s.productRepo.FindByIDTx(tx, l.productID)
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrProductNotFound, l.productID)
				}
				if err != nil {
					return fmt.Errorf("%w: load product %s: %v", ErrRetrieval, l.productID, err)
				}
				products[l.productID] = p
			}
			price := p.Price
			if l.unitPrice != nil {
				price = *l.unitPrice
			}
			lineTotal := price.Mul(decimal.NewFromInt(int64(l.quantity)))
			subtotal = subtotal.Add(lineTotal)
			sale.Items = append(sale.Items, model.SaleItem{
				ID:         uuid.New(),
				SaleID:     sale.ID,
				ProductID:  l.productID,
				Quantity:   l.quantity,
				UnitPrice:  price,
				TotalPrice: lineTotal,
				CreatedAt:  now,
			})
		}
		sale.Subtotal = subtotal
		sale.TaxAmount = subtotal.Mul(s.taxRate).Round(2)
		sale.TotalAmount = sale.Subtotal.Add(sale.TaxAmount)

		if err := s.repo.CreateTx(ctx, tx, &sale); err != nil {
			return fmt.Errorf("%w: insert sale: %v", ErrPersistence, err)
		}

		ref := StockRef{SaleID: sale.ID, Reason: "sale " + number}
		for _, l := range lines {
			level, err := s.ledger.Decrement(ctx, tx, l.productID, l.quantity, ref)
			if err != nil {
				return err
			}
			levels = append(levels, level)
		}
		return nil
	})
	if txErr != nil {
		log.Warn().Err(txErr).Str("cashier_id", cashierID.String()).Msg("sale: record failed, transaction rolled back")
		return nil, classifyTxError(txErr)
	}

	for i := range sale.Items {
		sale.Items[i].Product = products[sale.Items[i].ProductID]
	}
	log.Info().
		Str("sale_number", sale.SaleNumber).
		Str("total", sale.TotalAmount.StringFixed(2)).
		Int("items", len(sale.Items)).
		Msg("sale: recorded")

	s.afterCommit(ctx, dto.EventSaleCompleted, &sale, levels)
	for _, lvl := range levels {
		if lvl.Low() {
			s.enqueueStockAlert(ctx, lvl)
		}
	}
	return saleToResponse(&sale, s.loc), nil
}

func validateRecordSale(cashierID uuid.UUID, req dto.RecordSaleRequest) ([]saleLine, error) {
	fields := make(map[string]string)
	if cashierID == uuid.Nil {
		fields["cashier_id"] = "is required"
	}
	if len(req.Items) == 0 {
		fields["items"] = "cart is empty"
	}
	switch req.PaymentMethod {
	case model.PaymentCash, model.PaymentCard, model.PaymentDigital:
	default:
		fields["payment_method"] = "must be one of cash, card, digital"
	}

	lines := make([]saleLine, 0, len(req.Items))
	for i, item := range req.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			fields[prefix+"product_id"] = "must be a valid uuid"
		}
		if item.Quantity <= 0 {
			fields[prefix+"quantity"] = "must be greater than zero"
		}
		if item.UnitPrice != nil {
			switch {
			case item.UnitPrice.IsNegative():
				fields[prefix+"unit_price"] = "must not be negative"
			case !item.UnitPrice.Equal(item.UnitPrice.Round(2)):
				fields[prefix+"unit_price"] = "must have at most 2 decimal places"
			}
		}
		lines = append(lines, saleLine{productID: pid, quantity: item.Quantity, unitPrice: item.UnitPrice})
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return lines, nil
}

// ── VoidSale ──────────────────────────────────────────────────────────────────
// Compensating transaction: restores stock for every item and flips the sale
// to voided. The sale row is locked for the duration so concurrent voids of the
// same sale serialise and the second one sees status=voided.

func (s *saleService) VoidSale(ctx context.Context, id uuid.UUID, reason string) (*dto.SaleResponse, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) < 3 {
		return nil, invalid("reason", "must be at least 3 characters")
	}

	now := s.now()
	var sale *model.Sale
	var levels []StockLevel

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		sale, err = s.repo.FindByIDForUpdateTx(tx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: load sale: %v", ErrRetrieval, err)
		}
		if sale.Status == model.SaleStatusVoided {
			return ErrSaleAlreadyVoided
		}

		ref := StockRef{SaleID: sale.ID, Reason: fmt.Sprintf("void %s: %s", sale.SaleNumber, reason)}
		for _, item := range sale.Items {
			level, err := s.ledger.Restore(ctx, tx, item.ProductID, item.Quantity, ref)
			if err != nil {
				return err
			}
			levels = append(levels, level)
		}

		ok, err := s.repo.MarkVoidedTx(tx, id, reason, now)
		if err != nil {
			return fmt.Errorf("%w: mark voided: %v", ErrPersistence, err)
		}
		if !ok {
			return ErrSaleAlreadyVoided
		}
		return nil
	})
	if txErr != nil {
		return nil, classifyTxError(txErr)
	}

	log.Info().Str("sale_number", sale.SaleNumber).Str("reason", reason).Msg("sale: voided")
	s.afterCommit(ctx, dto.EventSaleVoided, sale, levels)

	return s.GetSale(ctx, id)
}

// afterCommit runs the best-effort side effects of a committed change. Failures
// are logged and never surface to the caller: the sale itself is durable.
func (s *saleService) afterCommit(ctx context.Context, eventType string, sale *model.Sale, levels []StockLevel) {
	if s.prices != nil && len(levels) > 0 {
		skus := make([]string, 0, len(levels))
		for _, lvl := range levels {
			skus = append(skus, lvl.SKU)
		}
		if err := s.prices.Invalidate(ctx, skus...); err != nil {
			log.Warn().Err(err).Str("sale_number", sale.SaleNumber).Msg("sale: price cache invalidation failed")
		}
	}

	if s.publisher != nil {
		ev := dto.SaleEvent{
			Type:        eventType,
			SaleID:      sale.ID.String(),
			SaleNumber:  sale.SaleNumber,
			CashierID:   sale.CashierID.String(),
			TotalAmount: sale.TotalAmount,
			OccurredAt:  s.now().In(s.loc).Format(time.RFC3339),
		}
		for _, lvl := range levels {
			ev.ProductIDs = append(ev.ProductIDs, lvl.ProductID.String())
		}
		if err := s.publisher.PublishSaleEvent(ctx, ev); err != nil {
			log.Warn().Err(err).Str("type", eventType).Str("sale_number", sale.SaleNumber).Msg("sale: publish event failed")
		}
	}
}

func (s *saleService) enqueueStockAlert(ctx context.Context, lvl StockLevel) {
	if s.dispatcher == nil {
		return
	}
	payload := dto.StockAlertPayload{
		ProductID:     lvl.ProductID.String(),
		Name:          lvl.Name,
		SKU:           lvl.SKU,
		StockQuantity: lvl.After,
		MinStockLevel: lvl.MinLevel,
		Source:        "sale",
	}
	if err := s.dispatcher.EnqueueStockAlert(ctx, payload); err != nil {
		log.Warn().Err(err).Str("sku", lvl.SKU).Msg("sale: enqueue stock alert failed")
	}
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load sale: %v", ErrRetrieval, err)
	}
	return saleToResponse(sale, s.loc), nil
}

// ListSales returns a paginated list of sales for one store-local day.
// Default filter: today's completed sales. A sale number selects the day it
// was issued on, so a receipt lookup ignores Date.
func (s *saleService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Status == "" {
		filter.Status = model.SaleStatusCompleted
	}
	switch filter.Status {
	case model.SaleStatusCompleted, model.SaleStatusVoided, "all":
	default:
		return nil, invalid("status", "must be one of completed, voided, all")
	}

	day := s.now()
	switch {
	case filter.Number != "":
		prefix, _, err := ParseSaleNumber(strings.TrimSpace(filter.Number))
		if err != nil {
			return nil, invalid("number", "must be YYYYMMDD-NNNN")
		}
		day, _ = time.ParseInLocation(saleNumberDayLayout, prefix, s.loc)
		filter.Number = strings.TrimSpace(filter.Number)
	case filter.Date != "":
		parsed, err := time.ParseInLocation("2006-01-02", filter.Date, s.loc)
		if err != nil {
			return nil, invalid("date", "must be YYYY-MM-DD")
		}
		day = parsed
	}
	from, to := dayWindow(day, s.loc)

	sales, total, err := s.repo.List(ctx, repository.SaleQuery{
		From:   from,
		To:     to,
		Status: filter.Status,
		Number: filter.Number,
		Page:   filter.Page,
		Limit:  filter.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list sales: %v", ErrRetrieval, err)
	}

	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, *saleToResponse(&sales[i], s.loc))
	}
	return &dto.SaleListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// dayWindow returns the store-local calendar day containing t as [start, next start).
func dayWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := t.In(loc).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 0, 1)
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func saleToResponse(s *model.Sale, loc *time.Location) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, len(s.Items))
	for i, it := range s.Items {
		items[i] = dto.SaleItemResponse{
			ProductID:  it.ProductID.String(),
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		}
		if it.Product != nil {
			items[i].Product = it.Product.Name
		}
	}
	resp := &dto.SaleResponse{
		ID:            s.ID.String(),
		SaleNumber:    s.SaleNumber,
		CustomerName:  s.CustomerName,
		Items:         items,
		Subtotal:      s.Subtotal,
		TaxAmount:     s.TaxAmount,
		TotalAmount:   s.TotalAmount,
		PaymentMethod: s.PaymentMethod,
		CashierID:     s.CashierID.String(),
		Status:        s.Status,
		VoidReason:    s.VoidReason,
		SaleDate:      s.SaleDate.In(loc).Format(time.RFC3339),
		CreatedAt:     s.CreatedAt.In(loc).Format(time.RFC3339),
	}
	if s.Cashier != nil {
		if s.Cashier.FullName != nil {
			resp.CashierName = *s.Cashier.FullName
		} else {
			resp.CashierName = s.Cashier.Email
		}
	}
	return resp
}
