package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/saadmalik-333/business-insight-pos/internal/model"
	"github.com/saadmalik-333/business-insight-pos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockLevel is the outcome of one ledger change.
type StockLevel struct {
	ProductID uuid.UUID
	Name      string
	SKU       string
	Before    int
	After     int
	MinLevel  int
}

// Low reports whether the resulting level is at or below the product minimum.
func (l StockLevel) Low() bool { return l.After <= l.MinLevel }

// StockRef ties a movement to the document that caused it.
type StockRef struct {
	SaleID uuid.UUID
	Reason string
}

// StockLedger is the only writer of products.stock_quantity. Every change is a
// single guarded UPDATE plus a stock_movements row in the caller's transaction.
type StockLedger struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
}

func NewStockLedger(products repository.ProductRepository, movements repository.StockMovementRepository) *StockLedger {
	return &StockLedger{products: products, movements: movements}
}

// Decrement removes qty units. Stock never goes negative: when the guard
// rejects the change the product is re-read to report why.
func (l *StockLedger) Decrement(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int, ref StockRef) (StockLevel, error) {
	if qty <= 0 {
		return StockLevel{}, invalid("quantity", "must be greater than zero")
	}
	if err := ctx.Err(); err != nil {
		return StockLevel{}, err
	}

	p, applied, err := l.products.DecrementStockTx(tx, productID, qty)
	if err != nil {
		return StockLevel{}, fmt.Errorf("%w: decrement %s: %v", ErrStockAdjustment, productID, err)
	}
	if !applied {
		return StockLevel{}, l.classifyRejection(tx, productID, qty)
	}

	level := StockLevel{
		ProductID: productID,
		Name:      p.Name,
		SKU:       p.SKU,
		Before:    p.StockQuantity + qty,
		After:     p.StockQuantity,
		MinLevel:  p.MinStockLevel,
	}
	if err := l.record(tx, model.MovementSale, -qty, level, ref); err != nil {
		return StockLevel{}, err
	}
	return level, nil
}

// Restore puts qty units back. Used by voids; inactive products are restored too.
func (l *StockLedger) Restore(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int, ref StockRef) (StockLevel, error) {
	if qty <= 0 {
		return StockLevel{}, invalid("quantity", "must be greater than zero")
	}
	if err := ctx.Err(); err != nil {
		return StockLevel{}, err
	}

	p, applied, err := l.products.IncrementStockTx(tx, productID, qty)
	if err != nil {
		return StockLevel{}, fmt.Errorf("%w: restore %s: %v", ErrStockAdjustment, productID, err)
	}
	if !applied {
		return StockLevel{}, ErrProductNotFound
	}

	level := StockLevel{
		ProductID: productID,
		Name:      p.Name,
		SKU:       p.SKU,
		Before:    p.StockQuantity - qty,
		After:     p.StockQuantity,
		MinLevel:  p.MinStockLevel,
	}
	if err := l.record(tx, model.MovementVoidRestore, qty, level, ref); err != nil {
		return StockLevel{}, err
	}
	return level, nil
}

func (l *StockLedger) classifyRejection(tx *gorm.DB, productID uuid.UUID, qty int) error {
	p, err := l.products.FindByIDTx(tx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrStockAdjustment, productID, err)
	}
	if !p.IsActive {
		return fmt.Errorf("%w: %s", ErrProductInactive, p.Name)
	}
	return &InsufficientStockError{
		ProductID: productID,
		Name:      p.Name,
		Requested: qty,
		Available: p.StockQuantity,
	}
}

func (l *StockLedger) record(tx *gorm.DB, kind string, delta int, level StockLevel, ref StockRef) error {
	var refID *uuid.UUID
	if ref.SaleID != uuid.Nil {
		id := ref.SaleID
		refID = &id
	}
	mov := &model.StockMovement{
		ProductID:   level.ProductID,
		Kind:        kind,
		Quantity:    delta,
		StockBefore: level.Before,
		StockAfter:  level.After,
		Reason:      ref.Reason,
		ReferenceID: refID,
	}
	if err := l.movements.CreateTx(tx, mov); err != nil {
		return fmt.Errorf("%w: stock movement: %v", ErrPersistence, err)
	}
	return nil
}
