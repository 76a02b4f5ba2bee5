package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Error kinds surfaced by the sale workflow. Every error returned from this
// package wraps exactly one of them; callers branch with errors.Is.
var (
	// ErrValidation: bad input shape or values. Never retried.
	ErrValidation = errors.New("validation failed")
	// ErrRetrieval: a read needed to proceed failed (e.g. sale number lookup).
	ErrRetrieval = errors.New("retrieval failed")
	// ErrPersistence: a write failed. The whole transaction was rolled back.
	ErrPersistence = errors.New("persistence failed")
	// ErrStockAdjustment: the stock ledger refused a change.
	ErrStockAdjustment = errors.New("stock adjustment failed")
	// ErrNotFound: the requested sale does not exist.
	ErrNotFound = errors.New("not found")
)

var (
	ErrSaleNumberExhausted = fmt.Errorf("%w: daily sale number sequence exhausted", ErrRetrieval)
	ErrSaleAlreadyVoided   = fmt.Errorf("%w: sale is already voided", ErrValidation)
	ErrProductNotFound     = fmt.Errorf("%w: product not found", ErrStockAdjustment)
	ErrProductInactive     = fmt.Errorf("%w: product is inactive", ErrStockAdjustment)
)

// ValidationError carries per-field messages for the HTTP layer.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// InsufficientStockError is returned when a decrement would take stock below zero.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.Name, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrStockAdjustment }
