package worker

// stock_alert_worker.go
// Processes jobs from QueueStockAlert: one email per product that reached its
// minimum stock level. SMTP calls go through a circuit breaker so a dead relay
// fails fast and the pool's retry and dead letter path takes over.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/saadmalik-333/business-insight-pos/internal/dto"
	"github.com/saadmalik-333/business-insight-pos/internal/infra"

	"github.com/rs/zerolog/log"
)

// AlertSender delivers a stock alert. Implemented by *infra.Mailer.
type AlertSender interface {
	Enabled() bool
	SendStockAlert(alert dto.StockAlertPayload) error
}

type StockAlertWorker struct {
	sender AlertSender
	cb     *infra.CircuitBreaker
}

func NewStockAlertWorker(sender AlertSender, cb *infra.CircuitBreaker) *StockAlertWorker {
	if cb == nil {
		cb = infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp"))
	}
	return &StockAlertWorker{sender: sender, cb: cb}
}

// Process is a Handler for JobTypeStockAlert.
func (w *StockAlertWorker) Process(_ context.Context, raw json.RawMessage) error {
	var alert dto.StockAlertPayload
	if err := json.Unmarshal(raw, &alert); err != nil {
		// Retrying cannot fix a bad payload.
		log.Error().Err(err).Msg("stock_alert_worker: invalid payload, dropping")
		return nil
	}

	logger := log.With().
		Str("product_id", alert.ProductID).
		Str("sku", alert.SKU).
		Int("stock", alert.StockQuantity).
		Int("min", alert.MinStockLevel).
		Str("source", alert.Source).
		Logger()

	if w.sender == nil || !w.sender.Enabled() {
		logger.Warn().Msg("stock_alert_worker: low stock (no SMTP recipients configured, logging only)")
		return nil
	}

	if err := w.cb.Execute(func() error { return w.sender.SendStockAlert(alert) }); err != nil {
		return fmt.Errorf("stock alert for %s: %w", alert.Name, err)
	}
	logger.Info().Msg("stock_alert_worker: alert sent")
	return nil
}
