package worker

// low_stock_cron.go
// Background goroutine that periodically scans for active products at or below
// their minimum level and queues an alert for each. Checkout already queues
// alerts as stock drops; the scan catches changes made outside checkout
// (manual edits, imports). The dispatcher's daily marker keeps it from
// re-alerting the same product.

import (
	"context"
	"time"

	"github.com/saadmalik-333/business-insight-pos/internal/dto"
	"github.com/saadmalik-333/business-insight-pos/internal/model"

	"github.com/rs/zerolog/log"
)

// LowStockLister is the slice of repository.ProductRepository the scan needs.
type LowStockLister interface {
	ListLowStock(ctx context.Context) ([]model.Product, error)
}

// StockAlertEnqueuer is implemented by *Dispatcher.
type StockAlertEnqueuer interface {
	EnqueueStockAlert(ctx context.Context, payload dto.StockAlertPayload) error
}

type LowStockCronConfig struct {
	Products   LowStockLister
	Dispatcher StockAlertEnqueuer
	Interval   time.Duration
}

// StartLowStockCron runs one scan immediately, then one per Interval until ctx ends.
func StartLowStockCron(ctx context.Context, cfg LowStockCronConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("low_stock_cron: started")
		ScanLowStock(ctx, cfg)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("low_stock_cron: shutting down")
				return
			case <-ticker.C:
				ScanLowStock(ctx, cfg)
			}
		}
	}()
}

// ScanLowStock runs a single pass and returns how many alerts it tried to queue.
func ScanLowStock(ctx context.Context, cfg LowStockCronConfig) int {
	products, err := cfg.Products.ListLowStock(ctx)
	if err != nil {
		log.Error().Err(err).Msg("low_stock_cron: failed to list low stock products")
		return 0
	}
	if len(products) == 0 {
		return 0
	}

	log.Info().Int("count", len(products)).Msg("low_stock_cron: products at or below minimum")
	for i := range products {
		p := &products[i]
		err := cfg.Dispatcher.EnqueueStockAlert(ctx, dto.StockAlertPayload{
			ProductID:     p.ID.String(),
			Name:          p.Name,
			SKU:           p.SKU,
			StockQuantity: p.StockQuantity,
			MinStockLevel: p.MinStockLevel,
			Source:        "scan",
		})
		if err != nil {
			log.Warn().Err(err).Str("sku", p.SKU).Msg("low_stock_cron: enqueue failed")
		}
	}
	return len(products)
}
