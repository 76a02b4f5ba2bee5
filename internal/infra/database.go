package infra

import (
	"fmt"
	"time"

	"github.com/saadmalik-333/business-insight-pos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the GORM connection, runs AutoMigrate for every model and
// then applies the idempotent SQL patches AutoMigrate cannot express (CHECK
// constraints, composite indexes). verbose turns on GORM's slow query and
// error logging.
func NewDatabase(dsn string, verbose bool) (*gorm.DB, error) {
	level := logger.Silent
	if verbose {
		level = logger.Warn
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(level),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates all tables and applies schema patches.
// Shared by the server, the seed command and integration tests.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() is built in from PostgreSQL 13; older servers need pgcrypto.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pre-migration: pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Category{},
		&model.Profile{},
		&model.Product{},
		&model.Sale{},
		&model.SaleItem{},
		&model.SaleSequence{},
		&model.StockMovement{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL. Each constraint is guarded by an
// existence check so re-running on an already-patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// The stock ledger relies on this as the last line of defence: a
		// decrement that slipped past the guarded UPDATE still cannot commit.
		{"products stock non-negative", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_products_stock_non_negative') THEN
    ALTER TABLE products ADD CONSTRAINT chk_products_stock_non_negative CHECK (stock_quantity >= 0);
  END IF;
END $$`},
		{"products min level non-negative", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_products_min_level_non_negative') THEN
    ALTER TABLE products ADD CONSTRAINT chk_products_min_level_non_negative CHECK (min_stock_level >= 0);
  END IF;
END $$`},
		{"sale items positive quantity", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_sale_items_quantity_positive') THEN
    ALTER TABLE sale_items ADD CONSTRAINT chk_sale_items_quantity_positive CHECK (quantity > 0);
  END IF;
END $$`},
		{"sales payment method", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_sales_payment_method') THEN
    ALTER TABLE sales ADD CONSTRAINT chk_sales_payment_method CHECK (payment_method IN ('cash', 'card', 'digital'));
  END IF;
END $$`},
		{"sales status", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_sales_status') THEN
    ALTER TABLE sales ADD CONSTRAINT chk_sales_status CHECK (status IN ('completed', 'voided'));
  END IF;
END $$`},
		{"sales totals consistent", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_sales_total') THEN
    ALTER TABLE sales ADD CONSTRAINT chk_sales_total CHECK (total_amount = subtotal + tax_amount);
  END IF;
END $$`},
		// dashboard "today" query: status + created_at range
		{"sales status/created_at index",
			`CREATE INDEX IF NOT EXISTS idx_sales_status_created_at ON sales (status, created_at)`},
		{"products low stock partial index",
			`CREATE INDEX IF NOT EXISTS idx_products_low_stock ON products (stock_quantity)
			 WHERE is_active AND stock_quantity <= min_stock_level`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
