package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog entry. Products are never deleted; IsActive=false
// hides them from the catalog and from checkout.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Description *string
	SKU         string          `gorm:"column:sku;uniqueIndex;not null"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cost        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// StockQuantity is guarded by a CHECK (stock_quantity >= 0) patch, see infra.applySchemaPatches.
	StockQuantity int     `gorm:"not null;default:0"`
	MinStockLevel int     `gorm:"not null;default:0"`
	IsActive      bool    `gorm:"not null;default:true"`
	ImageURL      *string `gorm:"column:image_url"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
}

// IsLowStock reports whether an active product is at or below its minimum level.
func (p *Product) IsLowStock() bool {
	return p.IsActive && p.StockQuantity <= p.MinStockLevel
}

// Stock status values reported by inventory views.
const (
	StockStatusOut = "out_of_stock"
	StockStatusLow = "low_stock"
	StockStatusIn  = "in_stock"
)

// StockStatus classifies the current stock level.
func (p *Product) StockStatus() string {
	switch {
	case p.StockQuantity <= 0:
		return StockStatusOut
	case p.StockQuantity <= p.MinStockLevel:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}
