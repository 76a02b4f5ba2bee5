package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at checkout.
const (
	PaymentCash    = "cash"
	PaymentCard    = "card"
	PaymentDigital = "digital"
)

// Sale lifecycle. A sale becomes visible already completed (it is written in a
// single transaction); voiding is the only transition afterwards.
const (
	SaleStatusCompleted = "completed"
	SaleStatusVoided    = "voided"
)

// Sale is the header of a checkout.
// TotalAmount is always SubTotal + TaxAmount and is never set independently.
type Sale struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleNumber    string    `gorm:"type:varchar(16);uniqueIndex;not null"`
	CustomerName  *string
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(10);not null"`
	CashierID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	Status        string          `gorm:"type:varchar(12);not null;default:'completed';index"`
	VoidReason    *string
	VoidedAt      *time.Time
	SaleDate      time.Time `gorm:"index;not null"`
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time

	Items   []SaleItem `gorm:"foreignKey:SaleID"`
	Cashier *Profile   `gorm:"foreignKey:CashierID"`
}

// SaleItem is one cart line of a Sale. UnitPrice is a snapshot taken at sale time.
type SaleItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// SaleSequence is the per-day counter behind sale numbers.
type SaleSequence struct {
	Day       string `gorm:"type:char(8);primaryKey"` // YYYYMMDD
	LastValue int    `gorm:"not null"`
	UpdatedAt time.Time
}
