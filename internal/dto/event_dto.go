package dto

import "github.com/shopspring/decimal"

// Sale event types published on the event bus.
const (
	EventSaleCompleted = "sale.completed"
	EventSaleVoided    = "sale.voided"
)

// SaleEvent is the payload observers (dashboards, inventory views) receive
// after a sale changes state.
type SaleEvent struct {
	Type        string          `json:"type"`
	SaleID      string          `json:"sale_id"`
	SaleNumber  string          `json:"sale_number"`
	CashierID   string          `json:"cashier_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ProductIDs  []string        `json:"product_ids"`
	OccurredAt  string          `json:"occurred_at"`
}

// StockAlertPayload is the job body for the stock alert queue.
type StockAlertPayload struct {
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	SKU           string `json:"sku,omitempty"`
	StockQuantity int    `json:"stock_quantity"`
	MinStockLevel int    `json:"min_stock_level"`
	Source        string `json:"source"` // "sale" | "scan"
}
