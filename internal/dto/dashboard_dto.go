package dto

import "github.com/shopspring/decimal"

type DailySales struct {
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// DashboardMetrics is the aggregate shown on the dashboard. Degraded lists the
// sections that could not be read and were reported as zero/empty.
type DashboardMetrics struct {
	Date              string         `json:"date"`
	TodaySales        DailySales     `json:"today_sales"`
	LowStockCount     int64          `json:"low_stock_count"`
	TotalProductCount int64          `json:"total_product_count"`
	RecentSales       []SaleResponse `json:"recent_sales"`
	Degraded          []string       `json:"degraded,omitempty"`
}
