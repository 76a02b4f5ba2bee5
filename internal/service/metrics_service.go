package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/saadmalik-333/business-insight-pos/internal/dto"
	"github.com/saadmalik-333/business-insight-pos/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Dashboard sections, as reported in DashboardMetrics.Degraded.
const (
	SectionTodaySales    = "today_sales"
	SectionLowStock      = "low_stock_count"
	SectionProductCount  = "total_product_count"
	SectionRecentSales   = "recent_sales"
	recentSalesLimit     = 5
	metricsQueryDeadline = 5 * time.Second
)

type MetricsService interface {
	GetDashboardMetrics(ctx context.Context, asOf time.Time) *dto.DashboardMetrics
}

type metricsService struct {
	sales    repository.SaleRepository
	products repository.ProductRepository
	loc      *time.Location
}

func NewMetricsService(sales repository.SaleRepository, products repository.ProductRepository, loc *time.Location) MetricsService {
	if loc == nil {
		loc = time.UTC
	}
	return &metricsService{sales: sales, products: products, loc: loc}
}

// GetDashboardMetrics runs the four dashboard queries concurrently. It never
// fails: a section whose query errors is logged, reported as zero/empty and
// named in Degraded.
func (s *metricsService) GetDashboardMetrics(ctx context.Context, asOf time.Time) *dto.DashboardMetrics {
	from, to := dayWindow(asOf, s.loc)
	out := &dto.DashboardMetrics{
		Date:        from.Format("2006-01-02"),
		TodaySales:  dto.DailySales{Total: decimal.Zero},
		RecentSales: []dto.SaleResponse{},
	}

	var mu sync.Mutex
	degrade := func(section string, err error) {
		log.Error().Err(err).Str("section", section).Msg("metrics: query failed, reporting section as empty")
		mu.Lock()
		out.Degraded = append(out.Degraded, section)
		mu.Unlock()
	}

	qctx, cancel := context.WithTimeout(ctx, metricsQueryDeadline)
	defer cancel()

	// Each goroutine returns nil so one failing section never cancels the others.
	var g errgroup.Group
	g.Go(func() error {
		total, count, err := s.sales.SumCompletedBetween(qctx, from, to)
		if err != nil {
			degrade(SectionTodaySales, err)
			return nil
		}
		out.TodaySales = dto.DailySales{Total: total.Round(2), Count: count}
		return nil
	})
	g.Go(func() error {
		n, err := s.products.CountLowStock(qctx)
		if err != nil {
			degrade(SectionLowStock, err)
			return nil
		}
		out.LowStockCount = n
		return nil
	})
	g.Go(func() error {
		n, err := s.products.CountActive(qctx)
		if err != nil {
			degrade(SectionProductCount, err)
			return nil
		}
		out.TotalProductCount = n
		return nil
	})
	g.Go(func() error {
		sales, err := s.sales.ListRecent(qctx, recentSalesLimit)
		if err != nil {
			degrade(SectionRecentSales, err)
			return nil
		}
		recent := make([]dto.SaleResponse, 0, len(sales))
		for i := range sales {
			recent = append(recent, *saleToResponse(&sales[i], s.loc))
		}
		out.RecentSales = recent
		return nil
	})
	_ = g.Wait()

	sort.Strings(out.Degraded)
	return out
}
