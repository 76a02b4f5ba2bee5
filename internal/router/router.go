package router

import (
	_ "github.com/saadmalik-333/business-insight-pos/docs" // registers the OpenAPI document
	"github.com/saadmalik-333/business-insight-pos/internal/config"
	"github.com/saadmalik-333/business-insight-pos/internal/handler"
	"github.com/saadmalik-333/business-insight-pos/internal/infra"
	"github.com/saadmalik-333/business-insight-pos/internal/middleware"
	"github.com/saadmalik-333/business-insight-pos/internal/model"
	"github.com/saadmalik-333/business-insight-pos/internal/repository"
	"github.com/saadmalik-333/business-insight-pos/internal/service"
	"github.com/saadmalik-333/business-insight-pos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, error) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	rateLimit, err := middleware.RateLimiter(cfg.RateLimit, rdb)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Env, cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(rateLimit)

	loc := cfg.Location()

	// ── Infrastructure ───────────────────────────────────────────────────────
	priceCache := infra.NewPriceCache(rdb)
	eventBus := worker.NewEventBus(rdb)
	dispatcher := worker.NewDispatcher(rdb, loc)

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	ledger := service.NewStockLedger(productRepo, movementRepo)
	numbers := service.NewSaleNumberGenerator(saleRepo, loc)
	saleSvc := service.NewSaleService(saleRepo, productRepo, ledger, numbers, eventBus, dispatcher, priceCache,
		service.SaleSettings{TaxRate: cfg.TaxRateDecimal(), Location: loc})
	metricsSvc := service.NewMetricsService(saleRepo, productRepo, loc)
	catalogSvc := service.NewCatalogService(productRepo, categoryRepo, movementRepo, priceCache, loc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	salesH := handler.NewSalesHandler(saleSvc)
	dashboardH := handler.NewDashboardHandler(metricsSvc, loc)
	productsH := handler.NewProductsHandler(catalogSvc)
	eventsH := handler.NewEventsHandler(eventBus)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(handler.DatabaseCheck(db), handler.RedisCheck(rdb)))
	r.GET("/v1/price/:sku", productsH.PriceCheck)

	// Protected routes
	anyStaff := middleware.RequireRole(model.RoleCashier, model.RoleAdmin)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		sales := v1.Group("/sales")
		{
			sales.POST("", anyStaff, salesH.RecordSale)
			sales.GET("", anyStaff, salesH.ListSales)
			sales.GET("/:id", anyStaff, salesH.GetSale)
			sales.POST("/:id/void", adminOnly, salesH.VoidSale)
		}

		v1.GET("/dashboard/metrics", anyStaff, dashboardH.Metrics)

		v1.GET("/products", anyStaff, productsH.List)
		v1.GET("/products/low-stock", anyStaff, productsH.LowStock)
		v1.GET("/products/:id", anyStaff, productsH.Get)
		v1.GET("/inventory/summary", adminOnly, productsH.InventorySummary)
		v1.GET("/inventory/movements", adminOnly, productsH.Movements)
		v1.GET("/categories", anyStaff, productsH.Categories)

		v1.GET("/events", anyStaff, eventsH.Stream)
	}

	// Swagger UI: only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	log.Debug().Int("routes", len(r.Routes())).Msg("router ready")
	return r, nil
}
