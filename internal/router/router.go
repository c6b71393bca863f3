package router

import (
	"time"

	"github.com/Guru6163/hotspot-sarees/internal/config"
	"github.com/Guru6163/hotspot-sarees/internal/handler"
	"github.com/Guru6163/hotspot-sarees/internal/middleware"
	"github.com/Guru6163/hotspot-sarees/internal/repository"
	"github.com/Guru6163/hotspot-sarees/internal/service"
	"github.com/Guru6163/hotspot-sarees/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	stockRepo := repository.NewStockRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	transportRepo := repository.NewTransportRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	stockSvc := service.NewStockService(stockRepo, rdb)
	purchaseSvc := service.NewPurchaseService(
		purchaseRepo,
		stockRepo,
		dispatcher,
		time.Duration(cfg.PurchaseTimeoutSeconds)*time.Second,
		cfg.InvoiceRetryAttempts,
	)
	transportSvc := service.NewTransportService(transportRepo)
	dashboardSvc := service.NewDashboardService(dashboardRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	stockH := handler.NewStockHandler(stockSvc)
	purchasesH := handler.NewPurchasesHandler(purchaseSvc)
	transportH := handler.NewTransportHandler(transportSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	api := r.Group("/api")
	{
		api.POST("/purchases", purchasesH.CompletePurchase)
		api.GET("/purchases", purchasesH.List)
		api.GET("/purchases/:id", purchasesH.GetByID)

		api.GET("/stocks", stockH.List)
		api.POST("/stocks", stockH.Create)
		api.GET("/stocks/code/:code", stockH.GetByCode)
		api.GET("/stocks/:id", stockH.GetByID)
		api.PUT("/stocks/:id", stockH.Update)
		api.PATCH("/stocks/:id/quantity", stockH.AdjustQuantity)
		api.DELETE("/stocks/:id", stockH.Delete)

		api.POST("/transport", transportH.Create)
		api.GET("/transport", transportH.List)
		api.GET("/transport/summary", transportH.Summary)

		api.GET("/dashboard/summary", dashboardH.Summary)
	}

	return r
}
