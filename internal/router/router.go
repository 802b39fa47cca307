package router

import (
	"github.com/RozhkovN/inventory-api/internal/config"
	"github.com/RozhkovN/inventory-api/internal/handler"
	"github.com/RozhkovN/inventory-api/internal/middleware"
	"github.com/RozhkovN/inventory-api/internal/repository"
	"github.com/RozhkovN/inventory-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
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

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	opRepo := repository.NewStockOperationRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	productSvc := service.NewProductService(productRepo, opRepo, rdb)
	stockSvc := service.NewStockService(opRepo, productRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, opRepo)
	importSvc := service.NewImportService(productRepo, opRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productsH := handler.NewProductsHandler(productSvc)
	stockH := handler.NewStockHistoryHandler(stockSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	importH := handler.NewImportHandler(importSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	api := r.Group("/api")
	{
		api.GET("/products", productsH.Search)
		api.GET("/products/all", productsH.All)
		api.POST("/products", productsH.Create)
		api.PUT("/products/:id", productsH.Update)
		api.DELETE("/products/:id", productsH.Delete)

		api.GET("/stock-history", stockH.List)

		api.POST("/sales", salesH.Create)
		api.GET("/sales", salesH.List)
		api.PUT("/sales/:id/status", salesH.UpdateStatus)
		api.DELETE("/sales/:id", salesH.Delete)

		api.POST("/import/warehouse", importH.Warehouse)
	}

	return r
}
