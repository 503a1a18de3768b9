package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/ampolabs/batchweigh-backend/internal/http/handlers"
	httpMW "github.com/ampolabs/batchweigh-backend/internal/http/middleware"
	"github.com/ampolabs/batchweigh-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	ProductHandler     *httpH.ProductHandler
	RawMaterialHandler *httpH.RawMaterialHandler
	ScaleHandler       *httpH.ScaleHandler
	StructureHandler   *httpH.StructureHandler
	OrderHandler       *httpH.OrderHandler
	WeighingHandler    *httpH.WeighingHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Catalog
		if cfg.ProductHandler != nil {
			protected.POST("/products", cfg.ProductHandler.Create)
			protected.GET("/products", cfg.ProductHandler.List)
			protected.GET("/products/:id", cfg.ProductHandler.Get)
			protected.PUT("/products/:id", cfg.ProductHandler.Update)
			protected.DELETE("/products/:id", cfg.ProductHandler.Delete)
		}

		if cfg.RawMaterialHandler != nil {
			protected.POST("/raw-materials", cfg.RawMaterialHandler.Create)
			protected.GET("/raw-materials", cfg.RawMaterialHandler.List)
			protected.GET("/raw-materials/:id", cfg.RawMaterialHandler.Get)
			protected.PUT("/raw-materials/:id", cfg.RawMaterialHandler.Update)
			protected.DELETE("/raw-materials/:id", cfg.RawMaterialHandler.Delete)
		}

		if cfg.ScaleHandler != nil {
			protected.POST("/scales", cfg.ScaleHandler.Create)
			protected.GET("/scales", cfg.ScaleHandler.List)
			protected.GET("/scales/:id", cfg.ScaleHandler.Get)
			protected.PUT("/scales/:id", cfg.ScaleHandler.Update)
			protected.DELETE("/scales/:id", cfg.ScaleHandler.Delete)
		}

		// Structures (bill of materials)
		if cfg.StructureHandler != nil {
			protected.POST("/structures", cfg.StructureHandler.Create)
			protected.GET("/structures/:id", cfg.StructureHandler.Get)
			protected.PUT("/structures/:id", cfg.StructureHandler.Update)
			protected.DELETE("/structures/:id", cfg.StructureHandler.Delete)
			protected.GET("/products/:id/structures", cfg.StructureHandler.ListByProduct)
			protected.POST("/structures/:id/items", cfg.StructureHandler.AddItem)
			protected.DELETE("/structures/:id/items/:itemId", cfg.StructureHandler.RemoveItem)
		}

		// Orders
		if cfg.OrderHandler != nil {
			protected.POST("/orders", cfg.OrderHandler.Create)
			protected.GET("/orders", cfg.OrderHandler.List)
			protected.GET("/orders/:id", cfg.OrderHandler.Get)
			protected.POST("/orders/:id/generate-items", cfg.OrderHandler.GenerateItems)
			protected.POST("/orders/:id/evaluate", cfg.OrderHandler.Evaluate)
			protected.GET("/orders/:id/balance", cfg.OrderHandler.Balance)
		}

		// Weighings
		if cfg.WeighingHandler != nil {
			protected.POST("/weighings", cfg.WeighingHandler.Record)
			protected.GET("/orders/:id/weighings", cfg.WeighingHandler.ListByOrder)
			protected.GET("/order-items/:id/weighings", cfg.WeighingHandler.ListByItem)
		}
	}

	return r
}
