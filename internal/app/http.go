package app

import (
	"github.com/gin-gonic/gin"

	apphttp "github.com/ampolabs/batchweigh-backend/internal/http"
	httpH "github.com/ampolabs/batchweigh-backend/internal/http/handlers"
	httpMW "github.com/ampolabs/batchweigh-backend/internal/http/middleware"
	"github.com/ampolabs/batchweigh-backend/internal/platform/logger"
)

type Handlers struct {
	Health *httpH.HealthHandler
	Auth   *httpH.AuthHandler

	Product     *httpH.ProductHandler
	RawMaterial *httpH.RawMaterialHandler
	Scale       *httpH.ScaleHandler
	Structure   *httpH.StructureHandler
	Order       *httpH.OrderHandler
	Weighing    *httpH.WeighingHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(),
		Auth:   httpH.NewAuthHandler(services.Auth),

		Product:     httpH.NewProductHandler(services.Catalog),
		RawMaterial: httpH.NewRawMaterialHandler(services.Catalog),
		Scale:       httpH.NewScaleHandler(services.Catalog),
		Structure:   httpH.NewStructureHandler(services.Structure),
		Order:       httpH.NewOrderHandler(services.Order),
		Weighing:    httpH.NewWeighingHandler(services.Weighing),
	}
}

func wireMiddleware(log *logger.Logger, services Services) *httpMW.AuthMiddleware {
	return httpMW.NewAuthMiddleware(log, services.Auth)
}

func wireRouter(log *logger.Logger, handlers Handlers, authMW *httpMW.AuthMiddleware) *gin.Engine {
	log.Info("Wiring router...")
	return apphttp.NewRouter(apphttp.RouterConfig{
		Log: log,

		AuthHandler:    handlers.Auth,
		AuthMiddleware: authMW,

		ProductHandler:     handlers.Product,
		RawMaterialHandler: handlers.RawMaterial,
		ScaleHandler:       handlers.Scale,
		StructureHandler:   handlers.Structure,
		OrderHandler:       handlers.Order,
		WeighingHandler:    handlers.Weighing,

		HealthHandler: handlers.Health,
	})
}
