package app

import (
	"gorm.io/gorm"

	"github.com/ampolabs/batchweigh-backend/internal/platform/logger"
	"github.com/ampolabs/batchweigh-backend/internal/services"
)

type Services struct {
	Auth      services.AuthService
	Catalog   services.CatalogService
	Structure services.StructureService
	Order     services.OrderService
	Weighing  services.WeighingService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos) Services {
	log.Info("Wiring services...")
	return Services{
		Auth: services.NewAuthService(
			db, log,
			repos.User, repos.OperatorProfile,
			cfg.JWTSecretKey, cfg.TokenTTL,
		),
		Catalog: services.NewCatalogService(
			db, log,
			repos.Product, repos.RawMaterial, repos.Scale,
			repos.Structure, repos.StructureItem,
			repos.Order, repos.OrderItem, repos.Weighing,
		),
		Structure: services.NewStructureService(
			db, log,
			repos.Product, repos.RawMaterial,
			repos.Structure, repos.StructureItem,
			repos.Order,
		),
		Order: services.NewOrderService(
			db, log,
			repos.Product,
			repos.Structure, repos.StructureItem,
			repos.Order, repos.OrderItem,
		),
		Weighing: services.NewWeighingService(
			db, log,
			repos.RawMaterial, repos.Scale,
			repos.Order, repos.OrderItem, repos.Weighing,
		),
	}
}
