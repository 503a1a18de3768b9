package app

import (
	"gorm.io/gorm"

	catalogrepo "github.com/ampolabs/batchweigh-backend/internal/data/repos/catalog"
	identityrepo "github.com/ampolabs/batchweigh-backend/internal/data/repos/identity"
	productionrepo "github.com/ampolabs/batchweigh-backend/internal/data/repos/production"
	"github.com/ampolabs/batchweigh-backend/internal/platform/logger"
)

type Repos struct {
	User            identityrepo.UserRepo
	OperatorProfile identityrepo.OperatorProfileRepo

	Product     catalogrepo.ProductRepo
	RawMaterial catalogrepo.RawMaterialRepo
	Scale       catalogrepo.ScaleRepo

	Structure     productionrepo.StructureRepo
	StructureItem productionrepo.StructureItemRepo
	Order         productionrepo.OrderRepo
	OrderItem     productionrepo.OrderItemRepo
	Weighing      productionrepo.WeighingRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:            identityrepo.NewUserRepo(db, log),
		OperatorProfile: identityrepo.NewOperatorProfileRepo(db, log),

		Product:     catalogrepo.NewProductRepo(db, log),
		RawMaterial: catalogrepo.NewRawMaterialRepo(db, log),
		Scale:       catalogrepo.NewScaleRepo(db, log),

		Structure:     productionrepo.NewStructureRepo(db, log),
		StructureItem: productionrepo.NewStructureItemRepo(db, log),
		Order:         productionrepo.NewOrderRepo(db, log),
		OrderItem:     productionrepo.NewOrderItemRepo(db, log),
		Weighing:      productionrepo.NewWeighingRepo(db, log),
	}
}
