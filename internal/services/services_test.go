package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalogrepo "github.com/ampolabs/batchweigh-backend/internal/data/repos/catalog"
	identityrepo "github.com/ampolabs/batchweigh-backend/internal/data/repos/identity"
	productionrepo "github.com/ampolabs/batchweigh-backend/internal/data/repos/production"
	"github.com/ampolabs/batchweigh-backend/internal/data/repos/testutil"
	types "github.com/ampolabs/batchweigh-backend/internal/domain"
)

// testEnv wires the full service stack against the integration database.
// Services manage their own transactions, so tests here create real rows and
// clean them up instead of riding a rolled-back transaction.
type testEnv struct {
	db        *gorm.DB
	auth      AuthService
	catalog   CatalogService
	structure StructureService
	order     OrderService
	weighing  WeighingService
}

func newTestEnv(tb testing.TB) *testEnv {
	tb.Helper()
	gdb := testutil.DB(tb)
	log := testutil.Logger(tb)

	userRepo := identityrepo.NewUserRepo(gdb, log)
	profileRepo := identityrepo.NewOperatorProfileRepo(gdb, log)
	productRepo := catalogrepo.NewProductRepo(gdb, log)
	rawMaterialRepo := catalogrepo.NewRawMaterialRepo(gdb, log)
	scaleRepo := catalogrepo.NewScaleRepo(gdb, log)
	structureRepo := productionrepo.NewStructureRepo(gdb, log)
	structureItemRepo := productionrepo.NewStructureItemRepo(gdb, log)
	orderRepo := productionrepo.NewOrderRepo(gdb, log)
	orderItemRepo := productionrepo.NewOrderItemRepo(gdb, log)
	weighingRepo := productionrepo.NewWeighingRepo(gdb, log)

	return &testEnv{
		db:   gdb,
		auth: NewAuthService(gdb, log, userRepo, profileRepo, "test-secret", time.Hour),
		catalog: NewCatalogService(gdb, log,
			productRepo, rawMaterialRepo, scaleRepo,
			structureRepo, structureItemRepo,
			orderRepo, orderItemRepo, weighingRepo),
		structure: NewStructureService(gdb, log,
			productRepo, rawMaterialRepo,
			structureRepo, structureItemRepo, orderRepo),
		order: NewOrderService(gdb, log,
			productRepo, structureRepo, structureItemRepo,
			orderRepo, orderItemRepo),
		weighing: NewWeighingService(gdb, log,
			rawMaterialRepo, scaleRepo,
			orderRepo, orderItemRepo, weighingRepo),
	}
}

func uniqueCode(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// orderFixture is a product with a one-material structure and a generated
// order, built through the services so generation itself is exercised.
type orderFixture struct {
	product   *types.Product
	material  *types.RawMaterial
	structure *types.Structure
	order     *types.ProductionOrder
	item      *types.OrderItem
}

func seedOrderFixture(tb testing.TB, env *testEnv, requiredG string) *orderFixture {
	tb.Helper()
	ctx := context.Background()

	product, err := env.catalog.CreateProduct(ctx, &types.Product{
		Name: "test product", Code: uniqueCode("PRD"),
	})
	if err != nil {
		tb.Fatalf("create product: %v", err)
	}
	material, err := env.catalog.CreateRawMaterial(ctx, &types.RawMaterial{
		Name: "test material", Code: uniqueCode("MAT"),
	})
	if err != nil {
		tb.Fatalf("create raw material: %v", err)
	}
	structure, err := env.structure.Create(ctx, product.ID, "batch recipe", []StructureItemInput{
		{RawMaterialID: material.ID, QtyPerBatchG: decimal.RequireFromString(requiredG)},
	})
	if err != nil {
		tb.Fatalf("create structure: %v", err)
	}
	order, err := env.order.Create(ctx, CreateOrderInput{
		Number:      uniqueCode("OP"),
		LotCode:     uniqueCode("LOT"),
		ProductID:   product.ID,
		StructureID: structure.ID,
	})
	if err != nil {
		tb.Fatalf("create order: %v", err)
	}
	if len(order.Items) != 1 {
		tb.Fatalf("expected 1 generated item, got %d", len(order.Items))
	}

	f := &orderFixture{
		product:   product,
		material:  material,
		structure: structure,
		order:     order,
		item:      &order.Items[0],
	}
	tb.Cleanup(func() { f.cleanup(env.db) })
	return f
}

func (f *orderFixture) cleanup(gdb *gorm.DB) {
	gdb.Exec(`DELETE FROM weighing WHERE order_id = ?`, f.order.ID)
	gdb.Exec(`DELETE FROM order_item WHERE order_id = ?`, f.order.ID)
	gdb.Exec(`DELETE FROM production_order WHERE id = ?`, f.order.ID)
	gdb.Exec(`DELETE FROM structure_item WHERE structure_id = ?`, f.structure.ID)
	gdb.Exec(`DELETE FROM structure WHERE id = ?`, f.structure.ID)
	gdb.Exec(`DELETE FROM product WHERE id = ?`, f.product.ID)
	gdb.Exec(`DELETE FROM raw_material WHERE id = ?`, f.material.ID)
}

func (env *testEnv) reloadItem(tb testing.TB, id uuid.UUID) *types.OrderItem {
	tb.Helper()
	var item types.OrderItem
	if err := env.db.Where("id = ?", id).First(&item).Error; err != nil {
		tb.Fatalf("reload order item: %v", err)
	}
	return &item
}

func (env *testEnv) reloadOrder(tb testing.TB, id uuid.UUID) *types.ProductionOrder {
	tb.Helper()
	var order types.ProductionOrder
	if err := env.db.Where("id = ?", id).First(&order).Error; err != nil {
		tb.Fatalf("reload order: %v", err)
	}
	return &order
}

func (env *testEnv) countWeighings(tb testing.TB, orderID uuid.UUID) int64 {
	tb.Helper()
	var count int64
	if err := env.db.Model(&types.Weighing{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		tb.Fatalf("count weighings: %v", err)
	}
	return count
}
