package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	types "github.com/ampolabs/batchweigh-backend/internal/domain"
	"github.com/ampolabs/batchweigh-backend/internal/pkg/apperrors"
)

func TestCreateOrderGeneratesItemsFromStructure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product, err := env.catalog.CreateProduct(ctx, &types.Product{Name: "p", Code: uniqueCode("PRD")})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	matA, err := env.catalog.CreateRawMaterial(ctx, &types.RawMaterial{Name: "a", Code: uniqueCode("MAT")})
	if err != nil {
		t.Fatalf("create material: %v", err)
	}
	matB, err := env.catalog.CreateRawMaterial(ctx, &types.RawMaterial{Name: "b", Code: uniqueCode("MAT")})
	if err != nil {
		t.Fatalf("create material: %v", err)
	}
	structure, err := env.structure.Create(ctx, product.ID, "two materials", []StructureItemInput{
		{RawMaterialID: matA.ID, QtyPerBatchG: decimal.RequireFromString("120.5")},
		{RawMaterialID: matB.ID, QtyPerBatchG: decimal.RequireFromString("79.5")},
	})
	if err != nil {
		t.Fatalf("create structure: %v", err)
	}
	order, err := env.order.Create(ctx, CreateOrderInput{
		Number:      uniqueCode("OP"),
		LotCode:     uniqueCode("LOT"),
		ProductID:   product.ID,
		StructureID: structure.ID,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	t.Cleanup(func() {
		env.db.Exec(`DELETE FROM order_item WHERE order_id = ?`, order.ID)
		env.db.Exec(`DELETE FROM production_order WHERE id = ?`, order.ID)
		env.db.Exec(`DELETE FROM structure_item WHERE structure_id = ?`, structure.ID)
		env.db.Exec(`DELETE FROM structure WHERE id = ?`, structure.ID)
		env.db.Exec(`DELETE FROM product WHERE id = ?`, product.ID)
		env.db.Exec(`DELETE FROM raw_material WHERE id = ?`, matA.ID)
		env.db.Exec(`DELETE FROM raw_material WHERE id = ?`, matB.ID)
	})

	if order.Status != types.OrderOpen {
		t.Fatalf("status = %s, want open", order.Status)
	}
	if len(order.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(order.Items))
	}

	// Required totals must mirror the structure exactly.
	sum := decimal.Zero
	for _, it := range order.Items {
		if !it.WeighedQtyG.IsZero() {
			t.Fatalf("fresh item accumulator = %s, want 0", it.WeighedQtyG)
		}
		sum = sum.Add(it.RequiredQtyG)
	}
	if !sum.Equal(decimal.RequireFromString("200")) {
		t.Fatalf("required sum = %s g, want 200", sum)
	}
}

func TestCreateOrderStructureMismatch(t *testing.T) {
	env := newTestEnv(t)
	f := seedOrderFixture(t, env, "100")
	ctx := context.Background()

	other, err := env.catalog.CreateProduct(ctx, &types.Product{Name: "other", Code: uniqueCode("PRD")})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	t.Cleanup(func() { env.db.Exec(`DELETE FROM product WHERE id = ?`, other.ID) })

	_, err = env.order.Create(ctx, CreateOrderInput{
		Number:      uniqueCode("OP"),
		LotCode:     uniqueCode("LOT"),
		ProductID:   other.ID,
		StructureID: f.structure.ID,
	})
	if !errors.Is(err, apperrors.ErrIncoherentReference) {
		t.Fatalf("expected incoherent reference, got %v", err)
	}
}

func TestGenerateItemsRequiresForce(t *testing.T) {
	env := newTestEnv(t)
	f := seedOrderFixture(t, env, "100")
	ctx := context.Background()

	_, err := env.order.GenerateItems(ctx, f.order.ID, false)
	if !errors.Is(err, apperrors.ErrAlreadyGenerated) {
		t.Fatalf("expected already generated, got %v", err)
	}

	// Progress survives the refused call.
	if _, err := env.weighing.Record(ctx, WeighingInput{
		OrderID: f.order.ID, ItemID: f.item.ID, Operator: "maria",
		NetKg: decimal.RequireFromString("0.05"),
	}); err != nil {
		t.Fatalf("record weighing: %v", err)
	}

	status, err := env.order.GenerateItems(ctx, f.order.ID, true)
	if err != nil {
		t.Fatalf("forced regeneration: %v", err)
	}
	if status != types.OrderOpen {
		t.Fatalf("status = %s, want open", status)
	}

	order, err := env.order.Get(ctx, f.order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if len(order.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(order.Items))
	}
	if !order.Items[0].WeighedQtyG.IsZero() {
		t.Fatalf("regenerated accumulator = %s, want 0", order.Items[0].WeighedQtyG)
	}
}

func TestGenerateItemsEmptyStructureCancels(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product, err := env.catalog.CreateProduct(ctx, &types.Product{Name: "p", Code: uniqueCode("PRD")})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	structure, err := env.structure.Create(ctx, product.ID, "empty", nil)
	if err != nil {
		t.Fatalf("create structure: %v", err)
	}
	order, err := env.order.Create(ctx, CreateOrderInput{
		Number:      uniqueCode("OP"),
		LotCode:     uniqueCode("LOT"),
		ProductID:   product.ID,
		StructureID: structure.ID,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	t.Cleanup(func() {
		env.db.Exec(`DELETE FROM production_order WHERE id = ?`, order.ID)
		env.db.Exec(`DELETE FROM structure WHERE id = ?`, structure.ID)
		env.db.Exec(`DELETE FROM product WHERE id = ?`, product.ID)
	})

	if order.Status != types.OrderCancelled {
		t.Fatalf("status = %s, want cancelled", order.Status)
	}

	// Evaluation never moves a cancelled order.
	status, _, err := env.order.EvaluateCompletion(ctx, order.ID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if status != types.OrderCancelled {
		t.Fatalf("evaluated status = %s, want cancelled", status)
	}
}

func TestEvaluateCompletionIdempotentTimestamp(t *testing.T) {
	env := newTestEnv(t)
	f := seedOrderFixture(t, env, "100")
	ctx := context.Background()

	if _, err := env.weighing.Record(ctx, WeighingInput{
		OrderID: f.order.ID, ItemID: f.item.ID, Operator: "maria",
		NetKg: decimal.RequireFromString("0.1"),
	}); err != nil {
		t.Fatalf("record weighing: %v", err)
	}

	first := env.reloadOrder(t, f.order.ID)
	if first.Status != types.OrderCompleted || first.CompletedAt == nil {
		t.Fatalf("order not completed after full weighing: %+v", first.Status)
	}

	status, completedAt, err := env.order.EvaluateCompletion(ctx, f.order.ID)
	if err != nil {
		t.Fatalf("re-evaluate: %v", err)
	}
	if status != types.OrderCompleted {
		t.Fatalf("status = %s, want completed", status)
	}
	if completedAt == nil || !completedAt.Equal(*first.CompletedAt) {
		t.Fatalf("completed_at moved: %v -> %v", first.CompletedAt, completedAt)
	}
}

func TestOrderBalance(t *testing.T) {
	env := newTestEnv(t)
	f := seedOrderFixture(t, env, "100")
	ctx := context.Background()

	if _, err := env.weighing.Record(ctx, WeighingInput{
		OrderID: f.order.ID, ItemID: f.item.ID, Operator: "maria",
		NetKg: decimal.RequireFromString("0.03"),
	}); err != nil {
		t.Fatalf("record weighing: %v", err)
	}

	balance, err := env.order.Balance(ctx, f.order.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if len(balance) != 1 {
		t.Fatalf("balance rows = %d, want 1", len(balance))
	}
	row := balance[0]
	if row.RawMaterialID != f.material.ID {
		t.Fatalf("balance material = %s, want %s", row.RawMaterialID, f.material.ID)
	}
	if !row.RequiredG.Equal(decimal.RequireFromString("100")) ||
		!row.WeighedG.Equal(decimal.RequireFromString("30")) ||
		!row.RemainingG.Equal(decimal.RequireFromString("70")) {
		t.Fatalf("balance = required %s / weighed %s / remaining %s", row.RequiredG, row.WeighedG, row.RemainingG)
	}
}
