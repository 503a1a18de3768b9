package production

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ampolabs/batchweigh-backend/internal/data/repos/testutil"
	types "github.com/ampolabs/batchweigh-backend/internal/domain"
)

func TestWeighingListNewestFirst(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()

	product := testutil.SeedProduct(t, ctx, tx, "PRD-WLIST")
	material := testutil.SeedRawMaterial(t, ctx, tx, "MAT-WLIST")
	structure := testutil.SeedStructure(t, ctx, tx, product.ID, "recipe")
	order := testutil.SeedOrder(t, ctx, tx, product.ID, structure.ID, "OP-WLIST", "LOT-WLIST")
	item := testutil.SeedOrderItem(t, ctx, tx, order.ID, material.ID, "500")

	repo := NewWeighingRepo(gdb, log)

	for i, net := range []string{"100", "200", "150"} {
		w := &types.Weighing{
			OrderID:  order.ID,
			ItemID:   item.ID,
			Operator: "maria",
			BrutoKg:  decimal.RequireFromString("1"),
			TaraKg:   decimal.RequireFromString("0.5"),
			LiquidoG: decimal.RequireFromString(net),
			LotTag:   "L1",
		}
		if _, err := repo.Create(ctx, tx, []*types.Weighing{w}); err != nil {
			t.Fatalf("create weighing %d: %v", i, err)
		}
	}

	byItem, err := repo.GetByItemIDs(ctx, tx, []uuid.UUID{item.ID})
	if err != nil {
		t.Fatalf("get by item: %v", err)
	}
	if len(byItem) != 3 {
		t.Fatalf("rows = %d, want 3", len(byItem))
	}
	for i := 1; i < len(byItem); i++ {
		if byItem[i].CreatedAt.After(byItem[i-1].CreatedAt) {
			t.Fatal("weighings not ordered newest first")
		}
	}

	count, err := repo.CountByItemIDs(ctx, tx, []uuid.UUID{item.ID})
	if err != nil {
		t.Fatalf("count by item: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}
