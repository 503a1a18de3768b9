package production

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ampolabs/batchweigh-backend/internal/data/repos/testutil"
)

func mustTime(tb testing.TB, value string) time.Time {
	tb.Helper()
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		tb.Fatalf("parse time: %v", err)
	}
	return t
}

func TestOrderItemAddWeighedIsRelative(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()

	product := testutil.SeedProduct(t, ctx, tx, "PRD-ADDW")
	material := testutil.SeedRawMaterial(t, ctx, tx, "MAT-ADDW")
	structure := testutil.SeedStructure(t, ctx, tx, product.ID, "recipe")
	order := testutil.SeedOrder(t, ctx, tx, product.ID, structure.ID, "OP-ADDW", "LOT-ADDW")
	item := testutil.SeedOrderItem(t, ctx, tx, order.ID, material.ID, "100")

	repo := NewOrderItemRepo(gdb, log)

	if err := repo.AddWeighed(ctx, tx, item.ID, decimal.RequireFromString("30.5")); err != nil {
		t.Fatalf("add weighed: %v", err)
	}
	if err := repo.AddWeighed(ctx, tx, item.ID, decimal.RequireFromString("0.25")); err != nil {
		t.Fatalf("add weighed: %v", err)
	}

	got, err := repo.GetForUpdate(ctx, tx, item.ID)
	if err != nil {
		t.Fatalf("get for update: %v", err)
	}
	if !got.WeighedQtyG.Equal(decimal.RequireFromString("30.75")) {
		t.Fatalf("accumulator = %s, want 30.75", got.WeighedQtyG)
	}
	if !got.RemainingG().Equal(decimal.RequireFromString("69.25")) {
		t.Fatalf("remaining = %s, want 69.25", got.RemainingG())
	}
}

func TestCountPendingByOrderIDUsesFloor(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()

	product := testutil.SeedProduct(t, ctx, tx, "PRD-PEND")
	matA := testutil.SeedRawMaterial(t, ctx, tx, "MAT-PEND-A")
	matB := testutil.SeedRawMaterial(t, ctx, tx, "MAT-PEND-B")
	structure := testutil.SeedStructure(t, ctx, tx, product.ID, "recipe")
	order := testutil.SeedOrder(t, ctx, tx, product.ID, structure.ID, "OP-PEND", "LOT-PEND")
	itemA := testutil.SeedOrderItem(t, ctx, tx, order.ID, matA.ID, "100")
	testutil.SeedOrderItem(t, ctx, tx, order.ID, matB.ID, "100")

	repo := NewOrderItemRepo(gdb, log)
	floor := decimal.RequireFromString("0.95")

	pending, err := repo.CountPendingByOrderID(ctx, tx, order.ID, floor)
	if err != nil {
		t.Fatalf("count pending: %v", err)
	}
	if pending != 2 {
		t.Fatalf("pending = %d, want 2", pending)
	}

	// 95 is exactly the floor: satisfied. 94.999 is not.
	if err := repo.AddWeighed(ctx, tx, itemA.ID, decimal.RequireFromString("95")); err != nil {
		t.Fatalf("add weighed: %v", err)
	}
	pending, err = repo.CountPendingByOrderID(ctx, tx, order.ID, floor)
	if err != nil {
		t.Fatalf("count pending: %v", err)
	}
	if pending != 1 {
		t.Fatalf("pending = %d, want 1", pending)
	}
}

func TestBalanceByOrderID(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()

	product := testutil.SeedProduct(t, ctx, tx, "PRD-BAL")
	matA := testutil.SeedRawMaterial(t, ctx, tx, "MAT-BAL-A")
	matB := testutil.SeedRawMaterial(t, ctx, tx, "MAT-BAL-B")
	structure := testutil.SeedStructure(t, ctx, tx, product.ID, "recipe")
	order := testutil.SeedOrder(t, ctx, tx, product.ID, structure.ID, "OP-BAL", "LOT-BAL")
	itemA := testutil.SeedOrderItem(t, ctx, tx, order.ID, matA.ID, "150")
	testutil.SeedOrderItem(t, ctx, tx, order.ID, matB.ID, "50")

	repo := NewOrderItemRepo(gdb, log)
	if err := repo.AddWeighed(ctx, tx, itemA.ID, decimal.RequireFromString("40")); err != nil {
		t.Fatalf("add weighed: %v", err)
	}

	balance, err := repo.BalanceByOrderID(ctx, tx, order.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if len(balance) != 2 {
		t.Fatalf("rows = %d, want 2", len(balance))
	}

	// Ordered by raw material code.
	if balance[0].RawMaterialID != matA.ID || balance[1].RawMaterialID != matB.ID {
		t.Fatalf("unexpected ordering: %s, %s", balance[0].RawMaterialID, balance[1].RawMaterialID)
	}
	if !balance[0].WeighedG.Equal(decimal.RequireFromString("40")) ||
		!balance[0].RemainingG.Equal(decimal.RequireFromString("110")) {
		t.Fatalf("row A = weighed %s remaining %s", balance[0].WeighedG, balance[0].RemainingG)
	}
	if !balance[1].WeighedG.IsZero() ||
		!balance[1].RemainingG.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("row B = weighed %s remaining %s", balance[1].WeighedG, balance[1].RemainingG)
	}
}

func TestOrderCompleteKeepsFirstTimestamp(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()

	product := testutil.SeedProduct(t, ctx, tx, "PRD-DONE")
	structure := testutil.SeedStructure(t, ctx, tx, product.ID, "recipe")
	order := testutil.SeedOrder(t, ctx, tx, product.ID, structure.ID, "OP-DONE", "LOT-DONE")

	repo := NewOrderRepo(gdb, log)

	first := mustTime(t, "2026-08-30T10:00:00Z")
	if err := repo.Complete(ctx, tx, order.ID, first); err != nil {
		t.Fatalf("complete: %v", err)
	}
	later := mustTime(t, "2026-08-30T11:00:00Z")
	if err := repo.Complete(ctx, tx, order.ID, later); err != nil {
		t.Fatalf("re-complete: %v", err)
	}

	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{order.ID})
	if err != nil || len(got) != 1 {
		t.Fatalf("get order: %v", err)
	}
	if got[0].CompletedAt == nil || !got[0].CompletedAt.Equal(first) {
		t.Fatalf("completed_at = %v, want %v", got[0].CompletedAt, first)
	}
}
