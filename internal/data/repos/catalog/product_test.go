package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/ampolabs/batchweigh-backend/internal/data/repos/testutil"
	types "github.com/ampolabs/batchweigh-backend/internal/domain"
)

func TestProductRepoRoundTrip(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()

	repo := NewProductRepo(gdb, log)

	created, err := repo.Create(ctx, tx, []*types.Product{
		{ID: uuid.New(), Name: "flour mix", Code: "PRD-RT-1", Active: true},
		{ID: uuid.New(), Name: "retired mix", Code: "PRD-RT-2", Active: false},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	byCode, err := repo.GetByCodes(ctx, tx, []string{"PRD-RT-1"})
	if err != nil {
		t.Fatalf("get by codes: %v", err)
	}
	if len(byCode) != 1 || byCode[0].ID != created[0].ID {
		t.Fatalf("get by codes = %+v", byCode)
	}

	active, err := repo.List(ctx, tx, true)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	for _, p := range active {
		if !p.Active {
			t.Fatalf("inactive product %s in active list", p.Code)
		}
	}

	created[0].Name = "flour mix v2"
	if err := repo.Update(ctx, tx, created[0]); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{created[0].ID})
	if err != nil || len(got) != 1 {
		t.Fatalf("get by ids: %v", err)
	}
	if got[0].Name != "flour mix v2" {
		t.Fatalf("name = %q after update", got[0].Name)
	}

	if err := repo.DeleteByIDs(ctx, tx, []uuid.UUID{created[1].ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	gone, err := repo.GetByIDs(ctx, tx, []uuid.UUID{created[1].ID})
	if err != nil {
		t.Fatalf("get deleted: %v", err)
	}
	if len(gone) != 0 {
		t.Fatal("deleted product still present")
	}
}
