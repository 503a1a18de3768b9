package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ampolabs/batchweigh-backend/internal/pkg/apperrors"
)

func TestDeleteProtectionForReferencedRecords(t *testing.T) {
	env := newTestEnv(t)
	f := seedOrderFixture(t, env, "100")
	ctx := context.Background()

	if err := env.catalog.DeleteProduct(ctx, f.product.ID); !errors.Is(err, apperrors.ErrReferenced) {
		t.Fatalf("delete referenced product: expected referenced, got %v", err)
	}
	if err := env.catalog.DeleteRawMaterial(ctx, f.material.ID); !errors.Is(err, apperrors.ErrReferenced) {
		t.Fatalf("delete referenced material: expected referenced, got %v", err)
	}
	if err := env.structure.Delete(ctx, f.structure.ID); !errors.Is(err, apperrors.ErrReferenced) {
		t.Fatalf("delete bound structure: expected referenced, got %v", err)
	}

	// Deactivation is the supported retirement path.
	f.product.Active = false
	if err := env.catalog.UpdateProduct(ctx, f.product); err != nil {
		t.Fatalf("deactivate product: %v", err)
	}
}

func TestStructureItemRules(t *testing.T) {
	env := newTestEnv(t)
	f := seedOrderFixture(t, env, "100")
	ctx := context.Background()

	// One line per raw material.
	_, err := env.structure.AddItem(ctx, f.structure.ID, StructureItemInput{
		RawMaterialID: f.material.ID,
		QtyPerBatchG:  decimal.RequireFromString("50"),
	})
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("duplicate material: expected conflict, got %v", err)
	}

	_, err = env.structure.AddItem(ctx, f.structure.ID, StructureItemInput{
		RawMaterialID: f.material.ID,
		QtyPerBatchG:  decimal.Zero,
	})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("zero quantity: expected invalid input, got %v", err)
	}
}
