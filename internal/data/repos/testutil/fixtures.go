package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/ampolabs/batchweigh-backend/internal/domain"
)

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, code string) *types.Product {
	tb.Helper()
	p := &types.Product{
		ID:     uuid.New(),
		Name:   "product " + code,
		Code:   code,
		Active: true,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

func SeedRawMaterial(tb testing.TB, ctx context.Context, tx *gorm.DB, code string) *types.RawMaterial {
	tb.Helper()
	m := &types.RawMaterial{
		ID:     uuid.New(),
		Name:   "material " + code,
		Code:   code,
		Active: true,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed raw material: %v", err)
	}
	return m
}

func SeedScale(tb testing.TB, ctx context.Context, tx *gorm.DB, identifier string) *types.Scale {
	tb.Helper()
	s := &types.Scale{
		ID:             uuid.New(),
		Name:           "scale " + identifier,
		Identifier:     identifier,
		ConnectionType: "ethernet",
		Active:         true,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed scale: %v", err)
	}
	return s
}

func SeedStructure(tb testing.TB, ctx context.Context, tx *gorm.DB, productID uuid.UUID, description string) *types.Structure {
	tb.Helper()
	s := &types.Structure{
		ID:          uuid.New(),
		ProductID:   productID,
		Description: description,
		Active:      true,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed structure: %v", err)
	}
	return s
}

func SeedStructureItem(tb testing.TB, ctx context.Context, tx *gorm.DB, structureID, materialID uuid.UUID, qtyG string) *types.StructureItem {
	tb.Helper()
	it := &types.StructureItem{
		ID:            uuid.New(),
		StructureID:   structureID,
		RawMaterialID: materialID,
		QtyPerBatchG:  decimal.RequireFromString(qtyG),
		Unit:          types.UnitGram,
	}
	if err := tx.WithContext(ctx).Create(it).Error; err != nil {
		tb.Fatalf("seed structure item: %v", err)
	}
	return it
}

func SeedOrder(tb testing.TB, ctx context.Context, tx *gorm.DB, productID, structureID uuid.UUID, number, lot string) *types.ProductionOrder {
	tb.Helper()
	o := &types.ProductionOrder{
		ID:          uuid.New(),
		Number:      number,
		LotCode:     lot,
		ProductID:   productID,
		StructureID: structureID,
		Status:      types.OrderOpen,
	}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed order: %v", err)
	}
	return o
}

func SeedOrderItem(tb testing.TB, ctx context.Context, tx *gorm.DB, orderID, materialID uuid.UUID, requiredG string) *types.OrderItem {
	tb.Helper()
	it := &types.OrderItem{
		ID:            uuid.New(),
		OrderID:       orderID,
		RawMaterialID: materialID,
		RequiredQtyG:  decimal.RequireFromString(requiredG),
		WeighedQtyG:   decimal.Zero,
		Unit:          types.UnitGram,
	}
	if err := tx.WithContext(ctx).Create(it).Error; err != nil {
		tb.Fatalf("seed order item: %v", err)
	}
	return it
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "pw",
		Name:         "A B",
		Role:         types.RoleOperator,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }
