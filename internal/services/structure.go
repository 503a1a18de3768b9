package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalogrepo "github.com/ampolabs/batchweigh-backend/internal/data/repos/catalog"
	productionrepo "github.com/ampolabs/batchweigh-backend/internal/data/repos/production"
	types "github.com/ampolabs/batchweigh-backend/internal/domain"
	"github.com/ampolabs/batchweigh-backend/internal/pkg/apperrors"
	"github.com/ampolabs/batchweigh-backend/internal/platform/logger"
)

type StructureItemInput struct {
	RawMaterialID uuid.UUID
	QtyPerBatchG  decimal.Decimal
}

// StructureService manages bills of materials. Quantities are grams per batch.
type StructureService interface {
	Create(ctx context.Context, productID uuid.UUID, description string, items []StructureItemInput) (*types.Structure, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Structure, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*types.Structure, error)
	Update(ctx context.Context, structure *types.Structure) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddItem(ctx context.Context, structureID uuid.UUID, item StructureItemInput) (*types.StructureItem, error)
	RemoveItem(ctx context.Context, itemID uuid.UUID) error
}

type structureService struct {
	db                *gorm.DB
	log               *logger.Logger
	productRepo       catalogrepo.ProductRepo
	rawMaterialRepo   catalogrepo.RawMaterialRepo
	structureRepo     productionrepo.StructureRepo
	structureItemRepo productionrepo.StructureItemRepo
	orderRepo         productionrepo.OrderRepo
}

func NewStructureService(
	db *gorm.DB,
	log *logger.Logger,
	productRepo catalogrepo.ProductRepo,
	rawMaterialRepo catalogrepo.RawMaterialRepo,
	structureRepo productionrepo.StructureRepo,
	structureItemRepo productionrepo.StructureItemRepo,
	orderRepo productionrepo.OrderRepo,
) StructureService {
	serviceLog := log.With("service", "StructureService")
	return &structureService{
		db:                db,
		log:               serviceLog,
		productRepo:       productRepo,
		rawMaterialRepo:   rawMaterialRepo,
		structureRepo:     structureRepo,
		structureItemRepo: structureItemRepo,
		orderRepo:         orderRepo,
	}
}

func (ss *structureService) Create(ctx context.Context, productID uuid.UUID, description string, items []StructureItemInput) (*types.Structure, error) {
	description = strings.TrimSpace(description)

	products, err := ss.productRepo.GetByIDs(ctx, nil, []uuid.UUID{productID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("product %s: %w", productID, apperrors.ErrNotFound)
	}

	if err := validateStructureItems(items); err != nil {
		return nil, err
	}
	if err := ss.checkMaterialsExist(ctx, items); err != nil {
		return nil, err
	}

	structure := &types.Structure{
		ID:          uuid.New(),
		ProductID:   productID,
		Description: description,
		Active:      true,
	}

	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, cErr := ss.structureRepo.Create(ctx, tx, []*types.Structure{structure}); cErr != nil {
			return fmt.Errorf("failed to create structure: %w", cErr)
		}
		rows := make([]*types.StructureItem, 0, len(items))
		for _, in := range items {
			rows = append(rows, &types.StructureItem{
				ID:            uuid.New(),
				StructureID:   structure.ID,
				RawMaterialID: in.RawMaterialID,
				QtyPerBatchG:  in.QtyPerBatchG,
				Unit:          types.UnitGram,
			})
		}
		if _, cErr := ss.structureItemRepo.Create(ctx, tx, rows); cErr != nil {
			return fmt.Errorf("failed to create structure items: %w", cErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ss.Get(ctx, structure.ID)
}

func (ss *structureService) Get(ctx context.Context, id uuid.UUID) (*types.Structure, error) {
	structure, err := ss.structureRepo.GetWithItems(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("structure %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch structure: %w", err)
	}
	return structure, nil
}

func (ss *structureService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*types.Structure, error) {
	return ss.structureRepo.GetByProductIDs(ctx, nil, []uuid.UUID{productID})
}

func (ss *structureService) Update(ctx context.Context, structure *types.Structure) error {
	structure.Description = strings.TrimSpace(structure.Description)
	existing, err := ss.structureRepo.GetByIDs(ctx, nil, []uuid.UUID{structure.ID})
	if err != nil {
		return fmt.Errorf("failed to fetch structure: %w", err)
	}
	if len(existing) == 0 {
		return fmt.Errorf("structure %s: %w", structure.ID, apperrors.ErrNotFound)
	}
	// The product binding is immutable; orders snapshot from it.
	structure.ProductID = existing[0].ProductID
	return ss.structureRepo.Update(ctx, nil, structure)
}

func (ss *structureService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := ss.structureRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("failed to fetch structure: %w", err)
	}
	if len(existing) == 0 {
		return fmt.Errorf("structure %s: %w", id, apperrors.ErrNotFound)
	}
	orders, err := ss.orderRepo.CountByStructureIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("failed to count orders: %w", err)
	}
	if orders > 0 {
		return fmt.Errorf("structure %s: %w", id, apperrors.ErrReferenced)
	}
	return ss.structureRepo.DeleteByIDs(ctx, nil, []uuid.UUID{id})
}

func (ss *structureService) AddItem(ctx context.Context, structureID uuid.UUID, item StructureItemInput) (*types.StructureItem, error) {
	if !item.QtyPerBatchG.IsPositive() {
		return nil, fmt.Errorf("quantity per batch must be positive: %w", apperrors.ErrInvalidInput)
	}

	structures, err := ss.structureRepo.GetByIDs(ctx, nil, []uuid.UUID{structureID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch structure: %w", err)
	}
	if len(structures) == 0 {
		return nil, fmt.Errorf("structure %s: %w", structureID, apperrors.ErrNotFound)
	}
	if err := ss.checkMaterialsExist(ctx, []StructureItemInput{item}); err != nil {
		return nil, err
	}

	existing, err := ss.structureItemRepo.GetByStructureIDs(ctx, nil, []uuid.UUID{structureID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch structure items: %w", err)
	}
	for _, row := range existing {
		if row.RawMaterialID == item.RawMaterialID {
			return nil, fmt.Errorf("structure already has raw material %s: %w", item.RawMaterialID, apperrors.ErrConflict)
		}
	}

	row := &types.StructureItem{
		ID:            uuid.New(),
		StructureID:   structureID,
		RawMaterialID: item.RawMaterialID,
		QtyPerBatchG:  item.QtyPerBatchG,
		Unit:          types.UnitGram,
	}
	if _, err := ss.structureItemRepo.Create(ctx, nil, []*types.StructureItem{row}); err != nil {
		return nil, fmt.Errorf("failed to create structure item: %w", err)
	}
	return row, nil
}

func (ss *structureService) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	items, err := ss.structureItemRepo.GetByIDs(ctx, nil, []uuid.UUID{itemID})
	if err != nil {
		return fmt.Errorf("failed to fetch structure item: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("structure item %s: %w", itemID, apperrors.ErrNotFound)
	}
	return ss.structureItemRepo.DeleteByIDs(ctx, nil, []uuid.UUID{itemID})
}

func validateStructureItems(items []StructureItemInput) error {
	seen := make(map[uuid.UUID]bool, len(items))
	for _, in := range items {
		if !in.QtyPerBatchG.IsPositive() {
			return fmt.Errorf("quantity per batch must be positive: %w", apperrors.ErrInvalidInput)
		}
		if seen[in.RawMaterialID] {
			return fmt.Errorf("duplicate raw material %s: %w", in.RawMaterialID, apperrors.ErrInvalidInput)
		}
		seen[in.RawMaterialID] = true
	}
	return nil
}

func (ss *structureService) checkMaterialsExist(ctx context.Context, items []StructureItemInput) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, in := range items {
		ids = append(ids, in.RawMaterialID)
	}
	materials, err := ss.rawMaterialRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		return fmt.Errorf("failed to fetch raw materials: %w", err)
	}
	if len(materials) != len(ids) {
		return fmt.Errorf("unknown raw material in items: %w", apperrors.ErrNotFound)
	}
	return nil
}
