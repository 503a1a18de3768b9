package production

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ampolabs/batchweigh-backend/internal/domain"
	"github.com/ampolabs/batchweigh-backend/internal/platform/logger"
)

type StructureItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, items []*types.StructureItem) ([]*types.StructureItem, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.StructureItem, error)
	GetByStructureIDs(ctx context.Context, tx *gorm.DB, structureIDs []uuid.UUID) ([]*types.StructureItem, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	CountByRawMaterialIDs(ctx context.Context, tx *gorm.DB, materialIDs []uuid.UUID) (int64, error)
}

type structureItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStructureItemRepo(db *gorm.DB, baseLog *logger.Logger) StructureItemRepo {
	repoLog := baseLog.With("repo", "StructureItemRepo")
	return &structureItemRepo{db: db, log: repoLog}
}

func (r *structureItemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.StructureItem) ([]*types.StructureItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(items) == 0 {
		return []*types.StructureItem{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *structureItemRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.StructureItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StructureItem
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *structureItemRepo) GetByStructureIDs(ctx context.Context, tx *gorm.DB, structureIDs []uuid.UUID) ([]*types.StructureItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StructureItem
	if len(structureIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("RawMaterial").
		Where("structure_id IN ?", structureIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *structureItemRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.StructureItem{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *structureItemRepo) CountByRawMaterialIDs(ctx context.Context, tx *gorm.DB, materialIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if len(materialIDs) == 0 {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.StructureItem{}).
		Where("raw_material_id IN ?", materialIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
