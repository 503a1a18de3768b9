package production

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ampolabs/batchweigh-backend/internal/domain"
	"github.com/ampolabs/batchweigh-backend/internal/platform/logger"
)

type StructureRepo interface {
	Create(ctx context.Context, tx *gorm.DB, structures []*types.Structure) ([]*types.Structure, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Structure, error)
	GetWithItems(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Structure, error)
	GetByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.Structure, error)
	Update(ctx context.Context, tx *gorm.DB, structure *types.Structure) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	CountByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) (int64, error)
}

type structureRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStructureRepo(db *gorm.DB, baseLog *logger.Logger) StructureRepo {
	repoLog := baseLog.With("repo", "StructureRepo")
	return &structureRepo{db: db, log: repoLog}
}

func (r *structureRepo) Create(ctx context.Context, tx *gorm.DB, structures []*types.Structure) ([]*types.Structure, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(structures) == 0 {
		return []*types.Structure{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&structures).Error; err != nil {
		return nil, err
	}
	return structures, nil
}

func (r *structureRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Structure, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Structure
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

func (r *structureRepo) GetWithItems(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Structure, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Structure
	if err := transaction.WithContext(ctx).
		Preload("Items").
		Preload("Items.RawMaterial").
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *structureRepo) GetByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.Structure, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Structure
	if len(productIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *structureRepo) Update(ctx context.Context, tx *gorm.DB, structure *types.Structure) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Omit("Items").Save(structure).Error
}

func (r *structureRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Structure{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *structureRepo) CountByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if len(productIDs) == 0 {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Structure{}).
		Where("product_id IN ?", productIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
