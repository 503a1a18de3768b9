package production

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ampolabs/batchweigh-backend/internal/domain"
	"github.com/ampolabs/batchweigh-backend/internal/platform/logger"
)

// WeighingRepo is append-only: rows are created once and never updated.
type WeighingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, weighings []*types.Weighing) ([]*types.Weighing, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Weighing, error)
	GetByOrderIDs(ctx context.Context, tx *gorm.DB, orderIDs []uuid.UUID) ([]*types.Weighing, error)
	GetByItemIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) ([]*types.Weighing, error)
	CountByItemIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) (int64, error)
	CountByScaleIDs(ctx context.Context, tx *gorm.DB, scaleIDs []uuid.UUID) (int64, error)
}

type weighingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeighingRepo(db *gorm.DB, baseLog *logger.Logger) WeighingRepo {
	repoLog := baseLog.With("repo", "WeighingRepo")
	return &weighingRepo{db: db, log: repoLog}
}

func (r *weighingRepo) Create(ctx context.Context, tx *gorm.DB, weighings []*types.Weighing) ([]*types.Weighing, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(weighings) == 0 {
		return []*types.Weighing{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&weighings).Error; err != nil {
		return nil, err
	}
	return weighings, nil
}

func (r *weighingRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Weighing, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Weighing
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

func (r *weighingRepo) GetByOrderIDs(ctx context.Context, tx *gorm.DB, orderIDs []uuid.UUID) ([]*types.Weighing, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Weighing
	if len(orderIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *weighingRepo) GetByItemIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) ([]*types.Weighing, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Weighing
	if len(itemIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("item_id IN ?", itemIDs).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *weighingRepo) CountByItemIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if len(itemIDs) == 0 {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Weighing{}).
		Where("item_id IN ?", itemIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *weighingRepo) CountByScaleIDs(ctx context.Context, tx *gorm.DB, scaleIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if len(scaleIDs) == 0 {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Weighing{}).
		Where("scale_id IN ?", scaleIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
