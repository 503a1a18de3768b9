package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ampolabs/batchweigh-backend/internal/domain"
	"github.com/ampolabs/batchweigh-backend/internal/platform/logger"
)

type ScaleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, scales []*types.Scale) ([]*types.Scale, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Scale, error)
	GetByIdentifiers(ctx context.Context, tx *gorm.DB, identifiers []string) ([]*types.Scale, error)
	List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.Scale, error)
	Update(ctx context.Context, tx *gorm.DB, scale *types.Scale) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type scaleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScaleRepo(db *gorm.DB, baseLog *logger.Logger) ScaleRepo {
	repoLog := baseLog.With("repo", "ScaleRepo")
	return &scaleRepo{db: db, log: repoLog}
}

func (r *scaleRepo) Create(ctx context.Context, tx *gorm.DB, scales []*types.Scale) ([]*types.Scale, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(scales) == 0 {
		return []*types.Scale{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&scales).Error; err != nil {
		return nil, err
	}
	return scales, nil
}

func (r *scaleRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Scale, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Scale
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

func (r *scaleRepo) GetByIdentifiers(ctx context.Context, tx *gorm.DB, identifiers []string) ([]*types.Scale, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Scale
	if len(identifiers) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("identifier IN ?", identifiers).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *scaleRepo) List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.Scale, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Scale
	q := transaction.WithContext(ctx).Order("name")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *scaleRepo) Update(ctx context.Context, tx *gorm.DB, scale *types.Scale) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(scale).Error
}

func (r *scaleRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Scale{}).Error; err != nil {
		return err
	}
	return nil
}
