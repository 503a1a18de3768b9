package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ampolabs/batchweigh-backend/internal/domain"
	"github.com/ampolabs/batchweigh-backend/internal/platform/logger"
)

type RawMaterialRepo interface {
	Create(ctx context.Context, tx *gorm.DB, materials []*types.RawMaterial) ([]*types.RawMaterial, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.RawMaterial, error)
	GetByCodes(ctx context.Context, tx *gorm.DB, codes []string) ([]*types.RawMaterial, error)
	List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.RawMaterial, error)
	Update(ctx context.Context, tx *gorm.DB, material *types.RawMaterial) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type rawMaterialRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRawMaterialRepo(db *gorm.DB, baseLog *logger.Logger) RawMaterialRepo {
	repoLog := baseLog.With("repo", "RawMaterialRepo")
	return &rawMaterialRepo{db: db, log: repoLog}
}

func (r *rawMaterialRepo) Create(ctx context.Context, tx *gorm.DB, materials []*types.RawMaterial) ([]*types.RawMaterial, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(materials) == 0 {
		return []*types.RawMaterial{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *rawMaterialRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.RawMaterial, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.RawMaterial
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

func (r *rawMaterialRepo) GetByCodes(ctx context.Context, tx *gorm.DB, codes []string) ([]*types.RawMaterial, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.RawMaterial
	if len(codes) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("code IN ?", codes).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *rawMaterialRepo) List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.RawMaterial, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.RawMaterial
	q := transaction.WithContext(ctx).Order("code")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *rawMaterialRepo) Update(ctx context.Context, tx *gorm.DB, material *types.RawMaterial) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(material).Error
}

func (r *rawMaterialRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.RawMaterial{}).Error; err != nil {
		return err
	}
	return nil
}
