package identity

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ampolabs/batchweigh-backend/internal/domain"
	"github.com/ampolabs/batchweigh-backend/internal/platform/logger"
)

type OperatorProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, profiles []*types.OperatorProfile) ([]*types.OperatorProfile, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.OperatorProfile, error)
}

type operatorProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOperatorProfileRepo(db *gorm.DB, baseLog *logger.Logger) OperatorProfileRepo {
	repoLog := baseLog.With("repo", "OperatorProfileRepo")
	return &operatorProfileRepo{db: db, log: repoLog}
}

func (r *operatorProfileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.OperatorProfile) ([]*types.OperatorProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(profiles) == 0 {
		return []*types.OperatorProfile{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *operatorProfileRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.OperatorProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.OperatorProfile
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
