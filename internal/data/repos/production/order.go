package production

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/ampolabs/batchweigh-backend/internal/domain"
	"github.com/ampolabs/batchweigh-backend/internal/platform/logger"
)

type OrderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, orders []*types.ProductionOrder) ([]*types.ProductionOrder, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ProductionOrder, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProductionOrder, error)
	GetByNumbers(ctx context.Context, tx *gorm.DB, numbers []string) ([]*types.ProductionOrder, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.ProductionOrder, error)
	SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.OrderStatus) error
	Complete(ctx context.Context, tx *gorm.DB, id uuid.UUID, now time.Time) error
	CountByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) (int64, error)
	CountByStructureIDs(ctx context.Context, tx *gorm.DB, structureIDs []uuid.UUID) (int64, error)
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	repoLog := baseLog.With("repo", "OrderRepo")
	return &orderRepo{db: db, log: repoLog}
}

func (r *orderRepo) Create(ctx context.Context, tx *gorm.DB, orders []*types.ProductionOrder) ([]*types.ProductionOrder, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(orders) == 0 {
		return []*types.ProductionOrder{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ProductionOrder, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProductionOrder
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

// GetByIDForUpdate takes a row lock on the order for the duration of the
// enclosing transaction. Used by item generation to serialize regeneration.
func (r *orderRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProductionOrder, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.ProductionOrder
	if err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *orderRepo) GetByNumbers(ctx context.Context, tx *gorm.DB, numbers []string) ([]*types.ProductionOrder, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProductionOrder
	if len(numbers) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("number IN ?", numbers).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *orderRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.ProductionOrder, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProductionOrder
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *orderRepo) SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.OrderStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.ProductionOrder{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Complete marks the order completed and stamps completed_at only if it is
// still unset, so re-evaluating an already-completed order never moves the
// timestamp.
func (r *orderRepo) Complete(ctx context.Context, tx *gorm.DB, id uuid.UUID, now time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.ProductionOrder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       types.OrderCompleted,
			"completed_at": gorm.Expr("COALESCE(completed_at, ?)", now),
		}).Error
}

func (r *orderRepo) CountByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if len(productIDs) == 0 {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.ProductionOrder{}).
		Where("product_id IN ?", productIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *orderRepo) CountByStructureIDs(ctx context.Context, tx *gorm.DB, structureIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if len(structureIDs) == 0 {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.ProductionOrder{}).
		Where("structure_id IN ?", structureIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
