package production

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/ampolabs/batchweigh-backend/internal/domain"
	"github.com/ampolabs/batchweigh-backend/internal/platform/logger"
)

// MaterialBalance is the per-raw-material rollup of an order.
type MaterialBalance struct {
	RawMaterialID   uuid.UUID       `json:"raw_material_id"`
	RawMaterialName string          `json:"raw_material_name"`
	RequiredG       decimal.Decimal `json:"required_g"`
	WeighedG        decimal.Decimal `json:"weighed_g"`
	RemainingG      decimal.Decimal `json:"remaining_g"`
}

type OrderItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, items []*types.OrderItem) ([]*types.OrderItem, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.OrderItem, error)
	GetByOrderIDs(ctx context.Context, tx *gorm.DB, orderIDs []uuid.UUID) ([]*types.OrderItem, error)
	GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.OrderItem, error)
	AddWeighed(ctx context.Context, tx *gorm.DB, id uuid.UUID, deltaG decimal.Decimal) error
	DeleteByOrderIDs(ctx context.Context, tx *gorm.DB, orderIDs []uuid.UUID) error
	CountByOrderIDs(ctx context.Context, tx *gorm.DB, orderIDs []uuid.UUID) (int64, error)
	CountPendingByOrderID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, floorFactor decimal.Decimal) (int64, error)
	CountByRawMaterialIDs(ctx context.Context, tx *gorm.DB, materialIDs []uuid.UUID) (int64, error)
	BalanceByOrderID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) ([]MaterialBalance, error)
}

type orderItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderItemRepo(db *gorm.DB, baseLog *logger.Logger) OrderItemRepo {
	repoLog := baseLog.With("repo", "OrderItemRepo")
	return &orderItemRepo{db: db, log: repoLog}
}

func (r *orderItemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.OrderItem) ([]*types.OrderItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(items) == 0 {
		return []*types.OrderItem{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderItemRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.OrderItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.OrderItem
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

func (r *orderItemRepo) GetByOrderIDs(ctx context.Context, tx *gorm.DB, orderIDs []uuid.UUID) ([]*types.OrderItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.OrderItem
	if len(orderIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("RawMaterial").
		Where("order_id IN ?", orderIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetForUpdate takes the per-line row lock the weighing engine serializes on.
// Callers must run inside a transaction; the lock holds until it commits or
// rolls back.
func (r *orderItemRepo) GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.OrderItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.OrderItem
	if err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// AddWeighed advances the accumulator with a relative update so sequential
// transactions never overwrite each other's increments.
func (r *orderItemRepo) AddWeighed(ctx context.Context, tx *gorm.DB, id uuid.UUID, deltaG decimal.Decimal) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.OrderItem{}).
		Where("id = ?", id).
		UpdateColumn("weighed_qty_g", gorm.Expr("weighed_qty_g + ?", deltaG)).Error
}

func (r *orderItemRepo) DeleteByOrderIDs(ctx context.Context, tx *gorm.DB, orderIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(orderIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Delete(&types.OrderItem{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *orderItemRepo) CountByOrderIDs(ctx context.Context, tx *gorm.DB, orderIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if len(orderIDs) == 0 {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.OrderItem{}).
		Where("order_id IN ?", orderIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountPendingByOrderID counts lines whose accumulated total has not reached
// the satisfaction threshold (required * floorFactor).
func (r *orderItemRepo) CountPendingByOrderID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, floorFactor decimal.Decimal) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.OrderItem{}).
		Where("order_id = ? AND weighed_qty_g < required_qty_g * ?", orderID, floorFactor).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *orderItemRepo) CountByRawMaterialIDs(ctx context.Context, tx *gorm.DB, materialIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if len(materialIDs) == 0 {
		return 0, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.OrderItem{}).
		Where("raw_material_id IN ?", materialIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *orderItemRepo) BalanceByOrderID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) ([]MaterialBalance, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []MaterialBalance
	if err := transaction.WithContext(ctx).
		Model(&types.OrderItem{}).
		Select(`order_item.raw_material_id AS raw_material_id,
			raw_material.name AS raw_material_name,
			order_item.required_qty_g AS required_g,
			order_item.weighed_qty_g AS weighed_g,
			order_item.required_qty_g - order_item.weighed_qty_g AS remaining_g`).
		Joins("JOIN raw_material ON raw_material.id = order_item.raw_material_id").
		Where("order_item.order_id = ?", orderID).
		Order("raw_material.code").
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
