package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalogrepo "github.com/ampolabs/batchweigh-backend/internal/data/repos/catalog"
	productionrepo "github.com/ampolabs/batchweigh-backend/internal/data/repos/production"
	types "github.com/ampolabs/batchweigh-backend/internal/domain"
	"github.com/ampolabs/batchweigh-backend/internal/pkg/apperrors"
	"github.com/ampolabs/batchweigh-backend/internal/platform/logger"
)

type CreateOrderInput struct {
	Number      string
	LotCode     string
	ProductID   uuid.UUID
	StructureID uuid.UUID
	Notes       string
}

// OrderService owns the production order lifecycle: generation of line items
// from the bound structure and the completion state machine.
type OrderService interface {
	Create(ctx context.Context, in CreateOrderInput) (*types.ProductionOrder, error)
	Get(ctx context.Context, id uuid.UUID) (*types.ProductionOrder, error)
	List(ctx context.Context) ([]*types.ProductionOrder, error)
	GenerateItems(ctx context.Context, orderID uuid.UUID, force bool) (types.OrderStatus, error)
	EvaluateCompletion(ctx context.Context, orderID uuid.UUID) (types.OrderStatus, *time.Time, error)
	Balance(ctx context.Context, orderID uuid.UUID) ([]productionrepo.MaterialBalance, error)
}

type orderService struct {
	db                *gorm.DB
	log               *logger.Logger
	productRepo       catalogrepo.ProductRepo
	structureRepo     productionrepo.StructureRepo
	structureItemRepo productionrepo.StructureItemRepo
	orderRepo         productionrepo.OrderRepo
	orderItemRepo     productionrepo.OrderItemRepo
}

func NewOrderService(
	db *gorm.DB,
	log *logger.Logger,
	productRepo catalogrepo.ProductRepo,
	structureRepo productionrepo.StructureRepo,
	structureItemRepo productionrepo.StructureItemRepo,
	orderRepo productionrepo.OrderRepo,
	orderItemRepo productionrepo.OrderItemRepo,
) OrderService {
	serviceLog := log.With("service", "OrderService")
	return &orderService{
		db:                db,
		log:               serviceLog,
		productRepo:       productRepo,
		structureRepo:     structureRepo,
		structureItemRepo: structureItemRepo,
		orderRepo:         orderRepo,
		orderItemRepo:     orderItemRepo,
	}
}

// Create inserts the order and generates its line items from the structure in
// the same transaction, so an order is never observable without its items.
func (os *orderService) Create(ctx context.Context, in CreateOrderInput) (*types.ProductionOrder, error) {
	in.Number = strings.TrimSpace(in.Number)
	in.LotCode = strings.TrimSpace(in.LotCode)
	if in.Number == "" || in.LotCode == "" {
		return nil, fmt.Errorf("order number and lot code are required: %w", apperrors.ErrInvalidInput)
	}

	products, err := os.productRepo.GetByIDs(ctx, nil, []uuid.UUID{in.ProductID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("product %s: %w", in.ProductID, apperrors.ErrNotFound)
	}

	structures, err := os.structureRepo.GetByIDs(ctx, nil, []uuid.UUID{in.StructureID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch structure: %w", err)
	}
	if len(structures) == 0 {
		return nil, fmt.Errorf("structure %s: %w", in.StructureID, apperrors.ErrNotFound)
	}
	if structures[0].ProductID != in.ProductID {
		return nil, fmt.Errorf("structure %s does not belong to product %s: %w",
			in.StructureID, in.ProductID, apperrors.ErrIncoherentReference)
	}

	existing, err := os.orderRepo.GetByNumbers(ctx, nil, []string{in.Number})
	if err != nil {
		return nil, fmt.Errorf("failed to check order number: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("order number %s already exists: %w", in.Number, apperrors.ErrConflict)
	}

	order := &types.ProductionOrder{
		ID:          uuid.New(),
		Number:      in.Number,
		LotCode:     in.LotCode,
		ProductID:   in.ProductID,
		StructureID: in.StructureID,
		Status:      types.OrderOpen,
		Notes:       in.Notes,
	}

	err = os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, cErr := os.orderRepo.Create(ctx, tx, []*types.ProductionOrder{order}); cErr != nil {
			return fmt.Errorf("failed to create order: %w", cErr)
		}
		status, gErr := os.generateLocked(ctx, tx, order)
		if gErr != nil {
			return gErr
		}
		order.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	os.log.Info("created order", "order_id", order.ID, "number", order.Number, "status", order.Status)
	return os.Get(ctx, order.ID)
}

func (os *orderService) Get(ctx context.Context, id uuid.UUID) (*types.ProductionOrder, error) {
	orders, err := os.orderRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("order %s: %w", id, apperrors.ErrNotFound)
	}
	order := orders[0]
	items, err := os.orderItemRepo.GetByOrderIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order items: %w", err)
	}
	order.Items = make([]types.OrderItem, 0, len(items))
	for _, it := range items {
		order.Items = append(order.Items, *it)
	}
	return order, nil
}

func (os *orderService) List(ctx context.Context) ([]*types.ProductionOrder, error) {
	return os.orderRepo.List(ctx, nil)
}

// GenerateItems rebuilds the order's line items from its structure snapshot.
// Regeneration wipes accumulated progress, so it requires force once items
// exist. All-or-nothing: partial line creation is never observable.
func (os *orderService) GenerateItems(ctx context.Context, orderID uuid.UUID, force bool) (types.OrderStatus, error) {
	var status types.OrderStatus
	err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, oErr := os.orderRepo.GetByIDForUpdate(ctx, tx, orderID)
		if oErr != nil {
			if errors.Is(oErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order %s: %w", orderID, apperrors.ErrNotFound)
			}
			return fmt.Errorf("failed to lock order: %w", oErr)
		}

		count, cErr := os.orderItemRepo.CountByOrderIDs(ctx, tx, []uuid.UUID{orderID})
		if cErr != nil {
			return fmt.Errorf("failed to count order items: %w", cErr)
		}
		if count > 0 && !force {
			return fmt.Errorf("order %s: %w", orderID, apperrors.ErrAlreadyGenerated)
		}
		if dErr := os.orderItemRepo.DeleteByOrderIDs(ctx, tx, []uuid.UUID{orderID}); dErr != nil {
			return fmt.Errorf("failed to delete order items: %w", dErr)
		}

		s, gErr := os.generateLocked(ctx, tx, order)
		if gErr != nil {
			return gErr
		}
		status = s
		return nil
	})
	if err != nil {
		return "", err
	}
	os.log.Info("generated order items", "order_id", orderID, "status", status, "force", force)
	return status, nil
}

// generateLocked creates one line per structure item and sets the resulting
// status. Callers hold the order row lock (or just created the order).
func (os *orderService) generateLocked(ctx context.Context, tx *gorm.DB, order *types.ProductionOrder) (types.OrderStatus, error) {
	structureItems, err := os.structureItemRepo.GetByStructureIDs(ctx, tx, []uuid.UUID{order.StructureID})
	if err != nil {
		return "", fmt.Errorf("failed to fetch structure items: %w", err)
	}

	rows := make([]*types.OrderItem, 0, len(structureItems))
	for _, si := range structureItems {
		rows = append(rows, &types.OrderItem{
			ID:            uuid.New(),
			OrderID:       order.ID,
			RawMaterialID: si.RawMaterialID,
			RequiredQtyG:  si.QtyPerBatchG,
			WeighedQtyG:   decimal.Zero,
			Unit:          types.UnitGram,
		})
	}
	if _, err := os.orderItemRepo.Create(ctx, tx, rows); err != nil {
		return "", fmt.Errorf("failed to create order items: %w", err)
	}

	status := types.OrderOpen
	if len(rows) == 0 {
		status = types.OrderCancelled
	}
	if err := os.orderRepo.SetStatus(ctx, tx, order.ID, status); err != nil {
		return "", fmt.Errorf("failed to set order status: %w", err)
	}
	return status, nil
}

// EvaluateCompletion re-derives the order status from line-item progress.
// A line counts as satisfied once its total reaches the tolerance floor.
func (os *orderService) EvaluateCompletion(ctx context.Context, orderID uuid.UUID) (types.OrderStatus, *time.Time, error) {
	var status types.OrderStatus
	var completedAt *time.Time
	err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, oErr := os.orderRepo.GetByIDForUpdate(ctx, tx, orderID)
		if oErr != nil {
			if errors.Is(oErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order %s: %w", orderID, apperrors.ErrNotFound)
			}
			return fmt.Errorf("failed to lock order: %w", oErr)
		}

		s, eErr := runCompletionEvaluation(ctx, tx, os.orderRepo, os.orderItemRepo, order)
		if eErr != nil {
			return eErr
		}
		status = s

		refreshed, rErr := os.orderRepo.GetByIDs(ctx, tx, []uuid.UUID{orderID})
		if rErr != nil || len(refreshed) == 0 {
			return fmt.Errorf("failed to re-read order: %w", rErr)
		}
		completedAt = refreshed[0].CompletedAt
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return status, completedAt, nil
}

func (os *orderService) Balance(ctx context.Context, orderID uuid.UUID) ([]productionrepo.MaterialBalance, error) {
	if _, err := os.Get(ctx, orderID); err != nil {
		return nil, err
	}
	return os.orderItemRepo.BalanceByOrderID(ctx, nil, orderID)
}

// runCompletionEvaluation is the single implementation of the completion
// state machine, shared by the weighing engine and the explicit endpoint.
// It never leaves COMPLETED or CANCELLED, and completed_at is written at
// most once (the repo guards it with COALESCE). Caller holds the order lock.
func runCompletionEvaluation(
	ctx context.Context,
	tx *gorm.DB,
	orders productionrepo.OrderRepo,
	items productionrepo.OrderItemRepo,
	order *types.ProductionOrder,
) (types.OrderStatus, error) {
	if order.Status == types.OrderCompleted || order.Status == types.OrderCancelled {
		return order.Status, nil
	}

	floor := decimal.NewFromInt(1).Sub(types.TolerancePct)
	pending, err := items.CountPendingByOrderID(ctx, tx, order.ID, floor)
	if err != nil {
		return "", fmt.Errorf("failed to count pending items: %w", err)
	}

	if pending > 0 {
		if order.Status != types.OrderInProgress {
			if err := orders.SetStatus(ctx, tx, order.ID, types.OrderInProgress); err != nil {
				return "", fmt.Errorf("failed to set order status: %w", err)
			}
		}
		return types.OrderInProgress, nil
	}

	if err := orders.Complete(ctx, tx, order.ID, time.Now()); err != nil {
		return "", fmt.Errorf("failed to complete order: %w", err)
	}
	return types.OrderCompleted, nil
}
