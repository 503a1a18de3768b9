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
	"github.com/ampolabs/batchweigh-backend/internal/platform/ctxutil"
	"github.com/ampolabs/batchweigh-backend/internal/platform/logger"
)

// WeighingInput is one scale reading. Tare and net are in kilograms, the unit
// the operator reads off the scale display; everything stored downstream of
// the conversion is grams.
type WeighingInput struct {
	OrderID      uuid.UUID
	ItemID       uuid.UUID
	Operator     string
	TareKg       decimal.Decimal
	NetKg        decimal.Decimal
	ScaleID      *uuid.UUID
	LotTag       string
	InternalCode string
}

type WeighingService interface {
	Record(ctx context.Context, in WeighingInput) (*types.Weighing, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*types.Weighing, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]*types.Weighing, error)
}

type weighingService struct {
	db              *gorm.DB
	log             *logger.Logger
	rawMaterialRepo catalogrepo.RawMaterialRepo
	scaleRepo       catalogrepo.ScaleRepo
	orderRepo       productionrepo.OrderRepo
	orderItemRepo   productionrepo.OrderItemRepo
	weighingRepo    productionrepo.WeighingRepo
}

func NewWeighingService(
	db *gorm.DB,
	log *logger.Logger,
	rawMaterialRepo catalogrepo.RawMaterialRepo,
	scaleRepo catalogrepo.ScaleRepo,
	orderRepo productionrepo.OrderRepo,
	orderItemRepo productionrepo.OrderItemRepo,
	weighingRepo productionrepo.WeighingRepo,
) WeighingService {
	serviceLog := log.With("service", "WeighingService")
	return &weighingService{
		db:              db,
		log:             serviceLog,
		rawMaterialRepo: rawMaterialRepo,
		scaleRepo:       scaleRepo,
		orderRepo:       orderRepo,
		orderItemRepo:   orderItemRepo,
		weighingRepo:    weighingRepo,
	}
}

// Record runs the whole validate-convert-accumulate sequence in one
// transaction holding a row lock on the order item, so concurrent weighings
// against the same line serialize and the tolerance check never races a
// stale total. Any failure rolls the transaction back with nothing written.
//
// The accepted ceiling is required * 1.05 on the cumulative total. Totals
// below the floor are accepted too; the floor only decides when the
// completion evaluation considers the line satisfied.
func (ws *weighingService) Record(ctx context.Context, in WeighingInput) (*types.Weighing, error) {
	operator := strings.TrimSpace(in.Operator)
	if operator == "" {
		if rd := ctxutil.GetRequestData(ctx); rd != nil {
			operator = rd.Name
		}
	}
	if operator == "" {
		return nil, fmt.Errorf("operator is required: %w", apperrors.ErrInvalidInput)
	}
	if in.TareKg.IsNegative() {
		return nil, fmt.Errorf("tare must not be negative: %w", apperrors.ErrInvalidInput)
	}
	if !in.NetKg.IsPositive() {
		return nil, fmt.Errorf("net weight must be positive: %w", apperrors.ErrInvalidInput)
	}

	netG := in.NetKg.Mul(types.KgToG).Round(3)
	if !netG.IsPositive() {
		return nil, fmt.Errorf("net weight rounds to zero grams: %w", apperrors.ErrInvalidInput)
	}
	grossKg := in.TareKg.Add(in.NetKg).Round(3)

	weighing := &types.Weighing{
		ID:           uuid.New(),
		OrderID:      in.OrderID,
		ItemID:       in.ItemID,
		Operator:     operator,
		BrutoKg:      grossKg,
		TaraKg:       in.TareKg.Round(3),
		LiquidoG:     netG,
		ScaleID:      in.ScaleID,
		LotTag:       strings.TrimSpace(in.LotTag),
		InternalCode: strings.TrimSpace(in.InternalCode),
	}

	err := ws.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, iErr := ws.orderItemRepo.GetForUpdate(ctx, tx, in.ItemID)
		if iErr != nil {
			if errors.Is(iErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order item %s: %w", in.ItemID, apperrors.ErrNotFound)
			}
			return fmt.Errorf("failed to lock order item: %w", iErr)
		}
		if item.OrderID != in.OrderID {
			return fmt.Errorf("item %s belongs to order %s, not %s: %w",
				item.ID, item.OrderID, in.OrderID, apperrors.ErrIncoherentReference)
		}

		order, oErr := ws.orderRepo.GetByIDForUpdate(ctx, tx, in.OrderID)
		if oErr != nil {
			if errors.Is(oErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order %s: %w", in.OrderID, apperrors.ErrNotFound)
			}
			return fmt.Errorf("failed to lock order: %w", oErr)
		}

		if in.ScaleID != nil {
			scales, sErr := ws.scaleRepo.GetByIDs(ctx, tx, []uuid.UUID{*in.ScaleID})
			if sErr != nil {
				return fmt.Errorf("failed to fetch scale: %w", sErr)
			}
			if len(scales) == 0 {
				return fmt.Errorf("scale %s: %w", *in.ScaleID, apperrors.ErrNotFound)
			}
		}

		newTotal := item.WeighedQtyG.Add(netG)
		if maxAllowed := item.MaxAllowedG(); newTotal.GreaterThan(maxAllowed) {
			return &apperrors.ToleranceError{
				RawMaterial: ws.materialName(ctx, tx, item.RawMaterialID),
				MinAllowedG: item.MinAllowedG(),
				MaxAllowedG: maxAllowed,
				WeighedG:    item.WeighedQtyG,
				AttemptG:    netG,
				NewTotalG:   newTotal,
			}
		}

		if _, cErr := ws.weighingRepo.Create(ctx, tx, []*types.Weighing{weighing}); cErr != nil {
			return fmt.Errorf("failed to create weighing: %w", cErr)
		}
		if aErr := ws.orderItemRepo.AddWeighed(ctx, tx, item.ID, netG); aErr != nil {
			return fmt.Errorf("failed to advance accumulator: %w", aErr)
		}

		if order.Status == types.OrderOpen || order.Status == types.OrderInProgress {
			if _, eErr := runCompletionEvaluation(ctx, tx, ws.orderRepo, ws.orderItemRepo, order); eErr != nil {
				return eErr
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ws.log.Info("recorded weighing",
		"weighing_id", weighing.ID,
		"order_id", weighing.OrderID,
		"item_id", weighing.ItemID,
		"liquido_g", weighing.LiquidoG.StringFixed(3),
	)
	return weighing, nil
}

func (ws *weighingService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*types.Weighing, error) {
	orders, err := ws.orderRepo.GetByIDs(ctx, nil, []uuid.UUID{orderID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("order %s: %w", orderID, apperrors.ErrNotFound)
	}
	return ws.weighingRepo.GetByOrderIDs(ctx, nil, []uuid.UUID{orderID})
}

func (ws *weighingService) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*types.Weighing, error) {
	items, err := ws.orderItemRepo.GetByIDs(ctx, nil, []uuid.UUID{itemID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order item: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("order item %s: %w", itemID, apperrors.ErrNotFound)
	}
	return ws.weighingRepo.GetByItemIDs(ctx, nil, []uuid.UUID{itemID})
}

// materialName is display-only error context; a lookup failure falls back to
// the raw id.
func (ws *weighingService) materialName(ctx context.Context, tx *gorm.DB, materialID uuid.UUID) string {
	materials, err := ws.rawMaterialRepo.GetByIDs(ctx, tx, []uuid.UUID{materialID})
	if err != nil || len(materials) == 0 {
		return materialID.String()
	}
	return materials[0].Name
}
