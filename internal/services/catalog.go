package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogrepo "github.com/ampolabs/batchweigh-backend/internal/data/repos/catalog"
	productionrepo "github.com/ampolabs/batchweigh-backend/internal/data/repos/production"
	types "github.com/ampolabs/batchweigh-backend/internal/domain"
	"github.com/ampolabs/batchweigh-backend/internal/pkg/apperrors"
	"github.com/ampolabs/batchweigh-backend/internal/platform/logger"
)

// CatalogService manages products, raw materials and scales. Hard deletes are
// rejected once production data references a record; deactivation is the
// supported way to retire one.
type CatalogService interface {
	CreateProduct(ctx context.Context, product *types.Product) (*types.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*types.Product, error)
	ListProducts(ctx context.Context, activeOnly bool) ([]*types.Product, error)
	UpdateProduct(ctx context.Context, product *types.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	CreateRawMaterial(ctx context.Context, material *types.RawMaterial) (*types.RawMaterial, error)
	GetRawMaterial(ctx context.Context, id uuid.UUID) (*types.RawMaterial, error)
	ListRawMaterials(ctx context.Context, activeOnly bool) ([]*types.RawMaterial, error)
	UpdateRawMaterial(ctx context.Context, material *types.RawMaterial) error
	DeleteRawMaterial(ctx context.Context, id uuid.UUID) error

	CreateScale(ctx context.Context, scale *types.Scale) (*types.Scale, error)
	GetScale(ctx context.Context, id uuid.UUID) (*types.Scale, error)
	ListScales(ctx context.Context, activeOnly bool) ([]*types.Scale, error)
	UpdateScale(ctx context.Context, scale *types.Scale) error
	DeleteScale(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	db                *gorm.DB
	log               *logger.Logger
	productRepo       catalogrepo.ProductRepo
	rawMaterialRepo   catalogrepo.RawMaterialRepo
	scaleRepo         catalogrepo.ScaleRepo
	structureRepo     productionrepo.StructureRepo
	structureItemRepo productionrepo.StructureItemRepo
	orderRepo         productionrepo.OrderRepo
	orderItemRepo     productionrepo.OrderItemRepo
	weighingRepo      productionrepo.WeighingRepo
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	productRepo catalogrepo.ProductRepo,
	rawMaterialRepo catalogrepo.RawMaterialRepo,
	scaleRepo catalogrepo.ScaleRepo,
	structureRepo productionrepo.StructureRepo,
	structureItemRepo productionrepo.StructureItemRepo,
	orderRepo productionrepo.OrderRepo,
	orderItemRepo productionrepo.OrderItemRepo,
	weighingRepo productionrepo.WeighingRepo,
) CatalogService {
	serviceLog := log.With("service", "CatalogService")
	return &catalogService{
		db:                db,
		log:               serviceLog,
		productRepo:       productRepo,
		rawMaterialRepo:   rawMaterialRepo,
		scaleRepo:         scaleRepo,
		structureRepo:     structureRepo,
		structureItemRepo: structureItemRepo,
		orderRepo:         orderRepo,
		orderItemRepo:     orderItemRepo,
		weighingRepo:      weighingRepo,
	}
}

func (cs *catalogService) CreateProduct(ctx context.Context, product *types.Product) (*types.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	product.Code = strings.TrimSpace(product.Code)
	if product.Name == "" || product.Code == "" {
		return nil, fmt.Errorf("product name and code are required: %w", apperrors.ErrInvalidInput)
	}

	existing, err := cs.productRepo.GetByCodes(ctx, nil, []string{product.Code})
	if err != nil {
		return nil, fmt.Errorf("failed to check product code: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("product code %s already exists: %w", product.Code, apperrors.ErrConflict)
	}

	product.ID = uuid.New()
	product.Active = true
	if _, err := cs.productRepo.Create(ctx, nil, []*types.Product{product}); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (cs *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*types.Product, error) {
	products, err := cs.productRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("product %s: %w", id, apperrors.ErrNotFound)
	}
	return products[0], nil
}

func (cs *catalogService) ListProducts(ctx context.Context, activeOnly bool) ([]*types.Product, error) {
	return cs.productRepo.List(ctx, nil, activeOnly)
}

func (cs *catalogService) UpdateProduct(ctx context.Context, product *types.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	product.Code = strings.TrimSpace(product.Code)
	if product.Name == "" || product.Code == "" {
		return fmt.Errorf("product name and code are required: %w", apperrors.ErrInvalidInput)
	}
	if _, err := cs.GetProduct(ctx, product.ID); err != nil {
		return err
	}
	return cs.productRepo.Update(ctx, nil, product)
}

func (cs *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := cs.GetProduct(ctx, id); err != nil {
		return err
	}
	structures, err := cs.structureRepo.CountByProductIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("failed to count structures: %w", err)
	}
	orders, err := cs.orderRepo.CountByProductIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("failed to count orders: %w", err)
	}
	if structures > 0 || orders > 0 {
		return fmt.Errorf("product %s: %w", id, apperrors.ErrReferenced)
	}
	return cs.productRepo.DeleteByIDs(ctx, nil, []uuid.UUID{id})
}

func (cs *catalogService) CreateRawMaterial(ctx context.Context, material *types.RawMaterial) (*types.RawMaterial, error) {
	material.Name = strings.TrimSpace(material.Name)
	material.Code = strings.TrimSpace(material.Code)
	if material.Name == "" || material.Code == "" {
		return nil, fmt.Errorf("raw material name and code are required: %w", apperrors.ErrInvalidInput)
	}

	existing, err := cs.rawMaterialRepo.GetByCodes(ctx, nil, []string{material.Code})
	if err != nil {
		return nil, fmt.Errorf("failed to check raw material code: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("raw material code %s already exists: %w", material.Code, apperrors.ErrConflict)
	}

	material.ID = uuid.New()
	material.Active = true
	if _, err := cs.rawMaterialRepo.Create(ctx, nil, []*types.RawMaterial{material}); err != nil {
		return nil, fmt.Errorf("failed to create raw material: %w", err)
	}
	return material, nil
}

func (cs *catalogService) GetRawMaterial(ctx context.Context, id uuid.UUID) (*types.RawMaterial, error) {
	materials, err := cs.rawMaterialRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch raw material: %w", err)
	}
	if len(materials) == 0 {
		return nil, fmt.Errorf("raw material %s: %w", id, apperrors.ErrNotFound)
	}
	return materials[0], nil
}

func (cs *catalogService) ListRawMaterials(ctx context.Context, activeOnly bool) ([]*types.RawMaterial, error) {
	return cs.rawMaterialRepo.List(ctx, nil, activeOnly)
}

func (cs *catalogService) UpdateRawMaterial(ctx context.Context, material *types.RawMaterial) error {
	material.Name = strings.TrimSpace(material.Name)
	material.Code = strings.TrimSpace(material.Code)
	if material.Name == "" || material.Code == "" {
		return fmt.Errorf("raw material name and code are required: %w", apperrors.ErrInvalidInput)
	}
	if _, err := cs.GetRawMaterial(ctx, material.ID); err != nil {
		return err
	}
	return cs.rawMaterialRepo.Update(ctx, nil, material)
}

func (cs *catalogService) DeleteRawMaterial(ctx context.Context, id uuid.UUID) error {
	if _, err := cs.GetRawMaterial(ctx, id); err != nil {
		return err
	}
	structureItems, err := cs.structureItemRepo.CountByRawMaterialIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("failed to count structure items: %w", err)
	}
	orderItems, err := cs.orderItemRepo.CountByRawMaterialIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("failed to count order items: %w", err)
	}
	if structureItems > 0 || orderItems > 0 {
		return fmt.Errorf("raw material %s: %w", id, apperrors.ErrReferenced)
	}
	return cs.rawMaterialRepo.DeleteByIDs(ctx, nil, []uuid.UUID{id})
}

func (cs *catalogService) CreateScale(ctx context.Context, scale *types.Scale) (*types.Scale, error) {
	scale.Name = strings.TrimSpace(scale.Name)
	scale.Identifier = strings.TrimSpace(scale.Identifier)
	if scale.Name == "" || scale.Identifier == "" {
		return nil, fmt.Errorf("scale name and identifier are required: %w", apperrors.ErrInvalidInput)
	}
	if err := validateScaleConnection(scale); err != nil {
		return nil, err
	}

	existing, err := cs.scaleRepo.GetByIdentifiers(ctx, nil, []string{scale.Identifier})
	if err != nil {
		return nil, fmt.Errorf("failed to check scale identifier: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("scale identifier %s already exists: %w", scale.Identifier, apperrors.ErrConflict)
	}

	scale.ID = uuid.New()
	scale.Active = true
	if _, err := cs.scaleRepo.Create(ctx, nil, []*types.Scale{scale}); err != nil {
		return nil, fmt.Errorf("failed to create scale: %w", err)
	}
	return scale, nil
}

func (cs *catalogService) GetScale(ctx context.Context, id uuid.UUID) (*types.Scale, error) {
	scales, err := cs.scaleRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scale: %w", err)
	}
	if len(scales) == 0 {
		return nil, fmt.Errorf("scale %s: %w", id, apperrors.ErrNotFound)
	}
	return scales[0], nil
}

func (cs *catalogService) ListScales(ctx context.Context, activeOnly bool) ([]*types.Scale, error) {
	return cs.scaleRepo.List(ctx, nil, activeOnly)
}

func (cs *catalogService) UpdateScale(ctx context.Context, scale *types.Scale) error {
	scale.Name = strings.TrimSpace(scale.Name)
	scale.Identifier = strings.TrimSpace(scale.Identifier)
	if scale.Name == "" || scale.Identifier == "" {
		return fmt.Errorf("scale name and identifier are required: %w", apperrors.ErrInvalidInput)
	}
	if err := validateScaleConnection(scale); err != nil {
		return err
	}
	if _, err := cs.GetScale(ctx, scale.ID); err != nil {
		return err
	}
	return cs.scaleRepo.Update(ctx, nil, scale)
}

// DeleteScale refuses to drop a scale that weighings point at, even though the
// foreign key would only null out, so the ledger keeps its provenance.
func (cs *catalogService) DeleteScale(ctx context.Context, id uuid.UUID) error {
	if _, err := cs.GetScale(ctx, id); err != nil {
		return err
	}
	weighings, err := cs.weighingRepo.CountByScaleIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("failed to count weighings: %w", err)
	}
	if weighings > 0 {
		return fmt.Errorf("scale %s: %w", id, apperrors.ErrReferenced)
	}
	return cs.scaleRepo.DeleteByIDs(ctx, nil, []uuid.UUID{id})
}

func validateScaleConnection(scale *types.Scale) error {
	switch scale.ConnectionType {
	case "":
		scale.ConnectionType = types.ScaleConnEthernet
	case types.ScaleConnEthernet, types.ScaleConnSerial, types.ScaleConnUSB:
	default:
		return fmt.Errorf("connection type %q: %w", scale.ConnectionType, apperrors.ErrInvalidInput)
	}
	if scale.ConnectionType == types.ScaleConnEthernet && scale.IPAddress == "" {
		return fmt.Errorf("ethernet scale needs an ip address: %w", apperrors.ErrInvalidInput)
	}
	if scale.ConnectionType != types.ScaleConnEthernet && scale.SerialPort == "" {
		return fmt.Errorf("serial scale needs a serial port: %w", apperrors.ErrInvalidInput)
	}
	return nil
}
