package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ampolabs/batchweigh-backend/internal/domain/catalog"
)

type OrderStatus string

const (
	OrderOpen       OrderStatus = "open"
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// ProductionOrder binds a product to a structure snapshot and tracks weighing
// progress per raw material through its items.
type ProductionOrder struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Number      string           `gorm:"column:number;not null;uniqueIndex" json:"number"`
	LotCode     string           `gorm:"column:lot_code;not null;uniqueIndex" json:"lot_code"`
	ProductID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"product_id"`
	Product     *catalog.Product `gorm:"foreignKey:ProductID;references:ID" json:"product,omitempty"`
	StructureID uuid.UUID        `gorm:"type:uuid;not null;index" json:"structure_id"`
	Structure   *Structure       `gorm:"foreignKey:StructureID;references:ID" json:"structure,omitempty"`

	Status OrderStatus `gorm:"column:status;not null;default:'open';index" json:"status"`
	Notes  string      `gorm:"column:notes;type:text;not null;default:''" json:"notes"`

	Items []OrderItem `gorm:"foreignKey:OrderID;references:ID" json:"items,omitempty"`

	CreatedAt   time.Time  `gorm:"not null;default:now();index:,sort:desc" json:"created_at"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
}

func (ProductionOrder) TableName() string { return "production_order" }

// OrderItem accumulates weighed grams against the required quantity copied
// from the structure at generation time. RequiredQtyG is immutable after
// generation; WeighedQtyG is mutated only by the weighing engine.
type OrderItem struct {
	ID            uuid.UUID            `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrderID       uuid.UUID            `gorm:"type:uuid;not null;index;uniqueIndex:idx_order_item_material" json:"order_id"`
	RawMaterialID uuid.UUID            `gorm:"type:uuid;not null;index;uniqueIndex:idx_order_item_material" json:"raw_material_id"`
	RawMaterial   *catalog.RawMaterial `gorm:"foreignKey:RawMaterialID;references:ID" json:"raw_material,omitempty"`

	RequiredQtyG decimal.Decimal `gorm:"column:required_qty_g;type:numeric(14,3);not null" json:"required_qty_g"`
	WeighedQtyG  decimal.Decimal `gorm:"column:weighed_qty_g;type:numeric(14,3);not null;default:0" json:"weighed_qty_g"`
	Unit         string          `gorm:"column:unit;not null;default:'g'" json:"unit"`
}

func (OrderItem) TableName() string { return "order_item" }

func (i *OrderItem) RemainingG() decimal.Decimal {
	return i.RequiredQtyG.Sub(i.WeighedQtyG)
}

// MinAllowedG is the tolerance floor. A line counts as satisfied once the
// accumulated total reaches it.
func (i *OrderItem) MinAllowedG() decimal.Decimal {
	return i.RequiredQtyG.Mul(decimal.NewFromInt(1).Sub(TolerancePct))
}

// MaxAllowedG is the tolerance ceiling. No weighing may push the accumulated
// total past it.
func (i *OrderItem) MaxAllowedG() decimal.Decimal {
	return i.RequiredQtyG.Mul(decimal.NewFromInt(1).Add(TolerancePct))
}
