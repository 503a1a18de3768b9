package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ampolabs/batchweigh-backend/internal/domain/catalog"
)

// Weighing is one append-only ledger entry against an order item.
//
// Unit contract: the operator enters tare and net in kilograms; the backend
// computes the gross (kg) and stores the net converted to grams. Balance
// arithmetic downstream is always in grams.
type Weighing struct {
	ID      uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrderID uuid.UUID        `gorm:"type:uuid;not null;index" json:"order_id"`
	Order   *ProductionOrder `gorm:"foreignKey:OrderID;references:ID" json:"order,omitempty"`
	ItemID  uuid.UUID        `gorm:"type:uuid;not null;index:idx_weighing_item_lot" json:"item_id"`
	Item    *OrderItem       `gorm:"foreignKey:ItemID;references:ID" json:"item,omitempty"`

	Operator string `gorm:"column:operator;not null" json:"operator"`

	BrutoKg  decimal.Decimal `gorm:"column:bruto_kg;type:numeric(14,3);not null" json:"bruto_kg"`
	TaraKg   decimal.Decimal `gorm:"column:tara_kg;type:numeric(14,3);not null" json:"tara_kg"`
	LiquidoG decimal.Decimal `gorm:"column:liquido_g;type:numeric(14,3);not null;default:0" json:"liquido_g"`

	ScaleID      *uuid.UUID     `gorm:"type:uuid;index" json:"scale_id,omitempty"`
	Scale        *catalog.Scale `gorm:"foreignKey:ScaleID;references:ID" json:"scale,omitempty"`
	LotTag       string         `gorm:"column:lot_tag;not null;default:'';index:idx_weighing_item_lot" json:"lot_tag"`
	InternalCode string         `gorm:"column:internal_code;not null;default:''" json:"internal_code"`

	CreatedAt time.Time `gorm:"not null;default:now();index:,sort:desc" json:"created_at"`
}

func (Weighing) TableName() string { return "weighing" }
