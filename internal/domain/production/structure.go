package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ampolabs/batchweigh-backend/internal/domain/catalog"
)

// Structure is the bill of materials of a product for one batch.
type Structure struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProductID   uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_structure_product_description" json:"product_id"`
	Product     *catalog.Product `gorm:"foreignKey:ProductID;references:ID" json:"product,omitempty"`
	Description string           `gorm:"column:description;not null;default:'';uniqueIndex:idx_structure_product_description" json:"description"`
	Active      bool             `gorm:"column:active;not null;default:true" json:"active"`

	Items []StructureItem `gorm:"foreignKey:StructureID;references:ID" json:"items,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Structure) TableName() string { return "structure" }

// StructureItem is one raw material of a structure, quantity per batch in grams.
type StructureItem struct {
	ID            uuid.UUID            `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StructureID   uuid.UUID            `gorm:"type:uuid;not null;index;uniqueIndex:idx_structure_item_material" json:"structure_id"`
	RawMaterialID uuid.UUID            `gorm:"type:uuid;not null;index;uniqueIndex:idx_structure_item_material" json:"raw_material_id"`
	RawMaterial   *catalog.RawMaterial `gorm:"foreignKey:RawMaterialID;references:ID" json:"raw_material,omitempty"`

	QtyPerBatchG decimal.Decimal `gorm:"column:qty_per_batch_g;type:numeric(14,3);not null" json:"qty_per_batch_g"`
	Unit         string          `gorm:"column:unit;not null;default:'g'" json:"unit"`
}

func (StructureItem) TableName() string { return "structure_item" }
