package catalog

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name   string    `gorm:"column:name;not null" json:"name"`
	Code   string    `gorm:"column:code;not null;uniqueIndex" json:"code"`
	Active bool      `gorm:"column:active;not null;default:true" json:"active"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Product) TableName() string { return "product" }
