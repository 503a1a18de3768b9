package identity

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleOperator   = "operator"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email        string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Role         string    `gorm:"column:role;not null;default:'operator'" json:"role"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string { return "app_user" }

// OperatorProfile is created explicitly in the same call that creates the
// user; there is no post-save hook.
type OperatorProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Badge  string    `gorm:"column:badge;not null;default:''" json:"badge"`
	Sector string    `gorm:"column:sector;not null;default:''" json:"sector"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (OperatorProfile) TableName() string { return "operator_profile" }
