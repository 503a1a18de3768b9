package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	ScaleConnEthernet = "ethernet"
	ScaleConnSerial   = "serial"
	ScaleConnUSB      = "usb"
)

// Scale is a weighing device on the shop floor. Capacity and division are in
// kilograms, matching the device's own display.
type Scale struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name           string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Identifier     string    `gorm:"column:identifier;not null;uniqueIndex" json:"identifier"`
	ConnectionType string    `gorm:"column:connection_type;not null;default:'ethernet'" json:"connection_type"`

	IPAddress  string `gorm:"column:ip_address" json:"ip_address,omitempty"`
	Port       int    `gorm:"column:port" json:"port,omitempty"`
	SerialPort string `gorm:"column:serial_port" json:"serial_port,omitempty"`

	Location          string              `gorm:"column:location" json:"location,omitempty"`
	MaxCapacityKg     decimal.NullDecimal `gorm:"column:max_capacity_kg;type:numeric(10,3)" json:"max_capacity_kg,omitempty"`
	DivisionKg        decimal.NullDecimal `gorm:"column:division_kg;type:numeric(10,3)" json:"division_kg,omitempty"`
	Protocol          string              `gorm:"column:protocol" json:"protocol,omitempty"`
	LastCalibrationAt *datatypes.Date     `gorm:"column:last_calibration_at" json:"last_calibration_at,omitempty"`

	Active    bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Scale) TableName() string { return "scale" }
