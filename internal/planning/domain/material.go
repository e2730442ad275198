package domain

import (
	"time"

	"gorm.io/gorm"
)

// Warehouse represents a stock location grouping raw materials
type Warehouse struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null;uniqueIndex"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Warehouse) TableName() string {
	return "warehouses"
}

// RawMaterial represents a raw-material stock line. Names are unique:
// recipes join to materials by name when requirements are aggregated.
type RawMaterial struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"not null;uniqueIndex"`
	Quantity    int        `json:"quantity" gorm:"not null;default:0"`
	WarehouseID *uint      `json:"warehouse_id,omitempty" gorm:"index"`
	Warehouse   *Warehouse `json:"warehouse,omitempty" gorm:"foreignKey:WarehouseID"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name
func (RawMaterial) TableName() string {
	return "raw_materials"
}

// MaterialRepository defines the contract for raw-material data access
type MaterialRepository interface {
	Create(material *RawMaterial) error
	FindByID(id uint) (*RawMaterial, error)
	FindByName(name string) (*RawMaterial, error)
	FindAll(limit, offset int) ([]RawMaterial, error)
	Update(material *RawMaterial) error
}

// WarehouseRepository defines the contract for warehouse data access
type WarehouseRepository interface {
	Create(warehouse *Warehouse) error
	FindAll(limit, offset int) ([]Warehouse, error)
}
