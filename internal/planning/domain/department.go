package domain

import (
	"time"

	"gorm.io/gorm"
)

// ProductionDepartment represents a production department entity.
// AverageOutput is the number of units the department can produce
// per 30-day period, pooled across every product it owns.
type ProductionDepartment struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name" gorm:"not null;uniqueIndex"`
	ProductType   string         `json:"product_type"`
	AverageOutput int            `json:"average_output" gorm:"not null"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (ProductionDepartment) TableName() string {
	return "production_departments"
}

// DepartmentRepository defines the contract for department data access
type DepartmentRepository interface {
	Create(department *ProductionDepartment) error
	FindByID(id uint) (*ProductionDepartment, error)
	FindAll(limit, offset int) ([]ProductionDepartment, error)
	Update(department *ProductionDepartment) error
	Delete(id uint) error
}
