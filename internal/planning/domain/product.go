package domain

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a producible product entity
type Product struct {
	ID           uint                  `json:"id" gorm:"primaryKey"`
	Name         string                `json:"name" gorm:"not null;uniqueIndex"`
	DepartmentID uint                  `json:"department_id" gorm:"not null;index"`
	Department   *ProductionDepartment `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
	IsActive     bool                  `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	DeletedAt    gorm.DeletedAt        `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// Recipe represents one bill-of-materials line: the quantity of a single
// raw material needed to produce one unit of a product.
type Recipe struct {
	ID               uint         `json:"id" gorm:"primaryKey"`
	ProductID        uint         `json:"product_id" gorm:"not null;index"`
	Product          *Product     `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	MaterialID       uint         `json:"material_id" gorm:"not null;index"`
	Material         *RawMaterial `json:"material,omitempty" gorm:"foreignKey:MaterialID"`
	RequiredQuantity int          `json:"required_quantity" gorm:"not null"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// TableName specifies the table name
func (Recipe) TableName() string {
	return "recipes"
}

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	Create(product *Product) error
	FindByID(id uint) (*Product, error)
	FindAll(limit, offset int) ([]Product, error)
	Update(product *Product) error
	Delete(id uint) error
}

// RecipeRepository defines the contract for recipe data access
type RecipeRepository interface {
	Create(recipe *Recipe) error
	FindByProductID(productID uint) ([]Recipe, error)
	FindAll(limit, offset int) ([]Recipe, error)
	Delete(id uint) error
}
