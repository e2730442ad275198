package domain

import (
	"context"
	"time"
)

// ProductionPlan represents a committed allocation: one order accepted for
// production. Plans are the ledger of committed department load; once
// created they are read-only inputs to future capacity checks.
type ProductionPlan struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	OrderID         uint      `json:"order_id" gorm:"not null;index"`
	Order           *Order    `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	ProductID       uint      `json:"product_id" gorm:"not null;index"`
	Product         *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	PlannedQuantity int       `json:"planned_quantity" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (ProductionPlan) TableName() string {
	return "production_plans"
}

// PlanRepository defines the contract for production-plan data access
type PlanRepository interface {
	FindByID(id uint) (*ProductionPlan, error)
	FindByBatchID(batchID string) ([]ProductionPlan, error)
	FindAll(limit, offset int) ([]ProductionPlan, error)
}

// StockUpdate is one staged raw-material decrement, keyed by material name.
type StockUpdate struct {
	MaterialName string `json:"material_name"`
	NewQuantity  int    `json:"new_quantity"`
}

// AllocationStore persists the outcome of one allocation pass: the updated
// stock quantities and the new plan rows, written atomically. A failure
// rolls the whole pass back.
type AllocationStore interface {
	SaveAllocation(ctx context.Context, updates []StockUpdate, plans []*ProductionPlan) error
}
