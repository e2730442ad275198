package domain

import (
	"time"

	"gorm.io/gorm"
)

// Order represents a request to produce a quantity of a product within a
// date window. EndDate is the deadline, StartDate the earliest start.
// BatchID groups orders entered together; allocation treats each order
// independently, in batch order.
type Order struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	BatchID   string         `json:"batch_id" gorm:"not null;index"`
	ProductID uint           `json:"product_id" gorm:"not null;index"`
	Product   *Product       `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	StartDate time.Time      `json:"start_date" gorm:"type:date;not null"`
	EndDate   time.Time      `json:"end_date" gorm:"type:date;not null"`
	Quantity  int            `json:"quantity" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Order) TableName() string {
	return "orders"
}

// OrderRepository defines the contract for order data access
type OrderRepository interface {
	Create(order *Order) error
	CreateBatch(orders []*Order) error
	FindByID(id uint) (*Order, error)
	FindByBatchID(batchID string) ([]Order, error)
	FindAll(limit, offset int) ([]Order, error)
	ExistsForProductAndStart(productID uint, startDate time.Time) (bool, error)
	ListBatches() ([]BatchSummary, error)
}

// BatchSummary is one row of the batch listing: a batch identifier and
// how many orders it contains.
type BatchSummary struct {
	BatchID    string `json:"batch_id"`
	OrderCount int    `json:"order_count"`
}
