package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/agroplan/planner/internal/planning/domain"
)

// GormOrderRepository persists management orders
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(order *domain.Order) error {
	return r.db.Create(order).Error
}

func (r *GormOrderRepository) CreateBatch(orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	return r.db.Create(orders).Error
}

func (r *GormOrderRepository) FindByID(id uint) (*domain.Order, error) {
	var order domain.Order
	if err := r.db.Preload("Product.Department").First(&order, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &order, nil
}

// FindByBatchID returns the orders of a batch in insertion order. The order
// matters: allocation gives earlier orders first claim on shared resources.
func (r *GormOrderRepository) FindByBatchID(batchID string) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.Preload("Product.Department").
		Where("batch_id = ?", batchID).
		Order("id ASC").
		Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) FindAll(limit, offset int) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.Preload("Product").Limit(limit).Offset(offset).Order("id ASC").Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) ExistsForProductAndStart(productID uint, startDate time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Order{}).
		Where("product_id = ? AND start_date = ?", productID, startDate).
		Count(&count).Error
	return count > 0, err
}

func (r *GormOrderRepository) ListBatches() ([]domain.BatchSummary, error) {
	var batches []domain.BatchSummary
	err := r.db.Model(&domain.Order{}).
		Select("batch_id, COUNT(id) AS order_count").
		Group("batch_id").
		Order("batch_id ASC").
		Scan(&batches).Error
	return batches, err
}

// GormPlanRepository reads committed production plans
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new plan repository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

func (r *GormPlanRepository) FindByID(id uint) (*domain.ProductionPlan, error) {
	var plan domain.ProductionPlan
	if err := r.db.Preload("Order").Preload("Product").First(&plan, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &plan, nil
}

func (r *GormPlanRepository) FindByBatchID(batchID string) ([]domain.ProductionPlan, error) {
	var plans []domain.ProductionPlan
	err := r.db.Preload("Order").Preload("Product").
		Joins("JOIN orders ON orders.id = production_plans.order_id").
		Where("orders.batch_id = ?", batchID).
		Order("production_plans.id ASC").
		Find(&plans).Error
	return plans, err
}

func (r *GormPlanRepository) FindAll(limit, offset int) ([]domain.ProductionPlan, error) {
	var plans []domain.ProductionPlan
	err := r.db.Preload("Order").Preload("Product").
		Limit(limit).Offset(offset).Order("id ASC").Find(&plans).Error
	return plans, err
}
