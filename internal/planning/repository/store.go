package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/agroplan/planner/internal/planning/domain"
	"github.com/agroplan/planner/internal/planning/engine"
)

// GormPlanningStore is the allocation engine's persistence collaborator:
// reference lookups for the evaluation phase and the atomic multi-row write
// for the commit phase.
type GormPlanningStore struct {
	db *gorm.DB
}

// NewGormPlanningStore creates a new planning store
func NewGormPlanningStore(db *gorm.DB) *GormPlanningStore {
	return &GormPlanningStore{db: db}
}

var _ engine.Store = (*GormPlanningStore)(nil)
var _ domain.AllocationStore = (*GormPlanningStore)(nil)

// Product resolves a product and the capacity of its owning department
func (s *GormPlanningStore) Product(ctx context.Context, id uint) (*engine.Product, error) {
	var product domain.Product
	err := s.db.WithContext(ctx).Preload("Department").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", id, domain.ErrReferenceNotFound)
	}
	if err != nil {
		return nil, err
	}
	if product.Department == nil {
		return nil, fmt.Errorf("department %d: %w", product.DepartmentID, domain.ErrReferenceNotFound)
	}
	return &engine.Product{
		ID:            product.ID,
		Name:          product.Name,
		Active:        product.IsActive,
		DepartmentID:  product.DepartmentID,
		Department:    product.Department.Name,
		AverageOutput: product.Department.AverageOutput,
	}, nil
}

// RecipeLines returns the bill of materials for a product, joined to
// material names
func (s *GormPlanningStore) RecipeLines(ctx context.Context, productID uint) ([]engine.RecipeLine, error) {
	var rows []struct {
		Name             string
		RequiredQuantity int
	}
	err := s.db.WithContext(ctx).
		Table("recipes").
		Select("raw_materials.name, recipes.required_quantity").
		Joins("JOIN raw_materials ON raw_materials.id = recipes.material_id").
		Where("recipes.product_id = ?", productID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	lines := make([]engine.RecipeLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, engine.RecipeLine{MaterialName: row.Name, PerUnit: row.RequiredQuantity})
	}
	return lines, nil
}

// StockQuantities loads current quantities for exactly the named materials
func (s *GormPlanningStore) StockQuantities(ctx context.Context, names []string) (map[string]int, error) {
	quantities := make(map[string]int, len(names))
	if len(names) == 0 {
		return quantities, nil
	}

	var rows []struct {
		Name     string
		Quantity int
	}
	err := s.db.WithContext(ctx).
		Model(&domain.RawMaterial{}).
		Select("name, quantity").
		Where("name IN ?", names).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		quantities[row.Name] = row.Quantity
	}
	return quantities, nil
}

// OverlappingPlans returns committed plans on the department whose order
// windows intersect the given window
func (s *GormPlanningStore) OverlappingPlans(ctx context.Context, departmentID uint, start, end time.Time) ([]engine.CommittedPlan, error) {
	var rows []struct {
		PlannedQuantity int
		StartDate       time.Time
		EndDate         time.Time
	}
	err := s.db.WithContext(ctx).
		Table("production_plans").
		Select("production_plans.planned_quantity, orders.start_date, orders.end_date").
		Joins("JOIN orders ON orders.id = production_plans.order_id").
		Joins("JOIN products ON products.id = production_plans.product_id").
		Where("products.department_id = ?", departmentID).
		Where("orders.end_date >= ? AND orders.start_date <= ?", start, end).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	plans := make([]engine.CommittedPlan, 0, len(rows))
	for _, row := range rows {
		plans = append(plans, engine.CommittedPlan{
			PlannedQuantity: row.PlannedQuantity,
			Start:           row.StartDate,
			End:             row.EndDate,
		})
	}
	return plans, nil
}

// SaveAllocation writes the stock decrements and new plan rows of one pass
// in a single transaction. Any failure rolls the whole pass back.
func (s *GormPlanningStore) SaveAllocation(ctx context.Context, updates []domain.StockUpdate, plans []*domain.ProductionPlan) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, update := range updates {
			res := tx.Model(&domain.RawMaterial{}).
				Where("name = ?", update.MaterialName).
				Update("quantity", update.NewQuantity)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("material %q: %w", update.MaterialName, domain.ErrReferenceNotFound)
			}
		}
		if len(plans) > 0 {
			if err := tx.Create(plans).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
