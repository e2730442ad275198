// Package memory provides in-memory implementations of the planning
// persistence contracts, used by tests and local experiments.
package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/agroplan/planner/internal/planning/domain"
	"github.com/agroplan/planner/internal/planning/engine"
)

// Store is an in-memory planning store
type Store struct {
	products map[uint]engine.Product
	recipes  map[uint][]engine.RecipeLine
	stock    map[string]int

	committed []committedPlan
	saved     []*domain.ProductionPlan

	// SaveErr, when set, makes SaveAllocation fail without applying writes.
	SaveErr error
}

type committedPlan struct {
	departmentID uint
	plan         engine.CommittedPlan
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		products: make(map[uint]engine.Product),
		recipes:  make(map[uint][]engine.RecipeLine),
		stock:    make(map[string]int),
	}
}

// Verify interface compliance
var _ engine.Store = (*Store)(nil)
var _ domain.AllocationStore = (*Store)(nil)

// AddProduct registers a product with its owning department's capacity
func (s *Store) AddProduct(p engine.Product) {
	s.products[p.ID] = p
}

// AddRecipeLine appends one bill-of-materials line to a product
func (s *Store) AddRecipeLine(productID uint, line engine.RecipeLine) {
	s.recipes[productID] = append(s.recipes[productID], line)
}

// SetStock sets the current quantity of a material
func (s *Store) SetStock(name string, quantity int) {
	s.stock[name] = quantity
}

// StockQuantity returns the current quantity of a material
func (s *Store) StockQuantity(name string) int {
	return s.stock[name]
}

// AddCommittedPlan seeds an already-committed plan contributing department
// load during its order window
func (s *Store) AddCommittedPlan(departmentID uint, quantity int, start, end time.Time) {
	s.committed = append(s.committed, committedPlan{
		departmentID: departmentID,
		plan:         engine.CommittedPlan{PlannedQuantity: quantity, Start: start, End: end},
	})
}

// SavedPlans returns the plans persisted through SaveAllocation
func (s *Store) SavedPlans() []*domain.ProductionPlan {
	return s.saved
}

func (s *Store) Product(_ context.Context, id uint) (*engine.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, domain.ErrReferenceNotFound)
	}
	return &p, nil
}

func (s *Store) RecipeLines(_ context.Context, productID uint) ([]engine.RecipeLine, error) {
	return s.recipes[productID], nil
}

func (s *Store) StockQuantities(_ context.Context, names []string) (map[string]int, error) {
	quantities := make(map[string]int, len(names))
	for _, name := range names {
		if qty, ok := s.stock[name]; ok {
			quantities[name] = qty
		}
	}
	return quantities, nil
}

func (s *Store) OverlappingPlans(_ context.Context, departmentID uint, start, end time.Time) ([]engine.CommittedPlan, error) {
	var plans []engine.CommittedPlan
	for _, c := range s.committed {
		if c.departmentID != departmentID {
			continue
		}
		if c.plan.End.Before(start) || c.plan.Start.After(end) {
			continue
		}
		plans = append(plans, c.plan)
	}
	return plans, nil
}

func (s *Store) SaveAllocation(_ context.Context, updates []domain.StockUpdate, plans []*domain.ProductionPlan) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	for _, update := range updates {
		s.stock[update.MaterialName] = update.NewQuantity
	}
	s.saved = append(s.saved, plans...)
	return nil
}
