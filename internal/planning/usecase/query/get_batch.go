package query

import (
	"context"
	"fmt"

	"github.com/agroplan/planner/internal/planning/domain"
	"github.com/agroplan/planner/internal/planning/engine"
)

// GetBatchQuery represents the query to fetch a batch with its recipes
type GetBatchQuery struct {
	BatchID string
}

// BatchDetails is a batch's orders, the recipes of the products involved
// and the aggregated raw-material requirement of the whole batch.
type BatchDetails struct {
	BatchID           string          `json:"batch_id"`
	Orders            []domain.Order  `json:"orders"`
	Recipes           []domain.Recipe `json:"recipes"`
	RequiredMaterials map[string]int  `json:"required_materials"`
}

// GetBatchHandler handles the get batch query
type GetBatchHandler struct {
	orders  domain.OrderRepository
	recipes domain.RecipeRepository
	store   engine.Store
}

// NewGetBatchHandler creates a new get batch handler
func NewGetBatchHandler(orders domain.OrderRepository, recipes domain.RecipeRepository, store engine.Store) *GetBatchHandler {
	return &GetBatchHandler{orders: orders, recipes: recipes, store: store}
}

// Handle executes the get batch query
func (h *GetBatchHandler) Handle(ctx context.Context, q GetBatchQuery) (*BatchDetails, error) {
	if q.BatchID == "" {
		return nil, fmt.Errorf("batch_id is required")
	}

	orders, err := h.orders.FindByBatchID(q.BatchID)
	if err != nil {
		return nil, fmt.Errorf("load batch %q: %w", q.BatchID, err)
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("batch %q: %w", q.BatchID, domain.ErrNotFound)
	}

	details := &BatchDetails{BatchID: q.BatchID, Orders: orders}

	seen := make(map[uint]bool)
	for _, order := range orders {
		if seen[order.ProductID] {
			continue
		}
		seen[order.ProductID] = true

		recipes, err := h.recipes.FindByProductID(order.ProductID)
		if err != nil {
			return nil, fmt.Errorf("recipes for product %d: %w", order.ProductID, err)
		}
		details.Recipes = append(details.Recipes, recipes...)
	}

	required, err := engine.AggregateRequirements(ctx, h.store, engine.OrdersFromDomain(orders))
	if err != nil {
		return nil, fmt.Errorf("aggregate requirements for batch %q: %w", q.BatchID, err)
	}
	details.RequiredMaterials = required
	return details, nil
}
