package engine

import (
	"context"
	"fmt"
)

// AggregateRequirements expands every order's product into its recipe lines
// and sums required_quantity * order.quantity per material name across the
// whole batch. The returned map's key set is exactly the set of materials
// referenced by any order's recipe; a product with no recipe lines
// contributes nothing. An unknown product reference fails the call.
func AggregateRequirements(ctx context.Context, store Store, orders []Order) (map[string]int, error) {
	totals := make(map[string]int)
	lineCache := make(map[uint][]RecipeLine)

	for _, o := range orders {
		lines, ok := lineCache[o.ProductID]
		if !ok {
			if _, err := store.Product(ctx, o.ProductID); err != nil {
				return nil, fmt.Errorf("aggregate requirements for order %d: %w", o.ID, err)
			}
			fetched, err := store.RecipeLines(ctx, o.ProductID)
			if err != nil {
				return nil, fmt.Errorf("recipe lines for product %d: %w", o.ProductID, err)
			}
			lineCache[o.ProductID] = fetched
			lines = fetched
		}
		for _, line := range lines {
			totals[line.MaterialName] += line.PerUnit * o.Quantity
		}
	}
	return totals, nil
}
