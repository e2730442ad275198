package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroplan/planner/internal/planning/domain"
	"github.com/agroplan/planner/internal/planning/engine"
	"github.com/agroplan/planner/internal/planning/repository/memory"
)

func TestAggregateRequirements(t *testing.T) {
	store := memory.NewStore()
	store.AddProduct(engine.Product{ID: 1, Name: "tractor", Active: true, DepartmentID: 1, AverageOutput: 100})
	store.AddProduct(engine.Product{ID: 2, Name: "plow", Active: true, DepartmentID: 2, AverageOutput: 100})
	store.AddRecipeLine(1, engine.RecipeLine{MaterialName: "steel", PerUnit: 10})
	store.AddRecipeLine(1, engine.RecipeLine{MaterialName: "glass", PerUnit: 2})
	store.AddRecipeLine(2, engine.RecipeLine{MaterialName: "steel", PerUnit: 5})

	totals, err := engine.AggregateRequirements(context.Background(), store, []engine.Order{
		{ID: 1, ProductID: 1, Quantity: 3},
		{ID: 2, ProductID: 2, Quantity: 4},
		{ID: 3, ProductID: 1, Quantity: 1},
	})
	require.NoError(t, err)

	// Shared materials are additive across orders and products.
	assert.Equal(t, map[string]int{"steel": 60, "glass": 8}, totals)
}

func TestAggregateRequirementsUnknownProduct(t *testing.T) {
	store := memory.NewStore()

	_, err := engine.AggregateRequirements(context.Background(), store, []engine.Order{
		{ID: 1, ProductID: 42, Quantity: 1},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrReferenceNotFound)
}

func TestAggregateRequirementsNoRecipes(t *testing.T) {
	store := memory.NewStore()
	store.AddProduct(engine.Product{ID: 1, Name: "service-hour", Active: true, DepartmentID: 1, AverageOutput: 10})

	totals, err := engine.AggregateRequirements(context.Background(), store, []engine.Order{
		{ID: 1, ProductID: 1, Quantity: 5},
	})
	require.NoError(t, err)
	assert.Empty(t, totals)
}
