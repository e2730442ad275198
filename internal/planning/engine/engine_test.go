package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroplan/planner/internal/planning/domain"
	"github.com/agroplan/planner/internal/planning/engine"
	"github.com/agroplan/planner/internal/planning/repository/memory"
)

var (
	sep1 = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	oct1 = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
)

func tractorStore() *memory.Store {
	store := memory.NewStore()
	store.AddProduct(engine.Product{
		ID: 1, Name: "tractor", Active: true,
		DepartmentID: 1, Department: "assembly", AverageOutput: 100,
	})
	store.AddRecipeLine(1, engine.RecipeLine{MaterialName: "steel", PerUnit: 10})
	store.SetStock("steel", 1000)
	return store
}

func TestEvaluateFeasibleAtCapacityBoundary(t *testing.T) {
	store := tractorStore()
	eng := engine.New(store)

	// Exactly one month of work in a thirty day window.
	result, err := eng.Evaluate(context.Background(), []engine.Order{
		{ID: 1, ProductID: 1, Start: sep1, End: oct1, Quantity: 100},
	})
	require.NoError(t, err)
	require.Len(t, result.Verdicts, 1)

	verdict := result.Verdicts[0]
	assert.Equal(t, engine.KindFeasible, verdict.Kind)
	assert.Equal(t, "tractor", verdict.Product)
	assert.Equal(t, 100, verdict.PlannedQty)
	assert.InDelta(t, 1.0, verdict.RequiredMonths, 1e-9)

	require.Len(t, result.Plans, 1)
	assert.Equal(t, uint(1), result.Plans[0].OrderID)
	assert.Equal(t, 100, result.Plans[0].PlannedQuantity)

	require.Len(t, result.StockUpdates, 1)
	assert.Equal(t, domain.StockUpdate{MaterialName: "steel", NewQuantity: 0}, result.StockUpdates[0])
}

func TestEvaluateShortage(t *testing.T) {
	store := tractorStore()
	store.SetStock("steel", 5)
	eng := engine.New(store)

	result, err := eng.Evaluate(context.Background(), []engine.Order{
		{ID: 1, ProductID: 1, Start: sep1, End: oct1, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, result.Verdicts, 1)

	verdict := result.Verdicts[0]
	assert.Equal(t, engine.KindShortage, verdict.Kind)
	assert.Equal(t, map[string]int{"steel": 5}, verdict.Shortages)
	assert.Empty(t, result.Plans)
	assert.Empty(t, result.StockUpdates)
}

func TestEvaluateCollectsAllShortages(t *testing.T) {
	store := memory.NewStore()
	store.AddProduct(engine.Product{
		ID: 1, Name: "harvester", Active: true,
		DepartmentID: 1, Department: "assembly", AverageOutput: 50,
	})
	store.AddRecipeLine(1, engine.RecipeLine{MaterialName: "steel", PerUnit: 10})
	store.AddRecipeLine(1, engine.RecipeLine{MaterialName: "glass", PerUnit: 4})
	store.AddRecipeLine(1, engine.RecipeLine{MaterialName: "rubber", PerUnit: 2})
	store.SetStock("steel", 3)
	store.SetStock("glass", 1)
	store.SetStock("rubber", 100)
	eng := engine.New(store)

	result, err := eng.Evaluate(context.Background(), []engine.Order{
		{ID: 1, ProductID: 1, Start: sep1, End: oct1, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, result.Verdicts, 1)

	// Both deficits reported, the sufficient material absent.
	assert.Equal(t, map[string]int{"steel": 7, "glass": 3}, result.Verdicts[0].Shortages)
}

func TestEvaluatePartialSufficiencyReservesNothing(t *testing.T) {
	store := memory.NewStore()
	store.AddProduct(engine.Product{
		ID: 1, Name: "harvester", Active: true,
		DepartmentID: 1, Department: "assembly", AverageOutput: 100,
	})
	store.AddRecipeLine(1, engine.RecipeLine{MaterialName: "steel", PerUnit: 10})
	store.AddRecipeLine(1, engine.RecipeLine{MaterialName: "glass", PerUnit: 5})
	store.AddProduct(engine.Product{
		ID: 2, Name: "plow", Active: true,
		DepartmentID: 2, Department: "forging", AverageOutput: 100,
	})
	store.AddRecipeLine(2, engine.RecipeLine{MaterialName: "steel", PerUnit: 10})
	store.SetStock("steel", 10)
	store.SetStock("glass", 0)
	eng := engine.New(store)

	result, err := eng.Evaluate(context.Background(), []engine.Order{
		{ID: 1, ProductID: 1, Start: sep1, End: oct1, Quantity: 1},
		{ID: 2, ProductID: 2, Start: sep1, End: oct1, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, result.Verdicts, 2)

	// The first order is short on glass and must not hold the steel it
	// could have claimed: the second order still gets it.
	assert.Equal(t, engine.KindShortage, result.Verdicts[0].Kind)
	assert.Equal(t, engine.KindFeasible, result.Verdicts[1].Kind)
}

func TestEvaluateOrderPrecedence(t *testing.T) {
	first := engine.Order{ID: 1, ProductID: 1, Start: sep1, End: oct1, Quantity: 60}
	second := engine.Order{ID: 2, ProductID: 1, Start: sep1, End: oct1, Quantity: 60}

	run := func(orders []engine.Order) *engine.Result {
		store := tractorStore()
		store.SetStock("steel", 600)
		result, err := engine.New(store).Evaluate(context.Background(), orders)
		require.NoError(t, err)
		return result
	}

	// Stock covers only one of the two orders; the earlier one wins.
	result := run([]engine.Order{first, second})
	assert.Equal(t, engine.KindFeasible, result.Verdicts[0].Kind)
	assert.Equal(t, engine.KindShortage, result.Verdicts[1].Kind)

	result = run([]engine.Order{second, first})
	assert.Equal(t, uint(2), result.Verdicts[0].OrderID)
	assert.Equal(t, engine.KindFeasible, result.Verdicts[0].Kind)
	assert.Equal(t, engine.KindShortage, result.Verdicts[1].Kind)
}

func TestEvaluateIsPure(t *testing.T) {
	store := tractorStore()
	eng := engine.New(store)
	orders := []engine.Order{
		{ID: 1, ProductID: 1, Start: sep1, End: oct1, Quantity: 10},
	}

	one, err := eng.Evaluate(context.Background(), orders)
	require.NoError(t, err)
	two, err := eng.Evaluate(context.Background(), orders)
	require.NoError(t, err)

	assert.Equal(t, one.Verdicts, two.Verdicts)
	assert.Equal(t, one.StockUpdates, two.StockUpdates)
	assert.Equal(t, 1000, store.StockQuantity("steel"))
	assert.Empty(t, store.SavedPlans())
}

func TestEvaluateStockConservation(t *testing.T) {
	store := memory.NewStore()
	store.AddProduct(engine.Product{
		ID: 1, Name: "tractor", Active: true,
		DepartmentID: 1, Department: "assembly", AverageOutput: 100,
	})
	store.AddRecipeLine(1, engine.RecipeLine{MaterialName: "steel", PerUnit: 10})
	store.AddRecipeLine(1, engine.RecipeLine{MaterialName: "glass", PerUnit: 2})
	store.SetStock("steel", 100)
	store.SetStock("glass", 100)
	eng := engine.New(store)

	result, err := eng.Evaluate(context.Background(), []engine.Order{
		{ID: 1, ProductID: 1, Start: sep1, End: oct1, Quantity: 4},
		{ID: 2, ProductID: 1, Start: sep1, End: oct1, Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, result.Plans, 2)

	// 7 units total: 70 steel, 14 glass. Updates come back name-sorted.
	require.Len(t, result.StockUpdates, 2)
	assert.Equal(t, domain.StockUpdate{MaterialName: "glass", NewQuantity: 86}, result.StockUpdates[0])
	assert.Equal(t, domain.StockUpdate{MaterialName: "steel", NewQuantity: 30}, result.StockUpdates[1])
}

func TestEvaluateZeroRecipeLines(t *testing.T) {
	store := memory.NewStore()
	store.AddProduct(engine.Product{
		ID: 1, Name: "service-hour", Active: true,
		DepartmentID: 1, Department: "maintenance", AverageOutput: 10,
	})
	eng := engine.New(store)

	result, err := eng.Evaluate(context.Background(), []engine.Order{
		{ID: 1, ProductID: 1, Start: sep1, End: oct1, Quantity: 5},
	})
	require.NoError(t, err)
	require.Len(t, result.Verdicts, 1)

	assert.Equal(t, engine.KindFeasible, result.Verdicts[0].Kind)
	assert.Empty(t, result.StockUpdates)
}

func TestEvaluateLateWithContention(t *testing.T) {
	store := tractorStore()
	store.AddProduct(engine.Product{
		ID: 2, Name: "combine", Active: true,
		DepartmentID: 2, Department: "heavy-assembly", AverageOutput: 60,
	})
	store.AddRecipeLine(2, engine.RecipeLine{MaterialName: "steel", PerUnit: 1})
	store.AddCommittedPlan(2, 30, sep1, oct1)
	eng := engine.New(store)

	result, err := eng.Evaluate(context.Background(), []engine.Order{
		{ID: 1, ProductID: 2, Start: sep1, End: oct1, Quantity: 40},
	})
	require.NoError(t, err)
	require.Len(t, result.Verdicts, 1)

	// The committed plan eats 30 units/month of the 60 available, leaving
	// room for 30 in the window against the 40 requested.
	verdict := result.Verdicts[0]
	assert.Equal(t, engine.KindLate, verdict.Kind)
	assert.InDelta(t, 40.0/60.0, verdict.RequiredMonths, 1e-9)
	assert.InDelta(t, 40.0/30.0-40.0/60.0, verdict.Delay, 1e-9)
	assert.Empty(t, result.Plans)
	assert.Empty(t, result.StockUpdates)
}

func TestEvaluateFullyBookedDepartment(t *testing.T) {
	store := tractorStore()
	store.AddCommittedPlan(1, 100, sep1, oct1)
	eng := engine.New(store)

	result, err := eng.Evaluate(context.Background(), []engine.Order{
		{ID: 1, ProductID: 1, Start: sep1, End: oct1, Quantity: 10},
	})
	require.NoError(t, err)
	require.Len(t, result.Verdicts, 1)

	verdict := result.Verdicts[0]
	assert.Equal(t, engine.KindLate, verdict.Kind)
	assert.InDelta(t, verdict.RequiredMonths, verdict.Delay, 1e-9)
}

func TestEvaluateNonOverlappingPlanIgnored(t *testing.T) {
	store := tractorStore()
	store.AddCommittedPlan(1,
		500,
		time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	)
	eng := engine.New(store)

	result, err := eng.Evaluate(context.Background(), []engine.Order{
		{ID: 1, ProductID: 1, Start: sep1, End: oct1, Quantity: 100},
	})
	require.NoError(t, err)
	assert.Equal(t, engine.KindFeasible, result.Verdicts[0].Kind)
}

func TestEvaluateLateOrderStillReservesWithinPass(t *testing.T) {
	store := tractorStore()
	store.SetStock("steel", 1000)
	store.AddCommittedPlan(1, 100, sep1, oct1)
	eng := engine.New(store)

	// The first order is late on capacity but its material claim still
	// holds for the rest of the pass; only feasible decrements are staged.
	result, err := eng.Evaluate(context.Background(), []engine.Order{
		{ID: 1, ProductID: 1, Start: sep1, End: oct1, Quantity: 100},
		{ID: 2, ProductID: 1, Start: sep1, End: oct1, Quantity: 10},
	})
	require.NoError(t, err)
	require.Len(t, result.Verdicts, 2)

	assert.Equal(t, engine.KindLate, result.Verdicts[0].Kind)
	assert.Equal(t, engine.KindShortage, result.Verdicts[1].Kind)
	assert.Equal(t, map[string]int{"steel": 100}, result.Verdicts[1].Shortages)
	assert.Empty(t, result.StockUpdates)
}

func TestEvaluateRejections(t *testing.T) {
	store := tractorStore()
	store.AddProduct(engine.Product{
		ID: 3, Name: "retired-model", Active: false,
		DepartmentID: 1, Department: "assembly", AverageOutput: 100,
	})
	store.AddProduct(engine.Product{
		ID: 4, Name: "prototype", Active: true,
		DepartmentID: 5, Department: "research", AverageOutput: 0,
	})
	eng := engine.New(store)

	tests := []struct {
		name  string
		order engine.Order
	}{
		{"zero quantity", engine.Order{ID: 1, ProductID: 1, Start: sep1, End: oct1, Quantity: 0}},
		{"negative quantity", engine.Order{ID: 2, ProductID: 1, Start: sep1, End: oct1, Quantity: -3}},
		{"inverted window", engine.Order{ID: 3, ProductID: 1, Start: oct1, End: sep1, Quantity: 10}},
		{"unknown product", engine.Order{ID: 4, ProductID: 99, Start: sep1, End: oct1, Quantity: 10}},
		{"inactive product", engine.Order{ID: 5, ProductID: 3, Start: sep1, End: oct1, Quantity: 10}},
		{"no department capacity", engine.Order{ID: 6, ProductID: 4, Start: sep1, End: oct1, Quantity: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := eng.Evaluate(context.Background(), []engine.Order{
				tt.order,
				{ID: 100, ProductID: 1, Start: sep1, End: oct1, Quantity: 10},
			})
			require.NoError(t, err)
			require.Len(t, result.Verdicts, 2)

			assert.Equal(t, engine.KindRejected, result.Verdicts[0].Kind)
			assert.NotEmpty(t, result.Verdicts[0].Reason)
			assert.Equal(t, engine.KindFeasible, result.Verdicts[1].Kind)
		})
	}
}

func TestEvaluateWindowMode(t *testing.T) {
	store := tractorStore()
	store.SetStock("steel", 2000)
	// Ignored in window mode even though it books the department solid.
	store.AddCommittedPlan(1, 1000, sep1, oct1)
	eng := engine.NewWithMode(store, engine.CapacityWindow)

	sep16 := time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)

	result, err := eng.Evaluate(context.Background(), []engine.Order{
		{ID: 1, ProductID: 1, Start: sep1, End: oct1, Quantity: 100},
		{ID: 2, ProductID: 1, Start: sep1, End: sep16, Quantity: 100},
	})
	require.NoError(t, err)
	require.Len(t, result.Verdicts, 2)

	assert.Equal(t, engine.KindFeasible, result.Verdicts[0].Kind)

	// A month of work in a fifteen day window runs fifteen days over.
	late := result.Verdicts[1]
	assert.Equal(t, engine.KindLate, late.Kind)
	assert.InDelta(t, 15.0, late.Delay, 1e-9)
}
