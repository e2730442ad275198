package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroplan/planner/internal/planning/domain"
	"github.com/agroplan/planner/internal/planning/repository/memory"
)

func TestDepartmentLoad(t *testing.T) {
	departments := memory.NewDepartmentRepository()
	require.NoError(t, departments.Create(&domain.ProductionDepartment{Name: "assembly", AverageOutput: 100}))
	require.NoError(t, departments.Create(&domain.ProductionDepartment{Name: "forging", AverageOutput: 40}))

	orders := memory.NewOrderRepository()
	require.NoError(t, orders.Create(&domain.Order{
		BatchID:   "batch-1",
		ProductID: 1,
		Product:   &domain.Product{ID: 1, Name: "tractor", DepartmentID: 1},
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Quantity:  20,
	}))
	require.NoError(t, orders.Create(&domain.Order{
		BatchID:   "batch-2",
		ProductID: 2,
		Product:   &domain.Product{ID: 2, Name: "plow", DepartmentID: 2},
		StartDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
		Quantity:  8,
	}))

	handler := NewDepartmentLoadHandler(departments, orders)
	handler.now = func() time.Time { return time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC) }

	report, err := handler.Handle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2026-08-16", report.StartDate)
	assert.Equal(t, "2026-10-15", report.EndDate)
	require.Len(t, report.Departments, 2)

	assembly := report.Departments[0]
	assert.Equal(t, "assembly", assembly.Department)
	require.Len(t, assembly.Load, 1)
	assert.Equal(t, OrderLoad{
		OrderID:       1,
		BatchID:       "batch-1",
		Product:       "tractor",
		StartDate:     "2026-09-01",
		EndDate:       "2026-10-01",
		Quantity:      20,
		MonthlyOutput: 100,
	}, assembly.Load[0])

	forging := report.Departments[1]
	assert.Equal(t, "forging", forging.Department)
	require.Len(t, forging.Load, 1)
	assert.Equal(t, 40, forging.Load[0].MonthlyOutput)
}

func TestDepartmentLoadEmptyDepartment(t *testing.T) {
	departments := memory.NewDepartmentRepository()
	require.NoError(t, departments.Create(&domain.ProductionDepartment{Name: "idle", AverageOutput: 10}))

	handler := NewDepartmentLoadHandler(departments, memory.NewOrderRepository())

	report, err := handler.Handle(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Departments, 1)
	assert.Empty(t, report.Departments[0].Load)
	assert.NotNil(t, report.Departments[0].Load)
}
