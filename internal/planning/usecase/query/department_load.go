package query

import (
	"context"
	"fmt"
	"time"

	"github.com/agroplan/planner/internal/planning/domain"
)

const dateLayout = "2006-01-02"

// OrderLoad is one order's contribution to a department's schedule
type OrderLoad struct {
	OrderID       uint   `json:"order_id"`
	BatchID       string `json:"batch_id"`
	Product       string `json:"product"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Quantity      int    `json:"quantity"`
	MonthlyOutput int    `json:"monthly_output"`
}

// DepartmentLoad groups the pending orders of one department
type DepartmentLoad struct {
	Department string      `json:"department"`
	Load       []OrderLoad `json:"load"`
}

// DepartmentLoadReport is the schedule overview across all departments,
// with a display axis spanning one month either side of today.
type DepartmentLoadReport struct {
	StartDate   string           `json:"start_date"`
	EndDate     string           `json:"end_date"`
	Departments []DepartmentLoad `json:"departments"`
}

// DepartmentLoadHandler handles the department load report query
type DepartmentLoadHandler struct {
	departments domain.DepartmentRepository
	orders      domain.OrderRepository
	now         func() time.Time
}

// NewDepartmentLoadHandler creates a new department load handler
func NewDepartmentLoadHandler(departments domain.DepartmentRepository, orders domain.OrderRepository) *DepartmentLoadHandler {
	return &DepartmentLoadHandler{departments: departments, orders: orders, now: time.Now}
}

// Handle executes the department load query
func (h *DepartmentLoadHandler) Handle(_ context.Context) (*DepartmentLoadReport, error) {
	departments, err := h.departments.FindAll(-1, 0)
	if err != nil {
		return nil, fmt.Errorf("load departments: %w", err)
	}

	orders, err := h.orders.FindAll(-1, 0)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	now := h.now()
	report := &DepartmentLoadReport{
		StartDate: now.AddDate(0, 0, -30).Format(dateLayout),
		EndDate:   now.AddDate(0, 0, 30).Format(dateLayout),
	}

	for _, department := range departments {
		load := DepartmentLoad{Department: department.Name, Load: []OrderLoad{}}
		for _, order := range orders {
			if order.Product == nil || order.Product.DepartmentID != department.ID {
				continue
			}
			load.Load = append(load.Load, OrderLoad{
				OrderID:       order.ID,
				BatchID:       order.BatchID,
				Product:       order.Product.Name,
				StartDate:     order.StartDate.Format(dateLayout),
				EndDate:       order.EndDate.Format(dateLayout),
				Quantity:      order.Quantity,
				MonthlyOutput: department.AverageOutput,
			})
		}
		report.Departments = append(report.Departments, load)
	}
	return report, nil
}
