package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agroplan/planner/internal/planning/domain"
)

const dateLayout = "2006-01-02"

// OrderInput is one order of an import payload, JSON-object-per-order
type OrderInput struct {
	Product   uint   `json:"product"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Quantity  int    `json:"quantity"`
}

// ImportOrdersCommand represents the command to register a batch of orders
type ImportOrdersCommand struct {
	BatchID string
	Items   []OrderInput
}

// ImportResult reports the batch identifier and how many orders were created
type ImportResult struct {
	BatchID string `json:"batch_id"`
	Created int    `json:"created"`
}

// ImportOrdersHandler handles the import orders command. The whole payload
// is validated before anything is written: one bad item rejects the import.
type ImportOrdersHandler struct {
	orders   domain.OrderRepository
	products domain.ProductRepository
}

// NewImportOrdersHandler creates a new import orders handler
func NewImportOrdersHandler(orders domain.OrderRepository, products domain.ProductRepository) *ImportOrdersHandler {
	return &ImportOrdersHandler{orders: orders, products: products}
}

// Handle executes the import orders command
func (h *ImportOrdersHandler) Handle(_ context.Context, cmd ImportOrdersCommand) (*ImportResult, error) {
	if len(cmd.Items) == 0 {
		return nil, fmt.Errorf("no orders to import")
	}

	batchID := cmd.BatchID
	if batchID == "" {
		batchID = uuid.NewString()
	}

	orders := make([]*domain.Order, 0, len(cmd.Items))
	seen := make(map[string]bool, len(cmd.Items))
	for i, item := range cmd.Items {
		order, err := h.buildOrder(batchID, item)
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", i+1, err)
		}
		key := fmt.Sprintf("%d|%s", item.Product, item.StartDate)
		if seen[key] {
			return nil, fmt.Errorf("order %d: product %d starting %s: %w", i+1, item.Product, item.StartDate, domain.ErrDuplicateOrder)
		}
		seen[key] = true
		orders = append(orders, order)
	}

	if err := h.orders.CreateBatch(orders); err != nil {
		return nil, fmt.Errorf("create orders: %w", err)
	}
	return &ImportResult{BatchID: batchID, Created: len(orders)}, nil
}

func (h *ImportOrdersHandler) buildOrder(batchID string, item OrderInput) (*domain.Order, error) {
	if item.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	start, err := time.Parse(dateLayout, item.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date %q", item.StartDate)
	}
	end, err := time.Parse(dateLayout, item.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date %q", item.EndDate)
	}
	if end.Before(start) {
		return nil, domain.ErrInvalidWindow
	}

	if _, err := h.products.FindByID(item.Product); err != nil {
		return nil, fmt.Errorf("product %d: %w", item.Product, domain.ErrReferenceNotFound)
	}

	exists, err := h.orders.ExistsForProductAndStart(item.Product, start)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("product %d starting %s: %w", item.Product, item.StartDate, domain.ErrDuplicateOrder)
	}

	return &domain.Order{
		BatchID:   batchID,
		ProductID: item.Product,
		StartDate: start,
		EndDate:   end,
		Quantity:  item.Quantity,
	}, nil
}
