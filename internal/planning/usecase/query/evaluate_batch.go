package query

import (
	"context"
	"fmt"

	"github.com/agroplan/planner/internal/planning/domain"
	"github.com/agroplan/planner/internal/planning/engine"
)

// EvaluateBatchQuery represents the query to evaluate a batch of orders
// without persisting anything
type EvaluateBatchQuery struct {
	BatchID string
}

// EvaluateBatchHandler handles the evaluate batch query. It is the what-if
// half of the planner: same algorithm as the commit, no side effects.
type EvaluateBatchHandler struct {
	orders domain.OrderRepository
	engine *engine.Engine
}

// NewEvaluateBatchHandler creates a new evaluate batch handler
func NewEvaluateBatchHandler(orders domain.OrderRepository, eng *engine.Engine) *EvaluateBatchHandler {
	return &EvaluateBatchHandler{orders: orders, engine: eng}
}

// Handle executes the evaluate batch query
func (h *EvaluateBatchHandler) Handle(ctx context.Context, q EvaluateBatchQuery) (*engine.Result, error) {
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

	result, err := h.engine.Evaluate(ctx, engine.OrdersFromDomain(orders))
	if err != nil {
		return nil, fmt.Errorf("evaluate batch %q: %w", q.BatchID, err)
	}
	return result, nil
}
