package command

import (
	"context"
	"fmt"
	"sync"

	"github.com/agroplan/planner/internal/planning/domain"
	"github.com/agroplan/planner/internal/planning/engine"
	"github.com/agroplan/planner/pkg/logger"
)

// PlanNotifier is told about every plan created by a committed pass.
// Notification is best-effort and never affects the commit outcome.
type PlanNotifier interface {
	PlanCommitted(ctx context.Context, batchID string, order domain.Order, plan *domain.ProductionPlan) error
}

// ReportInvalidator drops cached read models that a commit makes stale
type ReportInvalidator interface {
	Invalidate(ctx context.Context)
}

// CommitBatchCommand represents the command to allocate and persist a batch
type CommitBatchCommand struct {
	BatchID string
}

// CommitResult carries the verdicts of a committed pass plus the concrete
// plan rows it created
type CommitResult struct {
	Verdicts []engine.Verdict         `json:"verdicts"`
	Plans    []*domain.ProductionPlan `json:"plans"`
}

// CommitBatchHandler runs the allocation pass and persists its outcome.
// The whole read-decide-write cycle holds a mutex: two concurrent passes
// must not both see the same pre-decrement stock and both succeed on
// resources that only exist once.
type CommitBatchHandler struct {
	orders      domain.OrderRepository
	engine      *engine.Engine
	store       domain.AllocationStore
	notifier    PlanNotifier
	invalidator ReportInvalidator

	mu sync.Mutex
}

// NewCommitBatchHandler creates a new commit batch handler. The notifier
// and invalidator may be nil.
func NewCommitBatchHandler(
	orders domain.OrderRepository,
	eng *engine.Engine,
	store domain.AllocationStore,
	notifier PlanNotifier,
	invalidator ReportInvalidator,
) *CommitBatchHandler {
	return &CommitBatchHandler{
		orders:      orders,
		engine:      eng,
		store:       store,
		notifier:    notifier,
		invalidator: invalidator,
	}
}

// Handle executes the commit batch command. Shortage and Late orders cause
// no persisted side effect; a persistence failure rolls back the entire
// pass and is surfaced as one error for the whole batch.
func (h *CommitBatchHandler) Handle(ctx context.Context, cmd CommitBatchCommand) (*CommitResult, error) {
	if cmd.BatchID == "" {
		return nil, fmt.Errorf("batch_id is required")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	orders, err := h.orders.FindByBatchID(cmd.BatchID)
	if err != nil {
		return nil, fmt.Errorf("load batch %q: %w", cmd.BatchID, err)
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("batch %q: %w", cmd.BatchID, domain.ErrNotFound)
	}

	result, err := h.engine.Evaluate(ctx, engine.OrdersFromDomain(orders))
	if err != nil {
		return nil, fmt.Errorf("evaluate batch %q: %w", cmd.BatchID, err)
	}

	if err := h.store.SaveAllocation(ctx, result.StockUpdates, result.Plans); err != nil {
		return nil, fmt.Errorf("persist allocation for batch %q: %w", cmd.BatchID, err)
	}

	logger.Logger.Info().
		Str("batch_id", cmd.BatchID).
		Int("orders", len(orders)).
		Int("plans_created", len(result.Plans)).
		Int("stock_updates", len(result.StockUpdates)).
		Msg("Allocation pass committed")

	h.notify(ctx, cmd.BatchID, orders, result.Plans)

	if h.invalidator != nil {
		h.invalidator.Invalidate(ctx)
	}

	return &CommitResult{Verdicts: result.Verdicts, Plans: result.Plans}, nil
}

func (h *CommitBatchHandler) notify(ctx context.Context, batchID string, orders []domain.Order, plans []*domain.ProductionPlan) {
	if h.notifier == nil {
		return
	}

	byID := make(map[uint]domain.Order, len(orders))
	for _, order := range orders {
		byID[order.ID] = order
	}

	for _, plan := range plans {
		order, ok := byID[plan.OrderID]
		if !ok {
			continue
		}
		if err := h.notifier.PlanCommitted(ctx, batchID, order, plan); err != nil {
			logger.Logger.Warn().
				Err(err).
				Str("batch_id", batchID).
				Uint("order_id", plan.OrderID).
				Msg("Failed to publish plan committed event")
		}
	}
}
