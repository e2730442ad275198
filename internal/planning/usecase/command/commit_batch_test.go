package command_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroplan/planner/internal/planning/domain"
	"github.com/agroplan/planner/internal/planning/engine"
	"github.com/agroplan/planner/internal/planning/repository/memory"
	"github.com/agroplan/planner/internal/planning/usecase/command"
)

var (
	commitStart = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	commitEnd   = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
)

type recordedNotification struct {
	batchID string
	orderID uint
}

type fakeNotifier struct {
	notifications []recordedNotification
	err           error
}

func (n *fakeNotifier) PlanCommitted(_ context.Context, batchID string, order domain.Order, _ *domain.ProductionPlan) error {
	n.notifications = append(n.notifications, recordedNotification{batchID: batchID, orderID: order.ID})
	return n.err
}

type fakeInvalidator struct {
	calls int
}

func (i *fakeInvalidator) Invalidate(context.Context) {
	i.calls++
}

func seedBatch(t *testing.T, orders *memory.OrderRepository, quantities ...int) {
	t.Helper()
	for _, qty := range quantities {
		require.NoError(t, orders.Create(&domain.Order{
			BatchID:   "batch-1",
			ProductID: 1,
			StartDate: commitStart,
			EndDate:   commitEnd,
			Quantity:  qty,
		}))
	}
}

func commitStore() *memory.Store {
	store := memory.NewStore()
	store.AddProduct(engine.Product{
		ID: 1, Name: "tractor", Active: true,
		DepartmentID: 1, Department: "assembly", AverageOutput: 100,
	})
	store.AddRecipeLine(1, engine.RecipeLine{MaterialName: "steel", PerUnit: 10})
	store.SetStock("steel", 500)
	return store
}

func TestCommitBatchPersistsAllocation(t *testing.T) {
	orders := memory.NewOrderRepository()
	seedBatch(t, orders, 20, 10)
	store := commitStore()
	notifier := &fakeNotifier{}
	invalidator := &fakeInvalidator{}

	handler := command.NewCommitBatchHandler(orders, engine.New(store), store, notifier, invalidator)

	result, err := handler.Handle(context.Background(), command.CommitBatchCommand{BatchID: "batch-1"})
	require.NoError(t, err)
	require.Len(t, result.Verdicts, 2)
	require.Len(t, result.Plans, 2)

	assert.Equal(t, engine.KindFeasible, result.Verdicts[0].Kind)
	assert.Equal(t, engine.KindFeasible, result.Verdicts[1].Kind)

	// 30 units at 10 steel each leave 200 of the 500 in stock.
	assert.Equal(t, 200, store.StockQuantity("steel"))
	assert.Len(t, store.SavedPlans(), 2)

	require.Len(t, notifier.notifications, 2)
	assert.Equal(t, "batch-1", notifier.notifications[0].batchID)
	assert.Equal(t, 1, invalidator.calls)
}

func TestCommitBatchShortageCausesNoSideEffect(t *testing.T) {
	orders := memory.NewOrderRepository()
	seedBatch(t, orders, 20, 45)
	store := commitStore()
	notifier := &fakeNotifier{}

	handler := command.NewCommitBatchHandler(orders, engine.New(store), store, notifier, nil)

	result, err := handler.Handle(context.Background(), command.CommitBatchCommand{BatchID: "batch-1"})
	require.NoError(t, err)

	// Only the first order fits the stock; the second commits nothing.
	assert.Equal(t, engine.KindFeasible, result.Verdicts[0].Kind)
	assert.Equal(t, engine.KindShortage, result.Verdicts[1].Kind)
	assert.Len(t, store.SavedPlans(), 1)
	assert.Equal(t, 300, store.StockQuantity("steel"))
	assert.Len(t, notifier.notifications, 1)
}

func TestCommitBatchPersistenceFailureRollsBack(t *testing.T) {
	orders := memory.NewOrderRepository()
	seedBatch(t, orders, 20)
	store := commitStore()
	store.SaveErr = errors.New("connection reset")
	notifier := &fakeNotifier{}

	handler := command.NewCommitBatchHandler(orders, engine.New(store), store, notifier, nil)

	_, err := handler.Handle(context.Background(), command.CommitBatchCommand{BatchID: "batch-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist allocation")

	assert.Equal(t, 500, store.StockQuantity("steel"))
	assert.Empty(t, store.SavedPlans())
	assert.Empty(t, notifier.notifications)
}

func TestCommitBatchNotifierFailureDoesNotFailCommit(t *testing.T) {
	orders := memory.NewOrderRepository()
	seedBatch(t, orders, 20)
	store := commitStore()
	notifier := &fakeNotifier{err: errors.New("broker unavailable")}

	handler := command.NewCommitBatchHandler(orders, engine.New(store), store, notifier, nil)

	result, err := handler.Handle(context.Background(), command.CommitBatchCommand{BatchID: "batch-1"})
	require.NoError(t, err)
	assert.Len(t, result.Plans, 1)
	assert.Equal(t, 300, store.StockQuantity("steel"))
}

func TestCommitBatchUnknownBatch(t *testing.T) {
	store := commitStore()
	handler := command.NewCommitBatchHandler(memory.NewOrderRepository(), engine.New(store), store, nil, nil)

	_, err := handler.Handle(context.Background(), command.CommitBatchCommand{BatchID: "missing"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = handler.Handle(context.Background(), command.CommitBatchCommand{})
	require.Error(t, err)
}
