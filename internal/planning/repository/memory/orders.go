package memory

import (
	"time"

	"github.com/agroplan/planner/internal/planning/domain"
)

// OrderRepository is an in-memory order repository
type OrderRepository struct {
	orders []domain.Order
	nextID uint
}

// NewOrderRepository creates an empty in-memory order repository
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{nextID: 1}
}

// Verify interface compliance
var _ domain.OrderRepository = (*OrderRepository)(nil)

func (r *OrderRepository) Create(order *domain.Order) error {
	order.ID = r.nextID
	r.nextID++
	r.orders = append(r.orders, *order)
	return nil
}

func (r *OrderRepository) CreateBatch(orders []*domain.Order) error {
	for _, order := range orders {
		if err := r.Create(order); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepository) FindByID(id uint) (*domain.Order, error) {
	for i := range r.orders {
		if r.orders[i].ID == id {
			order := r.orders[i]
			return &order, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *OrderRepository) FindByBatchID(batchID string) ([]domain.Order, error) {
	var matched []domain.Order
	for _, order := range r.orders {
		if order.BatchID == batchID {
			matched = append(matched, order)
		}
	}
	return matched, nil
}

func (r *OrderRepository) FindAll(limit, offset int) ([]domain.Order, error) {
	if offset >= len(r.orders) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(r.orders) {
		end = len(r.orders)
	}
	return append([]domain.Order(nil), r.orders[offset:end]...), nil
}

func (r *OrderRepository) ExistsForProductAndStart(productID uint, startDate time.Time) (bool, error) {
	for _, order := range r.orders {
		if order.ProductID == productID && order.StartDate.Equal(startDate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *OrderRepository) ListBatches() ([]domain.BatchSummary, error) {
	counts := make(map[string]int)
	var ids []string
	for _, order := range r.orders {
		if _, seen := counts[order.BatchID]; !seen {
			ids = append(ids, order.BatchID)
		}
		counts[order.BatchID]++
	}
	summaries := make([]domain.BatchSummary, 0, len(ids))
	for _, id := range ids {
		summaries = append(summaries, domain.BatchSummary{BatchID: id, OrderCount: counts[id]})
	}
	return summaries, nil
}
