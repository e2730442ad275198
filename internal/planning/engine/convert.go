package engine

import "github.com/agroplan/planner/internal/planning/domain"

// OrdersFromDomain converts persisted orders to the engine's input form,
// preserving their sequence.
func OrdersFromDomain(orders []domain.Order) []Order {
	converted := make([]Order, 0, len(orders))
	for _, o := range orders {
		converted = append(converted, Order{
			ID:        o.ID,
			BatchID:   o.BatchID,
			ProductID: o.ProductID,
			Start:     o.StartDate,
			End:       o.EndDate,
			Quantity:  o.Quantity,
		})
	}
	return converted
}
