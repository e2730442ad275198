package kafka

import "time"

// PlanCommittedEvent announces one production plan created by a committed
// allocation pass
type PlanCommittedEvent struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	BatchID         string    `json:"batch_id"`
	OrderID         uint      `json:"order_id"`
	PlanID          uint      `json:"plan_id"`
	ProductID       uint      `json:"product_id"`
	ProductName     string    `json:"product_name"`
	DepartmentID    uint      `json:"department_id"`
	DepartmentName  string    `json:"department_name"`
	PlannedQuantity int       `json:"planned_quantity"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	Timestamp       time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypePlanCommitted = "plan.committed"
)

// Kafka topics
const (
	TopicProductionPlans = "production-plans"
)
