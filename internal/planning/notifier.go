package planning

import (
	"context"

	"github.com/agroplan/planner/internal/planning/domain"
	"github.com/agroplan/planner/internal/planning/usecase/command"
	"github.com/agroplan/planner/kafka"
)

const dateLayout = "2006-01-02"

// KafkaPlanNotifier publishes plan committed events to Kafka
type KafkaPlanNotifier struct {
	publisher *kafka.Publisher
}

// NewKafkaPlanNotifier creates a new Kafka plan notifier
func NewKafkaPlanNotifier(publisher *kafka.Publisher) *KafkaPlanNotifier {
	return &KafkaPlanNotifier{publisher: publisher}
}

var _ command.PlanNotifier = (*KafkaPlanNotifier)(nil)

// PlanCommitted publishes one plan.committed event
func (n *KafkaPlanNotifier) PlanCommitted(ctx context.Context, batchID string, order domain.Order, plan *domain.ProductionPlan) error {
	event := kafka.PlanCommittedEvent{
		BatchID:         batchID,
		OrderID:         order.ID,
		PlanID:          plan.ID,
		ProductID:       plan.ProductID,
		PlannedQuantity: plan.PlannedQuantity,
		StartDate:       order.StartDate.Format(dateLayout),
		EndDate:         order.EndDate.Format(dateLayout),
	}
	if order.Product != nil {
		event.ProductName = order.Product.Name
		event.DepartmentID = order.Product.DepartmentID
		if order.Product.Department != nil {
			event.DepartmentName = order.Product.Department.Name
		}
	}
	return n.publisher.PublishPlanCommitted(ctx, event)
}
