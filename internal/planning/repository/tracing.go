package repository

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/agroplan/planner/internal/planning/domain"
	"github.com/agroplan/planner/internal/planning/engine"
)

var tracer = otel.Tracer("planning-repository")

// GormPlanningStoreWithTracing wraps GormPlanningStore with tracing
type GormPlanningStoreWithTracing struct {
	*GormPlanningStore
}

// NewGormPlanningStoreWithTracing creates a new planning store with tracing
func NewGormPlanningStoreWithTracing(db *gorm.DB) *GormPlanningStoreWithTracing {
	return &GormPlanningStoreWithTracing{
		GormPlanningStore: NewGormPlanningStore(db),
	}
}

// Product with tracing
func (s *GormPlanningStoreWithTracing) Product(ctx context.Context, id uint) (*engine.Product, error) {
	ctx, span := tracer.Start(ctx, "store.Product",
		trace.WithAttributes(attribute.Int("product.id", int(id))),
	)
	defer span.End()

	product, err := s.GormPlanningStore.Product(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("product.name", product.Name),
		attribute.Int("department.id", int(product.DepartmentID)),
		attribute.Int("department.average_output", product.AverageOutput),
	)
	return product, nil
}

// RecipeLines with tracing
func (s *GormPlanningStoreWithTracing) RecipeLines(ctx context.Context, productID uint) ([]engine.RecipeLine, error) {
	ctx, span := tracer.Start(ctx, "store.RecipeLines",
		trace.WithAttributes(attribute.Int("product.id", int(productID))),
	)
	defer span.End()

	lines, err := s.GormPlanningStore.RecipeLines(ctx, productID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(lines)))
	return lines, nil
}

// StockQuantities with tracing
func (s *GormPlanningStoreWithTracing) StockQuantities(ctx context.Context, names []string) (map[string]int, error) {
	ctx, span := tracer.Start(ctx, "store.StockQuantities",
		trace.WithAttributes(attribute.Int("query.materials", len(names))),
	)
	defer span.End()

	quantities, err := s.GormPlanningStore.StockQuantities(ctx, names)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(quantities)))
	return quantities, nil
}

// OverlappingPlans with tracing
func (s *GormPlanningStoreWithTracing) OverlappingPlans(ctx context.Context, departmentID uint, start, end time.Time) ([]engine.CommittedPlan, error) {
	ctx, span := tracer.Start(ctx, "store.OverlappingPlans",
		trace.WithAttributes(
			attribute.Int("department.id", int(departmentID)),
			attribute.String("window.start", start.Format("2006-01-02")),
			attribute.String("window.end", end.Format("2006-01-02")),
		),
	)
	defer span.End()

	plans, err := s.GormPlanningStore.OverlappingPlans(ctx, departmentID, start, end)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(plans)))
	return plans, nil
}

// SaveAllocation persists one pass with tracing
func (s *GormPlanningStoreWithTracing) SaveAllocation(ctx context.Context, updates []domain.StockUpdate, plans []*domain.ProductionPlan) error {
	ctx, span := tracer.Start(ctx, "store.SaveAllocation",
		trace.WithAttributes(
			attribute.Int("allocation.stock_updates", len(updates)),
			attribute.Int("allocation.plans", len(plans)),
		),
	)
	defer span.End()

	if err := s.GormPlanningStore.SaveAllocation(ctx, updates, plans); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
