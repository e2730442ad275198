//go:build wireinject
// +build wireinject

package planning

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	httpDelivery "github.com/agroplan/planner/internal/planning/delivery/http"
	"github.com/agroplan/planner/internal/planning/domain"
	"github.com/agroplan/planner/internal/planning/engine"
	"github.com/agroplan/planner/internal/planning/repository"
	"github.com/agroplan/planner/internal/planning/usecase/command"
	"github.com/agroplan/planner/internal/planning/usecase/query"
)

// Repository providers

func ProvideDepartmentRepository(db *gorm.DB) domain.DepartmentRepository {
	return repository.NewGormDepartmentRepository(db)
}

func ProvideProductRepository(db *gorm.DB) domain.ProductRepository {
	return repository.NewGormProductRepository(db)
}

func ProvideRecipeRepository(db *gorm.DB) domain.RecipeRepository {
	return repository.NewGormRecipeRepository(db)
}

func ProvideMaterialRepository(db *gorm.DB) domain.MaterialRepository {
	return repository.NewGormMaterialRepository(db)
}

func ProvideWarehouseRepository(db *gorm.DB) domain.WarehouseRepository {
	return repository.NewGormWarehouseRepository(db)
}

func ProvideOrderRepository(db *gorm.DB) domain.OrderRepository {
	return repository.NewGormOrderRepository(db)
}

func ProvidePlanRepository(db *gorm.DB) domain.PlanRepository {
	return repository.NewGormPlanRepository(db)
}

// Planning store providers

func ProvidePlanningStore(db *gorm.DB) *repository.GormPlanningStoreWithTracing {
	return repository.NewGormPlanningStoreWithTracing(db)
}

func ProvideEngineStore(store *repository.GormPlanningStoreWithTracing) engine.Store {
	return store
}

func ProvideAllocationStore(store *repository.GormPlanningStoreWithTracing) domain.AllocationStore {
	return store
}

func ProvideEngine(store engine.Store, mode engine.CapacityMode) *engine.Engine {
	return engine.NewWithMode(store, mode)
}

func ProvideInvalidator(cache *httpDelivery.ReportCache) command.ReportInvalidator {
	return cache
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideDepartmentRepository,
	ProvideProductRepository,
	ProvideRecipeRepository,
	ProvideMaterialRepository,
	ProvideWarehouseRepository,
	ProvideOrderRepository,
	ProvidePlanRepository,
	ProvidePlanningStore,
	ProvideEngineStore,
	ProvideAllocationStore,
)

var UseCaseSet = wire.NewSet(
	ProvideEngine,
	ProvideInvalidator,
	command.NewImportOrdersHandler,
	command.NewCommitBatchHandler,
	query.NewEvaluateBatchHandler,
	query.NewGetBatchHandler,
	query.NewDepartmentLoadHandler,
)

// InitializeHTTPHandler initializes the HTTP handler with all dependencies
func InitializeHTTPHandler(
	db *gorm.DB,
	mode engine.CapacityMode,
	notifier command.PlanNotifier,
	cache *httpDelivery.ReportCache,
) (*httpDelivery.PlanningHandler, error) {
	wire.Build(
		RepositorySet,
		UseCaseSet,
		httpDelivery.NewPlanningHandler,
	)
	return nil, nil
}
