package memory

import (
	"github.com/agroplan/planner/internal/planning/domain"
)

// DepartmentRepository is an in-memory department repository
type DepartmentRepository struct {
	departments []domain.ProductionDepartment
	nextID      uint
}

// NewDepartmentRepository creates an empty in-memory department repository
func NewDepartmentRepository() *DepartmentRepository {
	return &DepartmentRepository{nextID: 1}
}

var _ domain.DepartmentRepository = (*DepartmentRepository)(nil)

func (r *DepartmentRepository) Create(department *domain.ProductionDepartment) error {
	department.ID = r.nextID
	r.nextID++
	r.departments = append(r.departments, *department)
	return nil
}

func (r *DepartmentRepository) FindByID(id uint) (*domain.ProductionDepartment, error) {
	for i := range r.departments {
		if r.departments[i].ID == id {
			department := r.departments[i]
			return &department, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *DepartmentRepository) FindAll(limit, offset int) ([]domain.ProductionDepartment, error) {
	return paginate(r.departments, limit, offset), nil
}

func (r *DepartmentRepository) Update(department *domain.ProductionDepartment) error {
	for i := range r.departments {
		if r.departments[i].ID == department.ID {
			r.departments[i] = *department
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *DepartmentRepository) Delete(id uint) error {
	for i := range r.departments {
		if r.departments[i].ID == id {
			r.departments = append(r.departments[:i], r.departments[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ProductRepository is an in-memory product repository
type ProductRepository struct {
	products []domain.Product
	nextID   uint
}

// NewProductRepository creates an empty in-memory product repository
func NewProductRepository() *ProductRepository {
	return &ProductRepository{nextID: 1}
}

var _ domain.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) Create(product *domain.Product) error {
	product.ID = r.nextID
	r.nextID++
	r.products = append(r.products, *product)
	return nil
}

func (r *ProductRepository) FindByID(id uint) (*domain.Product, error) {
	for i := range r.products {
		if r.products[i].ID == id {
			product := r.products[i]
			return &product, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *ProductRepository) FindAll(limit, offset int) ([]domain.Product, error) {
	return paginate(r.products, limit, offset), nil
}

func (r *ProductRepository) Update(product *domain.Product) error {
	for i := range r.products {
		if r.products[i].ID == product.ID {
			r.products[i] = *product
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *ProductRepository) Delete(id uint) error {
	for i := range r.products {
		if r.products[i].ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// RecipeRepository is an in-memory recipe repository
type RecipeRepository struct {
	recipes []domain.Recipe
	nextID  uint
}

// NewRecipeRepository creates an empty in-memory recipe repository
func NewRecipeRepository() *RecipeRepository {
	return &RecipeRepository{nextID: 1}
}

var _ domain.RecipeRepository = (*RecipeRepository)(nil)

func (r *RecipeRepository) Create(recipe *domain.Recipe) error {
	recipe.ID = r.nextID
	r.nextID++
	r.recipes = append(r.recipes, *recipe)
	return nil
}

func (r *RecipeRepository) FindByProductID(productID uint) ([]domain.Recipe, error) {
	var matched []domain.Recipe
	for _, recipe := range r.recipes {
		if recipe.ProductID == productID {
			matched = append(matched, recipe)
		}
	}
	return matched, nil
}

func (r *RecipeRepository) FindAll(limit, offset int) ([]domain.Recipe, error) {
	return paginate(r.recipes, limit, offset), nil
}

func (r *RecipeRepository) Delete(id uint) error {
	for i := range r.recipes {
		if r.recipes[i].ID == id {
			r.recipes = append(r.recipes[:i], r.recipes[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// MaterialRepository is an in-memory raw-material repository
type MaterialRepository struct {
	materials []domain.RawMaterial
	nextID    uint
}

// NewMaterialRepository creates an empty in-memory material repository
func NewMaterialRepository() *MaterialRepository {
	return &MaterialRepository{nextID: 1}
}

var _ domain.MaterialRepository = (*MaterialRepository)(nil)

func (r *MaterialRepository) Create(material *domain.RawMaterial) error {
	material.ID = r.nextID
	r.nextID++
	r.materials = append(r.materials, *material)
	return nil
}

func (r *MaterialRepository) FindByID(id uint) (*domain.RawMaterial, error) {
	for i := range r.materials {
		if r.materials[i].ID == id {
			material := r.materials[i]
			return &material, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MaterialRepository) FindByName(name string) (*domain.RawMaterial, error) {
	for i := range r.materials {
		if r.materials[i].Name == name {
			material := r.materials[i]
			return &material, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MaterialRepository) FindAll(limit, offset int) ([]domain.RawMaterial, error) {
	return paginate(r.materials, limit, offset), nil
}

func (r *MaterialRepository) Update(material *domain.RawMaterial) error {
	for i := range r.materials {
		if r.materials[i].ID == material.ID {
			r.materials[i] = *material
			return nil
		}
	}
	return domain.ErrNotFound
}

// WarehouseRepository is an in-memory warehouse repository
type WarehouseRepository struct {
	warehouses []domain.Warehouse
	nextID     uint
}

// NewWarehouseRepository creates an empty in-memory warehouse repository
func NewWarehouseRepository() *WarehouseRepository {
	return &WarehouseRepository{nextID: 1}
}

var _ domain.WarehouseRepository = (*WarehouseRepository)(nil)

func (r *WarehouseRepository) Create(warehouse *domain.Warehouse) error {
	warehouse.ID = r.nextID
	r.nextID++
	r.warehouses = append(r.warehouses, *warehouse)
	return nil
}

func (r *WarehouseRepository) FindAll(limit, offset int) ([]domain.Warehouse, error) {
	return paginate(r.warehouses, limit, offset), nil
}

// PlanRepository is an in-memory production-plan repository
type PlanRepository struct {
	plans  []domain.ProductionPlan
	nextID uint
}

// NewPlanRepository creates an empty in-memory plan repository
func NewPlanRepository() *PlanRepository {
	return &PlanRepository{nextID: 1}
}

var _ domain.PlanRepository = (*PlanRepository)(nil)

// Add stores a plan, assigning it an identifier
func (r *PlanRepository) Add(plan domain.ProductionPlan) {
	plan.ID = r.nextID
	r.nextID++
	r.plans = append(r.plans, plan)
}

func (r *PlanRepository) FindByID(id uint) (*domain.ProductionPlan, error) {
	for i := range r.plans {
		if r.plans[i].ID == id {
			plan := r.plans[i]
			return &plan, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *PlanRepository) FindByBatchID(batchID string) ([]domain.ProductionPlan, error) {
	var matched []domain.ProductionPlan
	for _, plan := range r.plans {
		if plan.Order != nil && plan.Order.BatchID == batchID {
			matched = append(matched, plan)
		}
	}
	return matched, nil
}

func (r *PlanRepository) FindAll(limit, offset int) ([]domain.ProductionPlan, error) {
	return paginate(r.plans, limit, offset), nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return append([]T(nil), items[offset:end]...)
}
