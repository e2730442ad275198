package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/agroplan/planner/internal/planning/domain"
)

// GormDepartmentRepository persists production departments
type GormDepartmentRepository struct {
	db *gorm.DB
}

// NewGormDepartmentRepository creates a new department repository
func NewGormDepartmentRepository(db *gorm.DB) *GormDepartmentRepository {
	return &GormDepartmentRepository{db: db}
}

func (r *GormDepartmentRepository) Create(department *domain.ProductionDepartment) error {
	return r.db.Create(department).Error
}

func (r *GormDepartmentRepository) FindByID(id uint) (*domain.ProductionDepartment, error) {
	var department domain.ProductionDepartment
	if err := r.db.First(&department, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &department, nil
}

func (r *GormDepartmentRepository) FindAll(limit, offset int) ([]domain.ProductionDepartment, error) {
	var departments []domain.ProductionDepartment
	err := r.db.Limit(limit).Offset(offset).Find(&departments).Error
	return departments, err
}

func (r *GormDepartmentRepository) Update(department *domain.ProductionDepartment) error {
	return r.db.Save(department).Error
}

func (r *GormDepartmentRepository) Delete(id uint) error {
	return r.db.Delete(&domain.ProductionDepartment{}, id).Error
}

// GormProductRepository persists products
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new product repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(product *domain.Product) error {
	return r.db.Create(product).Error
}

func (r *GormProductRepository) FindByID(id uint) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.Preload("Department").First(&product, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &product, nil
}

func (r *GormProductRepository) FindAll(limit, offset int) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.Preload("Department").Limit(limit).Offset(offset).Find(&products).Error
	return products, err
}

func (r *GormProductRepository) Update(product *domain.Product) error {
	return r.db.Save(product).Error
}

func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Product{}, id).Error
}

// GormRecipeRepository persists bill-of-materials lines
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewGormRecipeRepository creates a new recipe repository
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

func (r *GormRecipeRepository) Create(recipe *domain.Recipe) error {
	return r.db.Create(recipe).Error
}

func (r *GormRecipeRepository) FindByProductID(productID uint) ([]domain.Recipe, error) {
	var recipes []domain.Recipe
	err := r.db.Preload("Material").Where("product_id = ?", productID).Find(&recipes).Error
	return recipes, err
}

func (r *GormRecipeRepository) FindAll(limit, offset int) ([]domain.Recipe, error) {
	var recipes []domain.Recipe
	err := r.db.Preload("Product").Preload("Material").Limit(limit).Offset(offset).Find(&recipes).Error
	return recipes, err
}

func (r *GormRecipeRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Recipe{}, id).Error
}

// GormMaterialRepository persists raw-material stock lines
type GormMaterialRepository struct {
	db *gorm.DB
}

// NewGormMaterialRepository creates a new material repository
func NewGormMaterialRepository(db *gorm.DB) *GormMaterialRepository {
	return &GormMaterialRepository{db: db}
}

func (r *GormMaterialRepository) Create(material *domain.RawMaterial) error {
	return r.db.Create(material).Error
}

func (r *GormMaterialRepository) FindByID(id uint) (*domain.RawMaterial, error) {
	var material domain.RawMaterial
	if err := r.db.First(&material, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &material, nil
}

func (r *GormMaterialRepository) FindByName(name string) (*domain.RawMaterial, error) {
	var material domain.RawMaterial
	if err := r.db.Where("name = ?", name).First(&material).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &material, nil
}

func (r *GormMaterialRepository) FindAll(limit, offset int) ([]domain.RawMaterial, error) {
	var materials []domain.RawMaterial
	err := r.db.Preload("Warehouse").Limit(limit).Offset(offset).Find(&materials).Error
	return materials, err
}

func (r *GormMaterialRepository) Update(material *domain.RawMaterial) error {
	return r.db.Save(material).Error
}

// GormWarehouseRepository persists warehouses
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new warehouse repository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

func (r *GormWarehouseRepository) Create(warehouse *domain.Warehouse) error {
	return r.db.Create(warehouse).Error
}

func (r *GormWarehouseRepository) FindAll(limit, offset int) ([]domain.Warehouse, error) {
	var warehouses []domain.Warehouse
	err := r.db.Limit(limit).Offset(offset).Find(&warehouses).Error
	return warehouses, err
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
