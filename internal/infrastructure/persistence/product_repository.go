package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/gestor/backend/internal/domain/catalog"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByIDForTenant finds a product by ID for a specific tenant
func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := session(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDsForTenant finds the products with the given IDs
func (r *GormProductRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var productModels []models.ProductModel
	if err := session(ctx, r.db).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&productModels).Error; err != nil {
		return nil, err
	}
	products := make([]catalog.Product, len(productModels))
	for i := range productModels {
		products[i] = *productModels[i].ToDomain()
	}
	return products, nil
}

// FindAllForTenant finds all products for a tenant with filtering
func (r *GormProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter catalog.ProductFilter) ([]catalog.Product, error) {
	var productModels []models.ProductModel
	query := session(ctx, r.db).Model(&models.ProductModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = applyOrdering(query, filter.Filter)
	query = applyPagination(query, filter.Filter)

	if err := query.Find(&productModels).Error; err != nil {
		return nil, err
	}
	products := make([]catalog.Product, len(productModels))
	for i := range productModels {
		products[i] = *productModels[i].ToDomain()
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	return session(ctx, r.db).Save(model).Error
}

// CountForTenant counts products for a tenant
func (r *GormProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter catalog.ProductFilter) (int64, error) {
	var count int64
	query := session(ctx, r.db).Model(&models.ProductModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies product-specific filter options to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter catalog.ProductFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(internal_code) LIKE ? OR LOWER(bar_code) LIKE ?",
			pattern, pattern, pattern)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.LowStock != nil && *filter.LowStock {
		query = query.Where("minimum_stock > 0 AND current_stock < minimum_stock")
	}
	if filter.BarCode != nil {
		query = query.Where("bar_code = ?", *filter.BarCode)
	}
	if filter.InternalCode != nil {
		query = query.Where("internal_code = ?", *filter.InternalCode)
	}
	return query
}
