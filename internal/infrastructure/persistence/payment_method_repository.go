package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/gestor/backend/internal/domain/sales"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentMethodRepository implements PaymentMethodRepository using GORM
type GormPaymentMethodRepository struct {
	db *gorm.DB
}

// NewGormPaymentMethodRepository creates a new GormPaymentMethodRepository
func NewGormPaymentMethodRepository(db *gorm.DB) *GormPaymentMethodRepository {
	return &GormPaymentMethodRepository{db: db}
}

// FindByIDForTenant finds a payment method by ID for a specific tenant
func (r *GormPaymentMethodRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.PaymentMethod, error) {
	var model models.PaymentMethodModel
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

// FindByIDsForTenant finds the payment methods with the given IDs
func (r *GormPaymentMethodRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]sales.PaymentMethod, error) {
	if len(ids) == 0 {
		return []sales.PaymentMethod{}, nil
	}
	var methodModels []models.PaymentMethodModel
	if err := session(ctx, r.db).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&methodModels).Error; err != nil {
		return nil, err
	}
	methods := make([]sales.PaymentMethod, len(methodModels))
	for i := range methodModels {
		methods[i] = *methodModels[i].ToDomain()
	}
	return methods, nil
}

// FindAllForTenant finds all payment methods for a tenant with filtering
func (r *GormPaymentMethodRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter sales.PaymentMethodFilter) ([]sales.PaymentMethod, error) {
	var methodModels []models.PaymentMethodModel
	query := session(ctx, r.db).Model(&models.PaymentMethodModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = applyOrdering(query, filter.Filter)
	query = applyPagination(query, filter.Filter)

	if err := query.Find(&methodModels).Error; err != nil {
		return nil, err
	}
	methods := make([]sales.PaymentMethod, len(methodModels))
	for i := range methodModels {
		methods[i] = *methodModels[i].ToDomain()
	}
	return methods, nil
}

// Save creates or updates a payment method
func (r *GormPaymentMethodRepository) Save(ctx context.Context, method *sales.PaymentMethod) error {
	model := models.PaymentMethodModelFromDomain(method)
	return session(ctx, r.db).Save(model).Error
}

// Delete removes a payment method for a tenant
func (r *GormPaymentMethodRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := session(ctx, r.db).
		Delete(&models.PaymentMethodModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts payment methods for a tenant
func (r *GormPaymentMethodRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter sales.PaymentMethodFilter) (int64, error) {
	var count int64
	query := session(ctx, r.db).Model(&models.PaymentMethodModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies payment-method-specific filter options to the query
func (r *GormPaymentMethodRepository) applyFilter(query *gorm.DB, filter sales.PaymentMethodFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ?", pattern)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	return query
}
