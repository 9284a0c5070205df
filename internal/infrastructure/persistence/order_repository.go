package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gestor/backend/internal/domain/sales"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByIDForTenant finds an order by ID for a specific tenant
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Order, error) {
	var model models.OrderModel
	if err := session(ctx, r.db).
		Preload("Items").
		Preload("Payments").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an order by its number for a tenant
func (r *GormOrderRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*sales.Order, error) {
	var model models.OrderModel
	if err := session(ctx, r.db).
		Preload("Items").
		Preload("Payments").
		Where("tenant_id = ? AND number = ?", tenantID, number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all orders for a tenant with filtering
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter sales.OrderFilter) ([]sales.Order, error) {
	var orderModels []models.OrderModel
	query := session(ctx, r.db).Model(&models.OrderModel{}).
		Preload("Items").
		Preload("Payments").
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = applyOrdering(query, filter.Filter)
	query = applyPagination(query, filter.Filter)

	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]sales.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

// Save creates or updates an order together with its items and payments
func (r *GormOrderRepository) Save(ctx context.Context, order *sales.Order) error {
	model := models.OrderModelFromDomain(order)
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		return r.syncChildren(tx, model)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *sales.Order) error {
	model := models.OrderModelFromDomain(order)
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		currentVersion := model.Version
		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND version = ?", model.ID, currentVersion).
			Updates(map[string]interface{}{
				"customer_id":        model.CustomerID,
				"delivery_person_id": model.DeliveryPersonID,
				"order_date":         model.OrderDate,
				"status":             model.Status,
				"delivery_fee":       model.DeliveryFee,
				"total_value":        model.TotalValue,
				"observation":        model.Observation,
				"version":            currentVersion + 1,
				"updated_at":         time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		order.IncrementVersion()
		return r.syncChildren(tx, model)
	})
}

// syncChildren replaces item and payment rows with the aggregate's current state
func (r *GormOrderRepository) syncChildren(tx *gorm.DB, model *models.OrderModel) error {
	itemIDs := make([]uuid.UUID, len(model.Items))
	for i, item := range model.Items {
		itemIDs[i] = item.ID
	}
	del := tx.Where("order_id = ?", model.ID)
	if len(itemIDs) > 0 {
		del = del.Where("id NOT IN ?", itemIDs)
	}
	if err := del.Delete(&models.OrderItemModel{}).Error; err != nil {
		return err
	}
	for i := range model.Items {
		if err := tx.Save(&model.Items[i]).Error; err != nil {
			return err
		}
	}

	paymentIDs := make([]uuid.UUID, len(model.Payments))
	for i, p := range model.Payments {
		paymentIDs[i] = p.ID
	}
	del = tx.Where("order_id = ?", model.ID)
	if len(paymentIDs) > 0 {
		del = del.Where("id NOT IN ?", paymentIDs)
	}
	if err := del.Delete(&models.OrderPaymentModel{}).Error; err != nil {
		return err
	}
	for i := range model.Payments {
		if err := tx.Save(&model.Payments[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// CountForTenant counts orders for a tenant
func (r *GormOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter sales.OrderFilter) (int64, error) {
	var count int64
	query := session(ctx, r.db).Model(&models.OrderModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateOrderNumber generates a unique order number for a tenant.
// Format: OR-YYYYMMDD-XXXXX, sequential per day.
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	date := time.Now().Format("20060102")
	prefix := fmt.Sprintf("OR-%s-", date)

	var maxNumber string
	if err := session(ctx, r.db).
		Model(&models.OrderModel{}).
		Select("number").
		Where("tenant_id = ? AND number LIKE ?", tenantID, prefix+"%").
		Order("number DESC").
		Limit(1).
		Pluck("number", &maxNumber).Error; err != nil {
		return "", err
	}

	var nextNum int
	if maxNumber != "" {
		parts := strings.Split(maxNumber, "-")
		if len(parts) == 3 {
			fmt.Sscanf(parts[2], "%d", &nextNum)
		}
	}
	nextNum++

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// applyFilter applies order-specific filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter sales.OrderFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(number) LIKE ? OR LOWER(observation) LIKE ?", pattern, pattern)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("order_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("order_date <= ?", *filter.ToDate)
	}
	return query
}
