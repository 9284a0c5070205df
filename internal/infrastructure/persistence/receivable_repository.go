package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gestor/backend/internal/domain/finance"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReceivableRepository implements ReceivableRepository using GORM
type GormReceivableRepository struct {
	db *gorm.DB
}

// NewGormReceivableRepository creates a new GormReceivableRepository
func NewGormReceivableRepository(db *gorm.DB) *GormReceivableRepository {
	return &GormReceivableRepository{db: db}
}

// FindByIDForTenant finds a receivable by ID for a specific tenant
func (r *GormReceivableRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Receivable, error) {
	var model models.ReceivableModel
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

// FindByOrder finds the receivable generated from an order, if any
func (r *GormReceivableRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*finance.Receivable, error) {
	var model models.ReceivableModel
	if err := session(ctx, r.db).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all receivables for a tenant with filtering
func (r *GormReceivableRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.ReceivableFilter) ([]finance.Receivable, error) {
	var receivableModels []models.ReceivableModel
	query := session(ctx, r.db).Model(&models.ReceivableModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = applyOrdering(query, filter.Filter)
	query = applyPagination(query, filter.Filter)

	if err := query.Find(&receivableModels).Error; err != nil {
		return nil, err
	}
	receivables := make([]finance.Receivable, len(receivableModels))
	for i := range receivableModels {
		receivables[i] = *receivableModels[i].ToDomain()
	}
	return receivables, nil
}

// Save creates or updates a receivable
func (r *GormReceivableRepository) Save(ctx context.Context, receivable *finance.Receivable) error {
	model := models.ReceivableModelFromDomain(receivable)
	return session(ctx, r.db).Save(model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormReceivableRepository) SaveWithLock(ctx context.Context, receivable *finance.Receivable) error {
	model := models.ReceivableModelFromDomain(receivable)
	currentVersion := model.Version
	result := session(ctx, r.db).Model(&models.ReceivableModel{}).
		Where("id = ? AND version = ?", model.ID, currentVersion).
		Updates(map[string]interface{}{
			"customer_id":    model.CustomerID,
			"order_id":       model.OrderID,
			"description":    model.Description,
			"due_date":       model.DueDate,
			"total_value":    model.TotalValue,
			"received_value": model.ReceivedValue,
			"status":         model.Status,
			"payments":       model.Payments,
			"version":        currentVersion + 1,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	receivable.IncrementVersion()
	return nil
}

// CountForTenant counts receivables for a tenant
func (r *GormReceivableRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.ReceivableFilter) (int64, error) {
	var count int64
	query := session(ctx, r.db).Model(&models.ReceivableModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateReceivableNumber generates a unique receivable number for a tenant.
// Format: AR-YYYYMMDD-XXXXX, sequential per day.
func (r *GormReceivableRepository) GenerateReceivableNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	date := time.Now().Format("20060102")
	prefix := fmt.Sprintf("AR-%s-", date)

	var maxNumber string
	if err := session(ctx, r.db).
		Model(&models.ReceivableModel{}).
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

// applyFilter applies receivable-specific filter options to the query
func (r *GormReceivableRepository) applyFilter(query *gorm.DB, filter finance.ReceivableFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(number) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.OrderID != nil {
		query = query.Where("order_id = ?", *filter.OrderID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}
	if filter.Overdue != nil && *filter.Overdue {
		query = query.Where("due_date < ? AND status IN ?", time.Now(),
			[]finance.ReceivableStatus{finance.ReceivableStatusOpen, finance.ReceivableStatusPartialReceived})
	}
	return query
}
