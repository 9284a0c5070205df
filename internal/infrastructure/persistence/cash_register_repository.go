package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/gestor/backend/internal/domain/finance"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCashRegisterRepository implements CashRegisterRepository using GORM
type GormCashRegisterRepository struct {
	db *gorm.DB
}

// NewGormCashRegisterRepository creates a new GormCashRegisterRepository
func NewGormCashRegisterRepository(db *gorm.DB) *GormCashRegisterRepository {
	return &GormCashRegisterRepository{db: db}
}

// FindByIDForTenant finds a register session by ID for a specific tenant
func (r *GormCashRegisterRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.CashRegister, error) {
	var model models.CashRegisterModel
	if err := session(ctx, r.db).
		Preload("Movements", func(db *gorm.DB) *gorm.DB {
			return db.Order("occurred_at ASC")
		}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOpenForTenant finds the currently open session for a tenant.
// Returns shared.ErrNotFound when no session is open.
func (r *GormCashRegisterRepository) FindOpenForTenant(ctx context.Context, tenantID uuid.UUID) (*finance.CashRegister, error) {
	var model models.CashRegisterModel
	if err := session(ctx, r.db).
		Preload("Movements", func(db *gorm.DB) *gorm.DB {
			return db.Order("occurred_at ASC")
		}).
		Where("tenant_id = ? AND status = ?", tenantID, finance.CashRegisterStatusOpen).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all register sessions for a tenant
func (r *GormCashRegisterRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.CashRegister, error) {
	var registerModels []models.CashRegisterModel
	query := session(ctx, r.db).Model(&models.CashRegisterModel{}).
		Preload("Movements", func(db *gorm.DB) *gorm.DB {
			return db.Order("occurred_at ASC")
		}).
		Where("tenant_id = ?", tenantID)
	query = applyOrdering(query, filter)
	query = applyPagination(query, filter)

	if err := query.Find(&registerModels).Error; err != nil {
		return nil, err
	}
	registers := make([]finance.CashRegister, len(registerModels))
	for i := range registerModels {
		registers[i] = *registerModels[i].ToDomain()
	}
	return registers, nil
}

// CountForTenant counts register sessions for a tenant
func (r *GormCashRegisterRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := session(ctx, r.db).Model(&models.CashRegisterModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindMovements lists ledger entries across sessions for a tenant
func (r *GormCashRegisterRepository) FindMovements(ctx context.Context, tenantID uuid.UUID, filter finance.CashMovementFilter) ([]finance.CashMovement, error) {
	var movementModels []models.CashMovementModel
	query := session(ctx, r.db).Model(&models.CashMovementModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyMovementFilter(query, filter)
	query = query.Order("occurred_at DESC")
	query = applyPagination(query, filter.Filter)

	if err := query.Find(&movementModels).Error; err != nil {
		return nil, err
	}
	movements := make([]finance.CashMovement, len(movementModels))
	for i := range movementModels {
		movements[i] = movementModels[i].ToDomain()
	}
	return movements, nil
}

// CountMovements counts ledger entries for a tenant
func (r *GormCashRegisterRepository) CountMovements(ctx context.Context, tenantID uuid.UUID, filter finance.CashMovementFilter) (int64, error) {
	var count int64
	query := session(ctx, r.db).Model(&models.CashMovementModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyMovementFilter(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a register session together with its movements.
// Movement rows are immutable: existing rows are never updated, new ones
// are inserted. A partial unique index allows at most one OPEN session per
// tenant, so a concurrent open loses here instead of leaving two sessions.
func (r *GormCashRegisterRepository) Save(ctx context.Context, register *finance.CashRegister) error {
	model := models.CashRegisterModelFromDomain(register)
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.NewDomainError("ALREADY_EXISTS", "a cash register is already open")
			}
			return err
		}
		return r.insertNewMovements(tx, model)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormCashRegisterRepository) SaveWithLock(ctx context.Context, register *finance.CashRegister) error {
	model := models.CashRegisterModelFromDomain(register)
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		currentVersion := model.Version
		result := tx.Model(&models.CashRegisterModel{}).
			Where("id = ? AND version = ?", model.ID, currentVersion).
			Updates(map[string]interface{}{
				"status":         model.Status,
				"opening_date":   model.OpeningDate,
				"closing_date":   model.ClosingDate,
				"initial_amount": model.InitialAmount,
				"final_amount":   model.FinalAmount,
				"version":        currentVersion + 1,
				"updated_at":     time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		register.IncrementVersion()
		return r.insertNewMovements(tx, model)
	})
}

// insertNewMovements inserts movement rows that do not exist yet
func (r *GormCashRegisterRepository) insertNewMovements(tx *gorm.DB, model *models.CashRegisterModel) error {
	for i := range model.Movements {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.Movements[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyMovementFilter applies movement-specific filter options to the query
func (r *GormCashRegisterRepository) applyMovementFilter(query *gorm.DB, filter finance.CashMovementFilter) *gorm.DB {
	if filter.RegisterID != nil {
		query = query.Where("register_id = ?", *filter.RegisterID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.FromDate != nil {
		query = query.Where("occurred_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("occurred_at <= ?", *filter.ToDate)
	}
	return query
}
