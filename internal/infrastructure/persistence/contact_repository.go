package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/gestor/backend/internal/domain/partner"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormContactRepository implements ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByIDForTenant finds a contact by ID for a specific tenant
func (r *GormContactRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Contact, error) {
	var model models.ContactModel
	if err := session(ctx, r.db).
		Preload("Phones").
		Preload("Addresses").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all contacts for a tenant with filtering
func (r *GormContactRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.ContactFilter) ([]partner.Contact, error) {
	var contactModels []models.ContactModel
	query := session(ctx, r.db).Model(&models.ContactModel{}).
		Preload("Phones").
		Preload("Addresses").
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	query = applyOrdering(query, filter.Filter)
	query = applyPagination(query, filter.Filter)

	if err := query.Find(&contactModels).Error; err != nil {
		return nil, err
	}
	contacts := make([]partner.Contact, len(contactModels))
	for i := range contactModels {
		contacts[i] = *contactModels[i].ToDomain()
	}
	return contacts, nil
}

// Save creates or updates a contact together with its phones and addresses
func (r *GormContactRepository) Save(ctx context.Context, contact *partner.Contact) error {
	model := models.ContactModelFromDomain(contact)
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := syncContactPhones(tx, model); err != nil {
			return err
		}
		return syncContactAddresses(tx, model)
	})
}

func syncContactPhones(tx *gorm.DB, model *models.ContactModel) error {
	ids := make([]uuid.UUID, len(model.Phones))
	for i, p := range model.Phones {
		ids[i] = p.ID
	}
	del := tx.Where("contact_id = ?", model.ID)
	if len(ids) > 0 {
		del = del.Where("id NOT IN ?", ids)
	}
	if err := del.Delete(&models.ContactPhoneModel{}).Error; err != nil {
		return err
	}
	for i := range model.Phones {
		if err := tx.Save(&model.Phones[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func syncContactAddresses(tx *gorm.DB, model *models.ContactModel) error {
	ids := make([]uuid.UUID, len(model.Addresses))
	for i, a := range model.Addresses {
		ids[i] = a.ID
	}
	del := tx.Where("contact_id = ?", model.ID)
	if len(ids) > 0 {
		del = del.Where("id NOT IN ?", ids)
	}
	if err := del.Delete(&models.ContactAddressModel{}).Error; err != nil {
		return err
	}
	for i := range model.Addresses {
		if err := tx.Save(&model.Addresses[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// CountForTenant counts contacts for a tenant
func (r *GormContactRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.ContactFilter) (int64, error) {
	var count int64
	query := session(ctx, r.db).Model(&models.ContactModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies contact-specific filter options to the query
func (r *GormContactRepository) applyFilter(query *gorm.DB, filter partner.ContactFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(document) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.IsDeliveryPerson != nil {
		query = query.Where("is_delivery_person = ?", *filter.IsDeliveryPerson)
	}
	return query
}
