package partner

import (
	"context"
	"fmt"

	"github.com/gestor/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// ContactService handles contact use cases
type ContactService struct {
	contacts partner.ContactRepository
}

// NewContactService creates a new contact service
func NewContactService(contacts partner.ContactRepository) *ContactService {
	return &ContactService{contacts: contacts}
}

// CreateContactRequest carries the data to create a contact
type CreateContactRequest struct {
	Name             string
	Type             partner.ContactType
	Document         string
	Email            string
	Observation      string
	IsDeliveryPerson bool
	Phones           []string
	Addresses        []partner.ContactAddress
}

// CreateContact creates a new contact for the tenant
func (s *ContactService) CreateContact(ctx context.Context, tenantID uuid.UUID, req CreateContactRequest) (*partner.Contact, error) {
	contact, err := partner.NewContact(tenantID, req.Name, req.Type)
	if err != nil {
		return nil, err
	}
	if err := contact.Update(req.Name, req.Type, req.Document, req.Email, req.Observation, req.IsDeliveryPerson); err != nil {
		return nil, err
	}
	contact.ReplacePhones(req.Phones)
	contact.ReplaceAddresses(req.Addresses)

	if err := s.contacts.Save(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to save contact: %w", err)
	}
	return contact, nil
}

// UpdateContact updates an existing contact
func (s *ContactService) UpdateContact(ctx context.Context, tenantID, id uuid.UUID, req CreateContactRequest) (*partner.Contact, error) {
	contact, err := s.contacts.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := contact.Update(req.Name, req.Type, req.Document, req.Email, req.Observation, req.IsDeliveryPerson); err != nil {
		return nil, err
	}
	contact.ReplacePhones(req.Phones)
	contact.ReplaceAddresses(req.Addresses)

	if err := s.contacts.Save(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to save contact: %w", err)
	}
	return contact, nil
}

// GetContact returns a single contact
func (s *ContactService) GetContact(ctx context.Context, tenantID, id uuid.UUID) (*partner.Contact, error) {
	return s.contacts.FindByIDForTenant(ctx, tenantID, id)
}

// ListContacts returns contacts matching the filter plus the total count
func (s *ContactService) ListContacts(ctx context.Context, tenantID uuid.UUID, filter partner.ContactFilter) ([]partner.Contact, int64, error) {
	contacts, err := s.contacts.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.contacts.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

// DeactivateContact soft-deletes a contact, keeping order history intact
func (s *ContactService) DeactivateContact(ctx context.Context, tenantID, id uuid.UUID) error {
	contact, err := s.contacts.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	contact.Deactivate()
	if err := s.contacts.Save(ctx, contact); err != nil {
		return fmt.Errorf("failed to save contact: %w", err)
	}
	return nil
}
