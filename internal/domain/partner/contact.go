package partner

import (
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactType classifies what role a contact plays for the business
type ContactType string

const (
	ContactTypeClient   ContactType = "CLIENT"
	ContactTypeSupplier ContactType = "SUPPLIER"
	ContactTypeEmployee ContactType = "EMPLOYEE"
	ContactTypeCarrier  ContactType = "CARRIER"
	ContactTypeContact  ContactType = "CONTACT"
)

// IsValid checks if the contact type is valid
func (t ContactType) IsValid() bool {
	switch t {
	case ContactTypeClient, ContactTypeSupplier, ContactTypeEmployee,
		ContactTypeCarrier, ContactTypeContact:
		return true
	}
	return false
}

// ContactPhone is a phone number attached to a contact
type ContactPhone struct {
	ID    uuid.UUID
	Phone string
}

// ContactAddress is a postal address attached to a contact
type ContactAddress struct {
	ID           uuid.UUID
	Address      string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	State        string
	ZipCode      string
}

// Contact is a tenant-scoped business partner: customer, supplier, employee
// or carrier. Contacts are soft-deleted: Active false hides them from
// default listings but keeps referenced history intact.
type Contact struct {
	shared.TenantAggregateRoot
	Name             string
	Type             ContactType
	Document         string
	Email            string
	Observation      string
	IsDeliveryPerson bool
	Active           bool
	Phones           []ContactPhone
	Addresses        []ContactAddress
}

// NewContact creates a new active contact
func NewContact(tenantID uuid.UUID, name string, contactType ContactType) (*Contact, error) {
	if name == "" {
		return nil, shared.NewValidationError("contact name is required")
	}
	if !contactType.IsValid() {
		return nil, shared.NewValidationError("invalid contact type: " + string(contactType))
	}

	return &Contact{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Type:                contactType,
		Active:              true,
		Phones:              make([]ContactPhone, 0),
		Addresses:           make([]ContactAddress, 0),
	}, nil
}

// Update changes the contact's main attributes
func (c *Contact) Update(name string, contactType ContactType, document, email, observation string, isDeliveryPerson bool) error {
	if name == "" {
		return shared.NewValidationError("contact name is required")
	}
	if !contactType.IsValid() {
		return shared.NewValidationError("invalid contact type: " + string(contactType))
	}

	c.Name = name
	c.Type = contactType
	c.Document = document
	c.Email = email
	c.Observation = observation
	c.IsDeliveryPerson = isDeliveryPerson
	return nil
}

// ReplacePhones swaps the full phone list
func (c *Contact) ReplacePhones(phones []string) {
	c.Phones = make([]ContactPhone, 0, len(phones))
	for _, p := range phones {
		if p == "" {
			continue
		}
		c.Phones = append(c.Phones, ContactPhone{ID: uuid.New(), Phone: p})
	}
}

// AddAddress appends an address to the contact
func (c *Contact) AddAddress(addr ContactAddress) {
	addr.ID = uuid.New()
	c.Addresses = append(c.Addresses, addr)
}

// ReplaceAddresses swaps the full address list
func (c *Contact) ReplaceAddresses(addresses []ContactAddress) {
	c.Addresses = make([]ContactAddress, 0, len(addresses))
	for _, a := range addresses {
		a.ID = uuid.New()
		c.Addresses = append(c.Addresses, a)
	}
}

// Deactivate soft-deletes the contact
func (c *Contact) Deactivate() {
	c.Active = false
}

// Activate restores a soft-deleted contact
func (c *Contact) Activate() {
	c.Active = true
}
