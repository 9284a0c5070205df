package models

import (
	"github.com/gestor/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// ContactModel is the persistence model for the Contact aggregate root.
type ContactModel struct {
	TenantAggregateModel
	Name             string              `gorm:"type:varchar(200);not null;index"`
	Type             partner.ContactType `gorm:"type:varchar(20);not null;index"`
	Document         string              `gorm:"type:varchar(50)"`
	Email            string              `gorm:"type:varchar(200)"`
	Observation      string              `gorm:"type:text"`
	IsDeliveryPerson bool                `gorm:"not null;default:false"`
	Active           bool                `gorm:"not null;default:true;index"`
	Phones           []ContactPhoneModel `gorm:"foreignKey:ContactID;references:ID;constraint:OnDelete:CASCADE"`
	Addresses        []ContactAddressModel `gorm:"foreignKey:ContactID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ContactPhoneModel is a phone number row belonging to a contact.
type ContactPhoneModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ContactID uuid.UUID `gorm:"type:uuid;not null;index"`
	Phone     string    `gorm:"type:varchar(30);not null"`
}

// TableName returns the table name for GORM
func (ContactPhoneModel) TableName() string {
	return "contact_phones"
}

// ContactAddressModel is an address row belonging to a contact.
type ContactAddressModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	ContactID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Address      string    `gorm:"type:varchar(300)"`
	Number       string    `gorm:"type:varchar(20)"`
	Complement   string    `gorm:"type:varchar(100)"`
	Neighborhood string    `gorm:"type:varchar(100)"`
	City         string    `gorm:"type:varchar(100)"`
	State        string    `gorm:"type:varchar(50)"`
	ZipCode      string    `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (ContactAddressModel) TableName() string {
	return "contact_addresses"
}

// ToDomain converts the persistence model to a domain Contact entity.
func (m *ContactModel) ToDomain() *partner.Contact {
	contact := &partner.Contact{
		Name:             m.Name,
		Type:             m.Type,
		Document:         m.Document,
		Email:            m.Email,
		Observation:      m.Observation,
		IsDeliveryPerson: m.IsDeliveryPerson,
		Active:           m.Active,
		Phones:           make([]partner.ContactPhone, len(m.Phones)),
		Addresses:        make([]partner.ContactAddress, len(m.Addresses)),
	}
	m.PopulateTenantAggregateRoot(&contact.TenantAggregateRoot)
	for i, p := range m.Phones {
		contact.Phones[i] = partner.ContactPhone{ID: p.ID, Phone: p.Phone}
	}
	for i, a := range m.Addresses {
		contact.Addresses[i] = partner.ContactAddress{
			ID:           a.ID,
			Address:      a.Address,
			Number:       a.Number,
			Complement:   a.Complement,
			Neighborhood: a.Neighborhood,
			City:         a.City,
			State:        a.State,
			ZipCode:      a.ZipCode,
		}
	}
	return contact
}

// FromDomain populates the persistence model from a domain Contact entity.
func (m *ContactModel) FromDomain(c *partner.Contact) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Type = c.Type
	m.Document = c.Document
	m.Email = c.Email
	m.Observation = c.Observation
	m.IsDeliveryPerson = c.IsDeliveryPerson
	m.Active = c.Active
	m.Phones = make([]ContactPhoneModel, len(c.Phones))
	for i, p := range c.Phones {
		m.Phones[i] = ContactPhoneModel{ID: p.ID, ContactID: c.ID, Phone: p.Phone}
	}
	m.Addresses = make([]ContactAddressModel, len(c.Addresses))
	for i, a := range c.Addresses {
		m.Addresses[i] = ContactAddressModel{
			ID:           a.ID,
			ContactID:    c.ID,
			Address:      a.Address,
			Number:       a.Number,
			Complement:   a.Complement,
			Neighborhood: a.Neighborhood,
			City:         a.City,
			State:        a.State,
			ZipCode:      a.ZipCode,
		}
	}
}

// ContactModelFromDomain creates a new persistence model from a domain Contact.
func ContactModelFromDomain(c *partner.Contact) *ContactModel {
	m := &ContactModel{}
	m.FromDomain(c)
	return m
}
