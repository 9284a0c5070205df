package models

import (
	"github.com/gestor/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// OrganizationModel is the persistence model for the Organization aggregate root.
type OrganizationModel struct {
	AggregateModel
	Name     string `gorm:"type:varchar(200);not null"`
	Document string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (OrganizationModel) TableName() string {
	return "organizations"
}

// ToDomain converts the persistence model to a domain Organization entity.
func (m *OrganizationModel) ToDomain() *identity.Organization {
	org := &identity.Organization{
		Name:     m.Name,
		Document: m.Document,
	}
	m.PopulateAggregateRoot(&org.BaseAggregateRoot)
	return org
}

// FromDomain populates the persistence model from a domain Organization entity.
func (m *OrganizationModel) FromDomain(o *identity.Organization) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Name = o.Name
	m.Document = o.Document
}

// OrganizationModelFromDomain creates a new persistence model from a domain Organization.
func OrganizationModelFromDomain(o *identity.Organization) *OrganizationModel {
	m := &OrganizationModel{}
	m.FromDomain(o)
	return m
}

// UserModel is the persistence model for the User aggregate root.
type UserModel struct {
	AggregateModel
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Username       string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHash   string    `gorm:"type:varchar(200);not null"`
	Name           string    `gorm:"type:varchar(200)"`
	Email          string    `gorm:"type:varchar(200)"`
	Active         bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	user := &identity.User{
		OrganizationID: m.OrganizationID,
		Username:       m.Username,
		PasswordHash:   m.PasswordHash,
		Name:           m.Name,
		Email:          m.Email,
		Active:         m.Active,
	}
	m.PopulateAggregateRoot(&user.BaseAggregateRoot)
	return user
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.OrganizationID = u.OrganizationID
	m.Username = u.Username
	m.PasswordHash = u.PasswordHash
	m.Name = u.Name
	m.Email = u.Email
	m.Active = u.Active
}

// UserModelFromDomain creates a new persistence model from a domain User.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
