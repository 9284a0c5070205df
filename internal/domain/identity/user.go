package identity

import (
	"context"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Organization is the tenant root: every other aggregate is scoped to one
type Organization struct {
	shared.BaseAggregateRoot
	Name     string
	Document string
}

// NewOrganization creates a new organization
func NewOrganization(name, document string) (*Organization, error) {
	if name == "" {
		return nil, shared.NewValidationError("organization name is required")
	}
	return &Organization{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Document:          document,
	}, nil
}

// User is an operator account belonging to one organization. The password
// is stored only as a bcrypt hash produced by the infrastructure layer.
type User struct {
	shared.BaseAggregateRoot
	OrganizationID uuid.UUID
	Username       string
	PasswordHash   string
	Name           string
	Email          string
	Active         bool
}

// NewUser creates a new active user with a pre-hashed password
func NewUser(organizationID uuid.UUID, username, passwordHash, name, email string) (*User, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewValidationError("organization is required")
	}
	if username == "" {
		return nil, shared.NewValidationError("username is required")
	}
	if passwordHash == "" {
		return nil, shared.NewValidationError("password hash is required")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrganizationID:    organizationID,
		Username:          username,
		PasswordHash:      passwordHash,
		Name:              name,
		Email:             email,
		Active:            true,
	}, nil
}

// Deactivate disables the account
func (u *User) Deactivate() {
	u.Active = false
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by its unique username
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error
}

// OrganizationRepository defines the interface for organization persistence
type OrganizationRepository interface {
	// FindByID finds an organization by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)

	// Save creates or updates an organization
	Save(ctx context.Context, org *Organization) error
}
