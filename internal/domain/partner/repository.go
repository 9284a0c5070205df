package partner

import (
	"context"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactFilter defines filtering options for contact queries
type ContactFilter struct {
	shared.Filter
	Type             *ContactType // Filter by contact role
	Active           *bool        // Filter by soft-delete flag
	IsDeliveryPerson *bool        // Filter delivery people only
}

// ContactRepository defines the interface for contact persistence
type ContactRepository interface {
	// FindByIDForTenant finds a contact by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Contact, error)

	// FindAllForTenant finds all contacts for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ContactFilter) ([]Contact, error)

	// Save creates or updates a contact with its phones and addresses
	Save(ctx context.Context, contact *Contact) error

	// CountForTenant counts contacts for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ContactFilter) (int64, error)
}
