package catalog

import (
	"context"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductFilter defines filtering options for product queries
type ProductFilter struct {
	shared.Filter
	Type         *ProductType // Filter by product type
	Active       *bool        // Filter by soft-delete flag
	LowStock     *bool        // Filter products below minimum stock
	BarCode      *string      // Exact bar code lookup
	InternalCode *string      // Exact internal code lookup
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByIDForTenant finds a product by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindByIDsForTenant finds the products with the given IDs
	FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// FindAllForTenant finds all products for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ProductFilter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// CountForTenant counts products for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ProductFilter) (int64, error)
}
