package sales

import (
	"context"
	"time"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderFilter defines filtering options for order queries
type OrderFilter struct {
	shared.Filter
	CustomerID *uuid.UUID   // Filter by customer contact
	Status     *OrderStatus // Filter by lifecycle status
	FromDate   *time.Time   // Filter by order date range start
	ToDate     *time.Time   // Filter by order date range end
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByIDForTenant finds an order by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindByNumber finds an order by its number for a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Order, error)

	// FindAllForTenant finds all orders for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter OrderFilter) ([]Order, error)

	// Save creates or updates an order together with its items and payments
	Save(ctx context.Context, order *Order) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *Order) error

	// CountForTenant counts orders for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter OrderFilter) (int64, error)

	// GenerateOrderNumber generates a unique order number for a tenant
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// PaymentMethodFilter defines filtering options for payment method queries
type PaymentMethodFilter struct {
	shared.Filter
	Type   *PaymentMethodType // Filter by settlement type
	Active *bool              // Filter by active flag
}

// PaymentMethodRepository defines the interface for payment method persistence
type PaymentMethodRepository interface {
	// FindByIDForTenant finds a payment method by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PaymentMethod, error)

	// FindByIDsForTenant finds the payment methods with the given IDs
	FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]PaymentMethod, error)

	// FindAllForTenant finds all payment methods for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter PaymentMethodFilter) ([]PaymentMethod, error)

	// Save creates or updates a payment method
	Save(ctx context.Context, method *PaymentMethod) error

	// Delete removes a payment method for a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts payment methods for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter PaymentMethodFilter) (int64, error)
}
