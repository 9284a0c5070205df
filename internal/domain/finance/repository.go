package finance

import (
	"context"
	"time"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReceivableFilter defines filtering options for receivable queries
type ReceivableFilter struct {
	shared.Filter
	CustomerID *uuid.UUID        // Filter by customer contact
	OrderID    *uuid.UUID        // Filter by originating order
	Status     *ReceivableStatus // Filter by persisted status
	DueFrom    *time.Time        // Filter by due date range start
	DueTo      *time.Time        // Filter by due date range end
	Overdue    *bool             // Filter only overdue receivables
}

// ReceivableRepository defines the interface for receivable persistence
type ReceivableRepository interface {
	// FindByIDForTenant finds a receivable by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Receivable, error)

	// FindByOrder finds the receivable generated from an order, if any
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*Receivable, error)

	// FindAllForTenant finds all receivables for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ReceivableFilter) ([]Receivable, error)

	// Save creates or updates a receivable
	Save(ctx context.Context, receivable *Receivable) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, receivable *Receivable) error

	// CountForTenant counts receivables for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ReceivableFilter) (int64, error)

	// GenerateReceivableNumber generates a unique receivable number for a tenant
	GenerateReceivableNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// CashMovementFilter defines filtering options for movement queries
type CashMovementFilter struct {
	shared.Filter
	RegisterID *uuid.UUID        // Filter by register session
	Type       *CashMovementType // Filter by movement type
	FromDate   *time.Time        // Filter by occurrence range start
	ToDate     *time.Time        // Filter by occurrence range end
}

// CashRegisterRepository defines the interface for cash register persistence
type CashRegisterRepository interface {
	// FindByIDForTenant finds a register session by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CashRegister, error)

	// FindOpenForTenant finds the currently open session for a tenant, if any.
	// Returns shared.ErrNotFound when no session is open.
	FindOpenForTenant(ctx context.Context, tenantID uuid.UUID) (*CashRegister, error)

	// FindAllForTenant finds all register sessions for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CashRegister, error)

	// CountForTenant counts register sessions for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// FindMovements lists ledger entries across sessions for a tenant
	FindMovements(ctx context.Context, tenantID uuid.UUID, filter CashMovementFilter) ([]CashMovement, error)

	// CountMovements counts ledger entries for a tenant with optional filters
	CountMovements(ctx context.Context, tenantID uuid.UUID, filter CashMovementFilter) (int64, error)

	// Save creates or updates a register session together with its movements
	Save(ctx context.Context, register *CashRegister) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, register *CashRegister) error
}
