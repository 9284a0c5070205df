package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/gestor/backend/internal/domain/finance"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CashRegisterService handles cash register sessions and manual movements
type CashRegisterService struct {
	registers finance.CashRegisterRepository
	logger    *zap.Logger
}

// NewCashRegisterService creates a new cash register service
func NewCashRegisterService(registers finance.CashRegisterRepository, logger *zap.Logger) *CashRegisterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CashRegisterService{registers: registers, logger: logger}
}

// OpenCashRegister opens a new register session. Only one session may be
// open per tenant at a time.
func (s *CashRegisterService) OpenCashRegister(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, initialAmount valueobject.Money) (*finance.CashRegister, error) {
	_, err := s.registers.FindOpenForTenant(ctx, tenantID)
	if err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "a cash register is already open")
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	register, err := finance.OpenCashRegister(tenantID, initialAmount)
	if err != nil {
		return nil, err
	}
	if userID != nil {
		register.SetCreatedBy(*userID)
	}

	if err := s.registers.Save(ctx, register); err != nil {
		return nil, fmt.Errorf("failed to save cash register: %w", err)
	}
	s.logger.Info("cash register opened",
		zap.String("register_id", register.ID.String()),
		zap.String("initial_amount", initialAmount.StringFixed(2)))
	return register, nil
}

// CloseCashRegister closes a session against a counted final amount and
// returns the register together with the counted-minus-expected difference
func (s *CashRegisterService) CloseCashRegister(ctx context.Context, tenantID, id uuid.UUID, finalAmount valueobject.Money) (*finance.CashRegister, valueobject.Money, error) {
	register, err := s.registers.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, valueobject.ZeroBRL(), err
	}

	difference, err := register.Close(finalAmount)
	if err != nil {
		return nil, valueobject.ZeroBRL(), err
	}
	if err := s.registers.SaveWithLock(ctx, register); err != nil {
		return nil, valueobject.ZeroBRL(), err
	}

	s.logger.Info("cash register closed",
		zap.String("register_id", register.ID.String()),
		zap.String("final_amount", finalAmount.StringFixed(2)),
		zap.String("difference", difference.StringFixed(2)))
	return register, difference, nil
}

// GetCurrentCashRegister returns the tenant's open session, or NOT_FOUND
// when the register is closed
func (s *CashRegisterService) GetCurrentCashRegister(ctx context.Context, tenantID uuid.UUID) (*finance.CashRegister, error) {
	return s.registers.FindOpenForTenant(ctx, tenantID)
}

// GetCashRegister returns a single register session
func (s *CashRegisterService) GetCashRegister(ctx context.Context, tenantID, id uuid.UUID) (*finance.CashRegister, error) {
	return s.registers.FindByIDForTenant(ctx, tenantID, id)
}

// ListCashRegisters returns register sessions matching the filter plus the
// total count
func (s *CashRegisterService) ListCashRegisters(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.CashRegister, int64, error) {
	registers, err := s.registers.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.registers.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	return registers, total, nil
}

// PostMovementRequest carries the data for a manual cash movement
type PostMovementRequest struct {
	Type            finance.CashMovementType
	Value           valueobject.Money
	Description     string
	PaymentMethodID *uuid.UUID
}

// PostMovement records a manual movement on the open register
func (s *CashRegisterService) PostMovement(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, req PostMovementRequest) (*finance.CashMovement, error) {
	register, err := s.registers.FindOpenForTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewInvalidStateError("no open cash register")
		}
		return nil, err
	}

	movement, err := register.PostMovement(req.Type, req.Value, req.Description, req.PaymentMethodID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.registers.SaveWithLock(ctx, register); err != nil {
		return nil, err
	}
	return movement, nil
}

// ListMovements returns movements matching the filter plus the total count
func (s *CashRegisterService) ListMovements(ctx context.Context, tenantID uuid.UUID, filter finance.CashMovementFilter) ([]finance.CashMovement, int64, error) {
	movements, err := s.registers.FindMovements(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.registers.CountMovements(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}
