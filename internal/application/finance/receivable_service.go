package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gestor/backend/internal/domain/finance"
	"github.com/gestor/backend/internal/domain/partner"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReceivableService handles accounts receivable use cases
type ReceivableService struct {
	receivables finance.ReceivableRepository
	registers   finance.CashRegisterRepository
	contacts    partner.ContactRepository
	tx          shared.TransactionManager
	logger      *zap.Logger
}

// NewReceivableService creates a new receivable service
func NewReceivableService(
	receivables finance.ReceivableRepository,
	registers finance.CashRegisterRepository,
	contacts partner.ContactRepository,
	tx shared.TransactionManager,
	logger *zap.Logger,
) *ReceivableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceivableService{
		receivables: receivables,
		registers:   registers,
		contacts:    contacts,
		tx:          tx,
		logger:      logger,
	}
}

// CreateReceivableRequest carries the data for a manually created receivable
type CreateReceivableRequest struct {
	CustomerID  *uuid.UUID
	Description string
	TotalValue  valueobject.Money
	DueDate     time.Time
}

// CreateReceivable creates a standalone receivable not tied to an order
func (s *ReceivableService) CreateReceivable(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, req CreateReceivableRequest) (*finance.Receivable, error) {
	if req.CustomerID != nil {
		if _, err := s.contacts.FindByIDForTenant(ctx, tenantID, *req.CustomerID); err != nil {
			return nil, err
		}
	}

	number, err := s.receivables.GenerateReceivableNumber(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate receivable number: %w", err)
	}

	receivable, err := finance.NewReceivable(tenantID, number, req.TotalValue, req.DueDate)
	if err != nil {
		return nil, err
	}
	receivable.SetCustomer(req.CustomerID)
	receivable.SetDescription(req.Description)
	if userID != nil {
		receivable.SetCreatedBy(*userID)
	}

	if err := s.receivables.Save(ctx, receivable); err != nil {
		return nil, fmt.Errorf("failed to save receivable: %w", err)
	}
	return receivable, nil
}

// GetReceivable returns a single receivable
func (s *ReceivableService) GetReceivable(ctx context.Context, tenantID, id uuid.UUID) (*finance.Receivable, error) {
	return s.receivables.FindByIDForTenant(ctx, tenantID, id)
}

// ListReceivables returns receivables matching the filter plus the total count
func (s *ReceivableService) ListReceivables(ctx context.Context, tenantID uuid.UUID, filter finance.ReceivableFilter) ([]finance.Receivable, int64, error) {
	receivables, err := s.receivables.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.receivables.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	return receivables, total, nil
}

// RegisterPaymentRequest carries the data for a receivable payment
type RegisterPaymentRequest struct {
	Value           valueobject.Money
	PaymentDate     time.Time
	PaymentMethodID *uuid.UUID
	Observation     string
}

// RegisterPayment records a payment against a receivable. When a cash
// register is open the payment also posts a RECEIVABLE_PAYMENT movement,
// and the session is stamped on the payment record. Both writes happen in
// one transaction.
func (s *ReceivableService) RegisterPayment(ctx context.Context, tenantID, id uuid.UUID, userID *uuid.UUID, req RegisterPaymentRequest) (*finance.Receivable, error) {
	receivable, err := s.receivables.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	register, err := s.registers.FindOpenForTenant(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		register = nil
	}

	var registerID *uuid.UUID
	if register != nil {
		rid := register.ID
		registerID = &rid
	}

	paymentDate := req.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}
	payment, err := receivable.RegisterPayment(req.Value, paymentDate, req.PaymentMethodID, registerID, req.Observation)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.receivables.SaveWithLock(ctx, receivable); err != nil {
			return err
		}
		if register == nil {
			return nil
		}
		description := "Receivable " + receivable.Number
		if _, err := register.PostMovement(finance.CashMovementTypeReceivablePayment, req.Value, description, req.PaymentMethodID, userID); err != nil {
			return err
		}
		return s.registers.SaveWithLock(ctx, register)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("receivable payment registered",
		zap.String("receivable_id", receivable.ID.String()),
		zap.String("payment_id", payment.ID.String()),
		zap.String("value", req.Value.StringFixed(2)),
		zap.String("status", string(receivable.Status)))
	return receivable, nil
}
