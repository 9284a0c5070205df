package finance

import (
	"fmt"
	"time"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// CashRegisterStatus represents the session state of a register
type CashRegisterStatus string

const (
	CashRegisterStatusOpen   CashRegisterStatus = "OPEN"
	CashRegisterStatusClosed CashRegisterStatus = "CLOSED"
)

// IsValid checks if the register status is valid
func (s CashRegisterStatus) IsValid() bool {
	return s == CashRegisterStatusOpen || s == CashRegisterStatusClosed
}

// CashMovementType classifies ledger entries
type CashMovementType string

const (
	CashMovementTypeSale              CashMovementType = "SALE"
	CashMovementTypeReceivablePayment CashMovementType = "RECEIVABLE_PAYMENT"
	CashMovementTypeWithdrawal        CashMovementType = "WITHDRAWAL"
	CashMovementTypeDeposit           CashMovementType = "DEPOSIT"
	CashMovementTypeAdjustment        CashMovementType = "ADJUSTMENT"
)

// IsValid checks if the movement type is valid
func (t CashMovementType) IsValid() bool {
	switch t {
	case CashMovementTypeSale, CashMovementTypeReceivablePayment,
		CashMovementTypeWithdrawal, CashMovementTypeDeposit, CashMovementTypeAdjustment:
		return true
	}
	return false
}

// CashMovement is a single immutable ledger entry. Value carries its sign:
// inflows are positive, WITHDRAWAL entries are stored negative, and
// ADJUSTMENT entries keep whatever sign the operator posted.
type CashMovement struct {
	ID              uuid.UUID
	Type            CashMovementType
	Value           valueobject.Money
	Description     string
	PaymentMethodID *uuid.UUID
	UserID          *uuid.UUID
	OccurredAt      time.Time
}

// CashRegister is one register session: opened with an initial float,
// accumulating movements, and closed with a counted final amount. The
// balance is never stored; it is always initial plus the signed movements.
type CashRegister struct {
	shared.TenantAggregateRoot
	Status        CashRegisterStatus
	OpeningDate   time.Time
	ClosingDate   *time.Time
	InitialAmount valueobject.Money
	FinalAmount   valueobject.Money
	Movements     []CashMovement
}

// OpenCashRegister starts a new register session with the given float.
// Callers must ensure no other session is open for the tenant.
func OpenCashRegister(tenantID uuid.UUID, initialAmount valueobject.Money) (*CashRegister, error) {
	if initialAmount.IsNegative() {
		return nil, shared.NewValidationError("initial amount cannot be negative")
	}

	return &CashRegister{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              CashRegisterStatusOpen,
		OpeningDate:         time.Now(),
		InitialAmount:       initialAmount,
		FinalAmount:         valueobject.ZeroBRL(),
		Movements:           make([]CashMovement, 0),
	}, nil
}

// IsOpen returns true while the session accepts movements
func (r *CashRegister) IsOpen() bool {
	return r.Status == CashRegisterStatusOpen
}

// Balance computes the current balance from the initial amount and the
// signed movement values
func (r *CashRegister) Balance() valueobject.Money {
	balance := r.InitialAmount
	for _, m := range r.Movements {
		balance = balance.MustAdd(m.Value)
	}
	return balance
}

// PostMovement appends a ledger entry. SALE, RECEIVABLE_PAYMENT and DEPOSIT
// require a positive value and add to the balance; WITHDRAWAL requires a
// positive value and subtracts it; ADJUSTMENT accepts a signed, non-zero
// value. A withdrawal that would drive the balance negative is rejected and
// leaves the register untouched.
func (r *CashRegister) PostMovement(movementType CashMovementType, value valueobject.Money, description string, paymentMethodID, userID *uuid.UUID) (*CashMovement, error) {
	if !r.IsOpen() {
		return nil, shared.NewInvalidStateError("cash register is closed")
	}
	if !movementType.IsValid() {
		return nil, shared.NewValidationError("invalid cash movement type: " + string(movementType))
	}

	var signed valueobject.Money
	switch movementType {
	case CashMovementTypeAdjustment:
		if value.IsZero() {
			return nil, shared.NewValidationError("adjustment value cannot be zero")
		}
		signed = value
	case CashMovementTypeWithdrawal:
		if !value.IsPositive() {
			return nil, shared.NewValidationError("withdrawal value must be positive")
		}
		remaining := r.Balance().MustSubtract(value)
		if remaining.IsNegative() {
			return nil, shared.NewDomainError("INSUFFICIENT_FUNDS", fmt.Sprintf(
				"withdrawal of %s exceeds register balance of %s",
				value.StringFixed(2), r.Balance().StringFixed(2)))
		}
		signed = value.Negate()
	default:
		if !value.IsPositive() {
			return nil, shared.NewValidationError("movement value must be positive")
		}
		signed = value
	}

	movement := CashMovement{
		ID:              uuid.New(),
		Type:            movementType,
		Value:           signed,
		Description:     description,
		PaymentMethodID: paymentMethodID,
		UserID:          userID,
		OccurredAt:      time.Now(),
	}
	r.Movements = append(r.Movements, movement)
	return &r.Movements[len(r.Movements)-1], nil
}

// Close ends the session, recording the counted final amount. It returns the
// reconciliation difference (counted minus computed balance); a non-zero
// difference is informational, never an error.
func (r *CashRegister) Close(finalAmount valueobject.Money) (valueobject.Money, error) {
	if !r.IsOpen() {
		return valueobject.Money{}, shared.NewInvalidStateError("cash register is already closed")
	}
	if finalAmount.IsNegative() {
		return valueobject.Money{}, shared.NewValidationError("final amount cannot be negative")
	}

	difference := finalAmount.MustSubtract(r.Balance())
	now := time.Now()
	r.Status = CashRegisterStatusClosed
	r.ClosingDate = &now
	r.FinalAmount = finalAmount
	return difference, nil
}
