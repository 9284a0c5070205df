package finance

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ReceivableStatus represents the persisted settlement state of a receivable
type ReceivableStatus string

const (
	ReceivableStatusOpen            ReceivableStatus = "OPEN"
	ReceivableStatusPartialReceived ReceivableStatus = "PARTIAL_RECEIVED"
	ReceivableStatusReceived        ReceivableStatus = "RECEIVED"

	// ReceivableStatusOverdue is derived at read time and never persisted:
	// an unsettled receivable past its due date reports as OVERDUE.
	ReceivableStatusOverdue ReceivableStatus = "OVERDUE"
)

// IsValid checks if the status is a valid persisted status
func (s ReceivableStatus) IsValid() bool {
	switch s {
	case ReceivableStatusOpen, ReceivableStatusPartialReceived, ReceivableStatusReceived:
		return true
	}
	return false
}

// IsTerminal returns true when no further payments may be registered
func (s ReceivableStatus) IsTerminal() bool {
	return s == ReceivableStatusReceived
}

// ReceivablePayment is an immutable record of a received payment.
// Posted payments are never edited or removed.
type ReceivablePayment struct {
	ID              uuid.UUID  `json:"id"`
	Value           string     `json:"value"`
	PaymentDate     time.Time  `json:"payment_date"`
	PaymentMethodID *uuid.UUID `json:"payment_method_id,omitempty"`
	CashRegisterID  *uuid.UUID `json:"cash_register_id,omitempty"`
	Observation     string     `json:"observation,omitempty"`
}

// Amount returns the payment value as Money
func (p ReceivablePayment) Amount() (valueobject.Money, error) {
	return valueobject.NewMoneyBRLFromString(p.Value)
}

// ReceivablePayments is stored as a JSONB column
type ReceivablePayments []ReceivablePayment

// Value implements driver.Valuer for database storage
func (p ReceivablePayments) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for database retrieval
func (p *ReceivablePayments) Scan(value any) error {
	if value == nil {
		*p = ReceivablePayments{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ReceivablePayments", value)
	}
	return json.Unmarshal(data, p)
}

// Receivable is an amount owed by a customer, settled by a sequence of
// immutable payments. ReceivedValue and Status are derived from the payment
// history and recomputed on every registration.
type Receivable struct {
	shared.TenantAggregateRoot
	Number        string
	CustomerID    *uuid.UUID
	OrderID       *uuid.UUID
	Description   string
	DueDate       time.Time
	TotalValue    valueobject.Money
	ReceivedValue valueobject.Money
	Status        ReceivableStatus
	Payments      ReceivablePayments
}

// NewReceivable creates a new open receivable
func NewReceivable(tenantID uuid.UUID, number string, totalValue valueobject.Money, dueDate time.Time) (*Receivable, error) {
	if number == "" {
		return nil, shared.NewValidationError("receivable number is required")
	}
	if !totalValue.IsPositive() {
		return nil, shared.NewValidationError("receivable total value must be positive")
	}
	if dueDate.IsZero() {
		return nil, shared.NewValidationError("receivable due date is required")
	}

	return &Receivable{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		DueDate:             dueDate,
		TotalValue:          totalValue,
		ReceivedValue:       valueobject.ZeroBRL(),
		Status:              ReceivableStatusOpen,
		Payments:            make(ReceivablePayments, 0),
	}, nil
}

// SetCustomer links the receivable to a customer contact
func (r *Receivable) SetCustomer(customerID *uuid.UUID) {
	r.CustomerID = customerID
}

// SetOrder links the receivable to the order it originated from
func (r *Receivable) SetOrder(orderID *uuid.UUID) {
	r.OrderID = orderID
}

// SetDescription sets a free-form description
func (r *Receivable) SetDescription(description string) {
	r.Description = description
}

// CanRegisterPayment returns true while the receivable accepts payments
func (r *Receivable) CanRegisterPayment() bool {
	return !r.Status.IsTerminal()
}

// RegisterPayment appends an immutable payment record and recomputes the
// received total and status. Over-payment is accepted; the receivable
// settles as RECEIVED and the surplus stays visible in the payment history.
func (r *Receivable) RegisterPayment(value valueobject.Money, paymentDate time.Time, paymentMethodID, cashRegisterID *uuid.UUID, observation string) (*ReceivablePayment, error) {
	if !r.CanRegisterPayment() {
		return nil, shared.NewInvalidStateError("receivable is already fully received")
	}
	if !value.IsPositive() {
		return nil, shared.NewValidationError("payment value must be positive")
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	payment := ReceivablePayment{
		ID:              uuid.New(),
		Value:           value.Amount().String(),
		PaymentDate:     paymentDate,
		PaymentMethodID: paymentMethodID,
		CashRegisterID:  cashRegisterID,
		Observation:     observation,
	}
	r.Payments = append(r.Payments, payment)
	r.ReceivedValue = r.ReceivedValue.MustAdd(value)
	r.recomputeStatus()

	return &r.Payments[len(r.Payments)-1], nil
}

// recomputeStatus derives the persisted status from received vs total
func (r *Receivable) recomputeStatus() {
	received, _ := r.ReceivedValue.GreaterThanOrEqual(r.TotalValue)
	switch {
	case received:
		r.Status = ReceivableStatusReceived
	case r.ReceivedValue.IsPositive():
		r.Status = ReceivableStatusPartialReceived
	default:
		r.Status = ReceivableStatusOpen
	}
}

// Outstanding returns the amount still owed, floored at zero
func (r *Receivable) Outstanding() valueobject.Money {
	outstanding := r.TotalValue.MustSubtract(r.ReceivedValue)
	if outstanding.IsNegative() {
		return valueobject.ZeroBRL()
	}
	return outstanding
}

// IsOverdue reports whether the receivable is past due and not settled
func (r *Receivable) IsOverdue(now time.Time) bool {
	return r.Status != ReceivableStatusReceived && now.After(r.DueDate)
}

// EffectiveStatus returns the status as seen by readers: OVERDUE when past
// due and unsettled, the persisted status otherwise. RECEIVED always wins.
func (r *Receivable) EffectiveStatus(now time.Time) ReceivableStatus {
	if r.IsOverdue(now) {
		return ReceivableStatusOverdue
	}
	return r.Status
}
