package sales

import (
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PaymentMethodType classifies how a payment method settles
type PaymentMethodType string

const (
	PaymentMethodTypeCash       PaymentMethodType = "CASH"
	PaymentMethodTypeCreditCard PaymentMethodType = "CREDIT_CARD"
	PaymentMethodTypeDebitCard  PaymentMethodType = "DEBIT_CARD"
	PaymentMethodTypePix        PaymentMethodType = "PIX"
	PaymentMethodTypeTransfer   PaymentMethodType = "TRANSFER"
	PaymentMethodTypeCheck      PaymentMethodType = "CHECK"
	PaymentMethodTypeReceivable PaymentMethodType = "RECEIVABLE"
	PaymentMethodTypeOther      PaymentMethodType = "OTHER"
)

// IsValid checks if the payment method type is valid
func (t PaymentMethodType) IsValid() bool {
	switch t {
	case PaymentMethodTypeCash, PaymentMethodTypeCreditCard, PaymentMethodTypeDebitCard,
		PaymentMethodTypePix, PaymentMethodTypeTransfer, PaymentMethodTypeCheck,
		PaymentMethodTypeReceivable, PaymentMethodTypeOther:
		return true
	}
	return false
}

// PaymentMethod is a tenant-scoped way of settling an order.
// Cash methods produce change; receivable methods defer settlement into an
// account receivable due in DueDays days.
type PaymentMethod struct {
	shared.TenantAggregateRoot
	Name    string
	Type    PaymentMethodType
	DueDays int
	Active  bool
}

// NewPaymentMethod creates a new payment method
func NewPaymentMethod(tenantID uuid.UUID, name string, methodType PaymentMethodType, dueDays int) (*PaymentMethod, error) {
	if name == "" {
		return nil, shared.NewValidationError("payment method name is required")
	}
	if !methodType.IsValid() {
		return nil, shared.NewValidationError("invalid payment method type: " + string(methodType))
	}
	if dueDays < 0 {
		return nil, shared.NewValidationError("due days cannot be negative")
	}

	return &PaymentMethod{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Type:                methodType,
		DueDays:             dueDays,
		Active:              true,
	}, nil
}

// Update changes the mutable attributes of the payment method
func (p *PaymentMethod) Update(name string, methodType PaymentMethodType, dueDays int) error {
	if name == "" {
		return shared.NewValidationError("payment method name is required")
	}
	if !methodType.IsValid() {
		return shared.NewValidationError("invalid payment method type: " + string(methodType))
	}
	if dueDays < 0 {
		return shared.NewValidationError("due days cannot be negative")
	}

	p.Name = name
	p.Type = methodType
	p.DueDays = dueDays
	return nil
}

// IsCash returns true for methods settled with physical cash
func (p *PaymentMethod) IsCash() bool {
	return p.Type == PaymentMethodTypeCash
}

// GeneratesReceivable returns true for methods that defer settlement
func (p *PaymentMethod) GeneratesReceivable() bool {
	return p.Type == PaymentMethodTypeReceivable
}

// Deactivate marks the payment method as inactive
func (p *PaymentMethod) Deactivate() {
	p.Active = false
}

// Activate marks the payment method as active
func (p *PaymentMethod) Activate() {
	p.Active = true
}
