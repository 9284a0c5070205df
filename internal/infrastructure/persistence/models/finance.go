package models

import (
	"time"

	"github.com/gestor/backend/internal/domain/finance"
	"github.com/gestor/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceivableModel is the persistence model for the Receivable aggregate root.
// The payment history is stored as a JSONB document: payment records are
// immutable and always read together with the receivable.
type ReceivableModel struct {
	TenantAggregateModel
	Number        string                     `gorm:"type:varchar(50);not null;uniqueIndex:idx_receivable_tenant_number,priority:2"`
	CustomerID    *uuid.UUID                 `gorm:"type:uuid;index"`
	OrderID       *uuid.UUID                 `gorm:"type:uuid;index"`
	Description   string                     `gorm:"type:varchar(300)"`
	DueDate       time.Time                  `gorm:"not null;index"`
	TotalValue    decimal.Decimal            `gorm:"type:decimal(18,2);not null"`
	ReceivedValue decimal.Decimal            `gorm:"type:decimal(18,2);not null"`
	Status        finance.ReceivableStatus   `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	Payments      finance.ReceivablePayments `gorm:"type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (ReceivableModel) TableName() string {
	return "receivables"
}

// ToDomain converts the persistence model to a domain Receivable entity.
func (m *ReceivableModel) ToDomain() *finance.Receivable {
	receivable := &finance.Receivable{
		Number:        m.Number,
		CustomerID:    m.CustomerID,
		OrderID:       m.OrderID,
		Description:   m.Description,
		DueDate:       m.DueDate,
		TotalValue:    valueobject.NewMoneyBRL(m.TotalValue),
		ReceivedValue: valueobject.NewMoneyBRL(m.ReceivedValue),
		Status:        m.Status,
		Payments:      m.Payments,
	}
	m.PopulateTenantAggregateRoot(&receivable.TenantAggregateRoot)
	return receivable
}

// FromDomain populates the persistence model from a domain Receivable entity.
func (m *ReceivableModel) FromDomain(r *finance.Receivable) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.Number = r.Number
	m.CustomerID = r.CustomerID
	m.OrderID = r.OrderID
	m.Description = r.Description
	m.DueDate = r.DueDate
	m.TotalValue = r.TotalValue.Amount()
	m.ReceivedValue = r.ReceivedValue.Amount()
	m.Status = r.Status
	m.Payments = r.Payments
}

// ReceivableModelFromDomain creates a new persistence model from a domain Receivable.
func ReceivableModelFromDomain(r *finance.Receivable) *ReceivableModel {
	m := &ReceivableModel{}
	m.FromDomain(r)
	return m
}

// CashRegisterModel is the persistence model for the CashRegister aggregate root.
// Movements live in their own table so the ledger can be queried across
// sessions without loading every register.
type CashRegisterModel struct {
	TenantAggregateModel
	Status        finance.CashRegisterStatus `gorm:"type:varchar(10);not null;index"`
	OpeningDate   time.Time                  `gorm:"not null;index"`
	ClosingDate   *time.Time
	InitialAmount decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	FinalAmount   decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Movements     []CashMovementModel `gorm:"foreignKey:RegisterID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CashRegisterModel) TableName() string {
	return "cash_registers"
}

// CashMovementModel is an immutable cash ledger row. TenantID is denormalized
// from the register so the ledger can be filtered per tenant directly.
type CashMovementModel struct {
	ID              uuid.UUID                `gorm:"type:uuid;primary_key"`
	RegisterID      uuid.UUID                `gorm:"type:uuid;not null;index"`
	TenantID        uuid.UUID                `gorm:"type:uuid;not null;index"`
	Type            finance.CashMovementType `gorm:"type:varchar(30);not null;index"`
	Value           decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	Description     string                   `gorm:"type:varchar(300)"`
	PaymentMethodID *uuid.UUID               `gorm:"type:uuid"`
	UserID          *uuid.UUID               `gorm:"type:uuid"`
	OccurredAt      time.Time                `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (CashMovementModel) TableName() string {
	return "cash_movements"
}

// ToDomain converts a movement row to a domain CashMovement.
func (m *CashMovementModel) ToDomain() finance.CashMovement {
	return finance.CashMovement{
		ID:              m.ID,
		Type:            m.Type,
		Value:           valueobject.NewMoneyBRL(m.Value),
		Description:     m.Description,
		PaymentMethodID: m.PaymentMethodID,
		UserID:          m.UserID,
		OccurredAt:      m.OccurredAt,
	}
}

// ToDomain converts the persistence model to a domain CashRegister entity.
func (m *CashRegisterModel) ToDomain() *finance.CashRegister {
	register := &finance.CashRegister{
		Status:        m.Status,
		OpeningDate:   m.OpeningDate,
		ClosingDate:   m.ClosingDate,
		InitialAmount: valueobject.NewMoneyBRL(m.InitialAmount),
		FinalAmount:   valueobject.NewMoneyBRL(m.FinalAmount),
		Movements:     make([]finance.CashMovement, len(m.Movements)),
	}
	m.PopulateTenantAggregateRoot(&register.TenantAggregateRoot)
	for i := range m.Movements {
		register.Movements[i] = m.Movements[i].ToDomain()
	}
	return register
}

// FromDomain populates the persistence model from a domain CashRegister entity.
func (m *CashRegisterModel) FromDomain(r *finance.CashRegister) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.Status = r.Status
	m.OpeningDate = r.OpeningDate
	m.ClosingDate = r.ClosingDate
	m.InitialAmount = r.InitialAmount.Amount()
	m.FinalAmount = r.FinalAmount.Amount()
	m.Movements = make([]CashMovementModel, len(r.Movements))
	for i, mv := range r.Movements {
		m.Movements[i] = CashMovementModel{
			ID:              mv.ID,
			RegisterID:      r.ID,
			TenantID:        r.TenantID,
			Type:            mv.Type,
			Value:           mv.Value.Amount(),
			Description:     mv.Description,
			PaymentMethodID: mv.PaymentMethodID,
			UserID:          mv.UserID,
			OccurredAt:      mv.OccurredAt,
		}
	}
}

// CashRegisterModelFromDomain creates a new persistence model from a domain CashRegister.
func CashRegisterModelFromDomain(r *finance.CashRegister) *CashRegisterModel {
	m := &CashRegisterModel{}
	m.FromDomain(r)
	return m
}
