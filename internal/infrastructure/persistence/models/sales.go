package models

import (
	"time"

	"github.com/gestor/backend/internal/domain/sales"
	"github.com/gestor/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethodModel is the persistence model for the PaymentMethod aggregate root.
type PaymentMethodModel struct {
	TenantAggregateModel
	Name    string                  `gorm:"type:varchar(100);not null"`
	Type    sales.PaymentMethodType `gorm:"type:varchar(20);not null;index"`
	DueDays int                     `gorm:"not null;default:0"`
	Active  bool                    `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (PaymentMethodModel) TableName() string {
	return "payment_methods"
}

// ToDomain converts the persistence model to a domain PaymentMethod entity.
func (m *PaymentMethodModel) ToDomain() *sales.PaymentMethod {
	method := &sales.PaymentMethod{
		Name:    m.Name,
		Type:    m.Type,
		DueDays: m.DueDays,
		Active:  m.Active,
	}
	m.PopulateTenantAggregateRoot(&method.TenantAggregateRoot)
	return method
}

// FromDomain populates the persistence model from a domain PaymentMethod entity.
func (m *PaymentMethodModel) FromDomain(p *sales.PaymentMethod) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Name = p.Name
	m.Type = p.Type
	m.DueDays = p.DueDays
	m.Active = p.Active
}

// PaymentMethodModelFromDomain creates a new persistence model from a domain PaymentMethod.
func PaymentMethodModelFromDomain(p *sales.PaymentMethod) *PaymentMethodModel {
	m := &PaymentMethodModel{}
	m.FromDomain(p)
	return m
}

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	TenantAggregateModel
	Number           string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_order_tenant_number,priority:2"`
	CustomerID       *uuid.UUID          `gorm:"type:uuid;index"`
	DeliveryPersonID *uuid.UUID          `gorm:"type:uuid;index"`
	OrderDate        time.Time           `gorm:"not null;index"`
	Status           sales.OrderStatus   `gorm:"type:varchar(20);not null;index"`
	DeliveryFee      decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	TotalValue       decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Observation      string              `gorm:"type:text"`
	Items            []OrderItemModel    `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	Payments         []OrderPaymentModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is an order line row.
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(300)"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// OrderPaymentModel is an order payment allocation row.
type OrderPaymentModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentMethodID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Value           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Change          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderPaymentModel) TableName() string {
	return "order_payments"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *sales.Order {
	order := &sales.Order{
		Number:           m.Number,
		CustomerID:       m.CustomerID,
		DeliveryPersonID: m.DeliveryPersonID,
		OrderDate:        m.OrderDate,
		Status:           m.Status,
		DeliveryFee:      valueobject.NewMoneyBRL(m.DeliveryFee),
		TotalValue:       valueobject.NewMoneyBRL(m.TotalValue),
		Observation:      m.Observation,
		Items:            make([]sales.OrderItem, len(m.Items)),
		Payments:         make([]sales.OrderPayment, len(m.Payments)),
	}
	m.PopulateTenantAggregateRoot(&order.TenantAggregateRoot)
	for i, item := range m.Items {
		order.Items[i] = sales.OrderItem{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   valueobject.NewMoneyBRL(item.UnitPrice),
			TotalPrice:  valueobject.NewMoneyBRL(item.TotalPrice),
		}
	}
	for i, p := range m.Payments {
		order.Payments[i] = sales.OrderPayment{
			ID:              p.ID,
			PaymentMethodID: p.PaymentMethodID,
			Value:           valueobject.NewMoneyBRL(p.Value),
			Change:          valueobject.NewMoneyBRL(p.Change),
		}
	}
	return order
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *sales.Order) {
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	m.Number = o.Number
	m.CustomerID = o.CustomerID
	m.DeliveryPersonID = o.DeliveryPersonID
	m.OrderDate = o.OrderDate
	m.Status = o.Status
	m.DeliveryFee = o.DeliveryFee.Amount()
	m.TotalValue = o.TotalValue.Amount()
	m.Observation = o.Observation
	m.Items = make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = OrderItemModel{
			ID:          item.ID,
			OrderID:     o.ID,
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.Amount(),
			TotalPrice:  item.TotalPrice.Amount(),
		}
	}
	m.Payments = make([]OrderPaymentModel, len(o.Payments))
	for i, p := range o.Payments {
		m.Payments[i] = OrderPaymentModel{
			ID:              p.ID,
			OrderID:         o.ID,
			PaymentMethodID: p.PaymentMethodID,
			Value:           p.Value.Amount(),
			Change:          p.Change.Amount(),
		}
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *sales.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}
