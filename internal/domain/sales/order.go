package sales

import (
	"fmt"
	"time"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "NEW"
	OrderStatusDelivering OrderStatus = "DELIVERING"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCanceled   OrderStatus = "CANCELED"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusNew, OrderStatusDelivering, OrderStatusDelivered,
		OrderStatusCompleted, OrderStatusCanceled:
		return true
	}
	return false
}

// IsTerminal returns true if no further transitions are allowed
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCanceled
}

// CanTransitionTo checks if transition to the target status is allowed.
// The happy path is NEW -> DELIVERING -> DELIVERED -> COMPLETED; forward
// states may be skipped (counter sales complete directly), and CANCELED is
// reachable from any non-terminal state.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	transitions := map[OrderStatus][]OrderStatus{
		OrderStatusNew:        {OrderStatusDelivering, OrderStatusDelivered, OrderStatusCompleted, OrderStatusCanceled},
		OrderStatusDelivering: {OrderStatusDelivered, OrderStatusCompleted, OrderStatusCanceled},
		OrderStatusDelivered:  {OrderStatusCompleted, OrderStatusCanceled},
		OrderStatusCompleted:  {},
		OrderStatusCanceled:   {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// OrderItem is a line of an order. TotalPrice is always derived from
// Quantity and UnitPrice and is never set directly.
type OrderItem struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	Description string
	Quantity    int
	UnitPrice   valueobject.Money
	TotalPrice  valueobject.Money
}

// recalculate recomputes the line total from quantity and unit price
func (i *OrderItem) recalculate() {
	i.TotalPrice = i.UnitPrice.MultiplyByInt(int64(i.Quantity))
}

// OrderPayment allocates part of the order total to a payment method.
// Change is only ever non-zero for cash methods.
type OrderPayment struct {
	ID              uuid.UUID
	PaymentMethodID uuid.UUID
	Value           valueobject.Money
	Change          valueobject.Money
}

// Order is the sales order aggregate root. TotalValue is recomputed inside
// the aggregate on every item or delivery fee change and cannot be set from
// the outside.
type Order struct {
	shared.TenantAggregateRoot
	Number           string
	CustomerID       *uuid.UUID
	DeliveryPersonID *uuid.UUID
	OrderDate        time.Time
	Status           OrderStatus
	DeliveryFee      valueobject.Money
	TotalValue       valueobject.Money
	Observation      string
	Items            []OrderItem
	Payments         []OrderPayment
}

// NewOrder creates a new order in NEW status with no items or payments
func NewOrder(tenantID uuid.UUID, number string, customerID *uuid.UUID) (*Order, error) {
	if number == "" {
		return nil, shared.NewValidationError("order number is required")
	}

	return &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		CustomerID:          customerID,
		OrderDate:           time.Now(),
		Status:              OrderStatusNew,
		DeliveryFee:         valueobject.ZeroBRL(),
		TotalValue:          valueobject.ZeroBRL(),
		Items:               make([]OrderItem, 0),
		Payments:            make([]OrderPayment, 0),
	}, nil
}

// CanEdit returns true while items, fee and payments may still change
func (o *Order) CanEdit() bool {
	return o.Status == OrderStatusNew || o.Status == OrderStatusDelivering
}

func (o *Order) ensureEditable() error {
	if !o.CanEdit() {
		return shared.NewInvalidStateError(fmt.Sprintf("order in status %s cannot be modified", o.Status))
	}
	return nil
}

// AddItem appends a new line to the order and recomputes the total
func (o *Order) AddItem(productID uuid.UUID, description string, quantity int, unitPrice valueobject.Money) (*OrderItem, error) {
	if err := o.ensureEditable(); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("product is required")
	}
	if quantity < 1 {
		return nil, shared.NewValidationError("item quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("item unit price cannot be negative")
	}

	item := OrderItem{
		ID:          uuid.New(),
		ProductID:   productID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}
	item.recalculate()

	o.Items = append(o.Items, item)
	o.recalculateTotals()
	return &o.Items[len(o.Items)-1], nil
}

// UpdateItemQuantity changes the quantity of an existing line
func (o *Order) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if quantity < 1 {
		return shared.NewValidationError("item quantity must be at least 1")
	}

	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items[i].Quantity = quantity
			o.Items[i].recalculate()
			o.recalculateTotals()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "order item not found")
}

// UpdateItemPrice changes the unit price of an existing line
func (o *Order) UpdateItemPrice(itemID uuid.UUID, unitPrice valueobject.Money) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if unitPrice.IsNegative() {
		return shared.NewValidationError("item unit price cannot be negative")
	}

	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items[i].UnitPrice = unitPrice
			o.Items[i].recalculate()
			o.recalculateTotals()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "order item not found")
}

// RemoveItem deletes a line from the order and recomputes the total
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}

	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.recalculateTotals()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "order item not found")
}

// SetDeliveryFee changes the delivery fee and recomputes the total
func (o *Order) SetDeliveryFee(fee valueobject.Money) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if fee.IsNegative() {
		return shared.NewValidationError("delivery fee cannot be negative")
	}

	o.DeliveryFee = fee
	o.recalculateTotals()
	return nil
}

// SetDeliveryPerson assigns the contact responsible for delivery
func (o *Order) SetDeliveryPerson(contactID *uuid.UUID) {
	o.DeliveryPersonID = contactID
}

// SetObservation sets free-form order notes
func (o *Order) SetObservation(observation string) {
	o.Observation = observation
}

// recalculateTotals recomputes TotalValue from items and delivery fee.
// While the order carries exactly one payment, that payment tracks the
// total so a plain sale never goes out of sync.
func (o *Order) recalculateTotals() {
	total := valueobject.ZeroBRL()
	for _, item := range o.Items {
		total = total.MustAdd(item.TotalPrice)
	}
	o.TotalValue = total.MustAdd(o.DeliveryFee)

	if len(o.Payments) == 1 {
		o.Payments[0].Value = o.TotalValue
		o.Payments[0].Change = valueobject.ZeroBRL()
	}
}

// TotalPaid returns the sum of all payment values
func (o *Order) TotalPaid() valueobject.Money {
	paid := valueobject.ZeroBRL()
	for _, p := range o.Payments {
		paid = paid.MustAdd(p.Value)
	}
	return paid
}

// AddPayment allocates a payment method to the order. When value is nil the
// payment takes the outstanding amount (total minus payments so far, floored
// at zero). A method may appear at most once per order.
func (o *Order) AddPayment(paymentMethodID uuid.UUID, value *valueobject.Money) (*OrderPayment, error) {
	if err := o.ensureEditable(); err != nil {
		return nil, err
	}
	if paymentMethodID == uuid.Nil {
		return nil, shared.NewValidationError("payment method is required")
	}
	for _, p := range o.Payments {
		if p.PaymentMethodID == paymentMethodID {
			return nil, shared.NewValidationError("payment method already used on this order")
		}
	}

	var amount valueobject.Money
	if value != nil {
		if value.IsNegative() {
			return nil, shared.NewValidationError("payment value cannot be negative")
		}
		amount = *value
	} else {
		outstanding := o.TotalValue.MustSubtract(o.TotalPaid())
		if outstanding.IsNegative() {
			outstanding = valueobject.ZeroBRL()
		}
		amount = outstanding
	}

	o.Payments = append(o.Payments, OrderPayment{
		ID:              uuid.New(),
		PaymentMethodID: paymentMethodID,
		Value:           amount,
		Change:          valueobject.ZeroBRL(),
	})
	return &o.Payments[len(o.Payments)-1], nil
}

// UpdatePaymentValue changes the allocated value of an existing payment
func (o *Order) UpdatePaymentValue(paymentID uuid.UUID, value valueobject.Money) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if value.IsNegative() {
		return shared.NewValidationError("payment value cannot be negative")
	}

	for i := range o.Payments {
		if o.Payments[i].ID == paymentID {
			o.Payments[i].Value = value
			o.Payments[i].Change = valueobject.ZeroBRL()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "order payment not found")
}

// RemovePayment removes a payment allocation. The last remaining payment
// cannot be removed; an order always keeps at least one once any exists.
func (o *Order) RemovePayment(paymentID uuid.UUID) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if len(o.Payments) == 1 && o.Payments[0].ID == paymentID {
		return shared.NewValidationError("cannot remove the last payment from an order")
	}

	for i := range o.Payments {
		if o.Payments[i].ID == paymentID {
			o.Payments = append(o.Payments[:i], o.Payments[i+1:]...)
			o.recalculateTotals()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "order payment not found")
}

// FinalizePayments validates the allocation against the order total and
// computes change. cashMethods reports, per payment method ID, whether the
// method settles in physical cash. The payments must cover the total; any
// excess becomes change on the first cash payment. Non-cash methods never
// carry change, so an overpayment without a cash payment is rejected.
func (o *Order) FinalizePayments(cashMethods map[uuid.UUID]bool) error {
	if len(o.Payments) == 0 {
		return shared.NewValidationError("order has no payments")
	}

	paid := o.TotalPaid()
	sufficient, err := paid.GreaterThanOrEqual(o.TotalValue)
	if err != nil {
		return err
	}
	if !sufficient {
		return shared.NewValidationError(fmt.Sprintf(
			"insufficient payment: paid %s of %s", paid.StringFixed(2), o.TotalValue.StringFixed(2)))
	}

	excess := paid.MustSubtract(o.TotalValue)
	for i := range o.Payments {
		o.Payments[i].Change = valueobject.ZeroBRL()
	}
	if excess.IsPositive() {
		assigned := false
		for i := range o.Payments {
			if cashMethods[o.Payments[i].PaymentMethodID] {
				o.Payments[i].Change = excess
				assigned = true
				break
			}
		}
		if !assigned {
			return shared.NewValidationError("payment exceeds total but no cash payment is present to return change")
		}
	}
	return nil
}

// ItemSpec describes one line for a wholesale item resubmission
type ItemSpec struct {
	ProductID   uuid.UUID
	Description string
	Quantity    int
	UnitPrice   valueobject.Money
}

// PaymentSpec describes one allocation for a wholesale payment resubmission.
// A nil Value takes the outstanding amount at application time.
type PaymentSpec struct {
	PaymentMethodID uuid.UUID
	Value           *valueobject.Money
}

// ReplaceItems swaps the full item list and recomputes the total. Used when
// a client resubmits the whole order; incremental edits go through AddItem
// and friends.
func (o *Order) ReplaceItems(specs []ItemSpec) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}

	items := make([]OrderItem, 0, len(specs))
	for _, spec := range specs {
		if spec.ProductID == uuid.Nil {
			return shared.NewValidationError("product is required")
		}
		if spec.Quantity < 1 {
			return shared.NewValidationError("item quantity must be at least 1")
		}
		if spec.UnitPrice.IsNegative() {
			return shared.NewValidationError("item unit price cannot be negative")
		}
		item := OrderItem{
			ID:          uuid.New(),
			ProductID:   spec.ProductID,
			Description: spec.Description,
			Quantity:    spec.Quantity,
			UnitPrice:   spec.UnitPrice,
		}
		item.recalculate()
		items = append(items, item)
	}

	o.Items = items
	o.recalculateTotals()
	return nil
}

// ReplacePayments swaps the full payment allocation. An order that already
// carries payments cannot be resubmitted without any.
func (o *Order) ReplacePayments(specs []PaymentSpec) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if len(specs) == 0 && len(o.Payments) > 0 {
		return shared.NewValidationError("cannot remove all payments from an order")
	}

	o.Payments = make([]OrderPayment, 0, len(specs))
	for _, spec := range specs {
		if _, err := o.AddPayment(spec.PaymentMethodID, spec.Value); err != nil {
			return err
		}
	}
	return nil
}

// ChangeStatus moves the order to a new lifecycle state. Completing an
// order additionally requires at least one item and full payment coverage.
func (o *Order) ChangeStatus(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("invalid order status: " + string(target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewInvalidStateError(fmt.Sprintf(
			"cannot transition order from %s to %s", o.Status, target))
	}

	if target == OrderStatusCompleted {
		if len(o.Items) == 0 {
			return shared.NewValidationError("cannot complete an order without items")
		}
		sufficient, err := o.TotalPaid().GreaterThanOrEqual(o.TotalValue)
		if err != nil {
			return err
		}
		if !sufficient {
			return shared.NewValidationError("cannot complete an order with insufficient payment")
		}
	}

	o.Status = target
	return nil
}

// Cancel moves the order to CANCELED. Canceled orders are kept for audit,
// never deleted.
func (o *Order) Cancel() error {
	return o.ChangeStatus(OrderStatusCanceled)
}

// FindItem returns the item with the given ID, or nil
func (o *Order) FindItem(itemID uuid.UUID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// FindPaymentByMethod returns the payment for the given method, or nil
func (o *Order) FindPaymentByMethod(paymentMethodID uuid.UUID) *OrderPayment {
	for i := range o.Payments {
		if o.Payments[i].PaymentMethodID == paymentMethodID {
			return &o.Payments[i]
		}
	}
	return nil
}
