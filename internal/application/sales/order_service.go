package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gestor/backend/internal/domain/catalog"
	"github.com/gestor/backend/internal/domain/finance"
	"github.com/gestor/backend/internal/domain/partner"
	"github.com/gestor/backend/internal/domain/sales"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles order use cases, including the financial side
// effects of completing an order
type OrderService struct {
	orders      sales.OrderRepository
	methods     sales.PaymentMethodRepository
	products    catalog.ProductRepository
	contacts    partner.ContactRepository
	receivables finance.ReceivableRepository
	registers   finance.CashRegisterRepository
	tx          shared.TransactionManager
	logger      *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orders sales.OrderRepository,
	methods sales.PaymentMethodRepository,
	products catalog.ProductRepository,
	contacts partner.ContactRepository,
	receivables finance.ReceivableRepository,
	registers finance.CashRegisterRepository,
	tx shared.TransactionManager,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orders:      orders,
		methods:     methods,
		products:    products,
		contacts:    contacts,
		receivables: receivables,
		registers:   registers,
		tx:          tx,
		logger:      logger,
	}
}

// OrderItemInput is one requested order line. A nil UnitPrice takes the
// product's current sale value.
type OrderItemInput struct {
	ProductID   uuid.UUID
	Description string
	Quantity    int
	UnitPrice   *valueobject.Money
}

// OrderPaymentInput is one requested payment allocation
type OrderPaymentInput struct {
	PaymentMethodID uuid.UUID
	Value           *valueobject.Money
}

// SaveOrderRequest carries the data to create or resubmit an order
type SaveOrderRequest struct {
	CustomerID       *uuid.UUID
	DeliveryPersonID *uuid.UUID
	DeliveryFee      valueobject.Money
	Observation      string
	Items            []OrderItemInput
	Payments         []OrderPaymentInput
}

// CreateOrder creates a new order in NEW status
func (s *OrderService) CreateOrder(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, req SaveOrderRequest) (*sales.Order, error) {
	if err := s.validateParties(ctx, tenantID, req); err != nil {
		return nil, err
	}

	number, err := s.orders.GenerateOrderNumber(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}

	order, err := sales.NewOrder(tenantID, number, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if userID != nil {
		order.SetCreatedBy(*userID)
	}
	if err := s.applyRequest(ctx, tenantID, order, req); err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("number", order.Number),
		zap.String("total", order.TotalValue.StringFixed(2)))
	return order, nil
}

// UpdateOrder resubmits items, fee and payments of an editable order.
// Totals are recomputed server-side; submitted totals are ignored.
func (s *OrderService) UpdateOrder(ctx context.Context, tenantID, id uuid.UUID, req SaveOrderRequest) (*sales.Order, error) {
	if err := s.validateParties(ctx, tenantID, req); err != nil {
		return nil, err
	}

	order, err := s.orders.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	order.CustomerID = req.CustomerID
	if err := s.applyRequest(ctx, tenantID, order, req); err != nil {
		return nil, err
	}

	if err := s.orders.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// validateParties checks referenced contacts exist and fit their role
func (s *OrderService) validateParties(ctx context.Context, tenantID uuid.UUID, req SaveOrderRequest) error {
	if req.CustomerID != nil {
		if _, err := s.contacts.FindByIDForTenant(ctx, tenantID, *req.CustomerID); err != nil {
			return err
		}
	}
	if req.DeliveryPersonID != nil {
		person, err := s.contacts.FindByIDForTenant(ctx, tenantID, *req.DeliveryPersonID)
		if err != nil {
			return err
		}
		if !person.IsDeliveryPerson {
			return shared.NewValidationError("contact is not a delivery person")
		}
	}
	return nil
}

// applyRequest resolves products, replaces items and payments, and sets
// the remaining attributes
func (s *OrderService) applyRequest(ctx context.Context, tenantID uuid.UUID, order *sales.Order, req SaveOrderRequest) error {
	specs := make([]sales.ItemSpec, 0, len(req.Items))
	for _, item := range req.Items {
		product, err := s.products.FindByIDForTenant(ctx, tenantID, item.ProductID)
		if err != nil {
			return err
		}
		if !product.Active {
			return shared.NewValidationError("product is inactive: " + product.Name)
		}

		unitPrice := product.SaleValue
		if item.UnitPrice != nil {
			unitPrice = *item.UnitPrice
		}
		description := item.Description
		if description == "" {
			description = product.Name
		}
		specs = append(specs, sales.ItemSpec{
			ProductID:   item.ProductID,
			Description: description,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
		})
	}
	if err := order.ReplaceItems(specs); err != nil {
		return err
	}
	if err := order.SetDeliveryFee(req.DeliveryFee); err != nil {
		return err
	}
	order.SetDeliveryPerson(req.DeliveryPersonID)
	order.SetObservation(req.Observation)

	paymentSpecs := make([]sales.PaymentSpec, 0, len(req.Payments))
	for _, p := range req.Payments {
		method, err := s.methods.FindByIDForTenant(ctx, tenantID, p.PaymentMethodID)
		if err != nil {
			return err
		}
		if !method.Active {
			return shared.NewValidationError("payment method is inactive: " + method.Name)
		}
		paymentSpecs = append(paymentSpecs, sales.PaymentSpec{
			PaymentMethodID: p.PaymentMethodID,
			Value:           p.Value,
		})
	}
	return order.ReplacePayments(paymentSpecs)
}

// GetOrder returns a single order
func (s *OrderService) GetOrder(ctx context.Context, tenantID, id uuid.UUID) (*sales.Order, error) {
	return s.orders.FindByIDForTenant(ctx, tenantID, id)
}

// ListOrders returns orders matching the filter plus the total count
func (s *OrderService) ListOrders(ctx context.Context, tenantID uuid.UUID, filter sales.OrderFilter) ([]sales.Order, int64, error) {
	orders, err := s.orders.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orders.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ChangeOrderStatus moves an order through its lifecycle. Completing an
// order finalizes the payment allocation, decrements product stock,
// generates receivables for deferred payments and feeds the open cash
// register, all inside one transaction.
func (s *OrderService) ChangeOrderStatus(ctx context.Context, tenantID, id uuid.UUID, userID *uuid.UUID, target sales.OrderStatus) (*sales.Order, error) {
	order, err := s.orders.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if target != sales.OrderStatusCompleted {
		if err := order.ChangeStatus(target); err != nil {
			return nil, err
		}
		if err := s.orders.SaveWithLock(ctx, order); err != nil {
			return nil, err
		}
		return order, nil
	}

	methods, err := s.loadOrderMethods(ctx, tenantID, order)
	if err != nil {
		return nil, err
	}
	cashMethods := make(map[uuid.UUID]bool, len(methods))
	for id, m := range methods {
		cashMethods[id] = m.IsCash()
	}
	if err := order.FinalizePayments(cashMethods); err != nil {
		return nil, err
	}
	if err := order.ChangeStatus(sales.OrderStatusCompleted); err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.orders.SaveWithLock(ctx, order); err != nil {
			return err
		}
		if err := s.decrementStock(ctx, tenantID, order); err != nil {
			return err
		}
		if err := s.generateReceivables(ctx, tenantID, order, methods); err != nil {
			return err
		}
		return s.feedCashRegister(ctx, tenantID, order, userID, methods)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order completed",
		zap.String("order_id", order.ID.String()),
		zap.String("number", order.Number),
		zap.String("total", order.TotalValue.StringFixed(2)))
	return order, nil
}

// CancelOrder moves an order to CANCELED, keeping it for audit
func (s *OrderService) CancelOrder(ctx context.Context, tenantID, id uuid.UUID) (*sales.Order, error) {
	order, err := s.orders.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(); err != nil {
		return nil, err
	}
	if err := s.orders.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// loadOrderMethods fetches the payment methods referenced by the order
func (s *OrderService) loadOrderMethods(ctx context.Context, tenantID uuid.UUID, order *sales.Order) (map[uuid.UUID]sales.PaymentMethod, error) {
	ids := make([]uuid.UUID, 0, len(order.Payments))
	for _, p := range order.Payments {
		ids = append(ids, p.PaymentMethodID)
	}
	methods, err := s.methods.FindByIDsForTenant(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]sales.PaymentMethod, len(methods))
	for _, m := range methods {
		byID[m.ID] = m
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, shared.ErrNotFound
		}
	}
	return byID, nil
}

// decrementStock lowers product stock for each completed order line
func (s *OrderService) decrementStock(ctx context.Context, tenantID uuid.UUID, order *sales.Order) error {
	for _, item := range order.Items {
		product, err := s.products.FindByIDForTenant(ctx, tenantID, item.ProductID)
		if err != nil {
			return err
		}
		product.AdjustStock(-item.Quantity)
		if err := s.products.Save(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

// generateReceivables creates an open receivable for every deferred
// (RECEIVABLE-type) payment, due in the method's DueDays
func (s *OrderService) generateReceivables(ctx context.Context, tenantID uuid.UUID, order *sales.Order, methods map[uuid.UUID]sales.PaymentMethod) error {
	for _, payment := range order.Payments {
		method := methods[payment.PaymentMethodID]
		if !method.GeneratesReceivable() {
			continue
		}
		if payment.Value.IsZero() {
			continue
		}

		number, err := s.receivables.GenerateReceivableNumber(ctx, tenantID)
		if err != nil {
			return fmt.Errorf("failed to generate receivable number: %w", err)
		}
		dueDate := time.Now().AddDate(0, 0, method.DueDays)
		receivable, err := finance.NewReceivable(tenantID, number, payment.Value, dueDate)
		if err != nil {
			return err
		}
		receivable.SetCustomer(order.CustomerID)
		orderID := order.ID
		receivable.SetOrder(&orderID)
		receivable.SetDescription("Order " + order.Number)

		if err := s.receivables.Save(ctx, receivable); err != nil {
			return fmt.Errorf("failed to save receivable: %w", err)
		}
	}
	return nil
}

// feedCashRegister posts a SALE movement for the settled-now portion of the
// order (payments minus change minus deferred amounts). Skipped without
// error when no register is open; the operator may sell with the register
// closed.
func (s *OrderService) feedCashRegister(ctx context.Context, tenantID uuid.UUID, order *sales.Order, userID *uuid.UUID, methods map[uuid.UUID]sales.PaymentMethod) error {
	settled := valueobject.ZeroBRL()
	var methodID *uuid.UUID
	for _, payment := range order.Payments {
		method := methods[payment.PaymentMethodID]
		if method.GeneratesReceivable() {
			continue
		}
		settled = settled.MustAdd(payment.Value).MustSubtract(payment.Change)
		if methodID == nil {
			id := payment.PaymentMethodID
			methodID = &id
		}
	}
	if !settled.IsPositive() {
		return nil
	}

	register, err := s.registers.FindOpenForTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Debug("no open cash register, sale movement skipped",
				zap.String("order_id", order.ID.String()))
			return nil
		}
		return err
	}

	if _, err := register.PostMovement(finance.CashMovementTypeSale, settled, "Order "+order.Number, methodID, userID); err != nil {
		return err
	}
	return s.registers.SaveWithLock(ctx, register)
}
