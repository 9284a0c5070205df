package sales

import (
	"context"
	"testing"

	"github.com/gestor/backend/internal/domain/catalog"
	"github.com/gestor/backend/internal/domain/finance"
	"github.com/gestor/backend/internal/domain/partner"
	"github.com/gestor/backend/internal/domain/sales"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*sales.Order, error) {
	args := m.Called(ctx, tenantID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter sales.OrderFilter) ([]sales.Order, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]sales.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *sales.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *sales.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter sales.OrderFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockPaymentMethodRepository is a mock implementation of PaymentMethodRepository
type MockPaymentMethodRepository struct {
	mock.Mock
}

func (m *MockPaymentMethodRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.PaymentMethod, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]sales.PaymentMethod, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]sales.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter sales.PaymentMethodFilter) ([]sales.PaymentMethod, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]sales.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodRepository) Save(ctx context.Context, method *sales.PaymentMethod) error {
	args := m.Called(ctx, method)
	return args.Error(0)
}

func (m *MockPaymentMethodRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockPaymentMethodRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter sales.PaymentMethodFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter catalog.ProductFilter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter catalog.ProductFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockContactRepository is a mock implementation of partner.ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Contact, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Contact), args.Error(1)
}

func (m *MockContactRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.ContactFilter) ([]partner.Contact, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Contact), args.Error(1)
}

func (m *MockContactRepository) Save(ctx context.Context, contact *partner.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.ContactFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockReceivableRepository is a mock implementation of finance.ReceivableRepository
type MockReceivableRepository struct {
	mock.Mock
}

func (m *MockReceivableRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Receivable, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Receivable), args.Error(1)
}

func (m *MockReceivableRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*finance.Receivable, error) {
	args := m.Called(ctx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Receivable), args.Error(1)
}

func (m *MockReceivableRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.ReceivableFilter) ([]finance.Receivable, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.Receivable), args.Error(1)
}

func (m *MockReceivableRepository) Save(ctx context.Context, receivable *finance.Receivable) error {
	args := m.Called(ctx, receivable)
	return args.Error(0)
}

func (m *MockReceivableRepository) SaveWithLock(ctx context.Context, receivable *finance.Receivable) error {
	args := m.Called(ctx, receivable)
	return args.Error(0)
}

func (m *MockReceivableRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.ReceivableFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReceivableRepository) GenerateReceivableNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockCashRegisterRepository is a mock implementation of finance.CashRegisterRepository
type MockCashRegisterRepository struct {
	mock.Mock
}

func (m *MockCashRegisterRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.CashRegister, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.CashRegister), args.Error(1)
}

func (m *MockCashRegisterRepository) FindOpenForTenant(ctx context.Context, tenantID uuid.UUID) (*finance.CashRegister, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.CashRegister), args.Error(1)
}

func (m *MockCashRegisterRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.CashRegister, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.CashRegister), args.Error(1)
}

func (m *MockCashRegisterRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCashRegisterRepository) FindMovements(ctx context.Context, tenantID uuid.UUID, filter finance.CashMovementFilter) ([]finance.CashMovement, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.CashMovement), args.Error(1)
}

func (m *MockCashRegisterRepository) CountMovements(ctx context.Context, tenantID uuid.UUID, filter finance.CashMovementFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCashRegisterRepository) Save(ctx context.Context, register *finance.CashRegister) error {
	args := m.Called(ctx, register)
	return args.Error(0)
}

func (m *MockCashRegisterRepository) SaveWithLock(ctx context.Context, register *finance.CashRegister) error {
	args := m.Called(ctx, register)
	return args.Error(0)
}

// passthroughTx runs the unit of work without a real transaction
type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type orderServiceMocks struct {
	orders      *MockOrderRepository
	methods     *MockPaymentMethodRepository
	products    *MockProductRepository
	contacts    *MockContactRepository
	receivables *MockReceivableRepository
	registers   *MockCashRegisterRepository
}

func newOrderService() (*OrderService, orderServiceMocks) {
	m := orderServiceMocks{
		orders:      new(MockOrderRepository),
		methods:     new(MockPaymentMethodRepository),
		products:    new(MockProductRepository),
		contacts:    new(MockContactRepository),
		receivables: new(MockReceivableRepository),
		registers:   new(MockCashRegisterRepository),
	}
	service := NewOrderService(m.orders, m.methods, m.products, m.contacts, m.receivables, m.registers, passthroughTx{}, nil)
	return service, m
}

func newTestTenantID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func createTestProduct(tenantID uuid.UUID, salePrice float64) *catalog.Product {
	product, _ := catalog.NewProduct(tenantID, "Water Gallon 20L", catalog.ProductTypeSimple, valueobject.NewMoneyBRLFromFloat(salePrice))
	return product
}

func createTestMethod(tenantID uuid.UUID, methodType sales.PaymentMethodType, dueDays int) *sales.PaymentMethod {
	method, _ := sales.NewPaymentMethod(tenantID, string(methodType), methodType, dueDays)
	return method
}

func TestOrderService_CreateOrder_Success(t *testing.T) {
	service, m := newOrderService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	product := createTestProduct(tenantID, 12.50)
	method := createTestMethod(tenantID, sales.PaymentMethodTypeCash, 0)

	req := SaveOrderRequest{
		DeliveryFee: valueobject.NewMoneyBRLFromFloat(5),
		Items: []OrderItemInput{
			{ProductID: product.ID, Quantity: 2},
		},
		Payments: []OrderPaymentInput{
			{PaymentMethodID: method.ID},
		},
	}

	m.orders.On("GenerateOrderNumber", ctx, tenantID).Return("ORD-000001", nil)
	m.products.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
	m.methods.On("FindByIDForTenant", ctx, tenantID, method.ID).Return(method, nil)
	m.orders.On("Save", ctx, mock.AnythingOfType("*sales.Order")).Return(nil)

	order, err := service.CreateOrder(ctx, tenantID, nil, req)

	assert.NoError(t, err)
	assert.NotNil(t, order)
	assert.Equal(t, "ORD-000001", order.Number)
	assert.Equal(t, sales.OrderStatusNew, order.Status)
	// 2 x 12.50 + 5.00 delivery fee
	assert.Equal(t, "30.00", order.TotalValue.StringFixed(2))
	// item description defaults to the product name
	assert.Equal(t, "Water Gallon 20L", order.Items[0].Description)
	// single payment tracks the total
	assert.Equal(t, "30.00", order.Payments[0].Value.StringFixed(2))
	m.orders.AssertExpectations(t)
}

func TestOrderService_CreateOrder_InactiveProduct(t *testing.T) {
	service, m := newOrderService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	product := createTestProduct(tenantID, 12.50)
	product.Deactivate()

	req := SaveOrderRequest{
		Items: []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	}

	m.orders.On("GenerateOrderNumber", ctx, tenantID).Return("ORD-000001", nil)
	m.products.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)

	order, err := service.CreateOrder(ctx, tenantID, nil, req)

	assert.Error(t, err)
	assert.Nil(t, order)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
}

func TestOrderService_CreateOrder_DeliveryPersonRoleCheck(t *testing.T) {
	service, m := newOrderService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	contact, _ := partner.NewContact(tenantID, "Not A Driver", partner.ContactTypeClient)

	contactID := contact.ID
	req := SaveOrderRequest{DeliveryPersonID: &contactID}

	m.contacts.On("FindByIDForTenant", ctx, tenantID, contactID).Return(contact, nil)

	order, err := service.CreateOrder(ctx, tenantID, nil, req)

	assert.Error(t, err)
	assert.Nil(t, order)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	m.contacts.AssertExpectations(t)
}

func TestOrderService_ChangeOrderStatus_ToDelivering(t *testing.T) {
	service, m := newOrderService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	order, _ := sales.NewOrder(tenantID, "ORD-000001", nil)

	m.orders.On("FindByIDForTenant", ctx, tenantID, order.ID).Return(order, nil)
	m.orders.On("SaveWithLock", ctx, order).Return(nil)

	result, err := service.ChangeOrderStatus(ctx, tenantID, order.ID, nil, sales.OrderStatusDelivering)

	assert.NoError(t, err)
	assert.Equal(t, sales.OrderStatusDelivering, result.Status)
	m.orders.AssertExpectations(t)
}

func TestOrderService_ChangeOrderStatus_CompleteCashSale(t *testing.T) {
	service, m := newOrderService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	product := createTestProduct(tenantID, 10)
	product.AdjustStock(5)
	method := createTestMethod(tenantID, sales.PaymentMethodTypeCash, 0)

	order, _ := sales.NewOrder(tenantID, "ORD-000001", nil)
	_, _ = order.AddItem(product.ID, product.Name, 3, product.SaleValue)
	fifty := valueobject.NewMoneyBRLFromFloat(50)
	_, _ = order.AddPayment(method.ID, &fifty)

	register, _ := finance.OpenCashRegister(tenantID, valueobject.NewMoneyBRLFromFloat(100))

	m.orders.On("FindByIDForTenant", ctx, tenantID, order.ID).Return(order, nil)
	m.methods.On("FindByIDsForTenant", ctx, tenantID, []uuid.UUID{method.ID}).Return([]sales.PaymentMethod{*method}, nil)
	m.orders.On("SaveWithLock", ctx, order).Return(nil)
	m.products.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
	m.products.On("Save", ctx, product).Return(nil)
	m.registers.On("FindOpenForTenant", ctx, tenantID).Return(register, nil)
	m.registers.On("SaveWithLock", ctx, register).Return(nil)

	result, err := service.ChangeOrderStatus(ctx, tenantID, order.ID, nil, sales.OrderStatusCompleted)

	assert.NoError(t, err)
	assert.Equal(t, sales.OrderStatusCompleted, result.Status)
	// overpayment of 20.00 becomes change on the cash payment
	assert.Equal(t, "20.00", result.Payments[0].Change.StringFixed(2))
	// stock 5 - 3 = 2
	assert.Equal(t, 2, product.CurrentStock)
	// register got the settled 30.00, not the tendered 50.00
	assert.Len(t, register.Movements, 1)
	assert.Equal(t, finance.CashMovementTypeSale, register.Movements[0].Type)
	assert.Equal(t, "30.00", register.Movements[0].Value.StringFixed(2))
	m.orders.AssertExpectations(t)
	m.registers.AssertExpectations(t)
}

func TestOrderService_ChangeOrderStatus_CompleteDeferredPayment(t *testing.T) {
	service, m := newOrderService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	customerID := uuid.New()
	product := createTestProduct(tenantID, 25)
	method := createTestMethod(tenantID, sales.PaymentMethodTypeReceivable, 30)

	order, _ := sales.NewOrder(tenantID, "ORD-000002", &customerID)
	_, _ = order.AddItem(product.ID, product.Name, 1, product.SaleValue)
	_, _ = order.AddPayment(method.ID, nil)

	m.orders.On("FindByIDForTenant", ctx, tenantID, order.ID).Return(order, nil)
	m.methods.On("FindByIDsForTenant", ctx, tenantID, []uuid.UUID{method.ID}).Return([]sales.PaymentMethod{*method}, nil)
	m.orders.On("SaveWithLock", ctx, order).Return(nil)
	m.products.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
	m.products.On("Save", ctx, product).Return(nil)
	m.receivables.On("GenerateReceivableNumber", ctx, tenantID).Return("REC-000001", nil)
	m.receivables.On("Save", ctx, mock.AnythingOfType("*finance.Receivable")).Return(nil)

	result, err := service.ChangeOrderStatus(ctx, tenantID, order.ID, nil, sales.OrderStatusCompleted)

	assert.NoError(t, err)
	assert.Equal(t, sales.OrderStatusCompleted, result.Status)
	// the deferred amount never reaches the register
	m.registers.AssertNotCalled(t, "FindOpenForTenant", mock.Anything, mock.Anything)
	m.receivables.AssertExpectations(t)

	saved := m.receivables.Calls[len(m.receivables.Calls)-1].Arguments.Get(1).(*finance.Receivable)
	assert.Equal(t, "REC-000001", saved.Number)
	assert.Equal(t, "25.00", saved.TotalValue.StringFixed(2))
	assert.Equal(t, &customerID, saved.CustomerID)
	assert.Equal(t, order.ID, *saved.OrderID)
}

func TestOrderService_ChangeOrderStatus_CompleteWithoutOpenRegister(t *testing.T) {
	service, m := newOrderService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	product := createTestProduct(tenantID, 10)
	method := createTestMethod(tenantID, sales.PaymentMethodTypePix, 0)

	order, _ := sales.NewOrder(tenantID, "ORD-000003", nil)
	_, _ = order.AddItem(product.ID, product.Name, 1, product.SaleValue)
	_, _ = order.AddPayment(method.ID, nil)

	m.orders.On("FindByIDForTenant", ctx, tenantID, order.ID).Return(order, nil)
	m.methods.On("FindByIDsForTenant", ctx, tenantID, []uuid.UUID{method.ID}).Return([]sales.PaymentMethod{*method}, nil)
	m.orders.On("SaveWithLock", ctx, order).Return(nil)
	m.products.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
	m.products.On("Save", ctx, product).Return(nil)
	m.registers.On("FindOpenForTenant", ctx, tenantID).Return(nil, shared.ErrNotFound)

	result, err := service.ChangeOrderStatus(ctx, tenantID, order.ID, nil, sales.OrderStatusCompleted)

	assert.NoError(t, err)
	assert.Equal(t, sales.OrderStatusCompleted, result.Status)
	m.registers.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestOrderService_ChangeOrderStatus_CompleteInsufficientPayment(t *testing.T) {
	service, m := newOrderService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	product := createTestProduct(tenantID, 10)
	method := createTestMethod(tenantID, sales.PaymentMethodTypeCash, 0)

	order, _ := sales.NewOrder(tenantID, "ORD-000004", nil)
	_, _ = order.AddItem(product.ID, product.Name, 2, product.SaleValue)
	five := valueobject.NewMoneyBRLFromFloat(5)
	_, _ = order.AddPayment(method.ID, &five)

	m.orders.On("FindByIDForTenant", ctx, tenantID, order.ID).Return(order, nil)
	m.methods.On("FindByIDsForTenant", ctx, tenantID, []uuid.UUID{method.ID}).Return([]sales.PaymentMethod{*method}, nil)

	result, err := service.ChangeOrderStatus(ctx, tenantID, order.ID, nil, sales.OrderStatusCompleted)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	m.orders.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestOrderService_CancelOrder(t *testing.T) {
	service, m := newOrderService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	order, _ := sales.NewOrder(tenantID, "ORD-000005", nil)

	m.orders.On("FindByIDForTenant", ctx, tenantID, order.ID).Return(order, nil)
	m.orders.On("SaveWithLock", ctx, order).Return(nil)

	result, err := service.CancelOrder(ctx, tenantID, order.ID)

	assert.NoError(t, err)
	assert.Equal(t, sales.OrderStatusCanceled, result.Status)
}

func TestOrderService_CancelOrder_AlreadyCompleted(t *testing.T) {
	service, m := newOrderService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	order, _ := sales.NewOrder(tenantID, "ORD-000006", nil)
	order.Status = sales.OrderStatusCompleted

	m.orders.On("FindByIDForTenant", ctx, tenantID, order.ID).Return(order, nil)

	result, err := service.CancelOrder(ctx, tenantID, order.ID)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestOrderService_UpdateOrder_RecomputesTotals(t *testing.T) {
	service, m := newOrderService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	product := createTestProduct(tenantID, 8)
	method := createTestMethod(tenantID, sales.PaymentMethodTypeCash, 0)

	order, _ := sales.NewOrder(tenantID, "ORD-000007", nil)
	_, _ = order.AddItem(product.ID, product.Name, 1, product.SaleValue)
	_, _ = order.AddPayment(method.ID, nil)

	custom := valueobject.NewMoneyBRLFromFloat(7.50)
	req := SaveOrderRequest{
		Items: []OrderItemInput{
			{ProductID: product.ID, Quantity: 4, UnitPrice: &custom},
		},
		Payments: []OrderPaymentInput{
			{PaymentMethodID: method.ID},
		},
	}

	m.orders.On("FindByIDForTenant", ctx, tenantID, order.ID).Return(order, nil)
	m.products.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
	m.methods.On("FindByIDForTenant", ctx, tenantID, method.ID).Return(method, nil)
	m.orders.On("SaveWithLock", ctx, order).Return(nil)

	result, err := service.UpdateOrder(ctx, tenantID, order.ID, req)

	assert.NoError(t, err)
	assert.Equal(t, "30.00", result.TotalValue.StringFixed(2))
	assert.Equal(t, "30.00", result.Payments[0].Value.StringFixed(2))
}

func TestOrderService_UpdateOrder_PreservesTenderedCash(t *testing.T) {
	service, m := newOrderService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	product := createTestProduct(tenantID, 14)
	product.AdjustStock(5)
	method := createTestMethod(tenantID, sales.PaymentMethodTypeCash, 0)

	order, _ := sales.NewOrder(tenantID, "ORD-000008", nil)
	_, _ = order.AddItem(product.ID, product.Name, 2, product.SaleValue)
	_, _ = order.AddPayment(method.ID, nil)

	// customer hands over a 50 note against a 28.00 total
	tendered := valueobject.NewMoneyBRLFromFloat(50)
	req := SaveOrderRequest{
		Items: []OrderItemInput{
			{ProductID: product.ID, Quantity: 2},
		},
		Payments: []OrderPaymentInput{
			{PaymentMethodID: method.ID, Value: &tendered},
		},
	}

	register, _ := finance.OpenCashRegister(tenantID, valueobject.NewMoneyBRLFromFloat(100))

	m.orders.On("FindByIDForTenant", ctx, tenantID, order.ID).Return(order, nil)
	m.products.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
	m.methods.On("FindByIDForTenant", ctx, tenantID, method.ID).Return(method, nil)
	m.orders.On("SaveWithLock", ctx, order).Return(nil)

	updated, err := service.UpdateOrder(ctx, tenantID, order.ID, req)

	assert.NoError(t, err)
	assert.Equal(t, "28.00", updated.TotalValue.StringFixed(2))
	assert.Equal(t, "50.00", updated.Payments[0].Value.StringFixed(2))

	m.methods.On("FindByIDsForTenant", ctx, tenantID, []uuid.UUID{method.ID}).Return([]sales.PaymentMethod{*method}, nil)
	m.products.On("Save", ctx, product).Return(nil)
	m.registers.On("FindOpenForTenant", ctx, tenantID).Return(register, nil)
	m.registers.On("SaveWithLock", ctx, register).Return(nil)

	completed, err := service.ChangeOrderStatus(ctx, tenantID, order.ID, nil, sales.OrderStatusCompleted)

	assert.NoError(t, err)
	assert.Equal(t, "22.00", completed.Payments[0].Change.StringFixed(2))
	// the register receives the settled 28.00, not the tendered 50.00
	assert.Len(t, register.Movements, 1)
	assert.Equal(t, "28.00", register.Movements[0].Value.StringFixed(2))
	m.orders.AssertExpectations(t)
	m.registers.AssertExpectations(t)
}
