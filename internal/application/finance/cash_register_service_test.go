package finance

import (
	"context"
	"testing"

	"github.com/gestor/backend/internal/domain/finance"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCashRegisterService() (*CashRegisterService, *MockCashRegisterRepository) {
	registers := new(MockCashRegisterRepository)
	return NewCashRegisterService(registers, nil), registers
}

func TestCashRegisterService_Open_Success(t *testing.T) {
	service, registers := newCashRegisterService()

	ctx := context.Background()
	tenantID := newTestTenantID()

	registers.On("FindOpenForTenant", ctx, tenantID).Return(nil, shared.ErrNotFound)
	registers.On("Save", ctx, mock.AnythingOfType("*finance.CashRegister")).Return(nil)

	register, err := service.OpenCashRegister(ctx, tenantID, nil, valueobject.NewMoneyBRLFromFloat(150))

	assert.NoError(t, err)
	assert.NotNil(t, register)
	assert.True(t, register.IsOpen())
	assert.Equal(t, "150.00", register.InitialAmount.StringFixed(2))
	assert.Equal(t, "150.00", register.Balance().StringFixed(2))
	registers.AssertExpectations(t)
}

func TestCashRegisterService_Open_AlreadyOpen(t *testing.T) {
	service, registers := newCashRegisterService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	open, _ := finance.OpenCashRegister(tenantID, valueobject.ZeroBRL())

	registers.On("FindOpenForTenant", ctx, tenantID).Return(open, nil)

	register, err := service.OpenCashRegister(ctx, tenantID, nil, valueobject.ZeroBRL())

	assert.Error(t, err)
	assert.Nil(t, register)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	registers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCashRegisterService_Close_ReportsDifference(t *testing.T) {
	service, registers := newCashRegisterService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	register, _ := finance.OpenCashRegister(tenantID, valueobject.NewMoneyBRLFromFloat(100))
	_, err := register.PostMovement(finance.CashMovementTypeSale, valueobject.NewMoneyBRLFromFloat(50), "Order ORD-000001", nil, nil)
	assert.NoError(t, err)

	registers.On("FindByIDForTenant", ctx, tenantID, register.ID).Return(register, nil)
	registers.On("SaveWithLock", ctx, register).Return(nil)

	// expected balance is 150; the operator counted 148
	closed, difference, err := service.CloseCashRegister(ctx, tenantID, register.ID, valueobject.NewMoneyBRLFromFloat(148))

	assert.NoError(t, err)
	assert.False(t, closed.IsOpen())
	assert.Equal(t, "-2.00", difference.StringFixed(2))
	registers.AssertExpectations(t)
}

func TestCashRegisterService_Close_AlreadyClosed(t *testing.T) {
	service, registers := newCashRegisterService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	register, _ := finance.OpenCashRegister(tenantID, valueobject.ZeroBRL())
	_, err := register.Close(valueobject.ZeroBRL())
	assert.NoError(t, err)

	registers.On("FindByIDForTenant", ctx, tenantID, register.ID).Return(register, nil)

	_, _, err = service.CloseCashRegister(ctx, tenantID, register.ID, valueobject.ZeroBRL())

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestCashRegisterService_PostMovement_Withdrawal(t *testing.T) {
	service, registers := newCashRegisterService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	userID := uuid.New()
	register, _ := finance.OpenCashRegister(tenantID, valueobject.NewMoneyBRLFromFloat(200))

	registers.On("FindOpenForTenant", ctx, tenantID).Return(register, nil)
	registers.On("SaveWithLock", ctx, register).Return(nil)

	movement, err := service.PostMovement(ctx, tenantID, &userID, PostMovementRequest{
		Type:        finance.CashMovementTypeWithdrawal,
		Value:       valueobject.NewMoneyBRLFromFloat(80),
		Description: "Supplier payment",
	})

	assert.NoError(t, err)
	// withdrawals are stored negative
	assert.Equal(t, "-80.00", movement.Value.StringFixed(2))
	assert.Equal(t, "120.00", register.Balance().StringFixed(2))
	assert.Equal(t, userID, *movement.UserID)
	registers.AssertExpectations(t)
}

func TestCashRegisterService_PostMovement_WithdrawalExceedsBalance(t *testing.T) {
	service, registers := newCashRegisterService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	register, _ := finance.OpenCashRegister(tenantID, valueobject.NewMoneyBRLFromFloat(30))

	registers.On("FindOpenForTenant", ctx, tenantID).Return(register, nil)

	movement, err := service.PostMovement(ctx, tenantID, nil, PostMovementRequest{
		Type:  finance.CashMovementTypeWithdrawal,
		Value: valueobject.NewMoneyBRLFromFloat(50),
	})

	assert.Error(t, err)
	assert.Nil(t, movement)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSUFFICIENT_FUNDS", domainErr.Code)
	// the rejected movement left the register untouched
	assert.Empty(t, register.Movements)
	registers.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestCashRegisterService_PostMovement_NegativeAdjustment(t *testing.T) {
	service, registers := newCashRegisterService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	register, _ := finance.OpenCashRegister(tenantID, valueobject.NewMoneyBRLFromFloat(100))

	registers.On("FindOpenForTenant", ctx, tenantID).Return(register, nil)
	registers.On("SaveWithLock", ctx, register).Return(nil)

	movement, err := service.PostMovement(ctx, tenantID, nil, PostMovementRequest{
		Type:        finance.CashMovementTypeAdjustment,
		Value:       valueobject.NewMoneyBRLFromFloat(-15),
		Description: "Count correction",
	})

	assert.NoError(t, err)
	// adjustments keep the operator's sign
	assert.Equal(t, "-15.00", movement.Value.StringFixed(2))
	assert.Equal(t, "85.00", register.Balance().StringFixed(2))
}

func TestCashRegisterService_PostMovement_NoOpenRegister(t *testing.T) {
	service, registers := newCashRegisterService()

	ctx := context.Background()
	tenantID := newTestTenantID()

	registers.On("FindOpenForTenant", ctx, tenantID).Return(nil, shared.ErrNotFound)

	movement, err := service.PostMovement(ctx, tenantID, nil, PostMovementRequest{
		Type:  finance.CashMovementTypeDeposit,
		Value: valueobject.NewMoneyBRLFromFloat(10),
	})

	assert.Error(t, err)
	assert.Nil(t, movement)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestCashRegisterService_GetCurrent(t *testing.T) {
	service, registers := newCashRegisterService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	register, _ := finance.OpenCashRegister(tenantID, valueobject.ZeroBRL())

	registers.On("FindOpenForTenant", ctx, tenantID).Return(register, nil)

	result, err := service.GetCurrentCashRegister(ctx, tenantID)

	assert.NoError(t, err)
	assert.Equal(t, register.ID, result.ID)
}
