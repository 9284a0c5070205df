package finance

import (
	"testing"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(t *testing.T, s string) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoneyBRLFromString(s)
	require.NoError(t, err)
	return m
}

func openTestRegister(t *testing.T, initial string) *CashRegister {
	t.Helper()
	register, err := OpenCashRegister(uuid.New(), money(t, initial))
	require.NoError(t, err)
	return register
}

func TestOpenCashRegister(t *testing.T) {
	t.Run("opens with initial float and no movements", func(t *testing.T) {
		register := openTestRegister(t, "100.00")

		assert.Equal(t, CashRegisterStatusOpen, register.Status)
		assert.Empty(t, register.Movements)
		assert.Equal(t, "100.00", register.Balance().StringFixed(2))
		assert.False(t, register.OpeningDate.IsZero())
	})

	t.Run("rejects negative initial amount", func(t *testing.T) {
		_, err := OpenCashRegister(uuid.New(), money(t, "-1.00"))

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})
}

func TestCashRegisterBalance(t *testing.T) {
	t.Run("balance is initial plus signed movements", func(t *testing.T) {
		register := openTestRegister(t, "100.00")

		_, err := register.PostMovement(CashMovementTypeSale, money(t, "50.00"), "counter sale", nil, nil)
		require.NoError(t, err)
		_, err = register.PostMovement(CashMovementTypeWithdrawal, money(t, "30.00"), "supplier run", nil, nil)
		require.NoError(t, err)

		assert.Equal(t, "120.00", register.Balance().StringFixed(2))
	})

	t.Run("adjustment accepts signed values", func(t *testing.T) {
		register := openTestRegister(t, "100.00")

		_, err := register.PostMovement(CashMovementTypeAdjustment, money(t, "-5.00"), "count correction", nil, nil)
		require.NoError(t, err)
		_, err = register.PostMovement(CashMovementTypeAdjustment, money(t, "2.50"), "found coins", nil, nil)
		require.NoError(t, err)

		assert.Equal(t, "97.50", register.Balance().StringFixed(2))
	})

	t.Run("adjustment rejects zero", func(t *testing.T) {
		register := openTestRegister(t, "100.00")

		_, err := register.PostMovement(CashMovementTypeAdjustment, money(t, "0"), "noop", nil, nil)
		assert.Error(t, err)
	})
}

func TestCashRegisterPostMovement(t *testing.T) {
	t.Run("withdrawal below zero is rejected and state untouched", func(t *testing.T) {
		register := openTestRegister(t, "100.00")

		_, err := register.PostMovement(CashMovementTypeWithdrawal, money(t, "150.00"), "too much", nil, nil)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_FUNDS", domainErr.Code)
		assert.Empty(t, register.Movements)
		assert.Equal(t, "100.00", register.Balance().StringFixed(2))
	})

	t.Run("withdrawal down to exactly zero is allowed", func(t *testing.T) {
		register := openTestRegister(t, "100.00")

		_, err := register.PostMovement(CashMovementTypeWithdrawal, money(t, "100.00"), "close out", nil, nil)
		require.NoError(t, err)

		assert.Equal(t, "0.00", register.Balance().StringFixed(2))
	})

	t.Run("non-adjustment movements require positive value", func(t *testing.T) {
		register := openTestRegister(t, "100.00")

		for _, mt := range []CashMovementType{
			CashMovementTypeSale, CashMovementTypeReceivablePayment,
			CashMovementTypeDeposit, CashMovementTypeWithdrawal,
		} {
			_, err := register.PostMovement(mt, money(t, "0"), "zero", nil, nil)
			assert.Error(t, err, string(mt))
			_, err = register.PostMovement(mt, money(t, "-1.00"), "negative", nil, nil)
			assert.Error(t, err, string(mt))
		}
	})

	t.Run("closed register rejects movements", func(t *testing.T) {
		register := openTestRegister(t, "100.00")
		_, err := register.Close(money(t, "100.00"))
		require.NoError(t, err)

		_, err = register.PostMovement(CashMovementTypeSale, money(t, "10.00"), "late sale", nil, nil)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("withdrawal is stored with negative value", func(t *testing.T) {
		register := openTestRegister(t, "100.00")

		movement, err := register.PostMovement(CashMovementTypeWithdrawal, money(t, "30.00"), "", nil, nil)
		require.NoError(t, err)

		assert.Equal(t, "-30.00", movement.Value.StringFixed(2))
	})
}

func TestCashRegisterClose(t *testing.T) {
	t.Run("close records final amount and reports difference", func(t *testing.T) {
		register := openTestRegister(t, "100.00")
		_, err := register.PostMovement(CashMovementTypeSale, money(t, "50.00"), "", nil, nil)
		require.NoError(t, err)

		difference, err := register.Close(money(t, "148.00"))
		require.NoError(t, err)

		assert.Equal(t, "-2.00", difference.StringFixed(2))
		assert.Equal(t, CashRegisterStatusClosed, register.Status)
		assert.Equal(t, "148.00", register.FinalAmount.StringFixed(2))
		require.NotNil(t, register.ClosingDate)
	})

	t.Run("double close is rejected", func(t *testing.T) {
		register := openTestRegister(t, "100.00")
		_, err := register.Close(money(t, "100.00"))
		require.NoError(t, err)

		_, err = register.Close(money(t, "100.00"))
		assert.Error(t, err)
	})

	t.Run("rejects negative final amount", func(t *testing.T) {
		register := openTestRegister(t, "100.00")

		_, err := register.Close(money(t, "-1.00"))
		assert.Error(t, err)
	})
}
