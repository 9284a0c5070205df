package sales

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

func createTestOrder(t *testing.T) *Order {
	t.Helper()
	customerID := uuid.New()
	order, err := NewOrder(uuid.New(), "OR-20260827-00001", &customerID)
	require.NoError(t, err)
	return order
}

func TestNewOrder(t *testing.T) {
	t.Run("creates order in NEW status with zero total", func(t *testing.T) {
		order := createTestOrder(t)

		assert.Equal(t, OrderStatusNew, order.Status)
		assert.True(t, order.TotalValue.IsZero())
		assert.Empty(t, order.Items)
		assert.Empty(t, order.Payments)
		assert.Equal(t, 1, order.Version)
	})

	t.Run("requires order number", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), "", nil)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})
}

func TestOrderTotalCalculation(t *testing.T) {
	t.Run("total is sum of line totals plus delivery fee", func(t *testing.T) {
		order := createTestOrder(t)

		_, err := order.AddItem(uuid.New(), "Water jug 20L", 2, money(t, "10.00"))
		require.NoError(t, err)
		_, err = order.AddItem(uuid.New(), "Cup pack", 1, money(t, "5.00"))
		require.NoError(t, err)
		require.NoError(t, order.SetDeliveryFee(money(t, "3.00")))

		assert.Equal(t, "28.00", order.TotalValue.StringFixed(2))
	})

	t.Run("line total is quantity times unit price", func(t *testing.T) {
		order := createTestOrder(t)

		item, err := order.AddItem(uuid.New(), "Gas cylinder", 3, money(t, "110.50"))
		require.NoError(t, err)

		assert.Equal(t, "331.50", item.TotalPrice.StringFixed(2))
	})

	t.Run("changing quantity recomputes line and order totals", func(t *testing.T) {
		order := createTestOrder(t)
		item, err := order.AddItem(uuid.New(), "Water jug", 2, money(t, "10.00"))
		require.NoError(t, err)

		require.NoError(t, order.UpdateItemQuantity(item.ID, 5))

		assert.Equal(t, "50.00", order.Items[0].TotalPrice.StringFixed(2))
		assert.Equal(t, "50.00", order.TotalValue.StringFixed(2))
	})

	t.Run("changing unit price recomputes totals", func(t *testing.T) {
		order := createTestOrder(t)
		item, err := order.AddItem(uuid.New(), "Water jug", 2, money(t, "10.00"))
		require.NoError(t, err)

		require.NoError(t, order.UpdateItemPrice(item.ID, money(t, "12.50")))

		assert.Equal(t, "25.00", order.TotalValue.StringFixed(2))
	})

	t.Run("removing item recomputes total", func(t *testing.T) {
		order := createTestOrder(t)
		item, err := order.AddItem(uuid.New(), "Water jug", 2, money(t, "10.00"))
		require.NoError(t, err)
		_, err = order.AddItem(uuid.New(), "Cups", 1, money(t, "5.00"))
		require.NoError(t, err)

		require.NoError(t, order.RemoveItem(item.ID))

		assert.Equal(t, "5.00", order.TotalValue.StringFixed(2))
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		order := createTestOrder(t)

		_, err := order.AddItem(uuid.New(), "Water jug", 0, money(t, "10.00"))

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("rejects negative unit price", func(t *testing.T) {
		order := createTestOrder(t)

		_, err := order.AddItem(uuid.New(), "Water jug", 1, money(t, "-1.00"))

		assert.Error(t, err)
	})

	t.Run("rejects negative delivery fee", func(t *testing.T) {
		order := createTestOrder(t)

		err := order.SetDeliveryFee(money(t, "-3.00"))

		assert.Error(t, err)
	})
}

func TestOrderSinglePaymentSync(t *testing.T) {
	t.Run("single payment tracks total on every recompute", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.AddItem(uuid.New(), "Water jug", 2, money(t, "10.00"))
		require.NoError(t, err)

		_, err = order.AddPayment(uuid.New(), nil)
		require.NoError(t, err)
		assert.Equal(t, "20.00", order.Payments[0].Value.StringFixed(2))

		_, err = order.AddItem(uuid.New(), "Cups", 1, money(t, "5.00"))
		require.NoError(t, err)
		assert.Equal(t, "25.00", order.Payments[0].Value.StringFixed(2))

		require.NoError(t, order.SetDeliveryFee(money(t, "3.00")))
		assert.Equal(t, "28.00", order.Payments[0].Value.StringFixed(2))
	})

	t.Run("two payments stop auto-sync", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.AddItem(uuid.New(), "Water jug", 2, money(t, "10.00"))
		require.NoError(t, err)

		half := money(t, "10.00")
		_, err = order.AddPayment(uuid.New(), &half)
		require.NoError(t, err)
		_, err = order.AddPayment(uuid.New(), nil)
		require.NoError(t, err)

		// Second payment defaults to the outstanding amount
		assert.Equal(t, "10.00", order.Payments[1].Value.StringFixed(2))

		_, err = order.AddItem(uuid.New(), "Cups", 1, money(t, "5.00"))
		require.NoError(t, err)
		assert.Equal(t, "10.00", order.Payments[0].Value.StringFixed(2))
		assert.Equal(t, "10.00", order.Payments[1].Value.StringFixed(2))
	})
}

func TestOrderPaymentAllocation(t *testing.T) {
	t.Run("rejects duplicate payment method", func(t *testing.T) {
		order := createTestOrder(t)
		methodID := uuid.New()
		_, err := order.AddPayment(methodID, nil)
		require.NoError(t, err)

		_, err = order.AddPayment(methodID, nil)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("rejects removing the last payment", func(t *testing.T) {
		order := createTestOrder(t)
		payment, err := order.AddPayment(uuid.New(), nil)
		require.NoError(t, err)

		err = order.RemovePayment(payment.ID)

		assert.Error(t, err)
		assert.Len(t, order.Payments, 1)
	})

	t.Run("removing one of two payments re-syncs the survivor", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.AddItem(uuid.New(), "Water jug", 2, money(t, "10.00"))
		require.NoError(t, err)

		half := money(t, "8.00")
		first, err := order.AddPayment(uuid.New(), &half)
		require.NoError(t, err)
		_, err = order.AddPayment(uuid.New(), nil)
		require.NoError(t, err)

		require.NoError(t, order.RemovePayment(first.ID))

		require.Len(t, order.Payments, 1)
		assert.Equal(t, "20.00", order.Payments[0].Value.StringFixed(2))
	})
}

func TestOrderFinalizePayments(t *testing.T) {
	t.Run("cash payment above total yields change", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.AddItem(uuid.New(), "Water jug", 2, money(t, "10.00"))
		require.NoError(t, err)
		_, err = order.AddItem(uuid.New(), "Cups", 1, money(t, "5.00"))
		require.NoError(t, err)
		require.NoError(t, order.SetDeliveryFee(money(t, "3.00")))

		cashMethod := uuid.New()
		paid := money(t, "50.00")
		_, err = order.AddPayment(cashMethod, &paid)
		require.NoError(t, err)

		err = order.FinalizePayments(map[uuid.UUID]bool{cashMethod: true})
		require.NoError(t, err)

		assert.Equal(t, "22.00", order.Payments[0].Change.StringFixed(2))
	})

	t.Run("exact payment yields zero change", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.AddItem(uuid.New(), "Water jug", 1, money(t, "28.00"))
		require.NoError(t, err)

		cashMethod := uuid.New()
		_, err = order.AddPayment(cashMethod, nil)
		require.NoError(t, err)

		require.NoError(t, order.FinalizePayments(map[uuid.UUID]bool{cashMethod: true}))
		assert.True(t, order.Payments[0].Change.IsZero())
	})

	t.Run("insufficient payment is rejected", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.AddItem(uuid.New(), "Water jug", 2, money(t, "10.00"))
		require.NoError(t, err)

		short := money(t, "15.00")
		methodID := uuid.New()
		_, err = order.AddPayment(methodID, &short)
		require.NoError(t, err)

		err = order.FinalizePayments(map[uuid.UUID]bool{methodID: true})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("non-cash methods never carry change", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.AddItem(uuid.New(), "Water jug", 2, money(t, "10.00"))
		require.NoError(t, err)

		pixMethod := uuid.New()
		over := money(t, "25.00")
		_, err = order.AddPayment(pixMethod, &over)
		require.NoError(t, err)

		err = order.FinalizePayments(map[uuid.UUID]bool{pixMethod: false})

		assert.Error(t, err)
	})

	t.Run("split cash and card assigns change to cash", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.AddItem(uuid.New(), "Gas cylinder", 1, money(t, "100.00"))
		require.NoError(t, err)

		cardMethod := uuid.New()
		cashMethod := uuid.New()
		card := money(t, "60.00")
		cash := money(t, "50.00")
		_, err = order.AddPayment(cardMethod, &card)
		require.NoError(t, err)
		_, err = order.AddPayment(cashMethod, &cash)
		require.NoError(t, err)

		require.NoError(t, order.FinalizePayments(map[uuid.UUID]bool{cashMethod: true}))

		cashPayment := order.FindPaymentByMethod(cashMethod)
		cardPayment := order.FindPaymentByMethod(cardMethod)
		require.NotNil(t, cashPayment)
		require.NotNil(t, cardPayment)
		assert.Equal(t, "10.00", cashPayment.Change.StringFixed(2))
		assert.True(t, cardPayment.Change.IsZero())
	})
}

func TestOrderReplacePayments(t *testing.T) {
	t.Run("explicit tendered cash above total is preserved", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.AddItem(uuid.New(), "Water jug", 2, money(t, "10.00"))
		require.NoError(t, err)
		_, err = order.AddItem(uuid.New(), "Cups", 1, money(t, "5.00"))
		require.NoError(t, err)
		require.NoError(t, order.SetDeliveryFee(money(t, "3.00")))

		cashMethod := uuid.New()
		tendered := money(t, "50.00")
		require.NoError(t, order.ReplacePayments([]PaymentSpec{
			{PaymentMethodID: cashMethod, Value: &tendered},
		}))

		// the resubmitted value stays as entered, not clamped to the total
		assert.Equal(t, "50.00", order.Payments[0].Value.StringFixed(2))

		require.NoError(t, order.FinalizePayments(map[uuid.UUID]bool{cashMethod: true}))
		assert.Equal(t, "22.00", order.Payments[0].Change.StringFixed(2))
	})

	t.Run("nil value defaults to the outstanding amount", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.AddItem(uuid.New(), "Water jug", 2, money(t, "10.00"))
		require.NoError(t, err)

		require.NoError(t, order.ReplacePayments([]PaymentSpec{
			{PaymentMethodID: uuid.New()},
		}))

		assert.Equal(t, "20.00", order.Payments[0].Value.StringFixed(2))
	})

	t.Run("cannot drop every payment from a paid order", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.AddItem(uuid.New(), "Water jug", 1, money(t, "10.00"))
		require.NoError(t, err)
		_, err = order.AddPayment(uuid.New(), nil)
		require.NoError(t, err)

		err = order.ReplacePayments(nil)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"new to delivering", OrderStatusNew, OrderStatusDelivering, true},
		{"new to delivered", OrderStatusNew, OrderStatusDelivered, true},
		{"new to completed", OrderStatusNew, OrderStatusCompleted, true},
		{"new to canceled", OrderStatusNew, OrderStatusCanceled, true},
		{"delivering to delivered", OrderStatusDelivering, OrderStatusDelivered, true},
		{"delivering to new", OrderStatusDelivering, OrderStatusNew, false},
		{"delivered to completed", OrderStatusDelivered, OrderStatusCompleted, true},
		{"delivered to delivering", OrderStatusDelivered, OrderStatusDelivering, false},
		{"completed is terminal", OrderStatusCompleted, OrderStatusCanceled, false},
		{"canceled is terminal", OrderStatusCanceled, OrderStatusNew, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}

	t.Run("completion requires items and full payment", func(t *testing.T) {
		order := createTestOrder(t)

		err := order.ChangeStatus(OrderStatusCompleted)
		assert.Error(t, err)

		_, err = order.AddItem(uuid.New(), "Water jug", 2, money(t, "10.00"))
		require.NoError(t, err)
		err = order.ChangeStatus(OrderStatusCompleted)
		assert.Error(t, err)

		_, err = order.AddPayment(uuid.New(), nil)
		require.NoError(t, err)
		require.NoError(t, order.ChangeStatus(OrderStatusCompleted))
		assert.Equal(t, OrderStatusCompleted, order.Status)
	})

	t.Run("completed order rejects edits", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.AddItem(uuid.New(), "Water jug", 1, money(t, "10.00"))
		require.NoError(t, err)
		_, err = order.AddPayment(uuid.New(), nil)
		require.NoError(t, err)
		require.NoError(t, order.ChangeStatus(OrderStatusCompleted))

		_, err = order.AddItem(uuid.New(), "Cups", 1, money(t, "5.00"))

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("cancel keeps the order, never deletes", func(t *testing.T) {
		order := createTestOrder(t)
		_, err := order.AddItem(uuid.New(), "Water jug", 1, money(t, "10.00"))
		require.NoError(t, err)

		require.NoError(t, order.Cancel())

		assert.Equal(t, OrderStatusCanceled, order.Status)
		assert.Len(t, order.Items, 1)
	})
}
