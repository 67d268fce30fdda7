package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/shared"
	"github.com/salespos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestSale(t *testing.T) *Sale {
	t.Helper()
	sale, err := NewSale("VND-2026-00001", nil, uuid.New(), PaymentMethodMoney, 1)
	require.NoError(t, err)
	return sale
}

func createInstallmentSale(t *testing.T, installments int) *Sale {
	t.Helper()
	customerID := uuid.New()
	sale, err := NewSale("VND-2026-00002", &customerID, uuid.New(), PaymentMethodInstallments, installments)
	require.NoError(t, err)
	return sale
}

// ============================================================================
// Construction
// ============================================================================

func TestNewSale(t *testing.T) {
	t.Run("creates completed sale", func(t *testing.T) {
		sale := createTestSale(t)
		assert.Equal(t, SaleStatusCompleted, sale.Status)
		assert.Equal(t, 1, sale.Installments)
		assert.False(t, sale.IsInstallmentSale())
	})

	t.Run("rejects invalid payment method", func(t *testing.T) {
		_, err := NewSale("VND-2026-00001", nil, uuid.New(), "BARTER", 1)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("rejects installments without customer", func(t *testing.T) {
		_, err := NewSale("VND-2026-00001", nil, uuid.New(), PaymentMethodInstallments, 3)
		assert.Error(t, err)
	})

	t.Run("accepts single installment sale", func(t *testing.T) {
		customerID := uuid.New()
		sale, err := NewSale("VND-2026-00001", &customerID, uuid.New(), PaymentMethodInstallments, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, sale.Installments)
		assert.True(t, sale.IsInstallmentSale())
	})

	t.Run("rejects installment count out of range", func(t *testing.T) {
		customerID := uuid.New()
		_, err := NewSale("VND-2026-00001", &customerID, uuid.New(), PaymentMethodInstallments, 0)
		assert.Error(t, err)
		_, err = NewSale("VND-2026-00001", &customerID, uuid.New(), PaymentMethodInstallments, MaxInstallments+1)
		assert.Error(t, err)
	})

	t.Run("rejects multiple installments on cash sale", func(t *testing.T) {
		_, err := NewSale("VND-2026-00001", nil, uuid.New(), PaymentMethodMoney, 3)
		assert.Error(t, err)
	})

	t.Run("rejects missing operator", func(t *testing.T) {
		_, err := NewSale("VND-2026-00001", nil, uuid.Nil, PaymentMethodMoney, 1)
		assert.Error(t, err)
	})
}

// ============================================================================
// Items and totals
// ============================================================================

func TestSaleAddItem(t *testing.T) {
	t.Run("snapshots price and recalculates totals", func(t *testing.T) {
		sale := createTestSale(t)

		err := sale.AddItem(uuid.New(), "PROD-001", "Arroz 1kg", 3, valueobject.NewMoneyBRLFromFloat(12.90))
		require.NoError(t, err)
		err = sale.AddItem(uuid.New(), "PROD-002", "Feijao 1kg", 2, valueobject.NewMoneyBRLFromFloat(9.50))
		require.NoError(t, err)

		require.Len(t, sale.Items, 2)
		assert.True(t, sale.Items[0].TotalPrice.Equal(decimal.NewFromFloat(38.70)))
		assert.True(t, sale.TotalAmount.Equal(decimal.NewFromFloat(57.70)))
		assert.True(t, sale.PayableAmount.Equal(decimal.NewFromFloat(57.70)))
	})

	t.Run("rejects duplicate product", func(t *testing.T) {
		sale := createTestSale(t)
		productID := uuid.New()

		require.NoError(t, sale.AddItem(productID, "PROD-001", "Arroz 1kg", 1, valueobject.NewMoneyBRLFromFloat(12.90)))
		err := sale.AddItem(productID, "PROD-001", "Arroz 1kg", 2, valueobject.NewMoneyBRLFromFloat(12.90))
		assert.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		sale := createTestSale(t)
		err := sale.AddItem(uuid.New(), "PROD-001", "Arroz 1kg", 0, valueobject.NewMoneyBRLFromFloat(12.90))
		assert.Error(t, err)
	})
}

func TestSaleApplyDiscount(t *testing.T) {
	t.Run("reduces payable amount", func(t *testing.T) {
		sale := createTestSale(t)
		require.NoError(t, sale.AddItem(uuid.New(), "PROD-001", "Arroz 1kg", 10, valueobject.NewMoneyBRLFromFloat(10)))

		require.NoError(t, sale.ApplyDiscount(valueobject.NewMoneyBRLFromFloat(15)))
		assert.True(t, sale.PayableAmount.Equal(decimal.NewFromInt(85)))
	})

	t.Run("rejects discount above total", func(t *testing.T) {
		sale := createTestSale(t)
		require.NoError(t, sale.AddItem(uuid.New(), "PROD-001", "Arroz 1kg", 1, valueobject.NewMoneyBRLFromFloat(10)))

		err := sale.ApplyDiscount(valueobject.NewMoneyBRLFromFloat(10.01))
		assert.Error(t, err)
	})

	t.Run("rejects negative discount", func(t *testing.T) {
		sale := createTestSale(t)
		err := sale.ApplyDiscount(valueobject.NewMoneyBRLFromFloat(-1))
		assert.Error(t, err)
	})
}

func TestSaleValidate(t *testing.T) {
	t.Run("rejects sale without items", func(t *testing.T) {
		sale := createTestSale(t)
		assert.Error(t, sale.Validate())
	})

	t.Run("accepts sale with items", func(t *testing.T) {
		sale := createTestSale(t)
		require.NoError(t, sale.AddItem(uuid.New(), "PROD-001", "Arroz 1kg", 1, valueobject.NewMoneyBRLFromFloat(10)))
		assert.NoError(t, sale.Validate())
	})
}

// ============================================================================
// Installment split
// ============================================================================

func TestSaleInstallmentAmounts(t *testing.T) {
	t.Run("splits payable across installments with remainder in the last", func(t *testing.T) {
		sale := createInstallmentSale(t, 3)
		require.NoError(t, sale.AddItem(uuid.New(), "PROD-001", "Arroz 1kg", 1, valueobject.NewMoneyBRLFromFloat(100)))

		amounts, err := sale.InstallmentAmounts()
		require.NoError(t, err)
		require.Len(t, amounts, 3)

		assert.Equal(t, "33.33", amounts[0].StringFixed(2))
		assert.Equal(t, "33.33", amounts[1].StringFixed(2))
		assert.Equal(t, "33.34", amounts[2].StringFixed(2))

		sum := valueobject.ZeroBRL()
		for _, a := range amounts {
			sum = sum.MustAdd(a)
		}
		assert.True(t, sum.Equals(sale.GetPayableAmountMoney()))
	})

	t.Run("single installment carries the whole payable", func(t *testing.T) {
		sale := createInstallmentSale(t, 1)
		require.NoError(t, sale.AddItem(uuid.New(), "PROD-001", "Arroz 1kg", 1, valueobject.NewMoneyBRLFromFloat(57.70)))

		amounts, err := sale.InstallmentAmounts()
		require.NoError(t, err)
		require.Len(t, amounts, 1)
		assert.Equal(t, "57.70", amounts[0].StringFixed(2))
	})

	t.Run("rejects split on non-installment sale", func(t *testing.T) {
		sale := createTestSale(t)
		_, err := sale.InstallmentAmounts()
		assert.Error(t, err)
	})
}

// ============================================================================
// Cancellation
// ============================================================================

func TestSaleCancel(t *testing.T) {
	sale := createTestSale(t)

	require.NoError(t, sale.Cancel("customer gave up"))
	assert.True(t, sale.IsCancelled())
	assert.Equal(t, "customer gave up", sale.Notes)

	err := sale.Cancel("again")
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}
