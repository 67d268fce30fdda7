package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/salespos/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSalesByMonth(t *testing.T) {
	db := setupTestDB(t)
	product := createTestProduct(t, db, "PRD-001", "50.00", 100)
	repo := NewGormSalesReportRepository(db)
	now := time.Now()

	createCommittedSale(t, db, product, nil, sales.PaymentMethodMoney, 1, 2)
	createCommittedSale(t, db, product, nil, sales.PaymentMethodPix, 1, 1)

	results, err := repo.GetSalesByMonth(3, now)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// oldest first, empty months zeroed
	assert.Equal(t, now.AddDate(0, -2, 0).Format("2006-01"), results[0].Month)
	assert.Zero(t, results[0].SaleCount)
	assert.True(t, results[0].TotalAmount.IsZero())

	current := results[2]
	assert.Equal(t, now.Format("2006-01"), current.Month)
	assert.Equal(t, int64(2), current.SaleCount)
	decimalEquals(t, "150", current.TotalAmount)
}

func TestGetSalesByMonth_ExcludesCancelled(t *testing.T) {
	db := setupTestDB(t)
	product := createTestProduct(t, db, "PRD-001", "50.00", 100)
	saleRepo := NewGormSaleRepository(db)
	repo := NewGormSalesReportRepository(db)
	now := time.Now()

	kept := createCommittedSale(t, db, product, nil, sales.PaymentMethodMoney, 1, 1)
	cancelled := createCommittedSale(t, db, product, nil, sales.PaymentMethodMoney, 1, 1)
	require.NoError(t, cancelled.Cancel(""))
	require.NoError(t, saleRepo.CancelSale(context.Background(), cancelled))

	results, err := repo.GetSalesByMonth(1, now)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].SaleCount)
	assert.True(t, results[0].TotalAmount.Equal(kept.PayableAmount))
}

func TestGetMonthlySummary(t *testing.T) {
	db := setupTestDB(t)
	product := createTestProduct(t, db, "PRD-001", "100.00", 100)
	repo := NewGormSalesReportRepository(db)
	now := time.Now()

	createCommittedSale(t, db, product, nil, sales.PaymentMethodMoney, 1, 1)
	createCommittedSale(t, db, product, nil, sales.PaymentMethodMoney, 1, 2)
	createCommittedSale(t, db, product, nil, sales.PaymentMethodPix, 1, 1)

	summary, err := repo.GetMonthlySummary(now.Year(), int(now.Month()))
	require.NoError(t, err)

	decimalEquals(t, "400", summary.TotalSales)
	assert.Equal(t, int64(3), summary.TransactionCount)
	decimalEquals(t, "133.33", summary.AverageTicket)
	require.Len(t, summary.PaymentMethods, 2)
	assert.Equal(t, string(sales.PaymentMethodMoney), summary.PaymentMethods[0].PaymentMethod)
	decimalEquals(t, "300", summary.PaymentMethods[0].TotalAmount)
}

func TestGetMonthlySummary_EmptyMonth(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesReportRepository(db)

	summary, err := repo.GetMonthlySummary(2020, 1)
	require.NoError(t, err)
	assert.True(t, summary.TotalSales.IsZero())
	assert.Zero(t, summary.TransactionCount)
	assert.True(t, summary.AverageTicket.IsZero())
	assert.Empty(t, summary.PaymentMethods)
}

func TestGetOverdueReceivables(t *testing.T) {
	db := setupTestDB(t)
	product := createTestProduct(t, db, "PRD-001", "90.00", 100)
	customer := createTestCustomer(t, db)
	repo := NewGormFinanceReportRepository(db)
	recRepo := NewGormReceivableRepository(db)
	now := time.Now()

	sale := createCommittedSale(t, db, product, &customer.ID, sales.PaymentMethodInstallments, 3, 1)

	// push the first two installments into the past
	receivables, err := recRepo.FindBySale(context.Background(), sale.ID)
	require.NoError(t, err)
	require.Len(t, receivables, 3)
	require.NoError(t, db.Model(&receivables[0]).Update("due_date", now.AddDate(0, 0, -15)).Error)
	require.NoError(t, db.Model(&receivables[1]).Update("due_date", now.AddDate(0, 0, -5)).Error)

	_, err = recRepo.RegisterPayment(context.Background(), receivables[0].ID,
		decimal.RequireFromString("10.00"), now)
	require.NoError(t, err)

	results, err := repo.GetOverdueReceivables(now)
	require.NoError(t, err)
	require.Len(t, results, 2)

	oldest := results[0]
	assert.Equal(t, receivables[0].ID, oldest.ReceivableID)
	assert.Equal(t, sale.SaleNumber, oldest.SaleNumber)
	assert.Equal(t, customer.Name, oldest.CustomerName)
	assert.Equal(t, 15, oldest.DaysOverdue)
	decimalEquals(t, "10", oldest.PaidAmount)
	decimalEquals(t, "20", oldest.Outstanding)

	assert.Equal(t, 5, results[1].DaysOverdue)
}

func TestGetUpcomingReceivables(t *testing.T) {
	db := setupTestDB(t)
	product := createTestProduct(t, db, "PRD-001", "60.00", 100)
	customer := createTestCustomer(t, db)
	repo := NewGormFinanceReportRepository(db)
	recRepo := NewGormReceivableRepository(db)
	now := time.Now()

	sale := createCommittedSale(t, db, product, &customer.ID, sales.PaymentMethodInstallments, 2, 1)

	receivables, err := recRepo.FindBySale(context.Background(), sale.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&receivables[0]).Update("due_date", now.AddDate(0, 0, 5)).Error)
	require.NoError(t, db.Model(&receivables[1]).Update("due_date", now.AddDate(0, 0, 45)).Error)

	results, err := repo.GetUpcomingReceivables(now, 30)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, receivables[0].ID, results[0].ReceivableID)
	assert.Equal(t, customer.Name, results[0].CustomerName)
	decimalEquals(t, "30", results[0].Outstanding)
}
