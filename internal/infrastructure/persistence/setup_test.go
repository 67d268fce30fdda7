package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/catalog"
	"github.com/salespos/backend/internal/domain/finance"
	"github.com/salespos/backend/internal/domain/partner"
	"github.com/salespos/backend/internal/domain/sales"
	"github.com/salespos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&catalog.Product{},
		&partner.Customer{},
		&sales.Sale{},
		&sales.SaleItem{},
		&finance.Receivable{},
	)
	require.NoError(t, err)

	return db
}

func createTestProduct(t *testing.T, db *gorm.DB, code string, price string, stock int) *catalog.Product {
	t.Helper()

	salePrice, err := valueobject.NewMoneyBRLFromString(price)
	require.NoError(t, err)
	costPrice, err := valueobject.NewMoneyBRLFromString("1.00")
	require.NoError(t, err)

	product, err := catalog.NewProduct(code, "Product "+code, salePrice, costPrice)
	require.NoError(t, err)
	require.NoError(t, product.Restock(stock))
	require.NoError(t, db.Create(product).Error)

	return product
}

func createTestCustomer(t *testing.T, db *gorm.DB) *partner.Customer {
	t.Helper()

	customer, err := partner.NewCustomer("Maria Oliveira", "529.982.247-25")
	require.NoError(t, err)
	require.NoError(t, db.Create(customer).Error)

	return customer
}

func createCommittedSale(t *testing.T, db *gorm.DB, product *catalog.Product, customerID *uuid.UUID, method sales.PaymentMethod, installments, quantity int) *sales.Sale {
	t.Helper()

	repo := NewGormSaleRepository(db)
	number, err := repo.GenerateSaleNumber(context.Background())
	require.NoError(t, err)

	sale, err := sales.NewSale(number, customerID, uuid.New(), method, installments)
	require.NoError(t, err)
	require.NoError(t, sale.AddItem(product.ID, product.Code, product.Name, quantity, product.GetSalePriceMoney()))
	require.NoError(t, sale.Validate())

	var charges []sales.InstallmentCharge
	if sale.IsInstallmentSale() {
		amounts, err := sale.InstallmentAmounts()
		require.NoError(t, err)
		due := time.Now()
		for i, amount := range amounts {
			due = due.AddDate(0, 1, 0)
			charges = append(charges, sales.InstallmentCharge{
				Number:  i + 1,
				Amount:  amount.Amount(),
				DueDate: due,
			})
		}
	}

	require.NoError(t, repo.CommitSale(context.Background(), sale, charges))
	return sale
}

func productStock(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()

	var product catalog.Product
	require.NoError(t, db.First(&product, "id = ?", id).Error)
	return product.StockQuantity
}

func decimalEquals(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	require.True(t, actual.Equal(decimal.RequireFromString(expected)),
		"expected %s, got %s", expected, actual.String())
}
