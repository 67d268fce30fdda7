package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/finance"
	"github.com/salespos/backend/internal/domain/partner"
	"github.com/salespos/backend/internal/domain/shared"
	"github.com/salespos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestReceivable(t *testing.T, db *gorm.DB, customer *partner.Customer, amount string, dueDate time.Time) *finance.Receivable {
	t.Helper()

	money, err := valueobject.NewMoneyBRLFromString(amount)
	require.NoError(t, err)

	receivable, err := finance.NewReceivable(uuid.New(), customer.ID, 1, money, dueDate)
	require.NoError(t, err)
	require.NoError(t, db.Create(receivable).Error)

	return receivable
}

func TestRegisterPayment_FullPaymentClosesReceivable(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestCustomer(t, db)
	repo := NewGormReceivableRepository(db)

	receivable := createTestReceivable(t, db, customer, "150.00", time.Now().AddDate(0, 1, 0))

	paidAt := time.Now()
	updated, err := repo.RegisterPayment(context.Background(), receivable.ID,
		decimal.RequireFromString("150.00"), paidAt)
	require.NoError(t, err)

	assert.Equal(t, finance.ReceivableStatusPaid, updated.Status)
	decimalEquals(t, "150", updated.PaidAmount)
	require.NotNil(t, updated.PaymentDate)
	assert.True(t, updated.Outstanding().IsZero())
}

func TestRegisterPayment_PartialThenFull(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestCustomer(t, db)
	repo := NewGormReceivableRepository(db)

	receivable := createTestReceivable(t, db, customer, "100.00", time.Now().AddDate(0, 1, 0))

	updated, err := repo.RegisterPayment(context.Background(), receivable.ID,
		decimal.RequireFromString("40.00"), time.Now())
	require.NoError(t, err)
	assert.Equal(t, finance.ReceivableStatusPartial, updated.Status)
	decimalEquals(t, "40", updated.PaidAmount)
	assert.Nil(t, updated.PaymentDate)
	decimalEquals(t, "60", updated.Outstanding())

	updated, err = repo.RegisterPayment(context.Background(), receivable.ID,
		decimal.RequireFromString("60.00"), time.Now())
	require.NoError(t, err)
	assert.Equal(t, finance.ReceivableStatusPaid, updated.Status)
	decimalEquals(t, "100", updated.PaidAmount)
	require.NotNil(t, updated.PaymentDate)
}

func TestRegisterPayment_OverpaymentRejected(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestCustomer(t, db)
	repo := NewGormReceivableRepository(db)

	receivable := createTestReceivable(t, db, customer, "100.00", time.Now().AddDate(0, 1, 0))

	_, err := repo.RegisterPayment(context.Background(), receivable.ID,
		decimal.RequireFromString("100.01"), time.Now())
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)

	// the failed payment must not touch the row
	current, err := repo.FindByID(context.Background(), receivable.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.ReceivableStatusPending, current.Status)
	assert.True(t, current.PaidAmount.IsZero())
}

func TestRegisterPayment_PartialOverpaymentRejected(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestCustomer(t, db)
	repo := NewGormReceivableRepository(db)

	receivable := createTestReceivable(t, db, customer, "100.00", time.Now().AddDate(0, 1, 0))

	_, err := repo.RegisterPayment(context.Background(), receivable.ID,
		decimal.RequireFromString("70.00"), time.Now())
	require.NoError(t, err)

	_, err = repo.RegisterPayment(context.Background(), receivable.ID,
		decimal.RequireFromString("40.00"), time.Now())
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)

	// the first payment still stands untouched
	current, err := repo.FindByID(context.Background(), receivable.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.ReceivableStatusPartial, current.Status)
	decimalEquals(t, "70", current.PaidAmount)
}

func TestRegisterPayment_ConcurrentPaymentsNeverOverpay(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestCustomer(t, db)
	repo := NewGormReceivableRepository(db)

	receivable := createTestReceivable(t, db, customer, "100.00", time.Now().AddDate(0, 1, 0))

	// two payments that fit individually but not together
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.RegisterPayment(context.Background(), receivable.ID,
				decimal.RequireFromString("70.00"), time.Now())
		}(i)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONFLICT", domainErr.Code)
		conflicted++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)

	current, err := repo.FindByID(context.Background(), receivable.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.ReceivableStatusPartial, current.Status)
	decimalEquals(t, "70", current.PaidAmount)
}

func TestRegisterPayment_TerminalStatusRejected(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestCustomer(t, db)
	repo := NewGormReceivableRepository(db)

	receivable := createTestReceivable(t, db, customer, "50.00", time.Now().AddDate(0, 1, 0))
	_, err := repo.RegisterPayment(context.Background(), receivable.ID,
		decimal.RequireFromString("50.00"), time.Now())
	require.NoError(t, err)

	_, err = repo.RegisterPayment(context.Background(), receivable.ID,
		decimal.RequireFromString("1.00"), time.Now())
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestRegisterPayment_UnknownReceivable(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormReceivableRepository(db)

	_, err := repo.RegisterPayment(context.Background(), uuid.New(),
		decimal.RequireFromString("10.00"), time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestFindOverdue_DerivedFromDueDate(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestCustomer(t, db)
	repo := NewGormReceivableRepository(db)
	now := time.Now()

	past := createTestReceivable(t, db, customer, "100.00", now.AddDate(0, 0, -10))
	dueToday := createTestReceivable(t, db, customer, "100.00", now)
	future := createTestReceivable(t, db, customer, "100.00", now.AddDate(0, 0, 10))

	paidLate := createTestReceivable(t, db, customer, "100.00", now.AddDate(0, 0, -5))
	_, err := repo.RegisterPayment(context.Background(), paidLate.ID,
		decimal.RequireFromString("100.00"), now)
	require.NoError(t, err)

	overdue, err := repo.FindOverdue(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, past.ID, overdue[0].ID)

	// a receivable due today is not overdue, and settling clears overdue
	assert.NotEqual(t, dueToday.ID, overdue[0].ID)
	assert.NotEqual(t, future.ID, overdue[0].ID)
}

func TestFindDueWithin_Window(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestCustomer(t, db)
	repo := NewGormReceivableRepository(db)
	now := time.Now()

	inWindow := createTestReceivable(t, db, customer, "100.00", now.AddDate(0, 0, 3))
	createTestReceivable(t, db, customer, "100.00", now.AddDate(0, 0, 30))
	createTestReceivable(t, db, customer, "100.00", now.AddDate(0, 0, -3))

	due, err := repo.FindDueWithin(context.Background(), now, 7)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, inWindow.ID, due[0].ID)
}

func TestReceivableRepository_FindAllFilters(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestCustomer(t, db)
	repo := NewGormReceivableRepository(db)
	now := time.Now()

	createTestReceivable(t, db, customer, "100.00", now.AddDate(0, 1, 0))
	paid := createTestReceivable(t, db, customer, "50.00", now.AddDate(0, 2, 0))
	_, err := repo.RegisterPayment(context.Background(), paid.ID,
		decimal.RequireFromString("50.00"), now)
	require.NoError(t, err)

	filter := shared.DefaultFilter()
	filter.Filters["status"] = string(finance.ReceivableStatusPaid)
	results, err := repo.FindAll(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, paid.ID, results[0].ID)

	filter = shared.DefaultFilter()
	filter.Filters["customer_id"] = customer.ID
	count, err := repo.Count(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
