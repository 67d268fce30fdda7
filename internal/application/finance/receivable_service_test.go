package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/finance"
	"github.com/salespos/backend/internal/domain/shared"
	"github.com/salespos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockReceivableRepository is a mock implementation of ReceivableRepository
type MockReceivableRepository struct {
	mock.Mock
}

func (m *MockReceivableRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Receivable, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Receivable), args.Error(1)
}

func (m *MockReceivableRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]finance.Receivable, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Receivable), args.Error(1)
}

func (m *MockReceivableRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Receivable, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Receivable), args.Error(1)
}

func (m *MockReceivableRepository) FindOverdue(ctx context.Context, now time.Time) ([]finance.Receivable, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Receivable), args.Error(1)
}

func (m *MockReceivableRepository) FindDueWithin(ctx context.Context, now time.Time, days int) ([]finance.Receivable, error) {
	args := m.Called(ctx, now, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Receivable), args.Error(1)
}

func (m *MockReceivableRepository) RegisterPayment(ctx context.Context, id uuid.UUID, amount decimal.Decimal, paidAt time.Time) (*finance.Receivable, error) {
	args := m.Called(ctx, id, amount, paidAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Receivable), args.Error(1)
}

func (m *MockReceivableRepository) Save(ctx context.Context, receivable *finance.Receivable) error {
	args := m.Called(ctx, receivable)
	return args.Error(0)
}

func (m *MockReceivableRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newTestReceivable(t *testing.T, amount string, dueDate time.Time) *finance.Receivable {
	t.Helper()
	money, err := valueobject.NewMoneyBRLFromString(amount)
	require.NoError(t, err)
	receivable, err := finance.NewReceivable(uuid.New(), uuid.New(), 1, money, dueDate)
	require.NoError(t, err)
	return receivable
}

func TestReceivableService_RegisterPayment(t *testing.T) {
	t.Run("payment delegates to the atomic repository update", func(t *testing.T) {
		repo := new(MockReceivableRepository)
		service := NewReceivableService(repo, zap.NewNop())
		ctx := context.Background()

		receivable := newTestReceivable(t, "100.00", time.Now().AddDate(0, 1, 0))
		amount := decimal.RequireFromString("40.00")
		require.NoError(t, receivable.ApplyPayment(valueobject.NewMoneyBRL(amount), time.Now()))

		repo.On("RegisterPayment", ctx, receivable.ID, amount, mock.AnythingOfType("time.Time")).
			Return(receivable, nil)

		result, err := service.RegisterPayment(ctx, receivable.ID, RegisterPaymentRequest{Amount: amount})

		require.NoError(t, err)
		assert.Equal(t, "PARTIAL", result.Status)
		assert.True(t, result.Outstanding.Equal(decimal.RequireFromString("60")))
		repo.AssertExpectations(t)
	})

	t.Run("explicit payment date is forwarded", func(t *testing.T) {
		repo := new(MockReceivableRepository)
		service := NewReceivableService(repo, zap.NewNop())
		ctx := context.Background()

		receivable := newTestReceivable(t, "50.00", time.Now().AddDate(0, 1, 0))
		amount := decimal.RequireFromString("50.00")
		paidAt := time.Date(2026, 8, 15, 10, 0, 0, 0, time.Local)
		require.NoError(t, receivable.ApplyPayment(valueobject.NewMoneyBRL(amount), paidAt))

		repo.On("RegisterPayment", ctx, receivable.ID, amount, paidAt).
			Return(receivable, nil)

		result, err := service.RegisterPayment(ctx, receivable.ID,
			RegisterPaymentRequest{Amount: amount, PaymentDate: &paidAt})

		require.NoError(t, err)
		assert.Equal(t, "PAID", result.Status)
		require.NotNil(t, result.PaymentDate)
		repo.AssertExpectations(t)
	})

	t.Run("repository errors pass through", func(t *testing.T) {
		repo := new(MockReceivableRepository)
		service := NewReceivableService(repo, zap.NewNop())
		ctx := context.Background()

		id := uuid.New()
		amount := decimal.RequireFromString("10.00")
		repo.On("RegisterPayment", ctx, id, amount, mock.AnythingOfType("time.Time")).
			Return(nil, shared.ErrNotFound)

		_, err := service.RegisterPayment(ctx, id, RegisterPaymentRequest{Amount: amount})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestReceivableService_Responses(t *testing.T) {
	t.Run("overdue flags derived at response time", func(t *testing.T) {
		repo := new(MockReceivableRepository)
		service := NewReceivableService(repo, zap.NewNop())
		ctx := context.Background()

		overdue := newTestReceivable(t, "100.00", time.Now().AddDate(0, 0, -10))
		repo.On("FindByID", ctx, overdue.ID).Return(overdue, nil)

		result, err := service.GetByID(ctx, overdue.ID)

		require.NoError(t, err)
		assert.True(t, result.Overdue)
		assert.Equal(t, 10, result.DaysOverdue)
		assert.True(t, result.Outstanding.Equal(decimal.RequireFromString("100")))
	})

	t.Run("receivable due in the future is not overdue", func(t *testing.T) {
		repo := new(MockReceivableRepository)
		service := NewReceivableService(repo, zap.NewNop())
		ctx := context.Background()

		upcoming := newTestReceivable(t, "100.00", time.Now().AddDate(0, 0, 10))
		repo.On("FindByID", ctx, upcoming.ID).Return(upcoming, nil)

		result, err := service.GetByID(ctx, upcoming.ID)

		require.NoError(t, err)
		assert.False(t, result.Overdue)
		assert.Zero(t, result.DaysOverdue)
	})

	t.Run("list by sale orders by installment", func(t *testing.T) {
		repo := new(MockReceivableRepository)
		service := NewReceivableService(repo, zap.NewNop())
		ctx := context.Background()

		saleID := uuid.New()
		first := newTestReceivable(t, "50.00", time.Now().AddDate(0, 1, 0))
		second := newTestReceivable(t, "50.00", time.Now().AddDate(0, 2, 0))
		repo.On("FindBySale", ctx, saleID).Return([]finance.Receivable{*first, *second}, nil)

		results, err := service.ListBySale(ctx, saleID)

		require.NoError(t, err)
		require.Len(t, results, 2)
	})
}
