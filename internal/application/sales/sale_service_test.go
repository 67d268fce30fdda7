package sales

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/catalog"
	"github.com/salespos/backend/internal/domain/partner"
	"github.com/salespos/backend/internal/domain/sales"
	"github.com/salespos/backend/internal/domain/shared"
	"github.com/salespos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSaleRepository is a mock implementation of SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByNumber(ctx context.Context, saleNumber string) (*sales.Sale, error) {
	args := m.Called(ctx, saleNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) CommitSale(ctx context.Context, sale *sales.Sale, charges []sales.InstallmentCharge) error {
	args := m.Called(ctx, sale, charges)
	return args.Error(0)
}

func (m *MockSaleRepository) CancelSale(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) GenerateSaleNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) SearchSellable(ctx context.Context, term string, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, term, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindLowStock(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByDocument(ctx context.Context, document string) (*partner.Customer, error) {
	args := m.Called(ctx, document)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Search(ctx context.Context, term string, limit int) ([]partner.Customer, error) {
	args := m.Called(ctx, term, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByDocument(ctx context.Context, document string) (bool, error) {
	args := m.Called(ctx, document)
	return args.Bool(0), args.Error(1)
}

var (
	testUserID     = uuid.New()
	testSaleNumber = "VND-2026-00001"
)

func newTestService(saleRepo *MockSaleRepository, productRepo *MockProductRepository, customerRepo *MockCustomerRepository) *SaleService {
	return NewSaleService(saleRepo, productRepo, customerRepo, zap.NewNop())
}

func createTestProduct(code, price string, stock int) *catalog.Product {
	salePrice, _ := valueobject.NewMoneyBRLFromString(price)
	costPrice, _ := valueobject.NewMoneyBRLFromString("1.00")
	product, _ := catalog.NewProduct(code, "Product "+code, salePrice, costPrice)
	_ = product.Restock(stock)
	return product
}

func createTestCustomer() *partner.Customer {
	customer, _ := partner.NewCustomer("Maria Oliveira", "529.982.247-25")
	return customer
}

func TestSaleService_Commit(t *testing.T) {
	t.Run("commit cash sale successfully", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		productRepo := new(MockProductRepository)
		customerRepo := new(MockCustomerRepository)
		service := newTestService(saleRepo, productRepo, customerRepo)
		ctx := context.Background()

		product := createTestProduct("PRD-001", "25.00", 10)
		saleRepo.On("GenerateSaleNumber", ctx).Return(testSaleNumber, nil)
		productRepo.On("FindByIDs", ctx, []uuid.UUID{product.ID}).
			Return([]catalog.Product{*product}, nil)
		saleRepo.On("CommitSale", ctx, mock.AnythingOfType("*sales.Sale"),
			[]sales.InstallmentCharge(nil)).Return(nil)

		result, err := service.Commit(ctx, testUserID, CommitSaleRequest{
			Items:         []CommitSaleItemInput{{ProductID: product.ID, Quantity: 3}},
			PaymentMethod: "MONEY",
		})

		require.NoError(t, err)
		assert.Equal(t, testSaleNumber, result.SaleNumber)
		assert.Equal(t, "COMPLETED", result.Status)
		assert.True(t, result.PayableAmount.Equal(decimal.RequireFromString("75")))
		assert.Len(t, result.Items, 1)
		saleRepo.AssertExpectations(t)
		productRepo.AssertExpectations(t)
	})

	t.Run("installment sale opens one charge per installment", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		productRepo := new(MockProductRepository)
		customerRepo := new(MockCustomerRepository)
		service := newTestService(saleRepo, productRepo, customerRepo)
		ctx := context.Background()

		product := createTestProduct("PRD-001", "100.00", 10)
		customer := createTestCustomer()

		customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		saleRepo.On("GenerateSaleNumber", ctx).Return(testSaleNumber, nil)
		productRepo.On("FindByIDs", ctx, []uuid.UUID{product.ID}).
			Return([]catalog.Product{*product}, nil)

		var captured []sales.InstallmentCharge
		saleRepo.On("CommitSale", ctx, mock.AnythingOfType("*sales.Sale"), mock.Anything).
			Run(func(args mock.Arguments) {
				captured = args.Get(2).([]sales.InstallmentCharge)
			}).Return(nil)

		result, err := service.Commit(ctx, testUserID, CommitSaleRequest{
			CustomerID:    &customer.ID,
			Items:         []CommitSaleItemInput{{ProductID: product.ID, Quantity: 1}},
			PaymentMethod: "INSTALLMENTS",
			Installments:  3,
		})

		require.NoError(t, err)
		assert.Equal(t, 3, result.Installments)
		require.Len(t, captured, 3)

		// parts must sum to the payable amount, remainder on the last one
		sum := decimal.Zero
		for _, charge := range captured {
			sum = sum.Add(charge.Amount)
		}
		assert.True(t, sum.Equal(result.PayableAmount))
		assert.True(t, captured[0].Amount.Equal(decimal.RequireFromString("33.33")))
		assert.True(t, captured[2].Amount.Equal(decimal.RequireFromString("33.34")))

		// due dates run one month apart
		assert.Equal(t, 1, captured[0].Number)
		assert.True(t, captured[0].DueDate.After(time.Now()))
		assert.True(t, captured[1].DueDate.After(captured[0].DueDate))
		assert.True(t, captured[2].DueDate.After(captured[1].DueDate))
		saleRepo.AssertExpectations(t)
	})

	t.Run("installment sale without customer rejected", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		productRepo := new(MockProductRepository)
		customerRepo := new(MockCustomerRepository)
		service := newTestService(saleRepo, productRepo, customerRepo)
		ctx := context.Background()

		saleRepo.On("GenerateSaleNumber", ctx).Return(testSaleNumber, nil)

		_, err := service.Commit(ctx, testUserID, CommitSaleRequest{
			Items:         []CommitSaleItemInput{{ProductID: uuid.New(), Quantity: 1}},
			PaymentMethod: "INSTALLMENTS",
			Installments:  3,
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("inactive customer rejected", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		productRepo := new(MockProductRepository)
		customerRepo := new(MockCustomerRepository)
		service := newTestService(saleRepo, productRepo, customerRepo)
		ctx := context.Background()

		customer := createTestCustomer()
		require.NoError(t, customer.Deactivate())
		customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)

		_, err := service.Commit(ctx, testUserID, CommitSaleRequest{
			CustomerID:    &customer.ID,
			Items:         []CommitSaleItemInput{{ProductID: uuid.New(), Quantity: 1}},
			PaymentMethod: "PIX",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not active")
	})

	t.Run("unknown product rejected", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		productRepo := new(MockProductRepository)
		customerRepo := new(MockCustomerRepository)
		service := newTestService(saleRepo, productRepo, customerRepo)
		ctx := context.Background()

		missingID := uuid.New()
		saleRepo.On("GenerateSaleNumber", ctx).Return(testSaleNumber, nil)
		productRepo.On("FindByIDs", ctx, []uuid.UUID{missingID}).
			Return([]catalog.Product{}, nil)

		_, err := service.Commit(ctx, testUserID, CommitSaleRequest{
			Items:         []CommitSaleItemInput{{ProductID: missingID, Quantity: 1}},
			PaymentMethod: "MONEY",
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("out of stock product rejected before commit", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		productRepo := new(MockProductRepository)
		customerRepo := new(MockCustomerRepository)
		service := newTestService(saleRepo, productRepo, customerRepo)
		ctx := context.Background()

		product := createTestProduct("PRD-001", "10.00", 0)
		saleRepo.On("GenerateSaleNumber", ctx).Return(testSaleNumber, nil)
		productRepo.On("FindByIDs", ctx, []uuid.UUID{product.ID}).
			Return([]catalog.Product{*product}, nil)

		_, err := service.Commit(ctx, testUserID, CommitSaleRequest{
			Items:         []CommitSaleItemInput{{ProductID: product.ID, Quantity: 1}},
			PaymentMethod: "MONEY",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not available")
	})

	t.Run("discount applied to payable amount", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		productRepo := new(MockProductRepository)
		customerRepo := new(MockCustomerRepository)
		service := newTestService(saleRepo, productRepo, customerRepo)
		ctx := context.Background()

		product := createTestProduct("PRD-001", "100.00", 10)
		saleRepo.On("GenerateSaleNumber", ctx).Return(testSaleNumber, nil)
		productRepo.On("FindByIDs", ctx, []uuid.UUID{product.ID}).
			Return([]catalog.Product{*product}, nil)
		saleRepo.On("CommitSale", ctx, mock.AnythingOfType("*sales.Sale"),
			[]sales.InstallmentCharge(nil)).Return(nil)

		discount := decimal.RequireFromString("15.00")
		result, err := service.Commit(ctx, testUserID, CommitSaleRequest{
			Items:         []CommitSaleItemInput{{ProductID: product.ID, Quantity: 1}},
			PaymentMethod: "DEBIT_CARD",
			Discount:      &discount,
		})

		require.NoError(t, err)
		assert.True(t, result.PayableAmount.Equal(decimal.RequireFromString("85")))
	})
}

func TestSaleService_Cancel(t *testing.T) {
	t.Run("cancel completed sale", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		productRepo := new(MockProductRepository)
		customerRepo := new(MockCustomerRepository)
		service := newTestService(saleRepo, productRepo, customerRepo)
		ctx := context.Background()

		product := createTestProduct("PRD-001", "10.00", 10)
		sale, err := sales.NewSale(testSaleNumber, nil, testUserID, sales.PaymentMethodMoney, 1)
		require.NoError(t, err)
		require.NoError(t, sale.AddItem(product.ID, product.Code, product.Name, 1, product.GetSalePriceMoney()))

		saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
		saleRepo.On("CancelSale", ctx, sale).Return(nil)

		result, err := service.Cancel(ctx, sale.ID, CancelSaleRequest{Reason: "customer gave up"})

		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", result.Status)
		assert.Equal(t, "customer gave up", result.Notes)
		saleRepo.AssertExpectations(t)
	})

	t.Run("cancelling twice rejected", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		productRepo := new(MockProductRepository)
		customerRepo := new(MockCustomerRepository)
		service := newTestService(saleRepo, productRepo, customerRepo)
		ctx := context.Background()

		sale, err := sales.NewSale(testSaleNumber, nil, testUserID, sales.PaymentMethodMoney, 1)
		require.NoError(t, err)
		require.NoError(t, sale.Cancel("first"))

		saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)

		_, err = service.Cancel(ctx, sale.ID, CancelSaleRequest{Reason: "second"})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}
