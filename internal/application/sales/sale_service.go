package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/catalog"
	"github.com/salespos/backend/internal/domain/partner"
	"github.com/salespos/backend/internal/domain/sales"
	"github.com/salespos/backend/internal/domain/shared"
	"github.com/salespos/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// SaleService handles the point-of-sale commit and cancellation operations
type SaleService struct {
	saleRepo     sales.SaleRepository
	productRepo  catalog.ProductRepository
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewSaleService creates a new SaleService
func NewSaleService(
	saleRepo sales.SaleRepository,
	productRepo catalog.ProductRepository,
	customerRepo partner.CustomerRepository,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Commit commits a sale: prices are snapshotted from the catalog, stock is
// decremented and installment receivables are opened, all atomically
func (s *SaleService) Commit(ctx context.Context, userID uuid.UUID, req CommitSaleRequest) (*SaleResponse, error) {
	if req.CustomerID != nil {
		customer, err := s.customerRepo.FindByID(ctx, *req.CustomerID)
		if err != nil {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer not found")
		}
		if !customer.IsActive() {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer is not active")
		}
	}

	installments := req.Installments
	if installments == 0 {
		installments = 1
	}

	saleNumber, err := s.saleRepo.GenerateSaleNumber(ctx)
	if err != nil {
		return nil, err
	}

	sale, err := sales.NewSale(saleNumber, req.CustomerID, userID,
		sales.PaymentMethod(req.PaymentMethod), installments)
	if err != nil {
		return nil, err
	}

	products, err := s.loadProducts(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		product := products[item.ProductID]
		if !product.IsSellable() {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Product %s is not available for sale", product.Code))
		}
		if err := sale.AddItem(product.ID, product.Code, product.Name,
			item.Quantity, product.GetSalePriceMoney()); err != nil {
			return nil, err
		}
	}

	if req.Discount != nil {
		if err := sale.ApplyDiscount(valueobject.NewMoneyBRL(*req.Discount)); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		sale.Notes = req.Notes
	}

	if err := sale.Validate(); err != nil {
		return nil, err
	}

	charges, err := s.buildInstallmentCharges(sale)
	if err != nil {
		return nil, err
	}

	if err := s.saleRepo.CommitSale(ctx, sale, charges); err != nil {
		return nil, err
	}

	sale.AddDomainEvent(sales.NewSaleCommittedEvent(sale))
	s.publishEvents(sale)

	s.logger.Info("Sale committed",
		zap.String("sale_number", sale.SaleNumber),
		zap.String("payment_method", string(sale.PaymentMethod)),
		zap.Int("items", len(sale.Items)),
		zap.String("payable_amount", sale.PayableAmount.StringFixed(2)))

	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByID retrieves a sale by ID
func (s *SaleService) GetByID(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByNumber retrieves a sale by its sale number
func (s *SaleService) GetByNumber(ctx context.Context, saleNumber string) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByNumber(ctx, saleNumber)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves sales with filtering and pagination
func (s *SaleService) List(ctx context.Context, filter SaleListFilter) (*shared.Paginated[SaleListItemResponse], error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.UserID != nil {
		domainFilter.Filters["user_id"] = *filter.UserID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.PaymentMethod != "" {
		domainFilter.Filters["payment_method"] = filter.PaymentMethod
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	results, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.saleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]SaleListItemResponse, 0, len(results))
	for i := range results {
		responses = append(responses, ToSaleListItemResponse(&results[i]))
	}

	result := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// Cancel cancels a sale, restoring stock and cancelling open receivables.
// A sale with payments already received cannot be cancelled.
func (s *SaleService) Cancel(ctx context.Context, id uuid.UUID, req CancelSaleRequest) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := sale.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.saleRepo.CancelSale(ctx, sale); err != nil {
		return nil, err
	}

	s.publishEvents(sale)

	s.logger.Info("Sale cancelled",
		zap.String("sale_number", sale.SaleNumber),
		zap.String("reason", req.Reason))

	response := ToSaleResponse(sale)
	return &response, nil
}

// publishEvents drains recorded domain events into the log stream. There is
// no message broker in this deployment; the structured log is the event feed.
func (s *SaleService) publishEvents(sale *sales.Sale) {
	for _, evt := range sale.GetDomainEvents() {
		s.logger.Info("domain event",
			zap.String("event_type", evt.EventType()),
			zap.String("aggregate_type", evt.AggregateType()),
			zap.String("aggregate_id", evt.AggregateID().String()))
	}
	sale.ClearDomainEvents()
}

func (s *SaleService) loadProducts(ctx context.Context, items []CommitSaleItemInput) (map[uuid.UUID]*catalog.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for _, item := range items {
		if _, ok := byID[item.ProductID]; !ok {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Product %s not found", item.ProductID))
		}
	}

	return byID, nil
}

// buildInstallmentCharges splits the payable amount across the installments,
// one receivable per installment, due one month apart starting one month
// after the sale
func (s *SaleService) buildInstallmentCharges(sale *sales.Sale) ([]sales.InstallmentCharge, error) {
	if !sale.IsInstallmentSale() {
		return nil, nil
	}

	amounts, err := sale.InstallmentAmounts()
	if err != nil {
		return nil, err
	}

	charges := make([]sales.InstallmentCharge, 0, len(amounts))
	for i, amount := range amounts {
		charges = append(charges, sales.InstallmentCharge{
			Number:  i + 1,
			Amount:  amount.Amount(),
			DueDate: time.Now().AddDate(0, i+1, 0),
		})
	}
	return charges, nil
}
