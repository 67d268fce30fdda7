package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/finance"
	"github.com/salespos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReceivableService handles the receivables ledger operations
type ReceivableService struct {
	receivableRepo finance.ReceivableRepository
	logger         *zap.Logger
}

// NewReceivableService creates a new ReceivableService
func NewReceivableService(receivableRepo finance.ReceivableRepository, logger *zap.Logger) *ReceivableService {
	return &ReceivableService{
		receivableRepo: receivableRepo,
		logger:         logger,
	}
}

// GetByID retrieves a receivable by ID
func (s *ReceivableService) GetByID(ctx context.Context, id uuid.UUID) (*ReceivableResponse, error) {
	receivable, err := s.receivableRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToReceivableResponse(receivable, time.Now())
	return &response, nil
}

// ListBySale retrieves the receivables opened by a sale
func (s *ReceivableService) ListBySale(ctx context.Context, saleID uuid.UUID) ([]ReceivableResponse, error) {
	receivables, err := s.receivableRepo.FindBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(receivables), nil
}

// List retrieves receivables with filtering and pagination
func (s *ReceivableService) List(ctx context.Context, filter ReceivableListFilter) (*shared.Paginated[ReceivableResponse], error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "due_date"
	domainFilter.OrderDir = "asc"
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
	if filter.SaleID != nil {
		domainFilter.Filters["sale_id"] = *filter.SaleID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.DueBefore != nil {
		domainFilter.Filters["due_before"] = *filter.DueBefore
	}
	if filter.DueAfter != nil {
		domainFilter.Filters["due_after"] = *filter.DueAfter
	}

	receivables, err := s.receivableRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.receivableRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(s.toResponses(receivables), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// RegisterPayment applies a payment against a receivable. The update is
// atomic at the persistence layer, so concurrent payments can never exceed
// the amount owed.
func (s *ReceivableService) RegisterPayment(ctx context.Context, id uuid.UUID, req RegisterPaymentRequest) (*ReceivableResponse, error) {
	paidAt := time.Now()
	if req.PaymentDate != nil {
		paidAt = *req.PaymentDate
	}

	receivable, err := s.receivableRepo.RegisterPayment(ctx, id, req.Amount, paidAt)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Payment registered",
		zap.String("receivable_id", id.String()),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("status", string(receivable.Status)))

	response := ToReceivableResponse(receivable, time.Now())
	return &response, nil
}

func (s *ReceivableService) toResponses(receivables []finance.Receivable) []ReceivableResponse {
	now := time.Now()
	responses := make([]ReceivableResponse, 0, len(receivables))
	for i := range receivables {
		responses = append(responses, ToReceivableResponse(&receivables[i], now))
	}
	return responses
}
