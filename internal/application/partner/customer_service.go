package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/partner"
	"github.com/salespos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CustomerService handles customer management operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.customerRepo.ExistsByDocument(ctx, req.Document)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A customer with this document already exists")
	}

	customer, err := partner.NewCustomer(req.Name, req.Document)
	if err != nil {
		return nil, err
	}

	if req.Email != "" || req.Phone != "" {
		if err := customer.SetContact(req.Email, req.Phone); err != nil {
			return nil, err
		}
	}
	if req.Address != "" || req.City != "" || req.State != "" || req.ZipCode != "" {
		customer.SetAddress(req.Address, req.City, req.State, req.ZipCode)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("Customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("person_type", string(customer.PersonType)))

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByDocument retrieves a customer by CPF/CNPJ
func (s *CustomerService) GetByDocument(ctx context.Context, document string) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByDocument(ctx, document)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) (*shared.Paginated[CustomerResponse], error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "name"
	domainFilter.OrderDir = "asc"
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.PersonType != "" {
		domainFilter.Filters["person_type"] = filter.PersonType
	}

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, ToCustomerResponse(&customers[i]))
	}

	result := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// Search finds active customers matching a term, for the point of sale
func (s *CustomerService) Search(ctx context.Context, term string, limit int) ([]CustomerResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	customers, err := s.customerRepo.Search(ctx, term, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, ToCustomerResponse(&customers[i]))
	}
	return responses, nil
}

// Update updates a customer
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := customer.Update(*req.Name); err != nil {
			return nil, err
		}
	}

	if req.Email != nil || req.Phone != nil {
		email := customer.Email
		phone := customer.Phone
		if req.Email != nil {
			email = *req.Email
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := customer.SetContact(email, phone); err != nil {
			return nil, err
		}
	}

	if req.Address != nil || req.City != nil || req.State != nil || req.ZipCode != nil {
		address := customer.Address
		city := customer.City
		state := customer.State
		zipCode := customer.ZipCode
		if req.Address != nil {
			address = *req.Address
		}
		if req.City != nil {
			city = *req.City
		}
		if req.State != nil {
			state = *req.State
		}
		if req.ZipCode != nil {
			zipCode = *req.ZipCode
		}
		customer.SetAddress(address, city, state, zipCode)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Activate activates a customer
func (s *CustomerService) Activate(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := customer.Activate(); err != nil {
		return err
	}
	return s.customerRepo.Save(ctx, customer)
}

// Deactivate deactivates a customer
func (s *CustomerService) Deactivate(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := customer.Deactivate(); err != nil {
		return err
	}
	return s.customerRepo.Save(ctx, customer)
}
