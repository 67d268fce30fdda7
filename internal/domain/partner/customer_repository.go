package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/shared"
)

// CustomerRepository defines the persistence operations for customers
type CustomerRepository interface {
	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByDocument finds a customer by its normalized CPF/CNPJ
	FindByDocument(ctx context.Context, document string) (*Customer, error)

	// FindAll finds all customers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// Search finds active customers matching the term by name or document,
	// limited to the given number of results
	Search(ctx context.Context, term string, limit int) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// Delete deletes a customer
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts customers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByDocument checks if a customer with the given document exists
	ExistsByDocument(ctx context.Context, document string) (bool, error)
}
