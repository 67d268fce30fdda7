package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReceivableRepository defines the persistence operations for receivables
type ReceivableRepository interface {
	// FindByID finds a receivable by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Receivable, error)

	// FindBySale finds all receivables opened by a sale,
	// ordered by installment number
	FindBySale(ctx context.Context, saleID uuid.UUID) ([]Receivable, error)

	// FindAll finds all receivables matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Receivable, error)

	// FindOverdue finds open receivables whose due date is before the given
	// day, ordered by due date ascending
	FindOverdue(ctx context.Context, now time.Time) ([]Receivable, error)

	// FindDueWithin finds open receivables due between now and now+days
	FindDueWithin(ctx context.Context, now time.Time, days int) ([]Receivable, error)

	// RegisterPayment applies a payment with one atomic conditional update:
	// it only succeeds while the receivable is open and the payment does not
	// exceed the outstanding amount, deriving status and payment date in the
	// same statement. Returns the updated receivable.
	RegisterPayment(ctx context.Context, id uuid.UUID, amount decimal.Decimal, paidAt time.Time) (*Receivable, error)

	// Save creates or updates a receivable
	Save(ctx context.Context, receivable *Receivable) error

	// Count counts receivables matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
