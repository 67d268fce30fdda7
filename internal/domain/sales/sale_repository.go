package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InstallmentCharge describes one receivable to be opened when an
// installment sale commits
type InstallmentCharge struct {
	Number  int
	Amount  decimal.Decimal
	DueDate time.Time
}

// SaleRepository defines the persistence operations for sales
type SaleRepository interface {
	// FindByID finds a sale by its ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByNumber finds a sale by its sale number
	FindByNumber(ctx context.Context, saleNumber string) (*Sale, error)

	// FindAll finds all sales matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)

	// CommitSale persists the sale and its items, decrements stock for each
	// item, and opens the given installment receivables, all inside one
	// transaction. A stock decrement that would go below zero aborts the
	// whole transaction with INSUFFICIENT_STOCK.
	CommitSale(ctx context.Context, sale *Sale, charges []InstallmentCharge) error

	// CancelSale marks the sale cancelled, restores the stock of its items
	// and cancels its unpaid receivables, all inside one transaction.
	// Fails with INVALID_STATE if any receivable has payments applied.
	CancelSale(ctx context.Context, sale *Sale) error

	// Count counts sales matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// GenerateSaleNumber generates the next sale number for the year
	GenerateSaleNumber(ctx context.Context) (string, error)
}
