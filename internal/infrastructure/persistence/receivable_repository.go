package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/finance"
	"github.com/salespos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReceivableRepository implements finance.ReceivableRepository using GORM
type GormReceivableRepository struct {
	db *gorm.DB
}

// NewGormReceivableRepository creates a new GormReceivableRepository
func NewGormReceivableRepository(db *gorm.DB) *GormReceivableRepository {
	return &GormReceivableRepository{db: db}
}

// FindByID finds a receivable by its ID
func (r *GormReceivableRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Receivable, error) {
	var receivable finance.Receivable
	if err := r.db.WithContext(ctx).First(&receivable, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receivable, nil
}

// FindBySale finds all receivables opened by a sale
func (r *GormReceivableRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]finance.Receivable, error) {
	var receivables []finance.Receivable
	if err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("installment_number ASC").
		Find(&receivables).Error; err != nil {
		return nil, err
	}
	return receivables, nil
}

// FindAll finds all receivables matching the filter
func (r *GormReceivableRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Receivable, error) {
	var receivables []finance.Receivable
	query := r.applyFilter(r.db.WithContext(ctx).Model(&finance.Receivable{}), filter)
	if err := query.Find(&receivables).Error; err != nil {
		return nil, err
	}
	return receivables, nil
}

// FindOverdue finds open receivables whose due date is before the given day
func (r *GormReceivableRepository) FindOverdue(ctx context.Context, now time.Time) ([]finance.Receivable, error) {
	var receivables []finance.Receivable
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND due_date < ?", openStatuses(), today).
		Order("due_date ASC").
		Find(&receivables).Error; err != nil {
		return nil, err
	}
	return receivables, nil
}

// FindDueWithin finds open receivables due between now and now+days
func (r *GormReceivableRepository) FindDueWithin(ctx context.Context, now time.Time, days int) ([]finance.Receivable, error) {
	var receivables []finance.Receivable
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	horizon := today.AddDate(0, 0, days+1)
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND due_date >= ? AND due_date < ?", openStatuses(), today, horizon).
		Order("due_date ASC").
		Find(&receivables).Error; err != nil {
		return nil, err
	}
	return receivables, nil
}

// RegisterPayment applies a payment with one atomic conditional update.
// The update only matches while the receivable is open and the payment fits
// inside the outstanding amount; status and payment date are derived in the
// same statement, so two concurrent payments can never overpay.
func (r *GormReceivableRepository) RegisterPayment(ctx context.Context, id uuid.UUID, amount decimal.Decimal, paidAt time.Time) (*finance.Receivable, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment amount must be greater than zero")
	}

	result := r.db.WithContext(ctx).Model(&finance.Receivable{}).
		Where("id = ? AND status IN ? AND paid_amount + ? <= amount", id, openStatuses(), amount).
		Updates(map[string]interface{}{
			"paid_amount": gorm.Expr("paid_amount + ?", amount),
			"status": gorm.Expr("CASE WHEN paid_amount + ? >= amount THEN ? ELSE ? END",
				amount, finance.ReceivableStatusPaid, finance.ReceivableStatusPartial),
			"payment_date": gorm.Expr("CASE WHEN paid_amount + ? >= amount THEN ? ELSE payment_date END",
				amount, paidAt),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// the guard did not match; re-read to report why
		current, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !current.Status.CanApplyPayment() {
			return nil, shared.NewDomainError("INVALID_STATE",
				"Cannot apply payment to a "+string(current.Status)+" receivable")
		}
		return nil, shared.NewDomainError("CONFLICT", "Payment exceeds the outstanding amount")
	}

	return r.FindByID(ctx, id)
}

// Save creates or updates a receivable
func (r *GormReceivableRepository) Save(ctx context.Context, receivable *finance.Receivable) error {
	return r.db.WithContext(ctx).Save(receivable).Error
}

// Count counts receivables matching the filter
func (r *GormReceivableRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&finance.Receivable{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func openStatuses() []finance.ReceivableStatus {
	return []finance.ReceivableStatus{
		finance.ReceivableStatusPending,
		finance.ReceivableStatusPartial,
	}
}

func (r *GormReceivableRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("due_date ASC")
	}

	return query
}

func (r *GormReceivableRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "sale_id":
			query = query.Where("sale_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			query = query.Where("status IN ?", value)
		case "due_before":
			query = query.Where("due_date < ?", value)
		case "due_after":
			query = query.Where("due_date >= ?", value)
		}
	}

	return query
}

// Ensure GormReceivableRepository implements ReceivableRepository
var _ finance.ReceivableRepository = (*GormReceivableRepository)(nil)
