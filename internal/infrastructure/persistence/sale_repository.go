package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/catalog"
	"github.com/salespos/backend/internal/domain/finance"
	"github.com/salespos/backend/internal/domain/sales"
	"github.com/salespos/backend/internal/domain/shared"
	"github.com/salespos/backend/internal/domain/shared/valueobject"
	"gorm.io/gorm"
)

// GormSaleRepository implements sales.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by its ID, items included
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByNumber finds a sale by its sale number
func (r *GormSaleRepository) FindByNumber(ctx context.Context, saleNumber string) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("sale_number = ?", saleNumber).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindAll finds all sales matching the filter
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	var results []sales.Sale
	query := r.applyFilter(r.db.WithContext(ctx).Model(&sales.Sale{}).Preload("Items"), filter)
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// CommitSale persists the sale, its items, the stock decrements and the
// installment receivables in one transaction
func (r *GormSaleRepository) CommitSale(ctx context.Context, sale *sales.Sale, charges []sales.InstallmentCharge) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sale).Error; err != nil {
			return err
		}

		for _, item := range sale.Items {
			result := tx.Model(&catalog.Product{}).
				Where("id = ? AND stock_quantity >= ?", item.ProductID, item.Quantity).
				Updates(map[string]interface{}{
					"stock_quantity": gorm.Expr("stock_quantity - ?", item.Quantity),
					"version":        gorm.Expr("version + 1"),
					"updated_at":     time.Now(),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.NewDomainError("INSUFFICIENT_STOCK",
					fmt.Sprintf("Insufficient stock for product %s", item.ProductCode))
			}
		}

		for _, charge := range charges {
			receivable, err := finance.NewReceivable(
				sale.ID,
				*sale.CustomerID,
				charge.Number,
				valueobject.NewMoneyBRL(charge.Amount),
				charge.DueDate,
			)
			if err != nil {
				return err
			}
			if err := tx.Create(receivable).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// CancelSale marks the sale cancelled, restores the stock of its items and
// cancels its unpaid receivables in one transaction
func (r *GormSaleRepository) CancelSale(ctx context.Context, sale *sales.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var paidCount int64
		if err := tx.Model(&finance.Receivable{}).
			Where("sale_id = ? AND paid_amount > 0", sale.ID).
			Count(&paidCount).Error; err != nil {
			return err
		}
		if paidCount > 0 {
			return shared.NewDomainError("INVALID_STATE",
				"Cannot cancel a sale with payments already received")
		}

		// sale.Cancel already incremented the version in memory
		result := tx.Model(&sales.Sale{}).
			Where("id = ? AND version = ?", sale.ID, sale.Version-1).
			Updates(map[string]interface{}{
				"status":     sale.Status,
				"notes":      sale.Notes,
				"version":    sale.Version,
				"updated_at": sale.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION",
				"The sale has been modified by another user")
		}

		for _, item := range sale.Items {
			if err := tx.Model(&catalog.Product{}).
				Where("id = ?", item.ProductID).
				Updates(map[string]interface{}{
					"stock_quantity": gorm.Expr("stock_quantity + ?", item.Quantity),
					"version":        gorm.Expr("version + 1"),
					"updated_at":     time.Now(),
				}).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&finance.Receivable{}).
			Where("sale_id = ? AND status IN ?", sale.ID,
				[]finance.ReceivableStatus{finance.ReceivableStatusPending, finance.ReceivableStatusPartial}).
			Updates(map[string]interface{}{
				"status":     finance.ReceivableStatusCancelled,
				"version":    gorm.Expr("version + 1"),
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}

		return nil
	})
}

// Count counts sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&sales.Sale{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateSaleNumber generates the next sale number in VND-YEAR-NNNNN format
func (r *GormSaleRepository) GenerateSaleNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("VND-%d-", year)

	var lastNumber string
	err := r.db.WithContext(ctx).Model(&sales.Sale{}).
		Where("sale_number LIKE ?", prefix+"%").
		Order("sale_number DESC").
		Limit(1).
		Pluck("sale_number", &lastNumber).Error
	if err != nil {
		return "", err
	}

	sequence := 1
	if lastNumber != "" {
		var lastSeq int
		if _, err := fmt.Sscanf(lastNumber, "VND-%d-%d", &year, &lastSeq); err == nil {
			sequence = lastSeq + 1
		}
	}

	// retry over gaps left by concurrent commits
	for attempt := 0; attempt < 10; attempt++ {
		candidate := fmt.Sprintf("%s%05d", prefix, sequence)
		var count int64
		if err := r.db.WithContext(ctx).Model(&sales.Sale{}).
			Where("sale_number = ?", candidate).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		sequence++
	}

	return "", shared.NewDomainError("PERSISTENCE_ERROR", "Unable to generate a unique sale number")
}

func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("created_at DESC")
	}

	return query
}

func (r *GormSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(sale_number) LIKE ?", pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "user_id":
			query = query.Where("user_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		case "start_date":
			query = query.Where("created_at >= ?", value)
		case "end_date":
			query = query.Where("created_at <= ?", value)
		case "min_amount":
			query = query.Where("payable_amount >= ?", value)
		case "max_amount":
			query = query.Where("payable_amount <= ?", value)
		}
	}

	return query
}

// Ensure GormSaleRepository implements SaleRepository
var _ sales.SaleRepository = (*GormSaleRepository)(nil)
