package persistence

import (
	"time"

	"github.com/salespos/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSalesReportRepository implements report.SalesReportRepository with
// read-side queries over the sales tables
type GormSalesReportRepository struct {
	db *gorm.DB
}

// NewGormSalesReportRepository creates a new GormSalesReportRepository
func NewGormSalesReportRepository(db *gorm.DB) *GormSalesReportRepository {
	return &GormSalesReportRepository{db: db}
}

// GetSalesByMonth returns completed sales grouped by month for the trailing
// number of months, oldest first. Months without sales appear with zeroes.
func (r *GormSalesReportRepository) GetSalesByMonth(months int, now time.Time) ([]report.MonthlySales, error) {
	if months <= 0 {
		months = 12
	}

	firstMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(months - 1), 0)
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, 1, 0)

	var rows []struct {
		CreatedAt     time.Time
		PayableAmount decimal.Decimal
	}
	err := r.db.Table("sales").
		Select("created_at, payable_amount").
		Where("status = ? AND created_at >= ? AND created_at < ?", "COMPLETED", firstMonth, end).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	// grouping happens here instead of SQL so the query stays identical
	// across postgres and sqlite
	byMonth := make(map[string]*report.MonthlySales, months)
	result := make([]report.MonthlySales, 0, months)
	for i := 0; i < months; i++ {
		key := firstMonth.AddDate(0, i, 0).Format("2006-01")
		result = append(result, report.MonthlySales{Month: key, TotalAmount: decimal.Zero})
		byMonth[key] = &result[i]
	}

	for _, row := range rows {
		key := row.CreatedAt.Format("2006-01")
		if entry, ok := byMonth[key]; ok {
			entry.SaleCount++
			entry.TotalAmount = entry.TotalAmount.Add(row.PayableAmount)
		}
	}

	return result, nil
}

// GetMonthlySummary aggregates completed sales for one month, including the
// payment method distribution
func (r *GormSalesReportRepository) GetMonthlySummary(year, month int) (*report.MonthlySummary, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	var shares []report.PaymentMethodShare
	err := r.db.Table("sales").
		Select("payment_method, COUNT(*) as sale_count, COALESCE(SUM(payable_amount), 0) as total_amount").
		Where("status = ? AND created_at >= ? AND created_at < ?", "COMPLETED", start, end).
		Group("payment_method").
		Order("total_amount DESC").
		Scan(&shares).Error
	if err != nil {
		return nil, err
	}

	summary := &report.MonthlySummary{
		Year:           year,
		Month:          month,
		TotalSales:     decimal.Zero,
		AverageTicket:  decimal.Zero,
		PaymentMethods: shares,
	}
	for _, share := range shares {
		summary.TotalSales = summary.TotalSales.Add(share.TotalAmount)
		summary.TransactionCount += share.SaleCount
	}
	if summary.TransactionCount > 0 {
		summary.AverageTicket = summary.TotalSales.
			Div(decimal.NewFromInt(summary.TransactionCount)).Round(2)
	}

	return summary, nil
}

// Ensure GormSalesReportRepository implements SalesReportRepository
var _ report.SalesReportRepository = (*GormSalesReportRepository)(nil)

// GormFinanceReportRepository implements report.FinanceReportRepository with
// read-side queries joining receivables, sales and customers
type GormFinanceReportRepository struct {
	db *gorm.DB
}

// NewGormFinanceReportRepository creates a new GormFinanceReportRepository
func NewGormFinanceReportRepository(db *gorm.DB) *GormFinanceReportRepository {
	return &GormFinanceReportRepository{db: db}
}

// GetOverdueReceivables returns open receivables past due, joined with sale
// and customer, ordered by due date ascending
func (r *GormFinanceReportRepository) GetOverdueReceivables(now time.Time) ([]report.OverdueReceivable, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var results []report.OverdueReceivable
	err := r.db.Table("receivables").
		Select(`receivables.id as receivable_id,
			sales.sale_number,
			customers.name as customer_name,
			customers.document_number as customer_document,
			receivables.installment_number,
			receivables.amount,
			receivables.paid_amount,
			receivables.amount - receivables.paid_amount as outstanding,
			receivables.due_date`).
		Joins("JOIN sales ON sales.id = receivables.sale_id").
		Joins("JOIN customers ON customers.id = receivables.customer_id").
		Where("receivables.status IN ? AND receivables.due_date < ?",
			[]string{"PENDING", "PARTIAL"}, today).
		Order("receivables.due_date ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	for i := range results {
		due := results[i].DueDate
		dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, due.Location())
		results[i].DaysOverdue = int(today.Sub(dueDay).Hours() / 24)
	}

	return results, nil
}

// GetUpcomingReceivables returns open receivables due within the given number
// of days from now, ordered by due date ascending
func (r *GormFinanceReportRepository) GetUpcomingReceivables(now time.Time, days int) ([]report.UpcomingReceivable, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	horizon := today.AddDate(0, 0, days+1)

	var results []report.UpcomingReceivable
	err := r.db.Table("receivables").
		Select(`receivables.id as receivable_id,
			sales.sale_number,
			customers.name as customer_name,
			receivables.installment_number,
			receivables.amount - receivables.paid_amount as outstanding,
			receivables.due_date`).
		Joins("JOIN sales ON sales.id = receivables.sale_id").
		Joins("JOIN customers ON customers.id = receivables.customer_id").
		Where("receivables.status IN ? AND receivables.due_date >= ? AND receivables.due_date < ?",
			[]string{"PENDING", "PARTIAL"}, today, horizon).
		Order("receivables.due_date ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

// Ensure GormFinanceReportRepository implements FinanceReportRepository
var _ report.FinanceReportRepository = (*GormFinanceReportRepository)(nil)
