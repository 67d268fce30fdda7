package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlySales is a read model for one month of completed sales
type MonthlySales struct {
	Month       string          `json:"month"` // YYYY-MM
	SaleCount   int64           `json:"sale_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// PaymentMethodShare represents one payment method's slice of a period
type PaymentMethodShare struct {
	PaymentMethod string          `json:"payment_method"`
	SaleCount     int64           `json:"sale_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// MonthlySummary aggregates one month of completed sales
type MonthlySummary struct {
	Year           int                  `json:"year"`
	Month          int                  `json:"month"`
	TotalSales     decimal.Decimal      `json:"total_sales"`
	TransactionCount int64              `json:"transaction_count"`
	AverageTicket  decimal.Decimal      `json:"average_ticket"`
	PaymentMethods []PaymentMethodShare `json:"payment_methods"`
}

// SalesReportRepository defines the read-side queries over sales
type SalesReportRepository interface {
	// GetSalesByMonth returns completed sales grouped by month for the
	// trailing number of months, oldest first
	GetSalesByMonth(months int, now time.Time) ([]MonthlySales, error)

	// GetMonthlySummary aggregates completed sales for one month,
	// including the payment method distribution
	GetMonthlySummary(year, month int) (*MonthlySummary, error)
}
