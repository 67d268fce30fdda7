package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OverdueReceivable is a read model joining a receivable with its sale
// and customer for the collections view
type OverdueReceivable struct {
	ReceivableID      uuid.UUID       `json:"receivable_id"`
	SaleNumber        string          `json:"sale_number"`
	CustomerName      string          `json:"customer_name"`
	CustomerDocument  string          `json:"customer_document"`
	InstallmentNumber int             `json:"installment_number"`
	Amount            decimal.Decimal `json:"amount"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	Outstanding       decimal.Decimal `json:"outstanding"`
	DueDate           time.Time       `json:"due_date"`
	DaysOverdue       int             `json:"days_overdue"`
}

// UpcomingReceivable is a read model for receivables due soon
type UpcomingReceivable struct {
	ReceivableID      uuid.UUID       `json:"receivable_id"`
	SaleNumber        string          `json:"sale_number"`
	CustomerName      string          `json:"customer_name"`
	InstallmentNumber int             `json:"installment_number"`
	Outstanding       decimal.Decimal `json:"outstanding"`
	DueDate           time.Time       `json:"due_date"`
}

// FinanceReportRepository defines the read-side queries over receivables
type FinanceReportRepository interface {
	// GetOverdueReceivables returns open receivables past due at the given
	// time, joined with sale and customer, ordered by due date ascending
	GetOverdueReceivables(now time.Time) ([]OverdueReceivable, error)

	// GetUpcomingReceivables returns open receivables due within the given
	// number of days from now, ordered by due date ascending
	GetUpcomingReceivables(now time.Time, days int) ([]UpcomingReceivable, error)
}
