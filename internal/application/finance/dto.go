package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// RegisterPaymentRequest represents a request to register a payment
// against a receivable
type RegisterPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate *time.Time      `json:"payment_date"`
}

// ReceivableListFilter represents filter options for the receivable list
type ReceivableListFilter struct {
	CustomerID *uuid.UUID `form:"customer_id"`
	SaleID     *uuid.UUID `form:"sale_id"`
	Status     string     `form:"status" binding:"omitempty,oneof=PENDING PARTIAL PAID CANCELLED"`
	DueBefore  *time.Time `form:"due_before"`
	DueAfter   *time.Time `form:"due_after"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ReceivableResponse represents a receivable in API responses.
// Overdue is derived from the due date at response time, never stored.
type ReceivableResponse struct {
	ID                uuid.UUID       `json:"id"`
	SaleID            uuid.UUID       `json:"sale_id"`
	CustomerID        uuid.UUID       `json:"customer_id"`
	InstallmentNumber int             `json:"installment_number"`
	Amount            decimal.Decimal `json:"amount"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	Outstanding       decimal.Decimal `json:"outstanding"`
	DueDate           time.Time       `json:"due_date"`
	PaymentDate       *time.Time      `json:"payment_date,omitempty"`
	Status            string          `json:"status"`
	Overdue           bool            `json:"overdue"`
	DaysOverdue       int             `json:"days_overdue"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToReceivableResponse converts a receivable aggregate to its response
// representation, deriving the overdue flags at the given time
func ToReceivableResponse(receivable *finance.Receivable, now time.Time) ReceivableResponse {
	return ReceivableResponse{
		ID:                receivable.ID,
		SaleID:            receivable.SaleID,
		CustomerID:        receivable.CustomerID,
		InstallmentNumber: receivable.InstallmentNumber,
		Amount:            receivable.Amount,
		PaidAmount:        receivable.PaidAmount,
		Outstanding:       receivable.Outstanding(),
		DueDate:           receivable.DueDate,
		PaymentDate:       receivable.PaymentDate,
		Status:            string(receivable.Status),
		Overdue:           receivable.IsOverdue(now),
		DaysOverdue:       receivable.DaysOverdue(now),
		CreatedAt:         receivable.CreatedAt,
		UpdatedAt:         receivable.UpdatedAt,
	}
}
