package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/shared"
	"github.com/salespos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ReceivableStatus represents the status of a receivable
type ReceivableStatus string

const (
	ReceivableStatusPending   ReceivableStatus = "PENDING"
	ReceivableStatusPartial   ReceivableStatus = "PARTIAL"
	ReceivableStatusPaid      ReceivableStatus = "PAID"
	ReceivableStatusCancelled ReceivableStatus = "CANCELLED"
)

// IsValid returns true if the status is a known value
func (s ReceivableStatus) IsValid() bool {
	switch s {
	case ReceivableStatusPending, ReceivableStatusPartial,
		ReceivableStatusPaid, ReceivableStatusCancelled:
		return true
	}
	return false
}

// CanApplyPayment returns true if a payment may be applied in this status
func (s ReceivableStatus) CanApplyPayment() bool {
	return s == ReceivableStatusPending || s == ReceivableStatusPartial
}

// IsTerminal returns true if no further transitions are allowed
func (s ReceivableStatus) IsTerminal() bool {
	return s == ReceivableStatusPaid || s == ReceivableStatusCancelled
}

// Receivable is one installment owed by a customer for a sale
// It is the aggregate root of the receivables ledger
type Receivable struct {
	shared.BaseAggregateRoot
	SaleID            uuid.UUID        `gorm:"type:uuid;not null;index"`
	CustomerID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	InstallmentNumber int              `gorm:"not null"`
	Amount            decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	PaidAmount        decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	DueDate           time.Time        `gorm:"not null;index"`
	PaymentDate       *time.Time       `gorm:""`
	Status            ReceivableStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
}

// TableName returns the table name for GORM
func (Receivable) TableName() string {
	return "receivables"
}

// NewReceivable creates a pending receivable for one installment of a sale
func NewReceivable(saleID, customerID uuid.UUID, installmentNumber int, amount valueobject.Money, dueDate time.Time) (*Receivable, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Receivable requires a sale")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Receivable requires a customer")
	}
	if installmentNumber <= 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Installment number must be greater than zero")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Receivable amount must be greater than zero")
	}

	return &Receivable{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleID:            saleID,
		CustomerID:        customerID,
		InstallmentNumber: installmentNumber,
		Amount:            amount.Amount(),
		PaidAmount:        decimal.Zero,
		DueDate:           dueDate,
		Status:            ReceivableStatusPending,
	}, nil
}

// Outstanding returns the amount still owed
func (r *Receivable) Outstanding() decimal.Decimal {
	return r.Amount.Sub(r.PaidAmount)
}

// GetOutstandingMoney returns the amount still owed as Money
func (r *Receivable) GetOutstandingMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(r.Outstanding())
}

// ApplyPayment records a payment against the receivable.
// The payment must be positive and cannot exceed the outstanding amount.
// When the balance closes the receivable becomes PAID and the payment
// date is set; otherwise it moves to PARTIAL.
func (r *Receivable) ApplyPayment(amount valueobject.Money, paidAt time.Time) error {
	if !r.Status.CanApplyPayment() {
		return shared.NewDomainError("INVALID_STATE", "Cannot apply payment to a "+string(r.Status)+" receivable")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Payment amount must be greater than zero")
	}
	if amount.Amount().GreaterThan(r.Outstanding()) {
		return shared.NewDomainError("VALIDATION_ERROR", "Payment exceeds the outstanding amount")
	}

	r.PaidAmount = r.PaidAmount.Add(amount.Amount())

	if r.PaidAmount.GreaterThanOrEqual(r.Amount) {
		r.Status = ReceivableStatusPaid
		r.PaymentDate = &paidAt
	} else {
		r.Status = ReceivableStatusPartial
	}

	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewPaymentRegisteredEvent(r, amount.Amount()))

	return nil
}

// Cancel cancels a receivable that has no payments applied
func (r *Receivable) Cancel() error {
	if r.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Receivable is already settled")
	}
	if r.PaidAmount.IsPositive() {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel a receivable with payments applied")
	}

	r.Status = ReceivableStatusCancelled
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// IsOverdue reports whether the receivable is past due at the given time.
// Overdue is derived, never stored.
func (r *Receivable) IsOverdue(now time.Time) bool {
	return r.Status.CanApplyPayment() && r.DueDate.Before(truncateToDay(now))
}

// DaysOverdue returns how many whole days past due the receivable is,
// or zero when not overdue
func (r *Receivable) DaysOverdue(now time.Time) int {
	if !r.IsOverdue(now) {
		return 0
	}
	return int(truncateToDay(now).Sub(truncateToDay(r.DueDate)).Hours() / 24)
}

// IsPaid returns true if the receivable is fully settled
func (r *Receivable) IsPaid() bool {
	return r.Status == ReceivableStatusPaid
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
