package finance

import (
	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the finance domain
const (
	EventTypePaymentRegistered = "finance.receivable.payment_registered"

	AggregateTypeReceivable = "Receivable"
)

// PaymentRegisteredEvent is published when a payment is applied to a receivable
type PaymentRegisteredEvent struct {
	shared.BaseDomainEvent
	ReceivableID uuid.UUID        `json:"receivable_id"`
	SaleID       uuid.UUID        `json:"sale_id"`
	CustomerID   uuid.UUID        `json:"customer_id"`
	Payment      decimal.Decimal  `json:"payment"`
	PaidAmount   decimal.Decimal  `json:"paid_amount"`
	Status       ReceivableStatus `json:"status"`
}

// NewPaymentRegisteredEvent creates a new PaymentRegisteredEvent
func NewPaymentRegisteredEvent(receivable *Receivable, payment decimal.Decimal) *PaymentRegisteredEvent {
	return &PaymentRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRegistered, AggregateTypeReceivable, receivable.ID),
		ReceivableID:    receivable.ID,
		SaleID:          receivable.SaleID,
		CustomerID:      receivable.CustomerID,
		Payment:         payment,
		PaidAmount:      receivable.PaidAmount,
		Status:          receivable.Status,
	}
}
