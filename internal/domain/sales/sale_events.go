package sales

import (
	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the sales domain
const (
	EventTypeSaleCommitted = "sales.sale.committed"
	EventTypeSaleCancelled = "sales.sale.cancelled"

	AggregateTypeSale = "Sale"
)

// SaleCommittedEvent is published after a sale transaction commits
type SaleCommittedEvent struct {
	shared.BaseDomainEvent
	SaleID        uuid.UUID       `json:"sale_id"`
	SaleNumber    string          `json:"sale_number"`
	CustomerID    *uuid.UUID      `json:"customer_id,omitempty"`
	PayableAmount decimal.Decimal `json:"payable_amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Installments  int             `json:"installments"`
	ItemCount     int             `json:"item_count"`
}

// NewSaleCommittedEvent creates a new SaleCommittedEvent
func NewSaleCommittedEvent(sale *Sale) *SaleCommittedEvent {
	return &SaleCommittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCommitted, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		SaleNumber:      sale.SaleNumber,
		CustomerID:      sale.CustomerID,
		PayableAmount:   sale.PayableAmount,
		PaymentMethod:   sale.PaymentMethod,
		Installments:    sale.Installments,
		ItemCount:       len(sale.Items),
	}
}

// SaleCancelledEvent is published when a sale is cancelled
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID `json:"sale_id"`
	SaleNumber string    `json:"sale_number"`
	Reason     string    `json:"reason,omitempty"`
}

// NewSaleCancelledEvent creates a new SaleCancelledEvent
func NewSaleCancelledEvent(sale *Sale, reason string) *SaleCancelledEvent {
	return &SaleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCancelled, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		SaleNumber:      sale.SaleNumber,
		Reason:          reason,
	}
}
