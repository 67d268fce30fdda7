package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/shared"
	"github.com/salespos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the status of a sale
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "COMPLETED"
	SaleStatusCancelled SaleStatus = "CANCELLED"
)

// IsValid returns true if the status is a known value
func (s SaleStatus) IsValid() bool {
	return s == SaleStatusCompleted || s == SaleStatusCancelled
}

// IsTerminal returns true if no further transitions are allowed
func (s SaleStatus) IsTerminal() bool {
	return s == SaleStatusCancelled
}

// PaymentMethod represents how a sale was paid
type PaymentMethod string

const (
	PaymentMethodMoney        PaymentMethod = "MONEY"
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentMethodPix          PaymentMethod = "PIX"
	PaymentMethodInstallments PaymentMethod = "INSTALLMENTS"
)

// IsValid returns true if the payment method is a known value
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodMoney, PaymentMethodCreditCard, PaymentMethodDebitCard,
		PaymentMethodPix, PaymentMethodInstallments:
		return true
	}
	return false
}

// MaxInstallments is the highest number of installments a sale may carry
const MaxInstallments = 60

// SaleItem is a line of a sale, carrying price snapshots taken at commit time
type SaleItem struct {
	shared.BaseEntity
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductCode string          `gorm:"type:varchar(50);not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// GetUnitPriceMoney returns the snapshotted unit price as Money
func (i *SaleItem) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(i.UnitPrice)
}

// GetTotalPriceMoney returns the line total as Money
func (i *SaleItem) GetTotalPriceMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(i.TotalPrice)
}

// Sale represents a committed point-of-sale transaction
// It is the aggregate root for the sale and its items
type Sale struct {
	shared.BaseAggregateRoot
	SaleNumber     string        `gorm:"type:varchar(20);not null;uniqueIndex"`
	CustomerID     *uuid.UUID    `gorm:"type:uuid;index"`
	UserID         uuid.UUID     `gorm:"type:uuid;not null;index"`
	Items          []SaleItem    `gorm:"foreignKey:SaleID"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PayableAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentMethod  PaymentMethod `gorm:"type:varchar(20);not null"`
	Installments   int           `gorm:"not null;default:1"`
	Status         SaleStatus    `gorm:"type:varchar(20);not null"`
	Notes          string        `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a new sale in COMPLETED status. Items are added with
// AddItem before the sale is persisted; the commit itself is atomic at the
// persistence layer.
func NewSale(saleNumber string, customerID *uuid.UUID, userID uuid.UUID, method PaymentMethod, installments int) (*Sale, error) {
	if saleNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Sale number cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Sale requires an operator")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Invalid payment method: %s", method))
	}

	if method == PaymentMethodInstallments {
		if installments < 1 || installments > MaxInstallments {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Installment sales require between 1 and %d installments", MaxInstallments))
		}
		if customerID == nil || *customerID == uuid.Nil {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Installment sales require a customer")
		}
	} else if installments != 1 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Only installment sales may have more than one installment")
	}

	sale := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleNumber:        saleNumber,
		CustomerID:        customerID,
		UserID:            userID,
		Items:             make([]SaleItem, 0),
		TotalAmount:       decimal.Zero,
		DiscountAmount:    decimal.Zero,
		PayableAmount:     decimal.Zero,
		PaymentMethod:     method,
		Installments:      installments,
		Status:            SaleStatusCompleted,
	}

	return sale, nil
}

// AddItem adds a product line with a snapshot of its current price.
// The same product cannot appear twice in one sale.
func (s *Sale) AddItem(productID uuid.UUID, productCode, productName string, quantity int, unitPrice valueobject.Money) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Product ID is required")
	}
	if quantity <= 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be greater than zero")
	}
	if !unitPrice.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Unit price must be greater than zero")
	}

	for _, item := range s.Items {
		if item.ProductID == productID {
			return shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Product %s already added to this sale", productCode))
		}
	}

	totalPrice := unitPrice.MultiplyByInt(int64(quantity))

	item := SaleItem{
		BaseEntity:  shared.NewBaseEntity(),
		SaleID:      s.ID,
		ProductID:   productID,
		ProductCode: productCode,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		TotalPrice:  totalPrice.Amount(),
	}

	s.Items = append(s.Items, item)
	s.recalculateTotals()

	return nil
}

// ApplyDiscount applies an absolute discount to the sale
// The discount cannot exceed the total amount
func (s *Sale) ApplyDiscount(discount valueobject.Money) error {
	if discount.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Discount cannot be negative")
	}
	if discount.Amount().GreaterThan(s.TotalAmount) {
		return shared.NewDomainError("VALIDATION_ERROR", "Discount cannot exceed the sale total")
	}

	s.DiscountAmount = discount.Amount()
	s.recalculateTotals()

	return nil
}

// Validate checks the sale is ready to be committed
func (s *Sale) Validate() error {
	if len(s.Items) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Sale must have at least one item")
	}
	if !s.PayableAmount.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Sale payable amount must be greater than zero")
	}
	return nil
}

// Cancel cancels a completed sale
func (s *Sale) Cancel(reason string) error {
	if s.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Sale is already cancelled")
	}

	s.Status = SaleStatusCancelled
	if reason != "" {
		s.Notes = reason
	}
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSaleCancelledEvent(s, reason))

	return nil
}

// IsInstallmentSale returns true if the sale generates receivables
func (s *Sale) IsInstallmentSale() bool {
	return s.PaymentMethod == PaymentMethodInstallments
}

// IsCancelled returns true if the sale was cancelled
func (s *Sale) IsCancelled() bool {
	return s.Status == SaleStatusCancelled
}

// GetPayableAmountMoney returns the payable amount as Money
func (s *Sale) GetPayableAmountMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(s.PayableAmount)
}

// InstallmentAmounts splits the payable amount across the configured
// installments; the last one absorbs the rounding remainder so the
// parts always sum to the payable amount.
func (s *Sale) InstallmentAmounts() ([]valueobject.Money, error) {
	if !s.IsInstallmentSale() {
		return nil, shared.NewDomainError("INVALID_STATE", "Sale is not an installment sale")
	}
	return s.GetPayableAmountMoney().Allocate(s.Installments)
}

// recalculateTotals recomputes total and payable amounts from items
func (s *Sale) recalculateTotals() {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.TotalPrice)
	}
	s.TotalAmount = total

	payable := total.Sub(s.DiscountAmount)
	if payable.IsNegative() {
		payable = decimal.Zero
	}
	s.PayableAmount = payable
}
