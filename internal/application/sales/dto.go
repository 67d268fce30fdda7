package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// CommitSaleRequest represents a request to commit a sale at the point of sale
type CommitSaleRequest struct {
	CustomerID    *uuid.UUID           `json:"customer_id"`
	Items         []CommitSaleItemInput `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string               `json:"payment_method" binding:"required,oneof=MONEY CREDIT_CARD DEBIT_CARD PIX INSTALLMENTS"`
	Installments  int                  `json:"installments" binding:"omitempty,min=1,max=60"`
	Discount      *decimal.Decimal     `json:"discount"`
	Notes         string               `json:"notes" binding:"omitempty,max=500"`
}

// CommitSaleItemInput represents one line of a sale being committed
type CommitSaleItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// CancelSaleRequest represents a request to cancel a sale
type CancelSaleRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// SaleListFilter represents filter options for the sale list
type SaleListFilter struct {
	Search        string     `form:"search"`
	CustomerID    *uuid.UUID `form:"customer_id"`
	UserID        *uuid.UUID `form:"user_id"`
	Status        string     `form:"status" binding:"omitempty,oneof=COMPLETED CANCELLED"`
	PaymentMethod string     `form:"payment_method" binding:"omitempty,oneof=MONEY CREDIT_CARD DEBIT_CARD PIX INSTALLMENTS"`
	StartDate     *time.Time `form:"start_date"`
	EndDate       *time.Time `form:"end_date"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SaleItemResponse represents a sale line in API responses
type SaleItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID             uuid.UUID          `json:"id"`
	SaleNumber     string             `json:"sale_number"`
	CustomerID     *uuid.UUID         `json:"customer_id,omitempty"`
	UserID         uuid.UUID          `json:"user_id"`
	Items          []SaleItemResponse `json:"items"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	PayableAmount  decimal.Decimal    `json:"payable_amount"`
	PaymentMethod  string             `json:"payment_method"`
	Installments   int                `json:"installments"`
	Status         string             `json:"status"`
	Notes          string             `json:"notes,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// SaleListItemResponse represents a sale in list responses
type SaleListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	SaleNumber    string          `json:"sale_number"`
	CustomerID    *uuid.UUID      `json:"customer_id,omitempty"`
	ItemCount     int             `json:"item_count"`
	PayableAmount decimal.Decimal `json:"payable_amount"`
	PaymentMethod string          `json:"payment_method"`
	Installments  int             `json:"installments"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToSaleResponse converts a sale aggregate to its response representation
func ToSaleResponse(sale *sales.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, SaleItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}

	return SaleResponse{
		ID:             sale.ID,
		SaleNumber:     sale.SaleNumber,
		CustomerID:     sale.CustomerID,
		UserID:         sale.UserID,
		Items:          items,
		TotalAmount:    sale.TotalAmount,
		DiscountAmount: sale.DiscountAmount,
		PayableAmount:  sale.PayableAmount,
		PaymentMethod:  string(sale.PaymentMethod),
		Installments:   sale.Installments,
		Status:         string(sale.Status),
		Notes:          sale.Notes,
		CreatedAt:      sale.CreatedAt,
		UpdatedAt:      sale.UpdatedAt,
	}
}

// ToSaleListItemResponse converts a sale aggregate to its list representation
func ToSaleListItemResponse(sale *sales.Sale) SaleListItemResponse {
	return SaleListItemResponse{
		ID:            sale.ID,
		SaleNumber:    sale.SaleNumber,
		CustomerID:    sale.CustomerID,
		ItemCount:     len(sale.Items),
		PayableAmount: sale.PayableAmount,
		PaymentMethod: string(sale.PaymentMethod),
		Installments:  sale.Installments,
		Status:        string(sale.Status),
		CreatedAt:     sale.CreatedAt,
	}
}
