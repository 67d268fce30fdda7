package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Code        string          `json:"code" binding:"required,min=1,max=50"`
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"omitempty,max=2000"`
	Barcode     string          `json:"barcode" binding:"omitempty,max=50"`
	CostPrice   decimal.Decimal `json:"cost_price" binding:"required"`
	SalePrice   decimal.Decimal `json:"sale_price" binding:"required"`
	MinStock    int             `json:"min_stock" binding:"omitempty,min=0"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Barcode     *string          `json:"barcode" binding:"omitempty,max=50"`
	CostPrice   *decimal.Decimal `json:"cost_price"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	MinStock    *int             `json:"min_stock" binding:"omitempty,min=0"`
}

// RestockRequest represents a request to add stock to a product
type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE DISCONTINUED"`
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Barcode       string          `json:"barcode,omitempty"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	StockQuantity int             `json:"stock_quantity"`
	MinStock      int             `json:"min_stock"`
	Status        string          `json:"status"`
	LowStock      bool            `json:"low_stock"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ToProductResponse converts a product aggregate to its response representation
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            product.ID,
		Code:          product.Code,
		Name:          product.Name,
		Description:   product.Description,
		Barcode:       product.Barcode,
		CostPrice:     product.CostPrice,
		SalePrice:     product.SalePrice,
		StockQuantity: product.StockQuantity,
		MinStock:      product.MinStock,
		Status:        string(product.Status),
		LowStock:      product.IsLowStock(),
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
		Version:       product.Version,
	}
}
