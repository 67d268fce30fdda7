package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/salespos/backend/internal/domain/partner"
)

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=200"`
	Document string `json:"document" binding:"required,br_document"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone" binding:"omitempty,max=20"`
	Address  string `json:"address" binding:"omitempty,max=300"`
	City     string `json:"city" binding:"omitempty,max=100"`
	State    string `json:"state" binding:"omitempty,len=2"`
	ZipCode  string `json:"zip_code" binding:"omitempty,max=9"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=2,max=200"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=20"`
	Address *string `json:"address" binding:"omitempty,max=300"`
	City    *string `json:"city" binding:"omitempty,max=100"`
	State   *string `json:"state" binding:"omitempty,len=2"`
	ZipCode *string `json:"zip_code" binding:"omitempty,max=9"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
	PersonType string `form:"person_type" binding:"omitempty,oneof=INDIVIDUAL COMPANY"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Document   string    `json:"document"`
	PersonType string    `json:"person_type"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	State      string    `json:"state,omitempty"`
	ZipCode    string    `json:"zip_code,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToCustomerResponse converts a customer aggregate to its response representation
func ToCustomerResponse(customer *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:         customer.ID,
		Name:       customer.Name,
		Document:   customer.DocumentNumber,
		PersonType: string(customer.PersonType),
		Email:      customer.Email,
		Phone:      customer.Phone,
		Address:    customer.Address,
		City:       customer.City,
		State:      customer.State,
		ZipCode:    customer.ZipCode,
		Status:     string(customer.Status),
		CreatedAt:  customer.CreatedAt,
		UpdatedAt:  customer.UpdatedAt,
	}
}
