package partner

import (
	"strings"
	"time"

	"github.com/salespos/backend/internal/domain/shared"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "ACTIVE"
	CustomerStatusInactive CustomerStatus = "INACTIVE"
)

// Customer represents a buyer, identified by a CPF or CNPJ
// It is the aggregate root for customer-related operations
type Customer struct {
	shared.BaseAggregateRoot
	Name           string         `gorm:"type:varchar(200);not null"`
	DocumentNumber string         `gorm:"type:varchar(14);not null;uniqueIndex"`
	PersonType     PersonType     `gorm:"type:varchar(20);not null"`
	Email          string         `gorm:"type:varchar(200)"`
	Phone          string         `gorm:"type:varchar(11)"`
	Address        string         `gorm:"type:varchar(300)"`
	City           string         `gorm:"type:varchar(100)"`
	State          string         `gorm:"type:varchar(2)"`
	ZipCode        string         `gorm:"type:varchar(8)"`
	Status         CustomerStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer, validating the document check digits
func NewCustomer(name, document string) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}

	personType, err := ValidateDocument(document)
	if err != nil {
		return nil, err
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		DocumentNumber:    NormalizeDocument(document),
		PersonType:        personType,
		Status:            CustomerStatusActive,
	}, nil
}

// Update updates the customer's basic information
func (c *Customer) Update(name string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}

	c.Name = name
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetContact sets the customer's contact information
func (c *Customer) SetContact(email, phone string) error {
	if email != "" && !strings.Contains(email, "@") {
		return shared.NewDomainError("VALIDATION_ERROR", "Invalid email address")
	}

	digits := NormalizeDocument(phone)
	if phone != "" && (len(digits) < 10 || len(digits) > 11) {
		return shared.NewDomainError("VALIDATION_ERROR", "Phone must have 10 or 11 digits")
	}

	c.Email = email
	c.Phone = digits
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetAddress sets the customer's address
func (c *Customer) SetAddress(address, city, state, zipCode string) {
	c.Address = address
	c.City = city
	c.State = strings.ToUpper(state)
	c.ZipCode = NormalizeDocument(zipCode)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Activate activates the customer
func (c *Customer) Activate() error {
	if c.Status == CustomerStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Customer is already active")
	}

	c.Status = CustomerStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Deactivate deactivates the customer
func (c *Customer) Deactivate() error {
	if c.Status == CustomerStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Customer is already inactive")
	}

	c.Status = CustomerStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// IsActive returns true if the customer is active
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

// IsCompany returns true if the customer is identified by a CNPJ
func (c *Customer) IsCompany() bool {
	return c.PersonType == PersonTypeCompany
}

func validateCustomerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("VALIDATION_ERROR", "Customer name cannot exceed 200 characters")
	}
	return nil
}
