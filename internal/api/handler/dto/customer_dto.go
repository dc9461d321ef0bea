package dto

import (
	"fmt"
	"strconv"
	"time"

	"credit-engine/internal/domain/customer"

	"github.com/shopspring/decimal"
)

type RegisterCustomerRequest struct {
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Age           *int    `json:"age,omitempty"`
	PhoneNumber   string  `json:"phoneNumber"`
	MonthlyIncome float64 `json:"monthlyIncome"`
}

func (r *RegisterCustomerRequest) Validate() error {
	if r.FirstName == "" {
		return fmt.Errorf("firstName cannot be empty")
	}
	if r.MonthlyIncome <= 0 {
		return fmt.Errorf("monthlyIncome must be greater than zero")
	}
	if r.Age != nil && *r.Age < 0 {
		return fmt.Errorf("age cannot be negative")
	}
	return nil
}

func (r *RegisterCustomerRequest) MonthlyIncomeDecimal() decimal.Decimal {
	return decimal.NewFromFloat(r.MonthlyIncome)
}

type CustomerResponse struct {
	CustomerID    string    `json:"customerId"`
	Name          string    `json:"name"`
	Age           *int      `json:"age,omitempty"`
	PhoneNumber   string    `json:"phoneNumber"`
	MonthlyIncome string    `json:"monthlyIncome"`
	ApprovedLimit string    `json:"approvedLimit"`
	CurrentDebt   string    `json:"currentDebt"`
	CreatedAt     time.Time `json:"createdAt"`
}

func NewCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID:    strconv.FormatInt(c.CustomerID, 10),
		Name:          c.FullName(),
		Age:           c.Age,
		PhoneNumber:   c.PhoneNumber,
		MonthlyIncome: c.MonthlySalary.StringFixed(2),
		ApprovedLimit: c.ApprovedLimit.StringFixed(2),
		CurrentDebt:   c.CurrentDebt.StringFixed(2),
		CreatedAt:     c.CreatedAt,
	}
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}
