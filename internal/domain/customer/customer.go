package customer

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a borrower record. Age is a pointer because legacy bulk-import
// data predates the field. PhoneNumber is text: it is never used numerically
// and source spreadsheets routinely mangle it otherwise.
type Customer struct {
	CustomerID    int64           `json:"customerId"`
	FirstName     string          `json:"firstName"`
	LastName      string          `json:"lastName"`
	Age           *int            `json:"age,omitempty"`
	PhoneNumber   string          `json:"phoneNumber"`
	MonthlySalary decimal.Decimal `json:"monthlySalary"`
	ApprovedLimit decimal.Decimal `json:"approvedLimit"`
	CurrentDebt   decimal.Decimal `json:"currentDebt"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

var lakh = decimal.NewFromInt(100_000)

// ApprovedLimitFor derives the credit ceiling from monthly income:
// 36 x income, rounded to the nearest lakh.
func ApprovedLimitFor(monthlyIncome decimal.Decimal) decimal.Decimal {
	return monthlyIncome.Mul(decimal.NewFromInt(36)).Div(lakh).Round(0).Mul(lakh)
}

func NewCustomer(customerID int64, firstName, lastName string, age *int, phoneNumber string, monthlyIncome decimal.Decimal) *Customer {
	now := time.Now()
	return &Customer{
		CustomerID:    customerID,
		FirstName:     firstName,
		LastName:      lastName,
		Age:           age,
		PhoneNumber:   phoneNumber,
		MonthlySalary: monthlyIncome,
		ApprovedLimit: ApprovedLimitFor(monthlyIncome),
		CurrentDebt:   decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// OverLimit reports whether outstanding debt has breached the approved limit.
func (c *Customer) OverLimit() bool {
	return c.CurrentDebt.GreaterThan(c.ApprovedLimit)
}
