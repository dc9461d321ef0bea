package dto

import (
	"fmt"
	"strconv"
	"time"

	"credit-engine/internal/domain/credit"
	"credit-engine/internal/domain/lending"
	"credit-engine/internal/domain/loan"

	"github.com/shopspring/decimal"
)

// EligibilityRequest is shared by the dry-run eligibility check and loan
// creation; both take the same loan terms.
type EligibilityRequest struct {
	CustomerID   int64   `json:"customerId"`
	LoanAmount   float64 `json:"loanAmount"`
	InterestRate float64 `json:"interestRate"`
	TenureMonths int     `json:"tenureMonths"`
}

// Validate rejects requests the amortization formula cannot price. A zero
// interest rate is a valid interest-free loan; a negative one is not.
func (r *EligibilityRequest) Validate() error {
	if r.CustomerID <= 0 {
		return fmt.Errorf("customerId must be positive")
	}
	if r.LoanAmount <= 0 {
		return fmt.Errorf("loanAmount must be greater than zero")
	}
	if r.InterestRate < 0 {
		return fmt.Errorf("interestRate cannot be negative")
	}
	if r.TenureMonths <= 0 {
		return fmt.Errorf("tenureMonths must be positive")
	}
	return nil
}

func (r *EligibilityRequest) LoanAmountDecimal() decimal.Decimal {
	return decimal.NewFromFloat(r.LoanAmount)
}

func (r *EligibilityRequest) InterestRateDecimal() decimal.Decimal {
	return decimal.NewFromFloat(r.InterestRate)
}

type EligibilityResponse struct {
	CustomerID            string `json:"customerId"`
	Approved              bool   `json:"approved"`
	Message               string `json:"message,omitempty"`
	InterestRate          string `json:"interestRate"`
	CorrectedInterestRate string `json:"correctedInterestRate"`
	TenureMonths          int    `json:"tenureMonths"`
	MonthlyInstallment    string `json:"monthlyInstallment"`
}

func NewEligibilityResponse(d *credit.Decision) EligibilityResponse {
	return EligibilityResponse{
		CustomerID:            strconv.FormatInt(d.CustomerID, 10),
		Approved:              d.Approved,
		Message:               d.Message,
		InterestRate:          d.InterestRate.String(),
		CorrectedInterestRate: d.CorrectedInterestRate.String(),
		TenureMonths:          d.TenureMonths,
		MonthlyInstallment:    d.MonthlyInstallment.StringFixed(2),
	}
}

type CreateLoanResponse struct {
	LoanID             *string `json:"loanId"`
	CustomerID         string  `json:"customerId"`
	Approved           bool    `json:"approved"`
	Message            string  `json:"message"`
	MonthlyInstallment string  `json:"monthlyInstallment"`
}

func NewCreateLoanResponse(res *lending.CreateResult) CreateLoanResponse {
	resp := CreateLoanResponse{
		CustomerID:         strconv.FormatInt(res.CustomerID, 10),
		Approved:           res.Approved,
		Message:            res.Message,
		MonthlyInstallment: res.MonthlyInstallment.StringFixed(2),
	}
	if res.LoanID != nil {
		id := strconv.FormatInt(*res.LoanID, 10)
		resp.LoanID = &id
	}
	return resp
}

type LoanResponse struct {
	LoanID             string    `json:"loanId"`
	CustomerID         string    `json:"customerId"`
	LoanAmount         string    `json:"loanAmount"`
	InterestRate       string    `json:"interestRate"`
	MonthlyInstallment string    `json:"monthlyInstallment"`
	TenureMonths       int       `json:"tenureMonths"`
	EMIsPaidOnTime     int       `json:"emisPaidOnTime"`
	RepaymentsLeft     int       `json:"repaymentsLeft"`
	StartDate          string    `json:"startDate"`
	EndDate            string    `json:"endDate"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func NewLoanResponse(l *loan.Loan) LoanResponse {
	return LoanResponse{
		LoanID:             strconv.FormatInt(l.LoanID, 10),
		CustomerID:         strconv.FormatInt(l.CustomerID, 10),
		LoanAmount:         l.Amount.StringFixed(2),
		InterestRate:       l.InterestRate.String(),
		MonthlyInstallment: l.MonthlyInstallment.StringFixed(2),
		TenureMonths:       l.TenureMonths,
		EMIsPaidOnTime:     l.EMIsPaidOnTime,
		RepaymentsLeft:     l.RepaymentsLeft(),
		StartDate:          l.StartDate.Format(time.RFC3339[:10]),
		EndDate:            l.EndDate.Format(time.RFC3339[:10]),
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
}

type LoanListResponse struct {
	CustomerID string         `json:"customerId"`
	Loans      []LoanResponse `json:"loans"`
}

func NewLoanListResponse(customerID int64, loans []*loan.Loan) LoanListResponse {
	items := make([]LoanResponse, len(loans))
	for i, l := range loans {
		items[i] = NewLoanResponse(l)
	}
	return LoanListResponse{
		CustomerID: strconv.FormatInt(customerID, 10),
		Loans:      items,
	}
}
