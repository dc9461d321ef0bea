package dto

import (
	"testing"
	"time"

	"credit-engine/internal/domain/credit"
	"credit-engine/internal/domain/lending"
	"credit-engine/internal/domain/loan"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEligibilityRequestValidate(t *testing.T) {
	valid := EligibilityRequest{
		CustomerID:   1,
		LoanAmount:   100000,
		InterestRate: 10,
		TenureMonths: 12,
	}
	assert.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(r *EligibilityRequest)
		field  string
	}{
		{"zero customer id", func(r *EligibilityRequest) { r.CustomerID = 0 }, "customerId"},
		{"negative customer id", func(r *EligibilityRequest) { r.CustomerID = -1 }, "customerId"},
		{"zero amount", func(r *EligibilityRequest) { r.LoanAmount = 0 }, "loanAmount"},
		{"negative amount", func(r *EligibilityRequest) { r.LoanAmount = -100 }, "loanAmount"},
		{"negative rate", func(r *EligibilityRequest) { r.InterestRate = -0.1 }, "interestRate"},
		{"zero tenure", func(r *EligibilityRequest) { r.TenureMonths = 0 }, "tenureMonths"},
		{"negative tenure", func(r *EligibilityRequest) { r.TenureMonths = -12 }, "tenureMonths"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			err := req.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestEligibilityRequestValidateAcceptsZeroRate(t *testing.T) {
	req := EligibilityRequest{
		CustomerID:   1,
		LoanAmount:   100000,
		InterestRate: 0,
		TenureMonths: 12,
	}
	assert.NoError(t, req.Validate())
}

func TestNewEligibilityResponse(t *testing.T) {
	d := &credit.Decision{
		CustomerID:            42,
		Approved:              true,
		InterestRate:          decimal.NewFromInt(10),
		CorrectedInterestRate: decimal.NewFromInt(12),
		TenureMonths:          12,
		MonthlyInstallment:    decimal.RequireFromString("8791.588"),
	}

	resp := NewEligibilityResponse(d)

	assert.Equal(t, "42", resp.CustomerID)
	assert.True(t, resp.Approved)
	assert.Equal(t, "10", resp.InterestRate)
	assert.Equal(t, "12", resp.CorrectedInterestRate)
	assert.Equal(t, "8791.59", resp.MonthlyInstallment)
}

func TestNewCreateLoanResponse(t *testing.T) {
	t.Run("approved carries the loan id", func(t *testing.T) {
		loanID := int64(500)
		resp := NewCreateLoanResponse(&lending.CreateResult{
			LoanID:             &loanID,
			CustomerID:         42,
			Approved:           true,
			Message:            "Loan approved and created successfully",
			MonthlyInstallment: decimal.RequireFromString("8791.59"),
		})

		if assert.NotNil(t, resp.LoanID) {
			assert.Equal(t, "500", *resp.LoanID)
		}
		assert.Equal(t, "8791.59", resp.MonthlyInstallment)
	})

	t.Run("rejected renders a null loan id", func(t *testing.T) {
		resp := NewCreateLoanResponse(&lending.CreateResult{
			CustomerID: 42,
			Approved:   false,
			Message:    "Credit score too low",
		})

		assert.Nil(t, resp.LoanID)
		assert.False(t, resp.Approved)
		assert.Equal(t, "0.00", resp.MonthlyInstallment)
	})
}

func TestNewLoanResponse(t *testing.T) {
	start := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	l := &loan.Loan{
		LoanID:             7001,
		CustomerID:         42,
		Amount:             decimal.NewFromInt(100000),
		InterestRate:       decimal.NewFromInt(10),
		MonthlyInstallment: decimal.RequireFromString("8791.59"),
		TenureMonths:       12,
		EMIsPaidOnTime:     3,
		StartDate:          start,
		EndDate:            start.AddDate(0, 12, 0),
	}

	resp := NewLoanResponse(l)

	assert.Equal(t, "7001", resp.LoanID)
	assert.Equal(t, "42", resp.CustomerID)
	assert.Equal(t, "100000.00", resp.LoanAmount)
	assert.Equal(t, 9, resp.RepaymentsLeft)
	assert.Equal(t, "2020-01-15", resp.StartDate)
	assert.Equal(t, "2021-01-15", resp.EndDate)
}
