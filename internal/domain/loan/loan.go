package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is one amortizing loan owned by a single customer. EMIsPaidOnTime is
// mutated by an external repayment tracker over the loan's life; this core
// only ever reads it.
type Loan struct {
	LoanID             int64           `json:"loanId"`
	CustomerID         int64           `json:"customerId"`
	Amount             decimal.Decimal `json:"amount"`
	TenureMonths       int             `json:"tenureMonths"`
	InterestRate       decimal.Decimal `json:"interestRate"`
	MonthlyInstallment decimal.Decimal `json:"monthlyInstallment"`
	EMIsPaidOnTime     int             `json:"emisPaidOnTime"`
	StartDate          time.Time       `json:"startDate"`
	EndDate            time.Time       `json:"endDate"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// NewLoan builds an approved loan starting today. The end date is start plus
// tenure months; the installment is computed from the corrected rate.
func NewLoan(loanID, customerID int64, amount decimal.Decimal, annualRate decimal.Decimal, tenureMonths int, startDate time.Time) *Loan {
	now := time.Now()
	return &Loan{
		LoanID:             loanID,
		CustomerID:         customerID,
		Amount:             amount,
		TenureMonths:       tenureMonths,
		InterestRate:       annualRate,
		MonthlyInstallment: ComputeEMI(amount, annualRate, tenureMonths),
		EMIsPaidOnTime:     0,
		StartDate:          startDate,
		EndDate:            startDate.AddDate(0, tenureMonths, 0),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// Active reports whether the loan is still running on the given date
// (end date on or after it).
func (l *Loan) Active(asOf time.Time) bool {
	return !l.EndDate.Before(asOf)
}

// RepaymentsLeft is the number of installments not yet paid on schedule.
func (l *Loan) RepaymentsLeft() int {
	left := l.TenureMonths - l.EMIsPaidOnTime
	if left < 0 {
		return 0
	}
	return left
}
