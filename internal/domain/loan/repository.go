package loan

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("loan not found")

type Repository interface {
	// Upsert creates the loan if the ID is unseen, otherwise overwrites
	// every mapped field, including the owning customer. Returns true when
	// a new row was created.
	Upsert(ctx context.Context, l *Loan) (created bool, err error)

	// CreateApproved inserts the loan and increments the owning customer's
	// current debt by the principal in a single transaction.
	CreateApproved(ctx context.Context, l *Loan) error

	FindByID(ctx context.Context, loanID int64) (*Loan, error)

	FindByCustomer(ctx context.Context, customerID int64) ([]*Loan, error)

	// SumActiveInstallments totals the monthly installment of the customer's
	// loans whose end date is on or after asOf.
	SumActiveInstallments(ctx context.Context, customerID int64, asOf time.Time) (decimal.Decimal, error)

	NextID(ctx context.Context) (int64, error)
}
