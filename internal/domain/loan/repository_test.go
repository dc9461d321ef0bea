package loan

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) Upsert(ctx context.Context, l *Loan) (bool, error) {
	ret := _m.Called(ctx, l)
	return ret.Bool(0), ret.Error(1)
}

func (_m *MockRepository) CreateApproved(ctx context.Context, l *Loan) error {
	return _m.Called(ctx, l).Error(0)
}

func (_m *MockRepository) FindByID(ctx context.Context, loanID int64) (*Loan, error) {
	ret := _m.Called(ctx, loanID)

	var r0 *Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) FindByCustomer(ctx context.Context, customerID int64) ([]*Loan, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) SumActiveInstallments(ctx context.Context, customerID int64, asOf time.Time) (decimal.Decimal, error) {
	ret := _m.Called(ctx, customerID, asOf)
	return ret.Get(0).(decimal.Decimal), ret.Error(1)
}

func (_m *MockRepository) NextID(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}

var _ Repository = (*MockRepository)(nil)
