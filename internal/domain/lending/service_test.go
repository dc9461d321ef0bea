package lending_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"credit-engine/internal/domain/credit"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/lending"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/event"
	"credit-engine/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockCustomerRepo struct {
	mock.Mock
}

func (_m *mockCustomerRepo) Upsert(ctx context.Context, cust *customer.Customer) (bool, error) {
	ret := _m.Called(ctx, cust)
	return ret.Bool(0), ret.Error(1)
}

func (_m *mockCustomerRepo) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *mockCustomerRepo) FindAll(ctx context.Context) ([]*customer.Customer, error) {
	ret := _m.Called(ctx)

	var r0 []*customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *mockCustomerRepo) NextID(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}

type mockLoanRepo struct {
	mock.Mock
}

func (_m *mockLoanRepo) Upsert(ctx context.Context, l *loan.Loan) (bool, error) {
	ret := _m.Called(ctx, l)
	return ret.Bool(0), ret.Error(1)
}

func (_m *mockLoanRepo) CreateApproved(ctx context.Context, l *loan.Loan) error {
	return _m.Called(ctx, l).Error(0)
}

func (_m *mockLoanRepo) FindByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	ret := _m.Called(ctx, loanID)

	var r0 *loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *mockLoanRepo) FindByCustomer(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*loan.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *mockLoanRepo) SumActiveInstallments(ctx context.Context, customerID int64, asOf time.Time) (decimal.Decimal, error) {
	ret := _m.Called(ctx, customerID, asOf)
	return ret.Get(0).(decimal.Decimal), ret.Error(1)
}

func (_m *mockLoanRepo) NextID(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (_m *mockPublisher) PublishCustomerRegistered(ctx context.Context, e event.CustomerRegisteredEvent) error {
	return _m.Called(ctx, e).Error(0)
}

func (_m *mockPublisher) PublishLoanCreated(ctx context.Context, e event.LoanCreatedEvent) error {
	return _m.Called(ctx, e).Error(0)
}

var (
	_ customer.Repository = (*mockCustomerRepo)(nil)
	_ loan.Repository     = (*mockLoanRepo)(nil)
	_ event.Publisher     = (*mockPublisher)(nil)
)

func setupService() (*mockCustomerRepo, *mockLoanRepo, *mockPublisher, lending.Service) {
	customers := new(mockCustomerRepo)
	loans := new(mockLoanRepo)
	pub := new(mockPublisher)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := credit.NewEngine(customers, loans, logger)
	svc := lending.NewService(engine, loans, customers, pub, logger)
	return customers, loans, pub, svc
}

func solventCustomer(id int64) *customer.Customer {
	return &customer.Customer{
		CustomerID:    id,
		FirstName:     "Test",
		MonthlySalary: decimal.NewFromInt(50000),
		ApprovedLimit: decimal.NewFromInt(1_800_000),
		CurrentDebt:   decimal.Zero,
	}
}

func TestLendingService_CreateLoan(t *testing.T) {
	ctx := context.Background()
	customerID := int64(42)
	amount := decimal.NewFromInt(100000)
	rate := decimal.NewFromInt(10)
	tenure := 12

	t.Run("approved loan is persisted and announced", func(t *testing.T) {
		customers, loans, pub, svc := setupService()
		customers.On("FindByID", ctx, customerID).Return(solventCustomer(customerID), nil).Twice()
		loans.On("FindByCustomer", ctx, customerID).Return([]*loan.Loan{}, nil).Once()
		loans.On("SumActiveInstallments", ctx, customerID, mock.AnythingOfType("time.Time")).
			Return(decimal.Zero, nil).Once()
		loans.On("NextID", ctx).Return(int64(500), nil).Once()
		loans.On("CreateApproved", ctx, mock.MatchedBy(func(l *loan.Loan) bool {
			return l.LoanID == 500 &&
				l.CustomerID == customerID &&
				l.Amount.Equal(amount) &&
				l.TenureMonths == tenure
		})).Return(nil).Once()
		pub.On("PublishLoanCreated", ctx, mock.MatchedBy(func(e event.LoanCreatedEvent) bool {
			return e.Payload.LoanID == 500 && e.Payload.CustomerID == customerID
		})).Return(nil).Once()

		result, err := svc.CreateLoan(ctx, customerID, amount, rate, tenure)

		assert.NoError(t, err)
		assert.True(t, result.Approved)
		if assert.NotNil(t, result.LoanID) {
			assert.Equal(t, int64(500), *result.LoanID)
		}
		assert.Equal(t, "8791.59", result.MonthlyInstallment.StringFixed(2))
		loans.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("rejected decision persists nothing", func(t *testing.T) {
		customers, loans, pub, svc := setupService()
		customers.On("FindByID", ctx, customerID).Return(nil, customer.ErrNotFound).Once()

		result, err := svc.CreateLoan(ctx, customerID, amount, rate, tenure)

		assert.NoError(t, err)
		assert.False(t, result.Approved)
		assert.Nil(t, result.LoanID)
		assert.Equal(t, credit.MsgCustomerNotFound, result.Message)
		loans.AssertNotCalled(t, "NextID", mock.Anything)
		loans.AssertNotCalled(t, "CreateApproved", mock.Anything, mock.Anything)
		pub.AssertNotCalled(t, "PublishLoanCreated", mock.Anything, mock.Anything)
	})

	t.Run("persistence failure surfaces as internal error", func(t *testing.T) {
		customers, loans, pub, svc := setupService()
		customers.On("FindByID", ctx, customerID).Return(solventCustomer(customerID), nil).Twice()
		loans.On("FindByCustomer", ctx, customerID).Return([]*loan.Loan{}, nil).Once()
		loans.On("SumActiveInstallments", ctx, customerID, mock.AnythingOfType("time.Time")).
			Return(decimal.Zero, nil).Once()
		loans.On("NextID", ctx).Return(int64(500), nil).Once()
		loans.On("CreateApproved", ctx, mock.AnythingOfType("*loan.Loan")).
			Return(errors.New("deadlock detected")).Once()

		result, err := svc.CreateLoan(ctx, customerID, amount, rate, tenure)

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.ErrInternalServer)
		pub.AssertNotCalled(t, "PublishLoanCreated", mock.Anything, mock.Anything)
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		customers, loans, pub, svc := setupService()
		customers.On("FindByID", ctx, customerID).Return(solventCustomer(customerID), nil).Twice()
		loans.On("FindByCustomer", ctx, customerID).Return([]*loan.Loan{}, nil).Once()
		loans.On("SumActiveInstallments", ctx, customerID, mock.AnythingOfType("time.Time")).
			Return(decimal.Zero, nil).Once()
		loans.On("NextID", ctx).Return(int64(500), nil).Once()
		loans.On("CreateApproved", ctx, mock.AnythingOfType("*loan.Loan")).Return(nil).Once()
		pub.On("PublishLoanCreated", ctx, mock.AnythingOfType("event.LoanCreatedEvent")).
			Return(errors.New("broker unavailable")).Once()

		result, err := svc.CreateLoan(ctx, customerID, amount, rate, tenure)

		assert.NoError(t, err)
		assert.True(t, result.Approved)
		pub.AssertExpectations(t)
	})
}

func TestLendingService_GetLoan(t *testing.T) {
	ctx := context.Background()
	loanID := int64(7)

	t.Run("found", func(t *testing.T) {
		_, loans, _, svc := setupService()
		expected := &loan.Loan{LoanID: loanID, CustomerID: 42}
		loans.On("FindByID", ctx, loanID).Return(expected, nil).Once()

		got, err := svc.GetLoan(ctx, loanID)

		assert.NoError(t, err)
		assert.Equal(t, expected, got)
	})

	t.Run("not found", func(t *testing.T) {
		_, loans, _, svc := setupService()
		loans.On("FindByID", ctx, loanID).Return(nil, loan.ErrNotFound).Once()

		got, err := svc.GetLoan(ctx, loanID)

		assert.Error(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestLendingService_ListCustomerLoans(t *testing.T) {
	ctx := context.Background()
	customerID := int64(42)

	t.Run("returns the customer's loans", func(t *testing.T) {
		customers, loans, _, svc := setupService()
		customers.On("FindByID", ctx, customerID).Return(solventCustomer(customerID), nil).Once()
		history := []*loan.Loan{{LoanID: 1, CustomerID: customerID}, {LoanID: 2, CustomerID: customerID}}
		loans.On("FindByCustomer", ctx, customerID).Return(history, nil).Once()

		got, err := svc.ListCustomerLoans(ctx, customerID)

		assert.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("unknown customer", func(t *testing.T) {
		customers, loans, _, svc := setupService()
		customers.On("FindByID", ctx, customerID).Return(nil, customer.ErrNotFound).Once()

		got, err := svc.ListCustomerLoans(ctx, customerID)

		assert.Error(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		loans.AssertNotCalled(t, "FindByCustomer", mock.Anything, mock.Anything)
	})
}
