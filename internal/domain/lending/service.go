package lending

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"credit-engine/internal/domain/credit"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/event"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

const msgLoanCreated = "Loan approved and created successfully"

// CreateResult reports the outcome of a loan creation attempt. LoanID is nil
// when the decision was negative and nothing was persisted.
type CreateResult struct {
	LoanID             *int64
	CustomerID         int64
	Approved           bool
	Message            string
	MonthlyInstallment decimal.Decimal
}

type Service interface {
	// CheckEligibility evaluates the requested loan without persisting
	// anything.
	CheckEligibility(ctx context.Context, customerID int64, amount decimal.Decimal, annualRate decimal.Decimal, tenureMonths int) (*credit.Decision, error)

	// CreateLoan evaluates eligibility and, on approval, persists the loan
	// and the customer's debt increment atomically.
	CreateLoan(ctx context.Context, customerID int64, amount decimal.Decimal, annualRate decimal.Decimal, tenureMonths int) (*CreateResult, error)

	GetLoan(ctx context.Context, loanID int64) (*loan.Loan, error)

	ListCustomerLoans(ctx context.Context, customerID int64) ([]*loan.Loan, error)
}

var _ Service = (*service)(nil)

type service struct {
	engine    *credit.Engine
	loans     loan.Repository
	customers customer.Repository
	pub       event.Publisher
	logger    *slog.Logger
}

func NewService(engine *credit.Engine, loans loan.Repository, customers customer.Repository, pub event.Publisher, logger *slog.Logger) Service {
	if engine == nil || loans == nil || customers == nil {
		panic("lending service dependencies cannot be nil")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return &service{
		engine:    engine,
		loans:     loans,
		customers: customers,
		pub:       pub,
		logger:    logger.With(slog.String("component", "lendingService")),
	}
}

func (s *service) CheckEligibility(ctx context.Context, customerID int64, amount decimal.Decimal, annualRate decimal.Decimal, tenureMonths int) (*credit.Decision, error) {
	return s.engine.Evaluate(ctx, customerID, amount, annualRate, tenureMonths)
}

func (s *service) CreateLoan(ctx context.Context, customerID int64, amount decimal.Decimal, annualRate decimal.Decimal, tenureMonths int) (*CreateResult, error) {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Creating new loan")

	decision, err := s.engine.Evaluate(ctx, customerID, amount, annualRate, tenureMonths)
	if err != nil {
		return nil, err
	}

	if !decision.Approved {
		logCtx.InfoContext(ctx, "Loan creation refused by decision", slog.String("message", decision.Message))
		return &CreateResult{
			CustomerID: customerID,
			Approved:   false,
			Message:    decision.Message,
		}, nil
	}

	loanID, err := s.loans.NextID(ctx)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to allocate loan ID", slog.Any("error", err))
		return nil, fmt.Errorf("failed to allocate loan ID: %w", err)
	}

	today := time.Now().Truncate(24 * time.Hour)
	newLoan := loan.NewLoan(loanID, customerID, amount, decision.CorrectedInterestRate, tenureMonths, today)

	if err := s.loans.CreateApproved(ctx, newLoan); err != nil {
		logCtx.ErrorContext(ctx, "Failed to persist approved loan", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to create loan: %w", apperrors.ErrInternalServer, err)
	}
	monitoring.RecordLoanCreated()

	created := event.LoanCreatedEvent{
		Timestamp: time.Now(),
		Payload: event.LoanPayload{
			LoanID:             newLoan.LoanID,
			CustomerID:         newLoan.CustomerID,
			Amount:             newLoan.Amount.StringFixed(2),
			InterestRate:       newLoan.InterestRate.String(),
			TenureMonths:       newLoan.TenureMonths,
			MonthlyInstallment: newLoan.MonthlyInstallment.StringFixed(2),
		},
	}
	if pubErr := s.pub.PublishLoanCreated(ctx, created); pubErr != nil {
		logCtx.ErrorContext(ctx, "Loan created, but FAILED to publish creation event", slog.Any("error", pubErr))
	}

	logCtx.InfoContext(ctx, "Loan created successfully", slog.Int64("loanID", newLoan.LoanID))
	return &CreateResult{
		LoanID:             &newLoan.LoanID,
		CustomerID:         customerID,
		Approved:           true,
		Message:            msgLoanCreated,
		MonthlyInstallment: newLoan.MonthlyInstallment,
	}, nil
}

func (s *service) GetLoan(ctx context.Context, loanID int64) (*loan.Loan, error) {
	l, err := s.loans.FindByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, loan.ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Loan not found", slog.Int64("loanID", loanID))
			return nil, fmt.Errorf("%w: loan with ID %d not found", apperrors.ErrNotFound, loanID)
		}
		return nil, fmt.Errorf("failed to get loan %d: %w", loanID, err)
	}
	return l, nil
}

func (s *service) ListCustomerLoans(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, customer.ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: customer %d not found", apperrors.ErrNotFound, customerID)
		}
		return nil, fmt.Errorf("failed to verify customer %d: %w", customerID, err)
	}

	loans, err := s.loans.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans for customer %d: %w", customerID, err)
	}
	return loans, nil
}
