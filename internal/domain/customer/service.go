package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"credit-engine/internal/event"
	"credit-engine/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

type Service interface {
	// Register creates a new customer with the next free identifier and an
	// approved limit derived from income.
	Register(ctx context.Context, firstName, lastName string, age *int, phoneNumber string, monthlyIncome decimal.Decimal) (*Customer, error)

	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
}

var _ Service = (*service)(nil)

type service struct {
	repo   Repository
	pub    event.Publisher
	logger *slog.Logger
}

func NewService(repo Repository, pub event.Publisher, logger *slog.Logger) Service {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewService, using default stderr handler")
	}
	return &service{
		repo:   repo,
		pub:    pub,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func (s *service) Register(ctx context.Context, firstName, lastName string, age *int, phoneNumber string, monthlyIncome decimal.Decimal) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to register new customer")

	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" {
		s.logger.WarnContext(ctx, "Validation failed: first name is empty")
		return nil, apperrors.NewValidationError("first_name", "cannot be empty")
	}
	if monthlyIncome.LessThanOrEqual(decimal.Zero) {
		s.logger.WarnContext(ctx, "Validation failed: monthly income not positive")
		return nil, apperrors.NewValidationError("monthly_income", "must be greater than zero")
	}
	if age != nil && *age < 0 {
		s.logger.WarnContext(ctx, "Validation failed: negative age")
		return nil, apperrors.NewValidationError("age", "cannot be negative")
	}

	customerID, err := s.repo.NextID(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to allocate customer ID", slog.Any("error", err))
		return nil, fmt.Errorf("failed to allocate customer ID: %w", err)
	}

	cust := NewCustomer(customerID, firstName, lastName, age, phoneNumber, monthlyIncome)

	if _, err := s.repo.Upsert(ctx, cust); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	registered := event.CustomerRegisteredEvent{
		Timestamp: time.Now(),
		Payload: event.CustomerPayload{
			CustomerID:    cust.CustomerID,
			Name:          cust.FullName(),
			MonthlySalary: cust.MonthlySalary.StringFixed(2),
			ApprovedLimit: cust.ApprovedLimit.StringFixed(2),
		},
	}
	if pubErr := s.pub.PublishCustomerRegistered(ctx, registered); pubErr != nil {
		s.logger.ErrorContext(ctx, "Customer registered, but FAILED to publish registration event", slog.Any("error", pubErr))
	}

	s.logger.InfoContext(ctx, "Successfully registered new customer",
		slog.Int64("customerID", cust.CustomerID),
		slog.String("approvedLimit", cust.ApprovedLimit.String()))
	return cust, nil
}

func (s *service) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to get customer by ID", slog.Int64("customerID", customerID))

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found by repository")
			return nil, ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	return cust, nil
}
