package credit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

// Rejection messages are part of the API contract; callers and older clients
// match on them.
const (
	MsgCustomerNotFound = "Customer not found"
	MsgScoreTooLow      = "Credit score too low"
	MsgEMIOverSalaryCap = "Total EMI exceeds 50% of monthly salary"
)

var (
	rateFloorMidTier = decimal.NewFromInt(12)
	rateFloorLowTier = decimal.NewFromInt(16)
	salaryCapRatio   = decimal.New(5, -1) // 0.5
)

// Decision is the outcome of one eligibility evaluation. When Approved is
// false only CustomerID and Message are guaranteed meaningful; the rate and
// installment fields carry whatever was computed before the rejection.
type Decision struct {
	CustomerID            int64           `json:"customerId"`
	Approved              bool            `json:"approved"`
	Message               string          `json:"message,omitempty"`
	InterestRate          decimal.Decimal `json:"interestRate"`
	CorrectedInterestRate decimal.Decimal `json:"correctedInterestRate"`
	TenureMonths          int             `json:"tenureMonths"`
	MonthlyInstallment    decimal.Decimal `json:"monthlyInstallment"`
}

// Evaluate decides whether the requested loan should be approved and at what
// rate.
//
// The score tier fixes the terms: a floor of 12% applies below a score of 50
// and a floor of 16% below 30, while a score of 10 or less is an outright
// rejection with no installment computed. Affordability is then a separate,
// final gate: if the installments of all currently-active loans plus the new
// one exceed half the customer's monthly salary, the decision flips to
// rejected regardless of the tier outcome. The two checks run in that order
// on purpose; the tier decides terms, affordability decides capacity.
func (e *Engine) Evaluate(ctx context.Context, customerID int64, amount decimal.Decimal, annualRate decimal.Decimal, tenureMonths int) (*Decision, error) {
	logCtx := e.logger.With(slog.Int64("customerID", customerID))

	decision := &Decision{
		CustomerID:            customerID,
		InterestRate:          annualRate,
		CorrectedInterestRate: annualRate,
		TenureMonths:          tenureMonths,
	}

	cust, err := e.customers.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Eligibility check for unknown customer")
			decision.Message = MsgCustomerNotFound
			monitoring.RecordDecision(monitoring.OutcomeRejectedUnknown)
			return decision, nil
		}
		return nil, fmt.Errorf("failed to load customer for eligibility: %w", err)
	}

	score, err := e.Score(ctx, customerID)
	if err != nil {
		return nil, err
	}

	switch {
	case score > 50:
		decision.Approved = true
	case score > 30:
		decision.Approved = true
		if !annualRate.GreaterThan(rateFloorMidTier) {
			decision.CorrectedInterestRate = rateFloorMidTier
		}
	case score > 10:
		decision.Approved = true
		if !annualRate.GreaterThan(rateFloorLowTier) {
			decision.CorrectedInterestRate = rateFloorLowTier
		}
	default:
		logCtx.InfoContext(ctx, "Eligibility rejected on score", slog.Int("score", score))
		decision.Message = MsgScoreTooLow
		monitoring.RecordDecision(monitoring.OutcomeRejectedScore)
		return decision, nil
	}

	decision.MonthlyInstallment = loan.ComputeEMI(amount, decision.CorrectedInterestRate, tenureMonths)

	activeEMIs, err := e.loans.SumActiveInstallments(ctx, customerID, e.now())
	if err != nil {
		return nil, fmt.Errorf("failed to sum active installments: %w", err)
	}

	salaryCap := cust.MonthlySalary.Mul(salaryCapRatio)
	if activeEMIs.Add(decision.MonthlyInstallment).GreaterThan(salaryCap) {
		logCtx.InfoContext(ctx, "Eligibility rejected on affordability",
			slog.Int("score", score),
			slog.String("activeEMIs", activeEMIs.String()),
			slog.String("salaryCap", salaryCap.String()))
		decision.Approved = false
		decision.Message = MsgEMIOverSalaryCap
		monitoring.RecordDecision(monitoring.OutcomeRejectedAffordability)
		return decision, nil
	}

	logCtx.InfoContext(ctx, "Eligibility approved",
		slog.Int("score", score),
		slog.String("correctedRate", decision.CorrectedInterestRate.String()),
		slog.String("installment", decision.MonthlyInstallment.String()))
	monitoring.RecordDecision(monitoring.OutcomeApproved)
	return decision, nil
}
