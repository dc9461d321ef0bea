package credit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/pkg/apperrors"
)

const (
	baseScore = 100

	penaltyPoorRepayment = 30
	penaltyFairRepayment = 15
	penaltyManyLoans     = 20
	penaltyBusyLoanYear  = 25

	poorRepaymentRatio = 0.8
	fairRepaymentRatio = 0.9

	maxHistoricalLoans  = 5
	maxCurrentYearLoans = 3
)

// Engine computes creditworthiness scores and eligibility decisions from the
// customer's loan history. It holds no mutable state; all reads go through
// the injected repositories.
type Engine struct {
	customers customer.Repository
	loans     loan.Repository
	logger    *slog.Logger
	now       func() time.Time
}

func NewEngine(customers customer.Repository, loans loan.Repository, logger *slog.Logger) *Engine {
	if customers == nil || loans == nil {
		panic("credit engine repositories cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return &Engine{
		customers: customers,
		loans:     loans,
		logger:    logger.With(slog.String("component", "creditEngine")),
		now:       time.Now,
	}
}

// Score returns a creditworthiness score in [0, 100] for the customer.
//
// An unknown customer scores 0, as does any customer whose current debt has
// breached the approved limit; both checks are terminal and skip the history
// components. Otherwise the score starts at 100 and loses points for a weak
// on-time repayment ratio, a long loan history, and heavy activity in the
// current calendar year. A loan-approved-volume component is deliberately
// absent: upstream policy never defined it.
func (e *Engine) Score(ctx context.Context, customerID int64) (int, error) {
	logCtx := e.logger.With(slog.Int64("customerID", customerID))

	cust, err := e.customers.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Scoring unknown customer as zero")
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load customer for scoring: %w", err)
	}

	if cust.OverLimit() {
		logCtx.InfoContext(ctx, "Debt over approved limit, score forced to zero",
			slog.String("currentDebt", cust.CurrentDebt.String()),
			slog.String("approvedLimit", cust.ApprovedLimit.String()))
		return 0, nil
	}

	loans, err := e.loans.FindByCustomer(ctx, customerID)
	if err != nil {
		return 0, fmt.Errorf("failed to load loan history for scoring: %w", err)
	}

	score := baseScore

	var totalTenure, totalOnTime int
	for _, l := range loans {
		totalTenure += l.TenureMonths
		totalOnTime += l.EMIsPaidOnTime
	}
	if totalTenure > 0 {
		ratio := float64(totalOnTime) / float64(totalTenure)
		switch {
		case ratio < poorRepaymentRatio:
			score -= penaltyPoorRepayment
		case ratio < fairRepaymentRatio:
			score -= penaltyFairRepayment
		}
	}

	if len(loans) > maxHistoricalLoans {
		score -= penaltyManyLoans
	}

	currentYear := e.now().Year()
	currentYearLoans := 0
	for _, l := range loans {
		if l.StartDate.Year() == currentYear {
			currentYearLoans++
		}
	}
	if currentYearLoans > maxCurrentYearLoans {
		score -= penaltyBusyLoanYear
	}

	if score < 0 {
		score = 0
	}

	logCtx.InfoContext(ctx, "Credit score computed",
		slog.Int("score", score),
		slog.Int("loanCount", len(loans)),
		slog.Int("currentYearLoans", currentYearLoans))
	return score, nil
}
