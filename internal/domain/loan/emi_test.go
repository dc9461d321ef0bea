package loan_test

import (
	"testing"

	"credit-engine/internal/domain/loan"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeEMI(t *testing.T) {
	t.Run("zero rate splits principal evenly", func(t *testing.T) {
		emi := loan.ComputeEMI(decimal.NewFromInt(1200), decimal.Zero, 12)
		assert.Equal(t, "100.00", emi.StringFixed(2))
	})

	t.Run("zero rate rounds non-terminating split", func(t *testing.T) {
		emi := loan.ComputeEMI(decimal.NewFromInt(1000), decimal.Zero, 3)
		assert.Equal(t, "333.33", emi.StringFixed(2))
	})

	t.Run("standard amortization", func(t *testing.T) {
		// 100000 at 10% over 12 months is the textbook 8791.59.
		emi := loan.ComputeEMI(decimal.NewFromInt(100000), decimal.NewFromInt(10), 12)
		assert.Equal(t, "8791.59", emi.StringFixed(2))
	})

	t.Run("higher rate yields higher installment", func(t *testing.T) {
		low := loan.ComputeEMI(decimal.NewFromInt(100000), decimal.NewFromInt(10), 12)
		high := loan.ComputeEMI(decimal.NewFromInt(100000), decimal.NewFromInt(16), 12)
		assert.True(t, high.GreaterThan(low))
	})

	t.Run("zero tenure is degenerate", func(t *testing.T) {
		emi := loan.ComputeEMI(decimal.NewFromInt(100000), decimal.NewFromInt(10), 0)
		assert.True(t, emi.IsZero())
	})

	t.Run("negative tenure is degenerate", func(t *testing.T) {
		emi := loan.ComputeEMI(decimal.NewFromInt(100000), decimal.NewFromInt(10), -3)
		assert.True(t, emi.IsZero())
	})

	t.Run("installments roughly repay principal plus interest", func(t *testing.T) {
		principal := decimal.NewFromInt(100000)
		emi := loan.ComputeEMI(principal, decimal.NewFromInt(10), 12)
		total := emi.Mul(decimal.NewFromInt(12))
		assert.True(t, total.GreaterThan(principal))
		assert.True(t, total.LessThan(principal.Mul(decimal.NewFromFloat(1.1))))
	})
}
