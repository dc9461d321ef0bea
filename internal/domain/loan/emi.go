package loan

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// ComputeEMI returns the fixed monthly installment for an amortizing loan,
// rounded to 2 decimal places.
//
// The calculation uses:
//
//	monthlyRate = annualRate / 100 / 12
//	installment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// A zero tenure is degenerate and yields zero. A zero rate is an even split
// of the principal with no compounding. The power term is evaluated in
// float64; all monetary arithmetic stays decimal until the final rounding.
func ComputeEMI(principal decimal.Decimal, annualRate decimal.Decimal, tenureMonths int) decimal.Decimal {
	if tenureMonths <= 0 {
		return decimal.Zero
	}
	if annualRate.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(tenureMonths))).Round(2)
	}

	monthlyRate := annualRate.Div(hundred).Div(twelve)
	r := monthlyRate.InexactFloat64()
	factor := math.Pow(1+r, float64(tenureMonths))

	installment := principal.InexactFloat64() * r * factor / (factor - 1)
	return decimal.NewFromFloat(installment).Round(2)
}
