package customer_test

import (
	"testing"

	"credit-engine/internal/domain/customer"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestApprovedLimitFor(t *testing.T) {
	cases := []struct {
		name     string
		income   int64
		expected int64
	}{
		{"exact lakh multiple", 50000, 1_800_000},
		{"rounds up", 85000, 3_100_000},
		{"rounds down", 51388, 1_800_000},
		{"small income rounds to zero", 1000, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			limit := customer.ApprovedLimitFor(decimal.NewFromInt(tc.income))
			assert.True(t, limit.Equal(decimal.NewFromInt(tc.expected)),
				"expected %d, got %s", tc.expected, limit.String())
		})
	}
}

func TestNewCustomer(t *testing.T) {
	age := 30
	c := customer.NewCustomer(1, "Aarav", "Sharma", &age, "9998887776", decimal.NewFromInt(50000))

	assert.Equal(t, int64(1), c.CustomerID)
	assert.True(t, c.CurrentDebt.IsZero())
	assert.True(t, c.ApprovedLimit.Equal(decimal.NewFromInt(1_800_000)))
	assert.Equal(t, "Aarav Sharma", c.FullName())
	assert.False(t, c.CreatedAt.IsZero())
}

func TestFullNameWithMissingParts(t *testing.T) {
	c := &customer.Customer{FirstName: "Aarav"}
	assert.Equal(t, "Aarav", c.FullName())

	c = &customer.Customer{}
	assert.Equal(t, "", c.FullName())
}

func TestOverLimit(t *testing.T) {
	c := &customer.Customer{
		ApprovedLimit: decimal.NewFromInt(100000),
		CurrentDebt:   decimal.NewFromInt(100000),
	}
	// Debt exactly at the limit is not a breach.
	assert.False(t, c.OverLimit())

	c.CurrentDebt = decimal.NewFromInt(100001)
	assert.True(t, c.OverLimit())
}
