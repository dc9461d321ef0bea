package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"Customer ID", "customerid"},
		{"customer_id", "customerid"},
		{" Customer-Id ", "customerid"},
		{"EMIs paid on time", "emispaidontime"},
		{"Monthly Payment", "monthlypayment"},
		{"", ""},
		{"___", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, normalizeHeader(tc.in), "input %q", tc.in)
	}
}

func TestResolveColumn(t *testing.T) {
	headers := []string{"Loan ID", " Customer-Id ", "loan amount", "TENURE", "Interest Rate"}

	assert.Equal(t, 1, resolveColumn(headers, customerIDAliases))
	assert.Equal(t, 0, resolveColumn(headers, loanIDAliases))
	assert.Equal(t, 2, resolveColumn(headers, loanAmountAliases))
	assert.Equal(t, 3, resolveColumn(headers, tenureAliases))
	assert.Equal(t, 4, resolveColumn(headers, interestAliases))
	assert.Equal(t, columnNotFound, resolveColumn(headers, endDateAliases))
}

func TestResolveColumnPrefersFirstDuplicate(t *testing.T) {
	headers := []string{"customer id", "Customer ID"}
	assert.Equal(t, 0, resolveColumn(headers, customerIDAliases))
}

func TestResolveCustomerColumns(t *testing.T) {
	headers := []string{"Customer ID", "First Name", "Last Name", "Age", "Phone Number", "Monthly Salary", "Approved Limit"}
	cols := resolveCustomerColumns(headers)

	assert.Equal(t, 0, cols.id)
	assert.Equal(t, 1, cols.firstName)
	assert.Equal(t, 2, cols.lastName)
	assert.Equal(t, 3, cols.age)
	assert.Equal(t, 4, cols.phone)
	assert.Equal(t, 5, cols.salary)
	assert.Equal(t, 6, cols.limit)
}

func TestResolveLoanColumnsWithExportHeaders(t *testing.T) {
	// Headers exactly as the legacy spreadsheet exports spell them.
	headers := []string{"Customer ID", "Loan ID", "Loan Amount", "Tenure", "Interest Rate", "Monthly payment", "EMIs paid on Time", "Date of Approval", "End Date"}
	cols := resolveLoanColumns(headers)

	assert.Equal(t, 0, cols.customerID)
	assert.Equal(t, 1, cols.id)
	assert.Equal(t, 2, cols.amount)
	assert.Equal(t, 3, cols.tenure)
	assert.Equal(t, 4, cols.interest)
	assert.Equal(t, 5, cols.installment)
	assert.Equal(t, 6, cols.emisOnTime)
	assert.Equal(t, 7, cols.startDate)
	assert.Equal(t, 8, cols.endDate)
}
