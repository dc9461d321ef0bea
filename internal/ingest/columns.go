package ingest

import (
	"strings"
	"unicode"
)

// Header aliases for every canonical field, in preference order. These must
// stay byte-compatible with the spreadsheet exports already in circulation;
// matching is case-insensitive and ignores non-alphanumeric characters, so
// "Customer ID", "customer_id" and "Customer-Id " all resolve identically.
var (
	customerIDAliases = []string{"Customer ID", "Customer", "customer_id", "customer id"}
	firstNameAliases  = []string{"First Name", "first_name", "Firstname", "first name"}
	lastNameAliases   = []string{"Last Name", "last_name", "Lastname", "last name"}
	ageAliases        = []string{"Age", "age"}
	phoneAliases      = []string{"Phone Number", "Phone", "phone_number", "phone"}
	salaryAliases     = []string{"Monthly Salary", "MonthlySalary", "monthly_salary", "salary"}
	limitAliases      = []string{"Approved Limit", "approved_limit", "ApprovedLimit"}

	loanIDAliases      = []string{"Loan ID", "LoanId", "loan_id", "Loan Id", "loan id"}
	loanAmountAliases  = []string{"Loan Amount", "Amount", "loan_amount", "loan amount"}
	tenureAliases      = []string{"Tenure", "tenure"}
	interestAliases    = []string{"Interest Rate", "Interest", "interest_rate"}
	installmentAliases = []string{"Monthly Payment", "MonthlyPayment", "monthly_repayment", "monthly payment"}
	emisOnTimeAliases  = []string{"EMIs paid on time", "EMIs Paid On Time", "emis_paid_on_time", "emis paid on time"}
	startDateAliases   = []string{"Date of Approval", "Start Date", "start_date", "date"}
	endDateAliases     = []string{"End Date", "end_date"}
)

// normalizeHeader lower-cases the header and strips everything that is not a
// letter or digit.
func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

const columnNotFound = -1

// resolveColumn returns the index of the first header matching any alias, or
// columnNotFound. Resolution happens once per import run, never per row.
func resolveColumn(headers []string, aliases []string) int {
	normalized := make(map[string]int, len(headers))
	for i, h := range headers {
		key := normalizeHeader(h)
		if _, seen := normalized[key]; !seen {
			normalized[key] = i
		}
	}
	for _, alias := range aliases {
		if i, ok := normalized[normalizeHeader(alias)]; ok {
			return i
		}
	}
	return columnNotFound
}

// customerColumns holds the per-run resolution for a customer sheet.
type customerColumns struct {
	id, firstName, lastName, age, phone, salary, limit int
}

func resolveCustomerColumns(headers []string) customerColumns {
	return customerColumns{
		id:        resolveColumn(headers, customerIDAliases),
		firstName: resolveColumn(headers, firstNameAliases),
		lastName:  resolveColumn(headers, lastNameAliases),
		age:       resolveColumn(headers, ageAliases),
		phone:     resolveColumn(headers, phoneAliases),
		salary:    resolveColumn(headers, salaryAliases),
		limit:     resolveColumn(headers, limitAliases),
	}
}

// loanColumns holds the per-run resolution for a loan sheet.
type loanColumns struct {
	customerID, id, amount, tenure, interest, installment, emisOnTime, startDate, endDate int
}

func resolveLoanColumns(headers []string) loanColumns {
	return loanColumns{
		customerID:  resolveColumn(headers, customerIDAliases),
		id:          resolveColumn(headers, loanIDAliases),
		amount:      resolveColumn(headers, loanAmountAliases),
		tenure:      resolveColumn(headers, tenureAliases),
		interest:    resolveColumn(headers, interestAliases),
		installment: resolveColumn(headers, installmentAliases),
		emisOnTime:  resolveColumn(headers, emisOnTimeAliases),
		startDate:   resolveColumn(headers, startDateAliases),
		endDate:     resolveColumn(headers, endDateAliases),
	}
}
