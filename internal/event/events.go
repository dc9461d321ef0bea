package event

import "time"

type CustomerRegisteredEvent struct {
	Timestamp time.Time       `json:"timestamp"`
	Payload   CustomerPayload `json:"payload"`
}

type CustomerPayload struct {
	CustomerID    int64  `json:"customerId"`
	Name          string `json:"name"`
	MonthlySalary string `json:"monthlySalary"`
	ApprovedLimit string `json:"approvedLimit"`
}

type LoanCreatedEvent struct {
	Timestamp time.Time   `json:"timestamp"`
	Payload   LoanPayload `json:"payload"`
}

type LoanPayload struct {
	LoanID             int64  `json:"loanId"`
	CustomerID         int64  `json:"customerId"`
	Amount             string `json:"amount"`
	InterestRate       string `json:"interestRate"`
	TenureMonths       int    `json:"tenureMonths"`
	MonthlyInstallment string `json:"monthlyInstallment"`
}
