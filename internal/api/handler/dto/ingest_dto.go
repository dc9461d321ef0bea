package dto

import "credit-engine/internal/ingest"

type CustomerImportResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Defects int `json:"defects"`
}

type LoanImportResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Defects int `json:"defects"`
}

func NewCustomerImportResponse(s *ingest.CustomerSummary) CustomerImportResponse {
	return CustomerImportResponse{Created: s.Created, Updated: s.Updated, Defects: s.Defects}
}

func NewLoanImportResponse(s *ingest.LoanSummary) LoanImportResponse {
	return LoanImportResponse{Created: s.Created, Updated: s.Updated, Skipped: s.Skipped, Defects: s.Defects}
}
