package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"credit-engine/internal/api/handler/dto"
	"credit-engine/internal/ingest"
	"credit-engine/internal/pkg/apperrors"
)

// 32 MB, enough for the spreadsheet exports this service receives.
const maxUploadMemory = 32 << 20

type IngestHandler struct {
	reconciler *ingest.Reconciler
	logger     *slog.Logger
}

func NewIngestHandler(rec *ingest.Reconciler, l *slog.Logger) *IngestHandler {
	return &IngestHandler{
		reconciler: rec,
		logger:     l.With("component", "IngestHandler"),
	}
}

// ImportCustomers ingests an uploaded customer workbook.
//
// @Summary Bulk-import customers from a spreadsheet
// @Description Accepts a multipart upload (field "file", .xlsx or .csv) and upserts every row keyed on customer ID. Unparsable numeric fields are null-filled and counted as defects.
// @Tags Ingest
// @Accept mpfd
// @Produce json
// @Param file formData file true "Customer workbook (.xlsx or .csv)"
// @Success 200 {object} dto.CustomerImportResponse "Import summary"
// @Failure 400 {object} dto.ErrorResponse "Missing file, unsupported format or unresolvable customer ID column"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /ingest/customers [post]
// @Security BearerAuth
func (h *IngestHandler) ImportCustomers(w http.ResponseWriter, r *http.Request) {
	t, err := h.uploadedTable(r)
	if err != nil {
		respondError(w, err)
		return
	}

	summary, err := h.reconciler.ImportCustomers(r.Context(), t)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCustomerImportResponse(summary))
}

// ImportLoans ingests an uploaded loan workbook.
//
// @Summary Bulk-import loans from a spreadsheet
// @Description Accepts a multipart upload (field "file", .xlsx or .csv) and upserts every row keyed on loan ID. Rows missing identifiers or referencing unknown customers are skipped and counted.
// @Tags Ingest
// @Accept mpfd
// @Produce json
// @Param file formData file true "Loan workbook (.xlsx or .csv)"
// @Success 200 {object} dto.LoanImportResponse "Import summary"
// @Failure 400 {object} dto.ErrorResponse "Missing file, unsupported format or unresolvable customer ID column"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /ingest/loans [post]
// @Security BearerAuth
func (h *IngestHandler) ImportLoans(w http.ResponseWriter, r *http.Request) {
	t, err := h.uploadedTable(r)
	if err != nil {
		respondError(w, err)
		return
	}

	summary, err := h.reconciler.ImportLoans(r.Context(), t)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanImportResponse(summary))
}

func (h *IngestHandler) uploadedTable(r *http.Request) (*ingest.Table, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, fmt.Errorf("%w: failed to parse multipart form: %v", apperrors.ErrInvalidArgument, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: missing \"file\" form field: %v", apperrors.ErrInvalidArgument, err)
	}
	defer file.Close()

	h.logger.InfoContext(r.Context(), "Received workbook upload",
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size))

	t, err := ingest.ReadTable(file, header.Filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}
	return t, nil
}
