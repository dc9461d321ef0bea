package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

// CustomerSummary aggregates one customer import run. Defects counts soft
// field problems that were null-filled, not failed rows.
type CustomerSummary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Defects int `json:"defects"`
}

// LoanSummary aggregates one loan import run.
type LoanSummary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Defects int `json:"defects"`
}

// Reconciler turns raw spreadsheet rows into canonical records and upserts
// them. Bulk imports come from uncontrolled exports with inconsistent headers
// and occasional bad rows, so the reconciler makes progress on the
// well-formed majority: a structurally missing identifier column aborts the
// whole batch, everything else degrades per row or per field.
type Reconciler struct {
	customers customer.Repository
	loans     loan.Repository
	logger    *slog.Logger
}

func NewReconciler(customers customer.Repository, loans loan.Repository, logger *slog.Logger) *Reconciler {
	if customers == nil || loans == nil {
		panic("reconciler repositories cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return &Reconciler{
		customers: customers,
		loans:     loans,
		logger:    logger.With(slog.String("component", "reconciler")),
	}
}

// ImportCustomers upserts every row of a customer sheet, keyed on customer
// ID. Missing optional fields become explicit unknowns; unparsable numeric
// fields are null-filled and logged as defects. If the customer ID column
// itself cannot be resolved the whole import aborts before any write.
func (r *Reconciler) ImportCustomers(ctx context.Context, t *Table) (*CustomerSummary, error) {
	cols := resolveCustomerColumns(t.Headers)
	if cols.id == columnNotFound {
		r.logger.ErrorContext(ctx, "Customer ID column not found, aborting import")
		return nil, fmt.Errorf("%w: customer id column missing", apperrors.ErrImportAborted)
	}

	summary := &CustomerSummary{}
	for i, row := range t.Rows {
		rowNum := i + 2 // 1-based, after the header row

		customerID, ok := parseID(t.cell(row, cols.id))
		if !ok {
			r.recordDefect(ctx, &summary.Defects, rowNum, "customer_id", t.cell(row, cols.id))
			continue
		}

		var age *int
		if v := strings.TrimSpace(t.cell(row, cols.age)); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				age = &n
			} else {
				r.recordDefect(ctx, &summary.Defects, rowNum, "age", v)
			}
		}

		cust := &customer.Customer{
			CustomerID:    customerID,
			FirstName:     strings.TrimSpace(t.cell(row, cols.firstName)),
			LastName:      strings.TrimSpace(t.cell(row, cols.lastName)),
			Age:           age,
			PhoneNumber:   strings.TrimSpace(t.cell(row, cols.phone)),
			MonthlySalary: r.coerceDecimal(ctx, &summary.Defects, rowNum, "monthly_salary", t.cell(row, cols.salary)),
			ApprovedLimit: r.coerceDecimal(ctx, &summary.Defects, rowNum, "approved_limit", t.cell(row, cols.limit)),
		}

		created, err := r.customers.Upsert(ctx, cust)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert customer %d (row %d): %w", customerID, rowNum, err)
		}
		if created {
			summary.Created++
			monitoring.RecordImportRow("customer", "created")
		} else {
			summary.Updated++
			monitoring.RecordImportRow("customer", "updated")
		}
	}

	r.logger.InfoContext(ctx, "Customer import finished",
		slog.Int("created", summary.Created),
		slog.Int("updated", summary.Updated),
		slog.Int("defects", summary.Defects))
	return summary, nil
}

// ImportLoans upserts every row of a loan sheet, keyed on loan ID. A row
// missing its customer ID, referencing an unknown customer, or missing its
// loan ID is skipped and counted; the batch continues. A sheet without a
// resolvable customer ID column aborts before any write.
func (r *Reconciler) ImportLoans(ctx context.Context, t *Table) (*LoanSummary, error) {
	cols := resolveLoanColumns(t.Headers)
	if cols.customerID == columnNotFound {
		r.logger.ErrorContext(ctx, "Customer ID column not found, aborting loan import")
		return nil, fmt.Errorf("%w: customer id column missing", apperrors.ErrImportAborted)
	}

	summary := &LoanSummary{}
	for i, row := range t.Rows {
		rowNum := i + 2

		customerID, ok := parseID(t.cell(row, cols.customerID))
		if !ok {
			r.logger.WarnContext(ctx, "Skipping loan row with missing customer id", slog.Int("row", rowNum))
			r.skip(summary)
			continue
		}

		if _, err := r.customers.FindByID(ctx, customerID); err != nil {
			if errors.Is(err, customer.ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
				r.logger.WarnContext(ctx, "Skipping loan row for unknown customer",
					slog.Int("row", rowNum), slog.Int64("customerID", customerID))
				r.skip(summary)
				continue
			}
			return nil, fmt.Errorf("failed to resolve customer %d (row %d): %w", customerID, rowNum, err)
		}

		loanID, ok := parseID(t.cell(row, cols.id))
		if !ok {
			r.logger.WarnContext(ctx, "Skipping loan row with missing loan id",
				slog.Int("row", rowNum), slog.Int64("customerID", customerID))
			r.skip(summary)
			continue
		}

		l := &loan.Loan{
			LoanID:             loanID,
			CustomerID:         customerID,
			Amount:             r.coerceDecimal(ctx, &summary.Defects, rowNum, "loan_amount", t.cell(row, cols.amount)),
			TenureMonths:       r.coerceInt(ctx, &summary.Defects, rowNum, "tenure", t.cell(row, cols.tenure)),
			InterestRate:       r.coerceDecimal(ctx, &summary.Defects, rowNum, "interest_rate", t.cell(row, cols.interest)),
			MonthlyInstallment: r.coerceDecimal(ctx, &summary.Defects, rowNum, "monthly_repayment", t.cell(row, cols.installment)),
			EMIsPaidOnTime:     r.coerceInt(ctx, &summary.Defects, rowNum, "emis_paid_on_time", t.cell(row, cols.emisOnTime)),
			StartDate:          r.coerceDate(ctx, &summary.Defects, rowNum, "start_date", t.cell(row, cols.startDate)),
			EndDate:            r.coerceDate(ctx, &summary.Defects, rowNum, "end_date", t.cell(row, cols.endDate)),
		}

		if l.EMIsPaidOnTime > l.TenureMonths {
			// Preserved as-is; the importer never invents corrections.
			r.recordDefect(ctx, &summary.Defects, rowNum, "emis_paid_on_time",
				fmt.Sprintf("%d exceeds tenure %d", l.EMIsPaidOnTime, l.TenureMonths))
		}

		created, err := r.loans.Upsert(ctx, l)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert loan %d (row %d): %w", loanID, rowNum, err)
		}
		if created {
			summary.Created++
			monitoring.RecordImportRow("loan", "created")
		} else {
			summary.Updated++
			monitoring.RecordImportRow("loan", "updated")
		}
	}

	r.logger.InfoContext(ctx, "Loan import finished",
		slog.Int("created", summary.Created),
		slog.Int("updated", summary.Updated),
		slog.Int("skipped", summary.Skipped),
		slog.Int("defects", summary.Defects))
	return summary, nil
}

func (r *Reconciler) skip(summary *LoanSummary) {
	summary.Skipped++
	monitoring.RecordImportRow("loan", "skipped")
}

func (r *Reconciler) recordDefect(ctx context.Context, counter *int, rowNum int, field, value string) {
	*counter++
	monitoring.RecordImportDefect(field)
	r.logger.WarnContext(ctx, "Import field defect",
		slog.Int("row", rowNum),
		slog.String("field", field),
		slog.String("value", value))
}

// coerceDecimal null-fills unparsable numeric cells: the row survives, the
// field becomes zero, and the defect is recorded for debuggability.
func (r *Reconciler) coerceDecimal(ctx context.Context, counter *int, rowNum int, field, raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		r.recordDefect(ctx, counter, rowNum, field, raw)
		return decimal.Zero
	}
	return d
}

func (r *Reconciler) coerceInt(ctx context.Context, counter *int, rowNum int, field, raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		r.recordDefect(ctx, counter, rowNum, field, raw)
		return 0
	}
	return n
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-2006",
	"01/02/2006",
	"1/2/06",
}

func (r *Reconciler) coerceDate(ctx context.Context, counter *int, rowNum int, field, raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d
		}
	}
	r.recordDefect(ctx, counter, rowNum, field, raw)
	return time.Time{}
}

// parseID reads an integer identifier, tolerating the "123.0" rendering some
// spreadsheet tools produce for numeric cells.
func parseID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, true
	}
	if d, err := decimal.NewFromString(raw); err == nil && d.IsInteger() {
		return d.IntPart(), true
	}
	return 0, false
}
