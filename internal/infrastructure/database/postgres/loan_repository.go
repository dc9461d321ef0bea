package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"credit-engine/internal/domain/loan"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
)

type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

var errMsgFormat = "%w: %w"

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

const loanColumnsSQL = `loan_id, customer_id, amount, tenure_months, interest_rate, monthly_installment, emis_paid_on_time, start_date, end_date, created_at, updated_at`

// Upsert writes the loan keyed on its external ID. Every mapped field is
// overwritten, including the owning customer; re-running an import converges
// on the sheet's final state.
func (r *LoanRepository) Upsert(ctx context.Context, l *loan.Loan) (bool, error) {
	sql := `
        INSERT INTO loans (loan_id, customer_id, amount, tenure_months, interest_rate, monthly_installment, emis_paid_on_time, start_date, end_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
        ON CONFLICT (loan_id) DO UPDATE SET
            customer_id = EXCLUDED.customer_id,
            amount = EXCLUDED.amount,
            tenure_months = EXCLUDED.tenure_months,
            interest_rate = EXCLUDED.interest_rate,
            monthly_installment = EXCLUDED.monthly_installment,
            emis_paid_on_time = EXCLUDED.emis_paid_on_time,
            start_date = EXCLUDED.start_date,
            end_date = EXCLUDED.end_date,
            updated_at = NOW()
        RETURNING (xmax = 0) AS inserted`

	status := "success"
	startTime := time.Now()

	var inserted bool
	err := r.db.QueryRow(ctx, sql,
		l.LoanID, l.CustomerID, l.Amount, l.TenureMonths, l.InterestRate,
		l.MonthlyInstallment, l.EMIsPaidOnTime, l.StartDate, l.EndDate,
	).Scan(&inserted)

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("UpsertLoan", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to upsert loan", "loan_id", l.LoanID, "error", err)
		return false, translateDBError(err, r.logger)
	}
	return inserted, nil
}

// CreateApproved inserts a freshly approved loan and increments the owning
// customer's current debt by the principal, atomically. A zero-row customer
// update aborts the transaction so the loan never exists without its debt
// entry.
func (r *LoanRepository) CreateApproved(ctx context.Context, l *loan.Loan) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			r.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", rbErr)
		}
	}()

	insertSQL := `
        INSERT INTO loans (loan_id, customer_id, amount, tenure_months, interest_rate, monthly_installment, emis_paid_on_time, start_date, end_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`

	if _, err := tx.Exec(ctx, insertSQL,
		l.LoanID, l.CustomerID, l.Amount, l.TenureMonths, l.InterestRate,
		l.MonthlyInstallment, l.EMIsPaidOnTime, l.StartDate, l.EndDate,
	); err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", "loan_id", l.LoanID, "error", err)
		return translateDBError(err, r.logger)
	}

	debtSQL := `
        UPDATE customers
        SET current_debt = current_debt + $1, updated_at = NOW()
        WHERE customer_id = $2`

	cmdTag, err := tx.Exec(ctx, debtSQL, l.Amount, l.CustomerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to increment customer debt", "customer_id", l.CustomerID, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.ErrorContext(ctx, "Debt increment matched no customer", "customer_id", l.CustomerID)
		return fmt.Errorf("%w: customer %d not found while creating loan", apperrors.ErrNotFound, l.CustomerID)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", l.LoanID, "customer_id", l.CustomerID)
	return nil
}

func (r *LoanRepository) FindByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	query := `
        SELECT ` + loanColumnsSQL + `
        FROM loans
        WHERE loan_id = $1`
	status := "success"
	startTime := time.Now()

	var l loan.Loan
	err := r.db.QueryRow(ctx, query, loanID).Scan(
		&l.LoanID, &l.CustomerID, &l.Amount, &l.TenureMonths, &l.InterestRate,
		&l.MonthlyInstallment, &l.EMIsPaidOnTime, &l.StartDate, &l.EndDate,
		&l.CreatedAt, &l.UpdatedAt,
	)

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("GetLoanByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get loan by ID", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &l, nil
}

func (r *LoanRepository) FindByCustomer(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	query := `
        SELECT ` + loanColumnsSQL + `
        FROM loans
        WHERE customer_id = $1
        ORDER BY loan_id`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customer loans", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loans := make([]*loan.Loan, 0)
	for rows.Next() {
		var l loan.Loan
		err := rows.Scan(
			&l.LoanID, &l.CustomerID, &l.Amount, &l.TenureMonths, &l.InterestRate,
			&l.MonthlyInstallment, &l.EMIsPaidOnTime, &l.StartDate, &l.EndDate,
			&l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan loan row", "customer_id", customerID, "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		loans = append(loans, &l)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating loan rows", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return loans, nil
}

// SumActiveInstallments totals monthly installments for the customer's loans
// still running as of asOf. COALESCE keeps the no-loans case a plain zero.
func (r *LoanRepository) SumActiveInstallments(ctx context.Context, customerID int64, asOf time.Time) (decimal.Decimal, error) {
	query := `
        SELECT COALESCE(SUM(monthly_installment), 0)
        FROM loans
        WHERE customer_id = $1 AND end_date >= $2`
	status := "success"
	startTime := time.Now()

	var total decimal.Decimal
	err := r.db.QueryRow(ctx, query, customerID, asOf).Scan(&total)

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("SumActiveInstallments", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to sum active installments", "customer_id", customerID, "error", err)
		return decimal.Zero, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return total, nil
}

func (r *LoanRepository) NextID(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(MAX(loan_id), 0) + 1 FROM loans`

	var next int64
	if err := r.db.QueryRow(ctx, query).Scan(&next); err != nil {
		r.logger.ErrorContext(ctx, "Failed to allocate next loan ID", "error", err)
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return next, nil
}

func translateDBError(err error, contextLogger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			contextLogger.Warn("Database unique constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyExists, pgErr.ConstraintName)
		}
		if pgErr.Code == "23503" {
			contextLogger.Warn("Database foreign key violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrConflict, pgErr.ConstraintName)
		}
		contextLogger.Error("PostgreSQL specific error", "code", pgErr.Code, "message", pgErr.Message, "detail", pgErr.Detail)
		return fmt.Errorf("%w: db error code %s", apperrors.ErrDatabase, pgErr.Code)
	}

	contextLogger.Error("Generic database error", "error", err)
	return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
}
