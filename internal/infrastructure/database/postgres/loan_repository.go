package postgres

import (
	"context"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

const loanColumns = `id, customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, created_at, updated_at`

type LoanRepository struct {
	db     Querier
	logger *slog.Logger
}

var _ loan.LoanRepository = (*LoanRepository)(nil)

func NewLoanRepository(db Querier, logger *slog.Logger) *LoanRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

func (r *LoanRepository) Create(ctx context.Context, l *loan.Loan) error {
	if l == nil {
		return fmt.Errorf("%w: loan cannot be nil", apperrors.ErrInvalidArgument)
	}

	query := `
        INSERT INTO loans (customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	start := time.Now()
	err := r.db.QueryRow(ctx, query,
		l.CustomerID,
		l.Amount,
		l.Tenure,
		l.InterestRate,
		l.MonthlyRepayment,
		l.EMIsPaidOnTime,
		l.StartDate,
		l.EndDate,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	recordQuery("InsertLoan", start, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", "customer_id", l.CustomerID, "error", err)
		return translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Loan inserted", "loan_id", l.ID, "customer_id", l.CustomerID)
	return nil
}

func (r *LoanRepository) FindByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	start := time.Now()
	l, err := scanLoan(r.db.QueryRow(ctx, query, loanID))
	recordQuery("FindLoanByID", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, fmt.Errorf("%w: loan %d", apperrors.ErrNotFound, loanID)
		}
		r.logger.ErrorContext(ctx, "Failed to get loan by ID", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return l, nil
}

func (r *LoanRepository) ListByCustomer(ctx context.Context, customerID int64) ([]loan.Loan, error) {
	logCtx := r.logger.With(slog.String("operation", "ListByCustomer"), slog.Int64("customer_id", customerID))
	query := `SELECT ` + loanColumns + ` FROM loans WHERE customer_id = $1 ORDER BY id`

	start := time.Now()
	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		recordQuery("ListLoansByCustomer", start, err)
		logCtx.ErrorContext(ctx, "Failed to query loans", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query loans: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loans := make([]loan.Loan, 0)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			recordQuery("ListLoansByCustomer", start, err)
			logCtx.ErrorContext(ctx, "Failed to scan loan row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan loan row: %w", apperrors.ErrDatabase, err)
		}
		loans = append(loans, *l)
	}
	err = rows.Err()
	recordQuery("ListLoansByCustomer", start, err)
	if err != nil {
		logCtx.ErrorContext(ctx, "Error iterating loan rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating loan rows: %w", apperrors.ErrDatabase, err)
	}

	logCtx.DebugContext(ctx, "Loaded loan history", slog.Int("count", len(loans)))
	return loans, nil
}

// Upsert writes a loan with an explicit id and reports whether the row was new.
func (r *LoanRepository) Upsert(ctx context.Context, l *loan.Loan) (bool, error) {
	query := `
        INSERT INTO loans (id, customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
        ON CONFLICT (id) DO UPDATE SET
            customer_id = EXCLUDED.customer_id,
            loan_amount = EXCLUDED.loan_amount,
            tenure = EXCLUDED.tenure,
            interest_rate = EXCLUDED.interest_rate,
            monthly_repayment = EXCLUDED.monthly_repayment,
            emis_paid_on_time = EXCLUDED.emis_paid_on_time,
            start_date = EXCLUDED.start_date,
            end_date = EXCLUDED.end_date,
            updated_at = NOW()
        RETURNING (xmax = 0)`

	var inserted bool
	start := time.Now()
	err := r.db.QueryRow(ctx, query,
		l.ID,
		l.CustomerID,
		l.Amount,
		l.Tenure,
		l.InterestRate,
		l.MonthlyRepayment,
		l.EMIsPaidOnTime,
		l.StartDate,
		l.EndDate,
	).Scan(&inserted)
	recordQuery("UpsertLoan", start, err)

	if err != nil {
		return false, translateDBError(err, r.logger)
	}
	return inserted, nil
}

func scanLoan(row pgx.Row) (*loan.Loan, error) {
	var l loan.Loan
	err := row.Scan(
		&l.ID,
		&l.CustomerID,
		&l.Amount,
		&l.Tenure,
		&l.InterestRate,
		&l.MonthlyRepayment,
		&l.EMIsPaidOnTime,
		&l.StartDate,
		&l.EndDate,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
