package postgres

import (
	"context"
	"credit-approval/internal/domain/credit"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

type UnitOfWork struct {
	db     DBPool
	logger *slog.Logger
}

var _ credit.UnitOfWork = (*UnitOfWork)(nil)

func NewUnitOfWork(db DBPool, logger *slog.Logger) *UnitOfWork {
	if logger == nil {
		logger = slog.Default()
	}
	return &UnitOfWork{db: db, logger: logger.With("component", "UnitOfWork")}
}

// WithinCustomerTx locks the customer row with SELECT ... FOR UPDATE so that
// concurrent issuances for one customer see each other's loans.
func (u *UnitOfWork) WithinCustomerTx(ctx context.Context, customerID int64, fn func(ctx context.Context, cust *customer.Customer, loans loan.LoanRepository) error) (err error) {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		u.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			u.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", rbErr)
		}
	}()

	cust, err := NewCustomerRepository(tx, u.logger).FindByIDForUpdate(ctx, customerID)
	if err != nil {
		return err
	}

	if err = fn(ctx, cust, NewLoanRepository(tx, u.logger)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		u.logger.ErrorContext(ctx, "Failed to commit transaction", "customer_id", customerID, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}
