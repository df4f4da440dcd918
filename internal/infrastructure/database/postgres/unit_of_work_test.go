package postgres

import (
	"context"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/pkg/apperrors"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectLockedCustomer(mockPool pgxmock.PgxPoolIface, id int64) {
	created := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	mockPool.ExpectQuery(regexp.QuoteMeta("FROM customers WHERE id = $1 FOR UPDATE")).WithArgs(id).
		WillReturnRows(pgxmock.NewRows(customerCols).AddRow(
			id, "Asha", "Rao", 30, int64(9876543210),
			decimal.NewFromInt(100000), decimal.NewFromInt(3600000), decimal.Zero, created, created))
}

func TestUnitOfWork_WithinCustomerTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits when fn succeeds", func(t *testing.T) {
		mockPool := newMockPool(t)
		uow := NewUnitOfWork(mockPool, logger)

		mockPool.ExpectBegin()
		expectLockedCustomer(mockPool, 4)
		mockPool.ExpectQuery(regexp.QuoteMeta("FROM loans WHERE customer_id = $1")).WithArgs(int64(4)).
			WillReturnRows(pgxmock.NewRows(loanCols))
		mockPool.ExpectCommit()

		var seen *customer.Customer
		err := uow.WithinCustomerTx(ctx, 4, func(ctx context.Context, cust *customer.Customer, loans loan.LoanRepository) error {
			seen = cust
			_, err := loans.ListByCustomer(ctx, cust.CustomerID)
			return err
		})

		require.NoError(t, err)
		assert.Equal(t, int64(4), seen.CustomerID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		mockPool := newMockPool(t)
		uow := NewUnitOfWork(mockPool, logger)

		mockPool.ExpectBegin()
		expectLockedCustomer(mockPool, 4)
		mockPool.ExpectRollback()

		fnErr := errors.New("insert failed")
		err := uow.WithinCustomerTx(ctx, 4, func(context.Context, *customer.Customer, loan.LoanRepository) error {
			return fnErr
		})

		assert.ErrorIs(t, err, fnErr)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("missing customer skips fn", func(t *testing.T) {
		mockPool := newMockPool(t)
		uow := NewUnitOfWork(mockPool, logger)

		mockPool.ExpectBegin()
		mockPool.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WithArgs(int64(9)).WillReturnRows(pgxmock.NewRows(customerCols))
		mockPool.ExpectRollback()

		called := false
		err := uow.WithinCustomerTx(ctx, 9, func(context.Context, *customer.Customer, loan.LoanRepository) error {
			called = true
			return nil
		})

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.False(t, called)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		mockPool := newMockPool(t)
		uow := NewUnitOfWork(mockPool, logger)

		mockPool.ExpectBegin().WillReturnError(errors.New("too many connections"))

		err := uow.WithinCustomerTx(ctx, 4, func(context.Context, *customer.Customer, loan.LoanRepository) error {
			return nil
		})
		assert.ErrorIs(t, err, apperrors.ErrDatabase)
	})

	t.Run("commit failure", func(t *testing.T) {
		mockPool := newMockPool(t)
		uow := NewUnitOfWork(mockPool, logger)

		mockPool.ExpectBegin()
		expectLockedCustomer(mockPool, 4)
		mockPool.ExpectCommit().WillReturnError(errors.New("serialization failure"))
		mockPool.ExpectRollback()

		err := uow.WithinCustomerTx(ctx, 4, func(context.Context, *customer.Customer, loan.LoanRepository) error {
			return nil
		})
		assert.ErrorIs(t, err, apperrors.ErrDatabase)
	})
}
