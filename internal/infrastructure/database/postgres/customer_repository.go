package postgres

import (
	"context"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

const customerColumns = `id, first_name, last_name, age, phone_number, monthly_salary, approved_limit, current_debt, created_at, updated_at`

type CustomerRepository struct {
	db     Querier
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db Querier, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("database handle cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	query := `
        INSERT INTO customers (first_name, last_name, age, phone_number, monthly_salary, approved_limit, current_debt, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	start := time.Now()
	err := r.db.QueryRow(ctx, query,
		cust.FirstName,
		cust.LastName,
		cust.Age,
		cust.PhoneNumber,
		cust.MonthlySalary,
		cust.ApprovedLimit,
		cust.CurrentDebt,
	).Scan(&cust.CustomerID, &cust.CreatedAt, &cust.UpdatedAt)
	recordQuery("InsertCustomer", start, err)

	if err != nil {
		translated := translateDBError(err, r.logger)
		if errors.Is(translated, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Customer insert hit unique constraint", slog.Int64("phoneNumber", cust.PhoneNumber))
			return translated
		}
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert customer: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.Int64("customerID", cust.CustomerID))
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return r.findOne(ctx, "FindCustomerByID", query, customerID)
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (r *CustomerRepository) FindByIDForUpdate(ctx context.Context, customerID int64) (*customer.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 FOR UPDATE`
	return r.findOne(ctx, "LockCustomerByID", query, customerID)
}

func (r *CustomerRepository) findOne(ctx context.Context, name, query string, customerID int64) (*customer.Customer, error) {
	start := time.Now()
	cust, err := scanCustomer(r.db.QueryRow(ctx, query, customerID))
	recordQuery(name, start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Customer not found", slog.Int64("customerID", customerID))
			return nil, fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, customerID)
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan customer by ID", slog.Int64("customerID", customerID), slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer by ID: %w", apperrors.ErrDatabase, err)
	}
	return cust, nil
}

// Upsert writes a customer with an explicit id and reports whether the row was new.
func (r *CustomerRepository) Upsert(ctx context.Context, cust *customer.Customer) (bool, error) {
	query := `
        INSERT INTO customers (id, first_name, last_name, age, phone_number, monthly_salary, approved_limit, current_debt, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        ON CONFLICT (id) DO UPDATE SET
            first_name = EXCLUDED.first_name,
            last_name = EXCLUDED.last_name,
            age = EXCLUDED.age,
            phone_number = EXCLUDED.phone_number,
            monthly_salary = EXCLUDED.monthly_salary,
            approved_limit = EXCLUDED.approved_limit,
            updated_at = NOW()
        RETURNING (xmax = 0)`

	var inserted bool
	start := time.Now()
	err := r.db.QueryRow(ctx, query,
		cust.CustomerID,
		cust.FirstName,
		cust.LastName,
		cust.Age,
		cust.PhoneNumber,
		cust.MonthlySalary,
		cust.ApprovedLimit,
		cust.CurrentDebt,
	).Scan(&inserted)
	recordQuery("UpsertCustomer", start, err)

	if err != nil {
		return false, translateDBError(err, r.logger)
	}
	return inserted, nil
}

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(
		&c.CustomerID,
		&c.FirstName,
		&c.LastName,
		&c.Age,
		&c.PhoneNumber,
		&c.MonthlySalary,
		&c.ApprovedLimit,
		&c.CurrentDebt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
