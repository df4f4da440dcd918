package loan

import (
	"credit-approval/internal/pkg/apperrors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinTenure = 1
	MaxTenure = 60
)

type Loan struct {
	ID               int64
	CustomerID       int64
	Amount           decimal.Decimal
	Tenure           int
	InterestRate     decimal.Decimal
	MonthlyRepayment decimal.Decimal
	EMIsPaidOnTime   int
	StartDate        time.Time
	EndDate          time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewLoan builds an unsaved loan starting on start. The installment is
// taken as given; callers compute it with MonthlyInstallment.
func NewLoan(customerID int64, amount decimal.Decimal, tenure int, rate, installment decimal.Decimal, start time.Time) (*Loan, error) {
	if customerID <= 0 {
		return nil, apperrors.NewValidationError("customer_id", "must be a positive integer")
	}
	if !amount.IsPositive() {
		return nil, apperrors.NewValidationError("loan_amount", "must be greater than zero")
	}
	if tenure < MinTenure || tenure > MaxTenure {
		return nil, apperrors.NewValidationError("tenure", "must be between 1 and 60 months")
	}
	if rate.IsNegative() {
		return nil, apperrors.NewValidationError("interest_rate", "cannot be negative")
	}

	start = DateOf(start)
	now := time.Now()
	return &Loan{
		CustomerID:       customerID,
		Amount:           amount,
		Tenure:           tenure,
		InterestRate:     rate,
		MonthlyRepayment: installment,
		StartDate:        start,
		EndDate:          EndDate(start, tenure),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// IsActive reports whether the calendar date of now is on or before the end date.
func (l *Loan) IsActive(now time.Time) bool {
	return !DateOf(now).After(DateOf(l.EndDate))
}

// RepaymentsLeft is not clamped; ingested data may have more paid EMIs than tenure.
func (l *Loan) RepaymentsLeft() int {
	return l.Tenure - l.EMIsPaidOnTime
}

func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
