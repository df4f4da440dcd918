package loan

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, l *Loan) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLoanRepository) FindByID(ctx context.Context, loanID int64) (*Loan, error) {
	args := m.Called(ctx, loanID)
	var r0 *Loan
	if args.Get(0) != nil {
		r0 = args.Get(0).(*Loan)
	}
	return r0, args.Error(1)
}

func (m *MockLoanRepository) ListByCustomer(ctx context.Context, customerID int64) ([]Loan, error) {
	args := m.Called(ctx, customerID)
	var r0 []Loan
	if args.Get(0) != nil {
		r0 = args.Get(0).([]Loan)
	}
	return r0, args.Error(1)
}

var _ LoanRepository = (*MockLoanRepository)(nil)
