package handler_test

import (
	"context"
	"credit-approval/internal/domain/credit"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockCustomerService struct {
	mock.Mock
}

func (_m *MockCustomerService) Register(ctx context.Context, in customer.RegisterInput) (*customer.Customer, error) {
	ret := _m.Called(ctx, in)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) GetCustomer(ctx context.Context, customerID int64) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

var _ customer.CustomerService = (*MockCustomerService)(nil)

type MockCreditService struct {
	mock.Mock
}

func (_m *MockCreditService) CheckEligibility(ctx context.Context, req credit.Request) credit.Decision {
	return _m.Called(ctx, req).Get(0).(credit.Decision)
}

func (_m *MockCreditService) CreateLoan(ctx context.Context, req credit.Request) credit.Issuance {
	return _m.Called(ctx, req).Get(0).(credit.Issuance)
}

var _ credit.CreditService = (*MockCreditService)(nil)

type MockLoanService struct {
	mock.Mock
}

func (_m *MockLoanService) GetLoanDetail(ctx context.Context, loanID int64) (*loan.Loan, *customer.Customer, error) {
	ret := _m.Called(ctx, loanID)

	var r0 *loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.Loan)
	}
	var r1 *customer.Customer
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(*customer.Customer)
	}
	return r0, r1, ret.Error(2)
}

func (_m *MockLoanService) ListCustomerLoans(ctx context.Context, customerID int64) ([]loan.Loan, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]loan.Loan)
	}
	return r0, ret.Error(1)
}

var _ loan.LoanService = (*MockLoanService)(nil)
