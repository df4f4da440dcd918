package credit

import (
	"context"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/event"
	"credit-approval/internal/pkg/apperrors"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeCustomers struct {
	byID map[int64]*customer.Customer
	err  error
}

func (f *fakeCustomers) Save(_ context.Context, c *customer.Customer) error {
	c.CustomerID = int64(len(f.byID) + 1)
	f.byID[c.CustomerID] = c
	return nil
}

func (f *fakeCustomers) FindByID(_ context.Context, id int64) (*customer.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, id)
	}
	return c, nil
}

type fakeLoans struct {
	loans     []loan.Loan
	nextID    int64
	listErr   error
	createErr error
}

func (f *fakeLoans) Create(_ context.Context, l *loan.Loan) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	l.ID = f.nextID
	f.loans = append(f.loans, *l)
	return nil
}

func (f *fakeLoans) FindByID(_ context.Context, id int64) (*loan.Loan, error) {
	for i := range f.loans {
		if f.loans[i].ID == id {
			return &f.loans[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeLoans) ListByCustomer(_ context.Context, customerID int64) ([]loan.Loan, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []loan.Loan
	for _, l := range f.loans {
		if l.CustomerID == customerID {
			out = append(out, l)
		}
	}
	return out, nil
}

// fakeUnitOfWork serializes callers like a row lock and only keeps writes
// when fn succeeds.
type fakeUnitOfWork struct {
	mu        sync.Mutex
	customers *fakeCustomers
	loans     *fakeLoans
	commitErr error
}

func (u *fakeUnitOfWork) WithinCustomerTx(ctx context.Context, customerID int64, fn func(context.Context, *customer.Customer, loan.LoanRepository) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	cust, err := u.customers.FindByID(ctx, customerID)
	if err != nil {
		return err
	}
	staged := &fakeLoans{
		loans:     append([]loan.Loan(nil), u.loans.loans...),
		nextID:    u.loans.nextID,
		listErr:   u.loans.listErr,
		createErr: u.loans.createErr,
	}
	if err := fn(ctx, cust, staged); err != nil {
		return err
	}
	if u.commitErr != nil {
		return u.commitErr
	}
	u.loans.loans, u.loans.nextID = staged.loans, staged.nextID
	return nil
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishCustomerRegistered(ctx context.Context, evt event.CustomerRegisteredEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *mockPublisher) PublishLoanCreated(ctx context.Context, evt event.LoanCreatedEvent) error {
	return m.Called(ctx, evt).Error(0)
}

type fixture struct {
	customers *fakeCustomers
	loans     *fakeLoans
	uow       *fakeUnitOfWork
	pub       *mockPublisher
	svc       *creditService
}

func newFixture(salary string) *fixture {
	c, err := customer.NewCustomer("Asha", "Rao", 30, 9876543210, dec(salary), nil)
	if err != nil {
		panic(err)
	}
	c.CustomerID = 1

	customers := &fakeCustomers{byID: map[int64]*customer.Customer{1: c}}
	loans := &fakeLoans{}
	uow := &fakeUnitOfWork{customers: customers, loans: loans}
	pub := new(mockPublisher)
	svc := NewCreditService(customers, loans, uow, pub, discardLogger).(*creditService)
	svc.now = func() time.Time { return now }
	return &fixture{customers: customers, loans: loans, uow: uow, pub: pub, svc: svc}
}

func TestCreditService_CheckEligibility(t *testing.T) {
	ctx := context.Background()

	t.Run("new customer is approved at corrected rate", func(t *testing.T) {
		f := newFixture("100000")
		d := f.svc.CheckEligibility(ctx, request("100000", "10.5", 12))

		assert.True(t, d.Approved)
		assert.Equal(t, int64(1), d.CustomerID)
		assert.Equal(t, 50, d.CreditScore)
		assert.True(t, dec("10.5").Equal(d.InterestRate))
		assert.True(t, dec("12").Equal(d.CorrectedInterestRate))
		assert.Equal(t, "8884.88", d.MonthlyInstallment.StringFixed(2))
		assert.Empty(t, f.loans.loans, "eligibility never writes")
	})

	t.Run("unknown customer", func(t *testing.T) {
		f := newFixture("100000")
		req := request("100000", "10.5", 12)
		req.CustomerID = 404

		d := f.svc.CheckEligibility(ctx, req)

		assert.Equal(t, OutcomeNotFound, d.Outcome)
		assert.Equal(t, MsgCustomerNotFound, d.Message)
		assert.True(t, d.MonthlyInstallment.IsZero())
	})

	t.Run("store failure becomes internal failure", func(t *testing.T) {
		f := newFixture("100000")
		f.loans.listErr = errors.New("connection refused")

		d := f.svc.CheckEligibility(ctx, request("100000", "10.5", 12))

		assert.False(t, d.Approved)
		assert.Equal(t, OutcomeInternalFailure, d.Outcome)
		assert.Equal(t, "error processing request: connection refused", d.Message)
	})

	t.Run("customer lookup failure becomes internal failure", func(t *testing.T) {
		f := newFixture("100000")
		f.customers.err = apperrors.ErrDatabase

		d := f.svc.CheckEligibility(ctx, request("100000", "10.5", 12))

		assert.Equal(t, OutcomeInternalFailure, d.Outcome)
		assert.True(t, strings.HasPrefix(d.Message, "error processing request: "))
	})

	t.Run("identical requests give identical decisions", func(t *testing.T) {
		f := newFixture("100000")
		f.loans.loans = []loan.Loan{withCustomer(openLoan("300000", "14000", 24, 3), 1)}
		req := request("200000", "11", 18)

		assert.Equal(t, f.svc.CheckEligibility(ctx, req), f.svc.CheckEligibility(ctx, req))
	})
}

func withCustomer(l loan.Loan, id int64) loan.Loan {
	l.CustomerID = id
	return l
}

func TestCreditService_CreateLoan(t *testing.T) {
	ctx := context.Background()

	t.Run("approved loan is persisted", func(t *testing.T) {
		f := newFixture("100000")
		f.pub.On("PublishLoanCreated", mock.Anything, mock.MatchedBy(func(e event.LoanCreatedEvent) bool {
			return e.Payload.LoanID == 1 && e.Payload.MonthlyInstallment.Equal(dec("8884.88"))
		})).Return(nil).Once()

		res := f.svc.CreateLoan(ctx, request("100000", "10.5", 12))

		require.NotNil(t, res.LoanID)
		assert.Equal(t, int64(1), *res.LoanID)
		assert.True(t, res.Approved)
		assert.Equal(t, MsgLoanCreated, res.Message)
		assert.Equal(t, "8884.88", res.MonthlyInstallment.StringFixed(2))

		require.Len(t, f.loans.loans, 1)
		stored := f.loans.loans[0]
		assert.True(t, dec("12").Equal(stored.InterestRate), "stored with corrected rate")
		assert.Equal(t, day(2024, time.June, 15), stored.StartDate)
		assert.Equal(t, day(2025, time.June, 15), stored.EndDate)
		assert.Equal(t, int64(1), stored.CustomerID)
		f.pub.AssertExpectations(t)
	})

	t.Run("rejected request writes nothing", func(t *testing.T) {
		f := newFixture("10000")
		f.loans.loans = []loan.Loan{withCustomer(openLoan("50000", "6000", 24, 2), 1)}

		res := f.svc.CreateLoan(ctx, request("100000", "10.5", 12))

		assert.Nil(t, res.LoanID)
		assert.False(t, res.Approved)
		assert.Equal(t, OutcomeObligationExceeded, res.Outcome)
		assert.Equal(t, MsgObligationExceeded, res.Message)
		assert.True(t, res.MonthlyInstallment.IsZero())
		assert.Len(t, f.loans.loans, 1)
		f.pub.AssertNotCalled(t, "PublishLoanCreated", mock.Anything, mock.Anything)
	})

	t.Run("unknown customer", func(t *testing.T) {
		f := newFixture("100000")
		req := request("100000", "10.5", 12)
		req.CustomerID = 77

		res := f.svc.CreateLoan(ctx, req)

		assert.Nil(t, res.LoanID)
		assert.Equal(t, OutcomeNotFound, res.Outcome)
		assert.Equal(t, MsgCustomerNotFound, res.Message)
	})

	t.Run("persistence failure rolls back", func(t *testing.T) {
		f := newFixture("100000")
		f.loans.createErr = errors.New("disk full")

		res := f.svc.CreateLoan(ctx, request("100000", "10.5", 12))

		assert.Nil(t, res.LoanID)
		assert.False(t, res.Approved)
		assert.Equal(t, OutcomeInternalFailure, res.Outcome)
		assert.Equal(t, "error creating loan: disk full", res.Message)
		assert.True(t, res.MonthlyInstallment.IsZero())
		assert.Empty(t, f.loans.loans)
	})

	t.Run("commit failure surfaces as creation error", func(t *testing.T) {
		f := newFixture("100000")
		f.uow.commitErr = errors.New("serialization failure")

		res := f.svc.CreateLoan(ctx, request("100000", "10.5", 12))

		assert.Nil(t, res.LoanID)
		assert.Equal(t, "error creating loan: serialization failure", res.Message)
		assert.Empty(t, f.loans.loans)
	})

	t.Run("history read failure", func(t *testing.T) {
		f := newFixture("100000")
		f.loans.listErr = errors.New("timeout")

		res := f.svc.CreateLoan(ctx, request("100000", "10.5", 12))

		assert.Equal(t, OutcomeInternalFailure, res.Outcome)
		assert.Equal(t, "error processing request: timeout", res.Message)
	})

	t.Run("publish failure keeps the loan", func(t *testing.T) {
		f := newFixture("100000")
		f.pub.On("PublishLoanCreated", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

		res := f.svc.CreateLoan(ctx, request("100000", "10.5", 12))

		assert.True(t, res.Approved)
		assert.Len(t, f.loans.loans, 1)
	})

	t.Run("second issuance sees the first obligation", func(t *testing.T) {
		f := newFixture("17000")
		f.pub.On("PublishLoanCreated", mock.Anything, mock.Anything).Return(nil)

		first := f.svc.CreateLoan(ctx, request("100000", "12", 12))
		second := f.svc.CreateLoan(ctx, request("100000", "12", 12))

		assert.True(t, first.Approved)
		assert.False(t, second.Approved)
		assert.Equal(t, MsgObligationExceeded, second.Message)
	})

	t.Run("concurrent issuances do not both pass the gate", func(t *testing.T) {
		f := newFixture("17000")
		f.pub.On("PublishLoanCreated", mock.Anything, mock.Anything).Return(nil)

		var wg sync.WaitGroup
		results := make([]Issuance, 8)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = f.svc.CreateLoan(ctx, request("100000", "12", 12))
			}(i)
		}
		wg.Wait()

		approved := 0
		for _, r := range results {
			if r.Approved {
				approved++
			}
		}
		assert.Equal(t, 1, approved)
		assert.Len(t, f.loans.loans, 1)
	})
}
