package loan

import (
	"context"
)

type LoanRepository interface {
	// Create inserts the loan and sets its store-assigned id.
	Create(ctx context.Context, loan *Loan) error

	FindByID(ctx context.Context, loanID int64) (*Loan, error)

	ListByCustomer(ctx context.Context, customerID int64) ([]Loan, error)
}
