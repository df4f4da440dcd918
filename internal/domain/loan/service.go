package loan

import (
	"context"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
)

type LoanService interface {
	GetLoanDetail(ctx context.Context, loanID int64) (*Loan, *customer.Customer, error)
	ListCustomerLoans(ctx context.Context, customerID int64) ([]Loan, error)
}

type loanServiceImpl struct {
	repo            LoanRepository
	customerService customer.CustomerService
	logger          *slog.Logger
}

func NewLoanService(r LoanRepository, cs customer.CustomerService, logger *slog.Logger) LoanService {
	return &loanServiceImpl{
		repo:            r,
		customerService: cs,
		logger:          logger.With(slog.String("component", "loanService")),
	}
}

func (s *loanServiceImpl) GetLoanDetail(ctx context.Context, loanID int64) (*Loan, *customer.Customer, error) {
	if loanID <= 0 {
		return nil, nil, apperrors.NewValidationError("loan_id", "must be a positive integer")
	}

	l, err := s.repo.FindByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Loan not found", "loanID", loanID)
			return nil, nil, err
		}
		s.logger.ErrorContext(ctx, "Failed to load loan", "loanID", loanID, "error", err)
		return nil, nil, fmt.Errorf("failed to retrieve loan %d: %w", loanID, err)
	}

	cust, err := s.customerService.GetCustomer(ctx, l.CustomerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load loan owner", "loanID", loanID, "customerID", l.CustomerID, "error", err)
		return nil, nil, fmt.Errorf("failed to retrieve owner of loan %d: %w", loanID, err)
	}

	return l, cust, nil
}

func (s *loanServiceImpl) ListCustomerLoans(ctx context.Context, customerID int64) ([]Loan, error) {
	if _, err := s.customerService.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	loans, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list loans", "customerID", customerID, "error", err)
		return nil, fmt.Errorf("failed to list loans for customer %d: %w", customerID, err)
	}
	s.logger.DebugContext(ctx, "Listed customer loans", "customerID", customerID, "count", len(loans))
	return loans, nil
}
