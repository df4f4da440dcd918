package credit

import (
	"context"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/event"
	"credit-approval/internal/infrastructure/monitoring"
	"credit-approval/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// UnitOfWork runs fn in a transaction that holds a row lock on the customer.
// The repositories handed to fn are bound to that transaction. A missing
// customer is reported as apperrors.ErrNotFound without calling fn.
type UnitOfWork interface {
	WithinCustomerTx(ctx context.Context, customerID int64, fn func(ctx context.Context, cust *customer.Customer, loans loan.LoanRepository) error) error
}

type Issuance struct {
	LoanID             *int64
	CustomerID         int64
	Outcome            Outcome
	Approved           bool
	Message            string
	MonthlyInstallment decimal.Decimal
}

type CreditService interface {
	CheckEligibility(ctx context.Context, req Request) Decision
	CreateLoan(ctx context.Context, req Request) Issuance
}

var _ CreditService = (*creditService)(nil)

type creditService struct {
	customers customer.CustomerRepository
	loans     loan.LoanRepository
	uow       UnitOfWork
	engine    *Engine
	pub       event.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewCreditService(customers customer.CustomerRepository, loans loan.LoanRepository, uow UnitOfWork, publisher event.EventPublisher, logger *slog.Logger) CreditService {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = event.NewNopPublisher(logger)
	}
	return &creditService{
		customers: customers,
		loans:     loans,
		uow:       uow,
		engine:    NewEngine(logger),
		pub:       publisher,
		logger:    logger.With(slog.String("component", "creditService")),
		now:       time.Now,
	}
}

func (s *creditService) CheckEligibility(ctx context.Context, req Request) Decision {
	logger := s.logger.With(slog.Int64("customerID", req.CustomerID))
	now := s.now()

	d := func() Decision {
		cust, err := s.customers.FindByID(ctx, req.CustomerID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return s.engine.Decide(ctx, nil, nil, req, now)
			}
			logger.ErrorContext(ctx, "Failed to load customer for eligibility", slog.Any("error", err))
			return Reject(req, OutcomeInternalFailure, processingError(err))
		}

		history, err := s.loans.ListByCustomer(ctx, req.CustomerID)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to load loan history for eligibility", slog.Any("error", err))
			return Reject(req, OutcomeInternalFailure, processingError(err))
		}

		return s.engine.Decide(ctx, cust, history, req, now)
	}()

	s.record(ctx, logger, d)
	return d
}

func (s *creditService) CreateLoan(ctx context.Context, req Request) Issuance {
	logger := s.logger.With(slog.Int64("customerID", req.CustomerID))
	now := s.now()

	var (
		decision Decision
		decided  bool
		created  *loan.Loan
	)
	err := s.uow.WithinCustomerTx(ctx, req.CustomerID, func(ctx context.Context, cust *customer.Customer, loans loan.LoanRepository) error {
		history, err := loans.ListByCustomer(ctx, cust.CustomerID)
		if err != nil {
			return err
		}

		decision = s.engine.Decide(ctx, cust, history, req, now)
		decided = true
		if !decision.Approved {
			return nil
		}

		l, err := loan.NewLoan(cust.CustomerID, req.Amount, req.Tenure, decision.CorrectedInterestRate, decision.MonthlyInstallment, now)
		if err != nil {
			return err
		}
		if err := loans.Create(ctx, l); err != nil {
			return err
		}
		created = l
		return nil
	})

	switch {
	case err == nil:
	case !decided && errors.Is(err, apperrors.ErrNotFound):
		decision = s.engine.Decide(ctx, nil, nil, req, now)
	case decided && decision.Approved:
		logger.ErrorContext(ctx, "Failed to persist approved loan", slog.Any("error", err))
		s.record(ctx, logger, decision)
		return Issuance{
			CustomerID:         req.CustomerID,
			Outcome:            OutcomeInternalFailure,
			Message:            fmt.Sprintf("error creating loan: %v", err),
			MonthlyInstallment: decimal.Zero,
		}
	default:
		logger.ErrorContext(ctx, "Failed to evaluate loan request", slog.Any("error", err))
		decision = Reject(req, OutcomeInternalFailure, processingError(err))
	}

	s.record(ctx, logger, decision)
	if created == nil {
		return Issuance{
			CustomerID:         req.CustomerID,
			Outcome:            decision.Outcome,
			Message:            decision.Message,
			MonthlyInstallment: decimal.Zero,
		}
	}

	monitoring.RecordLoanIssued()
	logger.InfoContext(ctx, "Loan created successfully", "loanID", created.ID,
		"rate", created.InterestRate.String(), "installment", created.MonthlyRepayment.String())
	s.publishLoanCreated(ctx, logger, created)

	id := created.ID
	return Issuance{
		LoanID:             &id,
		CustomerID:         req.CustomerID,
		Outcome:            OutcomeApproved,
		Approved:           true,
		Message:            MsgLoanCreated,
		MonthlyInstallment: created.MonthlyRepayment,
	}
}

func (s *creditService) publishLoanCreated(ctx context.Context, logger *slog.Logger, l *loan.Loan) {
	evt := event.NewLoanCreatedEvent(event.LoanEventPayload{
		LoanID:             l.ID,
		CustomerID:         l.CustomerID,
		Amount:             l.Amount,
		InterestRate:       l.InterestRate,
		Tenure:             l.Tenure,
		MonthlyInstallment: l.MonthlyRepayment,
		StartDate:          l.StartDate,
		EndDate:            l.EndDate,
	})
	if err := s.pub.PublishLoanCreated(ctx, evt); err != nil {
		logger.ErrorContext(ctx, "Loan created, but failed to publish event", "loanID", l.ID, slog.Any("error", err))
	}
}

func (s *creditService) record(ctx context.Context, logger *slog.Logger, d Decision) {
	monitoring.RecordDecision(string(d.Outcome), d.CreditScore, d.Scored)
	logger.InfoContext(ctx, "Eligibility decision",
		"outcome", d.Outcome,
		"score", d.CreditScore,
		"requestedRate", d.InterestRate.String(),
		"correctedRate", d.CorrectedInterestRate.String(),
	)
}

func processingError(err error) string {
	return fmt.Sprintf("error processing request: %v", err)
}
