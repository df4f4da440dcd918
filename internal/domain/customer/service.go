package customer

import (
	"context"
	"credit-approval/internal/event"
	"credit-approval/internal/infrastructure/monitoring"
	"credit-approval/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
)

type RegisterInput struct {
	FirstName     string
	LastName      string
	Age           int
	MonthlyIncome decimal.Decimal
	PhoneNumber   int64
	ApprovedLimit *decimal.Decimal
}

type CustomerService interface {
	Register(ctx context.Context, in RegisterInput) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, publisher event.EventPublisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		logger.Warn("No event publisher provided to NewCustomerService, events will be dropped")
		publisher = event.NewNopPublisher(logger)
	}

	return &customerService{
		repo:   repo,
		pub:    publisher,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) Register(ctx context.Context, in RegisterInput) (*Customer, error) {
	cust, err := NewCustomer(in.FirstName, in.LastName, in.Age, in.PhoneNumber, in.MonthlyIncome, in.ApprovedLimit)
	if err != nil {
		s.logger.WarnContext(ctx, "Customer registration rejected", slog.Any("error", err))
		return nil, err
	}

	if err := s.repo.Save(ctx, cust); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			s.logger.WarnContext(ctx, "Phone number already registered", slog.Int64("phoneNumber", cust.PhoneNumber))
			return nil, fmt.Errorf("%w: phone number %d is already registered", apperrors.ErrAlreadyExists, cust.PhoneNumber)
		}
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	logger := s.logger.With(slog.Int64("customerID", cust.CustomerID))
	logger.InfoContext(ctx, "Customer registered", slog.String("approvedLimit", cust.ApprovedLimit.String()))
	monitoring.RecordCustomerRegistered()

	evt := event.NewCustomerRegisteredEvent(event.CustomerEventPayload{
		CustomerID:    cust.CustomerID,
		FirstName:     cust.FirstName,
		LastName:      cust.LastName,
		Age:           cust.Age,
		PhoneNumber:   cust.PhoneNumber,
		MonthlySalary: cust.MonthlySalary,
		ApprovedLimit: cust.ApprovedLimit,
	})
	if pubErr := s.pub.PublishCustomerRegistered(ctx, evt); pubErr != nil {
		logger.ErrorContext(ctx, "Customer registered, but failed to publish event", slog.Any("error", pubErr))
	}

	return cust, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	if customerID <= 0 {
		return nil, apperrors.NewValidationError("customer_id", "must be a positive integer")
	}

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found by repository", slog.Int64("customerID", customerID))
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Failed to load customer", slog.Int64("customerID", customerID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to retrieve customer %d: %w", customerID, err)
	}
	return cust, nil
}
