package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CustomerEventPayload struct {
	CustomerID    int64           `json:"customerId"`
	FirstName     string          `json:"firstName"`
	LastName      string          `json:"lastName"`
	Age           int             `json:"age"`
	PhoneNumber   int64           `json:"phoneNumber"`
	MonthlySalary decimal.Decimal `json:"monthlySalary"`
	ApprovedLimit decimal.Decimal `json:"approvedLimit"`
}

type CustomerRegisteredEvent struct {
	EventID   string               `json:"eventId"`
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type LoanEventPayload struct {
	LoanID             int64           `json:"loanId"`
	CustomerID         int64           `json:"customerId"`
	Amount             decimal.Decimal `json:"amount"`
	InterestRate       decimal.Decimal `json:"interestRate"`
	Tenure             int             `json:"tenure"`
	MonthlyInstallment decimal.Decimal `json:"monthlyInstallment"`
	StartDate          time.Time       `json:"startDate"`
	EndDate            time.Time       `json:"endDate"`
}

type LoanCreatedEvent struct {
	EventID   string           `json:"eventId"`
	Timestamp time.Time        `json:"timestamp"`
	Payload   LoanEventPayload `json:"payload"`
}

func NewCustomerRegisteredEvent(payload CustomerEventPayload) CustomerRegisteredEvent {
	return CustomerRegisteredEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

func NewLoanCreatedEvent(payload LoanEventPayload) LoanCreatedEvent {
	return LoanCreatedEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}
