package customer

import (
	"credit-approval/internal/pkg/apperrors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MinAge        = 18
	MaxAge        = 100
	maxNameLength = 100

	// approvedLimitMultiplier months of salary, expressed in whole lakhs.
	approvedLimitMultiplier = 36
)

var lakh = decimal.NewFromInt(100000)

type Customer struct {
	CustomerID    int64
	FirstName     string
	LastName      string
	Age           int
	PhoneNumber   int64
	MonthlySalary decimal.Decimal
	ApprovedLimit decimal.Decimal
	CurrentDebt   decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewCustomer builds an unsaved customer. When limit is nil the approved
// limit is derived from the monthly income.
func NewCustomer(firstName, lastName string, age int, phoneNumber int64, monthlyIncome decimal.Decimal, limit *decimal.Decimal) (*Customer, error) {
	approved := ApprovedLimitFor(monthlyIncome)
	if limit != nil {
		approved = *limit
	}

	now := time.Now()
	c := &Customer{
		FirstName:     strings.TrimSpace(firstName),
		LastName:      strings.TrimSpace(lastName),
		Age:           age,
		PhoneNumber:   phoneNumber,
		MonthlySalary: monthlyIncome,
		ApprovedLimit: approved,
		CurrentDebt:   decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ApprovedLimitFor rounds 36 months of income to the nearest lakh, ties to even.
func ApprovedLimitFor(monthlyIncome decimal.Decimal) decimal.Decimal {
	lakhs := monthlyIncome.Mul(decimal.NewFromInt(approvedLimitMultiplier)).Div(lakh).RoundBank(0)
	if lakhs.IsNegative() {
		return decimal.Zero
	}
	return lakhs.Mul(lakh)
}

func (c *Customer) Validate() error {
	if err := validateName("first_name", c.FirstName); err != nil {
		return err
	}
	if err := validateName("last_name", c.LastName); err != nil {
		return err
	}
	if c.Age < MinAge || c.Age > MaxAge {
		return apperrors.NewValidationError("age", "must be between 18 and 100")
	}
	if c.PhoneNumber <= 0 {
		return apperrors.NewValidationError("phone_number", "must be a positive number")
	}
	if c.MonthlySalary.IsNegative() {
		return apperrors.NewValidationError("monthly_income", "cannot be negative")
	}
	if c.ApprovedLimit.IsNegative() {
		return apperrors.NewValidationError("approved_limit", "cannot be negative")
	}
	return nil
}

func validateName(field, value string) error {
	if value == "" {
		return apperrors.NewValidationError(field, "cannot be empty")
	}
	if utf8.RuneCountInString(value) > maxNameLength {
		return apperrors.NewValidationError(field, "must be at most 100 characters")
	}
	return nil
}

func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
