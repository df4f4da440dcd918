package dto

import (
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/pkg/apperrors"
	"strings"

	"github.com/shopspring/decimal"
)

type RegisterCustomerRequest struct {
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Age           int             `json:"age"`
	MonthlyIncome decimal.Decimal `json:"monthly_income" swaggertype:"number"`
	PhoneNumber   int64           `json:"phone_number"`
}

func (r *RegisterCustomerRequest) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" {
		return apperrors.NewValidationError("first_name", "cannot be empty")
	}
	if strings.TrimSpace(r.LastName) == "" {
		return apperrors.NewValidationError("last_name", "cannot be empty")
	}
	if r.Age < customer.MinAge || r.Age > customer.MaxAge {
		return apperrors.NewValidationError("age", "must be between 18 and 100")
	}
	if r.MonthlyIncome.IsNegative() {
		return apperrors.NewValidationError("monthly_income", "cannot be negative")
	}
	if r.PhoneNumber <= 0 {
		return apperrors.NewValidationError("phone_number", "must be a positive number")
	}
	return nil
}

func (r *RegisterCustomerRequest) ToInput() customer.RegisterInput {
	return customer.RegisterInput{
		FirstName:     strings.TrimSpace(r.FirstName),
		LastName:      strings.TrimSpace(r.LastName),
		Age:           r.Age,
		MonthlyIncome: r.MonthlyIncome,
		PhoneNumber:   r.PhoneNumber,
	}
}

type RegisterCustomerResponse struct {
	CustomerID    int64  `json:"customer_id"`
	Name          string `json:"name"`
	Age           int    `json:"age"`
	MonthlyIncome string `json:"monthly_income"`
	ApprovedLimit string `json:"approved_limit"`
	PhoneNumber   int64  `json:"phone_number"`
}

func NewRegisterCustomerResponse(c *customer.Customer) RegisterCustomerResponse {
	if c == nil {
		return RegisterCustomerResponse{}
	}
	return RegisterCustomerResponse{
		CustomerID:    c.CustomerID,
		Name:          c.FullName(),
		Age:           c.Age,
		MonthlyIncome: FormatMoney(c.MonthlySalary),
		ApprovedLimit: FormatMoney(c.ApprovedLimit),
		PhoneNumber:   c.PhoneNumber,
	}
}

type CustomerResponse struct {
	CustomerID    int64  `json:"customer_id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Age           int    `json:"age"`
	PhoneNumber   int64  `json:"phone_number"`
	MonthlySalary string `json:"monthly_salary"`
	ApprovedLimit string `json:"approved_limit"`
	CurrentDebt   string `json:"current_debt"`
}

func NewCustomerResponse(c *customer.Customer) CustomerResponse {
	if c == nil {
		return CustomerResponse{}
	}
	return CustomerResponse{
		CustomerID:    c.CustomerID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Age:           c.Age,
		PhoneNumber:   c.PhoneNumber,
		MonthlySalary: FormatMoney(c.MonthlySalary),
		ApprovedLimit: FormatMoney(c.ApprovedLimit),
		CurrentDebt:   FormatMoney(c.CurrentDebt),
	}
}
