package dto

import (
	"credit-approval/internal/domain/credit"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

var (
	maxLoanAmount   = decimal.New(1, 10)
	maxInterestRate = decimal.NewFromInt(1000)
)

type LoanRequest struct {
	CustomerID   int64           `json:"customer_id"`
	LoanAmount   decimal.Decimal `json:"loan_amount" swaggertype:"number"`
	InterestRate decimal.Decimal `json:"interest_rate" swaggertype:"number"`
	Tenure       int             `json:"tenure"`
}

func (r *LoanRequest) Validate() error {
	if r.CustomerID <= 0 {
		return apperrors.NewValidationError("customer_id", "must be a positive number")
	}
	if !r.LoanAmount.IsPositive() {
		return apperrors.NewValidationError("loan_amount", "must be greater than zero")
	}
	if r.LoanAmount.GreaterThanOrEqual(maxLoanAmount) {
		return apperrors.NewValidationError("loan_amount", "must be less than 10000000000")
	}
	if !hasAtMostTwoDecimals(r.LoanAmount) {
		return apperrors.NewValidationError("loan_amount", "must have at most 2 decimal places")
	}
	if r.InterestRate.IsNegative() || r.InterestRate.GreaterThanOrEqual(maxInterestRate) {
		return apperrors.NewValidationError("interest_rate", "must be between 0 and 1000")
	}
	if !hasAtMostTwoDecimals(r.InterestRate) {
		return apperrors.NewValidationError("interest_rate", "must have at most 2 decimal places")
	}
	if r.Tenure < loan.MinTenure || r.Tenure > loan.MaxTenure {
		return apperrors.NewValidationError("tenure", "must be between 1 and 60 months")
	}
	return nil
}

func (r *LoanRequest) ToCreditRequest() credit.Request {
	return credit.Request{
		CustomerID:   r.CustomerID,
		Amount:       r.LoanAmount,
		InterestRate: r.InterestRate,
		Tenure:       r.Tenure,
	}
}

func hasAtMostTwoDecimals(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(2))
}

type EligibilityResponse struct {
	CustomerID            int64  `json:"customer_id"`
	Approval              bool   `json:"approval"`
	InterestRate          string `json:"interest_rate"`
	CorrectedInterestRate string `json:"corrected_interest_rate"`
	Tenure                int    `json:"tenure"`
	MonthlyInstallment    string `json:"monthly_installment"`
	Message               string `json:"message"`
}

func NewEligibilityResponse(d credit.Decision) EligibilityResponse {
	return EligibilityResponse{
		CustomerID:            d.CustomerID,
		Approval:              d.Approved,
		InterestRate:          FormatMoney(d.InterestRate),
		CorrectedInterestRate: FormatMoney(d.CorrectedInterestRate),
		Tenure:                d.Tenure,
		MonthlyInstallment:    FormatMoney(d.MonthlyInstallment),
		Message:               d.Message,
	}
}

type CreateLoanResponse struct {
	LoanID             *int64 `json:"loan_id"`
	CustomerID         int64  `json:"customer_id"`
	LoanApproved       bool   `json:"loan_approved"`
	Message            string `json:"message"`
	MonthlyInstallment string `json:"monthly_installment"`
}

func NewCreateLoanResponse(is credit.Issuance) CreateLoanResponse {
	return CreateLoanResponse{
		LoanID:             is.LoanID,
		CustomerID:         is.CustomerID,
		LoanApproved:       is.Approved,
		Message:            is.Message,
		MonthlyInstallment: FormatMoney(is.MonthlyInstallment),
	}
}
