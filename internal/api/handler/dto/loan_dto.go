package dto

import (
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
)

type LoanCustomer struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber int64  `json:"phone_number"`
	Age         int    `json:"age"`
}

type LoanDetailResponse struct {
	LoanID             int64        `json:"loan_id"`
	Customer           LoanCustomer `json:"customer"`
	LoanAmount         string       `json:"loan_amount"`
	InterestRate       string       `json:"interest_rate"`
	MonthlyInstallment string       `json:"monthly_installment"`
	Tenure             int          `json:"tenure"`
}

func NewLoanDetailResponse(l *loan.Loan, c *customer.Customer) LoanDetailResponse {
	if l == nil {
		return LoanDetailResponse{}
	}
	resp := LoanDetailResponse{
		LoanID:             l.ID,
		LoanAmount:         FormatMoney(l.Amount),
		InterestRate:       FormatMoney(l.InterestRate),
		MonthlyInstallment: FormatMoney(l.MonthlyRepayment),
		Tenure:             l.Tenure,
	}
	if c != nil {
		resp.Customer = LoanCustomer{
			ID:          c.CustomerID,
			FirstName:   c.FirstName,
			LastName:    c.LastName,
			PhoneNumber: c.PhoneNumber,
			Age:         c.Age,
		}
	}
	return resp
}

type CustomerLoanResponse struct {
	LoanID             int64  `json:"loan_id"`
	LoanAmount         string `json:"loan_amount"`
	InterestRate       string `json:"interest_rate"`
	MonthlyInstallment string `json:"monthly_installment"`
	RepaymentsLeft     int    `json:"repayments_left"`
}

func NewCustomerLoansResponse(loans []loan.Loan) []CustomerLoanResponse {
	resp := make([]CustomerLoanResponse, 0, len(loans))
	for i := range loans {
		l := &loans[i]
		resp = append(resp, CustomerLoanResponse{
			LoanID:             l.ID,
			LoanAmount:         FormatMoney(l.Amount),
			InterestRate:       FormatMoney(l.InterestRate),
			MonthlyInstallment: FormatMoney(l.MonthlyRepayment),
			RepaymentsLeft:     l.RepaymentsLeft(),
		})
	}
	return resp
}
