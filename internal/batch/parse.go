package batch

import (
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	colCustomerID    = "Customer ID"
	colFirstName     = "First Name"
	colLastName      = "Last Name"
	colAge           = "Age"
	colPhoneNumber   = "Phone Number"
	colMonthlySalary = "Monthly Salary"
	colApprovedLimit = "Approved Limit"

	colLoanID       = "Loan ID"
	colLoanAmount   = "Loan Amount"
	colTenure       = "Tenure"
	colInterestRate = "Interest Rate"
	colMonthlyPay   = "Monthly payment"
	colEMIsOnTime   = "EMIs paid on Time"
	colDateApproval = "Date of Approval"
	colEndDate      = "End Date"
)

var (
	customerHeaders = []string{colCustomerID, colFirstName, colLastName, colAge, colPhoneNumber, colMonthlySalary, colApprovedLimit}
	loanHeaders     = []string{colCustomerID, colLoanID, colLoanAmount, colTenure, colInterestRate, colMonthlyPay, colEMIsOnTime, colDateApproval, colEndDate}
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
}

func parseCustomer(r sheetRow) (*customer.Customer, error) {
	id, err := intCell(r, colCustomerID)
	if err != nil {
		return nil, err
	}
	age, err := intCell(r, colAge)
	if err != nil {
		return nil, err
	}
	phone, err := intCell(r, colPhoneNumber)
	if err != nil {
		return nil, err
	}
	salary, err := decimalCell(r, colMonthlySalary)
	if err != nil {
		return nil, err
	}
	limit, err := decimalCell(r, colApprovedLimit)
	if err != nil {
		return nil, err
	}

	c := &customer.Customer{
		CustomerID:    id,
		FirstName:     r.values[colFirstName],
		LastName:      r.values[colLastName],
		Age:           int(age),
		PhoneNumber:   phone,
		MonthlySalary: salary,
		ApprovedLimit: limit,
		CurrentDebt:   decimal.Zero,
	}
	if id <= 0 {
		return nil, fmt.Errorf("row %d: customer id must be positive", r.line)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("row %d: %w", r.line, err)
	}
	return c, nil
}

func parseLoan(r sheetRow) (*loan.Loan, error) {
	customerID, err := intCell(r, colCustomerID)
	if err != nil {
		return nil, err
	}
	loanID, err := intCell(r, colLoanID)
	if err != nil {
		return nil, err
	}
	amount, err := decimalCell(r, colLoanAmount)
	if err != nil {
		return nil, err
	}
	tenure, err := intCell(r, colTenure)
	if err != nil {
		return nil, err
	}
	rate, err := decimalCell(r, colInterestRate)
	if err != nil {
		return nil, err
	}
	emi, err := decimalCell(r, colMonthlyPay)
	if err != nil {
		return nil, err
	}
	paid, err := intCell(r, colEMIsOnTime)
	if err != nil {
		return nil, err
	}
	start, err := dateCell(r, colDateApproval)
	if err != nil {
		return nil, err
	}
	end, err := dateCell(r, colEndDate)
	if err != nil {
		return nil, err
	}

	if loanID <= 0 || customerID <= 0 {
		return nil, fmt.Errorf("row %d: loan and customer ids must be positive", r.line)
	}
	if tenure < 0 || paid < 0 || amount.IsNegative() {
		return nil, fmt.Errorf("row %d: negative loan figures", r.line)
	}

	return &loan.Loan{
		ID:               loanID,
		CustomerID:       customerID,
		Amount:           amount,
		Tenure:           int(tenure),
		InterestRate:     rate,
		MonthlyRepayment: emi,
		EMIsPaidOnTime:   int(paid),
		StartDate:        start,
		EndDate:          end,
	}, nil
}

func decimalCell(r sheetRow, col string) (decimal.Decimal, error) {
	v := r.values[col]
	if v == "" {
		return decimal.Zero, fmt.Errorf("row %d: %s is empty", r.line, col)
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("row %d: %s %q is not a number: %w", r.line, col, v, err)
	}
	return d, nil
}

func intCell(r sheetRow, col string) (int64, error) {
	d, err := decimalCell(r, col)
	if err != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("row %d: %s %q is not a whole number", r.line, col, r.values[col])
	}
	return d.IntPart(), nil
}

// dateCell accepts Excel serial dates as well as common text layouts.
func dateCell(r sheetRow, col string) (time.Time, error) {
	v := r.values[col]
	if v == "" {
		return time.Time{}, fmt.Errorf("row %d: %s is empty", r.line, col)
	}
	if serial, err := decimal.NewFromString(v); err == nil {
		t, err := excelize.ExcelDateToTime(serial.InexactFloat64(), false)
		if err != nil {
			return time.Time{}, fmt.Errorf("row %d: %s %q: %w", r.line, col, v, err)
		}
		return loan.DateOf(t), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return loan.DateOf(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("row %d: %s %q is not a date", r.line, col, v)
}
