package handler

import (
	"credit-approval/internal/api/handler/dto"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/pkg/apperrors"
	"errors"
	"log/slog"
	"net/http"
)

type LoanHandler struct {
	service loan.LoanService
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LoanService, l *slog.Logger) *LoanHandler {
	if s == nil {
		panic("loan service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

func (h *LoanHandler) logServiceError(r *http.Request, msg string, err error) {
	level := slog.LevelWarn
	if !errors.Is(err, apperrors.ErrNotFound) {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, msg, slog.Any("error", err))
}

// ViewLoan handles GET /api/view-loan/{loanID}
// @Summary Retrieve a loan with its customer
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID" Minimum(1)
// @Success 200 {object} dto.LoanDetailResponse "Loan details"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/view-loan/{loanID} [get]
func (h *LoanHandler) ViewLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := getIDFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	l, c, err := h.service.GetLoanDetail(r.Context(), loanID)
	if err != nil {
		h.logServiceError(r, "Service failed to get loan", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanDetailResponse(l, c))
}

// ViewLoans handles GET /api/view-loans/{customerID}
// @Summary List a customer's loans
// @Tags Loans
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {array} dto.CustomerLoanResponse "Loans of the customer"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/view-loans/{customerID} [get]
func (h *LoanHandler) ViewLoans(w http.ResponseWriter, r *http.Request) {
	customerID, err := getIDFromURL(r, "customerID")
	if err != nil {
		respondError(w, err)
		return
	}

	loans, err := h.service.ListCustomerLoans(r.Context(), customerID)
	if err != nil {
		h.logServiceError(r, "Service failed to list loans", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCustomerLoansResponse(loans))
}
