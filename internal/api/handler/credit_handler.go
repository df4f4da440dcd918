package handler

import (
	"credit-approval/internal/api/handler/dto"
	"credit-approval/internal/domain/credit"
	"credit-approval/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"net/http"
)

type CreditHandler struct {
	service credit.CreditService
	logger  *slog.Logger
}

func NewCreditHandler(s credit.CreditService, l *slog.Logger) *CreditHandler {
	if s == nil {
		panic("credit service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CreditHandler{
		service: s,
		logger:  l.With("component", "CreditHandler"),
	}
}

func (h *CreditHandler) decodeLoanRequest(r *http.Request) (dto.LoanRequest, error) {
	var req dto.LoanRequest
	if err := decodeJSON(r, &req); err != nil {
		return req, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}
	return req, req.Validate()
}

// outcomeStatus maps a decision outcome onto an HTTP status; declines are
// ordinary answers and use the given success status.
func outcomeStatus(o credit.Outcome, success int) int {
	switch o {
	case credit.OutcomeNotFound:
		return http.StatusNotFound
	case credit.OutcomeInternalFailure:
		return http.StatusInternalServerError
	case credit.OutcomeApproved:
		return success
	default:
		return http.StatusOK
	}
}

// CheckEligibility handles POST /api/check-eligibility
// @Summary Check loan eligibility
// @Description Scores the customer and returns the approval decision with the corrected interest rate. Nothing is persisted.
// @Tags Credit
// @Accept json
// @Produce json
// @Param request body dto.LoanRequest true "Eligibility request"
// @Success 200 {object} dto.EligibilityResponse "Decision (approved or declined)"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 404 {object} dto.EligibilityResponse "Customer not found"
// @Failure 500 {object} dto.EligibilityResponse "Decision could not be computed"
// @Router /api/check-eligibility [post]
func (h *CreditHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeLoanRequest(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Invalid eligibility request", slog.Any("error", err))
		respondError(w, err)
		return
	}

	d := h.service.CheckEligibility(r.Context(), req.ToCreditRequest())
	respondJSON(w, outcomeStatus(d.Outcome, http.StatusOK), dto.NewEligibilityResponse(d))
}

// CreateLoan handles POST /api/create-loan
// @Summary Issue a loan
// @Description Runs the eligibility check and, when approved, records the loan at the corrected rate.
// @Tags Credit
// @Accept json
// @Produce json
// @Param request body dto.LoanRequest true "Loan request"
// @Success 201 {object} dto.CreateLoanResponse "Loan created"
// @Success 200 {object} dto.CreateLoanResponse "Loan declined"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 404 {object} dto.CreateLoanResponse "Customer not found"
// @Failure 500 {object} dto.CreateLoanResponse "Loan could not be created"
// @Router /api/create-loan [post]
func (h *CreditHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeLoanRequest(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Invalid create loan request", slog.Any("error", err))
		respondError(w, err)
		return
	}

	is := h.service.CreateLoan(r.Context(), req.ToCreditRequest())
	respondJSON(w, outcomeStatus(is.Outcome, http.StatusCreated), dto.NewCreateLoanResponse(is))
}
