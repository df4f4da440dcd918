package credit

import (
	"context"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

type Outcome string

const (
	OutcomeApproved           Outcome = "approved"
	OutcomeNotFound           Outcome = "not_found"
	OutcomeObligationExceeded Outcome = "obligation_exceeded"
	OutcomeScoreRejected      Outcome = "score_rejected"
	OutcomeInternalFailure    Outcome = "internal_failure"
)

const (
	MsgCustomerNotFound   = "customer not found"
	MsgObligationExceeded = "current EMIs exceed 50% of monthly salary"
	MsgScoreRejected      = "loan not approved based on credit score"
	MsgApproved           = "loan approved"
	MsgLoanCreated        = "Loan created successfully"
)

var (
	obligationShare = decimal.RequireFromString("0.5")
	floorRateMid    = decimal.NewFromInt(12)
	floorRateLow    = decimal.NewFromInt(16)
)

type Request struct {
	CustomerID   int64
	Amount       decimal.Decimal
	InterestRate decimal.Decimal
	Tenure       int
}

type Decision struct {
	CustomerID            int64
	Outcome               Outcome
	Approved              bool
	InterestRate          decimal.Decimal
	CorrectedInterestRate decimal.Decimal
	Tenure                int
	MonthlyInstallment    decimal.Decimal
	CreditScore           int
	// Scored is false when the pipeline stopped before scoring.
	Scored  bool
	Message string
}

type scorer interface {
	Score(cust *customer.Customer, history []loan.Loan, now time.Time) (int, error)
}

type Engine struct {
	scorer scorer
	logger *slog.Logger
}

func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		scorer: ScoreCalculator{},
		logger: logger.With(slog.String("component", "creditEngine")),
	}
}

// Decide runs the eligibility pipeline. The first terminal rule wins:
// unknown customer, EMI load above half the salary, then the score bands.
// It never panics; unexpected failures become OutcomeInternalFailure.
func (e *Engine) Decide(ctx context.Context, cust *customer.Customer, history []loan.Loan, req Request, now time.Time) (d Decision) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.ErrorContext(ctx, "Eligibility pipeline panicked", "customerID", req.CustomerID, "panic", r)
			d = Reject(req, OutcomeInternalFailure, fmt.Sprintf("error processing request: %v", r))
		}
	}()

	if cust == nil {
		return Reject(req, OutcomeNotFound, MsgCustomerNotFound)
	}

	if currentObligations(history, now).GreaterThan(cust.MonthlySalary.Mul(obligationShare)) {
		return Reject(req, OutcomeObligationExceeded, MsgObligationExceeded)
	}

	score, err := e.scorer.Score(cust, history, now)
	if err != nil {
		e.logger.WarnContext(ctx, "Credit scoring failed, treating customer as highest risk",
			"customerID", cust.CustomerID, "error", err)
		score = 0
	}

	rate, ok := correctedRate(score, req.InterestRate)
	if !ok {
		d = Reject(req, OutcomeScoreRejected, MsgScoreRejected)
		d.CreditScore, d.Scored = score, true
		return d
	}

	return Decision{
		CustomerID:            req.CustomerID,
		Outcome:               OutcomeApproved,
		Approved:              true,
		InterestRate:          req.InterestRate,
		CorrectedInterestRate: rate,
		Tenure:                req.Tenure,
		MonthlyInstallment:    loan.MonthlyInstallment(req.Amount, rate, req.Tenure),
		CreditScore:           score,
		Scored:                true,
		Message:               MsgApproved,
	}
}

// Reject builds a negative decision carrying the requested rate and a zero installment.
func Reject(req Request, outcome Outcome, message string) Decision {
	return Decision{
		CustomerID:            req.CustomerID,
		Outcome:               outcome,
		InterestRate:          req.InterestRate,
		CorrectedInterestRate: req.InterestRate,
		Tenure:                req.Tenure,
		MonthlyInstallment:    decimal.Zero,
		Message:               message,
	}
}

func currentObligations(history []loan.Loan, now time.Time) decimal.Decimal {
	sum := decimal.Zero
	for i := range history {
		if history[i].IsActive(now) {
			sum = sum.Add(history[i].MonthlyRepayment)
		}
	}
	return sum
}

// correctedRate maps a score to the applied rate. Bands are exclusive on the
// lower bound: (50,100] keeps the request, (30,50] floors at 12, (10,30]
// floors at 16 and anything lower is rejected.
func correctedRate(score int, requested decimal.Decimal) (decimal.Decimal, bool) {
	switch {
	case score > 50:
		return requested, true
	case score > 30:
		return decimal.Max(requested, floorRateMid), true
	case score > 10:
		return decimal.Max(requested, floorRateLow), true
	default:
		return requested, false
	}
}
