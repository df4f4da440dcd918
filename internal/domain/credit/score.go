package credit

import (
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/pkg/apperrors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const NeutralScore = 50

var (
	weightOnTime      = decimal.RequireFromString("0.4")
	weightOther       = decimal.RequireFromString("0.2")
	hundred           = decimal.NewFromInt(100)
	neutralComponent  = decimal.NewFromInt(NeutralScore)
	recentActivity    = decimal.NewFromInt(100)
	noRecentActivity  = decimal.NewFromInt(50)
	utilizationTier30 = decimal.NewFromInt(30)
	utilizationTier50 = decimal.NewFromInt(50)
	utilizationTier70 = decimal.NewFromInt(70)
)

// ScoreCalculator derives a 0-100 risk score from a customer's loan history.
type ScoreCalculator struct{}

// Score returns NeutralScore for an empty history and 0 when the principal of
// active loans exceeds the approved limit. Otherwise it blends the on-time
// ratio (40%) with the loan-count, recent-activity and utilization tiers (20%
// each). The hard cap looks at active loans only while utilization counts
// every loan.
func (ScoreCalculator) Score(cust *customer.Customer, history []loan.Loan, now time.Time) (int, error) {
	if cust == nil {
		return 0, fmt.Errorf("%w: customer is required for scoring", apperrors.ErrMalformedData)
	}
	if len(history) == 0 {
		return NeutralScore, nil
	}

	var (
		activePrincipal = decimal.Zero
		totalPrincipal  = decimal.Zero
		paidOnTime      int64
		totalTenure     int64
		recent          bool
	)
	for i := range history {
		l := &history[i]
		if err := checkScorable(l); err != nil {
			return 0, err
		}
		if l.IsActive(now) {
			activePrincipal = activePrincipal.Add(l.Amount)
		}
		totalPrincipal = totalPrincipal.Add(l.Amount)
		paidOnTime += int64(l.EMIsPaidOnTime)
		totalTenure += int64(l.Tenure)
		if l.StartDate.Year() == now.Year() {
			recent = true
		}
	}

	if activePrincipal.GreaterThan(cust.ApprovedLimit) {
		return 0, nil
	}

	a := onTimeComponent(paidOnTime, totalTenure)
	b := loanCountComponent(len(history))
	c := noRecentActivity
	if recent {
		c = recentActivity
	}
	d := utilizationComponent(totalPrincipal, cust.ApprovedLimit)

	total := a.Mul(weightOnTime).
		Add(b.Mul(weightOther)).
		Add(c.Mul(weightOther)).
		Add(d.Mul(weightOther))

	return clampScore(total), nil
}

func checkScorable(l *loan.Loan) error {
	switch {
	case l.Tenure < 0:
		return fmt.Errorf("%w: loan %d has negative tenure %d", apperrors.ErrMalformedData, l.ID, l.Tenure)
	case l.EMIsPaidOnTime < 0:
		return fmt.Errorf("%w: loan %d has negative paid EMI count %d", apperrors.ErrMalformedData, l.ID, l.EMIsPaidOnTime)
	case l.Amount.IsNegative():
		return fmt.Errorf("%w: loan %d has negative amount %s", apperrors.ErrMalformedData, l.ID, l.Amount)
	}
	return nil
}

func onTimeComponent(paid, tenure int64) decimal.Decimal {
	if tenure == 0 {
		return neutralComponent
	}
	ratio := decimal.NewFromInt(paid).Div(decimal.NewFromInt(tenure)).Mul(hundred)
	return decimal.Min(ratio, hundred)
}

func loanCountComponent(n int) decimal.Decimal {
	switch {
	case n == 0:
		return decimal.NewFromInt(50)
	case n == 1:
		return decimal.NewFromInt(70)
	case n == 2:
		return decimal.NewFromInt(80)
	case n <= 5:
		return decimal.NewFromInt(90)
	default:
		return decimal.NewFromInt(100)
	}
}

func utilizationComponent(total, limit decimal.Decimal) decimal.Decimal {
	if limit.IsZero() {
		return neutralComponent
	}
	utilization := total.Div(limit).Mul(hundred)
	switch {
	case utilization.LessThanOrEqual(utilizationTier30):
		return decimal.NewFromInt(100)
	case utilization.LessThanOrEqual(utilizationTier50):
		return decimal.NewFromInt(80)
	case utilization.LessThanOrEqual(utilizationTier70):
		return decimal.NewFromInt(60)
	default:
		return decimal.NewFromInt(40)
	}
}

func clampScore(total decimal.Decimal) int {
	total = decimal.Max(decimal.Zero, decimal.Min(total, hundred))
	return int(total.RoundBank(0).IntPart())
}
