package loan

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// MonthlyInstallment returns the amortized monthly payment rounded to two
// places, half away from zero. A non-positive rate or term yields zero.
func MonthlyInstallment(principal, annualRate decimal.Decimal, term int) decimal.Decimal {
	if !annualRate.IsPositive() || term <= 0 {
		return decimal.Zero
	}

	r := annualRate.Div(hundred).Div(monthsInYear).InexactFloat64()
	if r == 0 {
		return principal.Div(decimal.NewFromInt(int64(term))).Round(2)
	}

	p := principal.InexactFloat64()
	growth := math.Pow(1+r, float64(term))
	emi := p * r * growth / (growth - 1)

	return decimal.NewFromFloat(emi).Round(2)
}

// EndDate adds whole years first and then the remaining months, clamping
// the day to the end of the target month at each step.
func EndDate(start time.Time, term int) time.Time {
	end := addMonthsClamped(start, (term/12)*12)
	if rem := term % 12; rem != 0 {
		end = addMonthsClamped(end, rem)
	}
	return end
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + months
	year := y + total/12
	month := total % 12
	if month < 0 {
		month += 12
		year--
	}
	target := time.Month(month + 1)

	if last := daysIn(year, target); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(year, target, d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
