package loan_test

import (
	"credit-approval/internal/domain/loan"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMonthlyInstallment(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		term      int
		want      string
	}{
		{"reference loan", "100000", "12", 12, "8884.88"},
		{"one month", "1000", "12", 1, "1010"},
		{"two years", "500000", "10.5", 24, "23188.02"},
		{"zero rate", "100000", "0", 12, "0"},
		{"negative rate", "100000", "-1", 12, "0"},
		{"zero term", "100000", "12", 0, "0"},
		{"negative term", "100000", "12", -3, "0"},
		{"zero principal", "0", "12", 12, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := loan.MonthlyInstallment(d(tt.principal), d(tt.rate), tt.term)
			assert.True(t, d(tt.want).Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestMonthlyInstallment_TinyRateFallsBackToStraightLine(t *testing.T) {
	got := loan.MonthlyInstallment(d("1200"), d("1e-400"), 12)
	assert.True(t, d("100").Equal(got), "got %s", got)
}

func TestMonthlyInstallment_RecoversPrincipal(t *testing.T) {
	principals := []string{"999.99", "100000", "2500000"}
	rates := []string{"0.5", "8", "12", "16", "24.75"}
	for _, p := range principals {
		for _, r := range rates {
			for term := 1; term <= 60; term += 7 {
				emi := loan.MonthlyInstallment(d(p), d(r), term)
				total := emi.Mul(decimal.NewFromInt(int64(term)))
				assert.True(t, total.GreaterThanOrEqual(d(p)),
					"principal %s rate %s term %d: %s * term < principal", p, r, term, emi)
			}
		}
	}
}

func TestMonthlyInstallment_DoesNotMutateInputs(t *testing.T) {
	p, r := d("100000"), d("12")
	_ = loan.MonthlyInstallment(p, r, 12)
	assert.Equal(t, "100000", p.String())
	assert.Equal(t, "12", r.String())
}

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestEndDate(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		term  int
		want  time.Time
	}{
		{"whole year", date(2024, time.March, 15), 12, date(2025, time.March, 15)},
		{"jan 31 plus 14", date(2024, time.January, 31), 14, date(2025, time.March, 31)},
		{"leap day plus 13 clamps year first", date(2024, time.February, 29), 13, date(2025, time.March, 28)},
		{"leap day plus 12", date(2024, time.February, 29), 12, date(2025, time.February, 28)},
		{"jan 31 plus 1 leap year", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"jan 31 plus 1 common year", date(2023, time.January, 31), 1, date(2023, time.February, 28)},
		{"nov 30 plus 3 rolls year", date(2024, time.November, 30), 3, date(2025, time.February, 28)},
		{"aug 31 plus 1", date(2024, time.August, 31), 1, date(2024, time.September, 30)},
		{"max tenure", date(2024, time.January, 1), 60, date(2029, time.January, 1)},
		{"dec plus 1", date(2024, time.December, 15), 1, date(2025, time.January, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, loan.EndDate(tt.start, tt.term))
		})
	}
}
