package loan

import (
	"math"
	"testing"
	"time"

	"loan-engine/internal/pkg/calendar"

	"github.com/stretchr/testify/assert"
)

func TestEMIPayment(t *testing.T) {
	t.Run("zero rate splits principal evenly", func(t *testing.T) {
		assert.InDelta(t, 100.0, EMIPayment(1200, 0, 12), 1e-9)
		assert.InDelta(t, 500_000.0/7, EMIPayment(500_000, 0, 7), 1e-9)
	})

	t.Run("standard amortization reference", func(t *testing.T) {
		assert.InDelta(t, 11_248.97, EMIPayment(500_000, 12.5, 60), 0.005)
		assert.InDelta(t, 536.82, EMIPayment(100_000, 5, 360), 0.005)
		assert.InDelta(t, 470.73, EMIPayment(10_000, 12, 24), 0.005)
	})

	t.Run("single month repays principal plus one month of interest", func(t *testing.T) {
		assert.InDelta(t, 1010.0, EMIPayment(1000, 12, 1), 1e-9)
	})

	t.Run("long tenure stays finite", func(t *testing.T) {
		emi := EMIPayment(100_000, 50, 20_000)
		assert.False(t, math.IsNaN(emi) || math.IsInf(emi, 0), "emi=%v", emi)
		assert.InDelta(t, InterestOnlyPayment(100_000, 50), emi, 0.005)
	})

	t.Run("tiny rate approaches the zero-rate split", func(t *testing.T) {
		assert.InDelta(t, 10_000.0, EMIPayment(120_000, 1e-9, 12), 1e-3)
	})

	t.Run("panics on non-positive tenure", func(t *testing.T) {
		assert.Panics(t, func() { EMIPayment(1000, 10, 0) })
		assert.Panics(t, func() { EMIPayment(1000, 10, -3) })
	})
}

func TestInterestOnlyPayment(t *testing.T) {
	assert.Equal(t, 2000.0, InterestOnlyPayment(100_000, 24))
	assert.Equal(t, 0.0, InterestOnlyPayment(100_000, 0))
	assert.InDelta(t, 1041.67, InterestOnlyPayment(100_000, 12.5), 0.005)
}

func TestPaymentsElapsed(t *testing.T) {
	start := calendar.Date(2024, 1, 15)

	tests := []struct {
		name   string
		asOf   time.Time
		tenure int
		want   int
	}{
		{"before first due date", calendar.Date(2024, 1, 10), 12, 0},
		{"long before start", calendar.Date(2022, 6, 1), 12, 0},
		{"on first due date", calendar.Date(2024, 1, 15), 12, 1},
		{"between first and second", calendar.Date(2024, 2, 14), 12, 1},
		{"on second due date", calendar.Date(2024, 2, 15), 12, 2},
		{"fractional month counts down", calendar.Date(2024, 7, 3), 12, 6},
		{"clamped to tenure", calendar.Date(2030, 1, 1), 12, 12},
		{"exactly at maturity", calendar.Date(2024, 12, 15), 12, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PaymentsElapsed(start, tt.asOf, tt.tenure))
		})
	}
}

func TestPaymentsElapsedMonthEndStart(t *testing.T) {
	start := calendar.Date(2024, 1, 31)

	// The Jan 31 anchor falls due on Feb 29 in a leap year.
	assert.Equal(t, 1, PaymentsElapsed(start, calendar.Date(2024, 2, 28), 12))
	assert.Equal(t, 2, PaymentsElapsed(start, calendar.Date(2024, 2, 29), 12))
	assert.Equal(t, 2, PaymentsElapsed(start, calendar.Date(2024, 3, 30), 12))
	assert.Equal(t, 3, PaymentsElapsed(start, calendar.Date(2024, 3, 31), 12))
	assert.Equal(t, 4, PaymentsElapsed(start, calendar.Date(2024, 4, 30), 12))

	// Same boundary as the due date reported by NextPaymentDate.
	assert.Equal(t, calendar.Date(2024, 2, 29), NextPaymentDate(start, 12, calendar.Date(2024, 2, 29)))
}

func TestPaymentsElapsedIsMonotonic(t *testing.T) {
	start := calendar.Date(2023, 1, 31)
	asOf := calendar.Date(2022, 12, 1)
	previous := 0

	for day := 0; day < 3*366; day++ {
		got := PaymentsElapsed(start, asOf, 24)
		assert.GreaterOrEqual(t, got, previous, "as of %s", calendar.Format(asOf))
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 24)
		previous = got
		asOf = asOf.AddDate(0, 0, 1)
	}
	assert.Equal(t, 24, previous)
}

func TestPaymentsElapsedIgnoresClock(t *testing.T) {
	start := calendar.Date(2024, 3, 10)
	morning := time.Date(2024, 3, 10, 0, 0, 1, 0, time.UTC)
	evening := time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, 1, PaymentsElapsed(start, morning, 6))
	assert.Equal(t, 1, PaymentsElapsed(start, evening, 6))
}

func TestBalanceAtPayment(t *testing.T) {
	t.Run("nothing paid leaves full principal", func(t *testing.T) {
		assert.InDelta(t, 500_000.0, BalanceAtPayment(500_000, 12.5, 60, 0), 1e-6)
		assert.InDelta(t, 500_000.0, BalanceAtPayment(500_000, 0, 60, 0), 1e-6)
	})

	t.Run("fully paid is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, BalanceAtPayment(500_000, 12.5, 60, 60))
		assert.Equal(t, 0.0, BalanceAtPayment(500_000, 12.5, 60, 75))
	})

	t.Run("zero rate declines linearly", func(t *testing.T) {
		assert.InDelta(t, 600.0, BalanceAtPayment(1200, 0, 12, 6), 1e-9)
		assert.InDelta(t, 100.0, BalanceAtPayment(1200, 0, 12, 11), 1e-9)
	})

	t.Run("matches the schedule's running balance", func(t *testing.T) {
		record := mustRecord(t, LoanParams{
			Type: TypeHome, Principal: 250_000, AnnualRatePercent: 8.4,
			TenureMonths: 240, EMIStartDate: calendar.Date(2020, 5, 1),
		})
		rows := GenerateSchedule(record)
		for _, k := range []int{1, 12, 60, 120, 239} {
			assert.InDelta(t, rows[k-1].EndingBalance, BalanceAtPayment(250_000, 8.4, 240, k), 1e-4, "k=%d", k)
		}
	})

	t.Run("balance never increases", func(t *testing.T) {
		previous := BalanceAtPayment(75_000, 49.9, 36, 0)
		for k := 1; k <= 36; k++ {
			current := BalanceAtPayment(75_000, 49.9, 36, k)
			assert.LessOrEqual(t, current, previous)
			assert.GreaterOrEqual(t, current, 0.0)
			previous = current
		}
	})

	t.Run("long tenure stays finite", func(t *testing.T) {
		for _, k := range []int{0, 1, 10_000, 19_999} {
			balance := BalanceAtPayment(100_000, 50, 20_000, k)
			assert.False(t, math.IsNaN(balance) || math.IsInf(balance, 0), "k=%d balance=%v", k, balance)
			assert.GreaterOrEqual(t, balance, 0.0, "k=%d", k)
			assert.LessOrEqual(t, balance, 100_000.0, "k=%d", k)
		}
		assert.InDelta(t, 100_000.0, BalanceAtPayment(100_000, 50, 20_000, 0), 1e-6)
	})

	t.Run("panics on programming errors", func(t *testing.T) {
		assert.Panics(t, func() { BalanceAtPayment(1000, 10, 0, 0) })
		assert.Panics(t, func() { BalanceAtPayment(1000, 10, 12, -1) })
	})
}

func TestOutstandingBalance(t *testing.T) {
	interestOnly := mustRecord(t, LoanParams{
		Type: TypeGold, Principal: 100_000, AnnualRatePercent: 24,
		TenureMonths: 12, EMIStartDate: calendar.Date(2024, 1, 1),
	})
	for k := 0; k <= 12; k++ {
		assert.Equal(t, 100_000.0, OutstandingBalance(interestOnly, k))
	}

	amortizing := mustRecord(t, LoanParams{
		Type: TypeCar, Principal: 100_000, AnnualRatePercent: 24,
		TenureMonths: 12, EMIStartDate: calendar.Date(2024, 1, 1),
	})
	assert.Equal(t, BalanceAtPayment(100_000, 24, 12, 5), OutstandingBalance(amortizing, 5))
}

func TestNextPaymentDate(t *testing.T) {
	start := calendar.Date(2024, 1, 15)

	tests := []struct {
		name   string
		asOf   time.Time
		tenure int
		want   time.Time
	}{
		{"before start returns start", calendar.Date(2023, 11, 2), 12, start},
		{"on start returns start", start, 12, start},
		{"day after start", calendar.Date(2024, 1, 16), 12, calendar.Date(2024, 2, 15)},
		{"on a due date", calendar.Date(2024, 5, 15), 12, calendar.Date(2024, 5, 15)},
		{"mid period", calendar.Date(2024, 5, 20), 12, calendar.Date(2024, 6, 15)},
		{"matured loan is capped", calendar.Date(2031, 1, 1), 12, calendar.Date(2025, 1, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextPaymentDate(start, tt.tenure, tt.asOf))
		})
	}
}

func TestNextPaymentDateClampsMonthEnd(t *testing.T) {
	start := calendar.Date(2024, 1, 31)

	assert.Equal(t, calendar.Date(2024, 2, 29), NextPaymentDate(start, 12, calendar.Date(2024, 2, 1)))
	assert.Equal(t, calendar.Date(2024, 3, 31), NextPaymentDate(start, 12, calendar.Date(2024, 3, 1)))
	assert.Equal(t, calendar.Date(2024, 4, 30), NextPaymentDate(start, 12, calendar.Date(2024, 4, 1)))
}

func TestNextPaymentDateNeverBeforeAsOf(t *testing.T) {
	start := calendar.Date(2024, 1, 30)
	asOf := calendar.Date(2024, 1, 1)
	for day := 0; day < 400; day++ {
		next := NextPaymentDate(start, 24, asOf)
		assert.False(t, next.Before(asOf), "as of %s got %s", calendar.Format(asOf), calendar.Format(next))
		asOf = asOf.AddDate(0, 0, 1)
	}
}

func TestRemainingTermMonths(t *testing.T) {
	assert.Equal(t, 0, RemainingTermMonths(60, 60))
	assert.Equal(t, 60, RemainingTermMonths(60, 0))
	assert.Equal(t, 35, RemainingTermMonths(60, 25))
	assert.Equal(t, 0, RemainingTermMonths(60, 61))
}

func mustRecord(t *testing.T, p LoanParams) LoanRecord {
	t.Helper()
	record, err := NewLoanRecord(p)
	if err != nil {
		t.Fatalf("unexpected error building record: %v", err)
	}
	return record
}
