package loan

import (
	"time"

	"loan-engine/internal/pkg/calendar"
)

type ScheduleRow struct {
	Period           int
	DueDate          time.Time
	Payment          Money
	PrincipalPortion Money
	InterestPortion  Money
	EndingBalance    Money
}

type ScheduleTotals struct {
	TotalPayment   Money
	TotalPrincipal Money
	TotalInterest  Money
}

// GenerateSchedule returns one row per month of tenure. Amortizing loans pay a
// constant EMI and the last ending balance is forced to zero. Interest-only
// loans pay interest every period and keep the principal outstanding for the
// whole term.
func GenerateSchedule(record LoanRecord) []ScheduleRow {
	n := record.tenureMonths
	mustPositiveTenure(n)

	rows := make([]ScheduleRow, 0, n)

	if record.interestOnly {
		payment := InterestOnlyPayment(record.principal, record.annualRatePercent)
		for period := 1; period <= n; period++ {
			rows = append(rows, ScheduleRow{
				Period:          period,
				DueDate:         calendar.AddMonths(record.emiStartDate, period-1),
				Payment:         payment,
				InterestPortion: payment,
				EndingBalance:   record.principal,
			})
		}
		return rows
	}

	r := monthlyRate(record.annualRatePercent)
	payment := EMIPayment(record.principal, record.annualRatePercent, n)
	balance := record.principal

	for period := 1; period <= n; period++ {
		interest := balance * r
		principalPart := payment - interest
		balance -= principalPart

		if period == n {
			balance = 0
		}

		rows = append(rows, ScheduleRow{
			Period:           period,
			DueDate:          calendar.AddMonths(record.emiStartDate, period-1),
			Payment:          payment,
			PrincipalPortion: principalPart,
			InterestPortion:  interest,
			EndingBalance:    balance,
		})
	}

	return rows
}

func Totals(rows []ScheduleRow) ScheduleTotals {
	var t ScheduleTotals
	for _, row := range rows {
		t.TotalPayment += row.Payment
		t.TotalPrincipal += row.PrincipalPortion
		t.TotalInterest += row.InterestPortion
	}
	return t
}
