package loan

import (
	"time"

	"loan-engine/internal/pkg/calendar"
)

// UpcomingPayment points at the loan whose next installment falls first.
type UpcomingPayment struct {
	LoanID string
	Date   time.Time
	Amount Money
}

type PortfolioSummary struct {
	AsOf               time.Time
	LoanCount          int
	ActiveCount        int
	MaturedCount       int
	TotalPrincipal     Money
	TotalOutstanding   Money
	MonthlyInstallment Money
	NextPayment        *UpcomingPayment
}

// Summarize aggregates the projections of records for dashboard views. Matured
// loans count towards principal and outstanding but not towards the monthly
// installment or the next payment.
func Summarize(records []LoanRecord, asOfDate time.Time) PortfolioSummary {
	asOf := calendar.Normalize(asOfDate)
	summary := PortfolioSummary{AsOf: asOf, LoanCount: len(records)}

	for _, record := range records {
		p := Project(record, asOf)

		summary.TotalPrincipal += record.principal
		summary.TotalOutstanding += p.CurrentBalance

		if p.Matured {
			summary.MaturedCount++
			continue
		}
		summary.ActiveCount++
		summary.MonthlyInstallment += p.InstallmentAmount

		if summary.NextPayment == nil || p.NextPaymentDate.Before(summary.NextPayment.Date) {
			summary.NextPayment = &UpcomingPayment{
				LoanID: record.id,
				Date:   p.NextPaymentDate,
				Amount: p.InstallmentAmount,
			}
		}
	}

	return summary
}
