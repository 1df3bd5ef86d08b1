package loan

import (
	"fmt"
	"math"
	"time"

	"loan-engine/internal/pkg/calendar"
)

// Projection is the observable state of a loan on a given date.
type Projection struct {
	AsOf                 time.Time
	CurrentBalance       Money
	NextPaymentDate      time.Time
	RemainingTermMonths  int
	PercentPaid          int
	DaysUntilNextPayment int
	PaymentsMade         int
	InstallmentAmount    Money
	Matured              bool
}

// Project derives the loan's state as of asOfDate from its static fields.
// Equal inputs always give equal outputs.
func Project(record LoanRecord, asOfDate time.Time) Projection {
	asOf := calendar.Normalize(asOfDate)

	paymentsMade := PaymentsElapsed(record.emiStartDate, asOf, record.tenureMonths)
	balance := OutstandingBalance(record, paymentsMade)
	next := NextPaymentDate(record.emiStartDate, record.tenureMonths, asOf)

	percentPaid := 0
	if !record.interestOnly {
		percentPaid = int(math.Round((record.principal - balance) / record.principal * 100))
	}

	return Projection{
		AsOf:                 asOf,
		CurrentBalance:       balance,
		NextPaymentDate:      next,
		RemainingTermMonths:  RemainingTermMonths(record.tenureMonths, paymentsMade),
		PercentPaid:          percentPaid,
		DaysUntilNextPayment: calendar.DaysBetween(asOf, next),
		PaymentsMade:         paymentsMade,
		InstallmentAmount:    record.Installment(),
		Matured:              paymentsMade >= record.tenureMonths,
	}
}

// DueLabel renders DaysUntilNextPayment for display.
func (p Projection) DueLabel() string {
	return DueLabel(p.DaysUntilNextPayment)
}

func DueLabel(days int) string {
	switch {
	case days <= 0:
		return "Due today"
	case days == 1:
		return "Due tomorrow"
	default:
		return fmt.Sprintf("Due in %d days", days)
	}
}
