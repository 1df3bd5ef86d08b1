package loan

import (
	"fmt"
	"math"
	"time"

	"loan-engine/internal/pkg/calendar"
)

// The functions in this file are pure: no I/O, no clock. They expect inputs
// that already passed Validate and panic otherwise.

func monthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 1200
}

func mustPositiveTenure(tenureMonths int) {
	if tenureMonths <= 0 {
		panic(fmt.Sprintf("loan: tenure must be positive, got %d", tenureMonths))
	}
}

// EMIPayment is the equated monthly installment:
//
//	P * r / (1 - (1+r)^-n),  r = annualRatePercent / 1200
//
// and P / n when the rate is zero. The negative exponent keeps long tenures
// from overflowing.
func EMIPayment(principal Money, annualRatePercent float64, tenureMonths int) Money {
	mustPositiveTenure(tenureMonths)

	r := monthlyRate(annualRatePercent)
	n := float64(tenureMonths)
	if r == 0 {
		return principal / n
	}

	return principal * r / discountComplement(r, -n)
}

// discountComplement is 1 - (1+r)^exp, computed through log1p/expm1 so it
// stays accurate for tiny rates and finite for any exponent <= 0.
func discountComplement(r, exp float64) float64 {
	return -math.Expm1(exp * math.Log1p(r))
}

// InterestOnlyPayment is one month of interest on the principal. The product
// is taken before dividing so whole-number inputs stay exact.
func InterestOnlyPayment(principal Money, annualRatePercent float64) Money {
	return principal * annualRatePercent / 1200
}

// PaymentsElapsed counts scheduled payments whose due date is on or before
// asOf, in [0, tenureMonths].
func PaymentsElapsed(startDate, asOfDate time.Time, tenureMonths int) int {
	mustPositiveTenure(tenureMonths)

	start, asOf := calendar.Normalize(startDate), calendar.Normalize(asOfDate)
	if asOf.Before(start) {
		return 0
	}

	months := calendar.MonthsBetween(start, asOf)
	if months < 0 {
		months = 0
	}
	return min(months+1, tenureMonths)
}

// BalanceAtPayment is the amortizing balance left after k payments.
func BalanceAtPayment(principal Money, annualRatePercent float64, tenureMonths, k int) Money {
	mustPositiveTenure(tenureMonths)
	if k < 0 {
		panic(fmt.Sprintf("loan: payment index must not be negative, got %d", k))
	}
	if k >= tenureMonths {
		return 0
	}

	r := monthlyRate(annualRatePercent)
	if r == 0 {
		return math.Max(0, principal-(principal/float64(tenureMonths))*float64(k))
	}

	// P * (1 - (1+r)^(k-n)) / (1 - (1+r)^-n)
	n := float64(tenureMonths)
	remaining := discountComplement(r, float64(k)-n)
	return math.Max(0, principal*remaining/discountComplement(r, -n))
}

// OutstandingBalance dispatches on the payment model: interest-only loans
// never amortize, so their balance stays at the principal.
func OutstandingBalance(r LoanRecord, paymentsMade int) Money {
	if r.interestOnly {
		return r.principal
	}
	return BalanceAtPayment(r.principal, r.annualRatePercent, r.tenureMonths, paymentsMade)
}

// NextPaymentDate is the first due date on or after asOf. A matured loan
// reports startDate + tenureMonths months.
func NextPaymentDate(startDate time.Time, tenureMonths int, asOfDate time.Time) time.Time {
	mustPositiveTenure(tenureMonths)

	start, asOf := calendar.Normalize(startDate), calendar.Normalize(asOfDate)
	k := max(calendar.MonthsBetween(start, asOf), 0)
	if calendar.AddMonths(start, k).Before(asOf) {
		k++
	}
	return calendar.AddMonths(start, min(k, tenureMonths))
}

func RemainingTermMonths(tenureMonths, paymentsMade int) int {
	return max(0, tenureMonths-paymentsMade)
}
