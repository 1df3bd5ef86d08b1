// Package calendar holds the date arithmetic used by loan schedules.
//
// All values are calendar dates: UTC midnight, no clock component. Month
// stepping clamps the day to the end of shorter months and is always computed
// from the anchor date, so repeated steps never drift (Jan 31 -> Feb 29 ->
// Mar 31, not Mar 29).
package calendar

import (
	"time"
)

const (
	DateLayout  = "2006-01-02"
	hoursPerDay = 24
)

func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Normalize keeps the calendar day of t as seen in t's own location.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Parse reads a strict YYYY-MM-DD date. Impossible dates such as 2024-02-30 fail.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Normalize(t), nil
}

func Format(t time.Time) string {
	return t.Format(DateLayout)
}

func DaysIn(year int, month time.Month) int {
	return Date(year, month+1, 0).Day()
}

// AddMonths moves t by n whole months, clamping the day to the last day of the
// target month.
func AddMonths(t time.Time, n int) time.Time {
	t = Normalize(t)
	y, m, d := t.Date()
	total := int(m) - 1 + n
	ty := y + floorDiv(total, 12)
	tm := time.Month(floorMod(total, 12) + 1)
	if last := DaysIn(ty, tm); d > last {
		d = last
	}
	return Date(ty, tm, d)
}

// MonthsBetween counts whole months from start to asOf. The month in progress
// counts only once asOf reaches start's day, clamped into asOf's month. The
// result is negative when asOf precedes start by a month or more.
func MonthsBetween(start, asOf time.Time) int {
	start, asOf = Normalize(start), Normalize(asOf)
	sy, sm, sd := start.Date()
	ay, am, ad := asOf.Date()

	months := (ay-sy)*12 + int(am-sm)
	anchor := sd
	if last := DaysIn(ay, am); anchor > last {
		anchor = last
	}
	if ad < anchor {
		months--
	}
	return months
}

// DaysBetween returns the signed number of calendar days from `from` to `to`.
func DaysBetween(from, to time.Time) int {
	return int(Normalize(to).Sub(Normalize(from)).Hours() / hoursPerDay)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
