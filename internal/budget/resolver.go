// Package budget holds the month resolution, aggregation and goal
// calculations over the transaction list. Everything here is pure: inputs are
// never modified and results depend only on the arguments.
package budget

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/family-budget/internal/domain"
)

// MonthBounds returns the first and last calendar day of the month.
// Out-of-range months normalize the way time.Date does (month 13 is January
// of the following year).
func MonthBounds(year int, month time.Month) (start, end civil.Date) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return civil.DateOf(first), civil.DateOf(last)
}

// IsActiveInMonth reports whether t counts toward the given month.
//
// A one-shot transaction is active only in the month of its date. A recurring
// transaction is active from the month of its date onwards and, when it has
// an end date, up to and including the month containing that end date. A
// recurring transaction whose end date precedes its date is never active,
// and neither is a transaction without a valid date.
func IsActiveInMonth(t domain.Transaction, year int, month time.Month) bool {
	if !t.Date.IsValid() {
		return false
	}
	start, end := MonthBounds(year, month)

	if !t.IsRecurring {
		return t.Date.Year == start.Year && t.Date.Month == start.Month
	}

	if t.Date.After(end) {
		return false
	}
	if t.EndDate != nil {
		if t.EndDate.Before(start) || t.EndDate.Before(t.Date) {
			return false
		}
	}
	return true
}

// ResolveActive returns the transactions active in the given month, in input order.
func ResolveActive(records []domain.Transaction, year int, month time.Month) []domain.Transaction {
	active := make([]domain.Transaction, 0, len(records))
	for _, t := range records {
		if IsActiveInMonth(t, year, month) {
			active = append(active, t)
		}
	}
	return active
}
