// Package txfilter implements the acceptance predicate applied to each
// transaction before it is written to the report.
package txfilter

import (
	"strings"
	"time"

	"bankmerge/internal/dateutils"
	"bankmerge/internal/models"
)

// Filter holds the immutable acceptance configuration: an optional inclusive
// charge-date range and a set of merchant substrings to exclude.
// The zero value accepts everything.
type Filter struct {
	Begin           *time.Time
	End             *time.Time
	ExcludeBusiness []string
}

// ForMonth builds a filter covering one calendar month, the legacy
// configuration shape that predates explicit begin/end bounds.
func ForMonth(year int, month time.Month, excludeBusiness ...string) Filter {
	begin, end := dateutils.MonthRange(year, month)
	return Filter{
		Begin:           &begin,
		End:             &end,
		ExcludeBusiness: excludeBusiness,
	}
}

// Accept reports whether the transaction passes the filter. A transaction is
// rejected when its merchant text contains any excluded substring, or when
// its charge date falls strictly before Begin or strictly after End.
// Boundary dates are retained. Category plays no part in filtering.
func (f Filter) Accept(tx models.Transaction) bool {
	for _, business := range f.ExcludeBusiness {
		if business != "" && strings.Contains(tx.Business, business) {
			return false
		}
	}
	if f.Begin != nil && tx.ChargeDate.Before(*f.Begin) {
		return false
	}
	if f.End != nil && tx.ChargeDate.After(*f.End) {
		return false
	}
	return true
}
