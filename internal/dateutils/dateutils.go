// Package dateutils provides common date parsing operations used throughout
// the application.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	// DateLayoutStatement is the fixed day/month/year layout used by
	// credit-card statement exports.
	DateLayoutStatement = "02/01/2006"
	// DateLayoutISO is the ISO calendar date layout.
	DateLayoutISO = "2006-01-02"
	// DateLayoutSheet is the default layout spreadsheet libraries render
	// date cells with.
	DateLayoutSheet = "01-02-06"
)

// CommonFormats is the list of layouts tried when parsing a date cell whose
// source layout is not fixed (ledger exports vary by bank).
var CommonFormats = []string{
	DateLayoutStatement,
	DateLayoutISO,
	"02.01.2006",
	"02-01-2006",
	"2006/01/02",
	DateLayoutSheet,
	"2006-01-02 15:04:05",
}

// ParseDate attempts to parse a date string using the common layouts,
// returning the parsed time and the layout that matched.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = strings.TrimSpace(dateStr)
	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// ParseStatementDate parses a date in the fixed statement layout only.
func ParseStatementDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(DateLayoutStatement, strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse statement date: %s", dateStr)
	}
	return t, nil
}

// MonthRange returns the inclusive first and last day of a month.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	begin := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := begin.AddDate(0, 1, -1)
	return begin, end
}
