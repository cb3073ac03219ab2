// Package source provides the spreadsheet source adapters and the lazy
// transaction stream that drives the merge pipeline.
//
// A Source captures everything that is specific to one export format: how to
// recognize its header row, and how to convert one raw row into transaction
// fields. The Stream supplies everything else (row pulling, termination,
// per-row error containment), so a new export format only implements Source.
package source

import (
	"strings"

	"github.com/shopspring/decimal"

	"bankmerge/internal/models"
)

// Source describes one spreadsheet export format.
//
// Amount sign is normalized at this boundary: Convert must return positive
// amounts for money leaving the account and negative amounts for income,
// whatever the source's own convention is.
type Source interface {
	// Name identifies the format in logs and errors.
	Name() string

	// IsHeader reports whether the raw row is the format's header row.
	// Data rows start immediately after it.
	IsHeader(cells []string) bool

	// Convert turns one raw data row into transaction fields. It returns
	// human-readable warnings for values it repaired, and a
	// *txerror.FormatError (without file/row context, which the stream
	// adds) when the row cannot be converted at all.
	Convert(cells []string) (models.TransactionParams, []string, error)
}

// cell returns the trimmed value at index i, or "" when the row is shorter.
func cell(cells []string, i int) string {
	if i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

// parseAmount parses a numeric cell, tolerating thousands separators and a
// currency mark.
func parseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer(",", "", "₪", "", " ", "").Replace(raw)
	return decimal.NewFromString(cleaned)
}
