package source

import (
	"fmt"

	"github.com/shopspring/decimal"

	"bankmerge/internal/dateutils"
	"bankmerge/internal/models"
	"bankmerge/internal/txerror"
)

// Statement column positions in the credit-card export.
const (
	statementColCard             = 0
	statementColBusiness         = 1
	statementColTransactionDate  = 2
	statementColInstallmentTotal = 3
	statementColDetails          = 6
	statementColChargeDate       = 7
	statementColAmount           = 8
)

// statementHeaderAnchor is the literal card-column header token that marks
// the statement header row.
const statementHeaderAnchor = "כרטיס"

// StatementSource adapts the credit-card statement export format.
type StatementSource struct{}

// NewStatementSource creates the statement format adapter.
func NewStatementSource() *StatementSource {
	return &StatementSource{}
}

// Name identifies the format in logs and errors.
func (s *StatementSource) Name() string {
	return "statement"
}

// IsHeader anchors on the literal card-column header token.
func (s *StatementSource) IsHeader(cells []string) bool {
	return cell(cells, 0) == statementHeaderAnchor
}

// Convert maps one statement row to transaction fields.
//
// Data-quality fallbacks, each reported as a warning rather than an error:
// a non-numeric amount is coerced to zero, a zero amount is flagged, and a
// blank charge date falls back to the transaction date. A missing or
// unparseable transaction date aborts the row.
func (s *StatementSource) Convert(cells []string) (models.TransactionParams, []string, error) {
	var warnings []string

	business := cell(cells, statementColBusiness)

	rawTransactionDate := cell(cells, statementColTransactionDate)
	transactionDate, err := dateutils.ParseStatementDate(rawTransactionDate)
	if err != nil {
		return models.TransactionParams{}, nil,
			txerror.NewRowError("", 0, "transaction_date", rawTransactionDate, err)
	}

	chargeDate := transactionDate
	if rawChargeDate := cell(cells, statementColChargeDate); rawChargeDate == "" {
		warnings = append(warnings,
			fmt.Sprintf("charge date empty for %s, using transaction date instead", business))
	} else {
		chargeDate, err = dateutils.ParseStatementDate(rawChargeDate)
		if err != nil {
			return models.TransactionParams{}, nil,
				txerror.NewRowError("", 0, "charge_date", rawChargeDate, err)
		}
	}

	rawAmount := cell(cells, statementColAmount)
	amount, err := parseAmount(rawAmount)
	if err != nil {
		amount = decimal.Zero
		warnings = append(warnings,
			fmt.Sprintf("non-numeric charge amount %q for %s, treating as 0", rawAmount, business))
	} else if amount.IsZero() {
		warnings = append(warnings, fmt.Sprintf("charge amount empty for %s", business))
	}

	var installmentTotal *decimal.Decimal
	if raw := cell(cells, statementColInstallmentTotal); raw != "" {
		if total, err := parseAmount(raw); err == nil {
			installmentTotal = &total
		} else {
			warnings = append(warnings,
				fmt.Sprintf("non-numeric original sum %q for %s, dropping", raw, business))
		}
	}

	return models.TransactionParams{
		Amount:           amount,
		Business:         business,
		TransactionDate:  transactionDate,
		ChargeDate:       chargeDate,
		Details:          cell(cells, statementColDetails),
		Card:             cell(cells, statementColCard),
		InstallmentTotal: installmentTotal,
	}, warnings, nil
}
