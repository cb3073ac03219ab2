package source

import (
	"fmt"

	"bankmerge/internal/dateutils"
	"bankmerge/internal/models"
	"bankmerge/internal/txerror"
)

// Ledger column positions in the checking-account export.
const (
	ledgerColTransactionDate = 0
	ledgerColChargeDate      = 1
	ledgerColBusiness        = 2
	ledgerColDebit           = 3
	ledgerColTID             = 5
)

// ledgerHeaderAnchor is the literal date-column header token that marks the
// ledger header row.
const ledgerHeaderAnchor = "תאריך"

// LedgerSource adapts the checking-account ledger export format.
type LedgerSource struct{}

// NewLedgerSource creates the ledger format adapter.
func NewLedgerSource() *LedgerSource {
	return &LedgerSource{}
}

// Name identifies the format in logs and errors.
func (s *LedgerSource) Name() string {
	return "ledger"
}

// IsHeader anchors on the literal date-column header token.
func (s *LedgerSource) IsHeader(cells []string) bool {
	return cell(cells, 0) == ledgerHeaderAnchor
}

// Convert maps one ledger row to transaction fields. The debit column is
// negated so that outgoing ledger debits carry the positive expense sign
// used everywhere else.
func (s *LedgerSource) Convert(cells []string) (models.TransactionParams, []string, error) {
	transactionDate, _, err := dateutils.ParseDate(cell(cells, ledgerColTransactionDate))
	if err != nil {
		return models.TransactionParams{}, nil,
			txerror.NewRowError("", 0, "transaction_date", cell(cells, ledgerColTransactionDate), err)
	}

	chargeDate, _, err := dateutils.ParseDate(cell(cells, ledgerColChargeDate))
	if err != nil {
		return models.TransactionParams{}, nil,
			txerror.NewRowError("", 0, "charge_date", cell(cells, ledgerColChargeDate), err)
	}

	debit, err := parseAmount(cell(cells, ledgerColDebit))
	if err != nil {
		return models.TransactionParams{}, nil,
			txerror.NewRowError("", 0, "debit", cell(cells, ledgerColDebit),
				fmt.Errorf("not a number: %w", err))
	}

	return models.TransactionParams{
		Amount:          debit.Neg(),
		Business:        cell(cells, ledgerColBusiness),
		TransactionDate: transactionDate,
		ChargeDate:      chargeDate,
		TID:             cell(cells, ledgerColTID),
	}, nil, nil
}
