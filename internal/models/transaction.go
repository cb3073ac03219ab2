package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorizer assigns a category to a transaction from its amount and
// merchant text. Implemented by categorizer.Rules; defined here so that the
// Transaction constructor does not depend on a concrete rule table.
type Categorizer interface {
	Categorize(amount decimal.Decimal, business string) Category
}

// Transaction is the normalized record produced by every source adapter.
//
// Sign convention: positive amounts are money leaving the account (expenses),
// negative amounts are income. Adapters normalize their source's own
// convention before constructing a Transaction.
type Transaction struct {
	// Amount is the charged amount for this settlement cycle.
	Amount decimal.Decimal
	// Business is the merchant/payee free text.
	Business string
	// ChargeDate is the date the amount is debited/settled.
	ChargeDate time.Time
	// TransactionDate is the date the underlying purchase occurred.
	TransactionDate time.Time
	// Details carries extra free text from statement sources.
	Details string
	// Card identifies the charging card; empty for ledger rows.
	Card string
	// Notes is reserved and currently always empty.
	Notes string
	// InstallmentTotal is the original full purchase amount for
	// multi-installment credit charges. Nil for ledger rows.
	InstallmentTotal *decimal.Decimal
	// TID is the source-provided unique identifier; ledger rows only.
	TID string

	// Category is derived once at construction and never recomputed.
	Category Category
}

// TransactionParams holds the source-extracted fields of a transaction
// before category derivation.
type TransactionParams struct {
	Amount           decimal.Decimal
	Business         string
	ChargeDate       time.Time
	TransactionDate  time.Time
	Details          string
	Card             string
	InstallmentTotal *decimal.Decimal
	TID              string
}

// NewTransaction builds a Transaction and derives its category exactly once.
// A negative amount is income regardless of merchant text; otherwise the
// rule table decides.
func NewTransaction(p TransactionParams, rules Categorizer) Transaction {
	return Transaction{
		Amount:           p.Amount,
		Business:         p.Business,
		ChargeDate:       p.ChargeDate,
		TransactionDate:  p.TransactionDate,
		Details:          p.Details,
		Card:             p.Card,
		InstallmentTotal: p.InstallmentTotal,
		TID:              p.TID,
		Category:         rules.Categorize(p.Amount, p.Business),
	}
}

// IsIncome reports whether the transaction was classified as income.
func (t Transaction) IsIncome() bool {
	return t.Category == CategoryIncome
}
