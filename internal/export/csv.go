// Package export writes the merged transaction set to CSV for consumers that
// prefer plain text over the spreadsheet report.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"bankmerge/internal/dateutils"
	"bankmerge/internal/logging"
	"bankmerge/internal/models"
)

// Row is the CSV shape of one transaction. Column order and headers match
// the spreadsheet report.
type Row struct {
	Amount           string `csv:"סכום החיוב"`
	Business         string `csv:"בית עסק"`
	TransactionDate  string `csv:"תאריך עסקה"`
	Category         string `csv:"טיב"`
	Details          string `csv:"פירוט"`
	Card             string `csv:"כרטיס"`
	Notes            string `csv:"הערות"`
	InstallmentTotal string `csv:"סכום העסקה"`
}

// rowFromTransaction converts a transaction to its CSV shape.
func rowFromTransaction(tx models.Transaction) Row {
	row := Row{
		Amount:          tx.Amount.String(),
		Business:        tx.Business,
		TransactionDate: tx.TransactionDate.Format(dateutils.DateLayoutStatement),
		Category:        tx.Category.Label(),
		Details:         tx.Details,
		Card:            tx.Card,
		Notes:           tx.Notes,
	}
	if tx.InstallmentTotal != nil {
		row.InstallmentTotal = tx.InstallmentTotal.String()
	}
	return row
}

// WriteTransactionsToCSV writes transactions to a CSV file in the standard
// column order.
func WriteTransactionsToCSV(transactions []models.Transaction, csvFile string, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	logger.Info("writing transactions to CSV",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})

	if dir := filepath.Dir(csvFile); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}

	file, err := os.Create(csvFile) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("failed to close CSV file")
		}
	}()

	rows := make([]Row, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, rowFromTransaction(tx))
	}

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return nil
}
