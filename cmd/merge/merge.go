// Package merge implements the main pipeline command: ledger plus statements
// in, one consolidated report out.
package merge

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bankmerge/cmd/root"
	"bankmerge/internal/categorizer"
	"bankmerge/internal/dateutils"
	"bankmerge/internal/export"
	"bankmerge/internal/logging"
	"bankmerge/internal/models"
	"bankmerge/internal/report"
	"bankmerge/internal/source"
	"bankmerge/internal/txfilter"
)

var (
	ledgerFile     string
	statementFiles []string
	outFile        string
	csvFile        string
	month          int
	year           int
	beginDate      string
	endDate        string
	exclude        []string
)

// Cmd represents the merge command.
var Cmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge ledger and statement spreadsheets into a categorized report",
	Long: `Merge reads the ledger export and every statement export, assigns each
transaction a category, filters by date range and excluded merchants, and
writes the consolidated report with per-category summary formulas and a
pie chart.`,
	Run: mergeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&ledgerFile, "ledger", "l", "", "Ledger (checking account) spreadsheet")
	Cmd.Flags().StringArrayVarP(&statementFiles, "statement", "s", nil, "Statement (credit card) spreadsheet, repeatable")
	Cmd.Flags().StringVarP(&outFile, "out", "o", "", "Output spreadsheet")
	Cmd.Flags().StringVar(&csvFile, "csv", "", "Also export the merged transactions to this CSV file")
	Cmd.Flags().IntVarP(&month, "month", "m", 0, "Restrict to one calendar month (1-12)")
	Cmd.Flags().IntVar(&year, "year", time.Now().Year(), "Year for --month")
	Cmd.Flags().StringVar(&beginDate, "begin", "", "Inclusive start date (YYYY-MM-DD)")
	Cmd.Flags().StringVar(&endDate, "end", "", "Inclusive end date (YYYY-MM-DD)")
	Cmd.Flags().StringArrayVar(&exclude, "exclude", nil, "Merchant substring to exclude, repeatable (adds to configured exclusions)")

	_ = Cmd.MarkFlagRequired("ledger")
	_ = Cmd.MarkFlagRequired("out")
}

func mergeFunc(cmd *cobra.Command, args []string) {
	log := root.Log
	log.Info("Merge command called",
		logging.Field{Key: "ledger", Value: ledgerFile},
		logging.Field{Key: "statements", Value: len(statementFiles)},
		logging.Field{Key: logging.FieldOutput, Value: outFile})

	filter, err := buildFilter()
	if err != nil {
		log.Fatalf("Invalid filter options: %v", err)
	}

	store := categorizer.NewRuleStore(root.Cfg.Rules.File, log)
	ruleSets, err := store.Load()
	if err != nil {
		log.Fatalf("Failed to load category rules: %v", err)
	}
	rules := categorizer.NewRules(ruleSets, log)

	writer, err := report.Open(outFile, filter, log)
	if err != nil {
		log.Fatalf("Failed to open report: %v", err)
	}

	retained, err := drainSources(writer, rules, log)
	closeErr := writer.Close()
	if err != nil {
		log.Fatalf("Error processing sources: %v", err)
	}
	if closeErr != nil {
		log.Fatalf("Failed to write report: %v", closeErr)
	}

	if csvFile != "" {
		if err := export.WriteTransactionsToCSV(retained, csvFile, log); err != nil {
			log.Fatalf("Failed to export CSV: %v", err)
		}
	}

	log.Info("Merge completed successfully!",
		logging.Field{Key: logging.FieldCount, Value: writer.Accepted()})
}

// drainSources streams the ledger first, then each statement in argument
// order, through the writer. It returns the retained transactions for the
// optional CSV export.
func drainSources(writer *report.Writer, rules models.Categorizer, log logging.Logger) ([]models.Transaction, error) {
	type input struct {
		path string
		src  source.Source
	}
	inputs := []input{{ledgerFile, source.NewLedgerSource()}}
	for _, path := range statementFiles {
		inputs = append(inputs, input{path, source.NewStatementSource()})
	}

	var retained []models.Transaction
	for _, in := range inputs {
		stream, err := source.Open(in.path, in.src, rules, log)
		if err != nil {
			return retained, err
		}

		for {
			tx, ok := stream.Next()
			if !ok {
				break
			}
			accepted, err := writer.Accept(tx)
			if err != nil {
				_ = stream.Close()
				return retained, err
			}
			if accepted {
				retained = append(retained, tx)
			}
		}

		streamErr := stream.Err()
		if err := stream.Close(); err != nil {
			log.WithError(err).Warn("failed to close source",
				logging.Field{Key: logging.FieldFile, Value: in.path})
		}
		if streamErr != nil {
			return retained, streamErr
		}
	}
	return retained, nil
}

// buildFilter assembles the acceptance predicate from the flags and the
// configured exclusions. --month expands to that month's first and last day;
// --begin/--end set explicit inclusive bounds.
func buildFilter() (txfilter.Filter, error) {
	excludeBusiness := append([]string{}, root.Cfg.Filter.ExcludeBusiness...)
	excludeBusiness = append(excludeBusiness, exclude...)

	if month != 0 {
		if beginDate != "" || endDate != "" {
			return txfilter.Filter{}, fmt.Errorf("--month cannot be combined with --begin/--end")
		}
		if month < 1 || month > 12 {
			return txfilter.Filter{}, fmt.Errorf("month must be between 1 and 12, got %d", month)
		}
		return txfilter.ForMonth(year, time.Month(month), excludeBusiness...), nil
	}

	filter := txfilter.Filter{ExcludeBusiness: excludeBusiness}
	if beginDate != "" {
		begin, err := time.Parse(dateutils.DateLayoutISO, beginDate)
		if err != nil {
			return txfilter.Filter{}, fmt.Errorf("invalid --begin date: %w", err)
		}
		filter.Begin = &begin
	}
	if endDate != "" {
		end, err := time.Parse(dateutils.DateLayoutISO, endDate)
		if err != nil {
			return txfilter.Filter{}, fmt.Errorf("invalid --end date: %w", err)
		}
		filter.End = &end
	}
	return filter, nil
}
