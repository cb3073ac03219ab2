// Package report implements the aggregating spreadsheet writer that produces
// the merged transaction report.
//
// The writer is a single-use scoped resource: open it, feed it any number of
// transactions, close it exactly once. Close always appends the summary block
// and persists the workbook, even when nothing was accepted. No running
// totals are kept in memory; every aggregate is a live spreadsheet formula
// over the written data range, so correctness does not depend on accept
// order.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"bankmerge/internal/dateutils"
	"bankmerge/internal/logging"
	"bankmerge/internal/models"
	"bankmerge/internal/txfilter"
)

// column describes one output column: its position letter, width and the
// header label written to row 1.
type column struct {
	position string
	width    float64
	header   string
}

// columns is the fixed output layout. Order is part of the file format.
var columns = []column{
	{"A", 10, "סכום החיוב"},
	{"B", 30, "בית עסק"},
	{"C", 20, "תאריך עסקה"},
	{"D", 13, "טיב"},
	{"E", 20, "פירוט"},
	{"F", 10, "כרטיס"},
	{"G", 20, "הערות"},
	{"H", 15, "סכום העסקה"},
}

const (
	chargeColumn   = "A"
	categoryColumn = "D"
	lastColumn     = "H"

	// summaryGap is the number of blank rows between the last data row and
	// the category summary block.
	summaryGap = 3

	headerRow    = 1
	firstDataRow = 2
)

// Summary row labels for the totals block.
const (
	labelExpenses   = "הוצאות"
	labelGrandTotal = "סך הוצאות"
)

// Writer accepts transactions from the merged input stream and writes the
// consolidated report workbook.
type Writer struct {
	file    *excelize.File
	sheet   string
	outfile string
	filter  txfilter.Filter
	logger  logging.Logger

	lastRow  int
	accepted int
	closed   bool

	numberStyle int
}

// Open creates a report writer targeting outfile. The filter is evaluated
// against every candidate transaction before it is retained.
func Open(outfile string, filter txfilter.Filter, logger logging.Logger) (*Writer, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	file := excelize.NewFile()
	sheet := file.GetSheetName(0)

	w := &Writer{
		file:    file,
		sheet:   sheet,
		outfile: outfile,
		filter:  filter,
		logger:  logger.WithField(logging.FieldOutput, outfile),
		lastRow: headerRow,
	}

	if err := w.setupSheet(); err != nil {
		_ = file.Close()
		return nil, err
	}
	return w, nil
}

// setupSheet writes the header row and applies the presentational defaults
// of the source exports: right-to-left view and fixed column widths.
func (w *Writer) setupSheet() error {
	rightToLeft := true
	if err := w.file.SetSheetView(w.sheet, 0, &excelize.ViewOptions{
		RightToLeft: &rightToLeft,
	}); err != nil {
		return fmt.Errorf("error setting sheet view: %w", err)
	}

	for _, col := range columns {
		if err := w.file.SetColWidth(w.sheet, col.position, col.position, col.width); err != nil {
			return fmt.Errorf("error setting column width: %w", err)
		}
		cellRef := fmt.Sprintf("%s%d", col.position, headerRow)
		if err := w.file.SetCellValue(w.sheet, cellRef, col.header); err != nil {
			return fmt.Errorf("error writing header: %w", err)
		}
	}

	numberStyle, err := w.file.NewStyle(&excelize.Style{NumFmt: 1})
	if err != nil {
		return fmt.Errorf("error creating number style: %w", err)
	}
	w.numberStyle = numberStyle
	return nil
}

// Accept tests the transaction against the filter and, when it passes,
// appends one data row. It reports whether the transaction was retained.
func (w *Writer) Accept(tx models.Transaction) (bool, error) {
	if w.closed {
		return false, fmt.Errorf("report writer already closed")
	}
	if !w.filter.Accept(tx) {
		w.logger.Debug("transaction filtered out",
			logging.Field{Key: logging.FieldBusiness, Value: tx.Business})
		return false, nil
	}

	row := w.lastRow + 1
	values := []interface{}{
		tx.Amount.InexactFloat64(),
		tx.Business,
		tx.TransactionDate.Format(dateutils.DateLayoutStatement),
		tx.Category.Label(),
		tx.Details,
		tx.Card,
		tx.Notes,
	}
	if tx.InstallmentTotal != nil {
		values = append(values, tx.InstallmentTotal.InexactFloat64())
	}

	startRef := fmt.Sprintf("%s%d", chargeColumn, row)
	if err := w.file.SetSheetRow(w.sheet, startRef, &values); err != nil {
		return false, fmt.Errorf("error writing data row: %w", err)
	}
	if err := w.file.SetCellStyle(w.sheet, startRef, startRef, w.numberStyle); err != nil {
		return false, fmt.Errorf("error styling data row: %w", err)
	}

	w.lastRow = row
	w.accepted++
	return true, nil
}

// AcceptAll drains a transaction stream through Accept. It returns the
// stream's fatal error, if any, after the stream ends.
func (w *Writer) AcceptAll(stream TransactionStream) error {
	for {
		tx, ok := stream.Next()
		if !ok {
			return stream.Err()
		}
		if _, err := w.Accept(tx); err != nil {
			return err
		}
	}
}

// TransactionStream is the pull-based sequence the writer consumes.
// Implemented by source.Stream.
type TransactionStream interface {
	Next() (models.Transaction, bool)
	Err() error
}

// Close appends the summary block, applies display formatting and persists
// the workbook. It must be called exactly once; the writer is unusable
// afterwards.
func (w *Writer) Close() error {
	if w.closed {
		return fmt.Errorf("report writer already closed")
	}
	w.closed = true
	defer func() {
		if err := w.file.Close(); err != nil {
			w.logger.WithError(err).Warn("failed to close workbook")
		}
	}()

	if err := w.freezeHeader(); err != nil {
		return err
	}
	if err := w.applyAutoFilter(); err != nil {
		return err
	}
	if err := w.addSummary(); err != nil {
		return err
	}

	if err := w.file.SaveAs(w.outfile); err != nil {
		return fmt.Errorf("error saving report: %w", err)
	}
	w.logger.Info("report written",
		logging.Field{Key: logging.FieldCount, Value: w.accepted})
	return nil
}

// freezeHeader keeps the header row visible while scrolling.
func (w *Writer) freezeHeader() error {
	err := w.file.SetPanes(w.sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: fmt.Sprintf("%s%d", chargeColumn, firstDataRow),
		ActivePane:  "bottomLeft",
	})
	if err != nil {
		return fmt.Errorf("error freezing header row: %w", err)
	}
	return nil
}

// applyAutoFilter puts a filter control over the header-to-data range.
// Purely presentational; the summary formulas are unaffected.
func (w *Writer) applyAutoFilter() error {
	rangeRef := fmt.Sprintf("%s%d:%s%d", chargeColumn, headerRow, lastColumn, w.lastRow)
	if err := w.file.AutoFilter(w.sheet, rangeRef, nil); err != nil {
		return fmt.Errorf("error applying auto-filter: %w", err)
	}
	return nil
}

// dataRange returns the formula range over the written data rows for one
// column. With no data rows the range collapses to the single empty cell in
// row 2, which sums to zero.
func (w *Writer) dataRange(col string) string {
	last := w.lastRow
	if last < firstDataRow {
		last = firstDataRow
	}
	return fmt.Sprintf("%s%d:%s%d", col, firstDataRow, col, last)
}

// addSummary emits the deterministic close-time block: the gap, one
// conditional-sum row per non-income category, the pie chart over that
// block, a blank row, and the three totals rows.
func (w *Writer) addSummary() error {
	chargeRange := w.dataRange(chargeColumn)
	categoryRange := w.dataRange(categoryColumn)

	categoryStart := w.lastRow + summaryGap + 1
	w.lastRow = categoryStart - 1

	for _, category := range models.Categories {
		if category == models.CategoryIncome {
			continue
		}
		formula := fmt.Sprintf("SUMIFS(%s,%s,%q)", chargeRange, categoryRange, category.Label())
		if err := w.addSummaryRow(category.Label(), formula); err != nil {
			return err
		}
	}
	categoryEnd := w.lastRow

	if err := w.addCategoryChart(categoryStart, categoryEnd); err != nil {
		return err
	}

	w.lastRow++ // blank row before the totals block

	expenses := fmt.Sprintf("SUMIFS(%s,%s,\">0\")", chargeRange, chargeRange)
	if err := w.addSummaryRow(labelExpenses, expenses); err != nil {
		return err
	}

	income := fmt.Sprintf("SUMIFS(%s,%s,%q)", chargeRange, categoryRange, models.CategoryIncome.Label())
	if err := w.addSummaryRow(models.CategoryIncome.Label(), income); err != nil {
		return err
	}

	grandTotal := fmt.Sprintf("SUM(%s)", chargeRange)
	return w.addSummaryRow(labelGrandTotal, grandTotal)
}

// addSummaryRow appends one description/formula pair below the current row.
func (w *Writer) addSummaryRow(description, formula string) error {
	row := w.lastRow + 1
	labelRef := fmt.Sprintf("A%d", row)
	valueRef := fmt.Sprintf("B%d", row)

	if err := w.file.SetCellValue(w.sheet, labelRef, description); err != nil {
		return fmt.Errorf("error writing summary label: %w", err)
	}
	if err := w.file.SetCellFormula(w.sheet, valueRef, formula); err != nil {
		return fmt.Errorf("error writing summary formula: %w", err)
	}
	if err := w.file.SetCellStyle(w.sheet, valueRef, valueRef, w.numberStyle); err != nil {
		return fmt.Errorf("error styling summary row: %w", err)
	}

	w.lastRow = row
	return nil
}

// addCategoryChart renders a pie chart whose series is exactly the
// per-category summary block, anchored beside it.
func (w *Writer) addCategoryChart(startRow, endRow int) error {
	err := w.file.AddChart(w.sheet, fmt.Sprintf("C%d", startRow), &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Categories: fmt.Sprintf("%s!$A$%d:$A$%d", w.sheet, startRow, endRow),
			Values:     fmt.Sprintf("%s!$B$%d:$B$%d", w.sheet, startRow, endRow),
		}},
	})
	if err != nil {
		return fmt.Errorf("error adding category chart: %w", err)
	}
	return nil
}

// Accepted returns how many transactions passed the filter so far.
func (w *Writer) Accepted() int {
	return w.accepted
}
