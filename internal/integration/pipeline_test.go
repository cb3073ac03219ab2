// Package integration exercises the full merge pipeline across packages:
// spreadsheet fixtures in, streamed through both adapters, filtered, and
// written out with the summary block.
package integration

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bankmerge/internal/categorizer"
	"bankmerge/internal/logging"
	"bankmerge/internal/models"
	"bankmerge/internal/report"
	"bankmerge/internal/source"
	"bankmerge/internal/txfilter"
)

func writeFixture(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, ref, &row))
	}

	path := filepath.Join(t.TempDir(), "fixture.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestMergePipeline(t *testing.T) {
	ledgerPath := writeFixture(t, [][]interface{}{
		{"תנועות בחשבון עו\"ש"},
		{"תאריך", "תאריך ערך", "תיאור", "חובה", "זכות", "אסמכתא"},
		{"2024-06-01", "2024-06-02", "שופרסל", "-150", "", "1001"},
		{"2024-05-15", "2024-05-16", "מחוץ לטווח", "-40", "", "1002"},
	})
	statementPath := writeFixture(t, [][]interface{}{
		{"פירוט עסקאות"},
		{"כרטיס", "בית עסק", "תאריך עסקה", "סכום עסקה", "", "", "פירוט", "תאריך חיוב", "סכום חיוב"},
		{"1234", "פז", "01/06/2024", "", "", "", "", "02/06/2024", "-300"},
	})

	logger := logging.NewMockLogger()
	rules := categorizer.NewRules(categorizer.DefaultRuleSets(), logger)
	filter := txfilter.ForMonth(2024, time.June)

	outfile := filepath.Join(t.TempDir(), "merged.xlsx")
	writer, err := report.Open(outfile, filter, logger)
	require.NoError(t, err)

	inputs := []struct {
		path string
		src  source.Source
	}{
		{ledgerPath, source.NewLedgerSource()},
		{statementPath, source.NewStatementSource()},
	}
	var retained []models.Transaction
	for _, in := range inputs {
		stream, err := source.Open(in.path, in.src, rules, logger)
		require.NoError(t, err)
		for {
			tx, ok := stream.Next()
			if !ok {
				break
			}
			accepted, err := writer.Accept(tx)
			require.NoError(t, err)
			if accepted {
				retained = append(retained, tx)
			}
		}
		require.NoError(t, stream.Err())
		require.NoError(t, stream.Close())
	}
	require.NoError(t, writer.Close())

	// The May ledger row is filtered out; two transactions survive.
	require.Len(t, retained, 2)
	assert.Equal(t, models.CategoryFood, retained[0].Category)
	assert.Equal(t, models.CategoryIncome, retained[1].Category)

	f, err := excelize.OpenFile(outfile)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)

	amount, _ := f.GetCellValue(sheet, "A2")
	business, _ := f.GetCellValue(sheet, "B2")
	category, _ := f.GetCellValue(sheet, "D2")
	assert.Equal(t, "150", amount)
	assert.Equal(t, "שופרסל", business)
	assert.Equal(t, "אוכל", category)

	amount, _ = f.GetCellValue(sheet, "A3")
	category, _ = f.GetCellValue(sheet, "D3")
	assert.Equal(t, "-300", amount)
	assert.Equal(t, "הכנסות", category)

	// No third data row.
	blank, _ := f.GetCellValue(sheet, "A4")
	assert.Empty(t, blank)

	// Food summary row: second category in enumeration order, block
	// starts at row 7 (last data row 3 + gap 3 + 1).
	foodFormula, _ := f.GetCellFormula(sheet, "B8")
	assert.Equal(t, `SUMIFS(A2:A3,D2:D3,"אוכל")`, foodFormula)

	grandTotal, _ := f.GetCellFormula(sheet, "B23")
	assert.Equal(t, "SUM(A2:A3)", grandTotal)
}

func TestMergePipelineExcludedMerchant(t *testing.T) {
	// The ledger mirrors each card charge as a single "כרטיס ויזה" debit;
	// excluding it keeps those amounts from double counting.
	ledgerPath := writeFixture(t, [][]interface{}{
		{"תאריך", "תאריך ערך", "תיאור", "חובה", "זכות", "אסמכתא"},
		{"2024-06-01", "2024-06-02", "שופרסל", "-150", "", "1001"},
		{"2024-06-09", "2024-06-10", "כרטיס ויזה בל", "-300", "", "1002"},
	})

	logger := logging.NewMockLogger()
	rules := categorizer.NewRules(categorizer.DefaultRuleSets(), logger)
	filter := txfilter.ForMonth(2024, time.June, "כרטיס ויזה")

	outfile := filepath.Join(t.TempDir(), "merged.xlsx")
	writer, err := report.Open(outfile, filter, logger)
	require.NoError(t, err)

	stream, err := source.Open(ledgerPath, source.NewLedgerSource(), rules, logger)
	require.NoError(t, err)
	require.NoError(t, writer.AcceptAll(stream))
	require.NoError(t, stream.Close())
	require.NoError(t, writer.Close())

	assert.Equal(t, 1, writer.Accepted())

	f, err := excelize.OpenFile(outfile)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)

	business, _ := f.GetCellValue(sheet, "B2")
	assert.Equal(t, "שופרסל", business)
	blank, _ := f.GetCellValue(sheet, "B3")
	assert.Empty(t, blank)
}
