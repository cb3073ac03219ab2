package source

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bankmerge/internal/categorizer"
	"bankmerge/internal/logging"
	"bankmerge/internal/models"
	"bankmerge/internal/txerror"
)

// writeFixture builds a spreadsheet from raw rows and returns its path.
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

func defaultRules(t *testing.T) *categorizer.Rules {
	t.Helper()
	return categorizer.NewRules(categorizer.DefaultRuleSets(), logging.NewMockLogger())
}

func drain(t *testing.T, s *Stream) []models.Transaction {
	t.Helper()
	var out []models.Transaction
	for {
		tx, ok := s.Next()
		if !ok {
			break
		}
		out = append(out, tx)
	}
	return out
}

func TestStreamLedger(t *testing.T) {
	path := writeFixture(t, [][]interface{}{
		{"תנועות בחשבון"}, // title row before the header
		{},
		{"תאריך", "תאריך ערך", "תיאור", "חובה", "זכות", "אסמכתא"},
		{"2024-06-01", "2024-06-02", "שופרסל", "-150", "", "1001"},
		{"2024-06-03", "2024-06-04", "בית קפה", "-80", "", "1002"},
	})

	stream, err := Open(path, NewLedgerSource(), defaultRules(t), logging.NewMockLogger())
	require.NoError(t, err)
	defer func() { require.NoError(t, stream.Close()) }()

	transactions := drain(t, stream)
	require.NoError(t, stream.Err())
	require.Len(t, transactions, 2)

	assert.True(t, decimal.NewFromInt(150).Equal(transactions[0].Amount))
	assert.Equal(t, "שופרסל", transactions[0].Business)
	assert.Equal(t, models.CategoryFood, transactions[0].Category)
	assert.Equal(t, "1001", transactions[0].TID)

	assert.Equal(t, models.CategoryOther, transactions[1].Category)
}

func TestStreamTerminatesAtEmptyLeadingCell(t *testing.T) {
	path := writeFixture(t, [][]interface{}{
		{"תאריך", "תאריך ערך", "תיאור", "חובה", "זכות", "אסמכתא"},
		{"2024-06-01", "2024-06-02", "שופרסל", "150", "", "1001"},
		{"", "2024-06-05", "אחרי הסוף", "10", "", "1003"},
		{"2024-06-06", "2024-06-07", "לא ייקרא", "20", "", "1004"},
	})

	stream, err := Open(path, NewLedgerSource(), defaultRules(t), logging.NewMockLogger())
	require.NoError(t, err)
	defer func() { _ = stream.Close() }()

	transactions := drain(t, stream)
	require.NoError(t, stream.Err())

	// The empty leading cell ends the stream even though a non-empty row
	// exists beyond it.
	require.Len(t, transactions, 1)
	assert.Equal(t, "שופרסל", transactions[0].Business)

	// The stream is single-pass; once done it stays done.
	_, ok := stream.Next()
	assert.False(t, ok)
}

func TestStreamHeaderNotFound(t *testing.T) {
	path := writeFixture(t, [][]interface{}{
		{"סיכום חודשי"},
		{"נתונים", "בלי", "כותרת"},
	})

	_, err := Open(path, NewLedgerSource(), defaultRules(t), logging.NewMockLogger())
	require.Error(t, err)
	assert.True(t, txerror.IsFormatError(err))
	assert.Contains(t, err.Error(), "failed to find header row")
}

func TestStreamMissingFileIsNotFormatError(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.xlsx"),
		NewLedgerSource(), defaultRules(t), logging.NewMockLogger())
	require.Error(t, err)
	assert.False(t, txerror.IsFormatError(err))
}

func TestStreamSkipsMalformedRows(t *testing.T) {
	logger := logging.NewMockLogger()
	path := writeFixture(t, [][]interface{}{
		{"תאריך", "תאריך ערך", "תיאור", "חובה", "זכות", "אסמכתא"},
		{"2024-06-01", "2024-06-02", "שופרסל", "150", "", "1001"},
		{"לא תאריך", "2024-06-03", "שורה פגומה", "10", "", "1002"},
		{"2024-06-05", "2024-06-06", "פז", "200", "", "1003"},
	})

	stream, err := Open(path, NewLedgerSource(), defaultRules(t), logger)
	require.NoError(t, err)
	defer func() { _ = stream.Close() }()

	transactions := drain(t, stream)
	require.NoError(t, stream.Err())

	// The malformed row is skipped, not fatal for the rest of the stream.
	require.Len(t, transactions, 2)
	assert.Equal(t, "שופרסל", transactions[0].Business)
	assert.Equal(t, "פז", transactions[1].Business)

	warnings := logger.EntriesByLevel("WARN")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "skipping malformed row")
}

func TestStreamStatement(t *testing.T) {
	logger := logging.NewMockLogger()
	path := writeFixture(t, [][]interface{}{
		{"פירוט עסקאות לכרטיס"},
		{"כרטיס", "בית עסק", "תאריך עסקה", "סכום עסקה", "", "", "פירוט", "תאריך חיוב", "סכום חיוב"},
		{"1234", "פז", "01/06/2024", "300", "", "", "", "02/06/2024", "-300"},
		{"1234", "שופרסל", "05/06/2024", "", "", "", "קניות", "", "N/A"},
	})

	stream, err := Open(path, NewStatementSource(), defaultRules(t), logger)
	require.NoError(t, err)
	defer func() { _ = stream.Close() }()

	transactions := drain(t, stream)
	require.NoError(t, stream.Err())
	require.Len(t, transactions, 2)

	// Negative statement amount classifies as income.
	assert.True(t, decimal.NewFromInt(-300).Equal(transactions[0].Amount))
	assert.Equal(t, models.CategoryIncome, transactions[0].Category)
	assert.Equal(t, "1234", transactions[0].Card)

	// Row with "N/A" amount is coerced to zero and the stream continues.
	assert.True(t, transactions[1].Amount.IsZero())
	assert.Equal(t, models.CategoryFood, transactions[1].Category)
	// The blank charge date fell back to the transaction date.
	assert.Equal(t, transactions[1].TransactionDate, transactions[1].ChargeDate)

	warnings := logger.EntriesByLevel("WARN")
	assert.GreaterOrEqual(t, len(warnings), 2)
}

func TestStreamWarningsCarryFileAndRowContext(t *testing.T) {
	logger := logging.NewMockLogger()
	path := writeFixture(t, [][]interface{}{
		{"כרטיס", "בית עסק", "תאריך עסקה", "סכום עסקה", "", "", "פירוט", "תאריך חיוב", "סכום חיוב"},
		{"1234", "פז", "01/06/2024", "", "", "", "", "02/06/2024", "N/A"},
	})

	stream, err := Open(path, NewStatementSource(), defaultRules(t), logger)
	require.NoError(t, err)
	defer func() { _ = stream.Close() }()

	drain(t, stream)

	warnings := logger.EntriesByLevel("WARN")
	require.Len(t, warnings, 1)

	fields := make(map[string]interface{})
	for _, field := range warnings[0].Fields {
		fields[field.Key] = field.Value
	}
	assert.Equal(t, path, fields[logging.FieldFile])
	assert.Equal(t, 2, fields[logging.FieldRow])
	assert.Equal(t, "פז", fields[logging.FieldBusiness])
}

func TestStreamEmptySheet(t *testing.T) {
	path := writeFixture(t, [][]interface{}{})

	_, err := Open(path, NewLedgerSource(), defaultRules(t), logging.NewMockLogger())
	require.Error(t, err)
	assert.True(t, txerror.IsFormatError(err))
}

func TestStreamHeaderOnlyYieldsNothing(t *testing.T) {
	path := writeFixture(t, [][]interface{}{
		{"תאריך", "תאריך ערך", "תיאור", "חובה", "זכות", "אסמכתא"},
	})

	stream, err := Open(path, NewLedgerSource(), defaultRules(t), logging.NewMockLogger())
	require.NoError(t, err)
	defer func() { _ = stream.Close() }()

	assert.Empty(t, drain(t, stream))
	assert.NoError(t, stream.Err())
}
