package source

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"bankmerge/internal/logging"
	"bankmerge/internal/models"
	"bankmerge/internal/txerror"
)

// Stream is a lazy, single-pass sequence of transactions read from one
// spreadsheet source. It is exhausted at the first row whose leading cell is
// empty and cannot be restarted; re-reading requires opening a new stream.
//
// Rows are pulled from the workbook one at a time, so large files are never
// loaded into memory.
type Stream struct {
	file     *excelize.File
	rows     *excelize.Rows
	source   Source
	rules    models.Categorizer
	logger   logging.Logger
	filename string
	rowNum   int
	done     bool
	err      error
}

// Open opens the first sheet of the spreadsheet at path and positions the
// stream just past the format's header row. It returns a FormatError when
// the sheet ends before a header row is found; I/O errors are returned
// as-is.
func Open(path string, src Source, rules models.Categorizer, logger logging.Logger) (*Stream, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	logger = logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: "format", Value: src.Name()},
	)

	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening spreadsheet: %w", err)
	}

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		_ = file.Close()
		return nil, txerror.NewHeaderNotFound(path)
	}

	rows, err := file.Rows(sheets[0])
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("error reading sheet rows: %w", err)
	}

	s := &Stream{
		file:     file,
		rows:     rows,
		source:   src,
		rules:    rules,
		logger:   logger,
		filename: path,
	}

	if err := s.skipToHeader(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// skipToHeader advances past every pre-header row. The row after the header
// is the first data row.
func (s *Stream) skipToHeader() error {
	for s.rows.Next() {
		s.rowNum++
		cells, err := s.rows.Columns()
		if err != nil {
			return fmt.Errorf("error reading row %d: %w", s.rowNum, err)
		}
		if s.source.IsHeader(cells) {
			s.logger.Debug("found header row",
				logging.Field{Key: logging.FieldRow, Value: s.rowNum})
			return nil
		}
	}
	return txerror.NewHeaderNotFound(s.filename)
}

// Next returns the next transaction in the stream. It reports false once the
// stream ends, either at the first row with an empty leading cell or at the
// end of the sheet. Rows that fail conversion with a format error are logged
// and skipped; any other failure stops the stream and is reported by Err.
func (s *Stream) Next() (models.Transaction, bool) {
	for !s.done && s.rows.Next() {
		s.rowNum++
		cells, err := s.rows.Columns()
		if err != nil {
			s.err = fmt.Errorf("error reading row %d: %w", s.rowNum, err)
			s.done = true
			return models.Transaction{}, false
		}

		// An empty leading cell means end of data, even if non-empty
		// rows exist further down.
		if cell(cells, 0) == "" {
			s.done = true
			return models.Transaction{}, false
		}

		params, warnings, err := s.source.Convert(cells)
		if err != nil {
			if fe, ok := err.(*txerror.FormatError); ok {
				fe.File = s.filename
				fe.Row = s.rowNum
				s.logger.WithError(fe).Warn("skipping malformed row",
					logging.Field{Key: logging.FieldRow, Value: s.rowNum})
				continue
			}
			s.err = err
			s.done = true
			return models.Transaction{}, false
		}

		for _, warning := range warnings {
			s.logger.Warn(warning,
				logging.Field{Key: logging.FieldRow, Value: s.rowNum},
				logging.Field{Key: logging.FieldBusiness, Value: params.Business})
		}

		return models.NewTransaction(params, s.rules), true
	}

	s.done = true
	return models.Transaction{}, false
}

// Err returns the first fatal error hit while iterating, if any. Per-row
// format errors are not fatal and never show up here.
func (s *Stream) Err() error {
	return s.err
}

// Filename returns the path of the underlying spreadsheet.
func (s *Stream) Filename() string {
	return s.filename
}

// Close releases the open workbook. Abandoning a stream before exhaustion is
// fine; the rest of the source simply stays unread.
func (s *Stream) Close() error {
	var firstErr error
	if s.rows != nil {
		if err := s.rows.Close(); err != nil {
			firstErr = err
		}
	}
	if s.file != nil {
		if err := s.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
