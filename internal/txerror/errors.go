// Package txerror defines the error taxonomy for the transaction pipeline.
// Format errors describe problems with the content of a source file, as
// opposed to I/O errors which are wrapped and propagated unchanged.
package txerror

import (
	"errors"
	"fmt"
)

// FormatError represents a format or content error in a source file:
// a missing header row at stream-open time, or an unconvertible value on a
// single row at conversion time. Row and Field are zero/empty when the error
// covers the whole file.
type FormatError struct {
	File   string
	Row    int
	Field  string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("format error in %s row %d: %s='%s': %v",
			e.File, e.Row, e.Field, e.Reason, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("format error in %s: %s: %v", e.File, e.Reason, e.Err)
	}
	return fmt.Sprintf("format error in %s: %s", e.File, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// NewHeaderNotFound reports that the source ended before the format's header
// anchor row was seen.
func NewHeaderNotFound(file string) *FormatError {
	return &FormatError{File: file, Reason: "failed to find header row"}
}

// NewRowError reports a conversion failure for a single row.
func NewRowError(file string, row int, field, reason string, err error) *FormatError {
	return &FormatError{File: file, Row: row, Field: field, Reason: reason, Err: err}
}

// IsFormatError reports whether err is (or wraps) a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// RuleError represents a problem with the category rules file.
type RuleError struct {
	File   string
	Reason string
	Err    error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("invalid category rules in %s: %s: %v", e.File, e.Reason, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
