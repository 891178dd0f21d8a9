// Package common holds small primitives shared across the PDB, ANLZ and
// setting-file codecs: numeric-safety helpers (safe_conversions.go),
// message strings used in wrapped errors, and the color-index type shared
// by the PDB color and track rows.
package common

import "fmt"

// Error message fragments, combined with FormatError/FormatErrorString the
// way the teacher combines ErrFailedToLoadDialogues and friends.
const (
	ErrFailedToOpenFile     = "failed to open file"
	ErrFailedToReadHeader   = "failed to read header"
	ErrFailedToReadPayload  = "failed to read payload"
	ErrFailedToReadSection  = "failed to read section"
	ErrFailedToReadRow      = "failed to read row"
	ErrFailedToReadPage     = "failed to read page"
	ErrFailedToWriteHeader  = "failed to write header"
	ErrFailedToWritePayload = "failed to write payload"
	ErrFailedToWriteSection = "failed to write section"
	ErrFailedToWriteRow     = "failed to write row"
	ErrFailedToWritePage    = "failed to write page"
	ErrUnexpectedMagic      = "unexpected magic"
	ErrPageChainCycle       = "page chain did not terminate within file bounds"
	ErrTruncatedInput       = "unexpected end of input"
	ErrSectionCoverage      = "section lengths do not cover the declared body length"
)

// FormatError wraps baseMessage around details, preferring %w when details
// is an error so errors.Is/errors.As keep working up the call stack.
func FormatError(baseMessage string, details interface{}) error {
	if err, ok := details.(error); ok {
		return fmt.Errorf("%s: %w", baseMessage, err)
	}
	return fmt.Errorf("%s: %v", baseMessage, details)
}

// FormatErrorString wraps baseMessage around a formatted detail string.
func FormatErrorString(baseMessage, format string, args ...interface{}) error {
	if len(args) > 0 {
		return fmt.Errorf("%s: "+format, append([]interface{}{baseMessage}, args...)...)
	}
	return fmt.Errorf("%s: %s", baseMessage, format)
}
