package hexdump

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigConflict reports an invalid or incompatible configuration.
	// It is always returned before any input is read.
	ErrConfigConflict = errors.New("hexdump: conflicting configuration")

	// ErrFormatMismatch reports dump text whose structure cannot be parsed:
	// a missing ": " marker, an unparsable offset, a truncated digit window
	// or a line longer than one page.
	ErrFormatMismatch = errors.New("hexdump: format mismatch")

	// ErrInvalidCharacter reports a character outside the digit alphabet in
	// a byte field.
	ErrInvalidCharacter = errors.New("hexdump: invalid character")

	// ErrEmptyResult reports dump text that decoded to zero bytes.
	ErrEmptyResult = errors.New("hexdump: empty result")

	// ErrNoInput reports that reversal found nothing to parse.
	ErrNoInput = errors.New("hexdump: nothing to parse")
)

// ParseError is returned by Reverse for malformed dump text.
type ParseError struct {
	Line   int   // 1-based line number in the dump text
	Err    error // ErrFormatMismatch, ErrInvalidCharacter or ErrEmptyResult
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}

	return fmt.Sprintf("line %d: %v: %s", e.Line, e.Err, e.Detail)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfigConflict, fmt.Sprintf(format, args...))
}
