package wire

import (
	"errors"
	"fmt"
)

// MalformedError reports input that failed to parse as a wire
// document. Raw preserves the consumed input so callers can dump the
// offending payload.
type MalformedError struct {
	Raw string
	Err error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed message: %v", e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

var (
	errEmptyInput      = errors.New("empty input")
	errTextContent     = errors.New("text content not allowed")
	errDirective       = errors.New("dtd directive not allowed")
	errTooDeep         = errors.New("nesting exceeds depth limit")
	errTrailingContent = errors.New("content after root element")
)
