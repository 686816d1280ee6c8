package bfile

import (
	"errors"
	"fmt"
)

// Validation failure kinds. Match them with errors.Is.
var (
	ErrNotFound                 = errors.New("file does not exist")
	ErrFileTooLarge             = errors.New("file exceeds size limit")
	ErrMissingTrailingBlankLine = errors.New("file must end with a blank line")
	ErrMissingHeader            = errors.New("first line must be the program")
	ErrInvalidFormat            = errors.New("invalid format")
	ErrNonConsecutiveIndex      = errors.New("non-consecutive index")
	ErrEmptySequence            = errors.New("no data lines found")
)

// ReasonValid is the verdict reason reported for a valid b-file.
const ReasonValid = "valid b-file"

// ValidationError describes why a b-file was rejected.
// Line is the 1-based physical line number, or zero when the failure
// concerns the file as a whole.
type ValidationError struct {
	Kind   error
	Path   string
	Detail string
	Line   int
}

func newLineError(kind error, line int) *ValidationError {
	return &ValidationError{Kind: kind, Line: line}
}

// Error returns the human-readable reason, e.g. "invalid format at line 3".
func (e *ValidationError) Error() string {
	msg := e.Kind.Error()

	if e.Line > 0 {
		msg = fmt.Sprintf("%s at line %d", msg, e.Line)
	}

	if e.Detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Detail)
	}

	return msg
}

// Unwrap exposes the failure kind.
func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// Verdict is the outcome of validating one file.
type Verdict struct {
	Reason string `json:"reason" yaml:"reason"`
	Valid  bool   `json:"valid"  yaml:"valid"`
}

// NewVerdict converts a read result into a verdict. A nil error is a valid file.
func NewVerdict(err error) Verdict {
	if err == nil {
		return Verdict{Valid: true, Reason: ReasonValid}
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return Verdict{Reason: validationErr.Error()}
	}

	return Verdict{Reason: err.Error()}
}
