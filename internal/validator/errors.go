package validator

import (
	"errors"
	"fmt"
)

var (
	ErrParse      = errors.New("parse error")
	ErrSchema     = errors.New("schema error")
	ErrDegenerate = errors.New("degenerate input")
)

// ParseError reports a value that is present but cannot be decoded, such as
// a malformed timestamp or a coordinate with the wrong arity.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse error: %s", e.Field)
	if e.Value != "" {
		msg += fmt.Sprintf(" %q", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// SchemaError reports a required key missing from the document.
type SchemaError struct {
	Key string
}

func (e *SchemaError) Error() string {
	return "schema error: missing " + e.Key
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// DegenerateInputError reports a sequence too short for a check.
type DegenerateInputError struct {
	Check string
	Have  int
	Need  int
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("degenerate input: %s needs at least %d points, have %d", e.Check, e.Need, e.Have)
}

func (e *DegenerateInputError) Is(target error) bool { return target == ErrDegenerate }

// Kind maps an error to the short label used in reports.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrSchema):
		return "schema"
	case errors.Is(err, ErrDegenerate):
		return "degenerate"
	default:
		return "io"
	}
}
