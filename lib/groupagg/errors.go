package groupagg

import "fmt"

// ParseError signals a malformed operation DSL: unknown op, bad field spec,
// out-of-range parameter, conflicting mode, inverted range endpoints.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return e.Msg }

func parseErrorf(format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

// PlanError signals a plan that parsed syntactically but cannot run: named
// columns without header-in, crosstab with the wrong key/op arity, a pair
// op missing its ':' field spec.
type PlanError struct {
	Msg string
}

func (e *PlanError) Error() string { return e.Msg }

func planErrorf(format string, args ...any) *PlanError {
	return &PlanError{Msg: fmt.Sprintf(format, args...)}
}

// NumericError signals an unparseable numeric value encountered by a
// numeric operation. Fatal unless the run has --narm set, in which case the
// driver recovers by skipping the record for that operation only.
type NumericError struct {
	Line  int
	Field int
	Value string
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("invalid numeric input in line %d field %d: '%s'", e.Line, e.Field, e.Value)
}

// ShapeError signals a record whose shape disagrees with the run: a
// strict-mode field-count mismatch, or a check-mode mismatch.
type ShapeError struct {
	Msg string
}

func (e *ShapeError) Error() string { return e.Msg }

func shapeErrorf(format string, args ...any) *ShapeError {
	return &ShapeError{Msg: fmt.Sprintf(format, args...)}
}

// IOError wraps a read/write/subprocess failure.
type IOError struct {
	Msg string
	Err error
}

func (e *IOError) Error() string { return e.Msg + ": " + e.Err.Error() }

func (e *IOError) Unwrap() error { return e.Err }

func ioErrorf(err error, format string, args ...any) *IOError {
	return &IOError{Msg: fmt.Sprintf(format, args...), Err: err}
}
