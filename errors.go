package activity

import "fmt"

// FormatError reports a malformed input row. Line is 1-based and counts the
// header; it is 0 when the problem is not tied to a single row.
type FormatError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// InsufficientDataError reports an interval whose mean cannot be computed
// because it has no present step values, or is absent from a profile.
type InsufficientDataError struct {
	Interval IntervalID
	Scope    string
}

func (e *InsufficientDataError) Error() string {
	scope := ""
	if e.Scope != "" {
		scope = " (" + e.Scope + ")"
	}
	return fmt.Sprintf("interval %s [%s]%s: no observed step values", e.Interval, e.Interval.TimeOfDay(), scope)
}
