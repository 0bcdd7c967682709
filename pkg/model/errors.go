package model

import "fmt"

// ParseError is returned when a record field can't be turned into
// the value a report needs. The record is skipped, the run goes on.
type ParseError struct {
	DocID string
	Field string
	Value interface{}
	Err   error
}

func (e *ParseError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("document %q: field %q: %v", e.DocID, e.Field, e.Err)
	}
	return fmt.Sprintf("document %q: field %q value %v: %v", e.DocID, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WriteError reports a failed write of report output. Affected is the
// number of documents that were written before the failure.
type WriteError struct {
	Collection string
	Affected   int
	Err        error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write to %q failed after %d documents: %v", e.Collection, e.Affected, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
