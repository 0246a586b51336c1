package types

import (
	"errors"
	"fmt"
)

// ErrNoObservations is returned by statistics over an empty selection.
var ErrNoObservations = errors.New("no observations to describe")

// SourceNotFoundError means a required input file is absent.
type SourceNotFoundError struct {
	Source SourceType
	Path   string
	Err    error
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source %s not found at %s", e.Source, e.Path)
}

func (e *SourceNotFoundError) Unwrap() error {
	return e.Err
}

// SchemaMismatchError means an expected column is missing from a source.
type SchemaMismatchError struct {
	Source  SourceType
	Column  string
	Missing []string
}

func (e *SchemaMismatchError) Error() string {
	if len(e.Missing) > 1 {
		return fmt.Sprintf("source %s is missing column %s (missing: %v)", e.Source, e.Column, e.Missing)
	}
	return fmt.Sprintf("source %s is missing column %s", e.Source, e.Column)
}

// JoinKeyTypeError means a join key value cannot be brought to the canonical
// representation shared by both sides of the join.
type JoinKeyTypeError struct {
	Source SourceType
	Column string
	Value  string
	Row    int
}

func (e *JoinKeyTypeError) Error() string {
	return fmt.Sprintf("join key %s in source %s has incompatible value %q at row %d", e.Column, e.Source, e.Value, e.Row)
}

// DateParseError is recovered per field: the field becomes null.
type DateParseError struct {
	Column string
	Value  string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("cannot parse %q in column %s as a timestamp", e.Value, e.Column)
}

// AggregationDivisionError is recovered by leaving the proportion null.
type AggregationDivisionError struct {
	Year    int64
	Quarter int64
}

func (e *AggregationDivisionError) Error() string {
	return fmt.Sprintf("quarter %d-Q%d has zero total sales", e.Year, e.Quarter)
}
