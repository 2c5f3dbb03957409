package stormlin

import (
	"errors"
	"fmt"

	"github.com/syssam/stormlin/dialect/sql/sqlrecord"
	"github.com/syssam/stormlin/schema"
)

// Standard sentinel errors for common operations.
var (
	// ErrNotSingular is returned when a query that expects exactly one result
	// returns zero or multiple results.
	ErrNotSingular = errors.New("stormlin: record not singular")

	// ErrMissingConfig is matched by every ConfigError.
	ErrMissingConfig = errors.New("stormlin: missing configuration")

	// ErrInvalidRecord is matched by every StructuralError.
	ErrInvalidRecord = errors.New("stormlin: invalid record")

	// ErrNoQuery is returned when a Runner is executed before a query was bound.
	ErrNoQuery = errors.New("stormlin: no query bound")

	// ErrRunnerDone is returned when a Runner is executed a second time.
	ErrRunnerDone = errors.New("stormlin: runner already executed")

	// ErrEmptyRecord is returned by Save when the record has no populated field.
	ErrEmptyRecord = sqlrecord.ErrEmptyRecord
)

// NotSingularError represents an error when a query expects a singular result
// but receives zero or multiple results.
type NotSingularError struct {
	label string
	count int // Number of results returned (-1 if unknown)
}

// Error returns the error string.
func (e *NotSingularError) Error() string {
	if e.count >= 0 {
		return fmt.Sprintf("stormlin: %s not singular (got %d results, expected 1)", e.label, e.count)
	}
	return fmt.Sprintf("stormlin: %s not singular", e.label)
}

// Is reports whether the target error matches NotSingularError.
func (e *NotSingularError) Is(err error) bool {
	return err == ErrNotSingular
}

// Label returns the record label.
func (e *NotSingularError) Label() string {
	return e.label
}

// Count returns the number of results, or -1 if unknown.
func (e *NotSingularError) Count() int {
	return e.count
}

// NewNotSingularError returns a new NotSingularError for the given record type.
func NewNotSingularError(label string) *NotSingularError {
	return &NotSingularError{label: label, count: -1}
}

// NewNotSingularErrorWithCount returns a new NotSingularError with the result count.
func NewNotSingularErrorWithCount(label string, count int) *NotSingularError {
	return &NotSingularError{label: label, count: count}
}

// IsNotSingular returns true if the error is a NotSingularError.
func IsNotSingular(err error) bool {
	if err == nil {
		return false
	}
	var e *NotSingularError
	return errors.As(err, &e) || errors.Is(err, ErrNotSingular)
}

// ConfigError reports a call that cannot run as configured: a record type
// without a table, a runner without a query, a nil factory.
type ConfigError struct {
	Op  string // Operation that was attempted
	Err error  // Underlying cause
}

// Error returns the error string.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("stormlin: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches ConfigError.
func (e *ConfigError) Is(err error) bool {
	return err == ErrMissingConfig
}

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigError
	return errors.As(err, &e)
}

// StructuralError reports a record that cannot be written as it is shaped.
type StructuralError struct {
	Type string // Record type name
	Err  error  // Underlying cause
}

// Error returns the error string.
func (e *StructuralError) Error() string {
	return fmt.Sprintf("stormlin: record %s: %v", e.Type, e.Err)
}

// Unwrap returns the underlying error.
func (e *StructuralError) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches StructuralError.
func (e *StructuralError) Is(err error) bool {
	return err == ErrInvalidRecord
}

// IsStructuralError returns true if the error is a StructuralError.
func IsStructuralError(err error) bool {
	if err == nil {
		return false
	}
	var e *StructuralError
	return errors.As(err, &e)
}

// QueryError wraps a failed read with additional context.
type QueryError struct {
	Entity string // Record type being queried
	Op     string // Operation (e.g., "run", "unique", "statement")
	Err    error  // Underlying error
}

// Error returns the error string.
func (e *QueryError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("stormlin: querying %s (%s): %v", e.Entity, e.Op, e.Err)
	}
	return fmt.Sprintf("stormlin: querying %s: %v", e.Entity, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError returns a new QueryError.
func NewQueryError(entity, op string, err error) *QueryError {
	return &QueryError{Entity: entity, Op: op, Err: err}
}

// IsQueryError returns true if the error is a QueryError.
func IsQueryError(err error) bool {
	if err == nil {
		return false
	}
	var e *QueryError
	return errors.As(err, &e)
}

// ConstraintError represents a database constraint violation reported in
// Result.Failure.
type ConstraintError = sqlrecord.ConstraintError

// IsConstraintError returns true if the error resulted from a database
// constraint violation.
func IsConstraintError(err error) bool {
	return sqlrecord.IsConstraintError(err)
}

// wrap sorts the errors raised by the schema and sqlrecord layers into the
// configuration and structural kinds. Database errors of reads become
// QueryErrors labeled with entity and op.
func wrap(entity, op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, schema.ErrNoTable),
		errors.Is(err, schema.ErrNotStruct),
		errors.Is(err, sqlrecord.ErrNilFactory),
		errors.Is(err, sqlrecord.ErrNotAddressable),
		errors.Is(err, ErrNoQuery),
		errors.Is(err, ErrRunnerDone):
		return &ConfigError{Op: op, Err: err}
	case errors.Is(err, schema.ErrReadOnly),
		errors.Is(err, sqlrecord.ErrEmptyRecord):
		return &StructuralError{Type: entity, Err: err}
	case IsNotSingular(err), IsConfigError(err), IsStructuralError(err):
		return err
	default:
		return NewQueryError(entity, op, err)
	}
}
