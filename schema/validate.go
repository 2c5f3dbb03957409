package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// ValidationError is one issue found in a record type.
type ValidationError struct {
	Type    string
	Field   string
	Column  string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s.%s (%s): %s", e.Type, e.Field, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ValidationResult holds the results of a record type validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.Error())
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// Validate checks the record type t. Missing tables, unsupported types and
// duplicate columns are errors; readonly fields and a missing key column
// are warnings.
func Validate(t reflect.Type) *ValidationResult {
	r := &ValidationResult{}
	typ, err := Of(t)
	if err != nil {
		r.Errors = append(r.Errors, &ValidationError{Type: t.String(), Message: err.Error()})
		return r
	}
	if typ.Table == "" {
		r.Errors = append(r.Errors, &ValidationError{Type: typ.Name, Message: "missing TableName() string"})
	}
	seen := make(map[string]*Field, len(typ.Fields))
	for _, f := range typ.Fields {
		if prev, ok := seen[f.Column]; ok {
			r.Errors = append(r.Errors, &ValidationError{
				Type:    typ.Name,
				Field:   f.Name,
				Column:  f.Column,
				Message: fmt.Sprintf("column already mapped by field %s", prev.Name),
			})
			continue
		}
		seen[f.Column] = f
		if !f.Settable {
			r.Warnings = append(r.Warnings, &ValidationError{
				Type:    typ.Name,
				Field:   f.Name,
				Column:  f.Column,
				Message: "readonly field is skipped on read and rejected on write",
			})
		}
	}
	if _, ok := typ.PK(); !ok {
		r.Warnings = append(r.Warnings, &ValidationError{Type: typ.Name, Message: "no pk column declared"})
	}
	return r
}
