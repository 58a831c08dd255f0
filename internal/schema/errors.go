package schema

import "fmt"

// ErrorKind classifies why a value failed validation.
type ErrorKind int

const (
	// ErrRequired means a required field was absent or null.
	ErrRequired ErrorKind = iota
	// ErrNotNullable means a present but empty value violates non-nullability.
	ErrNotNullable
	// ErrWrongType means the value's structural type does not match the field kind.
	ErrWrongType
	// ErrInvalidValue means the value is structurally correct but semantically invalid.
	ErrInvalidValue
)

// FieldError describes a single validation failure. Field is filled in by
// Bind; a Field validator returns the error with only the remaining parts set
// so the same validator can back any number of named fields.
type FieldError struct {
	Field    string
	Kind     ErrorKind
	Expected string
	Value    any
}

func (e *FieldError) Error() string {
	switch e.Kind {
	case ErrRequired:
		return fmt.Sprintf("field %q is required", e.Field)
	case ErrNotNullable:
		return fmt.Sprintf("field %q must not be empty", e.Field)
	case ErrWrongType:
		return fmt.Sprintf("field %q expects %s, got %v", e.Field, e.Expected, e.Value)
	default:
		return fmt.Sprintf("field %q has invalid value %v", e.Field, e.Value)
	}
}

func requiredErr() *FieldError {
	return &FieldError{Kind: ErrRequired}
}

func notNullableErr() *FieldError {
	return &FieldError{Kind: ErrNotNullable}
}

func wrongTypeErr(expected string, value any) *FieldError {
	return &FieldError{Kind: ErrWrongType, Expected: expected, Value: value}
}

func invalidValueErr(value any) *FieldError {
	return &FieldError{Kind: ErrInvalidValue, Value: value}
}
