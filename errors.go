package crudgen

import (
	"errors"
	"fmt"
)

// Standard sentinel errors shared by the loader, the generators and the writer.
var (
	// ErrInvalidField is returned when a programmatically built field spec
	// is missing its name or type.
	ErrInvalidField = errors.New("crudgen: invalid field spec")

	// ErrSchemaDirMissing is returned by the batch loader when the schema
	// script directory does not exist.
	ErrSchemaDirMissing = errors.New("crudgen: schema directory not found")

	// ErrNoSchemaScripts is returned when a schema directory holds no script
	// that defines a usable table.
	ErrNoSchemaScripts = errors.New("crudgen: no usable schema scripts")

	// ErrRouteFileMissing is returned when a route block is appended to a
	// routes file that does not exist.
	ErrRouteFileMissing = errors.New("crudgen: routes file not found")

	// ErrRouteExists is reported when the routes file already registers the
	// target resource.
	ErrRouteExists = errors.New("crudgen: route already registered")
)

// FieldError describes a field spec that failed construction-time validation.
type FieldError struct {
	field string
	msg   string
}

// Error returns the error string.
func (e *FieldError) Error() string {
	if e.field != "" {
		return fmt.Sprintf("crudgen: field %q: %s", e.field, e.msg)
	}
	return fmt.Sprintf("crudgen: field: %s", e.msg)
}

// Is reports whether the target error matches FieldError.
// This allows errors.Is(fieldErr, ErrInvalidField) to return true.
func (e *FieldError) Is(err error) bool {
	return err == ErrInvalidField
}

// Field returns the offending field name, if it has one.
func (e *FieldError) Field() string {
	return e.field
}

// NewFieldError returns a new FieldError.
func NewFieldError(field, msg string) *FieldError {
	return &FieldError{field: field, msg: msg}
}

// IsFieldError returns true if the error is a FieldError.
func IsFieldError(err error) bool {
	if err == nil {
		return false
	}
	var e *FieldError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidField)
}
