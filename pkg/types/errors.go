package types

import "fmt"

// SchemaError reports a validation failure against an asset type schema.
// It carries the offending subtree so callers can report both what was
// wrong and where. Validation never repairs input and performs no writes.
type SchemaError struct {
	Message string
	Subtree any
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return e.Message
}

// NewSchemaError builds a SchemaError for the given subtree.
func NewSchemaError(subtree any, format string, args ...any) *SchemaError {
	return &SchemaError{
		Message: fmt.Sprintf(format, args...),
		Subtree: subtree,
	}
}
