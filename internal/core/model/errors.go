package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an entity is required to exist and does not.
	ErrNotFound = errors.New("entity was not found")

	// ErrValidation is returned when a field value breaks its contract.
	ErrValidation = errors.New("invalid field value")

	// ErrStructural is returned when a serialized record cannot be turned back into an entity.
	ErrStructural = errors.New("malformed serialized record")

	// ErrIntegrity is returned when a foreign id does not resolve to an existing entity of the expected kind.
	ErrIntegrity = errors.New("referential integrity violation")

	// ErrUniqueness is returned when a value that must be unique across a kind is already taken.
	ErrUniqueness = errors.New("uniqueness violation")

	// ErrUnknownKind is returned for kinds that are not in the registry.
	ErrUnknownKind = errors.New("unknown entity kind")

	// ErrNoDocument is returned by a backing medium when no document has been written yet.
	ErrNoDocument = errors.New("backing document does not exist")
)

// ValidationError reports a field that failed its setter-level check.
type ValidationError struct {
	Kind   Kind
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Kind, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// StructuralError reports a serialized record that could not be decoded.
type StructuralError struct {
	// Key is the document key of the record, when known.
	Key string
	// Field is the offending field, empty when the record as a whole is wrong.
	Field string
	Err   error
}

func (e *StructuralError) Error() string {
	msg := "record " + e.Key
	if e.Field != "" {
		msg += " field " + e.Field
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StructuralError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStructural}
	}
	return []error{ErrStructural, e.Err}
}

// IntegrityError reports a foreign id that does not resolve.
type IntegrityError struct {
	Kind    Kind
	Field   string
	RefKind Kind
	Ref     string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s.%s references %s %q which does not exist", e.Kind, e.Field, e.RefKind, e.Ref)
}

func (e *IntegrityError) Unwrap() error { return ErrIntegrity }

// UniquenessError reports a duplicated unique value.
type UniquenessError struct {
	Kind  Kind
	Field string
	Value string
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("%s.%s %q is already taken", e.Kind, e.Field, e.Value)
}

func (e *UniquenessError) Unwrap() error { return ErrUniqueness }

// NotFoundError reports a missing key.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return e.Key + " was not found"
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
