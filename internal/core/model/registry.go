package model

import (
	"fmt"
	"time"
)

// FieldSpec describes one business field of a kind.
type FieldSpec struct {
	// Name is the serialized field name.
	Name string

	// Optional fields may be omitted at construction and keep their zero value.
	Optional bool
}

// KindSpec is the static metadata of an entity kind: the field set its
// constructor and update path accept, and how to allocate a blank instance.
type KindSpec struct {
	Kind   Kind
	Fields []FieldSpec
	blank  func(id string, now time.Time) Entity
}

// Required returns the names of the business fields of the kind, in declaration order.
func (s KindSpec) Required() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Has reports whether name is a business field of the kind.
func (s KindSpec) Has(name string) bool {
	_, ok := s.field(name)
	return ok
}

func (s KindSpec) field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

var registry = map[Kind]KindSpec{
	KindUser:    userSpec,
	KindCountry: countrySpec,
	KindCity:    citySpec,
	KindAmenity: amenitySpec,
	KindPlace:   placeSpec,
	KindReview:  reviewSpec,
}

var kinds = []Kind{KindUser, KindCountry, KindCity, KindAmenity, KindPlace, KindReview}

// Lookup returns the spec of a registered kind.
func Lookup(kind Kind) (KindSpec, bool) {
	s, ok := registry[kind]
	return s, ok
}

// Kinds returns every registered kind.
func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

// New builds a fully validated entity of the given kind from its business
// fields. Fields outside the kind's field set are ignored. A missing
// non-optional field is a ValidationError.
func New(kind Kind, id string, now time.Time, fields Fields) (Entity, error) {
	spec, ok := Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err := checkRequiredID(kind, IDField, id); err != nil {
		return nil, err
	}
	e := spec.blank(id, now)
	for _, f := range spec.Fields {
		v, present := fields[f.Name]
		if !present {
			if f.Optional {
				continue
			}
			return nil, invalid(kind, f.Name, "is required")
		}
		if err := e.Set(f.Name, v); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Decode rebuilds an entity from its serialized record, keeping the original
// id and timestamps. The kind is taken from the discriminator.
func Decode(r Record) (Entity, error) {
	kind := r.Class()
	spec, ok := Lookup(kind)
	if !ok {
		return nil, &StructuralError{Field: ClassField, Err: fmt.Errorf("%w: %q", ErrUnknownKind, r[ClassField])}
	}

	id, ok := r[IDField].(string)
	if !ok || id == "" {
		return nil, &StructuralError{Field: IDField, Err: fmt.Errorf("missing or not a string")}
	}
	key := Key(kind, id)

	createdAt, err := decodeTime(r, CreatedAtField)
	if err != nil {
		return nil, &StructuralError{Key: key, Field: CreatedAtField, Err: err}
	}
	updatedAt, err := decodeTime(r, UpdatedAtField)
	if err != nil {
		return nil, &StructuralError{Key: key, Field: UpdatedAtField, Err: err}
	}
	if updatedAt.Before(createdAt) {
		return nil, &StructuralError{Key: key, Field: UpdatedAtField, Err: fmt.Errorf("precedes %s", CreatedAtField)}
	}

	fields := make(Fields, len(spec.Fields))
	for _, f := range spec.Fields {
		v, present := r[f.Name]
		if !present {
			return nil, &StructuralError{Key: key, Field: f.Name, Err: fmt.Errorf("missing")}
		}
		fields[f.Name] = v
	}
	e, err := New(kind, id, createdAt, fields)
	if err != nil {
		return nil, &StructuralError{Key: key, Err: err}
	}
	e.Touch(updatedAt)
	return e, nil
}

func decodeTime(r Record, field string) (time.Time, error) {
	s, ok := r[field].(string)
	if !ok {
		return time.Time{}, fmt.Errorf("missing or not a string")
	}
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("not an ISO-8601 timestamp: %w", err)
	}
	return t.UTC(), nil
}
