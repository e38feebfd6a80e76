package model

import "time"

// Amenity is a named facility a Place can offer.
type Amenity struct {
	base
	name string
}

func (a *Amenity) Kind() Kind   { return KindAmenity }
func (a *Amenity) Key() string  { return Key(KindAmenity, a.id) }
func (a *Amenity) Name() string { return a.name }

func (a *Amenity) SetName(name string) error {
	if name == "" {
		return invalid(KindAmenity, "name", "must not be empty")
	}
	a.name = name
	return nil
}

func (a *Amenity) Set(field string, value any) error {
	if field == "name" {
		return setString(KindAmenity, field, value, a.SetName)
	}
	return invalid(KindAmenity, field, "unknown field")
}

func (a *Amenity) Serialize() Record {
	r := a.record(KindAmenity)
	r["name"] = a.name
	return r
}

func (a *Amenity) Clone() Entity {
	cp := *a
	return &cp
}

var amenitySpec = KindSpec{
	Kind:   KindAmenity,
	Fields: []FieldSpec{{Name: "name"}},
	blank:  func(id string, now time.Time) Entity { return &Amenity{base: newBase(id, now)} },
}
