package model

import (
	"slices"
	"strings"
	"time"
)

// Country owns a denormalized, creation-ordered list of its City ids.
type Country struct {
	base
	name   string
	iso    string
	cities []string
}

func (c *Country) Kind() Kind       { return KindCountry }
func (c *Country) Key() string      { return Key(KindCountry, c.id) }
func (c *Country) Name() string     { return c.name }
func (c *Country) ISO() string      { return c.iso }
func (c *Country) Cities() []string { return slices.Clone(c.cities) }

func (c *Country) SetName(name string) error {
	c.name = name
	return nil
}

// SetISO accepts an ISO 3166 alpha-2 code in any case and stores it upper-cased.
func (c *Country) SetISO(iso string) error {
	if err := checkISO(KindCountry, "iso", iso); err != nil {
		return err
	}
	c.iso = strings.ToUpper(iso)
	return nil
}

func (c *Country) SetCities(ids []string) error {
	c.cities = append(make([]string, 0, len(ids)), ids...)
	return nil
}

func (c *Country) Set(field string, value any) error {
	switch field {
	case "name":
		return setString(KindCountry, field, value, c.SetName)
	case "iso":
		return setString(KindCountry, field, value, c.SetISO)
	case "cities":
		return setIDs(KindCountry, field, value, c.SetCities)
	}
	return invalid(KindCountry, field, "unknown field")
}

func (c *Country) Serialize() Record {
	r := c.record(KindCountry)
	r["name"] = c.name
	r["iso"] = c.iso
	r["cities"] = copyIDs(c.cities)
	return r
}

func (c *Country) Clone() Entity {
	cp := *c
	cp.cities = slices.Clone(c.cities)
	return &cp
}

var countrySpec = KindSpec{
	Kind: KindCountry,
	Fields: []FieldSpec{
		{Name: "name"},
		{Name: "iso"},
		{Name: "cities", Optional: true},
	},
	blank: func(id string, now time.Time) Entity {
		return &Country{base: newBase(id, now), cities: []string{}}
	},
}
