package model

import "time"

// City belongs to exactly one Country, referenced by id.
type City struct {
	base
	name    string
	country string
}

func (c *City) Kind() Kind      { return KindCity }
func (c *City) Key() string     { return Key(KindCity, c.id) }
func (c *City) Name() string    { return c.name }
func (c *City) Country() string { return c.country }

func (c *City) SetName(name string) error {
	c.name = name
	return nil
}

func (c *City) SetCountry(countryID string) error {
	if err := checkRequiredID(KindCity, "country", countryID); err != nil {
		return err
	}
	c.country = countryID
	return nil
}

func (c *City) Set(field string, value any) error {
	switch field {
	case "name":
		return setString(KindCity, field, value, c.SetName)
	case "country":
		return setString(KindCity, field, value, c.SetCountry)
	}
	return invalid(KindCity, field, "unknown field")
}

func (c *City) Serialize() Record {
	r := c.record(KindCity)
	r["name"] = c.name
	r["country"] = c.country
	return r
}

func (c *City) Clone() Entity {
	cp := *c
	return &cp
}

var citySpec = KindSpec{
	Kind:   KindCity,
	Fields: []FieldSpec{{Name: "name"}, {Name: "country"}},
	blank:  func(id string, now time.Time) Entity { return &City{base: newBase(id, now)} },
}
