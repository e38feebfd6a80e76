package model

import (
	"math"
	"slices"
	"time"
)

// Place is a listing hosted by a User in a City. It owns a denormalized,
// creation-ordered list of its Review ids.
type Place struct {
	base
	name            string
	description     string
	address         string
	city            string
	country         string
	latitude        float64
	longitude       float64
	host            string
	pricePerNight   int
	maxGuests       int
	numberRooms     int
	numberBathrooms int
	amenities       []string
	reviews         []string
}

func (p *Place) Kind() Kind           { return KindPlace }
func (p *Place) Key() string          { return Key(KindPlace, p.id) }
func (p *Place) Name() string         { return p.name }
func (p *Place) Description() string  { return p.description }
func (p *Place) Address() string      { return p.address }
func (p *Place) City() string         { return p.city }
func (p *Place) Country() string      { return p.country }
func (p *Place) Latitude() float64    { return p.latitude }
func (p *Place) Longitude() float64   { return p.longitude }
func (p *Place) Host() string         { return p.host }
func (p *Place) PricePerNight() int   { return p.pricePerNight }
func (p *Place) MaxGuests() int       { return p.maxGuests }
func (p *Place) NumberRooms() int     { return p.numberRooms }
func (p *Place) NumberBathrooms() int { return p.numberBathrooms }
func (p *Place) Amenities() []string  { return slices.Clone(p.amenities) }
func (p *Place) Reviews() []string    { return slices.Clone(p.reviews) }

func (p *Place) SetName(name string) error {
	p.name = name
	return nil
}

func (p *Place) SetDescription(description string) error {
	p.description = description
	return nil
}

func (p *Place) SetAddress(address string) error {
	p.address = address
	return nil
}

func (p *Place) SetCity(cityID string) error {
	if err := checkRequiredID(KindPlace, "city", cityID); err != nil {
		return err
	}
	p.city = cityID
	return nil
}

func (p *Place) SetCountry(countryID string) error {
	if err := checkRequiredID(KindPlace, "country", countryID); err != nil {
		return err
	}
	p.country = countryID
	return nil
}

func (p *Place) SetLatitude(lat float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return invalid(KindPlace, "latitude", "must be between -90 and 90")
	}
	p.latitude = lat
	return nil
}

func (p *Place) SetLongitude(long float64) error {
	if math.IsNaN(long) || long < -180 || long > 180 {
		return invalid(KindPlace, "longitude", "must be between -180 and 180")
	}
	p.longitude = long
	return nil
}

func (p *Place) SetHost(userID string) error {
	if err := checkRequiredID(KindPlace, "host", userID); err != nil {
		return err
	}
	p.host = userID
	return nil
}

func (p *Place) SetPricePerNight(price int) error {
	if err := checkNonNegative(KindPlace, "price_per_night", price); err != nil {
		return err
	}
	p.pricePerNight = price
	return nil
}

func (p *Place) SetMaxGuests(n int) error {
	if err := checkNonNegative(KindPlace, "max_guests", n); err != nil {
		return err
	}
	p.maxGuests = n
	return nil
}

func (p *Place) SetNumberRooms(n int) error {
	if err := checkNonNegative(KindPlace, "number_rooms", n); err != nil {
		return err
	}
	p.numberRooms = n
	return nil
}

func (p *Place) SetNumberBathrooms(n int) error {
	if err := checkNonNegative(KindPlace, "number_bathrooms", n); err != nil {
		return err
	}
	p.numberBathrooms = n
	return nil
}

func (p *Place) SetAmenities(ids []string) error {
	p.amenities = append(make([]string, 0, len(ids)), ids...)
	return nil
}

func (p *Place) SetReviews(ids []string) error {
	p.reviews = append(make([]string, 0, len(ids)), ids...)
	return nil
}

func (p *Place) Set(field string, value any) error {
	switch field {
	case "name":
		return setString(KindPlace, field, value, p.SetName)
	case "description":
		return setString(KindPlace, field, value, p.SetDescription)
	case "address":
		return setString(KindPlace, field, value, p.SetAddress)
	case "city":
		return setString(KindPlace, field, value, p.SetCity)
	case "country":
		return setString(KindPlace, field, value, p.SetCountry)
	case "latitude":
		return setFloat(KindPlace, field, value, p.SetLatitude)
	case "longitude":
		return setFloat(KindPlace, field, value, p.SetLongitude)
	case "host":
		return setString(KindPlace, field, value, p.SetHost)
	case "price_per_night":
		return setInt(KindPlace, field, value, p.SetPricePerNight)
	case "max_guests":
		return setInt(KindPlace, field, value, p.SetMaxGuests)
	case "number_rooms":
		return setInt(KindPlace, field, value, p.SetNumberRooms)
	case "number_bathrooms":
		return setInt(KindPlace, field, value, p.SetNumberBathrooms)
	case "amenities":
		return setIDs(KindPlace, field, value, p.SetAmenities)
	case "reviews":
		return setIDs(KindPlace, field, value, p.SetReviews)
	}
	return invalid(KindPlace, field, "unknown field")
}

func (p *Place) Serialize() Record {
	r := p.record(KindPlace)
	r["name"] = p.name
	r["description"] = p.description
	r["address"] = p.address
	r["city"] = p.city
	r["country"] = p.country
	r["latitude"] = p.latitude
	r["longitude"] = p.longitude
	r["host"] = p.host
	r["price_per_night"] = p.pricePerNight
	r["max_guests"] = p.maxGuests
	r["number_rooms"] = p.numberRooms
	r["number_bathrooms"] = p.numberBathrooms
	r["amenities"] = copyIDs(p.amenities)
	r["reviews"] = copyIDs(p.reviews)
	return r
}

func (p *Place) Clone() Entity {
	cp := *p
	cp.amenities = slices.Clone(p.amenities)
	cp.reviews = slices.Clone(p.reviews)
	return &cp
}

var placeSpec = KindSpec{
	Kind: KindPlace,
	Fields: []FieldSpec{
		{Name: "name"},
		{Name: "description", Optional: true},
		{Name: "address"},
		{Name: "city"},
		{Name: "country"},
		{Name: "latitude", Optional: true},
		{Name: "longitude", Optional: true},
		{Name: "host"},
		{Name: "price_per_night"},
		{Name: "max_guests"},
		{Name: "number_rooms"},
		{Name: "number_bathrooms"},
		{Name: "amenities", Optional: true},
		{Name: "reviews", Optional: true},
	},
	blank: func(id string, now time.Time) Entity {
		return &Place{base: newBase(id, now), amenities: []string{}, reviews: []string{}}
	},
}
