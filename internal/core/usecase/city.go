package usecase

import (
	"context"
	"slices"

	"github.com/rbroggi/hbnb/internal/core/model"
)

// CityService manages cities and keeps the city list of their country in sync.
type CityService struct {
	crud[*model.City]
}

// Create creates a city in an existing country and appends it to the country's cities.
func (s *CityService) Create(ctx context.Context, fields model.Fields) (*model.City, error) {
	var city *model.City
	err := s.c.mutate(ctx, func(tx *tx) error {
		if err := s.c.checkRef(model.KindCity, "country", model.KindCountry, fields["country"]); err != nil {
			return err
		}
		var err error
		city, err = s.create(tx, s.c.newID(), fields)
		if err != nil {
			return err
		}
		return linkCity(tx, city.Country(), city.ID())
	})
	return city, err
}

// Update updates a city. Moving it to another country moves its id between
// the two countries' city lists.
func (s *CityService) Update(ctx context.Context, id string, fields model.Fields) (*model.City, error) {
	var city *model.City
	err := s.c.mutate(ctx, func(tx *tx) error {
		if _, err := s.lookup(id); err != nil {
			return err
		}
		if err := s.c.checkRef(model.KindCity, "country", model.KindCountry, fields["country"]); err != nil {
			return err
		}
		prev, next, err := s.update(tx, id, fields)
		if err != nil {
			return err
		}
		city = next
		if prev.Country() == next.Country() {
			return nil
		}
		if err := unlinkCity(tx, prev.Country(), id); err != nil {
			return err
		}
		return linkCity(tx, next.Country(), id)
	})
	return city, err
}

// Delete deletes a city and removes it from its country's cities: the list is
// deliberately pruned rather than kept append-only, so it never names deleted cities.
func (s *CityService) Delete(ctx context.Context, id string) (*model.City, error) {
	return s.delete(ctx, id, func(tx *tx, city *model.City) error {
		return unlinkCity(tx, city.Country(), city.ID())
	})
}

func linkCity(tx *tx, countryID, cityID string) error {
	return tx.edit(model.Key(model.KindCountry, countryID), func(e model.Entity) error {
		country := e.(*model.Country)
		return country.SetCities(append(country.Cities(), cityID))
	})
}

func unlinkCity(tx *tx, countryID, cityID string) error {
	return tx.edit(model.Key(model.KindCountry, countryID), func(e model.Entity) error {
		country := e.(*model.Country)
		return country.SetCities(slices.DeleteFunc(country.Cities(), func(id string) bool { return id == cityID }))
	})
}
