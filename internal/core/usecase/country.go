package usecase

import (
	"context"

	"github.com/rbroggi/hbnb/internal/core/model"
)

// CountryService manages countries. A country's city list is maintained by
// the CityService.
type CountryService struct {
	crud[*model.Country]
}

// Create creates a country. It always starts with no cities.
func (s *CountryService) Create(ctx context.Context, fields model.Fields) (*model.Country, error) {
	return s.simpleCreate(ctx, withField(fields, "cities", []string{}), nil)
}

// Update updates a country. Every id of a supplied city list must name an existing city.
func (s *CountryService) Update(ctx context.Context, id string, fields model.Fields) (*model.Country, error) {
	return s.simpleUpdate(ctx, id, fields, func() error {
		return s.c.checkRefs(model.KindCountry, "cities", model.KindCity, fields["cities"])
	})
}
