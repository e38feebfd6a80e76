package app

import (
	"context"
	"fmt"

	"github.com/rbroggi/hbnb/internal/core/model"
	"github.com/rbroggi/hbnb/internal/core/ports"
	"github.com/rbroggi/hbnb/internal/core/usecase"
)

// Seed fills an empty catalog with a small demo dataset: one host with a
// listing in Montevideo and a guest review. It reports false when the catalog
// already holds users and nothing was created.
func Seed(ctx context.Context, catalog *usecase.Catalog) (bool, error) {
	if len(catalog.Users.All()) > 0 {
		return false, nil
	}
	uruguay, err := catalog.Countries.Create(ctx, model.Fields{"name": "Uruguay", "iso": "UY"})
	if err != nil {
		return false, fmt.Errorf("error seeding country: %w", err)
	}
	montevideo, err := catalog.Cities.Create(ctx, model.Fields{"name": "Montevideo", "country": uruguay.ID()})
	if err != nil {
		return false, fmt.Errorf("error seeding city: %w", err)
	}
	host, err := catalog.Users.Create(ctx, model.Fields{
		"email":      "host@hbnb.io",
		"password":   "host-password",
		"first_name": "Ana",
		"last_name":  "Silva",
	})
	if err != nil {
		return false, fmt.Errorf("error seeding host: %w", err)
	}
	guest, err := catalog.Users.Create(ctx, model.Fields{
		"email":      "guest@hbnb.io",
		"password":   "guest-password",
		"first_name": "Bruno",
		"last_name":  "Costa",
	})
	if err != nil {
		return false, fmt.Errorf("error seeding guest: %w", err)
	}
	var amenities []string
	for _, name := range []string{"Wifi", "Air conditioning", "Kitchen"} {
		a, err := catalog.Amenities.Create(ctx, model.Fields{"name": name})
		if err != nil {
			return false, fmt.Errorf("error seeding amenity %s: %w", name, err)
		}
		amenities = append(amenities, a.ID())
	}
	place, err := catalog.Places.Create(ctx, model.Fields{
		"name":             "Casa Azul",
		"description":      "Two rooms by the Rambla",
		"address":          "Rambla Wilson 1234",
		"city":             montevideo.ID(),
		"country":          uruguay.ID(),
		"latitude":         -34.9167,
		"longitude":        -56.1667,
		"host":             host.ID(),
		"price_per_night":  120,
		"max_guests":       4,
		"number_rooms":     2,
		"number_bathrooms": 1,
		"amenities":        amenities,
	})
	if err != nil {
		return false, fmt.Errorf("error seeding place: %w", err)
	}
	if _, err := catalog.Reviews.Create(ctx, model.Fields{
		"user":    guest.ID(),
		"place":   place.ID(),
		"rating":  5,
		"comment": "Great view of the river",
	}); err != nil {
		return false, fmt.Errorf("error seeding review: %w", err)
	}
	return true, nil
}

// Counts reports how many entities of each kind the catalog store holds.
func Counts(st ports.ObjectStore) map[model.Kind]int {
	counts := make(map[model.Kind]int)
	for _, kind := range model.Kinds() {
		counts[kind] = len(st.All(kind))
	}
	return counts
}
