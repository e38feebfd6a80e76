package usecase

import (
	"context"

	"github.com/rbroggi/hbnb/internal/core/model"
)

// AmenityService manages amenities. Amenity names are unique.
type AmenityService struct {
	crud[*model.Amenity]
}

// Create creates an amenity.
func (s *AmenityService) Create(ctx context.Context, fields model.Fields) (*model.Amenity, error) {
	return s.simpleCreate(ctx, fields, func() error {
		return s.checkName(fields, "")
	})
}

// Update updates an amenity.
func (s *AmenityService) Update(ctx context.Context, id string, fields model.Fields) (*model.Amenity, error) {
	return s.simpleUpdate(ctx, id, fields, func() error {
		return s.checkName(fields, id)
	})
}

func (s *AmenityService) checkName(fields model.Fields, self string) error {
	return s.c.checkUnique(model.KindAmenity, "name", fields["name"], self, func(e model.Entity) string {
		return e.(*model.Amenity).Name()
	})
}
