package usecase

import (
	"context"

	"github.com/rbroggi/hbnb/internal/core/model"
)

// PlaceService manages places. A place's review list is maintained by the ReviewService.
type PlaceService struct {
	crud[*model.Place]
}

// Create creates a place. Its host, city, country and amenities must exist. It
// always starts with no reviews.
func (s *PlaceService) Create(ctx context.Context, fields model.Fields) (*model.Place, error) {
	return s.simpleCreate(ctx, withField(fields, "reviews", []string{}), func() error {
		return s.checkRefs(fields)
	})
}

// Update updates a place. Supplied references, reviews included, must exist.
func (s *PlaceService) Update(ctx context.Context, id string, fields model.Fields) (*model.Place, error) {
	return s.simpleUpdate(ctx, id, fields, func() error {
		if err := s.checkRefs(fields); err != nil {
			return err
		}
		return s.c.checkRefs(model.KindPlace, "reviews", model.KindReview, fields["reviews"])
	})
}

func (s *PlaceService) checkRefs(fields model.Fields) error {
	refs := []struct {
		field string
		kind  model.Kind
	}{
		{field: "host", kind: model.KindUser},
		{field: "city", kind: model.KindCity},
		{field: "country", kind: model.KindCountry},
	}
	for _, ref := range refs {
		if err := s.c.checkRef(model.KindPlace, ref.field, ref.kind, fields[ref.field]); err != nil {
			return err
		}
	}
	return s.c.checkRefs(model.KindPlace, "amenities", model.KindAmenity, fields["amenities"])
}
