package usecase

import (
	"context"
	"slices"

	"github.com/rbroggi/hbnb/internal/core/model"
)

// ReviewService manages reviews and keeps the review list of their place in
// sync. Only the rating and the comment of a review can be updated.
type ReviewService struct {
	crud[*model.Review]
}

// Create creates a review of an existing place by an existing user and appends
// it to the place's reviews.
func (s *ReviewService) Create(ctx context.Context, fields model.Fields) (*model.Review, error) {
	var review *model.Review
	err := s.c.mutate(ctx, func(tx *tx) error {
		if err := s.c.checkRef(model.KindReview, "user", model.KindUser, fields["user"]); err != nil {
			return err
		}
		if err := s.c.checkRef(model.KindReview, "place", model.KindPlace, fields["place"]); err != nil {
			return err
		}
		var err error
		review, err = s.create(tx, s.c.newID(), fields)
		if err != nil {
			return err
		}
		return tx.edit(model.Key(model.KindPlace, review.Place()), func(e model.Entity) error {
			place := e.(*model.Place)
			return place.SetReviews(append(place.Reviews(), review.ID()))
		})
	})
	return review, err
}

// Update updates the rating and the comment of a review. Other fields are ignored.
func (s *ReviewService) Update(ctx context.Context, id string, fields model.Fields) (*model.Review, error) {
	return s.simpleUpdate(ctx, id, fields, nil)
}

// Delete deletes a review and removes it from its place's reviews.
func (s *ReviewService) Delete(ctx context.Context, id string) (*model.Review, error) {
	return s.delete(ctx, id, func(tx *tx, review *model.Review) error {
		return tx.edit(model.Key(model.KindPlace, review.Place()), func(e model.Entity) error {
			place := e.(*model.Place)
			return place.SetReviews(slices.DeleteFunc(place.Reviews(), func(id string) bool { return id == review.ID() }))
		})
	})
}
