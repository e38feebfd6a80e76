package model

import "time"

const (
	MinRating = 0
	MaxRating = 10
)

// Review is left by a User on a Place.
type Review struct {
	base
	user    string
	place   string
	rating  int
	comment string
}

func (r *Review) Kind() Kind      { return KindReview }
func (r *Review) Key() string     { return Key(KindReview, r.id) }
func (r *Review) User() string    { return r.user }
func (r *Review) Place() string   { return r.place }
func (r *Review) Rating() int     { return r.rating }
func (r *Review) Comment() string { return r.comment }

func (r *Review) SetUser(userID string) error {
	if err := checkRequiredID(KindReview, "user", userID); err != nil {
		return err
	}
	r.user = userID
	return nil
}

func (r *Review) SetPlace(placeID string) error {
	if err := checkRequiredID(KindReview, "place", placeID); err != nil {
		return err
	}
	r.place = placeID
	return nil
}

// SetRating accepts ratings in [MinRating, MaxRating].
func (r *Review) SetRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return invalid(KindReview, "rating", "must be between 0 and 10")
	}
	r.rating = rating
	return nil
}

func (r *Review) SetComment(comment string) error {
	r.comment = comment
	return nil
}

func (r *Review) Set(field string, value any) error {
	switch field {
	case "user":
		return setString(KindReview, field, value, r.SetUser)
	case "place":
		return setString(KindReview, field, value, r.SetPlace)
	case "rating":
		return setInt(KindReview, field, value, r.SetRating)
	case "comment":
		return setString(KindReview, field, value, r.SetComment)
	}
	return invalid(KindReview, field, "unknown field")
}

func (r *Review) Serialize() Record {
	rec := r.record(KindReview)
	rec["user"] = r.user
	rec["place"] = r.place
	rec["rating"] = r.rating
	rec["comment"] = r.comment
	return rec
}

func (r *Review) Clone() Entity {
	cp := *r
	return &cp
}

var reviewSpec = KindSpec{
	Kind: KindReview,
	Fields: []FieldSpec{
		{Name: "user"},
		{Name: "place"},
		{Name: "rating"},
		{Name: "comment"},
	},
	blank: func(id string, now time.Time) Entity { return &Review{base: newBase(id, now)} },
}
