package model

import (
	"time"
)

// Kind is the type tag of an entity. It doubles as the serialized discriminator.
type Kind string

const (
	KindUser    Kind = "User"
	KindCountry Kind = "Country"
	KindCity    Kind = "City"
	KindAmenity Kind = "Amenity"
	KindPlace   Kind = "Place"
	KindReview  Kind = "Review"
)

const (
	// ClassField is the discriminator added to every serialized record.
	ClassField     = "__class__"
	IDField        = "id"
	CreatedAtField = "created_at"
	UpdatedAtField = "updated_at"
)

// TimeLayout is the ISO-8601 layout used for created_at and updated_at.
const TimeLayout = time.RFC3339Nano

// Key returns the store key of the entity of the given kind and id.
func Key(kind Kind, id string) string {
	return string(kind) + "_" + id
}

// Fields is a set of business field values keyed by field name.
type Fields map[string]any

// Record is the flat serialized form of an entity, discriminator and timestamps included.
type Record map[string]any

// Class returns the discriminator of the record, empty if absent or not a string.
func (r Record) Class() Kind {
	c, _ := r[ClassField].(string)
	return Kind(c)
}

// Entity is implemented by every catalog record.
type Entity interface {
	// Kind is the entity type tag.
	Kind() Kind

	// ID is the immutable identifier assigned at creation.
	ID() string

	// Key is Key(Kind(), ID()).
	Key() string

	// CreatedAt is the creation time.
	CreatedAt() time.Time

	// UpdatedAt is the time of the last successful mutation.
	UpdatedAt() time.Time

	// Set assigns a business field through its validated setter.
	Set(field string, value any) error

	// Touch advances UpdatedAt to t. It never moves it backwards.
	Touch(t time.Time)

	// Serialize returns the flat record of the entity.
	Serialize() Record

	// Clone returns a deep copy.
	Clone() Entity
}

// base holds the identity and timestamps shared by all kinds.
type base struct {
	id        string
	createdAt time.Time
	updatedAt time.Time
}

func newBase(id string, now time.Time) base {
	now = now.UTC()
	return base{id: id, createdAt: now, updatedAt: now}
}

func (b *base) ID() string           { return b.id }
func (b *base) CreatedAt() time.Time { return b.createdAt }
func (b *base) UpdatedAt() time.Time { return b.updatedAt }

func (b *base) Touch(t time.Time) {
	t = t.UTC()
	if t.After(b.updatedAt) {
		b.updatedAt = t
	}
}

func (b *base) record(kind Kind) Record {
	return Record{
		ClassField:     string(kind),
		IDField:        b.id,
		CreatedAtField: b.createdAt.Format(TimeLayout),
		UpdatedAtField: b.updatedAt.Format(TimeLayout),
	}
}
