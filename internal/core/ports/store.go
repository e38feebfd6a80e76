package ports

import (
	"context"

	"github.com/rbroggi/hbnb/internal/core/model"
)

// ObjectStore is the keyed entity mapping the services read and write.
type ObjectStore interface {
	// Add inserts or replaces an entity under its key, in memory only.
	Add(e model.Entity) error

	// Remove deletes the key of an entity. It is a no-op if absent.
	Remove(e model.Entity)

	// Get looks up an entity by key.
	Get(key string) (model.Entity, bool)

	// All returns every entity of a kind, or every entity when kind is empty.
	All(kind model.Kind) map[string]model.Entity

	// Save persists the whole mapping.
	Save(ctx context.Context) error
}
