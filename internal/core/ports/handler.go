package ports

import (
	"context"

	"github.com/rbroggi/hbnb/internal/core/model"
)

// EntityEventHandler handles EntityEvents.
type EntityEventHandler interface {
	// Handle will receive an entity event and handle it.
	Handle(ctx context.Context, event model.EntityEvent) error
}
