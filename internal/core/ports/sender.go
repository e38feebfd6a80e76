package ports

import (
	"context"

	"github.com/rbroggi/hbnb/internal/core/model"
)

// Sender is the port for publishing/informing/sending outbound entity events.
type Sender interface {
	// Send sends entity-event data.
	Send(ctx context.Context, event model.EntityEvent) error
}
