package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rbroggi/hbnb/internal/core/model"
	"github.com/rbroggi/hbnb/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// MirrorArgs contains the mandatory arguments for the Mirror.
type MirrorArgs struct {
	// Store is the replica the events are applied to.
	Store ports.ObjectStore
}

// NewMirror builds a new mirror.
func NewMirror(args MirrorArgs) (*Mirror, error) {
	if args.Store == nil {
		return nil, errors.New("nil store passed to mirror")
	}
	return &Mirror{store: args.Store}, nil
}

// Mirror keeps a replica store in line with the published entity events.
type Mirror struct {
	mu    sync.Mutex
	store ports.ObjectStore
}

// Handle applies one event to the replica and persists it. Events older than
// what the replica already holds for the same entity are ignored, so
// redelivered or reordered events are harmless.
func (m *Mirror) Handle(ctx context.Context, event model.EntityEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := model.Key(event.Kind, event.EntityID)
	logger := log.WithField("event_id", event.ID).WithField("key", key).WithField("op", event.Op)

	switch event.Op {
	case model.OpCreate, model.OpUpdate:
		e, err := model.Decode(event.After)
		if err != nil {
			return fmt.Errorf("error decoding the entity of event ID [%s]: %w", event.ID, err)
		}
		if e.Key() != key {
			return fmt.Errorf("event ID [%s] carries %s instead of %s", event.ID, e.Key(), key)
		}
		if cur, ok := m.store.Get(key); ok && cur.UpdatedAt().After(e.UpdatedAt()) {
			logger.Debug("stale event ignored")
			return nil
		}
		if err := m.store.Add(e); err != nil {
			return fmt.Errorf("error adding the entity of event ID [%s]: %w", event.ID, err)
		}
	case model.OpDelete:
		cur, ok := m.store.Get(key)
		if !ok {
			logger.Debug("entity already absent")
			return nil
		}
		m.store.Remove(cur)
	default:
		return fmt.Errorf("event ID [%s] has unknown operation %q", event.ID, event.Op)
	}

	if err := m.store.Save(ctx); err != nil {
		return fmt.Errorf("error persisting the replica: %w", err)
	}
	logger.Debug("event applied to the replica")
	return nil
}
