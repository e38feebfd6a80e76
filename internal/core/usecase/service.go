package usecase

import (
	"context"
	"maps"

	"github.com/rbroggi/hbnb/internal/core/model"
)

// crud is the behaviour shared by every per-kind service.
type crud[T model.Entity] struct {
	c    *Catalog
	kind model.Kind
	// updatable is the set of fields the update path applies, in order.
	updatable []string
}

func newCrud[T model.Entity](c *Catalog, kind model.Kind, updatable ...string) crud[T] {
	if len(updatable) == 0 {
		spec, _ := model.Lookup(kind)
		updatable = spec.Required()
	}
	return crud[T]{c: c, kind: kind, updatable: updatable}
}

// Get returns the entity with the given id, if any.
func (s *crud[T]) Get(id string) (T, bool) {
	var zero T
	e, ok := s.c.store.Get(model.Key(s.kind, id))
	if !ok {
		return zero, false
	}
	typed, ok := e.(T)
	return typed, ok
}

// All returns every entity of the service's kind keyed by store key.
func (s *crud[T]) All() map[string]T {
	all := s.c.store.All(s.kind)
	out := make(map[string]T, len(all))
	for key, e := range all {
		if typed, ok := e.(T); ok {
			out[key] = typed
		}
	}
	return out
}

// Delete removes the entity with the given id and returns it. It returns a
// *model.NotFoundError if there is no such entity.
func (s *crud[T]) Delete(ctx context.Context, id string) (T, error) {
	return s.delete(ctx, id, nil)
}

func (s *crud[T]) lookup(id string) (T, error) {
	e, ok := s.Get(id)
	if !ok {
		return e, &model.NotFoundError{Key: model.Key(s.kind, id)}
	}
	return e, nil
}

func (s *crud[T]) create(tx *tx, id string, fields model.Fields) (T, error) {
	var zero T
	e, err := model.New(s.kind, id, tx.now, fields)
	if err != nil {
		return zero, err
	}
	if err := tx.put(e); err != nil {
		return zero, err
	}
	return e.(T), nil
}

// update applies the updatable fields present in fields to a copy of the
// entity and stages the copy. The live entity is untouched if a field fails.
func (s *crud[T]) update(tx *tx, id string, fields model.Fields) (prev T, next T, err error) {
	prev, err = s.lookup(id)
	if err != nil {
		return prev, next, err
	}
	e := prev.Clone()
	for _, name := range s.updatable {
		v, ok := fields[name]
		if !ok {
			continue
		}
		if err := e.Set(name, v); err != nil {
			return prev, next, err
		}
	}
	e.Touch(tx.now)
	if err := tx.put(e); err != nil {
		return prev, next, err
	}
	return prev, e.(T), nil
}

// delete removes the entity and lets unlink detach it from its parents in the same commit.
func (s *crud[T]) delete(ctx context.Context, id string, unlink func(tx *tx, e T) error) (T, error) {
	var removed T
	err := s.c.mutate(ctx, func(tx *tx) error {
		e, err := s.lookup(id)
		if err != nil {
			return err
		}
		tx.drop(e)
		if unlink != nil {
			if err := unlink(tx, e); err != nil {
				return err
			}
		}
		removed = e
		return nil
	})
	return removed, err
}

// simpleCreate and simpleUpdate run create and update in their own commit after check.
func (s *crud[T]) simpleCreate(ctx context.Context, fields model.Fields, check func() error) (T, error) {
	var created T
	err := s.c.mutate(ctx, func(tx *tx) error {
		if check != nil {
			if err := check(); err != nil {
				return err
			}
		}
		e, err := s.create(tx, s.c.newID(), fields)
		created = e
		return err
	})
	return created, err
}

func (s *crud[T]) simpleUpdate(ctx context.Context, id string, fields model.Fields, check func() error) (T, error) {
	var updated T
	err := s.c.mutate(ctx, func(tx *tx) error {
		if _, err := s.lookup(id); err != nil {
			return err
		}
		if check != nil {
			if err := check(); err != nil {
				return err
			}
		}
		_, e, err := s.update(tx, id, fields)
		updated = e
		return err
	})
	return updated, err
}

// withField returns a copy of fields with name set to v.
func withField(fields model.Fields, name string, v any) model.Fields {
	out := maps.Clone(fields)
	if out == nil {
		out = model.Fields{}
	}
	out[name] = v
	return out
}
