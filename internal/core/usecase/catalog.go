package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rbroggi/hbnb/internal/core/model"
	"github.com/rbroggi/hbnb/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// CatalogArgs contains the mandatory arguments for the Catalog.
type CatalogArgs struct {
	// Store holds every entity of the catalog.
	Store ports.ObjectStore

	// Hasher derives the stored password of users.
	Hasher ports.PasswordHasher
}

// CatalogOptArgs are the optional arguments of the Catalog.
type CatalogOptArgs = func(*Catalog)

// WithNowFunc overrides the clock used to stamp created_at and updated_at.
func WithNowFunc(nowFunc func() time.Time) CatalogOptArgs {
	return func(c *Catalog) {
		c.now = nowFunc
	}
}

// WithIDFunc overrides the generator of entity ids.
func WithIDFunc(idFunc func() string) CatalogOptArgs {
	return func(c *Catalog) {
		c.newID = idFunc
	}
}

// WithEventHandler registers a handler receiving an EntityEvent for every committed change.
func WithEventHandler(handler ports.EntityEventHandler) CatalogOptArgs {
	return func(c *Catalog) {
		c.handler = handler
	}
}

// NewCatalog builds the six per-kind services on top of one store.
func NewCatalog(args CatalogArgs, optArgs ...CatalogOptArgs) (*Catalog, error) {
	if args.Store == nil {
		return nil, errors.New("nil store passed to catalog")
	}
	if args.Hasher == nil {
		return nil, errors.New("nil password hasher passed to catalog")
	}
	c := &Catalog{
		store: args.Store,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range optArgs {
		opt(c)
	}

	c.Users = &UserService{crud: newCrud[*model.User](c, model.KindUser), hasher: args.Hasher}
	c.Countries = &CountryService{crud: newCrud[*model.Country](c, model.KindCountry)}
	c.Cities = &CityService{crud: newCrud[*model.City](c, model.KindCity)}
	c.Amenities = &AmenityService{crud: newCrud[*model.Amenity](c, model.KindAmenity)}
	c.Places = &PlaceService{crud: newCrud[*model.Place](c, model.KindPlace)}
	c.Reviews = &ReviewService{crud: newCrud[*model.Review](c, model.KindReview, "rating", "comment")}
	return c, nil
}

// Catalog gathers the services of every entity kind. Mutating calls of all
// services are serialised: each one validates, applies its changes in memory
// (back-references on parent entities included) and commits them with a single
// save of the store.
type Catalog struct {
	store   ports.ObjectStore
	mu      sync.Mutex
	now     func() time.Time
	newID   func() string
	handler ports.EntityEventHandler

	Users     *UserService
	Countries *CountryService
	Cities    *CityService
	Amenities *AmenityService
	Places    *PlaceService
	Reviews   *ReviewService
}

// mutate runs fn inside the catalog critical section and commits what it
// staged. Nothing is committed if fn fails, and the in-memory state is
// restored if the commit fails.
func (c *Catalog) mutate(ctx context.Context, fn func(tx *tx) error) error {
	c.mu.Lock()
	tx := newTx(c.store, c.now().UTC())
	err := fn(tx)
	if err == nil {
		err = tx.commit(ctx)
	} else {
		tx.rollback()
	}
	var events []model.EntityEvent
	if err == nil {
		events = tx.events(c.newID)
	}
	c.mu.Unlock()

	if err != nil {
		return err
	}
	c.publish(ctx, events)
	return nil
}

func (c *Catalog) publish(ctx context.Context, events []model.EntityEvent) {
	if c.handler == nil {
		return
	}
	for _, event := range events {
		if err := c.handler.Handle(ctx, event); err != nil {
			log.WithError(err).
				WithField("event_id", event.ID).
				WithField("key", model.Key(event.Kind, event.EntityID)).
				Warn("error handling entity event")
		}
	}
}

// checkRef verifies that v, when it is an id, names an existing entity of refKind.
// Ids of the wrong shape are left to the entity setters.
func (c *Catalog) checkRef(kind model.Kind, field string, refKind model.Kind, v any) error {
	id, ok := v.(string)
	if !ok {
		return nil
	}
	if _, found := c.store.Get(model.Key(refKind, id)); !found {
		return &model.IntegrityError{Kind: kind, Field: field, RefKind: refKind, Ref: id}
	}
	return nil
}

// checkRefs is checkRef for every id of a list.
func (c *Catalog) checkRefs(kind model.Kind, field string, refKind model.Kind, v any) error {
	ids, ok := idList(v)
	if !ok {
		return nil
	}
	for _, id := range ids {
		if err := c.checkRef(kind, field, refKind, id); err != nil {
			return err
		}
	}
	return nil
}

// checkUnique verifies that no entity of kind other than self carries v in field.
func (c *Catalog) checkUnique(kind model.Kind, field string, v any, self string, value func(model.Entity) string) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	for _, e := range c.store.All(kind) {
		if e.ID() != self && value(e) == s {
			return &model.UniquenessError{Kind: kind, Field: field, Value: s}
		}
	}
	return nil
}

func idList(v any) ([]string, bool) {
	switch l := v.(type) {
	case []string:
		return l, true
	case []any:
		ids := make([]string, 0, len(l))
		for _, item := range l {
			id, ok := item.(string)
			if !ok {
				return nil, false
			}
			ids = append(ids, id)
		}
		return ids, true
	}
	return nil, false
}

// tx stages changes to the store and remembers what each touched key held
// before, so that it can restore it or describe the change as events.
type tx struct {
	store ports.ObjectStore
	now   time.Time
	prior map[string]model.Entity
	keys  []string
}

func newTx(store ports.ObjectStore, now time.Time) *tx {
	return &tx{store: store, now: now, prior: map[string]model.Entity{}}
}

func (t *tx) remember(key string) {
	if _, seen := t.prior[key]; seen {
		return
	}
	prev, _ := t.store.Get(key)
	t.prior[key] = prev
	t.keys = append(t.keys, key)
}

func (t *tx) put(e model.Entity) error {
	t.remember(e.Key())
	return t.store.Add(e)
}

func (t *tx) drop(e model.Entity) {
	t.remember(e.Key())
	t.store.Remove(e)
}

// edit applies fn to a copy of the entity under key, stamps it and stages it.
// A missing entity is skipped.
func (t *tx) edit(key string, fn func(e model.Entity) error) error {
	cur, ok := t.store.Get(key)
	if !ok {
		return nil
	}
	next := cur.Clone()
	if err := fn(next); err != nil {
		return err
	}
	next.Touch(t.now)
	return t.put(next)
}

func (t *tx) commit(ctx context.Context) error {
	if len(t.keys) == 0 {
		return nil
	}
	if err := t.store.Save(ctx); err != nil {
		t.rollback()
		return fmt.Errorf("error persisting the catalog: %w", err)
	}
	return nil
}

func (t *tx) rollback() {
	for i := len(t.keys) - 1; i >= 0; i-- {
		key := t.keys[i]
		if prev := t.prior[key]; prev != nil {
			_ = t.store.Add(prev)
			continue
		}
		if cur, ok := t.store.Get(key); ok {
			t.store.Remove(cur)
		}
	}
}

func (t *tx) events(newID func() string) []model.EntityEvent {
	events := make([]model.EntityEvent, 0, len(t.keys))
	for _, key := range t.keys {
		before := t.prior[key]
		after, _ := t.store.Get(key)
		event := model.EntityEvent{ID: newID(), At: t.now}
		switch {
		case before == nil && after == nil:
			continue
		case before == nil:
			event.Op = model.OpCreate
		case after == nil:
			event.Op = model.OpDelete
		default:
			event.Op = model.OpUpdate
		}
		if before != nil {
			event.Kind, event.EntityID = before.Kind(), before.ID()
			event.Before = before.Serialize()
		}
		if after != nil {
			event.Kind, event.EntityID = after.Kind(), after.ID()
			event.After = after.Serialize()
		}
		events = append(events, event)
	}
	return events
}
