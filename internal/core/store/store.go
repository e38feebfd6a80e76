// Package store keeps every catalog entity in memory under its "<Kind>_<id>"
// key and persists the whole set, as a single JSON document, to a backing
// medium.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rbroggi/hbnb/internal/core/model"
	"github.com/rbroggi/hbnb/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// StoreArgs are the mandatory arguments for the creation of a Store.
type StoreArgs struct {
	// Medium is where the serialized document lives.
	Medium ports.Medium
}

// StoreOptArgs are the optional arguments for building a Store.
type StoreOptArgs = func(*Store)

// WithObserver registers an observer of save and reload outcomes.
func WithObserver(observer ports.StoreObserver) StoreOptArgs {
	return func(s *Store) {
		s.observer = observer
	}
}

// WithSilentIO makes Save and Reload log medium failures and return nil
// instead of the error. Callers then cannot tell a failed write apart from a
// successful one.
func WithSilentIO() StoreOptArgs {
	return func(s *Store) {
		s.silentIO = true
	}
}

// WithDocumentIndent overrides the indentation of the written document. Empty means compact.
func WithDocumentIndent(indent string) StoreOptArgs {
	return func(s *Store) {
		s.indent = indent
	}
}

// NewStore creates a new, empty Store. Call Open to load the backing document.
func NewStore(args StoreArgs, optArgs ...StoreOptArgs) (*Store, error) {
	if args.Medium == nil {
		return nil, errors.New("nil medium passed to store")
	}
	s := &Store{
		objects: map[string]model.Entity{},
		medium:  args.Medium,
		indent:  "  ",
	}
	for _, opt := range optArgs {
		opt(s)
	}
	return s, nil
}

// Store is the process-wide keyed mapping from entity key to entity.
//
// Entities returned by Get and All are the live instances held by the store:
// mutating them mutates store state without going through a service.
type Store struct {
	mu       sync.RWMutex
	objects  map[string]model.Entity
	medium   ports.Medium
	observer ports.StoreObserver
	silentIO bool
	indent   string

	// removed is set when an entity was removed since the last save or reload,
	// so that an emptied store still overwrites the previous document.
	removed bool
}

// Open loads the backing document. A missing document yields an empty store.
func (s *Store) Open(ctx context.Context) error {
	return s.Reload(ctx)
}

// Close flushes the in-memory state to the backing document.
func (s *Store) Close(ctx context.Context) error {
	return s.Save(ctx)
}

// Add inserts or replaces e under its key. It does not persist.
func (s *Store) Add(e model.Entity) error {
	if e == nil {
		return fmt.Errorf("%w: nil entity", model.ErrUnknownKind)
	}
	if _, ok := model.Lookup(e.Kind()); !ok {
		return fmt.Errorf("%w: %q", model.ErrUnknownKind, e.Kind())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[e.Key()] = e
	return nil
}

// Remove deletes the key of e. Removing an absent entity is a no-op. It does not persist.
func (s *Store) Remove(e model.Entity) {
	if e == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[e.Key()]; ok {
		delete(s.objects, e.Key())
		s.removed = true
	}
}

// Get looks up an entity by key.
func (s *Store) Get(key string) (model.Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.objects[key]
	return e, ok
}

// All returns a snapshot of the mapping, restricted to kind unless kind is empty.
func (s *Store) All(kind model.Kind) map[string]model.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]model.Entity)
	for key, e := range s.objects {
		if kind == "" || e.Kind() == kind {
			out[key] = e
		}
	}
	return out
}

// Len is the number of entities held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Save serializes every entity into one {key: record} document and replaces
// the backing document with it. Nothing is written when the store is empty
// and nothing was removed since the last save or reload.
func (s *Store) Save(ctx context.Context) error {
	start := time.Now()

	s.mu.Lock()
	if len(s.objects) == 0 && !s.removed {
		s.mu.Unlock()
		s.observeSave(nil, start, nil)
		return nil
	}
	doc := make(map[string]model.Record, len(s.objects))
	for key, e := range s.objects {
		doc[key] = e.Serialize()
	}
	counts := countKinds(s.objects)
	s.mu.Unlock()

	raw, err := s.marshal(doc)
	if err != nil {
		err = fmt.Errorf("error serializing the catalog document: %w", err)
		s.observeSave(counts, start, err)
		return err
	}

	if err := s.medium.Write(ctx, raw); err != nil {
		s.observeSave(counts, start, err)
		return s.ioFailure("save", err)
	}

	s.mu.Lock()
	s.removed = false
	s.mu.Unlock()

	s.observeSave(counts, start, nil)
	return nil
}

// Reload replaces the in-memory mapping with the content of the backing
// document. A missing document yields an empty store. Reload is
// all-or-nothing: if any record is malformed the live mapping is left
// untouched and every failure is returned.
func (s *Store) Reload(ctx context.Context) error {
	start := time.Now()

	raw, err := s.medium.Read(ctx)
	if errors.Is(err, model.ErrNoDocument) {
		log.Warn("backing document not found, starting with an empty store")
		s.replace(map[string]model.Entity{})
		s.observeReload(nil, start, nil)
		return nil
	}
	if err != nil {
		s.observeReload(nil, start, err)
		return s.ioFailure("reload", err)
	}

	objects, err := decodeDocument(raw)
	if err != nil {
		log.WithError(err).Error("backing document holds malformed records, reload aborted")
		s.observeReload(nil, start, err)
		return err
	}
	s.replace(objects)
	s.observeReload(countKinds(objects), start, nil)
	return nil
}

func (s *Store) replace(objects map[string]model.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = objects
	s.removed = false
}

func (s *Store) marshal(doc map[string]model.Record) ([]byte, error) {
	if s.indent == "" {
		return json.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", s.indent)
}

func (s *Store) ioFailure(op string, err error) error {
	log.WithError(err).WithField("operation", op).Error("error accessing the backing document")
	if s.silentIO {
		return nil
	}
	return fmt.Errorf("error on %s of the backing document: %w", op, err)
}

func (s *Store) observeSave(counts map[model.Kind]int, start time.Time, err error) {
	if s.observer != nil {
		s.observer.ObserveSave(counts, time.Since(start), err)
	}
}

func (s *Store) observeReload(counts map[model.Kind]int, start time.Time, err error) {
	if s.observer != nil {
		s.observer.ObserveReload(counts, time.Since(start), err)
	}
}

func decodeDocument(raw []byte) (map[string]model.Entity, error) {
	var doc map[string]model.Record
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, &model.StructuralError{Err: fmt.Errorf("document is not a JSON object of records: %w", err)}
	}

	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	objects := make(map[string]model.Entity, len(doc))
	var errs []error
	for _, key := range keys {
		rec := doc[key]
		if rec == nil {
			errs = append(errs, &model.StructuralError{Key: key, Err: errors.New("record is not an object")})
			continue
		}
		e, err := model.Decode(rec)
		if err != nil {
			var serr *model.StructuralError
			if errors.As(err, &serr) && serr.Key == "" {
				serr.Key = key
			}
			errs = append(errs, err)
			continue
		}
		if e.Key() != key {
			errs = append(errs, &model.StructuralError{Key: key, Err: fmt.Errorf("record is keyed as %s", e.Key())})
			continue
		}
		objects[key] = e
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return objects, nil
}

func countKinds(objects map[string]model.Entity) map[model.Kind]int {
	counts := make(map[model.Kind]int)
	for _, e := range objects {
		counts[e.Kind()]++
	}
	return counts
}
