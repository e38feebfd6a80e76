package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rbroggi/hbnb/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dummyTime = time.Date(2024, 3, 9, 14, 30, 15, 123456789, time.UTC)

// memMedium is an in-memory Medium.
type memMedium struct {
	doc      []byte
	readErr  error
	writeErr error
	writes   int
}

func (m *memMedium) Read(_ context.Context) ([]byte, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	if m.doc == nil {
		return nil, model.ErrNoDocument
	}
	return m.doc, nil
}

func (m *memMedium) Write(_ context.Context, doc []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.doc = append([]byte(nil), doc...)
	return nil
}

type observed struct {
	saves   []map[model.Kind]int
	reloads []error
}

func (o *observed) ObserveSave(counts map[model.Kind]int, _ time.Duration, _ error) {
	o.saves = append(o.saves, counts)
}

func (o *observed) ObserveReload(_ map[model.Kind]int, _ time.Duration, err error) {
	o.reloads = append(o.reloads, err)
}

func newEntity(t *testing.T, kind model.Kind, id string, fields model.Fields) model.Entity {
	t.Helper()
	e, err := model.New(kind, id, dummyTime, fields)
	require.NoError(t, err)
	return e
}

func newStore(t *testing.T, medium *memMedium, opts ...StoreOptArgs) *Store {
	t.Helper()
	s, err := NewStore(StoreArgs{Medium: medium}, opts...)
	require.NoError(t, err)
	return s
}

func TestNewStore_NilMedium(t *testing.T) {
	_, err := NewStore(StoreArgs{})
	require.Error(t, err)
}

func TestStore_AddGetAllRemove(t *testing.T) {
	s := newStore(t, &memMedium{})
	country := newEntity(t, model.KindCountry, "c1", model.Fields{"name": "Uruguay", "iso": "UY"})
	amenity := newEntity(t, model.KindAmenity, "a1", model.Fields{"name": "Wifi"})

	require.NoError(t, s.Add(country))
	require.NoError(t, s.Add(amenity))
	assert.Equal(t, 2, s.Len())

	got, ok := s.Get("Country_c1")
	require.True(t, ok)
	assert.Same(t, country, got)

	_, ok = s.Get("Country_nope")
	assert.False(t, ok)

	assert.Len(t, s.All(""), 2)
	onlyAmenities := s.All(model.KindAmenity)
	require.Len(t, onlyAmenities, 1)
	assert.Same(t, amenity, onlyAmenities["Amenity_a1"])

	s.Remove(country)
	s.Remove(country)
	s.Remove(nil)
	assert.Equal(t, 1, s.Len())
}

func TestStore_AllSharesLiveEntities(t *testing.T) {
	s := newStore(t, &memMedium{})
	require.NoError(t, s.Add(newEntity(t, model.KindAmenity, "a1", model.Fields{"name": "Wifi"})))

	for _, e := range s.All(model.KindAmenity) {
		require.NoError(t, e.Set("name", "Pool"))
	}
	got, _ := s.Get("Amenity_a1")
	assert.Equal(t, "Pool", got.(*model.Amenity).Name())
}

func TestStore_AddRejectsNil(t *testing.T) {
	s := newStore(t, &memMedium{})
	assert.ErrorIs(t, s.Add(nil), model.ErrUnknownKind)
}

func TestStore_SaveAndReload(t *testing.T) {
	medium := &memMedium{}
	obs := &observed{}
	s := newStore(t, medium, WithObserver(obs))
	ctx := context.Background()

	entities := []model.Entity{
		newEntity(t, model.KindUser, "u1", model.Fields{"email": "jane@example.com", "password": "h", "first_name": "Jane", "last_name": "Doe"}),
		newEntity(t, model.KindCountry, "c1", model.Fields{"name": "Uruguay", "iso": "UY", "cities": []string{"ci1"}}),
		newEntity(t, model.KindCity, "ci1", model.Fields{"name": "Montevideo", "country": "c1"}),
	}
	for _, e := range entities {
		require.NoError(t, s.Add(e))
	}
	entities[2].Touch(dummyTime.Add(time.Hour))

	require.NoError(t, s.Save(ctx))
	require.Equal(t, 1, medium.writes)

	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal(medium.doc, &doc))
	assert.Len(t, doc, 3)
	assert.Equal(t, "City", doc["City_ci1"]["__class__"])
	assert.Equal(t, "2024-03-09T15:30:15.123456789Z", doc["City_ci1"]["updated_at"])

	reloaded := newStore(t, medium, WithObserver(obs))
	require.NoError(t, reloaded.Open(ctx))
	require.Equal(t, 3, reloaded.Len())
	for _, e := range entities {
		got, ok := reloaded.Get(e.Key())
		require.True(t, ok, e.Key())
		assert.Equal(t, e, got)
		assert.NotSame(t, e, got)
	}

	require.Len(t, obs.saves, 1)
	assert.Equal(t, map[model.Kind]int{model.KindUser: 1, model.KindCountry: 1, model.KindCity: 1}, obs.saves[0])
	require.Len(t, obs.reloads, 1)
	assert.NoError(t, obs.reloads[0])
}

func TestStore_SaveSkippedWhenEmpty(t *testing.T) {
	medium := &memMedium{}
	s := newStore(t, medium)
	require.NoError(t, s.Save(context.Background()))
	assert.Zero(t, medium.writes)
	assert.Nil(t, medium.doc)
}

func TestStore_SaveAfterRemovingEverything(t *testing.T) {
	medium := &memMedium{}
	s := newStore(t, medium)
	ctx := context.Background()
	amenity := newEntity(t, model.KindAmenity, "a1", model.Fields{"name": "Wifi"})
	require.NoError(t, s.Add(amenity))
	require.NoError(t, s.Save(ctx))

	s.Remove(amenity)
	require.NoError(t, s.Save(ctx))
	assert.JSONEq(t, `{}`, string(medium.doc))

	require.NoError(t, s.Reload(ctx))
	assert.Zero(t, s.Len())
}

func TestStore_ReloadMissingDocument(t *testing.T) {
	s := newStore(t, &memMedium{})
	require.NoError(t, s.Add(newEntity(t, model.KindAmenity, "a1", model.Fields{"name": "Wifi"})))
	require.NoError(t, s.Reload(context.Background()))
	assert.Zero(t, s.Len())
}

func TestStore_IOFailures(t *testing.T) {
	ioErr := errors.New("disk on fire")
	tests := []struct {
		name          string
		silent        bool
		expectedError func(t *testing.T, err error)
	}{
		{
			name: "returned by default",
			expectedError: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ioErr)
			},
		},
		{
			name:   "swallowed when silent",
			silent: true,
			expectedError: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			medium := &memMedium{readErr: ioErr, writeErr: ioErr}
			var opts []StoreOptArgs
			if test.silent {
				opts = append(opts, WithSilentIO())
			}
			s := newStore(t, medium, opts...)
			amenity := newEntity(t, model.KindAmenity, "a1", model.Fields{"name": "Wifi"})
			require.NoError(t, s.Add(amenity))

			test.expectedError(t, s.Save(context.Background()))
			test.expectedError(t, s.Reload(context.Background()))
			// a failed reload keeps what was in memory
			assert.Equal(t, 1, s.Len())
		})
	}
}

func TestStore_ReloadIsAllOrNothing(t *testing.T) {
	good := newEntity(t, model.KindAmenity, "a1", model.Fields{"name": "Wifi"}).Serialize()
	goodJSON, err := json.Marshal(good)
	require.NoError(t, err)

	tests := []struct {
		name     string
		doc      string
		failures int
	}{
		{
			name:     "not an object",
			doc:      `[1, 2]`,
			failures: 1,
		},
		{
			name:     "record without id",
			doc:      `{"Amenity_a1": ` + string(goodJSON) + `, "Amenity_a2": {"__class__": "Amenity", "name": "Pool", "created_at": "2024-03-09T14:30:15Z", "updated_at": "2024-03-09T14:30:15Z"}}`,
			failures: 1,
		},
		{
			name:     "null record and unknown class",
			doc:      `{"Amenity_a1": ` + string(goodJSON) + `, "Amenity_a2": null, "Ship_s1": {"__class__": "Ship", "id": "s1"}}`,
			failures: 2,
		},
		{
			name:     "key does not match record",
			doc:      `{"Amenity_zz": ` + string(goodJSON) + `}`,
			failures: 1,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			medium := &memMedium{doc: []byte(test.doc)}
			s := newStore(t, medium)
			live := newEntity(t, model.KindCountry, "c1", model.Fields{"name": "Uruguay", "iso": "UY"})
			require.NoError(t, s.Add(live))

			err := s.Reload(context.Background())
			require.ErrorIs(t, err, model.ErrStructural)

			if test.failures > 1 {
				joined, ok := err.(interface{ Unwrap() []error })
				require.True(t, ok)
				assert.Len(t, joined.Unwrap(), test.failures)
			}

			// live mapping untouched
			require.Equal(t, 1, s.Len())
			got, ok := s.Get("Country_c1")
			require.True(t, ok)
			assert.Same(t, live, got)
		})
	}
}

func TestStore_CompactDocument(t *testing.T) {
	medium := &memMedium{}
	s := newStore(t, medium, WithDocumentIndent(""))
	require.NoError(t, s.Add(newEntity(t, model.KindAmenity, "a1", model.Fields{"name": "Wifi"})))
	require.NoError(t, s.Save(context.Background()))
	assert.NotContains(t, string(medium.doc), "\n")
}
