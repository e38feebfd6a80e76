package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rbroggi/hbnb/internal/core/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoMedium is a mongo medium keeping the catalog document in one mongo document.
type MongoMedium struct {
	collection *mongo.Collection
	name       string
	nowFunc    func() time.Time
}

// MongoMediumArgs are the mandatory arguments for the creation of a MongoMedium
type MongoMediumArgs struct {
	// Collection is a mongo collection
	Collection *mongo.Collection

	// Name is the _id of the mongo document.
	Name string
}

// MongoMediumOptArgs are the optional arguments for building a MongoMedium
type MongoMediumOptArgs = func(*MongoMedium)

// WithNowFunc can be used to override the nowFunc. Useful for testing.
func WithNowFunc(nowFunc func() time.Time) MongoMediumOptArgs {
	return func(p *MongoMedium) {
		p.nowFunc = nowFunc
	}
}

// NewMongoMedium creates a new MongoMedium.
func NewMongoMedium(args MongoMediumArgs, optArgs ...MongoMediumOptArgs) (*MongoMedium, error) {
	if args.Collection == nil {
		return nil, errors.New("nil collection passed to mongo medium")
	}
	if args.Name == "" {
		return nil, errors.New("empty document name passed to mongo medium")
	}
	m := &MongoMedium{collection: args.Collection, name: args.Name, nowFunc: func() time.Time { return time.Now().UTC() }}
	for _, opt := range optArgs {
		opt(m)
	}
	return m, nil
}

// Read returns the document body. It returns model.ErrNoDocument if there is no such document.
func (m *MongoMedium) Read(ctx context.Context) ([]byte, error) {
	doc := new(documentDB)
	err := m.collection.FindOne(ctx, bson.D{{Key: "_id", Value: m.name}}).Decode(doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: _id %q", model.ErrNoDocument, m.name)
	}
	if err != nil {
		return nil, fmt.Errorf("error finding document %q: %w", m.name, err)
	}
	return []byte(doc.Body), nil
}

// Write replaces the mongo document, creating it if needed.
func (m *MongoMedium) Write(ctx context.Context, body []byte) error {
	doc := &documentDB{
		Name:      m.name,
		Body:      string(body),
		UpdatedAt: m.nowFunc(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := m.collection.ReplaceOne(ctx, bson.D{{Key: "_id", Value: m.name}}, doc, opts); err != nil {
		return fmt.Errorf("error replacing document %q: %w", m.name, err)
	}
	return nil
}

// documentDB keeps the body as JSON text so that numbers and key order survive untouched.
type documentDB struct {
	// Name is the document identifier.
	Name string `bson:"_id"`

	// Body is the serialized catalog.
	Body string `bson:"body"`

	// UpdatedAt is the time of the last write.
	UpdatedAt time.Time `bson:"updated_at"`
}
