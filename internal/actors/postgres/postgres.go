package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/rbroggi/hbnb/internal/core/model"
)

// PostgresMedium is a postgres medium keeping the catalog document in one row of hbnb.documents.
type PostgresMedium struct {
	db      *pg.DB
	name    string
	nowFunc func() time.Time
}

// PostgresMediumArgs are the mandatory arguments for the creation of a PostgresMedium
type PostgresMediumArgs struct {
	// DB is a postgres database handle
	DB *pg.DB

	// Name identifies the document row.
	Name string
}

// PostgresMediumOptArgs are the optional arguments for building a PostgresMedium
type PostgresMediumOptArgs = func(*PostgresMedium)

// WithNowFunc can be used to override the nowFunc. Useful for testing.
func WithNowFunc(nowFunc func() time.Time) PostgresMediumOptArgs {
	return func(p *PostgresMedium) {
		p.nowFunc = nowFunc
	}
}

// NewPostgresMedium creates a new PostgresMedium.
func NewPostgresMedium(args PostgresMediumArgs, optArgs ...PostgresMediumOptArgs) (*PostgresMedium, error) {
	if args.DB == nil {
		return nil, errors.New("nil db passed to postgres medium")
	}
	if args.Name == "" {
		return nil, errors.New("empty document name passed to postgres medium")
	}
	p := &PostgresMedium{db: args.DB, name: args.Name, nowFunc: func() time.Time { return time.Now().UTC() }}
	for _, opt := range optArgs {
		opt(p)
	}
	return p, nil
}

// Read returns the document body. It returns model.ErrNoDocument if the row does not exist.
func (p *PostgresMedium) Read(ctx context.Context) ([]byte, error) {
	doc := &documentDB{Name: p.name}
	err := p.db.ModelContext(ctx, doc).WherePK().Select()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, fmt.Errorf("%w: row %q", model.ErrNoDocument, p.name)
	}
	if err != nil {
		return nil, fmt.Errorf("error selecting document %q: %w", p.name, err)
	}
	return []byte(doc.Body), nil
}

// Write upserts the document row in a single statement.
func (p *PostgresMedium) Write(ctx context.Context, body []byte) error {
	doc := &documentDB{
		Name:      p.name,
		Body:      string(body),
		UpdatedAt: p.nowFunc(),
	}
	_, err := p.db.ModelContext(ctx, doc).
		OnConflict("(name) DO UPDATE").
		Set("body = EXCLUDED.body").
		Set("updated_at = EXCLUDED.updated_at").
		Insert()
	if err != nil {
		return fmt.Errorf("error upserting document %q: %w", p.name, err)
	}
	return nil
}

type documentDB struct {
	tableName struct{} `pg:"hbnb.documents"`

	// Name is the document name.
	Name string `pg:"name,pk"`

	// Body is the serialized catalog.
	Body string `pg:"body,type:jsonb"`

	// UpdatedAt is the time of the last write.
	UpdatedAt time.Time `pg:"updated_at"`
}
