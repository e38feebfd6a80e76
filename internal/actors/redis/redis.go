// Package redis is a document medium keeping the catalog document under one Redis string key.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rbroggi/hbnb/internal/core/model"
)

// Options are the connection options of NewClient.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient creates a Redis client and verifies the connection.
func NewClient(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisMediumArgs are the mandatory arguments for the creation of a RedisMedium.
type RedisMediumArgs struct {
	// Client is a Redis client.
	Client redis.Cmdable

	// Key holds the document.
	Key string
}

// NewRedisMedium creates a new RedisMedium.
func NewRedisMedium(args RedisMediumArgs) (*RedisMedium, error) {
	if args.Client == nil {
		return nil, errors.New("nil client passed to redis medium")
	}
	if args.Key == "" {
		return nil, errors.New("empty key passed to redis medium")
	}
	return &RedisMedium{client: args.Client, key: args.Key}, nil
}

// RedisMedium is a Redis medium. SET replaces the whole value atomically.
type RedisMedium struct {
	client redis.Cmdable
	key    string
}

// Read returns the document. It returns model.ErrNoDocument if the key does not exist.
func (m *RedisMedium) Read(ctx context.Context) ([]byte, error) {
	doc, err := m.client.Get(ctx, m.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: key %s", model.ErrNoDocument, m.key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", m.key, err)
	}
	return doc, nil
}

// Write sets the document without expiration.
func (m *RedisMedium) Write(ctx context.Context, doc []byte) error {
	if err := m.client.Set(ctx, m.key, doc, 0).Err(); err != nil {
		return fmt.Errorf("failed to set document %s: %w", m.key, err)
	}
	return nil
}
