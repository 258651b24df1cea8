// internal/infrastructure/store/remote/store.go
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no value exists at the requested path.
var ErrNotFound = errors.New("remote store: path not found")

// Store is a path-addressed JSON store backed by Redis. Values are read and
// written whole; paths follow the "collection/{key}" convention used by the
// hosted backend (carts/{uid}, users/{uid}, orders/{key}).
type Store struct {
	client *redis.Client
}

// NewStore creates a remote store over an established Redis connection
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Read loads the JSON value at path into dest
func (s *Store) Read(ctx context.Context, path string, dest interface{}) error {
	data, err := s.client.Get(ctx, key(path)).Result()
	if err == redis.Nil {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Write replaces the whole value at path
func (s *Store) Write(ctx context.Context, path string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := s.client.Set(ctx, key(path), data, 0).Err(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Delete removes the value at path
func (s *Store) Delete(ctx context.Context, path string) error {
	if err := s.client.Del(ctx, key(path)).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// List returns the child paths stored under prefix, e.g. List(ctx, "orders")
// returns every "orders/{key}" path
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	pattern := key(prefix) + "/*"

	var paths []string
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		paths = append(paths, strings.TrimPrefix(iter.Val(), keyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	return paths, nil
}

// Push generates a new child key under prefix, in the style of the hosted
// backend's generated keys. The key is time-prefixed so that lexical order
// roughly follows creation order.
func (s *Store) Push(prefix string) string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	return fmt.Sprintf("%s/%d-%s", prefix, time.Now().UTC().UnixMilli(), id)
}

// Health checks the remote store connection
func (s *Store) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

const keyPrefix = "storefront:"

func key(path string) string {
	return keyPrefix + strings.Trim(path, "/")
}
