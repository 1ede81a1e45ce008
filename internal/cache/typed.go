package cache

import (
	"context"
	"encoding/json"

	"github.com/Belphemur/MediaFinder/internal/config"
)

// Typed stores JSON encoded values of T under "namespace:key". A nil store
// turns every call into a miss.
type Typed[T any] struct {
	store     Store
	namespace string
}

// NewTyped creates a typed view over store.
func NewTyped[T any](store Store, namespace string) *Typed[T] {
	return &Typed[T]{store: store, namespace: namespace}
}

func (t *Typed[T]) key(k string) string {
	return t.namespace + ":" + k
}

// Get decodes the cached value. An entry that no longer decodes is deleted
// and reported as a miss.
func (t *Typed[T]) Get(ctx context.Context, key string) (T, bool) {
	var value T
	if t.store == nil {
		return value, false
	}
	raw, ok := t.store.Get(ctx, t.key(key))
	if !ok {
		return value, false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("key", t.key(key)).Msg("Dropping undecodable cache entry")
		t.store.Delete(ctx, t.key(key))
		var zero T
		return zero, false
	}
	return value, true
}

// Set encodes and stores value.
func (t *Typed[T]) Set(ctx context.Context, key string, value T) {
	if t.store == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("key", t.key(key)).Msg("Failed to encode cache entry")
		return
	}
	t.store.Set(ctx, t.key(key), raw)
}

// Load returns the cached value of key, or calls load and caches what it
// returns. Errors are not cached.
func (t *Typed[T]) Load(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if value, ok := t.Get(ctx, key); ok {
		return value, nil
	}
	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	t.Set(ctx, key, value)
	return value, nil
}
