// Package cache keeps catalog provider responses for a TTL so repeated
// searches and image listings are answered without another provider call.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/Belphemur/MediaFinder/internal/config"
)

// Backend selects where cached responses live.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
)

// DefaultSize is the entry limit of the memory backend when none is configured.
const DefaultSize = 500

// Store is a byte store whose entries expire after the TTL it was opened with.
// Failures of remote backends are logged and behave like misses.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Delete(ctx context.Context, key string)

	// Len is the number of live entries. It is read at metric scrape time.
	Len() int

	Close() error
}

// RedisOptions locates the Redis (or Valkey) server of the redis backend.
type RedisOptions struct {
	Address   string
	Password  string
	DB        int
	KeyPrefix string // defaults to "mediafinder:"
}

// Options configures Open.
type Options struct {
	Backend Backend
	Size    int // memory backend only
	TTL     time.Duration
	Redis   RedisOptions

	// Label names the store in the cache metrics. An empty label leaves the
	// store uninstrumented.
	Label string
}

// Open creates the store selected by opts.Backend.
func Open(opts Options) (Store, error) {
	var (
		store Store
		err   error
	)
	switch opts.Backend {
	case BackendMemory, "":
		var onEvict func()
		if opts.Label != "" {
			label := opts.Label
			onEvict = func() { EvictionsTotal.WithLabelValues(label).Inc() }
		}
		store = newMemoryStore(opts.Size, opts.TTL, onEvict)
	case BackendRedis:
		store, err = newRedisStore(opts.Redis, opts.TTL)
	default:
		return nil, fmt.Errorf("cache: unknown backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	if opts.Label == "" {
		return store, nil
	}
	return instrument(store, opts.Label), nil
}

// FromConfig opens the response cache described by cfg.Cache. An unavailable
// backend falls back to memory; nil means caching is disabled.
func FromConfig(cfg *config.Config, label string) Store {
	logger := config.GetLogger()
	opts := Options{
		Backend: Backend(cfg.Cache.Provider),
		Size:    cfg.Cache.Size,
		TTL:     config.Duration(cfg.Cache.TTL, time.Hour, "cache.ttl"),
		Redis: RedisOptions{
			Address:  cfg.Cache.Redis.Address,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		},
		Label: label,
	}

	store, err := Open(opts)
	if err == nil {
		logger.Debug().Str("backend", string(opts.Backend)).Str("cache", label).Msg("Response cache ready")
		return store
	}
	logger.Warn().Err(err).Str("backend", string(opts.Backend)).Msg("Cache backend unavailable, using in-memory cache")

	opts.Backend = BackendMemory
	store, err = Open(opts)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create in-memory cache, caching disabled")
		return nil
	}
	return store
}
