package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Belphemur/MediaFinder/internal/config"
)

const (
	defaultKeyPrefix = "mediafinder:"
	redisOpTimeout   = 2 * time.Second
	redisDialTimeout = 5 * time.Second
)

// redisStore keeps each entry as a string key with an expiry. Capacity is
// governed by the server's maxmemory policy.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func newRedisStore(opts RedisOptions, ttl time.Duration) (*redisStore, error) {
	if opts.Address == "" {
		return nil, errors.New("cache: redis backend needs an address")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: redis ping %s: %w", opts.Address, err)
	}

	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &redisStore{client: client, ttl: ttl, prefix: prefix}, nil
}

func (r *redisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logFailure("get", key, err)
		}
		return nil, false
	}
	return val, true
}

func (r *redisStore) Set(ctx context.Context, key string, value []byte) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := r.client.Set(ctx, r.prefix+key, value, r.ttl).Err(); err != nil {
		r.logFailure("set", key, err)
	}
}

func (r *redisStore) Delete(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		r.logFailure("delete", key, err)
	}
}

// Len counts the keys under the prefix with SCAN.
func (r *redisStore) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	count := 0
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		r.logFailure("scan", r.prefix+"*", err)
		return 0
	}
	return count
}

func (r *redisStore) Close() error {
	return r.client.Close()
}

func (r *redisStore) logFailure(op, key string, err error) {
	logger := config.GetLogger()
	logger.Warn().Err(err).Str("op", op).Str("key", key).Msg("Redis cache operation failed")
}
