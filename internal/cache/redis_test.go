package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis tests need a running Redis or Valkey server.
// Set REDIS_ADDRESS (e.g. "localhost:6379") to enable them.

func newTestRedisStore(t *testing.T, ttl time.Duration) Store {
	t.Helper()
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		t.Skip("Skipping Redis tests: set REDIS_ADDRESS to enable")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush Redis test DB: %v", err)
	}
	_ = client.Close()

	store, err := Open(Options{
		Backend: BackendRedis,
		TTL:     ttl,
		Redis:   RedisOptions{Address: addr, DB: 15, KeyPrefix: "mediafinder-test:"},
	})
	if err != nil {
		t.Fatalf("Open redis store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStore_GetSetDelete(t *testing.T) {
	store := newTestRedisStore(t, time.Hour)
	ctx := context.Background()

	if _, ok := store.Get(ctx, "search:movie:inception"); ok {
		t.Fatal("Expected a miss on an empty DB")
	}
	store.Set(ctx, "search:movie:inception", []byte("[]"))
	if got, ok := store.Get(ctx, "search:movie:inception"); !ok || string(got) != "[]" {
		t.Fatalf("Get = %q, %v", got, ok)
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}

	store.Delete(ctx, "search:movie:inception")
	if _, ok := store.Get(ctx, "search:movie:inception"); ok {
		t.Error("Expected a miss after Delete")
	}
}

func TestRedisStore_Expiry(t *testing.T) {
	store := newTestRedisStore(t, time.Second)
	ctx := context.Background()

	store.Set(ctx, "images:movie:1", []byte("{}"))
	time.Sleep(1500 * time.Millisecond)
	if _, ok := store.Get(ctx, "images:movie:1"); ok {
		t.Error("Expected the entry to expire")
	}
}
