package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// memoryStore is a process-local expirable LRU.
type memoryStore struct {
	lru *expirable.LRU[string, []byte]
}

// newMemoryStore holds at most size entries. onEvict runs for every entry
// dropped by capacity, expiry or Delete.
func newMemoryStore(size int, ttl time.Duration, onEvict func()) *memoryStore {
	if size <= 0 {
		size = DefaultSize
	}
	var cb expirable.EvictCallback[string, []byte]
	if onEvict != nil {
		cb = func(string, []byte) { onEvict() }
	}
	return &memoryStore{lru: expirable.NewLRU(size, cb, ttl)}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	return m.lru.Get(key)
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte) {
	m.lru.Add(key, value)
}

func (m *memoryStore) Delete(_ context.Context, key string) {
	m.lru.Remove(key)
}

func (m *memoryStore) Len() int {
	return m.lru.Len()
}

func (m *memoryStore) Close() error {
	m.lru.Purge()
	return nil
}
