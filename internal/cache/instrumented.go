package cache

import "context"

// instrumentedStore counts lookups of one labelled store.
type instrumentedStore struct {
	Store
	label string
}

func instrument(s Store, label string) *instrumentedStore {
	entries.track(label, s.Len)
	return &instrumentedStore{Store: s, label: label}
}

func (s *instrumentedStore) Get(ctx context.Context, key string) ([]byte, bool) {
	val, ok := s.Store.Get(ctx, key)
	result := "miss"
	if ok {
		result = "hit"
	}
	LookupsTotal.WithLabelValues(s.label, result).Inc()
	return val, ok
}

func (s *instrumentedStore) Close() error {
	entries.untrack(s.label)
	return s.Store.Close()
}
