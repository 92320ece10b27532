package catalog

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memoryPageCache struct {
	data   map[string][]byte
	getErr error
	sets   int
}

func (m *memoryPageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryPageCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = value
	m.sets++
	return nil
}

type countingSource struct {
	calls int
	pages map[int][]Item
}

func (s *countingSource) FetchItems(ctx context.Context, q ItemQuery) ([]Item, error) {
	s.calls++
	return s.pages[q.Page], nil
}

func TestCachedSourceServesRepeatedPagesFromCache(t *testing.T) {
	src := &countingSource{pages: map[int][]Item{1: {{ID: 1, Title: "a"}}}}
	cache := &memoryPageCache{}
	cached := NewCachedSource(src, cache, time.Minute, nil)

	q := ItemQuery{Category: AllCategories, Page: 1, Limit: 5}
	for i := 0; i < 3; i++ {
		items, err := cached.FetchItems(context.Background(), q)
		if err != nil {
			t.Fatalf("FetchItems: %v", err)
		}
		if len(items) != 1 || items[0].ID != 1 {
			t.Fatalf("unexpected items %+v", items)
		}
	}
	if src.calls != 1 {
		t.Fatalf("expected 1 backend call, got %d", src.calls)
	}
}

func TestCachedSourceNeverCachesEmptyPages(t *testing.T) {
	src := &countingSource{pages: map[int][]Item{}}
	cache := &memoryPageCache{}
	cached := NewCachedSource(src, cache, time.Minute, nil)

	q := ItemQuery{Page: 4}
	_, _ = cached.FetchItems(context.Background(), q)
	_, _ = cached.FetchItems(context.Background(), q)
	if cache.sets != 0 {
		t.Fatalf("expected no cache writes, got %d", cache.sets)
	}
	if src.calls != 2 {
		t.Fatalf("expected every empty page to hit the backend, got %d calls", src.calls)
	}
}

func TestCachedSourceFallsThroughOnCacheError(t *testing.T) {
	src := &countingSource{pages: map[int][]Item{1: {{ID: 9}}}}
	cache := &memoryPageCache{getErr: errors.New("connection refused")}
	cached := NewCachedSource(src, cache, time.Minute, nil)

	items, err := cached.FetchItems(context.Background(), ItemQuery{Page: 1})
	if err != nil {
		t.Fatalf("expected cache error to be ignored, got %v", err)
	}
	if len(items) != 1 || items[0].ID != 9 {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestPageKeyDistinguishesFilters(t *testing.T) {
	a := PageKey(ItemQuery{Category: "doll", Page: 1, Limit: 5})
	b := PageKey(ItemQuery{Category: "gifts", Page: 1, Limit: 5})
	c := PageKey(ItemQuery{Category: AllCategories, Page: 1, Limit: 5})
	d := PageKey(ItemQuery{Page: 1, Limit: 5})
	if a == b {
		t.Fatalf("expected different keys for different categories")
	}
	if c != d {
		t.Fatalf("expected %q and %q to share a key", c, d)
	}
}
