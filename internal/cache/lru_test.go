package cache

import (
	"errors"
	"testing"
)

func TestCache_GetOrInsert_CachesAfterFirstLoad(t *testing.T) {
	c := New[uint64, string](2)
	calls := 0
	load := func() (string, error) {
		calls++
		return "value", nil
	}

	v, err := c.GetOrInsert(1, load)
	if err != nil || v != "value" {
		t.Fatalf("unexpected result: %v %v", v, err)
	}
	v, err = c.GetOrInsert(1, load)
	if err != nil || v != "value" {
		t.Fatalf("unexpected result on second call: %v %v", v, err)
	}
	if calls != 1 {
		t.Fatalf("expected loader called once, got %d", calls)
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int, int](2)
	c.Put(1, 100)
	c.Put(2, 200)
	if _, ok := c.Get(1); !ok {
		t.Fatalf("expected 1 present")
	}
	// 1 is now most-recently-used; inserting 3 should evict 2.
	c.Put(3, 300)
	if _, ok := c.Get(2); ok {
		t.Fatalf("expected 2 evicted")
	}
	if _, ok := c.Get(1); !ok {
		t.Fatalf("expected 1 still present")
	}
	if _, ok := c.Get(3); !ok {
		t.Fatalf("expected 3 present")
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Fatalf("expected 1 eviction, got %d", got)
	}
}

func TestCache_GetOrInsert_PropagatesLoadError(t *testing.T) {
	c := New[int, int](2)
	wantErr := errors.New("boom")
	_, err := c.GetOrInsert(1, func() (int, error) { return 0, wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("failed load must not be cached")
	}
}

func TestCache_NonPositiveCapacityNeverCaches(t *testing.T) {
	c := New[int, int](0)
	c.Put(1, 1)
	if _, ok := c.Get(1); ok {
		t.Fatalf("expected zero-capacity cache to never retain entries")
	}
}
