package cache

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

// memStore is an in-process Store for exercising the durable tier.
type memStore struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
	sets    int
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string][]byte)}
}

func (s *memStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *memStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	s.entries[key] = value
	return nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *memStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string][]byte)
	return nil
}

func TestTwoTier_GetPopulatesMemoryFromStore(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.entries["k"] = []byte("durable")
	c := New(store, nil)

	data, ok := c.Get(ctx, "k")
	if !ok || string(data) != "durable" {
		t.Fatalf("Get = %q, %v, want durable, true", data, ok)
	}
	if c.MemoryLen() != 1 {
		t.Errorf("MemoryLen = %d, want 1 after store hit", c.MemoryLen())
	}

	// A broken store afterwards must not affect the memory hit.
	store.getErr = errors.New("disk gone")
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Error("memory hit lost after store failure")
	}
}

func TestTwoTier_StoreErrorIsAMiss(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("io error")
	c := New(store, nil)

	if _, ok := c.Get(context.Background(), "k"); ok {
		t.Error("Get reported a hit through a failing store")
	}
}

func TestTwoTier_PutWritesThrough(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	c := New(store, nil)

	c.Put(ctx, "k", []byte("v"))
	c.Flush()

	if got := store.entries["k"]; !bytes.Equal(got, []byte("v")) {
		t.Errorf("store entry = %q, want v", got)
	}
}

func TestTwoTier_GetOrFill_ReadThrough(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	c := New(store, nil)

	var fills int32
	fill := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&fills, 1)
		return []byte("payload"), nil
	}

	first, err := c.GetOrFill(ctx, "k", fill)
	if err != nil {
		t.Fatalf("first GetOrFill: %v", err)
	}
	second, err := c.GetOrFill(ctx, "k", fill)
	if err != nil {
		t.Fatalf("second GetOrFill: %v", err)
	}

	if atomic.LoadInt32(&fills) != 1 {
		t.Errorf("fill calls = %d, want exactly 1", fills)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("second read %q differs from first %q", second, first)
	}

	c.Flush()
	if _, ok := store.entries["k"]; !ok {
		t.Error("fill result never persisted to the durable store")
	}
}

func TestTwoTier_GetOrFill_SingleFlight(t *testing.T) {
	ctx := context.Background()
	c := New(nil, nil)

	var fills int32
	release := make(chan struct{})
	fill := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&fills, 1)
		<-release
		return []byte("shared"), nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([][]byte, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.GetOrFill(ctx, "k", fill)
		}(i)
	}

	// Let every goroutine reach the flight before the leader finishes.
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&fills); got != 1 {
		t.Errorf("fill calls = %d, want 1 across %d concurrent callers", got, callers)
	}
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if string(results[i]) != "shared" {
			t.Errorf("caller %d got %q, want shared", i, results[i])
		}
	}
}

func TestTwoTier_GetOrFill_ErrorNotCached(t *testing.T) {
	ctx := context.Background()
	c := New(nil, nil)

	boom := errors.New("fetch failed")
	calls := 0
	if _, err := c.GetOrFill(ctx, "k", func(ctx context.Context) ([]byte, error) {
		calls++
		return nil, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}

	// The failed fill left nothing behind; the next call fills again.
	if _, err := c.GetOrFill(ctx, "k", func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte("ok"), nil
	}); err != nil {
		t.Fatalf("second GetOrFill: %v", err)
	}
	if calls != 2 {
		t.Errorf("fill calls = %d, want 2", calls)
	}
}

func TestTwoTier_Invalidate(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	c := New(store, nil)

	c.Persist(ctx, "k", []byte("v"))
	c.Invalidate(ctx, "k")

	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("key survived Invalidate")
	}
	if _, ok := store.entries["k"]; ok {
		t.Error("durable entry survived Invalidate")
	}
}

func TestTwoTier_MemoryOnly(t *testing.T) {
	ctx := context.Background()
	c := New(nil, nil)

	c.Put(ctx, "k", []byte("v"))
	if data, ok := c.Get(ctx, "k"); !ok || string(data) != "v" {
		t.Fatalf("Get = %q, %v", data, ok)
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if c.MemoryLen() != 0 {
		t.Errorf("MemoryLen = %d after Clear, want 0", c.MemoryLen())
	}
}
