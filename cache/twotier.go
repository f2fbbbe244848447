package cache

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// TwoTier combines the in-memory tier with a durable Store. Reads check
// memory first, then the store (populating memory on a hit); writes land in
// memory synchronously and are persisted to the store in the background.
// The memory tier is never evicted automatically and is lost on process
// restart. Construct one instance at application start and pass it to
// consumers; there is no package-level singleton.
type TwoTier struct {
	mu     sync.RWMutex
	memory map[string][]byte

	store  Store // nil disables the durable tier
	logger *zap.Logger

	flightMu sync.Mutex
	flights  map[string]*flight

	persistWG sync.WaitGroup
}

type flight struct {
	done chan struct{}
	data []byte
	err  error
}

// New creates a two-tier cache over the given durable store. store may be
// nil, leaving only the memory tier active.
func New(store Store, logger *zap.Logger) *TwoTier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TwoTier{
		memory:  make(map[string][]byte),
		store:   store,
		logger:  logger,
		flights: make(map[string]*flight),
	}
}

// Get returns the payload for key, reading through memory and then the
// durable store. A store hit repopulates memory. Errors from the store are
// logged and reported as a miss: a broken durable tier must never take down
// a read.
func (c *TwoTier) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	data, ok := c.memory[key]
	c.mu.RUnlock()
	if ok {
		return data, true
	}

	if c.store == nil {
		return nil, false
	}
	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("durable cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	c.mu.Lock()
	c.memory[key] = data
	c.mu.Unlock()
	return data, true
}

// Put stores the payload in memory and persists it to the durable store in
// the background. The caller gets the data as soon as it is in memory;
// persistence failure is logged, never surfaced.
func (c *TwoTier) Put(ctx context.Context, key string, data []byte) {
	c.mu.Lock()
	c.memory[key] = data
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	c.persistWG.Add(1)
	go func() {
		defer c.persistWG.Done()
		if err := c.store.Set(context.WithoutCancel(ctx), key, data); err != nil {
			c.logger.Warn("durable cache write failed", zap.String("key", key), zap.Error(err))
		}
	}()
}

// Persist overwrites a durable entry synchronously. Used when a cached
// payload is rewritten in place (self-healing re-filter on read).
func (c *TwoTier) Persist(ctx context.Context, key string, data []byte) {
	c.mu.Lock()
	c.memory[key] = data
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	if err := c.store.Set(ctx, key, data); err != nil {
		c.logger.Warn("durable cache rewrite failed", zap.String("key", key), zap.Error(err))
	}
}

// GetOrFill reads through both tiers and, on a double miss, invokes fill
// exactly once per key even under concurrent callers. The durable read
// always settles before fill is issued for the same key; the fill result
// populates both tiers. fill errors propagate to every waiter and nothing
// is cached.
func (c *TwoTier) GetOrFill(ctx context.Context, key string, fill func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if data, ok := c.Get(ctx, key); ok {
		return data, nil
	}

	c.flightMu.Lock()
	if f, inFlight := c.flights[key]; inFlight {
		c.flightMu.Unlock()
		select {
		case <-f.done:
			// Followers share the leader's outcome; retry policy belongs
			// to the caller.
			return f.data, f.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f := &flight{done: make(chan struct{})}
	c.flights[key] = f
	c.flightMu.Unlock()

	defer func() {
		c.flightMu.Lock()
		delete(c.flights, key)
		c.flightMu.Unlock()
		close(f.done)
	}()

	// The tiers may have filled while we queued for the flight lock.
	if data, ok := c.Get(ctx, key); ok {
		f.data = data
		return data, nil
	}

	data, err := fill(ctx)
	if err != nil {
		f.err = err
		return nil, err
	}
	c.Put(ctx, key, data)
	f.data = data
	return data, nil
}

// Invalidate drops a key from both tiers.
func (c *TwoTier) Invalidate(ctx context.Context, key string) {
	c.mu.Lock()
	delete(c.memory, key)
	c.mu.Unlock()
	if c.store != nil {
		if err := c.store.Delete(ctx, key); err != nil {
			c.logger.Warn("durable cache delete failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Clear empties both tiers. Explicit developer/user action only; nothing in
// the core calls this.
func (c *TwoTier) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.memory = make(map[string][]byte)
	c.mu.Unlock()
	if c.store == nil {
		return nil
	}
	return c.store.Clear(ctx)
}

// MemoryLen reports the number of entries in the memory tier.
func (c *TwoTier) MemoryLen() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.memory)
}

// Flush waits for outstanding background persists. Tests use this to make
// write-through observable.
func (c *TwoTier) Flush() {
	c.persistWG.Wait()
}
