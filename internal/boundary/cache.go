package boundary

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"
)

// Store persists memoized boundary sets between runs.
type Store interface {
	LoadAll(ctx context.Context) (map[string]Set, error)
	Save(ctx context.Context, entries map[string]Set) error
	Close() error
}

// Cache memoizes oracle results by transcript content hash. Entries are
// never evicted; the table grows for the life of a run and is loaded and
// flushed as a whole by the caller. Safe for concurrent use.
type Cache struct {
	oracle Oracle
	store  Store

	mu      sync.Mutex
	entries map[string]Set
	pending map[string]Set
	hits    int
	misses  int
}

// NewCache returns a cache in front of oracle. store may be nil for an
// in-memory table.
func NewCache(oracle Oracle, store Store) *Cache {
	return &Cache{
		oracle:  oracle,
		store:   store,
		entries: make(map[string]Set),
		pending: make(map[string]Set),
	}
}

// Load replaces the in-memory table with the store's contents.
func (c *Cache) Load(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	entries, err := c.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("boundary cache: load: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries
	c.pending = make(map[string]Set)
	slog.Debug("boundary cache loaded", "entries", len(entries))
	return nil
}

// Lookup returns the boundaries of text, asking the oracle on a miss.
func (c *Cache) Lookup(ctx context.Context, text, language string) (Set, error) {
	key := Key(text)

	c.mu.Lock()
	if s, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return s, nil
	}
	c.misses++
	c.mu.Unlock()

	s, err := c.oracle.Boundaries(ctx, text, language)
	if err != nil {
		return Set{}, fmt.Errorf("boundary oracle: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		c.entries[key] = s
		c.pending[key] = s
	}
	return s, nil
}

// Flush writes the entries added since the last Load or Flush to the store.
func (c *Cache) Flush(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	c.mu.Lock()
	pending := maps.Clone(c.pending)
	c.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}
	if err := c.store.Save(ctx, pending); err != nil {
		return fmt.Errorf("boundary cache: flush: %w", err)
	}

	c.mu.Lock()
	for k := range pending {
		delete(c.pending, k)
	}
	c.mu.Unlock()
	slog.Debug("boundary cache flushed", "entries", len(pending))
	return nil
}

// Close releases the store.
func (c *Cache) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// Stats returns the hit and miss counters and the table size.
func (c *Cache) Stats() (hits, misses, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, len(c.entries)
}
