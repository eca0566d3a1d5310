package healing

// Cache remembers, per original locator key, the strategy that last
// succeeded. Entries live for the session, never expire on their own, and
// are only ever overwritten by a fresher success — a cache-hit failure does
// not evict.
//
// The cache is mutated only by the engine's single-threaded resolution loop,
// so it carries no locking.
type Cache struct {
	entries map[string]Strategy
	order   []string // keys in first-heal order, for deterministic reports
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Strategy)}
}

// Lookup returns the cached strategy for the locator key, if any.
func (c *Cache) Lookup(key string) (Strategy, bool) {
	s, ok := c.entries[key]
	return s, ok
}

// Store records the strategy that just succeeded for the key, overwriting
// any previous entry.
func (c *Cache) Store(key string, s Strategy) {
	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
	}
	c.entries[key] = s
}

// Len returns the number of cached healings.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Entry pairs a locator key with its cached strategy.
type Entry struct {
	Key      string
	Strategy Strategy
}

// Entries returns the cache contents in first-heal order.
func (c *Cache) Entries() []Entry {
	out := make([]Entry, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, Entry{Key: key, Strategy: c.entries[key]})
	}
	return out
}
