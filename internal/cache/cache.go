// Package cache implements the server's tiered key/value cache: a primary
// backing store with a transparent in-process fallback used whenever the
// primary is unreachable. Callers never observe a storage error from
// Get/Set/Delete; reads only branch on value-present-or-not.
//
// # Usage
//
//	backend, _ := cache.NewBoltBackend("./cache.db")
//	tc := cache.NewTieredCache(backend)
//	defer tc.Close()
//	tc.Set(cache.BookKey("42"), payload, 24*time.Hour)
//	value, ok := tc.Get(cache.BookKey("42"))
package cache

import (
	"log"
	"sync"
	"time"
)

// sweepInterval is how often the fallback map is scanned for expired
// entries. The sweep is the only background activity in this component.
const sweepInterval = time.Minute

type fallbackEntry struct {
	value     []byte
	expiresAt time.Time
}

// TieredCache serves Get/Set/Delete against the primary backend, retrying
// transparently against an in-process map when the primary fails.
// Reachability is per-instance state: once an operation against the
// primary errors, the instance stays on the fallback tier until Reconnect
// succeeds.
type TieredCache struct {
	primary Backend
	now     func() time.Time

	mu        sync.RWMutex
	reachable bool
	fallback  map[string]fallbackEntry

	stopOnce sync.Once
	stop     chan struct{}
}

// NewTieredCache wraps the given primary backend and starts the periodic
// fallback sweep.
func NewTieredCache(primary Backend) *TieredCache {
	c := &TieredCache{
		primary:   primary,
		now:       time.Now,
		reachable: primary != nil,
		fallback:  make(map[string]fallbackEntry),
		stop:      make(chan struct{}),
	}

	go c.sweepLoop()

	return c
}

// Get returns the value for key, or ok=false if the key is absent or
// expired in whichever tier served the read.
func (c *TieredCache) Get(key string) ([]byte, bool) {
	if c.Reachable() {
		value, ok, err := c.primary.Get(key)
		if err == nil {
			return value, ok
		}
		c.markUnreachable(err)
	}
	return c.fallbackGet(key)
}

// Set stores value under key for ttl. When the primary write fails the
// entry lives in the fallback map instead; the caller is not told which
// tier took it.
func (c *TieredCache) Set(key string, value []byte, ttl time.Duration) {
	expiresAt := c.now().Add(ttl)

	if c.Reachable() {
		err := c.primary.Set(key, value, expiresAt)
		if err == nil {
			// The primary owns the entry now; drop any stale failover copy.
			c.mu.Lock()
			delete(c.fallback, key)
			c.mu.Unlock()
			return
		}
		c.markUnreachable(err)
	}

	c.mu.Lock()
	c.fallback[key] = fallbackEntry{value: value, expiresAt: expiresAt}
	c.mu.Unlock()
}

// Delete removes key from both tiers. Errors from the primary flip the
// reachability flag but are otherwise swallowed; a failed delete of an
// absent key is indistinguishable from success.
func (c *TieredCache) Delete(key string) {
	if c.Reachable() {
		if err := c.primary.Delete(key); err != nil {
			c.markUnreachable(err)
		}
	}

	c.mu.Lock()
	delete(c.fallback, key)
	c.mu.Unlock()
}

// Reachable reports whether the primary tier is currently serving.
func (c *TieredCache) Reachable() bool {
	if c.primary == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reachable
}

// Reconnect probes the primary and restores it as the serving tier if the
// probe succeeds. There is no automatic retry loop; callers decide when a
// reconnect attempt is worth making.
func (c *TieredCache) Reconnect() bool {
	if c.primary == nil {
		return false
	}
	if err := c.primary.Ping(); err != nil {
		return false
	}

	c.mu.Lock()
	c.reachable = true
	c.mu.Unlock()

	log.Printf("Cache primary store reconnected")
	return true
}

// Close stops the sweep and closes the primary backend.
func (c *TieredCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	if c.primary != nil {
		return c.primary.Close()
	}
	return nil
}

func (c *TieredCache) markUnreachable(err error) {
	c.mu.Lock()
	wasReachable := c.reachable
	c.reachable = false
	c.mu.Unlock()

	if wasReachable {
		log.Printf("Cache primary store unreachable, serving from fallback: %v", err)
	}
}

func (c *TieredCache) fallbackGet(key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.fallback[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if !entry.expiresAt.After(c.now()) {
		c.mu.Lock()
		delete(c.fallback, key)
		c.mu.Unlock()
		return nil, false
	}

	return entry.value, true
}

func (c *TieredCache) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweepFallback()
		case <-c.stop:
			return
		}
	}
}

// sweepFallback evicts every fallback entry whose expiry has passed.
func (c *TieredCache) sweepFallback() {
	now := c.now()

	c.mu.Lock()
	for key, entry := range c.fallback {
		if !entry.expiresAt.After(now) {
			delete(c.fallback, key)
		}
	}
	c.mu.Unlock()
}
