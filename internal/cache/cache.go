// Package cache keeps the view state of recently disconnected sessions so a
// client that reconnects can pick up where it left off.
package cache

import (
	"sync"
	"time"

	"github.com/livetemplate/htmlelements"
)

// Entry is a parked session state.
type Entry struct {
	State     htmlelements.State
	ExpiresAt time.Time
}

// IsExpired returns true if the entry has expired
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// StateCache holds session states by session id until they expire or are
// taken back.
type StateCache struct {
	mu      sync.Mutex
	entries map[string]*Entry
	max     int

	// For background cleanup
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once // Ensures Stop() is idempotent
}

// NewStateCache creates a cache holding at most max entries (unbounded when
// max <= 0). Call Stop to end the cleanup goroutine.
func NewStateCache(max int) *StateCache {
	c := &StateCache{
		entries:         make(map[string]*Entry),
		max:             max,
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Put parks state under id for ttl. When the cache is full the entry closest
// to expiry is dropped.
func (c *StateCache) Put(id string, state htmlelements.State, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	entry := &Entry{State: state, ExpiresAt: time.Now().Add(ttl)}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[id]; !exists && c.max > 0 && len(c.entries) >= c.max {
		c.evictOldestLocked()
	}
	c.entries[id] = entry
}

// Take removes and returns the state parked under id. A state can be
// resumed once.
func (c *StateCache) Take(id string) (htmlelements.State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[id]
	if !exists {
		return htmlelements.State{}, false
	}
	delete(c.entries, id)
	if entry.IsExpired() {
		return htmlelements.State{}, false
	}
	return entry.State, true
}

// InvalidateAll removes all entries from the cache
func (c *StateCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]*Entry)
	c.mu.Unlock()
}

func (c *StateCache) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, entry := range c.entries {
		if oldestID == "" || entry.ExpiresAt.Before(oldest) {
			oldestID, oldest = id, entry.ExpiresAt
		}
	}
	delete(c.entries, oldestID)
}

// cleanupLoop periodically removes expired entries
func (c *StateCache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCleanup:
			return
		}
	}
}

// cleanup removes all expired entries
func (c *StateCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for id, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, id)
		}
	}
}

// Stop stops the background cleanup goroutine
// Safe to call multiple times
func (c *StateCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCleanup)
	})
}

// Len returns the number of entries in the cache
func (c *StateCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
