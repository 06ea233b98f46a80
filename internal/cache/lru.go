// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package cache

import (
	"sync"
	"time"
)

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 10000

type lruEntry struct {
	key       string
	expiresAt time.Time
	prev      *lruEntry
	next      *lruEntry
}

// ExpiringLRU is a thread-safe LRU set where each key expires at its own instant.
//
// The list runs from head.next (most recently used) to tail.prev (least
// recently used). Contains and Add are O(1) until the cache is full; a full cache
// sweeps expired keys before it evicts anything.
type ExpiringLRU struct {
	mu sync.Mutex

	capacity int
	keepLive bool
	items    map[string]*lruEntry
	head     *lruEntry
	tail     *lruEntry

	now func() time.Time

	hits      int64
	misses    int64
	expired   int64
	evictions int64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Expired   int64 // keys dropped because their expiry passed
	Evictions int64 // unexpired keys dropped to stay within capacity
	Size      int
	Capacity  int
}

// NewExpiringLRU creates an empty cache holding at most capacity keys.
func NewExpiringLRU(capacity int) *ExpiringLRU {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &ExpiringLRU{
		capacity: capacity,
		items:    make(map[string]*lruEntry),
		head:     &lruEntry{},
		tail:     &lruEntry{},
		now:      time.Now,
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// KeepLive turns capacity into a soft limit: when every stored key is still
// unexpired, Add grows the cache instead of evicting one.
func (c *ExpiringLRU) KeepLive() *ExpiringLRU {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keepLive = true
	return c
}

// Add records key until expiresAt. Re-adding a key replaces its expiry.
// Keys that are already expired are ignored.
//
// Add reports whether the cache holds more keys than its capacity
// afterwards, which only happens with KeepLive.
func (c *ExpiringLRU) Add(key string, expiresAt time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !expiresAt.After(now) {
		return false
	}

	if entry, ok := c.items[key]; ok {
		entry.expiresAt = expiresAt
		c.moveToFront(entry)
		return len(c.items) > c.capacity
	}

	entry := &lruEntry{key: key, expiresAt: expiresAt}
	c.addToFront(entry)
	c.items[key] = entry

	if len(c.items) <= c.capacity {
		return false
	}
	c.removeExpired(now)
	if c.keepLive {
		return len(c.items) > c.capacity
	}
	for len(c.items) > c.capacity {
		c.evictOldest()
	}
	return false
}

// Contains reports whether key is present and unexpired. A hit marks the key
// as recently used.
func (c *ExpiringLRU) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		c.misses++
		return false
	}
	if !entry.expiresAt.After(c.now()) {
		c.removeEntry(entry)
		c.expired++
		c.misses++
		return false
	}
	c.moveToFront(entry)
	c.hits++
	return true
}

// Stats returns a snapshot of the counters. Size includes expired keys not
// yet swept.
func (c *ExpiringLRU) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Expired:   c.expired,
		Evictions: c.evictions,
		Size:      len(c.items),
		Capacity:  c.capacity,
	}
}

// Must be called with c.mu held.
func (c *ExpiringLRU) addToFront(entry *lruEntry) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

func (c *ExpiringLRU) moveToFront(entry *lruEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	c.addToFront(entry)
}

func (c *ExpiringLRU) removeEntry(entry *lruEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	delete(c.items, entry.key)
}

// removeExpired drops every key whose expiry is not after now.
func (c *ExpiringLRU) removeExpired(now time.Time) {
	for entry := c.tail.prev; entry != c.head; {
		prev := entry.prev
		if !entry.expiresAt.After(now) {
			c.removeEntry(entry)
			c.expired++
		}
		entry = prev
	}
}

// evictOldest drops the least recently used key.
func (c *ExpiringLRU) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}
	c.removeEntry(oldest)
	c.evictions++
}
