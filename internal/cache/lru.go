// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

// Package cache provides a thread-safe LRU cache with TTL for recommendation
// results. Item-based and user-based scoring walk the full similarity matrix
// per request; repeated selections are common, so results are cached keyed
// by algorithm and selection.
package cache

import (
	"sync"
	"time"
)

// entry is a node of the doubly-linked recency list.
type entry struct {
	key       string
	value     []string
	prev      *entry
	next      *entry
	expiresAt time.Time
}

// ResultCache is an LRU cache of recommendation lists with lazy TTL
// expiration. All operations are O(1).
type ResultCache struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration

	items map[string]*entry

	// head.next is the most recently used, tail.prev the least.
	head *entry
	tail *entry

	hits   int64
	misses int64
}

// NewResultCache creates a cache holding up to capacity recommendation
// lists, each valid for ttl.
func NewResultCache(capacity int, ttl time.Duration) *ResultCache {
	if capacity <= 0 {
		capacity = 1024
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	c := &ResultCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*entry, capacity),
		head:     &entry{},
		tail:     &entry{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head

	return c
}

// Get returns the cached recommendation list for key, moving it to the
// front. Expired entries are removed on access.
func (c *ResultCache) Get(key string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.remove(e)
		c.misses++
		return nil, false
	}

	c.moveToFront(e)
	c.hits++
	return e.value, true
}

// Add stores a recommendation list under key, evicting the least recently
// used entry when at capacity.
func (c *ResultCache) Add(key string, value []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.value = value
		e.expiresAt = time.Now().Add(c.ttl)
		c.moveToFront(e)
		return
	}

	if len(c.items) >= c.capacity {
		c.remove(c.tail.prev)
	}

	e := &entry{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.items[key] = e
	c.pushFront(e)
}

// Purge drops every entry. Used when a new build replaces the served one.
func (c *ResultCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*entry, c.capacity)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// Len returns the number of live entries, counting not-yet-collected
// expired ones.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns cumulative hit and miss counts.
func (c *ResultCache) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *ResultCache) remove(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	delete(c.items, e.key)
}

func (c *ResultCache) pushFront(e *entry) {
	e.next = c.head.next
	e.prev = c.head
	c.head.next.prev = e
	c.head.next = e
}

func (c *ResultCache) moveToFront(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	c.pushFront(e)
}
