// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultCacheGetAdd(t *testing.T) {
	c := NewResultCache(4, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Add("k1", []string{"ABBA", "Queen"})
	got, ok := c.Get("k1")
	require.True(t, ok)
	assert.Equal(t, []string{"ABBA", "Queen"}, got)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestResultCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewResultCache(2, time.Minute)

	c.Add("a", []string{"x"})
	c.Add("b", []string{"y"})

	// Touch "a" so "b" is the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Add("c", []string{"z"})

	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestResultCacheExpiry(t *testing.T) {
	c := NewResultCache(4, 10*time.Millisecond)

	c.Add("k", []string{"x"})
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestResultCacheUpdateExistingKey(t *testing.T) {
	c := NewResultCache(4, time.Minute)

	c.Add("k", []string{"old"})
	c.Add("k", []string{"new"})

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []string{"new"}, got)
	assert.Equal(t, 1, c.Len())
}

func TestResultCachePurge(t *testing.T) {
	c := NewResultCache(4, time.Minute)

	c.Add("a", []string{"x"})
	c.Add("b", []string{"y"})
	c.Purge()

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}
