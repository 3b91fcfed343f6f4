// Package cache provides a generic, thread-safe LRU cache with a soft
// capacity limit.
//
//	c := cache.New[string, int](100)
//	c.Set("key", 42)
//	value, ok := c.Get("key")
//
// Eviction is driven by a doubly-linked list (lru.go) ordering entries
// from most- to least-recently-used; once the map exceeds softLimit,
// Set/GetOrCreate drop entries from the tail down to 75% of softLimit.
//
// Cache must not be copied after creation (it has a mutex).
package cache
