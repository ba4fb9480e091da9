package main

import (
	"sync"
	"time"
)

// ReferenceCache provides thread-safe caching for fetched reference content,
// keyed by URL with a per-entry TTL.
type ReferenceCache struct {
	mu      sync.RWMutex
	entries map[string]referenceEntry
	ttl     time.Duration
}

type referenceEntry struct {
	content *ReferenceContent
	stored  time.Time
}

// NewReferenceCache creates a new reference cache with the specified TTL
func NewReferenceCache(ttl time.Duration) *ReferenceCache {
	return &ReferenceCache{
		entries: make(map[string]referenceEntry),
		ttl:     ttl,
	}
}

// Get retrieves reference content from cache if present and not expired
func (c *ReferenceCache) Get(url string) (*ReferenceContent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[url]
	if !ok {
		return nil, false
	}

	if time.Since(entry.stored) > c.ttl {
		return nil, false
	}

	// Return a copy to prevent external modifications
	contentCopy := *entry.content
	return &contentCopy, true
}

// Set stores reference content for a URL
func (c *ReferenceCache) Set(url string, content *ReferenceContent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	contentCopy := *content
	c.entries[url] = referenceEntry{
		content: &contentCopy,
		stored:  time.Now(),
	}
}

// Clear removes all entries from the cache
func (c *ReferenceCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]referenceEntry)
}

// GetSize returns the number of entries in the cache, expired included
func (c *ReferenceCache) GetSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
