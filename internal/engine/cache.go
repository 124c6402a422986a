package engine

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/webshift/webshift/internal/types"
)

// resultCache memoizes per-file analysis keyed by content hash, so watch
// mode only re-analyzes the files that actually changed. Entries are stored
// by value and never mutated after insertion.
type resultCache struct {
	mu      sync.RWMutex
	entries map[uint64]cacheEntry
}

type cacheEntry struct {
	analysis   types.FileAnalysis
	frameworks []string
}

func newResultCache() *resultCache {
	return &resultCache{entries: make(map[uint64]cacheEntry)}
}

// key hashes path and content together: the same bytes at a different path
// must produce a fresh analysis because FileAnalysis carries the path.
func (c *resultCache) key(path string, content []byte) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(path)
	_, _ = d.Write([]byte{0})
	_, _ = d.Write(content)
	return d.Sum64()
}

func (c *resultCache) get(key uint64) (types.FileAnalysis, []string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok {
		return types.FileAnalysis{}, nil, false
	}
	return entry.analysis, entry.frameworks, true
}

func (c *resultCache) put(key uint64, analysis types.FileAnalysis, frameworks []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{analysis: analysis, frameworks: frameworks}
}
