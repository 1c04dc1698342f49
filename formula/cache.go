package formula

import (
	"sync"

	"github.com/zeebo/xxh3"
)

// ProgramCache memoizes parse results by source text. Syntax errors are
// cached as well, so a malformed formula is parsed only once. It is safe
// for concurrent use.
type ProgramCache struct {
	mu      sync.Mutex
	entries map[uint64][]program
	size    int
}

type program struct {
	source string
	node   Node
	err    error
}

// NewProgramCache returns an empty cache.
func NewProgramCache() *ProgramCache {
	return &ProgramCache{entries: make(map[uint64][]program)}
}

// Parse returns the cached result for source, parsing it on first use.
// Entries are keyed by xxh3 of the source; colliding sources are kept in
// the same bucket and compared exactly.
func (c *ProgramCache) Parse(source string) (Node, error) {
	key := xxh3.HashString(source)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries == nil {
		c.entries = make(map[uint64][]program)
	}

	for _, p := range c.entries[key] {
		if p.source == source {
			return p.node, p.err
		}
	}

	node, err := Parse(source)

	c.entries[key] = append(c.entries[key], program{source: source, node: node, err: err})
	c.size++

	return node, err
}

// Len returns the number of cached sources.
func (c *ProgramCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.size
}

// Reset discards all entries.
func (c *ProgramCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	c.size = 0
}
