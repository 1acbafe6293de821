package testutil

import (
	"fmt"
	"sync"
)

// SequentialSessionGenerator returns predictable session identifiers
// ("<prefix>-1", "<prefix>-2", ...) in place of random UUIDs.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequentialSessionGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialSessionGenerator creates a generator. An empty prefix
// defaults to "test-session".
func NewSequentialSessionGenerator(prefix string) *SequentialSessionGenerator {
	if prefix == "" {
		prefix = "test-session"
	}
	return &SequentialSessionGenerator{prefix: prefix}
}

// Generate returns the next identifier.
func (g *SequentialSessionGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
