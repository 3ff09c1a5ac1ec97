// Package mathcache stores rendered math markup keyed by a content hash, so
// that repeated formulas are rendered once per process or across runs.
package mathcache

import (
	"encoding/hex"
	"strconv"
	"sync"

	"github.com/zeebo/blake3"
)

// Entry is a cached engine result.
type Entry struct {
	Markup string `msgpack:"markup"`
	Engine string `msgpack:"engine"`
}

// Cache stores engine results. Implementations are safe for concurrent use.
type Cache interface {
	Get(key string) (Entry, bool)
	Put(key string, e Entry)
	Close() error
}

// Key hashes everything that determines an engine's output.
func Key(selector string, display bool, source string) string {
	h := blake3.New()
	_, _ = h.WriteString(selector)
	_, _ = h.WriteString(":")
	_, _ = h.WriteString(strconv.FormatBool(display))
	_, _ = h.WriteString(":")
	_, _ = h.WriteString(source)
	return hex.EncodeToString(h.Sum(nil))
}

// Compile-time interface checks.
var (
	_ Cache = (*Memory)(nil)
	_ Cache = (*Bolt)(nil)
)

// Memory is an in-process cache.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]Entry)}
}

// Get returns the entry stored under key.
func (m *Memory) Get(key string) (Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	return e, ok
}

// Put stores e under key.
func (m *Memory) Put(key string, e Entry) {
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
