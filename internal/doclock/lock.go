// Package doclock provides the document lock shared by a buffer and the
// layout engine that reads it.
//
// The layout engine performs no locking of its own. Callers hold the
// lock around any formatting or scrolling call; in debug builds the
// engine verifies this with AssertHeld.
package doclock

import (
	"sync"
	"sync/atomic"

	"github.com/dshills/lineflow/internal/debug"
)

// Lock is a read/write lock that remembers whether it is held.
type Lock struct {
	mu      sync.RWMutex
	writers atomic.Int32
	readers atomic.Int32
}

// Lock acquires the lock for writing.
func (l *Lock) Lock() {
	l.mu.Lock()
	l.writers.Add(1)
}

// Unlock releases a write lock.
func (l *Lock) Unlock() {
	l.writers.Add(-1)
	l.mu.Unlock()
}

// RLock acquires the lock for reading.
func (l *Lock) RLock() {
	l.mu.RLock()
	l.readers.Add(1)
}

// RUnlock releases a read lock.
func (l *Lock) RUnlock() {
	l.readers.Add(-1)
	l.mu.RUnlock()
}

// Held reports whether anyone holds the lock.
func (l *Lock) Held() bool {
	return l.writers.Load() > 0 || l.readers.Load() > 0
}

// AssertHeld panics in debug builds when the lock is not held.
// A nil lock is treated as "locking not in use".
func (l *Lock) AssertHeld() {
	if l == nil {
		return
	}
	debug.Assert(l.Held(), "document lock not held")
}
