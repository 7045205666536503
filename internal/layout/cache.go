package layout

import (
	"sort"
	"sync/atomic"

	"github.com/dshills/lineflow/internal/debug"
	"github.com/dshills/lineflow/internal/geom"
	"github.com/dshills/lineflow/internal/logging"
	"github.com/dshills/lineflow/internal/text"
)

// Cache holds formatted lines keyed by start offset. Entries never
// overlap. Buffer edits are coalesced into a dirty watermark that the
// next Invalidate applies.
//
// Cache is not safe for concurrent use; callers hold the document lock.
type Cache struct {
	buffer Buffer
	lines  []*Line // sorted by Start

	bounds      geom.RectF
	zoom        float32
	initialized bool
	dirtyStart  text.Offset

	maxLines int
	pinned   text.Range
	logger   *logging.Logger

	hits      atomic.Uint64
	misses    atomic.Uint64
	purged    atomic.Uint64
	evictions atomic.Uint64
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithMaxLines bounds the number of cached lines. Zero means unbounded.
func WithMaxLines(n int) CacheOption {
	return func(c *Cache) {
		if n > 0 {
			c.maxLines = n
		}
	}
}

// WithCacheLogger sets the logger used to report purges.
func WithCacheLogger(l *logging.Logger) CacheOption {
	return func(c *Cache) {
		if l != nil {
			c.logger = l.WithComponent("linecache")
		}
	}
}

// NewCache creates an empty cache for buffer.
func NewCache(buffer Buffer, opts ...CacheOption) *Cache {
	c := &Cache{
		buffer:     buffer,
		dirtyStart: text.MaxOffset,
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Len returns the number of cached lines.
func (c *Cache) Len() int { return len(c.lines) }

// Lines returns the cached lines in offset order. The slice is a copy;
// the lines are shared.
func (c *Cache) Lines() []*Line { return append([]*Line(nil), c.lines...) }

// DirtyStart returns the dirty watermark, or MaxOffset when clean.
func (c *Cache) DirtyStart() text.Offset { return c.dirtyStart }

// search returns the index of the first line starting at or after offset.
func (c *Cache) search(offset text.Offset) int {
	return sort.Search(len(c.lines), func(i int) bool {
		return c.lines[i].Start() >= offset
	})
}

// FindLine returns the line whose range contains offset, or nil.
func (c *Cache) FindLine(offset text.Offset) *Line {
	i := c.search(offset)
	if i < len(c.lines) && c.lines[i].Start() == offset {
		c.hits.Add(1)
		return c.lines[i]
	}
	if i > 0 && c.lines[i-1].Contains(offset) {
		c.hits.Add(1)
		return c.lines[i-1]
	}
	c.misses.Add(1)
	return nil
}

// LineAt returns the line starting exactly at start, or nil.
func (c *Cache) LineAt(start text.Offset) *Line {
	i := c.search(start)
	if i < len(c.lines) && c.lines[i].Start() == start {
		c.hits.Add(1)
		return c.lines[i]
	}
	c.misses.Add(1)
	return nil
}

// Register inserts line and returns the cached instance. A structurally
// equal line already cached at the same start is kept, so callers can
// compare visible lines with the cache by identity.
func (c *Cache) Register(line *Line) *Line {
	i := c.search(line.Start())
	if i < len(c.lines) && c.lines[i].Start() == line.Start() {
		if c.lines[i].Equal(line) {
			return c.lines[i]
		}
		c.lines[i] = line
	} else {
		c.lines = append(c.lines, nil)
		copy(c.lines[i+1:], c.lines[i:])
		c.lines[i] = line
	}
	if debug.Enabled {
		if i > 0 {
			debug.Assert(c.lines[i-1].End() <= line.Start(),
				"line %v overlaps predecessor %v", line, c.lines[i-1])
		}
		if i+1 < len(c.lines) {
			debug.Assert(line.End() <= c.lines[i+1].Start(),
				"line %v overlaps successor %v", line, c.lines[i+1])
		}
	}
	c.evict(i)
	return line
}

// Pin protects lines overlapping r from eviction. Invalidation still
// purges them. An empty range pins nothing.
func (c *Cache) Pin(r text.Range) { c.pinned = r }

func (c *Cache) isPinned(line *Line) bool { return c.pinned.Overlaps(line.Range()) }

// evict trims the cache to maxLines, dropping the entries farthest from
// index keep. Pinned lines and keep itself survive, so the cache may
// stay above maxLines while they fill it.
func (c *Cache) evict(keep int) {
	if c.maxLines == 0 {
		return
	}
	for len(c.lines) > c.maxLines {
		victim, far := -1, -1
		for i, line := range c.lines {
			d := max(i-keep, keep-i)
			if i == keep || d < far || c.isPinned(line) {
				continue
			}
			victim, far = i, d
		}
		if victim < 0 {
			return
		}
		if victim < keep {
			keep--
		}
		n := len(c.lines)
		copy(c.lines[victim:], c.lines[victim+1:])
		c.lines[n-1] = nil
		c.lines = c.lines[:n-1]
		c.evictions.Add(1)
	}
}

// DidChangeBuffer records that content at offset and after may differ.
// Multiple calls coalesce to the smallest offset.
func (c *Cache) DidChangeBuffer(offset text.Offset) {
	c.dirtyStart = text.MinOffset(c.dirtyStart, offset)
}

// IsDirty reports whether Invalidate(bounds, zoom) would change anything.
func (c *Cache) IsDirty(bounds geom.RectF, zoom float32) bool {
	return !c.initialized || c.zoom != zoom || c.bounds != bounds || c.dirtyStart != text.MaxOffset
}

// Invalidate brings the cache up to date with pending edits and the
// given geometry. A zoom change, or the first call, empties the cache.
// Otherwise lines at or after the dirty watermark are purged, and when
// the width changed so is every line whose breaks depend on it.
func (c *Cache) Invalidate(bounds geom.RectF, zoom float32) {
	if !c.initialized || c.zoom != zoom {
		if n := len(c.lines); n > 0 {
			c.logger.Debug("purge all lines=%d zoom=%g", n, zoom)
		}
		c.purgeAll()
		c.bounds = bounds
		c.zoom = zoom
		c.initialized = true
		c.dirtyStart = text.MaxOffset
		return
	}

	if c.dirtyStart != text.MaxOffset {
		c.purgeFrom(c.dirtyStart)
		c.dirtyStart = text.MaxOffset
	}

	if c.bounds == bounds {
		return
	}
	widthChanged := c.bounds.Width() != bounds.Width()
	c.bounds = bounds
	if !widthChanged || len(c.lines) == 0 {
		return
	}

	width := bounds.Width()
	before := len(c.lines)
	kept := c.lines[:0]
	for _, line := range c.lines {
		if line.Width() >= width || !c.isAfterNewline(line) || !line.EndsWithNewline() {
			c.purged.Add(1)
			continue
		}
		kept = append(kept, line)
	}
	clear(c.lines[len(kept):])
	c.lines = kept
	c.logger.Debug("width %g purged %d of %d lines", width, before-len(kept), before)
}

func (c *Cache) isAfterNewline(line *Line) bool {
	start := line.Start()
	if start == 0 {
		return true
	}
	if start > c.buffer.End() {
		return false
	}
	return c.buffer.CharAt(start-1) == '\n'
}

// purgeFrom drops every line that may depend on content at offset. That
// is the line containing offset and everything after it, plus a wrapped
// line ending right at offset because its break depended on the
// character there.
func (c *Cache) purgeFrom(offset text.Offset) {
	i := sort.Search(len(c.lines), func(i int) bool {
		return c.lines[i].End() > offset
	})
	if i > 0 && c.lines[i-1].End() == offset && c.lines[i-1].IsContinued() {
		i--
	}
	if i == len(c.lines) {
		return
	}
	c.purged.Add(uint64(len(c.lines) - i))
	c.logger.Debug("purge from=%d lines=%d", int(offset), len(c.lines)-i)
	clear(c.lines[i:])
	c.lines = c.lines[:i]
}

func (c *Cache) purgeAll() {
	c.purged.Add(uint64(len(c.lines)))
	c.lines = nil
}

// CacheStats holds cache statistics.
type CacheStats struct {
	Size      int     // Current number of lines
	MaxSize   int     // Maximum lines allowed, 0 if unbounded
	Hits      uint64  // Lookups answered from the cache
	Misses    uint64  // Lookups that found nothing
	Purged    uint64  // Lines dropped by invalidation
	Evictions uint64  // Lines dropped by the size bound
	HitRate   float64 // Hit rate (0.0 - 1.0)
}

// Stats returns cache statistics.
func (c *Cache) Stats() CacheStats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return CacheStats{
		Size:      len(c.lines),
		MaxSize:   c.maxLines,
		Hits:      hits,
		Misses:    misses,
		Purged:    c.purged.Load(),
		Evictions: c.evictions.Load(),
		HitRate:   hitRate,
	}
}

// ResetStats resets the statistics counters.
func (c *Cache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.purged.Store(0)
	c.evictions.Store(0)
}
