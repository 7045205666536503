// Package viewport keeps the window of formatted lines visible through a
// rectangular viewport, and answers scrolling and hit-testing queries
// against it.
package viewport

import (
	"github.com/dshills/lineflow/internal/debug"
	"github.com/dshills/lineflow/internal/doclock"
	"github.com/dshills/lineflow/internal/font"
	"github.com/dshills/lineflow/internal/geom"
	"github.com/dshills/lineflow/internal/layout"
	"github.com/dshills/lineflow/internal/logging"
	"github.com/dshills/lineflow/internal/text"
)

// Engine owns the visible rows of a buffer.
//
// The engine does no locking. Every method must be called with the
// document lock held; WithLock lets debug builds check this.
//
// Buffer edits reach the engine through its text.MutationObserver
// methods. The caller registers the engine with the buffer and removes
// it when the engine is dropped.
type Engine struct {
	buffer layout.Buffer
	cache  *layout.Cache
	opts   layout.Options
	logger *logging.Logger
	lock   *doclock.Lock

	cacheLimit int

	rows       []Row
	rowsHeight float32

	bounds    geom.RectF
	zoom      float32
	version   uint64
	viewStart text.Offset

	// dirty is set by buffer edits; needFormat by geometry changes.
	dirty      bool
	needFormat bool
}

var _ text.MutationObserver = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics sets the font metrics used for formatting.
func WithMetrics(m font.Metrics) Option {
	return func(e *Engine) { e.opts.Metrics = m }
}

// WithFormatOptions replaces the formatter options.
func WithFormatOptions(o layout.Options) Option {
	return func(e *Engine) {
		m := e.opts.Metrics
		e.opts = o
		if e.opts.Metrics == nil {
			e.opts.Metrics = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l.WithComponent("viewport")
		}
	}
}

// WithLock sets the document lock asserted in debug builds.
func WithLock(l *doclock.Lock) Option {
	return func(e *Engine) { e.lock = l }
}

// WithCacheLimit bounds the line cache.
func WithCacheLimit(n int) Option {
	return func(e *Engine) { e.cacheLimit = n }
}

// WithBounds sets the initial viewport rectangle.
func WithBounds(r geom.RectF) Option {
	return func(e *Engine) { e.bounds = r }
}

// WithZoom sets the initial zoom factor.
func WithZoom(z float32) Option {
	return func(e *Engine) {
		if z > 0 {
			e.zoom = z
		}
	}
}

// New creates an engine for buffer. Nothing is formatted until the
// first FormatIfNeeded or Format call.
func New(buffer layout.Buffer, opts ...Option) *Engine {
	e := &Engine{
		buffer:     buffer,
		opts:       layout.DefaultOptions(),
		logger:     logging.Nop(),
		zoom:       1,
		dirty:      true,
		needFormat: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cache = layout.NewCache(buffer, layout.WithMaxLines(e.cacheLimit), layout.WithCacheLogger(e.logger))
	return e
}

// Bounds returns the viewport rectangle.
func (e *Engine) Bounds() geom.RectF { return e.bounds }

// Zoom returns the zoom factor.
func (e *Engine) Zoom() float32 { return e.zoom }

// Version is bumped by every structural change to the rows. Painters
// skip work when it is unchanged.
func (e *Engine) Version() uint64 { return e.version }

// ViewStart returns the offset the viewport is anchored to.
func (e *Engine) ViewStart() text.Offset { return e.viewStart }

// Cache returns the engine's line cache.
func (e *Engine) Cache() *layout.Cache { return e.cache }

// CacheStats returns line cache statistics.
func (e *Engine) CacheStats() layout.CacheStats { return e.cache.Stats() }

// Rows returns the visible rows. The slice is a copy; lines are shared
// and must not be modified.
func (e *Engine) Rows() []Row { return append([]Row(nil), e.rows...) }

// Snapshot returns deep copies of the visible rows, safe to hand to a
// consumer that does not hold the document lock.
func (e *Engine) Snapshot() []Row {
	out := make([]Row, len(e.rows))
	for i, row := range e.rows {
		out[i] = Row{Line: row.Line.Clone(), Origin: row.Origin}
	}
	return out
}

// NeedsFormat reports whether FormatIfNeeded has pending work.
func (e *Engine) NeedsFormat() bool {
	return e.dirty || e.needFormat || e.cache.IsDirty(e.bounds, e.zoom)
}

// SetBounds changes the viewport rectangle. The next FormatIfNeeded
// reformats.
func (e *Engine) SetBounds(r geom.RectF) {
	debug.Assert(!r.Empty(), "empty viewport bounds %v", r)
	if e.bounds == r {
		return
	}
	e.bounds = r
	e.dirty = true
	e.needFormat = true
}

// SetZoom changes the zoom factor. The next FormatIfNeeded reformats.
func (e *Engine) SetZoom(z float32) {
	debug.Assert(z > 0, "zoom %v must be positive", z)
	if z <= 0 || e.zoom == z {
		return
	}
	e.zoom = z
	e.dirty = true
	e.needFormat = true
}

// TextStart returns the first visible offset.
func (e *Engine) TextStart() text.Offset {
	if len(e.rows) == 0 {
		return e.viewStart
	}
	return e.rows[0].Start()
}

// TextEnd returns the offset after the last row, including rows only
// partly visible.
func (e *Engine) TextEnd() text.Offset {
	if len(e.rows) == 0 {
		return e.viewStart
	}
	return e.rows[len(e.rows)-1].End()
}

func (e *Engine) newFormatter(start text.Offset) *layout.Formatter {
	return layout.NewFormatter(e.buffer, e.cache, start, e.bounds, e.zoom, e.opts)
}

// Format discards the rows and lays out the viewport so that target is
// visible, starting at the beginning of target's hard line.
func (e *Engine) Format(target text.Offset) {
	e.lock.AssertHeld()
	e.cache.Invalidate(e.bounds, e.zoom)
	e.clearRows()
	e.dirty = false
	e.needFormat = false
	if e.bounds.Empty() {
		return
	}

	end := e.buffer.End()
	target = text.Clamp(target, 0, end)
	f := e.newFormatter(e.buffer.ComputeStartOfLine(target))
	for {
		line := f.FormatLine()
		debug.Assert(line.Height() > 0, "line %v has no height", line)
		e.appendLine(line)
		if e.rowsHeight >= e.bounds.Height() || line.IsEndOfDocument() {
			break
		}
	}

	// Long wrapped paragraphs can push target below the viewport.
	for !e.lastRow().Line.IsEndOfDocument() && target > e.rows[0].End() {
		e.discardFirst()
		e.appendLine(f.FormatLine())
	}

	e.placeRows()
	e.viewStart = e.rows[0].Start()
	e.version++
	e.logger.Debug("format target=%d rows=%d range=[%d, %d) version=%d",
		int(target), len(e.rows), int(e.TextStart()), int(e.TextEnd()), e.version)
}

// FormatIfNeeded applies pending edits and geometry changes. It reports
// whether the rows were rebuilt.
func (e *Engine) FormatIfNeeded() bool {
	e.lock.AssertHeld()
	if e.bounds.Empty() {
		return false
	}
	e.cache.Invalidate(e.bounds, e.zoom)
	if !e.needsFormat() {
		e.dirty = false
		return false
	}
	e.Format(e.viewStart)
	return true
}

// needsFormat reports whether the rows differ from what the cache now
// holds for the same offsets.
func (e *Engine) needsFormat() bool {
	if e.needFormat || len(e.rows) == 0 {
		return true
	}
	if !e.dirty {
		return false
	}
	for _, row := range e.rows {
		if !row.Line.Equal(e.cache.LineAt(row.Start())) {
			return true
		}
	}
	return false
}

// invalidateCache brings the cache up to date and drops rows that may
// be stale.
func (e *Engine) invalidateCache() {
	e.cache.Invalidate(e.bounds, e.zoom)
	if e.dirty {
		e.clearRows()
	}
}

func (e *Engine) invalidateLines(offset text.Offset) {
	e.cache.DidChangeBuffer(offset)
	e.dirty = true
}

// DidInsertBefore implements text.MutationObserver. r is the inserted
// range in post-edit offsets.
func (e *Engine) DidInsertBefore(r text.Range) {
	e.invalidateLines(r.Start)
	if e.viewStart <= r.Start {
		return
	}
	e.viewStart = e.viewStart.Add(r.Len())
}

// DidDeleteAt implements text.MutationObserver. r starts at the deletion
// point and spans the removed length.
func (e *Engine) DidDeleteAt(r text.Range) {
	e.invalidateLines(r.Start)
	if e.viewStart <= r.Start {
		return
	}
	e.viewStart = text.MaxOf(e.viewStart.Add(-r.Len()), r.Start)
}

// DidChangeStyle implements text.MutationObserver.
func (e *Engine) DidChangeStyle(r text.Range) {
	e.invalidateLines(r.Start)
}

func (e *Engine) clearRows() {
	clear(e.rows)
	e.rows = e.rows[:0]
	e.rowsHeight = 0
	e.pinRows()
}

// pinRows keeps the visible lines in the cache when it is bounded.
func (e *Engine) pinRows() {
	e.cache.Pin(text.Range{Start: e.TextStart(), End: e.TextEnd()})
}

func (e *Engine) lastRow() Row { return e.rows[len(e.rows)-1] }

func (e *Engine) appendLine(line *layout.Line) {
	var top float32
	if n := len(e.rows); n > 0 {
		last := e.rows[n-1]
		debug.Assert(last.End() == line.Start(), "append %v after row ending %d", line, last.End())
		top = last.Bottom()
	}
	e.rows = append(e.rows, Row{Line: line, Origin: geom.Pt(0, top)})
	e.rowsHeight += line.Height()
	e.pinRows()
}

func (e *Engine) prependLine(line *layout.Line) {
	if len(e.rows) > 0 {
		debug.Assert(line.End() == e.rows[0].Start(), "prepend %v before row starting %d", line, e.rows[0].Start())
	}
	e.rows = append(e.rows, Row{})
	copy(e.rows[1:], e.rows)
	e.rows[0] = Row{Line: line}
	e.rowsHeight += line.Height()
	e.placeRows()
	e.pinRows()
}

func (e *Engine) discardFirst() bool {
	if len(e.rows) == 0 {
		return false
	}
	e.rowsHeight -= e.rows[0].Line.Height()
	e.rows[0] = Row{}
	e.rows = e.rows[1:]
	e.placeRows()
	e.pinRows()
	return true
}

func (e *Engine) discardLast() bool {
	n := len(e.rows)
	if n == 0 {
		return false
	}
	e.rowsHeight -= e.rows[n-1].Line.Height()
	e.rows[n-1] = Row{}
	e.rows = e.rows[:n-1]
	e.pinRows()
	return true
}

// placeRows stacks the rows top-down from y = 0.
func (e *Engine) placeRows() {
	var y float32
	for i := range e.rows {
		e.rows[i].Origin = geom.Pt(0, y)
		y += e.rows[i].Line.Height()
	}
}
