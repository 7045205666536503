package viewport

import (
	"sort"

	"github.com/dshills/lineflow/internal/debug"
	"github.com/dshills/lineflow/internal/geom"
	"github.com/dshills/lineflow/internal/layout"
	"github.com/dshills/lineflow/internal/text"
)

// findRow returns the index of the row holding offset, or -1.
func (e *Engine) findRow(offset text.Offset) int {
	n := len(e.rows)
	if n == 0 || offset < e.rows[0].Start() || offset >= e.rows[n-1].End() {
		return -1
	}
	return sort.Search(n, func(i int) bool { return e.rows[i].Start() > offset }) - 1
}

// HitTestPoint maps a point in window coordinates to the nearest
// offset. Points above or below the rows map onto the first or last row.
func (e *Engine) HitTestPoint(p geom.PointF) text.Offset {
	e.lock.AssertHeld()
	debug.Assert(!e.dirty && !e.needFormat, "hit test on stale viewport")
	if len(e.rows) == 0 {
		return e.viewStart
	}
	p = p.Sub(e.bounds.Origin())

	var row Row
	switch n := len(e.rows); {
	case p.Y < 0:
		row = e.rows[0]
	case p.Y >= e.rows[n-1].Bottom():
		row = e.rows[n-1]
	default:
		i := sort.Search(n, func(i int) bool { return e.rows[i].Top() > p.Y }) - 1
		row = e.rows[max(i, 0)]
	}
	return row.Line.MapXToOffset(p.X - row.Origin.X)
}

// HitTestTextPosition returns the caret rectangle for offset in window
// coordinates. It reports false when offset is not in a visible row.
func (e *Engine) HitTestTextPosition(offset text.Offset) (geom.RectF, bool) {
	e.lock.AssertHeld()
	debug.Assert(!e.dirty && !e.needFormat, "hit test on stale viewport")
	i := e.findRow(offset)
	if i < 0 {
		return geom.RectF{}, false
	}
	row := e.rows[i]
	r, ok := row.Line.HitTestTextPosition(offset)
	if !ok {
		return geom.RectF{}, false
	}
	origin := row.Origin.Add(e.bounds.Origin())
	return r.Offset(origin.X, origin.Y), true
}

// lineContaining returns the formatted line holding offset, reusing the
// cache when it can.
func (e *Engine) lineContaining(offset text.Offset) *layout.Line {
	e.invalidateCache()
	if line := e.cache.FindLine(offset); line != nil {
		return line
	}
	f := e.newFormatter(e.buffer.ComputeStartOfLine(offset))
	for {
		line := f.FormatLine()
		if offset < line.End() {
			return line
		}
	}
}

// StartOfLine returns the start of the display line holding offset.
func (e *Engine) StartOfLine(offset text.Offset) text.Offset {
	e.lock.AssertHeld()
	if offset <= 0 {
		return 0
	}
	return e.lineContaining(text.MinOffset(offset, e.buffer.End())).Start()
}

// EndOfLine returns the last offset of the display line holding offset,
// or the buffer end.
func (e *Engine) EndOfLine(offset text.Offset) text.Offset {
	e.lock.AssertHeld()
	end := e.buffer.End()
	if offset >= end {
		return end
	}
	return e.lineContaining(max(offset, 0)).End().Prev()
}

// MapPointXToOffset returns the offset at x, relative to the viewport's
// left edge, on the display line holding offset.
func (e *Engine) MapPointXToOffset(offset text.Offset, x float32) text.Offset {
	e.lock.AssertHeld()
	offset = text.Clamp(offset, 0, e.buffer.End())
	return e.lineContaining(offset).MapXToOffset(x - e.bounds.Left)
}
