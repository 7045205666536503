package viewport

import (
	"github.com/dshills/lineflow/internal/debug"
	"github.com/dshills/lineflow/internal/text"
)

// IsShowEndOfDocument reports whether the end-of-document line is
// visible without clipping.
func (e *Engine) IsShowEndOfDocument() bool {
	if len(e.rows) == 0 {
		return false
	}
	last := e.lastRow()
	return last.Line.IsEndOfDocument() && last.Bottom() <= e.bounds.Height()
}

// ComputeVisibleEnd returns the offset after the last row that is fully
// inside the viewport. When no row fits, it returns the end of the first
// row.
func (e *Engine) ComputeVisibleEnd() text.Offset {
	if len(e.rows) == 0 {
		return e.viewStart
	}
	for i := len(e.rows) - 1; i >= 0; i-- {
		if e.rows[i].Bottom() <= e.bounds.Height() {
			return e.rows[i].End()
		}
	}
	return e.rows[0].End()
}

// IsPositionFullyVisible reports whether the line holding offset is
// inside the viewport without clipping.
func (e *Engine) IsPositionFullyVisible(offset text.Offset) bool {
	e.FormatIfNeeded()
	if len(e.rows) == 0 {
		return false
	}
	return offset >= e.TextStart() && offset < e.ComputeVisibleEnd()
}

// ScrollUp moves the content up by one line, revealing the line below
// the viewport. It reports false when the end of the document is
// already visible.
func (e *Engine) ScrollUp() bool {
	e.lock.AssertHeld()
	e.FormatIfNeeded()
	if len(e.rows) == 0 || e.IsShowEndOfDocument() {
		return false
	}
	if len(e.rows) == 1 && e.rows[0].Line.IsEndOfDocument() {
		return false
	}
	e.version++

	for {
		if len(e.rows) == 1 {
			if e.rows[0].Line.IsEndOfDocument() {
				return true
			}
			// A single row taller than the viewport: step past it.
			next := e.newFormatter(e.rows[0].End()).FormatLine()
			e.clearRows()
			e.appendLine(next)
			e.viewStart = next.Start()
			return true
		}
		e.discardFirst()
		e.viewStart = e.rows[0].Start()
		if !e.lastRow().Line.IsEndOfDocument() {
			break
		}
		if e.IsShowEndOfDocument() {
			return true
		}
	}

	e.appendLine(e.newFormatter(e.TextEnd()).FormatLine())
	return true
}

// ScrollDown moves the content down by one line, revealing the line
// above the viewport. It reports false at the start of the document.
func (e *Engine) ScrollDown() bool {
	e.lock.AssertHeld()
	e.FormatIfNeeded()
	if len(e.rows) == 0 || e.rows[0].Start() == 0 {
		return false
	}
	e.version++

	goal := e.rows[0].Start().Prev()
	f := e.newFormatter(e.buffer.ComputeStartOfLine(goal))
	for {
		line := f.FormatLine()
		if goal < line.End() {
			debug.Assert(line.End() == e.rows[0].Start(), "line %v does not abut row at %d", line, e.rows[0].Start())
			e.prependLine(line)
			break
		}
	}

	for len(e.rows) > 1 && e.lastRow().Top() >= e.bounds.Height() {
		e.discardLast()
	}
	e.viewStart = e.rows[0].Start()
	return true
}

// ScrollToPosition scrolls until the line holding offset is fully
// visible. Short distances scroll line by line; otherwise the viewport
// is reformatted around offset. It reports whether anything moved.
func (e *Engine) ScrollToPosition(offset text.Offset) bool {
	e.lock.AssertHeld()
	e.FormatIfNeeded()
	if len(e.rows) == 0 {
		return false
	}
	end := e.buffer.End()
	offset = text.Clamp(offset, 0, end)
	if e.IsPositionFullyVisible(offset) {
		return false
	}

	half := e.bounds.Height() / 2
	var scrolled float32
	if offset > e.TextStart() {
		for scrolled < half {
			h := e.rows[0].Line.Height()
			if !e.ScrollUp() {
				return scrolled > 0
			}
			if e.IsPositionFullyVisible(offset) {
				return true
			}
			scrolled += h
		}
	} else {
		for scrolled < half {
			if !e.ScrollDown() {
				return scrolled > 0
			}
			if e.IsPositionFullyVisible(offset) {
				return true
			}
			scrolled += e.rows[0].Line.Height()
		}
	}

	e.Format(offset)
	for !e.IsPositionFullyVisible(offset) {
		if !e.ScrollUp() {
			return true
		}
	}

	if e.TextEnd() >= end {
		// Fill the viewport above the document tail.
		down := 0
		for e.IsPositionFullyVisible(end) {
			if !e.ScrollDown() {
				return true
			}
			down++
		}
		if down > 0 {
			e.ScrollUp()
		}
		return true
	}

	e.recenter(offset)
	return true
}

// recenter moves the line holding offset toward the middle of the
// viewport while keeping it fully visible.
func (e *Engine) recenter(offset text.Offset) {
	half := e.bounds.Height() / 2
	for {
		i := e.findRow(offset)
		if i < 0 || e.rows[i].Bottom() > half {
			break
		}
		if !e.ScrollDown() {
			break
		}
		if !e.IsPositionFullyVisible(offset) {
			e.ScrollUp()
			break
		}
	}
	for {
		i := e.findRow(offset)
		if i <= 0 || e.rows[i].Top() <= half {
			break
		}
		if !e.ScrollUp() {
			break
		}
	}
}
