package layout

import (
	"math"

	"github.com/dshills/lineflow/internal/debug"
	"github.com/dshills/lineflow/internal/font"
	"github.com/dshills/lineflow/internal/geom"
	"github.com/dshills/lineflow/internal/style"
	"github.com/dshills/lineflow/internal/text"
)

// Options control how characters become boxes.
type Options struct {
	// TabWidth is the tab stop interval in spaces.
	TabWidth int
	// LeftMargin is the width of the filler box starting every line.
	// Tab stops are measured from it.
	LeftMargin float32
	// Metrics measures characters.
	Metrics font.Metrics
	// MarkerColor is the foreground of markers and fallback escapes.
	MarkerColor style.Color
}

// DefaultOptions returns options with 4-space tabs, no margin and
// 10x15 fixed metrics.
func DefaultOptions() Options {
	return Options{
		TabWidth:    4,
		Metrics:     font.NewFixed(10, 15, 3),
		MarkerColor: style.RGB(0, 102, 204),
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.TabWidth <= 0 {
		o.TabWidth = d.TabWidth
	}
	if o.LeftMargin < 0 {
		o.LeftMargin = 0
	}
	if o.Metrics == nil {
		o.Metrics = d.Metrics
	}
	return o
}

// Formatter produces consecutive lines from a buffer offset. Lines
// already in the cache are returned without reading the buffer.
type Formatter struct {
	buffer Buffer
	cache  *Cache
	offset text.Offset
	bounds geom.RectF
	zoom   float32
	opts   Options

	// resolved lazily on the first cache miss
	defaultReady bool
	defaultStyle style.Style
	markerWidth  float32
}

// NewFormatter creates a formatter positioned at offset. cache may be nil.
func NewFormatter(buffer Buffer, cache *Cache, offset text.Offset, bounds geom.RectF, zoom float32, opts Options) *Formatter {
	debug.Assert(!bounds.Empty(), "formatting into empty bounds %v", bounds)
	debug.Assert(zoom > 0, "zoom %v must be positive", zoom)
	return &Formatter{
		buffer: buffer,
		cache:  cache,
		offset: offset,
		bounds: bounds,
		zoom:   zoom,
		opts:   opts.normalized(),
	}
}

// Offset returns where the next line starts.
func (f *Formatter) Offset() text.Offset { return f.offset }

// SetOffset moves the formatter.
func (f *Formatter) SetOffset(offset text.Offset) { f.offset = offset }

func (f *Formatter) zoomed(s style.Style) style.Style {
	s.Font = s.Font.Scaled(f.zoom)
	return s
}

func (f *Formatter) prepare() {
	if f.defaultReady {
		return
	}
	f.defaultStyle = f.zoomed(f.buffer.DefaultStyle())
	f.markerWidth, _ = f.opts.Metrics.Advance(f.defaultStyle, 'x')
	f.defaultReady = true
}

func (f *Formatter) markerStyle(s style.Style) style.Style {
	s.Fg = f.opts.MarkerColor
	return s
}

// FormatLine returns the line starting at Offset and advances past it.
func (f *Formatter) FormatLine() *Line {
	if f.cache != nil {
		if line := f.cache.LineAt(f.offset); line != nil {
			f.offset = line.End()
			return line
		}
	}
	line := f.formatLine()
	if f.cache != nil {
		line = f.cache.Register(line)
	}
	f.offset = line.End()
	return line
}

func (f *Formatter) formatLine() *Line {
	f.prepare()
	end := f.buffer.End()
	b := NewLineBuilder(f.opts.Metrics, f.defaultStyle, f.offset, f.bounds.Width(), f.markerWidth)
	if f.opts.LeftMargin > 0 {
		b.AddFillerBox(f.opts.LeftMargin)
	}
	offset := f.offset
	for {
		if offset >= end {
			b.AddMarkerBox(f.markerStyle(f.defaultStyle), end, EndOfDocument)
			break
		}
		r := f.buffer.CharAt(offset)
		s := f.zoomed(f.buffer.StyleAt(offset))
		if r == '\n' {
			b.AddMarkerBox(f.markerStyle(s), offset, EndOfLine)
			break
		}
		if !f.formatChar(b, s, offset, r) {
			b.AddMarkerBox(f.markerStyle(s), offset, LineWrap)
			break
		}
		offset++
	}
	return b.Build()
}

func (f *Formatter) formatChar(b *LineBuilder, s style.Style, offset text.Offset, r rune) bool {
	if r == '\t' {
		space, _ := f.opts.Metrics.Advance(s, ' ')
		tabWidth := space * float32(f.opts.TabWidth)
		if tabWidth <= 0 {
			tabWidth = f.markerWidth
		}
		x := b.CurrentX()
		margin := f.opts.LeftMargin
		x2 := float32(math.Floor(float64((x+tabWidth-margin)/tabWidth))) * tabWidth
		width := x2 + margin - x
		if !b.HasRoomFor(width) {
			return false
		}
		b.AddTabBox(f.markerStyle(s), offset, width)
		return true
	}

	if _, ok := f.opts.Metrics.Advance(s, r); !ok {
		ms := f.markerStyle(s)
		if !b.HasRoomFor(b.CodeUnitWidth(ms, r)) {
			return false
		}
		b.AddCodeUnitBox(ms, offset, r)
		return true
	}

	return b.TryAddChar(s, offset, r)
}
