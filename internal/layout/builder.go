package layout

import (
	"github.com/dshills/lineflow/internal/debug"
	"github.com/dshills/lineflow/internal/font"
	"github.com/dshills/lineflow/internal/style"
	"github.com/dshills/lineflow/internal/text"
)

// LineBuilder greedily packs styled characters into boxes that fit a
// line width. It always keeps room for one terminal marker.
type LineBuilder struct {
	metrics      font.Metrics
	defaultStyle style.Style
	start        text.Offset
	lineWidth    float32
	markerWidth  float32

	boxes    []InlineBox
	currentX float32

	// pending run of same-style characters
	runStyle    style.Style
	runStart    text.Offset
	runRunes    []rune
	runAdvances []float32
	runWidth    float32
}

// NewLineBuilder creates a builder for a line starting at start.
func NewLineBuilder(m font.Metrics, defaultStyle style.Style, start text.Offset, lineWidth, markerWidth float32) *LineBuilder {
	return &LineBuilder{
		metrics:      m,
		defaultStyle: defaultStyle,
		start:        start,
		lineWidth:    lineWidth,
		markerWidth:  markerWidth,
	}
}

// Start returns the offset of the line being built.
func (b *LineBuilder) Start() text.Offset { return b.start }

// CurrentX returns the x position after all committed boxes and the
// pending run.
func (b *LineBuilder) CurrentX() float32 { return b.currentX + b.runWidth }

// Boxes returns the boxes committed so far.
func (b *LineBuilder) Boxes() []InlineBox { return b.boxes }

func (b *LineBuilder) hasContent() bool {
	for _, box := range b.boxes {
		if box.Kind() != KindFiller {
			return true
		}
	}
	return false
}

// HasRoomFor reports whether a box of width still fits before the
// reserved marker. The first box of a line always fits so that
// formatting makes progress.
func (b *LineBuilder) HasRoomFor(width float32) bool {
	if len(b.runRunes) == 0 && !b.hasContent() {
		return true
	}
	return b.currentX+b.runWidth+width+b.markerWidth < b.lineWidth
}

// TryAddChar appends r to the pending run. It reports false, without
// changing anything, when r does not fit; the caller must then end the
// line. A style change flushes the pending run first.
func (b *LineBuilder) TryAddChar(s style.Style, offset text.Offset, r rune) bool {
	if len(b.runRunes) > 0 && s != b.runStyle {
		b.Flush()
	}
	width, _ := b.metrics.Advance(s, r)
	if !b.HasRoomFor(width) {
		return false
	}
	if len(b.runRunes) == 0 {
		b.runStyle = s
		b.runStart = offset
	}
	debug.Assert(offset == b.runStart+text.Offset(len(b.runRunes)),
		"non-contiguous char at %d in run starting %d", offset, b.runStart)
	b.runRunes = append(b.runRunes, r)
	b.runAdvances = append(b.runAdvances, width)
	b.runWidth += width
	return true
}

// Flush turns the pending run into a text box, merging it into the
// previous box when that box is a compatible adjacent run.
func (b *LineBuilder) Flush() {
	if len(b.runRunes) == 0 {
		return
	}
	ext := b.metrics.Extents(b.runStyle)
	if n := len(b.boxes); n > 0 {
		if prev, ok := b.boxes[n-1].(*TextBox); ok &&
			prev.End() == b.runStart && prev.MergeCompatible(b.runStyle, b.runWidth) {
			b.boxes[n-1] = prev.merged(b.runRunes, b.runAdvances)
			b.currentX += b.runWidth
			b.resetRun()
			return
		}
	}
	b.boxes = append(b.boxes, NewTextBox(b.runStyle, b.currentX, ext.Height, ext.Descent,
		b.runStart, b.runRunes, b.runAdvances))
	b.currentX += b.runWidth
	b.resetRun()
}

func (b *LineBuilder) resetRun() {
	b.runRunes = b.runRunes[:0]
	b.runAdvances = b.runAdvances[:0]
	b.runWidth = 0
}

// AddFillerBox appends leading indent of the given width.
func (b *LineBuilder) AddFillerBox(width float32) {
	b.Flush()
	b.boxes = append(b.boxes, NewFillerBox(b.defaultStyle, b.currentX, width, 1, b.start))
	b.currentX += width
}

// AddMarkerBox appends a marker for kind at offset in style s.
func (b *LineBuilder) AddMarkerBox(s style.Style, offset text.Offset, kind MarkerKind) {
	b.Flush()
	ext := b.metrics.Extents(s)
	b.addBox(NewMarkerBox(s, b.currentX, b.markerWidth, ext.Height, ext.Descent, offset, kind))
}

// AddTabBox appends a tab marker of the given width.
func (b *LineBuilder) AddTabBox(s style.Style, offset text.Offset, width float32) {
	b.Flush()
	ext := b.metrics.Extents(s)
	b.addBox(NewMarkerBox(s, b.currentX, width, ext.Height, ext.Descent, offset, Tab))
}

// AddCodeUnitBox appends a fallback box showing r as an escape. The box
// is 4px wider and taller than its text.
func (b *LineBuilder) AddCodeUnitBox(s style.Style, offset text.Offset, r rune) {
	b.Flush()
	display := FallbackText(r)
	width := font.StringWidth(b.metrics, s, display) + 4
	ext := b.metrics.Extents(s)
	b.addBox(NewUnicodeBox(s, b.currentX, width, ext.Height+4, ext.Descent, offset, display))
}

// CodeUnitWidth returns the width AddCodeUnitBox would use for r.
func (b *LineBuilder) CodeUnitWidth(s style.Style, r rune) float32 {
	return font.StringWidth(b.metrics, s, FallbackText(r)) + 4
}

func (b *LineBuilder) addBox(box InlineBox) {
	b.boxes = append(b.boxes, box)
	b.currentX += box.Width()
}

// Build returns the finished line. The last box must be a marker;
// building anything else is a programming error.
func (b *LineBuilder) Build() *Line {
	b.Flush()
	if len(b.boxes) == 0 {
		panic("layout: building a line without boxes")
	}
	last, ok := b.boxes[len(b.boxes)-1].(*MarkerBox)
	if !ok || last.Marker() == Tab {
		panic("layout: line does not end with a terminal marker")
	}
	line := newLine(b.boxes, b.start, last.End())
	b.boxes = nil
	b.currentX = 0
	return line
}
