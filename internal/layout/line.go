package layout

import (
	"fmt"
	"strings"

	"github.com/dshills/lineflow/internal/debug"
	"github.com/dshills/lineflow/internal/geom"
	"github.com/dshills/lineflow/internal/text"
)

// Line is one visual row of text covering [Start, End). It is immutable
// once built and may be shared between the cache and the viewport.
type Line struct {
	boxes   []InlineBox
	start   text.Offset
	end     text.Offset
	width   float32
	ascent  float32
	descent float32
	hash    uint64
}

func newLine(boxes []InlineBox, start, end text.Offset) *Line {
	debug.Assert(end >= start, "line end %d before start %d", end, start)
	l := &Line{boxes: boxes, start: start, end: end}
	h := newHasher()
	h.int(int(start))
	h.int(int(end))
	for _, box := range boxes {
		l.ascent = max(l.ascent, box.Ascent())
		l.descent = max(l.descent, box.Descent())
		l.width = max(l.width, box.Left()+box.Width())
		box.writeHash(h)
	}
	l.hash = h.sum()
	return l
}

// Start returns the first offset covered by the line.
func (l *Line) Start() text.Offset { return l.start }

// End returns the offset after the line, including its marker.
func (l *Line) End() text.Offset { return l.end }

// Range returns [Start, End).
func (l *Line) Range() text.Range { return text.Range{Start: l.start, End: l.end} }

// Boxes returns the line's boxes in visual order. The slice must not be
// modified.
func (l *Line) Boxes() []InlineBox { return l.boxes }

// Width returns the x extent of the last box.
func (l *Line) Width() float32 { return l.width }

// Height returns ascent + descent.
func (l *Line) Height() float32 { return l.ascent + l.descent }

// Ascent returns the largest box ascent.
func (l *Line) Ascent() float32 { return l.ascent }

// Descent returns the largest box descent.
func (l *Line) Descent() float32 { return l.descent }

// BoxTop returns the y position of box within the line so that all boxes
// share a baseline.
func (l *Line) BoxTop(box InlineBox) float32 { return l.ascent - box.Ascent() }

// Contains reports whether offset lies in [Start, End).
func (l *Line) Contains(offset text.Offset) bool {
	return offset >= l.start && offset < l.end
}

// LastMarker returns the terminal marker.
func (l *Line) LastMarker() *MarkerBox {
	return l.boxes[len(l.boxes)-1].(*MarkerBox)
}

// IsEndOfDocument reports whether the line ends the buffer.
func (l *Line) IsEndOfDocument() bool { return l.LastMarker().Marker() == EndOfDocument }

// IsContinued reports whether the line was soft-wrapped.
func (l *Line) IsContinued() bool { return l.LastMarker().Marker() == LineWrap }

// EndsWithNewline reports whether the line ends at a hard break.
func (l *Line) EndsWithNewline() bool {
	m := l.LastMarker().Marker()
	return m == EndOfLine || m == EndOfDocument
}

// HitTestTextPosition returns the caret rectangle for offset in
// line-local coordinates.
func (l *Line) HitTestTextPosition(offset text.Offset) (geom.RectF, bool) {
	if !l.Contains(offset) {
		return geom.RectF{}, false
	}
	for _, box := range l.boxes {
		if r, ok := box.HitTestTextPosition(offset, l.BoxTop(box)); ok {
			return r.Offset(box.Left(), 0), true
		}
	}
	return geom.RectF{}, false
}

// MapXToOffset returns the offset under line-local x. Points left of the
// line map to Start; points past the last box map to the marker.
func (l *Line) MapXToOffset(x float32) text.Offset {
	if x < 0 {
		return l.start
	}
	result := max(l.end-1, l.start)
	for _, box := range l.boxes {
		bx := x - box.Left()
		if offset := box.MapXToOffset(bx); offset >= 0 {
			result = offset
		}
		if bx >= 0 && bx < box.Width() {
			break
		}
	}
	return result
}

// Equal reports structural equality.
func (l *Line) Equal(other *Line) bool {
	if l == other {
		return true
	}
	if l == nil || other == nil {
		return false
	}
	if l.hash != other.hash || l.start != other.start || l.end != other.end ||
		len(l.boxes) != len(other.boxes) {
		return false
	}
	for i, box := range l.boxes {
		if !box.Equal(other.boxes[i]) {
			return false
		}
	}
	return true
}

// Hash returns the structural hash computed when the line was built.
func (l *Line) Hash() uint64 { return l.hash }

// Clone returns an independent deep copy.
func (l *Line) Clone() *Line {
	c := *l
	c.boxes = make([]InlineBox, len(l.boxes))
	for i, box := range l.boxes {
		c.boxes[i] = box.clone()
	}
	return &c
}

// Text returns the characters the line displays, with markers and
// fallback escapes shown symbolically. Used in logs and tests.
func (l *Line) Text() string {
	var sb strings.Builder
	for _, box := range l.boxes {
		switch b := box.(type) {
		case *TextBox:
			sb.WriteString(b.Text())
		case *UnicodeBox:
			sb.WriteString(b.Display())
		case *MarkerBox:
			switch b.Marker() {
			case Tab:
				sb.WriteString("→")
			case EndOfLine:
				sb.WriteString("¶")
			case LineWrap:
				sb.WriteString("↩")
			}
		}
	}
	return sb.String()
}

// String implements fmt.Stringer.
func (l *Line) String() string {
	return fmt.Sprintf("Line[%d, %d) %q", int(l.start), int(l.end), l.Text())
}
