// Package layout turns styled buffer text into immutable display lines.
//
// A Line is an ordered run of InlineBoxes terminated by exactly one
// MarkerBox. Lines are produced by a Formatter, which consults a Cache
// before touching the buffer, and are never modified once built.
// Positioning a line on screen is the viewport's job.
package layout

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"math"

	"github.com/dshills/lineflow/internal/geom"
	"github.com/dshills/lineflow/internal/style"
	"github.com/dshills/lineflow/internal/text"
)

// BoxKind identifies an InlineBox variant.
type BoxKind uint8

// Box kinds.
const (
	KindFiller BoxKind = iota
	KindMarker
	KindText
	KindUnicode
)

// String returns a human-readable kind name.
func (k BoxKind) String() string {
	switch k {
	case KindFiller:
		return "filler"
	case KindMarker:
		return "marker"
	case KindText:
		return "text"
	case KindUnicode:
		return "unicode"
	default:
		return "unknown"
	}
}

// MarkerKind tags why a MarkerBox was emitted.
type MarkerKind uint8

// Marker kinds.
const (
	EndOfDocument MarkerKind = iota
	EndOfLine
	LineWrap
	Tab
)

// String returns a human-readable marker name.
func (m MarkerKind) String() string {
	switch m {
	case EndOfDocument:
		return "eod"
	case EndOfLine:
		return "eol"
	case LineWrap:
		return "wrap"
	case Tab:
		return "tab"
	default:
		return "unknown"
	}
}

// InlineBox is an immutable, fixed-geometry run within a line.
//
// Offsets are absolute buffer offsets. Left is the box's x position
// within its line. x arguments to MapXToOffset are relative to the box's
// left edge; rectangles from HitTestTextPosition are relative to it too,
// with top supplied by the caller.
type InlineBox interface {
	Kind() BoxKind
	Style() style.Style
	Left() float32
	Width() float32
	Height() float32
	Descent() float32
	Ascent() float32
	Start() text.Offset
	End() text.Offset

	// MapXToOffset returns the buffer offset at x, clamped to the box's
	// span.
	MapXToOffset(x float32) text.Offset

	// HitTestTextPosition returns a 1px caret rectangle for offset.
	HitTestTextPosition(offset text.Offset, top float32) (geom.RectF, bool)

	Equal(other InlineBox) bool
	Hash() uint64

	writeHash(h *hasher)
	clone() InlineBox
}

type boxBase struct {
	style   style.Style
	left    float32
	width   float32
	height  float32
	descent float32
	start   text.Offset
	end     text.Offset
}

func (b *boxBase) Style() style.Style        { return b.style }
func (b *boxBase) Left() float32             { return b.left }
func (b *boxBase) Width() float32            { return b.width }
func (b *boxBase) Height() float32           { return b.height }
func (b *boxBase) Descent() float32          { return b.descent }
func (b *boxBase) Ascent() float32           { return b.height - b.descent }
func (b *boxBase) Start() text.Offset        { return b.start }
func (b *boxBase) End() text.Offset          { return b.end }
func (b *boxBase) equalBase(o *boxBase) bool { return *b == *o }

func (b *boxBase) caret(x, top float32) geom.RectF {
	return geom.Rect(x, top, x+1, top+b.height)
}

func (b *boxBase) writeBase(h *hasher) {
	h.style(b.style)
	h.float(b.left)
	h.float(b.width)
	h.float(b.height)
	h.float(b.descent)
	h.int(int(b.start))
	h.int(int(b.end))
}

// FillerBox is leading indent. It covers no text.
type FillerBox struct {
	boxBase
}

// NewFillerBox creates a filler of the given width at offset start.
func NewFillerBox(s style.Style, left, width, height float32, start text.Offset) *FillerBox {
	return &FillerBox{boxBase{style: s, left: left, width: width, height: height, start: start, end: start}}
}

// Kind implements InlineBox.
func (b *FillerBox) Kind() BoxKind { return KindFiller }

// MapXToOffset implements InlineBox.
func (b *FillerBox) MapXToOffset(float32) text.Offset { return b.start }

// HitTestTextPosition implements InlineBox. A filler never holds the caret.
func (b *FillerBox) HitTestTextPosition(text.Offset, float32) (geom.RectF, bool) {
	return geom.RectF{}, false
}

// Equal implements InlineBox.
func (b *FillerBox) Equal(other InlineBox) bool {
	o, ok := other.(*FillerBox)
	return ok && b.equalBase(&o.boxBase)
}

// Hash implements InlineBox.
func (b *FillerBox) Hash() uint64 { return hashBox(b) }

func (b *FillerBox) writeHash(h *hasher) {
	h.int(int(KindFiller))
	b.writeBase(h)
}

func (b *FillerBox) clone() InlineBox {
	c := *b
	return &c
}

// MarkerBox terminates a line or stands in for a tab.
type MarkerBox struct {
	boxBase
	marker MarkerKind
}

// NewMarkerBox creates a marker at offset start. A LineWrap marker covers
// no text; every other kind covers one code unit.
func NewMarkerBox(s style.Style, left, width, height, descent float32, start text.Offset, kind MarkerKind) *MarkerBox {
	end := start + 1
	if kind == LineWrap {
		end = start
	}
	return &MarkerBox{
		boxBase: boxBase{style: s, left: left, width: width, height: height, descent: descent, start: start, end: end},
		marker:  kind,
	}
}

// Kind implements InlineBox.
func (b *MarkerBox) Kind() BoxKind { return KindMarker }

// Marker returns why the marker was emitted.
func (b *MarkerBox) Marker() MarkerKind { return b.marker }

// MapXToOffset implements InlineBox. Clicking the right half of a tab
// stop places the caret after it.
func (b *MarkerBox) MapXToOffset(x float32) text.Offset {
	if b.marker == Tab && x >= b.width {
		return b.end
	}
	return b.start
}

// HitTestTextPosition implements InlineBox.
func (b *MarkerBox) HitTestTextPosition(offset text.Offset, top float32) (geom.RectF, bool) {
	if offset < b.start || offset >= b.end {
		return geom.RectF{}, false
	}
	return b.caret(0, top), true
}

// Equal implements InlineBox.
func (b *MarkerBox) Equal(other InlineBox) bool {
	o, ok := other.(*MarkerBox)
	return ok && b.marker == o.marker && b.equalBase(&o.boxBase)
}

// Hash implements InlineBox.
func (b *MarkerBox) Hash() uint64 { return hashBox(b) }

func (b *MarkerBox) writeHash(h *hasher) {
	h.int(int(KindMarker))
	h.int(int(b.marker))
	b.writeBase(h)
}

func (b *MarkerBox) clone() InlineBox {
	c := *b
	return &c
}

// TextBox is a run of same-style characters.
type TextBox struct {
	boxBase
	runes []rune
	// advances[k] is the width of runes[:k+1].
	advances []float32
}

// NewTextBox creates a text run starting at offset start. advances holds
// the individual advance of each rune.
func NewTextBox(s style.Style, left, height, descent float32, start text.Offset, runes []rune, advances []float32) *TextBox {
	if len(runes) != len(advances) {
		panic(fmt.Sprintf("layout: %d runes with %d advances", len(runes), len(advances)))
	}
	cum := make([]float32, len(advances))
	var w float32
	for i, a := range advances {
		w += a
		cum[i] = w
	}
	return &TextBox{
		boxBase: boxBase{
			style: s, left: left, width: w, height: height, descent: descent,
			start: start, end: start + text.Offset(len(runes)),
		},
		runes:    append([]rune(nil), runes...),
		advances: cum,
	}
}

// Kind implements InlineBox.
func (b *TextBox) Kind() BoxKind { return KindText }

// Text returns the characters of the run.
func (b *TextBox) Text() string { return string(b.runes) }

// Runes returns the characters of the run. The slice must not be modified.
func (b *TextBox) Runes() []rune { return b.runes }

// prefixWidth returns the width of the first n runes.
func (b *TextBox) prefixWidth(n int) float32 {
	if n <= 0 {
		return 0
	}
	return b.advances[n-1]
}

// MapXToOffset implements InlineBox.
func (b *TextBox) MapXToOffset(x float32) text.Offset {
	if x >= b.width {
		return b.end
	}
	for k, cx := range b.advances {
		if x < cx {
			return b.start + text.Offset(k)
		}
	}
	return b.end
}

// HitTestTextPosition implements InlineBox. The position just after the
// last character is accepted.
func (b *TextBox) HitTestTextPosition(offset text.Offset, top float32) (geom.RectF, bool) {
	if offset < b.start || offset > b.end {
		return geom.RectF{}, false
	}
	x := float32(math.Ceil(float64(b.prefixWidth(int(offset - b.start)))))
	return b.caret(x, top), true
}

// MergeCompatible reports whether a run of width in style s may be
// appended to b to form a single box.
func (b *TextBox) MergeCompatible(s style.Style, width float32) bool {
	return b.style == s && width > 0
}

// merged returns a new box holding b's runes followed by runes.
func (b *TextBox) merged(runes []rune, advances []float32) *TextBox {
	all := append(append([]rune(nil), b.runes...), runes...)
	adv := make([]float32, 0, len(all))
	prev := float32(0)
	for _, cx := range b.advances {
		adv = append(adv, cx-prev)
		prev = cx
	}
	adv = append(adv, advances...)
	return NewTextBox(b.style, b.left, b.height, b.descent, b.start, all, adv)
}

// Equal implements InlineBox.
func (b *TextBox) Equal(other InlineBox) bool {
	o, ok := other.(*TextBox)
	if !ok || !b.equalBase(&o.boxBase) || len(b.runes) != len(o.runes) {
		return false
	}
	for i := range b.runes {
		if b.runes[i] != o.runes[i] {
			return false
		}
	}
	return true
}

// Hash implements InlineBox.
func (b *TextBox) Hash() uint64 { return hashBox(b) }

func (b *TextBox) writeHash(h *hasher) {
	h.int(int(KindText))
	b.writeBase(h)
	for _, r := range b.runes {
		h.int(int(r))
	}
}

func (b *TextBox) clone() InlineBox {
	c := *b
	c.runes = append([]rune(nil), b.runes...)
	c.advances = append([]float32(nil), b.advances...)
	return &c
}

// UnicodeBox renders one code unit the font cannot draw as a visible
// escape such as "^A" or "uFEFF".
type UnicodeBox struct {
	boxBase
	display string
}

// NewUnicodeBox creates a fallback box for the code unit at start.
func NewUnicodeBox(s style.Style, left, width, height, descent float32, start text.Offset, display string) *UnicodeBox {
	return &UnicodeBox{
		boxBase: boxBase{style: s, left: left, width: width, height: height, descent: descent, start: start, end: start + 1},
		display: display,
	}
}

// Kind implements InlineBox.
func (b *UnicodeBox) Kind() BoxKind { return KindUnicode }

// Display returns the escape text drawn in place of the code unit.
func (b *UnicodeBox) Display() string { return b.display }

// MapXToOffset implements InlineBox.
func (b *UnicodeBox) MapXToOffset(x float32) text.Offset {
	if x >= b.width {
		return b.end
	}
	return b.start
}

// HitTestTextPosition implements InlineBox.
func (b *UnicodeBox) HitTestTextPosition(offset text.Offset, top float32) (geom.RectF, bool) {
	if offset < b.start || offset >= b.end {
		return geom.RectF{}, false
	}
	return b.caret(0, top), true
}

// MergeCompatible always reports false; each fallback glyph is its own box.
func (b *UnicodeBox) MergeCompatible(style.Style, float32) bool { return false }

// Equal implements InlineBox.
func (b *UnicodeBox) Equal(other InlineBox) bool {
	o, ok := other.(*UnicodeBox)
	return ok && b.display == o.display && b.equalBase(&o.boxBase)
}

// Hash implements InlineBox.
func (b *UnicodeBox) Hash() uint64 { return hashBox(b) }

func (b *UnicodeBox) writeHash(h *hasher) {
	h.int(int(KindUnicode))
	b.writeBase(h)
	h.string(b.display)
}

func (b *UnicodeBox) clone() InlineBox {
	c := *b
	return &c
}

// FallbackText returns the escape shown for a code unit without a glyph.
func FallbackText(r rune) string {
	if r >= 0 && r < 0x20 {
		return "^" + string(r+0x40)
	}
	if r > 0xFFFF {
		return fmt.Sprintf("u%06X", r)
	}
	return fmt.Sprintf("u%04X", r)
}

type hasher struct {
	h   hash.Hash64
	buf [8]byte
}

func newHasher() *hasher { return &hasher{h: fnv.New64a()} }

func (h *hasher) int(v int) {
	binary.LittleEndian.PutUint64(h.buf[:], uint64(v))
	h.h.Write(h.buf[:])
}

func (h *hasher) float(v float32) {
	h.int(int(math.Float32bits(v)))
}

func (h *hasher) bool(v bool) {
	if v {
		h.int(1)
	} else {
		h.int(0)
	}
}

func (h *hasher) string(s string) {
	h.int(len(s))
	h.h.Write([]byte(s))
}

func (h *hasher) color(c style.Color) {
	h.int(int(c.R)<<16 | int(c.G)<<8 | int(c.B))
	h.bool(c.Default)
}

func (h *hasher) style(s style.Style) {
	h.color(s.Fg)
	h.color(s.Bg)
	h.string(s.Font.Family)
	h.float(s.Font.Size)
	h.bool(s.Font.Bold)
	h.bool(s.Font.Italic)
	h.int(int(s.Decoration))
}

func (h *hasher) sum() uint64 { return h.h.Sum64() }

func hashBox(b InlineBox) uint64 {
	h := newHasher()
	b.writeHash(h)
	return h.sum()
}
