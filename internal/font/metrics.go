// Package font provides text measurement for the layout engine.
//
// Metrics are a pure function of (style, rune): the layout engine calls
// them while formatting and never caches the result itself.
package font

import (
	"unicode"
	"unicode/utf8"

	"github.com/dshills/lineflow/internal/style"
)

// Extents are the vertical metrics of a font at a given size.
// Height includes the descent; ascent is Height - Descent.
type Extents struct {
	Height  float32
	Descent float32
}

// Ascent returns the distance from the top of the line box to the baseline.
func (e Extents) Ascent() float32 { return e.Height - e.Descent }

// Metrics measures characters for a style.
type Metrics interface {
	// Extents returns the vertical metrics for s.
	Extents(s style.Style) Extents

	// Advance returns the horizontal advance of r in s. ok is false when
	// the font has no glyph for r; the caller then renders a fallback.
	Advance(s style.Style, r rune) (width float32, ok bool)
}

// TextWidth sums the advances of runes in s. Runes without a glyph count
// as zero width.
func TextWidth(m Metrics, s style.Style, runes []rune) float32 {
	var w float32
	for _, r := range runes {
		if a, ok := m.Advance(s, r); ok {
			w += a
		}
	}
	return w
}

// StringWidth is TextWidth for a string.
func StringWidth(m Metrics, s style.Style, str string) float32 {
	var w float32
	for _, r := range str {
		if a, ok := m.Advance(s, r); ok {
			w += a
		}
	}
	return w
}

// IsRenderable reports whether r is something a font could draw.
// Controls, the byte order mark and invalid code points are not.
func IsRenderable(r rune) bool {
	switch {
	case r == utf8.RuneError:
		return false
	case r == 0xFEFF:
		return false
	case r < 0x20, r == 0x7F:
		return false
	case unicode.Is(unicode.Cs, r):
		return false
	}
	return utf8.ValidRune(r)
}
