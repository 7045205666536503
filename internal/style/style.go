// Package style provides the text style value attached to buffer ranges
// and to inline boxes.
//
// Style is a comparable value type; two boxes are structurally equal only
// when their styles compare equal with ==.
package style

import (
	"fmt"
	"strconv"
	"strings"
)

// Decoration represents text decoration flags.
type Decoration uint8

// Decoration flags.
const (
	DecorNone      Decoration = 0
	DecorUnderline Decoration = 1 << iota
	DecorStrike
	DecorReverse
)

// Has returns true if d contains flag.
func (d Decoration) Has(flag Decoration) bool { return d&flag != 0 }

// With returns d with flag added.
func (d Decoration) With(flag Decoration) Decoration { return d | flag }

// Without returns d with flag removed.
func (d Decoration) Without(flag Decoration) Decoration { return d &^ flag }

// Color is a true color value. Default marks "use the surface default".
type Color struct {
	R, G, B uint8
	Default bool
}

// ColorDefault is the surface's default color.
var ColorDefault = Color{Default: true}

// Common colors.
var (
	ColorBlack = Color{}
	ColorWhite = Color{R: 255, G: 255, B: 255}
	ColorRed   = Color{R: 255}
	ColorGray  = Color{R: 128, G: 128, B: 128}
)

// RGB creates a true color.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b} }

// ColorFromHex parses "#rgb" or "#rrggbb".
func ColorFromHex(hex string) (Color, error) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid hex color length: %q", hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// IsDefault reports whether c is the default color.
func (c Color) IsDefault() bool { return c.Default }

// String returns "default" or "#RRGGBB".
func (c Color) String() string {
	if c.Default {
		return "default"
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// FontSpec describes the font a run of text is shaped with.
// Size is in points before zoom is applied.
type FontSpec struct {
	Family string
	Size   float32
	Bold   bool
	Italic bool
}

// Scaled returns f with its size multiplied by zoom.
func (f FontSpec) Scaled(zoom float32) FontSpec {
	f.Size *= zoom
	return f
}

// Style is the complete presentation of a run of characters.
type Style struct {
	Fg         Color
	Bg         Color
	Font       FontSpec
	Decoration Decoration
}

// Default returns the built-in default style.
func Default() Style {
	return Style{
		Fg:   ColorDefault,
		Bg:   ColorDefault,
		Font: FontSpec{Family: "monospace", Size: 10},
	}
}

// Merge overlays the non-default fields of over onto s.
// Default or zero colors and zero font fields in over keep the base
// value. Decorations are combined.
func (s Style) Merge(over Style) Style {
	if !over.Fg.Default && over.Fg != (Color{}) {
		s.Fg = over.Fg
	}
	if !over.Bg.Default && over.Bg != (Color{}) {
		s.Bg = over.Bg
	}
	if over.Font.Family != "" {
		s.Font.Family = over.Font.Family
	}
	if over.Font.Size > 0 {
		s.Font.Size = over.Font.Size
	}
	s.Font.Bold = s.Font.Bold || over.Font.Bold
	s.Font.Italic = s.Font.Italic || over.Font.Italic
	s.Decoration |= over.Decoration
	return s
}

// WithFg returns s with a new foreground.
func (s Style) WithFg(c Color) Style { s.Fg = c; return s }

// WithBg returns s with a new background.
func (s Style) WithBg(c Color) Style { s.Bg = c; return s }

// WithDecoration returns s with d added.
func (s Style) WithDecoration(d Decoration) Style { s.Decoration |= d; return s }

// Bold returns s in a bold face.
func (s Style) Bold() Style { s.Font.Bold = true; return s }

// Italic returns s in an italic face.
func (s Style) Italic() Style { s.Font.Italic = true; return s }

// WithFontSize returns s with its font size replaced.
func (s Style) WithFontSize(size float32) Style { s.Font.Size = size; return s }

// Equal reports whether s and other render identically.
func (s Style) Equal(other Style) bool { return s == other }
