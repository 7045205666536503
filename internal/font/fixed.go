package font

import "github.com/dshills/lineflow/internal/style"

// Fixed is a monospace metrics model. Every renderable character has the
// same advance. All values scale linearly with the style's font size
// relative to BaseSize.
type Fixed struct {
	Width    float32
	Height   float32
	Descent  float32
	BaseSize float32
}

// NewFixed creates fixed metrics with a base size of 10.
func NewFixed(width, height, descent float32) Fixed {
	return Fixed{Width: width, Height: height, Descent: descent, BaseSize: 10}
}

func (f Fixed) scale(s style.Style) float32 {
	if f.BaseSize <= 0 || s.Font.Size <= 0 {
		return 1
	}
	return s.Font.Size / f.BaseSize
}

// Extents implements Metrics.
func (f Fixed) Extents(s style.Style) Extents {
	k := f.scale(s)
	return Extents{Height: f.Height * k, Descent: f.Descent * k}
}

// Advance implements Metrics.
func (f Fixed) Advance(s style.Style, r rune) (float32, bool) {
	if !IsRenderable(r) {
		return 0, false
	}
	return f.Width * f.scale(s), true
}
