package font

import (
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/dshills/lineflow/internal/style"
)

// FaceKey selects a face variant.
type FaceKey struct {
	Bold   bool
	Italic bool
}

// Face measures text with golang.org/x/image/font faces. Faces are
// registered per weight and slant; missing variants fall back to the
// regular face. Measurements scale linearly from NominalSize.
type Face struct {
	mu          sync.RWMutex
	faces       map[FaceKey]xfont.Face
	nominalSize float32
}

// NewFace creates Face metrics around a regular face of nominalSize points.
func NewFace(regular xfont.Face, nominalSize float32) *Face {
	if nominalSize <= 0 {
		nominalSize = 10
	}
	return &Face{
		faces:       map[FaceKey]xfont.Face{{}: regular},
		nominalSize: nominalSize,
	}
}

// SetVariant registers the face used for key.
func (f *Face) SetVariant(key FaceKey, face xfont.Face) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faces[key] = face
}

func (f *Face) lookup(s style.Style) xfont.Face {
	key := FaceKey{Bold: s.Font.Bold, Italic: s.Font.Italic}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if face, ok := f.faces[key]; ok {
		return face
	}
	return f.faces[FaceKey{}]
}

func (f *Face) scale(s style.Style) float32 {
	if s.Font.Size <= 0 {
		return 1
	}
	return s.Font.Size / f.nominalSize
}

// Extents implements Metrics.
func (f *Face) Extents(s style.Style) Extents {
	m := f.lookup(s).Metrics()
	k := f.scale(s)
	return Extents{
		Height:  toFloat(m.Ascent+m.Descent) * k,
		Descent: toFloat(m.Descent) * k,
	}
}

// Advance implements Metrics.
func (f *Face) Advance(s style.Style, r rune) (float32, bool) {
	if !IsRenderable(r) {
		return 0, false
	}
	adv, ok := f.lookup(s).GlyphAdvance(r)
	if !ok {
		return 0, false
	}
	return toFloat(adv) * f.scale(s), true
}

func toFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
