package font

import (
	"testing"

	"golang.org/x/image/font/basicfont"

	"github.com/dshills/lineflow/internal/style"
)

func TestFixed(t *testing.T) {
	m := NewFixed(10, 15, 3)
	s := style.Default()

	if got, ok := m.Advance(s, 'a'); !ok || got != 10 {
		t.Errorf("Advance('a') = %v, %v; want 10, true", got, ok)
	}
	if _, ok := m.Advance(s, '\x01'); ok {
		t.Error("control character should have no glyph")
	}
	if _, ok := m.Advance(s, 0xFEFF); ok {
		t.Error("BOM should have no glyph")
	}

	e := m.Extents(s)
	if e.Height != 15 || e.Descent != 3 || e.Ascent() != 12 {
		t.Errorf("Extents = %+v", e)
	}

	zoomed := s.WithFontSize(20)
	if got, _ := m.Advance(zoomed, 'a'); got != 20 {
		t.Errorf("zoomed advance = %v, want 20", got)
	}
	if got := m.Extents(zoomed).Height; got != 30 {
		t.Errorf("zoomed height = %v, want 30", got)
	}
}

func TestCell(t *testing.T) {
	m := NewCell()
	s := style.Default()
	tests := []struct {
		r    rune
		want float32
		ok   bool
	}{
		{'a', 1, true},
		{'世', 2, true},
		{'\t', 0, false},
		{'́', 0, false},
	}
	for _, tt := range tests {
		got, ok := m.Advance(s, tt.r)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Advance(%q) = %v, %v; want %v, %v", tt.r, got, ok, tt.want, tt.ok)
		}
	}
	if h := m.Extents(s).Height; h != 1 {
		t.Errorf("Height = %v, want 1", h)
	}
}

func TestFace(t *testing.T) {
	m := NewFace(basicfont.Face7x13, 10)
	s := style.Default()

	if got, ok := m.Advance(s, 'x'); !ok || got != 7 {
		t.Errorf("Advance('x') = %v, %v; want 7, true", got, ok)
	}
	e := m.Extents(s)
	if e.Height != 13 {
		t.Errorf("Height = %v, want 13", e.Height)
	}
	if got, _ := m.Advance(s.Bold(), 'x'); got != 7 {
		t.Errorf("bold falls back to regular, got %v", got)
	}
	if got := StringWidth(m, s, "abc"); got != 21 {
		t.Errorf("StringWidth = %v, want 21", got)
	}
}
