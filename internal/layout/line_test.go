package layout

import (
	"testing"

	"github.com/dshills/lineflow/internal/geom"
	"github.com/dshills/lineflow/internal/style"
	"github.com/dshills/lineflow/internal/text"
)

// buildFooBarBaz builds "foobarbaz" at offset 100 behind a 10px filler,
// ended by a newline marker. The three flushed runs merge into one box.
func buildFooBarBaz(t *testing.T) *Line {
	t.Helper()
	s := style.Default()
	b := NewLineBuilder(testMetrics(), s, 100, 1000, 10)
	b.AddFillerBox(10)
	offset := text.Offset(100)
	for _, word := range []string{"foo", "bar", "baz"} {
		for _, r := range word {
			b.TryAddChar(s, offset, r)
			offset++
		}
		b.Flush()
	}
	b.AddMarkerBox(s, offset, EndOfLine)
	return b.Build()
}

func TestLineGeometry(t *testing.T) {
	line := buildFooBarBaz(t)
	if line.Start() != 100 || line.End() != 110 {
		t.Errorf("range = [%d, %d), want [100, 110)", line.Start(), line.End())
	}
	if line.Height() != 15 || line.Ascent() != 12 || line.Descent() != 3 {
		t.Errorf("height/ascent/descent = %v/%v/%v", line.Height(), line.Ascent(), line.Descent())
	}
	// filler + 9 chars + marker
	if line.Width() != 110 {
		t.Errorf("width = %v, want 110", line.Width())
	}
	if !line.Contains(109) || line.Contains(110) {
		t.Error("Contains should be half-open")
	}
	if line.Text() != "foobarbaz¶" {
		t.Errorf("text = %q", line.Text())
	}
}

func TestLineMapXToOffset(t *testing.T) {
	line := buildFooBarBaz(t)
	tests := []struct {
		x    float32
		want text.Offset
	}{
		{-1, 100},
		{0, 100},
		{10, 100},
		{15, 100},
		{29, 101},
		{30, 102},
		{40, 103},
		{41, 103},
		{61, 105},
		{99, 108},
		{110, 109},
		{99999, 109},
	}
	for _, tt := range tests {
		if got := line.MapXToOffset(tt.x); got != tt.want {
			t.Errorf("MapXToOffset(%v) = %d, want %d", tt.x, got, tt.want)
		}
	}
}

func TestLineHitTestTextPosition(t *testing.T) {
	line := buildFooBarBaz(t)
	caret := func(x float32) geom.RectF { return geom.Rect(x, 0, x+1, 15) }

	tests := []struct {
		offset text.Offset
		want   geom.RectF
		ok     bool
	}{
		{90, geom.RectF{}, false},
		{100, caret(10), true},
		{101, caret(20), true},
		{103, caret(40), true},
		{107, caret(80), true},
		{109, caret(100), true},
		{110, geom.RectF{}, false},
	}
	for _, tt := range tests {
		got, ok := line.HitTestTextPosition(tt.offset)
		if ok != tt.ok || got != tt.want {
			t.Errorf("HitTestTextPosition(%d) = %v, %v; want %v, %v", tt.offset, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLineRoundTrip(t *testing.T) {
	line := buildFooBarBaz(t)
	for o := line.Start(); o < line.End(); o++ {
		r, ok := line.HitTestTextPosition(o)
		if !ok {
			t.Fatalf("no caret for %d", o)
		}
		if got := line.MapXToOffset(r.Left); got != o {
			t.Errorf("MapXToOffset(caret(%d).Left=%v) = %d", o, r.Left, got)
		}
	}
}

func TestLineBaselineAlignment(t *testing.T) {
	s := style.Default()
	b := NewLineBuilder(testMetrics(), s, 0, 1000, 10)
	b.TryAddChar(s, 0, 'a')
	b.AddCodeUnitBox(s, 1, 0x01)
	b.AddMarkerBox(s, 2, EndOfDocument)
	line := b.Build()

	// The fallback box is 4px taller, all of it above the baseline.
	if line.Height() != 19 {
		t.Errorf("height = %v, want 19", line.Height())
	}
	tb := line.Boxes()[0]
	if top := line.BoxTop(tb); top != 4 {
		t.Errorf("text box top = %v, want 4", top)
	}
	if top := line.BoxTop(line.Boxes()[1]); top != 0 {
		t.Errorf("fallback box top = %v, want 0", top)
	}
}

func TestLineEqualAndClone(t *testing.T) {
	a := buildFooBarBaz(t)
	b := buildFooBarBaz(t)
	if a == b {
		t.Fatal("expected distinct instances")
	}
	if !a.Equal(b) || a.Hash() != b.Hash() {
		t.Error("identically built lines should be equal")
	}

	c := a.Clone()
	if !c.Equal(a) {
		t.Error("clone should equal original")
	}
	if got := a.Boxes()[1].(*TextBox).Text(); got != "foobarbaz" {
		t.Fatalf("text box = %q, want the merged run %q", got, "foobarbaz")
	}
	c.Boxes()[1].(*TextBox).runes[0] = 'X'
	if got := c.Boxes()[1].(*TextBox).Text(); got != "Xoobarbaz" {
		t.Errorf("clone text = %q, want %q", got, "Xoobarbaz")
	}
	if got := a.Boxes()[1].(*TextBox).Text(); got != "foobarbaz" {
		t.Errorf("original text = %q after editing the clone", got)
	}
	if (*Line)(nil).Equal(a) {
		t.Error("nil line should not equal a line")
	}
}
