package geom

import "testing"

func TestRectBasics(t *testing.T) {
	r := Rect(10, 20, 110, 170)
	if r.Width() != 100 || r.Height() != 150 {
		t.Errorf("size = %v, want 100x150", r.Size())
	}
	if !r.Contains(Pt(10, 20)) {
		t.Error("top-left corner should be inside")
	}
	if r.Contains(Pt(110, 20)) {
		t.Error("right edge is exclusive")
	}
	if got := r.Offset(-10, -20); got != Rect(0, 0, 100, 150) {
		t.Errorf("Offset = %v", got)
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect(0, 0, 10, 10)
	b := Rect(5, 5, 20, 12)
	if got, want := a.Union(b), Rect(0, 0, 20, 12); got != want {
		t.Errorf("Union = %v, want %v", got, want)
	}
	if got := (RectF{}).Union(b); got != b {
		t.Errorf("empty Union = %v, want %v", got, b)
	}
}
