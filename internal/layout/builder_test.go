package layout

import (
	"testing"

	"github.com/dshills/lineflow/internal/style"
	"github.com/dshills/lineflow/internal/text"
)

func TestLineBuilderFirstBoxAlwaysFits(t *testing.T) {
	s := style.Default()
	// A line narrower than one character still takes it.
	b := NewLineBuilder(testMetrics(), s, 0, 5, 10)
	if !b.TryAddChar(s, 0, 'a') {
		t.Fatal("first character must always fit")
	}
	if b.TryAddChar(s, 1, 'b') {
		t.Error("second character should not fit in a 5px line")
	}
	b.AddMarkerBox(s, 1, LineWrap)
	line := b.Build()
	if line.Start() != 0 || line.End() != 1 {
		t.Errorf("line covers [%d, %d), want [0, 1)", line.Start(), line.End())
	}
}

func TestLineBuilderReservesMarker(t *testing.T) {
	s := style.Default()
	b := NewLineBuilder(testMetrics(), s, 0, 50, 10)
	var n int
	for i, r := range "123456" {
		if !b.TryAddChar(s, text.Offset(i), r) {
			break
		}
		n++
	}
	// 3 chars + marker = 40 < 50; a fourth would make 50.
	if n != 3 {
		t.Errorf("expected 3 characters to fit, got %d", n)
	}
	if got := b.CurrentX(); got != 30 {
		t.Errorf("CurrentX = %v, want 30", got)
	}
	if b.HasRoomFor(10) {
		t.Error("HasRoomFor(10) should be false once the marker reserve is reached")
	}
}

func TestLineBuilderStyleChangeFlushes(t *testing.T) {
	plain := style.Default()
	bold := plain.Bold()
	b := NewLineBuilder(testMetrics(), plain, 0, 1000, 10)
	b.TryAddChar(plain, 0, 'a')
	b.TryAddChar(plain, 1, 'b')
	b.TryAddChar(bold, 2, 'c')
	b.AddMarkerBox(plain, 3, EndOfLine)
	line := b.Build()

	boxes := line.Boxes()
	if len(boxes) != 3 {
		t.Fatalf("expected 3 boxes, got %d", len(boxes))
	}
	if got := boxes[0].(*TextBox).Text(); got != "ab" {
		t.Errorf("first run = %q, want ab", got)
	}
	if got := boxes[1].(*TextBox).Text(); got != "c" {
		t.Errorf("second run = %q, want c", got)
	}
	if boxes[1].Left() != 20 || boxes[2].Left() != 30 {
		t.Errorf("lefts = %v, %v; want 20, 30", boxes[1].Left(), boxes[2].Left())
	}
}

func TestLineBuilderMergesAdjacentRuns(t *testing.T) {
	s := style.Default()
	b := NewLineBuilder(testMetrics(), s, 0, 1000, 10)
	b.TryAddChar(s, 0, 'a')
	b.Flush()
	b.TryAddChar(s, 1, 'b')
	b.Flush()
	if n := len(b.Boxes()); n != 1 {
		t.Fatalf("expected runs to merge into 1 box, got %d", n)
	}
	if got := b.Boxes()[0].(*TextBox).Text(); got != "ab" {
		t.Errorf("merged text = %q, want ab", got)
	}
}

func TestLineBuilderFillerDoesNotCountAsContent(t *testing.T) {
	s := style.Default()
	b := NewLineBuilder(testMetrics(), s, 0, 15, 10)
	b.AddFillerBox(10)
	if !b.HasRoomFor(100) {
		t.Error("first box after a filler must still fit")
	}
}

func TestLineBuilderBuildPanics(t *testing.T) {
	s := style.Default()
	tests := []struct {
		name  string
		setup func(b *LineBuilder)
	}{
		{"no boxes", func(*LineBuilder) {}},
		{"no marker", func(b *LineBuilder) { b.TryAddChar(s, 0, 'a') }},
		{"tab last", func(b *LineBuilder) { b.AddTabBox(s, 0, 40) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Build should panic")
				}
			}()
			b := NewLineBuilder(testMetrics(), s, 0, 100, 10)
			tt.setup(b)
			b.Build()
		})
	}
}
