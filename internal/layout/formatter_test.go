package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/lineflow/internal/style"
	"github.com/dshills/lineflow/internal/text"
)

func TestFormatterLines(t *testing.T) {
	buf := newTestBuffer("foo\nbar\nbazz\n")
	lines := formatAll(buf, nil, testBounds(100, 150))

	want := []span{{0, 4}, {4, 8}, {8, 13}, {13, 14}}
	if diff := cmp.Diff(want, spans(lines)); diff != "" {
		t.Errorf("line spans mismatch (-want +got):\n%s", diff)
	}
	for i, l := range lines {
		if l.Height() != 15 {
			t.Errorf("line %d height = %v, want 15", i, l.Height())
		}
	}
	if got := lines[1].Text(); got != "bar¶" {
		t.Errorf("line 1 text = %q", got)
	}
	if !lines[3].IsEndOfDocument() {
		t.Error("last line should end the document")
	}
}

func TestFormatterWrap(t *testing.T) {
	buf := newTestBuffer("123456\n")
	lines := formatAll(buf, nil, testBounds(50, 150))

	want := []span{{0, 3}, {3, 7}, {7, 8}}
	if diff := cmp.Diff(want, spans(lines)); diff != "" {
		t.Errorf("line spans mismatch (-want +got):\n%s", diff)
	}
	if !lines[0].IsContinued() {
		t.Error("first line should be soft-wrapped")
	}
	if lines[0].Width() != 40 {
		t.Errorf("wrapped line width = %v, want 40", lines[0].Width())
	}
}

func TestFormatterCacheHitReadsNothing(t *testing.T) {
	buf := newTestBuffer("foo\nbar\nbazz\n")
	cache := NewCache(buf)
	bounds := testBounds(100, 150)
	cache.Invalidate(bounds, 1)

	first := NewFormatter(buf, cache, 4, bounds, 1, testOptions()).FormatLine()
	reads := buf.reads

	f := NewFormatter(buf, cache, 4, bounds, 1, testOptions())
	second := f.FormatLine()
	if buf.reads != reads {
		t.Errorf("cache hit read the buffer %d times", buf.reads-reads)
	}
	if !second.Equal(first) {
		t.Error("cache hit returned a different line")
	}
	if f.Offset() != 8 {
		t.Errorf("formatter offset = %d, want 8", f.Offset())
	}
}

func TestFormatterTab(t *testing.T) {
	tests := []struct {
		name   string
		margin float32
		input  string
		width  float32 // width of the tab box
	}{
		{"at line start", 0, "\tx", 40},
		{"after one char", 0, "a\tx", 30},
		{"with margin", 10, "\tx", 40},
		{"with margin after one char", 10, "a\tx", 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			opts.LeftMargin = tt.margin
			buf := newTestBuffer(tt.input)
			line := NewFormatter(buf, nil, 0, testBounds(500, 100), 1, opts).FormatLine()

			var tab *MarkerBox
			for _, box := range line.Boxes() {
				if m, ok := box.(*MarkerBox); ok && m.Marker() == Tab {
					tab = m
				}
			}
			if tab == nil {
				t.Fatal("no tab box")
			}
			if tab.Width() != tt.width {
				t.Errorf("tab width = %v, want %v", tab.Width(), tt.width)
			}
			if right := tab.Left() + tab.Width() - tt.margin; right != 40 {
				t.Errorf("tab ends at %v past the margin, want 40", right)
			}
		})
	}
}

func TestFormatterFallbackGlyphs(t *testing.T) {
	buf := newTestBuffer("a\x01b\ufeff")
	line := NewFormatter(buf, nil, 0, testBounds(500, 100), 1, testOptions()).FormatLine()

	if got := line.Text(); got != "a^AbuFEFF" {
		t.Errorf("text = %q, want a^AbuFEFF", got)
	}
	u := line.Boxes()[1].(*UnicodeBox)
	if u.Width() != 24 || u.Height() != 19 {
		t.Errorf("fallback box %vx%v, want 24x19", u.Width(), u.Height())
	}
	if u.Style().Fg != style.ColorGray {
		t.Errorf("fallback fg = %v, want marker color", u.Style().Fg)
	}
}

func TestFormatterStyleRuns(t *testing.T) {
	buf := newTestBuffer("abcd\n")
	bold := style.Style{Font: style.FontSpec{Bold: true}}
	buf.styles[1] = bold
	buf.styles[2] = bold

	line := NewFormatter(buf, nil, 0, testBounds(500, 100), 1, testOptions()).FormatLine()
	var runs []string
	for _, box := range line.Boxes() {
		if tb, ok := box.(*TextBox); ok {
			runs = append(runs, tb.Text())
		}
	}
	if diff := cmp.Diff([]string{"a", "bc", "d"}, runs); diff != "" {
		t.Errorf("runs mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatterZoom(t *testing.T) {
	buf := newTestBuffer("ab\n")
	line := NewFormatter(buf, nil, 0, testBounds(500, 100), 2, testOptions()).FormatLine()
	if line.Height() != 30 {
		t.Errorf("zoomed height = %v, want 30", line.Height())
	}
	if got := line.Boxes()[0].Width(); got != 40 {
		t.Errorf("zoomed run width = %v, want 40", got)
	}
	if got := line.Boxes()[0].Style().Font.Size; got != 20 {
		t.Errorf("zoomed font size = %v, want 20", got)
	}
}

func TestFormatterEmptyBuffer(t *testing.T) {
	buf := newTestBuffer("")
	lines := formatAll(buf, nil, testBounds(100, 100))
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Start() != 0 || lines[0].End() != 1 {
		t.Errorf("empty document line = [%d, %d), want [0, 1)", lines[0].Start(), lines[0].End())
	}
}

func TestFormatterProgress(t *testing.T) {
	// Every line must advance, even when nothing fits.
	buf := newTestBuffer("abcdef")
	f := NewFormatter(buf, nil, 0, testBounds(1, 100), 1, testOptions())
	prev := text.InvalidOffset
	for i := 0; i < 10; i++ {
		line := f.FormatLine()
		if line.Start() <= prev {
			t.Fatalf("line %d starts at %d, not after %d", i, line.Start(), prev)
		}
		prev = line.Start()
		if line.IsEndOfDocument() {
			return
		}
	}
	t.Error("formatter did not reach the end of the document")
}
