package layout

import (
	"github.com/dshills/lineflow/internal/font"
	"github.com/dshills/lineflow/internal/geom"
	"github.com/dshills/lineflow/internal/style"
	"github.com/dshills/lineflow/internal/text"
)

// testBuffer is an in-memory Buffer that counts reads.
type testBuffer struct {
	runes  []rune
	styles map[text.Offset]style.Style
	def    style.Style
	reads  int
}

func newTestBuffer(s string) *testBuffer {
	return &testBuffer{
		runes:  []rune(s),
		styles: make(map[text.Offset]style.Style),
		def:    style.Default(),
	}
}

func (b *testBuffer) CharAt(offset text.Offset) rune {
	b.reads++
	return b.runes[offset]
}

func (b *testBuffer) End() text.Offset { return text.Offset(len(b.runes)) }

func (b *testBuffer) ComputeStartOfLine(offset text.Offset) text.Offset {
	for offset > 0 && b.runes[offset-1] != '\n' {
		offset--
	}
	return offset
}

func (b *testBuffer) ComputeEndOfLine(offset text.Offset) text.Offset {
	for offset < b.End() && b.runes[offset] != '\n' {
		offset++
	}
	return offset
}

func (b *testBuffer) StyleAt(offset text.Offset) style.Style {
	b.reads++
	if s, ok := b.styles[offset]; ok {
		return b.def.Merge(s)
	}
	return b.def
}

func (b *testBuffer) DefaultStyle() style.Style {
	b.reads++
	return b.def
}

func (b *testBuffer) insert(offset text.Offset, s string) {
	ins := []rune(s)
	b.runes = append(b.runes[:offset], append(ins, b.runes[offset:]...)...)
}

func (b *testBuffer) delete(start, end text.Offset) {
	b.runes = append(b.runes[:start], b.runes[end:]...)
}

func testMetrics() font.Metrics { return font.NewFixed(10, 15, 3) }

func testOptions() Options {
	return Options{TabWidth: 4, Metrics: testMetrics(), MarkerColor: style.ColorGray}
}

func testBounds(w, h float32) geom.RectF { return geom.Rect(0, 0, w, h) }

// formatAll formats the whole buffer from offset 0.
func formatAll(buf Buffer, cache *Cache, bounds geom.RectF) []*Line {
	f := NewFormatter(buf, cache, 0, bounds, 1, testOptions())
	var lines []*Line
	for {
		line := f.FormatLine()
		lines = append(lines, line)
		if line.IsEndOfDocument() {
			return lines
		}
	}
}

type span struct{ Start, End text.Offset }

func spans(lines []*Line) []span {
	out := make([]span, len(lines))
	for i, l := range lines {
		out[i] = span{l.Start(), l.End()}
	}
	return out
}
