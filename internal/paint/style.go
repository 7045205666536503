package paint

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/lineflow/internal/style"
)

// convertStyle converts a layout style to a tcell style.
func convertStyle(s style.Style) tcell.Style {
	ts := tcell.StyleDefault

	if !s.Fg.IsDefault() {
		ts = ts.Foreground(convertColor(s.Fg))
	}
	if !s.Bg.IsDefault() {
		ts = ts.Background(convertColor(s.Bg))
	}

	if s.Font.Bold {
		ts = ts.Bold(true)
	}
	if s.Font.Italic {
		ts = ts.Italic(true)
	}
	if s.Decoration.Has(style.DecorUnderline) {
		ts = ts.Underline(true)
	}
	if s.Decoration.Has(style.DecorStrike) {
		ts = ts.StrikeThrough(true)
	}
	if s.Decoration.Has(style.DecorReverse) {
		ts = ts.Reverse(true)
	}
	return ts
}

func convertColor(c style.Color) tcell.Color {
	if c.IsDefault() {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
