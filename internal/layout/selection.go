package layout

import (
	"github.com/dshills/lineflow/internal/style"
	"github.com/dshills/lineflow/internal/text"
)

// SelectionState describes what a selection model currently shows.
type SelectionState uint8

// Selection states.
const (
	SelectionDisabled SelectionState = iota
	SelectionCaret
	SelectionRange
)

// String returns a human-readable state name.
func (s SelectionState) String() string {
	switch s {
	case SelectionDisabled:
		return "disabled"
	case SelectionCaret:
		return "caret"
	case SelectionRange:
		return "range"
	default:
		return "unknown"
	}
}

// SelectionModel is the caller's selection: an anchor, a focus and a
// state. Focus may precede anchor.
type SelectionModel struct {
	Anchor text.Offset
	Focus  text.Offset
	State  SelectionState
}

// SelectionPalette holds highlight colors for focused and unfocused views.
type SelectionPalette struct {
	Active   style.Color
	Inactive style.Color
}

// DefaultSelectionPalette returns the built-in selection colors.
func DefaultSelectionPalette() SelectionPalette {
	return SelectionPalette{
		Active:   style.RGB(51, 153, 255),
		Inactive: style.RGB(191, 205, 219),
	}
}

// Selection is the normalized, paintable form of a SelectionModel.
type Selection struct {
	Range text.Range
	Caret text.Offset
	State SelectionState
	Color style.Color
}

// IsCaret reports whether the selection is a bare caret.
func (s Selection) IsCaret() bool { return s.State == SelectionCaret || s.Range.IsEmpty() }

// Contains reports whether offset is highlighted.
func (s Selection) Contains(offset text.Offset) bool {
	return s.State != SelectionCaret && s.Range.Contains(offset)
}

// FormatSelection maps a selection model to its paint geometry. It does
// not consult any cache.
func FormatSelection(m SelectionModel, p SelectionPalette) Selection {
	sel := Selection{
		Range: text.NewRange(m.Anchor, m.Focus),
		Caret: m.Focus,
		State: m.State,
		Color: p.Active,
	}
	switch m.State {
	case SelectionDisabled:
		sel.Color = p.Inactive
	case SelectionCaret:
		sel.Range = text.Range{Start: m.Focus, End: m.Focus}
	}
	return sel
}
