package layout

import (
	"github.com/dshills/lineflow/internal/style"
	"github.com/dshills/lineflow/internal/text"
)

// Buffer is the read-only view of a text buffer the formatter needs.
// Offsets passed in are always within [0, End()].
type Buffer interface {
	// CharAt returns the code unit at offset. offset < End().
	CharAt(offset text.Offset) rune

	// End returns the buffer length.
	End() text.Offset

	// ComputeStartOfLine returns the offset after the newline preceding
	// offset, or 0.
	ComputeStartOfLine(offset text.Offset) text.Offset

	// ComputeEndOfLine returns the offset of the newline at or after
	// offset, or End().
	ComputeEndOfLine(offset text.Offset) text.Offset

	// StyleAt returns the fully resolved style at offset.
	StyleAt(offset text.Offset) style.Style

	// DefaultStyle returns the style of unstyled text.
	DefaultStyle() style.Style
}
