package font

import (
	"github.com/mattn/go-runewidth"

	"github.com/dshills/lineflow/internal/style"
)

// Cell measures text in terminal cells. East Asian wide characters take
// two cells. Zoom does not change the cell size.
type Cell struct {
	CellWidth  float32
	CellHeight float32
}

// NewCell returns cell metrics with 1x1 cells.
func NewCell() Cell {
	return Cell{CellWidth: 1, CellHeight: 1}
}

// Extents implements Metrics.
func (c Cell) Extents(style.Style) Extents {
	return Extents{Height: c.CellHeight}
}

// Advance implements Metrics.
func (c Cell) Advance(_ style.Style, r rune) (float32, bool) {
	if !IsRenderable(r) {
		return 0, false
	}
	w := runewidth.RuneWidth(r)
	if w == 0 {
		return 0, false
	}
	return float32(w) * c.CellWidth, true
}
