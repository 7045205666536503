package viewport

import (
	"github.com/dshills/lineflow/internal/geom"
	"github.com/dshills/lineflow/internal/layout"
	"github.com/dshills/lineflow/internal/text"
)

// Row places a shared, immutable line in the viewport. Moving a row
// never touches the line, so the cache's copy stays valid.
type Row struct {
	Line   *layout.Line
	Origin geom.PointF
}

// Top returns the row's y position.
func (r Row) Top() float32 { return r.Origin.Y }

// Bottom returns the y position just below the row.
func (r Row) Bottom() float32 { return r.Origin.Y + r.Line.Height() }

// Start returns the first offset of the row's line.
func (r Row) Start() text.Offset { return r.Line.Start() }

// End returns the offset after the row's line.
func (r Row) End() text.Offset { return r.Line.End() }

// Bounds returns the row's rectangle in viewport coordinates.
func (r Row) Bounds() geom.RectF {
	return geom.Rect(r.Origin.X, r.Origin.Y, r.Origin.X+r.Line.Width(), r.Bottom())
}
