// Package paint draws viewport rows onto a terminal screen.
//
// One layout pixel maps to one terminal cell, so the engine should be
// built with font.Cell metrics of 1x1.
package paint

import (
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/lineflow/internal/geom"
	"github.com/dshills/lineflow/internal/layout"
	"github.com/dshills/lineflow/internal/logging"
	"github.com/dshills/lineflow/internal/style"
	"github.com/dshills/lineflow/internal/text"
	"github.com/dshills/lineflow/internal/viewport"
)

// Source is the view a Painter draws. *viewport.Engine satisfies it.
type Source interface {
	Version() uint64
	Bounds() geom.RectF
	Rows() []viewport.Row
	HitTestTextPosition(offset text.Offset) (geom.RectF, bool)
}

// Glyphs drawn for visible markers.
const (
	glyphTab = '→'
	glyphEOL = '¶'
)

// rowKey identifies what was painted for one row.
type rowKey struct {
	hash   uint64
	origin geom.PointF
}

// Option configures a Painter.
type Option func(*Painter)

// WithLogger sets the painter's logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Painter) { p.logger = l.WithComponent("paint") }
}

// WithMarkers draws tab and end-of-line markers as visible glyphs.
func WithMarkers(show bool) Option {
	return func(p *Painter) { p.showMarkers = show }
}

// Painter renders a Source onto a tcell.Screen, skipping frames in
// which nothing changed.
type Painter struct {
	mu          sync.Mutex
	screen      tcell.Screen
	logger      *logging.Logger
	showMarkers bool

	painted   bool
	version   uint64
	bounds    geom.RectF
	keys      []rowKey
	selection layout.Selection
	selDirty  bool
	frames    uint64
}

// New creates a painter for screen.
func New(screen tcell.Screen, opts ...Option) *Painter {
	p := &Painter{
		screen: screen,
		logger: logging.Nop(),
		selection: layout.Selection{
			State: layout.SelectionDisabled,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetSelection sets the caret and highlighted range drawn on the next
// Paint.
func (p *Painter) SetSelection(sel layout.Selection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if sel != p.selection {
		p.selection = sel
		p.selDirty = true
	}
}

// Invalidate forces the next Paint to redraw.
func (p *Painter) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.painted = false
}

// Frames returns how many times Paint actually drew.
func (p *Painter) Frames() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// Paint draws src when it differs from the last frame. It reports
// whether the screen content changed. The caller must hold the
// document lock and must have formatted src.
func (p *Painter) Paint(src Source) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	rows := src.Rows()
	keys := make([]rowKey, len(rows))
	for i, row := range rows {
		keys[i] = rowKey{hash: row.Line.Hash(), origin: row.Origin}
	}
	bounds := src.Bounds()

	if p.painted && !p.selDirty && p.version == src.Version() && p.bounds == bounds && equalKeys(p.keys, keys) {
		return false
	}

	p.clear(bounds)
	for _, row := range rows {
		p.drawRow(bounds, row)
	}
	p.drawCaret(src)

	p.painted = true
	p.selDirty = false
	p.version = src.Version()
	p.bounds = bounds
	p.keys = keys
	p.frames++
	p.logger.Debug("frame %d: %d rows at version %d", p.frames, len(rows), p.version)
	return true
}

func equalKeys(a, b []rowKey) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// cellRect converts a pixel rectangle to cell coordinates.
func cellRect(r geom.RectF) (x0, y0, x1, y1 int) {
	return floor(r.Left), floor(r.Top), floor(r.Right), floor(r.Bottom)
}

func floor(f float32) int { return int(math.Floor(float64(f))) }

func (p *Painter) clear(bounds geom.RectF) {
	x0, y0, x1, y1 := cellRect(bounds)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}
}

// set draws r at cell (x, y) if the cell lies inside bounds.
func (p *Painter) set(bounds geom.RectF, x, y int, r rune, s tcell.Style) {
	x0, y0, x1, y1 := cellRect(bounds)
	if x < x0 || x >= x1 || y < y0 || y >= y1 {
		return
	}
	p.screen.SetContent(x, y, r, nil, s)
}

// styleAt returns the cell style for a box character at offset.
func (p *Painter) styleAt(s style.Style, offset text.Offset) tcell.Style {
	if p.selection.Contains(offset) {
		s = s.WithBg(p.selection.Color)
	}
	return convertStyle(s)
}

func (p *Painter) drawRow(bounds geom.RectF, row viewport.Row) {
	line := row.Line
	origin := row.Origin.Add(bounds.Origin())
	for _, box := range line.Boxes() {
		x := floor(origin.X + box.Left())
		y := floor(origin.Y + line.BoxTop(box))
		switch b := box.(type) {
		case *layout.TextBox:
			for i, r := range b.Runes() {
				off := b.Start() + text.Offset(i)
				caret, _ := b.HitTestTextPosition(off, 0)
				p.set(bounds, floor(origin.X+box.Left()+caret.Left), y, r, p.styleAt(b.Style(), off))
			}
		case *layout.UnicodeBox:
			// The escape is padded on every side; center it in the box.
			display := []rune(b.Display())
			dx := max(floor((b.Width()-float32(len(display)))/2), 0)
			dy := max(floor((b.Height()-1)/2), 0)
			s := p.styleAt(b.Style(), b.Start()).Reverse(true)
			for i, r := range display {
				p.set(bounds, x+dx+i, y+dy, r, s)
			}
		case *layout.MarkerBox:
			p.drawMarker(bounds, x, y, b)
		}
	}
}

func (p *Painter) drawMarker(bounds geom.RectF, x, y int, b *layout.MarkerBox) {
	s := p.styleAt(b.Style(), b.Start())
	switch b.Marker() {
	case layout.Tab:
		n := max(floor(b.Width()), 1)
		for i := 0; i < n; i++ {
			p.set(bounds, x+i, y, ' ', s)
		}
		if p.showMarkers {
			p.set(bounds, x, y, glyphTab, s)
		}
	case layout.EndOfLine:
		if p.showMarkers {
			p.set(bounds, x, y, glyphEOL, s)
		} else if p.selection.Contains(b.Start()) {
			p.set(bounds, x, y, ' ', s)
		}
	}
}

func (p *Painter) drawCaret(src Source) {
	if p.selection.State == layout.SelectionDisabled {
		p.screen.HideCursor()
		return
	}
	r, ok := src.HitTestTextPosition(p.selection.Caret)
	if !ok {
		p.screen.HideCursor()
		return
	}
	p.screen.ShowCursor(floor(r.Left), floor(r.Top))
}
