package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/lineflow/internal/layout"
)

var statusStyle = tcell.StyleDefault.Reverse(true)

// render paints the viewport and the status line.
func (app *Application) render() {
	app.lock.Lock()
	defer app.lock.Unlock()

	if app.engine.Bounds().Empty() {
		return
	}
	app.engine.FormatIfNeeded()
	app.painter.SetSelection(layout.FormatSelection(
		layout.SelectionModel{Anchor: app.caret, Focus: app.caret, State: layout.SelectionCaret},
		layout.DefaultSelectionPalette(),
	))
	app.painter.Paint(app.engine)
	app.drawStatus()
	app.screen.Show()
}

// statusText describes the document and caret.
func (app *Application) statusText() string {
	name := app.doc.Name()
	if app.doc.IsModified() {
		name += " [+]"
	}
	buf := app.doc.Buffer
	line := 1
	for off := buf.ComputeStartOfLine(app.caret); off > 0; off = buf.ComputeStartOfLine(off - 1) {
		line++
	}
	return fmt.Sprintf(" %s  %d/%d  ln %d/%d ", name, app.caret, buf.End(), line, buf.LineCount())
}

func (app *Application) drawStatus() {
	w, h := app.screen.Size()
	y := h - 1
	x := 0
	for _, r := range app.statusText() {
		rw := runewidth.RuneWidth(r)
		if x+rw > w {
			break
		}
		app.screen.SetContent(x, y, r, nil, statusStyle)
		x += max(rw, 1)
	}
	for ; x < w; x++ {
		app.screen.SetContent(x, y, ' ', nil, statusStyle)
	}
}
