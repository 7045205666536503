package app

import (
	"errors"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/lineflow/internal/geom"
	"github.com/dshills/lineflow/internal/text"
	"github.com/dshills/lineflow/internal/watch"
)

// quitRequest is posted by Shutdown to stop the loop.
type quitRequest struct{}

// reloadRequest is posted when the viewed file changes on disk.
type reloadRequest struct {
	event watch.Event
}

// Run initializes the screen and processes events until the user quits
// or Shutdown is called. Blocks until then.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.initScreen(); err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	defer app.screen.Fini()

	if app.watcher != nil {
		go app.forwardWatchEvents(app.watcher)
	}

	app.render()
	for {
		ev := app.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if err := app.handleEvent(ev); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
		app.render()
	}
}

func (app *Application) initScreen() error {
	if app.screenReady {
		return nil
	}
	if err := app.screen.Init(); err != nil {
		return err
	}
	app.screen.EnableMouse()
	app.screen.EnablePaste()
	app.screenReady = true
	app.resize()
	return nil
}

// forwardWatchEvents turns file events into screen interrupts so reloads
// run on the event loop.
func (app *Application) forwardWatchEvents(src watch.Source) {
	events, errs := src.Events(), src.Errors()
	for events != nil || errs != nil {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if err := app.screen.PostEvent(tcell.NewEventInterrupt(reloadRequest{event: ev})); err != nil {
				app.logger.Warn("post reload: %v", err)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			app.logger.Warn("watch: %v", err)
		}
	}
}

// handleEvent processes one screen event. Returns ErrQuit if the
// application should exit.
func (app *Application) handleEvent(ev tcell.Event) error {
	app.lock.Lock()
	defer app.lock.Unlock()

	switch ev := ev.(type) {
	case *tcell.EventResize:
		app.screen.Sync()
		app.resize()
	case *tcell.EventKey:
		return app.handleKey(ev)
	case *tcell.EventMouse:
		app.handleMouse(ev)
	case *tcell.EventPaste:
		// Paste content arrives as key events between start and end.
	case *tcell.EventInterrupt:
		switch req := ev.Data().(type) {
		case quitRequest:
			return ErrQuit
		case reloadRequest:
			app.reload(req.event)
		}
	}
	return nil
}

// resize fits the viewport above the status line.
func (app *Application) resize() {
	w, h := app.screen.Size()
	if w <= 0 || h <= 1 {
		return
	}
	app.engine.SetBounds(geom.Rect(0, 0, float32(w), float32(h-1)))
	app.painter.Invalidate()
}

func (app *Application) handleKey(ev *tcell.EventKey) error {
	e := app.engine
	buf := app.doc.Buffer
	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyEscape:
		return ErrQuit
	case tcell.KeyCtrlS:
		if err := app.doc.Save(); err != nil {
			app.logger.Warn("save: %v", err)
		}
	case tcell.KeyUp:
		e.ScrollDown()
	case tcell.KeyDown:
		e.ScrollUp()
	case tcell.KeyPgUp:
		for i, n := 0, app.pageRows(); i < n; i++ {
			if !e.ScrollDown() {
				break
			}
		}
	case tcell.KeyPgDn:
		for i, n := 0, app.pageRows(); i < n; i++ {
			if !e.ScrollUp() {
				break
			}
		}
	case tcell.KeyHome:
		app.moveCaret(0)
	case tcell.KeyEnd:
		app.moveCaret(buf.End())
	case tcell.KeyLeft:
		app.moveCaret(app.caret - 1)
	case tcell.KeyRight:
		app.moveCaret(app.caret + 1)
	case tcell.KeyEnter:
		app.insert("\n")
	case tcell.KeyTab:
		app.insert("\t")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if app.caret > 0 {
			app.delete(text.Range{Start: app.caret - 1, End: app.caret})
		}
	case tcell.KeyDelete:
		if app.caret < buf.End() {
			app.delete(text.Range{Start: app.caret, End: app.caret + 1})
		}
	case tcell.KeyRune:
		app.insert(string(ev.Rune()))
	}
	return nil
}

// pageRows returns how many lines a page scroll moves.
func (app *Application) pageRows() int {
	app.engine.FormatIfNeeded()
	return max(len(app.engine.Rows())-1, 1)
}

func (app *Application) handleMouse(ev *tcell.EventMouse) {
	switch {
	case ev.Buttons()&tcell.Button1 != 0:
		x, y := ev.Position()
		if !app.engine.Bounds().Contains(geom.Pt(float32(x), float32(y))) {
			return
		}
		app.engine.FormatIfNeeded()
		app.caret = app.engine.HitTestPoint(geom.Pt(float32(x), float32(y)))
	case ev.Buttons()&tcell.WheelUp != 0:
		app.engine.ScrollDown()
	case ev.Buttons()&tcell.WheelDown != 0:
		app.engine.ScrollUp()
	}
}

// moveCaret clamps offset into the buffer and scrolls it into view.
func (app *Application) moveCaret(offset text.Offset) {
	app.caret = text.Clamp(offset, 0, app.doc.Buffer.End())
	app.engine.ScrollToPosition(app.caret)
}

func (app *Application) insert(s string) {
	r, err := app.doc.Buffer.Insert(app.caret, s)
	if err != nil {
		app.logger.Warn("insert at %d: %v", app.caret, err)
		return
	}
	app.doc.SetModified(true)
	app.rehighlight()
	app.moveCaret(r.End)
}

func (app *Application) delete(r text.Range) {
	if err := app.doc.Buffer.Delete(r); err != nil {
		app.logger.Warn("delete %v: %v", r, err)
		return
	}
	app.doc.SetModified(true)
	app.rehighlight()
	app.moveCaret(r.Start)
}

func (app *Application) reload(ev watch.Event) {
	if ev.Op.Has(watch.OpRemove) {
		app.logger.Info("%s removed, keeping buffer", ev.Path)
		return
	}
	changed, err := app.doc.Reload()
	if err != nil {
		app.logger.Warn("reload: %v", err)
		return
	}
	if !changed {
		return
	}
	app.logger.Info("reloaded %s after %s", app.doc.Name(), ev.Op)
	app.rehighlight()
	app.caret = text.Clamp(app.caret, 0, app.doc.Buffer.End())
}
