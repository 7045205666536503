package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/lineflow/internal/text"
	"github.com/dshills/lineflow/internal/watch"
)

func numberedLines(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "line%02d\n", i)
	}
	return sb.String()
}

// newTestApp writes content to a temp file and opens it on a 20x6
// simulation screen, leaving five rows for the viewport.
func newTestApp(t *testing.T, content string) (*Application, tcell.SimulationScreen) {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "lineflow.toml")
	if err := os.WriteFile(cfgPath, []byte("[watch]\nenabled = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	screen := tcell.NewSimulationScreen("UTF-8")
	app, err := New(Options{ConfigPath: cfgPath, File: file}, screen)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(app.Shutdown)

	if err := app.initScreen(); err != nil {
		t.Fatalf("initScreen failed: %v", err)
	}
	screen.SetSize(20, 6)
	app.resize()
	return app, screen
}

func key(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModNone) }

func runeKey(r rune) *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

func send(t *testing.T, app *Application, evs ...tcell.Event) {
	t.Helper()
	for _, ev := range evs {
		if err := app.handleEvent(ev); err != nil {
			t.Fatalf("handleEvent(%T) failed: %v", ev, err)
		}
	}
}

func TestNewApplication(t *testing.T) {
	app, _ := newTestApp(t, "hello\n")

	if app.Config() == nil {
		t.Error("expected config to be initialized")
	}
	if app.Engine() == nil {
		t.Error("expected engine to be initialized")
	}
	if app.highlighter == nil {
		t.Error("expected highlighter to be enabled by default")
	}
	if app.watcher != nil {
		t.Error("watcher should be disabled by the test config")
	}
	if got := app.Document().Name(); got != "notes.txt" {
		t.Errorf("Name = %q, want notes.txt", got)
	}
	if got := app.Engine().Bounds().Height(); got != 5 {
		t.Errorf("viewport height = %v, want 5", got)
	}
}

func TestNewApplicationBadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(cfgPath, []byte("[layout]\ntab_width = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := New(Options{ConfigPath: cfgPath}, tcell.NewSimulationScreen("UTF-8"))
	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "config" {
		t.Fatalf("New() error = %v, want config InitError", err)
	}
}

func TestTypingEditsBuffer(t *testing.T) {
	app, _ := newTestApp(t, "abc\n")
	buf := app.Document().Buffer

	send(t, app, runeKey('x'), runeKey('y'))
	app.lock.RLock()
	got := buf.Text()
	app.lock.RUnlock()
	if got != "xyabc\n" {
		t.Errorf("text = %q, want %q", got, "xyabc\n")
	}
	if app.Caret() != 2 {
		t.Errorf("caret = %d, want 2", app.Caret())
	}
	if !app.Document().IsModified() {
		t.Error("document should be modified")
	}

	send(t, app, key(tcell.KeyBackspace2), key(tcell.KeyRight), key(tcell.KeyDelete), key(tcell.KeyEnter))
	app.lock.RLock()
	got = buf.Text()
	app.lock.RUnlock()
	if got != "xa\nc\n" {
		t.Errorf("text = %q, want %q", got, "xa\nc\n")
	}
	if app.Caret() != 3 {
		t.Errorf("caret = %d, want 3", app.Caret())
	}
}

func TestScrollKeys(t *testing.T) {
	app, _ := newTestApp(t, numberedLines(50))
	e := app.Engine()

	send(t, app, key(tcell.KeyDown))
	if got := e.ViewStart(); got != 7 {
		t.Errorf("ViewStart after Down = %d, want 7", got)
	}
	send(t, app, key(tcell.KeyUp))
	if got := e.ViewStart(); got != 0 {
		t.Errorf("ViewStart after Up = %d, want 0", got)
	}

	send(t, app, key(tcell.KeyPgDn))
	if got := e.ViewStart(); got != 28 {
		t.Errorf("ViewStart after PgDn = %d, want 28", got)
	}
	send(t, app, key(tcell.KeyPgUp))
	if got := e.ViewStart(); got != 0 {
		t.Errorf("ViewStart after PgUp = %d, want 0", got)
	}

	send(t, app, key(tcell.KeyEnd))
	end := text.Offset(50 * 7)
	if app.Caret() != end {
		t.Errorf("caret = %d, want %d", app.Caret(), end)
	}
	app.lock.Lock()
	visible := e.IsPositionFullyVisible(end)
	app.lock.Unlock()
	if !visible {
		t.Error("End should scroll the document end into view")
	}

	send(t, app, key(tcell.KeyHome))
	if got := e.ViewStart(); got != 0 {
		t.Errorf("ViewStart after Home = %d, want 0", got)
	}
}

func TestMouseClickMovesCaret(t *testing.T) {
	app, _ := newTestApp(t, numberedLines(10))

	send(t, app, tcell.NewEventMouse(2, 1, tcell.Button1, tcell.ModNone))
	if got := app.Caret(); got != 9 {
		t.Errorf("caret = %d, want 9", got)
	}

	// The status line is outside the viewport.
	send(t, app, tcell.NewEventMouse(2, 5, tcell.Button1, tcell.ModNone))
	if got := app.Caret(); got != 9 {
		t.Errorf("caret after status click = %d, want 9", got)
	}
}

func TestRender(t *testing.T) {
	app, screen := newTestApp(t, numberedLines(10))
	app.render()

	r, _, _, _ := screen.GetContent(0, 0)
	if r != 'l' {
		t.Errorf("cell (0,0) = %q, want 'l'", r)
	}
	var status strings.Builder
	for x := 0; x < 20; x++ {
		r, _, _, _ := screen.GetContent(x, 5)
		status.WriteRune(r)
	}
	if !strings.Contains(status.String(), "notes.txt") {
		t.Errorf("status line = %q, want the file name", status.String())
	}
	x, y, visible := screen.GetCursor()
	if !visible || x != 0 || y != 0 {
		t.Errorf("cursor = (%d,%d) visible=%v, want (0,0)", x, y, visible)
	}
}

func TestReload(t *testing.T) {
	app, _ := newTestApp(t, numberedLines(10))
	send(t, app, key(tcell.KeyEnd))

	path := app.Document().Path
	if err := os.WriteFile(path, []byte("fresh\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	app.lock.Lock()
	app.reload(watch.Event{Path: path, Op: watch.OpWrite})
	got := app.Document().Buffer.Text()
	app.lock.Unlock()

	if got != "fresh\n" {
		t.Errorf("text = %q, want %q", got, "fresh\n")
	}
	if app.Caret() != 6 {
		t.Errorf("caret = %d, want 6", app.Caret())
	}
}

func TestRunQuit(t *testing.T) {
	app, screen := newTestApp(t, "abc\n")

	screen.InjectKey(tcell.KeyRune, 'z', tcell.ModNone)
	screen.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModNone)
	if err := app.Run(); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if app.IsRunning() {
		t.Error("IsRunning should be false after Run returns")
	}

	app.lock.RLock()
	got := app.Document().Buffer.Text()
	app.lock.RUnlock()
	if got != "zabc\n" {
		t.Errorf("text = %q, want %q", got, "zabc\n")
	}
}

func TestRunTwice(t *testing.T) {
	app, _ := newTestApp(t, "")
	app.running.Store(true)
	defer app.running.Store(false)

	if err := app.Run(); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Run() = %v, want ErrAlreadyRunning", err)
	}
}

func TestShutdownIdempotent(t *testing.T) {
	app, _ := newTestApp(t, "")
	app.Shutdown()
	app.Shutdown()
}
