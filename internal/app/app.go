// Package app wires lineflow's components into a terminal file viewer.
// It owns the document lock, the screen and the main event loop.
package app

import (
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/lineflow/internal/config"
	"github.com/dshills/lineflow/internal/doclock"
	"github.com/dshills/lineflow/internal/font"
	"github.com/dshills/lineflow/internal/highlight"
	"github.com/dshills/lineflow/internal/logging"
	"github.com/dshills/lineflow/internal/paint"
	"github.com/dshills/lineflow/internal/text"
	"github.com/dshills/lineflow/internal/textbuf"
	"github.com/dshills/lineflow/internal/viewport"
	"github.com/dshills/lineflow/internal/watch"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// LogPath overrides the configured log file.
	LogPath string

	// Lexer overrides the configured highlighting lexer.
	Lexer string

	// File is the file to view. Empty opens a scratch buffer.
	File string
}

// Application is the central coordinator for the viewer.
type Application struct {
	lock *doclock.Lock

	config   *config.Config
	logger   *logging.Logger
	closeLog func() error

	doc            *Document
	engine         *viewport.Engine
	removeObserver func()
	highlighter    *highlight.Highlighter
	painter        *paint.Painter

	screen      tcell.Screen
	screenReady bool

	watcher watch.Source

	caret text.Offset

	running      atomic.Bool
	shutdownOnce sync.Once
}

// New creates an application drawing to screen. The screen is
// initialized by Run.
func New(opts Options, screen tcell.Screen) (*Application, error) {
	app := &Application{
		lock:   &doclock.Lock{},
		screen: screen,
		logger: logging.Nop(),
	}
	if err := app.bootstrap(opts); err != nil {
		app.cleanup()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap(opts Options) error {
	// 1. Config
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if opts.Lexer != "" {
		cfg.Highlight.Lexer = opts.Lexer
	}
	if opts.LogPath != "" {
		cfg.Log.File = opts.LogPath
	}
	app.config = cfg

	// 2. Logging. The terminal belongs to the screen, so logs only go to a file.
	if cfg.Log.File != "" {
		logger, closeLog, err := logging.OpenFile(cfg.Log.File, logging.Config{Level: cfg.LogLevel()})
		if err != nil {
			return &InitError{Component: "logging", Err: err}
		}
		app.logger, app.closeLog = logger, closeLog
	}
	log := app.logger.WithComponent("app")

	// 3. Document
	doc, err := OpenDocument(opts.File, textbuf.WithLock(app.lock), textbuf.WithDefaultStyle(cfg.DefaultStyle()))
	if err != nil {
		return &InitError{Component: "document", Err: err}
	}
	app.doc = doc
	log.Info("opened %s (%d runes)", doc.Name(), doc.Buffer.End())

	// 4. Highlighting
	if cfg.Highlight.Enabled {
		app.highlighter = highlight.New(
			highlight.WithStyle(cfg.Highlight.Style),
			highlight.WithLexer(cfg.Highlight.Lexer),
			highlight.WithFilename(doc.Path),
			highlight.WithLogger(app.logger),
		)
	}

	// 5. Viewport. One layout pixel is one terminal cell.
	layoutOpts := cfg.LayoutOptions()
	if cfg.Font.Kind != config.FontCell {
		log.Warn("font kind %q is not drawable in a terminal, using cells", cfg.Font.Kind)
		layoutOpts.Metrics = font.NewCell()
	}
	app.engine = viewport.New(doc.Buffer,
		viewport.WithFormatOptions(layoutOpts),
		viewport.WithLogger(app.logger),
		viewport.WithLock(app.lock),
		viewport.WithCacheLimit(cfg.Layout.MaxCachedLines),
		viewport.WithZoom(cfg.Layout.Zoom),
	)
	app.removeObserver = doc.Buffer.AddObserver(app.engine)

	app.lock.Lock()
	app.rehighlight()
	app.lock.Unlock()

	// 6. Painter
	app.painter = paint.New(app.screen, paint.WithLogger(app.logger))

	// 7. File watching. Failure only disables reloads.
	if cfg.Watch.Enabled && doc.Path != "" {
		if err := app.startWatcher(doc.Path); err != nil {
			log.Warn("watch %s: %v", doc.Path, err)
		}
	}

	return nil
}

func (app *Application) startWatcher(path string) error {
	w, err := watch.New(watch.WithLogger(app.logger))
	if err != nil {
		return err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return err
	}
	app.watcher = watch.NewDebouncer(w, app.config.Debounce())
	return nil
}

// Config returns the loaded configuration.
func (app *Application) Config() *config.Config { return app.config }

// Document returns the viewed document.
func (app *Application) Document() *Document { return app.doc }

// Engine returns the viewport engine.
func (app *Application) Engine() *viewport.Engine { return app.engine }

// Lock returns the document lock.
func (app *Application) Lock() *doclock.Lock { return app.lock }

// Caret returns the caret offset.
func (app *Application) Caret() text.Offset {
	app.lock.RLock()
	defer app.lock.RUnlock()
	return app.caret
}

// IsRunning reports whether Run is active.
func (app *Application) IsRunning() bool { return app.running.Load() }

// Shutdown stops the event loop if it is running and releases
// resources. It is safe to call more than once.
func (app *Application) Shutdown() {
	if app.running.Load() {
		if err := app.screen.PostEvent(tcell.NewEventInterrupt(quitRequest{})); err != nil {
			app.logger.Warn("post quit: %v", err)
		}
		return
	}
	app.cleanup()
}

// cleanup releases resources in reverse initialization order.
func (app *Application) cleanup() {
	app.shutdownOnce.Do(func() {
		if app.watcher != nil {
			if err := app.watcher.Close(); err != nil {
				app.logger.Warn("close watcher: %v", err)
			}
		}
		if app.removeObserver != nil {
			app.removeObserver()
		}
		if app.closeLog != nil {
			app.closeLog()
		}
	})
}

// rehighlight recomputes syntax styles. The lock must be held.
func (app *Application) rehighlight() {
	if app.highlighter == nil {
		return
	}
	buf := app.doc.Buffer
	buf.SetDefaultStyle(app.highlighter.BaseStyle(app.config.DefaultStyle()))
	if err := app.highlighter.Apply(buf); err != nil {
		app.logger.Warn("highlight %s: %v", app.doc.Name(), err)
	}
}
