package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/dshills/lineflow/internal/font"
	"github.com/dshills/lineflow/internal/layout"
	"github.com/dshills/lineflow/internal/logging"
	"github.com/dshills/lineflow/internal/style"
)

// Font kinds.
const (
	FontCell  = "cell"
	FontFixed = "fixed"
	FontFace  = "face"
)

// Config holds every lineflow setting.
type Config struct {
	Layout    LayoutConfig    `toml:"layout"`
	Font      FontConfig      `toml:"font"`
	Highlight HighlightConfig `toml:"highlight"`
	Log       LogConfig       `toml:"log"`
	Watch     WatchConfig     `toml:"watch"`
}

// LayoutConfig controls formatting and the line cache.
type LayoutConfig struct {
	TabWidth       int     `toml:"tab_width"`
	LeftMargin     float32 `toml:"left_margin"`
	Zoom           float32 `toml:"zoom"`
	MaxCachedLines int     `toml:"max_cached_lines"`
	MarkerColor    string  `toml:"marker_color"`
}

// FontConfig selects the font metrics.
type FontConfig struct {
	Kind    string  `toml:"kind"`
	Family  string  `toml:"family"`
	Size    float32 `toml:"size"`
	Width   float32 `toml:"width"`
	Height  float32 `toml:"height"`
	Descent float32 `toml:"descent"`
}

// HighlightConfig controls syntax highlighting.
type HighlightConfig struct {
	Enabled bool   `toml:"enabled"`
	Style   string `toml:"style"`
	Lexer   string `toml:"lexer"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// WatchConfig controls reloading the viewed file.
type WatchConfig struct {
	Enabled    bool `toml:"enabled"`
	DebounceMS int  `toml:"debounce_ms"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			TabWidth:    4,
			Zoom:        1,
			MarkerColor: "#0066cc",
		},
		Font: FontConfig{
			Kind:    FontCell,
			Family:  "monospace",
			Size:    10,
			Width:   10,
			Height:  15,
			Descent: 3,
		},
		Highlight: HighlightConfig{
			Enabled: true,
			Style:   "monokai",
		},
		Log: LogConfig{
			Level: "info",
		},
		Watch: WatchConfig{
			Enabled:    true,
			DebounceMS: 100,
		},
	}
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	fs     FileSystem
	lookup func(string) (string, bool)
}

// WithFS reads the config file from fsys.
func WithFS(fsys FileSystem) LoadOption {
	return func(o *loadOptions) { o.fs = fsys }
}

// WithEnv replaces os.LookupEnv as the source of environment overrides.
// A nil lookup disables them.
func WithEnv(lookup func(string) (string, bool)) LoadOption {
	return func(o *loadOptions) { o.lookup = lookup }
}

// Load resolves settings from the defaults, the file at path and the
// environment, then validates them. An empty path or a missing file
// leaves the defaults in place.
func Load(path string, opts ...LoadOption) (*Config, error) {
	o := loadOptions{fs: DefaultFS(), lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := Default()
	if path != "" {
		data, err := o.fs.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := cfg.decode(path, bytes.NewReader(data)); err != nil {
				return nil, err
			}
		}
	}
	if o.lookup != nil {
		if err := cfg.ApplyEnv(o.lookup); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader decodes r over the defaults and validates the result.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := cfg.decode("<reader>", r); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode overlays TOML from r onto c.
func (c *Config) decode(source string, r io.Reader) error {
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	err := dec.Decode(c)
	if err == nil {
		return nil
	}

	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		errs := make([]error, 0, len(strict.Errors))
		for _, e := range strict.Errors {
			errs = append(errs, &SettingError{
				Key:     strings.Join(e.Key(), "."),
				Problem: UnknownKey,
				Hint:    "in " + source,
			})
		}
		return errors.Join(errs...)
	}

	se := &SyntaxError{Source: source, Err: err}
	var de *toml.DecodeError
	if errors.As(err, &de) {
		se.Line, se.Column = de.Position()
	}
	return se
}

// Write encodes c as TOML.
func (c *Config) Write(w io.Writer) error {
	enc := toml.NewEncoder(w)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error
	add := func(key, hint string, value any, p Problem) {
		errs = append(errs, &SettingError{Key: key, Problem: p, Value: value, Hint: hint})
	}

	if c.Layout.TabWidth < 1 || c.Layout.TabWidth > 32 {
		add("layout.tab_width", "must be between 1 and 32", c.Layout.TabWidth, OutOfRange)
	}
	if c.Layout.LeftMargin < 0 {
		add("layout.left_margin", "must not be negative", c.Layout.LeftMargin, OutOfRange)
	}
	if c.Layout.Zoom <= 0 || c.Layout.Zoom > 8 {
		add("layout.zoom", "must be in (0, 8]", c.Layout.Zoom, OutOfRange)
	}
	if c.Layout.MaxCachedLines < 0 {
		add("layout.max_cached_lines", "must not be negative", c.Layout.MaxCachedLines, OutOfRange)
	}
	if c.Layout.MarkerColor != "" {
		if _, err := style.ColorFromHex(c.Layout.MarkerColor); err != nil {
			add("layout.marker_color", "must be #rgb or #rrggbb", c.Layout.MarkerColor, BadColor)
		}
	}

	switch c.Font.Kind {
	case FontCell, FontFace:
	case FontFixed:
		if c.Font.Width <= 0 || c.Font.Height <= 0 {
			add("font", "fixed width and height must be positive", fmt.Sprintf("%gx%g", c.Font.Width, c.Font.Height), OutOfRange)
		}
		if c.Font.Descent < 0 || c.Font.Descent >= c.Font.Height {
			add("font.descent", "must be in [0, height)", c.Font.Descent, OutOfRange)
		}
	default:
		add("font.kind", "must be cell, fixed or face", c.Font.Kind, NotAChoice)
	}
	if c.Font.Size <= 0 {
		add("font.size", "must be positive", c.Font.Size, OutOfRange)
	}

	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		add("log.level", "must be debug, info, warn or error", c.Log.Level, NotAChoice)
	}
	if c.Watch.DebounceMS < 0 {
		add("watch.debounce_ms", "must not be negative", c.Watch.DebounceMS, OutOfRange)
	}
	return errors.Join(errs...)
}

// Metrics returns the font metrics selected by the font section.
func (c *Config) Metrics() font.Metrics {
	switch c.Font.Kind {
	case FontFixed:
		f := font.NewFixed(c.Font.Width, c.Font.Height, c.Font.Descent)
		f.BaseSize = c.Font.Size
		return f
	case FontFace:
		return font.NewFace(basicfont.Face7x13, c.Font.Size)
	default:
		return font.NewCell()
	}
}

// DefaultStyle returns the buffer default style for the font section.
func (c *Config) DefaultStyle() style.Style {
	s := style.Default()
	if c.Font.Family != "" {
		s.Font.Family = c.Font.Family
	}
	if c.Font.Size > 0 {
		s.Font.Size = c.Font.Size
	}
	return s
}

// LayoutOptions returns formatter options for the layout section.
func (c *Config) LayoutOptions() layout.Options {
	opts := layout.DefaultOptions()
	opts.TabWidth = c.Layout.TabWidth
	opts.LeftMargin = c.Layout.LeftMargin
	opts.Metrics = c.Metrics()
	if col, err := style.ColorFromHex(c.Layout.MarkerColor); err == nil {
		opts.MarkerColor = col
	}
	return opts
}

// LogLevel returns the parsed log level, Info when unset.
func (c *Config) LogLevel() logging.Level {
	if level, ok := logging.ParseLevel(c.Log.Level); ok {
		return level
	}
	return logging.LevelInfo
}

// Debounce returns the watch debounce interval.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}
