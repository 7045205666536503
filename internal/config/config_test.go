package config

import (
	"bytes"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/lineflow/internal/font"
	"github.com/dshills/lineflow/internal/logging"
	"github.com/dshills/lineflow/internal/style"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	return nil, fs.ErrNotExist
}

func noEnv(string) (string, bool) { return "", false }

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load("/nope.toml", WithFS(NewMemFS()), WithEnv(noEnv))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("missing file should give defaults (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/lineflow.toml", `
[layout]
tab_width = 8
zoom = 1.5
marker_color = "#f00"

[font]
kind = "fixed"
width = 8.0
height = 16.0
descent = 4.0

[log]
level = "debug"
`)
	cfg, err := Load("/lineflow.toml", WithFS(memfs), WithEnv(noEnv))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.Layout.TabWidth = 8
	want.Layout.Zoom = 1.5
	want.Layout.MarkerColor = "#f00"
	want.Font.Kind = FontFixed
	want.Font.Width = 8
	want.Font.Height = 16
	want.Font.Descent = 4
	want.Log.Level = "debug"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	if cfg.LogLevel() != logging.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel())
	}
	opts := cfg.LayoutOptions()
	if opts.TabWidth != 8 || opts.MarkerColor != style.RGB(0xff, 0, 0) {
		t.Errorf("LayoutOptions = %+v", opts)
	}
	ext := opts.Metrics.Extents(cfg.DefaultStyle())
	if ext.Height != 16 || ext.Descent != 4 {
		t.Errorf("Extents = %+v, want 16/4", ext)
	}
	if w, ok := opts.Metrics.Advance(cfg.DefaultStyle(), 'a'); !ok || w != 8 {
		t.Errorf("Advance = %v, %v, want 8", w, ok)
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("[layout]\ntab_width = = 3\n"))
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *SyntaxError", err)
	}
	if se.Line != 2 {
		t.Errorf("Line = %d, want 2", se.Line)
	}
}

func TestUnknownKey(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("[layout]\ntab_size = 3\n"))
	var se *SettingError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *SettingError", err)
	}
	if se.Problem != UnknownKey || se.Key != "layout.tab_size" {
		t.Errorf("SettingError = %+v", se)
	}
	if got, want := se.Error(), "layout.tab_size: unknown key (in <reader>)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
		code   Problem
	}{
		{"tab width", func(c *Config) { c.Layout.TabWidth = 0 }, "layout.tab_width", OutOfRange},
		{"zoom", func(c *Config) { c.Layout.Zoom = 0 }, "layout.zoom", OutOfRange},
		{"margin", func(c *Config) { c.Layout.LeftMargin = -1 }, "layout.left_margin", OutOfRange},
		{"marker color", func(c *Config) { c.Layout.MarkerColor = "blue" }, "layout.marker_color", BadColor},
		{"font kind", func(c *Config) { c.Font.Kind = "vector" }, "font.kind", NotAChoice},
		{"descent", func(c *Config) { c.Font.Kind = FontFixed; c.Font.Descent = 20 }, "font.descent", OutOfRange},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level", NotAChoice},
		{"debounce", func(c *Config) { c.Watch.DebounceMS = -5 }, "watch.debounce_ms", OutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidSetting) {
				t.Fatalf("Validate = %v, want ErrInvalidSetting", err)
			}
			var se *SettingError
			if !errors.As(err, &se) {
				t.Fatalf("Validate = %v, want *SettingError", err)
			}
			if se.Key != tt.path || se.Problem != tt.code {
				t.Errorf("got %s/%s, want %s/%s", se.Key, se.Problem, tt.path, tt.code)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/lineflow.toml", "[layout]\ntab_width = 8\n")
	env := envOf(map[string]string{
		"LINEFLOW_TAB_WIDTH": "2",
		"LINEFLOW_LOG_LEVEL": "warn",
		"LINEFLOW_WATCH":     "off",
		"LINEFLOW_ZOOM":      "2",
	})
	cfg, err := Load("/lineflow.toml", WithFS(memfs), WithEnv(env))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Layout.TabWidth != 2 {
		t.Errorf("TabWidth = %d, want 2 (env beats file)", cfg.Layout.TabWidth)
	}
	if cfg.Log.Level != "warn" || cfg.Watch.Enabled || cfg.Layout.Zoom != 2 {
		t.Errorf("env not applied: %+v", cfg)
	}

	_, err = Load("", WithEnv(envOf(map[string]string{"LINEFLOW_TAB_WIDTH": "wide"})))
	var se *SettingError
	if !errors.As(err, &se) || se.Problem != Unparsable || se.Key != "layout.tab_width" {
		t.Errorf("bad env error = %v, want unparsable layout.tab_width", err)
	}
}

func TestMetricsKinds(t *testing.T) {
	cfg := Default()
	if _, ok := cfg.Metrics().(font.Cell); !ok {
		t.Errorf("cell kind gave %T", cfg.Metrics())
	}
	cfg.Font.Kind = FontFace
	if _, ok := cfg.Metrics().(*font.Face); !ok {
		t.Errorf("face kind gave %T", cfg.Metrics())
	}
}

func TestWriteRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Highlight.Lexer = "go"
	var buf bytes.Buffer
	if err := cfg.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := LoadFromReader(&buf)
	if err != nil {
		t.Fatalf("LoadFromReader: %v\n%s", err, buf.String())
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if cfg.Debounce() != 100*time.Millisecond {
		t.Errorf("Debounce = %v", cfg.Debounce())
	}
}
