package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "LINEFLOW_"

type envSetter func(c *Config, value string) error

// envMapping maps environment variables to the settings they override.
var envMapping = map[string]struct {
	path string
	set  envSetter
}{
	"LINEFLOW_LOG_LEVEL":       {"log.level", func(c *Config, v string) error { c.Log.Level = v; return nil }},
	"LINEFLOW_LOG_FILE":        {"log.file", func(c *Config, v string) error { c.Log.File = v; return nil }},
	"LINEFLOW_TAB_WIDTH":       {"layout.tab_width", setInt(func(c *Config) *int { return &c.Layout.TabWidth })},
	"LINEFLOW_ZOOM":            {"layout.zoom", setFloat(func(c *Config) *float32 { return &c.Layout.Zoom })},
	"LINEFLOW_FONT_KIND":       {"font.kind", func(c *Config, v string) error { c.Font.Kind = strings.ToLower(v); return nil }},
	"LINEFLOW_HIGHLIGHT":       {"highlight.enabled", setBool(func(c *Config) *bool { return &c.Highlight.Enabled })},
	"LINEFLOW_HIGHLIGHT_STYLE": {"highlight.style", func(c *Config, v string) error { c.Highlight.Style = v; return nil }},
	"LINEFLOW_WATCH":           {"watch.enabled", setBool(func(c *Config) *bool { return &c.Watch.Enabled })},
}

// ApplyEnv overrides settings from LINEFLOW_* variables found through
// lookup. Values that do not parse are reported as *SettingError.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	names := make([]string, 0, len(envMapping))
	for name := range envMapping {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		val, ok := lookup(name)
		if !ok {
			continue
		}
		m := envMapping[name]
		if err := m.set(c, val); err != nil {
			return &SettingError{Key: m.path, Problem: Unparsable, Value: val, Hint: fmt.Sprintf("from %s: %v", name, err)}
		}
	}
	return nil
}

func setInt(field func(*Config) *int) envSetter {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func setFloat(field func(*Config) *float32) envSetter {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return err
		}
		*field(c) = float32(f)
		return nil
	}
}

// setBool accepts the same spellings as the shell-friendly flags:
// true/yes/on/1 and false/no/off/0.
func setBool(field func(*Config) *bool) envSetter {
	return func(c *Config, v string) error {
		switch strings.ToLower(v) {
		case "true", "yes", "on", "1":
			*field(c) = true
		case "false", "no", "off", "0":
			*field(c) = false
		default:
			return fmt.Errorf("invalid boolean %q", v)
		}
		return nil
	}
}
