// Package config loads lineflow settings.
//
// Settings are resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← LINEFLOW_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← lineflow.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// A missing config file is not an error. Unknown keys are.
//
// # Basic Usage
//
//	cfg, err := config.Load("lineflow.toml")
//	if err != nil {
//	    return err
//	}
//	engine := viewport.New(buf,
//	    viewport.WithFormatOptions(cfg.LayoutOptions()),
//	    viewport.WithZoom(cfg.Layout.Zoom),
//	    viewport.WithCacheLimit(cfg.Layout.MaxCachedLines),
//	)
//
// # File Format
//
//	[layout]
//	tab_width = 4
//	left_margin = 0.0
//	zoom = 1.0
//	max_cached_lines = 0
//	marker_color = "#0066cc"
//
//	[font]
//	kind = "cell"          # cell, fixed or face
//	size = 10.0
//	width = 10.0           # fixed only
//	height = 15.0
//	descent = 3.0
//
//	[highlight]
//	enabled = true
//	style = "monokai"
//	lexer = ""             # empty: detect from file name and content
//
//	[log]
//	level = "info"
//	file = ""
//
//	[watch]
//	enabled = true
//	debounce_ms = 100
package config
