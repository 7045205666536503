// Package highlight turns chroma tokens into style runs on a buffer.
package highlight

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/go-enry/go-enry/v2"

	"github.com/dshills/lineflow/internal/logging"
	"github.com/dshills/lineflow/internal/style"
	"github.com/dshills/lineflow/internal/text"
	"github.com/dshills/lineflow/internal/textbuf"
)

const defaultStyleName = "monokai"

// ErrTokenize is returned when the lexer fails on the buffer content.
var ErrTokenize = errors.New("tokenize failed")

// Target is the buffer a Highlighter writes to.
type Target interface {
	Text() string
	SetStyles(runs []Run) error
}

// Run is a styled range of runes.
type Run = textbuf.StyleRun

// Highlighter resolves a lexer and a chroma style once and applies them
// to buffers.
type Highlighter struct {
	lexerName string
	filename  string
	style     *chroma.Style
	logger    *logging.Logger
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithLexer selects a lexer by name, e.g. "go" or "markdown".
func WithLexer(name string) Option {
	return func(h *Highlighter) { h.lexerName = name }
}

// WithFilename lets the lexer be chosen from a file name.
func WithFilename(name string) Option {
	return func(h *Highlighter) { h.filename = name }
}

// WithStyle selects a chroma style by name. Unknown names fall back to
// chroma's default style.
func WithStyle(name string) Option {
	return func(h *Highlighter) {
		if name != "" {
			h.style = styles.Get(name)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *Highlighter) {
		if l != nil {
			h.logger = l.WithComponent("highlight")
		}
	}
}

// New creates a Highlighter.
func New(opts ...Option) *Highlighter {
	h := &Highlighter{
		style:  styles.Get(defaultStyleName),
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// StyleName returns the name of the chroma style in use.
func (h *Highlighter) StyleName() string { return h.style.Name }

// classifierCandidates limits go-enry's Bayesian classifier to languages
// chroma highlights well.
var classifierCandidates = []string{
	"Go", "Python", "Rust", "C", "C++", "Java", "JavaScript", "TypeScript",
	"Ruby", "Shell", "Lua", "SQL", "YAML", "TOML", "JSON", "Markdown",
}

// Lexer returns the lexer for src: the configured name, then the file
// name, then shebang or modeline, then content analysis, then plain text.
func (h *Highlighter) Lexer(src string) chroma.Lexer {
	if h.lexerName != "" {
		if l := lexers.Get(h.lexerName); l != nil {
			return l
		}
		h.logger.Warn("unknown lexer %q", h.lexerName)
	}
	if h.filename != "" {
		if l := lexers.Match(filepath.Base(h.filename)); l != nil {
			return l
		}
	}

	content := []byte(src)
	if lang, ok := enry.GetLanguageByShebang(content); ok {
		if l := lexers.Get(lang); l != nil {
			return l
		}
	}
	if lang, ok := enry.GetLanguageByModeline(content); ok {
		if l := lexers.Get(lang); l != nil {
			return l
		}
	}
	if l := lexers.Analyse(src); l != nil {
		return l
	}
	if strings.TrimSpace(src) != "" {
		lang, _ := enry.GetLanguageByClassifier(content, classifierCandidates)
		if l := lexers.Get(lang); l != nil {
			h.logger.Debug("classified content as %s", lang)
			return l
		}
	}
	return lexers.Fallback
}

// BaseStyle returns base with the chroma style's text colours applied.
func (h *Highlighter) BaseStyle(base style.Style) style.Style {
	entry := h.style.Get(chroma.Background)
	if entry.Colour.IsSet() {
		base.Fg = fromColour(entry.Colour)
	}
	if entry.Background.IsSet() {
		base.Bg = fromColour(entry.Background)
	}
	return base
}

// Runs tokenizes src and returns its styled runs in order. Adjacent
// tokens with the same style are merged; unstyled text has no run.
func (h *Highlighter) Runs(src string) ([]Run, error) {
	lexer := chroma.Coalesce(h.Lexer(src))
	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", lexer.Config().Name, ErrTokenize, err)
	}

	base := h.style.Get(chroma.Text)
	var runs []Run
	var offset text.Offset
	for tok := it(); tok != chroma.EOF; tok = it() {
		n := text.OffsetDelta(utf8.RuneCountInString(tok.Value))
		s, styled := resolveTokenStyle(h.style.Get(tok.Type), base)
		if styled && n > 0 {
			r := text.RangeOf(offset, n)
			if k := len(runs); k > 0 && runs[k-1].Range.End == r.Start && runs[k-1].Style == s {
				runs[k-1].Range.End = r.End
			} else {
				runs = append(runs, Run{Range: r, Style: s})
			}
		}
		offset = offset.Add(n)
	}
	return runs, nil
}

// Apply replaces the style runs of buf with highlighted ones. Only the
// span where the runs differ is reported as restyled.
func (h *Highlighter) Apply(buf Target) error {
	src := buf.Text()
	runs, err := h.Runs(src)
	if err != nil {
		return err
	}
	if err := buf.SetStyles(runs); err != nil {
		return fmt.Errorf("apply highlight: %w", err)
	}
	h.logger.Debug("applied %d runs lexer=%s style=%s", len(runs), h.Lexer(src).Config().Name, h.style.Name)
	return nil
}

// resolveTokenStyle converts a chroma entry to a partial style meant to
// be merged over the buffer default. It reports false when the entry
// adds nothing to the base text style.
func resolveTokenStyle(entry, base chroma.StyleEntry) (style.Style, bool) {
	var s style.Style
	styled := false
	if entry.Colour.IsSet() && entry.Colour != base.Colour {
		s.Fg = fromColour(entry.Colour)
		styled = true
	}
	if entry.Bold == chroma.Yes {
		s.Font.Bold = true
		styled = true
	}
	if entry.Italic == chroma.Yes {
		s.Font.Italic = true
		styled = true
	}
	if entry.Underline == chroma.Yes {
		s.Decoration = s.Decoration.With(style.DecorUnderline)
		styled = true
	}
	return s, styled
}

func fromColour(c chroma.Colour) style.Color {
	return style.RGB(c.Red(), c.Green(), c.Blue())
}
