package textbuf

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/lineflow/internal/doclock"
	"github.com/dshills/lineflow/internal/style"
	"github.com/dshills/lineflow/internal/text"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// Buffer is a rune buffer with style runs.
type Buffer struct {
	id       uuid.UUID
	runes    []rune
	runs     []StyleRun
	def      style.Style
	revision uint64
	lock     *doclock.Lock

	observers []observerEntry
	nextObs   int
}

type observerEntry struct {
	id  int
	obs text.MutationObserver
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithDefaultStyle sets the style of unstyled text.
func WithDefaultStyle(s style.Style) Option {
	return func(b *Buffer) { b.def = s }
}

// WithLock sets the document lock asserted in debug builds.
func WithLock(l *doclock.Lock) Option {
	return func(b *Buffer) { b.lock = l }
}

// New creates an empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		id:  uuid.New(),
		def: style.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewFromString creates a buffer holding s. Line endings are normalized
// to "\n".
func NewFromString(s string, opts ...Option) *Buffer {
	b := New(opts...)
	b.runes = []rune(normalizeLineEndings(s))
	return b
}

// NewFromReader creates a buffer from the contents of r.
func NewFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read buffer: %w", err)
	}
	return NewFromString(string(data), opts...), nil
}

// normalizeLineEndings converts CRLF and CR to LF.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// ID returns the buffer's identity.
func (b *Buffer) ID() uuid.UUID { return b.id }

// Revision is incremented by every mutation.
func (b *Buffer) Revision() uint64 { return b.revision }

// End returns the number of runes in the buffer.
func (b *Buffer) End() text.Offset { return text.Offset(len(b.runes)) }

// Text returns the buffer content.
func (b *Buffer) Text() string { return string(b.runes) }

// TextRange returns the content in r.
func (b *Buffer) TextRange(r text.Range) (string, error) {
	if err := b.checkRange(r); err != nil {
		return "", err
	}
	return string(b.runes[r.Start:r.End]), nil
}

// CharAt returns the rune at offset. offset must be below End.
func (b *Buffer) CharAt(offset text.Offset) rune {
	b.lock.AssertHeld()
	return b.runes[offset]
}

// ComputeStartOfLine returns the offset after the newline preceding
// offset, or 0.
func (b *Buffer) ComputeStartOfLine(offset text.Offset) text.Offset {
	offset = text.Clamp(offset, 0, b.End())
	for offset > 0 && b.runes[offset-1] != '\n' {
		offset--
	}
	return offset
}

// ComputeEndOfLine returns the offset of the newline at or after
// offset, or End.
func (b *Buffer) ComputeEndOfLine(offset text.Offset) text.Offset {
	end := b.End()
	offset = text.Clamp(offset, 0, end)
	for offset < end && b.runes[offset] != '\n' {
		offset++
	}
	return offset
}

// LineCount returns the number of hard lines. A trailing newline starts
// an empty last line.
func (b *Buffer) LineCount() int {
	n := 1
	for _, r := range b.runes {
		if r == '\n' {
			n++
		}
	}
	return n
}

// DefaultStyle returns the style of unstyled text.
func (b *Buffer) DefaultStyle() style.Style { return b.def }

// SetDefaultStyle changes the style of unstyled text. The whole buffer
// is reported as restyled.
func (b *Buffer) SetDefaultStyle(s style.Style) {
	b.lock.AssertHeld()
	if b.def.Equal(s) {
		return
	}
	b.def = s
	b.revision++
	b.notifyStyle(text.Range{Start: 0, End: b.End()})
}

// Insert inserts s before offset and returns the inserted range.
func (b *Buffer) Insert(offset text.Offset, s string) (text.Range, error) {
	b.lock.AssertHeld()
	if offset < 0 || offset > b.End() {
		return text.Range{}, fmt.Errorf("insert at %d: %w", int(offset), ErrOffsetOutOfRange)
	}
	ins := []rune(normalizeLineEndings(s))
	if len(ins) == 0 {
		return text.Range{Start: offset, End: offset}, nil
	}
	b.runes = append(b.runes[:offset], append(ins, b.runes[offset:]...)...)
	r := text.RangeOf(offset, text.OffsetDelta(len(ins)))
	b.runs = shiftRunsForInsert(b.runs, r)
	b.revision++
	for _, e := range b.observers {
		e.obs.DidInsertBefore(r)
	}
	return r, nil
}

// Delete removes the content in r.
func (b *Buffer) Delete(r text.Range) error {
	b.lock.AssertHeld()
	if err := b.checkRange(r); err != nil {
		return fmt.Errorf("delete %v: %w", r, err)
	}
	if r.IsEmpty() {
		return nil
	}
	b.runes = append(b.runes[:r.Start], b.runes[r.End:]...)
	b.runs = shiftRunsForDelete(b.runs, r)
	b.revision++
	for _, e := range b.observers {
		e.obs.DidDeleteAt(r)
	}
	return nil
}

// Replace replaces the content in r with s and returns the range of the
// new content. Observers see a deletion followed by an insertion.
func (b *Buffer) Replace(r text.Range, s string) (text.Range, error) {
	if err := b.checkRange(r); err != nil {
		return text.Range{}, fmt.Errorf("replace %v: %w", r, err)
	}
	if err := b.Delete(r); err != nil {
		return text.Range{}, err
	}
	return b.Insert(r.Start, s)
}

// SetStyle applies s to the content in r, replacing any style there.
func (b *Buffer) SetStyle(r text.Range, s style.Style) error {
	b.lock.AssertHeld()
	if err := b.checkRange(r); err != nil {
		return fmt.Errorf("set style %v: %w", r, err)
	}
	if r.IsEmpty() {
		return nil
	}
	b.runs = setRun(b.runs, StyleRun{Range: r, Style: s})
	b.revision++
	b.notifyStyle(r)
	return nil
}

// ClearStyles removes every style run.
func (b *Buffer) ClearStyles() {
	b.lock.AssertHeld()
	if len(b.runs) == 0 {
		return
	}
	r := text.Range{Start: b.runs[0].Start, End: b.runs[len(b.runs)-1].End}
	b.runs = nil
	b.revision++
	b.notifyStyle(r)
}

// SetStyles replaces every style run with runs, which must be sorted and
// must not overlap. Observers are told only about the span whose styles
// changed, and nothing at all when runs match the current ones.
func (b *Buffer) SetStyles(runs []StyleRun) error {
	b.lock.AssertHeld()
	next := make([]StyleRun, 0, len(runs))
	var prev text.Offset
	for _, run := range runs {
		if err := b.checkRange(run.Range); err != nil || run.Start < prev {
			return fmt.Errorf("set styles %v: %w", run.Range, ErrRangeInvalid)
		}
		prev = run.End
		if !run.IsEmpty() {
			next = append(next, run)
		}
	}
	span, changed := changedSpan(b.runs, next)
	b.runs = next
	if !changed {
		return nil
	}
	b.revision++
	b.notifyStyle(span)
	return nil
}

// AddObserver registers o for mutation notifications and returns a
// function that removes it.
func (b *Buffer) AddObserver(o text.MutationObserver) (remove func()) {
	b.nextObs++
	id := b.nextObs
	b.observers = append(b.observers, observerEntry{id: id, obs: o})
	return func() {
		for i, e := range b.observers {
			if e.id == id {
				b.observers = append(b.observers[:i], b.observers[i+1:]...)
				return
			}
		}
	}
}

func (b *Buffer) notifyStyle(r text.Range) {
	for _, e := range b.observers {
		e.obs.DidChangeStyle(r)
	}
}

func (b *Buffer) checkRange(r text.Range) error {
	if r.Start < 0 || r.Start > r.End || r.End > b.End() {
		return ErrRangeInvalid
	}
	return nil
}
