package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dshills/lineflow/internal/text"
	"github.com/dshills/lineflow/internal/textbuf"
)

// Document is the file being viewed and its buffer. Every method must
// be called with the document lock held.
type Document struct {
	// Path is the absolute file path, empty for a scratch buffer.
	Path   string
	Buffer *textbuf.Buffer

	modified bool
}

// OpenDocument reads path into a new buffer. A missing file yields an
// empty buffer that saves to path; an empty path yields a scratch
// buffer.
func OpenDocument(path string, opts ...textbuf.Option) (*Document, error) {
	if path == "" {
		return &Document{Buffer: textbuf.New(opts...)}, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &FileError{Op: "open", Path: path, Err: err}
	}

	f, err := os.Open(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return &Document{Path: abs, Buffer: textbuf.New(opts...)}, nil
	}
	if err != nil {
		return nil, &FileError{Op: "open", Path: abs, Err: err}
	}
	defer f.Close()

	buf, err := textbuf.NewFromReader(f, opts...)
	if err != nil {
		return nil, &FileError{Op: "read", Path: abs, Err: err}
	}
	return &Document{Path: abs, Buffer: buf}, nil
}

// Name returns the file's base name.
func (d *Document) Name() string {
	if d.Path == "" {
		return "[scratch]"
	}
	return filepath.Base(d.Path)
}

// IsModified reports whether the buffer differs from the saved file.
func (d *Document) IsModified() bool { return d.modified }

// SetModified sets the modified flag.
func (d *Document) SetModified(m bool) { d.modified = m }

// Save writes the buffer to Path.
func (d *Document) Save() error {
	if d.Path == "" {
		return ErrNoFilePath
	}
	if err := os.WriteFile(d.Path, []byte(d.Buffer.Text()), 0o644); err != nil {
		return &FileError{Op: "save", Path: d.Path, Err: err}
	}
	d.modified = false
	return nil
}

// Reload replaces the buffer contents with the file on disk. It reports
// false when the contents were already identical.
func (d *Document) Reload() (bool, error) {
	if d.Path == "" {
		return false, ErrNoFilePath
	}
	f, err := os.Open(d.Path)
	if err != nil {
		return false, &FileError{Op: "reload", Path: d.Path, Err: err}
	}
	defer f.Close()

	fresh, err := textbuf.NewFromReader(f)
	if err != nil {
		return false, &FileError{Op: "reload", Path: d.Path, Err: err}
	}
	content := fresh.Text()
	if content == d.Buffer.Text() {
		return false, nil
	}
	if _, err := d.Buffer.Replace(text.Range{Start: 0, End: d.Buffer.End()}, content); err != nil {
		return false, &FileError{Op: "reload", Path: d.Path, Err: err}
	}
	d.modified = false
	return true, nil
}
