// Package source holds the immutable input of one compilation: the path
// of the file being translated and the full byte buffer of its contents.
package source

import (
	"bytes"
	"errors"

	"github.com/orizon-lang/tscpp/internal/position"
)

// ErrNotRegular is returned by Open for directories, devices and pipes.
var ErrNotRegular = errors.New("file is not a regular file")

// Source pairs a path with the bytes it was read from. Buffer must not be
// modified once the Source has been handed to a pipeline stage.
type Source struct {
	Path   string
	Buffer []byte
}

// New creates a Source from an in-memory buffer.
func New(path string, buf []byte) *Source {
	return &Source{Path: path, Buffer: buf}
}

// FromString creates a Source from text, mostly useful in tests.
func FromString(path, text string) *Source {
	return New(path, []byte(text))
}

// Len returns the size of the buffer in bytes.
func (s *Source) Len() int { return len(s.Buffer) }

// Position converts a byte offset to a 1-based line/column position.
func (s *Source) Position(offset int) position.Position {
	return position.FromOffset(s.Path, s.Buffer, offset)
}

// File is a Source backed by an open file. Close releases the mapping or
// buffer; the Source must not be used afterwards.
type File struct {
	*Source
	release func() error
}

// Close releases the resources held by the file. It is safe to call twice.
func (f *File) Close() error {
	if f == nil || f.release == nil {
		return nil
	}
	release := f.release
	f.release = nil
	f.Buffer = nil
	return release()
}

// Detach copies the contents to the heap and releases the file. The
// Source, and every error pointing at it, stays valid afterwards.
func (f *File) Detach() error {
	if f == nil || f.release == nil {
		return nil
	}
	release := f.release
	f.release = nil
	f.Buffer = bytes.Clone(f.Buffer)
	return release()
}

// Open reads path into a Source. On unix systems the file is mapped
// read-only into memory instead of copied.
func Open(path string) (*File, error) {
	buf, release, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	return &File{Source: New(path, buf), release: release}, nil
}
