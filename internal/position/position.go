// Package position provides source position tracking for the tscpp
// translator. Every stage reports failures as byte offsets into the
// source buffer; this package turns them into 1-based line and column
// numbers so that lexer, parser and code generator diagnostics agree.
package position

import (
	"fmt"
	"path/filepath"
)

// Position represents a single point in source code
type Position struct {
	Filename string // Source file name
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Offset   int    // 0-based byte offset in source
}

// IsValid returns true if the position is valid
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0 && p.Offset >= 0
}

// String returns a string representation of the position
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", filepath.Base(p.Filename), p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// FromOffset converts a byte offset to a Position by scanning buf from the
// start and counting newlines. Offsets past the end are clamped to len(buf).
func FromOffset(filename string, buf []byte, offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(buf) {
		offset = len(buf)
	}

	line := 1
	column := 1

	for i := 0; i < offset; i++ {
		if buf[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}

	return Position{
		Filename: filename,
		Line:     line,
		Column:   column,
		Offset:   offset,
	}
}

// LineBounds returns the byte range [start, end) of the line containing
// offset, excluding the terminating newline.
func LineBounds(buf []byte, offset int) (start, end int) {
	if offset > len(buf) {
		offset = len(buf)
	}
	if offset < 0 {
		offset = 0
	}

	start = offset
	for start > 0 && buf[start-1] != '\n' {
		start--
	}

	end = offset
	for end < len(buf) && buf[end] != '\n' {
		end++
	}

	return start, end
}
