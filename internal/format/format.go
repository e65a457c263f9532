// Package format pretty-prints generated C++ text. It only touches
// whitespace: lines are re-indented by brace depth, trailing blanks are
// trimmed and the result ends with exactly one newline.
package format

import (
	"bytes"
	"strings"
)

// Options controls formatting style.
type Options struct {
	// IndentSize is the number of spaces per level when PreferTabs is false.
	IndentSize int
	// PreferTabs indents with one tab per level.
	PreferTabs bool
	// PreserveNewlineStyle: when true, CRLF in input keeps CRLF in output; else LF.
	PreserveNewlineStyle bool
}

// DefaultOptions returns sane defaults.
func DefaultOptions() Options {
	return Options{IndentSize: 4, PreserveNewlineStyle: true}
}

// FormatBytes formats source bytes and returns formatted bytes.
func FormatBytes(in []byte, opts Options) []byte {
	return []byte(FormatText(string(in), opts))
}

// FormatText re-indents text by brace depth. Trailing spaces and tabs are
// dropped and the result ends with exactly one newline, CRLF when the
// input used CRLF and the options preserve it.
func FormatText(text string, opts Options) string {
	useCRLF := opts.PreserveNewlineStyle && strings.Contains(text, "\r\n")

	lines := splitLines(text)
	reindent(lines, opts)

	return joinLines(lines, useCRLF)
}

// splitLines normalizes newlines and drops the final empty line.
func splitLines(text string) []string {
	norm := strings.ReplaceAll(text, "\r\n", "\n")
	norm = strings.ReplaceAll(norm, "\r", "\n")
	if norm == "" {
		return nil
	}

	lines := strings.Split(norm, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func joinLines(lines []string, useCRLF bool) string {
	sep := "\n"
	if useCRLF {
		sep = "\r\n"
	}

	var buf bytes.Buffer
	for i, ln := range lines {
		if i > 0 {
			buf.WriteString(sep)
		}
		buf.WriteString(ln)
	}
	buf.WriteString(sep)

	return buf.String()
}

// reindent rewrites the leading whitespace of every line. A line that
// starts with a closing brace is outdented one level.
func reindent(lines []string, opts Options) {
	unit := strings.Repeat(" ", opts.IndentSize)
	if opts.PreferTabs {
		unit = "\t"
	}

	depth := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			lines[i] = ""
			continue
		}

		opens, closes, leading := braceBalance(trimmed)
		level := depth - leading
		if level < 0 {
			level = 0
		}
		lines[i] = strings.Repeat(unit, level) + trimmed

		depth += opens - closes
		if depth < 0 {
			depth = 0
		}
	}
}

// braceBalance counts the braces of a line outside string and character
// literals and line comments. leading is the number of closing braces
// before any other token.
func braceBalance(line string) (opens, closes, leading int) {
	var quote byte
	inLead := true
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}

		switch c {
		case '"', '\'':
			quote = c
		case '/':
			if i+1 < len(line) && line[i+1] == '/' {
				return opens, closes, leading
			}
		case '{':
			opens++
		case '}':
			closes++
			if inLead {
				leading++
			}
			continue
		case ' ', '\t':
			continue
		}
		inLead = false
	}
	return opens, closes, leading
}
