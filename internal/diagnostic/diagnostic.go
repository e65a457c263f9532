// Diagnostic reporting for the tscpp translator.
// Every stage error converts to the same value-type Diagnostic, built at
// the failure site and formatted only when shown.

package diagnostic

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/orizon-lang/tscpp/internal/errors"
	"github.com/orizon-lang/tscpp/internal/position"
)

// Diagnostic is the generic error shape every pipeline stage renders to.
type Diagnostic struct {
	Category errors.ErrorCategory
	Code     string
	Message  string
	Function string
	Path     string
	Line     int
	Column   int
	Offset   int
	// Width is the number of source bytes the diagnostic points at.
	Width int
}

// Diagnoser is implemented by errors that can describe themselves as a
// Diagnostic.
type Diagnoser interface {
	error
	Diagnostic() Diagnostic
}

// New builds a Diagnostic for the byte offset into buf.
func New(category errors.ErrorCategory, code, message string, caller errors.Caller, path string, buf []byte, offset, width int) Diagnostic {
	pos := position.FromOffset(path, buf, offset)
	var function string
	if caller != 0 {
		function = caller.Name()
	}
	return Diagnostic{
		Category: category,
		Code:     code,
		Message:  message,
		Function: function,
		Path:     path,
		Line:     pos.Line,
		Column:   pos.Column,
		Offset:   pos.Offset,
		Width:    width,
	}
}

// Position returns the location of the diagnostic.
func (d Diagnostic) Position() position.Position {
	return position.Position{
		Filename: d.Path,
		Line:     d.Line,
		Column:   d.Column,
		Offset:   d.Offset,
	}
}

// String formats the diagnostic as "path:line:column: message (function)".
func (d Diagnostic) String() string {
	var b strings.Builder
	if d.Path != "" {
		b.WriteString(d.Path)
		b.WriteByte(':')
	}
	fmt.Fprintf(&b, "%d:%d: %s", d.Line, d.Column, d.Message)
	if d.Function != "" {
		fmt.Fprintf(&b, " (%s)", d.Function)
	}
	return b.String()
}

// Show writes the diagnostic followed by the offending source line with a
// caret under the reported columns.
func (d Diagnostic) Show(w io.Writer, buf []byte) error {
	level := "error"
	if d.Code != "" {
		level = fmt.Sprintf("error[%s]", d.Code)
	}
	if _, err := fmt.Fprintf(w, "%s: %s\n", level, d.String()); err != nil {
		return err
	}
	if buf == nil {
		return nil
	}
	if excerpt := position.Highlight(buf, d.Position(), d.Width); excerpt != "" {
		if _, err := fmt.Fprintln(w, excerpt); err != nil {
			return err
		}
	}
	return nil
}

// From extracts the Diagnostic carried by err, if any.
func From(err error) (Diagnostic, bool) {
	var d Diagnoser
	if stderrors.As(err, &d) {
		return d.Diagnostic(), true
	}
	return Diagnostic{}, false
}
