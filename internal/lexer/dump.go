package lexer

import (
	"fmt"
	"io"

	"github.com/orizon-lang/tscpp/internal/source"
)

// Dump writes one line per token with its kind, text and position.
func Dump(w io.Writer, src *source.Source, tokens []Token) error {
	for _, tok := range tokens {
		pos := src.Position(int(tok.Pos))
		if _, err := fmt.Fprintf(w, "Token: %-15s | Value: %-20q | Position: %d:%d\n",
			tok.Kind, tok.Text(src.Buffer), pos.Line, pos.Column); err != nil {
			return err
		}
	}
	return nil
}
