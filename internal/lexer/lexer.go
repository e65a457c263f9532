// Package lexer implements the tscpp lexical analyzer. It scans the source
// buffer once, left to right, and produces compact Tokens that point back
// into the buffer.
package lexer

import (
	"bytes"
	"errors"
	"math"

	"github.com/orizon-lang/tscpp/internal/source"
)

// ErrSourceTooLarge is returned for buffers whose offsets do not fit a Token.
var ErrSourceTooLarge = errors.New("source file too large")

type fixedToken struct {
	kind Kind
	text string
}

var keywordsAndTypes = []fixedToken{
	{KwFunction, "function"},
	{KwIf, "if"},
	{KwThrow, "throw"},
	{KwReturn, "return"},
	{KwConst, "const"},
	{KwElse, "else"},

	{TypeBoolean, "boolean"},
	{TypeNumber, "number"},
	{TypeVoid, "void"},
}

// symbolsAndOps is matched in order by prefix. An entry must never be a
// prefix of a later one, so multi-byte operators come first.
var symbolsAndOps = []fixedToken{
	{OpTripleEq, "==="},
	{SymFatArrow, "=>"},
	{OpLtEq, "<="},

	{SymLParen, "("},
	{SymRParen, ")"},

	{SymLCurly, "{"},
	{SymRCurly, "}"},

	{SymColon, ":"},
	{SymSemicolon, ";"},
	{SymDot, "."},
	{SymComma, ","},

	{OpMinus, "-"},
	{OpPlus, "+"},
	{OpAssign, "="},
	{OpBang, "!"},
}

// Lexer represents the lexical analyzer state for one source buffer
type Lexer struct {
	src *source.Source
	buf []byte
	pos int
}

// New creates a new lexer instance
func New(src *source.Source) *Lexer {
	return &Lexer{src: src, buf: src.Buffer}
}

// Lex tokenizes the whole source. The first error stops tokenization.
func Lex(src *source.Source) ([]Token, error) {
	if uint64(len(src.Buffer)) > math.MaxUint32 {
		return nil, ErrSourceTooLarge
	}

	l := New(src)
	tokens := make([]Token, 0, len(src.Buffer)/4)
	for {
		tok, ok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// Next returns the next token. ok is false once the buffer is exhausted.
func (l *Lexer) Next() (Token, bool, error) {
	for l.pos < len(l.buf) {
		switch l.buf[l.pos] {
		case 0, ' ', '\n', '\r', '\t':
			l.pos++
			continue
		}

		if tok, ok := l.matchKeyword(); ok {
			return tok, true, nil
		}
		if tok, ok := l.matchSymbol(); ok {
			return tok, true, nil
		}

		c := l.buf[l.pos]
		switch {
		case c == '"' || c == '\'' || c == '`':
			size, terminated := scanString(l.buf, l.pos)
			if !terminated {
				return Token{}, false, l.errorAt(UnterminatedString, l.pos, size)
			}
			return l.emit(LitString, size), true, nil

		case isIdentStart(c):
			return l.emit(LitIdent, scanIdent(l.buf, l.pos)), true, nil

		case isDigit(c):
			return l.emit(LitNumber, scanNumber(l.buf, l.pos)), true, nil

		case c == '/' && l.peekByte(1) == '*':
			if err := l.skipBlockComment(); err != nil {
				return Token{}, false, err
			}
			continue

		case c == '/' && l.peekByte(1) == '/':
			l.skipLineComment()
			continue
		}

		return Token{}, false, l.errorAt(UnknownCharacter, l.pos, 1)
	}

	return Token{}, false, nil
}

func (l *Lexer) emit(kind Kind, size int) Token {
	tok := Token{Kind: kind, Pos: uint32(l.pos)}
	l.pos += size
	return tok
}

func (l *Lexer) peekByte(ahead int) byte {
	if l.pos+ahead < len(l.buf) {
		return l.buf[l.pos+ahead]
	}
	return 0
}

// matchKeyword accepts a keyword only at a word boundary, so "functionX"
// stays a single identifier.
func (l *Lexer) matchKeyword() (Token, bool) {
	rest := l.buf[l.pos:]
	for _, kw := range keywordsAndTypes {
		if !bytes.HasPrefix(rest, []byte(kw.text)) {
			continue
		}
		if len(rest) > len(kw.text) && isIdentByte(rest[len(kw.text)]) {
			continue
		}
		return l.emit(kw.kind, len(kw.text)), true
	}
	return Token{}, false
}

func (l *Lexer) matchSymbol() (Token, bool) {
	rest := l.buf[l.pos:]
	for _, sym := range symbolsAndOps {
		if bytes.HasPrefix(rest, []byte(sym.text)) {
			return l.emit(sym.kind, len(sym.text)), true
		}
	}
	return Token{}, false
}

func (l *Lexer) skipLineComment() {
	l.pos += len("//")
	for l.pos < len(l.buf) && l.buf[l.pos] != '\n' {
		l.pos++
	}
}

func (l *Lexer) skipBlockComment() error {
	start := l.pos
	end := bytes.Index(l.buf[start+len("/*"):], []byte("*/"))
	if end < 0 {
		return l.errorAt(UnterminatedBlockComment, start, len("/*"))
	}
	l.pos = start + len("/*") + end + len("*/")
	return nil
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '$'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

// scanIdent returns the length of the identifier starting at pos.
func scanIdent(buf []byte, pos int) int {
	size := 0
	for pos+size < len(buf) && isIdentByte(buf[pos+size]) {
		size++
	}
	return size
}

// scanNumber returns the length of the digits-and-dots run starting at pos.
func scanNumber(buf []byte, pos int) int {
	size := 0
	for pos+size < len(buf) && (isDigit(buf[pos+size]) || buf[pos+size] == '.') {
		size++
	}
	return size
}

// scanString returns the length of the quoted literal starting at pos,
// including both delimiters. Without a closing delimiter the size runs to
// the end of the buffer and terminated is false.
func scanString(buf []byte, pos int) (size int, terminated bool) {
	if pos >= len(buf) {
		return 0, false
	}
	quote := buf[pos]
	if i := bytes.IndexByte(buf[pos+1:], quote); i >= 0 {
		return i + 2, true
	}
	return len(buf) - pos, false
}
