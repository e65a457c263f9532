package lexer

import "fmt"

// Kind classifies a token. Kinds are grouped in families; the family
// predicates below rely on the declaration order.
type Kind uint8

const (
	None Kind = iota

	KwFunction
	KwIf
	KwThrow
	KwReturn
	KwConst
	KwElse

	TypeBoolean
	TypeNumber
	TypeVoid

	LitIdent
	LitString
	LitNumber

	SymLParen
	SymRParen

	SymLCurly
	SymRCurly

	SymFatArrow
	SymColon
	SymSemicolon
	SymDot
	SymComma

	OpLtEq
	OpMinus
	OpPlus
	OpTripleEq
	OpAssign

	OpBang

	kindCount
)

const (
	keywordStart = KwFunction
	keywordEnd   = KwElse
	typeStart    = TypeBoolean
	typeEnd      = TypeVoid
	literalStart = LitIdent
	literalEnd   = LitNumber
)

// kindNames provides string representations for token kinds
var kindNames = [kindCount]string{
	None: "none",

	KwFunction: "kw_function",
	KwIf:       "kw_if",
	KwThrow:    "kw_throw",
	KwReturn:   "kw_return",
	KwConst:    "kw_const",
	KwElse:     "kw_else",

	TypeBoolean: "type_boolean",
	TypeNumber:  "type_number",
	TypeVoid:    "type_void",

	LitIdent:  "lit_ident",
	LitString: "lit_string",
	LitNumber: "lit_number",

	SymLParen: "sym_lparen",
	SymRParen: "sym_rparen",

	SymLCurly: "sym_lcurly",
	SymRCurly: "sym_rcurly",

	SymFatArrow:  "sym_fat_arrow",
	SymColon:     "sym_colon",
	SymSemicolon: "sym_semicolon",
	SymDot:       "sym_dot",
	SymComma:     "sym_comma",

	OpLtEq:     "op_lt_eq",
	OpMinus:    "op_minus",
	OpPlus:     "op_plus",
	OpTripleEq: "op_triple_eq",
	OpAssign:   "op_assign",

	OpBang: "op_bang",
}

// String returns the name of the kind, e.g. "kw_function".
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(k))
}

// IsKeyword reports whether k is one of the statement keywords.
func (k Kind) IsKeyword() bool { return k >= keywordStart && k <= keywordEnd }

// IsType reports whether k is a primitive type keyword.
func (k Kind) IsType() bool { return k >= typeStart && k <= typeEnd }

// IsLiteral reports whether k is an identifier, string or number literal.
func (k Kind) IsLiteral() bool { return k >= literalStart && k <= literalEnd }

// Token is a kind plus the byte offset of its first byte. The token text
// is not stored; Width rescans the source buffer using the same rules the
// lexer applied, so a Token costs eight bytes regardless of its length.
type Token struct {
	Kind Kind
	Pos  uint32
}

// String returns a debug representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Kind: %s, Pos: %d}", t.Kind, t.Pos)
}

// Width returns the length in bytes of the token inside buf.
func (t Token) Width(buf []byte) int {
	pos := int(t.Pos)
	if pos > len(buf) {
		return 0
	}

	switch t.Kind {
	case LitIdent:
		return scanIdent(buf, pos)
	case LitNumber:
		return scanNumber(buf, pos)
	case LitString:
		size, _ := scanString(buf, pos)
		return size
	case None:
		return 0
	}

	size := len(fixedText[t.Kind])
	if pos+size > len(buf) {
		return len(buf) - pos
	}
	return size
}

// Text returns the source text of the token.
func (t Token) Text(buf []byte) string {
	pos := int(t.Pos)
	if pos > len(buf) {
		return ""
	}
	return string(buf[pos : pos+t.Width(buf)])
}

// End returns the offset just past the token.
func (t Token) End(buf []byte) int {
	return int(t.Pos) + t.Width(buf)
}

// fixedText holds the spelling of every kind whose text never varies.
var fixedText = func() [kindCount]string {
	var text [kindCount]string
	for _, ft := range keywordsAndTypes {
		text[ft.kind] = ft.text
	}
	for _, ft := range symbolsAndOps {
		text[ft.kind] = ft.text
	}
	return text
}()

// Spelling returns the fixed source text of k, or "" for literals.
func (k Kind) Spelling() string {
	if k < kindCount {
		return fixedText[k]
	}
	return ""
}
