package parser

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/orizon-lang/tscpp/internal/ast"
	"github.com/orizon-lang/tscpp/internal/diagnostic"
	"github.com/orizon-lang/tscpp/internal/lexer"
	"github.com/orizon-lang/tscpp/internal/source"
)

func parseString(t *testing.T, input string) (*source.Source, *ast.ParseTree, error) {
	t.Helper()

	src := source.FromString("test.ts", input)
	tokens, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("Lex(%q) failed: %v", input, err)
	}
	tree, err := Parse(src, tokens)
	return src, tree, err
}

func dump(t *testing.T, input string) string {
	t.Helper()

	src, tree, err := parseString(t, input)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", input, err)
	}
	var out bytes.Buffer
	if err := ast.Fprint(&out, src.Buffer, tree); err != nil {
		t.Fatal(err)
	}
	return out.String()
}

func TestParseEmptyFunction(t *testing.T) {
	_, tree, err := parseString(t, "function f(): void {}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Exprs) != 1 {
		t.Fatalf("expected 1 expression, got %d", len(tree.Exprs))
	}

	fn, ok := tree.Exprs[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", tree.Exprs[0])
	}
	if len(fn.Args) != 0 {
		t.Errorf("expected no parameters, got %d", len(fn.Args))
	}
	if fn.ReturnType != ast.TypeVoid {
		t.Errorf("expected void return type, got %s", fn.ReturnType)
	}
	if fn.Body == nil || len(fn.Body.Exprs) != 0 {
		t.Errorf("expected empty body, got %+v", fn.Body)
	}
}

func TestParseAdd(t *testing.T) {
	src, tree, err := parseString(t, "function add(a: number, b: number): number { return a; }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fns := tree.Functions()
	if len(fns) != 1 {
		t.Fatalf("expected 1 function, got %d", len(fns))
	}
	fn := fns[0]
	if got := fn.Name.Text(src.Buffer); got != "add" {
		t.Errorf("name = %q, want add", got)
	}
	if len(fn.Args) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(fn.Args))
	}
	for i, want := range []string{"a", "b"} {
		arg := fn.Args[i]
		if got := arg.Name.Text(src.Buffer); got != want {
			t.Errorf("args[%d] name = %q, want %q", i, got, want)
		}
		if arg.Type != ast.TypeNumber {
			t.Errorf("args[%d] type = %s, want number", i, arg.Type)
		}
	}
	if fn.ReturnType != ast.TypeNumber {
		t.Errorf("return type = %s, want number", fn.ReturnType)
	}
	if len(fn.Body.Exprs) != 1 || fn.Body.Exprs[0].Kind() != ast.KindReturnStmt {
		t.Fatalf("expected a single return statement, got %v", fn.Body.Exprs)
	}
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:  "member call",
			input: `console.log("hi");`,
			expected: `rvalue_expr
  dot_expr console
    rvalue_expr
      func_call log
        rvalue_expr
          string_literal "hi"
`,
		},
		{
			name:  "if throw",
			input: `if (!ok) throw "bad"`,
			expected: `if_stmt
  rvalue_expr: boolean
    unary_expr !
      rvalue_expr
        lvalue_expr ok
  throw_stmt
    rvalue_expr
      string_literal "bad"
`,
		},
		{
			name:  "if else",
			input: `if (a) b; else c;`,
			expected: `if_stmt
  rvalue_expr
    lvalue_expr a
  rvalue_expr
    lvalue_expr b
  rvalue_expr
    lvalue_expr c
`,
		},
		{
			name:  "if else with blocks",
			input: `if (ok) { a; } else { b; }`,
			expected: `if_stmt
  rvalue_expr
    lvalue_expr ok
  block
    rvalue_expr
      lvalue_expr a
  block
    rvalue_expr
      lvalue_expr b
`,
		},
		{
			name:  "binary with distinct operands",
			input: `return a + b`,
			expected: `return_stmt
  rvalue_expr
    binary_expr +
      rvalue_expr
        lvalue_expr a
      rvalue_expr
        lvalue_expr b
`,
		},
		{
			name:  "number followed by operator",
			input: `1 <= 2`,
			expected: `rvalue_expr: boolean
  binary_expr <=
    rvalue_expr: number
      number_literal 1
    rvalue_expr: number
      number_literal 2
`,
		},
		{
			name:  "lone number",
			input: `42;`,
			expected: `rvalue_expr: number
  number_literal 42
`,
		},
		{
			name:  "const with inferred type",
			input: `const x = 1 + 2`,
			expected: `var_decl x: number
  rvalue_expr: number
    binary_expr +
      rvalue_expr: number
        number_literal 1
      rvalue_expr: number
        number_literal 2
`,
		},
		{
			name:  "const with annotation",
			input: `const ok: boolean = a === b`,
			expected: `var_decl ok: boolean
  rvalue_expr: boolean
    binary_expr ===
      rvalue_expr
        lvalue_expr a
      rvalue_expr
        lvalue_expr b
`,
		},
		{
			name:  "call arguments with trailing comma",
			input: `f(1, "s", x,)`,
			expected: `rvalue_expr
  func_call f
    rvalue_expr: number
      number_literal 1
    rvalue_expr
      string_literal "s"
    rvalue_expr
      lvalue_expr x
`,
		},
		{
			name:  "nested block with semicolons",
			input: `{ { };; return 1;; }`,
			expected: `block
  block
  return_stmt
    rvalue_expr: number
      number_literal 1
`,
		},
		{
			name:  "parameters with trailing comma",
			input: `function g(a: boolean,): void {}`,
			expected: `func_decl g(a: boolean): void
  block
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dump(t, tt.input); got != tt.expected {
				t.Errorf("tree mismatch\nexpected:\n%s\ngot:\n%s", tt.expected, got)
			}
		})
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, input := range []string{"", "  // only a comment\n", ";"} {
		_, tree, err := parseString(t, input)
		if input == ";" {
			// A stray semicolon is not an expression.
			if err == nil {
				t.Errorf("Parse(%q) should fail", input)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", input, err)
			continue
		}
		if len(tree.Exprs) != 0 {
			t.Errorf("Parse(%q) produced %d expressions", input, len(tree.Exprs))
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     ErrorKind
		message  string
		function string
		line     int
		column   int
	}{
		{
			name:     "missing comma between parameters",
			input:    "function f(a: number b: number): void {}",
			kind:     Expected,
			message:  "expected sym_rparen but got lit_ident",
			function: "parseParameters",
			line:     1,
			column:   22,
		},
		{
			name:     "else without if",
			input:    "a; else b;",
			kind:     ExpectedOneOf,
			message:  "expected one of [kw_function, kw_if, kw_throw, kw_return, kw_const, sym_lcurly, op_bang, lit_string, lit_number, lit_ident] but got kw_else",
			function: "parseExpression",
			line:     1,
			column:   4,
		},
		{
			name:     "else without branch",
			input:    "if (a) b; else",
			kind:     ExpectedAny,
			message:  "expected something here",
			function: "parseExpression",
			line:     1,
			column:   15,
		},
		{
			name:     "missing function name",
			input:    "function (): void {}",
			kind:     Expected,
			message:  "expected lit_ident but got sym_lparen",
			function: "parseFunction",
			line:     1,
			column:   10,
		},
		{
			name:     "bad return type",
			input:    "function f(): string {}",
			kind:     ExpectedOneOf,
			message:  "expected one of [type_boolean, type_number, type_void] but got lit_ident",
			function: "parseType",
			line:     1,
			column:   15,
		},
		{
			name:     "unclosed block",
			input:    "function f(): void {\n",
			kind:     ExpectedAny,
			message:  "expected something here",
			function: "parseExpression",
			line:     1,
			column:   21,
		},
		{
			name:     "missing rvalue",
			input:    "if (",
			kind:     ExpectedAny,
			message:  "expected something here",
			function: "parseRValue",
			line:     1,
			column:   5,
		},
		{
			name:     "bad rvalue start",
			input:    "return )",
			kind:     ExpectedOneOf,
			message:  "expected one of [op_bang, lit_string, lit_number, lit_ident] but got sym_rparen",
			function: "parseRValue",
			line:     1,
			column:   8,
		},
		{
			name:     "unary needs identifier",
			input:    "\n!1",
			kind:     Expected,
			message:  "expected lit_ident but got lit_number",
			function: "parseUnary",
			line:     2,
			column:   2,
		},
		{
			name:     "binary rhs",
			input:    "a + )",
			kind:     ExpectedOneOf,
			message:  "expected one of [lit_ident, lit_number] but got sym_rparen",
			function: "parseBinary",
			line:     1,
			column:   5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseString(t, tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tt.input)
			}

			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if perr.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", perr.Kind, tt.kind)
			}
			if got := perr.Message(); got != tt.message {
				t.Errorf("message = %q, want %q", got, tt.message)
			}
			if got := perr.Function(); got != tt.function {
				t.Errorf("function = %q, want %q", got, tt.function)
			}

			d := perr.Diagnostic()
			if d.Line != tt.line || d.Column != tt.column {
				t.Errorf("position = %d:%d, want %d:%d", d.Line, d.Column, tt.line, tt.column)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("Error() = %q does not contain %q", err.Error(), tt.message)
			}
		})
	}
}

// Lexer and parser diagnostics for the same offset agree on line and column.
func TestDiagnosticPositionsAgree(t *testing.T) {
	input := "function f(): void {\n  return @\n}"
	src := source.FromString("test.ts", input)
	_, lexErr := lexer.Lex(src)
	lexDiag, ok := diagnostic.From(lexErr)
	if !ok {
		t.Fatalf("lexer error %v is not a diagnostic", lexErr)
	}

	// Same position, reached by the parser instead.
	input2 := "function f(): void {\n  return )\n}"
	_, _, err := parseString(t, input2)
	parseDiag, ok := diagnostic.From(err)
	if !ok {
		t.Fatalf("parser error %v is not a diagnostic", err)
	}

	if lexDiag.Line != parseDiag.Line || lexDiag.Column != parseDiag.Column {
		t.Errorf("lexer %d:%d, parser %d:%d", lexDiag.Line, lexDiag.Column, parseDiag.Line, parseDiag.Column)
	}
	if parseDiag.Line != 2 || parseDiag.Column != 10 {
		t.Errorf("parser position %d:%d, want 2:10", parseDiag.Line, parseDiag.Column)
	}
}

func TestPeekPrimitivesDoNotConsume(t *testing.T) {
	src := source.FromString("test.ts", "a.b")
	tokens, err := lexer.Lex(src)
	if err != nil {
		t.Fatal(err)
	}
	p := New(src, tokens)

	if _, err := p.peekExpectAny(); err != nil {
		t.Fatalf("peekExpectAny: %v", err)
	}
	if _, err := p.peekExpect(lexer.LitIdent); err != nil {
		t.Fatalf("peekExpect: %v", err)
	}
	if _, err := p.peekExpect(lexer.SymDot); err == nil {
		t.Fatal("peekExpect(SymDot) should fail on an identifier")
	}
	if p.index != 0 {
		t.Fatalf("peek primitives advanced the parser to %d", p.index)
	}

	for _, kind := range []lexer.Kind{lexer.LitIdent, lexer.SymDot, lexer.LitIdent} {
		if _, err := p.expect(kind); err != nil {
			t.Fatalf("expect(%s): %v", kind, err)
		}
	}
	_, err = p.expectAny()
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Kind != ExpectedAny || !perr.AtEnd() {
		t.Fatalf("expectAny at end = %v", err)
	}
}

func TestErrorWithoutTokens(t *testing.T) {
	p := New(source.FromString("empty.ts", ""), nil)
	_, err := p.expectAny()

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if _, ok := perr.Token(); ok {
		t.Error("Token() should report no token")
	}
	d := perr.Diagnostic()
	if d.Line != 1 || d.Column != 1 {
		t.Errorf("position = %d:%d, want 1:1", d.Line, d.Column)
	}
	if d.Code != "P001" {
		t.Errorf("code = %s, want P001", d.Code)
	}
}
