// Package compiler drives the translation pipeline: it lexes, parses and
// generates one source at a time, compiles batches of files in parallel
// and recompiles files as they change.
package compiler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/orizon-lang/tscpp/internal/ast"
	"github.com/orizon-lang/tscpp/internal/codegen"
	"github.com/orizon-lang/tscpp/internal/diagnostic"
	"github.com/orizon-lang/tscpp/internal/format"
	"github.com/orizon-lang/tscpp/internal/lexer"
	"github.com/orizon-lang/tscpp/internal/parser"
	"github.com/orizon-lang/tscpp/internal/source"
	"github.com/orizon-lang/tscpp/internal/vfs"
)

// Options configures a compilation
type Options struct {
	// Format re-indents the generated text.
	Format bool
	// Jobs bounds parallel compilations; zero means GOMAXPROCS.
	Jobs int
	// KeepSource keeps the input of CompileFile in Result.Source.
	KeepSource bool
	// Logger receives stage timings at debug level; nil discards them.
	Logger *slog.Logger
	// FS receives output files; nil means the OS file system.
	FS vfs.FileSystem
	// Stdout receives outputs named "-".
	Stdout io.Writer
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o Options) fs() vfs.FileSystem {
	if o.FS == nil {
		return vfs.NewOS()
	}
	return o.FS
}

// Result holds every stage product of one compilation.
type Result struct {
	Source *source.Source
	Tokens []lexer.Token
	Tree   *ast.ParseTree
	Output []byte
}

// Failure wraps a pipeline error together with the input it refers to.
type Failure struct {
	Source *source.Source
	Err    error
}

func (f *Failure) Error() string {
	if _, ok := diagnostic.From(f.Err); ok {
		return f.Err.Error()
	}
	return fmt.Sprintf("%s: %v", f.Source.Path, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Show renders the failure with the offending source line when the error
// carries a diagnostic.
func (f *Failure) Show(w io.Writer) error {
	if d, ok := diagnostic.From(f.Err); ok {
		return d.Show(w, f.Source.Buffer)
	}
	_, err := fmt.Fprintf(w, "error: %s\n", f.Error())
	return err
}

func fail(src *source.Source, err error) error {
	return &Failure{Source: src, Err: err}
}

// Compile runs the pipeline over src. Nothing is returned unless every
// stage succeeds.
func Compile(ctx context.Context, src *source.Source, opts Options) (*Result, error) {
	log := opts.logger()
	res := &Result{Source: src}

	start := time.Now()
	tokens, err := lexer.Lex(src)
	if err != nil {
		return nil, fail(src, err)
	}
	res.Tokens = tokens
	lexed := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tree, err := parser.Parse(src, tokens)
	if err != nil {
		return nil, fail(src, err)
	}
	res.Tree = tree
	parsed := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := codegen.Generate(src, tree)
	if err != nil {
		return nil, fail(src, err)
	}
	if opts.Format {
		out = format.FormatBytes(out, format.DefaultOptions())
	}
	res.Output = out
	done := time.Now()

	log.Debug("compiled",
		"path", src.Path,
		"bytes", src.Len(),
		"tokens", len(tokens),
		"exprs", len(tree.Exprs),
		"nodes", ast.Count(tree),
		"lex", lexed.Sub(start),
		"parse", parsed.Sub(lexed),
		"codegen", done.Sub(parsed),
	)
	return res, nil
}

// CompileFile opens path and compiles it. The input stays available in
// Result.Source only with Options.KeepSource; errors always keep it.
func CompileFile(ctx context.Context, path string, opts Options) (*Result, error) {
	f, err := source.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}

	res, err := Compile(ctx, f.Source, opts)
	if err != nil || opts.KeepSource {
		if derr := f.Detach(); derr != nil && err == nil {
			return nil, derr
		}
		return res, err
	}

	if err := f.Close(); err != nil {
		return nil, err
	}
	res.Source = nil
	return res, nil
}
