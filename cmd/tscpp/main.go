// Package main provides the entry point for the tscpp translator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/orizon-lang/tscpp/internal/ast"
	"github.com/orizon-lang/tscpp/internal/cli"
	"github.com/orizon-lang/tscpp/internal/compiler"
	"github.com/orizon-lang/tscpp/internal/lexer"
	"github.com/orizon-lang/tscpp/internal/parser"
	"github.com/orizon-lang/tscpp/internal/source"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type flags struct {
	output     string
	verbose    bool
	version    bool
	jsonOut    bool
	configPath string
	tokens     bool
	parse      bool
	format     bool
	watch      bool
	jobs       int
	logLevel   string
	logJSON    string
	logJournal bool
}

func newFlagSet(stderr io.Writer) (*flag.FlagSet, *flags) {
	f := &flags{}
	fs := flag.NewFlagSet("tscpp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { showUsage(stderr) }

	fs.StringVar(&f.output, "o", "a.cpp", "output file, - for standard output")
	fs.StringVar(&f.output, "output", "a.cpp", "output file, - for standard output")
	fs.BoolVar(&f.verbose, "v", false, "log every compilation stage")
	fs.BoolVar(&f.verbose, "verbose", false, "log every compilation stage")
	fs.BoolVar(&f.version, "version", false, "show version information")
	fs.BoolVar(&f.jsonOut, "json", false, "print version information as JSON")
	fs.StringVar(&f.configPath, "config", "tscpp.cue", "configuration file (CUE or JSON)")
	fs.BoolVar(&f.tokens, "tokens", false, "print the tokens of each input")
	fs.BoolVar(&f.parse, "parse", false, "print the syntax tree of each input")
	fs.BoolVar(&f.format, "format", false, "re-indent the generated code")
	fs.BoolVar(&f.watch, "watch", false, "recompile inputs when they change")
	fs.IntVar(&f.jobs, "jobs", 0, "parallel compilations, 0 for one per CPU")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug|info|warn|error")
	fs.StringVar(&f.logJSON, "log-json", "", "also append JSON log records to this file")
	fs.BoolVar(&f.logJournal, "log-journal", false, "also log to the systemd journal")
	return fs, f
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs, f := newFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if f.version {
		if err := cli.PrintVersion(stdout, "tscpp", f.jsonOut); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	cfg, err := cli.LoadConfig(f.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	applyFlags(fs, f, cfg)

	level, err := cli.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger, closeLog, err := cli.NewLogger(stderr, cli.LogOptions{
		Level:    level,
		JSONPath: cfg.Log.JSON,
		Journal:  cfg.Log.Journal,
	})
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer closeLog()

	inputs := fs.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(stderr, "error: no input file specified")
		showUsage(stderr)
		return 1
	}

	if f.tokens || f.parse {
		if err := dump(inputs, f.tokens, f.parse, stdout); err != nil {
			report(stderr, err)
			return 1
		}
		return 0
	}

	opts := compiler.Options{
		Format: cfg.Format,
		Jobs:   cfg.Jobs,
		Logger: logger,
		Stdout: stdout,
	}
	jobs := compiler.Jobs(inputs, cfg.Output)

	if f.watch {
		if err := compiler.Watch(ctx, jobs, opts); err != nil {
			report(stderr, err)
			return 1
		}
		return 0
	}

	if err := compiler.Run(ctx, jobs, opts); err != nil {
		report(stderr, err)
		return 1
	}
	return 0
}

// applyFlags lets explicitly set flags override the configuration file.
func applyFlags(fs *flag.FlagSet, f *flags, cfg *cli.Config) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "o", "output":
			cfg.Output = f.output
		case "v", "verbose":
			cfg.Verbose = f.verbose
		case "format":
			cfg.Format = f.format
		case "jobs":
			cfg.Jobs = f.jobs
		case "log-level":
			cfg.Log.Level = f.logLevel
		case "log-json":
			cfg.Log.JSON = f.logJSON
		case "log-journal":
			cfg.Log.Journal = f.logJournal
		}
	})
}

// dump prints the tokens and/or tree of every input instead of compiling.
func dump(inputs []string, tokens, tree bool, w io.Writer) error {
	for _, path := range inputs {
		if err := dumpFile(path, tokens, tree, w); err != nil {
			return err
		}
	}
	return nil
}

func dumpFile(path string, tokens, tree bool, w io.Writer) error {
	f, err := source.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	toks, err := lexer.Lex(f.Source)
	if err != nil {
		f.Detach()
		return &compiler.Failure{Source: f.Source, Err: err}
	}
	if tokens {
		if err := lexer.Dump(w, f.Source, toks); err != nil {
			return err
		}
	}
	if !tree {
		return nil
	}

	parsed, err := parser.Parse(f.Source, toks)
	if err != nil {
		f.Detach()
		return &compiler.Failure{Source: f.Source, Err: err}
	}
	return ast.Fprint(w, f.Buffer, parsed)
}

func report(w io.Writer, err error) {
	var failure *compiler.Failure
	if errors.As(err, &failure) {
		failure.Show(w)
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

func showUsage(w io.Writer) {
	fmt.Fprintln(w, "tscpp - translate typed scripts to C++")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "    tscpp [OPTIONS] <INPUT_FILE>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "OPTIONS:")
	fmt.Fprintln(w, "    -o, --output      Output file, - for standard output (default a.cpp)")
	fmt.Fprintln(w, "    -v, --verbose     Log every compilation stage")
	fmt.Fprintln(w, "    --version         Show version information (--json for JSON)")
	fmt.Fprintln(w, "    --config          Configuration file, CUE or JSON (default tscpp.cue)")
	fmt.Fprintln(w, "    --tokens          Print the tokens of each input")
	fmt.Fprintln(w, "    --parse           Print the syntax tree of each input")
	fmt.Fprintln(w, "    --format          Re-indent the generated code")
	fmt.Fprintln(w, "    --watch           Recompile inputs when they change")
	fmt.Fprintln(w, "    --jobs            Parallel compilations, 0 for one per CPU")
	fmt.Fprintln(w, "    --log-level       debug|info|warn|error")
	fmt.Fprintln(w, "    --log-json        Also append JSON log records to a file")
	fmt.Fprintln(w, "    --log-journal     Also log to the systemd journal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "EXAMPLES:")
	fmt.Fprintln(w, "    tscpp hello.ts")
	fmt.Fprintln(w, "    tscpp -o - --format hello.ts")
	fmt.Fprintln(w, "    tscpp --watch a.ts b.ts")
}
