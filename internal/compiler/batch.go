package compiler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/tscpp/internal/vfs"
)

// Stdout is the output name that selects standard output.
const Stdout = "-"

// Job pairs an input file with the path its translation is written to.
type Job struct {
	Input  string
	Output string
}

// Jobs derives output paths for inputs. A single input is written to
// output. Several inputs each get "<input>.cpp" unless output is Stdout,
// in which case all translations go to standard output in input order.
func Jobs(inputs []string, output string) []Job {
	jobs := make([]Job, len(inputs))
	for i, in := range inputs {
		out := output
		if len(inputs) > 1 && output != Stdout {
			out = in + ".cpp"
		}
		jobs[i] = Job{Input: in, Output: out}
	}
	return jobs
}

// CompileAll compiles every job in parallel. Results are returned in job
// order. The first failure cancels the remaining compilations.
func CompileAll(ctx context.Context, jobs []Job, opts Options) ([]*Result, error) {
	results := make([]*Result, len(jobs))

	limit := opts.Jobs
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := CompileFile(ctx, job.Input, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Run compiles all jobs and publishes their outputs. Nothing is written
// unless every job compiled.
func Run(ctx context.Context, jobs []Job, opts Options) error {
	results, err := CompileAll(ctx, jobs, opts)
	if err != nil {
		return err
	}

	log := opts.logger()
	for i, job := range jobs {
		if err := publish(opts, job, results[i].Output); err != nil {
			return err
		}
		log.Info("translated", "input", job.Input, "output", job.Output, "bytes", len(results[i].Output))
	}
	return nil
}

func publish(opts Options, job Job, out []byte) error {
	if job.Output == Stdout {
		w := opts.Stdout
		if w == nil {
			w = os.Stdout
		}
		if _, err := io.Copy(w, bytes.NewReader(out)); err != nil {
			return fmt.Errorf("failed to write output of %s: %w", job.Input, err)
		}
		return nil
	}
	if err := vfs.WriteFile(opts.fs(), job.Output, out); err != nil {
		return fmt.Errorf("failed to write %s: %w", job.Output, err)
	}
	return nil
}
