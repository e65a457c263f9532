package compiler

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/orizon-lang/tscpp/internal/diagnostic"
	"github.com/orizon-lang/tscpp/internal/vfs"
)

// PollInterval is used when OS-native notifications are unavailable.
var PollInterval = 500 * time.Millisecond

// Watch compiles every job, then recompiles a job whenever its input
// changes. Failures are logged and watching continues. Watch returns when
// ctx is cancelled.
func Watch(ctx context.Context, jobs []Job, opts Options) error {
	log := opts.logger()

	var w vfs.Watcher
	fw, err := vfs.NewFSWatcher()
	if err != nil {
		log.Warn("native file watching unavailable, polling", "error", err)
		w = vfs.NewPollWatcher(ctx, opts.fs(), PollInterval)
	} else {
		w = fw
	}
	defer w.Close()

	return watch(ctx, w, jobs, opts)
}

func watch(ctx context.Context, w vfs.Watcher, jobs []Job, opts Options) error {
	log := opts.logger()

	byInput := make(map[string][]int, len(jobs))
	for i, job := range jobs {
		name := filepath.Clean(job.Input)
		if err := w.Add(name); err != nil {
			return err
		}
		byInput[name] = append(byInput[name], i)
		rebuild(ctx, log, job, opts)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if !ev.Op.Changed() {
				continue
			}
			for _, i := range byInput[filepath.Clean(ev.Path)] {
				log.Debug("input changed", "path", ev.Path, "op", ev.Op.String())
				rebuild(ctx, log, jobs[i], opts)
			}
		case err := <-w.Errors():
			log.Warn("watch error", "error", err)
		}
	}
}

// rebuild compiles and publishes one job, logging instead of failing.
func rebuild(ctx context.Context, log *slog.Logger, job Job, opts Options) {
	res, err := CompileFile(ctx, job.Input, opts)
	if err == nil {
		err = publish(opts, job, res.Output)
	}
	if err == nil {
		log.Info("translated", "input", job.Input, "output", job.Output, "bytes", len(res.Output))
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}

	if d, ok := diagnostic.From(err); ok {
		log.Error(d.Message,
			"path", d.Path,
			"line", d.Line,
			"column", d.Column,
			"code", d.Code,
			"category", string(d.Category),
		)
		return
	}
	log.Error("compile failed", "input", job.Input, "error", err)
}
