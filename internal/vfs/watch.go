package vfs

import (
	"context"
	"path/filepath"
	"sync"
	"time"
)

// PollWatcher is a polling-based watcher portable across OSes. It is the
// fallback when OS-native notifications are unavailable.
type PollWatcher struct {
	fs       FileSystem
	interval time.Duration
	evCh     chan Event
	erCh     chan error
	stop     context.CancelFunc
	done     chan struct{}

	mu    sync.Mutex
	files map[string]time.Time
}

// NewPollWatcher starts polling the added files every interval until Close
// is called or ctx is cancelled.
func NewPollWatcher(ctx context.Context, fs FileSystem, interval time.Duration) *PollWatcher {
	ctx, cancel := context.WithCancel(ctx)
	w := &PollWatcher{
		fs:       fs,
		interval: interval,
		evCh:     make(chan Event, 64),
		erCh:     make(chan error, 1),
		stop:     cancel,
		done:     make(chan struct{}),
		files:    make(map[string]time.Time),
	}
	go w.loop(ctx)
	return w
}

func (w *PollWatcher) Events() <-chan Event { return w.evCh }
func (w *PollWatcher) Errors() <-chan error { return w.erCh }

// Add records the current modification time of name; later changes are
// reported as write events.
func (w *PollWatcher) Add(name string) error {
	name = filepath.Clean(name)
	info, err := w.fs.Stat(name)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.files[name] = info.ModTime()
	w.mu.Unlock()
	return nil
}

func (w *PollWatcher) Remove(name string) error {
	w.mu.Lock()
	delete(w.files, filepath.Clean(name))
	w.mu.Unlock()
	return nil
}

func (w *PollWatcher) Close() error {
	w.stop()
	<-w.done
	return nil
}

func (w *PollWatcher) loop(ctx context.Context) {
	defer close(w.done)
	defer close(w.evCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, ev := range w.poll() {
				select {
				case w.evCh <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func (w *PollWatcher) poll() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()

	var events []Event
	for name, last := range w.files {
		info, err := w.fs.Stat(name)
		if err != nil {
			select {
			case w.erCh <- err:
			default:
			}
			continue
		}
		if info.ModTime().After(last) {
			w.files[name] = info.ModTime()
			events = append(events, Event{Path: name, Op: OpWrite, Time: time.Now()})
		}
	}
	return events
}
