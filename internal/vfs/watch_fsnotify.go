package vfs

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FSNotifyWatcher implements Watcher using fsnotify for OS-native notifications.
// Files are watched through their parent directory, which keeps the watch
// alive when editors replace a file by renaming a new one over it.
type FSNotifyWatcher struct {
	w   *fsnotify.Watcher
	evC chan Event
	erC chan error

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	mu    sync.Mutex
	files map[string]bool
	dirs  map[string]int
}

// NewFSWatcher creates a new FSNotifyWatcher.
func NewFSWatcher() (*FSNotifyWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &FSNotifyWatcher{
		w:       w,
		evC:     make(chan Event, 128),
		erC:     make(chan error, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		files:   make(map[string]bool),
		dirs:    make(map[string]int),
	}
	go fw.loop()
	return fw, nil
}

func (fw *FSNotifyWatcher) loop() {
	defer close(fw.stopped)
	defer close(fw.evC)
	for {
		select {
		case <-fw.done:
			return
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			name := filepath.Clean(ev.Name)
			if !fw.watching(name) {
				continue
			}
			select {
			case fw.evC <- Event{Path: name, Op: convertOp(ev.Op), Time: time.Now()}:
			case <-fw.done:
				return
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			select {
			case fw.erC <- err:
			default:
			}
		}
	}
}

func convertOp(in fsnotify.Op) WatchOp {
	var op WatchOp
	if in&fsnotify.Create != 0 {
		op |= OpCreate
	}
	if in&fsnotify.Write != 0 {
		op |= OpWrite
	}
	if in&fsnotify.Remove != 0 {
		op |= OpRemove
	}
	if in&fsnotify.Rename != 0 {
		op |= OpRename
	}
	if in&fsnotify.Chmod != 0 {
		op |= OpChmod
	}
	return op
}

func (fw *FSNotifyWatcher) watching(name string) bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.files[name]
}

func (fw *FSNotifyWatcher) Events() <-chan Event { return fw.evC }
func (fw *FSNotifyWatcher) Errors() <-chan error { return fw.erC }

// Add starts reporting events for the file name.
func (fw *FSNotifyWatcher) Add(name string) error {
	name = filepath.Clean(name)
	dir := filepath.Dir(name)

	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.files[name] {
		return nil
	}
	if fw.dirs[dir] == 0 {
		if err := fw.w.Add(dir); err != nil {
			return err
		}
	}
	fw.dirs[dir]++
	fw.files[name] = true
	return nil
}

// Remove stops reporting events for the file name.
func (fw *FSNotifyWatcher) Remove(name string) error {
	name = filepath.Clean(name)
	dir := filepath.Dir(name)

	fw.mu.Lock()
	defer fw.mu.Unlock()
	if !fw.files[name] {
		return nil
	}
	delete(fw.files, name)
	fw.dirs[dir]--
	if fw.dirs[dir] == 0 {
		delete(fw.dirs, dir)
		return fw.w.Remove(dir)
	}
	return nil
}

// Close stops the watcher. Events is closed once the loop has exited, even
// when nobody drains it.
func (fw *FSNotifyWatcher) Close() error {
	fw.closeOnce.Do(func() { close(fw.done) })
	err := fw.w.Close()
	<-fw.stopped
	return err
}
