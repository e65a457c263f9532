// Package vfs abstracts the file system operations of the compiler driver:
// atomic output writes and change notification for watch mode.
package vfs

import (
	"io"
	"io/fs"
	"strings"
	"time"
)

// File is a writable file handle within a FileSystem.
type File interface {
	io.Writer
	io.Closer
	Sync() error
}

// FileSystem abstracts the operations used to publish outputs.
type FileSystem interface {
	Create(name string) (File, error)
	Rename(oldpath, newpath string) error
	Remove(name string) error
	Stat(name string) (fs.FileInfo, error)
}

// WriteFile writes data to a temporary sibling of name and renames it into
// place, so readers never observe a partial file.
func WriteFile(fsys FileSystem, name string, data []byte) error {
	tmp := name + ".tmp"
	f, err := fsys.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		fsys.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		fsys.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		fsys.Remove(tmp)
		return err
	}
	if err := fsys.Rename(tmp, name); err != nil {
		fsys.Remove(tmp)
		return err
	}
	return nil
}

// WatchOp indicates a change operation in the filesystem.
type WatchOp uint32

const (
	OpCreate WatchOp = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

func (op WatchOp) String() string {
	var names []string
	for _, n := range []struct {
		op   WatchOp
		name string
	}{
		{OpCreate, "create"},
		{OpWrite, "write"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{OpChmod, "chmod"},
	} {
		if op&n.op != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Changed reports whether the event may have altered file contents.
func (op WatchOp) Changed() bool {
	return op&(OpCreate|OpWrite|OpRename) != 0
}

// Event describes a filesystem change event.
type Event struct {
	Path string
	Op   WatchOp
	Time time.Time
}

// Watcher provides a platform-independent file watching API.
type Watcher interface {
	Events() <-chan Event
	Errors() <-chan error
	Add(name string) error
	Remove(name string) error
	Close() error
}
