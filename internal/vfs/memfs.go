package vfs

import (
	"bytes"
	"io/fs"
	"path"
	"sync"
	"time"
)

// MemFS is an in-memory FileSystem. Written data becomes visible when the
// file is closed.
type MemFS struct {
	mu    sync.RWMutex
	files map[string]memEntry
}

type memEntry struct {
	data []byte
	mod  time.Time
}

func NewMem() *MemFS {
	return &MemFS{files: make(map[string]memEntry)}
}

type memFile struct {
	fsys   *MemFS
	name   string
	buf    bytes.Buffer
	closed bool
}

func (f *memFile) Write(p []byte) (int, error) {
	if f.closed {
		return 0, fs.ErrClosed
	}
	return f.buf.Write(p)
}

func (f *memFile) Sync() error {
	if f.closed {
		return fs.ErrClosed
	}
	return nil
}

func (f *memFile) Close() error {
	if f.closed {
		return fs.ErrClosed
	}
	f.closed = true
	f.fsys.mu.Lock()
	f.fsys.files[f.name] = memEntry{data: bytes.Clone(f.buf.Bytes()), mod: time.Now()}
	f.fsys.mu.Unlock()
	return nil
}

func (m *MemFS) Create(name string) (File, error) {
	return &memFile{fsys: m, name: path.Clean(name)}, nil
}

func (m *MemFS) Rename(oldpath, newpath string) error {
	oldpath, newpath = path.Clean(oldpath), path.Clean(newpath)
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.files[oldpath]
	if !ok {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: fs.ErrNotExist}
	}
	delete(m.files, oldpath)
	m.files[newpath] = e
	return nil
}

func (m *MemFS) Remove(name string) error {
	name = path.Clean(name)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	delete(m.files, name)
	return nil
}

func (m *MemFS) Stat(name string) (fs.FileInfo, error) {
	name = path.Clean(name)
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return fileInfo{name: path.Base(name), size: int64(len(e.data)), mod: e.mod}, nil
}

// ReadFile returns a copy of the committed contents of name.
func (m *MemFS) ReadFile(name string) ([]byte, error) {
	name = path.Clean(name)
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return bytes.Clone(e.data), nil
}

type fileInfo struct {
	name string
	size int64
	mod  time.Time
}

func (fi fileInfo) Name() string       { return fi.name }
func (fi fileInfo) Size() int64        { return fi.size }
func (fi fileInfo) Mode() fs.FileMode  { return 0o644 }
func (fi fileInfo) ModTime() time.Time { return fi.mod }
func (fi fileInfo) IsDir() bool        { return false }
func (fi fileInfo) Sys() any           { return nil }
