package vfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteFile_OS(t *testing.T) {
	fsys := NewOS()
	p := filepath.Join(t.TempDir(), "a.cpp")

	if err := WriteFile(fsys, p, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q", got)
	}
	if _, err := os.Stat(p + ".tmp"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("temporary file left behind: %v", err)
	}
}

func TestWriteFile_Mem(t *testing.T) {
	m := NewMem()
	if err := WriteFile(m, "/out/a.cpp", []byte("x")); err != nil {
		t.Fatal(err)
	}
	got, err := m.ReadFile("/out/a.cpp")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "x" {
		t.Fatalf("got %q", got)
	}
	if _, err := m.Stat("/out/a.cpp.tmp"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("temporary file left behind: %v", err)
	}
	info, err := m.Stat("/out/a.cpp")
	if err != nil {
		t.Fatal(err)
	}
	if info.Name() != "a.cpp" || info.Size() != 1 {
		t.Fatalf("stat = %s %d", info.Name(), info.Size())
	}
}

func TestMemFS_UncommittedWritesAreInvisible(t *testing.T) {
	m := NewMem()
	f, err := m.Create("/a")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte("partial")); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Stat("/a"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("uncommitted file is visible: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); !errors.Is(err, fs.ErrClosed) {
		t.Fatalf("second Close = %v", err)
	}
	if err := m.Remove("/a"); err != nil {
		t.Fatal(err)
	}
	if err := m.Rename("/a", "/b"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("rename of removed file = %v", err)
	}
}

func TestWatchOp(t *testing.T) {
	tests := []struct {
		op      WatchOp
		name    string
		changed bool
	}{
		{0, "none", false},
		{OpWrite, "write", true},
		{OpCreate | OpChmod, "create|chmod", true},
		{OpRemove, "remove", false},
		{OpChmod, "chmod", false},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.op.Changed(); got != tt.changed {
			t.Errorf("%s.Changed() = %v, want %v", tt.name, got, tt.changed)
		}
	}
}

func TestWatcher_Polling(t *testing.T) {
	p := filepath.Join(t.TempDir(), "w.ts")
	if err := os.WriteFile(p, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(p, past, past); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	w := NewPollWatcher(ctx, NewOS(), 20*time.Millisecond)
	defer w.Close()
	if err := w.Add(p); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(p, []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-w.Events():
		if ev.Path != p || ev.Op != OpWrite {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-ctx.Done():
		t.Fatal("timeout")
	}
}

func TestWatcher_FSNotify(t *testing.T) {
	fw, err := NewFSWatcher()
	if err != nil {
		t.Skip("fsnotify not supported: ", err)
	}
	defer fw.Close()

	dir := t.TempDir()
	watched := filepath.Join(dir, "f.ts")
	if err := os.WriteFile(watched, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := fw.Add(watched); err != nil {
		t.Fatal(err)
	}

	go func() {
		_ = os.WriteFile(filepath.Join(dir, "other.ts"), []byte("x"), 0o644)
		_ = os.WriteFile(watched, []byte("y"), 0o644)
	}()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-fw.Events():
			if ev.Path != watched {
				t.Fatalf("event for unwatched file %q", ev.Path)
			}
			return
		case <-timeout:
			t.Fatal("timeout waiting for fsnotify event")
		}
	}
}

func TestWatcher_FSNotifyCloseWithFullBuffer(t *testing.T) {
	fw, err := NewFSWatcher()
	if err != nil {
		t.Skip("fsnotify not supported: ", err)
	}

	dir := t.TempDir()
	events := fw.Events()
	for i := 0; i < cap(events)+16; i++ {
		name := filepath.Join(dir, fmt.Sprintf("f%d.ts", i))
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := fw.Add(name); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(name, []byte("y"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(events) < cap(events) {
		if time.Now().After(deadline) {
			t.Skip("event buffer never filled")
		}
		time.Sleep(10 * time.Millisecond)
	}

	closed := make(chan error, 1)
	go func() { closed <- fw.Close() }()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close blocked on a full event buffer")
	}

	for range events {
	}
}
