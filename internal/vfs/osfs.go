package vfs

import (
	"io/fs"
	"os"
)

// OSFS is the FileSystem backed by the operating system.
type OSFS struct{}

func NewOS() *OSFS { return &OSFS{} }

func (fsys *OSFS) Create(name string) (File, error)      { return os.Create(name) }
func (fsys *OSFS) Rename(oldpath, newpath string) error  { return os.Rename(oldpath, newpath) }
func (fsys *OSFS) Remove(name string) error              { return os.Remove(name) }
func (fsys *OSFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }
