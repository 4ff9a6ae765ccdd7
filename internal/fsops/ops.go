// Package fsops provides the filesystem collaborator used by publishing and
// collection. The core never touches the disk directly; it goes through Ops
// so tests can substitute the in-memory implementation.
package fsops

import (
	"os"
	"time"
)

// Ops defines the low-level filesystem operations the core depends on.
// This abstraction allows for easy testing with the in-memory implementation.
type Ops interface {
	// Exists reports whether path exists (file or directory).
	Exists(path string) bool
	// IsFile reports whether path exists and is a regular file.
	IsFile(path string) bool
	// ModTime returns the last-modified time of path.
	ModTime(path string) (time.Time, error)
	// EnsureDir creates path (and missing parents) with the given mode.
	// Existing directories are left untouched.
	EnsureDir(path string, mode os.FileMode) error
	// CopyDir recursively copies the directory src to dst.
	CopyDir(src, dst string, dirMode, fileMode os.FileMode) error
	// CopyFile copies a single file from src to dst.
	CopyFile(src, dst string, fileMode os.FileMode) error
	// Symlink creates a symbolic link at dst pointing to src.
	Symlink(src, dst string) error
}
