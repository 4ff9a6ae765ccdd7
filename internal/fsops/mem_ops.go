package fsops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Compile-time check that MemOps implements Ops.
var _ Ops = (*MemOps)(nil)

// MemOps is an in-memory Ops implementation for tests. It records every
// mutating call so tests can assert how often physical work happened.
type MemOps struct {
	mu    sync.Mutex
	files map[string]time.Time
	dirs  map[string]bool
	links map[string]string // destination -> source

	copyDirCalls  int
	copyFileCalls int
	symlinkCalls  int

	// SymlinkErr, when set, is returned by every Symlink call.
	SymlinkErr error
	// SymlinkHook, when set, runs before Symlink checks SymlinkErr. Tests use
	// it to simulate a concurrent publisher creating the destination first.
	SymlinkHook func(src, dst string)
}

// NewMemOps creates an empty in-memory filesystem.
func NewMemOps() *MemOps {
	return &MemOps{
		files: make(map[string]time.Time),
		dirs:  make(map[string]bool),
		links: make(map[string]string),
	}
}

// AddFile records a file with the given modification time.
func (o *MemOps) AddFile(path string, mtime time.Time) *MemOps {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.files[path] = mtime
	for dir := filepath.Dir(path); dir != "/" && dir != "."; dir = filepath.Dir(dir) {
		o.dirs[dir] = true
	}
	return o
}

// AddDir records a directory.
func (o *MemOps) AddDir(path string) *MemOps {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dirs[path] = true
	return o
}

// Exists reports whether path was recorded as a file, directory or link.
func (o *MemOps) Exists(path string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.files[path]; ok {
		return true
	}
	if o.dirs[path] {
		return true
	}
	_, ok := o.links[path]
	return ok
}

// IsFile reports whether path was recorded as a file.
func (o *MemOps) IsFile(path string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.files[path]
	return ok
}

// ModTime returns the recorded modification time of path.
// Directories report a fixed epoch so hash inputs stay deterministic.
func (o *MemOps) ModTime(path string) (time.Time, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if mtime, ok := o.files[path]; ok {
		return mtime, nil
	}
	if o.dirs[path] {
		return time.Unix(1700000000, 0), nil
	}
	return time.Time{}, fmt.Errorf("stat %s: %w", path, os.ErrNotExist)
}

// EnsureDir records path as a directory.
func (o *MemOps) EnsureDir(path string, mode os.FileMode) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for dir := path; dir != "/" && dir != "."; dir = filepath.Dir(dir) {
		o.dirs[dir] = true
	}
	return nil
}

// CopyDir records a recursive copy: the destination becomes a directory and
// every file under the source appears under the destination with its
// modification time preserved.
func (o *MemOps) CopyDir(src, dst string, dirMode, fileMode os.FileMode) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.copyDirCalls++
	o.dirs[dst] = true

	copied := make(map[string]time.Time)
	for path, mtime := range o.files {
		if strings.HasPrefix(path, src+"/") {
			copied[dst+path[len(src):]] = mtime
		}
	}
	for path, mtime := range copied {
		o.files[path] = mtime
		for dir := filepath.Dir(path); dir != "/" && dir != "."; dir = filepath.Dir(dir) {
			o.dirs[dir] = true
		}
	}
	return nil
}

// CopyFile records a file copy, carrying over the source modification time.
func (o *MemOps) CopyFile(src, dst string, fileMode os.FileMode) error {
	o.mu.Lock()
	mtime, ok := o.files[src]
	if !ok {
		mtime = time.Unix(1700000000, 0)
	}
	o.copyFileCalls++
	o.files[dst] = mtime
	o.mu.Unlock()
	return nil
}

// Symlink records a link from dst to src, honoring SymlinkHook and SymlinkErr.
func (o *MemOps) Symlink(src, dst string) error {
	o.mu.Lock()
	o.symlinkCalls++
	hook := o.SymlinkHook
	o.mu.Unlock()

	if hook != nil {
		hook(src, dst)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.SymlinkErr != nil {
		return o.SymlinkErr
	}
	o.links[dst] = src
	return nil
}

// CopyDirCount returns how many recursive copies were performed.
func (o *MemOps) CopyDirCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.copyDirCalls
}

// CopyFileCount returns how many single-file copies were performed.
func (o *MemOps) CopyFileCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.copyFileCalls
}

// SymlinkCount returns how many symlink attempts were made.
func (o *MemOps) SymlinkCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.symlinkCalls
}

// LinkTarget returns the recorded source for a link destination.
func (o *MemOps) LinkTarget(dst string) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	src, ok := o.links[dst]
	return src, ok
}
