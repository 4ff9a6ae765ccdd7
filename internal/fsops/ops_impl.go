package fsops

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Compile-time check that RealOps implements Ops.
var _ Ops = (*RealOps)(nil)

// RealOps implements Ops against the operating system.
type RealOps struct{}

// NewRealOps creates a new RealOps.
func NewRealOps() *RealOps {
	return &RealOps{}
}

// Exists reports whether path exists.
func (o *RealOps) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsFile reports whether path exists and is a regular file.
func (o *RealOps) IsFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// ModTime returns the last-modified time of path.
func (o *RealOps) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.ModTime(), nil
}

// EnsureDir creates path and any missing parents.
func (o *RealOps) EnsureDir(path string, mode os.FileMode) error {
	if err := os.MkdirAll(path, mode); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}

// CopyDir recursively copies the directory src to dst.
func (o *RealOps) CopyDir(src, dst string, dirMode, fileMode os.FileMode) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return o.EnsureDir(target, dirMode)
		}
		return o.CopyFile(path, target, fileMode)
	})
}

// CopyFile copies a single file from src to dst.
func (o *RealOps) CopyFile(src, dst string, fileMode os.FileMode) error {
	in, err := os.Open(src) //nolint:gosec // G304: src is a resolved bundle source path
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fileMode) //nolint:gosec // G304: dst is under the publish base path
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}
	return nil
}

// Symlink creates a symbolic link at dst pointing to src.
func (o *RealOps) Symlink(src, dst string) error {
	return os.Symlink(src, dst)
}
