package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EnsureDir creates dir and any missing parents. Calling it on an existing
// directory is a no-op.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("create directory %q: not a directory", dir)
	}
	return nil
}

// AtomicWrite streams content produced by write into a temp file beside dst
// and renames it into place once write succeeds. dst is never left
// half-written; the temp file is removed on any failure.
// It returns the number of bytes in the final file.
func AtomicWrite(dst string, mode os.FileMode, write func(io.Writer) error) (int64, error) {
	dir := filepath.Dir(dst)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	counter := &countingWriter{w: tmp}
	if err := write(counter); err != nil {
		return 0, err
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return 0, fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return 0, fmt.Errorf("rename into place: %w", err)
	}
	committed = true
	return counter.n, nil
}

// AtomicWriteFile runs fill with the path of a temp file beside dst, for
// producers such as external binaries that need a filename rather than a
// writer. On success the temp file is renamed to dst.
func AtomicWriteFile(dst string, mode os.FileMode, fill func(tmpPath string) error) (int64, error) {
	dir := filepath.Dir(dst)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("close temp file: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := fill(tmpPath); err != nil {
		return 0, err
	}
	info, err := os.Stat(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("stat temp file: %w", err)
	}
	if info.Size() == 0 {
		return 0, errors.New("producer wrote an empty file")
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return 0, fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return 0, fmt.Errorf("rename into place: %w", err)
	}
	committed = true
	return info.Size(), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
