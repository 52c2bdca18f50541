package pairing

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// DefaultExtension is the only input extension the merge run recognizes.
const DefaultExtension = ".mp3"

// ErrInvalidFilename marks a matching file whose numeric prefix cannot be parsed.
var ErrInvalidFilename = errors.New("invalid numbered filename")

// InvalidFilenameError reports the offending directory entry.
type InvalidFilenameError struct {
	Dir  string
	Name string
	Err  error
}

func (e *InvalidFilenameError) Error() string {
	return fmt.Sprintf("invalid numbered filename %q in %s: prefix is not an integer", e.Name, e.Dir)
}

func (e *InvalidFilenameError) Unwrap() error { return e.Err }

func (e *InvalidFilenameError) Is(target error) bool {
	return target == ErrInvalidFilename
}

// Entry is one numbered audio file discovered in an input directory.
type Entry struct {
	Name   string
	Path   string
	Number int
}

// ScanDir lists regular files in dir whose names end with ext and returns
// them ordered by the integer prefix before the first '.'. Names sharing a
// numeric value are ordered lexically so the result is deterministic. The
// prefix may carry a sign, so "-1.mp3" sorts before "0.mp3" and "+2.mp3"
// counts as 2.
func ScanDir(dir, ext string) ([]Entry, error) {
	if ext == "" {
		ext = DefaultExtension
	}
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		if !strings.HasSuffix(name, ext) {
			continue
		}
		number, err := parsePrefix(name)
		if err != nil {
			return nil, &InvalidFilenameError{Dir: dir, Name: name, Err: err}
		}
		entries = append(entries, Entry{
			Name:   name,
			Path:   filepath.Join(dir, name),
			Number: number,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Number != entries[j].Number {
			return entries[i].Number < entries[j].Number
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

func parsePrefix(name string) (int, error) {
	prefix, _, _ := strings.Cut(name, ".")
	return strconv.Atoi(prefix)
}

// CheckReadable verifies that path is a directory the process can list.
func CheckReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("input directory %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input directory %s: is not a directory", path)
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return fmt.Errorf("input directory %s: insufficient permissions: %w", path, err)
	}
	return nil
}
