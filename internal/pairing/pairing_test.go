package pairing

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func entryNames(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestScanDirSortsNumerically(t *testing.T) {
	dir := t.TempDir()
	names := make([]string, 0, 25)
	for i := 1; i <= 25; i++ {
		names = append(names, strconv.Itoa(i)+".mp3")
	}
	rand.New(rand.NewSource(7)).Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
	touch(t, dir, names...)

	entries, err := ScanDir(dir, ".mp3")
	if err != nil {
		t.Fatalf("ScanDir returned error: %v", err)
	}
	if len(entries) != 25 {
		t.Fatalf("expected 25 entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Number <= entries[i-1].Number {
			t.Fatalf("order not strictly increasing at %d: %v", i, entryNames(entries))
		}
	}
	if entries[0].Name != "1.mp3" || entries[24].Name != "25.mp3" {
		t.Fatalf("unexpected bounds: %s .. %s", entries[0].Name, entries[24].Name)
	}
	if entries[9].Path != filepath.Join(dir, "10.mp3") {
		t.Fatalf("unexpected path %q", entries[9].Path)
	}
}

func TestScanDirIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "2.mp3", "1.mp3", "notes.txt", "3.wav", "cover.jpg", "4.MP3")
	if err := os.Mkdir(filepath.Join(dir, "5.mp3"), 0o755); err != nil {
		t.Fatal(err)
	}

	entries, err := ScanDir(dir, ".mp3")
	if err != nil {
		t.Fatalf("ScanDir returned error: %v", err)
	}
	got := entryNames(entries)
	if len(got) != 2 || got[0] != "1.mp3" || got[1] != "2.mp3" {
		t.Fatalf("unexpected entries: %v", got)
	}
}

func TestScanDirUsesPrefixBeforeFirstDot(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "10.final.mp3", "9.mp3", "011.mp3")

	entries, err := ScanDir(dir, "")
	if err != nil {
		t.Fatalf("ScanDir returned error: %v", err)
	}
	want := []int{9, 10, 11}
	for i, e := range entries {
		if e.Number != want[i] {
			t.Fatalf("entry %d number = %d, want %d (%v)", i, e.Number, want[i], entryNames(entries))
		}
	}
}

func TestScanDirTieBreaksByName(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "1.mp3", "01.mp3", "001.mp3")

	entries, err := ScanDir(dir, ".mp3")
	if err != nil {
		t.Fatalf("ScanDir returned error: %v", err)
	}
	got := entryNames(entries)
	want := []string{"001.mp3", "01.mp3", "1.mp3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestScanDirRejectsNonNumericName(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "1.mp3", "intro.mp3")

	_, err := ScanDir(dir, ".mp3")
	if !errors.Is(err, ErrInvalidFilename) {
		t.Fatalf("expected ErrInvalidFilename, got %v", err)
	}
	var invalid *InvalidFilenameError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *InvalidFilenameError, got %T", err)
	}
	if invalid.Name != "intro.mp3" || invalid.Dir != dir {
		t.Fatalf("unexpected error detail: %+v", invalid)
	}
}

func TestScanDirMissingDirectory(t *testing.T) {
	_, err := ScanDir(filepath.Join(t.TempDir(), "missing"), ".mp3")
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestCheckReadable(t *testing.T) {
	dir := t.TempDir()
	if err := CheckReadable(dir); err != nil {
		t.Fatalf("CheckReadable(%s): %v", dir, err)
	}
	file := filepath.Join(dir, "1.mp3")
	touch(t, dir, "1.mp3")
	if err := CheckReadable(file); err == nil {
		t.Fatal("expected error for regular file")
	}
	if err := CheckReadable(filepath.Join(dir, "nope")); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func makeEntries(n int) []Entry {
	out := make([]Entry, n)
	for i := range out {
		name := strconv.Itoa(i+1) + ".mp3"
		out[i] = Entry{Name: name, Path: "/in/" + name, Number: i + 1}
	}
	return out
}

func TestZipTruncatesToShorterList(t *testing.T) {
	first := makeEntries(3)
	second := makeEntries(5)

	pairs, mismatch := Zip(first, second)
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(pairs))
	}
	for i, p := range pairs {
		if p.Index != i+1 {
			t.Fatalf("pair %d index = %d", i, p.Index)
		}
		if p.First != first[i] || p.Second != second[i] {
			t.Fatalf("pair %d mismatched: %+v", i, p)
		}
	}
	if !mismatch.Truncated() {
		t.Fatal("expected truncation to be reported")
	}
	if mismatch.First != 3 || mismatch.Second != 5 || mismatch.Dropped() != 2 {
		t.Fatalf("unexpected mismatch: %+v dropped=%d", mismatch, mismatch.Dropped())
	}
}

func TestZipEqualLengths(t *testing.T) {
	pairs, mismatch := Zip(makeEntries(4), makeEntries(4))
	if len(pairs) != 4 {
		t.Fatalf("expected 4 pairs, got %d", len(pairs))
	}
	if mismatch.Truncated() || mismatch.Dropped() != 0 {
		t.Fatalf("unexpected mismatch: %+v", mismatch)
	}
}

func TestZipEmpty(t *testing.T) {
	pairs, mismatch := Zip(nil, makeEntries(2))
	if len(pairs) != 0 {
		t.Fatalf("expected no pairs, got %d", len(pairs))
	}
	if !mismatch.Truncated() || mismatch.Dropped() != 2 {
		t.Fatalf("unexpected mismatch: %+v", mismatch)
	}
}

func TestScanDirAcceptsSignedPrefixes(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "1.mp3", "+2.mp3", "0.mp3", "-1.mp3")

	entries, err := ScanDir(dir, DefaultExtension)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	got := entryNames(entries)
	want := []string{"-1.mp3", "0.mp3", "1.mp3", "+2.mp3"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if entries[0].Number != -1 || entries[3].Number != 2 {
		t.Fatalf("unexpected numbers %d and %d", entries[0].Number, entries[3].Number)
	}
}
