// Package merge runs one pairing pass: it scans the two input directories,
// pairs their clips by position, and for every pair decodes both clips,
// optionally normalizes their loudness, concatenates them, and writes the
// result to the output directory.
//
// Setup problems (unreadable directories, malformed filenames, an output
// directory that cannot be created or is locked by another run) abort the
// run with an error. Problems with an individual pair are logged, recorded
// in that pair's Result, and never stop the remaining pairs.
package merge
