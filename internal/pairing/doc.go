// Package pairing discovers numbered audio files and lines up the two input
// directories by position.
//
// ScanDir is strict: one name with a non-numeric prefix fails the whole
// directory because the ordering would otherwise be undefined. Zip is lenient:
// lists of different lengths are truncated to the shorter one and the caller
// decides how loudly to report the dropped files.
package pairing
