// Package logging assembles the structured slog loggers used by pairmerge.
//
// Console output is either a compact single-line format or JSON. When a log
// directory is configured, every record is also written as JSON to a
// size-rotated pairmerge.log. Run and pair identifiers placed on the context
// with WithRunID and WithPairIndex are attached to records logged through the
// *Context methods.
package logging
