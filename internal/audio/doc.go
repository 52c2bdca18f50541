// Package audio holds the in-memory PCM clip type and the sample-level
// operations the merge pipeline needs: loudness measurement, uniform gain,
// and concatenation.
//
// Clips are interleaved signed 16-bit samples. Every operation returns a new
// Clip and leaves its inputs untouched, so callers can safely fall back to
// the original clip when a step fails.
package audio
