package audio

import (
	"errors"
	"fmt"
	"math"
)

// ErrUndefinedLoudness is returned when a clip has no measurable energy, or
// the requested target is not a finite number.
var ErrUndefinedLoudness = errors.New("loudness undefined")

// Normalize applies a uniform gain of (target - measured) dB so the returned
// clip measures approximately targetDBFS. It returns the gain applied.
//
// On error the original clip is returned unchanged alongside a zero gain.
func Normalize(clip Clip, targetDBFS float64) (Clip, float64, error) {
	if math.IsInf(targetDBFS, 0) || math.IsNaN(targetDBFS) {
		return clip, 0, fmt.Errorf("target %v dBFS: %w", targetDBFS, ErrUndefinedLoudness)
	}
	measured := clip.DBFS()
	if math.IsInf(measured, 0) || math.IsNaN(measured) {
		return clip, 0, fmt.Errorf("measured %v dBFS: %w", measured, ErrUndefinedLoudness)
	}
	gain := targetDBFS - measured
	return clip.ApplyGain(gain), gain, nil
}
